package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	sonic "github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/pelada-balancer/internal/usecase"
)

func TestWriteError_MapsSentinels(t *testing.T) {
	tests := []struct {
		err        error
		wantStatus int
		wantReason string
		wantCode   string
	}{
		{usecase.ErrInsufficientPlayers, http.StatusBadRequest, "insufficientPlayers", "FAILED_PRECONDITION"},
		{usecase.ErrUnsatisfiableFormation, http.StatusUnprocessableEntity, "unsatisfiableFormation", "FAILED_PRECONDITION"},
		{usecase.ErrInvalidInput, http.StatusBadRequest, "invalidInput", "INVALID_ARGUMENT"},
		{usecase.ErrNotFound, http.StatusNotFound, "notFound", "NOT_FOUND"},
		{usecase.ErrConflict, http.StatusConflict, "conflict", "ALREADY_EXISTS"},
		{usecase.ErrDependencyUnavailable, http.StatusServiceUnavailable, "dependencyUnavailable", "UNAVAILABLE"},
	}

	for _, tt := range tests {
		t.Run(tt.wantReason, func(t *testing.T) {
			err := errors.Mark(errors.New("bad payload"), tt.err)

			rec := httptest.NewRecorder()
			writeError(context.Background(), rec, err)

			if rec.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d", tt.wantStatus, rec.Code)
			}
			if got := rec.Header().Get("Content-Type"); got != "application/json" {
				t.Fatalf("unexpected content type %q", got)
			}

			var body errorBody
			if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("unmarshal response body: %v", err)
			}
			if body.Reason != tt.wantReason || body.Status != tt.wantCode {
				t.Fatalf("unexpected body: %+v", body)
			}
			if body.Detail != "bad payload" {
				t.Fatalf("expected detail to carry the message, got %q", body.Detail)
			}
		})
	}
}

func TestWriteError_HidesInternalDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(context.Background(), rec, errors.New("dial tcp 10.0.0.7:5432: connection refused"))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rec.Code)
	}

	var body map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}
	if body["detail"] != internalErrorDetail || body["reason"] != "internalError" || body["status"] != "INTERNAL" {
		t.Fatalf("unexpected body: %+v", body)
	}
	if len(body) != 3 {
		t.Fatalf("error body must only carry detail, reason and status, got %+v", body)
	}
}

func TestMapError_InsufficientWinsOverInvalidInput(t *testing.T) {
	err := errors.Mark(errors.Mark(errors.New("too few"), usecase.ErrInsufficientPlayers), usecase.ErrInvalidInput)

	if got := mapError(err).Reason; got != "insufficientPlayers" {
		t.Fatalf("expected insufficientPlayers, got %q", got)
	}
}
