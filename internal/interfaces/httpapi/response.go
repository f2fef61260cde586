package httpapi

import (
	"context"
	"net/http"

	sonic "github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/pelada-balancer/internal/usecase"
)

const internalErrorDetail = "internal server error"

// errorBody is the only error shape the API returns. detail is meant for
// people; reason and status are stable for clients.
type errorBody struct {
	Detail string `json:"detail"`
	Reason string `json:"reason"`
	Status string `json:"status"`
}

type mappedError struct {
	HTTPStatus int
	Reason     string
	Status     string
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	_, span := startSpan(ctx, "httpapi.writeJSON")
	defer span.End()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = sonic.ConfigDefault.NewEncoder(w).Encode(payload)
}

func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	ctx, span := startSpan(ctx, "httpapi.writeError")
	defer span.End()

	mapped := mapError(err)
	detail := err.Error()
	if mapped.HTTPStatus == http.StatusInternalServerError {
		detail = internalErrorDetail
	}

	writeJSON(ctx, w, mapped.HTTPStatus, errorBody{
		Detail: detail,
		Reason: mapped.Reason,
		Status: mapped.Status,
	})
}

func writeInternalError(ctx context.Context, w http.ResponseWriter) {
	writeJSON(ctx, w, http.StatusInternalServerError, errorBody{
		Detail: internalErrorDetail,
		Reason: "internalError",
		Status: "INTERNAL",
	})
}

func mapError(err error) mappedError {
	switch {
	case errors.Is(err, usecase.ErrInsufficientPlayers):
		return mappedError{
			HTTPStatus: http.StatusBadRequest,
			Reason:     "insufficientPlayers",
			Status:     "FAILED_PRECONDITION",
		}
	case errors.Is(err, usecase.ErrUnsatisfiableFormation):
		return mappedError{
			HTTPStatus: http.StatusUnprocessableEntity,
			Reason:     "unsatisfiableFormation",
			Status:     "FAILED_PRECONDITION",
		}
	case errors.Is(err, usecase.ErrInvalidInput):
		return mappedError{
			HTTPStatus: http.StatusBadRequest,
			Reason:     "invalidInput",
			Status:     "INVALID_ARGUMENT",
		}
	case errors.Is(err, usecase.ErrNotFound):
		return mappedError{
			HTTPStatus: http.StatusNotFound,
			Reason:     "notFound",
			Status:     "NOT_FOUND",
		}
	case errors.Is(err, usecase.ErrConflict):
		return mappedError{
			HTTPStatus: http.StatusConflict,
			Reason:     "conflict",
			Status:     "ALREADY_EXISTS",
		}
	case errors.Is(err, usecase.ErrDependencyUnavailable):
		return mappedError{
			HTTPStatus: http.StatusServiceUnavailable,
			Reason:     "dependencyUnavailable",
			Status:     "UNAVAILABLE",
		}
	default:
		return mappedError{
			HTTPStatus: http.StatusInternalServerError,
			Reason:     "internalError",
			Status:     "INTERNAL",
		}
	}
}
