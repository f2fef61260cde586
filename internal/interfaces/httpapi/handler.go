package httpapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/pelada-balancer/internal/domain/player"
	"github.com/riskibarqy/pelada-balancer/internal/platform/logging"
	"github.com/riskibarqy/pelada-balancer/internal/usecase"
)

const maxRequestBodyBytes = 1 << 20

type Handler struct {
	rosterService *usecase.RosterService
	teamService   *usecase.TeamService
	logger        *logging.Logger
	validator     *validator.Validate
}

func NewHandler(rosterService *usecase.RosterService, teamService *usecase.TeamService, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		rosterService: rosterService,
		teamService:   teamService,
		logger:        logger,
		validator:     newValidator(),
	}
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("position", func(fl validator.FieldLevel) bool {
		return player.Position(fl.Field().String()).Valid()
	})
	return v
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeJSON(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) Favicon(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

// decodeJSON reads exactly one JSON value and rejects unknown fields.
func decodeJSON(r *http.Request, target any) error {
	decoder := sonic.ConfigDefault.NewDecoder(io.LimitReader(r.Body, maxRequestBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(target); err != nil {
		return errors.Mark(errors.Wrap(err, "invalid JSON payload"), usecase.ErrInvalidInput)
	}
	return nil
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return errors.Mark(errors.Newf("validation failed: %s", describeValidation(err)), usecase.ErrInvalidInput)
	}
	return nil
}

func (h *Handler) validateList(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateList")
	defer span.End()

	if err := h.validator.VarCtx(ctx, payload, "dive"); err != nil {
		return errors.Mark(errors.Newf("validation failed: %s", describeValidation(err)), usecase.ErrInvalidInput)
	}
	return nil
}

func describeValidation(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err.Error()
	}

	parts := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		field := fe.Namespace()
		if i := strings.Index(field, "."); i >= 0 && !strings.HasPrefix(field, "[") {
			field = field[i+1:]
		}

		switch fe.Tag() {
		case "required":
			parts = append(parts, fmt.Sprintf("%s is required", field))
		case "position":
			parts = append(parts, fmt.Sprintf("%s %q is not one of %s", field, fe.Value(), positionList()))
		case "min":
			parts = append(parts, fmt.Sprintf("%s must be at least %s", field, fe.Param()))
		case "max":
			parts = append(parts, fmt.Sprintf("%s must be at most %s", field, fe.Param()))
		default:
			parts = append(parts, fmt.Sprintf("%s failed %s", field, fe.Tag()))
		}
	}
	return strings.Join(parts, "; ")
}

func positionList() string {
	codes := make([]string, 0, len(player.AllPositions))
	for _, p := range player.AllPositions {
		codes = append(codes, string(p))
	}
	return strings.Join(codes, ", ")
}
