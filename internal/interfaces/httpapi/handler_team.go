package httpapi

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/pelada-balancer/internal/usecase"
)

func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Generate")
	defer span.End()

	var req []playerDTO
	if err := decodeJSON(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateList(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	generated, err := h.teamService.Generate(ctx, playersToDomain(req))
	if err != nil {
		h.logger.WarnContext(ctx, "generate teams failed", "pool_size", len(req), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, http.StatusOK, generationToDTO(generated))
}

func (h *Handler) GenerateFromSelection(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GenerateFromSelection")
	defer span.End()

	var req selectionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	names := make([]string, 0, len(req.Names))
	for _, name := range req.Names {
		names = append(names, strings.TrimSpace(name))
	}

	generated, err := h.teamService.GenerateFromSelection(ctx, names, playersToDomain(req.Guests))
	if err != nil {
		h.logger.WarnContext(ctx, "generate teams from selection failed",
			"selected", len(req.Names),
			"guests", len(req.Guests),
			"error", err,
		)
		writeError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, http.StatusOK, generationToDTO(generated))
}

func (h *Handler) FormationPreview(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.FormationPreview")
	defer span.End()

	raw := strings.TrimSpace(r.URL.Query().Get("count"))
	count, err := strconv.Atoi(raw)
	if err != nil {
		writeError(ctx, w, errors.Mark(errors.Newf("count must be an integer, got %q", raw), usecase.ErrInvalidInput))
		return
	}

	formation, err := h.teamService.FormationPreview(ctx, count)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, http.StatusOK, formationToDTO(formation))
}
