package httpapi

import (
	"net/http"
)

func (h *Handler) ListSeasonStandings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListSeasonStandings")
	defer span.End()

	season, err := seasonFromPath(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	table, err := h.standingsService.GetStandings(ctx, season)
	if err != nil {
		h.logger.WarnContext(ctx, "list standings failed", "season", season, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, standingsToDTO(table))
}
