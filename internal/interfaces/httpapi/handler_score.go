package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/brunocesarr/brazuerao-betting/internal/usecase"
)

func (h *Handler) GetMyScore(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMyScore")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}
	season, err := seasonFromPath(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	scores, err := h.scoreService.ScoreUser(ctx, principal.UserID, season)
	if err != nil {
		h.logger.WarnContext(ctx, "score user failed", "user_id", principal.UserID, "season", season, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]userScoreDTO, 0, len(scores))
	for _, score := range scores {
		items = append(items, userScoreToDTO(score))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetGroupLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetGroupLeaderboard")
	defer span.End()

	if _, ok := principalFromContext(ctx); !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}
	groupID := strings.TrimSpace(r.PathValue("groupID"))

	rawSeason := strings.TrimSpace(r.URL.Query().Get("season"))
	season, err := strconv.Atoi(rawSeason)
	if err != nil || season <= 0 {
		writeError(ctx, w, fmt.Errorf("%w: invalid season %q", usecase.ErrInvalidInput, rawSeason))
		return
	}

	entries, err := h.scoreService.GroupLeaderboard(ctx, groupID, season)
	if err != nil {
		h.logger.WarnContext(ctx, "group leaderboard failed", "group_id", groupID, "season", season, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]leaderboardEntryDTO, 0, len(entries))
	for _, entry := range entries {
		items = append(items, leaderboardEntryDTO{
			Rank:   entry.Rank,
			UserID: entry.UserID,
			BetID:  entry.BetID,
			Total:  entry.Total,
		})
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}
