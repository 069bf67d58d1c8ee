package httpapi

import (
	"fmt"
	"net/http"

	sonic "github.com/bytedance/sonic"

	"github.com/brunocesarr/brazuerao-betting/internal/usecase"
)

func (h *Handler) SubmitBet(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SubmitBet")
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

	var req submitBetRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	bets, err := h.betService.SubmitPrediction(ctx, usecase.SubmitPredictionInput{
		UserID:      principal.UserID,
		Season:      season,
		Predictions: req.Predictions,
		GroupID:     req.GroupID,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "submit bet failed", "user_id", principal.UserID, "season", season, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]betDTO, 0, len(bets))
	for _, item := range bets {
		items = append(items, betToDTO(item))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) ListMyBets(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMyBets")
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

	bets, err := h.betService.ListUserBets(ctx, principal.UserID, season)
	if err != nil {
		h.logger.WarnContext(ctx, "list bets failed", "user_id", principal.UserID, "season", season, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]betDTO, 0, len(bets))
	for _, item := range bets {
		items = append(items, betToDTO(item))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) ReassignBet(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ReassignBet")
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

	var req reassignBetRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	moved, err := h.betService.ReassignDefaultBetGroup(ctx, principal.UserID, req.GroupID, season)
	if err != nil {
		h.logger.WarnContext(ctx, "reassign bet failed", "user_id", principal.UserID, "group_id", req.GroupID, "season", season, "error", err)
		writeError(ctx, w, err)
		return
	}
	if moved == nil {
		writeSuccess(ctx, w, http.StatusOK, nil)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, betToDTO(*moved))
}
