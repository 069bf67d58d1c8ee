package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/brunocesarr/brazuerao-betting/internal/domain/bet"
	"github.com/brunocesarr/brazuerao-betting/internal/domain/standings"
	"github.com/brunocesarr/brazuerao-betting/internal/platform/logging"
	"github.com/brunocesarr/brazuerao-betting/internal/usecase"
)

type Handler struct {
	betService       *usecase.BetService
	scoreService     *usecase.ScoreService
	standingsService *usecase.StandingsService
	logger           *logging.Logger
	validator        *validator.Validate
}

func NewHandler(
	betService *usecase.BetService,
	scoreService *usecase.ScoreService,
	standingsService *usecase.StandingsService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.NewNop()
	}

	return &Handler{
		betService:       betService,
		scoreService:     scoreService,
		standingsService: standingsService,
		logger:           logger,
		validator:        validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeSuccess(r.Context(), w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}

func seasonFromPath(r *http.Request) (int, error) {
	raw := strings.TrimSpace(r.PathValue("season"))
	season, err := strconv.Atoi(raw)
	if err != nil || season <= 0 {
		return 0, fmt.Errorf("%w: invalid season %q", usecase.ErrInvalidInput, raw)
	}
	return season, nil
}

type submitBetRequest struct {
	Predictions []string `json:"predictions" validate:"required,min=1,dive,required"`
	GroupID     *string  `json:"group_id" validate:"omitempty,min=1"`
}

type reassignBetRequest struct {
	GroupID string `json:"group_id" validate:"required"`
}

type betDTO struct {
	ID          string   `json:"id"`
	GroupID     *string  `json:"group_id,omitempty"`
	Season      int      `json:"season"`
	Predictions []string `json:"predictions"`
	CreatedAt   string   `json:"created_at"`
	UpdatedAt   string   `json:"updated_at"`
}

func betToDTO(item bet.Bet) betDTO {
	return betDTO{
		ID:          item.ID,
		GroupID:     item.GroupID,
		Season:      item.Season,
		Predictions: item.Predictions,
		CreatedAt:   item.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   item.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

type teamPositionDTO struct {
	Position int    `json:"position"`
	Team     string `json:"team"`
}

func standingsToDTO(table []standings.TeamPosition) []teamPositionDTO {
	out := make([]teamPositionDTO, 0, len(table))
	for _, row := range table {
		out = append(out, teamPositionDTO{Position: row.Position, Team: row.Team})
	}
	return out
}

type ruleScoreDTO struct {
	RuleID string   `json:"rule_id"`
	Teams  []string `json:"teams"`
	Points float64  `json:"points"`
}

type userScoreDTO struct {
	BetID     string         `json:"bet_id"`
	GroupID   *string        `json:"group_id,omitempty"`
	Breakdown []ruleScoreDTO `json:"breakdown"`
	Total     float64        `json:"total"`
}

func userScoreToDTO(score usecase.UserScore) userScoreDTO {
	breakdown := make([]ruleScoreDTO, 0, len(score.Breakdown))
	for _, item := range score.Breakdown {
		breakdown = append(breakdown, ruleScoreDTO{
			RuleID: item.RuleID,
			Teams:  item.Teams,
			Points: item.Points,
		})
	}
	return userScoreDTO{
		BetID:     score.BetID,
		GroupID:   score.GroupID,
		Breakdown: breakdown,
		Total:     score.Total,
	}
}

type leaderboardEntryDTO struct {
	Rank   int     `json:"rank"`
	UserID string  `json:"user_id"`
	BetID  string  `json:"bet_id"`
	Total  float64 `json:"total"`
}
