package usecase

import (
	"context"
	"fmt"

	"github.com/brunocesarr/brazuerao-betting/internal/domain/standings"
)

// StandingsService exposes the league table to callers.
type StandingsService struct {
	provider standings.Provider
}

func NewStandingsService(provider standings.Provider) *StandingsService {
	return &StandingsService{provider: provider}
}

func (s *StandingsService) GetStandings(ctx context.Context, season int) ([]standings.TeamPosition, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingsService.GetStandings")
	defer span.End()

	if season <= 0 {
		return nil, fmt.Errorf("%w: season must be greater than zero", ErrInvalidInput)
	}

	table, err := s.provider.GetStandings(ctx, season)
	if err != nil {
		return nil, fmt.Errorf("%w: get standings for season %d: %v", ErrDependencyUnavailable, season, err)
	}
	if len(table) == 0 {
		return nil, fmt.Errorf("%w: no standings for season %d", ErrNotFound, season)
	}
	standings.SortByPosition(table)
	return table, nil
}
