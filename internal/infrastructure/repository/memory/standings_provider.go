package memory

import (
	"context"
	"sync"

	"github.com/brunocesarr/brazuerao-betting/internal/domain/standings"
)

// StandingsProvider is an in-memory standings source, seeded up front or
// refreshed through ReplaceBySeason.
type StandingsProvider struct {
	mu       sync.RWMutex
	bySeason map[int][]standings.TeamPosition
}

func NewStandingsProvider() *StandingsProvider {
	return &StandingsProvider{bySeason: make(map[int][]standings.TeamPosition)}
}

func (p *StandingsProvider) GetStandings(ctx context.Context, season int) ([]standings.TeamPosition, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	rows := p.bySeason[season]
	out := append([]standings.TeamPosition(nil), rows...)
	standings.SortByPosition(out)
	return out, nil
}

func (p *StandingsProvider) ReplaceBySeason(ctx context.Context, season int, rows []standings.TeamPosition) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.bySeason[season] = append([]standings.TeamPosition(nil), rows...)
	return nil
}
