package cache

import (
	"context"
	"time"

	"github.com/brunocesarr/brazuerao-betting/internal/domain/standings"
	"github.com/brunocesarr/brazuerao-betting/internal/platform/cache"
)

// StandingsProvider caches league tables per season in front of a slower
// provider. A league table changes at most a few times a day, so even a
// short TTL absorbs leaderboard fan-out.
type StandingsProvider struct {
	next  standings.Provider
	store *cache.Store[int, []standings.TeamPosition]
}

func NewStandingsProvider(next standings.Provider, ttl time.Duration) *StandingsProvider {
	return &StandingsProvider{
		next:  next,
		store: cache.NewStore[int, []standings.TeamPosition](ttl),
	}
}

func (p *StandingsProvider) GetStandings(ctx context.Context, season int) ([]standings.TeamPosition, error) {
	table, err := p.store.GetOrLoad(ctx, season, func(ctx context.Context) ([]standings.TeamPosition, error) {
		return p.next.GetStandings(ctx, season)
	})
	if err != nil {
		return nil, err
	}
	// Callers may sort in place; hand out a copy.
	return append([]standings.TeamPosition(nil), table...), nil
}

// Invalidate drops the cached table for a season, for use after a sync.
func (p *StandingsProvider) Invalidate(ctx context.Context, season int) {
	p.store.Delete(ctx, season)
}
