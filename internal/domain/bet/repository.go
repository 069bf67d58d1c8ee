package bet

import (
	"context"
	"time"
)

// Repository persists bets. The store enforces uniqueness on
// (user, season, group-or-none); Create surfaces a violation as an error
// the caller can detect, it never silently upserts.
type Repository interface {
	ListByUserSeason(ctx context.Context, userID string, season int) ([]Bet, error)
	// GetByGroup resolves the single bet for a (user, season, group) triple;
	// groupID nil selects the default bet.
	GetByGroup(ctx context.Context, userID string, season int, groupID *string) (Bet, bool, error)
	Create(ctx context.Context, b Bet) error
	UpdatePredictions(ctx context.Context, id string, predictions []string, updatedAt time.Time) error
	UpdateGroup(ctx context.Context, id string, groupID string, updatedAt time.Time) error
	Delete(ctx context.Context, id string) error

	// InTx runs fn against a transactional view of the repository: every
	// write inside fn commits together or not at all. Implementations must
	// support the full Repository surface inside fn.
	InTx(ctx context.Context, fn func(Repository) error) error
}
