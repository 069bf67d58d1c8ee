package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/brunocesarr/brazuerao-betting/internal/domain/bet"
)

// BetRepository is an in-memory bet.Repository used for tests and DB-less
// runs. It enforces the same one-bet-per-(user,season,group) constraint
// the SQL schema does.
type BetRepository struct {
	mu   sync.RWMutex
	byID map[string]bet.Bet
}

func NewBetRepository() *BetRepository {
	return &BetRepository{byID: make(map[string]bet.Bet)}
}

func (r *BetRepository) ListByUserSeason(ctx context.Context, userID string, season int) ([]bet.Bet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := make([]bet.Bet, 0, 4)
	for _, item := range r.byID {
		if item.UserID == userID && item.Season == season {
			items = append(items, cloneBet(item))
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		return betGroupKey(items[i]) < betGroupKey(items[j])
	})
	return items, nil
}

func (r *BetRepository) GetByGroup(ctx context.Context, userID string, season int, groupID *string) (bet.Bet, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.byID {
		if item.UserID != userID || item.Season != season {
			continue
		}
		if groupID == nil && item.GroupID == nil {
			return cloneBet(item), true, nil
		}
		if groupID != nil && item.GroupID != nil && *item.GroupID == *groupID {
			return cloneBet(item), true, nil
		}
	}
	return bet.Bet{}, false, nil
}

func (r *BetRepository) Create(ctx context.Context, item bet.Bet) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[item.ID]; exists {
		return fmt.Errorf("duplicate bet id=%s", item.ID)
	}
	key := betKey(item.UserID, item.Season, item.GroupID)
	for _, current := range r.byID {
		if betKey(current.UserID, current.Season, current.GroupID) == key {
			return fmt.Errorf("duplicate bet for %s", key)
		}
	}
	r.byID[item.ID] = cloneBet(item)
	return nil
}

func (r *BetRepository) UpdatePredictions(ctx context.Context, id string, predictions []string, updatedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, exists := r.byID[id]
	if !exists {
		return fmt.Errorf("bet id=%s not found", id)
	}
	item.Predictions = append([]string(nil), predictions...)
	item.UpdatedAt = updatedAt
	r.byID[id] = item
	return nil
}

func (r *BetRepository) UpdateGroup(ctx context.Context, id string, groupID string, updatedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, exists := r.byID[id]
	if !exists {
		return fmt.Errorf("bet id=%s not found", id)
	}
	key := betKey(item.UserID, item.Season, &groupID)
	for otherID, current := range r.byID {
		if otherID != id && betKey(current.UserID, current.Season, current.GroupID) == key {
			return fmt.Errorf("duplicate bet for %s", key)
		}
	}
	item.GroupID = &groupID
	item.UpdatedAt = updatedAt
	r.byID[id] = item
	return nil
}

func (r *BetRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[id]; !exists {
		return fmt.Errorf("bet id=%s not found", id)
	}
	delete(r.byID, id)
	return nil
}

// InTx runs fn against the live store and restores a snapshot when fn
// fails, so multi-bet writes stay all-or-nothing like their SQL
// counterpart.
func (r *BetRepository) InTx(ctx context.Context, fn func(repo bet.Repository) error) error {
	r.mu.Lock()
	snapshot := make(map[string]bet.Bet, len(r.byID))
	for id, item := range r.byID {
		snapshot[id] = cloneBet(item)
	}
	r.mu.Unlock()

	if err := fn(r); err != nil {
		r.mu.Lock()
		r.byID = snapshot
		r.mu.Unlock()
		return err
	}
	return nil
}

func betKey(userID string, season int, groupID *string) string {
	scope := ""
	if groupID != nil {
		scope = *groupID
	}
	return fmt.Sprintf("user=%s season=%d group=%s", userID, season, scope)
}

func betGroupKey(item bet.Bet) string {
	if item.GroupID == nil {
		return ""
	}
	return *item.GroupID
}

func cloneBet(item bet.Bet) bet.Bet {
	out := item
	out.Predictions = append([]string(nil), item.Predictions...)
	if item.GroupID != nil {
		groupID := *item.GroupID
		out.GroupID = &groupID
	}
	return out
}
