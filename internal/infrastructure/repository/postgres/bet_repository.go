package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/brunocesarr/brazuerao-betting/internal/domain/bet"
)

// BetRepository is the postgres bet.Repository. The schema enforces one
// bet per (user_id, season, group) scope, with NULL group folded into the
// index so only one default bet can exist.
type BetRepository struct {
	ext sqlx.ExtContext
	db  *sqlx.DB
}

func NewBetRepository(db *sqlx.DB) *BetRepository {
	return &BetRepository{ext: db, db: db}
}

const listBetsQuery = `
SELECT id, public_id, user_id, group_public_id, season, predictions, created_at, updated_at
FROM bets
WHERE user_id = $1 AND season = $2
ORDER BY group_public_id NULLS FIRST`

func (r *BetRepository) ListByUserSeason(ctx context.Context, userID string, season int) ([]bet.Bet, error) {
	var rows []betTableModel
	if err := sqlx.SelectContext(ctx, r.ext, &rows, listBetsQuery, userID, season); err != nil {
		return nil, fmt.Errorf("list bets: %w", err)
	}

	out := make([]bet.Bet, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

const getBetByGroupQuery = `
SELECT id, public_id, user_id, group_public_id, season, predictions, created_at, updated_at
FROM bets
WHERE user_id = $1 AND season = $2 AND group_public_id IS NOT DISTINCT FROM $3`

func (r *BetRepository) GetByGroup(ctx context.Context, userID string, season int, groupID *string) (bet.Bet, bool, error) {
	var row betTableModel
	err := sqlx.GetContext(ctx, r.ext, &row, getBetByGroupQuery, userID, season, groupID)
	if isNotFound(err) {
		return bet.Bet{}, false, nil
	}
	if err != nil {
		return bet.Bet{}, false, fmt.Errorf("get bet: %w", err)
	}
	return row.toDomain(), true, nil
}

const createBetQuery = `
INSERT INTO bets (public_id, user_id, group_public_id, season, predictions, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`

func (r *BetRepository) Create(ctx context.Context, item bet.Bet) error {
	_, err := r.ext.ExecContext(ctx, createBetQuery,
		item.ID, item.UserID, item.GroupID, item.Season,
		pq.StringArray(item.Predictions), item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create bet: %w", err)
	}
	return nil
}

const updatePredictionsQuery = `
UPDATE bets SET predictions = $2, updated_at = $3 WHERE public_id = $1`

func (r *BetRepository) UpdatePredictions(ctx context.Context, id string, predictions []string, updatedAt time.Time) error {
	result, err := r.ext.ExecContext(ctx, updatePredictionsQuery, id, pq.StringArray(predictions), updatedAt)
	if err != nil {
		return fmt.Errorf("update bet predictions: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected update bet predictions: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("update bet predictions: not found")
	}
	return nil
}

const updateGroupQuery = `
UPDATE bets SET group_public_id = $2, updated_at = $3 WHERE public_id = $1`

func (r *BetRepository) UpdateGroup(ctx context.Context, id string, groupID string, updatedAt time.Time) error {
	result, err := r.ext.ExecContext(ctx, updateGroupQuery, id, groupID, updatedAt)
	if err != nil {
		return fmt.Errorf("update bet group: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected update bet group: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("update bet group: not found")
	}
	return nil
}

const deleteBetQuery = `DELETE FROM bets WHERE public_id = $1`

func (r *BetRepository) Delete(ctx context.Context, id string) error {
	result, err := r.ext.ExecContext(ctx, deleteBetQuery, id)
	if err != nil {
		return fmt.Errorf("delete bet: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected delete bet: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("delete bet: not found")
	}
	return nil
}

// InTx runs fn against a repository bound to one transaction. Calling it
// from inside a transaction reuses the current one.
func (r *BetRepository) InTx(ctx context.Context, fn func(repo bet.Repository) error) error {
	if r.db == nil {
		return fn(r)
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx bets: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(&BetRepository{ext: tx}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx bets: %w", err)
	}
	return nil
}
