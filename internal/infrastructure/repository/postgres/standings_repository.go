package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/brunocesarr/brazuerao-betting/internal/domain/standings"
)

// StandingsRepository stores the league table per season, refreshed
// wholesale whenever the upstream feed is synced.
type StandingsRepository struct {
	db *sqlx.DB
}

func NewStandingsRepository(db *sqlx.DB) *StandingsRepository {
	return &StandingsRepository{db: db}
}

type standingTableModel struct {
	ID       int64  `db:"id"`
	Season   int    `db:"season"`
	Position int    `db:"position"`
	Team     string `db:"team"`
}

const getStandingsQuery = `
SELECT id, season, position, team
FROM standings
WHERE season = $1
ORDER BY position`

func (r *StandingsRepository) GetStandings(ctx context.Context, season int) ([]standings.TeamPosition, error) {
	var rows []standingTableModel
	if err := r.db.SelectContext(ctx, &rows, getStandingsQuery, season); err != nil {
		return nil, fmt.Errorf("get standings: %w", err)
	}

	out := make([]standings.TeamPosition, 0, len(rows))
	for _, row := range rows {
		out = append(out, standings.TeamPosition{Position: row.Position, Team: row.Team})
	}
	return out, nil
}

const deleteStandingsQuery = `DELETE FROM standings WHERE season = $1`
const insertStandingQuery = `
INSERT INTO standings (season, position, team) VALUES ($1, $2, $3)`

// ReplaceBySeason swaps the season's table for rows in one transaction.
func (r *StandingsRepository) ReplaceBySeason(ctx context.Context, season int, rows []standings.TeamPosition) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx replace standings: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, deleteStandingsQuery, season); err != nil {
		return fmt.Errorf("clear standings: %w", err)
	}
	for _, row := range rows {
		if _, err := tx.ExecContext(ctx, insertStandingQuery, season, row.Position, row.Team); err != nil {
			return fmt.Errorf("insert standing position=%d: %w", row.Position, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace standings: %w", err)
	}
	return nil
}
