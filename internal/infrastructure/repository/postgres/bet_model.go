package postgres

import (
	"time"

	"github.com/lib/pq"

	"github.com/brunocesarr/brazuerao-betting/internal/domain/bet"
)

type betTableModel struct {
	ID          int64          `db:"id"`
	PublicID    string         `db:"public_id"`
	UserID      string         `db:"user_id"`
	GroupID     *string        `db:"group_public_id"`
	Season      int            `db:"season"`
	Predictions pq.StringArray `db:"predictions"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`
}

func (m betTableModel) toDomain() bet.Bet {
	out := bet.Bet{
		ID:          m.PublicID,
		UserID:      m.UserID,
		Season:      m.Season,
		Predictions: append([]string(nil), m.Predictions...),
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
	if m.GroupID != nil {
		groupID := *m.GroupID
		out.GroupID = &groupID
	}
	return out
}
