package postgres

import (
	"time"

	"github.com/brunocesarr/brazuerao-betting/internal/domain/group"
)

type groupTableModel struct {
	ID         int64     `db:"id"`
	PublicID   string    `db:"public_id"`
	Name       string    `db:"name"`
	DeadlineAt time.Time `db:"deadline_at"`
	CreatedAt  time.Time `db:"created_at"`
}

func (m groupTableModel) toDomain() group.Group {
	return group.Group{
		ID:         m.PublicID,
		Name:       m.Name,
		DeadlineAt: m.DeadlineAt,
		CreatedAt:  m.CreatedAt,
	}
}
