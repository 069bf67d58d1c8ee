package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/brunocesarr/brazuerao-betting/internal/domain/group"
)

// GroupDirectory reads groups and memberships from postgres.
type GroupDirectory struct {
	db *sqlx.DB
}

func NewGroupDirectory(db *sqlx.DB) *GroupDirectory {
	return &GroupDirectory{db: db}
}

const getGroupQuery = `
SELECT id, public_id, name, deadline_at, created_at
FROM groups
WHERE public_id = $1`

func (d *GroupDirectory) GetByID(ctx context.Context, groupID string) (group.Group, bool, error) {
	var row groupTableModel
	err := d.db.GetContext(ctx, &row, getGroupQuery, groupID)
	if isNotFound(err) {
		return group.Group{}, false, nil
	}
	if err != nil {
		return group.Group{}, false, fmt.Errorf("get group: %w", err)
	}
	return row.toDomain(), true, nil
}

const listGroupsByUserQuery = `
SELECT g.id, g.public_id, g.name, g.deadline_at, g.created_at
FROM groups g
JOIN group_members m ON m.group_public_id = g.public_id
WHERE m.user_id = $1
ORDER BY g.public_id`

func (d *GroupDirectory) ListByUser(ctx context.Context, userID string) ([]group.Group, error) {
	var rows []groupTableModel
	if err := d.db.SelectContext(ctx, &rows, listGroupsByUserQuery, userID); err != nil {
		return nil, fmt.Errorf("list groups by user: %w", err)
	}

	out := make([]group.Group, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

const listMemberIDsQuery = `
SELECT user_id FROM group_members WHERE group_public_id = $1 ORDER BY user_id`

func (d *GroupDirectory) ListMemberIDs(ctx context.Context, groupID string) ([]string, error) {
	var out []string
	if err := d.db.SelectContext(ctx, &out, listMemberIDsQuery, groupID); err != nil {
		return nil, fmt.Errorf("list group members: %w", err)
	}
	return out, nil
}
