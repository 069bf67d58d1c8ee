package group

import "context"

// Directory resolves groups and a user's memberships.
type Directory interface {
	GetByID(ctx context.Context, groupID string) (Group, bool, error)
	ListByUser(ctx context.Context, userID string) ([]Group, error)
	// ListMemberIDs returns the user IDs of a group's members, used by the
	// leaderboard read path.
	ListMemberIDs(ctx context.Context, groupID string) ([]string, error)
}
