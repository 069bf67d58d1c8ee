package group

import "time"

// Group is an independent contest with its own submission deadline.
// Membership administration lives in another service; this core only
// reads deadlines and memberships.
type Group struct {
	ID         string
	Name       string
	DeadlineAt time.Time
	CreatedAt  time.Time
}

// DeadlinePassed reports whether submissions for the group are closed at
// the given instant.
func (g Group) DeadlinePassed(now time.Time) bool {
	return !now.Before(g.DeadlineAt)
}
