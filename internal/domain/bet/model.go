package bet

import "time"

// Bet is one user's predicted ordering for a season, scoped to a group.
// GroupID nil marks the "default" bet a user holds before joining any
// group; it is superseded by group-scoped bets on the first group-targeted
// submission. At most one bet exists per (user, season, group-or-none).
type Bet struct {
	ID          string
	UserID      string
	GroupID     *string
	Season      int
	Predictions []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsDefault reports whether the bet is not yet tied to a group.
func (b Bet) IsDefault() bool {
	return b.GroupID == nil
}
