package rules

import (
	"errors"
	"fmt"
	"sort"
)

type Type string

const (
	TypeExactChampion Type = "EXACT_CHAMPION"
	TypeExactPosition Type = "EXACT_POSITION"
	TypeZoneMatch     Type = "ZONE_MATCH"
)

var AllTypes = map[Type]struct{}{
	TypeExactChampion: {},
	TypeExactPosition: {},
	TypeZoneMatch:     {},
}

var (
	ErrUnknownRuleType  = errors.New("unknown rule type")
	ErrInvalidPoints    = errors.New("rule points must be greater than zero")
	ErrInvalidRange     = errors.New("invalid rule range")
	ErrUnexpectedRanges = errors.New("rule type does not accept ranges")
	ErrDuplicateRuleID  = errors.New("duplicate rule id")
)

// Range is a 1-based inclusive slice of table positions, e.g. {17, 20}
// for the relegation zone.
type Range struct {
	Start int
	End   int
}

func (r Range) Contains(position int) bool {
	return position >= r.Start && position <= r.End
}

// Rule describes one scoring rule of the contest. Priority determines
// evaluation order for deduplication: the lowest number claims a team first.
// Ranges restrict EXACT_POSITION and ZONE_MATCH to a subset of the table;
// an empty Ranges list means the whole table.
type Rule struct {
	ID       string
	Type     Type
	Points   float64
	Priority int
	Ranges   []Range
	Active   bool
}

// Validate rejects a malformed rule at load time, before it can reach the
// scoring engine.
func Validate(rule Rule) error {
	if rule.ID == "" {
		return fmt.Errorf("rule id is required")
	}
	if _, ok := AllTypes[rule.Type]; !ok {
		return fmt.Errorf("%w: %s (rule=%s)", ErrUnknownRuleType, rule.Type, rule.ID)
	}
	if rule.Points <= 0 {
		return fmt.Errorf("%w: rule=%s points=%v", ErrInvalidPoints, rule.ID, rule.Points)
	}
	if rule.Type == TypeExactChampion && len(rule.Ranges) > 0 {
		return fmt.Errorf("%w: rule=%s", ErrUnexpectedRanges, rule.ID)
	}
	for _, rng := range rule.Ranges {
		if rng.Start < 1 || rng.Start > rng.End {
			return fmt.Errorf("%w: rule=%s start=%d end=%d", ErrInvalidRange, rule.ID, rng.Start, rng.End)
		}
	}
	return nil
}

// ValidateSet validates every rule and rejects duplicate IDs.
func ValidateSet(ruleSet []Rule) error {
	seen := make(map[string]struct{}, len(ruleSet))
	for _, rule := range ruleSet {
		if err := Validate(rule); err != nil {
			return err
		}
		if _, exists := seen[rule.ID]; exists {
			return fmt.Errorf("%w: %s", ErrDuplicateRuleID, rule.ID)
		}
		seen[rule.ID] = struct{}{}
	}
	return nil
}

// SortByPriority orders rules ascending by priority, keeping the original
// input order for equal priorities. That stable order is the documented
// tie-break for deduplication.
func SortByPriority(ruleSet []Rule) []Rule {
	out := append([]Rule(nil), ruleSet...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Priority < out[j].Priority
	})
	return out
}

// Default returns the production Brasileirão rule set: exact champion,
// exact position over the whole table, then zone match for the
// Libertadores (G4) and relegation (Z4) zones.
func Default() []Rule {
	return []Rule{
		{ID: "champion", Type: TypeExactChampion, Points: 3, Priority: 1, Active: true},
		{ID: "exact-position", Type: TypeExactPosition, Points: 2, Priority: 2, Active: true},
		{
			ID:       "zone-match",
			Type:     TypeZoneMatch,
			Points:   1,
			Priority: 3,
			Ranges:   []Range{{Start: 1, End: 4}, {Start: 17, End: 20}},
			Active:   true,
		},
	}
}
