package scoring

import (
	"sort"

	"github.com/brunocesarr/brazuerao-betting/internal/domain/rules"
	"github.com/brunocesarr/brazuerao-betting/internal/domain/standings"
)

// RuleScore is the outcome of one rule for one prediction. Points is
// len(Teams) * rule.Points; Teams holds the names the rule claimed,
// ordered by actual table position.
type RuleScore struct {
	RuleID string
	Teams  []string
	Points float64
}

// Score evaluates a predicted ordering against the authoritative table.
//
// It is a pure function: no side effects, deterministic for identical
// inputs. Rules are evaluated ascending by priority (equal priorities keep
// their input order) and a team claimed by an earlier rule never scores
// again for a later one, so the union of Teams across all results has no
// duplicates. Inactive rules are excluded entirely. Results come back in
// the input order of the active rules, including rules that scored zero.
//
// Shape problems are not errors: an empty prediction scores zero
// everywhere, and positions present in only one of prediction/table
// simply never match.
func Score(prediction []string, ruleSet []rules.Rule, table []standings.TeamPosition) []RuleScore {
	active := make([]rules.Rule, 0, len(ruleSet))
	inputIndex := make(map[string]int, len(ruleSet))
	for _, rule := range ruleSet {
		if !rule.Active {
			continue
		}
		inputIndex[rule.ID] = len(active)
		active = append(active, rule)
	}

	positionByTeam := make(map[string]int, len(table))
	for _, row := range table {
		positionByTeam[row.Team] = row.Position
	}

	claimed := make(map[string]struct{}, len(table))
	results := make([]RuleScore, len(active))

	for _, rule := range rules.SortByPriority(active) {
		candidates := candidatesFor(rule, prediction, table)

		teams := make([]string, 0, len(candidates))
		for _, team := range candidates {
			if _, taken := claimed[team]; taken {
				continue
			}
			claimed[team] = struct{}{}
			teams = append(teams, team)
		}
		sort.SliceStable(teams, func(i, j int) bool {
			return positionByTeam[teams[i]] < positionByTeam[teams[j]]
		})

		results[inputIndex[rule.ID]] = RuleScore{
			RuleID: rule.ID,
			Teams:  teams,
			Points: float64(len(teams)) * rule.Points,
		}
	}

	return results
}

// Total sums the points of a breakdown.
func Total(results []RuleScore) float64 {
	total := 0.0
	for _, result := range results {
		total += result.Points
	}
	return total
}

func candidatesFor(rule rules.Rule, prediction []string, table []standings.TeamPosition) []string {
	switch rule.Type {
	case rules.TypeExactChampion:
		return championCandidate(prediction, table)
	case rules.TypeExactPosition:
		return exactPositionCandidates(rule.Ranges, prediction, table)
	case rules.TypeZoneMatch:
		return zoneMatchCandidates(rule.Ranges, prediction, table)
	default:
		return nil
	}
}

func championCandidate(prediction []string, table []standings.TeamPosition) []string {
	if len(prediction) == 0 {
		return nil
	}
	for _, row := range table {
		if row.Position != 1 {
			continue
		}
		if row.Team == prediction[0] {
			return []string{row.Team}
		}
		return nil
	}
	return nil
}

func exactPositionCandidates(ranges []rules.Range, prediction []string, table []standings.TeamPosition) []string {
	out := make([]string, 0, len(table))
	for _, row := range table {
		if !inAnyRange(ranges, row.Position) {
			continue
		}
		idx := row.Position - 1
		if idx < 0 || idx >= len(prediction) {
			continue
		}
		if prediction[idx] == row.Team {
			out = append(out, row.Team)
		}
	}
	return out
}

func zoneMatchCandidates(ranges []rules.Range, prediction []string, table []standings.TeamPosition) []string {
	if len(ranges) == 0 {
		ranges = []rules.Range{{Start: 1, End: len(table)}}
	}

	out := make([]string, 0, len(table))
	for _, zone := range ranges {
		predictedInZone := make(map[string]struct{})
		for idx, team := range prediction {
			if zone.Contains(idx + 1) {
				predictedInZone[team] = struct{}{}
			}
		}
		for _, row := range table {
			if !zone.Contains(row.Position) {
				continue
			}
			if _, ok := predictedInZone[row.Team]; ok {
				out = append(out, row.Team)
			}
		}
	}
	return out
}

func inAnyRange(ranges []rules.Range, position int) bool {
	if len(ranges) == 0 {
		return true
	}
	for _, rng := range ranges {
		if rng.Contains(position) {
			return true
		}
	}
	return false
}
