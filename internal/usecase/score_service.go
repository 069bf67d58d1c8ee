package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/brunocesarr/brazuerao-betting/internal/domain/bet"
	"github.com/brunocesarr/brazuerao-betting/internal/domain/group"
	"github.com/brunocesarr/brazuerao-betting/internal/domain/rules"
	"github.com/brunocesarr/brazuerao-betting/internal/domain/scoring"
	"github.com/brunocesarr/brazuerao-betting/internal/domain/standings"
)

const defaultLeaderboardWorkers = 8

// UserScore is the scored breakdown of one user's bet against the current
// table.
type UserScore struct {
	UserID    string
	BetID     string
	GroupID   *string
	Breakdown []scoring.RuleScore
	Total     float64
}

// LeaderboardEntry is one row of a group leaderboard. Rank is dense: users
// with equal totals share a rank and the next distinct total takes the next
// rank number.
type LeaderboardEntry struct {
	Rank   int
	UserID string
	BetID  string
	Total  float64
}

// ScoreService evaluates stored bets against league standings using the
// active rule set.
type ScoreService struct {
	betRepo   bet.Repository
	groups    group.Directory
	standings standings.Provider
	ruleSet   []rules.Rule
	workers   int
}

func NewScoreService(betRepo bet.Repository, groups group.Directory, provider standings.Provider, ruleSet []rules.Rule) (*ScoreService, error) {
	if err := rules.ValidateSet(ruleSet); err != nil {
		return nil, fmt.Errorf("invalid rule set: %w", err)
	}
	return &ScoreService{
		betRepo:   betRepo,
		groups:    groups,
		standings: provider,
		ruleSet:   ruleSet,
		workers:   defaultLeaderboardWorkers,
	}, nil
}

// ScoreUser scores every bet the user holds for the season. The breakdown
// lists one entry per active rule, in the rule set's declared order.
func (s *ScoreService) ScoreUser(ctx context.Context, userID string, season int) ([]UserScore, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoreService.ScoreUser")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if season <= 0 {
		return nil, fmt.Errorf("%w: season must be greater than zero", ErrInvalidInput)
	}

	table, err := s.standings.GetStandings(ctx, season)
	if err != nil {
		return nil, fmt.Errorf("%w: get standings for season %d: %v", ErrDependencyUnavailable, season, err)
	}

	bets, err := s.betRepo.ListByUserSeason(ctx, userID, season)
	if err != nil {
		return nil, fmt.Errorf("list bets for scoring: %w", err)
	}

	scores := make([]UserScore, 0, len(bets))
	for _, item := range bets {
		breakdown := scoring.Score(item.Predictions, s.ruleSet, table)
		scores = append(scores, UserScore{
			UserID:    item.UserID,
			BetID:     item.ID,
			GroupID:   item.GroupID,
			Breakdown: breakdown,
			Total:     scoring.Total(breakdown),
		})
	}
	return scores, nil
}

// GroupLeaderboard scores every member's bet in the group concurrently and
// returns the dense-ranked standings. Members without a bet for the season
// are omitted.
func (s *ScoreService) GroupLeaderboard(ctx context.Context, groupID string, season int) ([]LeaderboardEntry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoreService.GroupLeaderboard")
	defer span.End()

	groupID = strings.TrimSpace(groupID)
	if groupID == "" {
		return nil, fmt.Errorf("%w: group id is required", ErrInvalidInput)
	}
	if season <= 0 {
		return nil, fmt.Errorf("%w: season must be greater than zero", ErrInvalidInput)
	}

	target, exists, err := s.groups.GetByID(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("get group for leaderboard: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: group=%s", ErrGroupNotFound, groupID)
	}

	memberIDs, err := s.groups.ListMemberIDs(ctx, target.ID)
	if err != nil {
		return nil, fmt.Errorf("list group members: %w", err)
	}
	if len(memberIDs) == 0 {
		return []LeaderboardEntry{}, nil
	}

	table, err := s.standings.GetStandings(ctx, season)
	if err != nil {
		return nil, fmt.Errorf("%w: get standings for season %d: %v", ErrDependencyUnavailable, season, err)
	}

	entries, err := s.scoreMembers(ctx, memberIDs, target.ID, season, table)
	if err != nil {
		return nil, err
	}
	rankEntries(entries)
	return entries, nil
}

func (s *ScoreService) scoreMembers(ctx context.Context, memberIDs []string, groupID string, season int, table []standings.TeamPosition) ([]LeaderboardEntry, error) {
	pool, err := ants.NewPool(s.workers)
	if err != nil {
		return nil, fmt.Errorf("create scoring pool: %w", err)
	}
	defer pool.Release()

	type memberResult struct {
		entry LeaderboardEntry
		found bool
		err   error
	}

	results := make([]memberResult, len(memberIDs))
	var wg sync.WaitGroup
	for idx, memberID := range memberIDs {
		wg.Add(1)
		idx, memberID := idx, memberID
		submitErr := pool.Submit(func() {
			defer wg.Done()
			item, found, lookupErr := s.betRepo.GetByGroup(ctx, memberID, season, &groupID)
			if lookupErr != nil {
				results[idx] = memberResult{err: fmt.Errorf("get bet for member=%s: %w", memberID, lookupErr)}
				return
			}
			if !found {
				return
			}
			breakdown := scoring.Score(item.Predictions, s.ruleSet, table)
			results[idx] = memberResult{
				entry: LeaderboardEntry{
					UserID: item.UserID,
					BetID:  item.ID,
					Total:  scoring.Total(breakdown),
				},
				found: true,
			}
		})
		if submitErr != nil {
			wg.Done()
			results[idx] = memberResult{err: fmt.Errorf("submit scoring task: %w", submitErr)}
		}
	}
	wg.Wait()

	entries := make([]LeaderboardEntry, 0, len(memberIDs))
	for _, res := range results {
		if res.err != nil {
			return nil, res.err
		}
		if res.found {
			entries = append(entries, res.entry)
		}
	}
	return entries, nil
}

// rankEntries orders by total descending, user id ascending as tie-break,
// and assigns dense ranks in place.
func rankEntries(entries []LeaderboardEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Total != entries[j].Total {
			return entries[i].Total > entries[j].Total
		}
		return entries[i].UserID < entries[j].UserID
	})

	rank := 0
	var prevTotal float64
	for idx := range entries {
		if idx == 0 || entries[idx].Total != prevTotal {
			rank++
			prevTotal = entries[idx].Total
		}
		entries[idx].Rank = rank
	}
}
