package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/brunocesarr/brazuerao-betting/internal/domain/bet"
	"github.com/brunocesarr/brazuerao-betting/internal/domain/group"
	idgen "github.com/brunocesarr/brazuerao-betting/internal/platform/id"
)

// BetService governs how a user's prediction is stored across groups:
// default-bet promotion, per-group fan-out and deadline enforcement.
type BetService struct {
	betRepo bet.Repository
	groups  group.Directory
	idGen   idgen.Generator
	now     func() time.Time
}

func NewBetService(betRepo bet.Repository, groups group.Directory, idGen idgen.Generator) *BetService {
	return &BetService{
		betRepo: betRepo,
		groups:  groups,
		idGen:   idGen,
		now:     time.Now,
	}
}

type SubmitPredictionInput struct {
	UserID      string
	Season      int
	Predictions []string
	// GroupID nil means "apply to all my groups", or a default bet when the
	// user has no bets yet.
	GroupID *string
}

// SubmitPrediction stores a user's predicted ordering for a season.
//
// With a target group it validates the group and its deadline, supersedes
// any default bet and creates or updates the group-scoped bet. With a nil
// target it fans the prediction out to every group whose deadline has not
// passed, inside one transaction: either every eligible create/update
// commits or none does. Bets tied to expired groups are left untouched.
func (s *BetService) SubmitPrediction(ctx context.Context, input SubmitPredictionInput) ([]bet.Bet, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BetService.SubmitPrediction")
	defer span.End()

	out, err := s.submitPrediction(ctx, input)
	if err != nil && isDuplicateConstraintError(err) {
		// Lost a concurrent-create race on (user, season, group): the row now
		// exists, so rerunning resolves every create into an update
		// (last-writer-wins).
		out, err = s.submitPrediction(ctx, input)
	}
	return out, err
}

func (s *BetService) submitPrediction(ctx context.Context, input SubmitPredictionInput) ([]bet.Bet, error) {
	if err := s.validateSubmission(&input); err != nil {
		return nil, err
	}

	existing, err := s.betRepo.ListByUserSeason(ctx, input.UserID, input.Season)
	if err != nil {
		return nil, fmt.Errorf("list bets for submission: %w", err)
	}

	now := s.now().UTC()

	if input.GroupID != nil {
		target, err := s.resolveOpenGroup(ctx, *input.GroupID, now)
		if err != nil {
			return nil, err
		}
		return s.submitToGroup(ctx, input, existing, target, now)
	}

	if len(existing) == 0 {
		created, err := s.createBet(ctx, s.betRepo, input.UserID, input.Season, nil, input.Predictions, now)
		if err != nil {
			return nil, err
		}
		return []bet.Bet{created}, nil
	}

	return s.submitToAllGroups(ctx, input, existing, now)
}

// submitToGroup handles the single-group path: the default bet, if any, is
// superseded and the group-scoped bet is created or updated in one
// transaction.
func (s *BetService) submitToGroup(ctx context.Context, input SubmitPredictionInput, existing []bet.Bet, target group.Group, now time.Time) ([]bet.Bet, error) {
	var result bet.Bet
	err := s.betRepo.InTx(ctx, func(repo bet.Repository) error {
		for _, item := range existing {
			if item.IsDefault() {
				if err := repo.Delete(ctx, item.ID); err != nil {
					return fmt.Errorf("delete superseded default bet: %w", err)
				}
			}
		}

		current, found := findByGroup(existing, &target.ID)
		if found {
			if err := repo.UpdatePredictions(ctx, current.ID, input.Predictions, now); err != nil {
				return fmt.Errorf("update bet for group=%s: %w", target.ID, err)
			}
			current.Predictions = input.Predictions
			current.UpdatedAt = now
			result = current
			return nil
		}

		created, err := s.createBet(ctx, repo, input.UserID, input.Season, &target.ID, input.Predictions, now)
		if err != nil {
			return err
		}
		result = created
		return nil
	})
	if err != nil {
		return nil, err
	}
	return []bet.Bet{result}, nil
}

// submitToAllGroups handles the nil-target path for a user who already has
// bets. A user with no memberships keeps a plain default bet; otherwise
// every non-expired group gets a create or update atomically.
func (s *BetService) submitToAllGroups(ctx context.Context, input SubmitPredictionInput, existing []bet.Bet, now time.Time) ([]bet.Bet, error) {
	memberships, err := s.groups.ListByUser(ctx, input.UserID)
	if err != nil {
		return nil, fmt.Errorf("list group memberships: %w", err)
	}

	if len(memberships) == 0 {
		return s.resubmitDefaultBet(ctx, input, existing, now)
	}

	eligible := make([]group.Group, 0, len(memberships))
	for _, member := range memberships {
		if !member.DeadlinePassed(now) {
			eligible = append(eligible, member)
		}
	}
	if len(eligible) == 0 {
		return nil, fmt.Errorf("%w: every group you belong to is closed for season %d", ErrDeadlineExpired, input.Season)
	}

	results := make([]bet.Bet, 0, len(eligible))
	err = s.betRepo.InTx(ctx, func(repo bet.Repository) error {
		for _, item := range existing {
			if item.IsDefault() {
				if err := repo.Delete(ctx, item.ID); err != nil {
					return fmt.Errorf("delete superseded default bet: %w", err)
				}
			}
		}

		for _, target := range eligible {
			current, found := findByGroup(existing, &target.ID)
			if found {
				if err := repo.UpdatePredictions(ctx, current.ID, input.Predictions, now); err != nil {
					return fmt.Errorf("update bet for group=%s: %w", target.ID, err)
				}
				current.Predictions = input.Predictions
				current.UpdatedAt = now
				results = append(results, current)
				continue
			}

			created, err := s.createBet(ctx, repo, input.UserID, input.Season, &target.ID, input.Predictions, now)
			if err != nil {
				return err
			}
			results = append(results, created)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(results, func(i, j int) bool {
		return *results[i].GroupID < *results[j].GroupID
	})
	return results, nil
}

func (s *BetService) resubmitDefaultBet(ctx context.Context, input SubmitPredictionInput, existing []bet.Bet, now time.Time) ([]bet.Bet, error) {
	current, found := findByGroup(existing, nil)
	if !found {
		created, err := s.createBet(ctx, s.betRepo, input.UserID, input.Season, nil, input.Predictions, now)
		if err != nil {
			return nil, err
		}
		return []bet.Bet{created}, nil
	}

	if err := s.betRepo.UpdatePredictions(ctx, current.ID, input.Predictions, now); err != nil {
		return nil, fmt.Errorf("update default bet: %w", err)
	}
	current.Predictions = input.Predictions
	current.UpdatedAt = now
	return []bet.Bet{current}, nil
}

// ReassignDefaultBetGroup moves a previously created default bet onto a
// group without touching its predictions, for users who pick a group after
// already predicting. When no default bet exists this is a no-op and
// returns nil.
func (s *BetService) ReassignDefaultBetGroup(ctx context.Context, userID, groupID string, season int) (*bet.Bet, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BetService.ReassignDefaultBetGroup")
	defer span.End()

	userID = strings.TrimSpace(userID)
	groupID = strings.TrimSpace(groupID)
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if groupID == "" {
		return nil, fmt.Errorf("%w: group id is required", ErrInvalidInput)
	}
	if season <= 0 {
		return nil, fmt.Errorf("%w: season must be greater than zero", ErrInvalidInput)
	}

	target, exists, err := s.groups.GetByID(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("get group for reassign: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: group=%s", ErrGroupNotFound, groupID)
	}

	current, found, err := s.betRepo.GetByGroup(ctx, userID, season, nil)
	if err != nil {
		return nil, fmt.Errorf("get default bet for reassign: %w", err)
	}
	if !found {
		return nil, nil
	}

	now := s.now().UTC()
	if err := s.betRepo.UpdateGroup(ctx, current.ID, target.ID, now); err != nil {
		if isDuplicateConstraintError(err) {
			return nil, fmt.Errorf("%w: a bet already exists for group=%s", ErrInvalidInput, target.ID)
		}
		return nil, fmt.Errorf("reassign default bet to group=%s: %w", target.ID, err)
	}

	current.GroupID = &target.ID
	current.UpdatedAt = now
	return &current, nil
}

// ListUserBets returns all of a user's bets for a season.
func (s *BetService) ListUserBets(ctx context.Context, userID string, season int) ([]bet.Bet, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BetService.ListUserBets")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if season <= 0 {
		return nil, fmt.Errorf("%w: season must be greater than zero", ErrInvalidInput)
	}

	items, err := s.betRepo.ListByUserSeason(ctx, userID, season)
	if err != nil {
		return nil, fmt.Errorf("list bets: %w", err)
	}
	return items, nil
}

func (s *BetService) validateSubmission(input *SubmitPredictionInput) error {
	input.UserID = strings.TrimSpace(input.UserID)
	if input.UserID == "" {
		return fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if input.Season <= 0 {
		return fmt.Errorf("%w: season must be greater than zero", ErrInvalidInput)
	}
	if len(input.Predictions) == 0 {
		return fmt.Errorf("%w: predictions cannot be empty", ErrInvalidInput)
	}

	seen := make(map[string]struct{}, len(input.Predictions))
	for idx, team := range input.Predictions {
		team = strings.TrimSpace(team)
		if team == "" {
			return fmt.Errorf("%w: predicted team at position %d is empty", ErrInvalidInput, idx+1)
		}
		if _, dup := seen[team]; dup {
			return fmt.Errorf("%w: team %q predicted more than once", ErrInvalidInput, team)
		}
		seen[team] = struct{}{}
		input.Predictions[idx] = team
	}

	if input.GroupID != nil {
		trimmed := strings.TrimSpace(*input.GroupID)
		if trimmed == "" {
			input.GroupID = nil
		} else {
			input.GroupID = &trimmed
		}
	}
	return nil
}

func (s *BetService) resolveOpenGroup(ctx context.Context, groupID string, now time.Time) (group.Group, error) {
	target, exists, err := s.groups.GetByID(ctx, groupID)
	if err != nil {
		return group.Group{}, fmt.Errorf("get group: %w", err)
	}
	if !exists {
		return group.Group{}, fmt.Errorf("%w: group=%s", ErrGroupNotFound, groupID)
	}
	if target.DeadlinePassed(now) {
		return group.Group{}, fmt.Errorf("%w: group=%s deadline=%s", ErrDeadlineExpired, target.ID, target.DeadlineAt.Format(time.RFC3339))
	}
	return target, nil
}

func (s *BetService) createBet(ctx context.Context, repo bet.Repository, userID string, season int, groupID *string, predictions []string, now time.Time) (bet.Bet, error) {
	betID, err := s.idGen.NewID()
	if err != nil {
		return bet.Bet{}, fmt.Errorf("generate bet id: %w", err)
	}

	created := bet.Bet{
		ID:          betID,
		UserID:      userID,
		GroupID:     groupID,
		Season:      season,
		Predictions: append([]string(nil), predictions...),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := repo.Create(ctx, created); err != nil {
		return bet.Bet{}, fmt.Errorf("create bet: %w", err)
	}
	return created, nil
}

func findByGroup(items []bet.Bet, groupID *string) (bet.Bet, bool) {
	for _, item := range items {
		if groupID == nil {
			if item.IsDefault() {
				return item, true
			}
			continue
		}
		if item.GroupID != nil && *item.GroupID == *groupID {
			return item, true
		}
	}
	return bet.Bet{}, false
}

func isDuplicateConstraintError(err error) bool {
	if err == nil {
		return false
	}
	text := strings.ToLower(err.Error())
	return strings.Contains(text, "duplicate key value violates unique constraint") ||
		strings.Contains(text, "duplicate bet")
}
