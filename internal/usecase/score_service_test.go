package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/brunocesarr/brazuerao-betting/internal/domain/bet"
	"github.com/brunocesarr/brazuerao-betting/internal/domain/rules"
	"github.com/brunocesarr/brazuerao-betting/internal/domain/standings"
	"github.com/brunocesarr/brazuerao-betting/internal/infrastructure/repository/memory"
)

func newScoreServiceForTest(t *testing.T) (*ScoreService, *memory.BetRepository, *memory.GroupDirectory, *memory.StandingsProvider) {
	t.Helper()
	betRepo := memory.NewBetRepository()
	groups := memory.NewGroupDirectory()
	provider := memory.NewStandingsProvider()
	svc, err := NewScoreService(betRepo, groups, provider, scoreTestRules())
	if err != nil {
		t.Fatalf("new score service: %v", err)
	}
	return svc, betRepo, groups, provider
}

func scoreTestRules() []rules.Rule {
	return []rules.Rule{
		{ID: "champion", Type: rules.TypeExactChampion, Points: 3, Priority: 1, Active: true},
		{ID: "exact", Type: rules.TypeExactPosition, Points: 2, Priority: 2, Active: true},
	}
}

func scoreTestTable() []standings.TeamPosition {
	return []standings.TeamPosition{
		{Position: 1, Team: "Flamengo"},
		{Position: 2, Team: "Palmeiras"},
		{Position: 3, Team: "Botafogo"},
		{Position: 4, Team: "Fortaleza"},
	}
}

func seedBet(t *testing.T, repo *memory.BetRepository, id, userID string, groupID *string, predictions []string) {
	t.Helper()
	now := time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)
	err := repo.Create(context.Background(), bet.Bet{
		ID: id, UserID: userID, GroupID: groupID, Season: 2025,
		Predictions: predictions, CreatedAt: now, UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("seed bet %s: %v", id, err)
	}
}

func TestScoreUser(t *testing.T) {
	svc, betRepo, _, provider := newScoreServiceForTest(t)
	ctx := context.Background()
	if err := provider.ReplaceBySeason(ctx, 2025, scoreTestTable()); err != nil {
		t.Fatalf("seed standings: %v", err)
	}
	seedBet(t, betRepo, "b1", "u1", nil, []string{"Flamengo", "Botafogo", "Palmeiras", "Fortaleza"})

	scores, err := svc.ScoreUser(ctx, "u1", 2025)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(scores) != 1 {
		t.Fatalf("expected 1 scored bet, got %d", len(scores))
	}
	// Champion claims Flamengo (3), exact-position claims Fortaleza (2).
	if scores[0].Total != 5 {
		t.Fatalf("expected total 5, got %v", scores[0].Total)
	}
	if len(scores[0].Breakdown) != 2 {
		t.Fatalf("expected per-rule breakdown, got %+v", scores[0].Breakdown)
	}
}

func TestScoreUserWithoutBets(t *testing.T) {
	svc, _, _, provider := newScoreServiceForTest(t)
	ctx := context.Background()
	if err := provider.ReplaceBySeason(ctx, 2025, scoreTestTable()); err != nil {
		t.Fatalf("seed standings: %v", err)
	}

	scores, err := svc.ScoreUser(ctx, "u1", 2025)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(scores) != 0 {
		t.Fatalf("expected no scores, got %+v", scores)
	}
}

func TestScoreUserValidation(t *testing.T) {
	svc, _, _, _ := newScoreServiceForTest(t)

	if _, err := svc.ScoreUser(context.Background(), " ", 2025); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for blank user, got %v", err)
	}
	if _, err := svc.ScoreUser(context.Background(), "u1", 0); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for zero season, got %v", err)
	}
}

func TestGroupLeaderboardDenseRanking(t *testing.T) {
	svc, betRepo, groups, provider := newScoreServiceForTest(t)
	ctx := context.Background()
	if err := provider.ReplaceBySeason(ctx, 2025, scoreTestTable()); err != nil {
		t.Fatalf("seed standings: %v", err)
	}
	groups.Put(openGroup("g1"))
	groupID := "g1"
	for _, userID := range []string{"u1", "u2", "u3", "u4"} {
		groups.AddMember("g1", userID)
	}

	// u1 perfect (3 + 3*2 = 9), u2 and u3 tie on 5, u4 has no bet.
	seedBet(t, betRepo, "b1", "u1", &groupID, []string{"Flamengo", "Palmeiras", "Botafogo", "Fortaleza"})
	seedBet(t, betRepo, "b2", "u2", &groupID, []string{"Flamengo", "Botafogo", "Palmeiras", "Fortaleza"})
	seedBet(t, betRepo, "b3", "u3", &groupID, []string{"Flamengo", "Palmeiras", "Fortaleza", "Botafogo"})

	entries, err := svc.GroupLeaderboard(ctx, "g1", 2025)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("members without bets must be omitted, got %d entries", len(entries))
	}

	want := []struct {
		rank   int
		userID string
		total  float64
	}{
		{1, "u1", 9},
		{2, "u2", 5},
		{2, "u3", 5},
	}
	for idx, expected := range want {
		got := entries[idx]
		if got.Rank != expected.rank || got.UserID != expected.userID || got.Total != expected.total {
			t.Fatalf("entry %d mismatch: want %+v got %+v", idx, expected, got)
		}
	}
}

func TestGroupLeaderboardUnknownGroup(t *testing.T) {
	svc, _, _, _ := newScoreServiceForTest(t)

	_, err := svc.GroupLeaderboard(context.Background(), "ghost", 2025)
	if !errors.Is(err, ErrGroupNotFound) {
		t.Fatalf("expected ErrGroupNotFound, got %v", err)
	}
}

func TestGroupLeaderboardEmptyGroup(t *testing.T) {
	svc, _, groups, _ := newScoreServiceForTest(t)
	groups.Put(openGroup("g1"))

	entries, err := svc.GroupLeaderboard(context.Background(), "g1", 2025)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected empty leaderboard, got %+v", entries)
	}
}
