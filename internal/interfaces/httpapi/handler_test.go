package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/brunocesarr/brazuerao-betting/internal/domain/group"
	"github.com/brunocesarr/brazuerao-betting/internal/domain/rules"
	"github.com/brunocesarr/brazuerao-betting/internal/domain/user"
	"github.com/brunocesarr/brazuerao-betting/internal/infrastructure/repository/memory"
	"github.com/brunocesarr/brazuerao-betting/internal/platform/logging"
	"github.com/brunocesarr/brazuerao-betting/internal/usecase"
)

type stubVerifier struct{}

func (stubVerifier) VerifyAccessToken(_ context.Context, token string) (user.Principal, error) {
	if !strings.HasPrefix(token, "token-") {
		return user.Principal{}, fmt.Errorf("%w: unknown token", usecase.ErrUnauthorized)
	}
	userID := strings.TrimPrefix(token, "token-")
	return user.Principal{UserID: userID, Email: userID + "@example.com"}, nil
}

type apiFixture struct {
	router  http.Handler
	betRepo *memory.BetRepository
	groups  *memory.GroupDirectory
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()

	betRepo := memory.NewBetRepository()
	groups := memory.NewGroupDirectory()
	provider := memory.NewStandingsProvider()
	if err := memory.SeedStandings(provider, 2025); err != nil {
		t.Fatalf("seed standings: %v", err)
	}

	betService := usecase.NewBetService(betRepo, groups, &sequenceIDGenerator{})
	scoreService, err := usecase.NewScoreService(betRepo, groups, provider, rules.Default())
	if err != nil {
		t.Fatalf("new score service: %v", err)
	}
	standingsService := usecase.NewStandingsService(provider)

	handler := NewHandler(betService, scoreService, standingsService, logging.NewNop())
	router := NewRouter(handler, stubVerifier{}, logging.NewNop(), nil)
	return &apiFixture{router: router, betRepo: betRepo, groups: groups}
}

type sequenceIDGenerator struct {
	next int
}

func (g *sequenceIDGenerator) NewID() (string, error) {
	g.next++
	return fmt.Sprintf("id-%d", g.next), nil
}

func (f *apiFixture) do(t *testing.T, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder) any {
	t.Helper()
	var body map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal body: %v", err)
	}
	return body["data"]
}

func TestHealthz(t *testing.T) {
	fixture := newAPIFixture(t)
	rec := fixture.do(t, http.MethodGet, "/healthz", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestListSeasonStandings(t *testing.T) {
	fixture := newAPIFixture(t)
	rec := fixture.do(t, http.MethodGet, "/v1/seasons/2025/standings", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	rows, ok := decodeData(t, rec).([]any)
	if !ok || len(rows) != 20 {
		t.Fatalf("expected 20 rows, got %v", decodeData(t, rec))
	}
}

func TestListSeasonStandingsUnknownSeason(t *testing.T) {
	fixture := newAPIFixture(t)
	rec := fixture.do(t, http.MethodGet, "/v1/seasons/1999/standings", "", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestSubmitBetRequiresAuth(t *testing.T) {
	fixture := newAPIFixture(t)
	rec := fixture.do(t, http.MethodPut, "/v1/seasons/2025/bets", "", `{"predictions":["Flamengo"]}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestSubmitBetCreatesDefault(t *testing.T) {
	fixture := newAPIFixture(t)
	rec := fixture.do(t, http.MethodPut, "/v1/seasons/2025/bets", "token-u1", `{"predictions":["Flamengo","Palmeiras"]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	items, _ := fixture.betRepo.ListByUserSeason(context.Background(), "u1", 2025)
	if len(items) != 1 || items[0].GroupID != nil {
		t.Fatalf("expected one default bet, got %+v", items)
	}
}

func TestSubmitBetRejectsUnknownFields(t *testing.T) {
	fixture := newAPIFixture(t)
	rec := fixture.do(t, http.MethodPut, "/v1/seasons/2025/bets", "token-u1", `{"predictions":["Flamengo"],"bogus":1}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestSubmitBetExpiredGroupConflict(t *testing.T) {
	fixture := newAPIFixture(t)
	fixture.groups.Put(group.Group{ID: "g1", Name: "g1", DeadlineAt: time.Now().Add(-time.Hour)})

	rec := fixture.do(t, http.MethodPut, "/v1/seasons/2025/bets", "token-u1", `{"predictions":["Flamengo"],"group_id":"g1"}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestReassignBetNotFoundGroup(t *testing.T) {
	fixture := newAPIFixture(t)
	rec := fixture.do(t, http.MethodPost, "/v1/seasons/2025/bets/reassign", "token-u1", `{"group_id":"ghost"}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestScoreAndLeaderboardFlow(t *testing.T) {
	fixture := newAPIFixture(t)
	fixture.groups.Put(group.Group{ID: "g1", Name: "g1", DeadlineAt: time.Now().Add(time.Hour)})
	fixture.groups.AddMember("g1", "u1")

	body := `{"predictions":["Botafogo","Palmeiras","Flamengo"],"group_id":"g1"}`
	if rec := fixture.do(t, http.MethodPut, "/v1/seasons/2025/bets", "token-u1", body); rec.Code != http.StatusOK {
		t.Fatalf("submit: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	rec := fixture.do(t, http.MethodGet, "/v1/seasons/2025/score", "token-u1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("score: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	scores, _ := decodeData(t, rec).([]any)
	if len(scores) != 1 {
		t.Fatalf("expected 1 scored bet, got %v", scores)
	}

	rec = fixture.do(t, http.MethodGet, "/v1/groups/g1/leaderboard?season=2025", "token-u2", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("leaderboard: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	entries, _ := decodeData(t, rec).([]any)
	if len(entries) != 1 {
		t.Fatalf("expected 1 leaderboard entry, got %v", entries)
	}
	first, _ := entries[0].(map[string]any)
	if first["user_id"] != "u1" || first["rank"] != float64(1) {
		t.Fatalf("unexpected leaderboard entry: %v", first)
	}
}

func TestLeaderboardMissingSeasonQuery(t *testing.T) {
	fixture := newAPIFixture(t)
	fixture.groups.Put(group.Group{ID: "g1", Name: "g1", DeadlineAt: time.Now().Add(time.Hour)})

	rec := fixture.do(t, http.MethodGet, "/v1/groups/g1/leaderboard", "token-u1", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
