package footdata

import (
	"context"
	"fmt"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/sourcegraph/conc/pool"
	"github.com/valyala/fasthttp"

	"github.com/brunocesarr/brazuerao-betting/internal/domain/standings"
	"github.com/brunocesarr/brazuerao-betting/internal/platform/logging"
)

const (
	defaultBaseURL    = "https://api.football-data.org/v4"
	defaultTimeout    = 15 * time.Second
	defaultMaxRetries = 2
	competitionSerieA = "BSA"
)

var errTransient = crerr.New("footdata transient failure")

type ClientConfig struct {
	BaseURL     string
	Token       string
	Competition string
	Timeout     time.Duration
	MaxRetries  int
	Logger      *logging.Logger
}

// Client pulls league tables from the football-data.org v4 API. It
// implements standings.Provider.
type Client struct {
	httpClient  *fasthttp.Client
	baseURL     string
	token       string
	competition string
	timeout     time.Duration
	maxRetries  int
	logger      *logging.Logger
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewNop()
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	competition := strings.TrimSpace(cfg.Competition)
	if competition == "" {
		competition = competitionSerieA
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = defaultMaxRetries
	}

	return &Client{
		httpClient:  &fasthttp.Client{ReadTimeout: timeout, WriteTimeout: timeout},
		baseURL:     baseURL,
		token:       strings.TrimSpace(cfg.Token),
		competition: competition,
		timeout:     timeout,
		maxRetries:  maxRetries,
		logger:      logger,
	}
}

type standingsEnvelope struct {
	Standings []struct {
		Type  string `json:"type"`
		Table []struct {
			Position int `json:"position"`
			Team     struct {
				Name      string `json:"name"`
				ShortName string `json:"shortName"`
			} `json:"team"`
		} `json:"table"`
	} `json:"standings"`
}

// GetStandings fetches the TOTAL table for a season. Rows come back
// sorted by position.
func (c *Client) GetStandings(ctx context.Context, season int) ([]standings.TeamPosition, error) {
	if season <= 0 {
		return nil, fmt.Errorf("season must be greater than zero")
	}

	path := fmt.Sprintf("/competitions/%s/standings?season=%d", c.competition, season)
	body, err := c.doGET(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("fetch standings season=%d: %w", season, err)
	}

	var envelope standingsEnvelope
	if err := sonic.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("decode standings season=%d: %w", season, err)
	}

	table := mapEnvelope(envelope)
	if len(table) == 0 {
		return nil, fmt.Errorf("standings season=%d: empty table", season)
	}
	return table, nil
}

// PrefetchSeasons warms sink with tables for every season, fetching
// concurrently. The first failure cancels the rest.
func (c *Client) PrefetchSeasons(ctx context.Context, seasons []int, sink standings.Repository) error {
	p := pool.New().WithErrors().WithContext(ctx)
	for _, season := range seasons {
		season := season
		p.Go(func(ctx context.Context) error {
			table, err := c.GetStandings(ctx, season)
			if err != nil {
				return err
			}
			if err := sink.ReplaceBySeason(ctx, season, table); err != nil {
				return fmt.Errorf("store standings season=%d: %w", season, err)
			}
			c.logger.InfoContext(ctx, "prefetched standings", "season", season, "teams", len(table))
			return nil
		})
	}
	return p.Wait()
}

func (c *Client) doGET(ctx context.Context, path string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		body, err := c.roundTrip(path)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if !crerr.Is(err, errTransient) {
			return nil, err
		}
		c.logger.WarnContext(ctx, "footdata request failed", "path", path, "attempt", attempt+1, "error", err)
	}
	return nil, lastErr
}

func (c *Client) roundTrip(path string) ([]byte, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.baseURL + path)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("X-Auth-Token", c.token)
	}

	if err := c.httpClient.DoTimeout(req, resp, c.timeout); err != nil {
		return nil, crerr.Wrapf(errTransient, "do request: %v", err)
	}

	status := resp.StatusCode()
	switch {
	case status == fasthttp.StatusOK:
		return append([]byte(nil), resp.Body()...), nil
	case status == fasthttp.StatusTooManyRequests || status >= 500:
		return nil, crerr.Wrapf(errTransient, "status %d", status)
	default:
		return nil, fmt.Errorf("unexpected status %d", status)
	}
}

func mapEnvelope(envelope standingsEnvelope) []standings.TeamPosition {
	for _, block := range envelope.Standings {
		if block.Type != "" && block.Type != "TOTAL" {
			continue
		}
		out := make([]standings.TeamPosition, 0, len(block.Table))
		for _, row := range block.Table {
			name := strings.TrimSpace(row.Team.Name)
			if name == "" {
				name = strings.TrimSpace(row.Team.ShortName)
			}
			if row.Position < 1 || name == "" {
				continue
			}
			out = append(out, standings.TeamPosition{Position: row.Position, Team: name})
		}
		if len(out) > 0 {
			standings.SortByPosition(out)
			return out
		}
	}
	return nil
}
