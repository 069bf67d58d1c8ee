package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	"go.opentelemetry.io/otel/attribute"

	"github.com/brunocesarr/brazuerao-betting/external/footdata"
	"github.com/brunocesarr/brazuerao-betting/internal/config"
	"github.com/brunocesarr/brazuerao-betting/internal/domain/bet"
	"github.com/brunocesarr/brazuerao-betting/internal/domain/group"
	"github.com/brunocesarr/brazuerao-betting/internal/domain/rules"
	"github.com/brunocesarr/brazuerao-betting/internal/domain/standings"
	"github.com/brunocesarr/brazuerao-betting/internal/infrastructure/account/introspection"
	cacherepo "github.com/brunocesarr/brazuerao-betting/internal/infrastructure/repository/cache"
	"github.com/brunocesarr/brazuerao-betting/internal/infrastructure/repository/memory"
	"github.com/brunocesarr/brazuerao-betting/internal/infrastructure/repository/postgres"
	"github.com/brunocesarr/brazuerao-betting/internal/interfaces/httpapi"
	idgen "github.com/brunocesarr/brazuerao-betting/internal/platform/id"
	"github.com/brunocesarr/brazuerao-betting/internal/platform/logging"
	"github.com/brunocesarr/brazuerao-betting/internal/usecase"
)

// NewHTTPServer assembles the betting API: repositories (postgres when
// DB_URL is set, seeded in-memory stores otherwise), the standings source
// chain and the HTTP router.
func NewHTTPServer(cfg config.Config, logger *logging.Logger) (*http.Server, func() error, error) {
	if logger == nil {
		logger = logging.NewNop()
	}

	var (
		betRepo bet.Repository
		groups  group.Directory
		source  standings.Provider
		sink    standings.Repository
	)
	closeDB := func() error { return nil }

	if cfg.DBURL != "" {
		db, err := openDB(cfg)
		if err != nil {
			return nil, nil, err
		}
		betRepo = postgres.NewBetRepository(db)
		groups = postgres.NewGroupDirectory(db)
		pgStandings := postgres.NewStandingsRepository(db)
		source = pgStandings
		sink = pgStandings
		closeDB = db.Close
		logger.Info("using postgres repositories", "db", dbNameFromURL(cfg.DBURL))
	} else {
		memProvider := memory.NewStandingsProvider()
		if err := memory.SeedStandings(memProvider, cfg.CurrentSeason); err != nil {
			return nil, nil, fmt.Errorf("seed standings: %w", err)
		}
		betRepo = memory.NewBetRepository()
		groups = memory.NewGroupDirectory()
		source = memProvider
		logger.Info("using in-memory repositories", "season", cfg.CurrentSeason)
	}

	if cfg.FootDataEnabled {
		client := footdata.NewClient(footdata.ClientConfig{
			BaseURL:     cfg.FootDataBaseURL,
			Token:       cfg.FootDataToken,
			Competition: cfg.FootDataCompetition,
			Timeout:     cfg.FootDataTimeout,
			MaxRetries:  cfg.FootDataMaxRetries,
			Logger:      logger,
		})
		source = client
		if sink != nil {
			// Warm the DB snapshot so the table survives feed outages.
			go func() {
				if err := client.PrefetchSeasons(context.Background(), []int{cfg.CurrentSeason}, sink); err != nil {
					logger.Warn("prefetch standings failed", "season", cfg.CurrentSeason, "error", err)
				}
			}()
		}
		logger.Info("using footdata standings source", "competition", cfg.FootDataCompetition)
	}
	if cfg.CacheEnabled {
		source = cacherepo.NewStandingsProvider(source, cfg.CacheTTL)
	}

	betService := usecase.NewBetService(betRepo, groups, idgen.NewRandomGenerator())
	scoreService, err := usecase.NewScoreService(betRepo, groups, source, rules.Default())
	if err != nil {
		return nil, nil, fmt.Errorf("build score service: %w", err)
	}
	standingsService := usecase.NewStandingsService(source)

	verifier := introspection.NewClient(
		&http.Client{Timeout: cfg.AccountTimeout},
		cfg.AccountBaseURL,
		cfg.AccountIntrospectPath,
		cfg.AccountCacheTTL,
		logger,
	)

	handler := httpapi.NewHandler(betService, scoreService, standingsService, logger)
	router := httpapi.NewRouter(handler, verifier, logger, cfg.CORSAllowedOrigins)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	if server.Addr == "" {
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, closeDB, nil
}

func openDB(cfg config.Config) (*sqlx.DB, error) {
	db, err := otelsqlx.Connect("postgres", cfg.DBURL,
		otelsql.WithAttributes(attribute.String("db.system", "postgresql")),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
	)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return db, nil
}
