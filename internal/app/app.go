package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/matchday/league-api/external/anubis"
	"github.com/matchday/league-api/internal/config"
	agegroupdomain "github.com/matchday/league-api/internal/domain/agegroup"
	clubdomain "github.com/matchday/league-api/internal/domain/club"
	divisiondomain "github.com/matchday/league-api/internal/domain/division"
	leaguedomain "github.com/matchday/league-api/internal/domain/league"
	matchdomain "github.com/matchday/league-api/internal/domain/match"
	matchtypedomain "github.com/matchday/league-api/internal/domain/matchtype"
	"github.com/matchday/league-api/internal/domain/schemaversion"
	seasondomain "github.com/matchday/league-api/internal/domain/season"
	teamdomain "github.com/matchday/league-api/internal/domain/team"
	"github.com/matchday/league-api/internal/infrastructure/broker"
	postgresrepo "github.com/matchday/league-api/internal/infrastructure/repository/postgres"
	"github.com/matchday/league-api/internal/infrastructure/resultstore"
	"github.com/matchday/league-api/internal/interfaces/httpapi"
	basecache "github.com/matchday/league-api/internal/platform/cache"
	idgen "github.com/matchday/league-api/internal/platform/id"
	"github.com/matchday/league-api/internal/platform/logging"
	"github.com/matchday/league-api/internal/platform/ratelimit"
	"github.com/matchday/league-api/internal/platform/resilience"
	"github.com/matchday/league-api/internal/usecase"
)

// Services bundles every usecase collaborator the API and worker entry
// points share, so cmd/api and cmd/worker each take only what they run
// without duplicating the dependency graph.
type Services struct {
	Identity      *usecase.IdentityService
	Authz         *usecase.AuthorizationEngine
	Invites       *usecase.InviteService
	Ingestion     *usecase.IngestionService
	Query         *usecase.QueryService
	Matches       *usecase.MatchService
	Leagues       *usecase.LeagueService
	Teams         *usecase.TeamService
	Clubs         *usecase.ClubService
	Catalog       *usecase.CatalogService
	Worker        *usecase.WorkerService
	SchemaVersion schemaversion.Repository
}

// Build opens the database, wires every repository and usecase service, and
// returns the closer that must run at process shutdown.
func Build(cfg config.Config, logger *logging.Logger) (Services, func() error, error) {
	if logger == nil {
		logger = logging.Default()
	}

	db, err := otelsqlx.Open("postgres", normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary),
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return Services{}, nil, fmt.Errorf("open postgres connection: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return Services{}, nil, fmt.Errorf("ping postgres: %w", err)
	}

	userRepo := postgresrepo.NewUserRepository(db)
	sessionRepo := postgresrepo.NewSessionRepository(db)
	inviteRepo := postgresrepo.NewInvitationRepository(db)
	assignmentRepo := postgresrepo.NewTeamManagerAssignmentRepository(db)
	var matchRepo matchdomain.Repository = postgresrepo.NewMatchRepository(db)
	var teamRepo teamdomain.Repository = postgresrepo.NewTeamRepository(db)
	var clubRepo clubdomain.Repository = postgresrepo.NewClubRepository(db)
	var leagueRepo leaguedomain.Repository = postgresrepo.NewLeagueRepository(db)
	var divisionRepo divisiondomain.Repository = postgresrepo.NewDivisionRepository(db)
	var ageGroupRepo agegroupdomain.Repository = postgresrepo.NewAgeGroupRepository(db)
	var seasonRepo seasondomain.Repository = postgresrepo.NewSeasonRepository(db)
	var matchTypeRepo matchtypedomain.Repository = postgresrepo.NewMatchTypeRepository(db)
	var schemaVersionRepo schemaversion.Repository = postgresrepo.NewSchemaVersionRepository(db)

	idGenerator := idgen.NewRandomGenerator()

	var credVerifier usecase.CredentialVerifier
	if cfg.AnubisEnabled {
		credVerifier = anubis.NewClient(anubis.ClientConfig{
			BaseURL:    cfg.AnubisBaseURL,
			VerifyPath: cfg.AnubisIntrospectURL,
			AdminKey:   cfg.AnubisAdminKey,
			Timeout:    cfg.AnubisTimeout,
			CircuitBreaker: resilience.CircuitBreakerConfig{
				Enabled:          cfg.AnubisCircuitEnabled,
				FailureThreshold: cfg.AnubisCircuitFailureCount,
				OpenTimeout:      cfg.AnubisCircuitOpenTimeout,
				HalfOpenMaxReq:   cfg.AnubisCircuitHalfOpenMaxReq,
			},
			CacheTTL:     cfg.AnubisCacheTTL,
			CacheMaxSize: cfg.AnubisCacheMaxSize,
		}, logger)
	}

	identitySvc := usecase.NewIdentityService(userRepo, sessionRepo, idGenerator, credVerifier, usecase.IdentityConfig{
		InternalEmailDomain: cfg.InternalEmailDomain,
		AccessTokenTTL:      cfg.AccessTokenTTL,
		RefreshTokenTTL:     cfg.RefreshTokenTTL,
		JWTSigningKey:       []byte(cfg.JWTSigningKey),
		JWTIssuer:           cfg.JWTIssuer,
	})

	authzSvc := usecase.NewAuthorizationEngine(assignmentRepo)

	inviteSvc := usecase.NewInviteService(inviteRepo, identitySvc, usecase.InviteConfig{
		DefaultTTL: cfg.InviteDefaultTTL,
	})

	standingsCache := basecache.NewStoreWithLimit(cfg.StandingsCacheTTL, cfg.StandingsCacheMaxItems)
	querySvc := usecase.NewQueryService(matchRepo, teamRepo, standingsCache)

	matchSvc := usecase.NewMatchService(matchRepo, idGenerator, querySvc)
	leagueSvc := usecase.NewLeagueService(leagueRepo, idGenerator)
	teamSvc := usecase.NewTeamService(teamRepo, leagueRepo, clubRepo, idGenerator)
	clubSvc := usecase.NewClubService(clubRepo, idGenerator)
	catalogSvc := usecase.NewCatalogService(divisionRepo, ageGroupRepo, seasonRepo, matchTypeRepo, idGenerator)

	brokerImpl := broker.NewInProcess(idGenerator, cfg.BrokerCapacity)
	resultCache := basecache.NewStore(cfg.ResultRetention)
	resultStore := resultstore.New(resultCache)
	ingestionSvc := usecase.NewIngestionService(brokerImpl, resultStore)

	autoCreate := make(map[string]bool, len(cfg.AutoCreateProducers))
	for _, producer := range cfg.AutoCreateProducers {
		autoCreate[producer] = true
	}
	workerSvc, err := usecase.NewWorkerService(
		brokerImpl, resultStore, matchRepo, teamRepo, clubRepo, leagueRepo,
		divisionRepo, ageGroupRepo, seasonRepo, matchTypeRepo, idGenerator,
		querySvc, logger,
		usecase.WorkerConfig{
			Concurrency:          cfg.WorkerConcurrency,
			MaxAttempts:          cfg.WorkerMaxAttempts,
			BaseBackoff:          cfg.WorkerBaseBackoff,
			AutoCreateByProducer: autoCreate,
		},
	)
	if err != nil {
		_ = db.Close()
		return Services{}, nil, fmt.Errorf("build worker service: %w", err)
	}

	return Services{
		Identity:      identitySvc,
		Authz:         authzSvc,
		Invites:       inviteSvc,
		Ingestion:     ingestionSvc,
		Query:         querySvc,
		Matches:       matchSvc,
		Leagues:       leagueSvc,
		Teams:         teamSvc,
		Clubs:         clubSvc,
		Catalog:       catalogSvc,
		Worker:        workerSvc,
		SchemaVersion: schemaVersionRepo,
	}, db.Close, nil
}

// NewHTTPHandler builds the full dependency graph and wraps it in the HTTP
// router. The returned closer releases the database connection.
func NewHTTPHandler(cfg config.Config, logger *logging.Logger) (http.Handler, func() error, error) {
	if logger == nil {
		logger = logging.Default()
	}

	svc, closer, err := Build(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	handler := httpapi.NewHandler(
		svc.Identity, svc.Authz, svc.Invites, svc.Ingestion, svc.Query,
		svc.Matches, svc.Leagues, svc.Teams, svc.Clubs, svc.Catalog,
		svc.SchemaVersion, logger,
	)

	var limiter ratelimit.Limiter
	if cfg.RateLimitBackend == "redis" {
		opts, err := redis.ParseURL(cfg.RateLimitRedisURL)
		if err != nil {
			_ = closer()
			return nil, nil, fmt.Errorf("parse RATE_LIMIT_REDIS_URL: %w", err)
		}
		limiter = ratelimit.NewRedisLimiter(redis.NewClient(opts), "mt:ratelimit:")
	} else {
		limiter = ratelimit.NewMemoryLimiter()
	}

	router := httpapi.NewRouter(
		handler,
		svc.Identity,
		limiter,
		logger,
		cfg.CORSAllowedOrigins,
		httpapi.RateLimitConfig{
			AuthLimit:    cfg.RateLimitAuthLimit,
			AuthWindow:   cfg.RateLimitAuthWindow,
			InviteLimit:  cfg.RateLimitInviteLimit,
			InviteWindow: cfg.RateLimitInviteWindow,
			WriteLimit:   cfg.RateLimitWriteLimit,
			WriteWindow:  cfg.RateLimitWriteWindow,
			ReadLimit:    cfg.RateLimitReadLimit,
			ReadWindow:   cfg.RateLimitReadWindow,
		},
		cfg.TraceRequestBody,
		cfg.TraceRequestBodyMaxBytes,
	)

	return router, closer, nil
}
