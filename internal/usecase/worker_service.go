package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	ants "github.com/panjf2000/ants/v2"

	"github.com/matchday/league-api/internal/domain/agegroup"
	"github.com/matchday/league-api/internal/domain/club"
	"github.com/matchday/league-api/internal/domain/division"
	"github.com/matchday/league-api/internal/domain/league"
	"github.com/matchday/league-api/internal/domain/match"
	"github.com/matchday/league-api/internal/domain/matchtype"
	"github.com/matchday/league-api/internal/domain/season"
	"github.com/matchday/league-api/internal/domain/team"
	"github.com/matchday/league-api/internal/infrastructure/broker"
	"github.com/matchday/league-api/internal/infrastructure/resultstore"
	"github.com/matchday/league-api/internal/platform/id"
	"github.com/matchday/league-api/internal/platform/logging"
)

// IngestMatchSubmission is the wire shape a producer POSTs to
// /api/matches/submit. Teams and reference data are addressed by name, not
// id: the worker resolves (and optionally creates) the underlying entities.
type IngestMatchSubmission struct {
	Producer        string `json:"producer"`
	ExternalMatchID string `json:"external_match_id"`
	LeagueName      string `json:"league_name"`
	ClubName        string `json:"club_name"`
	HomeTeamName    string `json:"home_team_name"`
	AwayTeamName    string `json:"away_team_name"`
	DivisionName    string `json:"division_name"`
	AgeGroupName    string `json:"age_group_name"`
	SeasonName      string `json:"season_name"`
	MatchTypeName   string `json:"match_type_name"`
	MatchDate       string `json:"match_date"`
	MatchTime       string `json:"match_time"`
	Location        string `json:"location"`
	HomeScore       *int   `json:"home_score"`
	AwayScore       *int   `json:"away_score"`
	Status          string `json:"status"`
}

type WorkerConfig struct {
	Concurrency int
	MaxAttempts int
	BaseBackoff time.Duration
	// AutoCreateByProducer decides, per producer name, whether an unknown
	// entity referenced by name is created on the fly (true) or fails the
	// job (false, the default for unlisted producers).
	AutoCreateByProducer map[string]bool
}

func (c WorkerConfig) normalized() WorkerConfig {
	if c.Concurrency <= 0 {
		c.Concurrency = 8
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 5
	}
	if c.BaseBackoff <= 0 {
		c.BaseBackoff = 2 * time.Second
	}
	if c.AutoCreateByProducer == nil {
		c.AutoCreateByProducer = map[string]bool{}
	}
	return c
}

// WorkerService is the C7 consumer: it dequeues ingestion jobs, resolves
// named entities, applies score-lock semantics, and writes the outcome to
// the result store the status endpoint reads from.
type WorkerService struct {
	broker        broker.Broker
	results       *resultstore.Store
	matchRepo     match.Repository
	teamRepo      team.Repository
	clubRepo      club.Repository
	leagueRepo    league.Repository
	divisionRepo  division.Repository
	ageGroupRepo  agegroup.Repository
	seasonRepo    season.Repository
	matchTypeRepo matchtype.Repository
	idgen         id.Generator
	standings     *QueryService
	logger        *logging.Logger
	pool          *ants.Pool
	cfg           WorkerConfig

	processed atomic.Int64
	failed    atomic.Int64
}

func NewWorkerService(
	b broker.Broker,
	results *resultstore.Store,
	matchRepo match.Repository,
	teamRepo team.Repository,
	clubRepo club.Repository,
	leagueRepo league.Repository,
	divisionRepo division.Repository,
	ageGroupRepo agegroup.Repository,
	seasonRepo season.Repository,
	matchTypeRepo matchtype.Repository,
	idgen id.Generator,
	standings *QueryService,
	logger *logging.Logger,
	cfg WorkerConfig,
) (*WorkerService, error) {
	cfg = cfg.normalized()
	pool, err := ants.NewPool(cfg.Concurrency)
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &WorkerService{
		broker:        b,
		results:       results,
		matchRepo:     matchRepo,
		teamRepo:      teamRepo,
		clubRepo:      clubRepo,
		leagueRepo:    leagueRepo,
		divisionRepo:  divisionRepo,
		ageGroupRepo:  ageGroupRepo,
		seasonRepo:    seasonRepo,
		matchTypeRepo: matchTypeRepo,
		idgen:         idgen,
		standings:     standings,
		logger:        logger,
		pool:          pool,
		cfg:           cfg,
	}, nil
}

// Run blocks, dequeuing jobs and submitting each to the pool, until ctx is
// cancelled.
func (w *WorkerService) Run(ctx context.Context) error {
	defer w.pool.Release()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		job, err := w.broker.Dequeue(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			continue
		}

		if err := w.pool.Submit(func() { w.process(ctx, job) }); err != nil {
			w.logger.ErrorContext(ctx, "submit ingestion job to pool failed", "error", err, "job_id", job.ID)
		}
	}
}

func (w *WorkerService) process(ctx context.Context, job broker.Job) {
	w.results.Set(ctx, job.ID, resultstore.Result{State: resultstore.StateStarted, Ready: false})

	var submission IngestMatchSubmission
	if err := json.Unmarshal(job.Payload, &submission); err != nil {
		w.terminal(ctx, job.ID, fmt.Errorf("%w: malformed ingestion payload: %v", ErrInvalidInput, err))
		return
	}

	result, err := w.apply(ctx, submission)
	if err != nil {
		if isTransient(err) && job.Attempt < w.cfg.MaxAttempts {
			backoff := w.cfg.BaseBackoff * time.Duration(1<<uint(job.Attempt-1))
			if reqErr := w.broker.Requeue(ctx, job, backoff); reqErr != nil {
				w.logger.ErrorContext(ctx, "requeue ingestion job failed", "error", reqErr, "job_id", job.ID)
			}
			return
		}
		if isTransient(err) {
			w.terminal(ctx, job.ID, nil)
			return
		}
		w.terminal(ctx, job.ID, err)
		return
	}

	_ = w.broker.Ack(ctx, job.ID)
	w.processed.Add(1)
	w.results.Set(ctx, job.ID, resultstore.Result{State: resultstore.StateSuccess, Ready: true, Result: result})
}

func (w *WorkerService) terminal(ctx context.Context, jobID string, err error) {
	_ = w.broker.Ack(ctx, jobID)
	w.failed.Add(1)
	errMsg := "WORKER_EXHAUSTED"
	if err != nil {
		errMsg = err.Error()
	}
	w.results.Set(ctx, jobID, resultstore.Result{State: resultstore.StateFailure, Ready: true, Error: errMsg})
}

type ingestOutcome struct {
	MatchID string `json:"match_id"`
	Action  string `json:"action"`
}

func (w *WorkerService) apply(ctx context.Context, sub IngestMatchSubmission) (ingestOutcome, error) {
	autoCreate := w.cfg.AutoCreateByProducer[sub.Producer]

	lg, err := w.resolveLeague(ctx, sub.LeagueName, autoCreate)
	if err != nil {
		return ingestOutcome{}, err
	}
	var clubID string
	if strings.TrimSpace(sub.ClubName) != "" {
		cl, err := w.resolveClub(ctx, sub.ClubName, autoCreate)
		if err != nil {
			return ingestOutcome{}, err
		}
		clubID = cl.ID
	}
	homeTeam, err := w.resolveTeam(ctx, sub.HomeTeamName, clubID, lg.ID, autoCreate)
	if err != nil {
		return ingestOutcome{}, err
	}
	awayTeam, err := w.resolveTeam(ctx, sub.AwayTeamName, clubID, lg.ID, autoCreate)
	if err != nil {
		return ingestOutcome{}, err
	}
	div, err := w.resolveDivision(ctx, sub.DivisionName, lg.ID, autoCreate)
	if err != nil {
		return ingestOutcome{}, err
	}
	ag, err := w.resolveAgeGroup(ctx, sub.AgeGroupName, autoCreate)
	if err != nil {
		return ingestOutcome{}, err
	}
	sea, err := w.resolveSeason(ctx, sub.SeasonName, autoCreate)
	if err != nil {
		return ingestOutcome{}, err
	}
	mt, err := w.resolveMatchType(ctx, sub.MatchTypeName, autoCreate)
	if err != nil {
		return ingestOutcome{}, err
	}

	matchDate, _ := time.Parse("2006-01-02", sub.MatchDate)

	var existing match.Match
	var found bool
	if sub.ExternalMatchID != "" {
		existing, found, err = w.matchRepo.GetByExternalID(ctx, sub.ExternalMatchID)
		if err != nil {
			return ingestOutcome{}, fmt.Errorf("get match by external id: %w", err)
		}
	}
	if !found {
		existing, found, err = w.matchRepo.GetByDedup(ctx, match.Dedup{
			HomeTeamID:  homeTeam.ID,
			AwayTeamID:  awayTeam.ID,
			MatchDate:   matchDate,
			SeasonID:    sea.ID,
			AgeGroupID:  ag.ID,
			MatchTypeID: mt.ID,
			DivisionID:  div.ID,
		})
		if err != nil {
			return ingestOutcome{}, fmt.Errorf("get match by dedup key: %w", err)
		}
	}

	status := match.Status(sub.Status)
	if !status.Valid() {
		status = match.StatusScheduled
		if sub.HomeScore != nil && sub.AwayScore != nil {
			status = match.StatusCompleted
		}
	}

	if !found {
		newID, err := w.idgen.NewID()
		if err != nil {
			return ingestOutcome{}, fmt.Errorf("generate match id: %w", err)
		}
		now := time.Now().UTC()
		created := match.Match{
			ID:              newID,
			HomeTeamID:      homeTeam.ID,
			AwayTeamID:      awayTeam.ID,
			HomeScore:       sub.HomeScore,
			AwayScore:       sub.AwayScore,
			MatchDate:       matchDate,
			MatchTime:       sub.MatchTime,
			Location:        sub.Location,
			SeasonID:        sea.ID,
			AgeGroupID:      ag.ID,
			MatchTypeID:     mt.ID,
			DivisionID:      div.ID,
			Status:          status,
			ExternalMatchID: sub.ExternalMatchID,
			Source:          match.SourceScraper,
			Version:         1,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if err := created.Validate(); err != nil {
			return ingestOutcome{}, fmt.Errorf("%w: %v", ErrInvariantViolation, err)
		}
		saved, err := w.matchRepo.Create(ctx, created)
		if err != nil {
			return ingestOutcome{}, fmt.Errorf("create match: %w", err)
		}
		w.invalidateStandings(ctx)
		return ingestOutcome{MatchID: saved.ID, Action: "created"}, nil
	}

	changed := false
	if !existing.ScoreLocked {
		if !scoreEqual(existing.HomeScore, sub.HomeScore) || !scoreEqual(existing.AwayScore, sub.AwayScore) {
			existing.HomeScore = sub.HomeScore
			existing.AwayScore = sub.AwayScore
			changed = true
		}
	}
	if status != "" && existing.Status != status {
		existing.Status = status
		changed = true
	}
	if sub.Location != "" && existing.Location != sub.Location {
		existing.Location = sub.Location
		changed = true
	}

	if !changed {
		return ingestOutcome{MatchID: existing.ID, Action: "skipped"}, nil
	}

	existing.UpdatedAt = time.Now().UTC()
	existing.Version++
	if err := existing.Validate(); err != nil {
		return ingestOutcome{}, fmt.Errorf("%w: %v", ErrInvariantViolation, err)
	}
	updated, err := w.matchRepo.Update(ctx, existing)
	if err != nil {
		return ingestOutcome{}, fmt.Errorf("update match: %w", err)
	}
	w.invalidateStandings(ctx)
	return ingestOutcome{MatchID: updated.ID, Action: "updated"}, nil
}

func (w *WorkerService) invalidateStandings(ctx context.Context) {
	if w.standings != nil {
		w.standings.InvalidateStandings(ctx)
	}
}

func (w *WorkerService) resolveLeague(ctx context.Context, name string, autoCreate bool) (league.League, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return league.League{}, fmt.Errorf("%w: league_name is required", ErrInvalidInput)
	}
	existing, found, err := w.leagueRepo.GetByName(ctx, name)
	if err != nil {
		return league.League{}, fmt.Errorf("get league by name: %w", err)
	}
	if found {
		return existing, nil
	}
	if !autoCreate {
		return league.League{}, fmt.Errorf("%w: league %q", ErrUnknownEntity, name)
	}
	newID, err := w.idgen.NewID()
	if err != nil {
		return league.League{}, fmt.Errorf("generate league id: %w", err)
	}
	now := time.Now().UTC()
	created := league.League{ID: newID, Name: name, IsActive: true, CreatedAt: now, UpdatedAt: now}
	return w.leagueRepo.Create(ctx, created)
}

func (w *WorkerService) resolveClub(ctx context.Context, name string, autoCreate bool) (club.Club, error) {
	existing, found, err := w.clubRepo.GetByName(ctx, name)
	if err != nil {
		return club.Club{}, fmt.Errorf("get club by name: %w", err)
	}
	if found {
		return existing, nil
	}
	if !autoCreate {
		return club.Club{}, fmt.Errorf("%w: club %q", ErrUnknownEntity, name)
	}
	newID, err := w.idgen.NewID()
	if err != nil {
		return club.Club{}, fmt.Errorf("generate club id: %w", err)
	}
	now := time.Now().UTC()
	return w.clubRepo.Create(ctx, club.Club{ID: newID, Name: name, IsActive: true, CreatedAt: now, UpdatedAt: now})
}

func (w *WorkerService) resolveTeam(ctx context.Context, name, clubID, leagueID string, autoCreate bool) (team.Team, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return team.Team{}, fmt.Errorf("%w: team name is required", ErrInvalidInput)
	}
	existing, found, err := w.teamRepo.GetByName(ctx, name, clubID, leagueID)
	if err != nil {
		return team.Team{}, fmt.Errorf("get team by name: %w", err)
	}
	if found {
		return existing, nil
	}
	if !autoCreate {
		return team.Team{}, fmt.Errorf("%w: team %q", ErrUnknownEntity, name)
	}
	newID, err := w.idgen.NewID()
	if err != nil {
		return team.Team{}, fmt.Errorf("generate team id: %w", err)
	}
	return w.teamRepo.Create(ctx, team.Team{ID: newID, Name: name, ClubID: clubID, LeagueID: leagueID})
}

func (w *WorkerService) resolveDivision(ctx context.Context, name, leagueID string, autoCreate bool) (division.Division, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return division.Division{}, fmt.Errorf("%w: division_name is required", ErrInvalidInput)
	}
	existing, found, err := w.divisionRepo.GetByName(ctx, leagueID, name)
	if err != nil {
		return division.Division{}, fmt.Errorf("get division by name: %w", err)
	}
	if found {
		return existing, nil
	}
	if !autoCreate {
		return division.Division{}, fmt.Errorf("%w: division %q", ErrUnknownEntity, name)
	}
	newID, err := w.idgen.NewID()
	if err != nil {
		return division.Division{}, fmt.Errorf("generate division id: %w", err)
	}
	return w.divisionRepo.Create(ctx, division.Division{ID: newID, LeagueID: leagueID, Name: name})
}

func (w *WorkerService) resolveAgeGroup(ctx context.Context, name string, autoCreate bool) (agegroup.AgeGroup, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return agegroup.AgeGroup{}, fmt.Errorf("%w: age_group_name is required", ErrInvalidInput)
	}
	existing, found, err := w.ageGroupRepo.GetByName(ctx, name)
	if err != nil {
		return agegroup.AgeGroup{}, fmt.Errorf("get age group by name: %w", err)
	}
	if found {
		return existing, nil
	}
	if !autoCreate {
		return agegroup.AgeGroup{}, fmt.Errorf("%w: age group %q", ErrUnknownEntity, name)
	}
	newID, err := w.idgen.NewID()
	if err != nil {
		return agegroup.AgeGroup{}, fmt.Errorf("generate age group id: %w", err)
	}
	return w.ageGroupRepo.Create(ctx, agegroup.AgeGroup{ID: newID, Name: name})
}

func (w *WorkerService) resolveSeason(ctx context.Context, name string, autoCreate bool) (season.Season, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		current, found, err := w.seasonRepo.GetCurrent(ctx)
		if err != nil {
			return season.Season{}, fmt.Errorf("get current season: %w", err)
		}
		if !found {
			return season.Season{}, fmt.Errorf("%w: no current season configured", ErrUnknownEntity)
		}
		return current, nil
	}
	existing, found, err := w.seasonRepo.GetByName(ctx, name)
	if err != nil {
		return season.Season{}, fmt.Errorf("get season by name: %w", err)
	}
	if found {
		return existing, nil
	}
	if !autoCreate {
		return season.Season{}, fmt.Errorf("%w: season %q", ErrUnknownEntity, name)
	}
	newID, err := w.idgen.NewID()
	if err != nil {
		return season.Season{}, fmt.Errorf("generate season id: %w", err)
	}
	return w.seasonRepo.Create(ctx, season.Season{ID: newID, Name: name})
}

func (w *WorkerService) resolveMatchType(ctx context.Context, name string, autoCreate bool) (matchtype.MatchType, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = "league"
	}
	existing, found, err := w.matchTypeRepo.GetByName(ctx, name)
	if err != nil {
		return matchtype.MatchType{}, fmt.Errorf("get match type by name: %w", err)
	}
	if found {
		return existing, nil
	}
	if !autoCreate {
		return matchtype.MatchType{}, fmt.Errorf("%w: match type %q", ErrUnknownEntity, name)
	}
	newID, err := w.idgen.NewID()
	if err != nil {
		return matchtype.MatchType{}, fmt.Errorf("generate match type id: %w", err)
	}
	return w.matchTypeRepo.Create(ctx, matchtype.MatchType{ID: newID, Name: name, CountsStandings: true})
}

func isTransient(err error) bool {
	return errors.Is(err, ErrDependencyUnavailable)
}
