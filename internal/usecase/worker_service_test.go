package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/matchday/league-api/internal/domain/match"
	"github.com/matchday/league-api/internal/infrastructure/repository/memory"
	"github.com/matchday/league-api/internal/infrastructure/resultstore"
	"github.com/matchday/league-api/internal/platform/cache"
	"github.com/matchday/league-api/internal/platform/id"
	"github.com/matchday/league-api/internal/platform/logging"
)

func newTestWorker(t *testing.T, autoCreate map[string]bool) (*WorkerService, *memory.MatchRepository) {
	t.Helper()
	matchRepo := memory.NewMatchRepository()
	teamRepo := memory.NewTeamRepository()
	clubRepo := memory.NewClubRepository()
	leagueRepo := memory.NewLeagueRepository()
	divisionRepo := memory.NewDivisionRepository()
	ageGroupRepo := memory.NewAgeGroupRepository()
	seasonRepo := memory.NewSeasonRepository()
	matchTypeRepo := memory.NewMatchTypeRepository()
	idgen := id.NewRandomGenerator()

	store := resultstore.New(cache.NewStore(time.Minute))
	queries := NewQueryService(matchRepo, teamRepo, cache.NewStore(time.Minute))

	w, err := NewWorkerService(
		nil, store, matchRepo, teamRepo, clubRepo, leagueRepo, divisionRepo, ageGroupRepo,
		seasonRepo, matchTypeRepo, idgen, queries, logging.NewNop(),
		WorkerConfig{AutoCreateByProducer: autoCreate},
	)
	if err != nil {
		t.Fatalf("new worker service: %v", err)
	}
	return w, matchRepo
}

func seedCatalog(t *testing.T, w *WorkerService) {
	t.Helper()
	ctx := context.Background()
	if _, err := w.resolveLeague(ctx, "Metro League", true); err != nil {
		t.Fatalf("seed league: %v", err)
	}
	if _, err := w.resolveAgeGroup(ctx, "U12", true); err != nil {
		t.Fatalf("seed age group: %v", err)
	}
	if _, err := w.resolveSeason(ctx, "2026 Spring", true); err != nil {
		t.Fatalf("seed season: %v", err)
	}
	if _, err := w.resolveMatchType(ctx, "league", true); err != nil {
		t.Fatalf("seed match type: %v", err)
	}
}

func baseSubmission() IngestMatchSubmission {
	return IngestMatchSubmission{
		Producer:      "sportsfeed",
		LeagueName:    "Metro League",
		HomeTeamName:  "Ironclad",
		AwayTeamName:  "Vanguard",
		DivisionName:  "Premier",
		AgeGroupName:  "U12",
		SeasonName:    "2026 Spring",
		MatchTypeName: "league",
		MatchDate:     "2026-04-11",
		HomeScore:     intPtr(2),
		AwayScore:     intPtr(1),
		Status:        "completed",
	}
}

func intPtr(v int) *int { return &v }

func TestWorkerService_ApplyCreatesMatchOnFirstSubmission(t *testing.T) {
	w, matchRepo := newTestWorker(t, map[string]bool{"sportsfeed": true})
	sub := baseSubmission()

	outcome, err := w.apply(context.Background(), sub)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if outcome.Action != "created" {
		t.Fatalf("expected action=created, got %q", outcome.Action)
	}

	stored, found, err := matchRepo.GetByID(context.Background(), outcome.MatchID)
	if err != nil || !found {
		t.Fatalf("get created match: found=%v err=%v", found, err)
	}
	if *stored.HomeScore != 2 || *stored.AwayScore != 1 {
		t.Fatalf("unexpected stored score: %+v", stored)
	}
}

// TestWorkerService_ApplyIsIdempotentByExternalMatchID is the idempotency
// property: repeated submissions carrying the same external_match_id must
// resolve to the same match rather than duplicate-creating.
func TestWorkerService_ApplyIsIdempotentByExternalMatchID(t *testing.T) {
	w, matchRepo := newTestWorker(t, map[string]bool{"sportsfeed": true})
	sub := baseSubmission()
	sub.ExternalMatchID = "feed-123"

	first, err := w.apply(context.Background(), sub)
	if err != nil {
		t.Fatalf("first apply: %v", err)
	}
	if first.Action != "created" {
		t.Fatalf("expected first submission to create, got %q", first.Action)
	}

	sub.HomeScore = intPtr(3)
	second, err := w.apply(context.Background(), sub)
	if err != nil {
		t.Fatalf("second apply: %v", err)
	}
	if second.MatchID != first.MatchID {
		t.Fatalf("expected same match id on resubmission, got %q vs %q", second.MatchID, first.MatchID)
	}
	if second.Action != "updated" {
		t.Fatalf("expected action=updated on resubmission, got %q", second.Action)
	}

	all, err := matchRepo.List(context.Background(), match.Filter{})
	if err != nil {
		t.Fatalf("list matches: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected exactly one stored match, got %d", len(all))
	}
}

// TestWorkerService_ApplyFallsBackToDedupTupleWithoutExternalID covers the
// idempotency fallback when a producer never sends an external_match_id.
func TestWorkerService_ApplyFallsBackToDedupTupleWithoutExternalID(t *testing.T) {
	w, matchRepo := newTestWorker(t, map[string]bool{"sportsfeed": true})
	sub := baseSubmission()

	first, err := w.apply(context.Background(), sub)
	if err != nil {
		t.Fatalf("first apply: %v", err)
	}

	second, err := w.apply(context.Background(), sub)
	if err != nil {
		t.Fatalf("second apply: %v", err)
	}
	if second.MatchID != first.MatchID {
		t.Fatalf("expected dedup tuple to resolve to the same match, got %q vs %q", second.MatchID, first.MatchID)
	}

	all, err := matchRepo.List(context.Background(), match.Filter{})
	if err != nil {
		t.Fatalf("list matches: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected exactly one stored match, got %d", len(all))
	}
}

// TestWorkerService_ApplyNeverOverwritesALockedScore is the score-lock
// invariant: once a match is marked ScoreLocked, later ingestion updates
// must never change its score, even though other fields can still update.
func TestWorkerService_ApplyNeverOverwritesALockedScore(t *testing.T) {
	w, matchRepo := newTestWorker(t, map[string]bool{"sportsfeed": true})
	sub := baseSubmission()
	sub.ExternalMatchID = "feed-locked"

	created, err := w.apply(context.Background(), sub)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	stored, found, err := matchRepo.GetByID(context.Background(), created.MatchID)
	if err != nil || !found {
		t.Fatalf("get match: found=%v err=%v", found, err)
	}
	stored.ScoreLocked = true
	if _, err := matchRepo.Update(context.Background(), stored); err != nil {
		t.Fatalf("lock score: %v", err)
	}

	sub.HomeScore = intPtr(9)
	sub.AwayScore = intPtr(9)
	sub.Location = "Riverside Park"
	outcome, err := w.apply(context.Background(), sub)
	if err != nil {
		t.Fatalf("apply after lock: %v", err)
	}
	if outcome.Action != "updated" {
		t.Fatalf("expected the location change to still apply, got action=%q", outcome.Action)
	}

	after, found, err := matchRepo.GetByID(context.Background(), created.MatchID)
	if err != nil || !found {
		t.Fatalf("get match after locked update: found=%v err=%v", found, err)
	}
	if *after.HomeScore != 2 || *after.AwayScore != 1 {
		t.Fatalf("expected locked score to remain 2-1, got %d-%d", *after.HomeScore, *after.AwayScore)
	}
	if after.Location != "Riverside Park" {
		t.Fatalf("expected location to still update on a locked match, got %q", after.Location)
	}
}

func TestWorkerService_ApplyRejectsUnknownTeamWhenProducerCannotAutoCreate(t *testing.T) {
	w, _ := newTestWorker(t, map[string]bool{"sportsfeed": true})
	seedCatalog(t, w)

	sub := baseSubmission()
	sub.Producer = "untrusted-scraper"

	if _, err := w.apply(context.Background(), sub); err == nil {
		t.Fatalf("expected an error for an unknown team from a non-auto-create producer")
	}
}

func TestWorkerService_ApplyAutoCreatesReferenceDataForAllowedProducer(t *testing.T) {
	w, matchRepo := newTestWorker(t, map[string]bool{"sportsfeed": true})
	sub := baseSubmission()
	sub.ClubName = "Lakeside SC"
	sub.DivisionName = "Premier"

	outcome, err := w.apply(context.Background(), sub)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}

	stored, found, err := matchRepo.GetByID(context.Background(), outcome.MatchID)
	if err != nil || !found {
		t.Fatalf("get created match: found=%v err=%v", found, err)
	}
	if stored.DivisionID == "" {
		t.Fatalf("expected division to be auto-created and assigned, got empty DivisionID")
	}
}
