package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/matchday/league-api/internal/domain/match"
	"github.com/matchday/league-api/internal/platform/id"
)

// MatchService is the manual CRUD path for matches, used by admins and
// club/team managers through the HTTP API. Async ingestion goes through
// WorkerService instead, which shares the same repository and score-lock
// invariant but resolves teams by name rather than id.
type MatchService struct {
	matchRepo match.Repository
	idgen     id.Generator
	standings *QueryService
}

func NewMatchService(matchRepo match.Repository, idgen id.Generator, standings *QueryService) *MatchService {
	return &MatchService{matchRepo: matchRepo, idgen: idgen, standings: standings}
}

func (s *MatchService) List(ctx context.Context, f match.Filter) ([]match.Match, error) {
	items, err := s.matchRepo.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	return items, nil
}

func (s *MatchService) GetByID(ctx context.Context, id string) (match.Match, error) {
	m, exists, err := s.matchRepo.GetByID(ctx, id)
	if err != nil {
		return match.Match{}, fmt.Errorf("get match: %w", err)
	}
	if !exists {
		return match.Match{}, ErrNotFound
	}
	return m, nil
}

func (s *MatchService) Create(ctx context.Context, in match.Match) (match.Match, error) {
	newID, err := s.idgen.NewID()
	if err != nil {
		return match.Match{}, fmt.Errorf("generate match id: %w", err)
	}
	in.ID = newID
	if in.Status == "" {
		in.Status = match.StatusScheduled
	}
	if in.Source == "" {
		in.Source = match.SourceManual
	}
	now := time.Now().UTC()
	in.CreatedAt = now
	in.UpdatedAt = now
	in.Version = 1

	if err := in.Validate(); err != nil {
		return match.Match{}, fmt.Errorf("%w: %v", ErrInvariantViolation, err)
	}

	if in.ExternalMatchID != "" {
		if _, exists, err := s.matchRepo.GetByExternalID(ctx, in.ExternalMatchID); err != nil {
			return match.Match{}, fmt.Errorf("get match by external id: %w", err)
		} else if exists {
			return match.Match{}, fmt.Errorf("%w: external_match_id=%s already exists", ErrConflict, in.ExternalMatchID)
		}
	}

	created, err := s.matchRepo.Create(ctx, in)
	if err != nil {
		return match.Match{}, fmt.Errorf("create match: %w", err)
	}
	s.invalidateStandings(ctx, created)
	return created, nil
}

// Update applies a manual edit. Manual edits always win over worker writes:
// this path never checks ScoreLocked, it only sets it when the caller edits
// a score by hand.
func (s *MatchService) Update(ctx context.Context, in match.Match) (match.Match, error) {
	existing, err := s.GetByID(ctx, in.ID)
	if err != nil {
		return match.Match{}, err
	}

	scoreChanged := !scoreEqual(existing.HomeScore, in.HomeScore) || !scoreEqual(existing.AwayScore, in.AwayScore)

	existing.HomeScore = in.HomeScore
	existing.AwayScore = in.AwayScore
	if in.Status != "" {
		existing.Status = in.Status
	}
	if in.MatchDate.Unix() > 0 {
		existing.MatchDate = in.MatchDate
	}
	existing.MatchTime = in.MatchTime
	existing.Location = in.Location
	if scoreChanged {
		existing.ScoreLocked = true
	}
	existing.UpdatedAt = time.Now().UTC()
	existing.Version++

	if err := existing.Validate(); err != nil {
		return match.Match{}, fmt.Errorf("%w: %v", ErrInvariantViolation, err)
	}

	updated, err := s.matchRepo.Update(ctx, existing)
	if err != nil {
		return match.Match{}, fmt.Errorf("update match: %w", err)
	}
	s.invalidateStandings(ctx, updated)
	return updated, nil
}

// Delete removes a match outright. Callers are responsible for checking
// authorization against the match's home/away teams before calling this.
func (s *MatchService) Delete(ctx context.Context, id string) error {
	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.matchRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete match: %w", err)
	}
	s.invalidateStandings(ctx, existing)
	return nil
}

func (s *MatchService) invalidateStandings(ctx context.Context, m match.Match) {
	if s.standings == nil {
		return
	}
	s.standings.InvalidateStandings(ctx)
}

func scoreEqual(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
