package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/matchday/league-api/internal/domain/club"
	"github.com/matchday/league-api/internal/platform/id"
)

type ClubService struct {
	clubRepo club.Repository
	idgen    id.Generator
}

func NewClubService(clubRepo club.Repository, idgen id.Generator) *ClubService {
	return &ClubService{clubRepo: clubRepo, idgen: idgen}
}

func (s *ClubService) List(ctx context.Context) ([]club.Club, error) {
	clubs, err := s.clubRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list clubs: %w", err)
	}
	return clubs, nil
}

func (s *ClubService) GetByID(ctx context.Context, clubID string) (club.Club, error) {
	clubID = strings.TrimSpace(clubID)
	if clubID == "" {
		return club.Club{}, fmt.Errorf("%w: club id is required", ErrInvalidInput)
	}
	item, exists, err := s.clubRepo.GetByID(ctx, clubID)
	if err != nil {
		return club.Club{}, fmt.Errorf("get club: %w", err)
	}
	if !exists {
		return club.Club{}, fmt.Errorf("%w: club=%s", ErrNotFound, clubID)
	}
	return item, nil
}

func (s *ClubService) Create(ctx context.Context, in club.Club) (club.Club, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return club.Club{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}

	if _, exists, err := s.clubRepo.GetByName(ctx, in.Name); err != nil {
		return club.Club{}, fmt.Errorf("get club by name: %w", err)
	} else if exists {
		return club.Club{}, fmt.Errorf("%w: club name=%s already exists", ErrConflict, in.Name)
	}

	newID, err := s.idgen.NewID()
	if err != nil {
		return club.Club{}, fmt.Errorf("generate club id: %w", err)
	}
	in.ID = newID
	in.IsActive = true
	now := time.Now().UTC()
	in.CreatedAt = now
	in.UpdatedAt = now

	if err := in.Validate(); err != nil {
		return club.Club{}, fmt.Errorf("%w: %v", ErrInvariantViolation, err)
	}

	created, err := s.clubRepo.Create(ctx, in)
	if err != nil {
		return club.Club{}, fmt.Errorf("create club: %w", err)
	}
	return created, nil
}

// Deactivate soft-deletes a club by flipping is_active, never a hard delete.
func (s *ClubService) Deactivate(ctx context.Context, clubID string) error {
	existing, err := s.GetByID(ctx, clubID)
	if err != nil {
		return err
	}
	existing.IsActive = false
	if _, err := s.clubRepo.Update(ctx, existing); err != nil {
		return fmt.Errorf("deactivate club: %w", err)
	}
	return nil
}
