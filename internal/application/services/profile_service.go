package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/appointmentcake/backend/internal/domain/entities"
	"github.com/appointmentcake/backend/internal/domain/repositories"
	apperrors "github.com/appointmentcake/backend/pkg/errors"
)

// ProfileService handles per-user profiles and their embedded lists
type ProfileService struct {
	repo     repositories.ProfileRepository
	userRepo repositories.UserRepository
}

// NewProfileService creates a new profile service
func NewProfileService(
	repo repositories.ProfileRepository,
	userRepo repositories.UserRepository,
) *ProfileService {
	return &ProfileService{
		repo:     repo,
		userRepo: userRepo,
	}
}

// UpsertProfileParams carries the flat profile fields. First/last/phone are
// written through to the user record.
type UpsertProfileParams struct {
	FirstName string
	LastName  string
	Phone     string
	Prefix    string
	Suffix    string
	Birthday  *time.Time
	Bio       string
	Social    entities.Social
	Insurance []entities.Insurance
}

// Upsert creates the caller's profile or overwrites its flat fields
func (s *ProfileService) Upsert(ctx context.Context, userID string, params UpsertProfileParams) (*entities.Profile, error) {
	profile, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		if appErr, ok := err.(*apperrors.AppError); !ok || appErr.Type != apperrors.ErrorTypeNotFound {
			return nil, err
		}
		profile = &entities.Profile{
			ID:          uuid.New().String(),
			UserID:      userID,
			Experiences: []entities.Experience{},
			CreatedAt:   time.Now(),
		}
	}

	profile.Prefix = params.Prefix
	profile.Suffix = params.Suffix
	profile.Birthday = params.Birthday
	profile.Bio = params.Bio
	profile.Social = params.Social
	profile.Insurance = params.Insurance

	if err := s.repo.Upsert(ctx, profile); err != nil {
		return nil, err
	}

	if params.FirstName != "" || params.LastName != "" || params.Phone != "" {
		user, err := s.userRepo.GetByID(ctx, userID)
		if err != nil {
			return nil, err
		}
		if params.FirstName != "" {
			user.FirstName = params.FirstName
		}
		if params.LastName != "" {
			user.LastName = params.LastName
		}
		if params.Phone != "" {
			user.Phone = params.Phone
		}
		if err := s.userRepo.Update(ctx, user); err != nil {
			return nil, err
		}
	}

	return s.repo.GetByUserID(ctx, userID)
}

// GetAll lists every profile with public user fields attached
func (s *ProfileService) GetAll(ctx context.Context) ([]*entities.Profile, error) {
	return s.repo.List(ctx)
}

// GetMine returns the caller's profile, creating an empty one on first read
func (s *ProfileService) GetMine(ctx context.Context, userID string) (*entities.Profile, error) {
	profile, err := s.repo.GetByUserID(ctx, userID)
	if err == nil {
		return profile, nil
	}
	if appErr, ok := err.(*apperrors.AppError); !ok || appErr.Type != apperrors.ErrorTypeNotFound {
		return nil, err
	}

	profile = &entities.Profile{
		ID:          uuid.New().String(),
		UserID:      userID,
		Experiences: []entities.Experience{},
		Insurance:   []entities.Insurance{},
		CreatedAt:   time.Now(),
	}
	if err := s.repo.Upsert(ctx, profile); err != nil {
		return nil, err
	}

	return s.repo.GetByUserID(ctx, userID)
}

// GetByUserID returns the profile of another user
func (s *ProfileService) GetByUserID(ctx context.Context, userID string) (*entities.Profile, error) {
	return s.repo.GetByUserID(ctx, userID)
}

// AddExperience prepends a work history entry to the caller's profile
func (s *ProfileService) AddExperience(ctx context.Context, userID string, exp entities.Experience) (*entities.Profile, error) {
	profile, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if exp.ID == "" {
		exp.ID = uuid.New().String()
	}
	profile.AddExperience(exp)

	if err := s.repo.Update(ctx, profile); err != nil {
		return nil, err
	}

	return profile, nil
}

// DeleteExperience removes the identified work history entry
func (s *ProfileService) DeleteExperience(ctx context.Context, userID, experienceID string) (*entities.Profile, error) {
	profile, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if !profile.RemoveExperience(experienceID) {
		return nil, apperrors.NewNotFoundError("Experience not found")
	}

	if err := s.repo.Update(ctx, profile); err != nil {
		return nil, err
	}

	return profile, nil
}

// DeleteAccount removes the caller's profile and user record
func (s *ProfileService) DeleteAccount(ctx context.Context, userID string) error {
	if err := s.repo.DeleteByUserID(ctx, userID); err != nil {
		if appErr, ok := err.(*apperrors.AppError); !ok || appErr.Type != apperrors.ErrorTypeNotFound {
			return err
		}
	}

	return s.userRepo.Delete(ctx, userID)
}
