package services

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/vytor/studydeck/internal/errors"
	"github.com/vytor/studydeck/internal/logger"
	"github.com/vytor/studydeck/internal/models"
	"github.com/vytor/studydeck/internal/repository"
)

const maxUsernameLength = 64

// ProfileService manages the profiles that own cards
type ProfileService interface {
	ListProfiles(ctx context.Context) ([]models.Profile, error)
	// CreateProfile returns the existing profile when the username is taken.
	CreateProfile(ctx context.Context, username string) (*models.Profile, error)
	GetProfile(ctx context.Context, id int64) (*models.Profile, error)
	// DeleteProfile removes the profile with its cards, review log and
	// in-memory study session.
	DeleteProfile(ctx context.Context, id int64) error
}

// SessionEnder drops per-profile study state. StudyService satisfies it.
type SessionEnder interface {
	EndSession(profileID int64)
}

type profileService struct {
	profileRepo repository.ProfileRepository
	sessions    SessionEnder
}

// NewProfileService creates a new ProfileService. sessions may be nil.
func NewProfileService(profileRepo repository.ProfileRepository, sessions SessionEnder) ProfileService {
	return &profileService{profileRepo: profileRepo, sessions: sessions}
}

// normalizeUsername trims surrounding space and rejects names a profile
// picker cannot show.
func normalizeUsername(username string) (string, error) {
	username = strings.TrimSpace(username)
	switch {
	case username == "":
		return "", errors.NewValidationError("username", "cannot be empty")
	case utf8.RuneCountInString(username) > maxUsernameLength:
		return "", errors.NewValidationError("username", fmt.Sprintf("must be at most %d characters", maxUsernameLength))
	case strings.IndexFunc(username, unicode.IsControl) >= 0:
		return "", errors.NewValidationError("username", "cannot contain control characters")
	}
	return username, nil
}

func (s *profileService) ListProfiles(ctx context.Context) ([]models.Profile, error) {
	profiles, err := s.profileRepo.List(ctx)
	if err != nil {
		logger.FromContext(ctx).Error("failed to list profiles: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return profiles, nil
}

func (s *profileService) CreateProfile(ctx context.Context, username string) (*models.Profile, error) {
	log := logger.FromContext(ctx)

	username, err := normalizeUsername(username)
	if err != nil {
		return nil, err
	}
	log.Debug("upserting profile: username=%s", username)

	profile, err := s.profileRepo.Upsert(ctx, username)
	if err != nil {
		log.Error("failed to upsert profile %q: %v", username, err)
		return nil, errors.NewInternalError(err)
	}

	log.WithField("profile_id", profile.ID).Info("profile ready: username=%s", profile.Username)
	return profile, nil
}

func (s *profileService) GetProfile(ctx context.Context, id int64) (*models.Profile, error) {
	profile, err := s.profileRepo.Get(ctx, id)
	if err != nil {
		if !stderrors.Is(err, repository.ErrNotFound) {
			logger.FromContext(ctx).Error("failed to get profile %d: %v", id, err)
		}
		return nil, repoError(err, "profile", id)
	}
	return profile, nil
}

func (s *profileService) DeleteProfile(ctx context.Context, id int64) error {
	log := logger.FromContext(ctx).WithField("profile_id", id)
	log.Debug("deleting profile")

	if err := s.profileRepo.Delete(ctx, id); err != nil {
		if !stderrors.Is(err, repository.ErrNotFound) {
			log.Error("failed to delete profile: %v", err)
		}
		return repoError(err, "profile", id)
	}
	if s.sessions != nil {
		s.sessions.EndSession(id)
	}

	log.Info("profile deleted")
	return nil
}
