package service

import (
	"context"

	"github.com/campus-union/engage-auth/internal/directus"
	apperrors "github.com/campus-union/engage-auth/pkg/util"
)

// ProfileBackend is the slice of the backend client the profile flows use.
type ProfileBackend interface {
	GetProfile(ctx context.Context, profileID string) (*directus.Profile, error)
	UpdateProfile(ctx context.Context, profileID string, fields map[string]any) (*directus.Profile, error)
	ListProfiles(ctx context.Context) ([]directus.Profile, error)
}

// ProfileService proxies profile reads and updates to the backend.
type ProfileService struct {
	backend ProfileBackend
}

// NewProfileService builds the service.
func NewProfileService(backend ProfileBackend) *ProfileService {
	return &ProfileService{backend: backend}
}

// ProfileUpdate carries the editable profile fields; nil means unchanged.
type ProfileUpdate struct {
	Name    *string
	Faculty *string
	Bio     *string
}

// Get fetches the caller's own profile.
func (s *ProfileService) Get(ctx context.Context, profileID string) (*directus.Profile, error) {
	if profileID == "" {
		return nil, apperrors.NewNotFound("profile", nil)
	}
	return s.backend.GetProfile(ctx, profileID)
}

// Update patches the caller's own profile with the provided fields.
func (s *ProfileService) Update(ctx context.Context, profileID string, update ProfileUpdate) (*directus.Profile, error) {
	if profileID == "" {
		return nil, apperrors.NewNotFound("profile", nil)
	}

	fields := map[string]any{}
	if update.Name != nil {
		if *update.Name == "" {
			return nil, apperrors.NewValidationError("name cannot be empty", nil)
		}
		fields["name"] = *update.Name
	}
	if update.Faculty != nil {
		fields["faculty"] = *update.Faculty
	}
	if update.Bio != nil {
		fields["bio"] = *update.Bio
	}
	if len(fields) == 0 {
		return nil, apperrors.NewValidationError("no fields to update", nil)
	}

	return s.backend.UpdateProfile(ctx, profileID, fields)
}

// List returns all profiles. Admin-gated at the route level.
func (s *ProfileService) List(ctx context.Context) ([]directus.Profile, error) {
	return s.backend.ListProfiles(ctx)
}
