package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/campusvoice/feedback-api/internal/models"
	appErrors "github.com/campusvoice/feedback-api/pkg/errors"
)

type profileRepository interface {
	FindByUserID(ctx context.Context, userID string) (*models.Profile, error)
	Update(ctx context.Context, profile *models.Profile) error
}

type photoStore interface {
	Delete(filename string) error
}

// UpdateProfileRequest carries the student-editable profile fields. Nil
// fields are left untouched; PhotoFilename is set by the handler after the
// upload was persisted.
type UpdateProfileRequest struct {
	FullName       *string `json:"full_name" validate:"omitempty,max=255"`
	DepartmentID   *int64  `json:"department_id"`
	BatchStartYear *int    `json:"batch_start_year" validate:"omitempty,min=2015"`
	PhotoFilename  string  `json:"-"`
}

// ProfileService serves and updates user profiles.
type ProfileService struct {
	profiles    profileRepository
	departments authDepartmentRepository
	photos      photoStore
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewProfileService constructs the service.
func NewProfileService(profiles profileRepository, departments authDepartmentRepository, photos photoStore, validate *validator.Validate, logger *zap.Logger) *ProfileService {
	if validate == nil {
		validate = validator.New()
	}
	return &ProfileService{profiles: profiles, departments: departments, photos: photos, validator: validate, logger: logger}
}

// Get loads the caller's own profile.
func (s *ProfileService) Get(ctx context.Context, userID string) (*models.Profile, error) {
	profile, err := s.profiles.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load profile")
	}
	return profile, nil
}

// Actor resolves the authenticated principal including its current profile
// department. Feedback keeps its own department snapshot, so later profile
// changes never rewrite history.
func (s *ProfileService) Actor(ctx context.Context, claims *models.JWTClaims) (models.Actor, error) {
	profile, err := s.Get(ctx, claims.UserID)
	if err != nil {
		return models.Actor{}, err
	}
	return profile.Actor(), nil
}

// Update applies the student-editable fields and swaps the stored photo when
// a new one was uploaded.
func (s *ProfileService) Update(ctx context.Context, userID string, req UpdateProfileRequest) (*models.Profile, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid profile payload")
	}

	profile, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.FullName != nil {
		profile.FullName = req.FullName
	}
	if req.DepartmentID != nil {
		if _, err := s.departments.FindByID(ctx, *req.DepartmentID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrValidation, "unknown department")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load department")
		}
		profile.DepartmentID = req.DepartmentID
	}
	if req.BatchStartYear != nil {
		profile.BatchStartYear = req.BatchStartYear
	}

	oldPhoto := ""
	if req.PhotoFilename != "" {
		if profile.PhotoPath != nil {
			oldPhoto = *profile.PhotoPath
		}
		profile.PhotoPath = &req.PhotoFilename
	}

	if err := s.profiles.Update(ctx, profile); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update profile")
	}

	if oldPhoto != "" {
		if err := s.photos.Delete(oldPhoto); err != nil {
			s.logger.Warn("failed to remove old profile photo", zap.String("user_id", userID), zap.Error(err))
		}
	}

	s.logger.Info("profile updated", zap.String("user_id", userID))
	return profile, nil
}
