package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/campusvoice/feedback-api/internal/models"
	"github.com/campusvoice/feedback-api/pkg/config"
	appErrors "github.com/campusvoice/feedback-api/pkg/errors"
)

type authUserRepository interface {
	CreateWithProfile(ctx context.Context, user *models.User, profile *models.Profile) error
	FindByEnrollmentNo(ctx context.Context, enrollmentNo string) (*models.User, error)
	UpdateLastLogin(ctx context.Context, id string, ts time.Time) error
}

type authProfileRepository interface {
	FindByUserID(ctx context.Context, userID string) (*models.Profile, error)
}

type authDepartmentRepository interface {
	FindByID(ctx context.Context, id int64) (*models.Department, error)
}

// AuthService handles signup, login and token validation.
type AuthService struct {
	users       authUserRepository
	profiles    authProfileRepository
	departments authDepartmentRepository
	jwtConfig   config.JWTConfig
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewAuthService constructs the service.
func NewAuthService(users authUserRepository, profiles authProfileRepository, departments authDepartmentRepository, jwtConfig config.JWTConfig, validate *validator.Validate, logger *zap.Logger) *AuthService {
	if validate == nil {
		validate = validator.New()
	}
	return &AuthService{
		users:       users,
		profiles:    profiles,
		departments: departments,
		jwtConfig:   jwtConfig,
		validator:   validate,
		logger:      logger,
	}
}

// Signup registers a student account. The account is created inactive and its
// profile unverified; a coordinator of the chosen department must approve it
// before login succeeds.
func (s *AuthService) Signup(ctx context.Context, req models.SignupRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid signup payload")
	}

	if _, err := s.users.FindByEnrollmentNo(ctx, req.EnrollmentNo); err == nil {
		return appErrors.Clone(appErrors.ErrConflict, "enrollment number is already registered")
	} else if !errors.Is(err, sql.ErrNoRows) {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check enrollment number")
	}

	if _, err := s.departments.FindByID(ctx, req.DepartmentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrValidation, "unknown department")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load department")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	user := &models.User{
		EnrollmentNo: req.EnrollmentNo,
		PasswordHash: string(hash),
		Role:         models.RoleStudent,
		Active:       false,
	}
	profile := &models.Profile{
		FullName:       &req.FullName,
		EnrollmentNo:   &req.EnrollmentNo,
		Role:           models.RoleStudent,
		DepartmentID:   &req.DepartmentID,
		BatchStartYear: &req.BatchStartYear,
		IsVerified:     false,
	}

	if err := s.users.CreateWithProfile(ctx, user, profile); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create account")
	}

	s.logger.Info("student signed up",
		zap.String("user_id", user.ID),
		zap.Int64("department_id", req.DepartmentID))
	return nil
}

// Login verifies credentials and issues an access token. Accounts awaiting
// coordinator approval are rejected with a distinct error so the client can
// explain the pending state.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid login payload")
	}

	user, err := s.users.FindByEnrollmentNo(ctx, req.EnrollmentNo)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrInvalidCredentials
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load user")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, appErrors.ErrInvalidCredentials
	}

	if !user.Active {
		return nil, appErrors.ErrPendingVerification
	}

	fullName := ""
	if profile, err := s.profiles.FindByUserID(ctx, user.ID); err == nil && profile.FullName != nil {
		fullName = *profile.FullName
	}

	now := time.Now().UTC()
	claims := models.JWTClaims{
		UserID:       user.ID,
		Role:         user.Role,
		EnrollmentNo: user.EnrollmentNo,
		FullName:     fullName,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.jwtConfig.Issuer,
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtConfig.Expiration)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.jwtConfig.Secret))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign token")
	}

	if err := s.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		s.logger.Warn("failed to record last login", zap.String("user_id", user.ID), zap.Error(err))
	}

	s.logger.Info("user logged in", zap.String("user_id", user.ID), zap.String("role", string(user.Role)))

	return &models.LoginResponse{
		AccessToken: token,
		ExpiresIn:   int64(s.jwtConfig.Expiration.Seconds()),
		IssuedAt:    now,
		User: models.UserInfo{
			ID:           user.ID,
			EnrollmentNo: user.EnrollmentNo,
			FullName:     fullName,
			Role:         user.Role,
		},
	}, nil
}

// ValidateToken parses and verifies an access token.
func (s *AuthService) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	claims := &models.JWTClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, appErrors.ErrUnauthorized
		}
		return []byte(s.jwtConfig.Secret), nil
	})
	if err != nil || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid or expired token")
	}
	return claims, nil
}
