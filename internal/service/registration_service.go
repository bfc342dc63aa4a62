package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/campusvoice/feedback-api/internal/authz"
	"github.com/campusvoice/feedback-api/internal/models"
	appErrors "github.com/campusvoice/feedback-api/pkg/errors"
)

type registrationUserRepository interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
	SetActive(ctx context.Context, id string, active bool) error
	Delete(ctx context.Context, id string) error
}

type registrationProfileRepository interface {
	FindByUserID(ctx context.Context, userID string) (*models.Profile, error)
	SetVerified(ctx context.Context, userID string, verified bool) error
	ListPendingByDepartment(ctx context.Context, departmentID int64) ([]models.PendingStudent, error)
	CountStudentsByDepartment(ctx context.Context, departmentID int64, active bool) (int, error)
}

type departmentFeedbackCounter interface {
	CountByDepartment(ctx context.Context, departmentID int64) (int, error)
}

// RegistrationService lets coordinators review student signups of their own
// department and feeds the dashboard counters.
type RegistrationService struct {
	users    registrationUserRepository
	profiles registrationProfileRepository
	feedback departmentFeedbackCounter
	logger   *zap.Logger
}

// NewRegistrationService constructs the service.
func NewRegistrationService(users registrationUserRepository, profiles registrationProfileRepository, feedback departmentFeedbackCounter, logger *zap.Logger) *RegistrationService {
	return &RegistrationService{users: users, profiles: profiles, feedback: feedback, logger: logger}
}

// ListPending returns the department's registrations awaiting review, oldest
// first.
func (s *RegistrationService) ListPending(ctx context.Context, actor models.Actor) ([]models.PendingStudent, error) {
	if actor.DepartmentID == nil {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "no department assigned to this account")
	}
	pending, err := s.profiles.ListPendingByDepartment(ctx, *actor.DepartmentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list pending registrations")
	}
	return pending, nil
}

// Approve activates a pending student account and marks its profile verified.
func (s *RegistrationService) Approve(ctx context.Context, actor models.Actor, studentUserID string) error {
	student, err := s.loadAdministered(ctx, actor, studentUserID)
	if err != nil {
		return err
	}

	if err := s.users.SetActive(ctx, studentUserID, true); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to activate account")
	}
	if err := s.profiles.SetVerified(ctx, studentUserID, true); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to verify profile")
	}

	s.logger.Info("registration approved",
		zap.String("student_id", studentUserID),
		zap.String("coordinator_id", actor.UserID),
		zap.Int64p("department_id", student.DepartmentID))
	return nil
}

// Reject removes a pending registration entirely. Accounts that were already
// approved cannot be rejected through this path.
func (s *RegistrationService) Reject(ctx context.Context, actor models.Actor, studentUserID string) error {
	if _, err := s.loadAdministered(ctx, actor, studentUserID); err != nil {
		return err
	}

	user, err := s.users.FindByID(ctx, studentUserID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load account")
	}
	if user.Active {
		return appErrors.Clone(appErrors.ErrConflict, "account was already approved")
	}

	if err := s.users.Delete(ctx, studentUserID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to remove registration")
	}

	s.logger.Info("registration rejected",
		zap.String("student_id", studentUserID),
		zap.String("coordinator_id", actor.UserID))
	return nil
}

// Dashboard returns the coordinator landing counters.
func (s *RegistrationService) Dashboard(ctx context.Context, actor models.Actor) (*models.DashboardCounts, error) {
	if actor.DepartmentID == nil {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "no department assigned to this account")
	}
	departmentID := *actor.DepartmentID

	pending, err := s.profiles.CountStudentsByDepartment(ctx, departmentID, false)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count pending students")
	}
	verified, err := s.profiles.CountStudentsByDepartment(ctx, departmentID, true)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count verified students")
	}
	feedback, err := s.feedback.CountByDepartment(ctx, departmentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count feedback")
	}

	return &models.DashboardCounts{
		PendingStudents:  pending,
		VerifiedStudents: verified,
		FeedbackCount:    feedback,
	}, nil
}

// loadAdministered fetches a student profile and checks the coordinator may
// act on it. Unknown students answer exactly like foreign ones.
func (s *RegistrationService) loadAdministered(ctx context.Context, actor models.Actor, studentUserID string) (*models.Profile, error) {
	student, err := s.profiles.FindByUserID(ctx, studentUserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrForbidden
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	if decision := authz.CanAdministerStudent(actor, *student); !decision.Allowed {
		s.logger.Warn("registration action denied",
			zap.String("student_id", studentUserID),
			zap.String("actor_id", actor.UserID),
			zap.String("reason", decision.Reason))
		return nil, appErrors.ErrForbidden
	}
	return student, nil
}
