package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/campusvoice/feedback-api/internal/models"
	appErrors "github.com/campusvoice/feedback-api/pkg/errors"
)

type stubRegistrationUsers struct {
	users     map[string]models.User
	activated []string
	deleted   []string
}

func (r *stubRegistrationUsers) FindByID(_ context.Context, id string) (*models.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &user, nil
}

func (r *stubRegistrationUsers) SetActive(_ context.Context, id string, active bool) error {
	user := r.users[id]
	user.Active = active
	r.users[id] = user
	r.activated = append(r.activated, id)
	return nil
}

func (r *stubRegistrationUsers) Delete(_ context.Context, id string) error {
	delete(r.users, id)
	r.deleted = append(r.deleted, id)
	return nil
}

type stubRegistrationProfiles struct {
	profiles map[string]models.Profile
	verified []string
	pending  []models.PendingStudent
}

func (r *stubRegistrationProfiles) FindByUserID(_ context.Context, userID string) (*models.Profile, error) {
	profile, ok := r.profiles[userID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &profile, nil
}

func (r *stubRegistrationProfiles) SetVerified(_ context.Context, userID string, _ bool) error {
	r.verified = append(r.verified, userID)
	return nil
}

func (r *stubRegistrationProfiles) ListPendingByDepartment(_ context.Context, _ int64) ([]models.PendingStudent, error) {
	return r.pending, nil
}

func (r *stubRegistrationProfiles) CountStudentsByDepartment(_ context.Context, _ int64, active bool) (int, error) {
	count := 0
	for _, profile := range r.profiles {
		if profile.Role != models.RoleStudent {
			continue
		}
		// active state lives on the user in production; the stub keys it off
		// verification for simplicity
		if profile.IsVerified == active {
			count++
		}
	}
	return count, nil
}

type stubFeedbackCounter struct{ count int }

func (r *stubFeedbackCounter) CountByDepartment(_ context.Context, _ int64) (int, error) {
	return r.count, nil
}

func newRegistrationFixture() (*RegistrationService, *stubRegistrationUsers, *stubRegistrationProfiles) {
	users := &stubRegistrationUsers{users: map[string]models.User{
		"student-1": {ID: "student-1", Role: models.RoleStudent, Active: false},
		"student-2": {ID: "student-2", Role: models.RoleStudent, Active: true},
	}}
	profiles := &stubRegistrationProfiles{profiles: map[string]models.Profile{
		"student-1": {UserID: "student-1", Role: models.RoleStudent, DepartmentID: int64Ptr(7)},
		"student-2": {UserID: "student-2", Role: models.RoleStudent, DepartmentID: int64Ptr(7), IsVerified: true},
		"student-3": {UserID: "student-3", Role: models.RoleStudent, DepartmentID: int64Ptr(8)},
	}}
	svc := NewRegistrationService(users, profiles, &stubFeedbackCounter{count: 12}, zap.NewNop())
	return svc, users, profiles
}

func TestApproveActivatesAndVerifies(t *testing.T) {
	svc, users, profiles := newRegistrationFixture()

	require.NoError(t, svc.Approve(context.Background(), coordinatorActor(), "student-1"))
	require.Equal(t, []string{"student-1"}, users.activated)
	require.Equal(t, []string{"student-1"}, profiles.verified)
}

func TestApproveDeniesForeignDepartment(t *testing.T) {
	svc, users, _ := newRegistrationFixture()

	err := svc.Approve(context.Background(), coordinatorActor(), "student-3")
	require.Error(t, err)
	require.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
	require.Empty(t, users.activated)
}

func TestApproveDeniesUnknownStudentAlike(t *testing.T) {
	svc, _, _ := newRegistrationFixture()

	errUnknown := svc.Approve(context.Background(), coordinatorActor(), "ghost")
	errForeign := svc.Approve(context.Background(), coordinatorActor(), "student-3")
	require.Equal(t, appErrors.FromError(errForeign).Code, appErrors.FromError(errUnknown).Code)
}

func TestRejectDeletesPendingAccount(t *testing.T) {
	svc, users, _ := newRegistrationFixture()

	require.NoError(t, svc.Reject(context.Background(), coordinatorActor(), "student-1"))
	require.Equal(t, []string{"student-1"}, users.deleted)
}

func TestRejectRefusesApprovedAccount(t *testing.T) {
	svc, users, _ := newRegistrationFixture()

	err := svc.Reject(context.Background(), coordinatorActor(), "student-2")
	require.Error(t, err)
	require.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
	require.Empty(t, users.deleted)
}

func TestDashboardCounts(t *testing.T) {
	svc, _, _ := newRegistrationFixture()

	counts, err := svc.Dashboard(context.Background(), coordinatorActor())
	require.NoError(t, err)
	require.Equal(t, 12, counts.FeedbackCount)
	require.Equal(t, 2, counts.PendingStudents)
	require.Equal(t, 1, counts.VerifiedStudents)
}

func TestListPendingRequiresDepartment(t *testing.T) {
	svc, _, _ := newRegistrationFixture()

	unassigned := models.Actor{UserID: "coord-9", Role: models.RoleCoordinator}
	_, err := svc.ListPending(context.Background(), unassigned)
	require.Error(t, err)
	require.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}
