package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/campusvoice/feedback-api/internal/models"
)

// ProfileRepository manages persistence for user profiles.
type ProfileRepository struct {
	db *sqlx.DB
}

// NewProfileRepository constructs a new repository.
func NewProfileRepository(db *sqlx.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

const profileSelect = `SELECT p.id, p.user_id, p.full_name, p.enrollment_no, p.role, p.department_id, d.name AS department_name, p.batch_start_year, p.photo_path, p.is_verified
FROM profiles p
LEFT JOIN departments d ON d.id = p.department_id`

// FindByUserID loads the profile linked to a login identity.
func (r *ProfileRepository) FindByUserID(ctx context.Context, userID string) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.GetContext(ctx, &profile, profileSelect+" WHERE p.user_id = $1", userID); err != nil {
		return nil, err
	}
	return &profile, nil
}

// Update modifies the student-editable fields.
func (r *ProfileRepository) Update(ctx context.Context, profile *models.Profile) error {
	query := `UPDATE profiles SET full_name = :full_name, department_id = :department_id, batch_start_year = :batch_start_year, photo_path = :photo_path
WHERE user_id = :user_id`
	res, err := r.db.NamedExecContext(ctx, query, profile)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("update profile: profile for user %s not found", profile.UserID)
	}
	return nil
}

// SetVerified marks the registration as approved.
func (r *ProfileRepository) SetVerified(ctx context.Context, userID string, verified bool) error {
	res, err := r.db.ExecContext(ctx, "UPDATE profiles SET is_verified = $2 WHERE user_id = $1", userID, verified)
	if err != nil {
		return fmt.Errorf("set profile verified: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("set profile verified: profile for user %s not found", userID)
	}
	return nil
}

// ListPendingByDepartment returns inactive student registrations awaiting
// review for the given department, oldest first.
func (r *ProfileRepository) ListPendingByDepartment(ctx context.Context, departmentID int64) ([]models.PendingStudent, error) {
	query := `SELECT u.id AS user_id, u.enrollment_no, p.full_name, p.batch_start_year
FROM users u
JOIN profiles p ON p.user_id = u.id
WHERE p.department_id = $1 AND p.role = $2 AND u.active = FALSE
ORDER BY u.created_at ASC`
	var pending []models.PendingStudent
	if err := r.db.SelectContext(ctx, &pending, query, departmentID, models.RoleStudent); err != nil {
		return nil, fmt.Errorf("list pending students: %w", err)
	}
	return pending, nil
}

// CountStudentsByDepartment counts students of a department filtered by the
// active flag.
func (r *ProfileRepository) CountStudentsByDepartment(ctx context.Context, departmentID int64, active bool) (int, error) {
	query := `SELECT COUNT(*)
FROM users u
JOIN profiles p ON p.user_id = u.id
WHERE p.department_id = $1 AND p.role = $2 AND u.active = $3`
	var count int
	if err := r.db.GetContext(ctx, &count, query, departmentID, models.RoleStudent, active); err != nil {
		return 0, fmt.Errorf("count students: %w", err)
	}
	return count, nil
}
