package models

import "time"

// UserRole represents the available roles for the portal.
type UserRole string

const (
	RoleStudent     UserRole = "STUDENT"
	RoleCoordinator UserRole = "COORDINATOR"
	RoleAdmin       UserRole = "ADMIN"
)

// User represents a login identity stored in the users table. The enrollment
// number doubles as the login ID.
type User struct {
	ID           string     `db:"id" json:"id"`
	EnrollmentNo string     `db:"enrollment_no" json:"enrollment_no"`
	PasswordHash string     `db:"password_hash" json:"-"`
	Role         UserRole   `db:"role" json:"role"`
	Active       bool       `db:"active" json:"active"`
	LastLogin    *time.Time `db:"last_login" json:"last_login,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// Actor is the authenticated principal evaluated by authorization guards.
// DepartmentID reflects the actor's current profile department, which may be
// nil for unassigned coordinators or admins.
type Actor struct {
	UserID       string
	Role         UserRole
	DepartmentID *int64
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
