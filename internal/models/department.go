package models

// Department groups students and coordinators. Feedback rows keep a snapshot
// reference to the department active at submission time.
type Department struct {
	ID          int64   `db:"id" json:"id"`
	Name        string  `db:"name" json:"name"`
	Description *string `db:"description" json:"description,omitempty"`
}

// Profile carries the portal-specific attributes of a user, one-to-one with
// the login identity. It is created unverified at signup and flipped by a
// coordinator's approval.
type Profile struct {
	ID             string  `db:"id" json:"id"`
	UserID         string  `db:"user_id" json:"user_id"`
	FullName       *string `db:"full_name" json:"full_name,omitempty"`
	EnrollmentNo   *string `db:"enrollment_no" json:"enrollment_no,omitempty"`
	Role           UserRole `db:"role" json:"role"`
	DepartmentID   *int64  `db:"department_id" json:"department_id,omitempty"`
	DepartmentName *string `db:"department_name" json:"department_name,omitempty"`
	BatchStartYear *int    `db:"batch_start_year" json:"batch_start_year,omitempty"`
	PhotoPath      *string `db:"photo_path" json:"photo_path,omitempty"`
	IsVerified     bool    `db:"is_verified" json:"is_verified"`
}

// Actor converts the profile into the principal evaluated by guards.
func (p *Profile) Actor() Actor {
	return Actor{UserID: p.UserID, Role: p.Role, DepartmentID: p.DepartmentID}
}

// PendingStudent is a registration awaiting coordinator review.
type PendingStudent struct {
	UserID         string  `db:"user_id" json:"user_id"`
	EnrollmentNo   string  `db:"enrollment_no" json:"enrollment_no"`
	FullName       *string `db:"full_name" json:"full_name,omitempty"`
	BatchStartYear *int    `db:"batch_start_year" json:"batch_start_year,omitempty"`
}
