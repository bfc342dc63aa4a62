package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// JWTClaims are the access-token claims carried on authenticated requests.
type JWTClaims struct {
	UserID       string   `json:"user_id"`
	Role         UserRole `json:"role"`
	EnrollmentNo string   `json:"enrollment_no"`
	FullName     string   `json:"full_name,omitempty"`
	jwt.RegisteredClaims
}

// SignupRequest registers a new student. The account stays inactive until a
// department coordinator approves it.
type SignupRequest struct {
	EnrollmentNo   string `json:"enrollment_no" validate:"required,max=50"`
	Password       string `json:"password" validate:"required,min=8"`
	FullName       string `json:"full_name" validate:"required,max=255"`
	DepartmentID   int64  `json:"department_id" validate:"required"`
	BatchStartYear int    `json:"batch_start_year" validate:"required,min=2015"`
}

// LoginRequest authenticates by enrollment number.
type LoginRequest struct {
	EnrollmentNo string `json:"enrollment_no" validate:"required"`
	Password     string `json:"password" validate:"required"`
}

// LoginResponse returns the issued token and basic identity info.
type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresIn   int64     `json:"expires_in"`
	IssuedAt    time.Time `json:"issued_at"`
	User        UserInfo  `json:"user"`
}

// UserInfo is the public identity subset echoed after login.
type UserInfo struct {
	ID           string   `json:"id"`
	EnrollmentNo string   `json:"enrollment_no"`
	FullName     string   `json:"full_name,omitempty"`
	Role         UserRole `json:"role"`
}
