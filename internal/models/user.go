package models

import "time"

type UserRole string

const (
	UserRoleAdmin    UserRole = "admin"
	UserRoleStaff    UserRole = "staff"
	UserRoleVerifier UserRole = "verifier"
)

// Valid reports whether r is one of the fixed portal roles.
func (r UserRole) Valid() bool {
	switch r {
	case UserRoleAdmin, UserRoleStaff, UserRoleVerifier:
		return true
	}
	return false
}

// Department maps a role to the department recorded on the user.
func (r UserRole) Department() string {
	switch r {
	case UserRoleAdmin:
		return "IT"
	case UserRoleStaff:
		return "Engineering"
	default:
		return "Planning"
	}
}

type CivilStatus string

const (
	CivilStatusSingle   CivilStatus = "single"
	CivilStatusMarried  CivilStatus = "married"
	CivilStatusDivorced CivilStatus = "divorced"
	CivilStatusWidowed  CivilStatus = "widowed"
)

func (s CivilStatus) Valid() bool {
	switch s {
	case CivilStatusSingle, CivilStatusMarried, CivilStatusDivorced, CivilStatusWidowed:
		return true
	}
	return false
}

type User struct {
	ID             string
	Username       string
	Email          string
	PasswordHash   []byte
	FullName       string
	Role           UserRole
	Department     string
	IsActive       bool
	IDDocumentPath *string
	Birthday       *time.Time
	Address        *string
	CivilStatus    *CivilStatus
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Session is the server-side record behind the portal_session cookie. The
// cookie carries a random token; only its hash is stored.
type Session struct {
	ID         string
	TokenHash  []byte
	UserID     string
	Email      string
	FullName   string
	Role       UserRole
	LoggedIn   bool
	LoginTime  time.Time
	IPAddress  string
	UserAgent  string
	CreatedAt  time.Time
	LastSeenAt time.Time
	ExpiresAt  time.Time
}

// PendingRegistration bridges the two registration steps.
type PendingRegistration struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash []byte    `json:"passwordHash"`
	CreatedAt    time.Time `json:"createdAt"`
}
