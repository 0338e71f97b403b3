package service

import "lguportal/portal/internal/models"

const (
	AdminDashboardPath    = "/admin/dashboard"
	StaffDashboardPath    = "/staff/dashboard"
	VerifierDashboardPath = "/verifier/dashboard"
)

// ResolveRedirect maps a role to its dashboard. Unknown roles land on the
// staff dashboard.
func ResolveRedirect(role models.UserRole) string {
	switch role {
	case models.UserRoleAdmin:
		return AdminDashboardPath
	case models.UserRoleVerifier:
		return VerifierDashboardPath
	default:
		return StaffDashboardPath
	}
}
