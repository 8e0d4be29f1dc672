package constants

import "fmt"

const (
	RoleAdmin   = "admin"
	RoleTrainer = "trainer"
	RoleClient  = "client"
)

// Forbidden messages per role group.
const (
	ErrOnlyStaffCanAccess   = "Only admins or trainers can access %s."
	ErrOnlyAdminsCanAccess  = "Only admins can access %s."
	ErrOnlyClientsCanAccess = "Only clients can access %s."
)

func RoleErrorStaff(feature string) string {
	return fmt.Sprintf(ErrOnlyStaffCanAccess, feature)
}

func RoleErrorAdmin(feature string) string {
	return fmt.Sprintf(ErrOnlyAdminsCanAccess, feature)
}

func RoleErrorClient(feature string) string {
	return fmt.Sprintf(ErrOnlyClientsCanAccess, feature)
}

// ==========================
// Grouped Role Slices
// ==========================
var (
	AllRoles = []string{
		RoleAdmin,
		RoleTrainer,
		RoleClient,
	}

	// Staff is admin OR trainer, not a hierarchy.
	StaffRoles = []string{
		RoleAdmin,
		RoleTrainer,
	}

	AdminOnly = []string{
		RoleAdmin,
	}

	ClientOnly = []string{
		RoleClient,
	}
)

// RolePriority orders roles when a user carries duplicate role rows in one studio.
func RolePriority(role string) int {
	switch role {
	case RoleAdmin:
		return 3
	case RoleTrainer:
		return 2
	case RoleClient:
		return 1
	default:
		return 0
	}
}

func IsValidRole(role string) bool {
	return RolePriority(role) > 0
}

func IsStaff(role string) bool {
	return role == RoleAdmin || role == RoleTrainer
}
