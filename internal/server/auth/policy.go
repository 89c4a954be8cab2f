package auth

import "carsapi/internal/server/models"

// HasRole reports whether the role set contains the given role.
func HasRole(roles []models.Role, role models.Role) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

// CanModify decides whether the acting principal may mutate the target
// identity: administrators may modify anyone, everyone else only
// themselves. The same rule gates every self-service mutation.
func CanModify(actingID string, actingRoles []models.Role, targetID string) bool {
	if HasRole(actingRoles, models.RoleAdmin) {
		return true
	}
	return actingID != "" && actingID == targetID
}
