package provision

// Role names recognized by the platform. The set is closed only when strict
// role validation is enabled; by default unrecognized role strings pass
// through and are stored as-is.
const (
	RoleUser           = "user"
	RoleAdminSuper     = "admin_super"
	RoleAdminFitness   = "admin_fitness"
	RoleAdminNutrition = "admin_nutrition"
)

var recognizedRoles = map[string]struct{}{
	RoleUser:           {},
	RoleAdminSuper:     {},
	RoleAdminFitness:   {},
	RoleAdminNutrition: {},
}

// IsRecognizedRole reports whether role is one of the platform's known roles.
func IsRecognizedRole(role string) bool {
	_, ok := recognizedRoles[role]
	return ok
}
