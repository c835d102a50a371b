package constants

import "fmt"

// Token roles allowed on the admin API
const (
	RoleAdmin = "admin"
	RoleOwner = "owner"
)

var AdminRoles = []string{RoleAdmin, RoleOwner}

const ErrOnlyAdminsCanAccess = "only admin or owner tokens can access %s"

func RoleErrorAdmin(feature string) string {
	return fmt.Sprintf(ErrOnlyAdminsCanAccess, feature)
}
