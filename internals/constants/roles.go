package constants

import "fmt"

const (
	RoleOwner = "owner"
	RoleAdmin = "admin"
	RoleStaff = "staff"
	RoleUser  = "user"
)

const (
	ErrOnlyAdminsCanAccess = "❌ Only admin or owner roles may access %s."
	ErrOnlyOwnersCanAccess = "❌ Only the owner role may access %s."
)

func RoleErrorAdmin(feature string) string {
	return fmt.Sprintf(ErrOnlyAdminsCanAccess, feature)
}

func RoleErrorOwner(feature string) string {
	return fmt.Sprintf(ErrOnlyOwnersCanAccess, feature)
}
