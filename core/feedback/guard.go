package feedback

import "github.com/trezcool/maoni/core/user"

// CanMutate decides whether the caller may update or delete the given
// record. Admins always can; students only on records they own.
func CanMutate(ident user.Identity, fb Feedback) bool {
	switch ident.Role {
	case user.RoleAdmin:
		return true
	case user.RoleStudent:
		return ident.ID == fb.StudentID
	default:
		return false
	}
}
