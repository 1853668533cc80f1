// Package auth defines the closed permission set per role, replacing
// scattered role string comparisons in handlers.
package auth

// Permission names a single capability on the portal.
type Permission string

const (
	PermManageUsers        Permission = "manage_users"
	PermManageReservations Permission = "manage_reservations"
	PermViewSupplierFields Permission = "view_supplier_fields"
	PermManageSuppliers    Permission = "manage_suppliers"
	PermManageTourists     Permission = "manage_tourists"
	PermManageTopUps       Permission = "manage_topups"
	PermManageExpenses     Permission = "manage_expenses"
	PermUpdateRequests     Permission = "update_requests"
	PermUploadDocuments    Permission = "upload_documents"
	PermManageSettings     Permission = "manage_settings"
)

var rolePermissions = map[string][]Permission{
	"admin": {
		PermManageUsers,
		PermManageReservations,
		PermViewSupplierFields,
		PermManageSuppliers,
		PermManageTourists,
		PermManageTopUps,
		PermManageExpenses,
		PermUpdateRequests,
		PermUploadDocuments,
		PermManageSettings,
	},
	"sub_agency": {},
}

// Permissions returns the closed permission set for role. Unknown roles
// get no permissions.
func Permissions(role string) []Permission {
	return rolePermissions[role]
}

// Allowed reports whether role holds p.
func Allowed(role string, p Permission) bool {
	for _, granted := range rolePermissions[role] {
		if granted == p {
			return true
		}
	}
	return false
}
