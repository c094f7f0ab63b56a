package authz

import "strings"

// Features is the authoritative catalog of protectable resource categories.
// The `features` table is converged to this list by the reconciler; changing
// it requires a new release plus a catalog-sync migration run.
var Features = []string{
	"api_keys",
	"budgets",
	"categories",
	"expenses",
	"payment_methods",
	"roles",
	"users",
}

// Actions is the authoritative catalog of operation kinds.
var Actions = []string{"create", "read", "update", "delete"}

// PermissionName composes the canonical permission name, e.g. "expenses:read".
func PermissionName(feature, action string) string {
	return strings.ToLower(feature + ":" + action)
}

// splitPermissionName is the inverse of PermissionName.
func splitPermissionName(name string) (feature, action string, ok bool) {
	i := strings.LastIndex(name, ":")
	if i <= 0 || i == len(name)-1 {
		return "", "", false
	}
	return name[:i], name[i+1:], true
}
