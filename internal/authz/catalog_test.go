package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPermissionName(t *testing.T) {
	assert.Equal(t, "expenses:read", PermissionName("expenses", "read"))
	assert.Equal(t, "expenses:read", PermissionName("Expenses", "READ"))
}

func TestSplitPermissionName(t *testing.T) {
	feature, action, ok := splitPermissionName("expenses:read")
	assert.True(t, ok)
	assert.Equal(t, "expenses", feature)
	assert.Equal(t, "read", action)

	_, _, ok = splitPermissionName("no-separator")
	assert.False(t, ok)

	_, _, ok = splitPermissionName(":read")
	assert.False(t, ok)

	_, _, ok = splitPermissionName("expenses:")
	assert.False(t, ok)
}

func TestCatalogsAreLowercaseAndUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, f := range Features {
		assert.Equal(t, f, PermissionName(f, "read")[:len(f)])
		assert.False(t, seen[f], "duplicate feature %s", f)
		seen[f] = true
	}
	seen = map[string]bool{}
	for _, a := range Actions {
		assert.False(t, seen[a], "duplicate action %s", a)
		seen[a] = true
	}
}
