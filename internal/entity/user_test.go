package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Permission sets are strictly nested by rank: user ⊂ manager ⊂ admin.
func TestPermissionsAreNestedByRank(t *testing.T) {
	for _, p := range RoleUser.Permissions() {
		assert.True(t, RoleManager.Can(p), "manager must hold user permission %q", p)
		assert.True(t, RoleAdmin.Can(p), "admin must hold user permission %q", p)
	}
	for _, p := range RoleManager.Permissions() {
		assert.True(t, RoleAdmin.Can(p), "admin must hold manager permission %q", p)
	}
}

func TestAdminOnlyPermissions(t *testing.T) {
	for _, p := range []string{"manage_users", "edit_settings", "view_settings"} {
		assert.True(t, RoleAdmin.Can(p))
		assert.False(t, RoleManager.Can(p), "manager must not hold %q", p)
		assert.False(t, RoleUser.Can(p), "user must not hold %q", p)
	}
}

func TestManagerAndUpPermissions(t *testing.T) {
	for _, p := range []string{"delete_leads", "delete_interactions", "view_reports"} {
		assert.True(t, RoleAdmin.Can(p))
		assert.True(t, RoleManager.Can(p))
		assert.False(t, RoleUser.Can(p), "user must not hold %q", p)
	}
}

func TestUnknownRoleHasNoPermissions(t *testing.T) {
	assert.Empty(t, Role("intern").Permissions())
	assert.False(t, Role("intern").Can("view_leads"))
}
