package constants

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllowedRole(t *testing.T) {
	assert.True(t, AllowedRole(ViewData, Viewer))
	assert.False(t, AllowedRole(PrintReports, Viewer))
	assert.True(t, AllowedRole(PrintReports, Manager))
	assert.False(t, AllowedRole(ManageStations, Manager))
	assert.True(t, AllowedRole(ManageAccounts, Superadmin))
	assert.False(t, AllowedRole("unknown_permission", Superadmin))
}

func TestEveryPermissionAllowsSuperadmin(t *testing.T) {
	for perm := range PermissionRoles {
		assert.True(t, AllowedRole(perm, Superadmin), perm)
	}
}

func TestIsValidRole(t *testing.T) {
	assert.True(t, IsValidRole(Manager))
	assert.False(t, IsValidRole("owner"))
}
