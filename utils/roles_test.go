package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"tiffycooks/models"
)

func TestRoleSatisfies(t *testing.T) {
	tests := []struct {
		name     string
		actual   string
		required string
		want     bool
	}{
		{"member satisfies member", models.RoleMember, models.RoleMember, true},
		{"member does not satisfy creator", models.RoleMember, models.RoleCreator, false},
		{"creator satisfies creator", models.RoleCreator, models.RoleCreator, true},
		{"creator does not satisfy admin", models.RoleCreator, models.RoleAdmin, false},
		{"admin satisfies creator", models.RoleAdmin, models.RoleCreator, true},
		{"owner satisfies everything", models.RoleOwner, models.RoleOwner, true},
		{"owner satisfies member", models.RoleOwner, models.RoleMember, true},
		{"unknown actual never satisfies", "superadmin", models.RoleMember, false},
		{"unknown required never satisfied", models.RoleOwner, "root", false},
		{"empty role never satisfies", "", models.RoleMember, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RoleSatisfies(tt.actual, tt.required))
		})
	}
}

func TestIsOwner(t *testing.T) {
	assert.True(t, IsOwner(models.RoleOwner))
	assert.False(t, IsOwner(models.RoleAdmin))
	assert.False(t, IsOwner(""))
}

func TestIsCreatorOrAbove(t *testing.T) {
	assert.False(t, IsCreatorOrAbove(models.RoleMember))
	assert.True(t, IsCreatorOrAbove(models.RoleCreator))
	assert.True(t, IsCreatorOrAbove(models.RoleAdmin))
	assert.True(t, IsCreatorOrAbove(models.RoleOwner))
	assert.False(t, IsCreatorOrAbove("moderator"))
}

func TestValidRole(t *testing.T) {
	for _, role := range []string{models.RoleMember, models.RoleCreator, models.RoleAdmin, models.RoleOwner} {
		assert.True(t, ValidRole(role), role)
	}
	assert.False(t, ValidRole("Owner"))
	assert.False(t, ValidRole(""))
}
