package utils

import "tiffycooks/models"

// roleRank is the total order behind the two membership checks the API
// actually needs. Unknown roles rank below member.
var roleRank = map[string]int{
	models.RoleMember:  0,
	models.RoleCreator: 1,
	models.RoleAdmin:   2,
	models.RoleOwner:   3,
}

// RoleSatisfies reports whether actual ranks at or above required.
func RoleSatisfies(actual, required string) bool {
	actualRank, ok := roleRank[actual]
	if !ok {
		return false
	}
	requiredRank, ok := roleRank[required]
	if !ok {
		return false
	}
	return actualRank >= requiredRank
}

// IsOwner reports whether the role is the owner role.
func IsOwner(role string) bool {
	return role == models.RoleOwner
}

// IsCreatorOrAbove reports whether the role may create and moderate team
// content.
func IsCreatorOrAbove(role string) bool {
	return RoleSatisfies(role, models.RoleCreator)
}

// ValidRole reports whether the role belongs to the closed role set.
func ValidRole(role string) bool {
	_, ok := roleRank[role]
	return ok
}
