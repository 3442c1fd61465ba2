package utils

import (
	"errors"

	"gorm.io/gorm"

	"tiffycooks/models"
)

// Guard errors, translated to HTTP statuses by the controllers.
var (
	ErrTeamNotFound = errors.New("team not found")
	ErrNotOwner     = errors.New("only team owners can perform this action")
	ErrNotCreator   = errors.New("only creators, admins, or owners can perform this action")
)

// TeamRole is one row of a user's team list with their role in it.
type TeamRole struct {
	models.Team
	Role string `json:"role"`
}

// FindUserTeams returns every team the user belongs to together with
// their role. Membership counts per user are small, so callers scan the
// slice instead of issuing an indexed single-row lookup.
func FindUserTeams(db *gorm.DB, userID string) ([]TeamRole, error) {
	var teams []TeamRole
	err := db.Table("team_members").
		Select("teams.*, team_members.role").
		Joins("JOIN teams ON teams.id = team_members.team_id").
		Where("team_members.user_id = ?", userID).
		Scan(&teams).Error
	if err != nil {
		return nil, err
	}
	return teams, nil
}

// RequireOwner returns the team if the user holds the owner role in it.
// A missing membership is reported as not found, not forbidden, so the
// team's existence is never leaked to outsiders.
func RequireOwner(db *gorm.DB, userID, teamID string) (*TeamRole, error) {
	team, err := findMembership(db, userID, teamID)
	if err != nil {
		return nil, err
	}
	if !IsOwner(team.Role) {
		return nil, ErrNotOwner
	}
	return team, nil
}

// RequireCreatorOrAbove returns the team if the user holds creator, admin
// or owner role in it.
func RequireCreatorOrAbove(db *gorm.DB, userID, teamID string) (*TeamRole, error) {
	team, err := findMembership(db, userID, teamID)
	if err != nil {
		return nil, err
	}
	if !IsCreatorOrAbove(team.Role) {
		return nil, ErrNotCreator
	}
	return team, nil
}

// CanModerate reports whether the user may moderate the team's content.
// Lookup failures read as "no".
func CanModerate(db *gorm.DB, userID, teamID string) bool {
	team, err := findMembership(db, userID, teamID)
	if err != nil {
		return false
	}
	return IsCreatorOrAbove(team.Role)
}

func findMembership(db *gorm.DB, userID, teamID string) (*TeamRole, error) {
	teams, err := FindUserTeams(db, userID)
	if err != nil {
		return nil, err
	}
	for i := range teams {
		if teams[i].ID == teamID {
			return &teams[i], nil
		}
	}
	return nil, ErrTeamNotFound
}
