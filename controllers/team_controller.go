package controller

import (
	"errors"
	"time"

	"github.com/badoux/checkmail"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"tiffycooks/config"
	"tiffycooks/models"
	"tiffycooks/utils"
)

type TeamController struct {
	DB     *gorm.DB
	Logger *logrus.Logger
	Mailer utils.Mailer
}

func NewTeamController(db *gorm.DB, logger *logrus.Logger, mailer utils.Mailer) *TeamController {
	return &TeamController{
		DB:     db,
		Logger: logger,
		Mailer: mailer,
	}
}

type CreateTeamRequest struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
	Slug string `json:"slug" validate:"required,min=3,max=50,slug"`
	Logo string `json:"logo" validate:"omitempty,url"`
}

type InviteMemberRequest struct {
	Email string `json:"email" validate:"required,email"`
	Role  string `json:"role" validate:"omitempty,oneof=member creator admin owner"`
}

// guardError translates team guard failures to HTTP responses.
func guardError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, utils.ErrTeamNotFound):
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Team not found", nil)
	case errors.Is(err, utils.ErrNotOwner), errors.Is(err, utils.ErrNotCreator):
		return utils.ErrorResponse(c, fiber.StatusForbidden, err.Error(), nil)
	default:
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to check team access", err)
	}
}

// CreateTeam creates a team and makes the caller its sole owner.
func (tc *TeamController) CreateTeam(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var req CreateTeamRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	// Duplicate slug pre-check; the unique index is the backstop for
	// concurrent creates.
	var existing models.Team
	if err := tc.DB.Where("slug = ?", req.Slug).First(&existing).Error; err == nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "A team with this slug already exists", nil)
	}

	team := models.Team{
		Name:    req.Name,
		Slug:    req.Slug,
		Logo:    req.Logo,
		OwnerID: user.ID,
	}
	if err := tc.DB.Create(&team).Error; err != nil {
		if utils.IsUniqueConstraintError(err) {
			return utils.ErrorResponse(c, fiber.StatusConflict, utils.UniqueConstraintMessage(err), nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create team", err)
	}

	membership := models.TeamMember{
		TeamID: team.ID,
		UserID: user.ID,
		Role:   models.RoleOwner,
	}
	if err := tc.DB.Create(&membership).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create team membership", err)
	}

	tc.Logger.WithFields(logrus.Fields{
		"team_id": team.ID,
		"slug":    team.Slug,
		"user_id": user.ID,
	}).Info("team created")

	return c.Status(fiber.StatusCreated).JSON(utils.SuccessResponse(team))
}

// GetMyTeams lists the caller's teams with their role in each.
func (tc *TeamController) GetMyTeams(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	teams, err := utils.FindUserTeams(tc.DB, user.ID)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list teams", err)
	}
	return c.JSON(utils.SuccessResponse(teams))
}

// InviteMember creates a pending invitation and emails the invitee.
// Owner only.
func (tc *TeamController) InviteMember(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	teamID := c.Params("id")

	team, err := utils.RequireOwner(tc.DB, user.ID, teamID)
	if err != nil {
		return guardError(c, err)
	}

	var req InviteMemberRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}
	if err := checkmail.ValidateFormat(req.Email); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid email address", nil)
	}
	if req.Role == "" {
		req.Role = models.RoleMember
	}

	// Already a member?
	var invitee models.User
	if err := tc.DB.Where("email = ?", req.Email).First(&invitee).Error; err == nil {
		var membership models.TeamMember
		if err := tc.DB.Where("team_id = ? AND user_id = ?", teamID, invitee.ID).
			First(&membership).Error; err == nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest,
				"The user with this email is already a member of this team", nil)
		}
	}

	// At most one pending invite per (team, email)
	var pending models.TeamInvite
	if err := tc.DB.Where("team_id = ? AND email = ? AND status = ?",
		teamID, req.Email, models.InviteStatusPending).First(&pending).Error; err == nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest,
			"An invitation for this email already exists", nil)
	}

	invite := models.TeamInvite{
		TeamID:    teamID,
		Email:     req.Email,
		Role:      req.Role,
		Token:     utils.GenerateInviteToken(32),
		Status:    models.InviteStatusPending,
		ExpiresAt: time.Now().Add(models.InviteTTL),
	}
	if err := tc.DB.Create(&invite).Error; err != nil {
		if utils.IsUniqueConstraintError(err) {
			return utils.ErrorResponse(c, fiber.StatusBadRequest,
				"An invitation for this email already exists", nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create invitation", err)
	}

	inviteLink := config.AppConfig.BaseURL + "/api/v1/teams/verify-invite?token=" + invite.Token
	err = tc.Mailer.Send(utils.EmailData{
		Subject:  "Invitation to join " + team.Name + " on " + config.AppConfig.AppName,
		To:       []string{req.Email},
		Template: "team_invite",
		Data: map[string]interface{}{
			"TeamName":    team.Name,
			"InviterName": user.Name,
			"InviteLink":  inviteLink,
			"AppName":     config.AppConfig.AppName,
		},
	})
	if err != nil {
		tc.Logger.WithError(err).Error("failed to send invite email")
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to send invitation email", nil)
	}

	return c.Status(fiber.StatusCreated).JSON(utils.SuccessResponse(invite))
}

// VerifyInvite redeems an invite token for the logged-in user.
func (tc *TeamController) VerifyInvite(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	token := c.Query("token")
	if token == "" {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invite token is required", nil)
	}

	var invite models.TeamInvite
	if err := tc.DB.Where("token = ? AND status = ?", token, models.InviteStatusPending).
		First(&invite).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Invitation not found or already used", nil)
	}

	if time.Now().After(invite.ExpiresAt) {
		tc.DB.Model(&invite).Update("status", models.InviteStatusExpired)
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invitation has expired", nil)
	}

	var membership models.TeamMember
	if err := tc.DB.Where("team_id = ? AND user_id = ?", invite.TeamID, user.ID).
		First(&membership).Error; err == nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "You are already a member of this team", nil)
	}

	membership = models.TeamMember{
		TeamID: invite.TeamID,
		UserID: user.ID,
		Role:   invite.Role,
	}
	if err := tc.DB.Create(&membership).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to join team", err)
	}

	if err := tc.DB.Model(&invite).Update("status", models.InviteStatusAccepted).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to consume invitation", err)
	}

	tc.Logger.WithFields(logrus.Fields{
		"team_id": invite.TeamID,
		"user_id": user.ID,
		"role":    invite.Role,
	}).Info("invitation accepted")

	return c.JSON(utils.SuccessResponse(membership))
}
