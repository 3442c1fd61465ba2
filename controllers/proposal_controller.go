package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"tiffycooks/config"
	"tiffycooks/models"
	"tiffycooks/utils"
)

type ProposalController struct {
	DB     *gorm.DB
	Logger *logrus.Logger
	Mailer utils.Mailer
}

func NewProposalController(db *gorm.DB, logger *logrus.Logger, mailer utils.Mailer) *ProposalController {
	return &ProposalController{
		DB:     db,
		Logger: logger,
		Mailer: mailer,
	}
}

type MeetingRequest struct {
	Message string `json:"message" validate:"required,min=10,max=1000"`
}

// RequestMeeting sends a templated notification email from the proposal
// page.
func (pc *ProposalController) RequestMeeting(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var req MeetingRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	to := config.AppConfig.MeetingRequestEmail
	if to == "" {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Meeting request recipient not configured", nil)
	}

	var teamName string
	if teams, err := utils.FindUserTeams(pc.DB, user.ID); err == nil && len(teams) > 0 {
		teamName = teams[0].Name
	}

	err := pc.Mailer.Send(utils.EmailData{
		Subject:  "Meeting Request from " + user.Name + " - " + config.AppConfig.AppName + " Proposal",
		To:       []string{to},
		Template: "meeting_request",
		Data: map[string]interface{}{
			"UserName":  user.Name,
			"UserEmail": user.Email,
			"TeamName":  teamName,
			"Message":   req.Message,
			"AppName":   config.AppConfig.AppName,
		},
	})
	if err != nil {
		pc.Logger.WithError(err).Error("failed to send meeting request email")
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to send email", nil)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Meeting request sent successfully",
	})
}
