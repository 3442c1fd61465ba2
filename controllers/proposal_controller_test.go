package controller

import (
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tiffycooks/config"
	"tiffycooks/models"
	"tiffycooks/utils"
)

func setProposalConfig(t *testing.T, recipient string) {
	t.Helper()
	prev := config.AppConfig
	config.AppConfig.AppName = "TiffyCooks"
	config.AppConfig.MeetingRequestEmail = recipient
	t.Cleanup(func() { config.AppConfig = prev })
}

func TestRequestMeeting(t *testing.T) {
	user := &models.User{Base: models.Base{ID: "user-1"}, Name: "Alice", Email: "alice@example.com"}

	t.Run("sends templated mail to the configured recipient", func(t *testing.T) {
		setProposalConfig(t, "sales@tiffycooks.com")

		db, mock := newMockDB(t)
		mailer := utils.NewMemoryMailer()
		pc := NewProposalController(db, testLogger(), mailer)

		mock.ExpectQuery(membershipQuery).
			WithArgs("user-1").
			WillReturnRows(membershipRow("team-1", "Test Kitchen", models.RoleOwner))

		app := fiber.New()
		app.Post("/proposal/meeting-request", withUser(user), pc.RequestMeeting)

		resp, err := app.Test(jsonRequest(http.MethodPost, "/proposal/meeting-request",
			fiber.Map{"message": "We would like to discuss a partnership."}))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp)
		assert.Equal(t, "Meeting request sent successfully", body["message"])

		sent := mailer.Sent()
		require.Len(t, sent, 1)
		assert.Equal(t, []string{"sales@tiffycooks.com"}, sent[0].To)
		assert.Equal(t, "meeting_request", sent[0].Template)
		assert.Contains(t, sent[0].Subject, "Alice")
	})

	t.Run("missing recipient configuration", func(t *testing.T) {
		setProposalConfig(t, "")

		db, _ := newMockDB(t)
		pc := NewProposalController(db, testLogger(), utils.NewMemoryMailer())

		app := fiber.New()
		app.Post("/proposal/meeting-request", withUser(user), pc.RequestMeeting)

		resp, err := app.Test(jsonRequest(http.MethodPost, "/proposal/meeting-request",
			fiber.Map{"message": "We would like to discuss a partnership."}))
		require.NoError(t, err)
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	})

	t.Run("message too short", func(t *testing.T) {
		setProposalConfig(t, "sales@tiffycooks.com")

		db, _ := newMockDB(t)
		mailer := utils.NewMemoryMailer()
		pc := NewProposalController(db, testLogger(), mailer)

		app := fiber.New()
		app.Post("/proposal/meeting-request", withUser(user), pc.RequestMeeting)

		resp, err := app.Test(jsonRequest(http.MethodPost, "/proposal/meeting-request",
			fiber.Map{"message": "hi"}))
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Empty(t, mailer.Sent())
	})
}
