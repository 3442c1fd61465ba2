package controller

import (
	"net/http"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tiffycooks/models"
)

func TestGetCommentsDefaultsToApproved(t *testing.T) {
	db, mock := newMockDB(t)
	cm := NewCommentController(db, testLogger())

	// Anonymous caller only ever sees the approved set
	mock.ExpectQuery(`SELECT (.+) FROM "comments" WHERE content_id = (.+) AND is_approved = (.+)`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	app := fiber.New()
	app.Get("/content/:contentId/comments", cm.GetComments)

	resp, err := app.Test(jsonRequest(http.MethodGet, "/content/content-1/comments", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetCommentsIncludeUnapprovedIgnoredForAnonymous(t *testing.T) {
	db, mock := newMockDB(t)
	cm := NewCommentController(db, testLogger())

	// No user in context, so the flag must not widen the filter
	mock.ExpectQuery(`SELECT (.+) FROM "comments" WHERE content_id = (.+) AND is_approved = (.+)`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	app := fiber.New()
	app.Get("/content/:contentId/comments", cm.GetComments)

	resp, err := app.Test(jsonRequest(http.MethodGet, "/content/content-1/comments?includeUnapproved=true", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateCommentValidation(t *testing.T) {
	db, _ := newMockDB(t)
	cm := NewCommentController(db, testLogger())
	user := &models.User{Base: models.Base{ID: "user-1"}}

	app := fiber.New()
	app.Post("/content/:contentId/comments", withUser(user), cm.CreateComment)

	resp, err := app.Test(jsonRequest(http.MethodPost, "/content/content-1/comments",
		fiber.Map{"content": ""}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUpdateCommentForbiddenForNonAuthor(t *testing.T) {
	db, mock := newMockDB(t)
	cm := NewCommentController(db, testLogger())
	user := &models.User{Base: models.Base{ID: "user-1"}}

	mock.ExpectExec(`UPDATE "comments" SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	app := fiber.New()
	app.Patch("/content/:contentId/comments/:commentId", withUser(user), cm.UpdateComment)

	resp, err := app.Test(jsonRequest(http.MethodPatch, "/content/content-1/comments/comment-9",
		fiber.Map{"content": "edited text"}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestApproveComment(t *testing.T) {
	user := &models.User{Base: models.Base{ID: "user-1"}}

	t.Run("moderator approves", func(t *testing.T) {
		db, mock := newMockDB(t)
		cm := NewCommentController(db, testLogger())

		mock.ExpectQuery(membershipQuery).
			WithArgs("user-1").
			WillReturnRows(membershipRow("team-1", "kitchen", models.RoleAdmin))
		mock.ExpectExec(`UPDATE "comments" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		app := fiber.New()
		app.Post("/teams/:id/comments/moderate/:commentId/approve", withUser(user), cm.ApproveComment)

		resp, err := app.Test(jsonRequest(http.MethodPost, "/teams/team-1/comments/moderate/comment-1/approve", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp)
		data := body["data"].(map[string]interface{})
		assert.Equal(t, true, data["is_approved"])
	})

	t.Run("member cannot approve", func(t *testing.T) {
		db, mock := newMockDB(t)
		cm := NewCommentController(db, testLogger())

		mock.ExpectQuery(membershipQuery).
			WithArgs("user-1").
			WillReturnRows(membershipRow("team-1", "kitchen", models.RoleMember))

		app := fiber.New()
		app.Post("/teams/:id/comments/moderate/:commentId/approve", withUser(user), cm.ApproveComment)

		resp, err := app.Test(jsonRequest(http.MethodPost, "/teams/team-1/comments/moderate/comment-1/approve", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("missing comment reads as not found", func(t *testing.T) {
		db, mock := newMockDB(t)
		cm := NewCommentController(db, testLogger())

		mock.ExpectQuery(membershipQuery).
			WithArgs("user-1").
			WillReturnRows(membershipRow("team-1", "kitchen", models.RoleCreator))
		mock.ExpectExec(`UPDATE "comments" SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		app := fiber.New()
		app.Post("/teams/:id/comments/moderate/:commentId/approve", withUser(user), cm.ApproveComment)

		resp, err := app.Test(jsonRequest(http.MethodPost, "/teams/team-1/comments/moderate/ghost/approve", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestFlagCommentNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	cm := NewCommentController(db, testLogger())
	user := &models.User{Base: models.Base{ID: "user-1"}}

	mock.ExpectQuery(membershipQuery).
		WithArgs("user-1").
		WillReturnRows(membershipRow("team-1", "kitchen", models.RoleOwner))
	mock.ExpectExec(`UPDATE "comments" SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	app := fiber.New()
	app.Post("/teams/:id/comments/moderate/:commentId/flag", withUser(user), cm.FlagComment)

	resp, err := app.Test(jsonRequest(http.MethodPost, "/teams/team-1/comments/moderate/ghost/flag", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGetModerationQueueRequiresCreator(t *testing.T) {
	db, mock := newMockDB(t)
	cm := NewCommentController(db, testLogger())
	user := &models.User{Base: models.Base{ID: "user-1"}}

	mock.ExpectQuery(membershipQuery).
		WithArgs("user-1").
		WillReturnRows(membershipRow("team-1", "kitchen", models.RoleMember))

	app := fiber.New()
	app.Get("/teams/:id/comments/moderate", withUser(user), cm.GetModerationQueue)

	resp, err := app.Test(jsonRequest(http.MethodGet, "/teams/team-1/comments/moderate", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
