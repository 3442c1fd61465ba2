package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	openai "github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"tiffycooks/config"
	controller "tiffycooks/controllers"
	"tiffycooks/middleware"
	"tiffycooks/utils"
)

func newMailer() utils.Mailer {
	if config.AppConfig.MockEmail {
		return utils.NewMemoryMailer()
	}
	return utils.NewSMTPMailer()
}

func SetupAuthRoutes(app *fiber.App) {
	auth := app.Group("/auth", middleware.AuthRateLimiter(), logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	// Public auth endpoints
	auth.Post("/register", controller.Register)
	auth.Post("/login", controller.Login)
	auth.Post("/refresh", controller.RefreshToken)

	// Google OAuth routes
	auth.Get("/google", controller.GoogleOAuth)
	auth.Get("/google/callback", controller.GoogleOAuthCallback)

	// Protected auth endpoints
	protectedAuth := auth.Group("", middleware.Protected())
	protectedAuth.Post("/logout", controller.Logout)
	protectedAuth.Get("/me", controller.GetCurrentUser)
}

func SetupAPIRoutes(app *fiber.App, db *gorm.DB, log *logrus.Logger) {
	mailer := newMailer()

	teamController := controller.NewTeamController(db, log, mailer)
	contentController := controller.NewContentController(db, log)
	commentController := controller.NewCommentController(db, log)
	proposalController := controller.NewProposalController(db, log, mailer)
	aiController := controller.NewAIController(db, log, openai.NewClient(config.AppConfig.OpenAIAPIKey))

	requestLogger := logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	})

	// Public content surface
	content := app.Group("/api/content", requestLogger)
	content.Get("/", contentController.GetPublicContent)
	content.Get("/:slug", contentController.GetContentBySlug)

	// Comments live under content; reading is public, writing needs auth
	content.Get("/:contentId/comments", middleware.OptionalAuth(), commentController.GetComments)
	content.Post("/:contentId/comments", middleware.Protected(), commentController.CreateComment)
	content.Patch("/:contentId/comments/:commentId", middleware.Protected(), commentController.UpdateComment)
	content.Delete("/:contentId/comments/:commentId", middleware.Protected(), commentController.DeleteComment)

	// AI assistant: anonymous allowed, quota applies to signed-in free users
	ai := app.Group("/api/ai", requestLogger)
	ai.Post("/ask", middleware.OptionalAuth(), aiController.Ask)
	ai.Get("/stats", middleware.Protected(), aiController.GetAIStats)
	ai.Get("/interactions", middleware.Protected(), aiController.GetRecentInteractions)

	// Stripe webhook must stay outside auth
	app.Post("/api/payment/webhook", controller.HandleStripeWebhook)

	// Everything below requires a session
	api := app.Group("/api/v1", middleware.Protected(), requestLogger)

	teams := api.Group("/teams")
	teams.Post("/", teamController.CreateTeam)
	teams.Get("/", teamController.GetMyTeams)
	teams.Get("/verify-invite", teamController.VerifyInvite)
	teams.Post("/:id/members", teamController.InviteMember)

	teams.Get("/:id/content", contentController.GetTeamContent)
	teams.Post("/:id/content", contentController.CreateContent)
	teams.Get("/:id/content/:contentId", contentController.GetTeamContentByID)
	teams.Patch("/:id/content/:contentId", contentController.UpdateContent)
	teams.Delete("/:id/content/:contentId", contentController.DeleteContent)
	teams.Post("/:id/content/:contentId/publish", contentController.PublishContent)

	teams.Get("/:id/comments/moderate", commentController.GetModerationQueue)
	teams.Post("/:id/comments/moderate/:commentId/approve", commentController.ApproveComment)
	teams.Post("/:id/comments/moderate/:commentId/flag", commentController.FlagComment)

	api.Post("/proposal/meeting-request", proposalController.RequestMeeting)

	payment := api.Group("/payment")
	payment.Post("/create-intent", controller.CreateProUpgradeIntent)
}

func SetupRoutes(app *fiber.App, db *gorm.DB, log *logrus.Logger) {
	controller.InitStripe()
	controller.InitOAuth()

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	SetupAuthRoutes(app)
	SetupAPIRoutes(app, db, log)

	// 404 handler
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":   "Not Found",
			"message": "The requested resource was not found",
		})
	})
}
