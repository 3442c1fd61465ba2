package controller

import (
	"context"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	openai "github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"tiffycooks/config"
	"tiffycooks/models"
	"tiffycooks/utils"
)

const aiSystemPrompt = "You are Tiffy, a helpful cooking assistant. You provide friendly, " +
	"practical cooking advice, recipe suggestions, and cooking tips. Keep responses concise and helpful."

// CompletionClient is the slice of the OpenAI client the controller
// needs; tests substitute a stub.
type CompletionClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

type AIController struct {
	DB     *gorm.DB
	Logger *logrus.Logger
	Client CompletionClient
}

func NewAIController(db *gorm.DB, logger *logrus.Logger, client CompletionClient) *AIController {
	return &AIController{
		DB:     db,
		Logger: logger,
		Client: client,
	}
}

type AskRequest struct {
	Prompt    string  `json:"prompt" validate:"required,min=1,max=2000"`
	ContentID *string `json:"content_id"`
	SessionID string  `json:"session_id"`
	Model     string  `json:"model" validate:"omitempty,oneof=gpt-4 gpt-3.5-turbo"`
}

type AskResponse struct {
	Response   string `json:"response"`
	Model      string `json:"model"`
	TokensUsed int    `json:"tokens_used"`
	SessionID  string `json:"session_id"`
}

// Ask answers a prompt through the completion API. Authenticated non-pro
// users are capped per rolling 24h window; pro and anonymous callers
// bypass the cap (anonymous usage has no identity to key a durable quota
// on). The count-then-call sequence is not atomic: concurrent requests
// from one user can slip past the cap.
func (ac *AIController) Ask(c *fiber.Ctx) error {
	var req AskRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	model := req.Model
	if model == "" {
		model = config.AppConfig.OpenAIModel
	}
	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	var userID *string
	if user, ok := c.Locals("user").(*models.User); ok {
		userID = &user.ID

		if !user.ProAccount {
			count, err := ac.interactionCount(user.ID, 24*time.Hour)
			if err != nil {
				return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to check usage", err)
			}
			if count >= int64(config.AppConfig.AIDailyLimit) {
				return utils.ErrorResponse(c, fiber.StatusTooManyRequests,
					"Daily rate limit exceeded. Upgrade to pro for unlimited AI requests.", nil)
			}
		}
	}

	ctx, cancel := context.WithTimeout(c.Context(), 30*time.Second)
	defer cancel()

	resp, err := ac.Client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: aiSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: req.Prompt},
		},
		MaxTokens:   500,
		Temperature: 0.7,
	})
	if err != nil {
		ac.Logger.WithError(err).Error("completion API call failed")
		sentry.CaptureException(err)
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to get AI response", nil)
	}

	answer := "Sorry, I could not generate a response."
	if len(resp.Choices) > 0 && resp.Choices[0].Message.Content != "" {
		answer = resp.Choices[0].Message.Content
	}

	interaction := models.AIInteraction{
		UserID:     userID,
		SessionID:  sessionID,
		Prompt:     req.Prompt,
		Response:   answer,
		Model:      model,
		TokensUsed: resp.Usage.TotalTokens,
		ContentID:  req.ContentID,
		Meta: models.JSONMap{
			"user_agent": c.Get("User-Agent"),
			"ip":         c.IP(),
		},
	}
	// The response has already been paid for; a failed log write must not
	// take it away from the caller.
	if err := ac.DB.Create(&interaction).Error; err != nil {
		ac.Logger.WithError(err).Error("failed to log AI interaction")
	}

	return c.JSON(AskResponse{
		Response:   answer,
		Model:      model,
		TokensUsed: resp.Usage.TotalTokens,
		SessionID:  sessionID,
	})
}

func (ac *AIController) interactionCount(userID string, window time.Duration) (int64, error) {
	var count int64
	err := ac.DB.Model(&models.AIInteraction{}).
		Where("user_id = ? AND created_at >= ?", userID, time.Now().Add(-window)).
		Count(&count).Error
	return count, err
}

// AIStats is the aggregate usage report.
type AIStats struct {
	TotalInteractions int64 `json:"total_interactions"`
	TotalTokens       int64 `json:"total_tokens"`
	UniqueUsers       int64 `json:"unique_users"`
}

// GetAIStats reports aggregate usage, optionally narrowed to one team's
// content (creator-or-above for that team).
func (ac *AIController) GetAIStats(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var stats AIStats
	query := ac.DB.Table("ai_interactions").
		Select("COUNT(*) AS total_interactions, COALESCE(SUM(tokens_used), 0) AS total_tokens, COUNT(DISTINCT user_id) AS unique_users")

	if teamID := c.Query("team_id"); teamID != "" {
		if _, err := utils.RequireCreatorOrAbove(ac.DB, user.ID, teamID); err != nil {
			return guardError(c, err)
		}
		query = query.
			Joins("LEFT JOIN contents ON contents.id = ai_interactions.content_id").
			Where("contents.team_id = ?", teamID)
	}

	if err := query.Scan(&stats).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to get AI stats", err)
	}

	return c.JSON(utils.SuccessResponse(stats))
}

// GetRecentInteractions lists the caller's latest interactions.
func (ac *AIController) GetRecentInteractions(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	limit, _ := utils.ParseLimitOffset(c)
	if c.Query("limit") == "" {
		limit = 10
	}

	var interactions []models.AIInteraction
	err := ac.DB.Where("user_id = ?", user.ID).
		Order("created_at DESC").
		Limit(limit).
		Find(&interactions).Error
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to get recent interactions", err)
	}

	return c.JSON(utils.SuccessResponse(interactions))
}
