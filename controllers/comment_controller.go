package controller

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"tiffycooks/models"
	"tiffycooks/utils"
)

type CommentController struct {
	DB     *gorm.DB
	Logger *logrus.Logger
}

func NewCommentController(db *gorm.DB, logger *logrus.Logger) *CommentController {
	return &CommentController{
		DB:     db,
		Logger: logger,
	}
}

type CreateCommentRequest struct {
	Content  string  `json:"content" validate:"required,min=1,max=2000"`
	ParentID *string `json:"parent_id"`
}

type UpdateCommentRequest struct {
	Content string `json:"content" validate:"required,min=1,max=2000"`
}

// ModerationComment is one row of the moderation queue, joined through
// content to the owning team.
type ModerationComment struct {
	ID           string     `json:"id"`
	Body         string     `json:"content"`
	IsApproved   bool       `json:"is_approved"`
	FlaggedAt    *time.Time `json:"flagged_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UserID       string     `json:"user_id"`
	UserName     string     `json:"user_name"`
	UserAvatar   string     `json:"user_avatar"`
	ContentID    string     `json:"content_id"`
	ContentTitle string     `json:"content_title"`
	ContentType  string     `json:"content_type"`
}

// GetComments lists comments for a content item in chronological reading
// order. Approved-only by default; includeUnapproved is honored only for
// callers who can moderate the owning team.
func (cm *CommentController) GetComments(c *fiber.Ctx) error {
	contentID := c.Params("contentId")
	if contentID == "" {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Content ID is required", nil)
	}

	limit, offset := utils.ParseLimitOffset(c)

	includeUnapproved := false
	if c.Query("includeUnapproved") == "true" {
		if user, ok := c.Locals("user").(*models.User); ok {
			var content models.Content
			if err := cm.DB.Select("team_id").Where("id = ?", contentID).First(&content).Error; err == nil {
				includeUnapproved = utils.CanModerate(cm.DB, user.ID, content.TeamID)
			}
		}
	}

	query := cm.DB.Where("content_id = ?", contentID)
	if !includeUnapproved {
		query = query.Where("is_approved = ?", true)
	}

	var comments []models.Comment
	err := query.
		Preload("User").
		Preload("Parent").
		Preload("Parent.User").
		Order("created_at ASC").
		Limit(limit).
		Offset(offset).
		Find(&comments).Error
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to get comments", err)
	}

	return c.JSON(utils.SuccessResponse(comments))
}

// CreateComment inserts a comment on a content item. The model hook
// forces it unapproved no matter who wrote it.
func (cm *CommentController) CreateComment(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	contentID := c.Params("contentId")
	if contentID == "" {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Content ID is required", nil)
	}

	var req CreateCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	comment := models.Comment{
		ContentID: contentID,
		UserID:    user.ID,
		ParentID:  req.ParentID,
		Body:      req.Content,
	}
	if err := cm.DB.Create(&comment).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create comment", err)
	}

	return c.JSON(utils.SuccessResponse(comment))
}

// UpdateComment edits a comment's body. Author-only; a miss reads as
// forbidden.
func (cm *CommentController) UpdateComment(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	commentID := c.Params("commentId")

	var req UpdateCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	result := cm.DB.Model(&models.Comment{}).
		Where("id = ? AND user_id = ?", commentID, user.ID).
		Update("body", req.Content)
	if result.Error != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update comment", result.Error)
	}
	if result.RowsAffected == 0 {
		return utils.ErrorResponse(c, fiber.StatusForbidden,
			"You are not authorized to update this comment or it does not exist", nil)
	}

	var comment models.Comment
	if err := cm.DB.Where("id = ?", commentID).First(&comment).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to load updated comment", err)
	}
	return c.JSON(utils.SuccessResponse(comment))
}

// DeleteComment hard-deletes a comment. Author-only; a miss reads as
// forbidden.
func (cm *CommentController) DeleteComment(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	commentID := c.Params("commentId")

	var comment models.Comment
	if err := cm.DB.Where("id = ? AND user_id = ?", commentID, user.ID).First(&comment).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusForbidden,
			"You are not authorized to delete this comment or it does not exist", nil)
	}

	if err := cm.DB.Where("id = ? AND user_id = ?", commentID, user.ID).
		Delete(&models.Comment{}).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete comment", err)
	}

	return c.JSON(utils.SuccessResponse(comment))
}

// GetModerationQueue lists the team's unapproved comments, newest first.
// Creator-or-above.
func (cm *CommentController) GetModerationQueue(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	teamID := c.Params("id")

	if _, err := utils.RequireCreatorOrAbove(cm.DB, user.ID, teamID); err != nil {
		return guardError(c, err)
	}

	limit, _ := utils.ParseLimitOffset(c)
	if c.Query("limit") == "" {
		limit = 50
	}

	var queue []ModerationComment
	err := cm.DB.Table("comments").
		Select(`comments.id, comments.body, comments.is_approved, comments.flagged_at, comments.created_at,
			users.id AS user_id, users.name AS user_name, users.avatar_url AS user_avatar,
			contents.id AS content_id, contents.title AS content_title, contents.type AS content_type`).
		Joins("LEFT JOIN users ON users.id = comments.user_id").
		Joins("LEFT JOIN contents ON contents.id = comments.content_id").
		Where("contents.team_id = ? AND comments.is_approved = ?", teamID, false).
		Order("comments.created_at DESC").
		Limit(limit).
		Scan(&queue).Error
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to get unapproved comments", err)
	}

	return c.JSON(utils.SuccessResponse(queue))
}

// ApproveComment marks a comment approved. Moderator-only, enforced by
// the team guard upstream.
func (cm *CommentController) ApproveComment(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	teamID := c.Params("id")
	commentID := c.Params("commentId")

	if _, err := utils.RequireCreatorOrAbove(cm.DB, user.ID, teamID); err != nil {
		return guardError(c, err)
	}

	result := cm.DB.Model(&models.Comment{}).
		Where("id = ?", commentID).
		Update("is_approved", true)
	if result.Error != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to approve comment", result.Error)
	}
	if result.RowsAffected == 0 {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Comment not found", nil)
	}

	cm.Logger.WithFields(logrus.Fields{
		"comment_id": commentID,
		"team_id":    teamID,
	}).Info("comment approved")

	return c.JSON(utils.SuccessResponse(fiber.Map{"id": commentID, "is_approved": true}))
}

// FlagComment stamps flagged_at. Flagging records moderator attention
// without hiding the comment; approval state is untouched.
func (cm *CommentController) FlagComment(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	teamID := c.Params("id")
	commentID := c.Params("commentId")

	if _, err := utils.RequireCreatorOrAbove(cm.DB, user.ID, teamID); err != nil {
		return guardError(c, err)
	}

	now := time.Now()
	result := cm.DB.Model(&models.Comment{}).
		Where("id = ?", commentID).
		Update("flagged_at", &now)
	if result.Error != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to flag comment", result.Error)
	}
	if result.RowsAffected == 0 {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Comment not found", nil)
	}

	return c.JSON(utils.SuccessResponse(fiber.Map{"id": commentID, "flagged_at": now}))
}
