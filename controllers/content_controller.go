package controller

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"tiffycooks/models"
	"tiffycooks/utils"
)

type ContentController struct {
	DB     *gorm.DB
	Logger *logrus.Logger
}

func NewContentController(db *gorm.DB, logger *logrus.Logger) *ContentController {
	return &ContentController{
		DB:     db,
		Logger: logger,
	}
}

// ContentInput is the discriminated create payload. Type decides which of
// the optional recipe/lesson fields are kept; the rest are dropped before
// the row is written.
type ContentInput struct {
	Title        string               `json:"title" validate:"required,min=3,max=200"`
	Content      string               `json:"content" validate:"required,min=10"`
	Type         string               `json:"type" validate:"required,oneof=post recipe lesson"`
	Slug         string               `json:"slug" validate:"required,slug"`
	Image        string               `json:"image"`
	Tags         []string             `json:"tags"`
	Difficulty   string               `json:"difficulty" validate:"omitempty,oneof=beginner intermediate advanced"`
	PrepTime     int                  `json:"prep_time" validate:"omitempty,gt=0"`
	CookTime     int                  `json:"cook_time" validate:"omitempty,gt=0"`
	Servings     int                  `json:"servings" validate:"omitempty,gt=0"`
	Ingredients  []models.Ingredient  `json:"ingredients" validate:"omitempty,dive"`
	Instructions []models.Instruction `json:"instructions" validate:"omitempty,dive"`
	IsPublic     bool                 `json:"is_public"`
	IsFeatured   bool                 `json:"is_featured"`
}

// normalize drops fields that are meaningless for the content type.
func (in *ContentInput) normalize() {
	switch in.Type {
	case models.ContentTypePost:
		in.Difficulty = ""
		in.PrepTime = 0
		in.CookTime = 0
		in.Servings = 0
		in.Ingredients = nil
		in.Instructions = nil
	case models.ContentTypeLesson:
		// Lessons keep difficulty and prep_time (duration)
		in.CookTime = 0
		in.Servings = 0
		in.Ingredients = nil
		in.Instructions = nil
	}
}

type UpdateContentRequest struct {
	Title        *string              `json:"title" validate:"omitempty,min=3,max=200"`
	Content      *string              `json:"content" validate:"omitempty,min=10"`
	Slug         *string              `json:"slug" validate:"omitempty,slug"`
	Image        *string              `json:"image"`
	Tags         []string             `json:"tags"`
	Difficulty   *string              `json:"difficulty" validate:"omitempty,oneof=beginner intermediate advanced"`
	PrepTime     *int                 `json:"prep_time" validate:"omitempty,gt=0"`
	CookTime     *int                 `json:"cook_time" validate:"omitempty,gt=0"`
	Servings     *int                 `json:"servings" validate:"omitempty,gt=0"`
	Ingredients  []models.Ingredient  `json:"ingredients" validate:"omitempty,dive"`
	Instructions []models.Instruction `json:"instructions" validate:"omitempty,dive"`
	IsFeatured   *bool                `json:"is_featured"`
}

func contentFilters(c *fiber.Ctx, query *gorm.DB) *gorm.DB {
	if t := c.Query("type"); t != "" {
		query = query.Where("type = ?", t)
	}
	if d := c.Query("difficulty"); d != "" {
		query = query.Where("difficulty = ?", d)
	}
	if featured := utils.QueryBoolPtr(c, "is_featured"); featured != nil {
		query = query.Where("is_featured = ?", *featured)
	}
	return query
}

// GetPublicContent lists public content for anyone, newest publication
// first; unpublished timestamps sort last.
func (cc *ContentController) GetPublicContent(c *fiber.Ctx) error {
	limit, offset := utils.ParseLimitOffset(c)

	query := cc.DB.Model(&models.Content{}).Where("is_public = ?", true)
	query = contentFilters(c, query)

	var content []models.Content
	err := query.
		Order("published_at DESC NULLS LAST").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&content).Error
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to get public content", err)
	}

	return c.JSON(utils.SuccessResponse(content))
}

// GetContentBySlug returns a single public item. Private content reads as
// absent.
func (cc *ContentController) GetContentBySlug(c *fiber.Ctx) error {
	slug := c.Params("slug")
	if slug == "" {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Slug is required", nil)
	}

	var content models.Content
	err := cc.DB.Where("slug = ? AND is_public = ?", slug, true).First(&content).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Content not found", nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to get content by slug", err)
	}

	return c.JSON(utils.SuccessResponse(content))
}

// GetTeamContent lists all of the team's content regardless of
// visibility, for management views. Creator-or-above.
func (cc *ContentController) GetTeamContent(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	teamID := c.Params("id")

	if _, err := utils.RequireCreatorOrAbove(cc.DB, user.ID, teamID); err != nil {
		return guardError(c, err)
	}

	limit, offset := utils.ParseLimitOffset(c)

	query := cc.DB.Model(&models.Content{}).Where("team_id = ?", teamID)
	query = contentFilters(c, query)
	if isPublic := utils.QueryBoolPtr(c, "is_public"); isPublic != nil {
		query = query.Where("is_public = ?", *isPublic)
	}

	var content []models.Content
	err := query.
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&content).Error
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to get team content", err)
	}

	return c.JSON(utils.SuccessResponse(content))
}

// GetTeamContentByID returns one item only if it matches id, team and
// author at once. Existence and ownership are conflated into one 404 so
// non-owners learn nothing.
func (cc *ContentController) GetTeamContentByID(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	teamID := c.Params("id")
	contentID := c.Params("contentId")

	if _, err := utils.RequireCreatorOrAbove(cc.DB, user.ID, teamID); err != nil {
		return guardError(c, err)
	}

	var content models.Content
	err := cc.DB.Where("id = ? AND team_id = ? AND user_id = ?", contentID, teamID, user.ID).
		First(&content).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return utils.ErrorResponse(c, fiber.StatusNotFound,
				"Content not found or you are not authorized to view it", nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to get content", err)
	}

	return c.JSON(utils.SuccessResponse(content))
}

// CreateContent inserts a new item for the team. Creator-or-above; slug
// uniqueness is enforced by the store.
func (cc *ContentController) CreateContent(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	teamID := c.Params("id")

	if _, err := utils.RequireCreatorOrAbove(cc.DB, user.ID, teamID); err != nil {
		return guardError(c, err)
	}

	var input ContentInput
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}
	input.normalize()

	content := models.Content{
		TeamID:       teamID,
		UserID:       user.ID,
		Title:        input.Title,
		Body:         input.Content,
		Type:         input.Type,
		Slug:         input.Slug,
		Image:        input.Image,
		Tags:         input.Tags,
		Difficulty:   input.Difficulty,
		PrepTime:     input.PrepTime,
		CookTime:     input.CookTime,
		Servings:     input.Servings,
		Ingredients:  input.Ingredients,
		Instructions: input.Instructions,
		IsPublic:     input.IsPublic,
		IsFeatured:   input.IsFeatured,
	}
	if content.IsPublic {
		now := time.Now()
		content.PublishedAt = &now
	}

	if err := cc.DB.Create(&content).Error; err != nil {
		if utils.IsUniqueConstraintError(err) {
			return utils.ErrorResponse(c, fiber.StatusConflict, utils.UniqueConstraintMessage(err), nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create content", err)
	}

	cc.Logger.WithFields(logrus.Fields{
		"content_id": content.ID,
		"team_id":    teamID,
		"type":       content.Type,
		"slug":       content.Slug,
	}).Info("content created")

	return c.Status(fiber.StatusCreated).JSON(utils.SuccessResponse(content))
}

// UpdateContent patches an item matched by id+team+author. Zero matched
// rows reads as forbidden: the caller is already team-authorized, so a
// miss means "not yours".
func (cc *ContentController) UpdateContent(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	teamID := c.Params("id")
	contentID := c.Params("contentId")

	if _, err := utils.RequireCreatorOrAbove(cc.DB, user.ID, teamID); err != nil {
		return guardError(c, err)
	}

	var req UpdateContentRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	patch := map[string]interface{}{}
	if req.Title != nil {
		patch["title"] = *req.Title
	}
	if req.Content != nil {
		patch["body"] = *req.Content
	}
	if req.Slug != nil {
		patch["slug"] = *req.Slug
	}
	if req.Image != nil {
		patch["image"] = *req.Image
	}
	if req.Tags != nil {
		patch["tags"] = models.StringList(req.Tags)
	}
	if req.Difficulty != nil {
		patch["difficulty"] = *req.Difficulty
	}
	if req.PrepTime != nil {
		patch["prep_time"] = *req.PrepTime
	}
	if req.CookTime != nil {
		patch["cook_time"] = *req.CookTime
	}
	if req.Servings != nil {
		patch["servings"] = *req.Servings
	}
	if req.Ingredients != nil {
		patch["ingredients"] = models.IngredientList(req.Ingredients)
	}
	if req.Instructions != nil {
		patch["instructions"] = models.InstructionList(req.Instructions)
	}
	if req.IsFeatured != nil {
		patch["is_featured"] = *req.IsFeatured
	}
	if len(patch) == 0 {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "No fields to update", nil)
	}

	result := cc.DB.Model(&models.Content{}).
		Where("id = ? AND team_id = ? AND user_id = ?", contentID, teamID, user.ID).
		Updates(patch)
	if result.Error != nil {
		if utils.IsUniqueConstraintError(result.Error) {
			return utils.ErrorResponse(c, fiber.StatusConflict, utils.UniqueConstraintMessage(result.Error), nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update content", result.Error)
	}
	if result.RowsAffected == 0 {
		return utils.ErrorResponse(c, fiber.StatusForbidden,
			"You are not authorized to update this content or it does not exist", nil)
	}

	var content models.Content
	if err := cc.DB.Where("id = ?", contentID).First(&content).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to load updated content", err)
	}
	return c.JSON(utils.SuccessResponse(content))
}

// DeleteContent removes an item matched by id+team+author. Author-only.
func (cc *ContentController) DeleteContent(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	teamID := c.Params("id")
	contentID := c.Params("contentId")

	if _, err := utils.RequireCreatorOrAbove(cc.DB, user.ID, teamID); err != nil {
		return guardError(c, err)
	}

	result := cc.DB.Where("id = ? AND team_id = ? AND user_id = ?", contentID, teamID, user.ID).
		Delete(&models.Content{})
	if result.Error != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete content", result.Error)
	}
	if result.RowsAffected == 0 {
		return utils.ErrorResponse(c, fiber.StatusForbidden,
			"You are not authorized to delete this content or it does not exist", nil)
	}

	return c.JSON(utils.SuccessResponse(fiber.Map{"deleted": contentID}))
}

// PublishContent makes an item public and stamps published_at. Matched by
// id+team only: any creator-or-above may publish any team content, not
// just their own.
func (cc *ContentController) PublishContent(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	teamID := c.Params("id")
	contentID := c.Params("contentId")

	if _, err := utils.RequireCreatorOrAbove(cc.DB, user.ID, teamID); err != nil {
		return guardError(c, err)
	}

	result := cc.DB.Model(&models.Content{}).
		Where("id = ? AND team_id = ?", contentID, teamID).
		Updates(map[string]interface{}{
			"is_public":    true,
			"published_at": time.Now(),
		})
	if result.Error != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to publish content", result.Error)
	}
	if result.RowsAffected == 0 {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Content not found", nil)
	}

	var content models.Content
	if err := cc.DB.Where("id = ?", contentID).First(&content).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to load published content", err)
	}
	return c.JSON(utils.SuccessResponse(content))
}
