package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// Content types. The type tag decides which optional fields are meaningful.
const (
	ContentTypePost   = "post"
	ContentTypeRecipe = "recipe"
	ContentTypeLesson = "lesson"
)

// Content is a published or draft item of type post, recipe or lesson.
// Recipes and lessons carry the optional schema.org-style fields; plain
// posts leave them empty.
type Content struct {
	Base
	TeamID string `gorm:"not null;index" json:"team_id"`
	UserID string `gorm:"not null;index" json:"user_id"`

	Title string `gorm:"not null" json:"title"`
	Body  string `gorm:"not null" json:"content"`
	Type  string `gorm:"not null;default:'post'" json:"type"` // post, recipe, lesson
	Slug  string `gorm:"uniqueIndex;not null" json:"slug"`
	Image string `json:"image"`

	Tags         StringList      `gorm:"type:jsonb" json:"tags"`
	Difficulty   string          `json:"difficulty"` // beginner, intermediate, advanced
	PrepTime     int             `json:"prep_time"`  // minutes
	CookTime     int             `json:"cook_time"`  // minutes
	Servings     int             `json:"servings"`
	Ingredients  IngredientList  `gorm:"type:jsonb" json:"ingredients"`
	Instructions InstructionList `gorm:"type:jsonb" json:"instructions"`

	IsPublic    bool       `gorm:"not null;default:false" json:"is_public"`
	IsFeatured  bool       `gorm:"not null;default:false" json:"is_featured"`
	PublishedAt *time.Time `json:"published_at"`

	// Relations
	Team Team `json:"-"`
	User User `json:"-"`
}

// Ingredient is one recipe ingredient line
type Ingredient struct {
	Name   string `json:"name" validate:"required"`
	Amount string `json:"amount" validate:"required"`
	Unit   string `json:"unit,omitempty"`
}

// Instruction is one numbered recipe step
type Instruction struct {
	Step int    `json:"step" validate:"required,gt=0"`
	Text string `json:"text" validate:"required"`
}

// StringList stores a JSON array of strings in a single column
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	return json.Marshal(l)
}

func (l *StringList) Scan(value interface{}) error {
	return scanJSON(value, l)
}

// IngredientList stores recipe ingredients as a JSON column
type IngredientList []Ingredient

func (l IngredientList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	return json.Marshal(l)
}

func (l *IngredientList) Scan(value interface{}) error {
	return scanJSON(value, l)
}

// InstructionList stores recipe steps as a JSON column
type InstructionList []Instruction

func (l InstructionList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	return json.Marshal(l)
}

func (l *InstructionList) Scan(value interface{}) error {
	return scanJSON(value, l)
}

func scanJSON(value interface{}, dest interface{}) error {
	if value == nil {
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, dest)
	case string:
		return json.Unmarshal([]byte(v), dest)
	default:
		return errors.New("unsupported type for JSON column")
	}
}
