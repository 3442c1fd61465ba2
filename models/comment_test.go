package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentBeforeCreateForcesUnapproved(t *testing.T) {
	comment := Comment{
		ContentID:  "content-1",
		UserID:     "user-1",
		Body:       "Looks delicious!",
		IsApproved: true,
	}

	require.NoError(t, comment.BeforeCreate(nil))

	assert.False(t, comment.IsApproved, "new comments must always start unapproved")
	assert.NotEmpty(t, comment.ID)
}

func TestBaseBeforeCreateKeepsPresetID(t *testing.T) {
	b := Base{ID: "preset-id"}
	require.NoError(t, b.BeforeCreate(nil))
	assert.Equal(t, "preset-id", b.ID)

	var fresh Base
	require.NoError(t, fresh.BeforeCreate(nil))
	assert.NotEmpty(t, fresh.ID)
}
