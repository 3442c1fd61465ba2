package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tiffycooks/config"
	"tiffycooks/models"
)

func setTestKey(t *testing.T, key string) {
	t.Helper()
	prev := config.AppConfig.EncryptionKey
	config.AppConfig.EncryptionKey = key
	t.Cleanup(func() { config.AppConfig.EncryptionKey = prev })
}

func TestGenerateAndParseJWTToken(t *testing.T) {
	setTestKey(t, "test-encryption-key")

	user := &models.User{
		Base:         models.Base{ID: "user-1"},
		Email:        "chef@example.com",
		TokenVersion: 2,
	}

	access, refresh, sessionID, err := GenerateJWTToken(user)
	require.NoError(t, err)
	require.NotEmpty(t, access)
	require.NotEmpty(t, refresh)
	require.NotEmpty(t, sessionID)
	assert.NotEqual(t, access, refresh)

	accessClaims, err := ParseJWTToken(access)
	require.NoError(t, err)
	assert.Equal(t, "user-1", accessClaims.UserID)
	assert.Equal(t, sessionID, accessClaims.SessionID)
	assert.Equal(t, 2, accessClaims.TokenVersion)

	refreshClaims, err := ParseJWTToken(refresh)
	require.NoError(t, err)
	assert.Equal(t, sessionID, refreshClaims.SessionID)
	assert.True(t, refreshClaims.ExpiresAt.After(accessClaims.ExpiresAt.Time))
}

func TestParseJWTTokenRejectsTampered(t *testing.T) {
	setTestKey(t, "test-encryption-key")

	user := &models.User{Base: models.Base{ID: "user-1"}}
	access, _, _, err := GenerateJWTToken(user)
	require.NoError(t, err)

	_, err = ParseJWTToken(access + "x")
	assert.Error(t, err)

	_, err = ParseJWTToken("not-a-token")
	assert.Error(t, err)
}

func TestParseJWTTokenRejectsWrongKey(t *testing.T) {
	setTestKey(t, "key-one")

	user := &models.User{Base: models.Base{ID: "user-1"}}
	access, _, _, err := GenerateJWTToken(user)
	require.NoError(t, err)

	config.AppConfig.EncryptionKey = "key-two"
	_, err = ParseJWTToken(access)
	assert.Error(t, err)
}
