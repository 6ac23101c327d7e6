package utils

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndExtract(t *testing.T) {
	service := NewJWTService("test-secret")
	userID := uuid.New().String()

	token, err := service.GenerateToken(userID)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	extracted, err := service.ExtractUserID(token)
	require.NoError(t, err)
	assert.Equal(t, userID, extracted)
}

func TestExtractWithWrongSecret(t *testing.T) {
	token, err := NewJWTService("secret-one").GenerateToken(uuid.New().String())
	require.NoError(t, err)

	_, err = NewJWTService("secret-two").ExtractUserID(token)
	assert.Error(t, err)
}

func TestExtractGarbageToken(t *testing.T) {
	_, err := NewJWTService("test-secret").ExtractUserID("not-a-token")
	assert.Error(t, err)
}
