package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("s3cret-password")
	require.NoError(t, err)

	assert.NoError(t, CheckPassword(hash, "s3cret-password"))
	assert.Error(t, CheckPassword(hash, "wrong"))
}

func TestAccessTokenRoundTrip(t *testing.T) {
	token, err := GenerateAccessToken("64b4c7e8f1a2b3c4d5e6f708", "a@b.c", "Ana", "USER", "test-secret", time.Minute)
	require.NoError(t, err)

	claims, err := ValidateToken(token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, "64b4c7e8f1a2b3c4d5e6f708", claims.UserID)
	assert.Equal(t, "a@b.c", claims.Email)
	assert.Equal(t, "Ana", claims.Name)
	assert.Equal(t, "USER", claims.Role)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	token, err := GenerateAccessToken("id", "a@b.c", "Ana", "USER", "secret-one", time.Minute)
	require.NoError(t, err)

	_, err = ValidateToken(token, "secret-two")
	assert.Error(t, err)
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	token, err := GenerateAccessToken("id", "a@b.c", "Ana", "USER", "test-secret", -time.Minute)
	require.NoError(t, err)

	_, err = ValidateToken(token, "test-secret")
	assert.Error(t, err)
}

func TestGenerateOTP(t *testing.T) {
	otp, err := GenerateOTP()
	require.NoError(t, err)
	assert.Len(t, otp, 6)
	for _, r := range otp {
		assert.True(t, r >= '0' && r <= '9')
	}
}
