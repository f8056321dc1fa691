package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"labstock/internal/config"
	"labstock/internal/models"
)

func testJWTManager(secret string) *JWTManager {
	cfg := &config.Config{}
	cfg.JWT.Secret = secret
	cfg.JWT.ExpirationHours = 1
	cfg.JWT.Issuer = "labstock"
	return NewJWTManager(cfg)
}

func testUser() *models.User {
	return &models.User{
		ID:    7,
		Email: "member@labstock.local",
		Role:  "member",
	}
}

func TestGenerateAndValidateToken(t *testing.T) {
	jm := testJWTManager("test-secret")

	token, err := jm.GenerateToken(testUser())
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := jm.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, 7, claims.UserID)
	assert.Equal(t, "member@labstock.local", claims.Email)
	assert.Equal(t, "member", claims.Role)
	assert.Equal(t, "labstock", claims.Issuer)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	token, err := testJWTManager("secret-a").GenerateToken(testUser())
	require.NoError(t, err)

	_, err = testJWTManager("secret-b").ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	jm := testJWTManager("test-secret")

	_, err := jm.ValidateToken("not.a.token")
	assert.Error(t, err)

	_, err = jm.ValidateToken("")
	assert.Error(t, err)
}

func TestTempTokenRoundTrip(t *testing.T) {
	jm := testJWTManager("test-secret")

	temp, err := jm.GenerateTempToken(testUser())
	require.NoError(t, err)

	claims, err := jm.ValidateTempToken(temp)
	require.NoError(t, err)
	assert.Equal(t, 7, claims.UserID)
	assert.Equal(t, "2fa_pending", claims.Type)
}

func TestTempTokenIsNotASessionToken(t *testing.T) {
	jm := testJWTManager("test-secret")

	temp, err := jm.GenerateTempToken(testUser())
	require.NoError(t, err)

	_, err = jm.ValidateToken(temp)
	assert.Error(t, err, "2FA pending token must not authenticate as a full session")
}

func TestSessionTokenIsNotATempToken(t *testing.T) {
	jm := testJWTManager("test-secret")

	token, err := jm.GenerateToken(testUser())
	require.NoError(t, err)

	_, err = jm.ValidateTempToken(token)
	assert.Error(t, err)
}
