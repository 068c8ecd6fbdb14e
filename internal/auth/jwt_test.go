package auth_test

import (
	"testing"

	"wanderlog/config"
	"wanderlog/internal/auth"
	"wanderlog/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	config.GlobalConfig = &config.Config{
		JWT: config.JWTConfig{
			Secret:        "unit-test-secret",
			AccessExpire:  60,
			RefreshExpire: 3600,
		},
	}
}

func TestTokenRoundTripCarriesRole(t *testing.T) {
	access, refresh, err := auth.GenerateTokens(42, model.RoleAuditor, "phone")
	require.NoError(t, err)
	require.NotEmpty(t, access)
	require.NotEmpty(t, refresh)

	claims, err := auth.ParseToken(access)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), claims.UserID)
	assert.Equal(t, "auditor", claims.Role)
	assert.Equal(t, "phone", claims.Device)

	p := auth.FromClaims(claims)
	assert.Equal(t, uint64(42), p.ID)
	assert.Equal(t, model.RoleAuditor, p.Role)
	assert.True(t, p.Role.CanReview())
	assert.False(t, p.Role.CanAdminister())
}

func TestFromClaimsNormalizesUnknownRole(t *testing.T) {
	p := auth.FromClaims(&auth.Claims{UserID: 7, Role: "superuser"})
	assert.Equal(t, model.RoleUser, p.Role)
}

func TestParseTokenRejectsTampered(t *testing.T) {
	access, _, err := auth.GenerateTokens(1, model.RoleUser, "web")
	require.NoError(t, err)

	_, err = auth.ParseToken(access + "x")
	assert.Error(t, err)
}
