package security

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mohammedadiga/newRoodxServer/internal/config"
	domainErrors "github.com/mohammedadiga/newRoodxServer/internal/domain/errors"
)

func testConfig() config.JWTConfig {
	return config.JWTConfig{
		AccessSecret:       "access-secret",
		RefreshSecret:      "refresh-secret",
		ActivationSecret:   "activation-secret",
		Audience:           "user",
		AccessTokenTTL:     15 * time.Minute,
		RefreshTokenTTL:    720 * time.Hour,
		ActivationTokenTTL: 5 * time.Minute,
	}
}

func TestAccessToken_RoundTrip(t *testing.T) {
	svc := NewTokenService(testConfig())

	token, err := svc.SignAccessToken("user-1", "session-1")
	require.NoError(t, err)

	claims, err := svc.VerifyAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "session-1", claims.SessionID)
}

func TestRefreshToken_RoundTrip(t *testing.T) {
	svc := NewTokenService(testConfig())

	token, err := svc.SignRefreshToken("session-1")
	require.NoError(t, err)

	claims, err := svc.VerifyRefreshToken(token)
	require.NoError(t, err)
	assert.Equal(t, "session-1", claims.SessionID)
}

func TestActivationToken_WrapsArbitrarySubject(t *testing.T) {
	svc := NewTokenService(testConfig())

	type candidate struct {
		Username string `json:"username"`
		Email    string `json:"email"`
	}
	token, err := svc.SignActivationToken(candidate{Username: "johndoe", Email: "john@example.com"})
	require.NoError(t, err)

	raw, err := svc.VerifyActivationToken(token)
	require.NoError(t, err)

	var got candidate
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, "johndoe", got.Username)
	assert.Equal(t, "john@example.com", got.Email)
}

func TestTokenFamilies_DoNotCrossValidate(t *testing.T) {
	svc := NewTokenService(testConfig())

	access, err := svc.SignAccessToken("user-1", "session-1")
	require.NoError(t, err)
	refresh, err := svc.SignRefreshToken("session-1")
	require.NoError(t, err)

	_, err = svc.VerifyAccessToken(refresh)
	assert.ErrorIs(t, err, domainErrors.ErrInvalidToken)
	_, err = svc.VerifyRefreshToken(access)
	assert.ErrorIs(t, err, domainErrors.ErrInvalidToken)
	_, err = svc.VerifyActivationToken(access)
	assert.ErrorIs(t, err, domainErrors.ErrInvalidToken)
}

func TestExpiredTokenFails(t *testing.T) {
	svc := NewTokenService(testConfig())
	past := time.Now().Add(-time.Hour)
	svc.now = func() time.Time { return past }

	token, err := svc.SignAccessToken("user-1", "session-1")
	require.NoError(t, err)

	svc.now = time.Now
	_, err = svc.VerifyAccessToken(token)
	assert.ErrorIs(t, err, domainErrors.ErrInvalidToken)
}

func TestWrongAudienceFails(t *testing.T) {
	signer := NewTokenService(testConfig())
	token, err := signer.SignAccessToken("user-1", "session-1")
	require.NoError(t, err)

	cfg := testConfig()
	cfg.Audience = "service"
	verifier := NewTokenService(cfg)

	_, err = verifier.VerifyAccessToken(token)
	assert.ErrorIs(t, err, domainErrors.ErrInvalidToken)
}

func TestGarbageTokenFails(t *testing.T) {
	svc := NewTokenService(testConfig())

	for _, token := range []string{"", "garbage", "a.b.c"} {
		_, err := svc.VerifyAccessToken(token)
		assert.ErrorIs(t, err, domainErrors.ErrInvalidToken, "token %q", token)
	}
}
