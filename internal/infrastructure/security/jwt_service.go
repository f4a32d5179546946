package security

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mohammedadiga/newRoodxServer/internal/config"
	domainErrors "github.com/mohammedadiga/newRoodxServer/internal/domain/errors"
)

// AccessClaims bind an access token to a user and the session it was
// minted under.
type AccessClaims struct {
	UserID    string `json:"userId"`
	SessionID string `json:"sessionId"`
	jwt.RegisteredClaims
}

// RefreshClaims bind a refresh token to a session only; the owning user is
// resolved through the session at refresh time.
type RefreshClaims struct {
	SessionID string `json:"sessionId"`
	jwt.RegisteredClaims
}

// activationClaims wrap an arbitrary subject payload: the full candidate
// field set for registration, a bare user id for password reset.
type activationClaims struct {
	User json.RawMessage `json:"user"`
	jwt.RegisteredClaims
}

// TokenService signs and verifies the three token families with HS256.
// Each family has its own secret so a leaked refresh token can never pass
// as an access or activation token.
type TokenService struct {
	cfg config.JWTConfig
	now func() time.Time
}

// NewTokenService builds a TokenService from the JWT configuration.
func NewTokenService(cfg config.JWTConfig) *TokenService {
	return &TokenService{cfg: cfg, now: time.Now}
}

// SignAccessToken mints a short-lived access token for the user/session pair.
func (s *TokenService) SignAccessToken(userID, sessionID string) (string, error) {
	claims := AccessClaims{
		UserID:           userID,
		SessionID:        sessionID,
		RegisteredClaims: s.registered(s.cfg.AccessTokenTTL),
	}
	return s.sign(claims, s.cfg.AccessSecret)
}

// SignRefreshToken mints a long-lived refresh token bound to the session.
func (s *TokenService) SignRefreshToken(sessionID string) (string, error) {
	claims := RefreshClaims{
		SessionID:        sessionID,
		RegisteredClaims: s.registered(s.cfg.RefreshTokenTTL),
	}
	return s.sign(claims, s.cfg.RefreshSecret)
}

// SignActivationToken wraps subject in a short-lived signed token. The
// token alone proves the request; the matching 6-digit code proves
// possession of the delivery channel.
func (s *TokenService) SignActivationToken(subject interface{}) (string, error) {
	raw, err := json.Marshal(subject)
	if err != nil {
		return "", fmt.Errorf("failed to marshal activation subject: %w", err)
	}
	claims := activationClaims{
		User:             raw,
		RegisteredClaims: s.registered(s.cfg.ActivationTokenTTL),
	}
	return s.sign(claims, s.cfg.ActivationSecret)
}

// VerifyAccessToken validates signature, expiry and audience.
func (s *TokenService) VerifyAccessToken(tokenString string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	if err := s.parse(tokenString, claims, s.cfg.AccessSecret); err != nil {
		return nil, err
	}
	return claims, nil
}

// VerifyRefreshToken validates signature, expiry and audience.
func (s *TokenService) VerifyRefreshToken(tokenString string) (*RefreshClaims, error) {
	claims := &RefreshClaims{}
	if err := s.parse(tokenString, claims, s.cfg.RefreshSecret); err != nil {
		return nil, err
	}
	return claims, nil
}

// VerifyActivationToken validates the token and returns the embedded
// subject payload for the caller to decode.
func (s *TokenService) VerifyActivationToken(tokenString string) (json.RawMessage, error) {
	claims := &activationClaims{}
	if err := s.parse(tokenString, claims, s.cfg.ActivationSecret); err != nil {
		return nil, err
	}
	return claims.User, nil
}

func (s *TokenService) registered(ttl time.Duration) jwt.RegisteredClaims {
	now := s.now()
	return jwt.RegisteredClaims{
		Audience:  jwt.ClaimStrings{s.cfg.Audience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
}

func (s *TokenService) sign(claims jwt.Claims, secret string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (s *TokenService) parse(tokenString string, claims jwt.Claims, secret string) error {
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	}, jwt.WithAudience(s.cfg.Audience), jwt.WithTimeFunc(s.now))
	if err != nil || !token.Valid {
		// Malformed, expired, wrong audience and bad signature all collapse
		// into the same error so callers cannot be used as an oracle.
		return domainErrors.ErrInvalidToken
	}
	return nil
}
