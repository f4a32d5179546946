package service

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	domainErrors "github.com/mohammedadiga/newRoodxServer/internal/domain/errors"
	"github.com/mohammedadiga/newRoodxServer/internal/infrastructure/security"
	"github.com/mohammedadiga/newRoodxServer/internal/repository/interfaces"
)

// Purpose discriminates what a verification token proves.
type Purpose string

const (
	// PurposeActivation gates account creation; the code digest lives in
	// the cache under the candidate username until the token expires.
	PurposeActivation Purpose = "activation"

	// PurposeForgotPassword gates a password reset; the code digest is
	// persisted on the user's verification list instead, since no cache
	// key exists before the owner is identified.
	PurposeForgotPassword Purpose = "forgotPassword"
)

const activationKeyPrefix = "activation:"

// IssuedVerification is the result of issuing a verification: the plaintext
// code travels out of band, the digest is what gets stored, the token is
// returned to the client as proof of request.
type IssuedVerification struct {
	Code       string
	CodeDigest string
	Token      string
}

// VerificationService implements the two-part proof protocol: a signed
// token proves the request, a short out-of-band code proves possession of
// the delivery channel. A leaked token alone is never sufficient.
type VerificationService struct {
	tokens        *security.TokenService
	cache         interfaces.Cache
	activationTTL int // seconds, matches the activation token's validity
	logger        *zap.Logger
}

// NewVerificationService wires the verification protocol.
func NewVerificationService(tokens *security.TokenService, cache interfaces.Cache, activationTTLSeconds int, logger *zap.Logger) *VerificationService {
	return &VerificationService{
		tokens:        tokens,
		cache:         cache,
		activationTTL: activationTTLSeconds,
		logger:        logger,
	}
}

// Issue generates a 6-digit code, digests it, and wraps subject in a signed
// short-lived token. For the activation purpose the digest is also placed
// in the cache keyed by cacheKey (the candidate username), with a TTL equal
// to the token's own validity window.
func (s *VerificationService) Issue(ctx context.Context, subject interface{}, purpose Purpose, cacheKey string) (*IssuedVerification, error) {
	code, err := security.GenerateCode()
	if err != nil {
		return nil, err
	}

	digest, err := security.HashValue(code)
	if err != nil {
		return nil, err
	}

	if purpose == PurposeActivation {
		key := activationKeyPrefix + cacheKey
		ttl := time.Duration(s.activationTTL) * time.Second
		if err := s.cache.SetEx(ctx, key, ttl, digest); err != nil {
			s.logger.Error("Failed to store activation code", zap.Error(err))
			return nil, err
		}
	}

	token, err := s.tokens.SignActivationToken(subject)
	if err != nil {
		return nil, err
	}

	return &IssuedVerification{Code: code, CodeDigest: digest, Token: token}, nil
}

// Verify checks the token signature and the supplied code. The comparison
// digest comes from the cache for activation (and is deleted on success so
// the code is single-use) or from storedDigest for password reset. Every
// failure collapses into ErrInvalidToken so callers cannot distinguish a
// bad token from a bad code.
func (s *VerificationService) Verify(ctx context.Context, token, code string, purpose Purpose, storedDigest string) (json.RawMessage, error) {
	subject, err := s.tokens.VerifyActivationToken(token)
	if err != nil {
		return nil, domainErrors.ErrInvalidToken
	}

	var digest string
	switch purpose {
	case PurposeActivation:
		var candidate struct {
			Username string `json:"username"`
		}
		if err := json.Unmarshal(subject, &candidate); err != nil || candidate.Username == "" {
			return nil, domainErrors.ErrInvalidToken
		}
		key := activationKeyPrefix + candidate.Username
		digest, err = s.cache.Get(ctx, key)
		if err != nil {
			// Expired cache entry means the activation window has closed.
			return nil, domainErrors.ErrInvalidToken
		}
		if !security.CompareValue(code, digest) {
			return nil, domainErrors.ErrInvalidToken
		}
		// Consume: the same token+code pair must not activate twice.
		if err := s.cache.Del(ctx, key); err != nil {
			s.logger.Warn("Failed to delete consumed activation code", zap.Error(err))
		}
		return subject, nil

	case PurposeForgotPassword:
		if storedDigest == "" {
			return nil, domainErrors.ErrInvalidToken
		}
		digest = storedDigest
		if !security.CompareValue(code, digest) {
			return nil, domainErrors.ErrInvalidToken
		}
		return subject, nil

	default:
		return nil, domainErrors.ErrInvalidToken
	}
}
