package interfaces

import (
	"context"
	"time"

	"github.com/mohammedadiga/newRoodxServer/internal/domain/models"
)

// UserRepository is the document-store capability the services depend on.
// Every mutation maps to a single atomic update on one user document; that
// atomicity is the only concurrency primitive the flows rely on.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id string) (*models.User, error)

	// FindByIdentifier resolves a user by any of the given identifiers
	// ($or); empty arguments are skipped. Returns errors.ErrUserNotFound
	// when no document matches.
	FindByIdentifier(ctx context.Context, email, phone, username string) (*models.User, error)

	// FindBySessionID resolves the user owning the session. Session ids
	// are globally unique, so no user scoping is needed.
	FindBySessionID(ctx context.Context, sessionID string) (*models.User, error)

	// FindByResetToken resolves the user owning a PASSWORD_RESET
	// verification with the given token ($elemMatch).
	FindByResetToken(ctx context.Context, token string) (*models.User, error)

	PushSession(ctx context.Context, userID string, session models.Session) error

	// PullSession removes a session by id alone (logout path).
	PullSession(ctx context.Context, sessionID string) error

	// PullUserSession removes a session scoped to its owning user
	// (explicit revoke of one device).
	PullUserSession(ctx context.Context, userID, sessionID string) error

	// ExtendSession sets a new expiry on the session (refresh rotation).
	ExtendSession(ctx context.Context, sessionID string, expiredAt time.Time) error

	// ClearSessions removes every session of the user (forced global
	// logout on password reset).
	ClearSessions(ctx context.Context, userID string) error

	// ReplaceVerifications overwrites the verification list wholesale.
	// Bounded-list policy (FIFO cap, purge) is applied on the model before
	// calling this.
	ReplaceVerifications(ctx context.Context, userID string, verifications []models.Verification) error

	UpdatePassword(ctx context.Context, userID, passwordDigest string) error
}

// Cache is the key-value capability used for the activation-code side
// channel and session bookkeeping. Get returns errors.ErrNotFound for a
// missing or expired key.
type Cache interface {
	SetEx(ctx context.Context, key string, ttl time.Duration, value string) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, key string) error
}
