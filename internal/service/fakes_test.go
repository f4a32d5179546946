package service

import (
	"context"
	"sync"
	"time"

	"github.com/mohammedadiga/newRoodxServer/internal/config"
	domainErrors "github.com/mohammedadiga/newRoodxServer/internal/domain/errors"
	"github.com/mohammedadiga/newRoodxServer/internal/domain/models"
	"github.com/mohammedadiga/newRoodxServer/internal/infrastructure/security"
)

// memoryUserRepo is an in-memory UserRepository for service tests.
type memoryUserRepo struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func newMemoryUserRepo() *memoryUserRepo {
	return &memoryUserRepo{users: make(map[string]*models.User)}
}

func (r *memoryUserRepo) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == user.Username {
			return domainErrors.ErrUsernameExists
		}
	}
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *memoryUserRepo) FindByID(_ context.Context, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domainErrors.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *memoryUserRepo) FindByIdentifier(_ context.Context, email, phone, username string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if (email != "" && u.Email == email) ||
			(phone != "" && u.Phone == phone) ||
			(username != "" && u.Username == username) {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domainErrors.ErrUserNotFound
}

func (r *memoryUserRepo) FindBySessionID(_ context.Context, sessionID string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		for _, s := range u.Sessions {
			if s.ID == sessionID {
				clone := *u
				return &clone, nil
			}
		}
	}
	return nil, domainErrors.ErrSessionNotFound
}

func (r *memoryUserRepo) FindByResetToken(_ context.Context, token string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		for _, v := range u.Verifications {
			if v.Type == models.VerificationPasswordReset && v.Token == token {
				clone := *u
				return &clone, nil
			}
		}
	}
	return nil, domainErrors.ErrUserNotFound
}

func (r *memoryUserRepo) PushSession(_ context.Context, userID string, session models.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return domainErrors.ErrUserNotFound
	}
	u.Sessions = append(u.Sessions, session)
	return nil
}

func (r *memoryUserRepo) PullSession(_ context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		for i, s := range u.Sessions {
			if s.ID == sessionID {
				u.Sessions = append(u.Sessions[:i], u.Sessions[i+1:]...)
				return nil
			}
		}
	}
	return domainErrors.ErrSessionNotFound
}

func (r *memoryUserRepo) PullUserSession(_ context.Context, userID, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return domainErrors.ErrUserNotFound
	}
	for i, s := range u.Sessions {
		if s.ID == sessionID {
			u.Sessions = append(u.Sessions[:i], u.Sessions[i+1:]...)
			return nil
		}
	}
	return domainErrors.ErrSessionNotFound
}

func (r *memoryUserRepo) ExtendSession(_ context.Context, sessionID string, expiredAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		for i := range u.Sessions {
			if u.Sessions[i].ID == sessionID {
				u.Sessions[i].ExpiredAt = expiredAt
				return nil
			}
		}
	}
	return domainErrors.ErrSessionNotFound
}

func (r *memoryUserRepo) ClearSessions(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return domainErrors.ErrUserNotFound
	}
	u.Sessions = nil
	return nil
}

func (r *memoryUserRepo) ReplaceVerifications(_ context.Context, userID string, verifications []models.Verification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return domainErrors.ErrUserNotFound
	}
	u.Verifications = append([]models.Verification(nil), verifications...)
	return nil
}

func (r *memoryUserRepo) UpdatePassword(_ context.Context, userID, passwordDigest string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return domainErrors.ErrUserNotFound
	}
	u.Password = passwordDigest
	return nil
}

// memoryCache is an in-memory Cache for service tests. TTLs are recorded
// but only honored when expire() is called explicitly.
type memoryCache struct {
	mu     sync.Mutex
	values map[string]string
}

func newMemoryCache() *memoryCache {
	return &memoryCache{values: make(map[string]string)}
}

func (c *memoryCache) SetEx(_ context.Context, key string, _ time.Duration, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key] = value
	return nil
}

func (c *memoryCache) Get(_ context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.values[key]
	if !ok {
		return "", domainErrors.ErrNotFound
	}
	return v, nil
}

func (c *memoryCache) Del(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.values, key)
	return nil
}

// recordingPublisher remembers every published event type.
type recordingPublisher struct {
	mu    sync.Mutex
	types []string
}

func (p *recordingPublisher) Publish(_ context.Context, eventType, _ string, _ interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.types = append(p.types, eventType)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		AccessSecret:       "test-access-secret",
		RefreshSecret:      "test-refresh-secret",
		ActivationSecret:   "test-activation-secret",
		Audience:           "user",
		AccessTokenTTL:     15 * time.Minute,
		RefreshTokenTTL:    720 * time.Hour,
		ActivationTokenTTL: 5 * time.Minute,
	}
}

func testTokenService() *security.TokenService {
	return security.NewTokenService(testJWTConfig())
}
