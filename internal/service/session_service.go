package service

import (
	"context"
	"strings"
	"time"

	"github.com/mssola/user_agent"
	"go.uber.org/zap"

	domainErrors "github.com/mohammedadiga/newRoodxServer/internal/domain/errors"
	"github.com/mohammedadiga/newRoodxServer/internal/domain/models"
	"github.com/mohammedadiga/newRoodxServer/internal/repository/interfaces"
)

// SessionService exposes the per-device session list to its owner.
type SessionService struct {
	users  interfaces.UserRepository
	logger *zap.Logger
}

// NewSessionService wires the session read/revoke surface.
func NewSessionService(users interfaces.UserRepository, logger *zap.Logger) *SessionService {
	return &SessionService{users: users, logger: logger}
}

// SessionView is the wire shape of a session: the raw user agent plus a
// parsed human-readable device name, with the caller's own session flagged.
type SessionView struct {
	ID        string    `json:"id"`
	UserAgent string    `json:"userAgent,omitempty"`
	Device    string    `json:"device,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiredAt time.Time `json:"expiredAt"`
	IsCurrent bool      `json:"isCurrent,omitempty"`
}

// CurrentSession resolves the caller's session and its owning user.
func (s *SessionService) CurrentSession(ctx context.Context, sessionID string) (*models.PublicUser, *SessionView, error) {
	user, err := s.users.FindBySessionID(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}

	for _, sess := range user.Sessions {
		if sess.ID == sessionID {
			view := newSessionView(sess, sessionID)
			public := user.Public()
			return &public, &view, nil
		}
	}
	return nil, nil, domainErrors.ErrSessionNotFound
}

// ListSessions returns every session of the user, newest last, with the
// current one flagged.
func (s *SessionService) ListSessions(ctx context.Context, userID, currentSessionID string) ([]SessionView, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	views := make([]SessionView, 0, len(user.Sessions))
	for _, sess := range user.Sessions {
		views = append(views, newSessionView(sess, currentSessionID))
	}
	return views, nil
}

// DeleteSession revokes one session, scoped to the authenticated owner so
// nobody can revoke somebody else's device by guessing an id.
func (s *SessionService) DeleteSession(ctx context.Context, userID, sessionID string) error {
	return s.users.PullUserSession(ctx, userID, sessionID)
}

func newSessionView(sess models.Session, currentSessionID string) SessionView {
	return SessionView{
		ID:        sess.ID,
		UserAgent: sess.UserAgent,
		Device:    deviceName(sess.UserAgent),
		CreatedAt: sess.CreatedAt,
		ExpiredAt: sess.ExpiredAt,
		IsCurrent: sess.ID == currentSessionID,
	}
}

// deviceName turns a raw user-agent string into "Browser on OS".
func deviceName(rawUA string) string {
	if rawUA == "" {
		return ""
	}
	ua := user_agent.New(rawUA)
	name, _ := ua.Browser()
	os := ua.OS()

	switch {
	case name != "" && os != "":
		return name + " on " + os
	case name != "":
		return name
	case os != "":
		return os
	default:
		return strings.SplitN(rawUA, " ", 2)[0]
	}
}
