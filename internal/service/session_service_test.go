package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	domainErrors "github.com/mohammedadiga/newRoodxServer/internal/domain/errors"
)

const chromeUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

func TestSessionService_CurrentSession(t *testing.T) {
	f := newAuthFixture(t)
	user := f.registerAndActivate(t, personalCandidate())
	sessions := NewSessionService(f.repo, zap.NewNop())

	sessionID := f.repo.users[user.ID].Sessions[0].ID
	public, view, err := sessions.CurrentSession(context.Background(), sessionID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, public.ID)
	assert.Equal(t, sessionID, view.ID)
	assert.True(t, view.IsCurrent)
}

func TestSessionService_ListFlagsCurrent(t *testing.T) {
	f := newAuthFixture(t)
	user := f.registerAndActivate(t, personalCandidate())
	sessions := NewSessionService(f.repo, zap.NewNop())
	ctx := context.Background()

	_, err := f.auth.Login(ctx, "johndoe", "s3cretpass", chromeUA)
	require.NoError(t, err)

	current := f.repo.users[user.ID].Sessions[0].ID
	views, err := sessions.ListSessions(ctx, user.ID, current)
	require.NoError(t, err)
	require.Len(t, views, 2)

	flagged := 0
	for _, v := range views {
		if v.IsCurrent {
			flagged++
			assert.Equal(t, current, v.ID)
		}
	}
	assert.Equal(t, 1, flagged)
}

func TestSessionService_DeviceNameFromUserAgent(t *testing.T) {
	f := newAuthFixture(t)
	user := f.registerAndActivate(t, personalCandidate())
	sessions := NewSessionService(f.repo, zap.NewNop())
	ctx := context.Background()

	_, err := f.auth.Login(ctx, "johndoe", "s3cretpass", chromeUA)
	require.NoError(t, err)

	views, err := sessions.ListSessions(ctx, user.ID, "")
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Contains(t, views[1].Device, "Chrome")
}

func TestSessionService_DeleteIsOwnerScoped(t *testing.T) {
	f := newAuthFixture(t)
	user := f.registerAndActivate(t, personalCandidate())
	sessions := NewSessionService(f.repo, zap.NewNop())
	ctx := context.Background()

	sessionID := f.repo.users[user.ID].Sessions[0].ID

	err := sessions.DeleteSession(ctx, "some-other-user", sessionID)
	assert.ErrorIs(t, err, domainErrors.ErrUserNotFound)
	require.Len(t, f.repo.users[user.ID].Sessions, 1)

	require.NoError(t, sessions.DeleteSession(ctx, user.ID, sessionID))
	assert.Empty(t, f.repo.users[user.ID].Sessions)
}
