package models

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetRecord(token string, createdAt time.Time) Verification {
	return Verification{
		Token:     token,
		Code:      "digest-" + token,
		Type:      VerificationPasswordReset,
		CreatedAt: createdAt,
		ExpiredAt: createdAt.Add(time.Hour),
	}
}

func TestAppendVerification_FIFOEviction(t *testing.T) {
	u := &User{}
	now := time.Now()

	for i := 0; i < 8; i++ {
		u.AppendVerification(resetRecord(fmt.Sprintf("t%d", i), now), MaxStoredVerifications)
	}

	require.Len(t, u.Verifications, MaxStoredVerifications)
	assert.Equal(t, "t3", u.Verifications[0].Token, "oldest entries are evicted first")
	assert.Equal(t, "t7", u.Verifications[4].Token)
}

func TestPurgeExpiredVerifications(t *testing.T) {
	now := time.Now()
	u := &User{Verifications: []Verification{
		resetRecord("live", now),
		resetRecord("dead", now.Add(-2*time.Hour)),
	}}

	u.PurgeExpiredVerifications(now)

	require.Len(t, u.Verifications, 1)
	assert.Equal(t, "live", u.Verifications[0].Token)
}

func TestCountRecentVerifications(t *testing.T) {
	now := time.Now()
	u := &User{Verifications: []Verification{
		resetRecord("a", now.Add(-time.Minute)),
		resetRecord("b", now.Add(-2*time.Minute)),
		resetRecord("c", now.Add(-10*time.Minute)),
		{Token: "d", Type: VerificationPasswordVerified, CreatedAt: now, ExpiredAt: now.Add(time.Hour)},
	}}

	got := u.CountRecentVerifications(VerificationPasswordReset, now.Add(-ResetAttemptWindow))
	assert.Equal(t, 2, got, "only PASSWORD_RESET entries inside the window count")
}

func TestStripVerifications(t *testing.T) {
	now := time.Now()
	u := &User{Verifications: []Verification{
		resetRecord("a", now),
		{Token: "b", Type: VerificationPasswordVerified, CreatedAt: now, ExpiredAt: now.Add(time.Hour)},
		resetRecord("c", now),
	}}

	u.StripVerifications(VerificationPasswordReset)
	require.Len(t, u.Verifications, 1)
	assert.Equal(t, "b", u.Verifications[0].Token)

	u.StripVerifications(VerificationPasswordReset, VerificationPasswordVerified)
	assert.Empty(t, u.Verifications)
}

func TestFindLiveVerification(t *testing.T) {
	now := time.Now()
	u := &User{Verifications: []Verification{
		{Token: "expired", Type: VerificationPasswordVerified, CreatedAt: now.Add(-2 * time.Hour), ExpiredAt: now.Add(-time.Hour)},
		{Token: "live", Type: VerificationPasswordVerified, CreatedAt: now, ExpiredAt: now.Add(time.Hour)},
	}}

	assert.Nil(t, u.FindLiveVerification("expired", VerificationPasswordVerified, now))
	assert.Nil(t, u.FindLiveVerification("live", VerificationPasswordReset, now))
	assert.NotNil(t, u.FindLiveVerification("live", VerificationPasswordVerified, now))
}
