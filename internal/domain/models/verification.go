package models

import "time"

// VerificationType discriminates the purpose of a verification record.
type VerificationType string

const (
	// VerificationPasswordReset is a pending forgot-password proof: token
	// references the signed reset JWT, code holds the bcrypt digest of the
	// 6-digit code.
	VerificationPasswordReset VerificationType = "PASSWORD_RESET"

	// VerificationPasswordVerified is the single-use upgrade record created
	// once a reset code was consumed; its token authorizes one password
	// change within the hour.
	VerificationPasswordVerified VerificationType = "PASSWORD_VERIFIED"
)

// Verification is a short-lived proof record embedded in a User.
type Verification struct {
	Token     string           `bson:"token" json:"token"`
	Code      string           `bson:"code" json:"-"`
	Type      VerificationType `bson:"type" json:"type"`
	ExpiredAt time.Time        `bson:"expiredAt" json:"expiredAt"`
	CreatedAt time.Time        `bson:"createdAt" json:"createdAt"`
}

// PurgeExpiredVerifications drops every verification whose expiry is at or
// before now.
func (u *User) PurgeExpiredVerifications(now time.Time) {
	kept := u.Verifications[:0]
	for _, v := range u.Verifications {
		if v.ExpiredAt.After(now) {
			kept = append(kept, v)
		}
	}
	u.Verifications = kept
}

// CountRecentVerifications counts records of the given type created after
// since. Used for the trailing-window rate limit on password resets.
func (u *User) CountRecentVerifications(t VerificationType, since time.Time) int {
	n := 0
	for _, v := range u.Verifications {
		if v.Type == t && v.CreatedAt.After(since) {
			n++
		}
	}
	return n
}

// AppendVerification appends v and evicts the oldest entries until the list
// holds at most max records (FIFO).
func (u *User) AppendVerification(v Verification, max int) {
	u.Verifications = append(u.Verifications, v)
	for len(u.Verifications) > max {
		u.Verifications = u.Verifications[1:]
	}
}

// StripVerifications removes every record whose type is in types.
func (u *User) StripVerifications(types ...VerificationType) {
	drop := make(map[VerificationType]struct{}, len(types))
	for _, t := range types {
		drop[t] = struct{}{}
	}
	kept := u.Verifications[:0]
	for _, v := range u.Verifications {
		if _, ok := drop[v.Type]; !ok {
			kept = append(kept, v)
		}
	}
	u.Verifications = kept
}

// FindVerification returns the first record matching token, or nil.
func (u *User) FindVerification(token string) *Verification {
	for i := range u.Verifications {
		if u.Verifications[i].Token == token {
			return &u.Verifications[i]
		}
	}
	return nil
}

// FindLiveVerification returns the first non-expired record matching token
// and type, or nil.
func (u *User) FindLiveVerification(token string, t VerificationType, now time.Time) *Verification {
	for i := range u.Verifications {
		v := &u.Verifications[i]
		if v.Token == token && v.Type == t && v.ExpiredAt.After(now) {
			return v
		}
	}
	return nil
}
