package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Account types. Personal accounts require firstname/lastname/birthday,
// company accounts require companyname/date.
const (
	AccountTypePersonal = "personal"
	AccountTypeCompany  = "company"
)

const (
	DefaultRole = "user"

	// SessionTTL is the lifetime of a device session.
	SessionTTL = 30 * 24 * time.Hour

	// MaxStoredVerifications caps the verification list per user; the
	// oldest entry is evicted when the cap is exceeded.
	MaxStoredVerifications = 5

	// MaxResetAttempts limits PASSWORD_RESET issuance inside ResetAttemptWindow.
	MaxResetAttempts   = 3
	ResetAttemptWindow = 3 * time.Minute
)

// Preferences holds per-user toggles.
type Preferences struct {
	Enable2FA         bool   `bson:"enable2FA" json:"enable2FA"`
	EmailNotification bool   `bson:"emailNotification" json:"emailNotification"`
	TwoFactorSecret   string `bson:"twoFactorSecret,omitempty" json:"-"`
}

// User is the persisted identity document. Sessions and verifications are
// embedded sub-documents owned exclusively by the user.
type User struct {
	ID            string         `bson:"_id" json:"id"`
	AccountType   string         `bson:"accountType" json:"accountType"`
	Firstname     string         `bson:"firstname,omitempty" json:"firstname,omitempty"`
	Lastname      string         `bson:"lastname,omitempty" json:"lastname,omitempty"`
	Companyname   string         `bson:"companyname,omitempty" json:"companyname,omitempty"`
	Username      string         `bson:"username" json:"username"`
	Email         string         `bson:"email,omitempty" json:"email,omitempty"`
	Phone         string         `bson:"phone,omitempty" json:"phone,omitempty"`
	Password      string         `bson:"password" json:"-"`
	Avatar        string         `bson:"avatar,omitempty" json:"avatar,omitempty"`
	Cover         string         `bson:"cover,omitempty" json:"cover,omitempty"`
	Role          string         `bson:"role" json:"role"`
	Birthday      *time.Time     `bson:"birthday,omitempty" json:"birthday,omitempty"`
	Date          *time.Time     `bson:"date,omitempty" json:"date,omitempty"`
	Preferences   Preferences    `bson:"userPreferences" json:"userPreferences"`
	Sessions      []Session      `bson:"session" json:"-"`
	Verifications []Verification `bson:"verifications" json:"-"`
	CreatedAt     time.Time      `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time      `bson:"updatedAt" json:"updatedAt"`
}

// Session is a per-device login record embedded in a User. Session ids are
// uuid v4: globally unique, so refresh and session lookups may resolve a
// session by id alone without the owning user id.
type Session struct {
	ID        string    `bson:"_id" json:"id"`
	UserAgent string    `bson:"userAgent,omitempty" json:"userAgent,omitempty"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	ExpiredAt time.Time `bson:"expiredAt" json:"expiredAt"`
}

// NewSession builds a session with a fresh id and a full 30-day term.
func NewSession(userAgent string) Session {
	now := time.Now()
	return Session{
		ID:        uuid.NewString(),
		UserAgent: userAgent,
		CreatedAt: now,
		ExpiredAt: now.Add(SessionTTL),
	}
}

// RequiresRefresh reports whether the session is inside the sliding refresh
// window (one day or less of its term remaining).
func (s Session) RequiresRefresh(now time.Time) bool {
	return s.ExpiredAt.Sub(now) <= 24*time.Hour
}

// NormalizeEmail lowercases the email before any read or write so the
// unique index never sees two casings of the same address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// PlaceholderEmail and PlaceholderPhone fill the missing contact channel at
// activation time so the sparse unique indexes stay satisfiable.
func PlaceholderEmail(username string) string { return username + "_email_not_found" }
func PlaceholderPhone(username string) string { return username + "_phone_not_found" }

// HasRealEmail reports whether the stored email is an actual address rather
// than the activation placeholder.
func (u *User) HasRealEmail() bool {
	return u.Email != "" && u.Email != PlaceholderEmail(u.Username)
}

// HasRealPhone reports whether the stored phone is an actual number.
func (u *User) HasRealPhone() bool {
	return u.Phone != "" && u.Phone != PlaceholderPhone(u.Username)
}

// PublicUser is the wire shape of a user: credentials, secrets, sessions,
// verifications and contact placeholders are stripped.
type PublicUser struct {
	ID          string      `json:"id"`
	AccountType string      `json:"accountType"`
	Firstname   string      `json:"firstname,omitempty"`
	Lastname    string      `json:"lastname,omitempty"`
	Companyname string      `json:"companyname,omitempty"`
	Username    string      `json:"username"`
	Email       string      `json:"email,omitempty"`
	Phone       string      `json:"phone,omitempty"`
	Avatar      string      `json:"avatar,omitempty"`
	Cover       string      `json:"cover,omitempty"`
	Role        string      `json:"role"`
	Birthday    *time.Time  `json:"birthday,omitempty"`
	Date        *time.Time  `json:"date,omitempty"`
	Preferences Preferences `json:"userPreferences"`
	CreatedAt   time.Time   `json:"createdAt"`
}

// Public returns the user stripped down to its wire shape.
func (u *User) Public() PublicUser {
	p := PublicUser{
		ID:          u.ID,
		AccountType: u.AccountType,
		Firstname:   u.Firstname,
		Lastname:    u.Lastname,
		Companyname: u.Companyname,
		Username:    u.Username,
		Avatar:      u.Avatar,
		Cover:       u.Cover,
		Role:        u.Role,
		Birthday:    u.Birthday,
		Date:        u.Date,
		Preferences: u.Preferences,
		CreatedAt:   u.CreatedAt,
	}
	if u.HasRealEmail() {
		p.Email = u.Email
	}
	if u.HasRealPhone() {
		p.Phone = u.Phone
	}
	return p
}
