// Package userinfo classifies a free-form login identifier as an email,
// username or phone number and masks contact strings for display.
package userinfo

import (
	"regexp"
	"strings"

	domainErrors "github.com/mohammedadiga/newRoodxServer/internal/domain/errors"
)

var (
	emailRegex    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	usernameRegex = regexp.MustCompile(`^[a-z](?:[a-z0-9_]+)*$`)
	phoneRegex    = regexp.MustCompile(`^\d{10,15}$`)
	nonPhoneRunes = regexp.MustCompile(`[^+\d]`)
)

// UserInfo holds exactly one of the three identifier kinds.
type UserInfo struct {
	Email    string `json:"email,omitempty"`
	Username string `json:"username,omitempty"`
	Phone    string `json:"phone,omitempty"`
}

// FormatPhoneNumber strips whitespace and non-digit characters and rewrites
// a leading + into the 00 international prefix.
func FormatPhoneNumber(phone string) string {
	formatted := strings.ReplaceAll(phone, " ", "")
	formatted = nonPhoneRunes.ReplaceAllString(formatted, "")
	if strings.HasPrefix(formatted, "+") {
		formatted = "00" + formatted[1:]
	}
	return formatted
}

// Extract classifies input as email, username or phone. Anything that is
// neither an email nor a username must normalize to 10-15 digits or the
// input is rejected.
func Extract(input string) (UserInfo, error) {
	if emailRegex.MatchString(input) {
		return UserInfo{Email: input}, nil
	}
	if usernameRegex.MatchString(input) {
		return UserInfo{Username: input}, nil
	}
	formatted := FormatPhoneNumber(input)
	if phoneRegex.MatchString(formatted) {
		return UserInfo{Phone: formatted}, nil
	}
	return UserInfo{}, domainErrors.ErrInvalidInput
}

// MaskEmail hides the middle of the local part and the main domain label,
// keeping the TLD suffix readable: jo**hn@ex**e.com.
func MaskEmail(email string) string {
	local, domain, ok := strings.Cut(email, "@")
	if !ok || domain == "" {
		return email
	}

	var localMasked string
	if len(local) > 3 {
		localMasked = local[:2] + "***" + local[len(local)-1:]
	} else {
		localMasked = local[:1] + "***"
	}

	domainParts := strings.Split(domain, ".")
	if len(domainParts) < 2 {
		return localMasked + "@" + domain
	}

	mainDomain := domainParts[0]
	var domainMasked string
	if len(mainDomain) > 3 {
		domainMasked = mainDomain[:1] + "**" + mainDomain[len(mainDomain)-1:]
	} else {
		domainMasked = mainDomain[:1] + "**"
	}

	return localMasked + "@" + domainMasked + "." + strings.Join(domainParts[1:], ".")
}

// MaskPhone keeps the first two and last two digits: 12****78.
func MaskPhone(phone string) string {
	if len(phone) <= 4 {
		return phone
	}
	return phone[:2] + strings.Repeat("*", len(phone)-4) + phone[len(phone)-2:]
}
