package userinfo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainErrors "github.com/mohammedadiga/newRoodxServer/internal/domain/errors"
)

func TestExtract_Classification(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  UserInfo
	}{
		{"plain email", "john@example.com", UserInfo{Email: "john@example.com"}},
		{"email with plus tag", "john+tag@example.co.uk", UserInfo{Email: "john+tag@example.co.uk"}},
		{"username", "johndoe", UserInfo{Username: "johndoe"}},
		{"username with digits and underscores", "john_doe99", UserInfo{Username: "john_doe99"}},
		{"bare digits phone", "0612345678", UserInfo{Phone: "0612345678"}},
		{"international plus prefix", "+31612345678", UserInfo{Phone: "0031612345678"}},
		{"phone with spaces and dashes", "+31 6 1234-5678", UserInfo{Phone: "0031612345678"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Extract(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtract_Rejections(t *testing.T) {
	inputs := []string{
		"",
		"John Doe",
		"9startswithdigit",
		"UPPERCASE",
		"12345",                // too short for a phone
		"12345678901234567890", // too long for a phone
		"@example.com",
		"john@",
	}
	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			_, err := Extract(input)
			assert.ErrorIs(t, err, domainErrors.ErrInvalidInput)
		})
	}
}

func TestFormatPhoneNumber(t *testing.T) {
	assert.Equal(t, "0031612345678", FormatPhoneNumber("+31 612 345 678"))
	assert.Equal(t, "0612345678", FormatPhoneNumber("06-12-34-56-78"))
	assert.Equal(t, "123", FormatPhoneNumber("(12) 3"))
}

func TestMaskEmail(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"john@example.com", "jo***n@e**e.com"},
		{"jo@x.com", "j***@x**.com"},
		{"jonathan@mail.example.org", "jo***n@m**l.example.org"},
		{"ab@cd.io", "a***@c**.io"},
		{"no-at-sign", "no-at-sign"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, MaskEmail(tt.in), "input %q", tt.in)
	}
}

func TestMaskPhone(t *testing.T) {
	assert.Equal(t, "12****78", MaskPhone("12345678"))
	assert.Equal(t, "00*********78", MaskPhone("0031612345678"))
	assert.Equal(t, "1234", MaskPhone("1234"))
	assert.Equal(t, "12", MaskPhone("12"))
}
