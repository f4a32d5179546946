package security

import "golang.org/x/crypto/bcrypt"

const bcryptCost = 10

// HashValue digests a secret (password or verification code) one-way.
func HashValue(plain string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plain), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// CompareValue reports whether plain matches the stored digest.
func CompareValue(plain, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plain)) == nil
}
