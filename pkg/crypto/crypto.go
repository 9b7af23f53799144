package crypto

import "golang.org/x/crypto/bcrypt"

// HashPassword returns a salted bcrypt hash of the supplied password. The work
// factor makes offline brute force expensive; raise cost to tune it.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword compares the stored digest with the plaintext candidate.
// bcrypt's comparison does not leak timing differences between mismatch classes.
func VerifyPassword(hashedPassword, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password)) == nil
}
