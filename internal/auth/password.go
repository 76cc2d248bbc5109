package auth

import "golang.org/x/crypto/bcrypt"

// PasswordHasher wraps bcrypt behind the hashing interface the lifecycle
// manager consumes.
type PasswordHasher struct{}

func (PasswordHasher) Hash(password string) (string, error) {
	return HashPassword(password)
}

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
