package services

import (
	"crypto/sha256"

	"golang.org/x/crypto/bcrypt"
)

// Refresh tokens are stored hashed so a leaked session collection cannot be
// replayed. The token is digested first because bcrypt rejects inputs over
// 72 bytes and JWTs are much longer.

func HashRefreshToken(token string) (string, error) {
	digest := sha256.Sum256([]byte(token))
	hash, err := bcrypt.GenerateFromPassword(digest[:], bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func CheckRefreshToken(token, hash string) bool {
	digest := sha256.Sum256([]byte(token))
	return bcrypt.CompareHashAndPassword([]byte(hash), digest[:]) == nil
}
