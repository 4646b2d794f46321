package datastore

import (
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const defaultBcryptCost = 8

// PasswordHasher turns a password into the value kept in the document.
type PasswordHasher interface {
	Hash(password string) (string, error)
}

// PlainPasswords keeps passwords verbatim. This is the historical behavior of
// the service and is insecure.
type PlainPasswords struct{}

func (PlainPasswords) Hash(password string) (string, error) {
	return password, nil
}

// BcryptPasswords stores bcrypt hashes instead of plaintext.
type BcryptPasswords struct {
	Cost int
}

func (b BcryptPasswords) Hash(password string) (string, error) {
	cost := b.Cost
	if cost == 0 {
		cost = defaultBcryptCost
	}
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// passwordMatches accepts both stored forms so documents written before or
// after hashing was switched on keep working. A stored hash is only ever
// compared with bcrypt; sending the hash itself must not log in.
func passwordMatches(stored, given string) bool {
	if isBcryptHash(stored) {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(given)) == nil
	}
	return stored == given
}

func isBcryptHash(s string) bool {
	return len(s) == 60 && (strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$") || strings.HasPrefix(s, "$2y$"))
}
