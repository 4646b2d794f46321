package datastore

import (
	"context"
	"fmt"
	"strings"

	"github.com/insighthub/insighthub/models"
)

type UserRepository struct {
	store  *Store
	hasher PasswordHasher
}

// NewUserRepository creates a UserRepository. A nil hasher keeps passwords verbatim.
func NewUserRepository(store *Store, hasher PasswordHasher) *UserRepository {
	if hasher == nil {
		hasher = PlainPasswords{}
	}
	return &UserRepository{store: store, hasher: hasher}
}

// Register creates a user. Emails are compared case-sensitively.
func (r *UserRepository) Register(ctx context.Context, email, password string) (*models.User, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password required", ErrInvalidInput)
	}

	stored, err := r.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	var user models.User
	err = r.store.Update(ctx, "register", func(doc *models.Document) error {
		for _, u := range doc.Users {
			if u.Email == email {
				return fmt.Errorf("user %s: %w", email, ErrAlreadyExists)
			}
		}
		now := r.store.now()
		user = models.User{
			ID:        nextID(now, lastUserID(doc.Users)),
			Email:     email,
			Password:  stored,
			CreatedAt: now.UTC(),
		}
		doc.Users = append(doc.Users, user)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Login returns the user whose email and password both match.
func (r *UserRepository) Login(ctx context.Context, email, password string) (*models.User, error) {
	var user *models.User
	err := r.store.View(ctx, "login", func(doc *models.Document) error {
		for i := range doc.Users {
			u := doc.Users[i]
			if u.Email == email && passwordMatches(u.Password, password) {
				user = &u
				return nil
			}
		}
		return ErrInvalidCredentials
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// FindByEmail looks up a registered user without checking a password.
// Mail headers are case-insensitive, so the match is too.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user *models.User
	err := r.store.View(ctx, "find_user", func(doc *models.Document) error {
		for i := range doc.Users {
			if strings.EqualFold(doc.Users[i].Email, email) {
				u := doc.Users[i]
				user = &u
				return nil
			}
		}
		return fmt.Errorf("user %s: %w", email, ErrNotFound)
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}
