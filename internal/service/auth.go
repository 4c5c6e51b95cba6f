// Package service implements the business logic for authentication and
// the two ledger engines, delegating persistence to repository interfaces.
package service

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/rmanoharan/ledgerdesk/internal/models"
)

// UserRepository defines the persistence operations required by the
// authentication service.
type UserRepository interface {
	// FindByUsername returns the user with the given username, or
	// (nil, nil) when no such user exists.
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	// Create stores a new user record, assigning its ID.
	Create(ctx context.Context, user *models.User) error
}

// AuthService issues session credentials and registers accounts.
type AuthService struct {
	users  UserRepository
	tokens *TokenIssuer
}

// NewAuthService constructs an AuthService over the given repository and
// token issuer.
func NewAuthService(users UserRepository, tokens *TokenIssuer) *AuthService {
	return &AuthService{users: users, tokens: tokens}
}

// Login verifies a username/password pair and, on success, returns the
// account together with a freshly signed session token. An unknown
// username and a wrong password both fail with ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, username, password string) (*models.User, string, error) {
	var fields fieldErrors
	if username == "" {
		fields.add("username is required")
	}
	if password == "" {
		fields.add("password is required")
	}
	if err := fields.err(); err != nil {
		return nil, "", err
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, "", fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		return nil, "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Register creates a new account with a bcrypt-hashed password and
// returns it with a session token for the new user. An empty role
// defaults to "user". Fails with ErrDuplicateUsername when the username
// is taken, regardless of the role requested.
func (s *AuthService) Register(ctx context.Context, username, password string, role models.Role) (*models.User, string, error) {
	if role == "" {
		role = models.RoleUser
	}

	var fields fieldErrors
	if username == "" {
		fields.add("username is required")
	}
	if password == "" {
		fields.add("password is required")
	}
	if !role.Valid() {
		fields.add("role must be admin or user")
	}
	if err := fields.err(); err != nil {
		return nil, "", err
	}

	existing, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, "", fmt.Errorf("find user: %w", err)
	}
	if existing != nil {
		return nil, "", ErrDuplicateUsername
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Username:     username,
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", fmt.Errorf("create user: %w", err)
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}
