package service

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/rmanoharan/ledgerdesk/internal/models"
)

type mockUserRepo struct {
	FindByUsernameFunc func(ctx context.Context, username string) (*models.User, error)
	CreateFunc         func(ctx context.Context, user *models.User) error
}

func (m *mockUserRepo) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return m.FindByUsernameFunc(ctx, username)
}
func (m *mockUserRepo) Create(ctx context.Context, user *models.User) error {
	return m.CreateFunc(ctx, user)
}

func hashPassword(t *testing.T, password string) []byte {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hashing fixture password: %v", err)
	}
	return hash
}

func TestLogin_Success(t *testing.T) {
	stored := &models.User{
		ID:           "u-1",
		Username:     "alice",
		PasswordHash: hashPassword(t, "correct horse"),
		Role:         models.RoleUser,
	}
	repo := &mockUserRepo{
		FindByUsernameFunc: func(ctx context.Context, username string) (*models.User, error) {
			if username != "alice" {
				t.Errorf("FindByUsername received %q, want %q", username, "alice")
			}
			return stored, nil
		},
	}
	tokens := NewTokenIssuer("test-secret")
	svc := NewAuthService(repo, tokens)

	user, token, err := svc.Login(context.Background(), "alice", "correct horse")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if user.ID != "u-1" {
		t.Errorf("user ID = %q, want %q", user.ID, "u-1")
	}

	claims, err := tokens.Parse(token)
	if err != nil {
		t.Fatalf("issued token does not parse: %v", err)
	}
	if claims.Subject != "u-1" || claims.Role != models.RoleUser {
		t.Errorf("claims = %+v, want subject u-1 role user", claims)
	}
}

// An unknown username and a wrong password must be indistinguishable to
// the caller.
func TestLogin_IdenticalErrorForUnknownUserAndWrongPassword(t *testing.T) {
	stored := &models.User{
		Username:     "alice",
		PasswordHash: hashPassword(t, "right"),
	}
	repo := &mockUserRepo{
		FindByUsernameFunc: func(ctx context.Context, username string) (*models.User, error) {
			if username == "alice" {
				return stored, nil
			}
			return nil, nil
		},
	}
	svc := NewAuthService(repo, NewTokenIssuer("test-secret"))

	_, _, unknownErr := svc.Login(context.Background(), "nobody", "right")
	_, _, wrongErr := svc.Login(context.Background(), "alice", "wrong")

	if !errors.Is(unknownErr, ErrInvalidCredentials) {
		t.Errorf("unknown user error = %v, want ErrInvalidCredentials", unknownErr)
	}
	if !errors.Is(wrongErr, ErrInvalidCredentials) {
		t.Errorf("wrong password error = %v, want ErrInvalidCredentials", wrongErr)
	}
	if unknownErr.Error() != wrongErr.Error() {
		t.Errorf("errors differ: %q vs %q", unknownErr, wrongErr)
	}
}

func TestLogin_MissingFields(t *testing.T) {
	svc := NewAuthService(&mockUserRepo{}, NewTokenIssuer("test-secret"))

	_, _, err := svc.Login(context.Background(), "", "")
	var validation *ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("error = %v, want ValidationError", err)
	}
	if len(validation.Fields) != 2 {
		t.Errorf("got %d field messages, want 2", len(validation.Fields))
	}
}

func TestRegister_Success(t *testing.T) {
	var created *models.User
	repo := &mockUserRepo{
		FindByUsernameFunc: func(ctx context.Context, username string) (*models.User, error) {
			return nil, nil
		},
		CreateFunc: func(ctx context.Context, user *models.User) error {
			user.ID = "u-9"
			created = user
			return nil
		},
	}
	svc := NewAuthService(repo, NewTokenIssuer("test-secret"))

	user, token, err := svc.Register(context.Background(), "carol", "sekret", models.RoleAdmin)
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if created == nil {
		t.Fatal("Create was not called")
	}
	if user.Role != models.RoleAdmin {
		t.Errorf("role = %q, want admin", user.Role)
	}
	if token == "" {
		t.Error("expected a session token for the new account")
	}
	// The stored hash must verify against the original password.
	if err := bcrypt.CompareHashAndPassword(created.PasswordHash, []byte("sekret")); err != nil {
		t.Errorf("stored hash does not match password: %v", err)
	}
}

func TestRegister_DefaultsRoleToUser(t *testing.T) {
	repo := &mockUserRepo{
		FindByUsernameFunc: func(ctx context.Context, username string) (*models.User, error) {
			return nil, nil
		},
		CreateFunc: func(ctx context.Context, user *models.User) error { return nil },
	}
	svc := NewAuthService(repo, NewTokenIssuer("test-secret"))

	user, _, err := svc.Register(context.Background(), "dave", "pw", "")
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user.Role != models.RoleUser {
		t.Errorf("role = %q, want user", user.Role)
	}
}

func TestRegister_Duplicate(t *testing.T) {
	repo := &mockUserRepo{
		FindByUsernameFunc: func(ctx context.Context, username string) (*models.User, error) {
			return &models.User{Username: username}, nil
		},
		CreateFunc: func(ctx context.Context, user *models.User) error {
			t.Fatal("Create must not be called for a duplicate username")
			return nil
		},
	}
	svc := NewAuthService(repo, NewTokenIssuer("test-secret"))

	// The role requested makes no difference.
	for _, role := range []models.Role{models.RoleUser, models.RoleAdmin} {
		_, _, err := svc.Register(context.Background(), "alice", "pw", role)
		if !errors.Is(err, ErrDuplicateUsername) {
			t.Errorf("role %s: error = %v, want ErrDuplicateUsername", role, err)
		}
	}
}

func TestRegister_InvalidRole(t *testing.T) {
	svc := NewAuthService(&mockUserRepo{}, NewTokenIssuer("test-secret"))

	_, _, err := svc.Register(context.Background(), "erin", "pw", "superuser")
	var validation *ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("error = %v, want ValidationError", err)
	}
}
