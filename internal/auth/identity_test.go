package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/RaviGowdaS/InventoryManagement/internal/db"
	"github.com/RaviGowdaS/InventoryManagement/internal/model"
	"github.com/RaviGowdaS/InventoryManagement/internal/store"
)

func newTestIdentity(t *testing.T) *Identity {
	t.Helper()
	return &Identity{DB: db.NewTestDB(t), Secret: "test-secret"}
}

func TestRegisterAndLogin(t *testing.T) {
	id := newTestIdentity(t)
	ctx := context.Background()

	user, token, err := id.Register(ctx, "Alice", "Alice@Example.com", "password123")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.Role != model.RoleUser {
		t.Errorf("expected role 'user', got %q", user.Role)
	}
	if token == "" {
		t.Error("expected token from register")
	}

	loggedIn, token, err := id.Login(ctx, "alice@example.com", "password123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if loggedIn.ID != user.ID {
		t.Errorf("expected same user, got %q and %q", loggedIn.ID, user.ID)
	}

	claims, err := id.Authenticate(ctx, token)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if claims.UserID != user.ID {
		t.Errorf("expected claims for %q, got %q", user.ID, claims.UserID)
	}
}

func TestRegisterValidation(t *testing.T) {
	id := newTestIdentity(t)
	ctx := context.Background()

	tests := []struct {
		name, email, password string
	}{
		{"", "a@example.com", "password123"},
		{"A", "not-an-email", "password123"},
		{"A", "a@example.com", "short"},
	}

	for _, tt := range tests {
		_, _, err := id.Register(ctx, tt.name, tt.email, tt.password)
		var verr *model.ValidationError
		if !errors.As(err, &verr) {
			t.Errorf("Register(%q, %q) expected ValidationError, got %v", tt.name, tt.email, err)
		}
	}

	id.Register(ctx, "A", "a@example.com", "password123")
	if _, _, err := id.Register(ctx, "B", "a@example.com", "password123"); !errors.Is(err, store.ErrEmailTaken) {
		t.Errorf("expected ErrEmailTaken, got %v", err)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	id := newTestIdentity(t)
	ctx := context.Background()

	id.Register(ctx, "Alice", "alice@example.com", "password123")

	if _, _, err := id.Login(ctx, "alice@example.com", "wrong-password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, _, err := id.Login(ctx, "nobody@example.com", "password123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials for unknown user, got %v", err)
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	id := newTestIdentity(t)
	ctx := context.Background()

	_, token, _ := id.Register(ctx, "Alice", "alice@example.com", "password123")
	claims, err := id.Authenticate(ctx, token)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}

	if err := id.Logout(ctx, claims); err != nil {
		t.Fatalf("Logout: %v", err)
	}

	if _, err := id.Authenticate(ctx, token); !errors.Is(err, ErrTokenRevoked) {
		t.Errorf("expected ErrTokenRevoked after logout, got %v", err)
	}
}

func TestAuthenticateReloadsUser(t *testing.T) {
	id := newTestIdentity(t)
	ctx := context.Background()

	user, token, err := id.Register(ctx, "Alice", "alice@example.com", "password123")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	if _, err := store.UpdateUserRole(ctx, id.DB, user.ID, model.RoleAdmin); err != nil {
		t.Fatalf("UpdateUserRole: %v", err)
	}
	claims, err := id.Authenticate(ctx, token)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if claims.Role != model.RoleAdmin || !claims.Actor().IsAdmin() {
		t.Errorf("expected promoted role on existing token, got %q", claims.Role)
	}

	if _, err := store.UpdateUserRole(ctx, id.DB, user.ID, model.RoleUser); err != nil {
		t.Fatalf("UpdateUserRole: %v", err)
	}
	claims, _ = id.Authenticate(ctx, token)
	if claims.Role != model.RoleUser {
		t.Errorf("expected demoted role on existing token, got %q", claims.Role)
	}

	if _, err := id.DB.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, user.ID); err != nil {
		t.Fatalf("deleting user: %v", err)
	}
	if _, err := id.Authenticate(ctx, token); !errors.Is(err, ErrUnknownUser) {
		t.Errorf("expected ErrUnknownUser for deleted user, got %v", err)
	}
}
