package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/RaviGowdaS/InventoryManagement/internal/model"
	"github.com/RaviGowdaS/InventoryManagement/internal/store"
)

// Identity errors.
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrTokenRevoked       = errors.New("token has been revoked")
	ErrUnknownUser        = errors.New("user no longer exists")
)

// Identity registers users, checks credentials and issues tokens.
type Identity struct {
	DB     *sql.DB
	Secret string
}

// Register creates an ordinary user and returns it with a fresh token.
func (s *Identity) Register(ctx context.Context, name, email, password string) (*model.User, string, error) {
	name = strings.TrimSpace(name)
	email = model.NormalizeEmail(email)

	if name == "" {
		return nil, "", &model.ValidationError{Field: "name", Message: "Name is required"}
	}
	if email == "" || !strings.Contains(email, "@") {
		return nil, "", &model.ValidationError{Field: "email", Message: "A valid email is required"}
	}
	if err := model.ValidatePassword(password); err != nil {
		return nil, "", &model.ValidationError{Field: "password", Message: err.Error()}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("hashing password: %w", err)
	}

	user, err := store.CreateUser(ctx, s.DB, name, email, string(hash), model.RoleUser)
	if err != nil {
		return nil, "", err
	}

	token, err := GenerateToken(s.Secret, user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Login checks credentials and returns the user with a fresh token.
func (s *Identity) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, "", &model.ValidationError{Field: "email", Message: "Email and password are required"}
	}

	user, err := store.GetUserByEmail(ctx, s.DB, email)
	if err != nil {
		return nil, "", err
	}
	if user == nil {
		return nil, "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := GenerateToken(s.Secret, user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Authenticate validates a token and rejects revoked ones. The role and email
// are reloaded from the users table so a role change applies to existing
// tokens; a token whose user no longer exists fails with ErrUnknownUser.
func (s *Identity) Authenticate(ctx context.Context, token string) (*Claims, error) {
	claims, err := ValidateToken(s.Secret, token)
	if err != nil {
		return nil, err
	}

	if claims.ID != "" {
		revoked, err := store.IsTokenRevoked(ctx, s.DB, claims.ID)
		if err != nil {
			return nil, err
		}
		if revoked {
			return nil, ErrTokenRevoked
		}
	}

	user, err := store.GetUser(ctx, s.DB, claims.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUnknownUser
	}
	claims.Role = user.Role
	claims.Email = user.Email

	return claims, nil
}

// Profile returns the user behind the claims.
func (s *Identity) Profile(ctx context.Context, claims *Claims) (*model.User, error) {
	user, err := store.GetUser(ctx, s.DB, claims.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUnknownUser
	}
	return user, nil
}

// Logout revokes the token described by claims until it would have expired.
func (s *Identity) Logout(ctx context.Context, claims *Claims) error {
	if claims.ID == "" {
		return nil
	}
	expiresAt := time.Now().Add(TokenExpiry)
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	return store.RevokeToken(ctx, s.DB, claims.ID, expiresAt)
}
