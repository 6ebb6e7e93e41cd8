package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/scoutdb/codescout/internal/model"
	appErr "github.com/scoutdb/codescout/internal/pkg/errors"
	"github.com/scoutdb/codescout/internal/pkg/jwt"
	"github.com/scoutdb/codescout/internal/pkg/password"
)

type IUserStore interface {
	Create(ctx context.Context, user *model.User) error
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id string) (*model.User, error)
}

type AuthService struct {
	users  IUserStore
	secret []byte
	ttl    time.Duration
}

func NewAuthService(users IUserStore, secret []byte, ttl time.Duration) *AuthService {
	return &AuthService{users: users, secret: secret, ttl: ttl}
}

func (s *AuthService) Register(ctx context.Context, email, plain string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("invalid email: %w", appErr.ErrInvalid)
	}
	if len(plain) < 8 {
		return nil, fmt.Errorf("password must be at least 8 characters: %w", appErr.ErrInvalid)
	}
	hash, err := password.Hash(plain)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := &model.User{
		ID:           newID(),
		Email:        email,
		PasswordHash: hash,
		Ctime:        time.Now().Unix(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if appErr.IsConflict(err) {
			return nil, fmt.Errorf("email already registered: %w", appErr.ErrConflict)
		}
		return nil, fmt.Errorf("create user: %w: %v", appErr.ErrStore, err)
	}
	return user, nil
}

// Login verifies credentials and issues a signed token. The same error is
// returned for an unknown email and a wrong password.
func (s *AuthService) Login(ctx context.Context, email, plain string) (string, *model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if appErr.IsNotFound(err) {
			return "", nil, fmt.Errorf("bad credentials: %w", appErr.ErrUnauthorized)
		}
		return "", nil, fmt.Errorf("load user: %w: %v", appErr.ErrStore, err)
	}
	if !password.Verify(user.PasswordHash, plain) {
		return "", nil, fmt.Errorf("bad credentials: %w", appErr.ErrUnauthorized)
	}
	token, err := jwt.GenerateToken(user.ID, user.Email, s.secret, s.ttl)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}
	return token, user, nil
}
