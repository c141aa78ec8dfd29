package service

import (
	"context"
	"fmt"
	"strings"

	"go-cms-backend/internal/core/auth"
	"go-cms-backend/internal/domain"
	"go-cms-backend/pkg/utils"
)

// AuthService issues JWTs for registered users; passwords are bcrypt-hashed.
type AuthService struct {
	users domain.UserRepository
	jwter *auth.JWTer
}

func NewAuthService(users domain.UserRepository, jwter *auth.JWTer) *AuthService {
	return &AuthService{users: users, jwter: jwter}
}

type Credentials struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Name     string `json:"name" binding:"omitempty,max=64"`
}

func (s *AuthService) Register(ctx context.Context, in Credentials) (*domain.User, string, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || in.Password == "" {
		return nil, "", fmt.Errorf("%w: email and password are required", domain.ErrValidation)
	}

	existing, err := s.users.FindByEmail(email)
	if err != nil {
		return nil, "", err
	}
	if existing != nil {
		return nil, "", domain.ErrEmailTaken
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		if at := strings.IndexByte(email, '@'); at > 0 {
			name = email[:at]
		} else {
			name = "user"
		}
	}

	u := &domain.User{
		ID:           utils.NewID(),
		Email:        email,
		Name:         name,
		PasswordHash: utils.HashPassword(in.Password),
		Role:         domain.RoleUser,
	}
	if err := s.users.Create(u); err != nil {
		// 并发注册撞唯一索引 → 视为邮箱已占用
		if isDupKey(err) {
			return nil, "", domain.ErrEmailTaken
		}
		return nil, "", err
	}

	tok, err := s.jwter.Issue(u.ID, u.Role)
	if err != nil {
		return nil, "", err
	}
	return u, tok, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	u, err := s.users.FindByEmail(strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, "", err
	}
	if u == nil || !utils.CheckPassword(password, u.PasswordHash) {
		return nil, "", domain.ErrInvalidCredentials
	}
	tok, err := s.jwter.Issue(u.ID, u.Role)
	if err != nil {
		return nil, "", err
	}
	return u, tok, nil
}

func (s *AuthService) Me(ctx context.Context, uid string) (*domain.User, error) {
	if uid == "" {
		return nil, domain.ErrUnauthenticated
	}
	u, err := s.users.FindByID(uid)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.ErrNotFound
	}
	return u, nil
}
