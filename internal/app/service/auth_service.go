package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/Vivek290100/CodeMaster/internal/common"
	"github.com/Vivek290100/CodeMaster/internal/common/security"
	"github.com/Vivek290100/CodeMaster/internal/domain/model"
	"github.com/Vivek290100/CodeMaster/internal/domain/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const minPasswordLen = 8

type AuthService struct {
	userRepo repository.UserRepository
	log      *zap.Logger
}

func NewAuthService(userRepo repository.UserRepository, log *zap.Logger) *AuthService {
	return &AuthService{userRepo: userRepo, log: log}
}

type SignupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	// Role is "solver" (default) or "author".
	Role string `json:"role,omitempty"`
}

type LoginRequest struct {
	LoginField string `json:"loginField"` // username or email
	Password   string `json:"password"`
}

type AuthResponse struct {
	User  *model.User `json:"user"`
	Token string      `json:"token"`
}

func (s *AuthService) Signup(ctx context.Context, req SignupRequest) (*AuthResponse, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return nil, common.Validationf("username, email and password are required")
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return nil, common.Validationf("email %q is not valid", req.Email)
	}
	if len(req.Password) < minPasswordLen {
		return nil, common.Validationf("password must be at least %d characters", minPasswordLen)
	}
	switch req.Role {
	case "":
		req.Role = model.RoleSolver
	case model.RoleSolver, model.RoleAuthor:
	default:
		return nil, common.Validationf("role must be %s or %s", model.RoleSolver, model.RoleAuthor)
	}

	hashedPassword, err := security.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		ID:             uuid.NewString(),
		Username:       req.Username,
		Email:          req.Email,
		HashedPassword: hashedPassword,
		Role:           req.Role,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	s.log.Info("user signed up", zap.String("user_id", user.ID), zap.String("role", user.Role))

	return s.respond(user)
}

func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	if req.LoginField == "" || req.Password == "" {
		return nil, common.Validationf("loginField and password are required")
	}

	user, err := s.userRepo.FindByEmail(ctx, strings.ToLower(req.LoginField))
	if errors.Is(err, common.ErrNotFound) {
		user, err = s.userRepo.FindByUsername(ctx, req.LoginField)
	}
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !security.CheckPasswordHash(req.Password, user.HashedPassword) {
		return nil, common.ErrUnauthorized
	}
	return s.respond(user)
}

func (s *AuthService) respond(user *model.User) (*AuthResponse, error) {
	token, err := security.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	user.HashedPassword = ""
	return &AuthResponse{User: user, Token: token}, nil
}
