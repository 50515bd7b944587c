package service

import (
	"context"
	"testing"
	"time"

	"github.com/Vivek290100/CodeMaster/internal/common"
	"github.com/Vivek290100/CodeMaster/internal/common/security"
	"github.com/Vivek290100/CodeMaster/internal/domain/model"
	"github.com/Vivek290100/CodeMaster/internal/domain/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newAuthService(t *testing.T) *AuthService {
	t.Helper()
	security.InitJWT([]byte("test-secret"), time.Hour)
	return NewAuthService(repository.NewMemoryUserRepository(), zaptest.NewLogger(t))
}

func TestSignupAndLogin(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	resp, err := svc.Signup(ctx, SignupRequest{Username: "ada", Email: "Ada@Example.com", Password: "correct-horse", Role: model.RoleAuthor})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Empty(t, resp.User.HashedPassword)
	assert.Equal(t, "ada@example.com", resp.User.Email)
	assert.Equal(t, model.RoleAuthor, resp.User.Role)

	byEmail, err := svc.Login(ctx, LoginRequest{LoginField: "ada@example.com", Password: "correct-horse"})
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, byEmail.User.ID)

	byName, err := svc.Login(ctx, LoginRequest{LoginField: "ada", Password: "correct-horse"})
	require.NoError(t, err)
	assert.NotEmpty(t, byName.Token)

	_, err = svc.Login(ctx, LoginRequest{LoginField: "ada", Password: "wrong-password"})
	assert.ErrorIs(t, err, common.ErrUnauthorized)
	_, err = svc.Login(ctx, LoginRequest{LoginField: "grace", Password: "correct-horse"})
	assert.ErrorIs(t, err, common.ErrUnauthorized)
}

func TestSignupDefaultsToSolver(t *testing.T) {
	svc := newAuthService(t)
	resp, err := svc.Signup(context.Background(), SignupRequest{Username: "bob", Email: "bob@example.com", Password: "12345678"})
	require.NoError(t, err)
	assert.Equal(t, model.RoleSolver, resp.User.Role)
}

func TestSignupValidation(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	tests := map[string]SignupRequest{
		"missing username": {Email: "a@example.com", Password: "12345678"},
		"bad email":        {Username: "a", Email: "not-an-email", Password: "12345678"},
		"short password":   {Username: "a", Email: "a@example.com", Password: "123"},
		"unknown role":     {Username: "a", Email: "a@example.com", Password: "12345678", Role: "admin"},
	}
	for name, req := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Signup(ctx, req)
			assert.ErrorIs(t, err, common.ErrValidation)
		})
	}

	_, err := svc.Signup(ctx, SignupRequest{Username: "a", Email: "a@example.com", Password: "12345678"})
	require.NoError(t, err)
	_, err = svc.Signup(ctx, SignupRequest{Username: "a", Email: "b@example.com", Password: "12345678"})
	assert.ErrorIs(t, err, common.ErrConflict)
}
