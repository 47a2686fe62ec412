package auth_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventory-tracker/internal/application/auth"
	"github.com/jhoicas/inventory-tracker/internal/application/dto"
	"github.com/jhoicas/inventory-tracker/internal/domain"
	"github.com/jhoicas/inventory-tracker/internal/infrastructure/memory"
	"github.com/jhoicas/inventory-tracker/internal/infrastructure/redis"
	"github.com/jhoicas/inventory-tracker/pkg/jwt"
)

const secret = "test-secret"

func setup(t *testing.T) (*auth.AuthUseCase, *miniredis.Miniredis) {
	t.Helper()
	m := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: m.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	sessions := redis.NewSessionStore(client, nil)
	uc := auth.NewAuthUseCase(memory.NewUserRepository(), sessions, sessions,
		auth.JWTConfig{Secret: secret, ExpMinutes: 60, Issuer: "test"}, nil)
	return uc, m
}

func register(t *testing.T, uc *auth.AuthUseCase, email, name string) *dto.UserResponse {
	t.Helper()
	u, err := uc.Register(context.Background(), dto.RegisterRequest{Email: email, Password: "password123", Name: name})
	require.NoError(t, err)
	return u
}

func TestRegister_NombrePorDefectoEsEmail(t *testing.T) {
	uc, _ := setup(t)

	u := register(t, uc, "Ana@Example.com", "")
	assert.Equal(t, "ana@example.com", u.Email)
	assert.Equal(t, "ana@example.com", u.Name)
	assert.Equal(t, "active", u.Status)
	assert.NotEmpty(t, u.ID)
}

func TestRegister_EmailDuplicado(t *testing.T) {
	uc, _ := setup(t)
	register(t, uc, "ana@example.com", "Ana")

	_, err := uc.Register(context.Background(), dto.RegisterRequest{Email: "ana@example.com", Password: "password123"})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestLogin_CreaSesionLigadaAlToken(t *testing.T) {
	uc, m := setup(t)
	ctx := context.Background()
	u := register(t, uc, "ana@example.com", "Ana")

	out, err := uc.Login(ctx, dto.LoginRequest{Email: "ana@example.com", Password: "password123"})
	require.NoError(t, err)
	assert.True(t, m.Exists("session:"+out.SessionID))

	claims, err := jwt.Parse(secret, out.Token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)
	assert.Equal(t, out.SessionID, claims.SessionID)

	session, err := uc.Authenticate(ctx, out.Token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, session.Identity.UID)
	assert.Equal(t, "Ana", session.Identity.DisplayName)
}

func TestLogin_PasswordIncorrecto(t *testing.T) {
	uc, _ := setup(t)
	register(t, uc, "ana@example.com", "Ana")

	_, err := uc.Login(context.Background(), dto.LoginRequest{Email: "ana@example.com", Password: "nope"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLogin_UsuarioDesconocido(t *testing.T) {
	uc, _ := setup(t)

	_, err := uc.Login(context.Background(), dto.LoginRequest{Email: "x@example.com", Password: "password123"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestLogout_InvalidaToken(t *testing.T) {
	uc, _ := setup(t)
	ctx := context.Background()
	register(t, uc, "ana@example.com", "Ana")
	out, err := uc.Login(ctx, dto.LoginRequest{Email: "ana@example.com", Password: "password123"})
	require.NoError(t, err)

	require.NoError(t, uc.Logout(ctx, out.SessionID))

	_, err = uc.Authenticate(ctx, out.Token)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestLogout_FalloDelProveedor(t *testing.T) {
	uc, m := setup(t)
	m.Close()

	assert.Error(t, uc.Logout(context.Background(), "sid"))
}

func TestAuthenticate_TokenInvalido(t *testing.T) {
	uc, _ := setup(t)

	_, err := uc.Authenticate(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
