// Package auth contiene los casos de uso del proveedor de identidad: registro, login con
// sesión en Redis y cierre de sesión.
package auth

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/inventory-tracker/internal/application/dto"
	"github.com/jhoicas/inventory-tracker/internal/application/session"
	"github.com/jhoicas/inventory-tracker/internal/domain"
	"github.com/jhoicas/inventory-tracker/internal/domain/entity"
	"github.com/jhoicas/inventory-tracker/internal/domain/repository"
	"github.com/jhoicas/inventory-tracker/pkg/jwt"
	"github.com/jhoicas/inventory-tracker/pkg/logger"
)

const statusActive = "active"

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación.
type AuthUseCase struct {
	userRepo repository.UserRepository
	sessions repository.SessionRepository
	provider repository.IdentityProvider
	jwtCfg   JWTConfig
	log      *logger.Logger
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(
	userRepo repository.UserRepository,
	sessions repository.SessionRepository,
	provider repository.IdentityProvider,
	jwtCfg JWTConfig,
	log *logger.Logger,
) *AuthUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &AuthUseCase{userRepo: userRepo, sessions: sessions, provider: provider, jwtCfg: jwtCfg, log: log}
}

// Register crea un usuario: hashea password con bcrypt y persiste. Devuelve ErrEmailAlreadyExists
// si el email ya existe. Sin nombre, se usa el email como nombre visible.
func (uc *AuthUseCase) Register(ctx context.Context, in dto.RegisterRequest) (*dto.UserResponse, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	existing, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = email
	}
	user := &entity.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: string(hash),
		Name:         name,
		Status:       statusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	uc.log.Info().Str("uid", user.ID).Msg("usuario registrado")
	return toUserResponse(user), nil
}

// Login verifica email/password, abre una sesión con la misma expiración que el token y
// retorna token + usuario.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(in.Email)))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if user.Status != statusActive {
		return nil, domain.ErrForbidden
	}

	sid := uuid.New().String()
	token, exp, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, sid, user.Name, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	sess := &entity.Session{
		ID:        sid,
		Identity:  user.Identity(),
		CreatedAt: time.Now().UTC(),
		ExpiresAt: exp,
	}
	if err := uc.sessions.Create(ctx, sess); err != nil {
		return nil, err
	}
	uc.log.Info().Str("uid", user.ID).Str("session_id", sid).Msg("sesión iniciada")
	return &dto.LoginResponse{
		Token:     token,
		SessionID: sid,
		ExpiresAt: exp,
		User:      *toUserResponse(user),
	}, nil
}

// Logout cierra la sesión a través de su Session Gate. Si el proveedor falla la sesión sigue
// abierta; si funciona, los suscriptores reciben SignedOut.
func (uc *AuthUseCase) Logout(ctx context.Context, sessionID string) error {
	return session.NewGate(uc.provider, sessionID, uc.log).SignOut(ctx)
}

// Authenticate resuelve la identidad de un token: firma válida y sesión aún abierta.
func (uc *AuthUseCase) Authenticate(ctx context.Context, token string) (*entity.Session, error) {
	claims, err := jwt.Parse(uc.jwtCfg.Secret, token)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}
	sess, err := uc.sessions.Get(ctx, claims.SessionID)
	if err != nil {
		return nil, err
	}
	if sess == nil || sess.Identity.UID != claims.UserID {
		return nil, domain.ErrSessionNotFound
	}
	return sess, nil
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Status:    u.Status,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
