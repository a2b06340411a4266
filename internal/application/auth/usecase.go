package auth

import (
	"context"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Cafeteria-api/internal/application/dto"
	"github.com/jhoicas/Cafeteria-api/internal/domain"
	"github.com/jhoicas/Cafeteria-api/internal/domain/entity"
	"github.com/jhoicas/Cafeteria-api/internal/domain/repository"
	"github.com/jhoicas/Cafeteria-api/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// TokenDenylist tokens revocados por logout, identificados por jti hasta su expiración.
type TokenDenylist interface {
	Revoke(ctx context.Context, jti string, until time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// AuthUseCase casos de uso de autenticación: login, perfil y logout.
type AuthUseCase struct {
	admins   repository.AdminRepository
	users    repository.UserRepository
	denylist TokenDenylist
	jwtCfg   JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth. denylist puede ser nil (logout sin efecto en servidor).
func NewAuthUseCase(admins repository.AdminRepository, users repository.UserRepository, denylist TokenDenylist, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{admins: admins, users: users, denylist: denylist, jwtCfg: jwtCfg}
}

// Login verifica email/password contra administradores y luego personal, y emite un JWT firmado
// con expiración. Credenciales desconocidas e incorrectas responden igual.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))

	admin, err := uc.admins.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if admin != nil {
		if bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(in.Password)) != nil {
			return nil, domain.ErrUnauthorized
		}
		return uc.issue(jwt.Subject{UserID: admin.ID, Role: string(admin.Role), Kind: jwt.KindAdmin}, adminResponse(admin))
	}

	user, err := uc.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)) != nil {
		return nil, domain.ErrUnauthorized
	}
	if user.Status != entity.UserStatusActive {
		return nil, domain.ErrForbidden
	}
	return uc.issue(jwt.Subject{UserID: user.ID, BranchID: user.BranchID, Role: string(user.Role), Kind: jwt.KindUser}, userResponse(user))
}

func (uc *AuthUseCase) issue(sub jwt.Subject, profile dto.UserResponse) (*dto.LoginResponse, error) {
	token, err := jwt.Generate(uc.jwtCfg.Secret, sub, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token:     token.Value,
		ExpiresAt: token.ExpiresAt,
		User:      profile,
	}, nil
}

// Me perfil del principal autenticado según su tipo (admin o usuario).
func (uc *AuthUseCase) Me(ctx context.Context, kind, id string) (*dto.UserResponse, error) {
	if kind == jwt.KindAdmin {
		admin, err := uc.admins.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if admin == nil {
			return nil, domain.ErrUserNotFound
		}
		out := adminResponse(admin)
		return &out, nil
	}
	user, err := uc.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	out := userResponse(user)
	return &out, nil
}

// Logout revoca el token hasta su expiración.
func (uc *AuthUseCase) Logout(ctx context.Context, jti string, expiresAt time.Time) error {
	if uc.denylist == nil || jti == "" {
		return nil
	}
	return uc.denylist.Revoke(ctx, jti, expiresAt)
}

// IsRevoked indica si el jti fue revocado. Sin denylist nunca lo está.
func (uc *AuthUseCase) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if uc.denylist == nil || jti == "" {
		return false, nil
	}
	return uc.denylist.IsRevoked(ctx, jti)
}

func userResponse(u *entity.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        u.ID,
		BranchID:  u.BranchID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      string(u.Role),
		Kind:      jwt.KindUser,
		Status:    u.Status,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func adminResponse(a *entity.Admin) dto.UserResponse {
	return dto.UserResponse{
		ID:        a.ID,
		Name:      a.Name,
		Email:     a.Email,
		Role:      string(a.Role),
		Kind:      jwt.KindAdmin,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}
