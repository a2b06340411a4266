package auth_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Cafeteria-api/internal/application/auth"
	"github.com/jhoicas/Cafeteria-api/internal/application/dto"
	"github.com/jhoicas/Cafeteria-api/internal/domain"
	"github.com/jhoicas/Cafeteria-api/internal/domain/entity"
	"github.com/jhoicas/Cafeteria-api/internal/testutil"
	"github.com/jhoicas/Cafeteria-api/pkg/jwt"
)

const secret = "test-secret"

type memDenylist struct {
	mu  sync.Mutex
	ids map[string]time.Time
}

func (d *memDenylist) Revoke(_ context.Context, jti string, until time.Time) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.ids[jti] = until
	return nil
}

func (d *memDenylist) IsRevoked(_ context.Context, jti string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.ids[jti]
	return ok, nil
}

func hash(t *testing.T, pw string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func setup(t *testing.T) (*auth.AuthUseCase, *memDenylist) {
	t.Helper()
	ctx := context.Background()
	store := testutil.NewStore()
	require.NoError(t, store.Admins().Create(ctx, &entity.Admin{ID: "adm-1", Name: "Dueña", Email: "duena@cafe.co", PasswordHash: hash(t, "clave-admin"), Role: entity.RoleOwner}))
	require.NoError(t, store.Users().Create(ctx, &entity.User{ID: "usr-1", BranchID: "br-1", Name: "Ana", Email: "ana@cafe.co", PasswordHash: hash(t, "clave-ana"), Role: entity.RoleBarista, Status: entity.UserStatusActive}))
	require.NoError(t, store.Users().Create(ctx, &entity.User{ID: "usr-2", BranchID: "br-1", Name: "Beto", Email: "beto@cafe.co", PasswordHash: hash(t, "clave-beto"), Role: entity.RoleCashier, Status: entity.UserStatusInactive}))
	deny := &memDenylist{ids: map[string]time.Time{}}
	return auth.NewAuthUseCase(store.Admins(), store.Users(), deny, auth.JWTConfig{Secret: secret, ExpMinutes: 60, Issuer: "cafeteria-api"}), deny
}

func TestLogin_AdministradorYUsuario(t *testing.T) {
	uc, _ := setup(t)
	ctx := context.Background()

	res, err := uc.Login(ctx, dto.LoginRequest{Email: "DUENA@cafe.co", Password: "clave-admin"})
	require.NoError(t, err)
	claims, err := jwt.Parse(secret, res.Token)
	require.NoError(t, err)
	assert.Equal(t, jwt.KindAdmin, claims.Kind)
	assert.Equal(t, "owner", claims.Role)
	assert.Empty(t, claims.BranchID)
	assert.WithinDuration(t, time.Now().Add(time.Hour), res.ExpiresAt, time.Minute)

	res, err = uc.Login(ctx, dto.LoginRequest{Email: "ana@cafe.co", Password: "clave-ana"})
	require.NoError(t, err)
	claims, err = jwt.Parse(secret, res.Token)
	require.NoError(t, err)
	assert.Equal(t, jwt.KindUser, claims.Kind)
	assert.Equal(t, "br-1", claims.BranchID)
	assert.Equal(t, "br-1", res.User.BranchID)
}

func TestLogin_CredencialesInvalidas(t *testing.T) {
	uc, _ := setup(t)
	ctx := context.Background()

	_, err := uc.Login(ctx, dto.LoginRequest{Email: "ana@cafe.co", Password: "otra"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "nadie@cafe.co", Password: "x"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized, "no revela si el email existe")

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "beto@cafe.co", Password: "clave-beto"})
	assert.ErrorIs(t, err, domain.ErrForbidden, "usuario inactivo")
}

func TestMe_SegunTipo(t *testing.T) {
	uc, _ := setup(t)
	ctx := context.Background()

	me, err := uc.Me(ctx, jwt.KindAdmin, "adm-1")
	require.NoError(t, err)
	assert.Equal(t, "duena@cafe.co", me.Email)

	me, err = uc.Me(ctx, jwt.KindUser, "usr-1")
	require.NoError(t, err)
	assert.Equal(t, "barista", me.Role)

	_, err = uc.Me(ctx, jwt.KindUser, "adm-1")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestLogout_RevocaJTI(t *testing.T) {
	uc, deny := setup(t)
	ctx := context.Background()

	res, err := uc.Login(ctx, dto.LoginRequest{Email: "ana@cafe.co", Password: "clave-ana"})
	require.NoError(t, err)
	claims, err := jwt.Parse(secret, res.Token)
	require.NoError(t, err)

	revoked, err := uc.IsRevoked(ctx, claims.ID)
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, uc.Logout(ctx, claims.ID, claims.ExpiresAt.Time))
	revoked, err = uc.IsRevoked(ctx, claims.ID)
	require.NoError(t, err)
	assert.True(t, revoked)
	assert.Len(t, deny.ids, 1)
}
