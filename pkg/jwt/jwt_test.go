package jwt_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgjwt "github.com/jhoicas/Cafeteria-api/pkg/jwt"
)

const secret = "test-secret-key-for-unit-tests"

func TestGenerateAndParse_ConservaClaims(t *testing.T) {
	sub := pkgjwt.Subject{UserID: "u-1", BranchID: "b-1", Role: "branch_manager", Kind: pkgjwt.KindUser}
	tok, err := pkgjwt.Generate(secret, sub, "cafeteria-test", 60)
	require.NoError(t, err)
	require.NotEmpty(t, tok.ID)
	assert.WithinDuration(t, time.Now().Add(time.Hour), tok.ExpiresAt, 5*time.Second)

	claims, err := pkgjwt.Parse(secret, tok.Value)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "b-1", claims.BranchID)
	assert.Equal(t, "branch_manager", claims.Role)
	assert.Equal(t, pkgjwt.KindUser, claims.Kind)
	assert.Equal(t, tok.ID, claims.ID)
}

func TestParse_TokenExpirado(t *testing.T) {
	tok, err := pkgjwt.Generate(secret, pkgjwt.Subject{UserID: "u", Role: "admin", Kind: pkgjwt.KindAdmin}, "x", -1)
	require.NoError(t, err)

	_, err = pkgjwt.Parse(secret, tok.Value)
	assert.Error(t, err, "token expirado debe retornar error")
}

func TestParse_SecretIncorrecto(t *testing.T) {
	tok, err := pkgjwt.Generate(secret, pkgjwt.Subject{UserID: "u", Role: "admin", Kind: pkgjwt.KindAdmin}, "x", 10)
	require.NoError(t, err)

	_, err = pkgjwt.Parse("otro-secret", tok.Value)
	assert.Error(t, err)
}

func TestGenerate_SecretVacio(t *testing.T) {
	_, err := pkgjwt.Generate("", pkgjwt.Subject{}, "x", 10)
	assert.ErrorIs(t, err, pkgjwt.ErrEmptySecret)
}

func TestGenerate_JTIUnicoPorToken(t *testing.T) {
	sub := pkgjwt.Subject{UserID: "u", Role: "admin", Kind: pkgjwt.KindAdmin}
	a, err := pkgjwt.Generate(secret, sub, "x", 10)
	require.NoError(t, err)
	b, err := pkgjwt.Generate(secret, sub, "x", 10)
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)
}
