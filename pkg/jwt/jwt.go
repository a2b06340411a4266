package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Tipos de principal que puede representar un token.
const (
	KindAdmin = "admin" // administradores globales (tabla admins)
	KindUser  = "user"  // personal de sucursal (tabla users)
)

// ErrEmptySecret se devuelve al generar o validar sin secret configurado.
var ErrEmptySecret = errors.New("jwt: secret vacío")

// Claims incluye los claims estándar JWT más los campos propios de la aplicación.
// Role y BranchID viajan en el token para que la política de autorización no consulte la DB.
type Claims struct {
	jwt.RegisteredClaims
	UserID   string `json:"user_id"`
	BranchID string `json:"branch_id,omitempty"`
	Role     string `json:"role"`
	Kind     string `json:"kind"`
}

// Subject datos del principal a firmar.
type Subject struct {
	UserID   string
	BranchID string
	Role     string
	Kind     string
}

// Token resultado de Generate: token firmado, identificador (jti) y expiración.
type Token struct {
	Value     string
	ID        string
	ExpiresAt time.Time
}

// Generate genera un token JWT HS256 firmado con expiración e identificador único (jti).
func Generate(secret string, sub Subject, issuer string, expMinutes int) (*Token, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	now := time.Now()
	exp := now.Add(time.Duration(expMinutes) * time.Minute)
	jti := uuid.New().String()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Issuer:    issuer,
			Subject:   sub.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
		UserID:   sub.UserID,
		BranchID: sub.BranchID,
		Role:     sub.Role,
		Kind:     sub.Kind,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return nil, fmt.Errorf("jwt: firmar: %w", err)
	}
	return &Token{Value: signed, ID: jti, ExpiresAt: exp}, nil
}

// Parse valida firma y expiración y devuelve los claims.
func Parse(secret, tokenString string) (*Claims, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("claims inválidos")
	}
	return claims, nil
}
