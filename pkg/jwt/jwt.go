package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims son los claims que emite el proveedor de identidad (compatible con Supabase Auth).
// Subject es el UUID del usuario; el rol de aplicación NO viaja en el token, se lee de profiles.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
	// Role es el rol de Postgres del proveedor ("authenticated"), no el rol de la aplicación.
	Role string `json:"role,omitempty"`
}

// Options parámetros de emisión y validación.
type Options struct {
	Secret     string
	Issuer     string // vacío = no se valida
	Audience   string // vacío = no se valida
	Expiration time.Duration
}

// Generate firma un token HS256 para userID. Se usa en tests y en desarrollo local.
func Generate(opts Options, userID, email string) (string, error) {
	if opts.Secret == "" {
		return "", fmt.Errorf("jwt: secret vacío")
	}
	if opts.Expiration <= 0 {
		opts.Expiration = time.Hour
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    opts.Issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(opts.Expiration)),
		},
		Email: email,
		Role:  "authenticated",
	}
	if opts.Audience != "" {
		claims.Audience = jwt.ClaimStrings{opts.Audience}
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(opts.Secret))
}

// Parse valida firma, expiración y, si están configurados, issuer y audience.
// Retorna error si el token es inválido o no trae subject.
func Parse(opts Options, tokenString string) (*Claims, error) {
	if opts.Secret == "" {
		return nil, fmt.Errorf("jwt: secret vacío")
	}
	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if opts.Issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(opts.Issuer))
	}
	if opts.Audience != "" {
		parserOpts = append(parserOpts, jwt.WithAudience(opts.Audience))
	}
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(opts.Secret), nil
	}, parserOpts...)
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("jwt: token inválido")
	}
	if claims.Subject == "" {
		return nil, errors.New("jwt: token sin subject")
	}
	return claims, nil
}
