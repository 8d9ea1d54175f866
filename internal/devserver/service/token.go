package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/amanihealth/amani/internal/devserver/domain"
)

// DefaultTokenTTL is the access token lifetime when none is configured.
const DefaultTokenTTL = 24 * time.Hour

// TokenService mints and verifies HS256 access tokens. It implements
// httpx.TokenVerifier for the authentication middleware.
type TokenService struct {
	Secret []byte
	Issuer string
	TTL    time.Duration
}

func (s *TokenService) ttl() time.Duration {
	if s.TTL != 0 {
		return s.TTL
	}
	return DefaultTokenTTL
}

// Mint issues a signed token for the user. Returns the token and its
// lifetime in seconds.
func (s *TokenService) Mint(u domain.User) (string, int, error) {
	ttl := s.ttl()
	now := time.Now()

	claims := jwt.MapClaims{
		"iss":  s.Issuer,
		"sub":  u.ID,
		"role": u.Role,
		"iat":  now.Unix(),
		"exp":  now.Add(ttl).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.Secret)
	if err != nil {
		return "", 0, fmt.Errorf("signing token: %w", err)
	}
	return token, int(ttl.Seconds()), nil
}

// VerifyToken validates signature, issuer and expiry and returns the
// subject and role claims.
func (s *TokenService) VerifyToken(tokenString string) (subject, role string, err error) {
	token, err := jwt.Parse(tokenString,
		func(t *jwt.Token) (any, error) { return s.Secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.Issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return "", "", err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", errors.New("unexpected claims type")
	}
	subject, _ = claims["sub"].(string)
	role, _ = claims["role"].(string)
	if subject == "" {
		return "", "", errors.New("token missing subject")
	}
	return subject, role, nil
}
