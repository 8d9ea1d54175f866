package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/amanihealth/amani/internal/devserver/domain"
)

func TestTokenMintAndVerify(t *testing.T) {
	t.Parallel()

	svc := &TokenService{Secret: []byte("test-secret"), Issuer: "amani-test"}
	user := domain.User{ID: "u1", Role: "mother"}

	token, expiresIn, err := svc.Mint(user)
	require.NoError(t, err)
	require.Equal(t, int(DefaultTokenTTL.Seconds()), expiresIn)

	subject, role, err := svc.VerifyToken(token)
	require.NoError(t, err)
	require.Equal(t, "u1", subject)
	require.Equal(t, "mother", role)
}

func TestTokenRejectsWrongSecret(t *testing.T) {
	t.Parallel()

	minter := &TokenService{Secret: []byte("secret-a"), Issuer: "amani-test"}
	verifier := &TokenService{Secret: []byte("secret-b"), Issuer: "amani-test"}

	token, _, err := minter.Mint(domain.User{ID: "u1", Role: "mother"})
	require.NoError(t, err)

	_, _, err = verifier.VerifyToken(token)
	require.Error(t, err)
}

func TestTokenRejectsWrongIssuer(t *testing.T) {
	t.Parallel()

	minter := &TokenService{Secret: []byte("secret"), Issuer: "someone-else"}
	verifier := &TokenService{Secret: []byte("secret"), Issuer: "amani-test"}

	token, _, err := minter.Mint(domain.User{ID: "u1", Role: "mother"})
	require.NoError(t, err)

	_, _, err = verifier.VerifyToken(token)
	require.Error(t, err)
}

func TestTokenRejectsExpired(t *testing.T) {
	t.Parallel()

	svc := &TokenService{Secret: []byte("secret"), Issuer: "amani-test", TTL: -time.Minute}

	token, _, err := svc.Mint(domain.User{ID: "u1", Role: "mother"})
	require.NoError(t, err)

	_, _, err = svc.VerifyToken(token)
	require.Error(t, err)
}
