package cryptox

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func setTestPepper(t *testing.T) {
	t.Helper()
	SetPepperPath(filepath.Join(t.TempDir(), "pepper"))
	require.NoError(t, ReloadPepper())
}

func TestHashAndVerify(t *testing.T) {
	setTestPepper(t)

	encoded, err := Hash("1234")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(encoded, "$argon2id$v=19$"))

	require.NoError(t, Verify("1234", encoded))
	require.ErrorIs(t, Verify("4321", encoded), ErrMismatch)
}

func TestHashIsSalted(t *testing.T) {
	setTestPepper(t)

	a, err := Hash("0000")
	require.NoError(t, err)
	b, err := Hash("0000")
	require.NoError(t, err)

	// Fresh salt per call, same secret verifies against both.
	require.NotEqual(t, a, b)
	require.NoError(t, Verify("0000", a))
	require.NoError(t, Verify("0000", b))
}

func TestVerifyRejectsMalformedHash(t *testing.T) {
	setTestPepper(t)

	for name, encoded := range map[string]string{
		"empty":         "",
		"not argon2id":  "$bcrypt$v=19$m=19456,t=2,p=1$c2FsdA$aGFzaA",
		"wrong version": "$argon2id$v=18$m=19456,t=2,p=1$c2FsdA$aGFzaA",
		"missing parts": "$argon2id$v=19$m=19456,t=2,p=1",
		"bad salt":      "$argon2id$v=19$m=19456,t=2,p=1$!!!$aGFzaA",
	} {
		t.Run(name, func(t *testing.T) {
			err := Verify("1234", encoded)
			require.Error(t, err)
			require.NotErrorIs(t, err, ErrMismatch)
		})
	}
}

func TestPepperPersistsAcrossReload(t *testing.T) {
	SetPepperPath(filepath.Join(t.TempDir(), "pepper"))
	require.NoError(t, ReloadPepper())

	encoded, err := Hash("7777")
	require.NoError(t, err)

	// Same file, same pepper: prior hashes still verify.
	require.NoError(t, ReloadPepper())
	require.NoError(t, Verify("7777", encoded))
}
