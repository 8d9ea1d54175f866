package vault

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/amanihealth/amani/internal/localstore/drivers/memory"
	"github.com/amanihealth/amani/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func newTestVault(t *testing.T) *Vault {
	t.Helper()
	cryptox.SetPepperPath(filepath.Join(t.TempDir(), "pepper"))
	require.NoError(t, cryptox.ReloadPepper())
	return New(memory.NewStore())
}

func TestSetAndVerifyPIN(t *testing.T) {
	v := newTestVault(t)
	ctx := context.Background()

	has, err := v.HasPIN(ctx)
	require.NoError(t, err)
	require.False(t, has, "no credential before first SetPIN")

	require.NoError(t, v.SetPIN(ctx, "1234"))

	has, err = v.HasPIN(ctx)
	require.NoError(t, err)
	require.True(t, has)

	ok, err := v.VerifyPIN(ctx, "1234")
	require.NoError(t, err)
	require.True(t, ok)

	for _, wrong := range []string{"1235", "4321", "0000", "123", "12345", ""} {
		ok, err = v.VerifyPIN(ctx, wrong)
		require.NoError(t, err)
		require.False(t, ok, "pin %q must not verify", wrong)
	}
}

func TestSetPINRejectsMalformedInput(t *testing.T) {
	v := newTestVault(t)
	ctx := context.Background()

	for _, pin := range []string{"", "123", "12345", "12a4", "12.4", "١٢٣٤"} {
		require.ErrorIs(t, v.SetPIN(ctx, pin), ErrInvalidPIN, "pin %q", pin)
	}

	has, err := v.HasPIN(ctx)
	require.NoError(t, err)
	require.False(t, has, "rejected input must not persist anything")
}

func TestVerifyWithoutCredentialIsFalseNotError(t *testing.T) {
	v := newTestVault(t)

	ok, err := v.VerifyPIN(context.Background(), "1234")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestSetPINOverwrites(t *testing.T) {
	v := newTestVault(t)
	ctx := context.Background()

	require.NoError(t, v.SetPIN(ctx, "1111"))
	require.NoError(t, v.SetPIN(ctx, "2222"))

	ok, err := v.VerifyPIN(ctx, "1111")
	require.NoError(t, err)
	require.False(t, ok)

	ok, err = v.VerifyPIN(ctx, "2222")
	require.NoError(t, err)
	require.True(t, ok)
}

func TestResetPINIsIdempotent(t *testing.T) {
	v := newTestVault(t)
	ctx := context.Background()

	require.NoError(t, v.SetPIN(ctx, "9876"))
	require.NoError(t, v.ResetPIN(ctx))
	require.NoError(t, v.ResetPIN(ctx))

	has, err := v.HasPIN(ctx)
	require.NoError(t, err)
	require.False(t, has)
}

func TestChangePIN(t *testing.T) {
	v := newTestVault(t)
	ctx := context.Background()

	require.NoError(t, v.SetPIN(ctx, "1234"))

	require.ErrorIs(t, v.ChangePIN(ctx, "0000", "5678"), ErrPINMismatch)

	ok, err := v.VerifyPIN(ctx, "1234")
	require.NoError(t, err)
	require.True(t, ok, "failed change leaves the credential untouched")

	require.NoError(t, v.ChangePIN(ctx, "1234", "5678"))

	ok, err = v.VerifyPIN(ctx, "5678")
	require.NoError(t, err)
	require.True(t, ok)
}
