package amani_test

import (
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	devhttp "github.com/amanihealth/amani/internal/devserver/http"
	"github.com/amanihealth/amani/internal/devserver/service"
	"github.com/amanihealth/amani/internal/devserver/store/drivers/sqlite"
	"github.com/amanihealth/amani/pkg/cryptox"
	"github.com/amanihealth/amani/pkg/healthsdk"
	"github.com/amanihealth/amani/pkg/slogx"
)

var pepperOnce sync.Once

// setupServer starts an in-process devserver backed by a throwaway sqlite
// database. Tests that simulate lost connectivity close the returned
// server mid-test; closing twice is safe.
func setupServer(t *testing.T) *httptest.Server {
	t.Helper()

	pepperOnce.Do(func() {
		cryptox.SetPepperPath(filepath.Join(t.TempDir(), "pepper"))
		require.NoError(t, cryptox.ReloadPepper())
	})

	db, err := sqlite.NewStore("file:" + filepath.Join(t.TempDir(), "amani.db"))
	require.NoError(t, err)
	require.NoError(t, db.ApplyMigrations())
	t.Cleanup(func() { _ = db.Close() })

	logger := slogx.New(slogx.Config{Service: "e2e", Level: "error", Format: "text"})

	router := devhttp.NewRouter("e2e", logger)
	router.TokenService = &service.TokenService{Secret: []byte("e2e-secret"), Issuer: "amani-e2e"}
	router.AccountService = &service.AccountService{Store: db}
	router.ProfileService = &service.ProfileService{Store: db}
	router.RecordService = &service.RecordService{Store: db}
	router.ApplyRoutes()

	ts := httptest.NewServer(router)
	t.Cleanup(ts.Close)
	return ts
}

func registerGrace(t *testing.T, baseURL string) *healthsdk.Session {
	t.Helper()

	client := healthsdk.NewSDKClient(baseURL)
	session, err := client.Register(t.Context(), healthsdk.RegisterRequest{
		FullName: "Grace Wanjiru",
		Email:    "grace@example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)
	return session
}
