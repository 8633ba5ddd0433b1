package app

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) Config {
	dir := t.TempDir()
	return Config{
		Issuer:              "barangay-test",
		StoreDriver:         DriverSQLite,
		DatabaseFile:        filepath.Join(dir, "portal.db"),
		PepperFile:          filepath.Join(dir, "pepper"),
		SigningKeyFile:      filepath.Join(dir, "keys", "signing.pem"),
		AccessTokenTTL:      time.Minute,
		QRSize:              300,
		Env:                 "test",
		LogLevel:            "error",
		LogFormat:           "json",
		Port:                0,
		ShutdownGracePeriod: time.Second,
	}
}

func TestNewServesProbes(t *testing.T) {
	a, err := New(testConfig(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.db.Close() })

	for _, path := range []string{"/livez", "/readyz", "/.well-known/jwks.json"} {
		rec := httptest.NewRecorder()
		a.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, http.StatusOK, rec.Code, path)
	}

	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/residents", nil))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSigningKeySurvivesRestart(t *testing.T) {
	cfg := testConfig(t)

	first, err := New(cfg)
	require.NoError(t, err)
	kid := first.keyManager.Signer.KID()
	require.NoError(t, first.db.Close())

	second, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = second.db.Close() })

	require.Equal(t, kid, second.keyManager.Signer.KID())
}

func TestNewRejectsBadDriver(t *testing.T) {
	cfg := testConfig(t)

	cfg.StoreDriver = "postgres"
	_, err := New(cfg)
	require.ErrorContains(t, err, "unknown STORE_DRIVER")

	cfg.StoreDriver = DriverMongo
	_, err = New(cfg)
	require.ErrorContains(t, err, "MONGO_URI")
}
