package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// chdir changes the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which requires Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "development", cfg.Environment)
	require.Equal(t, 8080, cfg.HTTP.Port)
	require.Equal(t, 10*time.Second, cfg.HTTP.ReadTimeout)
	require.Equal(t, "local", cfg.Storage.Driver)
	require.Equal(t, "uploads/ids", cfg.Storage.DocumentDir)
	require.Equal(t, int64(10<<20), cfg.Storage.MaxUploadBytes)
	require.Equal(t, int64(64<<20), cfg.HTTP.MaxBodyBytes)
	require.Equal(t, 8*time.Hour, cfg.Security.SessionTTL)
	require.Equal(t, 30*time.Minute, cfg.Security.RegistrationTTL)
	require.Equal(t, 5, cfg.Security.LoginBurst)
	require.Equal(t, 24*time.Hour, cfg.Jobs.OrphanGracePeriod)
}

func TestLoadFromEnv(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("LGUPORTAL_POSTGRES_DSN", "postgres://portal@localhost/portal")
	t.Setenv("LGUPORTAL_SECURITY_SESSIONTTL", "2h")
	t.Setenv("LGUPORTAL_STORAGE_DRIVER", "minio")
	t.Setenv("LGUPORTAL_HTTP_PORT", "9090")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "postgres://portal@localhost/portal", cfg.Postgres.DSN)
	require.Equal(t, 2*time.Hour, cfg.Security.SessionTTL)
	require.Equal(t, "minio", cfg.Storage.Driver)
	require.Equal(t, 9090, cfg.HTTP.Port)
}

func validConfig() AppConfig {
	return AppConfig{
		Postgres: PostgresConfig{DSN: "postgres://localhost/portal"},
		Storage:  StorageConfig{Driver: "local"},
		Security: SecurityConfig{
			SessionSecret:      "0123456789abcdef-session",
			RegistrationSecret: "0123456789abcdef-registration",
		},
	}
}

func TestValidate(t *testing.T) {
	cfg := validConfig()
	require.NoError(t, cfg.Validate())

	missingDSN := validConfig()
	missingDSN.Postgres.DSN = ""
	require.ErrorContains(t, missingDSN.Validate(), "postgres.dsn")

	sameSecrets := validConfig()
	sameSecrets.Security.RegistrationSecret = sameSecrets.Security.SessionSecret
	require.ErrorContains(t, sameSecrets.Validate(), "must differ")

	shortSecret := validConfig()
	shortSecret.Security.SessionSecret = "short"
	require.ErrorContains(t, shortSecret.Validate(), "sessionsecret")

	minio := validConfig()
	minio.Storage.Driver = "minio"
	require.ErrorContains(t, minio.Validate(), "storage.endpoint")

	tightBody := validConfig()
	tightBody.Storage.MaxUploadBytes = 10 << 20
	tightBody.HTTP.MaxBodyBytes = 10 << 20
	require.ErrorContains(t, tightBody.Validate(), "http.maxbodybytes")

	unknown := validConfig()
	unknown.Storage.Driver = "ftp"
	require.ErrorContains(t, unknown.Validate(), "unknown storage.driver")
}
