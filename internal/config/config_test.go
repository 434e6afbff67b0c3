package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		configPathEnv, appEnvEnv, httpAddrEnv, logLevelEnv, leadsCSVPathEnv,
		databaseDriverEnv, databaseDSNEnv, emailModeEnv, sendGridAPIKeyEnv,
		fromEmailEnv, thresholdEnv, telegramTokenEnv, telegramChatIDEnv,
	} {
		t.Setenv(key, "")
	}
	t.Chdir(t.TempDir())
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg := Load()
	assert.Equal(t, ":8001", cfg.Server.Addr)
	assert.Equal(t, "data/leads.csv", cfg.Leads.CSVPath)
	assert.Equal(t, EmailModeMock, cfg.Email.Mode)
	assert.Equal(t, "demo@easyfinder.ai", cfg.Email.FromEmail)
	assert.Zero(t, cfg.Scoring.EmailThreshold)
	assert.Empty(t, cfg.Database.Driver)
	assert.False(t, cfg.Email.Live())
	assert.False(t, cfg.Notifications.Telegram.Enabled())
}

func TestLoadYAMLAndEnv(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  addr: ":9000"
scoring:
  emailThreshold: 80
database:
  driver: sqlite3
  dsn: /tmp/easyfinder.db
email:
  mode: live
scheduler:
  interval: 1h
`), 0o600))

	t.Setenv(configPathEnv, path)
	t.Setenv(sendGridAPIKeyEnv, "sg-key")
	t.Setenv(httpAddrEnv, ":9100")

	cfg := Load()
	assert.Equal(t, ":9100", cfg.Server.Addr, "env wins over file")
	assert.Equal(t, 80, cfg.Scoring.EmailThreshold)
	assert.Equal(t, "sqlite3", cfg.Database.Driver)
	assert.Equal(t, time.Hour, cfg.Scheduler.Interval)
	assert.True(t, cfg.Email.Live())
	assert.Equal(t, "EasyFinder AI", cfg.Email.FromName, "unset fields keep defaults")
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)

	// godotenv never overrides variables that are already set, even to "".
	require.NoError(t, os.Unsetenv(leadsCSVPathEnv))
	require.NoError(t, os.WriteFile(".env", []byte("LEADS_CSV_PATH=/srv/leads.csv\n"), 0o600))

	cfg := Load()
	assert.Equal(t, "/srv/leads.csv", cfg.Leads.CSVPath)
}

func TestLoadInvalidThresholdIgnored(t *testing.T) {
	clearEnv(t)
	t.Setenv(thresholdEnv, "high")

	assert.Zero(t, Load().Scoring.EmailThreshold)
}

func TestReadFileErrors(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [oops"), 0o600))
	_, err = ReadFile(path)
	assert.Error(t, err)
}

func TestLoadFromExplicitPath(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "cli.yaml")
	require.NoError(t, os.WriteFile(path, []byte("leads:\n  csvPath: /data/cli.csv\n"), 0o600))

	assert.Equal(t, "/data/cli.csv", LoadFrom(path).Leads.CSVPath)
}
