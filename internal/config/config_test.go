package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	c := Load(filepath.Join(t.TempDir(), "missing.yaml"))

	assert.Equal(t, ":8800", c.Addr())
	assert.Equal(t, "info", c.Log.Level)
	assert.Equal(t, 5432, c.Database.Port)
	assert.Equal(t, 4, c.Delivery.Workers)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9000
database:
  host: db.internal
  name: standups
slack:
  client_id: abc
`), 0o600))

	c := Load(path)

	assert.Equal(t, ":9000", c.Addr())
	assert.Equal(t, "db.internal", c.Database.Host)
	assert.Equal(t, "abc", c.Slack.ClientID)
	assert.Contains(t, c.DSN(), "dbname=standups")
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "7001")
	t.Setenv("PG_HOST", "pg.internal")
	t.Setenv("SLACK_CLIENT_SECRET", "shh")

	c := Load(filepath.Join(t.TempDir(), "missing.yaml"))

	assert.Equal(t, ":7001", c.Addr())
	assert.Equal(t, "pg.internal", c.Database.Host)
	assert.Equal(t, "shh", c.Slack.ClientSecret)
}
