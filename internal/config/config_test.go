package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.True(t, cfg.IsDevelopment())
	assert.Len(t, cfg.Languages, 2)
}

func TestLoadYAMLAndEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := []byte(`
server:
  port: 9000
  env: production
jwt:
  secret: from-file
moderation:
  auto_verify_role: moderator
languages:
  - code: fr
    name: Français
`)
	require.NoError(t, os.WriteFile(path, yaml, 0o600))

	t.Setenv("SERVER_PORT", "9100")
	t.Setenv("ES_ADDRESSES", "http://es1:9200, http://es2:9200")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9100, cfg.Server.Port)
	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, "moderator", cfg.Moderation.AutoVerifyRole)
	assert.True(t, cfg.Elasticsearch.Enabled)
	assert.Equal(t, []string{"http://es1:9200", "http://es2:9200"}, cfg.Elasticsearch.Addresses)
	require.Len(t, cfg.Languages, 1)
	assert.Equal(t, "fr", cfg.Languages[0].Code)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Moderation.AutoVerifyRole = "wizard"
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Server.Env = "production"
	assert.Error(t, cfg.Validate(), "secret required in production")
}

func TestLoadDotEnvPrefersSpecificFiles(t *testing.T) {
	assert.Equal(t, []string{".env.local", ".env"}, DotEnvFiles(""))

	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	require.NoError(t, os.WriteFile(".env", []byte("FP_DOTENV_PROBE=base\n"), 0o600))
	require.NoError(t, os.WriteFile(".env.staging", []byte("FP_DOTENV_PROBE=staging\n"), 0o600))
	t.Setenv("FP_DOTENV_PROBE", "")
	require.NoError(t, os.Unsetenv("FP_DOTENV_PROBE"))

	loaded := LoadDotEnv("staging")
	assert.Equal(t, []string{".env.staging", ".env"}, loaded)
	assert.Equal(t, "staging", os.Getenv("FP_DOTENV_PROBE"))
}
