package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"job-clipper-go/internal/notion"
)

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.json"))
	require.NoError(t, err)

	assert.Equal(t, "notion", cfg.Storage.Backend)
	assert.Equal(t, 30*time.Second, cfg.Request.Timeout)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	body := `{
		"storage": {"backend": "supabase"},
		"notion": {"property_names": {"company": "Employer"}}
	}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "supabase", cfg.Storage.Backend)
	props := cfg.PropertyMap()
	assert.Equal(t, "Employer", props.Company)
	assert.Equal(t, "Position", props.Position, "unset names keep defaults")
}

func TestLoadConfig_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestValidate_UnknownBackend(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Storage.Backend = "carrier-pigeon"
	assert.Error(t, cfg.Validate())
}

func TestValidate_NonPositiveTimeout(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Request.Timeout = 0
	assert.Error(t, cfg.Validate())
}

func TestNotionCredentials_FromEnvironment(t *testing.T) {
	t.Setenv("NOTION_API_KEY", "secret")
	t.Setenv("NOTION_DATABASE_ID", "db-1")

	creds, err := DefaultConfig().NotionCredentials()
	require.NoError(t, err)
	assert.Equal(t, "secret", creds.APIKey)
	assert.Equal(t, "db-1", creds.DatabaseID)
}

func TestNotionCredentials_MissingKey(t *testing.T) {
	t.Setenv("NOTION_API_KEY", "")
	t.Setenv("NOTION_DATABASE_ID", "db-1")

	_, err := DefaultConfig().NotionCredentials()
	require.Error(t, err)
	assert.True(t, errors.Is(err, notion.ErrMissingCredentials))
}

func TestNotionCredentials_MissingDatabase(t *testing.T) {
	t.Setenv("NOTION_API_KEY", "secret")
	t.Setenv("NOTION_DATABASE_ID", "")

	_, err := DefaultConfig().NotionCredentials()
	require.Error(t, err)
	assert.True(t, errors.Is(err, notion.ErrMissingCredentials))
}

func TestNotionCredentials_ReadOnDemand(t *testing.T) {
	cfg := DefaultConfig()

	t.Setenv("NOTION_API_KEY", "")
	t.Setenv("NOTION_DATABASE_ID", "db-1")
	_, err := cfg.NotionCredentials()
	require.Error(t, err)

	// A settings change between calls is picked up without reloading.
	t.Setenv("NOTION_API_KEY", "secret")
	creds, err := cfg.NotionCredentials()
	require.NoError(t, err)
	assert.Equal(t, "secret", creds.APIKey)
}

func TestNotionCredentials_ConfigFileFallback(t *testing.T) {
	t.Setenv("NOTION_API_KEY", "")
	t.Setenv("NOTION_DATABASE_ID", "")

	cfg := DefaultConfig()
	cfg.Notion.APIKey = "file-key"
	cfg.Notion.DatabaseID = "file-db"

	creds, err := cfg.NotionCredentials()
	require.NoError(t, err)
	assert.Equal(t, "file-key", creds.APIKey)
	assert.Equal(t, "file-db", creds.DatabaseID)
}
