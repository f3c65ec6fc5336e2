package multistorage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "multistorage", cfg.MainKey)
	assert.False(t, cfg.Session)
	assert.Equal(t, DriverFile, cfg.Driver)
	assert.Equal(t, "./multistorage", cfg.FilePath)
	assert.Equal(t, StorageTypeLocal, cfg.storageType())
}

func TestConfig_WithDefaults(t *testing.T) {
	cases := map[string]struct {
		in   Config
		want string
	}{
		"file from main key":    {Config{MainKey: "test"}, "./test"},
		"bolt adds extension":   {Config{MainKey: "test", Driver: DriverBolt}, "./test.db"},
		"sqlite adds extension": {Config{Driver: DriverSQLite}, "./multistorage.db"},
		"explicit path kept":    {Config{MainKey: "test", Driver: DriverBolt, FilePath: "/tmp/x"}, "/tmp/x"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.in.withDefaults().FilePath)
		})
	}
}

func TestConfig_Merge(t *testing.T) {
	base := Config{MainKey: "base", FilePath: "/data", Format: "json"}
	base.Merge(&Config{MainKey: "override", Session: true, Driver: DriverBolt})

	assert.Equal(t, Config{
		MainKey:  "override",
		Session:  true,
		FilePath: "/data",
		Driver:   DriverBolt,
		Format:   "json",
	}, base)

	base.Merge(&Config{Serializer: YAML})
	assert.Equal(t, YAML, base.Serializer)
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "multistorage.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
main_key: settings
session: false
file_path: /var/lib/app/settings.db
driver: sqlite
format: yaml
`), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, Config{
		MainKey:  "settings",
		FilePath: "/var/lib/app/settings.db",
		Driver:   DriverSQLite,
		Format:   "yaml",
	}, cfg)
}

func TestLoadConfig_Errors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("main_key: [unclosed"), 0o644))
	_, err = LoadConfig(path)
	assert.Error(t, err)
}
