package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{name: "defaults", cfg: Config{Server: DefaultServer}},
		{name: "https with path", cfg: Config{Server: "https://search.example.com/hound"}},
		{name: "missing server", cfg: Config{}, wantErr: true},
		{name: "not a url", cfg: Config{Server: "localhost"}, wantErr: true},
		{name: "negative timeout", cfg: Config{Server: DefaultServer, Timeout: -time.Second}, wantErr: true},
		{name: "negative cache size", cfg: Config{Server: DefaultServer, CacheSizeMB: -1}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	v := viper.New()
	SetDefaults(v)

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, DefaultServer, cfg.Server)
	assert.Equal(t, DefaultTimeout, cfg.Timeout)
	assert.Equal(t, DefaultCacheTTL, cfg.CacheTTL)
	assert.Equal(t, DefaultCacheSizeMB, cfg.CacheSizeMB)
	assert.Equal(t, DefaultHistorySize, cfg.HistorySize)
	assert.Equal(t, "*", cfg.InitSearch.RepoFilter)
	assert.False(t, cfg.InitSearch.IgnoreCase)
	assert.Empty(t, cfg.InitSearch.Query)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hound-tui.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`server: https://hound.example.com
timeout: 5s
cache-ttl: 1h
history-size: 10
init-search:
  q: TODO
  i: fosho
  files: \.go$
  repos: hound,tui
`), 0o644))

	v := viper.New()
	SetDefaults(v)
	v.SetConfigFile(path)
	require.NoError(t, ReadFile(v))

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "https://hound.example.com", cfg.Server)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, time.Hour, cfg.CacheTTL)
	assert.Equal(t, 10, cfg.HistorySize)
	assert.Equal(t, "TODO", cfg.InitSearch.Query)
	assert.True(t, cfg.InitSearch.IgnoreCase)
	assert.Equal(t, `\.go$`, cfg.InitSearch.FilePathInclude)
	assert.Equal(t, "hound,tui", cfg.InitSearch.RepoFilter)
}

func TestReadFileMissingIsNotAnError(t *testing.T) {
	v := viper.New()
	v.SetConfigName("hound-tui")
	v.SetConfigType("yaml")
	v.AddConfigPath(t.TempDir())
	assert.NoError(t, ReadFile(v))
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("HOUND_TUI_SERVER", "http://env.example.com:6080")
	t.Setenv("HOUND_TUI_CACHE_SIZE", "7")

	cfg, err := Load(New())
	require.NoError(t, err)
	assert.Equal(t, "http://env.example.com:6080", cfg.Server)
	assert.Equal(t, 7, cfg.CacheSizeMB)
}

func TestLoadInvalid(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	v.Set("server", "")
	_, err := Load(v)
	assert.Error(t, err)
}
