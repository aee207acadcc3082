package config

import (
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/altinukshini/hound-tui/internal/model"
	"github.com/altinukshini/hound-tui/internal/params"
)

// EnvPrefix prefixes environment overrides, e.g. HOUND_TUI_SERVER.
const EnvPrefix = "HOUND_TUI"

// New returns a viper instance with defaults set, reading hound-tui.yaml
// from ConfigDirs and HOUND_TUI_* environment variables.
func New() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetConfigName("hound-tui")
	v.SetConfigType("yaml")
	for _, dir := range ConfigDirs() {
		v.AddConfigPath(dir)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	return v
}

func SetDefaults(v *viper.Viper) {
	v.SetDefault("server", DefaultServer)
	v.SetDefault("token", "")
	v.SetDefault("timeout", DefaultTimeout)

	v.SetDefault("cache-dir", filepath.Join(DataDir(), "cache"))
	v.SetDefault("cache-ttl", DefaultCacheTTL)
	v.SetDefault("cache-size", DefaultCacheSizeMB)

	v.SetDefault("history-path", filepath.Join(DataDir(), "history.db"))
	v.SetDefault("history-size", DefaultHistorySize)

	v.SetDefault("debug", false)
	v.SetDefault("debug-http", false)
	v.SetDefault("log-file", filepath.Join(DataDir(), "debug.log"))

	v.SetDefault("init-search.q", "")
	v.SetDefault("init-search.i", params.False)
	v.SetDefault("init-search.files", "")
	v.SetDefault("init-search.excludeFiles", "")
	v.SetDefault("init-search.repos", "*")
}

// ReadFile reads the config file if one exists. A missing file is not an
// error; defaults, flags and the environment still apply.
func ReadFile(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

// Load builds a Config from v and validates it.
func Load(v *viper.Viper) (Config, error) {
	cfg := Config{
		Server:      strings.TrimSpace(v.GetString("server")),
		Token:       v.GetString("token"),
		Timeout:     v.GetDuration("timeout"),
		CacheDir:    v.GetString("cache-dir"),
		CacheTTL:    v.GetDuration("cache-ttl"),
		CacheSizeMB: v.GetInt("cache-size"),
		HistoryPath: v.GetString("history-path"),
		HistorySize: v.GetInt("history-size"),
		Debug:       v.GetBool("debug"),
		DebugHTTP:   v.GetBool("debug-http"),
		LogFile:     v.GetString("log-file"),
		InitSearch:  initSearch(v),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func initSearch(v *viper.Viper) model.SearchParams {
	repos := v.GetString("init-search.repos")
	if repos == "" {
		repos = "*"
	}
	return model.SearchParams{
		Query:           v.GetString("init-search.q"),
		IgnoreCase:      params.ParseBool(v.GetString("init-search.i")),
		FilePathInclude: v.GetString("init-search.files"),
		FilePathExclude: v.GetString("init-search.excludeFiles"),
		RepoFilter:      repos,
	}
}

// Watch reloads the config file whenever it changes and hands the new
// Config to onChange. Invalid edits are logged and ignored.
func Watch(v *viper.Viper, onChange func(Config)) {
	if v.ConfigFileUsed() == "" {
		return
	}
	v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		cfg, err := Load(v)
		if err != nil {
			log.Printf("config: ignoring %s: %v", e.Name, err)
			return
		}
		onChange(cfg)
	})
	v.WatchConfig()
}
