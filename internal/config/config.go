package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/altinukshini/hound-tui/internal/model"
)

const (
	DefaultServer      = "http://localhost:6080"
	DefaultTimeout     = 30 * time.Second
	DefaultCacheTTL    = 24 * time.Hour
	DefaultCacheSizeMB = 50
	DefaultHistorySize = 100
)

type Config struct {
	Server      string
	Token       string
	Timeout     time.Duration
	CacheDir    string
	CacheTTL    time.Duration
	CacheSizeMB int
	HistoryPath string
	HistorySize int
	Debug       bool
	DebugHTTP   bool
	LogFile     string

	// InitSearch pre-fills the search form when no query is given.
	InitSearch model.SearchParams
}

func (c Config) Validate() error {
	if c.Server == "" {
		return fmt.Errorf("server is required (use --server or HOUND_TUI_SERVER)")
	}
	u, err := url.Parse(c.Server)
	if err != nil || u.Host == "" {
		return fmt.Errorf("server %q is not a URL", c.Server)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative")
	}
	if c.CacheSizeMB < 0 {
		return fmt.Errorf("cache-size must not be negative")
	}
	return nil
}

// DataDir is where hound-tui keeps its state when no path is configured.
func DataDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "hound-tui")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "state", "hound-tui")
	}
	return filepath.Join(os.TempDir(), "hound-tui")
}

// ConfigDirs lists the directories searched for hound-tui.yaml, in order.
func ConfigDirs() []string {
	dirs := []string{"."}
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		dirs = append(dirs, filepath.Join(dir, "hound-tui"))
	}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, ".config", "hound-tui"))
	}
	return dirs
}
