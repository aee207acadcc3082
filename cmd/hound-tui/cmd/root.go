package cmd

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/debug"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/altinukshini/hound-tui/internal/api"
	"github.com/altinukshini/hound-tui/internal/cache"
	"github.com/altinukshini/hound-tui/internal/config"
	"github.com/altinukshini/hound-tui/internal/history"
	"github.com/altinukshini/hound-tui/internal/model"
	"github.com/altinukshini/hound-tui/internal/params"
	"github.com/altinukshini/hound-tui/internal/results"
	"github.com/altinukshini/hound-tui/internal/tui"
	"github.com/altinukshini/hound-tui/internal/ui"
)

var version = "dev"

func init() {
	if version != "dev" {
		return
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		version = info.Main.Version
	}
}

var (
	vip        = config.New()
	configFile string
	link       string
)

var rootCmd = &cobra.Command{
	Use:   "hound-tui [query]",
	Short: "Terminal client for Hound code search",
	Long: `hound-tui searches a Hound server from the terminal.

Without a subcommand it opens the interactive UI. A query given on the
command line, or a search link passed with --link, runs right away.`,
	Args:         cobra.ArbitraryArgs,
	SilenceUsage: true,
	RunE:         runTUI,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if configFile != "" {
			vip.SetConfigFile(configFile)
		}
		return config.ReadFile(vip)
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "Config file (default: hound-tui.yaml in . or ~/.config/hound-tui)")
	flags.String("server", config.DefaultServer, "Hound server base URL")
	flags.String("token", "", "Bearer token for servers behind an auth proxy")
	flags.Duration("timeout", config.DefaultTimeout, "HTTP request timeout")
	flags.String("cache-dir", vip.GetString("cache-dir"), "Repository metadata cache directory")
	flags.Duration("cache-ttl", config.DefaultCacheTTL, "How long cached repository metadata stays fresh")
	flags.Int("cache-size", config.DefaultCacheSizeMB, "Max repository metadata cache size in MB")
	flags.String("history-path", vip.GetString("history-path"), "Search history database")
	flags.Int("history-size", config.DefaultHistorySize, "Searches kept per server")
	flags.Bool("debug", false, "Write debug logs to --log-file")
	flags.Bool("debug-http", false, "Log HTTP requests and responses")
	flags.String("log-file", vip.GetString("log-file"), "Debug log file used by the UI")

	if err := vip.BindPFlags(flags); err != nil {
		panic(err)
	}

	rootCmd.Flags().StringVar(&link, "link", "", "Open a Hound search link")

	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(reposCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(versionCmd)
}

// startParams picks the first search of the UI: a link wins over a query
// given as arguments, and either falls back to the configured defaults.
func startParams(cfg config.Config, link string, args []string) (model.SearchParams, error) {
	start := cfg.InitSearch
	if link != "" {
		p, err := params.FromURL(link, start)
		if err != nil {
			return start, fmt.Errorf("parse link: %w", err)
		}
		return p, nil
	}
	if q := strings.TrimSpace(strings.Join(args, " ")); q != "" {
		start.Query = q
	}
	return start, nil
}

// newTransport builds the Hound client with the repository metadata cache
// in front of it.
func newTransport(cfg config.Config, httpLog io.Writer) (*cache.CachingTransport, *cache.ReposCache, error) {
	client, err := api.NewClient(api.Options{
		Server:     cfg.Server,
		Token:      cfg.Token,
		Timeout:    cfg.Timeout,
		UserAgent:  "hound-tui/" + version,
		Log:        httpLog,
		LogVerbose: httpLog != nil,
	})
	if err != nil {
		return nil, nil, err
	}

	c, err := cache.NewReposCache(cfg.CacheDir, cfg.CacheSizeMB, cfg.CacheTTL)
	if err != nil {
		return nil, nil, err
	}
	if err := c.Evict(); err != nil {
		log.Printf("cache: evict: %v", err)
	}
	return cache.NewCachingTransport(client, c, client.Server()), c, nil
}

func openHistory(cfg config.Config) (*history.Store, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.HistoryPath), 0o755); err != nil {
		return nil, fmt.Errorf("create history dir: %w", err)
	}
	return history.Open(cfg.HistoryPath, cfg.HistorySize)
}

// cliLogging sends logs to stderr with --debug and discards them otherwise.
// The returned writer receives HTTP dumps and is nil without --debug-http.
func cliLogging(cfg config.Config) io.Writer {
	if cfg.Debug {
		log.SetOutput(os.Stderr)
	} else {
		log.SetOutput(io.Discard)
	}
	if cfg.DebugHTTP {
		return os.Stderr
	}
	return nil
}

// signalContext is cancelled on the first interrupt.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt)
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(vip)
	if err != nil {
		return err
	}

	// Anything written to the terminal would corrupt the alt screen.
	var httpLog io.Writer
	log.SetOutput(io.Discard)
	if cfg.Debug || cfg.DebugHTTP {
		if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o755); err != nil {
			return fmt.Errorf("create log dir: %w", err)
		}
		f, err := tea.LogToFile(cfg.LogFile, "hound-tui")
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		if !cfg.Debug {
			log.SetOutput(io.Discard)
		}
		if cfg.DebugHTTP {
			httpLog = f
		}
	}

	start, err := startParams(cfg, link, args)
	if err != nil {
		return err
	}

	transport, _, err := newTransport(cfg, httpLog)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	session := results.NewSession(transport, results.WithContext(ctx))

	store, err := openHistory(cfg)
	if err != nil {
		log.Printf("history disabled: %v", err)
	} else {
		defer store.Close()
	}

	app := tui.NewApp(cfg, session, store, transport, start)
	defer app.Close()

	p := tea.NewProgram(app, tea.WithAltScreen())
	config.Watch(vip, func(c config.Config) {
		p.Send(ui.ConfigReloadedMsg{Config: c})
	})
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

// loadConfig reads the configuration for a one-shot subcommand.
func loadConfig() (config.Config, error) {
	return config.Load(vip)
}
