package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/cli/go-gh/v2/pkg/tableprinter"
	"github.com/cli/go-gh/v2/pkg/term"
	"github.com/cli/go-gh/v2/pkg/text"
	"github.com/spf13/cobra"

	"github.com/altinukshini/hound-tui/internal/cache"
	"github.com/altinukshini/hound-tui/internal/ui"
)

var cacheClearAll bool

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect the repository metadata cache",
}

var cacheListCmd = &cobra.Command{
	Use:   "list",
	Short: "List cached servers",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := openCache()
		if err != nil {
			return err
		}
		entries, err := c.ListEntries()
		if err != nil {
			return err
		}
		total, err := c.TotalSize()
		if err != nil {
			return err
		}
		t := term.FromEnv()
		width, _, _ := t.Size()
		return printCache(t.Out(), t.IsTerminalOutput(), width, time.Now(), entries, total)
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Drop the cached repositories of the configured server",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		transport, c, err := newTransport(cfg, cliLogging(cfg))
		if err != nil {
			return err
		}
		if cacheClearAll {
			return c.DeleteAll()
		}
		return transport.Invalidate()
	},
}

func init() {
	cacheClearCmd.Flags().BoolVar(&cacheClearAll, "all", false, "Drop every server's entry")
	cacheCmd.AddCommand(cacheListCmd)
	cacheCmd.AddCommand(cacheClearCmd)
}

func openCache() (*cache.ReposCache, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return cache.NewReposCache(cfg.CacheDir, cfg.CacheSizeMB, cfg.CacheTTL)
}

func printCache(w io.Writer, isTTY bool, width int, now time.Time, entries []cache.CacheEntry, total int64) error {
	if len(entries) == 0 {
		fmt.Fprintln(w, "Cache is empty")
		return nil
	}

	tp := tableprinter.New(w, isTTY, width)
	tp.AddHeader([]string{"SERVER", "REPOS", "STORED", "SIZE"})
	for _, e := range entries {
		server := e.Server
		if server == "" {
			server = e.Key
		}
		tp.AddField(server)
		tp.AddField(ui.FormatNumber(e.RepoCount))
		if e.StoredAt.IsZero() {
			tp.AddField("-")
		} else {
			tp.AddField(text.RelativeTimeAgo(now, e.StoredAt))
		}
		tp.AddField(ui.FormatSize(e.Size))
		tp.EndRow()
	}
	if err := tp.Render(); err != nil {
		return err
	}
	if isTTY {
		fmt.Fprintf(w, "\nTotal: %s\n", ui.FormatSize(total))
	}
	return nil
}
