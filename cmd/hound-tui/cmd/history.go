package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/cli/go-gh/v2/pkg/tableprinter"
	"github.com/cli/go-gh/v2/pkg/term"
	"github.com/cli/go-gh/v2/pkg/text"
	"github.com/spf13/cobra"

	"github.com/altinukshini/hound-tui/internal/history"
	"github.com/altinukshini/hound-tui/internal/params"
	"github.com/altinukshini/hound-tui/internal/ui"
)

var historyOpts struct {
	clear bool
	limit int
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent searches on the configured server",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().BoolVar(&historyOpts.clear, "clear", false, "Forget every search on the configured server")
	historyCmd.Flags().IntVarP(&historyOpts.limit, "limit", "L", 20, "Maximum number of searches to show")
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	server := cfg.Server

	store, err := openHistory(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	if historyOpts.clear {
		return store.Clear(server)
	}

	entries, err := store.Recent(server, historyOpts.limit)
	if err != nil {
		return err
	}
	t := term.FromEnv()
	width, _, _ := t.Size()
	return printHistory(t.Out(), t.IsTerminalOutput(), width, time.Now(), server, entries)
}

func printHistory(w io.Writer, isTTY bool, width int, now time.Time, server string, entries []history.Entry) error {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No searches yet")
		return nil
	}

	tp := tableprinter.New(w, isTTY, width)
	tp.AddHeader([]string{"QUERY", "OPTIONS", "REPOS", "WHEN", "LINK"})
	for _, e := range entries {
		p := e.Params()
		tp.AddField(p.Query)
		tp.AddField(ui.SearchFlags(p))
		tp.AddField(fmt.Sprintf("%d", e.Repos))
		if isTTY {
			tp.AddField(text.RelativeTimeAgo(now, e.At))
		} else {
			tp.AddField(e.At.Format(time.RFC3339))
		}
		tp.AddField(params.Link(server, p))
		tp.EndRow()
	}
	return tp.Render()
}
