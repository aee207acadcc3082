package cmd

import (
	"fmt"
	"io"
	"sort"

	"github.com/cli/go-gh/v2/pkg/tableprinter"
	"github.com/cli/go-gh/v2/pkg/term"
	"github.com/spf13/cobra"

	"github.com/altinukshini/hound-tui/internal/model"
	"github.com/altinukshini/hound-tui/internal/repourl"
)

var reposRefresh bool

var reposCmd = &cobra.Command{
	Use:   "repos",
	Short: "List the repositories the server indexes",
	Args:  cobra.NoArgs,
	RunE:  runRepos,
}

func init() {
	reposCmd.Flags().BoolVar(&reposRefresh, "refresh", false, "Ignore the cached list and ask the server")
}

func runRepos(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	transport, _, err := newTransport(cfg, cliLogging(cfg))
	if err != nil {
		return err
	}
	if reposRefresh {
		if err := transport.Invalidate(); err != nil {
			return err
		}
	}

	ctx, cancel := signalContext(cmd.Context())
	defer cancel()
	repos, err := transport.Repos(ctx)
	if err != nil {
		return err
	}

	t := term.FromEnv()
	width, _, _ := t.Size()
	return printRepos(t.Out(), t.IsTerminalOutput(), width, repos)
}

func printRepos(w io.Writer, isTTY bool, width int, repos map[string]model.RepoInfo) error {
	if len(repos) == 0 {
		fmt.Fprintln(w, "No repositories indexed")
		return nil
	}

	names := make([]string, 0, len(repos))
	for name := range repos {
		names = append(names, name)
	}
	sort.Strings(names)

	tp := tableprinter.New(w, isTTY, width)
	tp.AddHeader([]string{"NAME", "URL", "WEB"})
	for _, name := range names {
		info := repos[name]
		info.Name = name
		tp.AddField(name)
		tp.AddField(info.URL)
		tp.AddField(repourl.Home(info))
		tp.EndRow()
	}
	return tp.Render()
}
