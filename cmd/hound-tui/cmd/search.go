package cmd

import (
	"fmt"
	"log"
	"strings"

	"github.com/cli/go-gh/v2/pkg/term"
	"github.com/cli/go-gh/v2/pkg/text"
	"github.com/spf13/cobra"

	"github.com/altinukshini/hound-tui/internal/ops"
	"github.com/altinukshini/hound-tui/internal/results"
	"github.com/altinukshini/hound-tui/internal/ui"
)

var searchOpts struct {
	ignoreCase   bool
	files        string
	excludeFiles string
	repos        string
	context      int
	all          bool
	format       string
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Run one search and print the results",
	Long: `Run a single search and print the matching lines.

By default the first page of files of the first repositories is printed,
the same amount the UI shows. --all keeps loading until nothing is left.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	f := searchCmd.Flags()
	f.BoolVarP(&searchOpts.ignoreCase, "ignore-case", "i", false, "Ignore case")
	f.StringVar(&searchOpts.files, "files", "", "Only search file paths matching this regexp")
	f.StringVar(&searchOpts.excludeFiles, "exclude-files", "", "Skip file paths matching this regexp")
	f.StringVar(&searchOpts.repos, "repos", "", "Comma separated repositories to search (default: all)")
	f.IntVarP(&searchOpts.context, "context", "C", 0, "Lines of context around each match (default: server's choice)")
	f.BoolVar(&searchOpts.all, "all", false, "Load every matching file of every repository")
	f.StringVar(&searchOpts.format, "format", "text", "Output format: text, html, json or yaml")
}

func runSearch(cmd *cobra.Command, args []string) error {
	format, err := parseFormat(searchOpts.format)
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	httpLog := cliLogging(cfg)

	transport, _, err := newTransport(cfg, httpLog)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext(cmd.Context())
	defer cancel()
	s := results.NewSession(transport, results.WithContext(ctx))

	if err := s.Run(s.LoadRepos()); err != nil {
		// Results still print; only web links are missing.
		log.Printf("load repos: %v", err)
	}

	p := cfg.InitSearch
	p.Query = strings.Join(args, " ")
	if cmd.Flags().Changed("ignore-case") {
		p.IgnoreCase = searchOpts.ignoreCase
	}
	if searchOpts.files != "" {
		p.FilePathInclude = searchOpts.files
	}
	if searchOpts.excludeFiles != "" {
		p.FilePathExclude = searchOpts.excludeFiles
	}
	if searchOpts.repos != "" {
		p.RepoFilter = searchOpts.repos
	}
	p.ContextLines = searchOpts.context

	call, err := s.StartSearch(p)
	if err != nil {
		return err
	}
	if err := s.Run(call); err != nil {
		return err
	}

	t := term.FromEnv()
	stderr := t.ErrOut()
	if searchOpts.all {
		_, err := ops.LoadEverything(ctx, s, func(stage string, loaded, total int) {
			if t.IsTerminalOutput() {
				fmt.Fprintf(stderr, "\rloading %s: %d/%d", stage, loaded, total)
			}
		})
		if t.IsTerminalOutput() {
			fmt.Fprint(stderr, "\r\033[K")
		}
		if err != nil {
			return err
		}
	}

	if err := writeResults(t.Out(), s, cfg.Server, format, t.IsColorEnabled()); err != nil {
		return err
	}

	if format == formatText {
		fmt.Fprintln(stderr, summary(s))
		if !searchOpts.all && pending(s) {
			fmt.Fprintln(stderr, "More results are available; rerun with --all to load them.")
		}
	}
	return nil
}

// summary is the one line footer of a text search, e.g.
// "12 files in 3 repos (41ms)".
func summary(s *results.Session) string {
	files, repos := 0, len(s.Results())
	for _, r := range s.Results() {
		files += r.FilesWithMatch
	}
	if repos == 0 {
		return fmt.Sprintf("No results for %q", s.Params().Query)
	}
	line := fmt.Sprintf("%s in %s", text.Pluralize(files, "file"), text.Pluralize(repos, "repo"))
	if st := s.Stats(); st != nil {
		line += fmt.Sprintf(" (%s)", ui.FormatMillis(st.TotalDuration))
	}
	return line
}

func pending(s *results.Session) bool {
	if s.HasOtherRepos() {
		return true
	}
	for _, r := range s.Results() {
		if s.HasMore(r.Name) {
			return true
		}
	}
	return false
}
