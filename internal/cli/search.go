package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/matzehuels/archquery/pkg/catalog"
	"github.com/matzehuels/archquery/pkg/errors"
	"github.com/matzehuels/archquery/pkg/integrations/aur"
)

// searchOpts holds the command-line flags for the search command.
type searchOpts struct {
	by          string
	limit       int
	json        bool
	scores      bool
	interactive bool
	refresh     bool
	partial     bool
}

func (c *CLI) searchCommand() *cobra.Command {
	var opts searchOpts

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the official repositories and the AUR",
		Long: `Search the official repositories and the AUR in parallel.

Results from both registries are merged and ranked by how well their names
match the query. If either registry fails, the search fails unless
--partial (or partial_results in the config) is set.

Examples:
  archquery search linux
  archquery search --limit 5 --scores python
  archquery search --by maintainer jguer`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runSearch(cmd, strings.Join(args, " "), opts)
		},
	}

	cmd.Flags().StringVar(&opts.by, "by", "", "AUR search field: "+joinFields())
	cmd.Flags().IntVarP(&opts.limit, "limit", "n", 0, "maximum number of results (0 for all)")
	cmd.Flags().BoolVar(&opts.json, "json", false, "print results as JSON")
	cmd.Flags().BoolVar(&opts.scores, "scores", false, "show ranking scores")
	cmd.Flags().BoolVarP(&opts.interactive, "interactive", "i", false, "pick a result and show its details")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "bypass cache")
	cmd.Flags().BoolVar(&opts.partial, "partial", false, "return one registry's results if the other fails")

	_ = cmd.RegisterFlagCompletionFunc("by", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		fields := aur.Fields()
		names := make([]string, len(fields))
		for i, f := range fields {
			names[i] = f.String()
		}
		return names, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func joinFields() string {
	var names []string
	for _, f := range aur.Fields() {
		names = append(names, f.String())
	}
	return strings.Join(names, ", ")
}

func (c *CLI) runSearch(cmd *cobra.Command, query string, opts searchOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	by, err := aur.ParseBy(opts.by)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidArgument, err, "invalid --by")
	}
	if opts.limit < 0 {
		return errors.New(errors.ErrCodeInvalidArgument, "--limit cannot be negative")
	}

	s, err := c.newSession(ctx, opts.refresh, func(cfg *Config) {
		if cmd.Flags().Changed("partial") {
			cfg.PartialResults = opts.partial
		}
	})
	if err != nil {
		return err
	}
	defer s.Close()

	prog := newProgress(logger)
	results, err := spin(ctx, opts.json || !isTerminal(os.Stderr), "Searching "+query+"...", func() ([]catalog.Scored, error) {
		return s.catalog.SearchWith(ctx, query, catalog.SearchOptions{By: by, Limit: opts.limit})
	})
	if err != nil {
		return err
	}
	logger.Debugf("search %q returned %d results", query, len(results))

	out := cmd.OutOrStdout()
	switch {
	case opts.json:
		return writeResultsJSON(out, results)
	case opts.interactive:
		return c.pick(ctx, out, s.catalog, results)
	}

	if len(results) == 0 {
		printWarning(out, "No packages match %q", query)
		return nil
	}
	fmt.Fprintln(out, renderResults(results, opts.scores))
	prog.done(pluralize(len(results), "package"))
	return nil
}

func writeResultsJSON(w io.Writer, results []catalog.Scored) error {
	if results == nil {
		results = []catalog.Scored{}
	}
	return writeJSON(w, results)
}

// pick shows the interactive result picker and prints the details of the
// chosen record.
func (c *CLI) pick(ctx context.Context, w io.Writer, cat *catalog.Catalog, results []catalog.Scored) error {
	if len(results) == 0 {
		printWarning(w, "Nothing to pick from")
		return nil
	}
	final, err := tea.NewProgram(newPickerModel(results), tea.WithContext(ctx)).Run()
	if err != nil {
		return err
	}
	m, ok := final.(pickerModel)
	if !ok || m.selected == nil {
		return nil
	}
	pkg, err := cat.Lookup(ctx, *m.selected)
	if err != nil {
		return err
	}
	printPackage(w, pkg)
	return nil
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func pluralize(n int, noun string) string {
	if n == 1 {
		return "Found 1 " + noun
	}
	return fmt.Sprintf("Found %d %ss", n, noun)
}
