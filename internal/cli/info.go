package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/archquery/pkg/catalog"
	"github.com/matzehuels/archquery/pkg/errors"
	"github.com/matzehuels/archquery/pkg/integrations/aur"
)

type infoOpts struct {
	json    bool
	aur     bool
	refresh bool
}

func (c *CLI) infoCommand() *cobra.Command {
	var opts infoOpts

	cmd := &cobra.Command{
		Use:   "info <query>",
		Short: "Show details for the best match of a query",
		Long: `Show details for the package that best matches the query.

The query is searched across both registries and the top-ranked match is
looked up in the registry it came from. With --aur, each argument is an
exact AUR package name and all of them are fetched in one request.

Examples:
  archquery info linux
  archquery info --json pacman
  archquery info --aur yay paru`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.aur {
				return c.runInfoAUR(cmd, args, opts)
			}
			if len(args) > 1 {
				return errors.New(errors.ErrCodeInvalidArgument, "info takes one query, got %d (use --aur for several AUR names)", len(args))
			}
			return c.runInfo(cmd, args[0], opts)
		},
	}

	cmd.Flags().BoolVar(&opts.json, "json", false, "print the record as JSON")
	cmd.Flags().BoolVar(&opts.aur, "aur", false, "look up exact AUR package names")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "bypass cache")

	return cmd
}

func (c *CLI) runInfo(cmd *cobra.Command, query string, opts infoOpts) error {
	ctx := cmd.Context()

	s, err := c.newSession(ctx, opts.refresh)
	if err != nil {
		return err
	}
	defer s.Close()

	pkg, err := spin(ctx, opts.json || !isTerminal(os.Stderr), "Looking up "+query+"...", func() (*catalog.Package, error) {
		return s.catalog.Info(ctx, query)
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if opts.json {
		return writeJSON(out, pkg)
	}
	printPackage(out, pkg)
	return nil
}

func (c *CLI) runInfoAUR(cmd *cobra.Command, names []string, opts infoOpts) error {
	ctx := cmd.Context()

	s, err := c.newSession(ctx, opts.refresh)
	if err != nil {
		return err
	}
	defer s.Close()

	recs, err := s.aur.InfoMany(ctx, names...)
	if err != nil {
		return err
	}

	m := catalog.AURMapper{Helper: s.cfg.AURHelper}
	pkgs := make([]catalog.Package, len(recs))
	for i, r := range recs {
		pkgs[i] = m.Map(r)
	}

	out := cmd.OutOrStdout()
	if opts.json {
		return writeJSON(out, pkgs)
	}
	for i := range pkgs {
		if i > 0 {
			fmt.Fprintln(out)
		}
		printPackage(out, &pkgs[i])
	}
	if missing := missingNames(names, recs); len(missing) > 0 {
		printWarning(out, "Not in the AUR: %s", strings.Join(missing, ", "))
	}
	return nil
}

// missingNames lists requested names the AUR did not return.
func missingNames(names []string, recs []aur.Package) []string {
	found := make(map[string]bool, len(recs))
	for _, r := range recs {
		found[r.Name] = true
	}
	var missing []string
	for _, n := range names {
		if !found[n] {
			missing = append(missing, n)
		}
	}
	return missing
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
