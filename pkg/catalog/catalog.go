package catalog

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/archquery/pkg/errors"
	"github.com/matzehuels/archquery/pkg/integrations/archlinux"
	"github.com/matzehuels/archquery/pkg/integrations/aur"
	"github.com/matzehuels/archquery/pkg/observability"
)

// OfficialSource is the capability the catalog needs from the official
// repository API. *archlinux.Client implements it.
type OfficialSource interface {
	Search(ctx context.Context, query string) ([]archlinux.Package, error)
	Info(ctx context.Context, name string, repo archlinux.Repo) (*archlinux.Package, error)
}

// AURSource is the capability the catalog needs from the AUR.
// *aur.Client implements it.
type AURSource interface {
	Search(ctx context.Context, query string, by aur.By) ([]aur.Package, error)
	Info(ctx context.Context, name string) (*aur.Package, error)
}

// Options configures a [Catalog].
type Options struct {
	// Logger receives per-source failures and timings. Defaults to a
	// discarding logger.
	Logger *log.Logger

	// AURHelper is named in AUR install commands. Defaults to "yay".
	AURHelper string

	// PartialResults keeps a search going when exactly one registry fails:
	// the failure is logged and the other registry's results are returned.
	// By default any failure fails the whole search.
	PartialResults bool
}

// SearchOptions narrows a single search.
type SearchOptions struct {
	// By selects the AUR search field. Fields other than the name ones
	// (maintainer, dependency kinds) have no official equivalent: only the
	// AUR is queried and results keep the AUR's order, unranked.
	By aur.By

	// Limit caps the number of results; zero means no cap.
	Limit int
}

// Catalog aggregates the official repositories and the AUR behind one
// search and lookup interface.
//
// A Catalog holds no mutable state and is safe for concurrent use.
type Catalog struct {
	official OfficialSource
	aur      AURSource
	offMap   OfficialMapper
	aurMap   AURMapper
	logger   *log.Logger
	partial  bool
}

// New creates a catalog over the two registries.
func New(official OfficialSource, community AURSource, opts Options) *Catalog {
	logger := opts.Logger
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Catalog{
		official: official,
		aur:      community,
		aurMap:   AURMapper{Helper: opts.AURHelper},
		logger:   logger,
		partial:  opts.PartialResults,
	}
}

// Search queries both registries concurrently and returns the records whose
// names fuzzy-match query, best match first.
//
// An empty or blank query fails with NO_PARAMS before any request is made.
// If either registry fails the search fails with that registry's error,
// unless [Options.PartialResults] is set.
func (c *Catalog) Search(ctx context.Context, query string) ([]Package, error) {
	ranked, err := c.SearchScored(ctx, query)
	if err != nil {
		return nil, err
	}
	return Packages(ranked), nil
}

// SearchScored is [Catalog.Search] with the relevance scores kept.
func (c *Catalog) SearchScored(ctx context.Context, query string) ([]Scored, error) {
	return c.SearchWith(ctx, query, SearchOptions{})
}

// SearchWith is [Catalog.SearchScored] with per-search options.
func (c *Catalog) SearchWith(ctx context.Context, query string, opts SearchOptions) ([]Scored, error) {
	if err := errors.ValidateQuery(query); err != nil {
		return nil, err
	}

	start := time.Now()
	observability.Search().OnSearchStart(ctx, query)

	ranked, err := c.search(ctx, query, opts)
	if err == nil && opts.Limit > 0 && len(ranked) > opts.Limit {
		ranked = ranked[:opts.Limit]
	}

	observability.Search().OnSearchComplete(ctx, query, len(ranked), time.Since(start), err)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("search complete", "query", query, "results", len(ranked), "duration", time.Since(start))
	return ranked, nil
}

func (c *Catalog) search(ctx context.Context, query string, opts SearchOptions) ([]Scored, error) {
	if !opts.By.MatchesName() {
		items, err := searchSource(ctx, func(ctx context.Context) ([]aur.Package, error) {
			return c.aur.Search(ctx, query, opts.By)
		}, c.aurMap)
		if err != nil {
			c.sourceFailed(ctx, SourceAUR, query, err)
			return nil, err
		}
		ranked := make([]Scored, len(items))
		for i, p := range items {
			ranked[i] = Scored{Package: p}
		}
		return ranked, nil
	}

	var (
		official, community       []Package
		officialErr, communityErr error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		official, officialErr = searchSource(gctx, func(ctx context.Context) ([]archlinux.Package, error) {
			return c.official.Search(ctx, query)
		}, c.offMap)
		return c.tolerate(gctx, SourceOfficial, query, officialErr)
	})
	g.Go(func() error {
		community, communityErr = searchSource(gctx, func(ctx context.Context) ([]aur.Package, error) {
			return c.aur.Search(ctx, query, opts.By)
		}, c.aurMap)
		return c.tolerate(gctx, SourceAUR, query, communityErr)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if officialErr != nil && communityErr != nil {
		return nil, officialErr
	}

	merged := make([]Package, 0, len(official)+len(community))
	merged = append(merged, official...)
	merged = append(merged, community...)
	return Rank(merged, query), nil
}

// tolerate decides whether a source failure aborts the fan-out. Returning
// the error cancels the sibling request.
func (c *Catalog) tolerate(ctx context.Context, source, query string, err error) error {
	if err == nil {
		return nil
	}
	c.sourceFailed(ctx, source, query, err)
	if c.partial {
		return nil
	}
	return err
}

// sourceFailed reports a registry failure. Failures caused by a sibling
// cancelling the fan-out are not reported.
func (c *Catalog) sourceFailed(ctx context.Context, source, query string, err error) {
	if ctx.Err() != nil {
		return
	}
	observability.Search().OnSourceError(ctx, source, query, err)
	if c.partial {
		c.logger.Warn("registry unavailable, continuing without it", "source", source, "err", err)
	} else {
		c.logger.Debug("registry failed", "source", source, "err", err)
	}
}

// searchSource fetches native records from one registry and maps them.
// Record order is preserved.
func searchSource[T any](ctx context.Context, fetch func(context.Context) ([]T, error), m Mapper[T]) ([]Package, error) {
	recs, err := fetch(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Package, len(recs))
	for i, rec := range recs {
		out[i] = m.Map(rec)
	}
	return out, nil
}

// Info resolves query to a single package and fetches its full record from
// the registry it came from.
//
// The query is searched as with [Catalog.Search] and the best match wins;
// its name (not the raw query) is then looked up. An empty search result is
// NO_RESULTS. Official records are looked up in the repository family the
// search reported.
func (c *Catalog) Info(ctx context.Context, query string) (*Package, error) {
	start := time.Now()
	observability.Search().OnInfoStart(ctx, query)

	pkg, err := c.info(ctx, query)

	name := ""
	if pkg != nil {
		name = pkg.Name
	}
	observability.Search().OnInfoComplete(ctx, query, name, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return pkg, nil
}

func (c *Catalog) info(ctx context.Context, query string) (*Package, error) {
	ranked, err := c.SearchScored(ctx, query)
	if err != nil {
		return nil, err
	}
	if len(ranked) == 0 {
		return nil, errors.New(errors.ErrCodeNoResults, "no package matches %q", query)
	}

	top := ranked[0].Package
	c.logger.Debug("resolved query", "query", query, "name", top.Name, "origin", top.Origin)
	return c.Lookup(ctx, top)
}

// Lookup fetches the full record for rec from the registry its origin
// names. rec is typically an element of a search result.
func (c *Catalog) Lookup(ctx context.Context, rec Package) (*Package, error) {
	switch o := rec.Origin.(type) {
	case Official:
		if o.Repo == "" {
			return nil, errors.New(errors.ErrCodeInternal, "official record %q has no repository", rec.Name)
		}
		full, err := c.official.Info(ctx, rec.Name, o.Repo)
		if err != nil {
			return nil, err
		}
		p := c.offMap.Map(*full)
		return &p, nil
	case AUR:
		full, err := c.aur.Info(ctx, rec.Name)
		if err != nil {
			return nil, err
		}
		p := c.aurMap.Map(*full)
		return &p, nil
	default:
		return nil, errors.New(errors.ErrCodeInternal, "record %q has unknown origin %T", rec.Name, rec.Origin)
	}
}
