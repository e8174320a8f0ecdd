package archlinux

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/matzehuels/archquery/pkg/buildinfo"
	"github.com/matzehuels/archquery/pkg/cache"
	"github.com/matzehuels/archquery/pkg/errors"
	"github.com/matzehuels/archquery/pkg/integrations"
)

// DefaultBaseURL is the official package API.
const DefaultBaseURL = "https://archlinux.org/packages/"

// Package is a package record as served by the official repository API.
//
// Timestamps are decoded to UTC; FlagDate is nil unless the package is
// flagged out of date. List fields are nil when the API sends none.
type Package struct {
	Name           string                 `json:"pkgname"`
	Base           string                 `json:"pkgbase"`
	Repo           Repo                   `json:"repo"`
	Arch           Arch                   `json:"arch"`
	Pkgver         string                 `json:"pkgver"`
	Pkgrel         string                 `json:"pkgrel"`
	Epoch          int                    `json:"epoch"`
	Description    string                 `json:"pkgdesc"`
	URL            string                 `json:"url"`
	Filename       string                 `json:"filename"`
	CompressedSize int64                  `json:"compressed_size"`
	InstalledSize  int64                  `json:"installed_size"`
	BuildDate      integrations.UnixTime  `json:"build_date"`
	LastUpdate     integrations.UnixTime  `json:"last_update"`
	FlagDate       *integrations.UnixTime `json:"flag_date"`
	Maintainers    []string               `json:"maintainers"`
	Packager       string                 `json:"packager"`
	Groups         []string               `json:"groups"`
	Licenses       []string               `json:"licenses"`
	Conflicts      []string               `json:"conflicts"`
	Provides       []string               `json:"provides"`
	Replaces       []string               `json:"replaces"`
	Depends        []string               `json:"depends"`
	OptDepends     []string               `json:"optdepends"`
	MakeDepends    []string               `json:"makedepends"`
	CheckDepends   []string               `json:"checkdepends"`
}

// FullVersion renders the version the way pacman does: [epoch:]pkgver-pkgrel.
func (p *Package) FullVersion() string {
	v := p.Pkgver + "-" + p.Pkgrel
	if p.Epoch > 0 {
		v = strconv.Itoa(p.Epoch) + ":" + v
	}
	return v
}

// Config configures a [Client]. The zero value talks to archlinux.org for
// x86_64.
type Config struct {
	BaseURL string // defaults to DefaultBaseURL
	Arch    Arch   // architecture used for Info lookups, defaults to x86_64
	Refresh bool   // bypass cached responses
}

// Client provides access to the official repository API.
//
// All methods are safe for concurrent use by multiple goroutines.
type Client struct {
	*integrations.Client
	baseURL string
	arch    Arch
	refresh bool
}

// NewClient creates a client with the given cache backend.
//
// The base URL must be an absolute http(s) URL, otherwise a PARSE_URL error
// is returned. A trailing slash is added when missing.
func NewClient(backend cache.Cache, cacheTTL time.Duration, cfg Config) (*Client, error) {
	raw := cfg.BaseURL
	if raw == "" {
		raw = DefaultBaseURL
	}
	u, err := errors.ValidateBaseURL(raw)
	if err != nil {
		return nil, err
	}
	base := u.String()
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}

	arch := cfg.Arch
	if arch == "" {
		arch = ArchX86_64
	}

	headers := map[string]string{"User-Agent": buildinfo.UserAgent()}
	return &Client{
		Client:  integrations.NewClient(backend, "archlinux:", cacheTTL, headers),
		baseURL: base,
		arch:    arch,
		refresh: cfg.Refresh,
	}, nil
}

// BaseURL returns the normalized base URL, always ending in a slash.
func (c *Client) BaseURL() string { return c.baseURL }

// Arch returns the architecture used for Info lookups.
func (c *Client) Arch() Arch { return c.arch }

type searchResponse struct {
	Version  int       `json:"version"`
	Limit    int       `json:"limit"`
	Valid    bool      `json:"valid"`
	Results  []Package `json:"results"`
	NumPages int       `json:"num_pages"`
	Page     int       `json:"page"`
}

// Search returns the packages matching query, in the order the API returns
// them. An empty result is not an error.
//
// Returns a FETCH_ERROR for transport failures and a RESPONSE_ERROR when the
// API marks the query invalid.
func (c *Client) Search(ctx context.Context, query string) ([]Package, error) {
	var results []Package
	err := c.Cached(ctx, c.baseURL+"|search|"+query, c.refresh, &results, func() error {
		var data searchResponse
		if err := c.Get(ctx, c.baseURL+"search/json/?q="+integrations.URLEncode(query), &data); err != nil {
			return err
		}
		if !data.Valid {
			return errors.New(errors.ErrCodeResponse, "archlinux.org rejected search query %q", query)
		}
		results = data.Results
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

// Info fetches the full record of name in the given repository family for
// the client's architecture. There is no cross-family lookup: the caller
// must know the family.
//
// Returns NO_RESULTS when the package doesn't exist at that path and
// INVALID_PACKAGE for names that can't be a pacman package.
func (c *Client) Info(ctx context.Context, name string, repo Repo) (*Package, error) {
	if err := errors.ValidatePackageName(name); err != nil {
		return nil, err
	}
	return c.info(ctx, name, repo, c.arch)
}

func (c *Client) info(ctx context.Context, name string, repo Repo, arch Arch) (*Package, error) {
	path := integrations.PathEscape(repo.String()) + "/" + arch.String() + "/" + integrations.PathEscape(name) + "/json"

	var pkg Package
	err := c.Cached(ctx, c.baseURL+"|info|"+path, c.refresh, &pkg, func() error {
		return c.Get(ctx, c.baseURL+path, &pkg)
	})
	if errors.Is(err, errors.ErrCodeNoResults) && arch != ArchAny {
		// Architecture-independent packages live under "any" only.
		return c.info(ctx, name, repo, ArchAny)
	}
	if errors.Is(err, errors.ErrCodeNoResults) {
		return nil, errors.New(errors.ErrCodeNoResults, "no package %s in %s", name, repo)
	}
	if err != nil {
		return nil, err
	}
	return &pkg, nil
}
