package aur

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/matzehuels/archquery/pkg/buildinfo"
	"github.com/matzehuels/archquery/pkg/cache"
	"github.com/matzehuels/archquery/pkg/errors"
	"github.com/matzehuels/archquery/pkg/integrations"
)

// DefaultBaseURL is the AUR RPC endpoint, interface version 5.
const DefaultBaseURL = "https://aur.archlinux.org/rpc/?v=5"

// Package is a package record as served by the AUR RPC interface.
//
// Search results carry only the fields up to URLPath; the relation lists,
// License, Keywords and CoMaintainers are filled in by info requests.
// Optional strings are empty when the AUR sends null.
type Package struct {
	ID             int                    `json:"ID"`
	Name           string                 `json:"Name"`
	PackageBaseID  int                    `json:"PackageBaseID"`
	PackageBase    string                 `json:"PackageBase"`
	Version        string                 `json:"Version"`
	Description    string                 `json:"Description"`
	URL            string                 `json:"URL"`
	NumVotes       int                    `json:"NumVotes"`
	Popularity     float64                `json:"Popularity"`
	OutOfDate      *integrations.UnixTime `json:"OutOfDate"`
	Maintainer     string                 `json:"Maintainer"`
	FirstSubmitted integrations.UnixTime  `json:"FirstSubmitted"`
	LastModified   integrations.UnixTime  `json:"LastModified"`
	URLPath        string                 `json:"URLPath"`

	Depends       []string `json:"Depends,omitempty"`
	MakeDepends   []string `json:"MakeDepends,omitempty"`
	OptDepends    []string `json:"OptDepends,omitempty"`
	CheckDepends  []string `json:"CheckDepends,omitempty"`
	Conflicts     []string `json:"Conflicts,omitempty"`
	Provides      []string `json:"Provides,omitempty"`
	Replaces      []string `json:"Replaces,omitempty"`
	Groups        []string `json:"Groups,omitempty"`
	License       []string `json:"License,omitempty"`
	Keywords      []string `json:"Keywords,omitempty"`
	CoMaintainers []string `json:"CoMaintainers,omitempty"`
}

// Orphaned reports whether the package has no maintainer.
func (p *Package) Orphaned() bool { return p.Maintainer == "" }

// response is the envelope every RPC call answers with.
type response struct {
	Version     int       `json:"version"`
	Type        string    `json:"type"`
	ResultCount int       `json:"resultcount"`
	Results     []Package `json:"results"`
	Error       string    `json:"error"`
}

func (r *response) err() error {
	if r.Error != "" {
		return errors.New(errors.ErrCodeResponse, "%s", r.Error)
	}
	if r.Type == "error" {
		return errors.New(errors.ErrCodeResponse, "aur returned an error response")
	}
	return nil
}

// Config configures a [Client]. The zero value talks to aur.archlinux.org.
type Config struct {
	BaseURL string // defaults to DefaultBaseURL
	Refresh bool   // bypass cached responses
}

// Client provides access to the AUR RPC interface.
//
// All methods are safe for concurrent use by multiple goroutines.
type Client struct {
	*integrations.Client
	base    *url.URL
	refresh bool
}

// NewClient creates a client with the given cache backend. The base URL may
// carry query parameters (the default pins v=5); they are kept on every
// request. A malformed base URL is a PARSE_URL error.
func NewClient(backend cache.Cache, cacheTTL time.Duration, cfg Config) (*Client, error) {
	raw := cfg.BaseURL
	if raw == "" {
		raw = DefaultBaseURL
	}
	u, err := errors.ValidateBaseURL(raw)
	if err != nil {
		return nil, err
	}

	headers := map[string]string{"User-Agent": buildinfo.UserAgent()}
	return &Client{
		Client:  integrations.NewClient(backend, "aur:", cacheTTL, headers),
		base:    u,
		refresh: cfg.Refresh,
	}, nil
}

// BaseURL returns the configured base URL.
func (c *Client) BaseURL() string { return c.base.String() }

// Search returns the packages whose by-field matches query, in the order the
// AUR returns them. [ByDefault] leaves the field choice to the AUR (name and
// description). An empty result is not an error.
func (c *Client) Search(ctx context.Context, query string, by By) ([]Package, error) {
	params := url.Values{"type": {"search"}, "arg": {query}}
	if by != ByDefault {
		params.Set("by", by.String())
	}
	return c.call(ctx, params)
}

// Info fetches the full record of the package called name.
// Returns NO_RESULTS when no such package exists.
func (c *Client) Info(ctx context.Context, name string) (*Package, error) {
	pkgs, err := c.InfoMany(ctx, name)
	if err != nil {
		return nil, err
	}
	for i := range pkgs {
		if pkgs[i].Name == name {
			return &pkgs[i], nil
		}
	}
	return &pkgs[0], nil
}

// InfoMany fetches several packages in one request. Unknown names are
// silently skipped by the AUR; NO_RESULTS is returned only when none exist.
func (c *Client) InfoMany(ctx context.Context, names ...string) ([]Package, error) {
	if len(names) == 0 {
		return nil, errors.New(errors.ErrCodeNoParams, "no package names given")
	}
	pkgs, err := c.call(ctx, url.Values{"type": {"info"}, "arg[]": names})
	if err != nil {
		return nil, err
	}
	if len(pkgs) == 0 {
		return nil, errors.New(errors.ErrCodeNoResults, "no aur package named %s", strings.Join(names, ", "))
	}
	return pkgs, nil
}

func (c *Client) call(ctx context.Context, params url.Values) ([]Package, error) {
	u := *c.base
	q := u.Query()
	for k, v := range params {
		q[k] = v
	}
	u.RawQuery = q.Encode()
	target := u.String()

	var results []Package
	err := c.Cached(ctx, target, c.refresh, &results, func() error {
		var data response
		if err := c.Get(ctx, target, &data); err != nil {
			return err
		}
		if err := data.err(); err != nil {
			return err
		}
		results = data.Results
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}
