package aur

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/matzehuels/archquery/pkg/cache"
	"github.com/matzehuels/archquery/pkg/errors"
)

const helloJSON = `{
	"ID": 1193389, "Name": "archlinux-hello", "PackageBaseID": 190122, "PackageBase": "archlinux-hello",
	"Version": "0.1.0-1", "Description": "Hello world for Arch", "URL": null,
	"NumVotes": 1, "Popularity": 0.004, "OutOfDate": null, "Maintainer": "nikita",
	"FirstSubmitted": 1672531200, "LastModified": 1700000000,
	"URLPath": "/cgit/aur.git/snapshot/archlinux-hello.tar.gz"
}`

func envelope(typ string, results ...string) string {
	body := ""
	for i, r := range results {
		if i > 0 {
			body += ","
		}
		body += r
	}
	return fmt.Sprintf(`{"version": 5, "type": %q, "resultcount": %d, "results": [%s]}`, typ, len(results), body)
}

func testClient(t *testing.T, base string) *Client {
	t.Helper()
	c, err := NewClient(cache.NewNullCache(), time.Hour, Config{BaseURL: base})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	c.WithRetry(1, time.Millisecond)
	return c
}

func TestClient_Search(t *testing.T) {
	var got url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Query()
		w.Write([]byte(envelope("search", helloJSON)))
	}))
	defer server.Close()

	pkgs, err := testClient(t, server.URL+"/rpc/?v=5").Search(context.Background(), "hello", ByDefault)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(pkgs) != 1 || pkgs[0].ID != 1193389 {
		t.Fatalf("got %+v", pkgs)
	}
	p := pkgs[0]
	if p.URL != "" || p.OutOfDate != nil {
		t.Errorf("null fields should decode to defaults: URL=%q OutOfDate=%v", p.URL, p.OutOfDate)
	}
	if p.LastModified.Unix() != 1700000000 {
		t.Errorf("LastModified = %v", p.LastModified)
	}

	if got.Get("v") != "5" || got.Get("type") != "search" || got.Get("arg") != "hello" {
		t.Errorf("query = %v", got)
	}
	if got.Has("by") {
		t.Errorf("ByDefault should omit the by parameter, got %q", got.Get("by"))
	}
}

func TestClient_SearchBy(t *testing.T) {
	var by string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		by = r.URL.Query().Get("by")
		w.Write([]byte(envelope("search")))
	}))
	defer server.Close()

	pkgs, err := testClient(t, server.URL).Search(context.Background(), "nikita", ByMaintainer)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(pkgs) != 0 {
		t.Errorf("got %d packages", len(pkgs))
	}
	if by != "maintainer" {
		t.Errorf("by = %q", by)
	}
}

func TestClient_ResponseError(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"error message", `{"version": 5, "type": "error", "resultcount": 0, "results": [], "error": "Too many package results."}`},
		{"error type only", `{"version": 5, "type": "error", "resultcount": 0, "results": []}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := testClient(t, server.URL).Search(context.Background(), "a", ByName)
			if !errors.Is(err, errors.ErrCodeResponse) {
				t.Errorf("error = %v, want RESPONSE_ERROR", err)
			}
		})
	}
}

func TestClient_Info(t *testing.T) {
	var args []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		args = r.URL.Query()["arg[]"]
		full := `{"ID": 1193389, "Name": "archlinux-hello", "Version": "0.1.0-1", "Maintainer": null,
			"FirstSubmitted": 1672531200, "LastModified": 1700000000, "OutOfDate": 1700100000,
			"Depends": ["glibc"], "License": ["MIT"], "Keywords": ["hello"]}`
		w.Write([]byte(envelope("multiinfo", full)))
	}))
	defer server.Close()

	pkg, err := testClient(t, server.URL).Info(context.Background(), "archlinux-hello")
	if err != nil {
		t.Fatalf("Info: %v", err)
	}
	if len(args) != 1 || args[0] != "archlinux-hello" {
		t.Errorf("arg[] = %v", args)
	}
	if !pkg.Orphaned() {
		t.Error("null maintainer should read as orphaned")
	}
	if pkg.OutOfDate == nil || pkg.OutOfDate.Unix() != 1700100000 {
		t.Errorf("OutOfDate = %v", pkg.OutOfDate)
	}
	if len(pkg.Depends) != 1 || pkg.License[0] != "MIT" {
		t.Errorf("info fields not decoded: %+v", pkg)
	}
}

func TestClient_InfoNoResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(envelope("multiinfo")))
	}))
	defer server.Close()

	_, err := testClient(t, server.URL).Info(context.Background(), "does-not-exist")
	if !errors.Is(err, errors.ErrCodeNoResults) {
		t.Errorf("error = %v, want NO_RESULTS", err)
	}
}

func TestClient_InfoMany(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var results []string
		for _, name := range r.URL.Query()["arg[]"] {
			if name == "missing" {
				continue
			}
			results = append(results, fmt.Sprintf(`{"Name": %q, "LastModified": 1700000000}`, name))
		}
		w.Write([]byte(envelope("multiinfo", results...)))
	}))
	defer server.Close()

	c := testClient(t, server.URL)
	pkgs, err := c.InfoMany(context.Background(), "yay", "missing", "paru")
	if err != nil {
		t.Fatalf("InfoMany: %v", err)
	}
	if len(pkgs) != 2 || pkgs[0].Name != "yay" || pkgs[1].Name != "paru" {
		t.Errorf("got %+v", pkgs)
	}

	if _, err := c.InfoMany(context.Background()); !errors.Is(err, errors.ErrCodeNoParams) {
		t.Errorf("InfoMany() error = %v, want NO_PARAMS", err)
	}
}

func TestClient_Cached(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(envelope("search", helloJSON)))
	}))
	defer server.Close()

	fc, _ := cache.NewFileCache(t.TempDir())
	c, _ := NewClient(fc, time.Hour, Config{BaseURL: server.URL})
	for i := 0; i < 2; i++ {
		if _, err := c.Search(context.Background(), "hello", ByDefault); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := c.Search(context.Background(), "hello", ByName); err != nil {
		t.Fatal(err)
	}
	if calls.Load() != 2 {
		t.Errorf("server called %d times, want 2 (one per distinct query)", calls.Load())
	}

	refreshing, _ := NewClient(fc, time.Hour, Config{BaseURL: server.URL, Refresh: true})
	if _, err := refreshing.Search(context.Background(), "hello", ByDefault); err != nil {
		t.Fatal(err)
	}
	if calls.Load() != 3 {
		t.Errorf("refresh should bypass the cache, calls = %d", calls.Load())
	}
}

func TestClient_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	base := server.URL
	server.Close()

	_, err := testClient(t, base).Search(context.Background(), "x", ByDefault)
	if !errors.Is(err, errors.ErrCodeFetch) {
		t.Errorf("error = %v, want FETCH_ERROR", err)
	}
}

func TestNewClient_BadURL(t *testing.T) {
	for _, raw := range []string{"aur.archlinux.org/rpc", "ftp://aur.archlinux.org/", "http://[::1"} {
		if _, err := NewClient(nil, time.Hour, Config{BaseURL: raw}); !errors.Is(err, errors.ErrCodeParseURL) {
			t.Errorf("NewClient(%q) error = %v, want PARSE_URL", raw, err)
		}
	}
	c, err := NewClient(nil, time.Hour, Config{})
	if err != nil || c.BaseURL() != DefaultBaseURL {
		t.Errorf("default BaseURL = %q, %v", c.BaseURL(), err)
	}
}

func TestParseBy(t *testing.T) {
	for _, f := range Fields() {
		got, err := ParseBy(f.String())
		if err != nil || got != f {
			t.Errorf("ParseBy(%q) = %q, %v", f, got, err)
		}
	}
	if got, err := ParseBy(""); err != nil || got != ByDefault {
		t.Errorf("ParseBy(\"\") = %q, %v", got, err)
	}
	if _, err := ParseBy("make-depends"); err == nil {
		t.Error("ParseBy should reject unknown fields")
	}
}
