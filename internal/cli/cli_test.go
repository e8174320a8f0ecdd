package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/matzehuels/archquery/pkg/errors"
)

const (
	officialLinux = `{"pkgname": "linux", "pkgbase": "linux", "repo": "core", "arch": "x86_64",
		"pkgver": "6.6.1.arch1", "pkgrel": "1", "epoch": 0, "pkgdesc": "The Linux kernel and modules",
		"url": "https://github.com/archlinux/linux", "last_update": "2023-11-14T22:13:20Z",
		"maintainers": ["heftig"]}`
	aurLinuxGit = `{"ID": 1, "Name": "linux-git", "PackageBase": "linux-git", "Version": "6.7.r0-1",
		"Description": "Linux kernel from git", "Maintainer": "someone", "LastModified": 1700000000}`
	aurYay = `{"ID": 2, "Name": "yay", "PackageBase": "yay", "Version": "12.3.5-1",
		"Description": "Yet another yogurt", "Maintainer": "jguer", "LastModified": 1700000000}`
)

// fakeRegistries serves both registry APIs and returns a config file
// pointing at them.
func fakeRegistries(t *testing.T) string {
	t.Helper()

	official := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/packages/search/json/":
			fmt.Fprintf(w, `{"version": 2, "limit": 250, "valid": true, "results": [%s]}`, officialLinux)
		case "/packages/core/x86_64/linux/json":
			w.Write([]byte(officialLinux))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(official.Close)

	community := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		switch q.Get("type") {
		case "search":
			fmt.Fprintf(w, `{"version": 5, "type": "search", "resultcount": 1, "results": [%s]}`, aurLinuxGit)
		case "info":
			var results []string
			for _, name := range q["arg[]"] {
				if name == "yay" {
					results = append(results, aurYay)
				}
			}
			fmt.Fprintf(w, `{"version": 5, "type": "multiinfo", "resultcount": %d, "results": [%s]}`,
				len(results), strings.Join(results, ","))
		}
	}))
	t.Cleanup(community.Close)

	return writeConfig(t, fmt.Sprintf(`
official_url = %q
aur_url = %q
cache_backend = "none"
`, official.URL+"/packages/", community.URL+"/rpc/?v=5"))
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := New(&bytes.Buffer{}, LogInfo).RootCommand()
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestSearchCommand_JSON(t *testing.T) {
	cfg := fakeRegistries(t)

	out, err := run(t, "--config", cfg, "search", "--json", "linux")
	if err != nil {
		t.Fatalf("search: %v", err)
	}

	var results []struct {
		Package struct {
			Name   string `json:"name"`
			Origin struct {
				Source string `json:"source"`
				Repo   string `json:"repo"`
			} `json:"origin"`
			Install string `json:"install"`
		} `json:"package"`
		Score int `json:"score"`
	}
	if err := json.Unmarshal([]byte(out), &results); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	first, second := results[0].Package, results[1].Package
	if first.Name != "linux" || first.Origin.Source != "official" || first.Origin.Repo != "core" {
		t.Errorf("first = %+v", first)
	}
	if second.Name != "linux-git" || second.Origin.Source != "aur" || second.Install != "yay -S linux-git" {
		t.Errorf("second = %+v", second)
	}
}

func TestSearchCommand_Table(t *testing.T) {
	cfg := fakeRegistries(t)

	out, err := run(t, "--config", cfg, "search", "--scores", "--limit", "1", "linux")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if !strings.Contains(out, "linux") || strings.Contains(out, "linux-git") {
		t.Errorf("limited table should list only linux:\n%s", out)
	}
	if !strings.Contains(out, "Score") {
		t.Errorf("--scores should add a Score column:\n%s", out)
	}
}

func TestSearchCommand_BadFlags(t *testing.T) {
	cfg := fakeRegistries(t)

	_, err := run(t, "--config", cfg, "search", "--by", "make-depends", "linux")
	if !errors.Is(err, errors.ErrCodeInvalidArgument) {
		t.Errorf("bad --by error = %v", err)
	}
	_, err = run(t, "--config", cfg, "search", "--limit", "-3", "linux")
	if !errors.Is(err, errors.ErrCodeInvalidArgument) {
		t.Errorf("negative --limit error = %v", err)
	}
}

func TestInfoCommand(t *testing.T) {
	cfg := fakeRegistries(t)

	out, err := run(t, "--config", cfg, "info", "linux")
	if err != nil {
		t.Fatalf("info: %v", err)
	}
	for _, want := range []string{"linux", "6.6.1.arch1-1", "core", "heftig", "sudo pacman -S core/linux"} {
		if !strings.Contains(out, want) {
			t.Errorf("info output missing %q:\n%s", want, out)
		}
	}
}

func TestInfoCommand_AUR(t *testing.T) {
	cfg := fakeRegistries(t)

	out, err := run(t, "--config", cfg, "info", "--aur", "yay", "not-a-package")
	if err != nil {
		t.Fatalf("info --aur: %v", err)
	}
	if !strings.Contains(out, "yay -S yay") || !strings.Contains(out, "jguer") {
		t.Errorf("info --aur output:\n%s", out)
	}
	if !strings.Contains(out, "not-a-package") {
		t.Errorf("missing names should be reported:\n%s", out)
	}

	_, err = run(t, "--config", cfg, "info", "--aur", "nothing-here")
	if !errors.Is(err, errors.ErrCodeNoResults) {
		t.Errorf("info --aur with no hits = %v, want NO_RESULTS", err)
	}
}

func TestInfoCommand_TooManyArgs(t *testing.T) {
	_, err := run(t, "info", "linux", "vim")
	if !errors.Is(err, errors.ErrCodeInvalidArgument) {
		t.Errorf("error = %v, want INVALID_ARGUMENT", err)
	}
}

func TestCommandsRejectInvalidConfig(t *testing.T) {
	cfg := writeConfig(t, `cache_backend = "tape"`)
	_, err := run(t, "--config", cfg, "search", "linux")
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("error = %v, want INVALID_CONFIG", err)
	}
}

func TestCachePath(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg-cache")

	out, err := run(t, "cache", "path")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != "/tmp/xdg-cache/"+appName {
		t.Errorf("cache path = %q", out)
	}
}

func TestCompletion(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		out, err := run(t, "completion", shell)
		if err != nil || !strings.Contains(out, appName) {
			t.Errorf("completion %s: err=%v, %d bytes", shell, err, len(out))
		}
	}
}
