package catalog

import (
	"context"
	"sync"

	"github.com/matzehuels/archquery/pkg/errors"
	"github.com/matzehuels/archquery/pkg/integrations/archlinux"
	"github.com/matzehuels/archquery/pkg/integrations/aur"
)

type officialCall struct {
	Name string
	Repo archlinux.Repo
}

type fakeOfficial struct {
	results []archlinux.Package
	err     error
	block   bool // wait for cancellation before answering
	details map[string]archlinux.Package

	mu          sync.Mutex
	searchCalls int
	infoCalls   []officialCall
}

func (f *fakeOfficial) Search(ctx context.Context, query string) ([]archlinux.Package, error) {
	f.mu.Lock()
	f.searchCalls++
	f.mu.Unlock()
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return f.results, f.err
}

func (f *fakeOfficial) Info(ctx context.Context, name string, repo archlinux.Repo) (*archlinux.Package, error) {
	f.mu.Lock()
	f.infoCalls = append(f.infoCalls, officialCall{name, repo})
	f.mu.Unlock()
	if p, ok := f.details[name]; ok {
		return &p, nil
	}
	return nil, errors.New(errors.ErrCodeNoResults, "no package %s", name)
}

type fakeAUR struct {
	results []aur.Package
	err     error
	details map[string]aur.Package

	mu          sync.Mutex
	searchBy    []aur.By
	infoCalls   []string
	searchCalls int
}

func (f *fakeAUR) Search(ctx context.Context, query string, by aur.By) ([]aur.Package, error) {
	f.mu.Lock()
	f.searchCalls++
	f.searchBy = append(f.searchBy, by)
	f.mu.Unlock()
	return f.results, f.err
}

func (f *fakeAUR) Info(ctx context.Context, name string) (*aur.Package, error) {
	f.mu.Lock()
	f.infoCalls = append(f.infoCalls, name)
	f.mu.Unlock()
	if p, ok := f.details[name]; ok {
		return &p, nil
	}
	return nil, errors.New(errors.ErrCodeNoResults, "no aur package %s", name)
}

func officialPkg(name string, repo archlinux.Repo) archlinux.Package {
	return archlinux.Package{Name: name, Base: name, Repo: repo, Arch: archlinux.ArchX86_64, Pkgver: "1.0", Pkgrel: "1"}
}

func aurPkg(name string) aur.Package {
	return aur.Package{Name: name, PackageBase: name, Version: "1.0-1"}
}

func names(pkgs []Package) []string {
	out := make([]string, len(pkgs))
	for i, p := range pkgs {
		out[i] = p.Name
	}
	return out
}
