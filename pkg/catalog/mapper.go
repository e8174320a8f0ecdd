package catalog

import (
	"github.com/matzehuels/archquery/pkg/integrations/archlinux"
	"github.com/matzehuels/archquery/pkg/integrations/aur"
)

// DefaultAURHelper is the helper named in AUR install commands when none is
// configured.
const DefaultAURHelper = "yay"

// Mapper converts a registry's native record into a [Package]. Mapping is
// total: every native record yields a record, missing fields become
// documented defaults.
type Mapper[T any] interface {
	Map(rec T) Package
}

// OfficialMapper maps official repository records.
type OfficialMapper struct{}

// Map copies the native fields across: maintainers become authors, the
// last repository update becomes Updated, and the version is rendered as
// [epoch:]pkgver-pkgrel.
func (OfficialMapper) Map(p archlinux.Package) Package {
	return Package{
		Name:        p.Name,
		Base:        p.Base,
		Description: p.Description,
		Arch:        p.Arch,
		Origin:      Official{Repo: p.Repo},
		Version:     p.FullVersion(),
		URL:         p.URL,
		Authors:     append([]string{}, p.Maintainers...),
		Updated:     p.LastUpdate.Time,
		Install:     "sudo pacman -S " + p.Repo.String() + "/" + p.Name,
	}
}

// AURMapper maps AUR records. Helper is the AUR helper used in install
// commands, [DefaultAURHelper] when empty.
type AURMapper struct {
	Helper string
}

// Map fills the fields the AUR doesn't carry with fixed defaults: AUR
// records are always [archlinux.ArchAny], and the single maintainer (if
// any) is the only author.
func (m AURMapper) Map(p aur.Package) Package {
	authors := []string{}
	if p.Maintainer != "" {
		authors = []string{p.Maintainer}
	}
	helper := m.Helper
	if helper == "" {
		helper = DefaultAURHelper
	}
	return Package{
		Name:        p.Name,
		Base:        p.PackageBase,
		Description: p.Description,
		Arch:        archlinux.ArchAny,
		Origin:      AUR{},
		Version:     p.Version,
		URL:         p.URL,
		Authors:     authors,
		Updated:     p.LastModified.Time,
		Install:     helper + " -S " + p.Name,
	}
}

var (
	_ Mapper[archlinux.Package] = OfficialMapper{}
	_ Mapper[aur.Package]       = AURMapper{}
)
