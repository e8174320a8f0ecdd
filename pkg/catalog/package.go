package catalog

import (
	"encoding/json"
	"time"

	"github.com/matzehuels/archquery/pkg/integrations/archlinux"
)

// Package is the canonical, registry-independent package record.
//
// Records are built by a [Mapper] and never modified afterwards. Optional
// fields are empty strings or nil slices when the registry has no value.
type Package struct {
	Name        string         `json:"name"`
	Base        string         `json:"base,omitempty"`
	Description string         `json:"description,omitempty"`
	Arch        archlinux.Arch `json:"arch"`
	Origin      Origin         `json:"origin"`
	Version     string         `json:"version"`
	URL         string         `json:"url,omitempty"`
	Authors     []string       `json:"authors"`
	Updated     time.Time      `json:"updated"`
	Install     string         `json:"install"`
}

// Repo returns the repository family for officially packaged records.
// ok is false for AUR records, which have no family.
func (p Package) Repo() (repo archlinux.Repo, ok bool) {
	if o, isOfficial := p.Origin.(Official); isOfficial {
		return o.Repo, true
	}
	return "", false
}

// Origin records which registry a [Package] came from. It is a closed set:
// the only implementations are [Official] and [AUR].
type Origin interface {
	// Source is the registry name, "official" or "aur".
	Source() string
	isOrigin()
}

// Official marks a record from the official repositories, together with
// the repository family it lives in.
type Official struct {
	Repo archlinux.Repo
}

// AUR marks a record from the Arch User Repository.
type AUR struct{}

// Registry names returned by [Origin.Source].
const (
	SourceOfficial = "official"
	SourceAUR      = "aur"
)

func (Official) Source() string { return SourceOfficial }
func (AUR) Source() string      { return SourceAUR }

func (Official) isOrigin() {}
func (AUR) isOrigin()      {}

func (o Official) String() string { return o.Repo.String() }
func (AUR) String() string        { return SourceAUR }

// MarshalJSON encodes the origin as {"source":"official","repo":"core"}.
func (o Official) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Source string         `json:"source"`
		Repo   archlinux.Repo `json:"repo"`
	}{SourceOfficial, o.Repo})
}

// MarshalJSON encodes the origin as {"source":"aur"}.
func (AUR) MarshalJSON() ([]byte, error) {
	return []byte(`{"source":"aur"}`), nil
}
