package archlinux

import (
	"fmt"
	"strings"
)

// Repo is a repository family of the official repositories.
//
// The set of families changes over time (community was folded into extra,
// staging repos come and go), so Repo is an open string type: decoding never
// fails on an unknown family, while [ParseRepo] only accepts the known ones.
type Repo string

// Known repository families.
const (
	RepoCore             Repo = "core"
	RepoCoreTesting      Repo = "core-testing"
	RepoExtra            Repo = "extra"
	RepoExtraTesting     Repo = "extra-testing"
	RepoCommunity        Repo = "community"
	RepoCommunityTesting Repo = "community-testing"
	RepoTesting          Repo = "testing"
	RepoMultilib         Repo = "multilib"
	RepoMultilibTesting  Repo = "multilib-testing"
)

var knownRepos = []Repo{
	RepoCore, RepoCoreTesting,
	RepoExtra, RepoExtraTesting,
	RepoCommunity, RepoCommunityTesting,
	RepoTesting,
	RepoMultilib, RepoMultilibTesting,
}

// Repos returns the known repository families.
func Repos() []Repo {
	return append([]Repo(nil), knownRepos...)
}

// ParseRepo parses a repository family name, case-insensitively.
func ParseRepo(s string) (Repo, error) {
	r := Repo(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range knownRepos {
		if r == known {
			return r, nil
		}
	}
	return "", fmt.Errorf("unknown repository %q", s)
}

func (r Repo) String() string { return string(r) }

// UnmarshalText lowercases the family name. The API sends lowercase already;
// this keeps hand-written config and cached data consistent.
func (r *Repo) UnmarshalText(b []byte) error {
	*r = Repo(strings.ToLower(string(b)))
	return nil
}

// Arch is a target architecture as used in official repository paths.
type Arch string

// Architectures served by the official repositories.
const (
	ArchAny    Arch = "any"
	ArchX86_64 Arch = "x86_64"
	ArchI686   Arch = "i686"
)

// ParseArch parses an architecture name. "x86" is accepted as an alias for
// i686 and "amd64" for x86_64.
func ParseArch(s string) (Arch, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "any":
		return ArchAny, nil
	case "x86_64", "amd64":
		return ArchX86_64, nil
	case "i686", "x86":
		return ArchI686, nil
	}
	return "", fmt.Errorf("unknown architecture %q", s)
}

func (a Arch) String() string { return string(a) }
