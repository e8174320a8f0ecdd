package aur

import "fmt"

// By selects the field an AUR search matches against. It is passed through
// verbatim as the by parameter.
type By string

// Search fields understood by the RPC interface.
const (
	ByDefault      By = ""
	ByName         By = "name"
	ByNameDesc     By = "name-desc"
	ByMaintainer   By = "maintainer"
	ByDepends      By = "depends"
	ByMakeDepends  By = "makedepends"
	ByOptDepends   By = "optdepends"
	ByCheckDepends By = "checkdepends"
)

var fields = []By{ByName, ByNameDesc, ByMaintainer, ByDepends, ByMakeDepends, ByOptDepends, ByCheckDepends}

// Fields lists the selectable search fields, excluding [ByDefault].
func Fields() []By {
	return append([]By(nil), fields...)
}

// ParseBy parses a search field name. The empty string yields [ByDefault].
func ParseBy(s string) (By, error) {
	if s == "" {
		return ByDefault, nil
	}
	for _, f := range fields {
		if By(s) == f {
			return f, nil
		}
	}
	return ByDefault, fmt.Errorf("unknown search field %q", s)
}

func (b By) String() string { return string(b) }

// MatchesName reports whether searching by b matches against package names,
// so that results can be ranked by name similarity.
func (b By) MatchesName() bool {
	return b == ByDefault || b == ByName || b == ByNameDesc
}
