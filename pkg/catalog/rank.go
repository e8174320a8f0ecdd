package catalog

import (
	"sort"

	"github.com/sahilm/fuzzy"
)

// Scored pairs a record with its relevance score for one ranking pass.
// Scores are only comparable within the pass that produced them.
type Scored struct {
	Package Package `json:"package"`
	Score   int     `json:"score"`
}

// Rank fuzzy-matches query against every record name and returns the
// matches, best first. A name matches when the query's characters occur in
// it in order, ignoring case; names that don't match are dropped.
//
// Matches at the start of a name, after a separator, on camel-case
// boundaries and in runs score higher. Equal scores keep their input
// order, so the result is deterministic.
func Rank(items []Package, query string) []Scored {
	if query == "" || len(items) == 0 {
		return nil
	}

	names := make([]string, len(items))
	for i, p := range items {
		names[i] = p.Name
	}

	matches := fuzzy.Find(query, names)
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].Index < matches[j].Index
	})

	ranked := make([]Scored, len(matches))
	for i, m := range matches {
		ranked[i] = Scored{Package: items[m.Index], Score: m.Score}
	}
	return ranked
}

// Packages drops the scores.
func Packages(ranked []Scored) []Package {
	if ranked == nil {
		return nil
	}
	out := make([]Package, len(ranked))
	for i, s := range ranked {
		out[i] = s.Package
	}
	return out
}
