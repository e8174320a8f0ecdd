// Package pkg provides the libraries behind archquery, a unified search over
// the official Arch Linux repositories and the Arch User Repository (AUR).
//
// # Overview
//
// The pkg directory is organized into these areas:
//
//  1. [integrations] - Registry clients (archlinux.org packages API, AUR RPC)
//  2. [catalog] - Canonical records, mappers, ranking and the aggregator
//  3. [cache] - Response cache backends (file, redis, null)
//  4. [errors] - Error codes shared by every layer
//  5. [observability] - Hooks for search, cache and HTTP events
//
// # Architecture
//
// The data flow for a search:
//
//	query
//	  ↓
//	[catalog] fans out to both registries concurrently
//	  ↓                         ↓
//	[integrations/archlinux]  [integrations/aur]
//	  ↓                         ↓
//	OfficialMapper            AURMapper
//	  ↓                         ↓
//	merge (official first) → fuzzy rank by name
//	  ↓
//	[]catalog.Scored
//
// An info lookup ranks the query the same way, then fetches the full record
// of the best match from the registry recorded in its origin.
//
// # Quick Start
//
//	official, _ := archlinux.NewClient(cache.NewNullCache(), time.Hour, archlinux.Config{})
//	community, _ := aur.NewClient(cache.NewNullCache(), time.Hour, aur.Config{})
//	cat := catalog.New(official, community, catalog.Options{})
//
//	pkgs, err := cat.Search(ctx, "linux")
//	if err != nil {
//	    return err
//	}
//	for _, p := range pkgs {
//	    fmt.Println(p.Name, p.Version, p.Origin)
//	}
//
// [integrations]: https://pkg.go.dev/github.com/matzehuels/archquery/pkg/integrations
// [catalog]: https://pkg.go.dev/github.com/matzehuels/archquery/pkg/catalog
// [cache]: https://pkg.go.dev/github.com/matzehuels/archquery/pkg/cache
// [errors]: https://pkg.go.dev/github.com/matzehuels/archquery/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/archquery/pkg/observability
package pkg
