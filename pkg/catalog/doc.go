// Package catalog merges the official Arch Linux repositories and the AUR
// into one searchable package catalog.
//
// The two registries speak different schemas. Each native record is mapped
// into the canonical [Package] by a [Mapper], which also tags the record
// with its [Origin]. Searches fan out to both registries concurrently,
// concatenate official results before AUR results, and order the merged
// list with [Rank], a fuzzy subsequence match on package names.
//
// [Catalog.Info] turns a free-form query into one fully detailed record: it
// searches, takes the best match, and asks the registry named by the
// match's Origin for the full record.
//
//	official, _ := archlinux.NewClient(backend, time.Hour, archlinux.Config{})
//	community, _ := aur.NewClient(backend, time.Hour, aur.Config{})
//	cat := catalog.New(official, community, catalog.Options{})
//
//	pkgs, err := cat.Search(ctx, "linux")
//	pkg, err := cat.Info(ctx, "linux")
package catalog
