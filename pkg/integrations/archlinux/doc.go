// Package archlinux provides a client for the official Arch Linux package
// API at archlinux.org/packages.
//
// Two endpoints are used:
//
//	GET {base}search/json/?q=<query>          full-text search across families
//	GET {base}{repo}/{arch}/{name}/json       one package in one family
//
// Info needs the repository family up front; a search result carries it in
// [Package.Repo]. Responses are cached through the shared
// [integrations.Client].
//
// [integrations.Client]: github.com/matzehuels/archquery/pkg/integrations.Client
package archlinux
