// Package integrations provides the HTTP plumbing shared by the registry
// API clients.
//
// # Overview
//
// Each registry has its own subpackage:
//
//   - [archlinux]: the official repository API at archlinux.org/packages
//   - [aur]: the Arch User Repository RPC interface
//
// Both are thin: they build a URL, decode the registry's native JSON schema
// and classify failures. Turning native records into one canonical shape is
// the job of [catalog].
//
// # Shared Infrastructure
//
// [Client] wraps an [http.Client] with:
//   - response caching through any [cache.Cache] backend, keyed per registry
//   - retry with exponential backoff for connection errors and 5xx responses
//   - default headers (User-Agent) and per-request overrides
//   - status classification into [errors] codes: 404 is NO_RESULTS, 429 is
//     RATE_LIMITED, everything else non-200 is FETCH_ERROR
//
// [UnixTime] decodes the epoch-second timestamps both registries emit.
//
// [archlinux]: github.com/matzehuels/archquery/pkg/integrations/archlinux
// [aur]: github.com/matzehuels/archquery/pkg/integrations/aur
// [catalog]: github.com/matzehuels/archquery/pkg/catalog
// [cache.Cache]: github.com/matzehuels/archquery/pkg/cache.Cache
// [errors]: github.com/matzehuels/archquery/pkg/errors
package integrations
