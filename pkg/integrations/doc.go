// Package integrations provides the HTTP fetch primitive shared by the
// RubyGems and GitHub clients.
//
// # Overview
//
//   - [rubygems]: gem metadata lookup
//   - [github]: changelog location discovery and release links
//
// # Client Pattern
//
// Every remote lookup goes through a [Client], which bounds each request by
// a short timeout and maps responses to two sentinel errors:
//
//   - [ErrNotFound] for 404 and 410; a cached fetch records it as a
//     negative result
//   - [ErrNetwork] for timeouts, connection failures and other statuses;
//     never cached, so an outage does not hide a resource for a week
//
// Callers wrap fetches in [Client.Cached] with a semantic key from
// [cache] so repeated runs do not hit the network:
//
//	data, ok := client.Cached(ctx, cache.ChangelogKey(url), func(ctx context.Context) ([]byte, error) {
//		return client.GetBytes(ctx, url)
//	})
//
// [rubygems]: github.com/matzehuels/gemstar/pkg/integrations/rubygems
// [github]: github.com/matzehuels/gemstar/pkg/integrations/github
// [cache]: github.com/matzehuels/gemstar/pkg/cache
package integrations
