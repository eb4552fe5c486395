// Package github locates changelogs and release links for gems hosted on
// GitHub.
//
// # Overview
//
// Given a canonical repository URL (https://github.com/<owner>/<repo>), a
// [Locator] builds an ordered list of raw-content URLs that might hold the
// changelog and fetches them through the shared cache until one exists.
//
//	loc := github.NewLocator(client)
//	doc, ok := loc.FetchChangelog(ctx, "https://github.com/rack/rack", "rack", "")
//
// # Candidate Order
//
// Some upstreams host many gems in one repository with a fixed layout
// (aws/aws-sdk-ruby, rails/rails); those resolve to exactly one path.
// Everything else combines [ChangelogFiles] with the default branches that
// pass a probe: the locator fetches .gitignore on "main", then "master",
// and uses the first branch that has one. If neither does, both are tried.
// A changelog link declared by the gem is tried last, with GitHub blob
// links rewritten to raw content.
//
// # Links
//
// [Locator.ReleasesURL], [Locator.TagURL] and [Locator.CompareURL] produce
// the fallback links shown when no changelog text is found. CompareURL
// probes the "v"-prefixed tag form once and falls back to bare version
// tags.
package github
