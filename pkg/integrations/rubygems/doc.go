// Package rubygems provides an HTTP client for the RubyGems.org API.
//
// # Overview
//
// This package resolves a gem name to the metadata needed to find its
// changelog: the GitHub repository, homepage, declared changelog link and
// description.
//
// # Usage
//
//	client := rubygems.NewClient(integrations.NewClient(memo, 8*time.Second, nil, hooks))
//	meta := client.Resolve(ctx, "rails")
//	fmt.Println(meta.RepoURI) // https://github.com/rails/rails
//
// # Repository Resolution
//
// [RepoURI] prefers source_code_uri over homepage_uri. GitHub Pages
// homepages (owner.github.io/repo) are rewritten to the code repository,
// http is upgraded to https and .git suffixes are dropped.
//
// # Caching
//
// The raw API response is cached under "rubygems-<name>". A gem the
// registry does not know is cached as a negative result; a timeout or
// server error is not cached.
package rubygems
