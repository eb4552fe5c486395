// Package render turns pipeline results into the gem update report.
//
// # Overview
//
// The report is a single self-contained HTML page with one section per
// updated gem, ordered by name. Each section links the gem's homepage
// (🐙 for GitHub, 💎 otherwise), shows the version transition, and then
// either the changelog sections inside the range, rendered from Markdown
// with goldmark, or links to the GitHub release pages when no changelog
// text was found. Gems that failed to resolve are listed at the end.
//
//	report := render.Report{
//	    Project:     "shop",
//	    From:        "HEAD",
//	    GeneratedAt: time.Now(),
//	    Updates:     result.Updates,
//	    Failures:    result.Failures,
//	}
//	err := render.WriteFile("gem_update_changelog.html", report)
//
// Section bodies are passed to the Markdown renderer with raw HTML
// enabled, because release pages scraped from GitHub are already HTML.
package render
