// Package changelog extracts per-version sections from changelog documents.
//
// # Overview
//
// A changelog arrives as raw text from one of three places: a markdown or
// RDoc file in the repository, a plain-text file with bare version lines, or
// a scraped GitHub releases page. [Parse] detects which it has and returns a
// [Sections] value mapping version keys to the lines under each heading.
//
// # Heading Detection
//
// Markdown and RDoc text are scanned line by line. A line opens a new section
// when one of the heading matchers accepts it; matchers are tried in order
// and the first hit wins:
//
//  1. Marker, optional version, trailing ISO date ("## [1.2.0] - 2024-01-01")
//  2. Marker, label words, version ("## Version 1.2.0", "= rails 7.1.0")
//  3. Marker directly followed by a version ("### v1.2.0 Highlights")
//  4. Marker, date, parenthesized version ("### 2025-11-07 (2.16.0)")
//  5. No marker, the whole line is a version ("1.4.0 (2025-06-02)")
//
// RDoc "=" runs are rewritten to "#" in the stored heading line. Text before
// the first heading is dropped. Sections keyed by a bare date are re-keyed
// from their heading with [ExtractVersion] once the scan completes.
//
// Two headings that resolve to the same key are merged: the later body is
// appended after a blank line, so no release note is lost.
//
// # Release Pages
//
// [ParseReleases] reads the HTML of a GitHub releases listing. Each release
// becomes one section whose first line is a synthesized "## <version>"
// heading followed by the release body HTML. Malformed pages yield no
// sections rather than an error.
package changelog
