// Package version parses, compares and orders gem version strings.
//
// Parsing never fails: [Parse] substitutes [Min] for anything it cannot read,
// so a bogus changelog heading or lockfile entry sorts first instead of
// aborting a run. [ParseStrict] reports the problem for callers that need to
// tell the two apart.
//
// Versions follow RubyGems ordering. Dotted segments are compared left to
// right, missing trailing segments count as zero, and a segment containing
// letters marks a prerelease that sorts before the release:
//
//	1.0.0.rc1 < 1.0.0 == 1.0 < 1.0.1 < 1.1
//
// A trailing "-<identifier>" suffix such as a platform tag is dropped before
// parsing, so "1.15.4-x86_64-linux" equals "1.15.4".
//
// [FilterAndOrder] selects changelog sections inside a (from, to] range, newest
// first. [EnumerateSteps] guesses the releases between two versions when no
// changelog text exists.
package version
