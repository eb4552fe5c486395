package cache

// Semantic cache keys. Backends hash them, so any string is acceptable.

// ChangelogKey is the key for a candidate changelog URL.
func ChangelogKey(url string) string { return "changelog-" + url }

// RubyGemsKey is the key for a registry metadata document.
func RubyGemsKey(name string) string { return "rubygems-" + name }

// ProbeKey is the key for the branch probe of repository base on branch.
// The base is part of the key so probes for different repositories do not
// share an entry.
func ProbeKey(base, branch string) string { return "gitignore-" + base + "/" + branch }

// ReleasesKey is the key for a scraped release-listing page.
func ReleasesKey(url string) string { return "releases-" + url }

// CompareKey is the key for a compare-link existence probe.
func CompareKey(url string) string { return "compare-" + url }
