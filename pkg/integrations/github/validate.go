package github

import (
	"errors"
	"regexp"
	"strings"

	"github.com/matzehuels/gemstar/pkg/integrations"
)

// Regex patterns for GitHub resource validation.
var (
	// GitHub usernames/orgs: 1-39 alphanumeric or hyphen, not starting with hyphen
	validOwner = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9-]{0,38}$`)
	// GitHub repo names: 1-100 alphanumeric, hyphen, underscore, or dot
	validRepo = regexp.MustCompile(`^[a-zA-Z0-9._-]{1,100}$`)

	repoURLPattern = regexp.MustCompile(`^https://github\.com/([^/?#]+)/([^/?#]+)`)
	// Project pages: https://owner.github.io/repo/...
	pagesPattern = regexp.MustCompile(`^https://([A-Za-z0-9-]+)\.github\.io/([^/?#]+)`)
)

// ValidateOwner validates a GitHub username or organization name.
func ValidateOwner(owner string) error {
	if owner == "" {
		return errors.New("owner is required")
	}
	if !validOwner.MatchString(owner) {
		return errors.New("invalid owner format: must be 1-39 alphanumeric characters or hyphens, cannot start with hyphen")
	}
	return nil
}

// ValidateRepo validates a GitHub repository name.
func ValidateRepo(repo string) error {
	if repo == "" {
		return errors.New("repo is required")
	}
	if !validRepo.MatchString(repo) {
		return errors.New("invalid repo format: must be 1-100 alphanumeric characters, hyphens, underscores, or dots")
	}
	return nil
}

// ValidateRepoRef validates both owner and repo parameters.
func ValidateRepoRef(owner, repo string) error {
	if err := ValidateOwner(owner); err != nil {
		return err
	}
	return ValidateRepo(repo)
}

// ParseRepoURL extracts owner and repo from a canonical
// https://github.com/<owner>/<repo> URL. Trailing path segments are ignored.
func ParseRepoURL(raw string) (owner, repo string, err error) {
	m := repoURLPattern.FindStringSubmatch(raw)
	if m == nil {
		return "", "", errors.New("not a github.com repository URL")
	}
	owner, repo = m[1], strings.TrimSuffix(m[2], ".git")
	if err := ValidateRepoRef(owner, repo); err != nil {
		return "", "", err
	}
	return owner, repo, nil
}

// RepoURL reduces a declared source or homepage URL to the canonical
// https://github.com/<owner>/<repo> form. Scheme variants, www hosts, .git
// suffixes and owner.github.io/<repo> project pages are accepted. ok is
// false for anything that does not point at a GitHub repository.
func RepoURL(raw string) (url string, ok bool) {
	s := integrations.NormalizeRepoURL(raw)
	s = strings.Replace(s, "://www.github.com/", "://github.com/", 1)
	if m := pagesPattern.FindStringSubmatch(s); m != nil {
		s = "https://github.com/" + m[1] + "/" + m[2]
	}
	owner, repo, err := ParseRepoURL(s)
	if err != nil {
		return "", false
	}
	return "https://github.com/" + owner + "/" + repo, true
}
