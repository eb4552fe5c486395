// Package gitrepo reads lockfile content at past revisions of a git
// repository using go-git.
//
// Revisions are anything go-git can resolve (HEAD, branches, tags, hashes,
// HEAD~n) or a date/time string, which selects the newest commit on HEAD
// made at or before that instant.
package gitrepo

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"

	"github.com/matzehuels/gemstar/pkg/errors"
)

var dateLikeRE = regexp.MustCompile(`\d{4}-\d{2}-\d{2}|\d{1,2}:\d{2}`)

// dateLayouts are tried in order when a revision looks like a date.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// Repo is an opened git repository.
type Repo struct {
	repo *git.Repository
	root string
	now  func() time.Time
}

// Open opens the repository containing dir, walking up to the nearest
// .git directory.
func Open(dir string) (*Repo, error) {
	if dir == "" {
		var err error
		if dir, err = os.Getwd(); err != nil {
			return nil, fmt.Errorf("getting current directory: %w", err)
		}
	}
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("opening repository at %s: %w", dir, err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("getting worktree: %w", err)
	}
	return &Repo{repo: repo, root: wt.Filesystem.Root(), now: time.Now}, nil
}

// Root returns the absolute path of the worktree root.
func (r *Repo) Root() string { return r.root }

// RelPath converts path, absolute or relative to the working directory, to
// a slash-separated path relative to the repository root.
func (r *Repo) RelPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	root, err := filepath.EvalSymlinks(r.root)
	if err != nil {
		root = r.root
	}
	if resolved, err := filepath.EvalSymlinks(filepath.Dir(abs)); err == nil {
		abs = filepath.Join(resolved, filepath.Base(abs))
	}
	rel, err := filepath.Rel(root, abs)
	if err != nil {
		return "", err
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", errors.New(errors.ErrCodeInvalidPath, "%s is outside repository %s", path, r.root)
	}
	return filepath.ToSlash(rel), nil
}

// ResolveCommit resolves a revision or date/time string to a commit.
func (r *Repo) ResolveCommit(revish string) (*object.Commit, error) {
	if dateLikeRE.MatchString(revish) {
		if t, ok := r.parseTime(revish); ok {
			return r.commitBefore(t, revish)
		}
	}
	hash, err := r.repo.ResolveRevision(plumbing.Revision(revish))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRevisionUnknown, err, "unknown revision %s", revish)
	}
	commit, err := r.repo.CommitObject(*hash)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRevisionUnknown, err, "revision %s is not a commit", revish)
	}
	return commit, nil
}

func (r *Repo) parseTime(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			if layout == "2006-01-02" {
				t = t.Add(24*time.Hour - time.Second)
			}
			return t, true
		}
	}
	for _, layout := range []string{"15:04", "15:04:05"} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			now := r.now()
			return time.Date(now.Year(), now.Month(), now.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.Local), true
		}
	}
	return time.Time{}, false
}

func (r *Repo) commitBefore(t time.Time, revish string) (*object.Commit, error) {
	head, err := r.repo.Head()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRevisionUnknown, err, "reading HEAD")
	}
	iter, err := r.repo.Log(&git.LogOptions{From: head.Hash()})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRevisionUnknown, err, "reading history")
	}
	defer iter.Close()

	var found *object.Commit
	err = iter.ForEach(func(c *object.Commit) error {
		if !c.Committer.When.After(t) {
			found = c
			return storer.ErrStop
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRevisionUnknown, err, "reading history")
	}
	if found == nil {
		return nil, errors.New(errors.ErrCodeRevisionUnknown, "no commit before %s on HEAD", revish)
	}
	return found, nil
}

// ShowBlobAt returns the content of path, relative to the repository root,
// at revision revish. Absolute paths and paths with ".." are rejected.
func (r *Repo) ShowBlobAt(revish, path string) (string, error) {
	if err := errors.ValidatePath(path); err != nil {
		return "", err
	}
	commit, err := r.ResolveCommit(revish)
	if err != nil {
		return "", err
	}
	file, err := commit.File(path)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeNotFound, err, "%s at %s", path, revish)
	}
	content, err := file.Contents()
	if err != nil {
		return "", fmt.Errorf("reading %s at %s: %w", path, revish, err)
	}
	return content, nil
}
