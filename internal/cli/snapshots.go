package cli

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/matzehuels/gemstar/pkg/config"
	"github.com/matzehuels/gemstar/pkg/errors"
	"github.com/matzehuels/gemstar/pkg/gitrepo"
	"github.com/matzehuels/gemstar/pkg/lockfile"
	"github.com/matzehuels/gemstar/pkg/pipeline"
)

// loadSnapshots opens the repository containing cfg.Lockfile and reads the
// old and new snapshots.
func (c *CLI) loadSnapshots(cfg config.Config) (prev, next lockfile.Snapshot, err error) {
	prog := newProgress(c.Logger)

	abs, err := filepath.Abs(cfg.Lockfile)
	if err != nil {
		return nil, nil, errors.Wrap(errors.ErrCodeSnapshotUnreadable, err, "resolve %s", cfg.Lockfile)
	}
	repo, err := gitrepo.Open(filepath.Dir(abs))
	if err != nil {
		return nil, nil, errors.Wrap(errors.ErrCodeSnapshotUnreadable, err, "open repository for %s", cfg.Lockfile)
	}
	rel, err := repo.RelPath(abs)
	if err != nil {
		return nil, nil, errors.Wrap(errors.ErrCodeSnapshotUnreadable, err, "locate %s", cfg.Lockfile)
	}

	prev, next, err = pipeline.LoadSnapshots(repo, pipeline.SnapshotSpec{
		WorktreePath: abs,
		RepoPath:     rel,
		From:         cfg.From,
		To:           cfg.To,
	})
	if err != nil {
		return nil, nil, err
	}
	prog.done("Read lockfile snapshots")
	return prev, next, nil
}

// selectChanges returns the changes whose names match filter.
func selectChanges(changes []lockfile.Change, filter *regexp.Regexp) []lockfile.Change {
	var out []lockfile.Change
	for _, ch := range changes {
		if filter == nil || filter.MatchString(ch.Name) {
			out = append(out, ch)
		}
	}
	return out
}

// namesFilter matches exactly the given gem names.
func namesFilter(names []string) *regexp.Regexp {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = regexp.QuoteMeta(n)
	}
	return regexp.MustCompile(`^(?:` + strings.Join(quoted, "|") + `)$`)
}
