package pipeline

import (
	"github.com/matzehuels/gemstar/pkg/errors"
	"github.com/matzehuels/gemstar/pkg/lockfile"
)

// BlobSource reads file content at a revision. *gitrepo.Repo implements it.
type BlobSource interface {
	ShowBlobAt(revish, path string) (string, error)
}

// SnapshotSpec locates the two lockfile snapshots of a run.
type SnapshotSpec struct {
	WorktreePath string // lockfile on disk, read when To is empty
	RepoPath     string // lockfile path relative to the repository root
	From         string // revision or date of the old snapshot
	To           string // revision or date of the new snapshot; empty reads WorktreePath
}

// LoadSnapshots reads the old and new snapshots. Any failure is fatal for
// the run and carries errors.ErrCodeSnapshotUnreadable.
func LoadSnapshots(blobs BlobSource, spec SnapshotSpec) (prev, next lockfile.Snapshot, err error) {
	prev, err = snapshotAt(blobs, spec.From, spec.RepoPath)
	if err != nil {
		return nil, nil, err
	}

	if spec.To != "" {
		next, err = snapshotAt(blobs, spec.To, spec.RepoPath)
		if err != nil {
			return nil, nil, err
		}
		return prev, next, nil
	}

	next, err = lockfile.ParseFile(spec.WorktreePath)
	if err != nil {
		return nil, nil, errors.Wrap(errors.ErrCodeSnapshotUnreadable, err, "read %s", spec.WorktreePath)
	}
	return prev, next, nil
}

func snapshotAt(blobs BlobSource, revish, path string) (lockfile.Snapshot, error) {
	if blobs == nil {
		return nil, errors.New(errors.ErrCodeSnapshotUnreadable, "no repository to read %s at %s", path, revish)
	}
	content, err := blobs.ShowBlobAt(revish, path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeSnapshotUnreadable, err, "read %s at %s", path, revish)
	}
	snap, err := lockfile.ParseString(content)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeSnapshotUnreadable, err, "parse %s at %s", path, revish)
	}
	return snap, nil
}
