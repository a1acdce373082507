package diff

import (
	"context"
	"fmt"

	"github.com/dshills/booger/internal/chunker"
	"github.com/dshills/booger/internal/vcs"
	"github.com/dshills/booger/internal/walker"
)

// FileStatus is how a changed file relates to the base revision.
type FileStatus string

const (
	FileAdded    FileStatus = "added"
	FileModified FileStatus = "modified"
	FileDeleted  FileStatus = "deleted"
)

// ChangedFile is one path's structural diff plus its file-level status.
type ChangedFile struct {
	Path   string
	Status FileStatus
	FileDiff
}

// Summary totals a BranchDiff's file and symbol counts, for the CLI and
// JSON-RPC summary line.
type Summary struct {
	FilesAdded      int
	FilesModified   int
	FilesDeleted    int
	SymbolsAdded    int
	SymbolsModified int
	SymbolsRemoved  int
}

// BranchDiff is the aggregate structural diff between two revisions,
// consumed by branch-diff, draft-commit, and changelog.
type BranchDiff struct {
	BaseRef string
	Files   []ChangedFile
	Summary Summary
}

// Branch computes the structural diff between root's working tree and
// baseRef, enumerating changed files via coll and chunking both sides
// with ck. Files with a binary extension are skipped entirely. A file
// with no registered grammar is still listed with its status and
// counted in the summary, but carries no symbol changes.
func Branch(ctx context.Context, coll vcs.Collaborator, ck *chunker.Chunker, root, baseRef string) (*BranchDiff, error) {
	changed, err := coll.ChangedFiles(ctx, root, baseRef)
	if err != nil {
		return nil, fmt.Errorf("enumerate changed files: %w", err)
	}
	return build(ctx, coll, ck, root, baseRef, changed)
}

// Staged computes the structural diff of staged changes vs HEAD,
// falling back to unstaged changes when nothing is staged.
func Staged(ctx context.Context, coll vcs.Collaborator, ck *chunker.Chunker, root string) (*BranchDiff, error) {
	changed, label, err := coll.StagedFiles(ctx, root)
	if err != nil {
		return nil, fmt.Errorf("enumerate staged files: %w", err)
	}
	return build(ctx, coll, ck, root, label, changed)
}

func build(ctx context.Context, coll vcs.Collaborator, ck *chunker.Chunker, root, baseRef string, changed []vcs.ChangedPath) (*BranchDiff, error) {
	bd := &BranchDiff{BaseRef: baseRef}
	for _, cp := range changed {
		if walker.HasBinaryExtension(cp.Path) {
			continue
		}

		var oldBytes, newBytes []byte
		if cp.Status != vcs.StatusAdded {
			b, err := coll.OldBytes(ctx, root, baseRef, cp.Path)
			if err == nil {
				oldBytes = b
			}
		}
		if cp.Status != vcs.StatusDeleted {
			b, err := coll.WorkingTreeBytes(root, cp.Path)
			if err == nil {
				newBytes = b
			}
		}

		fd, err := DiffFile(ck, cp.Path, oldBytes, newBytes)
		if err != nil {
			return nil, fmt.Errorf("diff %s: %w", cp.Path, err)
		}

		status := FileModified
		switch cp.Status {
		case vcs.StatusAdded:
			status = FileAdded
			bd.Summary.FilesAdded++
		case vcs.StatusDeleted:
			status = FileDeleted
			bd.Summary.FilesDeleted++
		default:
			bd.Summary.FilesModified++
		}
		bd.Summary.SymbolsAdded += len(fd.Added)
		bd.Summary.SymbolsModified += len(fd.Modified)
		bd.Summary.SymbolsRemoved += len(fd.Removed)

		bd.Files = append(bd.Files, ChangedFile{Path: cp.Path, Status: status, FileDiff: *fd})
	}
	return bd, nil
}
