// Package vcs shells out to git on behalf of the structural differ
// (internal/diff). It never interprets file content; it only
// enumerates what changed and fetches the bytes on either side of a
// revision.
package vcs

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Status is a single changed path's git status letter, collapsed to
// the three states the structural differ cares about.
type Status string

const (
	StatusAdded    Status = "added"
	StatusModified Status = "modified"
	StatusDeleted  Status = "deleted"
)

// ChangedPath is one entry from `git diff --name-status`.
type ChangedPath struct {
	Path   string
	Status Status
}

// Collaborator is what internal/diff needs from a VCS: the set of
// changed paths for a revision range, and the bytes of a path on
// either side of it. internal/diff depends on this interface, not on
// git directly, so tests can fake it.
type Collaborator interface {
	ChangedFiles(ctx context.Context, root, baseRef string) ([]ChangedPath, error)
	StagedFiles(ctx context.Context, root string) ([]ChangedPath, string, error)
	OldBytes(ctx context.Context, root, ref, path string) ([]byte, error)
	WorkingTreeBytes(root, path string) ([]byte, error)
}

// Git is a Collaborator backed by the git CLI via os/exec, the same
// pattern used throughout the pack for shelling out to version
// control: CommandContext with -C for the working directory, stdout
// captured via Output, stderr surfaced in the returned error.
type Git struct{}

// New returns a git-backed Collaborator.
func New() *Git { return &Git{} }

// EnsureRepo reports an error if root is not inside a git working
// tree.
func (g *Git) EnsureRepo(ctx context.Context, root string) error {
	_, err := g.run(ctx, root, "rev-parse", "--git-dir")
	if err != nil {
		return fmt.Errorf("not a git repository: %s", root)
	}
	return nil
}

// ChangedFiles enumerates tracked files whose working-tree content
// differs from baseRef. It prefers a three-dot-style comparison against
// merge-base(baseRef, HEAD), i.e. only changes made since baseRef's
// branch point, and falls back to diffing directly against baseRef when
// no merge base exists (e.g. baseRef is an unrelated history or a bare
// SHA git can't find a common ancestor for). Uncommitted changes to
// tracked files are included; untracked files are not.
func (g *Git) ChangedFiles(ctx context.Context, root, baseRef string) ([]ChangedPath, error) {
	target := baseRef
	if mb, err := g.run(ctx, root, "merge-base", baseRef, "HEAD"); err == nil {
		if t := strings.TrimSpace(mb); t != "" {
			target = t
		}
	}

	out, err := g.run(ctx, root, "diff", "--name-status", "-z", "--no-renames", target)
	if err != nil {
		return nil, fmt.Errorf("git diff --name-status %s: %w", target, err)
	}
	return parseNameStatusNUL(out), nil
}

// StagedFiles enumerates staged changes vs HEAD, falling back to
// unstaged changes vs HEAD when the index is clean. The returned
// label names which comparison actually ran, for display in the
// draft commit message and changelog.
func (g *Git) StagedFiles(ctx context.Context, root string) ([]ChangedPath, string, error) {
	out, err := g.run(ctx, root, "diff", "--cached", "--name-status", "-z", "--no-renames")
	if err != nil {
		return nil, "", fmt.Errorf("git diff --cached: %w", err)
	}
	if changed := parseNameStatusNUL(out); len(changed) > 0 {
		return changed, "HEAD (staged)", nil
	}

	out, err = g.run(ctx, root, "diff", "--name-status", "-z", "--no-renames")
	if err != nil {
		return nil, "", fmt.Errorf("git diff: %w", err)
	}
	return parseNameStatusNUL(out), "HEAD (unstaged)", nil
}

// OldBytes fetches path's content as of ref via `git show ref:path`.
func (g *Git) OldBytes(ctx context.Context, root, ref, path string) ([]byte, error) {
	spec := ref + ":" + path
	out, err := g.run(ctx, root, "show", spec)
	if err != nil {
		return nil, fmt.Errorf("git show %s: %w", spec, err)
	}
	return []byte(out), nil
}

// WorkingTreeBytes reads path's current on-disk content relative to
// root. It bypasses git entirely since the working tree is just a
// directory.
func (g *Git) WorkingTreeBytes(root, path string) ([]byte, error) {
	return os.ReadFile(filepath.Join(root, path))
}

func (g *Git) run(ctx context.Context, root string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", append([]string{"-C", root}, args...)...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return "", fmt.Errorf("%s", msg)
	}
	return string(out), nil
}

// parseNameStatusNUL parses `git diff --name-status -z --no-renames`
// output: alternating NUL-separated "STATUS\0PATH\0..." records.
// --no-renames guarantees a single path per record (a rename would
// otherwise need two).
func parseNameStatusNUL(raw string) []ChangedPath {
	parts := strings.Split(raw, "\x00")
	var out []ChangedPath
	for i := 0; i < len(parts); i++ {
		statusPart := strings.TrimSpace(parts[i])
		if statusPart == "" {
			continue
		}
		status := statusToKind(statusPart[0])
		i++
		if i >= len(parts) {
			break
		}
		path := parts[i]
		if path == "" {
			continue
		}
		out = append(out, ChangedPath{Path: path, Status: status})
	}
	return out
}

func statusToKind(b byte) Status {
	switch b {
	case 'A':
		return StatusAdded
	case 'D':
		return StatusDeleted
	default:
		return StatusModified
	}
}
