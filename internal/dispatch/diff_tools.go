package dispatch

import (
	"context"
	"fmt"

	"github.com/dshills/booger/internal/diff"
)

// resolveBranchDiff runs Branch or Staged depending on whether a base
// ref was supplied, per spec §4.8's single branch-diff tool covering
// both usages.
func (d *Dispatcher) resolveBranchDiff(ctx context.Context, root string, args map[string]any) (*diff.BranchDiff, error) {
	if base := stringArg(args, "base"); base != "" {
		return diff.Branch(ctx, d.collaborator, d.chunker, root, base)
	}
	return diff.Staged(ctx, d.collaborator, d.chunker, root)
}

func (d *Dispatcher) callBranchDiff(ctx context.Context, args map[string]any) (*Result, error) {
	root, err := ResolveRoot(stringArg(args, "project"), d.defaultRoot)
	if err != nil {
		return errorResult("%s", err), nil
	}
	bd, err := d.resolveBranchDiff(ctx, root, args)
	if err != nil {
		return errorResult("%s", err), nil
	}
	if len(bd.Files) == 0 {
		return &Result{Text: fmt.Sprintf("No structural changes vs %s.", bd.BaseRef)}, nil
	}
	s := bd.Summary
	text := fmt.Sprintf(
		"%d file(s) changed vs %s: +%d/-%d/~%d files, +%d/-%d/~%d symbols",
		len(bd.Files), bd.BaseRef, s.FilesAdded, s.FilesDeleted, s.FilesModified,
		s.SymbolsAdded, s.SymbolsRemoved, s.SymbolsModified)
	return &Result{Text: text, Data: bd}, nil
}

func (d *Dispatcher) callDraftCommit(ctx context.Context, args map[string]any) (*Result, error) {
	root, err := ResolveRoot(stringArg(args, "project"), d.defaultRoot)
	if err != nil {
		return errorResult("%s", err), nil
	}
	bd, err := d.resolveBranchDiff(ctx, root, args)
	if err != nil {
		return errorResult("%s", err), nil
	}
	return &Result{Text: diff.DraftCommitMessage(bd)}, nil
}

func (d *Dispatcher) callChangelog(ctx context.Context, args map[string]any) (*Result, error) {
	root, err := ResolveRoot(stringArg(args, "project"), d.defaultRoot)
	if err != nil {
		return errorResult("%s", err), nil
	}
	bd, err := d.resolveBranchDiff(ctx, root, args)
	if err != nil {
		return errorResult("%s", err), nil
	}
	return &Result{Text: diff.Changelog(bd)}, nil
}
