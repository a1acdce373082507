package dispatch

import (
	"context"
	"fmt"

	"github.com/dshills/booger/internal/registry"
	"github.com/dshills/booger/internal/search"
)

// callWorkspace fans a keyword search out across every registered
// project, per spec §4.6's "Workspace search" / component C6. Unlike
// the single-project search tools it never auto-indexes: a project
// that hasn't been indexed yet is reported as a per-project error
// rather than silently skipped or written to.
func (d *Dispatcher) callWorkspace(ctx context.Context, args map[string]any) (*Result, error) {
	query := stringArg(args, "query")
	if query == "" {
		return errorResult("query parameter is required"), nil
	}

	projects, err := registry.List()
	if err != nil {
		return nil, fmt.Errorf("list registered projects: %w", err)
	}
	if len(projects) == 0 {
		return errorResult("no registered projects. Run: booger project add <name> <path>"), nil
	}

	var (
		wps    []search.WorkspaceProject
		closes []func() error
		misses []string
	)
	defer func() {
		for _, c := range closes {
			c()
		}
	}()

	for _, p := range projects {
		s, exists, err := openReadOnly(p.Root)
		if err != nil {
			return nil, fmt.Errorf("open store for %s: %w", p.Name, err)
		}
		if !exists {
			misses = append(misses, p.Name)
			continue
		}
		closes = append(closes, s.Close)
		wps = append(wps, search.WorkspaceProject{ID: p.Name, Store: s})
	}

	if len(wps) == 0 {
		return errorResult("no registered project is indexed. Run: booger index <path> for each"), nil
	}

	embedder, err := d.newEmbedder(ctx, d.defaultRoot)
	if err != nil {
		return nil, err
	}

	req := search.Request{
		Query:      query,
		MaxResults: intArg(args, "max_results", 0),
		Filters:    filtersArg(args),
		SessionID:  stringArg(args, "session"),
	}
	results, workspaceErrs, err := search.Workspace(ctx, wps, embedder, req)
	if err != nil {
		return nil, fmt.Errorf("workspace search: %w", err)
	}

	if len(results) == 0 {
		msg := "No matches across registered projects."
		if len(misses) > 0 {
			msg += fmt.Sprintf(" %d project(s) not indexed: %v", len(misses), misses)
		}
		return &Result{Text: msg}, nil
	}

	mode, maxLines, headLimit, offset := outputArgs(args)
	text := Shape(results, mode, maxLines, headLimit, offset)
	if len(misses) > 0 {
		text += fmt.Sprintf("\n(%d project(s) not indexed, skipped: %v)", len(misses), misses)
	}
	for _, we := range workspaceErrs {
		text += fmt.Sprintf("\n(project %s errored: %s)", we.Project, we.Err)
	}
	return &Result{Text: text, Data: results}, nil
}
