// Package memory implements booger's volatile working-memory layer:
// annotations, focus, and visited paths, all scoped to an optional
// session id and consulted by internal/search's volatile re-ranking.
package memory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dshills/booger/internal/store"
	"github.com/dshills/booger/pkg/types"
)

// Memory wraps a chunk store's annotation and workset tables.
type Memory struct {
	store *store.Store
}

func New(s *store.Store) *Memory {
	return &Memory{store: s}
}

// Annotate attaches note to target, optionally scoped to a session and
// expiring after ttl (ttl<=0 means it never expires).
func (m *Memory) Annotate(ctx context.Context, target, note, sessionID string, ttl time.Duration) (*types.Annotation, error) {
	if target == "" {
		return nil, fmt.Errorf("annotation target cannot be empty")
	}
	if note == "" {
		return nil, fmt.Errorf("annotation note cannot be empty")
	}
	a := &types.Annotation{Target: target, Note: note, SessionID: sessionID}
	if ttl > 0 {
		a.ExpiresAt = time.Now().Add(ttl)
	}
	if err := m.store.CreateAnnotation(ctx, a); err != nil {
		return nil, fmt.Errorf("create annotation: %w", err)
	}
	return a, nil
}

// Annotations lists non-expired annotations, filtered by an exact
// target (when non-empty) and visible to sessionID — meaning scoped to
// sessionID itself or unscoped (empty SessionID), per spec §4.7.
func (m *Memory) Annotations(ctx context.Context, target, sessionID string) ([]*types.Annotation, error) {
	if _, err := m.store.ClearExpiredAnnotations(ctx, time.Now()); err != nil {
		return nil, fmt.Errorf("clear expired annotations: %w", err)
	}

	var all []*types.Annotation
	var err error
	if target != "" {
		all, err = m.store.AnnotationsForTarget(ctx, target)
	} else {
		all, err = m.store.AllAnnotations(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("load annotations: %w", err)
	}

	if sessionID == "" {
		return all, nil
	}
	out := make([]*types.Annotation, 0, len(all))
	for _, a := range all {
		if a.SessionID == "" || a.SessionID == sessionID {
			out = append(out, a)
		}
	}
	return out, nil
}

// Focus marks paths as focused for sessionID, boosting their search
// relevance until unfocused or forgotten.
func (m *Memory) Focus(ctx context.Context, paths []string, sessionID string) error {
	return m.addWorkset(ctx, paths, types.WorksetFocus, sessionID)
}

// Visit marks paths as visited for sessionID, penalizing their search
// relevance (already-seen code ranks lower) until forgotten.
func (m *Memory) Visit(ctx context.Context, paths []string, sessionID string) error {
	return m.addWorkset(ctx, paths, types.WorksetVisited, sessionID)
}

func (m *Memory) addWorkset(ctx context.Context, paths []string, kind types.WorksetKind, sessionID string) error {
	for _, p := range paths {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if err := m.store.UpsertWorksetEntry(ctx, &types.WorksetEntry{
			Path: p, Kind: kind, SessionID: sessionID, CreatedAt: time.Now(),
		}); err != nil {
			return fmt.Errorf("upsert workset entry %s: %w", p, err)
		}
	}
	return nil
}

// Unfocus removes paths from the focus set for sessionID without
// touching visited paths or annotations.
func (m *Memory) Unfocus(ctx context.Context, paths []string, sessionID string) error {
	for _, p := range paths {
		if err := m.store.ForgetWorksetPath(ctx, p, types.WorksetFocus, sessionID); err != nil {
			return fmt.Errorf("unfocus %s: %w", p, err)
		}
	}
	return nil
}

// Workset lists every path of kind (kind empty lists both focus and
// visited) for sessionID.
func (m *Memory) Workset(ctx context.Context, kind types.WorksetKind, sessionID string) ([]*types.WorksetEntry, error) {
	kinds := []types.WorksetKind{types.WorksetFocus, types.WorksetVisited}
	if kind != "" {
		kinds = []types.WorksetKind{kind}
	}
	var out []*types.WorksetEntry
	for _, k := range kinds {
		paths, err := m.store.WorksetPaths(ctx, k, sessionID)
		if err != nil {
			return nil, fmt.Errorf("load %s workset: %w", k, err)
		}
		for _, p := range paths {
			out = append(out, &types.WorksetEntry{Path: p, Kind: k, SessionID: sessionID})
		}
	}
	return out, nil
}

// ForgetResult reports how many rows a Forget call removed, per spec
// §4.7's "removed counts".
type ForgetResult struct {
	AnnotationsRemoved int64
	WorksetRemoved     int64
}

// Forget clears volatile state: with sessionID it clears only that
// session's annotations and workset entries; with no sessionID it
// clears every volatile row regardless of session, per spec §4.7.
func (m *Memory) Forget(ctx context.Context, sessionID string) (*ForgetResult, error) {
	var res ForgetResult
	var err error
	if sessionID == "" {
		res.AnnotationsRemoved, err = m.store.DeleteAllAnnotations(ctx)
		if err != nil {
			return nil, fmt.Errorf("clear all annotations: %w", err)
		}
		res.WorksetRemoved, err = m.store.ClearAllWorkset(ctx)
		if err != nil {
			return nil, fmt.Errorf("clear all workset: %w", err)
		}
		return &res, nil
	}

	res.AnnotationsRemoved, err = m.store.DeleteAnnotationsForSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("clear session annotations: %w", err)
	}
	res.WorksetRemoved, err = m.store.ClearWorkset(ctx, "", sessionID)
	if err != nil {
		return nil, fmt.Errorf("clear session workset: %w", err)
	}
	return &res, nil
}

// MatchingNotes returns the annotations the output shaper should render
// as "[note]" lines in front of a chunk's content: those whose target
// is the chunk's path, overlap its line range via "path:line", or name
// its symbol, per spec §4.7.
func (m *Memory) MatchingNotes(ctx context.Context, filePath, symbolName string, startLine, endLine int) ([]*types.Annotation, error) {
	annotations, err := m.Annotations(ctx, "", "")
	if err != nil {
		return nil, err
	}
	var out []*types.Annotation
	for _, a := range annotations {
		if a.Target == filePath || (symbolName != "" && a.Target == symbolName) {
			out = append(out, a)
			continue
		}
		if path, line, ok := splitAnnotationTargetLine(a.Target); ok && path == filePath && line >= startLine && line <= endLine {
			out = append(out, a)
		}
	}
	return out, nil
}
