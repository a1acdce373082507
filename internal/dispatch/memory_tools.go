package dispatch

import (
	"context"
	"fmt"
	"time"

	"github.com/dshills/booger/internal/memory"
)

func (d *Dispatcher) openMemory(root string) (*memory.Memory, func(), error) {
	s, exists, err := openReadOnly(root)
	if err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}
	if !exists {
		s, err = openWritable(root)
		if err != nil {
			return nil, nil, fmt.Errorf("open store: %w", err)
		}
	}
	return memory.New(s), func() { s.Close() }, nil
}

func (d *Dispatcher) callAnnotate(ctx context.Context, args map[string]any) (*Result, error) {
	root, err := ResolveRoot(stringArg(args, "project"), d.defaultRoot)
	if err != nil {
		return errorResult("%s", err), nil
	}
	target := stringArg(args, "target")
	note := stringArg(args, "note")
	if target == "" || note == "" {
		return errorResult("target and note parameters are required"), nil
	}

	m, closeFn, err := d.openMemory(root)
	if err != nil {
		return nil, err
	}
	defer closeFn()

	var ttl time.Duration
	if secs := intArg(args, "ttl_seconds", 0); secs > 0 {
		ttl = time.Duration(secs) * time.Second
	}
	a, err := m.Annotate(ctx, target, note, stringArg(args, "session"), ttl)
	if err != nil {
		return errorResult("%s", err), nil
	}
	return &Result{Text: fmt.Sprintf("Annotated %q: %s", target, note), Data: a}, nil
}

func (d *Dispatcher) callAnnotations(ctx context.Context, args map[string]any) (*Result, error) {
	root, err := ResolveRoot(stringArg(args, "project"), d.defaultRoot)
	if err != nil {
		return errorResult("%s", err), nil
	}
	s, exists, err := openReadOnly(root)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	if !exists {
		return &Result{Text: "No index found. Run: booger index " + root}, nil
	}
	defer s.Close()

	m := memory.New(s)
	annotations, err := m.Annotations(ctx, stringArg(args, "target"), stringArg(args, "session"))
	if err != nil {
		return nil, fmt.Errorf("list annotations: %w", err)
	}
	if len(annotations) == 0 {
		return &Result{Text: "No annotations."}, nil
	}
	var text string
	for i, a := range annotations {
		if i > 0 {
			text += "\n"
		}
		text += fmt.Sprintf("%s: %s", a.Target, a.Note)
	}
	return &Result{Text: text, Data: annotations}, nil
}

func (d *Dispatcher) callFocus(ctx context.Context, args map[string]any) (*Result, error) {
	return d.workset(ctx, args, true)
}

func (d *Dispatcher) callVisit(ctx context.Context, args map[string]any) (*Result, error) {
	return d.workset(ctx, args, false)
}

func (d *Dispatcher) workset(ctx context.Context, args map[string]any, focus bool) (*Result, error) {
	root, err := ResolveRoot(stringArg(args, "project"), d.defaultRoot)
	if err != nil {
		return errorResult("%s", err), nil
	}
	paths := stringSliceArg(args, "paths")
	if len(paths) == 0 {
		return errorResult("paths parameter is required"), nil
	}

	m, closeFn, err := d.openMemory(root)
	if err != nil {
		return nil, err
	}
	defer closeFn()

	session := stringArg(args, "session")
	verb := "Visited"
	if focus {
		verb = "Focused"
		err = m.Focus(ctx, paths, session)
	} else {
		err = m.Visit(ctx, paths, session)
	}
	if err != nil {
		return errorResult("%s", err), nil
	}
	return &Result{Text: fmt.Sprintf("%s %d path(s)", verb, len(paths))}, nil
}

func (d *Dispatcher) callForget(ctx context.Context, args map[string]any) (*Result, error) {
	root, err := ResolveRoot(stringArg(args, "project"), d.defaultRoot)
	if err != nil {
		return errorResult("%s", err), nil
	}
	s, exists, err := openReadOnly(root)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	if !exists {
		return &Result{Text: "No index found; nothing to forget."}, nil
	}
	defer s.Close()

	m := memory.New(s)
	res, err := m.Forget(ctx, stringArg(args, "session"))
	if err != nil {
		return nil, fmt.Errorf("forget: %w", err)
	}
	return &Result{
		Text: fmt.Sprintf("Forgot %d annotation(s), %d workset entry(ies)", res.AnnotationsRemoved, res.WorksetRemoved),
		Data: res,
	}, nil
}
