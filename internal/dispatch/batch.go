package dispatch

import (
	"context"
	"fmt"
)

// BatchCall is one (name, arguments) pair inside a batch request.
type BatchCall struct {
	Name      string
	Arguments map[string]any
}

// BatchItem is one entry's outcome: either Result or Err is set, never
// both, mirroring the rest of the dispatch surface's error shape.
type BatchItem struct {
	Name   string
	Result *Result
	Err    string
}

func parseBatchCalls(args map[string]any) ([]BatchCall, error) {
	raw, ok := args["calls"].([]any)
	if !ok {
		return nil, fmt.Errorf("calls parameter is required and must be a list")
	}
	calls := make([]BatchCall, 0, len(raw))
	for _, item := range raw {
		m, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("each batch entry must be an object with name and arguments")
		}
		name, _ := m["name"].(string)
		if name == "" {
			return nil, fmt.Errorf("each batch entry requires a name")
		}
		if name == "batch" {
			return nil, ErrRecursiveBatch
		}
		entryArgs, _ := m["arguments"].(map[string]any)
		calls = append(calls, BatchCall{Name: name, Arguments: entryArgs})
	}
	return calls, nil
}

// callBatch runs up to maxBatchSize tool calls sequentially, per spec
// §4.9/§8 property 10: nested batches and oversized batches are
// rejected before any entry runs, and one entry failing never stops the
// rest (the failure is recorded per-entry).
func (d *Dispatcher) callBatch(ctx context.Context, args map[string]any) (*Result, error) {
	calls, err := parseBatchCalls(args)
	if err != nil {
		return errorResult("%s", err), nil
	}
	if len(calls) > maxBatchSize {
		return errorResult("%s", ErrBatchTooLarge), nil
	}

	items := make([]BatchItem, len(calls))
	var failed int
	for i, c := range calls {
		res, err := d.Call(ctx, c.Name, c.Arguments)
		switch {
		case err != nil:
			items[i] = BatchItem{Name: c.Name, Err: err.Error()}
			failed++
		case res.IsError:
			items[i] = BatchItem{Name: c.Name, Err: res.Text}
			failed++
		default:
			items[i] = BatchItem{Name: c.Name, Result: res}
		}
	}

	return &Result{
		Text: fmt.Sprintf("Ran %d batch call(s), %d failed", len(items), failed),
		Data: items,
	}, nil
}
