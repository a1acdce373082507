package dispatch

import (
	"context"
	"fmt"

	"github.com/dshills/booger/internal/registry"
)

// Resource describes one MCP resource, independent of any particular
// wire encoding — internal/protocol renders this into the JSON-RPC
// resources/list payload.
type Resource struct {
	URI         string
	Name        string
	Description string
	MimeType    string
}

// ResourceContent is one resources/read response body.
type ResourceContent struct {
	URI      string
	MimeType string
	Text     string
}

func statusURI(root string) string {
	return "booger://status/" + root
}

// Resources lists one status resource per registered project, plus the
// dispatcher's default root if it isn't already registered, per the
// single "booger://status/{root}" resource the project's prototype
// exposed generalized to more than one fixed root.
func (d *Dispatcher) Resources() ([]Resource, error) {
	seen := make(map[string]bool)
	var out []Resource

	add := func(root string) {
		if seen[root] {
			return
		}
		seen[root] = true
		out = append(out, Resource{
			URI:         statusURI(root),
			Name:        "status: " + root,
			Description: "Index status for " + root,
			MimeType:    "text/plain",
		})
	}

	projects, err := registry.List()
	if err != nil {
		return nil, fmt.Errorf("list registered projects: %w", err)
	}
	for _, p := range projects {
		add(p.Root)
	}
	if d.defaultRoot != "" {
		add(d.defaultRoot)
	}
	return out, nil
}

// ReadResource resolves a "booger://status/{root}" URI to its current
// index status text, the same summary callStatus produces.
func (d *Dispatcher) ReadResource(ctx context.Context, uri string) (*ResourceContent, error) {
	resources, err := d.Resources()
	if err != nil {
		return nil, err
	}
	var root string
	for _, r := range resources {
		if r.URI == uri {
			root = r.URI[len("booger://status/"):]
			break
		}
	}
	if root == "" {
		return nil, fmt.Errorf("unknown resource URI: %s", uri)
	}

	res, err := d.callStatus(ctx, map[string]any{"project": root})
	if err != nil {
		return nil, err
	}
	return &ResourceContent{URI: uri, MimeType: "text/plain", Text: res.Text}, nil
}
