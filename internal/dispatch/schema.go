package dispatch

import (
	"github.com/mark3labs/mcp-go/mcp"
)

func strProp(desc string) map[string]interface{} {
	return map[string]interface{}{"type": "string", "description": desc}
}

func intProp(desc string, def int) map[string]interface{} {
	return map[string]interface{}{"type": "integer", "description": desc, "default": def}
}

var projectProp = strProp("Registered project name or filesystem path. Defaults to the server's project root if omitted.")

func filterProps() map[string]interface{} {
	return map[string]interface{}{
		"language":    strProp("Restrict results to this language (e.g. go, python, rust)"),
		"path_prefix": strProp("Restrict results to files under this path prefix"),
		"kind":        strProp("Restrict results to this chunk kind (function, method, type, import, ...)"),
	}
}

func outputProps() map[string]interface{} {
	return map[string]interface{}{
		"output_mode": map[string]interface{}{
			"type":        "string",
			"description": "How to render results",
			"enum":        []string{"content", "signatures", "files_with_matches", "count"},
			"default":     "content",
		},
		"max_lines":  intProp("Maximum content lines per result before truncation", 500),
		"head_limit": intProp("Maximum number of results to return", 0),
		"offset":     intProp("Number of results to skip before applying head_limit", 0),
	}
}

func mergeProps(sets ...map[string]interface{}) map[string]interface{} {
	out := map[string]interface{}{}
	for _, s := range sets {
		for k, v := range s {
			out[k] = v
		}
	}
	return out
}

// Tools returns the full mcp.Tool definition set for tools/list,
// generalizing the project's original three-tool schema set to the
// full search/memory/diff surface.
func Tools() []mcp.Tool {
	return []mcp.Tool{
		{
			Name:        "index",
			Description: "Index (or re-index) a project, scanning for changed files and producing searchable chunks",
			InputSchema: mcp.ToolInputSchema{
				Type:       "object",
				Properties: map[string]interface{}{"project": projectProp},
			},
		},
		{
			Name:        "status",
			Description: "Report index statistics for a project: file count, chunk count, and on-disk size",
			InputSchema: mcp.ToolInputSchema{
				Type:       "object",
				Properties: map[string]interface{}{"project": projectProp},
			},
		},
		{
			Name:        "search",
			Description: "Keyword search over indexed code; auto-indexes the project if it has not been indexed yet",
			InputSchema: mcp.ToolInputSchema{
				Type: "object",
				Properties: mergeProps(filterProps(), outputProps(), map[string]interface{}{
					"project":     projectProp,
					"query":       strProp("Search query"),
					"max_results": intProp("Maximum matches to rank before pagination", 20),
					"session":     strProp("Session id scoping working-memory re-ranking"),
				}),
				Required: []string{"query"},
			},
		},
		{
			Name:        "semantic",
			Description: "Semantic (embedding) or hybrid search over an already-indexed project; does not auto-index",
			InputSchema: mcp.ToolInputSchema{
				Type: "object",
				Properties: mergeProps(filterProps(), outputProps(), map[string]interface{}{
					"project":     projectProp,
					"query":       strProp("Search query"),
					"mode":        strProp("'semantic' (default) or 'hybrid' to blend with keyword relevance"),
					"alpha":       map[string]interface{}{"type": "number", "description": "Hybrid blend weight toward keyword score (0-1; 0 means the default 0.7)"},
					"max_results": intProp("Maximum matches to rank before pagination", 20),
					"session":     strProp("Session id scoping working-memory re-ranking"),
				}),
				Required: []string{"query"},
			},
		},
		{
			Name:        "symbols",
			Description: "List indexed symbols (functions, methods, types, ...) optionally filtered by path or kind",
			InputSchema: mcp.ToolInputSchema{
				Type: "object",
				Properties: mergeProps(filterProps(), outputProps(), map[string]interface{}{
					"project": projectProp,
					"path":    strProp("Restrict to files under this path (alias for path_prefix)"),
				}),
			},
		},
		{
			Name:        "references",
			Description: "Find references, calls, type usages, or definitions of a symbol",
			InputSchema: mcp.ToolInputSchema{
				Type: "object",
				Properties: mergeProps(filterProps(), outputProps(), map[string]interface{}{
					"project": projectProp,
					"symbol":  strProp("Symbol name to search for"),
					"scope": map[string]interface{}{
						"type":        "string",
						"description": "Restrict to one reference category",
						"enum":        []string{"definition", "call", "type", "import", "reference"},
					},
				}),
				Required: []string{"symbol"},
			},
		},
		{
			Name:        "grep",
			Description: "Regex search over indexed file content, bypassing ranking",
			InputSchema: mcp.ToolInputSchema{
				Type: "object",
				Properties: mergeProps(filterProps(), outputProps(), map[string]interface{}{
					"project":     projectProp,
					"pattern":     strProp("Regular expression to search for"),
					"max_results": intProp("Maximum matches to return", 0),
				}),
				Required: []string{"pattern"},
			},
		},
		{
			Name:        "workspace",
			Description: "Keyword search fanned out across every registered project, merged into one ranking tagged by project",
			InputSchema: mcp.ToolInputSchema{
				Type: "object",
				Properties: mergeProps(filterProps(), outputProps(), map[string]interface{}{
					"query":       strProp("Search query"),
					"max_results": intProp("Maximum matches to rank before pagination", 20),
					"session":     strProp("Session id scoping working-memory re-ranking"),
				}),
				Required: []string{"query"},
			},
		},
		{
			Name:        "branch_diff",
			Description: "Structural diff (added/modified/removed symbols) between the working tree and a base ref, or staged changes if no base is given",
			InputSchema: mcp.ToolInputSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"project": projectProp,
					"base":    strProp("Base ref to diff against; omit to diff staged (or unstaged) changes instead"),
				},
			},
		},
		{
			Name:        "draft_commit",
			Description: "Draft a commit message from the structural diff of staged (or base-ref) changes",
			InputSchema: mcp.ToolInputSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"project": projectProp,
					"base":    strProp("Base ref to diff against; omit to diff staged changes"),
				},
			},
		},
		{
			Name:        "changelog",
			Description: "Render a markdown changelog section from the structural diff of staged (or base-ref) changes",
			InputSchema: mcp.ToolInputSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"project": projectProp,
					"base":    strProp("Base ref to diff against; omit to diff staged changes"),
				},
			},
		},
		{
			Name:        "annotate",
			Description: "Attach a working-memory note to a file, symbol, or path, optionally expiring after a TTL",
			InputSchema: mcp.ToolInputSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"project":     projectProp,
					"target":      strProp("File path or symbol the note applies to"),
					"note":        strProp("Note text"),
					"session":     strProp("Session id the note is scoped to"),
					"ttl_seconds": intProp("Seconds until the note expires; omit for no expiry", 0),
				},
				Required: []string{"target", "note"},
			},
		},
		{
			Name:        "annotations",
			Description: "List working-memory notes, optionally filtered by target and session",
			InputSchema: mcp.ToolInputSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"project": projectProp,
					"target":  strProp("Restrict to notes on this target"),
					"session": strProp("Restrict to notes scoped to this session"),
				},
			},
		},
		{
			Name:        "focus",
			Description: "Mark paths as focused for a session, boosting their rank in subsequent searches",
			InputSchema: mcp.ToolInputSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"project": projectProp,
					"paths":   map[string]interface{}{"type": "array", "items": map[string]interface{}{"type": "string"}, "description": "Paths to focus"},
					"session": strProp("Session id the focus applies to"),
				},
				Required: []string{"paths"},
			},
		},
		{
			Name:        "visit",
			Description: "Mark paths as visited for a session, lowering their rank in subsequent searches",
			InputSchema: mcp.ToolInputSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"project": projectProp,
					"paths":   map[string]interface{}{"type": "array", "items": map[string]interface{}{"type": "string"}, "description": "Paths to mark visited"},
					"session": strProp("Session id the visit applies to"),
				},
				Required: []string{"paths"},
			},
		},
		{
			Name:        "forget",
			Description: "Remove all working-memory annotations and workset entries for a session",
			InputSchema: mcp.ToolInputSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"project": projectProp,
					"session": strProp("Session id to forget"),
				},
			},
		},
		{
			Name:        "batch",
			Description: "Run up to 20 tool calls sequentially in one request; batch calls cannot be nested",
			InputSchema: mcp.ToolInputSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"calls": map[string]interface{}{
						"type":        "array",
						"description": "List of {name, arguments} tool calls to run in order",
						"items": map[string]interface{}{
							"type": "object",
							"properties": map[string]interface{}{
								"name":      map[string]interface{}{"type": "string"},
								"arguments": map[string]interface{}{"type": "object"},
							},
							"required": []string{"name"},
						},
					},
				},
				Required: []string{"calls"},
			},
		},
	}
}
