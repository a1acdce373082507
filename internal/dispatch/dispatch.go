// Package dispatch is the transport-agnostic tool layer of spec §4.9:
// it validates tool arguments, resolves a project argument to a store,
// routes to the search/memory/diff engines, shapes results into the
// content/signatures/files_with_matches/count output modes, and
// enforces batch and pagination limits. Both internal/protocol's
// stdio loop and cmd/booger's CLI subcommands call the same
// Dispatcher.Call, so the two surfaces can never drift.
package dispatch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dshills/booger/internal/chunker"
	"github.com/dshills/booger/internal/chunker/languages"
	"github.com/dshills/booger/internal/config"
	"github.com/dshills/booger/internal/embedclient"
	"github.com/dshills/booger/internal/registry"
	"github.com/dshills/booger/internal/search"
	"github.com/dshills/booger/internal/store"
	"github.com/dshills/booger/internal/vcs"
)

// maxBatchSize is the batch tool's fail-fast limit, per spec §4.9.
const maxBatchSize = 20

// ErrRecursiveBatch is returned when a batch entry names "batch" itself.
var ErrRecursiveBatch = fmt.Errorf("batch cannot contain a nested batch call")

// ErrBatchTooLarge is returned when a batch has more than maxBatchSize entries.
var ErrBatchTooLarge = fmt.Errorf("batch accepts at most %d calls", maxBatchSize)

// ErrUnknownTool is returned by Call for an unrecognized tool name.
var ErrUnknownTool = fmt.Errorf("unknown tool")

// Dispatcher holds everything tool handlers need that doesn't belong to
// one request: a shared chunker (stateless, safe for concurrent use), a
// VCS collaborator for the differ tools, and the default project root
// used when a call omits "project" (the root `booger mcp <root>` or a
// CLI command's working directory was invoked with).
type Dispatcher struct {
	chunker     *chunker.Chunker
	collaborator vcs.Collaborator
	defaultRoot string
}

// New builds a Dispatcher. defaultRoot may be empty; callers that never
// omit "project" (e.g. workspace-search-only CLIs) don't need one.
func New(defaultRoot string) *Dispatcher {
	reg := chunker.NewRegistry()
	languages.RegisterAll(reg)
	return &Dispatcher{
		chunker:      chunker.New(reg),
		collaborator: vcs.New(),
		defaultRoot:  defaultRoot,
	}
}

// Result is one tool invocation's outcome, transport-agnostic: the
// protocol loop wraps Text in an MCP content block; the CLI prints Text
// directly (or re-renders Data when --json is set).
type Result struct {
	Text    string
	IsError bool
	Data    any // structured payload backing Text, for --json rendering
}

func errorResult(format string, args ...any) *Result {
	return &Result{Text: fmt.Sprintf(format, args...), IsError: true}
}

// ResolveRoot turns a tool's "project" argument into an absolute
// project root: a registered project name takes priority, then a
// literal filesystem path (absolute or relative to the working
// directory), then the dispatcher's default root when project is "".
func ResolveRoot(project, defaultRoot string) (string, error) {
	if project == "" {
		if defaultRoot == "" {
			return "", fmt.Errorf("project is required")
		}
		return defaultRoot, nil
	}
	if projects, err := registry.List(); err == nil {
		for _, p := range projects {
			if p.Name == project {
				return p.Root, nil
			}
		}
	}
	abs, err := filepath.Abs(project)
	if err != nil {
		return "", fmt.Errorf("resolve project %q: %w", project, err)
	}
	info, err := os.Stat(abs)
	if err != nil || !info.IsDir() {
		return "", fmt.Errorf("%q is not a registered project name or an existing directory", project)
	}
	return abs, nil
}

func dbPath(root string) string {
	return filepath.Join(root, ".booger", "index.db")
}

// openWritable creates .booger/ if needed and opens (creating) the
// store at root. Only the index tool and auto-index use this.
func openWritable(root string) (*store.Store, error) {
	if err := os.MkdirAll(filepath.Join(root, ".booger"), 0o755); err != nil {
		return nil, fmt.Errorf("create .booger dir: %w", err)
	}
	return store.Open(dbPath(root))
}

// openReadOnly opens the store at root iff it already exists, per spec
// §4.4's open_if_exists — read-only tools must never create storage.
func openReadOnly(root string) (*store.Store, bool, error) {
	s, err := store.OpenIfExists(dbPath(root))
	if err != nil {
		return nil, false, err
	}
	return s, s != nil, nil
}

func (d *Dispatcher) newEmbedder(ctx context.Context, root string) (search.Embedder, error) {
	cfg, err := config.Load(root)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if cfg.Embed.Kind == "" || cfg.Embed.Kind == "none" {
		return nil, nil
	}
	return embedclient.New(cfg.Embed.BaseURL, cfg.Embed.Model), nil
}

// Call routes one tool invocation by name. Input-validation and
// precondition failures come back as a non-nil *Result with IsError
// (or an explanatory non-error Result, per spec §4.9); the error return
// is reserved for transient I/O and internal failures the protocol
// layer maps to JSON-RPC -32603.
func (d *Dispatcher) Call(ctx context.Context, name string, args map[string]any) (*Result, error) {
	switch name {
	case "index":
		return d.callIndex(ctx, args)
	case "status":
		return d.callStatus(ctx, args)
	case "search":
		return d.callKeyword(ctx, args)
	case "semantic":
		return d.callSemantic(ctx, args)
	case "symbols":
		return d.callSymbols(ctx, args)
	case "references":
		return d.callReferences(ctx, args)
	case "grep":
		return d.callGrep(ctx, args)
	case "workspace":
		return d.callWorkspace(ctx, args)
	case "branch_diff":
		return d.callBranchDiff(ctx, args)
	case "draft_commit":
		return d.callDraftCommit(ctx, args)
	case "changelog":
		return d.callChangelog(ctx, args)
	case "annotate":
		return d.callAnnotate(ctx, args)
	case "annotations":
		return d.callAnnotations(ctx, args)
	case "focus":
		return d.callFocus(ctx, args)
	case "visit":
		return d.callVisit(ctx, args)
	case "forget":
		return d.callForget(ctx, args)
	case "batch":
		return d.callBatch(ctx, args)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}
}

func stringArg(args map[string]any, key string) string {
	if v, ok := args[key].(string); ok {
		return v
	}
	return ""
}

func intArg(args map[string]any, key string, def int) int {
	switch v := args[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return def
	}
}

func stringSliceArg(args map[string]any, key string) []string {
	raw, ok := args[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func filtersArg(args map[string]any) search.Filters {
	return search.Filters{
		Language:   stringArg(args, "language"),
		PathPrefix: stringArg(args, "path_prefix"),
		Kind:       stringArg(args, "kind"),
	}
}
