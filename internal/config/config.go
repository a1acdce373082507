// Package config loads .booger/config.yaml with defaults < YAML < env
// precedence, the same layering seanblong-reposearch's internal/config
// uses for its own config file. Load is called by internal/dispatch
// (to build the embedding client) and by internal/cli's init command.
// There is no flag layer: no command-line flag overrides a value Load
// returns.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

const envPrefix = "BOOGER"

// EmbedBackend selects the local embedding HTTP endpoint, a tagged
// union in the original (EmbedBackend::Ollama{model,url} vs
// EmbedBackend::OpenAi{model}) flattened into one struct since Go has
// no enum-with-payload. Kind "" or "none" disables embeddings; any
// other value, "openai" included, gets the Ollama-shaped client at
// BaseURL with Model, and APIKey is not sent.
type EmbedBackend struct {
	Kind    string `yaml:"kind" envconfig:"EMBED_KIND"` // "ollama" (default); "" or "none" disables embeddings
	Model   string `yaml:"model" envconfig:"EMBED_MODEL"`
	BaseURL string `yaml:"baseURL" envconfig:"EMBED_BASE_URL"`
	APIKey  string `yaml:"apiKey" envconfig:"EMBED_API_KEY"`
}

// Config is booger's per-project configuration, normally stored at
// .booger/config.yaml under the project root.
//
// Only Embed is read outside this package. The other fields are loaded
// and defaulted, but no command reads them: the indexer sizes its
// worker pool with runtime.NumCPU, workspace fan-out is capped by
// internal/search's maxWorkspaceWorkers (10), search.Request supplies
// its own defaults (20 results, a 30-second cache TTL, alpha 0.7), the
// batch cap is internal/dispatch's maxBatchSize (20), and the log level
// comes from the --log-level flag.
type Config struct {
	// IndexWorkers is the configured indexer worker-pool size.
	IndexWorkers int `yaml:"indexWorkers" envconfig:"INDEX_WORKERS"`
	// WorkspaceConcurrency is the configured cap on projects searched
	// concurrently by a workspace-wide search.
	WorkspaceConcurrency int `yaml:"workspaceConcurrency" envconfig:"WORKSPACE_CONCURRENCY"`
	// MaxResults is the configured result cap for a search request that
	// doesn't specify one.
	MaxResults int `yaml:"maxResults" envconfig:"MAX_RESULTS"`
	// QueryCacheTTLSeconds is the configured lifetime of a cached
	// keyword search result set.
	QueryCacheTTLSeconds int `yaml:"queryCacheTTLSeconds" envconfig:"QUERY_CACHE_TTL_SECONDS"`
	// HybridAlpha is the configured hybrid-search weight on the FTS
	// score; 1-HybridAlpha weights the semantic score.
	HybridAlpha float64 `yaml:"hybridAlpha" envconfig:"HYBRID_ALPHA"`
	// BatchCap is the configured maximum number of sub-requests in one
	// batched tool call.
	BatchCap int `yaml:"batchCap" envconfig:"BATCH_CAP"`

	Embed EmbedBackend `yaml:"embed"`

	LogLevel string `yaml:"logLevel" envconfig:"LOG_LEVEL"`
}

func defaults() Config {
	return Config{
		IndexWorkers:         4,
		WorkspaceConcurrency: 10,
		MaxResults:           20,
		QueryCacheTTLSeconds: 30,
		HybridAlpha:          0.7,
		BatchCap:             20,
		Embed: EmbedBackend{
			Kind:    "ollama",
			Model:   "nomic-embed-text",
			BaseURL: "http://localhost:11434",
		},
		LogLevel: "info",
	}
}

// Load reads root/.booger/config.yaml (if present) over built-in
// defaults, then applies BOOGER_-prefixed environment overrides. A
// missing config file is not an error — every project works with
// defaults alone.
func Load(root string) (Config, error) {
	cfg := defaults()

	path := filepath.Join(root, ".booger", "config.yaml")
	if b, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("read %s: %w", path, err)
	}

	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("env override: %w", err)
	}
	return cfg, nil
}
