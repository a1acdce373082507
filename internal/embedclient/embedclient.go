// Package embedclient talks to a single local embedding endpoint
// shaped like Ollama's /api/embed: one model, one base URL, batched
// requests. It replaces the teacher's multi-provider factory
// (Jina/OpenAI/local) with the spec's narrower local-first embedding
// backend, wired to internal/search's Embedder interface and
// internal/store's embedding table.
package embedclient

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

const (
	// DefaultBaseURL is the default local Ollama endpoint, per
	// config.rs's EmbedBackend::Ollama default.
	DefaultBaseURL = "http://localhost:11434"
	// DefaultModel is the default Ollama embedding model.
	DefaultModel = "nomic-embed-text"

	defaultCacheSize = 10000
	defaultTimeout   = 120 * time.Second
)

// Client embeds text through a local HTTP endpoint, caching results by
// content hash so a reindex that touches unrelated chunks never
// re-embeds unchanged ones.
type Client struct {
	baseURL string
	model   string
	http    *http.Client
	cache   *lru.Cache[string, []float32]
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client, for tests.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) { cl.http = c }
}

// WithCacheSize overrides the default LRU cache size.
func WithCacheSize(n int) Option {
	return func(cl *Client) {
		if n > 0 {
			cache, err := lru.New[string, []float32](n)
			if err == nil {
				cl.cache = cache
			}
		}
	}
}

// New returns a Client targeting baseURL with model. Empty values fall
// back to DefaultBaseURL/DefaultModel.
func New(baseURL, model string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if model == "" {
		model = DefaultModel
	}
	cache, _ := lru.New[string, []float32](defaultCacheSize)
	c := &Client{
		baseURL: baseURL,
		model:   model,
		http:    &http.Client{Timeout: defaultTimeout},
		cache:   cache,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Model implements search.Embedder.
func (c *Client) Model() string { return c.model }

type embedRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embedResponse struct {
	Embeddings [][]float32 `json:"embeddings"`
}

// Embed implements search.Embedder: embeds a single text, consulting
// the cache first.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, fmt.Errorf("embedclient: empty text")
	}
	key := contentHash(text)
	if v, ok := c.cache.Get(key); ok {
		return v, nil
	}
	vecs, err := c.embedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	c.cache.Add(key, vecs[0])
	return vecs[0], nil
}

// EmbedBatch embeds many texts in one request, skipping any already
// cached and filling the gaps from the HTTP call. The returned slice
// matches texts in length and order.
func (c *Client) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	keys := make([]string, len(texts))
	var missIdx []int
	var missTexts []string
	for i, t := range texts {
		keys[i] = contentHash(t)
		if v, ok := c.cache.Get(keys[i]); ok {
			out[i] = v
			continue
		}
		missIdx = append(missIdx, i)
		missTexts = append(missTexts, t)
	}

	if len(missTexts) > 0 {
		vecs, err := c.embedBatch(ctx, missTexts)
		if err != nil {
			return nil, err
		}
		for j, i := range missIdx {
			out[i] = vecs[j]
			c.cache.Add(keys[i], vecs[j])
		}
	}
	return out, nil
}

func (c *Client) embedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	body, err := json.Marshal(embedRequest{Model: c.model, Input: texts})
	if err != nil {
		return nil, fmt.Errorf("marshal embed request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/embed", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build embed request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("embed request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("embed endpoint returned %d: %s", resp.StatusCode, string(respBody))
	}

	var decoded embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode embed response: %w", err)
	}
	if len(decoded.Embeddings) != len(texts) {
		return nil, fmt.Errorf("expected %d embeddings, got %d", len(texts), len(decoded.Embeddings))
	}
	return decoded.Embeddings, nil
}

func contentHash(text string) string {
	h := sha256.Sum256([]byte(text))
	return hex.EncodeToString(h[:])
}
