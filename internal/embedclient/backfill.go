package embedclient

import (
	"context"
	"fmt"

	"github.com/dshills/booger/internal/store"
	"github.com/dshills/booger/pkg/types"
)

const backfillBatchSize = 32

// Result reports how many chunks a Backfill embedded or skipped.
type Result struct {
	Embedded int
	Skipped  int
}

// Backfill embeds every chunk in s that lacks an embedding under
// c.Model(), batching requests to the endpoint. A chunk with empty
// content (e.g. an import line already captured verbatim in its
// signature) is skipped rather than sent as an empty string.
func Backfill(ctx context.Context, s *store.Store, c *Client) (Result, error) {
	pending, err := s.ChunksWithoutEmbedding(ctx, c.Model())
	if err != nil {
		return Result{}, fmt.Errorf("list chunks without embedding: %w", err)
	}

	var res Result
	for start := 0; start < len(pending); start += backfillBatchSize {
		end := min(start+backfillBatchSize, len(pending))
		batch := pending[start:end]

		var texts []string
		var targets []*types.Chunk
		for _, ch := range batch {
			if ch.Content == "" {
				res.Skipped++
				continue
			}
			texts = append(texts, ch.Content)
			targets = append(targets, ch)
		}
		if len(texts) == 0 {
			continue
		}

		vectors, err := c.EmbedBatch(ctx, texts)
		if err != nil {
			return res, fmt.Errorf("embed batch: %w", err)
		}

		for i, ch := range targets {
			err := s.UpsertEmbedding(ctx, &types.Embedding{
				ChunkID: ch.ID,
				Model:   c.Model(),
				Vector:  vectors[i],
			})
			if err != nil {
				return res, fmt.Errorf("store embedding for chunk %d: %w", ch.ID, err)
			}
			res.Embedded++
		}
	}
	return res, nil
}
