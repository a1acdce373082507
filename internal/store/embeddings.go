package store

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/dshills/booger/pkg/types"
)

func encodeVector(v []float32) []byte {
	buf := make([]byte, 4*len(v))
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

func decodeVector(b []byte) []float32 {
	v := make([]float32, len(b)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return v
}

func upsertEmbeddingWithQuerier(ctx context.Context, q querier, e *types.Embedding) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO embeddings (chunk_id, model, vector)
		VALUES (?, ?, ?)
		ON CONFLICT(chunk_id, model) DO UPDATE SET vector = excluded.vector
	`, e.ChunkID, e.Model, encodeVector(e.Vector))
	return err
}

func (s *Store) UpsertEmbedding(ctx context.Context, e *types.Embedding) error {
	return upsertEmbeddingWithQuerier(ctx, s.querier(), e)
}

func (t *TxStore) UpsertEmbedding(ctx context.Context, e *types.Embedding) error {
	return upsertEmbeddingWithQuerier(ctx, t.querier(), e)
}

// EmbeddingsForModel loads every stored embedding for model (chunk id
// and vector only), for semantic search's in-process cosine similarity
// scan; callers hydrate the winning chunks with ChunksByIDs.
func (s *Store) EmbeddingsForModel(ctx context.Context, model string) ([]*types.Embedding, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT chunk_id, vector FROM embeddings WHERE model = ?`, model)
	if err != nil {
		return nil, fmt.Errorf("query embeddings: %w", err)
	}
	defer rows.Close()
	var out []*types.Embedding
	for rows.Next() {
		var e types.Embedding
		var raw []byte
		if err := rows.Scan(&e.ChunkID, &raw); err != nil {
			return nil, err
		}
		e.Model = model
		e.Vector = decodeVector(raw)
		out = append(out, &e)
	}
	return out, rows.Err()
}

// ChunksWithoutEmbedding returns every chunk, of any kind, lacking an
// embedding under model, so embedclient.Backfill only ever embeds
// incrementally.
func (s *Store) ChunksWithoutEmbedding(ctx context.Context, model string) ([]*types.Chunk, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+chunkColumns+` FROM chunks
		WHERE id NOT IN (SELECT chunk_id FROM embeddings WHERE model = ?)
	`, model)
	if err != nil {
		return nil, fmt.Errorf("query chunks without embedding: %w", err)
	}
	defer rows.Close()
	var out []*types.Chunk
	for rows.Next() {
		c, err := scanChunk(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func deleteEmbeddingWithQuerier(ctx context.Context, q querier, chunkID int64, model string) error {
	_, err := q.ExecContext(ctx, `DELETE FROM embeddings WHERE chunk_id = ? AND model = ?`, chunkID, model)
	return err
}

func (s *Store) DeleteEmbedding(ctx context.Context, chunkID int64, model string) error {
	return deleteEmbeddingWithQuerier(ctx, s.querier(), chunkID, model)
}

func (t *TxStore) DeleteEmbedding(ctx context.Context, chunkID int64, model string) error {
	return deleteEmbeddingWithQuerier(ctx, t.querier(), chunkID, model)
}
