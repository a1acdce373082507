package search

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/dshills/booger/pkg/types"
)

type scoredID struct {
	id    int64
	score float64
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// semanticRank loads every stored embedding for the searcher's model,
// scores it against queryVector by cosine similarity, and returns the
// top topK (id, score) pairs descending by score.
func (s *Searcher) semanticRank(ctx context.Context, queryVector []float32, topK int) ([]scoredID, error) {
	embeddings, err := s.store.EmbeddingsForModel(ctx, s.embedder.Model())
	if err != nil {
		return nil, fmt.Errorf("load embeddings: %w", err)
	}
	scored := make([]scoredID, len(embeddings))
	for i, e := range embeddings {
		scored[i] = scoredID{id: e.ChunkID, score: cosineSimilarity(queryVector, e.Vector)}
	}
	sort.Slice(scored, func(i, j int) bool { return scored[i].score > scored[j].score })
	if topK > 0 && len(scored) > topK {
		scored = scored[:topK]
	}
	return scored, nil
}

// Semantic loads all stored embeddings for the configured model,
// computes cosine similarity to the embedded query, and returns the
// top-K chunks (spec §4.6 "Semantic and hybrid").
func (s *Searcher) Semantic(ctx context.Context, req Request) ([]*types.SearchResult, error) {
	req.withDefaults()
	if s.embedder == nil {
		return nil, fmt.Errorf("semantic search requires a configured embedder")
	}
	queryVector, err := s.embedder.Embed(ctx, req.Query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	scored, err := s.semanticRank(ctx, queryVector, req.MaxResults)
	if err != nil {
		return nil, err
	}
	ids := make([]int64, len(scored))
	for i, sc := range scored {
		ids[i] = sc.id
	}
	results, err := s.store.ChunksByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("hydrate chunks: %w", err)
	}
	for i, r := range results {
		r.Score = scored[i].score
	}
	return results, nil
}

// minMaxNormalize rescales every score in place to [0,1]. A flat score
// set (max == min) normalizes to 1.0 across the board rather than
// dividing by zero.
func minMaxNormalize(scores map[int64]float64) {
	if len(scores) == 0 {
		return
	}
	min, max := math.Inf(1), math.Inf(-1)
	for _, v := range scores {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	if max == min {
		for id := range scores {
			scores[id] = 1
		}
		return
	}
	for id, v := range scores {
		scores[id] = (v - min) / (max - min)
	}
}

// Hybrid runs keyword and semantic search, min-max normalizes each
// score set over their union, and sorts by alpha*fts + (1-alpha)*sem.
// With no embedder configured (or no stored embeddings), it degrades to
// keyword-only, per spec §4.6.
func (s *Searcher) Hybrid(ctx context.Context, req Request) ([]*types.SearchResult, error) {
	req.withDefaults()

	fetchLimit := req.MaxResults * fetchMultiplier
	ftsHits, err := s.store.SearchFTS(ctx, sanitizeFTSQuery(req.Query), req.Filters.ChunkFilter(), fetchLimit)
	if err != nil {
		return nil, fmt.Errorf("fts search: %w", err)
	}

	if s.embedder == nil {
		return s.Keyword(ctx, req)
	}
	queryVector, err := s.embedder.Embed(ctx, req.Query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	semScored, err := s.semanticRank(ctx, queryVector, fetchLimit)
	if err != nil {
		return nil, err
	}
	if len(semScored) == 0 {
		return s.Keyword(ctx, req)
	}

	ftsScores := make(map[int64]float64, len(ftsHits))
	byID := make(map[int64]*types.SearchResult, len(ftsHits)+len(semScored))
	for _, h := range ftsHits {
		ftsScores[h.Chunk.ID] = -h.Score
		byID[h.Chunk.ID] = hitToResult(h)
	}
	semScores := make(map[int64]float64, len(semScored))
	for _, sc := range semScored {
		semScores[sc.id] = sc.score
	}

	minMaxNormalize(ftsScores)
	minMaxNormalize(semScores)

	unionIDs := make([]int64, 0, len(byID)+len(semScores))
	for id := range byID {
		unionIDs = append(unionIDs, id)
	}
	var missing []int64
	for id := range semScores {
		if _, ok := byID[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		hydrated, err := s.store.ChunksByIDs(ctx, missing)
		if err != nil {
			return nil, fmt.Errorf("hydrate semantic-only chunks: %w", err)
		}
		for _, r := range hydrated {
			byID[r.ChunkID] = r
			unionIDs = append(unionIDs, r.ChunkID)
		}
	}

	results := make([]*types.SearchResult, 0, len(unionIDs))
	for _, id := range unionIDs {
		r := byID[id]
		r.Score = req.Alpha*ftsScores[id] + (1-req.Alpha)*semScores[id]
		results = append(results, r)
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	for i, r := range results {
		r.Rank = i + 1
	}
	return truncate(results, req.MaxResults), nil
}
