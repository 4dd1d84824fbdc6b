package service

import (
	"context"
	"fmt"

	"voicefaq/internal/models"
	"voicefaq/pkg/embedding"
	"voicefaq/pkg/vector"
)

// FAQSearch is an exact nearest-neighbour index over the questions of one
// FAQ table. It is read-only after construction and safe for concurrent use.
type FAQSearch struct {
	entries  []models.FAQEntry
	index    *vector.FlatIndex
	embedder embedding.Embedder
}

// NewFAQSearch embeds every question in a single batch and indexes the
// vectors by row position.
func NewFAQSearch(ctx context.Context, entries []models.FAQEntry, embedder embedding.Embedder) (*FAQSearch, error) {
	questions := make([]string, len(entries))
	for i, e := range entries {
		questions[i] = e.Question
	}

	var vectors [][]float32
	if len(questions) > 0 {
		var err error
		vectors, err = embedder.Embed(ctx, questions)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to embed FAQ questions: %v", ErrModelUnavailable, err)
		}
		if len(vectors) != len(questions) {
			return nil, fmt.Errorf("%w: embedder returned %d vectors for %d questions", ErrModelUnavailable, len(vectors), len(questions))
		}
	}

	index, err := vector.NewFlatIndex(vectors)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrModelUnavailable, err)
	}

	return &FAQSearch{
		entries:  entries,
		index:    index,
		embedder: embedder,
	}, nil
}

// BuildFAQSearch loads a FAQ table and indexes it with the named embedding model.
func BuildFAQSearch(ctx context.Context, tablePath, embeddingModelID string, registry *ModelRegistry) (*FAQSearch, error) {
	entries, err := LoadFAQTable(tablePath)
	if err != nil {
		return nil, err
	}

	embedder, err := registry.Embedder(embeddingModelID)
	if err != nil {
		return nil, err
	}

	return NewFAQSearch(ctx, entries, embedder)
}

// Search returns up to k rows nearest to query, closest first.
func (s *FAQSearch) Search(ctx context.Context, query string, k int) ([]models.SearchHit, error) {
	if k < 1 {
		return nil, ErrInvalidK
	}
	if s.index.Len() == 0 {
		return []models.SearchHit{}, nil
	}

	q, err := embedding.EmbedOne(ctx, s.embedder, query)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to embed query: %v", ErrModelUnavailable, err)
	}

	neighbors, err := s.index.Search(q, k)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrModelUnavailable, err)
	}

	hits := make([]models.SearchHit, len(neighbors))
	for i, n := range neighbors {
		hits[i] = models.SearchHit{Row: n.ID, Distance: n.Distance}
	}
	return hits, nil
}

func (s *FAQSearch) Question(row int) (string, error) {
	if row < 0 || row >= len(s.entries) {
		return "", fmt.Errorf("%w: %d", ErrIndexOutOfRange, row)
	}
	return s.entries[row].Question, nil
}

func (s *FAQSearch) Answer(row int) (string, error) {
	if row < 0 || row >= len(s.entries) {
		return "", fmt.Errorf("%w: %d", ErrIndexOutOfRange, row)
	}
	return s.entries[row].Answer, nil
}

// Len returns the number of indexed rows.
func (s *FAQSearch) Len() int { return len(s.entries) }

// Dimensions returns the embedding dimension, 0 for an empty table.
func (s *FAQSearch) Dimensions() int { return s.index.Dimensions() }

// Matches runs Search and formats each usable hit as "<question>: <answer>".
func (s *FAQSearch) Matches(ctx context.Context, query string, k int) ([]string, error) {
	hits, err := s.Search(ctx, query, k)
	if err != nil {
		return nil, err
	}

	matches := make([]string, 0, len(hits))
	for _, hit := range hits {
		question, err := s.Question(hit.Row)
		if err != nil {
			return nil, err
		}
		answer, err := s.Answer(hit.Row)
		if err != nil {
			return nil, err
		}
		if UsableMatch(question, answer) {
			matches = append(matches, fmt.Sprintf("%s: %s", question, answer))
		}
	}
	return matches, nil
}
