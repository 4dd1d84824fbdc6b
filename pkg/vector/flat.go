package vector

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
)

var ErrDimensionMismatch = errors.New("vector dimension mismatch")

// Neighbor is a stored vector position and its distance from a query.
type Neighbor struct {
	ID       int
	Distance float32
}

// FlatIndex is an exact L2 index. Vectors are identified by insertion order.
// It is built once and then only read, so it needs no locking.
type FlatIndex struct {
	dimensions int
	vectors    [][]float32
}

// NewFlatIndex builds an index over vectors, which must all share one dimension.
func NewFlatIndex(vectors [][]float32) (*FlatIndex, error) {
	idx := &FlatIndex{vectors: make([][]float32, 0, len(vectors))}
	for i, v := range vectors {
		if len(v) == 0 {
			return nil, fmt.Errorf("vector %d is empty: %w", i, ErrDimensionMismatch)
		}
		if idx.dimensions == 0 {
			idx.dimensions = len(v)
		}
		if len(v) != idx.dimensions {
			return nil, fmt.Errorf("vector %d has %d dimensions, want %d: %w", i, len(v), idx.dimensions, ErrDimensionMismatch)
		}
		idx.vectors = append(idx.vectors, v)
	}
	return idx, nil
}

func (idx *FlatIndex) Len() int        { return len(idx.vectors) }
func (idx *FlatIndex) Dimensions() int { return idx.dimensions }

// Search returns the min(k, Len()) nearest vectors by Euclidean distance,
// nearest first. Equal distances keep insertion order.
func (idx *FlatIndex) Search(query []float32, k int) ([]Neighbor, error) {
	if k <= 0 || len(idx.vectors) == 0 {
		return []Neighbor{}, nil
	}
	if len(query) != idx.dimensions {
		return nil, fmt.Errorf("query has %d dimensions, index has %d: %w", len(query), idx.dimensions, ErrDimensionMismatch)
	}

	all := make([]Neighbor, len(idx.vectors))
	for i, v := range idx.vectors {
		all[i] = Neighbor{ID: i, Distance: L2DistanceSquared(query, v)}
	}

	slices.SortStableFunc(all, func(a, b Neighbor) int {
		return cmp.Compare(a.Distance, b.Distance)
	})

	if k > len(all) {
		k = len(all)
	}
	out := all[:k:k]
	for i := range out {
		out[i].Distance = sqrt32(out[i].Distance)
	}
	return out, nil
}
