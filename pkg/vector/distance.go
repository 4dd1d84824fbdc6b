// Package vector provides exact nearest-neighbour search over dense embeddings.
package vector

import "math"

// L2DistanceSquared returns the squared Euclidean distance between a and b.
// Callers must pass vectors of equal length.
func L2DistanceSquared(a, b []float32) float32 {
	var sum float32
	for i := range a {
		diff := a[i] - b[i]
		sum += diff * diff
	}
	return sum
}

// L2Distance returns the Euclidean distance between a and b.
func L2Distance(a, b []float32) float32 {
	return sqrt32(L2DistanceSquared(a, b))
}

func sqrt32(x float32) float32 {
	return float32(math.Sqrt(float64(x)))
}

// Normalize scales v to unit length in place. Zero vectors are left unchanged.
func Normalize(v []float32) []float32 {
	var norm float64
	for _, x := range v {
		norm += float64(x) * float64(x)
	}
	if norm == 0 {
		return v
	}
	inv := float32(1 / math.Sqrt(norm))
	for i := range v {
		v[i] *= inv
	}
	return v
}
