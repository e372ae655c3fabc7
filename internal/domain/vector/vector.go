// Package vector decodes stored embeddings and scores them against a query.
package vector

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Decode parses an embedding stored as "[a,b,...]" (pgvector text, also valid JSON).
func Decode(raw string) ([]float32, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil, fmt.Errorf("empty embedding")
	}
	var v []float32
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return nil, fmt.Errorf("decode embedding: %w", err)
	}
	if len(v) == 0 {
		return nil, fmt.Errorf("embedding has no components")
	}
	return v, nil
}

// Encode renders a vector in the same text form Decode reads.
func Encode(v []float32) string {
	var b strings.Builder
	b.Grow(len(v) * 10)
	b.WriteByte('[')
	for i, f := range v {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatFloat(float64(f), 'g', -1, 32))
	}
	b.WriteByte(']')
	return b.String()
}

// Magnitude returns the Euclidean norm of v.
func Magnitude(v []float32) float64 {
	var sum float64
	for _, f := range v {
		sum += float64(f) * float64(f)
	}
	return math.Sqrt(sum)
}

// Cosine returns dot(a,b) / (|a| * |b|), clamped to [-1, 1].
// ok is false when either vector is empty or has zero magnitude; such pairs
// must be excluded rather than scored. Vectors of different dimension score 0.
func Cosine(a, b []float32) (score float64, ok bool) {
	if len(a) == 0 || len(b) == 0 {
		return 0, false
	}
	na, nb := Magnitude(a), Magnitude(b)
	if na == 0 || nb == 0 || math.IsNaN(na) || math.IsNaN(nb) {
		return 0, false
	}
	if len(a) != len(b) {
		return 0, true
	}
	var dot float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
	}
	score = dot / (na * nb)
	return max(-1, min(1, score)), true
}
