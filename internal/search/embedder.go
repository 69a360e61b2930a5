package search

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
	"unicode"
)

// Embedder defines the interface for generating text embeddings.
type Embedder interface {
	// Embed generates embeddings for one or more texts.
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the number of dimensions in the embedding vectors.
	Dimensions() int

	// Name returns the name/identifier of the embedding model.
	Name() string
}

// HashEmbedder is an offline embedder: every word is hashed into one of a
// fixed number of buckets and the bucket counts are normalised. Texts that
// share words end up close together, which is enough for catalog search
// without an external model.
type HashEmbedder struct {
	dims int
}

// NewHashEmbedder creates a HashEmbedder producing dims-dimensional vectors.
func NewHashEmbedder(dims int) *HashEmbedder {
	if dims < 2 {
		dims = 2
	}
	return &HashEmbedder{dims: dims}
}

// Name identifies the embedder in logs.
func (e *HashEmbedder) Name() string { return "local/hash" }

// Dimensions returns the vector length.
func (e *HashEmbedder) Dimensions() int { return e.dims }

// Embed hashes the tokens of each text into a normalised vector.
func (e *HashEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		out[i] = e.vector(text)
	}
	return out, nil
}

func (e *HashEmbedder) vector(text string) []float32 {
	vec := make([]float32, e.dims)
	// Bucket 0 is a constant bias so that a text without words still has a
	// unit vector.
	vec[0] = 0.01
	for _, tok := range tokenize(text) {
		h := fnv.New32a()
		h.Write([]byte(tok))
		vec[1+int(h.Sum32()%uint32(e.dims-1))] += 1
	}
	normalize(vec)
	return vec
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func normalize(vec []float32) {
	var norm float64
	for _, v := range vec {
		norm += float64(v * v)
	}
	norm = math.Sqrt(norm)
	if norm == 0 {
		return
	}
	for i := range vec {
		vec[i] = float32(float64(vec[i]) / norm)
	}
}
