// Package search indexes the catalog's resources in an in-memory vector
// store and answers free-text queries over them.
package search

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	chromem "github.com/philippgille/chromem-go"
	"go.uber.org/zap"

	"github.com/ziadkadry99/studyhub/internal/catalog"
	"github.com/ziadkadry99/studyhub/internal/config"
	"github.com/ziadkadry99/studyhub/internal/filter"
	"github.com/ziadkadry99/studyhub/internal/logging"
)

const collectionName = "resources"

var (
	// ErrEmptyQuery is returned for a query without text.
	ErrEmptyQuery = errors.New("empty search query")

	// ErrNotIndexed is returned before the first successful Build.
	ErrNotIndexed = errors.New("search index not built")
)

// Query is a free-text search narrowed by the resource filters.
type Query struct {
	Text      string `json:"q"`
	SubjectID string `json:"subject,omitempty"`
	Type      string `json:"type,omitempty"`
	Language  string `json:"language,omitempty"`
	Limit     int    `json:"limit,omitempty"`
}

// Hit pairs a resource with its similarity to the query.
type Hit struct {
	Resource   catalog.Resource `json:"resource"`
	Subject    string           `json:"subject,omitempty"`
	Similarity float32          `json:"similarity"`
}

// Index is a rebuildable vector index over resources.
type Index struct {
	embedder Embedder
	logger   *zap.Logger

	mu         sync.RWMutex
	collection *chromem.Collection
	resources  map[string]catalog.Resource
	subjects   map[string]string
}

// NewIndex creates an empty index that embeds text with e.
func NewIndex(e Embedder, logger *zap.Logger) *Index {
	return &Index{embedder: e, logger: logging.OrNop(logger)}
}

// NewEmbedder builds the embedder selected by cfg.
func NewEmbedder(cfg config.SearchConfig) (Embedder, error) {
	switch cfg.Provider {
	case "", config.SearchProviderLocal:
		return NewHashEmbedder(cfg.Dimensions), nil
	case config.SearchProviderOpenAI:
		return NewOpenAIEmbedder(cfg.APIKey, OpenAIModel(cfg.Model), cfg.BaseURL), nil
	case config.SearchProviderOllama:
		return NewOllamaEmbedder(cfg.Model, cfg.Dimensions, cfg.BaseURL), nil
	default:
		return nil, fmt.Errorf("unknown search provider %q", cfg.Provider)
	}
}

// toChromemFunc adapts an Embedder to chromem's single-text signature.
func toChromemFunc(e Embedder) chromem.EmbeddingFunc {
	return func(ctx context.Context, text string) ([]float32, error) {
		results, err := e.Embed(ctx, []string{text})
		if err != nil {
			return nil, err
		}
		if len(results) == 0 {
			return nil, fmt.Errorf("embedder %s returned no vector", e.Name())
		}
		return results[0], nil
	}
}

// Build replaces the index contents with the resources of t.
func (ix *Index) Build(ctx context.Context, t *catalog.Tables) error {
	db := chromem.NewDB()
	col, err := db.GetOrCreateCollection(collectionName, nil, toChromemFunc(ix.embedder))
	if err != nil {
		return fmt.Errorf("create collection: %w", err)
	}

	subjects := make(map[string]string, len(t.Subjects))
	for _, s := range t.Subjects {
		subjects[key(s.ID)] = s.Name
	}

	resources := make(map[string]catalog.Resource, len(t.Resources))
	docs := make([]chromem.Document, 0, len(t.Resources))
	for _, r := range t.Resources {
		if r.ID == "" {
			continue
		}
		k := key(r.ID)
		if _, dup := resources[k]; dup {
			continue
		}
		resources[k] = r
		subject, _ := t.Subject(r.SubjectID)
		docs = append(docs, chromem.Document{
			ID:       k,
			Content:  documentText(r, subject),
			Metadata: map[string]string{"subject_id": key(r.SubjectID)},
		})
	}

	if len(docs) > 0 {
		if err := col.AddDocuments(ctx, docs, 4); err != nil {
			return fmt.Errorf("indexing resources: %w", err)
		}
	}

	ix.mu.Lock()
	ix.collection = col
	ix.resources = resources
	ix.subjects = subjects
	ix.mu.Unlock()

	ix.logger.Info("search index built",
		zap.Int("resources", len(docs)),
		zap.String("embedder", ix.embedder.Name()))
	return nil
}

func documentText(r catalog.Resource, s catalog.Subject) string {
	parts := []string{r.Title, r.Description, r.Type, r.LanguageOrDefault(), s.Name, s.Code, s.MetaKeywords, r.University, r.Year}
	var b strings.Builder
	for _, p := range parts {
		if p = strings.TrimSpace(p); p == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(p)
	}
	return b.String()
}

func key(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}

// Count returns the number of indexed resources.
func (ix *Index) Count() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	if ix.collection == nil {
		return 0
	}
	return ix.collection.Count()
}

// Search returns the resources closest to q.Text, best first, after applying
// the subject, type and language filters.
func (ix *Index) Search(ctx context.Context, q Query) ([]Hit, error) {
	if strings.TrimSpace(q.Text) == "" {
		return nil, ErrEmptyQuery
	}
	limit := q.Limit
	if limit <= 0 {
		limit = 10
	}

	ix.mu.RLock()
	col, resources, subjects := ix.collection, ix.resources, ix.subjects
	ix.mu.RUnlock()
	if col == nil {
		return nil, ErrNotIndexed
	}

	count := col.Count()
	if count == 0 {
		return []Hit{}, nil
	}

	// Filters are applied after ranking, so rank everything.
	results, err := col.Query(ctx, q.Text, count, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("chromem query: %w", err)
	}

	hits := []Hit{}
	for _, res := range results {
		r, ok := resources[res.ID]
		if !ok {
			continue
		}
		if q.SubjectID != "" && !catalog.SameID(r.SubjectID, q.SubjectID) {
			continue
		}
		if !filter.Match(r, q.Type, q.Language) {
			continue
		}
		hits = append(hits, Hit{Resource: r, Subject: subjects[key(r.SubjectID)], Similarity: res.Similarity})
		if len(hits) == limit {
			break
		}
	}
	return hits, nil
}
