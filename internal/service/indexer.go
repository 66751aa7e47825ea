package service

import (
	"context"
	"fmt"
	"time"

	"github.com/FootprintsForFreedom/FootprintsForFreedomBackend-sub000/internal/domain"
	pkges "github.com/FootprintsForFreedom/FootprintsForFreedomBackend-sub000/pkg/elasticsearch"
	pkglogger "github.com/FootprintsForFreedom/FootprintsForFreedomBackend-sub000/pkg/logger"
)

// SearchDocument is the visible revision of a repository in one language, as fed
// to the external search index. The relational store stays authoritative.
type SearchDocument struct {
	Kind         domain.Kind `json:"kind"`
	RepositoryID uint64      `json:"repository_id"`
	Language     string      `json:"language"`
	RevisionID   uint64      `json:"revision_id"`
	Title        string      `json:"title"`
	Slug         string      `json:"slug"`
	Text         string      `json:"text,omitempty"`
	Keywords     []string    `json:"keywords,omitempty"`
	VerifiedAt   *time.Time  `json:"verified_at,omitempty"`
}

// DocumentID is {kind}-{repository}-{language}
func (d SearchDocument) DocumentID() string {
	return fmt.Sprintf("%s-%d-%s", d.Kind, d.RepositoryID, d.Language)
}

// Indexer mirrors visibility changes into a search index. Implementations are
// called after the revision transaction committed.
type Indexer interface {
	Index(ctx context.Context, docs ...SearchDocument) error
	RemoveRepository(ctx context.Context, kind domain.Kind, repositoryID uint64) error
	RemoveLanguage(ctx context.Context, code string) error
}

// NopIndexer is used when no index is configured
type NopIndexer struct{}

func (NopIndexer) Index(context.Context, ...SearchDocument) error { return nil }

func (NopIndexer) RemoveRepository(context.Context, domain.Kind, uint64) error { return nil }

func (NopIndexer) RemoveLanguage(context.Context, string) error { return nil }

// ESIndexer feeds Elasticsearch
type ESIndexer struct {
	client *pkges.Client
	index  string
}

// NewESIndexer returns NopIndexer when client is nil
func NewESIndexer(client *pkges.Client, index string) Indexer {
	if client == nil {
		return NopIndexer{}
	}
	return &ESIndexer{client: client, index: index}
}

// EnsureIndex creates the index with its mapping when missing
func (x *ESIndexer) EnsureIndex(ctx context.Context) error {
	mapping := map[string]interface{}{
		"mappings": map[string]interface{}{
			"properties": map[string]interface{}{
				"kind":          map[string]interface{}{"type": "keyword"},
				"repository_id": map[string]interface{}{"type": "long"},
				"language":      map[string]interface{}{"type": "keyword"},
				"revision_id":   map[string]interface{}{"type": "long"},
				"title":         map[string]interface{}{"type": "text"},
				"slug":          map[string]interface{}{"type": "keyword"},
				"text":          map[string]interface{}{"type": "text"},
				"keywords":      map[string]interface{}{"type": "text"},
				"verified_at":   map[string]interface{}{"type": "date"},
			},
		},
	}
	return x.client.CreateIndex(ctx, x.index, mapping)
}

func (x *ESIndexer) Index(ctx context.Context, docs ...SearchDocument) error {
	switch len(docs) {
	case 0:
		return nil
	case 1:
		return x.client.IndexDocument(ctx, x.index, docs[0].DocumentID(), docs[0])
	}
	batch := make(map[string]interface{}, len(docs))
	for _, d := range docs {
		batch[d.DocumentID()] = d
	}
	return x.client.BulkIndex(ctx, x.index, batch)
}

func (x *ESIndexer) RemoveRepository(ctx context.Context, kind domain.Kind, repositoryID uint64) error {
	deleted, err := x.client.DeleteByQuery(ctx, x.index, map[string]interface{}{
		"bool": map[string]interface{}{
			"filter": []interface{}{
				map[string]interface{}{"term": map[string]interface{}{"kind": kind}},
				map[string]interface{}{"term": map[string]interface{}{"repository_id": repositoryID}},
			},
		},
	})
	if err == nil {
		pkglogger.GetLogger().Debug().
			Str("kind", string(kind)).
			Uint64("repository_id", repositoryID).
			Int64("deleted", deleted).
			Msg("search documents removed")
	}
	return err
}

// RemoveLanguage drops every document of a deactivated language. Reactivation
// needs a reindex (cmd/migrate -reindex).
func (x *ESIndexer) RemoveLanguage(ctx context.Context, code string) error {
	_, err := x.client.DeleteByQuery(ctx, x.index, map[string]interface{}{
		"term": map[string]interface{}{"language": code},
	})
	return err
}

// logIndexError reports index failures without failing the request
func logIndexError(err error, kind domain.Kind, repositoryID uint64) {
	if err != nil {
		pkglogger.GetLogger().Warn().Err(err).
			Str("kind", string(kind)).
			Uint64("repository_id", repositoryID).
			Msg("search index update failed")
	}
}
