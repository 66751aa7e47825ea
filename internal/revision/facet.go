// Package revision implements the append-only, moderated revision model shared by
// every content kind: storage, visibility resolution, verification, optimistic
// edits and diffs. A content kind plugs in by describing its facets.
package revision

import (
	"context"

	"github.com/FootprintsForFreedom/FootprintsForFreedomBackend-sub000/internal/domain"
	"gorm.io/gorm"
)

// Revision is satisfied by pointers to facet revision models
type Revision[T any] interface {
	*T
	Meta() *domain.RevisionMeta
	Validate() error
	TableName() string
}

// Sluggable revisions carry a slug derived from one of their fields
type Sluggable interface {
	SlugSource() string
	GetSlug() string
	SetSlug(string)
}

// Searchable revisions name the columns matched by text search
type Searchable interface {
	SearchColumns() []string
}

// Facet describes one independently versioned aspect of a content kind
type Facet struct {
	Kind domain.Kind
	Name string
	// Localized facets carry a language per revision and take part in priority fallback
	Localized bool
	// RepositoryTable is locked during patches and holds the denormalized slug
	RepositoryTable string
}

// Filter narrows List
type Filter struct {
	LanguageID     *uint64
	VerifiedOnly   bool
	UnverifiedOnly bool
}

// FacetStore is the content-independent view of a Store. It lets callers run
// cascades and anonymization over every facet of a kind without knowing the
// revision types.
type FacetStore interface {
	VisibilityScope
	Facet() Facet
	Bind(tx *gorm.DB) FacetStore
	Exists(ctx context.Context, repositoryID uint64) error
	LockRepository(ctx context.Context, repositoryID uint64) error
	HasPending(ctx context.Context, repositoryID uint64) (bool, error)
	RevisionIDs(ctx context.Context, repositoryID uint64) ([]uint64, error)
	DeleteRepository(ctx context.Context, repositoryID uint64) (int64, error)
	AnonymizeAuthor(ctx context.Context, userID uint64) (int64, error)
}
