package revision

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/FootprintsForFreedom/FootprintsForFreedomBackend-sub000/internal/common"
	"github.com/FootprintsForFreedom/FootprintsForFreedomBackend-sub000/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store persists the revisions of one facet. There is no update-in-place of
// content columns: revisions are inserted, verified once, and anonymized.
type Store[T any, P Revision[T]] struct {
	db    *gorm.DB
	facet Facet
	now   func() time.Time
}

// Option configures a Store
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock replaces time.Now, used by tests that need fixed verification order
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// NewStore creates a Store for the given facet
func NewStore[T any, P Revision[T]](db *gorm.DB, facet Facet, opts ...Option) *Store[T, P] {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return &Store[T, P]{db: db, facet: facet, now: func() time.Time { return o.now().UTC() }}
}

// WithTx returns a copy bound to a transaction
func (s *Store[T, P]) WithTx(tx *gorm.DB) *Store[T, P] {
	return &Store[T, P]{db: tx, facet: s.facet, now: s.now}
}

// Bind implements FacetStore
func (s *Store[T, P]) Bind(tx *gorm.DB) FacetStore { return s.WithTx(tx) }

// DB returns the underlying handle
func (s *Store[T, P]) DB() *gorm.DB { return s.db }

// Facet returns the facet description
func (s *Store[T, P]) Facet() Facet { return s.facet }

// Now returns the store clock reading
func (s *Store[T, P]) Now() time.Time { return s.now() }

// Table returns the revision table name
func (s *Store[T, P]) Table() string {
	var t T
	return P(&t).TableName()
}

func (s *Store[T, P]) model() P { return P(new(T)) }

func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", what, common.ErrNotFound)
	}
	return err
}

// Create inserts a new unverified revision and returns it with its id.
// The caller fills repository, language, author and content fields.
func (s *Store[T, P]) Create(ctx context.Context, rev P) (P, error) {
	if err := rev.Validate(); err != nil {
		return nil, err
	}
	m := rev.Meta()
	if m.RepositoryID == 0 {
		return nil, fmt.Errorf("%w: repository id is required", common.ErrInvalidRequest)
	}
	if s.facet.Localized && m.LanguageID == nil {
		return nil, fmt.Errorf("%w: language is required", common.ErrInvalidRequest)
	}
	if !s.facet.Localized {
		m.LanguageID = nil
	}
	m.ID = 0
	m.VerifiedAt = nil
	m.CreatedAt = s.now()
	if sl, ok := any(rev).(Sluggable); ok {
		sl.SetSlug(ProvisionalSlug(sl.SlugSource(), m.CreatedAt))
	}
	if err := s.db.WithContext(ctx).Create(rev).Error; err != nil {
		return nil, fmt.Errorf("create %s %s revision: %w", s.facet.Kind, s.facet.Name, err)
	}
	revisionsCreated.WithLabelValues(string(s.facet.Kind), s.facet.Name).Inc()
	return rev, nil
}

// Get loads a revision by id
func (s *Store[T, P]) Get(ctx context.Context, id uint64) (P, error) {
	rev := s.model()
	if err := s.db.WithContext(ctx).Where("id = ?", id).Take(rev).Error; err != nil {
		return nil, notFound(err, "revision")
	}
	return rev, nil
}

// GetInRepository loads a revision and checks that it belongs to the repository
func (s *Store[T, P]) GetInRepository(ctx context.Context, repositoryID, id uint64) (P, error) {
	rev := s.model()
	err := s.db.WithContext(ctx).
		Where("id = ? AND repository_id = ?", id, repositoryID).
		Take(rev).Error
	if err != nil {
		return nil, notFound(err, "revision")
	}
	return rev, nil
}

// List returns the history of a repository in creation order
func (s *Store[T, P]) List(ctx context.Context, repositoryID uint64, f Filter) ([]P, error) {
	q := s.db.WithContext(ctx).Model(s.model()).Where("repository_id = ?", repositoryID)
	if f.LanguageID != nil && s.facet.Localized {
		q = q.Where("language_id = ?", *f.LanguageID)
	}
	if f.VerifiedOnly {
		q = q.Where("verified_at IS NOT NULL")
	}
	if f.UnverifiedOnly {
		q = q.Where("verified_at IS NULL")
	}
	var rows []T
	if err := q.Order("created_at ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return pointers[T, P](rows), nil
}

// Head returns the most recently created revision of a repository in a language,
// verified or not. This is the revision a patch has to target.
func (s *Store[T, P]) Head(ctx context.Context, repositoryID uint64, languageID *uint64) (P, error) {
	q := s.db.WithContext(ctx).Where("repository_id = ?", repositoryID)
	if s.facet.Localized {
		if languageID == nil {
			return nil, fmt.Errorf("%w: language is required", common.ErrInvalidRequest)
		}
		q = q.Where("language_id = ?", *languageID)
	}
	rev := s.model()
	if err := q.Order("created_at DESC, id DESC").Take(rev).Error; err != nil {
		return nil, notFound(err, "revision")
	}
	return rev, nil
}

// HasPending reports whether the repository has unverified revisions
func (s *Store[T, P]) HasPending(ctx context.Context, repositoryID uint64) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(s.model()).
		Where("repository_id = ? AND verified_at IS NULL", repositoryID).
		Count(&count).Error
	return count > 0, err
}

// ListPending returns unverified revisions across all repositories, oldest first
func (s *Store[T, P]) ListPending(ctx context.Context, page common.Page) ([]P, int64, error) {
	q := s.db.WithContext(ctx).Model(s.model()).Where("verified_at IS NULL").Session(&gorm.Session{})
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []T
	err := q.Order("created_at ASC, id ASC").
		Offset(page.Offset()).
		Limit(page.PerPage).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return pointers[T, P](rows), total, nil
}

// Verified loads the verified revisions of a repository that can take part in
// resolution: for localized facets only those in the given languages.
func (s *Store[T, P]) Verified(ctx context.Context, repositoryID uint64, languages []domain.Language) ([]P, error) {
	q := s.db.WithContext(ctx).Model(s.model()).
		Where("repository_id = ? AND verified_at IS NOT NULL", repositoryID)
	if s.facet.Localized {
		ids := make([]uint64, 0, len(languages))
		for _, l := range languages {
			if l.IsActive() {
				ids = append(ids, l.ID)
			}
		}
		if len(ids) == 0 {
			return nil, nil
		}
		q = q.Where("language_id IN ?", ids)
	}
	var rows []T
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return pointers[T, P](rows), nil
}

// Resolve returns the revision shown for the repository, or ErrNotVisible
func (s *Store[T, P]) Resolve(ctx context.Context, repositoryID uint64, languages []domain.Language, preferredLanguageID *uint64) (P, *domain.Language, error) {
	revisions, err := s.Verified(ctx, repositoryID, languages)
	if err != nil {
		return nil, nil, err
	}
	rev, lang, ok := Select[T, P](revisions, languages, preferredLanguageID, s.facet.Localized)
	if !ok {
		return nil, nil, fmt.Errorf("%s %d %s: %w", s.facet.Kind, repositoryID, s.facet.Name, common.ErrNotVisible)
	}
	return rev, lang, nil
}

// LockRepository takes a row lock on the repository for the rest of the transaction
// and fails with ErrNotFound when the repository does not exist.
func (s *Store[T, P]) LockRepository(ctx context.Context, repositoryID uint64) error {
	var ids []uint64
	err := s.db.WithContext(ctx).
		Table(s.facet.RepositoryTable).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", repositoryID).
		Pluck("id", &ids).Error
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		return fmt.Errorf("%s %d: %w", s.facet.Kind, repositoryID, common.ErrNotFound)
	}
	return nil
}

// Exists fails with ErrNotFound when the repository does not exist
func (s *Store[T, P]) Exists(ctx context.Context, repositoryID uint64) error {
	var count int64
	err := s.db.WithContext(ctx).
		Table(s.facet.RepositoryTable).
		Where("id = ?", repositoryID).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count == 0 {
		return fmt.Errorf("%s %d: %w", s.facet.Kind, repositoryID, common.ErrNotFound)
	}
	return nil
}

// AnonymizeAuthor clears the author of every revision written by the user
func (s *Store[T, P]) AnonymizeAuthor(ctx context.Context, userID uint64) (int64, error) {
	res := s.db.WithContext(ctx).Model(s.model()).
		Where("user_id = ?", userID).
		Update("user_id", nil)
	return res.RowsAffected, res.Error
}

// DeleteRepository removes every revision of the repository in this facet
func (s *Store[T, P]) DeleteRepository(ctx context.Context, repositoryID uint64) (int64, error) {
	res := s.db.WithContext(ctx).Where("repository_id = ?", repositoryID).Delete(s.model())
	return res.RowsAffected, res.Error
}

// RevisionIDs lists the ids of every revision of the repository
func (s *Store[T, P]) RevisionIDs(ctx context.Context, repositoryID uint64) ([]uint64, error) {
	var ids []uint64
	err := s.db.WithContext(ctx).Model(s.model()).
		Where("repository_id = ?", repositoryID).
		Pluck("id", &ids).Error
	return ids, err
}

func pointers[T any, P Revision[T]](rows []T) []P {
	out := make([]P, len(rows))
	for i := range rows {
		out[i] = P(&rows[i])
	}
	return out
}
