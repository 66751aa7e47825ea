package revision

import (
	"context"
	"fmt"

	"github.com/FootprintsForFreedom/FootprintsForFreedomBackend-sub000/internal/common"
	"gorm.io/gorm"
)

// Verify moves a pending revision to verified. The update is a check-and-set on
// verified_at IS NULL so a concurrent or repeated verify observes ErrAlreadyVerified.
// Sluggable revisions receive their canonical slug in the same transaction and the
// repository row takes it over.
func (s *Store[T, P]) Verify(ctx context.Context, repositoryID, revisionID uint64) (P, error) {
	var verified P
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		st := s.WithTx(tx)
		rev, err := st.GetInRepository(ctx, repositoryID, revisionID)
		if err != nil {
			return err
		}
		if rev.Meta().IsVerified() {
			return fmt.Errorf("revision %d: %w", revisionID, common.ErrAlreadyVerified)
		}

		updates := map[string]interface{}{"verified_at": st.now()}
		sl, sluggable := any(rev).(Sluggable)
		var canonical string
		if sluggable {
			canonical, err = st.canonicalSlug(ctx, repositoryID, sl.SlugSource())
			if err != nil {
				return err
			}
			updates["slug"] = canonical
		}

		res := tx.Model(st.model()).
			Where("id = ? AND repository_id = ? AND verified_at IS NULL", revisionID, repositoryID).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("revision %d: %w", revisionID, common.ErrAlreadyVerified)
		}

		if sluggable {
			err = tx.Table(s.facet.RepositoryTable).
				Where("id = ?", repositoryID).
				Update("slug", canonical).Error
			if err != nil {
				return err
			}
		}

		verified, err = st.Get(ctx, revisionID)
		return err
	})
	if err != nil {
		return nil, err
	}
	revisionsVerified.WithLabelValues(string(s.facet.Kind), s.facet.Name).Inc()
	return verified, nil
}

// canonicalSlug derives the slug from the title and disambiguates it against
// slugs held by other repositories of the same kind.
func (s *Store[T, P]) canonicalSlug(ctx context.Context, repositoryID uint64, title string) (string, error) {
	return CanonicalSlug(BaseSlug(title), func(candidate string) (bool, error) {
		var count int64
		err := s.db.WithContext(ctx).Model(s.model()).
			Where("slug = ? AND repository_id <> ? AND verified_at IS NOT NULL", candidate, repositoryID).
			Count(&count).Error
		if err != nil || count > 0 {
			return count > 0, err
		}
		err = s.db.WithContext(ctx).Table(s.facet.RepositoryTable).
			Where("slug = ? AND id <> ?", candidate, repositoryID).
			Count(&count).Error
		return count > 0, err
	})
}

// FindBySlug returns the verified revision holding a canonical slug
func (s *Store[T, P]) FindBySlug(ctx context.Context, slug string) (P, error) {
	rev := s.model()
	err := s.db.WithContext(ctx).
		Where("slug = ? AND verified_at IS NOT NULL", slug).
		Order("verified_at DESC, id DESC").
		Take(rev).Error
	if err != nil {
		return nil, notFound(err, "slug")
	}
	return rev, nil
}
