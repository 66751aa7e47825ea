package revision

import (
	"context"
	"errors"
	"fmt"

	"github.com/FootprintsForFreedom/FootprintsForFreedomBackend-sub000/internal/common"
	"gorm.io/gorm"
)

// Merge builds the new revision from the patch target. It must return a fresh value;
// the target is never written back.
type Merge[T any, P Revision[T]] func(target P) (P, error)

// Patch creates a new revision from target plus partial changes.
//
// target has to be the current head of the repository in its language (see Head);
// anything else fails with ErrStaleEdit, so an edit computed against a revision the
// caller has not seen never lands. The repository row is locked while comparing and
// inserting. Validation runs on the merged revision.
func (s *Store[T, P]) Patch(ctx context.Context, repositoryID, targetID uint64, userID *uint64, merge Merge[T, P]) (P, error) {
	var created P
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		st := s.WithTx(tx)
		if err := st.LockRepository(ctx, repositoryID); err != nil {
			return err
		}
		target, err := st.GetInRepository(ctx, repositoryID, targetID)
		if err != nil {
			if errors.Is(err, common.ErrNotFound) {
				return fmt.Errorf("%w: revision %d does not belong to %s %d", common.ErrInvalidRequest, targetID, s.facet.Kind, repositoryID)
			}
			return err
		}
		head, err := st.Head(ctx, repositoryID, target.Meta().LanguageID)
		if err != nil {
			return err
		}
		if head.Meta().ID != target.Meta().ID {
			staleEdits.WithLabelValues(string(s.facet.Kind), s.facet.Name).Inc()
			return fmt.Errorf("revision %d, current is %d: %w", targetID, head.Meta().ID, common.ErrStaleEdit)
		}

		next, err := merge(target)
		if err != nil {
			return err
		}
		m := next.Meta()
		m.RepositoryID = repositoryID
		m.LanguageID = target.Meta().LanguageID
		m.UserID = userID

		created, err = st.Create(ctx, next)
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Append stores a complete new revision for an existing repository.
// It is the storage side of a full update and needs no head check.
func (s *Store[T, P]) Append(ctx context.Context, rev P) (P, error) {
	var created P
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		st := s.WithTx(tx)
		if err := st.LockRepository(ctx, rev.Meta().RepositoryID); err != nil {
			return err
		}
		var err error
		created, err = st.Create(ctx, rev)
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}
