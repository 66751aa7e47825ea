package revision

import (
	"context"
	"fmt"

	"github.com/FootprintsForFreedom/FootprintsForFreedomBackend-sub000/internal/common"
)

// Pair loads two revisions for a diff. Both must belong to the repository and,
// for localized facets, share a language.
func (s *Store[T, P]) Pair(ctx context.Context, repositoryID, fromID, toID uint64) (from, to P, err error) {
	from, err = s.GetInRepository(ctx, repositoryID, fromID)
	if err != nil {
		return nil, nil, err
	}
	to, err = s.GetInRepository(ctx, repositoryID, toID)
	if err != nil {
		return nil, nil, err
	}
	if s.facet.Localized {
		fl, tl := from.Meta().LanguageID, to.Meta().LanguageID
		if fl == nil || tl == nil || *fl != *tl {
			return nil, nil, fmt.Errorf("%w: revisions %d and %d are in different languages", common.ErrInvalidRequest, fromID, toID)
		}
	}
	return from, to, nil
}
