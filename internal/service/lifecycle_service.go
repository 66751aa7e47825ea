package service

import (
	"context"
	"fmt"

	"github.com/FootprintsForFreedom/FootprintsForFreedomBackend-sub000/internal/common"
	"github.com/FootprintsForFreedom/FootprintsForFreedomBackend-sub000/internal/domain"
	pkglogger "github.com/FootprintsForFreedom/FootprintsForFreedomBackend-sub000/pkg/logger"
	"gorm.io/gorm"
)

// indexable is implemented by every searchable content service
type indexable interface {
	repositoryIDs(ctx context.Context) ([]uint64, error)
	Documents(ctx context.Context, id uint64) ([]SearchDocument, error)
}

// LifecycleService deletes users and rebuilds the search feed across all kinds
type LifecycleService struct {
	d           *Deps
	anonymizers []anonymizer
	indexables  map[domain.Kind]indexable
}

// NewLifecycleService creates a new LifecycleService
func NewLifecycleService(d *Deps, waypoints *WaypointService, media *MediaService, tags *TagService, static *StaticContentService) *LifecycleService {
	return &LifecycleService{
		d:           d,
		anonymizers: []anonymizer{waypoints, media, tags, static},
		indexables: map[domain.Kind]indexable{
			domain.KindWaypoint: waypoints,
			domain.KindMedia:    media,
			domain.KindTag:      tags,
		},
	}
}

// DeleteUser removes a user. Authorship of revisions, attachments and reports
// is cleared, the content itself stays. Only the user or an admin may do this.
func (s *LifecycleService) DeleteUser(ctx context.Context, v domain.Viewer, userID uint64) error {
	if v.UserID == nil {
		return common.ErrUnauthorized
	}
	if *v.UserID != userID && !v.IsAdmin() {
		return common.ErrForbidden
	}

	log := pkglogger.GetLogger().Info().Uint64("user_id", userID)
	err := s.d.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		users := s.d.Users.WithTx(tx)
		if _, err := users.FindByID(ctx, userID); err != nil {
			return err
		}
		var revisions int64
		for _, a := range s.anonymizers {
			for _, f := range a.facetStores() {
				n, err := f.Bind(tx).AnonymizeAuthor(ctx, userID)
				if err != nil {
					return fmt.Errorf("anonymize %s %s: %w", f.Facet().Kind, f.Facet().Name, err)
				}
				revisions += n
			}
		}
		attachments, err := s.d.Attachments.WithTx(tx).AnonymizeAuthor(ctx, userID)
		if err != nil {
			return err
		}
		reports, err := s.d.Reports.WithTx(tx).AnonymizeReporter(ctx, userID)
		if err != nil {
			return err
		}
		tokens, err := users.DeleteTokens(ctx, userID)
		if err != nil {
			return err
		}
		log = log.Int64("revisions", revisions).
			Int64("tag_attachments", attachments).
			Int64("reports", reports).
			Int64("tokens", tokens)
		return users.Delete(ctx, userID)
	})
	if err != nil {
		return err
	}

	// author ids are part of cached moderator views
	if err := s.d.Cache.InvalidateAllResolved(ctx); err != nil {
		pkglogger.GetLogger().Warn().Err(err).Msg("failed to invalidate resolved cache")
	}
	log.Msg("user deleted")
	return nil
}

// Reindex pushes the documents of every repository of the given kinds to the
// search index. No kinds means all searchable kinds.
func (s *LifecycleService) Reindex(ctx context.Context, kinds ...domain.Kind) (int, error) {
	if len(kinds) == 0 {
		kinds = []domain.Kind{domain.KindWaypoint, domain.KindMedia, domain.KindTag}
	}
	total := 0
	for _, kind := range kinds {
		src, ok := s.indexables[kind]
		if !ok {
			return total, fmt.Errorf("%w: %s is not searchable", common.ErrInvalidRequest, kind)
		}
		ids, err := src.repositoryIDs(ctx)
		if err != nil {
			return total, err
		}
		var docs []SearchDocument
		for _, id := range ids {
			batch, err := src.Documents(ctx, id)
			if err != nil {
				return total, err
			}
			docs = append(docs, batch...)
		}
		if err := s.d.Indexer.Index(ctx, docs...); err != nil {
			return total, err
		}
		total += len(docs)
		pkglogger.GetLogger().Info().
			Str("kind", string(kind)).
			Int("repositories", len(ids)).
			Int("documents", len(docs)).
			Msg("reindexed")
	}
	return total, nil
}
