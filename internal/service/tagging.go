package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/FootprintsForFreedom/FootprintsForFreedomBackend-sub000/internal/common"
	"github.com/FootprintsForFreedom/FootprintsForFreedomBackend-sub000/internal/domain"
	"github.com/FootprintsForFreedom/FootprintsForFreedomBackend-sub000/internal/revision"
	pkglogger "github.com/FootprintsForFreedom/FootprintsForFreedomBackend-sub000/pkg/logger"
)

// Tagging manages the moderated tag attachments of one taggable kind
type Tagging struct {
	d     *Deps
	kind  domain.Kind
	owner revision.FacetStore
	tags  *TagService
}

func newTagging(d *Deps, kind domain.Kind, owner revision.FacetStore, tags *TagService) *Tagging {
	return &Tagging{d: d, kind: kind, owner: owner, tags: tags}
}

// AttachTag links a visible tag to the repository. The attachment is pending until verified.
func (t *Tagging) AttachTag(ctx context.Context, v domain.Viewer, repositoryID, tagID uint64) (*domain.TagAttachment, error) {
	userID, err := requireUser(v)
	if err != nil {
		return nil, err
	}
	if err := t.owner.Exists(ctx, repositoryID); err != nil {
		return nil, err
	}
	if err := t.tags.RequireVisible(ctx, tagID); err != nil {
		return nil, err
	}
	if _, err := t.d.Attachments.Find(ctx, t.kind, repositoryID, tagID); err == nil {
		return nil, fmt.Errorf("%w: tag %d is already attached", common.ErrInvalidRequest, tagID)
	} else if !errors.Is(err, common.ErrNotFound) {
		return nil, err
	}

	a := &domain.TagAttachment{Kind: t.kind, RepositoryID: repositoryID, TagID: tagID, UserID: userID}
	if err := t.d.Attachments.Create(ctx, a); err != nil {
		return nil, err
	}

	pkglogger.GetLogger().Info().
		Str("kind", string(t.kind)).
		Uint64("repository_id", repositoryID).
		Uint64("tag_id", tagID).
		Msg("tag attached")
	if t.d.Policy.AutoVerify(v) {
		return t.VerifyTag(ctx, repositoryID, tagID)
	}
	return a, nil
}

// VerifyTag makes an attachment count for search
func (t *Tagging) VerifyTag(ctx context.Context, repositoryID, tagID uint64) (*domain.TagAttachment, error) {
	a, err := t.d.Attachments.Find(ctx, t.kind, repositoryID, tagID)
	if err != nil {
		return nil, err
	}
	if a.VerifiedAt != nil {
		return nil, fmt.Errorf("tag attachment %d: %w", a.ID, common.ErrAlreadyVerified)
	}
	if err := t.d.Attachments.Verify(ctx, a.ID, t.d.now()); err != nil {
		return nil, err
	}
	return t.d.Attachments.Find(ctx, t.kind, repositoryID, tagID)
}

// DetachTag removes an attachment, verified or not
func (t *Tagging) DetachTag(ctx context.Context, repositoryID, tagID uint64) error {
	a, err := t.d.Attachments.Find(ctx, t.kind, repositoryID, tagID)
	if err != nil {
		return err
	}
	if err := t.d.Attachments.Delete(ctx, a.ID); err != nil {
		return err
	}

	pkglogger.GetLogger().Info().
		Str("kind", string(t.kind)).
		Uint64("repository_id", repositoryID).
		Uint64("tag_id", tagID).
		Msg("tag detached")
	return nil
}

// TagIDs lists attached tags; the public only sees verified attachments
func (t *Tagging) TagIDs(ctx context.Context, v domain.Viewer, repositoryID uint64) ([]uint64, error) {
	if err := t.owner.Exists(ctx, repositoryID); err != nil {
		return nil, err
	}
	return t.d.Attachments.TagIDs(ctx, t.kind, repositoryID, !v.IsModerator())
}
