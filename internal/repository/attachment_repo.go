package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/FootprintsForFreedom/FootprintsForFreedomBackend-sub000/internal/common"
	"github.com/FootprintsForFreedom/FootprintsForFreedomBackend-sub000/internal/domain"
	"gorm.io/gorm"
)

// AttachmentRepository tag attachment (join table) data access
type AttachmentRepository struct {
	db *gorm.DB
}

// NewAttachmentRepository creates a new AttachmentRepository
func NewAttachmentRepository(db *gorm.DB) *AttachmentRepository {
	return &AttachmentRepository{db: db}
}

// WithTx returns a repository bound to a transaction
func (r *AttachmentRepository) WithTx(tx *gorm.DB) *AttachmentRepository {
	return &AttachmentRepository{db: tx}
}

// DB exposes the handle for building subqueries
func (r *AttachmentRepository) DB() *gorm.DB { return r.db }

// Find returns the attachment of a tag to a repository
func (r *AttachmentRepository) Find(ctx context.Context, kind domain.Kind, repositoryID, tagID uint64) (*domain.TagAttachment, error) {
	var a domain.TagAttachment
	err := r.db.WithContext(ctx).
		Where("kind = ? AND repository_id = ? AND tag_id = ?", kind, repositoryID, tagID).
		Take(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("tag %d on %s %d: %w", tagID, kind, repositoryID, common.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Create stores a new pending attachment
func (r *AttachmentRepository) Create(ctx context.Context, a *domain.TagAttachment) error {
	a.VerifiedAt = nil
	return r.db.WithContext(ctx).Create(a).Error
}

// Verify sets verified_at once
func (r *AttachmentRepository) Verify(ctx context.Context, id uint64, at time.Time) error {
	res := r.db.WithContext(ctx).Model(&domain.TagAttachment{}).
		Where("id = ? AND verified_at IS NULL", id).
		Update("verified_at", at)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("tag attachment %d: %w", id, common.ErrAlreadyVerified)
	}
	return nil
}

// Delete removes one attachment
func (r *AttachmentRepository) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.TagAttachment{}).Error
}

// TagIDs lists the tags attached to a repository
func (r *AttachmentRepository) TagIDs(ctx context.Context, kind domain.Kind, repositoryID uint64, verifiedOnly bool) ([]uint64, error) {
	q := r.db.WithContext(ctx).Model(&domain.TagAttachment{}).
		Where("kind = ? AND repository_id = ?", kind, repositoryID)
	if verifiedOnly {
		q = q.Where("verified_at IS NOT NULL")
	}
	var ids []uint64
	err := q.Order("id ASC").Pluck("tag_id", &ids).Error
	return ids, err
}

// RepositoriesWithTags selects the repository ids of a kind with a verified attachment
// to one of the tags returned by tagIDs
func (r *AttachmentRepository) RepositoriesWithTags(ctx context.Context, kind domain.Kind, tagIDs *gorm.DB) *gorm.DB {
	return r.db.Session(&gorm.Session{NewDB: true}).WithContext(ctx).
		Model(&domain.TagAttachment{}).
		Select("repository_id").
		Where("kind = ? AND verified_at IS NOT NULL AND tag_id IN (?)", kind, tagIDs)
}

// DeleteByRepository removes every attachment of a repository
func (r *AttachmentRepository) DeleteByRepository(ctx context.Context, kind domain.Kind, repositoryID uint64) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("kind = ? AND repository_id = ?", kind, repositoryID).
		Delete(&domain.TagAttachment{})
	return res.RowsAffected, res.Error
}

// DeleteByTag removes every attachment of a tag
func (r *AttachmentRepository) DeleteByTag(ctx context.Context, tagID uint64) (int64, error) {
	res := r.db.WithContext(ctx).Where("tag_id = ?", tagID).Delete(&domain.TagAttachment{})
	return res.RowsAffected, res.Error
}

// AnonymizeAuthor clears the author of every attachment made by the user
func (r *AttachmentRepository) AnonymizeAuthor(ctx context.Context, userID uint64) (int64, error) {
	res := r.db.WithContext(ctx).Model(&domain.TagAttachment{}).
		Where("user_id = ?", userID).
		Update("user_id", nil)
	return res.RowsAffected, res.Error
}
