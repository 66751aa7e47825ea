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

// Report status constants
const (
	ReportStatusPending  = "pending"
	ReportStatusVerified = "verified"
)

// ReportRepository handles report data operations
type ReportRepository struct {
	db *gorm.DB
}

// NewReportRepository creates a new ReportRepository
func NewReportRepository(db *gorm.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// WithTx returns a repository bound to a transaction
func (r *ReportRepository) WithTx(tx *gorm.DB) *ReportRepository {
	return &ReportRepository{db: tx}
}

// ReportFilter narrows List
type ReportFilter struct {
	Kind         domain.Kind
	RepositoryID uint64
	Status       string
}

// List retrieves paginated reports, oldest pending first
func (r *ReportRepository) List(ctx context.Context, f ReportFilter, page common.Page) ([]domain.Report, int64, error) {
	var reports []domain.Report
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.Report{})
	if f.Kind != "" {
		query = query.Where("kind = ?", f.Kind)
	}
	if f.RepositoryID != 0 {
		query = query.Where("repository_id = ?", f.RepositoryID)
	}

	// Filter by status
	switch f.Status {
	case ReportStatusPending:
		query = query.Where("verified_at IS NULL")
	case ReportStatusVerified:
		query = query.Where("verified_at IS NOT NULL")
	}
	query = query.Session(&gorm.Session{})

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Order("created_at ASC, id ASC").
		Offset(page.Offset()).
		Limit(page.PerPage).
		Find(&reports).Error; err != nil {
		return nil, 0, err
	}

	return reports, total, nil
}

// GetByID retrieves a report
func (r *ReportRepository) GetByID(ctx context.Context, id uint64) (*domain.Report, error) {
	var report domain.Report
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&report).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("report %d: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &report, nil
}

// Create stores a new report
func (r *ReportRepository) Create(ctx context.Context, report *domain.Report) error {
	return r.db.WithContext(ctx).Create(report).Error
}

// Verify marks a report as handled. Check-and-set on verified_at IS NULL.
func (r *ReportRepository) Verify(ctx context.Context, id uint64, at time.Time) error {
	res := r.db.WithContext(ctx).Model(&domain.Report{}).
		Where("id = ? AND verified_at IS NULL", id).
		Update("verified_at", at)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return fmt.Errorf("report %d: %w", id, common.ErrAlreadyVerified)
	}
	return nil
}

// DeleteByRepository removes every report on the repository or on any of its revisions
func (r *ReportRepository) DeleteByRepository(ctx context.Context, kind domain.Kind, repositoryID uint64, revisionIDs []uint64) (int64, error) {
	query := r.db.WithContext(ctx).Where("kind = ? AND repository_id = ?", kind, repositoryID)
	if len(revisionIDs) > 0 {
		query = r.db.WithContext(ctx).Where(
			"kind = ? AND (repository_id = ? OR revision_id IN ?)", kind, repositoryID, revisionIDs)
	}
	res := query.Delete(&domain.Report{})
	return res.RowsAffected, res.Error
}

// AnonymizeReporter clears the reporter of every report filed by the user
func (r *ReportRepository) AnonymizeReporter(ctx context.Context, userID uint64) (int64, error) {
	res := r.db.WithContext(ctx).Model(&domain.Report{}).
		Where("user_id = ?", userID).
		Update("user_id", nil)
	return res.RowsAffected, res.Error
}
