package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/FootprintsForFreedom/FootprintsForFreedomBackend-sub000/internal/common"
	"github.com/FootprintsForFreedom/FootprintsForFreedomBackend-sub000/internal/domain"
	"gorm.io/gorm"
)

// LanguageRepository language registry data access
type LanguageRepository interface {
	WithTx(tx *gorm.DB) LanguageRepository
	Create(ctx context.Context, language *domain.Language) error
	FindByID(ctx context.Context, id uint64) (*domain.Language, error)
	FindByCode(ctx context.Context, code string) (*domain.Language, error)
	FindAll(ctx context.Context) ([]domain.Language, error)
	FindActive(ctx context.Context) ([]domain.Language, error)
	MaxPriority(ctx context.Context) (int, error)
	SetPriority(ctx context.Context, id uint64, priority *int) error
}

type languageRepository struct {
	db *gorm.DB
}

// NewLanguageRepository creates a new LanguageRepository
func NewLanguageRepository(db *gorm.DB) LanguageRepository {
	return &languageRepository{db: db}
}

func (r *languageRepository) WithTx(tx *gorm.DB) LanguageRepository {
	return &languageRepository{db: tx}
}

func (r *languageRepository) Create(ctx context.Context, language *domain.Language) error {
	return r.db.WithContext(ctx).Create(language).Error
}

func (r *languageRepository) FindByID(ctx context.Context, id uint64) (*domain.Language, error) {
	var language domain.Language
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&language).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("language %d: %w", id, common.ErrLanguageNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &language, nil
}

func (r *languageRepository) FindByCode(ctx context.Context, code string) (*domain.Language, error) {
	var language domain.Language
	err := r.db.WithContext(ctx).Where("language_code = ?", code).Take(&language).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%q: %w", code, common.ErrLanguageNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &language, nil
}

// FindAll returns active languages by priority followed by deactivated ones by code
func (r *languageRepository) FindAll(ctx context.Context) ([]domain.Language, error) {
	var languages []domain.Language
	err := r.db.WithContext(ctx).
		Order("CASE WHEN priority IS NULL THEN 1 ELSE 0 END, priority ASC, language_code ASC").
		Find(&languages).Error
	return languages, err
}

func (r *languageRepository) FindActive(ctx context.Context) ([]domain.Language, error) {
	var languages []domain.Language
	err := r.db.WithContext(ctx).
		Where("priority IS NOT NULL").
		Order("priority ASC, id ASC").
		Find(&languages).Error
	return languages, err
}

func (r *languageRepository) MaxPriority(ctx context.Context) (int, error) {
	var maxPriority *int
	err := r.db.WithContext(ctx).Model(&domain.Language{}).
		Select("MAX(priority)").
		Scan(&maxPriority).Error
	if err != nil {
		return 0, err
	}
	if maxPriority == nil {
		return 0, nil
	}
	return *maxPriority, nil
}

func (r *languageRepository) SetPriority(ctx context.Context, id uint64, priority *int) error {
	return r.db.WithContext(ctx).Model(&domain.Language{}).
		Where("id = ?", id).
		Update("priority", priority).Error
}
