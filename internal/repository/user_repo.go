package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/FootprintsForFreedom/FootprintsForFreedomBackend-sub000/internal/common"
	"github.com/FootprintsForFreedom/FootprintsForFreedomBackend-sub000/internal/domain"
	"gorm.io/gorm"
)

// UserRepository user data access. Authors are looked up here, never joined:
// revisions only hold a nullable user id.
type UserRepository interface {
	WithTx(tx *gorm.DB) UserRepository
	Create(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id uint64) (*domain.User, error)
	Lookup(ctx context.Context, ids ...*uint64) (map[uint64]domain.UserRef, error)
	CreateToken(ctx context.Context, token *domain.UserToken) error
	DeleteTokens(ctx context.Context, userID uint64) (int64, error)
	Delete(ctx context.Context, id uint64) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) WithTx(tx *gorm.DB) UserRepository {
	return &userRepository{db: tx}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	if user.Role == "" {
		user.Role = domain.RoleUser
	}
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) FindByID(ctx context.Context, id uint64) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("user %d: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Lookup resolves author ids to references; nil and unknown ids are skipped
func (r *userRepository) Lookup(ctx context.Context, ids ...*uint64) (map[uint64]domain.UserRef, error) {
	refs := make(map[uint64]domain.UserRef)
	var wanted []uint64
	for _, id := range ids {
		if id != nil {
			wanted = append(wanted, *id)
		}
	}
	if len(wanted) == 0 {
		return refs, nil
	}
	var users []domain.User
	if err := r.db.WithContext(ctx).Where("id IN ?", wanted).Find(&users).Error; err != nil {
		return nil, err
	}
	for _, u := range users {
		refs[u.ID] = domain.UserRef{ID: u.ID, Name: u.Name}
	}
	return refs, nil
}

func (r *userRepository) CreateToken(ctx context.Context, token *domain.UserToken) error {
	return r.db.WithContext(ctx).Create(token).Error
}

func (r *userRepository) DeleteTokens(ctx context.Context, userID uint64) (int64, error) {
	res := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&domain.UserToken{})
	return res.RowsAffected, res.Error
}

func (r *userRepository) Delete(ctx context.Context, id uint64) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.User{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("user %d: %w", id, common.ErrNotFound)
	}
	return nil
}
