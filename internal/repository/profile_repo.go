package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/22146025/lord-s-heart-educational-complex/internal/model"
)

// ProfileRepository profile data access
type ProfileRepository interface {
	Create(ctx context.Context, profile *model.Profile) error
	GetByID(ctx context.Context, id uint) (*model.Profile, error)
	GetByUserID(ctx context.Context, userID uint) (*model.Profile, error)
	Update(ctx context.Context, profile *model.Profile) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, role string, opts ListOptions) ([]model.Profile, int64, error)
	CountByRole(ctx context.Context) ([]GroupCount, error)
}

type profileRepo struct {
	db *gorm.DB
}

// NewProfileRepo GORM implementation of ProfileRepository
func NewProfileRepo(db *gorm.DB) ProfileRepository {
	return &profileRepo{db: db}
}

var profileOrdering = orderFields{
	"created_at": "user_profiles.created_at",
	"username":   "users.username",
}

func (r *profileRepo) Create(ctx context.Context, profile *model.Profile) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(profile).Error
}

func (r *profileRepo) GetByID(ctx context.Context, id uint) (*model.Profile, error) {
	var p model.Profile
	if err := r.db.WithContext(ctx).Preload("User").First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *profileRepo) GetByUserID(ctx context.Context, userID uint) (*model.Profile, error) {
	var p model.Profile
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("user_id = ?", userID).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *profileRepo) Update(ctx context.Context, profile *model.Profile) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(profile).Error
}

func (r *profileRepo) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&model.Profile{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *profileRepo) List(ctx context.Context, role string, opts ListOptions) ([]model.Profile, int64, error) {
	var profiles []model.Profile
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Profile{}).
		Joins("JOIN users ON users.id = user_profiles.user_id")
	if role != "" {
		db = db.Where("user_profiles.role = ?", role)
	}
	db = applySearch(db, opts.Search, "users.username", "users.email", "users.first_name", "users.last_name")

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	db = applyOrdering(db, opts.Ordering, profileOrdering, "user_profiles.created_at DESC")
	if err := applyPage(db, opts).Preload("User").Find(&profiles).Error; err != nil {
		return nil, 0, err
	}
	return profiles, total, nil
}

func (r *profileRepo) CountByRole(ctx context.Context) ([]GroupCount, error) {
	return countBy(r.db.WithContext(ctx), &model.Profile{}, "role")
}
