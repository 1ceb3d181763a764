package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/22146025/lord-s-heart-educational-complex/internal/model"
)

// UserFilter list/count filters; nil fields are ignored
type UserFilter struct {
	IsActive *bool
	IsStaff  *bool
}

// UserRepository identity data access
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id uint) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	Update(ctx context.Context, user *model.User) error
	UpdatePassword(ctx context.Context, id uint, hash string) error
	UpdateLastLogin(ctx context.Context, id uint, at time.Time) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, filter *UserFilter, opts ListOptions) ([]model.User, int64, error)

	Count(ctx context.Context, filter *UserFilter) (int64, error)
	CountJoinedSince(ctx context.Context, since time.Time) (int64, error)
}

type userRepo struct {
	db *gorm.DB
}

// NewUserRepo GORM implementation of UserRepository
func NewUserRepo(db *gorm.DB) UserRepository {
	return &userRepo{db: db}
}

var userOrdering = orderFields{
	"username":    "username",
	"email":       "email",
	"date_joined": "date_joined",
}

// Create inserts the identity only; its profile is written separately
func (r *userRepo) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(user).Error
}

func (r *userRepo) GetByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Preload("Profile").
		First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Preload("Profile").
		Where("username = ?", username).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.User{}).
		Where("username = ?", username).
		Count(&n).Error
	return n > 0, err
}

// Update saves identity columns; the profile is left to ProfileRepository
func (r *userRepo) Update(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(user).Error
}

func (r *userRepo) UpdatePassword(ctx context.Context, id uint, hash string) error {
	return r.updateColumns(ctx, id, map[string]interface{}{"password_hash": hash})
}

func (r *userRepo) UpdateLastLogin(ctx context.Context, id uint, at time.Time) error {
	return r.updateColumns(ctx, id, map[string]interface{}{"last_login": at})
}

func (r *userRepo) updateColumns(ctx context.Context, id uint, cols map[string]interface{}) error {
	result := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Updates(cols)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *userRepo) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&model.User{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *userRepo) List(ctx context.Context, filter *UserFilter, opts ListOptions) ([]model.User, int64, error) {
	var users []model.User
	var total int64

	db := applyUserFilter(r.db.WithContext(ctx).Model(&model.User{}), filter)
	db = applySearch(db, opts.Search, "username", "email", "first_name", "last_name")

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	db = applyOrdering(db, opts.Ordering, userOrdering, "username ASC")
	if err := applyPage(db, opts).Preload("Profile").Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (r *userRepo) Count(ctx context.Context, filter *UserFilter) (int64, error) {
	var n int64
	err := applyUserFilter(r.db.WithContext(ctx).Model(&model.User{}), filter).Count(&n).Error
	return n, err
}

func (r *userRepo) CountJoinedSince(ctx context.Context, since time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.User{}).
		Where("date_joined >= ?", since).
		Count(&n).Error
	return n, err
}

func applyUserFilter(db *gorm.DB, filter *UserFilter) *gorm.DB {
	if filter == nil {
		return db
	}
	if filter.IsActive != nil {
		db = db.Where("is_active = ?", *filter.IsActive)
	}
	if filter.IsStaff != nil {
		db = db.Where("is_staff = ?", *filter.IsStaff)
	}
	return db
}
