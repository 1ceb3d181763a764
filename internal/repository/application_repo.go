package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/22146025/lord-s-heart-educational-complex/internal/model"
)

// ApplicationFilter list filters; empty fields are ignored
type ApplicationFilter struct {
	Statuses             []string
	Gender               string
	ClassBeforeAdmission string
}

// ApplicationRepository admission application data access
type ApplicationRepository interface {
	Create(ctx context.Context, app *model.Application) error
	GetByID(ctx context.Context, id uint) (*model.Application, error)
	Update(ctx context.Context, app *model.Application) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, filter *ApplicationFilter, opts ListOptions) ([]model.Application, int64, error)
	ListByStatus(ctx context.Context, status string) ([]model.Application, error)
	ListAll(ctx context.Context) ([]model.Application, error)
	BulkUpdateStatus(ctx context.Context, ids []uint, status string) (int64, error)

	Count(ctx context.Context, status string) (int64, error)
	CountSince(ctx context.Context, since time.Time) (int64, error)
	CountByGender(ctx context.Context) ([]GroupCount, error)
	CountByClass(ctx context.Context) ([]GroupCount, error)
}

type applicationRepo struct {
	db *gorm.DB
}

// NewApplicationRepo GORM implementation of ApplicationRepository
func NewApplicationRepo(db *gorm.DB) ApplicationRepository {
	return &applicationRepo{db: db}
}

var applicationOrdering = orderFields{
	"application_date": "application_date",
	"created_at":       "created_at",
	"surname":          "surname",
	"first_name":       "first_name",
}

const applicationDefaultOrder = "application_date DESC"

func (r *applicationRepo) Create(ctx context.Context, app *model.Application) error {
	return r.db.WithContext(ctx).Create(app).Error
}

func (r *applicationRepo) GetByID(ctx context.Context, id uint) (*model.Application, error) {
	var app model.Application
	if err := r.db.WithContext(ctx).First(&app, id).Error; err != nil {
		return nil, err
	}
	return &app, nil
}

func (r *applicationRepo) Update(ctx context.Context, app *model.Application) error {
	return r.db.WithContext(ctx).Save(app).Error
}

func (r *applicationRepo) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&model.Application{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *applicationRepo) List(ctx context.Context, filter *ApplicationFilter, opts ListOptions) ([]model.Application, int64, error) {
	var apps []model.Application
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Application{})
	if filter != nil {
		if len(filter.Statuses) > 0 {
			db = db.Where("status IN ?", filter.Statuses)
		}
		if filter.Gender != "" {
			db = db.Where("gender = ?", filter.Gender)
		}
		if filter.ClassBeforeAdmission != "" {
			db = db.Where("class_before_admission = ?", filter.ClassBeforeAdmission)
		}
	}
	db = applySearch(db, opts.Search, "surname", "first_name", "other_names", "father_name", "mother_name")

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	db = applyOrdering(db, opts.Ordering, applicationOrdering, applicationDefaultOrder)
	if err := applyPage(db, opts).Find(&apps).Error; err != nil {
		return nil, 0, err
	}
	return apps, total, nil
}

func (r *applicationRepo) ListByStatus(ctx context.Context, status string) ([]model.Application, error) {
	var apps []model.Application
	err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order(applicationDefaultOrder).
		Find(&apps).Error
	return apps, err
}

func (r *applicationRepo) ListAll(ctx context.Context) ([]model.Application, error) {
	var apps []model.Application
	err := r.db.WithContext(ctx).Order(applicationDefaultOrder).Find(&apps).Error
	return apps, err
}

// BulkUpdateStatus one UPDATE over ids inside a transaction. Only status
// and updated_at change; reviewer fields are left as they are.
func (r *applicationRepo) BulkUpdateStatus(ctx context.Context, ids []uint, status string) (int64, error) {
	var affected int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&model.Application{}).
			Where("id IN ?", ids).
			Update("status", status)
		if result.Error != nil {
			return result.Error
		}
		affected = result.RowsAffected
		return nil
	})
	return affected, err
}

func (r *applicationRepo) Count(ctx context.Context, status string) (int64, error) {
	var n int64
	db := r.db.WithContext(ctx).Model(&model.Application{})
	if status != "" {
		db = db.Where("status = ?", status)
	}
	err := db.Count(&n).Error
	return n, err
}

func (r *applicationRepo) CountSince(ctx context.Context, since time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Application{}).
		Where("application_date >= ?", since).
		Count(&n).Error
	return n, err
}

func (r *applicationRepo) CountByGender(ctx context.Context) ([]GroupCount, error) {
	return countBy(r.db.WithContext(ctx), &model.Application{}, "gender")
}

func (r *applicationRepo) CountByClass(ctx context.Context) ([]GroupCount, error) {
	return countBy(r.db.WithContext(ctx), &model.Application{}, "class_before_admission")
}
