package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/22146025/lord-s-heart-educational-complex/internal/model"
)

// MessageRepository contact message data access
type MessageRepository interface {
	Create(ctx context.Context, msg *model.Message) error
	GetByID(ctx context.Context, id uint) (*model.Message, error)
	Update(ctx context.Context, msg *model.Message) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, status string, opts ListOptions) ([]model.Message, int64, error)
	ListByStatus(ctx context.Context, status string) ([]model.Message, error)
	ListByIDs(ctx context.Context, ids []uint) ([]model.Message, error)
	ListAll(ctx context.Context) ([]model.Message, error)
	SaveAll(ctx context.Context, msgs []model.Message) error

	Count(ctx context.Context, status string) (int64, error)
	CountSince(ctx context.Context, since time.Time) (int64, error)
	CountByStatus(ctx context.Context) ([]GroupCount, error)
	DailyCountsSince(ctx context.Context, since time.Time) ([]DayCount, error)
}

type messageRepo struct {
	db *gorm.DB
}

// NewMessageRepo GORM implementation of MessageRepository
func NewMessageRepo(db *gorm.DB) MessageRepository {
	return &messageRepo{db: db}
}

var messageOrdering = orderFields{
	"created_at": "created_at",
	"name":       "name",
	"email":      "email",
}

const messageDefaultOrder = "created_at DESC"

func (r *messageRepo) Create(ctx context.Context, msg *model.Message) error {
	return r.db.WithContext(ctx).Create(msg).Error
}

func (r *messageRepo) GetByID(ctx context.Context, id uint) (*model.Message, error) {
	var msg model.Message
	if err := r.db.WithContext(ctx).First(&msg, id).Error; err != nil {
		return nil, err
	}
	return &msg, nil
}

func (r *messageRepo) Update(ctx context.Context, msg *model.Message) error {
	return r.db.WithContext(ctx).Save(msg).Error
}

func (r *messageRepo) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&model.Message{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *messageRepo) List(ctx context.Context, status string, opts ListOptions) ([]model.Message, int64, error) {
	var msgs []model.Message
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Message{})
	if status != "" {
		db = db.Where("status = ?", status)
	}
	db = applySearch(db, opts.Search, "name", "email", "message")

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	db = applyOrdering(db, opts.Ordering, messageOrdering, messageDefaultOrder)
	if err := applyPage(db, opts).Find(&msgs).Error; err != nil {
		return nil, 0, err
	}
	return msgs, total, nil
}

func (r *messageRepo) ListByStatus(ctx context.Context, status string) ([]model.Message, error) {
	var msgs []model.Message
	err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order(messageDefaultOrder).
		Find(&msgs).Error
	return msgs, err
}

func (r *messageRepo) ListByIDs(ctx context.Context, ids []uint) ([]model.Message, error) {
	var msgs []model.Message
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Order("id ASC").
		Find(&msgs).Error
	return msgs, err
}

func (r *messageRepo) ListAll(ctx context.Context) ([]model.Message, error) {
	var msgs []model.Message
	err := r.db.WithContext(ctx).Order(messageDefaultOrder).Find(&msgs).Error
	return msgs, err
}

// SaveAll persists every message in one transaction
func (r *messageRepo) SaveAll(ctx context.Context, msgs []model.Message) error {
	if len(msgs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range msgs {
			if err := tx.Save(&msgs[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *messageRepo) Count(ctx context.Context, status string) (int64, error) {
	var n int64
	db := r.db.WithContext(ctx).Model(&model.Message{})
	if status != "" {
		db = db.Where("status = ?", status)
	}
	err := db.Count(&n).Error
	return n, err
}

func (r *messageRepo) CountSince(ctx context.Context, since time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Message{}).
		Where("created_at >= ?", since).
		Count(&n).Error
	return n, err
}

func (r *messageRepo) CountByStatus(ctx context.Context) ([]GroupCount, error) {
	return countBy(r.db.WithContext(ctx), &model.Message{}, "status")
}

// DailyCountsSince per-day counts by created_at date, oldest first
func (r *messageRepo) DailyCountsSince(ctx context.Context, since time.Time) ([]DayCount, error) {
	var rows []DayCount
	err := r.db.WithContext(ctx).Model(&model.Message{}).
		Select("TO_CHAR(DATE(created_at), 'YYYY-MM-DD') AS day, COUNT(*) AS count").
		Where("created_at >= ?", since).
		Group("DATE(created_at)").
		Order("DATE(created_at) ASC").
		Scan(&rows).Error
	return rows, err
}
