package repository

import (
	"context"

	"gorm.io/gorm"
)

// Transactor runs fn with an aggregate bound to one transaction,
// committing when fn returns nil
type Transactor interface {
	Transaction(ctx context.Context, fn func(tx *Repository) error) error
}

// Repository aggregate of every repository
type Repository struct {
	Tx          Transactor
	Application ApplicationRepository
	Message     MessageRepository
	User        UserRepository
	Profile     ProfileRepository
}

// NewRepository builds the aggregate on db
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		Tx:          gormTransactor{db: db},
		Application: NewApplicationRepo(db),
		Message:     NewMessageRepo(db),
		User:        NewUserRepo(db),
		Profile:     NewProfileRepo(db),
	}
}

// Transaction see Transactor
func (r *Repository) Transaction(ctx context.Context, fn func(tx *Repository) error) error {
	return r.Tx.Transaction(ctx, fn)
}

type gormTransactor struct {
	db *gorm.DB
}

func (t gormTransactor) Transaction(ctx context.Context, fn func(tx *Repository) error) error {
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepository(tx))
	})
}
