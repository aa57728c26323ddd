package providers

import (
	"context"

	"github.com/gptx-exchange/gptx-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository manages persistence for the AI provider registry.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindActiveByName(ctx context.Context, name string) (*models.AIProvider, error)
	ListActive(ctx context.Context) ([]models.AIProvider, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a provider repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindActiveByName(ctx context.Context, name string) (*models.AIProvider, error) {
	var provider models.AIProvider
	if err := r.db.WithContext(ctx).
		Where("name = ? AND is_active = ?", name, true).
		First(&provider).Error; err != nil {
		return nil, err
	}
	return &provider, nil
}

func (r *repository) ListActive(ctx context.Context) ([]models.AIProvider, error) {
	var providers []models.AIProvider
	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("name ASC").
		Find(&providers).Error; err != nil {
		return nil, err
	}
	return providers, nil
}
