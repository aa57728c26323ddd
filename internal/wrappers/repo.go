package wrappers

import (
	"context"

	"github.com/gptx-exchange/gptx-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository manages persistence for token wrapper rows.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, wrapper *models.TokenWrapper) error
	// ListActive returns the user's active wrappers, optionally scoped to a
	// provider (empty string means all providers). Rows come back in
	// created_at ASC, id ASC order; the allocation walk depends on this
	// order being stable, so it is part of the contract.
	ListActive(ctx context.Context, userAddress, provider string) ([]models.TokenWrapper, error)
	ApplyConsumptions(ctx context.Context, consumptions []Consumption) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a wrapper repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, wrapper *models.TokenWrapper) error {
	return r.db.WithContext(ctx).Create(wrapper).Error
}

func (r *repository) ListActive(ctx context.Context, userAddress, provider string) ([]models.TokenWrapper, error) {
	query := r.db.WithContext(ctx).
		Where("user_address = ? AND is_active = ?", userAddress, true)
	if provider != "" {
		query = query.Where("provider = ?", provider)
	}

	var rows []models.TokenWrapper
	if err := query.Order("created_at ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ApplyConsumptions persists the row mutations produced by Allocate. A fully
// consumed row is only deactivated; its wrapped_tokens column keeps the
// pre-consumption value, which is why every balance read filters is_active.
func (r *repository) ApplyConsumptions(ctx context.Context, consumptions []Consumption) error {
	for _, c := range consumptions {
		updates := map[string]any{}
		if c.Depleted {
			updates["is_active"] = false
		} else {
			updates["wrapped_tokens"] = c.Remaining
		}
		if err := r.db.WithContext(ctx).
			Model(&models.TokenWrapper{}).
			Where("id = ?", c.WrapperID).
			Updates(updates).Error; err != nil {
			return err
		}
	}
	return nil
}
