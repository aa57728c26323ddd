package carbon

import (
	"context"

	"github.com/gptx-exchange/gptx-backend/pkg/db/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Totals aggregates the whole carbon offset table.
type Totals struct {
	OffsetCount        int64
	TotalTokensRetired decimal.Decimal
	TotalCarbonCredits decimal.Decimal
}

// Repository manages persistence for carbon offsets. Offsets are append-only.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, offset *models.CarbonOffset) error
	ListByAddress(ctx context.Context, userAddress string, limit int) ([]models.CarbonOffset, error)
	ListRecent(ctx context.Context, limit int) ([]models.CarbonOffset, error)
	FindByCertificateID(ctx context.Context, certificateID string) (*models.CarbonOffset, error)
	Totals(ctx context.Context) (*Totals, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns an offset repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, offset *models.CarbonOffset) error {
	return r.db.WithContext(ctx).Create(offset).Error
}

func (r *repository) ListByAddress(ctx context.Context, userAddress string, limit int) ([]models.CarbonOffset, error) {
	var offsets []models.CarbonOffset
	if err := r.db.WithContext(ctx).
		Where("user_address = ?", userAddress).
		Order("created_at DESC").
		Limit(limit).
		Find(&offsets).Error; err != nil {
		return nil, err
	}
	return offsets, nil
}

func (r *repository) ListRecent(ctx context.Context, limit int) ([]models.CarbonOffset, error) {
	var offsets []models.CarbonOffset
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&offsets).Error; err != nil {
		return nil, err
	}
	return offsets, nil
}

func (r *repository) FindByCertificateID(ctx context.Context, certificateID string) (*models.CarbonOffset, error) {
	var offset models.CarbonOffset
	if err := r.db.WithContext(ctx).
		Where("offset_certificate_id = ?", certificateID).
		First(&offset).Error; err != nil {
		return nil, err
	}
	return &offset, nil
}

func (r *repository) Totals(ctx context.Context) (*Totals, error) {
	var row struct {
		OffsetCount        int64
		TotalTokensRetired decimal.Decimal
		TotalCarbonCredits decimal.Decimal
	}
	if err := r.db.WithContext(ctx).
		Model(&models.CarbonOffset{}).
		Select("COUNT(*) AS offset_count, COALESCE(SUM(tokens_retired), 0) AS total_tokens_retired, COALESCE(SUM(carbon_credits_purchased), 0) AS total_carbon_credits").
		Scan(&row).Error; err != nil {
		return nil, err
	}
	return &Totals{
		OffsetCount:        row.OffsetCount,
		TotalTokensRetired: row.TotalTokensRetired,
		TotalCarbonCredits: row.TotalCarbonCredits,
	}, nil
}
