package exchange

import (
	"context"

	"github.com/gptx-exchange/gptx-backend/pkg/db/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Totals aggregates the whole trade table.
type Totals struct {
	TradeCount  int64
	TotalVolume decimal.Decimal
	TotalValue  decimal.Decimal
}

// Repository manages persistence for trades. Trades are append-only.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, trade *models.Trade) error
	ListByAddress(ctx context.Context, userAddress string, limit int) ([]models.Trade, error)
	ListRecent(ctx context.Context, limit int) ([]models.Trade, error)
	Totals(ctx context.Context) (*Totals, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a trade repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, trade *models.Trade) error {
	return r.db.WithContext(ctx).Create(trade).Error
}

func (r *repository) ListByAddress(ctx context.Context, userAddress string, limit int) ([]models.Trade, error) {
	var trades []models.Trade
	if err := r.db.WithContext(ctx).
		Where("buyer_address = ? OR seller_address = ?", userAddress, userAddress).
		Order("created_at DESC").
		Limit(limit).
		Find(&trades).Error; err != nil {
		return nil, err
	}
	return trades, nil
}

func (r *repository) ListRecent(ctx context.Context, limit int) ([]models.Trade, error) {
	var trades []models.Trade
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&trades).Error; err != nil {
		return nil, err
	}
	return trades, nil
}

func (r *repository) Totals(ctx context.Context) (*Totals, error) {
	var row struct {
		TradeCount  int64
		TotalVolume decimal.Decimal
		TotalValue  decimal.Decimal
	}
	if err := r.db.WithContext(ctx).
		Model(&models.Trade{}).
		Select("COUNT(*) AS trade_count, COALESCE(SUM(token_amount), 0) AS total_volume, COALESCE(SUM(total_price), 0) AS total_value").
		Scan(&row).Error; err != nil {
		return nil, err
	}
	return &Totals{
		TradeCount:  row.TradeCount,
		TotalVolume: row.TotalVolume,
		TotalValue:  row.TotalValue,
	}, nil
}
