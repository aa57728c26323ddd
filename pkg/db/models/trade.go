package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gptx-exchange/gptx-backend/pkg/enums"
)

// Trade records a completed token exchange between two addresses.
// Rows are append-only; nothing mutates a trade after insertion.
type Trade struct {
	ID              uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SellerAddress   string            `gorm:"column:seller_address;not null;index"`
	BuyerAddress    string            `gorm:"column:buyer_address;not null;index"`
	TokenAmount     decimal.Decimal   `gorm:"column:token_amount;type:numeric(30,10);not null"`
	PricePerToken   decimal.Decimal   `gorm:"column:price_per_token;type:numeric(30,10);not null"`
	TotalPrice      decimal.Decimal   `gorm:"column:total_price;type:numeric(30,10);not null"`
	TransactionHash string            `gorm:"column:transaction_hash;not null;uniqueIndex"`
	Status          enums.TradeStatus `gorm:"column:status;not null;default:'completed'"`
	CreatedAt       time.Time         `gorm:"column:created_at;autoCreateTime"`
}
