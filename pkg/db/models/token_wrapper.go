package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TokenWrapper is one positive balance of GPTX tokens minted from AI-service
// credits for a single (user, provider) pair. WrappedTokens only ever
// decreases; once IsActive flips to false the row is terminal. Every balance
// read must filter on is_active, because full consumption leaves
// wrapped_tokens at its pre-consumption value.
type TokenWrapper struct {
	ID              uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserAddress     string          `gorm:"column:user_address;not null;index"`
	Provider        string          `gorm:"column:provider;not null"`
	OriginalCredits decimal.Decimal `gorm:"column:original_credits;type:numeric(30,10);not null"`
	WrappedTokens   decimal.Decimal `gorm:"column:wrapped_tokens;type:numeric(30,10);not null"`
	TransactionHash string          `gorm:"column:transaction_hash;not null;uniqueIndex"`
	IsActive        bool            `gorm:"column:is_active;not null;default:true"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
