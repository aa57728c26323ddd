package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CarbonOffset records a token retirement and the carbon credits it bought.
// Created in the same transaction that debits the user's wrappers.
type CarbonOffset struct {
	ID                     uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserAddress            string          `gorm:"column:user_address;not null;index"`
	TokensRetired          decimal.Decimal `gorm:"column:tokens_retired;type:numeric(30,10);not null"`
	CarbonCreditsPurchased decimal.Decimal `gorm:"column:carbon_credits_purchased;type:numeric(30,10);not null"`
	OffsetProvider         string          `gorm:"column:offset_provider;not null"`
	OffsetCertificateID    string          `gorm:"column:offset_certificate_id;not null;uniqueIndex"`
	TransactionHash        string          `gorm:"column:transaction_hash;not null;uniqueIndex"`
	Metadata               json.RawMessage `gorm:"column:metadata;type:jsonb"`
	CreatedAt              time.Time       `gorm:"column:created_at;autoCreateTime"`
}
