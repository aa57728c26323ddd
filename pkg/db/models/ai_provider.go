package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AIProvider is reference data for a wrappable AI service. ConversionRate is
// the credits-to-GPTX ratio read by every wrap/unwrap path.
type AIProvider struct {
	ID             uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name           string          `gorm:"column:name;not null;uniqueIndex"`
	DisplayName    string          `gorm:"column:display_name;not null"`
	IsActive       bool            `gorm:"column:is_active;not null;default:true"`
	APIEndpoint    string          `gorm:"column:api_endpoint"`
	ConversionRate decimal.Decimal `gorm:"column:conversion_rate;type:numeric(30,10);not null;default:1.0"`
	CreatedAt      time.Time       `gorm:"column:created_at;autoCreateTime"`
}

func (AIProvider) TableName() string {
	return "ai_providers"
}
