package aiproviders

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Verification is the result of a credit-ownership check.
type Verification struct {
	Valid          bool            `json:"valid"`
	Error          string          `json:"error,omitempty"`
	Provider       string          `json:"provider,omitempty"`
	CreditAmount   decimal.Decimal `json:"credit_amount"`
	VerificationID string          `json:"verification_id,omitempty"`
	VerifiedAt     time.Time       `json:"verified_at"`
}

// Restoration is the result of returning credits to a provider account.
type Restoration struct {
	Success         bool            `json:"success"`
	Error           string          `json:"error,omitempty"`
	Provider        string          `json:"provider,omitempty"`
	CreditsRestored decimal.Decimal `json:"credits_restored"`
	RestorationID   string          `json:"restoration_id,omitempty"`
	Message         string          `json:"message,omitempty"`
}

// Balance reports the credits currently held at a provider.
type Balance struct {
	Provider    string          `json:"provider"`
	Credits     decimal.Decimal `json:"credits"`
	Unit        string          `json:"unit"`
	LastUpdated time.Time       `json:"last_updated"`
}

// Health reports whether a provider API is reachable.
type Health struct {
	Provider         string    `json:"provider"`
	Status           string    `json:"status"`
	APIAvailable     bool      `json:"api_available"`
	ResponseTimeMS   int       `json:"response_time_ms"`
	LastChecked      time.Time `json:"last_checked"`
	APIKeyConfigured bool      `json:"api_key_configured"`
}

// CreditVerifier checks that a user owns the credits being wrapped.
type CreditVerifier interface {
	VerifyCreditOwnership(ctx context.Context, provider string, creditAmount decimal.Decimal, proof string) (*Verification, error)
}

// CreditRestorer returns unwrapped credits to a provider account.
type CreditRestorer interface {
	RestoreCredits(ctx context.Context, provider string, creditAmount decimal.Decimal, userIdentifier string) (*Restoration, error)
}

// ProviderGateway is the full provider-side collaborator surface.
type ProviderGateway interface {
	CreditVerifier
	CreditRestorer
	CreditBalance(ctx context.Context, provider string) (*Balance, error)
	HealthCheck(ctx context.Context, provider string) (*Health, error)
}
