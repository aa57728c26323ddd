package aiproviders

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MinProofLength is the placeholder bar a credit-ownership proof must clear.
const MinProofLength = 10

type providerInfo struct {
	name       string
	creditUnit string
}

var knownProviders = map[string]providerInfo{
	"openai":    {name: "OpenAI", creditUnit: "tokens"},
	"anthropic": {name: "Anthropic", creditUnit: "tokens"},
	"google":    {name: "Google AI", creditUnit: "tokens"},
}

var mockBalances = map[string]decimal.Decimal{
	"openai":    decimal.RequireFromString("150.75"),
	"anthropic": decimal.RequireFromString("89.25"),
	"google":    decimal.RequireFromString("200.00"),
}

// MockGateway simulates provider-side verification, restoration and
// balance lookups with static data.
type MockGateway struct{}

// NewMockGateway builds the simulated provider client.
func NewMockGateway() *MockGateway {
	return &MockGateway{}
}

var _ ProviderGateway = (*MockGateway)(nil)

func (g *MockGateway) VerifyCreditOwnership(ctx context.Context, provider string, creditAmount decimal.Decimal, proof string) (*Verification, error) {
	if _, ok := knownProviders[provider]; !ok {
		return &Verification{Valid: false, Error: fmt.Sprintf("provider %q not supported", provider)}, nil
	}
	if len(proof) < MinProofLength {
		return &Verification{Valid: false, Error: "invalid proof provided"}, nil
	}
	if !creditAmount.IsPositive() {
		return &Verification{Valid: false, Error: "credit amount must be positive"}, nil
	}

	return &Verification{
		Valid:          true,
		Provider:       provider,
		CreditAmount:   creditAmount,
		VerificationID: fmt.Sprintf("%s_%s", provider, uuid.NewString()[:8]),
		VerifiedAt:     time.Now().UTC(),
	}, nil
}

func (g *MockGateway) RestoreCredits(ctx context.Context, provider string, creditAmount decimal.Decimal, userIdentifier string) (*Restoration, error) {
	info, ok := knownProviders[provider]
	if !ok {
		return &Restoration{Success: false, Error: fmt.Sprintf("provider %q not supported", provider)}, nil
	}

	return &Restoration{
		Success:         true,
		Provider:        provider,
		CreditsRestored: creditAmount,
		RestorationID:   fmt.Sprintf("%s_restore_%s", provider, uuid.NewString()[:8]),
		Message:         fmt.Sprintf("restored %s %s to %s account", creditAmount, info.creditUnit, provider),
	}, nil
}

func (g *MockGateway) CreditBalance(ctx context.Context, provider string) (*Balance, error) {
	info, ok := knownProviders[provider]
	if !ok {
		return nil, fmt.Errorf("provider %q not supported", provider)
	}
	credits, ok := mockBalances[provider]
	if !ok {
		credits = decimal.Zero
	}
	return &Balance{
		Provider:    provider,
		Credits:     credits,
		Unit:        info.creditUnit,
		LastUpdated: time.Now().UTC(),
	}, nil
}

func (g *MockGateway) HealthCheck(ctx context.Context, provider string) (*Health, error) {
	if _, ok := knownProviders[provider]; !ok {
		return nil, fmt.Errorf("provider %q not supported", provider)
	}
	return &Health{
		Provider:         provider,
		Status:           "healthy",
		APIAvailable:     true,
		ResponseTimeMS:   150,
		LastChecked:      time.Now().UTC(),
		APIKeyConfigured: false,
	}, nil
}
