package aiproviders

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
)

func TestVerifyCreditOwnership(t *testing.T) {
	gw := NewMockGateway()
	ctx := context.Background()

	tests := []struct {
		name     string
		provider string
		amount   decimal.Decimal
		proof    string
		valid    bool
	}{
		{name: "valid", provider: "openai", amount: decimal.NewFromInt(100), proof: "proof-of-credits", valid: true},
		{name: "unknown provider", provider: "nonexistent", amount: decimal.NewFromInt(100), proof: "proof-of-credits", valid: false},
		{name: "short proof", provider: "openai", amount: decimal.NewFromInt(100), proof: "short", valid: false},
		{name: "zero amount", provider: "openai", amount: decimal.Zero, proof: "proof-of-credits", valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verification, err := gw.VerifyCreditOwnership(ctx, tt.provider, tt.amount, tt.proof)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if verification.Valid != tt.valid {
				t.Fatalf("expected valid=%v, got %v (%s)", tt.valid, verification.Valid, verification.Error)
			}
			if tt.valid && verification.VerificationID == "" {
				t.Fatal("expected verification id for valid check")
			}
		})
	}
}

func TestRestoreCredits(t *testing.T) {
	gw := NewMockGateway()

	restoration, err := gw.RestoreCredits(context.Background(), "anthropic", decimal.NewFromInt(50), "0xabc")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !restoration.Success {
		t.Fatalf("expected success, got error %q", restoration.Error)
	}
	if !restoration.CreditsRestored.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("unexpected credits restored %s", restoration.CreditsRestored)
	}
}

func TestCreditBalanceUnknownProvider(t *testing.T) {
	gw := NewMockGateway()
	if _, err := gw.CreditBalance(context.Background(), "nope"); err == nil {
		t.Fatal("expected error for unknown provider")
	}
}

func TestHealthCheck(t *testing.T) {
	gw := NewMockGateway()
	health, err := gw.HealthCheck(context.Background(), "google")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if health.Status != "healthy" || !health.APIAvailable {
		t.Fatalf("unexpected health %+v", health)
	}
}
