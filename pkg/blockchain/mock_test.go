package blockchain

import (
	"context"
	"regexp"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/gptx-exchange/gptx-backend/pkg/config"
)

var txHashRe = regexp.MustCompile(`^0x[0-9a-f]{40}$`)

func TestTransactionHashShape(t *testing.T) {
	hash := TransactionHash("wrap", "0xabc")
	if !txHashRe.MatchString(hash) {
		t.Fatalf("unexpected hash shape %q", hash)
	}
}

func TestTransactionHashUnique(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		hash := TransactionHash("wrap", "0xabc")
		if seen[hash] {
			t.Fatalf("duplicate hash %q", hash)
		}
		seen[hash] = true
	}
}

func TestWrapCreditsReceipt(t *testing.T) {
	issuer := NewMockIssuer(config.BlockchainConfig{ChainID: 1337}, nil)

	receipt, err := issuer.WrapCredits(context.Background(), "0xabc", "openai", decimal.NewFromInt(100), "proof-of-credits")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if receipt.Status != "success" {
		t.Fatalf("unexpected status %q", receipt.Status)
	}
	if !txHashRe.MatchString(receipt.TransactionHash) {
		t.Fatalf("unexpected hash %q", receipt.TransactionHash)
	}
	if receipt.Details["credit_amount"] != "100" {
		t.Fatalf("unexpected details %v", receipt.Details)
	}
}

func TestEstimateGasPrice(t *testing.T) {
	issuer := NewMockIssuer(config.BlockchainConfig{}, nil)
	estimate, err := issuer.EstimateGasPrice(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if estimate.Unit != "gwei" {
		t.Fatalf("unexpected unit %q", estimate.Unit)
	}
	if !estimate.Fast.GreaterThan(estimate.Slow) {
		t.Fatalf("expected fast > slow, got %s vs %s", estimate.Fast, estimate.Slow)
	}
}
