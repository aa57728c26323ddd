package blockchain

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gptx-exchange/gptx-backend/pkg/config"
	"github.com/gptx-exchange/gptx-backend/pkg/logger"
)

const (
	wrapGasUsed   = 150000
	unwrapGasUsed = 120000
	retireGasUsed = 100000

	mockBlockNumber = 12345678
)

// MockIssuer synthesizes transaction receipts without touching a chain.
// Hashes are derived from a random UUID so two calls with identical
// arguments never collide.
type MockIssuer struct {
	cfg  config.BlockchainConfig
	logg *logger.Logger
}

// NewMockIssuer builds the simulated chain client.
func NewMockIssuer(cfg config.BlockchainConfig, logg *logger.Logger) *MockIssuer {
	return &MockIssuer{cfg: cfg, logg: logg}
}

var _ TransactionIssuer = (*MockIssuer)(nil)

func (m *MockIssuer) WrapCredits(ctx context.Context, userAddress, provider string, creditAmount decimal.Decimal, proof string) (*Receipt, error) {
	receipt := m.receipt(ctx, "wrap", userAddress, wrapGasUsed, map[string]any{
		"user_address":  userAddress,
		"provider":      provider,
		"credit_amount": creditAmount.String(),
	})
	return receipt, nil
}

func (m *MockIssuer) UnwrapCredits(ctx context.Context, userAddress, provider string, tokenAmount decimal.Decimal) (*Receipt, error) {
	receipt := m.receipt(ctx, "unwrap", userAddress, unwrapGasUsed, map[string]any{
		"user_address": userAddress,
		"provider":     provider,
		"token_amount": tokenAmount.String(),
	})
	return receipt, nil
}

func (m *MockIssuer) RetireTokens(ctx context.Context, userAddress string, tokenAmount decimal.Decimal, reason string) (*Receipt, error) {
	receipt := m.receipt(ctx, "retire", userAddress, retireGasUsed, map[string]any{
		"user_address":            userAddress,
		"token_amount":            tokenAmount.String(),
		"reason":                  reason,
		"carbon_offset_triggered": true,
	})
	return receipt, nil
}

func (m *MockIssuer) TransactionReceipt(ctx context.Context, txHash string) (*Receipt, error) {
	return &Receipt{
		TransactionHash: txHash,
		Status:          "success",
		GasUsed:         wrapGasUsed,
		BlockNumber:     mockBlockNumber,
		Timestamp:       time.Now().UTC(),
	}, nil
}

func (m *MockIssuer) EstimateGasPrice(ctx context.Context) (*GasEstimate, error) {
	return &GasEstimate{
		Slow:     decimal.NewFromInt(20),
		Standard: decimal.NewFromInt(25),
		Fast:     decimal.NewFromInt(30),
		Unit:     "gwei",
	}, nil
}

func (m *MockIssuer) receipt(ctx context.Context, op, userAddress string, gasUsed int64, details map[string]any) *Receipt {
	hash := TransactionHash(op, userAddress)
	if m.logg != nil {
		ctx = m.logg.WithFields(ctx, map[string]any{
			"operation":        op,
			"transaction_hash": hash,
			"chain_id":         m.cfg.ChainID,
		})
		m.logg.Debug(ctx, "simulated chain transaction")
	}
	return &Receipt{
		TransactionHash: hash,
		Status:          "success",
		GasUsed:         gasUsed,
		BlockNumber:     mockBlockNumber,
		Timestamp:       time.Now().UTC(),
		Details:         details,
	}
}

// TransactionHash produces an ethereum-shaped 20-byte hash seeded by a
// random UUID, so two identical operations never collide.
func TransactionHash(parts ...string) string {
	seed := uuid.NewString()
	for _, p := range parts {
		seed += "|" + p
	}
	sum := sha256.Sum256([]byte(seed))
	return fmt.Sprintf("0x%s", hex.EncodeToString(sum[:20]))
}
