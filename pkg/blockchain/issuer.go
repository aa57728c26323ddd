package blockchain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Receipt is the result of an issued chain transaction.
type Receipt struct {
	TransactionHash string         `json:"transaction_hash"`
	Status          string         `json:"status"`
	GasUsed         int64          `json:"gas_used"`
	BlockNumber     int64          `json:"block_number"`
	Timestamp       time.Time      `json:"timestamp"`
	Details         map[string]any `json:"details"`
}

// GasEstimate reports gas prices for different confirmation speeds.
type GasEstimate struct {
	Slow     decimal.Decimal `json:"slow"`
	Standard decimal.Decimal `json:"standard"`
	Fast     decimal.Decimal `json:"fast"`
	Unit     string          `json:"unit"`
}

// TransactionIssuer is the chain-side collaborator for wrap, unwrap and
// retire operations. The service treats the returned receipt as opaque; a
// real contract client can satisfy this interface later.
type TransactionIssuer interface {
	WrapCredits(ctx context.Context, userAddress, provider string, creditAmount decimal.Decimal, proof string) (*Receipt, error)
	UnwrapCredits(ctx context.Context, userAddress, provider string, tokenAmount decimal.Decimal) (*Receipt, error)
	RetireTokens(ctx context.Context, userAddress string, tokenAmount decimal.Decimal, reason string) (*Receipt, error)
	TransactionReceipt(ctx context.Context, txHash string) (*Receipt, error)
	EstimateGasPrice(ctx context.Context) (*GasEstimate, error)
}
