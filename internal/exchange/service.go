package exchange

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gptx-exchange/gptx-backend/pkg/blockchain"
	"github.com/gptx-exchange/gptx-backend/pkg/config"
	"github.com/gptx-exchange/gptx-backend/pkg/db"
	"github.com/gptx-exchange/gptx-backend/pkg/db/models"
	"github.com/gptx-exchange/gptx-backend/pkg/enums"
	pkgerrors "github.com/gptx-exchange/gptx-backend/pkg/errors"
	"github.com/gptx-exchange/gptx-backend/pkg/pagination"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const recentTradesLimit = 10

// The secondary listing pads the mock order book out; only the first order,
// driven by ExchangeConfig, settles trades.
const (
	primaryOrderAmount   = "100"
	secondaryOrderSeller = "0x2345678901234567890123456789012345678901"
	secondaryOrderAmount = "250"
	secondaryOrderPrice  = "0.98"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes the mock order book and trade recording.
type Service interface {
	ListOrders(ctx context.Context) ([]OrderDTO, error)
	Trade(ctx context.Context, input TradeInput) (*TradeResult, error)
	History(ctx context.Context, userAddress string, params pagination.Params) (*HistoryResult, error)
	Stats(ctx context.Context) (*StatsResult, error)
}

type service struct {
	repo Repository
	tx   txRunner
	cfg  config.ExchangeConfig
}

// NewService builds an exchange service backed by the provided stack.
func NewService(repo Repository, tx txRunner, cfg config.ExchangeConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("trade repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("exchange config: %w", err)
	}
	return &service{repo: repo, tx: tx, cfg: cfg}, nil
}

// OrderDTO is one entry in the mock order book.
type OrderDTO struct {
	ID            int             `json:"id"`
	SellerAddress string          `json:"seller_address"`
	TokenAmount   decimal.Decimal `json:"token_amount"`
	PricePerToken decimal.Decimal `json:"price_per_token"`
	TotalPrice    decimal.Decimal `json:"total_price"`
	CreatedAt     time.Time       `json:"created_at"`
	Status        string          `json:"status"`
}

// TradeInput captures a request to buy from the mock order book.
type TradeInput struct {
	BuyerAddress string
	OrderID      int
	TokenAmount  decimal.Decimal
}

// TradeDetails is the breakdown attached to a trade response.
type TradeDetails struct {
	Buyer         string          `json:"buyer"`
	Seller        string          `json:"seller"`
	TokenAmount   decimal.Decimal `json:"token_amount"`
	PricePerToken decimal.Decimal `json:"price_per_token"`
	TotalPrice    decimal.Decimal `json:"total_price"`
	Timestamp     time.Time       `json:"timestamp"`
}

// TradeResult reports a recorded trade.
type TradeResult struct {
	TransactionHash string       `json:"transaction_hash"`
	Message         string       `json:"message"`
	TradeDetails    TradeDetails `json:"trade_details"`
}

// TradeDTO is one trade from the caller's perspective.
type TradeDTO struct {
	ID              string            `json:"id"`
	Type            string            `json:"type"`
	Counterparty    string            `json:"counterparty"`
	TokenAmount     decimal.Decimal   `json:"token_amount"`
	PricePerToken   decimal.Decimal   `json:"price_per_token"`
	TotalPrice      decimal.Decimal   `json:"total_price"`
	TransactionHash string            `json:"transaction_hash"`
	CreatedAt       time.Time         `json:"created_at"`
	Status          enums.TradeStatus `json:"status"`
}

// HistoryResult is a user's trade history, newest first.
type HistoryResult struct {
	UserAddress string     `json:"user_address"`
	TradeCount  int        `json:"trade_count"`
	Trades      []TradeDTO `json:"trades"`
}

// RecentTradeDTO is the trimmed trade shape used in exchange statistics.
type RecentTradeDTO struct {
	TokenAmount   decimal.Decimal `json:"token_amount"`
	PricePerToken decimal.Decimal `json:"price_per_token"`
	CreatedAt     time.Time       `json:"created_at"`
}

// StatsResult aggregates exchange-wide trading activity.
type StatsResult struct {
	TotalTrades  int64            `json:"total_trades"`
	TotalVolume  decimal.Decimal  `json:"total_volume"`
	TotalValue   decimal.Decimal  `json:"total_value"`
	RecentTrades []RecentTradeDTO `json:"recent_trades"`
}

// ListOrders returns the static mock order book. There is no real matching
// engine behind it; the first order is the counterparty every trade settles
// against.
func (s *service) ListOrders(ctx context.Context) ([]OrderDTO, error) {
	price := s.cfg.MockPriceDecimal()
	now := time.Now().UTC()

	primaryAmount := decimal.RequireFromString(primaryOrderAmount)
	secondaryAmount := decimal.RequireFromString(secondaryOrderAmount)
	secondaryPrice := decimal.RequireFromString(secondaryOrderPrice)

	return []OrderDTO{
		{
			ID:            1,
			SellerAddress: s.cfg.MockSellerAddress,
			TokenAmount:   primaryAmount,
			PricePerToken: price,
			TotalPrice:    primaryAmount.Mul(price),
			CreatedAt:     now,
			Status:        "active",
		},
		{
			ID:            2,
			SellerAddress: secondaryOrderSeller,
			TokenAmount:   secondaryAmount,
			PricePerToken: secondaryPrice,
			TotalPrice:    secondaryAmount.Mul(secondaryPrice),
			CreatedAt:     now,
			Status:        "active",
		},
	}, nil
}

// Trade records a completed trade against the mock counterparty. No wrapper
// balance moves here: the order book is simulated end to end, so recording
// the trade row is the whole settlement.
func (s *service) Trade(ctx context.Context, input TradeInput) (*TradeResult, error) {
	if strings.TrimSpace(input.BuyerAddress) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "buyer address is required")
	}
	if input.OrderID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	if !input.TokenAmount.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "token amount must be greater than 0")
	}

	price := s.cfg.MockPriceDecimal()
	totalPrice := input.TokenAmount.Mul(price)
	txHash := blockchain.TransactionHash(input.BuyerAddress, s.cfg.MockSellerAddress, input.TokenAmount.String())

	trade := models.Trade{
		SellerAddress:   s.cfg.MockSellerAddress,
		BuyerAddress:    input.BuyerAddress,
		TokenAmount:     input.TokenAmount,
		PricePerToken:   price,
		TotalPrice:      totalPrice,
		TransactionHash: txHash,
		Status:          enums.TradeStatusCompleted,
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Create(ctx, &trade); err != nil {
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "duplicate trade transaction")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist trade")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &TradeResult{
		TransactionHash: txHash,
		Message:         fmt.Sprintf("Successfully traded %s GPTX tokens", input.TokenAmount),
		TradeDetails: TradeDetails{
			Buyer:         input.BuyerAddress,
			Seller:        s.cfg.MockSellerAddress,
			TokenAmount:   input.TokenAmount,
			PricePerToken: price,
			TotalPrice:    totalPrice,
			Timestamp:     trade.CreatedAt,
		},
	}, nil
}

func (s *service) History(ctx context.Context, userAddress string, params pagination.Params) (*HistoryResult, error) {
	if strings.TrimSpace(userAddress) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user address is required")
	}

	trades, err := s.repo.ListByAddress(ctx, userAddress, pagination.NormalizeLimit(params.Limit))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list trades")
	}

	dtos := make([]TradeDTO, 0, len(trades))
	for _, trade := range trades {
		dto := TradeDTO{
			ID:              trade.ID.String(),
			Type:            "sell",
			Counterparty:    trade.BuyerAddress,
			TokenAmount:     trade.TokenAmount,
			PricePerToken:   trade.PricePerToken,
			TotalPrice:      trade.TotalPrice,
			TransactionHash: trade.TransactionHash,
			CreatedAt:       trade.CreatedAt,
			Status:          trade.Status,
		}
		if trade.BuyerAddress == userAddress {
			dto.Type = "buy"
			dto.Counterparty = trade.SellerAddress
		}
		dtos = append(dtos, dto)
	}

	return &HistoryResult{
		UserAddress: userAddress,
		TradeCount:  len(dtos),
		Trades:      dtos,
	}, nil
}

func (s *service) Stats(ctx context.Context) (*StatsResult, error) {
	totals, err := s.repo.Totals(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "aggregate trades")
	}

	recent, err := s.repo.ListRecent(ctx, recentTradesLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list recent trades")
	}

	recentDTOs := make([]RecentTradeDTO, 0, len(recent))
	for _, trade := range recent {
		recentDTOs = append(recentDTOs, RecentTradeDTO{
			TokenAmount:   trade.TokenAmount,
			PricePerToken: trade.PricePerToken,
			CreatedAt:     trade.CreatedAt,
		})
	}

	return &StatsResult{
		TotalTrades:  totals.TradeCount,
		TotalVolume:  totals.TotalVolume,
		TotalValue:   totals.TotalValue,
		RecentTrades: recentDTOs,
	}, nil
}
