package exchange

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gptx-exchange/gptx-backend/pkg/config"
	"github.com/gptx-exchange/gptx-backend/pkg/db/models"
	"github.com/gptx-exchange/gptx-backend/pkg/enums"
	pkgerrors "github.com/gptx-exchange/gptx-backend/pkg/errors"
	"github.com/gptx-exchange/gptx-backend/pkg/pagination"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const mockSeller = "0x1234567890123456789012345678901234567890"

type fakeTradeRepo struct {
	created []*models.Trade
	trades  []models.Trade
	totals  Totals
}

func (f *fakeTradeRepo) WithTx(tx *gorm.DB) Repository { return f }

func (f *fakeTradeRepo) Create(ctx context.Context, trade *models.Trade) error {
	f.created = append(f.created, trade)
	return nil
}

func (f *fakeTradeRepo) ListByAddress(ctx context.Context, userAddress string, limit int) ([]models.Trade, error) {
	var out []models.Trade
	for _, trade := range f.trades {
		if trade.BuyerAddress == userAddress || trade.SellerAddress == userAddress {
			out = append(out, trade)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeTradeRepo) ListRecent(ctx context.Context, limit int) ([]models.Trade, error) {
	if len(f.trades) > limit {
		return f.trades[:limit], nil
	}
	return f.trades, nil
}

func (f *fakeTradeRepo) Totals(ctx context.Context) (*Totals, error) {
	return &f.totals, nil
}

type fakeTxRunner struct{}

func (fakeTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func newTestService(t *testing.T, repo Repository) Service {
	t.Helper()

	svc, err := NewService(repo, fakeTxRunner{}, config.ExchangeConfig{
		MockSellerAddress: mockSeller,
		MockPricePerToken: "0.95",
	})
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}
	return svc
}

func TestService_ListOrders(t *testing.T) {
	svc := newTestService(t, &fakeTradeRepo{})

	orders, err := svc.ListOrders(context.Background())
	if err != nil {
		t.Fatalf("ListOrders error: %v", err)
	}
	if len(orders) != 2 {
		t.Fatalf("expected two mock orders, got %d", len(orders))
	}
	if orders[0].SellerAddress != mockSeller {
		t.Fatalf("first order seller = %s, want the mock counterparty", orders[0].SellerAddress)
	}
	if !orders[0].PricePerToken.Equal(decimal.RequireFromString("0.95")) {
		t.Fatalf("first order price = %s, want 0.95", orders[0].PricePerToken)
	}
	if !orders[0].TotalPrice.Equal(decimal.RequireFromString("95")) {
		t.Fatalf("first order total = %s, want 95", orders[0].TotalPrice)
	}
	if orders[1].SellerAddress != secondaryOrderSeller {
		t.Fatalf("second order seller = %s, want %s", orders[1].SellerAddress, secondaryOrderSeller)
	}
	if !orders[1].PricePerToken.Equal(decimal.RequireFromString(secondaryOrderPrice)) {
		t.Fatalf("second order price = %s, want %s", orders[1].PricePerToken, secondaryOrderPrice)
	}
	if !orders[1].TotalPrice.Equal(orders[1].TokenAmount.Mul(orders[1].PricePerToken)) {
		t.Fatalf("second order total = %s, want amount*price", orders[1].TotalPrice)
	}
	for _, order := range orders {
		if order.Status != "active" {
			t.Fatalf("order %d status = %s, want active", order.ID, order.Status)
		}
	}
}

func TestService_Trade(t *testing.T) {
	repo := &fakeTradeRepo{}
	svc := newTestService(t, repo)

	result, err := svc.Trade(context.Background(), TradeInput{
		BuyerAddress: "0xbuyer",
		OrderID:      1,
		TokenAmount:  decimal.RequireFromString("10"),
	})
	if err != nil {
		t.Fatalf("Trade error: %v", err)
	}
	if !result.TradeDetails.TotalPrice.Equal(decimal.RequireFromString("9.5")) {
		t.Fatalf("total = %s, want 9.5", result.TradeDetails.TotalPrice)
	}
	if result.TradeDetails.Seller != mockSeller {
		t.Fatalf("seller = %s, want the mock counterparty", result.TradeDetails.Seller)
	}

	if len(repo.created) != 1 {
		t.Fatalf("expected one trade row, got %d", len(repo.created))
	}
	created := repo.created[0]
	if created.Status != enums.TradeStatusCompleted {
		t.Fatalf("status = %s, want completed", created.Status)
	}
	if created.TransactionHash != result.TransactionHash {
		t.Fatal("trade row and response must carry the same transaction hash")
	}
}

func TestService_TradeValidation(t *testing.T) {
	repo := &fakeTradeRepo{}
	svc := newTestService(t, repo)

	tests := []struct {
		name  string
		input TradeInput
	}{
		{name: "missing buyer", input: TradeInput{OrderID: 1, TokenAmount: decimal.RequireFromString("1")}},
		{name: "missing order id", input: TradeInput{BuyerAddress: "0xbuyer", TokenAmount: decimal.RequireFromString("1")}},
		{name: "non-positive amount", input: TradeInput{BuyerAddress: "0xbuyer", OrderID: 1, TokenAmount: decimal.Zero}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Trade(context.Background(), tc.input)
			appErr := pkgerrors.As(err)
			if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
	if len(repo.created) != 0 {
		t.Fatal("no trade row may be created on validation failure")
	}
}

func TestService_HistoryDirections(t *testing.T) {
	now := time.Now()
	repo := &fakeTradeRepo{trades: []models.Trade{
		{
			ID:            uuid.New(),
			BuyerAddress:  "0xabc",
			SellerAddress: mockSeller,
			TokenAmount:   decimal.RequireFromString("10"),
			Status:        enums.TradeStatusCompleted,
			CreatedAt:     now,
		},
		{
			ID:            uuid.New(),
			BuyerAddress:  "0xother",
			SellerAddress: "0xabc",
			TokenAmount:   decimal.RequireFromString("5"),
			Status:        enums.TradeStatusCompleted,
			CreatedAt:     now.Add(-time.Hour),
		},
	}}
	svc := newTestService(t, repo)

	history, err := svc.History(context.Background(), "0xabc", pagination.Params{})
	if err != nil {
		t.Fatalf("History error: %v", err)
	}
	if history.TradeCount != 2 {
		t.Fatalf("trade count = %d, want 2", history.TradeCount)
	}

	buy := history.Trades[0]
	if buy.Type != "buy" || buy.Counterparty != mockSeller {
		t.Fatalf("expected buy against seller, got %+v", buy)
	}
	sell := history.Trades[1]
	if sell.Type != "sell" || sell.Counterparty != "0xother" {
		t.Fatalf("expected sell against buyer, got %+v", sell)
	}
}

func TestService_Stats(t *testing.T) {
	repo := &fakeTradeRepo{
		totals: Totals{
			TradeCount:  3,
			TotalVolume: decimal.RequireFromString("60"),
			TotalValue:  decimal.RequireFromString("57"),
		},
		trades: []models.Trade{
			{ID: uuid.New(), TokenAmount: decimal.RequireFromString("20"), PricePerToken: decimal.RequireFromString("0.95")},
		},
	}
	svc := newTestService(t, repo)

	stats, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats error: %v", err)
	}
	if stats.TotalTrades != 3 {
		t.Fatalf("total trades = %d, want 3", stats.TotalTrades)
	}
	if !stats.TotalVolume.Equal(decimal.RequireFromString("60")) {
		t.Fatalf("total volume = %s, want 60", stats.TotalVolume)
	}
	if len(stats.RecentTrades) != 1 {
		t.Fatalf("expected one recent trade, got %d", len(stats.RecentTrades))
	}
}
