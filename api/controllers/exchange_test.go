package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/gptx-exchange/gptx-backend/internal/exchange"
	pkgerrors "github.com/gptx-exchange/gptx-backend/pkg/errors"
	"github.com/gptx-exchange/gptx-backend/pkg/pagination"
)

type stubExchangeService struct {
	orders    []exchange.OrderDTO
	tradeResp *exchange.TradeResult
	tradeErr  error
	history   *exchange.HistoryResult
	stats     *exchange.StatsResult
	err       error

	lastTrade   exchange.TradeInput
	lastAddress string
	lastParams  pagination.Params
}

func (s *stubExchangeService) ListOrders(ctx context.Context) ([]exchange.OrderDTO, error) {
	return s.orders, s.err
}

func (s *stubExchangeService) Trade(ctx context.Context, input exchange.TradeInput) (*exchange.TradeResult, error) {
	s.lastTrade = input
	if s.tradeErr != nil {
		return nil, s.tradeErr
	}
	return s.tradeResp, nil
}

func (s *stubExchangeService) History(ctx context.Context, userAddress string, params pagination.Params) (*exchange.HistoryResult, error) {
	s.lastAddress = userAddress
	s.lastParams = params
	if s.err != nil {
		return nil, s.err
	}
	return s.history, nil
}

func (s *stubExchangeService) Stats(ctx context.Context) (*exchange.StatsResult, error) {
	return s.stats, s.err
}

func TestExchangeOrdersSuccess(t *testing.T) {
	svc := &stubExchangeService{orders: []exchange.OrderDTO{
		{ID: 1, SellerAddress: "0xseller", TokenAmount: decimal.RequireFromString("100"), Status: "active"},
		{ID: 2, SellerAddress: "0xother", TokenAmount: decimal.RequireFromString("250"), Status: "active"},
	}}
	handler := ExchangeOrders(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/exchange/orders", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	var envelope struct {
		Data []exchange.OrderDTO `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(envelope.Data) != 2 || envelope.Data[0].ID != 1 {
		t.Fatalf("unexpected order book: %+v", envelope.Data)
	}
}

func TestExchangeTradeSuccess(t *testing.T) {
	svc := &stubExchangeService{tradeResp: &exchange.TradeResult{
		TransactionHash: "0xtrade",
		Message:         "Successfully traded 10 GPTX tokens",
		TradeDetails: exchange.TradeDetails{
			Buyer:       "0xbuyer",
			Seller:      "0xseller",
			TokenAmount: decimal.RequireFromString("10"),
			TotalPrice:  decimal.RequireFromString("9.5"),
			Timestamp:   time.Now().UTC(),
		},
	}}
	handler := ExchangeTrade(svc, nil)

	payload := []byte(`{"order_id": 1, "token_amount": "10"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/exchange/trade?buyer_address=0xbuyer", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.lastTrade.BuyerAddress != "0xbuyer" || svc.lastTrade.OrderID != 1 {
		t.Fatalf("unexpected trade input: %+v", svc.lastTrade)
	}
	var envelope struct {
		Data exchange.TradeResult `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !envelope.Data.TradeDetails.TotalPrice.Equal(decimal.RequireFromString("9.5")) {
		t.Fatalf("expected total 9.5 got %s", envelope.Data.TradeDetails.TotalPrice)
	}
}

func TestExchangeTradeMissingBuyer(t *testing.T) {
	handler := ExchangeTrade(&stubExchangeService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/exchange/trade", bytes.NewReader([]byte(`{"order_id": 1, "token_amount": "10"}`)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestExchangeTradeUnknownOrder(t *testing.T) {
	svc := &stubExchangeService{tradeErr: pkgerrors.New(pkgerrors.CodeNotFound, "order 99 not found")}
	handler := ExchangeTrade(svc, nil)

	payload := []byte(`{"order_id": 99, "token_amount": "10"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/exchange/trade?buyer_address=0xbuyer", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rec.Code)
	}
}

func TestExchangeHistoryLimit(t *testing.T) {
	svc := &stubExchangeService{history: &exchange.HistoryResult{
		UserAddress: "0xuser",
		TradeCount:  1,
		Trades:      []exchange.TradeDTO{{ID: "t1", Type: "buy", Counterparty: "0xseller"}},
	}}
	handler := ExchangeHistory(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/exchange/history/0xuser?limit=5", nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("userAddress", "0xuser")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if svc.lastAddress != "0xuser" {
		t.Fatalf("expected address from path got %q", svc.lastAddress)
	}
	if svc.lastParams.Limit != 5 {
		t.Fatalf("expected limit 5 got %d", svc.lastParams.Limit)
	}
}

func TestExchangeHistoryLimitOutOfRange(t *testing.T) {
	handler := ExchangeHistory(&stubExchangeService{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/exchange/history/0xuser?limit=10000", nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("userAddress", "0xuser")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestExchangeStatsSuccess(t *testing.T) {
	svc := &stubExchangeService{stats: &exchange.StatsResult{
		TotalTrades: 3,
		TotalVolume: decimal.RequireFromString("30"),
		TotalValue:  decimal.RequireFromString("28.5"),
	}}
	handler := ExchangeStats(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/exchange/stats", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	var envelope struct {
		Data exchange.StatsResult `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.TotalTrades != 3 {
		t.Fatalf("expected 3 trades got %d", envelope.Data.TotalTrades)
	}
}
