package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/gptx-exchange/gptx-backend/api/responses"
	"github.com/gptx-exchange/gptx-backend/api/validators"
	"github.com/gptx-exchange/gptx-backend/internal/exchange"
	pkgerrors "github.com/gptx-exchange/gptx-backend/pkg/errors"
	"github.com/gptx-exchange/gptx-backend/pkg/logger"
	"github.com/gptx-exchange/gptx-backend/pkg/pagination"
)

type tradePayload struct {
	OrderID     int             `json:"order_id" validate:"required"`
	TokenAmount decimal.Decimal `json:"token_amount"`
}

// ExchangeOrders returns the active sell orders.
func ExchangeOrders(svc exchange.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "exchange service unavailable"))
			return
		}

		orders, err := svc.ListOrders(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, orders)
	}
}

// ExchangeTrade executes a buy against the mock order book.
func ExchangeTrade(svc exchange.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "exchange service unavailable"))
			return
		}

		buyerAddress, err := validators.UserAddress(r, "buyer_address")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload tradePayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		result, err := svc.Trade(ctx, exchange.TradeInput{
			BuyerAddress: buyerAddress,
			OrderID:      payload.OrderID,
			TokenAmount:  payload.TokenAmount,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// ExchangeHistory returns the user's trades, newest first.
func ExchangeHistory(svc exchange.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "exchange service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", 0, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		history, err := svc.History(ctx, chi.URLParam(r, "userAddress"), pagination.Params{Limit: limit})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, history)
	}
}

// ExchangeStats returns exchange-wide volume and recent trades.
func ExchangeStats(svc exchange.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "exchange service unavailable"))
			return
		}

		stats, err := svc.Stats(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, stats)
	}
}
