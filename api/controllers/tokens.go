package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/gptx-exchange/gptx-backend/api/responses"
	"github.com/gptx-exchange/gptx-backend/api/validators"
	"github.com/gptx-exchange/gptx-backend/internal/tokens"
	pkgerrors "github.com/gptx-exchange/gptx-backend/pkg/errors"
	"github.com/gptx-exchange/gptx-backend/pkg/logger"
)

type wrapPayload struct {
	Provider     string          `json:"provider" validate:"required"`
	CreditAmount decimal.Decimal `json:"credit_amount"`
	Proof        string          `json:"proof" validate:"required"`
}

type unwrapPayload struct {
	Provider    string          `json:"provider" validate:"required"`
	TokenAmount decimal.Decimal `json:"token_amount"`
}

// TokenProviders lists the AI providers whose credits can be wrapped.
func TokenProviders(svc tokens.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "token service unavailable"))
			return
		}

		providers, err := svc.ListProviders(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, providers)
	}
}

// TokenProviderHealth reports the (simulated) API health of one provider.
func TokenProviderHealth(svc tokens.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "token service unavailable"))
			return
		}

		health, err := svc.ProviderHealth(ctx, chi.URLParam(r, "name"))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, health)
	}
}

// TokenProviderBalance returns the platform's remaining credit balance at one provider.
func TokenProviderBalance(svc tokens.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "token service unavailable"))
			return
		}

		balance, err := svc.ProviderBalance(ctx, chi.URLParam(r, "name"))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, balance)
	}
}

// TokenWrap mints GPTX tokens from verified provider credits.
func TokenWrap(svc tokens.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "token service unavailable"))
			return
		}

		userAddress, err := validators.UserAddress(r, "user_address")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload wrapPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		result, err := svc.Wrap(ctx, tokens.WrapInput{
			UserAddress:  userAddress,
			Provider:     payload.Provider,
			CreditAmount: payload.CreditAmount,
			Proof:        payload.Proof,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// TokenBalance returns the caller's GPTX balance with its wrapper breakdown.
func TokenBalance(svc tokens.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "token service unavailable"))
			return
		}

		balance, err := svc.Balance(ctx, chi.URLParam(r, "userAddress"))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, balance)
	}
}

// TokenTransaction looks up the receipt of a previously issued chain transaction.
func TokenTransaction(svc tokens.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "token service unavailable"))
			return
		}

		receipt, err := svc.Transaction(ctx, chi.URLParam(r, "txHash"))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, receipt)
	}
}

// TokenGasPrice reports current gas price estimates for token operations.
func TokenGasPrice(svc tokens.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "token service unavailable"))
			return
		}

		estimate, err := svc.GasPrice(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, estimate)
	}
}

// TokenUnwrap burns GPTX tokens back into provider credits.
func TokenUnwrap(svc tokens.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "token service unavailable"))
			return
		}

		userAddress, err := validators.UserAddress(r, "user_address")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload unwrapPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		result, err := svc.Unwrap(ctx, tokens.UnwrapInput{
			UserAddress: userAddress,
			Provider:    payload.Provider,
			TokenAmount: payload.TokenAmount,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
