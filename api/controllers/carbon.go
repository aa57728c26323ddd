package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/gptx-exchange/gptx-backend/api/responses"
	"github.com/gptx-exchange/gptx-backend/api/validators"
	"github.com/gptx-exchange/gptx-backend/internal/carbon"
	pkgerrors "github.com/gptx-exchange/gptx-backend/pkg/errors"
	"github.com/gptx-exchange/gptx-backend/pkg/logger"
	"github.com/gptx-exchange/gptx-backend/pkg/pagination"
)

type retirePayload struct {
	TokenAmount decimal.Decimal `json:"token_amount"`
	Reason      string          `json:"reason" validate:"max=500"`
}

// CarbonRetire burns tokens and records a carbon offset certificate.
func CarbonRetire(svc carbon.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "carbon service unavailable"))
			return
		}

		userAddress, err := validators.UserAddress(r, "user_address")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload retirePayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		result, err := svc.Retire(ctx, carbon.RetireInput{
			UserAddress: userAddress,
			TokenAmount: payload.TokenAmount,
			Reason:      payload.Reason,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// CarbonHistory returns the user's retirement records, newest first.
func CarbonHistory(svc carbon.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "carbon service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", 0, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		offsets, err := svc.History(ctx, chi.URLParam(r, "userAddress"), pagination.Params{Limit: limit})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, offsets)
	}
}

// CarbonStats returns platform-wide retirement totals and impact figures.
func CarbonStats(svc carbon.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "carbon service unavailable"))
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

// CarbonCertificate looks up a single retirement certificate by its public ID.
func CarbonCertificate(svc carbon.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "carbon service unavailable"))
			return
		}

		cert, err := svc.Certificate(ctx, chi.URLParam(r, "certificateId"))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, cert)
	}
}
