package wrappers

import (
	"github.com/google/uuid"
	"github.com/gptx-exchange/gptx-backend/pkg/db/models"
	pkgerrors "github.com/gptx-exchange/gptx-backend/pkg/errors"
	"github.com/shopspring/decimal"
)

// Consumption records how much of a single wrapper row an allocation drained.
type Consumption struct {
	WrapperID uuid.UUID
	Provider  string
	Consumed  decimal.Decimal
	Remaining decimal.Decimal
	Depleted  bool
}

// Balance sums the wrapped token balance across active wrapper rows.
func Balance(rows []models.TokenWrapper) decimal.Decimal {
	total := decimal.Zero
	for _, row := range rows {
		total = total.Add(row.WrappedTokens)
	}
	return total
}

// Allocate walks the rows oldest-first and drains them until amount is
// covered. Rows must already be sorted created_at ASC, id ASC; Allocate does
// not reorder them. If the rows cannot cover amount, the insufficient-balance
// error is returned and no consumptions are produced, so callers can check
// the precondition and mutate in one step.
func Allocate(rows []models.TokenWrapper, amount decimal.Decimal) ([]Consumption, error) {
	if !amount.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "allocation amount must be positive")
	}

	available := Balance(rows)
	if available.LessThan(amount) {
		return nil, pkgerrors.InsufficientBalance(available.String(), amount.String())
	}

	var consumptions []Consumption
	remaining := amount
	for _, row := range rows {
		if !remaining.IsPositive() {
			break
		}
		if row.WrappedTokens.LessThanOrEqual(remaining) {
			consumptions = append(consumptions, Consumption{
				WrapperID: row.ID,
				Provider:  row.Provider,
				Consumed:  row.WrappedTokens,
				Remaining: decimal.Zero,
				Depleted:  true,
			})
			remaining = remaining.Sub(row.WrappedTokens)
			continue
		}
		consumptions = append(consumptions, Consumption{
			WrapperID: row.ID,
			Provider:  row.Provider,
			Consumed:  remaining,
			Remaining: row.WrappedTokens.Sub(remaining),
		})
		remaining = decimal.Zero
	}
	return consumptions, nil
}
