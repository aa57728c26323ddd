package wrappers

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gptx-exchange/gptx-backend/pkg/db/models"
	pkgerrors "github.com/gptx-exchange/gptx-backend/pkg/errors"
	"github.com/shopspring/decimal"
)

func wrapperRow(tokens string, age time.Duration) models.TokenWrapper {
	return models.TokenWrapper{
		ID:            uuid.New(),
		UserAddress:   "0xabc",
		Provider:      "openai",
		WrappedTokens: decimal.RequireFromString(tokens),
		IsActive:      true,
		CreatedAt:     time.Now().Add(-age),
	}
}

func TestAllocate_SingleRowPartial(t *testing.T) {
	row := wrapperRow("100", time.Hour)

	consumptions, err := Allocate([]models.TokenWrapper{row}, decimal.RequireFromString("25"))
	if err != nil {
		t.Fatalf("Allocate error: %v", err)
	}
	if len(consumptions) != 1 {
		t.Fatalf("expected one consumption, got %d", len(consumptions))
	}
	c := consumptions[0]
	if c.WrapperID != row.ID {
		t.Fatalf("consumed wrong wrapper: %s", c.WrapperID)
	}
	if !c.Consumed.Equal(decimal.RequireFromString("25")) {
		t.Fatalf("consumed = %s, want 25", c.Consumed)
	}
	if !c.Remaining.Equal(decimal.RequireFromString("75")) {
		t.Fatalf("remaining = %s, want 75", c.Remaining)
	}
	if c.Depleted {
		t.Fatal("partial consumption must not deplete the row")
	}
}

func TestAllocate_InsufficientBalance(t *testing.T) {
	rows := []models.TokenWrapper{wrapperRow("75", time.Hour)}

	_, err := Allocate(rows, decimal.RequireFromString("100"))
	if err == nil {
		t.Fatal("expected insufficient balance error")
	}
	var appErr *pkgerrors.Error
	if !errors.As(err, &appErr) {
		t.Fatalf("expected typed error, got %v", err)
	}
	if appErr.Code() != pkgerrors.CodeInsufficientBalance {
		t.Fatalf("code = %s, want %s", appErr.Code(), pkgerrors.CodeInsufficientBalance)
	}
	details, ok := appErr.Details().(map[string]string)
	if !ok {
		t.Fatalf("unexpected details type: %T", appErr.Details())
	}
	if details["available"] != "75" || details["requested"] != "100" {
		t.Fatalf("unexpected details: %v", details)
	}
}

func TestAllocate_SpansRowsOldestFirst(t *testing.T) {
	oldest := wrapperRow("50", 2*time.Hour)
	newest := wrapperRow("50", time.Hour)

	consumptions, err := Allocate([]models.TokenWrapper{oldest, newest}, decimal.RequireFromString("70"))
	if err != nil {
		t.Fatalf("Allocate error: %v", err)
	}
	if len(consumptions) != 2 {
		t.Fatalf("expected two consumptions, got %d", len(consumptions))
	}

	first := consumptions[0]
	if first.WrapperID != oldest.ID || !first.Depleted {
		t.Fatalf("oldest row should be fully drained: %+v", first)
	}
	if !first.Consumed.Equal(decimal.RequireFromString("50")) {
		t.Fatalf("first consumed = %s, want 50", first.Consumed)
	}

	second := consumptions[1]
	if second.WrapperID != newest.ID || second.Depleted {
		t.Fatalf("newest row should survive partially drained: %+v", second)
	}
	if !second.Consumed.Equal(decimal.RequireFromString("20")) {
		t.Fatalf("second consumed = %s, want 20", second.Consumed)
	}
	if !second.Remaining.Equal(decimal.RequireFromString("30")) {
		t.Fatalf("second remaining = %s, want 30", second.Remaining)
	}
}

func TestAllocate_ExactDrain(t *testing.T) {
	rows := []models.TokenWrapper{wrapperRow("40", 2 * time.Hour), wrapperRow("60", time.Hour)}

	consumptions, err := Allocate(rows, decimal.RequireFromString("100"))
	if err != nil {
		t.Fatalf("Allocate error: %v", err)
	}
	if len(consumptions) != 2 {
		t.Fatalf("expected two consumptions, got %d", len(consumptions))
	}
	for i, c := range consumptions {
		if !c.Depleted {
			t.Fatalf("consumption %d should be depleted: %+v", i, c)
		}
		if !c.Remaining.IsZero() {
			t.Fatalf("consumption %d remaining = %s, want 0", i, c.Remaining)
		}
	}
}

func TestAllocate_RejectsNonPositiveAmount(t *testing.T) {
	rows := []models.TokenWrapper{wrapperRow("10", time.Hour)}

	for _, amount := range []string{"0", "-5"} {
		if _, err := Allocate(rows, decimal.RequireFromString(amount)); err == nil {
			t.Fatalf("expected validation error for amount %s", amount)
		}
	}
}

func TestBalance(t *testing.T) {
	rows := []models.TokenWrapper{
		wrapperRow("12.5", time.Hour),
		wrapperRow("7.5", time.Hour),
	}
	if got := Balance(rows); !got.Equal(decimal.RequireFromString("20")) {
		t.Fatalf("Balance = %s, want 20", got)
	}
	if got := Balance(nil); !got.IsZero() {
		t.Fatalf("Balance of no rows = %s, want 0", got)
	}
}
