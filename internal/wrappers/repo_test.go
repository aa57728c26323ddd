package wrappers

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gptx-exchange/gptx-backend/pkg/db/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupWrappersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS token_wrappers (
  id TEXT PRIMARY KEY,
  user_address TEXT NOT NULL,
  provider TEXT NOT NULL,
  original_credits NUMERIC NOT NULL,
  wrapped_tokens NUMERIC NOT NULL,
  transaction_hash TEXT NOT NULL UNIQUE,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(schema).Error)
	return db
}

func seedWrapper(t *testing.T, repo Repository, userAddress, provider, tokens string, createdAt time.Time) models.TokenWrapper {
	t.Helper()

	row := models.TokenWrapper{
		ID:              uuid.New(),
		UserAddress:     userAddress,
		Provider:        provider,
		OriginalCredits: decimal.RequireFromString(tokens),
		WrappedTokens:   decimal.RequireFromString(tokens),
		TransactionHash: "0x" + uuid.NewString(),
		IsActive:        true,
		CreatedAt:       createdAt,
	}
	require.NoError(t, repo.Create(context.Background(), &row))
	return row
}

func TestRepository_ListActiveOrdering(t *testing.T) {
	db := setupWrappersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	base := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	newer := seedWrapper(t, repo, "0xabc", "openai", "30", base.Add(time.Hour))
	older := seedWrapper(t, repo, "0xabc", "openai", "50", base)
	otherUser := seedWrapper(t, repo, "0xdef", "openai", "99", base)

	rows, err := repo.ListActive(ctx, "0xabc", "")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, older.ID, rows[0].ID, "oldest row must come first")
	assert.Equal(t, newer.ID, rows[1].ID)

	for _, row := range rows {
		assert.NotEqual(t, otherUser.ID, row.ID)
	}
}

func TestRepository_ListActiveProviderScope(t *testing.T) {
	db := setupWrappersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	base := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	seedWrapper(t, repo, "0xabc", "openai", "10", base)
	anthropic := seedWrapper(t, repo, "0xabc", "anthropic", "20", base.Add(time.Minute))

	rows, err := repo.ListActive(ctx, "0xabc", "anthropic")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, anthropic.ID, rows[0].ID)

	all, err := repo.ListActive(ctx, "0xabc", "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestRepository_ApplyConsumptions(t *testing.T) {
	db := setupWrappersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	base := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	drained := seedWrapper(t, repo, "0xabc", "openai", "50", base)
	partial := seedWrapper(t, repo, "0xabc", "openai", "50", base.Add(time.Minute))

	rows, err := repo.ListActive(ctx, "0xabc", "openai")
	require.NoError(t, err)

	consumptions, err := Allocate(rows, decimal.RequireFromString("70"))
	require.NoError(t, err)
	require.NoError(t, repo.ApplyConsumptions(ctx, consumptions))

	remaining, err := repo.ListActive(ctx, "0xabc", "openai")
	require.NoError(t, err)
	require.Len(t, remaining, 1, "drained row must drop out of active listings")
	assert.Equal(t, partial.ID, remaining[0].ID)
	assert.True(t, remaining[0].WrappedTokens.Equal(decimal.RequireFromString("30")))

	// The depleted row keeps its last token count; only is_active flips.
	var raw models.TokenWrapper
	require.NoError(t, db.First(&raw, "id = ?", drained.ID).Error)
	assert.False(t, raw.IsActive)
	assert.True(t, raw.WrappedTokens.Equal(decimal.RequireFromString("50")))
}

func TestRepository_WithTxRollback(t *testing.T) {
	db := setupWrappersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	tx := db.Begin()
	require.NoError(t, tx.Error)
	seedWrapper(t, repo.WithTx(tx), "0xabc", "openai", "10", time.Now())
	require.NoError(t, tx.Rollback().Error)

	rows, err := repo.ListActive(ctx, "0xabc", "")
	require.NoError(t, err)
	assert.Empty(t, rows)
}
