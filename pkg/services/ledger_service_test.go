package services

import (
	"context"
	"errors"
	"testing"

	"bot-marmita/pkg/models"
	"bot-marmita/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedgerService_FindIngredientSwallowsStoreErrors(t *testing.T) {
	ledger := NewLedgerService(brokenStore{})
	found := ledger.FindIngredient(context.Background(), "arroz")
	assert.NotNil(t, found)
	assert.Empty(t, found)
}

func TestLedgerService_UpsertIngredientValidation(t *testing.T) {
	ledger := NewLedgerService(store.NewMemoryStore())
	ctx := context.Background()

	_, err := ledger.UpsertIngredientCost(ctx, "   ", dec("5"))
	assert.True(t, errors.Is(err, ErrInvalidInput))

	_, err = ledger.UpsertIngredientCost(ctx, "arroz", dec("-1"))
	assert.True(t, errors.Is(err, ErrInvalidInput))

	outcome, err := ledger.UpsertIngredient(ctx, " arroz ", dec("5"), "kg")
	require.NoError(t, err)
	assert.Equal(t, models.UpsertCreated, outcome)

	found := ledger.FindIngredient(ctx, "ARROZ")
	require.Len(t, found, 1)
	assert.Equal(t, "arroz", found[0].Name)
	assert.Equal(t, "kg", found[0].Unit)
}

func TestLedgerService_UpsertWrapsStoreErrors(t *testing.T) {
	ledger := NewLedgerService(brokenStore{})
	_, err := ledger.UpsertIngredientCost(context.Background(), "arroz", dec("5"))
	assert.True(t, errors.Is(err, ErrStore))
	assert.Contains(t, err.Error(), errBroken.Error())
}

func TestLedgerService_RecordSale(t *testing.T) {
	ledger := NewLedgerService(store.NewMemoryStore())
	ctx := context.Background()

	confirmation, err := ledger.RecordSale(ctx, "marmita", dec("25"), dec("30"))
	require.NoError(t, err)
	assert.Equal(t, "-5", confirmation.Profit.String())

	_, err = ledger.RecordSale(ctx, "", dec("25"), dec("30"))
	assert.True(t, errors.Is(err, ErrInvalidInput))

	sales, err := ledger.FetchAllSales(ctx)
	require.NoError(t, err)
	assert.Len(t, sales, 1)
}
