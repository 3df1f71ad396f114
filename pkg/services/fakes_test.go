package services

import (
	"context"
	"errors"

	"bot-marmita/pkg/models"
	"bot-marmita/pkg/store"

	"github.com/shopspring/decimal"
)

// stubClassifier returns a canned oracle response.
type stubClassifier struct {
	reply string
	err   error
	calls []string
}

func (s *stubClassifier) Classify(ctx context.Context, message string) (string, error) {
	s.calls = append(s.calls, message)
	return s.reply, s.err
}

var errBroken = errors.New("database is locked")

// brokenStore fails every operation.
type brokenStore struct{}

var _ store.LedgerStore = brokenStore{}

func (brokenStore) FindIngredients(ctx context.Context, pattern string) ([]models.Ingredient, error) {
	return nil, errBroken
}

func (brokenStore) UpsertIngredientCost(ctx context.Context, name string, cost decimal.Decimal, unit string) (models.UpsertOutcome, error) {
	return models.UpsertUpdated, errBroken
}

func (brokenStore) InsertSale(ctx context.Context, product string, salePrice, productionCost decimal.Decimal) (models.Sale, error) {
	return models.Sale{}, errBroken
}

func (brokenStore) ListSales(ctx context.Context) ([]models.Sale, error) { return nil, errBroken }

func (brokenStore) ListIngredients(ctx context.Context) ([]models.Ingredient, error) {
	return nil, errBroken
}

func (brokenStore) Close() error { return nil }

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
