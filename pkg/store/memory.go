package store

import (
	"context"
	"sync"
	"time"

	"bot-marmita/pkg/models"

	"github.com/shopspring/decimal"
)

// Compile-time interface check.
var _ LedgerStore = (*MemoryStore)(nil)

// MemoryStore is an in-memory ledger. Safe for concurrent access.
type MemoryStore struct {
	mu          sync.RWMutex
	ingredients []models.Ingredient
	sales       []models.Sale
	nextID      int64
	now         func() time.Time
}

// NewMemoryStore creates an empty in-memory ledger.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{now: time.Now}
}

func (s *MemoryStore) id() int64 {
	s.nextID++
	return s.nextID
}

// FindIngredients returns ingredients whose name contains pattern, in insertion order.
func (s *MemoryStore) FindIngredients(ctx context.Context, pattern string) ([]models.Ingredient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Ingredient, 0)
	for _, ing := range s.ingredients {
		if matchesName(ing.Name, pattern) {
			out = append(out, ing)
		}
	}
	return out, nil
}

// UpsertIngredientCost updates the first match or inserts a new ingredient.
func (s *MemoryStore) UpsertIngredientCost(ctx context.Context, name string, cost decimal.Decimal, unit string) (models.UpsertOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.ingredients {
		if matchesName(s.ingredients[i].Name, name) {
			s.ingredients[i].UnitCost = cost
			if unit != "" {
				s.ingredients[i].Unit = unit
			}
			return models.UpsertUpdated, nil
		}
	}

	if unit == "" {
		unit = models.DefaultUnit
	}
	s.ingredients = append(s.ingredients, models.Ingredient{
		ID:        s.id(),
		Name:      name,
		UnitCost:  cost,
		Unit:      unit,
		CreatedAt: s.now().UTC(),
	})
	return models.UpsertCreated, nil
}

// InsertSale appends a sale.
func (s *MemoryStore) InsertSale(ctx context.Context, product string, salePrice, productionCost decimal.Decimal) (models.Sale, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sale := models.Sale{
		ID:             s.id(),
		Product:        product,
		SalePrice:      salePrice,
		ProductionCost: productionCost,
		CreatedAt:      s.now().UTC(),
	}
	s.sales = append(s.sales, sale)
	return sale, nil
}

// ListSales returns a copy of every sale.
func (s *MemoryStore) ListSales(ctx context.Context) ([]models.Sale, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Sale, len(s.sales))
	copy(out, s.sales)
	return out, nil
}

// ListIngredients returns a copy of every ingredient.
func (s *MemoryStore) ListIngredients(ctx context.Context) ([]models.Ingredient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Ingredient, len(s.ingredients))
	copy(out, s.ingredients)
	return out, nil
}

// Close is a no-op.
func (s *MemoryStore) Close() error { return nil }
