package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"bot-marmita/pkg/models"
	"bot-marmita/pkg/store"

	"github.com/shopspring/decimal"
)

// LedgerService 食材原価と販売記録の台帳操作を提供します
type LedgerService struct {
	store store.LedgerStore
}

// NewLedgerService 新しいLedgerServiceを作成
func NewLedgerService(s store.LedgerStore) *LedgerService {
	return &LedgerService{store: s}
}

// FindIngredient は名前の部分一致で食材を検索します。
// ストアのエラーは呼び出し元に返さず、空の結果として扱います。
func (s *LedgerService) FindIngredient(ctx context.Context, pattern string) []models.Ingredient {
	found, err := s.store.FindIngredients(ctx, pattern)
	if err != nil {
		log.Printf("⚠️ 食材検索に失敗しました（該当なしとして扱います）: %v", err)
		return []models.Ingredient{}
	}
	return found
}

// UpsertIngredientCost 食材の原価を更新、なければ新規登録
func (s *LedgerService) UpsertIngredientCost(ctx context.Context, name string, cost decimal.Decimal) (models.UpsertOutcome, error) {
	return s.UpsertIngredient(ctx, name, cost, "")
}

// UpsertIngredient 単位指定つきの原価更新（一括インポート用）
func (s *LedgerService) UpsertIngredient(ctx context.Context, name string, cost decimal.Decimal, unit string) (models.UpsertOutcome, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.UpsertUpdated, fmt.Errorf("%w: 食材名が空です", ErrInvalidInput)
	}
	if cost.IsNegative() {
		return models.UpsertUpdated, fmt.Errorf("%w: 原価が負の値です: %s", ErrInvalidInput, cost)
	}

	outcome, err := s.store.UpsertIngredientCost(ctx, name, cost, strings.TrimSpace(unit))
	if err != nil {
		return outcome, fmt.Errorf("%w: %v", ErrStore, err)
	}
	log.Printf("🥦 食材 %q の原価を %s に設定しました (%s)", name, cost, outcome)
	return outcome, nil
}

// RecordSale 販売を1件記録し、利益を計算した確認内容を返します
func (s *LedgerService) RecordSale(ctx context.Context, product string, salePrice, productionCost decimal.Decimal) (*models.SaleConfirmation, error) {
	product = strings.TrimSpace(product)
	if product == "" {
		return nil, fmt.Errorf("%w: 商品名が空です", ErrInvalidInput)
	}

	sale, err := s.store.InsertSale(ctx, product, salePrice, productionCost)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStore, err)
	}
	log.Printf("💰 販売を記録しました: id=%d product=%q", sale.ID, sale.Product)

	return &models.SaleConfirmation{
		Product:        sale.Product,
		SalePrice:      sale.SalePrice,
		ProductionCost: sale.ProductionCost,
		Profit:         sale.Profit(),
	}, nil
}

// FetchAllSales 全販売記録を取得（ページングなし）
func (s *LedgerService) FetchAllSales(ctx context.Context) ([]models.Sale, error) {
	sales, err := s.store.ListSales(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStore, err)
	}
	return sales, nil
}

// FetchAllIngredients 全食材を取得（ページングなし）
func (s *LedgerService) FetchAllIngredients(ctx context.Context) ([]models.Ingredient, error) {
	ingredients, err := s.store.ListIngredients(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStore, err)
	}
	return ingredients, nil
}
