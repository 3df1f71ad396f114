// Package store provides the ledger persistence layer for ingredients and sales.
package store

import (
	"context"
	"strings"

	"bot-marmita/pkg/models"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
)

// LedgerStore は食材と販売の2つのコレクションへのアクセスを抽象化します。
// 実装はSQLite、メモリのどちらでも構いません。
type LedgerStore interface {
	// FindIngredients は名前の部分一致（大文字小文字を区別しない）で食材を検索します。
	// 結果は登録順（IDの昇順）です。
	FindIngredients(ctx context.Context, pattern string) ([]models.Ingredient, error)

	// UpsertIngredientCost は検索と更新/登録を1つの操作として実行します。
	// 最初に一致した食材の原価を更新し、一致がなければ新規登録します。
	// unitが空の場合、新規登録時はDefaultUnitを使い、更新時は単位を変更しません。
	UpsertIngredientCost(ctx context.Context, name string, cost decimal.Decimal, unit string) (models.UpsertOutcome, error)

	// InsertSale は販売記録を1件追加します。
	InsertSale(ctx context.Context, product string, salePrice, productionCost decimal.Decimal) (models.Sale, error)

	ListSales(ctx context.Context) ([]models.Sale, error)
	ListIngredients(ctx context.Context) ([]models.Ingredient, error)

	Close() error
}

// foldName 名前比較用にUnicodeケースフォールディングで正規化します。
// cases.Caserはゴルーチン間で共有できないため呼び出しごとに生成します
func foldName(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}

// matchesName 部分一致判定
func matchesName(name, pattern string) bool {
	return strings.Contains(foldName(name), foldName(pattern))
}
