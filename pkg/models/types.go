package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultUnit 新規登録された食材の単位
const DefaultUnit = "un"

// InboundMessage represents an incoming chat event from the messaging gateway
type InboundMessage struct {
	Event      string `json:"event,omitempty"` // WPPConnectのwebhookイベント名（例: "onmessage"）
	Session    string `json:"session,omitempty"`
	ID         string `json:"id,omitempty"`
	From       string `json:"from"` // 送信者ID
	IsGroupMsg bool   `json:"isGroupMsg"`
	Type       string `json:"type"` // "chat" のみ処理対象
	Body       string `json:"body"`
}

// Ingredient 食材マスタの1レコード
type Ingredient struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
	Unit      string          `json:"unit"`
	CreatedAt time.Time       `json:"created_at"`
}

// Sale 販売記録（追記のみ）
type Sale struct {
	ID             int64           `json:"id"`
	Product        string          `json:"product"`
	SalePrice      decimal.Decimal `json:"sale_price"`
	ProductionCost decimal.Decimal `json:"production_cost"`
	CreatedAt      time.Time       `json:"created_at"`
}

// Profit 販売価格 - 製造原価。保存はせず読み出し時に計算する
func (s Sale) Profit() decimal.Decimal {
	return s.SalePrice.Sub(s.ProductionCost)
}

// SaleView is a sale enriched with its computed profit for API responses
type SaleView struct {
	Sale
	Profit decimal.Decimal `json:"profit"`
}

// SaleConfirmation 販売登録成功時の確認内容
type SaleConfirmation struct {
	Product        string          `json:"product"`
	SalePrice      decimal.Decimal `json:"sale_price"`
	ProductionCost decimal.Decimal `json:"production_cost"`
	Profit         decimal.Decimal `json:"profit"`
}

// UpsertOutcome 原価更新の結果
type UpsertOutcome int

const (
	UpsertUpdated UpsertOutcome = iota
	UpsertCreated
)

// String returns a human-readable outcome.
func (o UpsertOutcome) String() string {
	switch o {
	case UpsertUpdated:
		return "updated"
	case UpsertCreated:
		return "created"
	default:
		return "unknown"
	}
}

// FinancialReport 売上レポートの集計値
type FinancialReport struct {
	Revenue         decimal.Decimal `json:"revenue"`       // 売上合計（fat）
	Cost            decimal.Decimal `json:"cost"`          // 原価合計（cust）
	Profit          decimal.Decimal `json:"profit"`        // 利益
	Margin          decimal.Decimal `json:"margin"`        // 利益率（%、小数1桁）
	HasRevenue      bool            `json:"has_revenue"`   // 売上が0より大きいか
	SaleCount       int             `json:"sale_count"`    // 販売件数
	IngredientCount int             `json:"ingredient_count"`
	GeneratedAt     time.Time       `json:"generated_at"`
}
