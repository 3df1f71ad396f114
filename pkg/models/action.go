package models

import "github.com/shopspring/decimal"

// ActionType 分類器の出力タグ
type ActionType string

const (
	ActionUpdateCost   ActionType = "ATUALIZAR_CUSTO"
	ActionRegisterSale ActionType = "REGISTRAR_VENDA"
	ActionReport       ActionType = "RELATORIO"
	ActionUnrecognized ActionType = "NAO_ENTENDI"
)

// String returns a snake_case name used in logs and monitoring.
func (a ActionType) String() string {
	switch a {
	case ActionUpdateCost:
		return "update_cost"
	case ActionRegisterSale:
		return "register_sale"
	case ActionReport:
		return "report"
	default:
		return "unrecognized"
	}
}

// ParsedAction 分類器の応答をデコードした結果。永続化はしない
type ParsedAction struct {
	Type    ActionType
	Item    string          // ATUALIZAR_CUSTO
	Product string          // REGISTRAR_VENDA
	Value   decimal.Decimal // 原価 or 販売価格
	Cost    decimal.Decimal // REGISTRAR_VENDA の製造原価
}

// UpdateCost builds an update-cost action.
func UpdateCost(item string, value decimal.Decimal) ParsedAction {
	return ParsedAction{Type: ActionUpdateCost, Item: item, Value: value}
}

// RegisterSale builds a register-sale action.
func RegisterSale(product string, value, cost decimal.Decimal) ParsedAction {
	return ParsedAction{Type: ActionRegisterSale, Product: product, Value: value, Cost: cost}
}

// Report builds a report action.
func Report() ParsedAction {
	return ParsedAction{Type: ActionReport}
}

// Unrecognized builds the fallback action.
func Unrecognized() ParsedAction {
	return ParsedAction{Type: ActionUnrecognized}
}
