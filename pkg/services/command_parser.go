package services

import (
	"fmt"
	"strings"

	"bot-marmita/pkg/models"

	"github.com/shopspring/decimal"
)

// CommandParser は分類器の応答テキストを型付きアクションにデコードします。
//
// 文法: ACAO:<TAG>[|KEY:value]...
// 先頭セグメントのタグを完全一致で判定し、残りはキー指定で取り出します。
// 不正な応答はすべてUnrecognizedに落とします。
type CommandParser struct{}

// NewCommandParser 新しいCommandParserを作成
func NewCommandParser() *CommandParser {
	return &CommandParser{}
}

// Parse decodes raw classifier output. On any fault it returns an
// Unrecognized action together with an error wrapping ErrParse.
func (p *CommandParser) Parse(raw string) (models.ParsedAction, error) {
	text := normalizeResponse(raw)
	if text == "" {
		return models.Unrecognized(), fmt.Errorf("%w: 空の応答", ErrParse)
	}

	segments := strings.Split(text, "|")
	key, tag, ok := splitField(segments[0])
	if !ok || key != "ACAO" {
		return models.Unrecognized(), fmt.Errorf("%w: 先頭にACAOタグがありません: %q", ErrParse, text)
	}

	fields := make(map[string]string, len(segments)-1)
	for _, seg := range segments[1:] {
		// 末尾や連続したパイプは無視する
		if strings.TrimSpace(seg) == "" {
			continue
		}
		k, v, ok := splitField(seg)
		if !ok {
			return models.Unrecognized(), fmt.Errorf("%w: 不正なセグメント %q", ErrParse, seg)
		}
		fields[k] = v
	}

	switch models.ActionType(tag) {
	case models.ActionUpdateCost:
		item, err := requireText(fields, "ITEM")
		if err != nil {
			return models.Unrecognized(), err
		}
		value, err := requireAmount(fields, "VALOR")
		if err != nil {
			return models.Unrecognized(), err
		}
		return models.UpdateCost(item, value), nil

	case models.ActionRegisterSale:
		product, err := requireText(fields, "PRODUTO")
		if err != nil {
			return models.Unrecognized(), err
		}
		value, err := requireAmount(fields, "VALOR")
		if err != nil {
			return models.Unrecognized(), err
		}
		cost, err := requireAmount(fields, "CUSTO")
		if err != nil {
			return models.Unrecognized(), err
		}
		return models.RegisterSale(product, value, cost), nil

	case models.ActionReport:
		return models.Report(), nil

	case models.ActionUnrecognized:
		return models.Unrecognized(), nil

	default:
		return models.Unrecognized(), fmt.Errorf("%w: 未知のタグ %q", ErrParse, tag)
	}
}

// normalizeResponse はコードフェンスや引用符を除き、最初の空でない行を返します
func normalizeResponse(raw string) string {
	for _, line := range strings.Split(raw, "\n") {
		line = strings.Trim(strings.TrimSpace(line), "`\"'")
		line = strings.TrimSpace(line)
		if line == "" || strings.EqualFold(line, "plaintext") || strings.EqualFold(line, "text") {
			continue
		}
		return line
	}
	return ""
}

// splitField は "KEY:value" を分割します。キーは大文字化します
func splitField(seg string) (key, value string, ok bool) {
	k, v, found := strings.Cut(seg, ":")
	if !found {
		return "", "", false
	}
	key = strings.ToUpper(strings.TrimSpace(k))
	if key == "" {
		return "", "", false
	}
	return key, strings.TrimSpace(v), true
}

func requireText(fields map[string]string, key string) (string, error) {
	v, ok := fields[key]
	if !ok || v == "" {
		return "", fmt.Errorf("%w: %s がありません", ErrParse, key)
	}
	return v, nil
}

// 金額の上限。桁数と指数は丸めや比較の前に検査します
const (
	maxAmountLen   = 24
	maxAmountScale = 20
	maxAmountExp   = 9
)

var maxAmount = decimal.New(1, maxAmountExp)

// requireAmount は金額を小数2桁に丸めて返します
func requireAmount(fields map[string]string, key string) (decimal.Decimal, error) {
	v, ok := fields[key]
	if !ok || v == "" {
		return decimal.Zero, fmt.Errorf("%w: %s がありません", ErrParse, key)
	}
	amount, err := parseAmount(v)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %s: %v", ErrParse, key, err)
	}
	return amount, nil
}

// parseAmount は 0 以上 maxAmount 未満の金額を小数2桁に丸めて返します
func parseAmount(v string) (decimal.Decimal, error) {
	if len(v) > maxAmountLen {
		return decimal.Zero, fmt.Errorf("値が長すぎます (%d文字)", len(v))
	}
	amount, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Zero, fmt.Errorf("数値ではありません: %q", v)
	}
	if exp := amount.Exponent(); exp > maxAmountExp || exp < -maxAmountScale {
		return decimal.Zero, fmt.Errorf("桁が範囲外です: %q", v)
	}
	if amount.GreaterThanOrEqual(maxAmount) {
		return decimal.Zero, fmt.Errorf("上限 %s を超えています: %q", maxAmount, v)
	}
	if amount.IsNegative() {
		return decimal.Zero, fmt.Errorf("負の値です: %q", v)
	}
	return amount.Round(2), nil
}
