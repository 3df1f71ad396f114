package services

import (
	"context"
	"fmt"
	"time"

	"bot-marmita/pkg/models"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// ReportService 売上・原価・利益の集計レポートを生成します
type ReportService struct {
	ledger *LedgerService
	now    func() time.Time
}

// NewReportService 新しいReportServiceを作成
func NewReportService(ledger *LedgerService) *ReportService {
	return &ReportService{ledger: ledger, now: time.Now}
}

var hundred = decimal.NewFromInt(100)

// BuildReport は全販売記録を走査して集計します。副作用はありません。
func (s *ReportService) BuildReport(ctx context.Context) (*models.FinancialReport, error) {
	sales, err := s.ledger.FetchAllSales(ctx)
	if err != nil {
		return nil, err
	}
	ingredients, err := s.ledger.FetchAllIngredients(ctx)
	if err != nil {
		return nil, err
	}
	return aggregate(sales, len(ingredients), s.now()), nil
}

func aggregate(sales []models.Sale, ingredientCount int, at time.Time) *models.FinancialReport {
	fat := decimal.Zero
	cust := decimal.Zero
	for _, v := range sales {
		fat = fat.Add(v.SalePrice)
		cust = cust.Add(v.ProductionCost)
	}
	lucro := fat.Sub(cust)

	margem := decimal.Zero
	hasRevenue := fat.IsPositive()
	if hasRevenue {
		margem = lucro.Div(fat).Mul(hundred).Round(1)
	}

	return &models.FinancialReport{
		Revenue:         fat,
		Cost:            cust,
		Profit:          lucro,
		Margin:          margem,
		HasRevenue:      hasRevenue,
		SaleCount:       len(sales),
		IngredientCount: ingredientCount,
		GeneratedAt:     at,
	}
}

// FormatReport はチャット返信用の固定レイアウトのテキストを生成します
func FormatReport(r *models.FinancialReport) string {
	margin := "0"
	if r.HasRevenue {
		margin = r.Margin.StringFixed(1)
	}

	return fmt.Sprintf(`📊 *RELATÓRIO FINANCEIRO*

💰 Faturamento: R$ %s
📉 Custos: R$ %s
✅ Lucro: R$ %s
📈 Margem: %s%%

🥦 Ingredientes cadastrados: %d`,
		r.Revenue.StringFixed(2),
		r.Cost.StringFixed(2),
		r.Profit.StringFixed(2),
		margin,
		r.IngredientCount,
	)
}

// BuildReportText 集計してテキスト化
func (s *ReportService) BuildReportText(ctx context.Context) (string, error) {
	report, err := s.BuildReport(ctx)
	if err != nil {
		return "", err
	}
	return FormatReport(report), nil
}

// ExportWorkbook は集計・販売・食材の3シートを持つExcelブックを生成します
func (s *ReportService) ExportWorkbook(ctx context.Context) (*excelize.File, error) {
	sales, err := s.ledger.FetchAllSales(ctx)
	if err != nil {
		return nil, err
	}
	ingredients, err := s.ledger.FetchAllIngredients(ctx)
	if err != nil {
		return nil, err
	}
	report := aggregate(sales, len(ingredients), s.now())

	f := excelize.NewFile()

	const summary = "Resumo"
	if err := f.SetSheetName("Sheet1", summary); err != nil {
		return nil, fmt.Errorf("シート名の設定に失敗: %w", err)
	}
	rows := [][]interface{}{
		{"Indicador", "Valor"},
		{"Faturamento", report.Revenue.InexactFloat64()},
		{"Custos", report.Cost.InexactFloat64()},
		{"Lucro", report.Profit.InexactFloat64()},
		{"Margem (%)", report.Margin.InexactFloat64()},
		{"Vendas", report.SaleCount},
		{"Ingredientes cadastrados", report.IngredientCount},
		{"Gerado em", report.GeneratedAt.Format(time.RFC3339)},
	}
	if err := writeRows(f, summary, rows); err != nil {
		return nil, err
	}

	const salesSheet = "Vendas"
	if _, err := f.NewSheet(salesSheet); err != nil {
		return nil, fmt.Errorf("シートの作成に失敗: %w", err)
	}
	rows = [][]interface{}{{"ID", "Produto", "Valor venda", "Custo produção", "Lucro", "Data"}}
	for _, v := range sales {
		rows = append(rows, []interface{}{
			v.ID,
			v.Product,
			v.SalePrice.InexactFloat64(),
			v.ProductionCost.InexactFloat64(),
			v.Profit().InexactFloat64(),
			v.CreatedAt.Format(time.RFC3339),
		})
	}
	if err := writeRows(f, salesSheet, rows); err != nil {
		return nil, err
	}

	const ingredientsSheet = "Ingredientes"
	if _, err := f.NewSheet(ingredientsSheet); err != nil {
		return nil, fmt.Errorf("シートの作成に失敗: %w", err)
	}
	rows = [][]interface{}{{"ID", "Nome", "Custo", "Unidade"}}
	for _, ing := range ingredients {
		rows = append(rows, []interface{}{ing.ID, ing.Name, ing.UnitCost.InexactFloat64(), ing.Unit})
	}
	if err := writeRows(f, ingredientsSheet, rows); err != nil {
		return nil, err
	}

	return f, nil
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		r := row
		if err := f.SetSheetRow(sheet, cell, &r); err != nil {
			return fmt.Errorf("シート %s への書き込みに失敗: %w", sheet, err)
		}
	}
	return nil
}
