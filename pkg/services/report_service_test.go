package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"bot-marmita/pkg/models"
	"bot-marmita/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatReport_NoSales(t *testing.T) {
	report := aggregate(nil, 0, time.Now())

	want := "📊 *RELATÓRIO FINANCEIRO*\n\n" +
		"💰 Faturamento: R$ 0.00\n" +
		"📉 Custos: R$ 0.00\n" +
		"✅ Lucro: R$ 0.00\n" +
		"📈 Margem: 0%\n\n" +
		"🥦 Ingredientes cadastrados: 0"
	assert.Equal(t, want, FormatReport(report))
}

func TestAggregate(t *testing.T) {
	sales := []models.Sale{
		{Product: "marmita", SalePrice: dec("30"), ProductionCost: dec("18")},
		{Product: "marmita fit", SalePrice: dec("20"), ProductionCost: dec("12.5")},
	}
	report := aggregate(sales, 3, time.Now())

	assert.Equal(t, "50", report.Revenue.String())
	assert.Equal(t, "30.5", report.Cost.String())
	assert.Equal(t, "19.5", report.Profit.String())
	assert.Equal(t, "39", report.Margin.String())
	assert.True(t, report.HasRevenue)
	assert.Equal(t, 2, report.SaleCount)

	text := FormatReport(report)
	assert.Contains(t, text, "💰 Faturamento: R$ 50.00")
	assert.Contains(t, text, "📉 Custos: R$ 30.50")
	assert.Contains(t, text, "✅ Lucro: R$ 19.50")
	assert.Contains(t, text, "📈 Margem: 39.0%")
	assert.Contains(t, text, "🥦 Ingredientes cadastrados: 3")
}

func TestAggregate_NegativeProfit(t *testing.T) {
	sales := []models.Sale{{Product: "marmita", SalePrice: dec("10"), ProductionCost: dec("15")}}
	report := aggregate(sales, 0, time.Now())

	assert.Equal(t, "-5", report.Profit.String())
	assert.Equal(t, "📈 Margem: -50.0%", lineWith(FormatReport(report), "Margem"))
}

func TestAggregate_ZeroRevenueWithCosts(t *testing.T) {
	sales := []models.Sale{{Product: "brinde", SalePrice: dec("0"), ProductionCost: dec("4")}}
	report := aggregate(sales, 0, time.Now())

	assert.False(t, report.HasRevenue)
	assert.Contains(t, FormatReport(report), "📈 Margem: 0%")
	assert.Contains(t, FormatReport(report), "✅ Lucro: R$ -4.00")
}

func TestReportService_ExportWorkbook(t *testing.T) {
	ctx := context.Background()
	ledger := NewLedgerService(store.NewMemoryStore())
	_, err := ledger.UpsertIngredient(ctx, "arroz", dec("5"), "kg")
	require.NoError(t, err)
	_, err = ledger.RecordSale(ctx, "marmita", dec("30"), dec("18"))
	require.NoError(t, err)

	f, err := NewReportService(ledger).ExportWorkbook(ctx)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Resumo", "Vendas", "Ingredientes"}, f.GetSheetList())

	revenue, err := f.GetCellValue("Resumo", "B2")
	require.NoError(t, err)
	assert.Equal(t, "30", revenue)

	product, err := f.GetCellValue("Vendas", "B2")
	require.NoError(t, err)
	assert.Equal(t, "marmita", product)

	profit, err := f.GetCellValue("Vendas", "E2")
	require.NoError(t, err)
	assert.Equal(t, "12", profit)

	rows, err := f.GetRows("Ingredientes")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"1", "arroz", "5", "kg"}, rows[1])
}

func TestReportService_StoreFailure(t *testing.T) {
	reports := NewReportService(NewLedgerService(brokenStore{}))
	_, err := reports.BuildReportText(context.Background())
	assert.True(t, IsStoreFailure(err))
}

func lineWith(text, needle string) string {
	for _, line := range strings.Split(text, "\n") {
		if strings.Contains(line, needle) {
			return line
		}
	}
	return ""
}
