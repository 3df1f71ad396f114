package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"bot-marmita/pkg/models"
	"bot-marmita/pkg/services"

	"github.com/gin-gonic/gin"
)

// LedgerHandler は台帳の参照・エクスポート・インポートのハンドラです
type LedgerHandler struct {
	ledger   *services.LedgerService
	reports  *services.ReportService
	importer *services.ImportService
}

// NewLedgerHandler 新しいLedgerHandlerを作成
func NewLedgerHandler(ledger *services.LedgerService, reports *services.ReportService, importer *services.ImportService) *LedgerHandler {
	return &LedgerHandler{
		ledger:   ledger,
		reports:  reports,
		importer: importer,
	}
}

// GetReport はチャット返信と同じ集計をJSONとテキストで返します
func (h *LedgerHandler) GetReport(c *gin.Context) {
	report, err := h.reports.BuildReport(c.Request.Context())
	if err != nil {
		log.Printf("❌ レポート生成に失敗: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   services.ReplyReportError,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"report":  report,
		"text":    services.FormatReport(report),
	})
}

// ListIngredients は食材一覧を返します。?q= を指定すると部分一致で検索します
func (h *LedgerHandler) ListIngredients(c *gin.Context) {
	query := c.Query("q")
	if query != "" {
		found := h.ledger.FindIngredient(c.Request.Context(), query)
		c.JSON(http.StatusOK, gin.H{"success": true, "ingredients": found, "count": len(found)})
		return
	}

	ingredients, err := h.ledger.FetchAllIngredients(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "ingredients": ingredients, "count": len(ingredients)})
}

// ListSales は販売記録を利益つきで返します
func (h *LedgerHandler) ListSales(c *gin.Context) {
	sales, err := h.ledger.FetchAllSales(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}

	views := make([]models.SaleView, 0, len(sales))
	for _, s := range sales {
		views = append(views, models.SaleView{Sale: s, Profit: s.Profit()})
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "sales": views, "count": len(views)})
}

// ExportWorkbook は集計・販売・食材のExcelブックをダウンロードさせます
func (h *LedgerHandler) ExportWorkbook(c *gin.Context) {
	f, err := h.reports.ExportWorkbook(c.Request.Context())
	if err != nil {
		log.Printf("❌ Excelエクスポートに失敗: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}
	defer f.Close()

	fileName := fmt.Sprintf("relatorio-%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	c.Status(http.StatusOK)
	if err := f.Write(c.Writer); err != nil {
		log.Printf("❌ Excelの書き出しに失敗: %v", err)
	}
}

// ImportIngredients はアップロードされた価格表（.xlsx / .csv）で原価を一括更新します
func (h *LedgerHandler) ImportIngredients(c *gin.Context) {
	file, fileHeader, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "ファイルの取得に失敗しました。"})
		return
	}
	defer file.Close()

	result, err := h.importer.ImportIngredients(c.Request.Context(), fileHeader.Filename, file)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, services.ErrInvalidInput) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"success": false, "error": err.Error(), "result": result})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "result": result})
}
