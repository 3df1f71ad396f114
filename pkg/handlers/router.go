package handlers

import (
	"net/http"

	config "bot-marmita/configs"
	"bot-marmita/pkg/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RouterDeps はルーター構築に必要な依存関係
type RouterDeps struct {
	Config   *config.Config
	Receiver MessageReceiver
	Ledger   *services.LedgerService
	Reports  *services.ReportService
	Importer *services.ImportService
	Monitor  *services.MonitoringService
}

// NewRouter はミドルウェアと全ルートを登録したginエンジンを返します
func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	r.Use(deps.Monitor.LoggingMiddleware())
	r.Use(cors.Default())

	webhookHandler := NewWebhookHandler(deps.Receiver)
	ledgerHandler := NewLedgerHandler(deps.Ledger, deps.Reports, deps.Importer)
	adminHandler := NewAdminHandler(deps.Config)
	monitoringHandler := NewMonitoringHandler(deps.Monitor)

	// ヘルスチェックエンドポイント
	r.GET("/health", HealthCheck)

	v1 := r.Group("/api/v1")
	v1.Use(authMiddleware(deps.Config.APIKey))
	{
		// WPPConnect webhook
		v1.POST("/webhook/messages", webhookHandler.ReceiveMessage)

		// 台帳API
		ledger := v1.Group("/ledger")
		{
			ledger.GET("/report", ledgerHandler.GetReport)
			ledger.GET("/ingredients", ledgerHandler.ListIngredients)
			ledger.GET("/sales", ledgerHandler.ListSales)
			ledger.GET("/export", ledgerHandler.ExportWorkbook)
			ledger.POST("/ingredients/import", ledgerHandler.ImportIngredients)
		}

		// 管理者向けAPI
		admin := v1.Group("/admin")
		{
			admin.GET("/health-status", adminHandler.GetHealthStatus)
			admin.POST("/maintenance/start", adminHandler.StartMaintenance)
			admin.POST("/maintenance/stop", adminHandler.StopMaintenance)
		}

		// モニタリングAPI
		monitoring := v1.Group("/monitoring")
		{
			monitoring.GET("/logs", monitoringHandler.GetLogs)
		}
	}

	return r
}

// authMiddleware はAPI_KEYが設定されている場合にX-API-KEYヘッダーを検証します
func authMiddleware(apiKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if apiKey == "" {
			c.Next()
			return
		}
		if c.GetHeader("X-API-KEY") != apiKey {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Next()
	}
}
