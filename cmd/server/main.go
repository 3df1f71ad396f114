package main

import (
	"fmt"
	"log"

	config "bot-marmita/configs"
	"bot-marmita/pkg/gateway"
	"bot-marmita/pkg/handlers"
	"bot-marmita/pkg/services"
	"bot-marmita/pkg/store"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// .envファイルを読み込み
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or could not be loaded: %v", err)
	}

	// 設定の読み込み
	cfg := config.LoadConfig()
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// 台帳ストアの初期化
	ledgerStore, err := openStore(cfg)
	if err != nil {
		log.Fatalf("FATAL: Failed to open ledger store: %v", err)
	}
	defer ledgerStore.Close()

	// 分類器プロンプトの読み込み
	prompt, err := config.LoadClassifierPrompt(cfg.ClassifierPromptPath)
	if err != nil {
		log.Fatalf("FATAL: Failed to load classifier prompt: %v", err)
	}

	// サービスの初期化
	monitoringService := services.NewMonitoringService()
	ledgerService := services.NewLedgerService(ledgerStore)
	reportService := services.NewReportService(ledgerService)
	importService := services.NewImportService(ledgerService)
	classifierService := services.NewClassifierService(
		cfg.AzureOpenAIEndpoint,
		cfg.AzureOpenAIAPIKey,
		cfg.AzureOpenAIAPIVersion,
		cfg.AzureOpenAIDeploymentName,
		cfg.AzureOpenAIProxyURL,
		prompt,
	)
	dispatcher := services.NewDispatcher(classifierService, ledgerService, reportService, monitoringService)

	// メッセージゲートウェイの初期化
	sender := gateway.NewWPPConnectSender(config.GetWPPConnectConfig())
	gw := gateway.NewGateway(gateway.NewFilter(cfg.OwnerNumber), dispatcher, sender)
	if cfg.OwnerNumber == "" {
		log.Println("Warning: OWNER_NUMBER is not set; self-originated messages will not be filtered")
	}

	r := handlers.NewRouter(handlers.RouterDeps{
		Config:   cfg,
		Receiver: gw,
		Ledger:   ledgerService,
		Reports:  reportService,
		Importer: importService,
		Monitor:  monitoringService,
	})

	log.Printf("🤖 Bot de marmitas iniciado na porta :%s (store=%s)", cfg.Port, cfg.StoreDriver)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

// openStore はSTORE_DRIVERに応じて台帳ストアを開きます
func openStore(cfg *config.Config) (store.LedgerStore, error) {
	switch cfg.StoreDriver {
	case "memory":
		log.Println("Warning: using in-memory ledger; data is lost on restart")
		return store.NewMemoryStore(), nil
	case "sqlite", "":
		return store.NewSQLiteStore(cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q (expected sqlite or memory)", cfg.StoreDriver)
	}
}
