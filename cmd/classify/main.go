package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	config "bot-marmita/configs"
	"bot-marmita/pkg/models"
	"bot-marmita/pkg/services"

	"github.com/joho/godotenv"
)

// 分類器の接続確認用CLI。台帳には書き込みません。
//
//	go run ./cmd/classify "altera custo arroz 5"
func main() {
	// .envファイルを読み込み
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or could not be loaded: %v", err)
	}

	if len(os.Args) < 2 {
		log.Fatal("usage: classify <mensagem>")
	}
	message := strings.Join(os.Args[1:], " ")

	cfg := config.LoadConfig()
	if cfg.AzureOpenAIEndpoint == "" || cfg.AzureOpenAIAPIKey == "" {
		log.Fatal("FATAL: 必要な環境変数 (AZURE_OPENAI_ENDPOINT, AZURE_OPENAI_API_KEY) が設定されていません。")
	}
	if cfg.AzureOpenAIProxyURL != "" {
		log.Println("INFO: プロキシ経由で接続します:", cfg.AzureOpenAIProxyURL)
	}

	prompt, err := config.LoadClassifierPrompt(cfg.ClassifierPromptPath)
	if err != nil {
		log.Fatalf("FATAL: %v", err)
	}

	classifier := services.NewClassifierService(
		cfg.AzureOpenAIEndpoint,
		cfg.AzureOpenAIAPIKey,
		cfg.AzureOpenAIAPIVersion,
		cfg.AzureOpenAIDeploymentName,
		cfg.AzureOpenAIProxyURL,
		prompt,
	)

	raw, err := classifier.Classify(context.Background(), message)
	if err != nil {
		log.Fatalf("❌ 分類に失敗しました: %v", err)
	}

	action, err := services.NewCommandParser().Parse(raw)
	fmt.Printf("応答:     %s\n", raw)
	fmt.Printf("アクション: %s\n", action.Type)
	if err != nil {
		fmt.Printf("解釈エラー: %v\n", err)
		return
	}
	switch action.Type {
	case models.ActionUpdateCost:
		fmt.Printf("  item=%s value=%s\n", action.Item, action.Value)
	case models.ActionRegisterSale:
		fmt.Printf("  product=%s value=%s cost=%s\n", action.Product, action.Value, action.Cost)
	}
}
