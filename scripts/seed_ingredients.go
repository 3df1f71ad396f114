//go:build ignore

package main

import (
	"context"
	"log"
	"os"
	"path/filepath"

	config "bot-marmita/configs"
	"bot-marmita/pkg/services"
	"bot-marmita/pkg/store"

	"github.com/joho/godotenv"
)

// 価格表（.xlsx / .csv）から食材マスタを初期投入します。
//
//	go run scripts/seed_ingredients.go precos.xlsx
func main() {
	log.Println("🚀 食材マスタの初期投入を開始します...")

	// .envファイルを読み込み
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}
	if len(os.Args) < 2 {
		log.Fatal("usage: go run scripts/seed_ingredients.go <precos.xlsx|precos.csv>")
	}
	path := os.Args[1]

	cfg := config.LoadConfig()
	ledgerStore, err := store.NewSQLiteStore(cfg.SQLitePath)
	if err != nil {
		log.Fatalf("❌ SQLiteを開けません: %v", err)
	}
	defer ledgerStore.Close()

	file, err := os.Open(path)
	if err != nil {
		log.Fatalf("❌ ファイルを開けません: %v", err)
	}
	defer file.Close()

	importer := services.NewImportService(services.NewLedgerService(ledgerStore))
	result, err := importer.ImportIngredients(context.Background(), filepath.Base(path), file)
	if err != nil {
		log.Fatalf("❌ 取り込みに失敗しました: %v", err)
	}

	for _, s := range result.Skipped {
		log.Printf("  ⏭️  %s", s)
	}
	log.Printf("✅ 完了: 新規=%d 更新=%d スキップ=%d (%s)", result.Created, result.Updated, len(result.Skipped), cfg.SQLitePath)
}
