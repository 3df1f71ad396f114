package services

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"bot-marmita/pkg/models"

	"github.com/xuri/excelize/v2"
)

// ImportResult 一括インポートの結果
type ImportResult struct {
	Created int      `json:"created"`
	Updated int      `json:"updated"`
	Skipped []string `json:"skipped"`
}

// ImportService は食材の価格表（.xlsx / .csv）を台帳に取り込みます
type ImportService struct {
	ledger *LedgerService
}

// NewImportService 新しいImportServiceを作成
func NewImportService(ledger *LedgerService) *ImportService {
	return &ImportService{ledger: ledger}
}

// ImportIngredients はファイルを読み込み、行ごとに原価を更新または登録します
func (s *ImportService) ImportIngredients(ctx context.Context, fileName string, r io.Reader) (*ImportResult, error) {
	rows, err := readRows(fileName, r)
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("%w: ヘッダー行と少なくとも1行のデータが必要です", ErrInvalidInput)
	}

	header := rows[0]
	nameIdx := findIndex(header, "nome", "ingrediente", "item", "name", "ingredient")
	costIdx := findIndex(header, "custo", "valor", "preço", "preco", "cost", "unit_cost", "price")
	unitIdx := findIndex(header, "unidade", "unit")

	if nameIdx == -1 || costIdx == -1 {
		return nil, fmt.Errorf("%w: 必要な列（nome, custo）が見つかりません。ヘッダー: %v", ErrInvalidInput, header)
	}

	result := &ImportResult{Skipped: make([]string, 0)}
	for i, row := range rows[1:] {
		line := i + 2
		name := cell(row, nameIdx)
		if name == "" {
			result.Skipped = append(result.Skipped, fmt.Sprintf("linha %d: nome vazio", line))
			continue
		}
		cost, err := parseAmount(cell(row, costIdx))
		if err != nil {
			result.Skipped = append(result.Skipped, fmt.Sprintf("linha %d: custo inválido %q", line, cell(row, costIdx)))
			continue
		}

		outcome, err := s.ledger.UpsertIngredient(ctx, name, cost, cell(row, unitIdx))
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				result.Skipped = append(result.Skipped, fmt.Sprintf("linha %d: %v", line, err))
				continue
			}
			return result, err
		}
		if outcome == models.UpsertCreated {
			result.Created++
		} else {
			result.Updated++
		}
	}

	log.Printf("📥 %s を取り込みました: 新規=%d 更新=%d スキップ=%d", fileName, result.Created, result.Updated, len(result.Skipped))
	return result, nil
}

func readRows(fileName string, r io.Reader) ([][]string, error) {
	lower := strings.ToLower(fileName)
	switch {
	case strings.HasSuffix(lower, ".xlsx"):
		f, err := excelize.OpenReader(r)
		if err != nil {
			return nil, fmt.Errorf("%w: Excelファイルの読み込みに失敗: %v", ErrInvalidInput, err)
		}
		defer f.Close()
		rows, err := f.GetRows(f.GetSheetName(0))
		if err != nil {
			return nil, fmt.Errorf("%w: Excelシートの行取得に失敗: %v", ErrInvalidInput, err)
		}
		return rows, nil
	case strings.HasSuffix(lower, ".csv"):
		reader := csv.NewReader(r)
		reader.FieldsPerRecord = -1
		rows, err := reader.ReadAll()
		if err != nil {
			return nil, fmt.Errorf("%w: CSVファイルの解析に失敗: %v", ErrInvalidInput, err)
		}
		return rows, nil
	default:
		return nil, fmt.Errorf("%w: サポートされていないファイル形式です（.xlsx / .csv）", ErrInvalidInput)
	}
}

// findIndex finds the index of the first candidate in a slice
func findIndex(slice []string, candidates ...string) int {
	for _, candidate := range candidates {
		for i, item := range slice {
			if strings.EqualFold(strings.TrimSpace(item), candidate) {
				return i
			}
		}
	}
	return -1
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
