package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"bot-marmita/pkg/models"
)

// 返信メッセージ（ポルトガル語）
const (
	ReplyCostUpdated       = "Custo atualizado com sucesso!"
	ReplyIngredientCreated = "Novo ingrediente cadastrado!"
	ReplyCostError         = "Erro ao atualizar custo."
	ReplySaleError         = "Erro ao salvar venda."
	ReplyReportError       = "Erro ao gerar relatório."
	ReplyHelpMenu          = "Olá! Sou seu assistente de gestão.\n\nComandos disponíveis:\n• \"Altera custo arroz 5\" (Custo)\n• \"Venda marmita 30 custo 18\" (Venda)\n• \"Relatório\" (Dados)"
)

// DispatchState ディスパッチャの状態
type DispatchState int

const (
	StateIdle DispatchState = iota
	StateUpdatingCost
	StateRegisteringSale
	StateReporting
	StateUnrecognized
)

// String returns a human-readable state name.
func (s DispatchState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateUpdatingCost:
		return "updating_cost"
	case StateRegisteringSale:
		return "registering_sale"
	case StateReporting:
		return "reporting"
	case StateUnrecognized:
		return "unrecognized"
	default:
		return "unknown"
	}
}

func stateFor(action models.ActionType) DispatchState {
	switch action {
	case models.ActionUpdateCost:
		return StateUpdatingCost
	case models.ActionRegisterSale:
		return StateRegisteringSale
	case models.ActionReport:
		return StateReporting
	default:
		return StateUnrecognized
	}
}

type traceKey struct{}

// WithTraceID はログ用のトレースIDをコンテキストに付与します
func WithTraceID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, traceKey{}, id)
}

// TraceIDFrom はコンテキストからトレースIDを取り出します
func TraceIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(traceKey{}).(string)
	return id
}

// Dispatcher は1メッセージを分類→デコード→実行し、返信テキストを1つ返します。
// メッセージ間で状態は保持しません。
type Dispatcher struct {
	classifier IntentClassifier
	parser     *CommandParser
	ledger     *LedgerService
	reports    *ReportService
	monitor    *MonitoringService
}

// NewDispatcher 新しいDispatcherを作成。monitorはnilでも構いません
func NewDispatcher(classifier IntentClassifier, ledger *LedgerService, reports *ReportService, monitor *MonitoringService) *Dispatcher {
	return &Dispatcher{
		classifier: classifier,
		parser:     NewCommandParser(),
		ledger:     ledger,
		reports:    reports,
		monitor:    monitor,
	}
}

// Handle はメッセージ本文を処理して返信テキストを返します
func (d *Dispatcher) Handle(ctx context.Context, message string) string {
	start := time.Now()

	action := d.Decide(ctx, message)
	reply, err := d.execute(ctx, action)

	if d.monitor != nil {
		d.monitor.RecordDispatch(DispatchEntry{
			Timestamp: start,
			TraceID:   TraceIDFrom(ctx),
			Action:    action.Type.String(),
			Failed:    err != nil,
			Duration:  time.Since(start),
		})
	}
	return reply
}

// Decide は分類器とパーサーでアクションを決定します。
// 分類器・パーサーの失敗はUnrecognizedに落とします
func (d *Dispatcher) Decide(ctx context.Context, message string) models.ParsedAction {
	trace := TraceIDFrom(ctx)

	raw, err := d.classifier.Classify(ctx, message)
	if err != nil {
		log.Printf("⚠️ [%s] 分類に失敗しました: %v", trace, err)
		return models.Unrecognized()
	}

	action, err := d.parser.Parse(raw)
	if err != nil {
		log.Printf("⚠️ [%s] 分類器の応答を解釈できません: %v", trace, err)
		return models.Unrecognized()
	}
	return action
}

// Execute はデコード済みアクションを実行して返信テキストを返します
func (d *Dispatcher) Execute(ctx context.Context, action models.ParsedAction) string {
	reply, _ := d.execute(ctx, action)
	return reply
}

func (d *Dispatcher) execute(ctx context.Context, action models.ParsedAction) (string, error) {
	trace := TraceIDFrom(ctx)
	state := stateFor(action.Type)
	log.Printf("🔀 [%s] %s → %s", trace, StateIdle, state)
	defer log.Printf("🔀 [%s] %s → %s", trace, state, StateIdle)

	switch state {
	case StateUpdatingCost:
		outcome, err := d.ledger.UpsertIngredientCost(ctx, action.Item, action.Value)
		if err != nil {
			log.Printf("❌ [%s] 原価更新に失敗: %v", trace, err)
			return ReplyCostError, err
		}
		if outcome == models.UpsertCreated {
			return ReplyIngredientCreated, nil
		}
		return ReplyCostUpdated, nil

	case StateRegisteringSale:
		confirmation, err := d.ledger.RecordSale(ctx, action.Product, action.Value, action.Cost)
		if err != nil {
			log.Printf("❌ [%s] 販売の記録に失敗: %v", trace, err)
			return ReplySaleError, err
		}
		return FormatSaleConfirmation(confirmation), nil

	case StateReporting:
		text, err := d.reports.BuildReportText(ctx)
		if err != nil {
			log.Printf("❌ [%s] レポート生成に失敗: %v", trace, err)
			return ReplyReportError, err
		}
		return text, nil

	default:
		return ReplyHelpMenu, nil
	}
}

// FormatSaleConfirmation 販売登録の確認メッセージ
func FormatSaleConfirmation(c *models.SaleConfirmation) string {
	return fmt.Sprintf("Venda registrada!\nProduto: %s\nVenda: R$ %s\nCusto: R$ %s\nLucro: R$ %s",
		c.Product, c.SalePrice, c.ProductionCost, c.Profit)
}

// IsStoreFailure はストア起因のエラーかを判定します
func IsStoreFailure(err error) bool {
	return errors.Is(err, ErrStore)
}
