package gateway

import (
	"context"
	"log"
	"runtime/debug"
	"sync"

	"bot-marmita/pkg/models"
	"bot-marmita/pkg/services"

	"github.com/google/uuid"
)

// Responder はメッセージ本文から返信テキストを1つ作ります
type Responder interface {
	Handle(ctx context.Context, message string) string
}

// Compile-time interface check.
var _ Responder = (*services.Dispatcher)(nil)

// Gateway は受信イベントをフィルタし、1メッセージごとに独立したタスクで処理して返信します。
// あるタスクのパニックや失敗は他のメッセージの処理に影響しません。
type Gateway struct {
	filter    Filter
	responder Responder
	sender    Sender
	wg        sync.WaitGroup
}

// NewGateway 新しいGatewayを作成
func NewGateway(filter Filter, responder Responder, sender Sender) *Gateway {
	return &Gateway{
		filter:    filter,
		responder: responder,
		sender:    sender,
	}
}

// Receive はイベントを受け付け、処理対象ならタスクを起動してtrueを返します。
// 呼び出し元はタスクの完了を待ちません。
func (g *Gateway) Receive(msg models.InboundMessage) bool {
	if !g.filter.Accept(msg) {
		return false
	}

	traceID := uuid.NewString()
	g.wg.Add(1)
	go g.run(traceID, msg)
	return true
}

// Wait は起動済みのタスクがすべて終わるまで待ちます
func (g *Gateway) Wait() {
	g.wg.Wait()
}

func (g *Gateway) run(traceID string, msg models.InboundMessage) {
	defer g.wg.Done()
	ctx := services.WithTraceID(context.Background(), traceID)
	sending := false
	defer func() {
		if r := recover(); r != nil {
			log.Printf("🔥 [%s] メッセージ処理中にパニックが発生しました: %v\n%s", traceID, r, debug.Stack())
			// 1メッセージにつき返信は1つだけ
			if sending {
				return
			}
			if err := g.sender.Send(ctx, msg.From, services.ReplyHelpMenu); err != nil {
				log.Printf("⚠️ [%s] 返信の送信に失敗しました: %v", traceID, err)
			}
		}
	}()

	log.Printf("📨 [%s] %s からのメッセージを処理します", traceID, msg.From)

	reply := g.responder.Handle(ctx, msg.Body)
	sending = true
	if err := g.sender.Send(ctx, msg.From, reply); err != nil {
		log.Printf("⚠️ [%s] 返信の送信に失敗しました: %v", traceID, err)
		return
	}
	log.Printf("📤 [%s] %s へ返信しました", traceID, msg.From)
}
