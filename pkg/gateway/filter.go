package gateway

import (
	"strings"

	"bot-marmita/pkg/models"
)

// Filter は処理対象外の受信イベントを除外します
type Filter struct {
	// OwnerID はボット運用者自身の番号。空なら自己送信の判定を行いません
	OwnerID string
}

// NewFilter 新しいFilterを作成
func NewFilter(ownerID string) Filter {
	return Filter{OwnerID: ownerID}
}

// Accept はグループ、テキスト以外、運用者自身からのメッセージを拒否します
func (f Filter) Accept(msg models.InboundMessage) bool {
	if msg.Event != "" && msg.Event != "onmessage" {
		return false
	}
	if msg.IsGroupMsg || msg.Type != "chat" {
		return false
	}
	if strings.TrimSpace(msg.From) == "" {
		return false
	}
	if f.OwnerID != "" && normalizeID(msg.From) == normalizeID(f.OwnerID) {
		return false
	}
	return true
}

// normalizeID は "5511999999999@c.us" のようなIDから番号部分を取り出します
func normalizeID(id string) string {
	id = strings.TrimSpace(id)
	if i := strings.IndexByte(id, '@'); i >= 0 {
		id = id[:i]
	}
	return strings.TrimPrefix(id, "+")
}
