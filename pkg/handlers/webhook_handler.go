package handlers

import (
	"log"
	"net/http"

	"bot-marmita/pkg/models"

	"github.com/gin-gonic/gin"
)

// MessageReceiver は受信イベントを非同期処理に引き渡します
type MessageReceiver interface {
	Receive(msg models.InboundMessage) bool
}

// WebhookHandler はWPPConnectからのwebhookを受け付けます
type WebhookHandler struct {
	receiver MessageReceiver
}

// NewWebhookHandler 新しいWebhookHandlerを作成
func NewWebhookHandler(receiver MessageReceiver) *WebhookHandler {
	return &WebhookHandler{receiver: receiver}
}

// ReceiveMessage はイベントを受け取り、処理の完了を待たずに202を返します。
// フィルタで除外されたイベントは accepted=false になります。
func (h *WebhookHandler) ReceiveMessage(c *gin.Context) {
	if isMaintenanceMode.Load() {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success": false,
			"error":   "Bot is paused for maintenance",
		})
		return
	}

	var msg models.InboundMessage
	if err := c.ShouldBindJSON(&msg); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "無効なイベント形式です: " + err.Error(),
		})
		return
	}

	accepted := h.receiver.Receive(msg)
	if !accepted {
		log.Printf("🚫 イベントを無視しました: from=%s type=%s group=%t", msg.From, msg.Type, msg.IsGroupMsg)
	}

	c.JSON(http.StatusAccepted, gin.H{
		"success":  true,
		"accepted": accepted,
	})
}
