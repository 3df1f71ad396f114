package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	config "bot-marmita/configs"
)

// Sender は返信テキストを送信者に届けます
type Sender interface {
	Send(ctx context.Context, to, text string) error
}

// Compile-time interface check.
var _ Sender = (*WPPConnectSender)(nil)

// WPPConnectSender はWPPConnect ServerのREST APIで送信します
type WPPConnectSender struct {
	baseURL    string
	session    string
	token      string
	httpClient *http.Client
}

// NewWPPConnectSender 新しいWPPConnectSenderを作成
func NewWPPConnectSender(cfg *config.WPPConnectConfig) *WPPConnectSender {
	return &WPPConnectSender{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		session: cfg.Session,
		token:   cfg.Token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type sendMessageRequest struct {
	Phone   string `json:"phone"`
	Message string `json:"message"`
	IsGroup bool   `json:"isGroup"`
}

type sendMessageResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Send は POST /api/{session}/send-message を呼び出します
func (s *WPPConnectSender) Send(ctx context.Context, to, text string) error {
	requestBody, err := json.Marshal(sendMessageRequest{
		Phone:   normalizeID(to),
		Message: text,
		IsGroup: false,
	})
	if err != nil {
		return fmt.Errorf("リクエストのJSON化に失敗: %w", err)
	}

	url := fmt.Sprintf("%s/api/%s/send-message", s.baseURL, s.session)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(requestBody))
	if err != nil {
		return fmt.Errorf("HTTPリクエストの作成に失敗: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("HTTPリクエストの実行に失敗: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("レスポンスの読み取りに失敗: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errorResp sendMessageResponse
		if err := json.Unmarshal(body, &errorResp); err == nil && errorResp.Message != "" {
			return fmt.Errorf("WPPConnect API エラー (status: %d): %s", resp.StatusCode, errorResp.Message)
		}
		return fmt.Errorf("WPPConnect API エラー (status: %d): %s", resp.StatusCode, string(body))
	}
	return nil
}
