package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	config "bot-marmita/configs"
	"bot-marmita/pkg/azure"
)

// IntentClassifier はメッセージを分類器の生テキスト応答に変換します。
// 応答は信頼できないため、解釈はCommandParserが行います。
type IntentClassifier interface {
	Classify(ctx context.Context, message string) (string, error)
}

// completer はAzure OpenAIクライアントのうち分類に必要な部分
type completer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string, maxTokens int, temperature float32) (string, error)
}

// Compile-time interface check.
var _ IntentClassifier = (*ClassifierService)(nil)

// ClassifierService Azure OpenAIを使った意図分類サービス
type ClassifierService struct {
	client  completer
	prompt  *config.ClassifierPromptConfig
	timeout time.Duration
}

// NewClassifierService 新しい分類サービスを作成。proxyURLは空でも構いません
func NewClassifierService(endpoint, apiKey, apiVersion, deploymentName, proxyURL string, prompt *config.ClassifierPromptConfig) *ClassifierService {
	client := azure.NewOpenAIClient(endpoint, apiKey, apiVersion, deploymentName, proxyURL)
	return newClassifierService(client, prompt)
}

func newClassifierService(client completer, prompt *config.ClassifierPromptConfig) *ClassifierService {
	if prompt == nil {
		prompt = config.DefaultClassifierPrompt()
	}
	return &ClassifierService{
		client:  client,
		prompt:  prompt,
		timeout: 30 * time.Second,
	}
}

// Classify は指示テンプレートとメッセージを分類器に送り、応答テキストを返します。
// 通信失敗や空の応答はErrClassifierとして返します。
func (s *ClassifierService) Classify(ctx context.Context, message string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := s.client.Complete(ctx,
		s.prompt.BuildSystemPrompt(),
		s.prompt.BuildUserPrompt(message),
		s.prompt.Generation.MaxTokens,
		s.prompt.Generation.Temperature,
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrClassifier, err)
	}

	resp = strings.TrimSpace(resp)
	if resp == "" {
		return "", fmt.Errorf("%w: 空の応答", ErrClassifier)
	}

	log.Printf("🤖 分類器の判定: %s", resp)
	return resp, nil
}
