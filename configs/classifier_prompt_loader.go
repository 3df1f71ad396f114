package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ClassifierPromptConfig はclassifier_prompt.yamlの構造を定義
type ClassifierPromptConfig struct {
	System struct {
		Role     string `yaml:"role"`
		Version  string `yaml:"version"`
		Language string `yaml:"language"`
	} `yaml:"system"`

	Instructions string `yaml:"instructions"`

	Rules []struct {
		Priority  int    `yaml:"priority"`
		Condition string `yaml:"condition"`
		Format    string `yaml:"format"`
	} `yaml:"rules"`

	Closing string `yaml:"closing"`

	Generation struct {
		MaxTokens   int     `yaml:"max_tokens"`
		Temperature float32 `yaml:"temperature"`
	} `yaml:"generation"`
}

// defaultClassifierPrompt は元のボットと同じ4つのルールを持つ組み込みプロンプト
const defaultClassifierPrompt = `
system:
  role: "um assistente de gestão para um delivery de marmitas"
  version: "1.0"
  language: "pt-BR"
instructions: "Analise a mensagem do usuário e determine a ação."
rules:
  - priority: 1
    condition: 'Se for pedido para alterar/cadastrar custo de ingrediente (ex: "altera custo arroz 5" ou "cadastra tomate 10"), retorne no formato'
    format: "ACAO:ATUALIZAR_CUSTO|ITEM:arroz|VALOR:5"
  - priority: 2
    condition: 'Se for pedido para registrar venda (ex: "venda marmita 30 custo 18"), retorne'
    format: "ACAO:REGISTRAR_VENDA|PRODUTO:marmita|VALOR:30|CUSTO:18"
  - priority: 3
    condition: "Se for pedido relatório ou análise, retorne"
    format: "ACAO:RELATORIO"
  - priority: 4
    condition: "Se não entender, retorne"
    format: "ACAO:NAO_ENTENDI"
closing: "Responda APENAS com o código formatado acima."
generation:
  max_tokens: 60
  temperature: 0
`

// DefaultClassifierPrompt は組み込みのプロンプト設定を返す
func DefaultClassifierPrompt() *ClassifierPromptConfig {
	cfg, err := parseClassifierPrompt([]byte(defaultClassifierPrompt))
	if err != nil {
		panic(fmt.Sprintf("組み込みプロンプトが不正です: %v", err))
	}
	return cfg
}

// LoadClassifierPrompt はYAMLファイルから分類器プロンプト設定を読み込む。
// pathが空の場合は組み込みの設定を返す
func LoadClassifierPrompt(path string) (*ClassifierPromptConfig, error) {
	if path == "" {
		return DefaultClassifierPrompt(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("分類器プロンプト設定ファイルの読み込みに失敗: %w", err)
	}
	return parseClassifierPrompt(data)
}

func parseClassifierPrompt(data []byte) (*ClassifierPromptConfig, error) {
	var cfg ClassifierPromptConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("YAMLのパースに失敗: %w", err)
	}
	if len(cfg.Rules) == 0 {
		return nil, fmt.Errorf("ルールが1つも定義されていません")
	}
	if cfg.Generation.MaxTokens <= 0 {
		cfg.Generation.MaxTokens = 60
	}
	return &cfg, nil
}

// BuildSystemPrompt は設定からシステムプロンプトを構築
func (c *ClassifierPromptConfig) BuildSystemPrompt() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Você é %s.\n", c.System.Role))
	if c.Instructions != "" {
		sb.WriteString(c.Instructions + "\n")
	}

	sb.WriteString("\nRegras:\n")
	for _, rule := range c.Rules {
		sb.WriteString(fmt.Sprintf("%d. %s: %s\n", rule.Priority, rule.Condition, rule.Format))
	}

	if c.Closing != "" {
		sb.WriteString("\n" + c.Closing + "\n")
	}
	return sb.String()
}

// BuildUserPrompt はユーザーメッセージを埋め込む
func (c *ClassifierPromptConfig) BuildUserPrompt(message string) string {
	return fmt.Sprintf("Mensagem: %q", message)
}
