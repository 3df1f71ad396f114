package config

import (
	"os"
)

// Config holds the application configuration
type Config struct {
	Port          string
	Environment   string
	APIKey        string
	AdminUsername string
	AdminPassword string

	AzureOpenAIEndpoint       string
	AzureOpenAIAPIKey         string
	AzureOpenAIAPIVersion     string
	AzureOpenAIDeploymentName string
	AzureOpenAIProxyURL       string
	ClassifierPromptPath      string // 空の場合は組み込みのプロンプトを使用

	StoreDriver string // "sqlite" or "memory"
	SQLitePath  string

	OwnerNumber string // ボット運用者自身の番号。このIDからのメッセージは無視する
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Port:          getEnv("PORT", "8080"),
		Environment:   getEnv("ENVIRONMENT", "development"),
		APIKey:        getEnv("API_KEY", ""),
		AdminUsername: getEnv("ADMIN_USERNAME", "admin"),
		AdminPassword: getEnv("ADMIN_PASSWORD", ""),

		AzureOpenAIEndpoint:       getEnv("AZURE_OPENAI_ENDPOINT", ""),
		AzureOpenAIAPIKey:         getEnv("AZURE_OPENAI_API_KEY", ""),
		AzureOpenAIAPIVersion:     getEnv("AZURE_OPENAI_API_VERSION", "2024-02-01"),
		AzureOpenAIDeploymentName: getEnv("AZURE_OPENAI_DEPLOYMENT_NAME", "gpt-4o-mini"),
		AzureOpenAIProxyURL:       getEnv("AZURE_OPENAI_PROXY_URL", ""),
		ClassifierPromptPath:      getEnv("CLASSIFIER_PROMPT_PATH", ""),

		StoreDriver: getEnv("STORE_DRIVER", "sqlite"),
		SQLitePath:  getEnv("SQLITE_PATH", "data/ledger.db"),

		OwnerNumber: getEnv("OWNER_NUMBER", ""),
	}
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
