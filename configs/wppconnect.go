package config

// WPPConnectConfig WPPConnect Server（WhatsApp送信ゲートウェイ）の設定
type WPPConnectConfig struct {
	BaseURL string
	Session string
	Token   string
}

// GetWPPConnectConfig WPPConnect設定を取得
func GetWPPConnectConfig() *WPPConnectConfig {
	return &WPPConnectConfig{
		BaseURL: getEnv("WPP_BASE_URL", "http://localhost:21465"),
		Session: getEnv("WPP_SESSION", "bot-marmitas"),
		Token:   getEnv("WPP_TOKEN", ""),
	}
}
