package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	config "bot-marmita/configs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWPPConnectSender_Send(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/bot-marmitas/send-message", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		var body sendMessageRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "5511988887777", body.Phone)
		assert.Equal(t, "Custo atualizado com sucesso!", body.Message)
		assert.False(t, body.IsGroup)

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"status":"success"}`))
	}))
	defer server.Close()

	sender := NewWPPConnectSender(&config.WPPConnectConfig{BaseURL: server.URL + "/", Session: "bot-marmitas", Token: "secret"})
	err := sender.Send(context.Background(), "5511988887777@c.us", "Custo atualizado com sucesso!")
	require.NoError(t, err)
}

func TestWPPConnectSender_Error(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"status":"error","message":"Token is not present"}`))
	}))
	defer server.Close()

	sender := NewWPPConnectSender(&config.WPPConnectConfig{BaseURL: server.URL, Session: "bot-marmitas"})
	err := sender.Send(context.Background(), "5511988887777@c.us", "oi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Token is not present")
}
