package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCompleter struct {
	reply        string
	err          error
	systemPrompt string
	userPrompt   string
	maxTokens    int
	temperature  float32
}

func (f *fakeCompleter) Complete(ctx context.Context, systemPrompt, userPrompt string, maxTokens int, temperature float32) (string, error) {
	f.systemPrompt = systemPrompt
	f.userPrompt = userPrompt
	f.maxTokens = maxTokens
	f.temperature = temperature
	return f.reply, f.err
}

func TestClassifierService_Classify(t *testing.T) {
	client := &fakeCompleter{reply: "  ACAO:RELATORIO\n"}
	svc := newClassifierService(client, nil)

	got, err := svc.Classify(context.Background(), "Relatório")
	require.NoError(t, err)
	assert.Equal(t, "ACAO:RELATORIO", got)

	assert.Contains(t, client.systemPrompt, "ACAO:ATUALIZAR_CUSTO|ITEM:arroz|VALOR:5")
	assert.Contains(t, client.systemPrompt, "ACAO:NAO_ENTENDI")
	assert.Contains(t, client.userPrompt, "Relatório")
	assert.Equal(t, 60, client.maxTokens)
}

func TestClassifierService_Errors(t *testing.T) {
	t.Run("transport failure", func(t *testing.T) {
		svc := newClassifierService(&fakeCompleter{err: errors.New("connection refused")}, nil)
		_, err := svc.Classify(context.Background(), "oi")
		assert.True(t, errors.Is(err, ErrClassifier))
	})

	t.Run("empty reply", func(t *testing.T) {
		svc := newClassifierService(&fakeCompleter{reply: "  \n"}, nil)
		_, err := svc.Classify(context.Background(), "oi")
		assert.True(t, errors.Is(err, ErrClassifier))
	})
}

func TestClassifierService_AzureRoundTrip(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("api-key"))

		var body map[string]interface{}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		messages, _ := body["messages"].([]interface{})
		assert.Len(t, messages, 2)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"index":0,"message":{"role":"assistant","content":"ACAO:REGISTRAR_VENDA|PRODUTO:marmita|VALOR:30|CUSTO:18"},"finish_reason":"stop"}]}`))
	}))
	defer server.Close()

	svc := NewClassifierService(server.URL, "test-key", "2024-02-01", "gpt-4o-mini", "", nil)
	raw, err := svc.Classify(context.Background(), "Venda marmita 30 custo 18")
	require.NoError(t, err)

	action, err := NewCommandParser().Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "marmita", action.Product)
	assert.Equal(t, "12", action.Value.Sub(action.Cost).String())
}
