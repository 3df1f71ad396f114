package main

import (
	"os"
	"path/filepath"
	"testing"

	config "bot-marmita/configs"
	"bot-marmita/pkg/store"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	// テスト環境の設定
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func TestOpenStore(t *testing.T) {
	t.Run("memory", func(t *testing.T) {
		s, err := openStore(&config.Config{StoreDriver: "memory"})
		require.NoError(t, err)
		defer s.Close()
		assert.IsType(t, &store.MemoryStore{}, s)
	})

	t.Run("sqlite", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "ledger.db")
		s, err := openStore(&config.Config{StoreDriver: "sqlite", SQLitePath: path})
		require.NoError(t, err)
		defer s.Close()
		assert.IsType(t, &store.SQLiteStore{}, s)
		assert.FileExists(t, path)
	})

	t.Run("unknown driver", func(t *testing.T) {
		_, err := openStore(&config.Config{StoreDriver: "postgres"})
		assert.Error(t, err)
	})
}
