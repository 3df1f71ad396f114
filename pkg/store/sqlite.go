package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"bot-marmita/pkg/models"

	"github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
)

// driverName はcasefold関数を登録したSQLiteドライバ名です。
const driverName = "sqlite3_ledger"

func init() {
	sql.Register(driverName, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			// 決定的関数として登録するとインデックス式にも使える
			return conn.RegisterFunc("casefold", foldName, true)
		},
	})
}

// Compile-time interface check.
var _ LedgerStore = (*SQLiteStore)(nil)

// SQLiteStore はSQLiteをバックエンドとする台帳ストアです。
// 金額はTEXTとして保存し、decimalで読み書きします。
type SQLiteStore struct {
	db  *sql.DB
	mu  sync.Mutex // 書き込みを直列化する
	now func() time.Time
}

// NewSQLiteStore opens (or creates) the ledger database at dbPath.
// Use ":memory:" for an in-memory database.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dbPath != ":memory:" {
		if dir := filepath.Dir(dbPath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("データディレクトリの作成に失敗: %w", err)
			}
		}
	}

	db, err := sql.Open(driverName, dbPath+"?_journal_mode=WAL&_busy_timeout=5000&_txlock=immediate")
	if err != nil {
		return nil, fmt.Errorf("データベースのオープンに失敗: %w", err)
	}
	if dbPath == ":memory:" {
		// 接続ごとに別DBになるため1本に固定
		db.SetMaxOpenConns(1)
	}

	s := &SQLiteStore{db: db, now: time.Now}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("スキーマのマイグレーションに失敗: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS ingredientes (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		nome TEXT NOT NULL,
		custo TEXT NOT NULL,
		unidade TEXT NOT NULL DEFAULT 'un',
		created_at TEXT NOT NULL
	);

	-- 同じ名前（大文字小文字無視）の食材は1件のみ
	CREATE UNIQUE INDEX IF NOT EXISTS idx_ingredientes_nome
		ON ingredientes(casefold(nome));

	CREATE TABLE IF NOT EXISTS vendas (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		produto TEXT NOT NULL,
		valor_venda TEXT NOT NULL,
		custo_producao TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_vendas_created_at ON vendas(created_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanIngredient(row scanner) (models.Ingredient, error) {
	var (
		ing       models.Ingredient
		cost      string
		createdAt string
	)
	if err := row.Scan(&ing.ID, &ing.Name, &cost, &ing.Unit, &createdAt); err != nil {
		return ing, err
	}
	var err error
	if ing.UnitCost, err = decimal.NewFromString(cost); err != nil {
		return ing, fmt.Errorf("食材 %d の原価が不正です: %w", ing.ID, err)
	}
	if ing.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return ing, fmt.Errorf("食材 %d の登録日時が不正です: %w", ing.ID, err)
	}
	return ing, nil
}

func scanSale(row scanner) (models.Sale, error) {
	var (
		sale      models.Sale
		price     string
		cost      string
		createdAt string
	)
	if err := row.Scan(&sale.ID, &sale.Product, &price, &cost, &createdAt); err != nil {
		return sale, err
	}
	var err error
	if sale.SalePrice, err = decimal.NewFromString(price); err != nil {
		return sale, fmt.Errorf("販売 %d の価格が不正です: %w", sale.ID, err)
	}
	if sale.ProductionCost, err = decimal.NewFromString(cost); err != nil {
		return sale, fmt.Errorf("販売 %d の原価が不正です: %w", sale.ID, err)
	}
	if sale.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return sale, fmt.Errorf("販売 %d の登録日時が不正です: %w", sale.ID, err)
	}
	return sale, nil
}

func (s *SQLiteStore) queryIngredients(ctx context.Context, query string, args ...any) ([]models.Ingredient, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("食材の検索に失敗: %w", err)
	}
	defer rows.Close()

	out := make([]models.Ingredient, 0)
	for rows.Next() {
		ing, err := scanIngredient(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, ing)
	}
	return out, rows.Err()
}

// FindIngredients 名前の部分一致検索（登録順）
func (s *SQLiteStore) FindIngredients(ctx context.Context, pattern string) ([]models.Ingredient, error) {
	return s.queryIngredients(ctx, `
		SELECT id, nome, custo, unidade, created_at
		FROM ingredientes
		WHERE instr(casefold(nome), casefold(?)) > 0
		ORDER BY id`, pattern)
}

// ListIngredients 全件取得（ページングなし）
func (s *SQLiteStore) ListIngredients(ctx context.Context) ([]models.Ingredient, error) {
	return s.queryIngredients(ctx, `
		SELECT id, nome, custo, unidade, created_at
		FROM ingredientes
		ORDER BY id`)
}

// UpsertIngredientCost 検索→更新/登録を1トランザクションで実行します
func (s *SQLiteStore) UpsertIngredientCost(ctx context.Context, name string, cost decimal.Decimal, unit string) (models.UpsertOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.UpsertUpdated, fmt.Errorf("トランザクション開始に失敗: %w", err)
	}
	defer tx.Rollback()

	var id int64
	err = tx.QueryRowContext(ctx, `
		SELECT id FROM ingredientes
		WHERE instr(casefold(nome), casefold(?)) > 0
		ORDER BY id
		LIMIT 1`, name).Scan(&id)

	outcome := models.UpsertUpdated
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if unit == "" {
			unit = models.DefaultUnit
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO ingredientes (nome, custo, unidade, created_at) VALUES (?, ?, ?, ?)`,
			name, cost.String(), unit, s.now().UTC().Format(time.RFC3339Nano))
		if err != nil {
			return outcome, fmt.Errorf("食材の登録に失敗: %w", err)
		}
		outcome = models.UpsertCreated
	case err != nil:
		return outcome, fmt.Errorf("食材の検索に失敗: %w", err)
	default:
		_, err = tx.ExecContext(ctx,
			`UPDATE ingredientes SET custo = ?, unidade = COALESCE(NULLIF(?, ''), unidade) WHERE id = ?`,
			cost.String(), unit, id)
		if err != nil {
			return outcome, fmt.Errorf("食材 %d の更新に失敗: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return outcome, fmt.Errorf("コミットに失敗: %w", err)
	}
	return outcome, nil
}

// InsertSale 販売記録を追加します
func (s *SQLiteStore) InsertSale(ctx context.Context, product string, salePrice, productionCost decimal.Decimal) (models.Sale, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	createdAt := s.now().UTC()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO vendas (produto, valor_venda, custo_producao, created_at) VALUES (?, ?, ?, ?)`,
		product, salePrice.String(), productionCost.String(), createdAt.Format(time.RFC3339Nano))
	if err != nil {
		return models.Sale{}, fmt.Errorf("販売の登録に失敗: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.Sale{}, fmt.Errorf("販売IDの取得に失敗: %w", err)
	}
	return models.Sale{
		ID:             id,
		Product:        product,
		SalePrice:      salePrice,
		ProductionCost: productionCost,
		CreatedAt:      createdAt,
	}, nil
}

// ListSales 全件取得（ページングなし）
func (s *SQLiteStore) ListSales(ctx context.Context) ([]models.Sale, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, produto, valor_venda, custo_producao, created_at
		FROM vendas
		ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("販売の取得に失敗: %w", err)
	}
	defer rows.Close()

	out := make([]models.Sale, 0)
	for rows.Next() {
		sale, err := scanSale(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sale)
	}
	return out, rows.Err()
}
