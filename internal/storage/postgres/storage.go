package postgres

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/mcoot/banker/internal/model"
	"github.com/mcoot/banker/internal/storage"
)

//go:embed schema.sql
var schema string

const settingCurrency = "currency"

const (
	qUpsertPlayer = `insert into players(id, data) values ($1, $2)
		on conflict (id) do update set data = excluded.data`
	qUpdatePlayer  = `update players set data = $2 where id = $1`
	qGetPlayer     = `select data from players where id = $1`
	qListPlayers   = `select data from players order by position`
	qDeletePlayer  = `delete from players where id = $1`
	qInsertTx      = `insert into transactions(id, player_id, data) values ($1, $2, $3)`
	qListTxs       = `select data from transactions order by seq desc`
	qListTxsLimit  = `select data from transactions order by seq desc limit $1`
	qGetSetting    = `select value from settings where key = $1`
	qUpsertSetting = `insert into settings(key, value) values ($1, $2)
		on conflict (key) do update set value = excluded.value`
	qReset = `truncate table players, transactions, settings restart identity`
)

// Storage is a PostgreSQL-backed implementation of the storage interface
type Storage struct {
	db *sql.DB
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// New opens a connection pool, verifies it and applies the schema
func New(cfg Config) (*Storage, error) {
	db, err := sql.Open("pgx", cfg.DSN)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ConnectTimeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}

	s := NewWithDB(db)
	if err := s.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// NewWithDB creates a storage over an existing pool (for testing)
func NewWithDB(db *sql.DB) *Storage {
	return &Storage{db: db}
}

// Migrate creates the tables if they do not exist
func (s *Storage) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// Close closes the connection pool
func (s *Storage) Close() error {
	return s.db.Close()
}

// execer is satisfied by both *sql.DB and *sql.Tx
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Player operations

func (s *Storage) SavePlayer(ctx context.Context, player *model.Player) error {
	return upsertPlayer(ctx, s.db, player)
}

func upsertPlayer(ctx context.Context, ex execer, player *model.Player) error {
	data, err := json.Marshal(player)
	if err != nil {
		return err
	}
	_, err = ex.ExecContext(ctx, qUpsertPlayer, string(player.ID), data)
	return err
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, qGetPlayer, string(id)).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrPlayerNotFound
	}
	if err != nil {
		return nil, err
	}

	var player model.Player
	if err := json.Unmarshal(data, &player); err != nil {
		return nil, err
	}
	return &player, nil
}

func (s *Storage) ListPlayers(ctx context.Context) ([]*model.Player, error) {
	rows, err := s.db.QueryContext(ctx, qListPlayers)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	players := []*model.Player{}
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		var player model.Player
		if err := json.Unmarshal(data, &player); err != nil {
			return nil, err
		}
		players = append(players, &player)
	}
	return players, rows.Err()
}

func (s *Storage) DeletePlayer(ctx context.Context, id model.PlayerID) error {
	res, err := s.db.ExecContext(ctx, qDeletePlayer, string(id))
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return model.ErrPlayerNotFound
	}
	return nil
}

// Transaction operations

func (s *Storage) AppendTransaction(ctx context.Context, tx *model.Transaction) error {
	return insertTransaction(ctx, s.db, tx)
}

func insertTransaction(ctx context.Context, ex execer, tx *model.Transaction) error {
	data, err := json.Marshal(tx)
	if err != nil {
		return err
	}
	_, err = ex.ExecContext(ctx, qInsertTx, string(tx.ID), string(tx.PlayerID), data)
	return err
}

func (s *Storage) ListTransactions(ctx context.Context, limit int) ([]*model.Transaction, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if limit > 0 {
		rows, err = s.db.QueryContext(ctx, qListTxsLimit, limit)
	} else {
		rows, err = s.db.QueryContext(ctx, qListTxs)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	txs := []*model.Transaction{}
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		var tx model.Transaction
		if err := json.Unmarshal(data, &tx); err != nil {
			return nil, err
		}
		txs = append(txs, &tx)
	}
	return txs, rows.Err()
}

// CommitTransaction updates an existing player and records the transaction.
// A player deleted since it was read is not written back.
func (s *Storage) CommitTransaction(ctx context.Context, player *model.Player, t *model.Transaction) error {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	data, err := json.Marshal(player)
	if err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, qUpdatePlayer, string(player.ID), data)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return model.ErrPlayerNotFound
	}
	if err := insertTransaction(ctx, tx, t); err != nil {
		return err
	}
	return tx.Commit()
}

// Session settings

func (s *Storage) GetActiveCurrency(ctx context.Context) (model.CurrencyCode, error) {
	var code string
	err := s.db.QueryRowContext(ctx, qGetSetting, settingCurrency).Scan(&code)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return model.CurrencyCode(code), nil
}

func (s *Storage) SetActiveCurrency(ctx context.Context, code model.CurrencyCode) error {
	_, err := s.db.ExecContext(ctx, qUpsertSetting, settingCurrency, string(code))
	return err
}

func (s *Storage) Reset(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, qReset)
	return err
}
