package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"github.com/aucklandcodernz/sb1-71bsk7t2-sub002/internal/domain"
	"github.com/aucklandcodernz/sb1-71bsk7t2-sub002/internal/ports"
)

// Client implements ports.SnapshotStore by keeping the whole state as one
// JSON row in the blip_snapshots table, keyed by storage key.
type Client struct {
	db  *sql.DB
	key string
	log *slog.Logger
}

// NewClient opens a MySQL connection using the provided DSN.
// Example DSN: user:pass@tcp(host:3306)/dbname?parseTime=true&multiStatements=true
func NewClient(ctx context.Context, dsn, key string, log *slog.Logger) (*Client, error) {
	if dsn == "" {
		return nil, errors.New("mysql: DSN is required")
	}
	if key == "" {
		return nil, errors.New("mysql: storage key is required")
	}
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}
	// A single writer; a handful of connections is plenty.
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(30 * time.Minute)

	c, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(c); err != nil {
		db.Close()
		return nil, err
	}
	return &Client{db: db, key: key, log: log}, nil
}

// Load returns the snapshot stored under the client's key.
func (c *Client) Load(ctx context.Context) (domain.State, bool, error) {
	var payload []byte
	err := c.db.QueryRowContext(ctx,
		"SELECT payload FROM blip_snapshots WHERE storage_key = ?", c.key,
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.State{}, false, nil
	}
	if err != nil {
		return domain.State{}, false, err
	}
	var st domain.State
	if err := json.Unmarshal(payload, &st); err != nil {
		return domain.State{}, false, fmt.Errorf("mysql: decoding snapshot %q: %w", c.key, err)
	}
	return st, true, nil
}

// Save upserts the snapshot, replacing any previous payload for the key.
func (c *Client) Save(ctx context.Context, state domain.State) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return err
	}
	const q = `
INSERT INTO blip_snapshots
  (storage_key, payload, saved_at)
VALUES
  (?, ?, ?)
ON DUPLICATE KEY UPDATE
  payload=VALUES(payload),
  saved_at=VALUES(saved_at);
`
	if _, err := c.db.ExecContext(ctx, q, c.key, string(payload), time.Now().UTC()); err != nil {
		return err
	}
	c.log.Debug("mysql snapshot upserted", slog.String("key", c.key), slog.Int("sessions", len(state.Sessions)))
	return nil
}

// Close closes the underlying DB. Not part of ports.SnapshotStore.
func (c *Client) Close() error { return c.db.Close() }

var _ ports.SnapshotStore = (*Client)(nil)
