package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mattn/go-sqlite3"

	"dealflow/internal/storage"
)

type Adapter struct {
	db     *sql.DB
	config *Config
}

func NewAdapter(config *Config) (*Adapter, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid SQLite config: %w", err)
	}

	db, err := sql.Open("sqlite3", config.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	adapter := &Adapter{
		db:     db,
		config: config,
	}

	if err := adapter.migrate(); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return adapter, nil
}

func (a *Adapter) migrate() error {
	_, err := a.db.Exec(`
		CREATE TABLE IF NOT EXISTS deal_records (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL DEFAULT '',
			sender TEXT NOT NULL,
			subject TEXT NOT NULL,
			content_hash TEXT NOT NULL UNIQUE,
			fields TEXT NOT NULL DEFAULT '',
			received_at TIMESTAMP NOT NULL,
			created_at TIMESTAMP NOT NULL
		)
	`)
	return err
}

func (a *Adapter) FindByContentHash(ctx context.Context, hash string) (*storage.DealRecord, error) {
	return a.scanOne(a.db.QueryRowContext(ctx, `
		SELECT id, user_id, sender, subject, content_hash, fields, received_at, created_at
		FROM deal_records WHERE content_hash = ?
	`, hash))
}

func (a *Adapter) Create(ctx context.Context, record *storage.DealRecord) (*storage.DealRecord, error) {
	created := *record
	created.CreatedAt = time.Now().UTC()

	_, err := a.db.ExecContext(ctx, `
		INSERT INTO deal_records (id, user_id, sender, subject, content_hash, fields, received_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, created.ID, created.UserID, created.Sender, created.Subject, created.ContentHash,
		string(created.Fields), created.ReceivedAt.UTC(), created.CreatedAt)

	if err != nil {
		if sqliteErr, ok := err.(sqlite3.Error); ok && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return nil, storage.ErrDuplicateHash
		}
		return nil, fmt.Errorf("failed to create deal record: %w", err)
	}

	return &created, nil
}

func (a *Adapter) Get(ctx context.Context, id string) (*storage.DealRecord, error) {
	return a.scanOne(a.db.QueryRowContext(ctx, `
		SELECT id, user_id, sender, subject, content_hash, fields, received_at, created_at
		FROM deal_records WHERE id = ?
	`, id))
}

func (a *Adapter) scanOne(row *sql.Row) (*storage.DealRecord, error) {
	var record storage.DealRecord
	var fields string

	err := row.Scan(&record.ID, &record.UserID, &record.Sender, &record.Subject,
		&record.ContentHash, &fields, &record.ReceivedAt, &record.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan deal record: %w", err)
	}

	if fields != "" {
		record.Fields = []byte(fields)
	}
	return &record, nil
}

func (a *Adapter) Health() error {
	return a.db.Ping()
}

func (a *Adapter) Close() error {
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}
