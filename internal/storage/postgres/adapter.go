package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"dealflow/internal/storage"
)

// uniqueViolation is the PostgreSQL error code for a unique constraint breach
const uniqueViolation = "23505"

type Adapter struct {
	db     *sql.DB
	config *Config
}

func NewAdapter(config *Config) (*Adapter, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid PostgreSQL config: %w", err)
	}

	db, err := sql.Open("pgx", config.GetConnectionString())
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
			fields JSONB,
			received_at TIMESTAMPTZ NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		)
	`)
	return err
}

func (a *Adapter) FindByContentHash(ctx context.Context, hash string) (*storage.DealRecord, error) {
	return a.scanOne(a.db.QueryRowContext(ctx, `
		SELECT id, user_id, sender, subject, content_hash, COALESCE(fields::text, ''), received_at, created_at
		FROM deal_records WHERE content_hash = $1
	`, hash))
}

func (a *Adapter) Create(ctx context.Context, record *storage.DealRecord) (*storage.DealRecord, error) {
	created := *record
	created.CreatedAt = time.Now().UTC()

	var fields interface{}
	if len(created.Fields) > 0 {
		fields = string(created.Fields)
	}

	_, err := a.db.ExecContext(ctx, `
		INSERT INTO deal_records (id, user_id, sender, subject, content_hash, fields, received_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, created.ID, created.UserID, created.Sender, created.Subject, created.ContentHash,
		fields, created.ReceivedAt.UTC(), created.CreatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, storage.ErrDuplicateHash
		}
		return nil, fmt.Errorf("failed to create deal record: %w", err)
	}

	return &created, nil
}

func (a *Adapter) Get(ctx context.Context, id string) (*storage.DealRecord, error) {
	return a.scanOne(a.db.QueryRowContext(ctx, `
		SELECT id, user_id, sender, subject, content_hash, COALESCE(fields::text, ''), received_at, created_at
		FROM deal_records WHERE id = $1
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
