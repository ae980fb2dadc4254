package kvstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/bitmark-inc/logger"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

type blobRow struct {
	bun.BaseModel `bun:"table:geocache_blobs"`

	Name      string    `bun:"name,pk"`
	Value     string    `bun:"value,notnull"`
	Owner     string    `bun:"owner,notnull"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}

// SQLite stores blobs in a single bun-managed table.
type SQLite struct {
	db    *bun.DB
	owner uuid.UUID
	log   *logger.L
}

// OpenSQLite opens (creating if needed) the blob table at dsn.
func OpenSQLite(ctx context.Context, dsn string, owner uuid.UUID, opts ...Option) (*SQLite, error) {
	if dsn == "" {
		return nil, errors.New("kvstore: sqlite requires a DSN")
	}

	sqldb, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("kvstore: open sqlite: %w", err)
	}

	db := bun.NewDB(sqldb, sqlitedialect.New())

	if _, err := db.NewCreateTable().
		Model((*blobRow)(nil)).
		IfNotExists().
		Exec(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("kvstore: create blob table: %w", err)
	}

	o := buildOptions(opts)
	if o.log != nil {
		o.log.Infof("sqlite medium open at %s", dsn)
	}

	return &SQLite{db: db, owner: owner, log: o.log}, nil
}

func (s *SQLite) Get(ctx context.Context, key string) (string, bool, error) {
	var row blobRow
	err := s.db.NewSelect().
		Model(&row).
		Where("name = ?", key).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("kvstore: get %q: %w", key, err)
	}
	return row.Value, true, nil
}

func (s *SQLite) Set(ctx context.Context, key, value string) error {
	row := &blobRow{
		Name:      key,
		Value:     value,
		Owner:     s.owner.String(),
		UpdatedAt: time.Now().UTC(),
	}

	_, err := s.db.NewInsert().
		Model(row).
		On("CONFLICT (name) DO UPDATE").
		Set("value = EXCLUDED.value").
		Set("owner = EXCLUDED.owner").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("kvstore: set %q: %w", key, err)
	}
	return nil
}

func (s *SQLite) Delete(ctx context.Context, key string) error {
	_, err := s.db.NewDelete().
		Model((*blobRow)(nil)).
		Where("name = ?", key).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("kvstore: delete %q: %w", key, err)
	}
	return nil
}

// Owner returns the id of the session that last wrote key.
func (s *SQLite) Owner(ctx context.Context, key string) (uuid.UUID, error) {
	var row blobRow
	if err := s.db.NewSelect().
		Model(&row).
		Column("owner").
		Where("name = ?", key).
		Scan(ctx); err != nil {
		return uuid.Nil, fmt.Errorf("kvstore: owner of %q: %w", key, err)
	}
	return uuid.Parse(row.Owner)
}

func (s *SQLite) Close() error {
	if s.log != nil {
		s.log.Info("sqlite medium closed")
	}
	return s.db.Close()
}
