// Package history provides persistent log of template runs
package history

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // Postgres driver
)

// Run kinds
const (
	KindExport = "export"
	KindImport = "import"
	KindClean  = "clean"
)

const schema = `
create table if not exists template_run (
  id         uuid primary key,
  guild_id   text not null,
  user_id    text not null,
  kind       text not null,
  name       text not null,
  summary    text not null,
  failures   integer not null default 0,
  started_at timestamptz not null,
  finished_at timestamptz not null
);
create index if not exists template_run_guild on template_run(guild_id, started_at desc);
`

// Entry describes a single export, clean or import run
type Entry struct {
	ID         string    `db:"id"`
	GuildID    string    `db:"guild_id"`
	UserID     string    `db:"user_id"`
	Kind       string    `db:"kind"`
	Name       string    `db:"name"`
	Summary    string    `db:"summary"`
	Failures   int       `db:"failures"`
	StartedAt  time.Time `db:"started_at"`
	FinishedAt time.Time `db:"finished_at"`
}

// Store keeps run entries in postgres
type Store struct {
	db *sqlx.DB
}

// Open connects to database using given DSN and ensures schema
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}

	store := New(db)

	err = store.Migrate(ctx)
	if err != nil {
		_ = db.Close()

		return nil, err
	}

	return store, nil
}

// New wraps existing connection
func New(db *sqlx.DB) *Store {
	return &Store{
		db: db,
	}
}

// Migrate creates missing tables
func (store *Store) Migrate(ctx context.Context) error {
	_, err := store.db.ExecContext(ctx, schema)

	return err
}

// Close closes database connection
func (store *Store) Close() error {
	return store.db.Close()
}
