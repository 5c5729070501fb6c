// Package store is the Entity Store: it opens the SQLite database, applies
// migrations, and exposes the per-collection repositories together with the
// operations that span more than one record or collection.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"time"

	"github.com/dmitrijs2005/scholarkeeper/internal/dbx"
	"github.com/dmitrijs2005/scholarkeeper/internal/filex"
	"github.com/dmitrijs2005/scholarkeeper/internal/logging"
	"github.com/dmitrijs2005/scholarkeeper/internal/migrations"
	"github.com/dmitrijs2005/scholarkeeper/internal/repositories/checklist"
	"github.com/dmitrijs2005/scholarkeeper/internal/repositories/documents"
	"github.com/dmitrijs2005/scholarkeeper/internal/repositories/metadata"
	"github.com/dmitrijs2005/scholarkeeper/internal/repositories/scholarships"
	"github.com/dmitrijs2005/scholarkeeper/internal/repositories/templates"

	_ "modernc.org/sqlite"
)

// Repositories groups the collection repositories bound to one DBTX.
type Repositories struct {
	Scholarships scholarships.Repository
	Checklist    checklist.Repository
	Documents    documents.Repository
	Templates    templates.Repository
	Metadata     metadata.Repository
}

// NewRepositories binds every repository to db.
func NewRepositories(db dbx.DBTX, now func() time.Time) *Repositories {
	return &Repositories{
		Scholarships: scholarships.NewSQLiteRepository(db, now),
		Checklist:    checklist.NewSQLiteRepository(db, now),
		Documents:    documents.NewSQLiteRepository(db, now),
		Templates:    templates.NewSQLiteRepository(db, now),
		Metadata:     metadata.NewSQLiteRepository(db),
	}
}

type Store struct {
	*Repositories

	db     *sql.DB
	now    func() time.Time
	logger logging.Logger
}

type Option func(*Store)

// WithClock overrides the time source used for every timestamp the store writes.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithLogger(l logging.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// Open opens (creating if needed) the SQLite database at dsn and migrates it.
// A dsn of ":memory:" gives a private throwaway database.
func Open(ctx context.Context, dsn string, opts ...Option) (*Store, error) {
	if dsn != ":memory:" {
		if err := filex.EnsureDir(filepath.Dir(dsn)); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	if err := migrations.Up(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return New(db, opts...), nil
}

// New wraps an already migrated database. The pool is limited to a single
// connection: SQLite serialises writers anyway and :memory: databases exist
// per connection.
func New(db *sql.DB, opts ...Option) *Store {
	db.SetMaxOpenConns(1)
	s := &Store{db: db, now: time.Now, logger: logging.Nop()}
	for _, opt := range opts {
		opt(s)
	}
	s.Repositories = NewRepositories(db, s.now)
	return s
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Now reports the store clock.
func (s *Store) Now() time.Time {
	return s.now()
}

// WithTx runs fn against repositories bound to a single transaction. The
// transaction commits when fn returns nil and rolls back otherwise. fn must
// only use the repositories it is given.
func (s *Store) WithTx(ctx context.Context, fn func(ctx context.Context, r *Repositories) error) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return fn(ctx, NewRepositories(tx, s.now))
	})
}

// ClearAll empties every entity collection. The metadata table is kept, so the
// seed marker survives.
func (s *Store) ClearAll(ctx context.Context) error {
	err := s.WithTx(ctx, func(ctx context.Context, r *Repositories) error {
		if err := r.Checklist.Clear(ctx); err != nil {
			return err
		}
		if err := r.Scholarships.Clear(ctx); err != nil {
			return err
		}
		if err := r.Documents.Clear(ctx); err != nil {
			return err
		}
		return r.Templates.Clear(ctx)
	})
	if err != nil {
		return err
	}
	s.logger.Info(ctx, "store cleared")
	return nil
}
