package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/dealmungchi/barebonecrawler/pkg/errors"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// SQLStore keeps tabs in two tables, one row per tab and one per table row.
// Header and cells are stored as JSON arrays.
type SQLStore struct {
	db     *sql.DB
	driver string
}

var _ TableStore = (*SQLStore)(nil)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS tabs (
		name       TEXT      PRIMARY KEY,
		header     TEXT      NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS tab_rows (
		tab      TEXT    NOT NULL,
		position INTEGER NOT NULL,
		cells    TEXT    NOT NULL,
		PRIMARY KEY (tab, position)
	)`,
}

// Open connects to driver ("sqlite" or "postgres") and creates the schema
func Open(ctx context.Context, driver, dsn string) (*SQLStore, error) {
	switch driver {
	case DriverSQLite, DriverPostgres:
	default:
		return nil, apperrors.NewStore("", fmt.Sprintf("unknown driver %q", driver), nil)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, apperrors.NewStore("", "open", err)
	}
	if driver == DriverSQLite {
		// an in-memory database lives and dies with its single connection
		db.SetMaxOpenConns(1)
	}

	for i := 0; i < 5; i++ {
		if err = db.PingContext(ctx); err == nil {
			break
		}
		select {
		case <-ctx.Done():
			db.Close()
			return nil, apperrors.NewStore("", "ping", ctx.Err())
		case <-time.After(2 * time.Second):
		}
	}
	if err != nil {
		db.Close()
		return nil, apperrors.NewStore("", "ping failed after retries", err)
	}

	s := &SQLStore{db: db, driver: driver}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLStore) migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return apperrors.NewStore("", "migrate", err)
		}
	}
	return nil
}

// rebind rewrites "?" placeholders to "$n" for postgres
func rebind(driver, query string) string {
	if driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (s *SQLStore) q(query string) string {
	return rebind(s.driver, query)
}

// ReplaceTab writes t in one transaction
func (s *SQLStore) ReplaceTab(ctx context.Context, t Table) error {
	if t.Name == "" {
		return apperrors.NewStore("", "replace tab", errors.New("empty tab name"))
	}
	header, err := json.Marshal(t.Header)
	if err != nil {
		return apperrors.NewStore(t.Name, "encode header", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return apperrors.NewStore(t.Name, "begin", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, s.q(`DELETE FROM tab_rows WHERE tab = ?`), t.Name); err != nil {
		return apperrors.NewStore(t.Name, "clear rows", err)
	}
	if _, err := tx.ExecContext(ctx, s.q(`
		INSERT INTO tabs (name, header, updated_at) VALUES (?, ?, ?)
		ON CONFLICT (name) DO UPDATE SET header = excluded.header, updated_at = excluded.updated_at
	`), t.Name, string(header), time.Now().UTC()); err != nil {
		return apperrors.NewStore(t.Name, "upsert tab", err)
	}

	stmt, err := tx.PrepareContext(ctx, s.q(`INSERT INTO tab_rows (tab, position, cells) VALUES (?, ?, ?)`))
	if err != nil {
		return apperrors.NewStore(t.Name, "prepare rows", err)
	}
	defer stmt.Close()

	for i, row := range t.Rows {
		cells, err := json.Marshal(row)
		if err != nil {
			return apperrors.NewStore(t.Name, "encode row", err)
		}
		if _, err := stmt.ExecContext(ctx, t.Name, i, string(cells)); err != nil {
			return apperrors.NewStore(t.Name, fmt.Sprintf("insert row %d", i), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return apperrors.NewStore(t.Name, "commit", err)
	}
	return nil
}

// ReadTab returns the tab called name
func (s *SQLStore) ReadTab(ctx context.Context, name string) (Table, error) {
	var header string
	err := s.db.QueryRowContext(ctx, s.q(`SELECT header FROM tabs WHERE name = ?`), name).Scan(&header)
	if errors.Is(err, sql.ErrNoRows) {
		return Table{}, apperrors.NewStore(name, "read tab", ErrTabNotFound)
	}
	if err != nil {
		return Table{}, apperrors.NewStore(name, "read tab", err)
	}

	t := Table{Name: name}
	if err := json.Unmarshal([]byte(header), &t.Header); err != nil {
		return Table{}, apperrors.NewStore(name, "decode header", err)
	}

	rows, err := s.db.QueryContext(ctx, s.q(`SELECT cells FROM tab_rows WHERE tab = ? ORDER BY position`), name)
	if err != nil {
		return Table{}, apperrors.NewStore(name, "read rows", err)
	}
	defer rows.Close()

	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return Table{}, apperrors.NewStore(name, "scan row", err)
		}
		var cells []string
		if err := json.Unmarshal([]byte(raw), &cells); err != nil {
			return Table{}, apperrors.NewStore(name, "decode row", err)
		}
		t.Rows = append(t.Rows, cells)
	}
	if err := rows.Err(); err != nil {
		return Table{}, apperrors.NewStore(name, "read rows", err)
	}
	return t, nil
}

// ListTabs returns all tab names
func (s *SQLStore) ListTabs(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM tabs ORDER BY name`)
	if err != nil {
		return nil, apperrors.NewStore("", "list tabs", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, apperrors.NewStore("", "scan tab name", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStore("", "list tabs", err)
	}
	return names, nil
}

// DeleteTab removes a tab; deleting a missing tab is not an error
func (s *SQLStore) DeleteTab(ctx context.Context, name string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return apperrors.NewStore(name, "begin", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, s.q(`DELETE FROM tab_rows WHERE tab = ?`), name); err != nil {
		return apperrors.NewStore(name, "delete rows", err)
	}
	if _, err := tx.ExecContext(ctx, s.q(`DELETE FROM tabs WHERE name = ?`), name); err != nil {
		return apperrors.NewStore(name, "delete tab", err)
	}
	if err := tx.Commit(); err != nil {
		return apperrors.NewStore(name, "commit", err)
	}
	return nil
}

// Close closes the database
func (s *SQLStore) Close() error {
	return s.db.Close()
}
