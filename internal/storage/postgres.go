package storage

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

const defaultTable = "kv_entries"

var tableNameRe = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

type PostgresStore struct {
	db    *pgxpool.Pool
	table string
}

// NewPostgresStore connects to dbURL and makes sure the entries table exists.
func NewPostgresStore(ctx context.Context, dbURL, table string) (*PostgresStore, error) {
	const op = "storage.NewPostgresStore"

	if table == "" {
		table = defaultTable
	}
	if !tableNameRe.MatchString(table) {
		return nil, fmt.Errorf("%s: invalid table name %q", op, table)
	}

	conn, err := pgxpool.Connect(ctx, dbURL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	p := &PostgresStore{
		db:    conn,
		table: table,
	}

	if err := p.migrate(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return p, nil
}

func (p *PostgresStore) migrate(ctx context.Context) error {
	query := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	key   TEXT PRIMARY KEY,
	value BYTEA NOT NULL
);`, p.table)

	_, err := p.db.Exec(ctx, query)
	return err
}

func (p *PostgresStore) Get(ctx context.Context, key Key) ([]byte, error) {
	const op = "storage.PostgresStore.Get"

	var value []byte
	query := fmt.Sprintf("SELECT value FROM %s WHERE key=$1;", p.table)

	err := p.db.QueryRow(ctx, query, key.Encode()).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return value, nil
}

func (p *PostgresStore) Set(ctx context.Context, key Key, value []byte) error {
	const op = "storage.PostgresStore.Set"

	query := fmt.Sprintf(`INSERT INTO %s(key, value) VALUES ($1, $2)
	ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value;`, p.table)

	if _, err := p.db.Exec(ctx, query, key.Encode(), value); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (p *PostgresStore) Delete(ctx context.Context, key Key) error {
	const op = "storage.PostgresStore.Delete"

	query := fmt.Sprintf("DELETE FROM %s WHERE key=$1;", p.table)
	if _, err := p.db.Exec(ctx, query, key.Encode()); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (p *PostgresStore) List(ctx context.Context, prefix Key) ([]Entry, error) {
	const op = "storage.PostgresStore.List"

	query := fmt.Sprintf(`SELECT key, value FROM %s WHERE starts_with(key, $1) ORDER BY key COLLATE "C";`, p.table)

	rows, err := p.db.Query(ctx, query, listPrefix(prefix))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			raw   string
			value []byte
		)
		if err := rows.Scan(&raw, &value); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		key, err := DecodeKey(raw)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		entries = append(entries, Entry{Key: key, Value: value})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s (rows): %w", op, err)
	}

	return entries, nil
}

func (p *PostgresStore) Close() error {
	p.db.Close()
	return nil
}
