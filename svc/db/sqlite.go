package db

import (
	"context"
	"database/sql"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"clipshare/pkg/domain"
)

const (
	defaultMaxOpenConns = 25
	defaultMaxIdleConns = 5
	defaultQueryTimeout = 5 * time.Second
)

type SQLite struct {
	db           *sql.DB
	queryTimeout time.Duration
}

func (s *SQLite) DB() *sql.DB {
	return s.db
}

func NewSQLite(path string) (*SQLite, error) {
	return NewSQLiteWithConfig(path, defaultMaxOpenConns, defaultMaxIdleConns, defaultQueryTimeout)
}

func NewSQLiteWithConfig(path string, maxOpenConns, maxIdleConns int, queryTimeout time.Duration) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open db")
	}
	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxLifetime(1 * time.Hour)
	db.SetConnMaxIdleTime(10 * time.Minute)
	if err := db.Ping(); err != nil {
		return nil, errors.Wrap(err, "failed to ping db")
	}
	s := &SQLite{
		db:           db,
		queryTimeout: queryTimeout,
	}
	if err := s.migrate(); err != nil {
		return nil, errors.Wrap(err, "migration failed")
	}
	return s, nil
}

func (s *SQLite) migrate() error {
	if _, err := s.db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return errors.Wrap(err, "enable WAL mode")
	}
	if _, err := s.db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		return errors.Wrap(err, "set busy timeout")
	}
	if _, err := s.db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return errors.Wrap(err, "enable foreign keys")
	}
	query := `
	CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		linkedin TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL
	);
	CREATE TABLE IF NOT EXISTS clipboard_items (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		owner_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		content TEXT NOT NULL,
		is_shared INTEGER NOT NULL DEFAULT 0,
		share_code TEXT UNIQUE,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_items_owner ON clipboard_items(owner_id);
	`
	_, err := s.db.Exec(query)
	return err
}

type UserRow struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	LinkedIn     string
	CreatedAt    time.Time
}

func (u *UserRow) Public() *domain.User {
	return &domain.User{ID: u.ID, Name: u.Name, Email: u.Email, LinkedIn: u.LinkedIn}
}

func (s *SQLite) CreateUser(ctx context.Context, name, email, passwordHash, linkedin string) (*UserRow, error) {
	queryCtx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()
	now := time.Now().UTC()
	q := `INSERT INTO users (name, email, password_hash, linkedin, created_at) VALUES (?, ?, ?, ?, ?)`
	res, err := s.db.ExecContext(queryCtx, q, name, email, passwordHash, linkedin, now)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrEmailTaken
		}
		return nil, errors.Wrap(err, "create user")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, errors.Wrap(err, "user insert id")
	}
	return &UserRow{ID: id, Name: name, Email: email, PasswordHash: passwordHash, LinkedIn: linkedin, CreatedAt: now}, nil
}

func (s *SQLite) UserByEmail(ctx context.Context, email string) (*UserRow, error) {
	queryCtx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()
	q := `SELECT id, name, email, password_hash, linkedin, created_at FROM users WHERE email = ?`
	var u UserRow
	err := s.db.QueryRowContext(queryCtx, q, email).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.LinkedIn, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "user by email")
	}
	return &u, nil
}

func (s *SQLite) UserByID(ctx context.Context, id int64) (*UserRow, error) {
	queryCtx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()
	q := `SELECT id, name, email, password_hash, linkedin, created_at FROM users WHERE id = ?`
	var u UserRow
	err := s.db.QueryRowContext(queryCtx, q, id).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.LinkedIn, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "user by id")
	}
	return &u, nil
}

const itemColumns = `id, content, is_shared, share_code, created_at, updated_at`

func scanItem(row interface{ Scan(...any) error }) (*domain.ClipboardItem, error) {
	var it domain.ClipboardItem
	var shared int
	var code sql.NullString
	if err := row.Scan(&it.ID, &it.Content, &shared, &code, &it.CreatedAt, &it.UpdatedAt); err != nil {
		return nil, err
	}
	it.IsShared = shared != 0
	if code.Valid {
		it.ShareCode = &code.String
	}
	return &it, nil
}

func (s *SQLite) CreateItem(ctx context.Context, ownerID int64, content string) (*domain.ClipboardItem, error) {
	queryCtx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()
	now := time.Now().UTC()
	q := `INSERT INTO clipboard_items (owner_id, content, created_at, updated_at) VALUES (?, ?, ?, ?)`
	res, err := s.db.ExecContext(queryCtx, q, ownerID, content, now, now)
	if err != nil {
		return nil, errors.Wrap(err, "create item")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, errors.Wrap(err, "item insert id")
	}
	return &domain.ClipboardItem{ID: id, Content: content, CreatedAt: now, UpdatedAt: now}, nil
}

// ItemsByOwner lists the owner's items newest-first by last modification,
// matching the order the dashboard presents.
func (s *SQLite) ItemsByOwner(ctx context.Context, ownerID int64) ([]domain.ClipboardItem, error) {
	queryCtx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()
	q := `SELECT ` + itemColumns + ` FROM clipboard_items WHERE owner_id = ? ORDER BY updated_at DESC, id DESC`
	rows, err := s.db.QueryContext(queryCtx, q, ownerID)
	if err != nil {
		return nil, errors.Wrap(err, "list items")
	}
	defer rows.Close()
	items := make([]domain.ClipboardItem, 0)
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scan item")
		}
		items = append(items, *it)
	}
	return items, errors.Wrap(rows.Err(), "iterate items")
}

func (s *SQLite) ItemByID(ctx context.Context, ownerID, id int64) (*domain.ClipboardItem, error) {
	queryCtx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()
	q := `SELECT ` + itemColumns + ` FROM clipboard_items WHERE id = ? AND owner_id = ?`
	it, err := scanItem(s.db.QueryRowContext(queryCtx, q, id, ownerID))
	if err == sql.ErrNoRows {
		return nil, domain.ErrItemNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "item by id")
	}
	return it, nil
}

func (s *SQLite) UpdateItemContent(ctx context.Context, ownerID, id int64, content string) (*domain.ClipboardItem, error) {
	queryCtx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()
	now := time.Now().UTC()
	q := `UPDATE clipboard_items SET content = ?, updated_at = ? WHERE id = ? AND owner_id = ?`
	res, err := s.db.ExecContext(queryCtx, q, content, now, id, ownerID)
	if err != nil {
		return nil, errors.Wrap(err, "update item")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, errors.Wrap(err, "update rows affected")
	}
	if n == 0 {
		return nil, domain.ErrItemNotFound
	}
	return s.ItemByID(ctx, ownerID, id)
}

func (s *SQLite) DeleteItem(ctx context.Context, ownerID, id int64) error {
	queryCtx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()
	q := `DELETE FROM clipboard_items WHERE id = ? AND owner_id = ?`
	res, err := s.db.ExecContext(queryCtx, q, id, ownerID)
	if err != nil {
		return errors.Wrap(err, "delete item")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "delete rows affected")
	}
	if n == 0 {
		return domain.ErrItemNotFound
	}
	return nil
}

// SetShareCode marks the item shared under code, replacing any prior code.
// The UNIQUE constraint on share_code is the last line of defense against a
// generator collision.
func (s *SQLite) SetShareCode(ctx context.Context, ownerID, id int64, code string) error {
	queryCtx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()
	q := `UPDATE clipboard_items SET is_shared = 1, share_code = ? WHERE id = ? AND owner_id = ?`
	res, err := s.db.ExecContext(queryCtx, q, code, id, ownerID)
	if err != nil {
		return errors.Wrap(err, "set share code")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "share rows affected")
	}
	if n == 0 {
		return domain.ErrItemNotFound
	}
	return nil
}

func (s *SQLite) ClearShareCode(ctx context.Context, ownerID, id int64) error {
	queryCtx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()
	q := `UPDATE clipboard_items SET is_shared = 0, share_code = NULL WHERE id = ? AND owner_id = ?`
	res, err := s.db.ExecContext(queryCtx, q, id, ownerID)
	if err != nil {
		return errors.Wrap(err, "clear share code")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "unshare rows affected")
	}
	if n == 0 {
		return domain.ErrItemNotFound
	}
	return nil
}

func (s *SQLite) ShareCodeExists(ctx context.Context, code string) (bool, error) {
	queryCtx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()
	var one int
	q := `SELECT 1 FROM clipboard_items WHERE share_code = ? LIMIT 1`
	err := s.db.QueryRowContext(queryCtx, q, code).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrap(err, "share code exists")
	}
	return true, nil
}

// ViewByShareCode resolves a live share code to its read-only projection.
// The lookup is exact: codes are generated uppercase and compared as stored.
func (s *SQLite) ViewByShareCode(ctx context.Context, code string) (*domain.SharedView, error) {
	queryCtx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()
	q := `
	SELECT u.name, i.content, i.created_at
	FROM clipboard_items i
	JOIN users u ON u.id = i.owner_id
	WHERE i.share_code = ? AND i.is_shared = 1
	`
	var v domain.SharedView
	err := s.db.QueryRowContext(queryCtx, q, code).Scan(&v.OwnerName, &v.Content, &v.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, domain.ErrInvalidShareCode
	}
	if err != nil {
		return nil, errors.Wrap(err, "view by share code")
	}
	return &v, nil
}

func (s *SQLite) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

func isUniqueViolation(err error) bool {
	// mattn/go-sqlite3 reports constraint failures with this text; matching
	// on it avoids importing the driver's error types here.
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
