package uploads

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
	CREATE TABLE IF NOT EXISTS files (
		user_id TEXT NOT NULL,
		idx INTEGER NOT NULL,
		video_id TEXT NOT NULL,
		video_link TEXT,
		video_file_path TEXT,
		language TEXT,
		created_at REAL NOT NULL,
		PRIMARY KEY (user_id, idx)
	);
`

type implStore struct {
	db *sql.DB
}

// Open opens (creating if needed) the upload database at path.
// ":memory:" gives a private in-memory database.
func Open(path string) (Store, error) {
	dsn := path
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("create database dir: %w", err)
		}
		dsn = fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// One writer at a time; also keeps a ":memory:" database on a single connection.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &implStore{db: db}, nil
}

func (s *implStore) Close() error {
	return s.db.Close()
}

// MakeVideoID builds the public identifier of an upload.
func MakeVideoID(user string, idx int) string {
	return fmt.Sprintf("%s_%d", user, idx)
}

func (s *implStore) NextIndex(ctx context.Context, user string) (int, error) {
	var last sql.NullInt64
	err := s.db.QueryRowContext(ctx, `SELECT MAX(idx) FROM files WHERE user_id = ?`, user).Scan(&last)
	if err != nil {
		return 0, fmt.Errorf("query max index: %w", err)
	}
	return int(last.Int64) + 1, nil
}

func (s *implStore) Create(ctx context.Context, rec Record) (Record, error) {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}

	err := s.db.QueryRowContext(ctx, `
		INSERT INTO files (user_id, idx, video_id, video_link, video_file_path, language, created_at)
		SELECT ?, n, ? || '_' || n, ?, ?, ?, ?
		FROM (SELECT COALESCE(MAX(idx), 0) + 1 AS n FROM files WHERE user_id = ?)
		RETURNING idx, video_id
	`, rec.UserID, rec.UserID, nullString(rec.VideoLink), nullString(rec.FilePath),
		nullString(rec.Language), unixFromTime(rec.CreatedAt), rec.UserID).Scan(&rec.Index, &rec.VideoID)
	if err != nil {
		return Record{}, fmt.Errorf("create upload for %s: %w", rec.UserID, err)
	}
	return rec, nil
}

func (s *implStore) Insert(ctx context.Context, rec Record) error {
	if rec.VideoID == "" {
		rec.VideoID = MakeVideoID(rec.UserID, rec.Index)
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO files (user_id, idx, video_id, video_link, video_file_path, language, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, rec.UserID, rec.Index, rec.VideoID, nullString(rec.VideoLink), nullString(rec.FilePath),
		nullString(rec.Language), unixFromTime(rec.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert upload %s: %w", rec.VideoID, err)
	}
	return nil
}

func (s *implStore) ListByUser(ctx context.Context, user string) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT user_id, idx, video_id, video_link, video_file_path, language, created_at
		FROM files
		WHERE user_id = ?
		ORDER BY idx ASC
	`, user)
	if err != nil {
		return nil, fmt.Errorf("query uploads: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (s *implStore) Get(ctx context.Context, user string, idx int) (Record, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT user_id, idx, video_id, video_link, video_file_path, language, created_at
		FROM files
		WHERE user_id = ? AND idx = ?
	`, user, idx)

	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	return rec, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (Record, error) {
	var (
		rec                      Record
		link, filePath, language sql.NullString
		createdAt                float64
	)
	if err := row.Scan(&rec.UserID, &rec.Index, &rec.VideoID, &link, &filePath, &language, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Record{}, err
		}
		return Record{}, fmt.Errorf("scan upload: %w", err)
	}

	rec.VideoLink = link.String
	rec.FilePath = filePath.String
	rec.Language = language.String
	rec.CreatedAt = timeFromUnix(createdAt)
	return rec, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func unixFromTime(t time.Time) float64 {
	return float64(t.UnixNano()) / 1e9
}

func timeFromUnix(ts float64) time.Time {
	sec := int64(ts)
	nsec := int64((ts - float64(sec)) * 1e9)
	return time.Unix(sec, nsec)
}
