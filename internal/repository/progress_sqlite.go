package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"surveyflow/internal/model"
)

// SQLiteProgressRepo keeps progress records in a local SQLite file
type SQLiteProgressRepo struct {
	conn *sql.DB
}

// NewSQLiteProgressRepo opens dbPath and creates the progress table if needed
func NewSQLiteProgressRepo(dbPath string) (*SQLiteProgressRepo, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	if err = db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	if err = createProgressTable(db); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteProgressRepo{conn: db}, nil
}

func createProgressTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS progress (
			session_id TEXT PRIMARY KEY,
			catalog_id TEXT NOT NULL,
			answers TEXT NOT NULL,
			saved_at INTEGER NOT NULL
		)
	`)
	return err
}

// Close closes the database connection
func (r *SQLiteProgressRepo) Close() error {
	return r.conn.Close()
}

func (r *SQLiteProgressRepo) SaveProgress(ctx context.Context, p *model.Progress) error {
	if p.SavedAt.IsZero() {
		p.SavedAt = time.Now()
	}
	answers, err := json.Marshal(p.Answers)
	if err != nil {
		return err
	}

	_, err = r.conn.ExecContext(ctx,
		"INSERT OR REPLACE INTO progress (session_id, catalog_id, answers, saved_at) VALUES (?, ?, ?, ?)",
		p.SessionID, p.CatalogID, string(answers), p.SavedAt.UnixMilli(),
	)
	return err
}

func (r *SQLiteProgressRepo) GetProgress(ctx context.Context, sessionID string) (*model.Progress, error) {
	var (
		p       model.Progress
		answers string
		savedAt int64
	)
	err := r.conn.QueryRowContext(ctx,
		"SELECT session_id, catalog_id, answers, saved_at FROM progress WHERE session_id = ?",
		sessionID,
	).Scan(&p.SessionID, &p.CatalogID, &answers, &savedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(answers), &p.Answers); err != nil {
		return nil, err
	}
	p.SavedAt = time.UnixMilli(savedAt)
	return &p, nil
}
