package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/hyperjump/vta/internal/models"
)

const postColumns = `id, title, author, created_at, content, url, category, replies, likes`

// SQLiteStorage implements Storage using SQLite.
type SQLiteStorage struct {
	db *sqlx.DB
}

// NewSQLiteStorage opens or creates a SQLite database at dbPath and initializes the schema.
// Parent directories are created if they do not exist.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := sqlx.Connect("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteStorage{db: db}, nil
}

func initSchema(db *sqlx.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS scrape_runs (
		id TEXT PRIMARY KEY,
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		category TEXT NOT NULL,
		post_count INTEGER NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_runs_created_at ON scrape_runs(created_at);

	CREATE TABLE IF NOT EXISTS posts (
		id INTEGER PRIMARY KEY,
		title TEXT NOT NULL,
		author TEXT,
		created_at TIMESTAMP NOT NULL,
		content TEXT NOT NULL,
		url TEXT,
		category TEXT,
		replies INTEGER NOT NULL DEFAULT 0,
		likes INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_posts_created_at ON posts(created_at);
	CREATE INDEX IF NOT EXISTS idx_posts_category ON posts(category);
	`
	_, err := db.Exec(schema)
	return err
}

// CreateRun inserts a scrape run. CreatedAt is set when zero.
func (s *SQLiteStorage) CreateRun(ctx context.Context, run *models.ScrapeRun) error {
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.NamedExecContext(ctx,
		`INSERT INTO scrape_runs (id, start_date, end_date, category, post_count, created_at)
		 VALUES (:id, :start_date, :end_date, :category, :post_count, :created_at)`,
		run,
	)
	if err != nil {
		return fmt.Errorf("failed to insert run %s: %w", run.ID, err)
	}
	return nil
}

// ListRuns returns the most recent runs first.
func (s *SQLiteStorage) ListRuns(ctx context.Context, limit int) ([]*models.ScrapeRun, error) {
	var runs []*models.ScrapeRun
	err := s.db.SelectContext(ctx, &runs,
		`SELECT id, start_date, end_date, category, post_count, created_at
		 FROM scrape_runs ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	return runs, nil
}

// SavePosts upserts posts by id in a single transaction.
func (s *SQLiteStorage) SavePosts(ctx context.Context, posts []models.Post) error {
	if len(posts) == 0 {
		return nil
	}
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareNamedContext(ctx,
		`INSERT INTO posts (`+postColumns+`)
		 VALUES (:id, :title, :author, :created_at, :content, :url, :category, :replies, :likes)
		 ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			author = excluded.author,
			created_at = excluded.created_at,
			content = excluded.content,
			url = excluded.url,
			category = excluded.category,
			replies = excluded.replies,
			likes = excluded.likes`)
	if err != nil {
		return fmt.Errorf("failed to prepare upsert: %w", err)
	}
	defer stmt.Close()

	for i := range posts {
		p := posts[i]
		p.CreatedAt = p.CreatedAt.UTC()
		if _, err := stmt.ExecContext(ctx, &p); err != nil {
			return fmt.Errorf("failed to save post %d: %w", p.ID, err)
		}
	}
	return tx.Commit()
}

// GetPost returns a post by ID.
func (s *SQLiteStorage) GetPost(ctx context.Context, id int64) (*models.Post, error) {
	var p models.Post
	err := s.db.GetContext(ctx, &p, `SELECT `+postColumns+` FROM posts WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("post %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetPosts returns the posts with the given IDs in the order of ids.
// Unknown IDs are skipped.
func (s *SQLiteStorage) GetPosts(ctx context.Context, ids []int64) ([]*models.Post, error) {
	if len(ids) == 0 {
		return []*models.Post{}, nil
	}
	query, args, err := sqlx.In(`SELECT `+postColumns+` FROM posts WHERE id IN (?)`, ids)
	if err != nil {
		return nil, err
	}
	var found []*models.Post
	if err := s.db.SelectContext(ctx, &found, s.db.Rebind(query), args...); err != nil {
		return nil, err
	}
	byID := make(map[int64]*models.Post, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}
	out := make([]*models.Post, 0, len(found))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

// ListPosts returns posts newest first with offset and limit.
func (s *SQLiteStorage) ListPosts(ctx context.Context, offset, limit int) ([]*models.Post, error) {
	var posts []*models.Post
	err := s.db.SelectContext(ctx, &posts,
		`SELECT `+postColumns+` FROM posts ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`,
		limit, offset,
	)
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// CountPosts returns the number of archived posts.
func (s *SQLiteStorage) CountPosts(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM posts`)
	return n, err
}

// CountRuns returns the number of recorded scrape runs.
func (s *SQLiteStorage) CountRuns(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM scrape_runs`)
	return n, err
}

// Close closes the database.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}
