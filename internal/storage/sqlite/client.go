// Package sqlite persists assessment records. Writes are best-effort from
// the caller's point of view: a failed insert is logged and never blocks the
// computed result from being returned.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/protect-ed/backend/internal/storage/models"
	"github.com/protect-ed/backend/pkg/logger"
)

type Client struct {
	db *sql.DB
}

func NewClient(dbPath string) (*Client, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	_, err = db.Exec("PRAGMA foreign_keys = ON")
	if err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	_, err = db.Exec("PRAGMA journal_mode = WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	logger.Info("SQLite client initialized", zap.String("path", dbPath))

	return &Client{db: db}, nil
}

func (c *Client) Close() error {
	return c.db.Close()
}

func (c *Client) InitSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS assessments (
		id TEXT PRIMARY KEY,
		timestamp TEXT NOT NULL,
		risk_level TEXT NOT NULL,
		main_category TEXT NOT NULL,
		confidence TEXT NOT NULL,
		full_report TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_assessments_created ON assessments(created_at);
	CREATE INDEX IF NOT EXISTS idx_assessments_risk ON assessments(risk_level);
	`

	_, err := c.db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	logger.Info("Database schema initialized")
	return nil
}

func (c *Client) InsertAssessment(ctx context.Context, a *models.Assessment) error {
	query := `
	INSERT INTO assessments (id, timestamp, risk_level, main_category, confidence, full_report, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := c.db.ExecContext(ctx, query,
		a.ID, a.Timestamp, a.RiskLevel, a.MainCategory, a.Confidence, a.FullReport, a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert assessment: %w", err)
	}

	logger.Debug("Assessment saved",
		zap.String("id", a.ID),
		zap.String("risk_level", a.RiskLevel),
	)
	return nil
}

func (c *Client) ListAssessments(ctx context.Context) ([]*models.Assessment, error) {
	query := `
	SELECT id, timestamp, risk_level, main_category, confidence, full_report, created_at
	FROM assessments
	ORDER BY created_at DESC
	`

	rows, err := c.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query assessments: %w", err)
	}
	defer rows.Close()

	var assessments []*models.Assessment
	for rows.Next() {
		a := &models.Assessment{}
		err := rows.Scan(&a.ID, &a.Timestamp, &a.RiskLevel, &a.MainCategory, &a.Confidence, &a.FullReport, &a.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan assessment: %w", err)
		}
		assessments = append(assessments, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate assessments: %w", err)
	}

	return assessments, nil
}
