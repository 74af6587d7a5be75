package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"tgm_calc/internal/models"
)

type ScreenshotSQLite struct {
	db *sql.DB
}

func NewScreenshotSQLite(db *sql.DB) *ScreenshotSQLite {
	return &ScreenshotSQLite{db: db}
}

var _ ScreenshotRepo = (*ScreenshotSQLite)(nil)

const (
	insertScreenshotSQL      = `INSERT INTO screenshots (filename, user_id) VALUES (?, ?)`
	selectScreenshotSQL      = `SELECT id, filename, user_id FROM screenshots WHERE id = ?`
	selectUserScreenshotsSQL = `SELECT id, filename, user_id FROM screenshots WHERE user_id = ? ORDER BY id`
)

func (r *ScreenshotSQLite) Create(ctx context.Context, userID int, filename string) (int, error) {
	res, err := r.db.ExecContext(ctx, insertScreenshotSQL, filename, userID)
	if err != nil {
		return 0, fmt.Errorf("insert screenshot for user %d: %w", userID, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get last insert id for screenshot: %w", err)
	}
	return int(id), nil
}

// GetByID returns (nil, nil) when the screenshot does not exist.
func (r *ScreenshotSQLite) GetByID(ctx context.Context, id int) (*models.Screenshot, error) {
	var s models.Screenshot
	err := r.db.QueryRowContext(ctx, selectScreenshotSQL, id).Scan(&s.ID, &s.Filename, &s.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select screenshot %d: %w", id, err)
	}
	return &s, nil
}

func (r *ScreenshotSQLite) ListByUser(ctx context.Context, userID int) ([]models.Screenshot, error) {
	rows, err := r.db.QueryContext(ctx, selectUserScreenshotsSQL, userID)
	if err != nil {
		return nil, fmt.Errorf("list screenshots for user %d: %w", userID, err)
	}
	defer rows.Close()

	out := make([]models.Screenshot, 0, 8)
	for rows.Next() {
		var s models.Screenshot
		if err := rows.Scan(&s.ID, &s.Filename, &s.UserID); err != nil {
			return nil, fmt.Errorf("scan screenshot: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
