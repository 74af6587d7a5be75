package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"tgm_calc/internal/models"

	"github.com/google/uuid"
)

// occurredAtLayout is fixed-width so lexical order in SQLite matches time order.
const occurredAtLayout = "2006-01-02T15:04:05.000000000Z"

const insertActivitySQL = `
		INSERT INTO activity_events (id, user_id, occurred_at, type, message, meta)
		VALUES (?, ?, ?, ?, ?, ?)
	`

type ActivitySQLite struct {
	db *sql.DB
}

func NewActivitySQLite(db *sql.DB) *ActivitySQLite { return &ActivitySQLite{db: db} }

var _ ActivityRepo = (*ActivitySQLite)(nil)

// Append inserts a new event. If EventID or OccurredAt are empty, they're set.
func (r *ActivitySQLite) Append(ctx context.Context, e models.ActivityEvent) error {
	if e.EventID == "" {
		e.EventID = uuid.NewString()
	}
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now().UTC()
	}

	var metaPtr *string
	if e.Metadata != nil {
		if b, err := json.Marshal(e.Metadata); err == nil {
			s := string(b)
			metaPtr = &s
		}
	}

	_, err := r.db.ExecContext(ctx, insertActivitySQL,
		e.EventID,
		e.UserID,
		formatOccurredAt(e.OccurredAt),
		strings.ToUpper(strings.TrimSpace(e.Type)),
		e.Description,
		metaPtr,
	)
	if err != nil {
		return fmt.Errorf("insert activity for user %d: %w", e.UserID, err)
	}
	return nil
}

// List returns userID's events filtered by [from, to] (inclusive) and/or type,
// in insertion order. A positive afterSeq keeps only events stored after it.
func (r *ActivitySQLite) List(ctx context.Context, userID int, afterSeq int64, from, to time.Time, typ string) ([]models.ActivityEvent, error) {
	conds := []string{"user_id = ?"}
	args := []any{userID}

	if afterSeq > 0 {
		conds = append(conds, "seq > ?")
		args = append(args, afterSeq)
	}

	if !from.IsZero() {
		conds = append(conds, "occurred_at >= ?")
		args = append(args, formatOccurredAt(from))
	}
	if !to.IsZero() {
		conds = append(conds, "occurred_at <= ?")
		args = append(args, formatOccurredAt(to))
	}
	if typ = strings.ToUpper(strings.TrimSpace(typ)); typ != "" {
		conds = append(conds, "type = ?")
		args = append(args, typ)
	}

	q := `SELECT seq, id, user_id, occurred_at, type, message, meta FROM activity_events WHERE ` +
		strings.Join(conds, " AND ") + ` ORDER BY seq ASC`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list activity for user %d: %w", userID, err)
	}
	defer rows.Close()

	out := make([]models.ActivityEvent, 0, 64)
	for rows.Next() {
		var ev models.ActivityEvent
		var at string
		var metaStr sql.NullString
		if err := rows.Scan(&ev.Seq, &ev.EventID, &ev.UserID, &at, &ev.Type, &ev.Description, &metaStr); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		if ev.OccurredAt, err = time.Parse(occurredAtLayout, at); err != nil {
			return nil, fmt.Errorf("parse occurred_at %q: %w", at, err)
		}

		if metaStr.Valid && metaStr.String != "" {
			var v any
			if err := json.Unmarshal([]byte(metaStr.String), &v); err == nil {
				ev.Metadata = v
			} else {
				ev.Metadata = metaStr.String // keep raw if malformed
			}
		}
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func formatOccurredAt(t time.Time) string {
	return t.UTC().Format(occurredAtLayout)
}
