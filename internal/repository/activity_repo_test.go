package repository

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"tgm_calc/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestActivityAppend_Success_WithDefaults(t *testing.T) {
	t.Parallel()

	db, mock := newMockDB(t)
	repo := NewActivitySQLite(db)

	mock.ExpectExec(regexp.QuoteMeta(insertActivitySQL)).
		WithArgs(sqlmock.AnyArg(), 5, sqlmock.AnyArg(), "FOLLOW", "followed bob", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Append(ctx(t), models.ActivityEvent{
		UserID:      5,
		Type:        "  follow ",
		Description: "followed bob",
		Metadata:    map[string]any{"target": "bob"},
	})
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
}

func TestActivityAppend_DBError(t *testing.T) {
	t.Parallel()

	db, mock := newMockDB(t)
	repo := NewActivitySQLite(db)

	mock.ExpectExec("INSERT INTO activity_events").
		WillReturnError(errors.New("down"))

	err := repo.Append(ctx(t), models.ActivityEvent{UserID: 1, Type: "register", Description: "x"})
	if err == nil || !strings.Contains(err.Error(), "down") {
		t.Fatalf("expected error, got %v", err)
	}
}

func activityRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"seq", "id", "user_id", "occurred_at", "type", "message", "meta"})
}

func TestActivityList_NoFilters_And_MetadataParsing(t *testing.T) {
	t.Parallel()

	db, mock := newMockDB(t)
	repo := NewActivitySQLite(db)

	now := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	js, _ := json.Marshal(map[string]any{"a": "b"})

	rows := activityRows().
		AddRow(1, "1", 3, formatOccurredAt(now), "FOLLOW", "m1", string(js)).
		AddRow(2, "2", 3, formatOccurredAt(now.Add(time.Hour)), "UNFOLLOW", "m2", nil)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT seq, id, user_id, occurred_at, type, message, meta FROM activity_events WHERE user_id = ? ORDER BY seq ASC`)).
		WithArgs(3).
		WillReturnRows(rows)

	got, err := repo.List(ctx(t), 3, 0, time.Time{}, time.Time{}, "")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("want 2, got %d", len(got))
	}
	if got[0].Seq != 1 || got[1].Seq != 2 {
		t.Fatalf("seq mismatch: %d %d", got[0].Seq, got[1].Seq)
	}
	if !got[0].OccurredAt.Equal(now) {
		t.Fatalf("occurred_at mismatch: %v", got[0].OccurredAt)
	}
	b1, _ := json.Marshal(got[0].Metadata)
	if string(b1) != string(js) {
		t.Fatalf("metadata mismatch: %s vs %s", string(b1), string(js))
	}
	if got[1].Metadata != nil {
		t.Fatalf("expected nil meta, got %#v", got[1].Metadata)
	}
}

func TestActivityList_WithFilters_OrderAndArgs(t *testing.T) {
	t.Parallel()

	db, mock := newMockDB(t)
	repo := NewActivitySQLite(db)

	from := time.Date(2025, 1, 1, 11, 0, 0, 0, time.UTC)
	to := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	query := `SELECT seq, id, user_id, occurred_at, type, message, meta FROM activity_events WHERE user_id = ? AND seq > ? AND occurred_at >= ? AND occurred_at <= ? AND type = ? ORDER BY seq ASC`

	mock.ExpectQuery(regexp.QuoteMeta(query)).
		WithArgs(9, int64(4), "2025-01-01T11:00:00.000000000Z", "2025-01-01T12:00:00.000000000Z", "FOLLOW").
		WillReturnRows(activityRows().AddRow(5, "2", 9, formatOccurredAt(from), "FOLLOW", "b", nil))

	got, err := repo.List(ctx(t), 9, 4, from, to, " follow ")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 1 || got[0].EventID != "2" {
		t.Fatalf("unexpected results: %+v", got)
	}
}

func TestActivityList_BadTimestamp(t *testing.T) {
	t.Parallel()

	db, mock := newMockDB(t)
	repo := NewActivitySQLite(db)

	mock.ExpectQuery("SELECT seq, id, user_id, occurred_at").
		WillReturnRows(activityRows().AddRow(1, "x", 1, "yesterday", "FOLLOW", "msg", nil))

	if _, err := repo.List(ctx(t), 1, 0, time.Time{}, time.Time{}, ""); err == nil {
		t.Fatalf("expected parse error, got nil")
	}
}
