package service

import (
	"context"

	"tgm_calc/internal/logger"
	"tgm_calc/internal/models"
	"tgm_calc/internal/repository"
)

// recorder appends activity events on behalf of the other services. A failed
// append is logged and never fails the user's request.
type recorder struct {
	repo repository.ActivityRepo
	log  *logger.Logger
}

func newRecorder(repo repository.ActivityRepo, log *logger.Logger) *recorder {
	return &recorder{repo: repo, log: log}
}

func (r *recorder) record(ctx context.Context, userID int, typ, description string, meta map[string]any) {
	if r == nil || r.repo == nil {
		return
	}
	ev := models.ActivityEvent{UserID: userID, Type: typ, Description: description}
	if len(meta) > 0 {
		ev.Metadata = meta
	}
	if err := r.repo.Append(ctx, ev); err != nil && r.log != nil {
		r.log.Warnw("activity_append_failed", "user_id", userID, "type", typ, "err", err)
	}
}
