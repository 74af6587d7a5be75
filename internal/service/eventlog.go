package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"tgm_calc/internal/models"
	"tgm_calc/internal/repository"
)

type ActivityLogService struct {
	activityRepo repository.ActivityRepo
}

func NewActivityLogService(activityRepo repository.ActivityRepo) *ActivityLogService {
	return &ActivityLogService{activityRepo: activityRepo}
}

var (
	errInvalidTimeRange = errors.New("invalid time range: From must be <= To")
	errMissingUser      = errors.New("activity filter needs a user id")
)

// normalizeToUTC returns t in UTC, preserving zero time values.
func normalizeToUTC(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}

// normalizeEventType trims spaces and uppercases the event type filter.
func normalizeEventType(s string) string {
	return strings.TrimSpace(strings.ToUpper(s))
}

// normalizeAndValidateFilter prepares query parameters and validates the time range.
func normalizeAndValidateFilter(f LogFilter) (LogFilter, error) {
	out := LogFilter{
		UserID:   f.UserID,
		AfterSeq: f.AfterSeq,
		From:     normalizeToUTC(f.From),
		To:       normalizeToUTC(f.To),
		Type:     normalizeEventType(f.Type),
	}
	if out.AfterSeq < 0 {
		out.AfterSeq = 0
	}
	if out.UserID <= 0 {
		return LogFilter{}, errMissingUser
	}
	if !out.From.IsZero() && !out.To.IsZero() && out.From.After(out.To) {
		return LogFilter{}, errInvalidTimeRange
	}
	return out, nil
}

func (s *ActivityLogService) List(ctx context.Context, f LogFilter) ([]models.ActivityEvent, error) {
	nf, err := normalizeAndValidateFilter(f)
	if err != nil {
		return nil, err
	}
	return s.activityRepo.List(ctx, nf.UserID, nf.AfterSeq, nf.From, nf.To, nf.Type)
}

// IsFilterError reports whether err came from filter validation.
func IsFilterError(err error) bool {
	return errors.Is(err, errInvalidTimeRange) || errors.Is(err, errMissingUser)
}
