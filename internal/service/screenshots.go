package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"tgm_calc/internal/models"
	"tgm_calc/internal/ocr"
	"tgm_calc/internal/repository"
	"tgm_calc/internal/storage"
)

var (
	ErrScreenshotNotFound = errors.New("screenshot not found")
	ErrOCRFailed          = errors.New("text recognition failed")
)

// ScreenshotAnalysis is the OCR preview of one screenshot.
type ScreenshotAnalysis struct {
	Screenshot models.Screenshot `json:"screenshot"`
	Text       string            `json:"text"`
	Extracted  ocr.Extracted     `json:"extracted"`
	Found      bool              `json:"found"`
}

type ScreenshotService struct {
	users       repository.Users
	screenshots repository.ScreenshotRepo
	store       storage.Storage
	recognizer  ocr.Recognizer
	rec         *recorder
}

func NewScreenshotService(repos *repository.Repository, store storage.Storage, recognizer ocr.Recognizer, rec *recorder) *ScreenshotService {
	return &ScreenshotService{
		users:       repos.Users,
		screenshots: repos.Screenshots,
		store:       store,
		recognizer:  recognizer,
		rec:         rec,
	}
}

// Analyze runs OCR over one of userID's screenshots. Text without any known
// field is not an error; Found is false then.
func (s *ScreenshotService) Analyze(ctx context.Context, userID, screenshotID int) (*ScreenshotAnalysis, error) {
	shot, err := s.owned(ctx, userID, screenshotID)
	if err != nil {
		return nil, err
	}

	rc, err := s.store.Read(ctx, storage.ScreenshotKey(shot.Filename))
	if err != nil {
		return nil, fmt.Errorf("open screenshot %d: %w", shot.ID, err)
	}
	image, err := io.ReadAll(rc)
	rc.Close()
	if err != nil {
		return nil, fmt.Errorf("read screenshot %d: %w", shot.ID, err)
	}

	text, err := s.recognizer.Recognize(ctx, image)
	if err != nil {
		return nil, fmt.Errorf("%w: screenshot %d: %v", ErrOCRFailed, shot.ID, err)
	}

	out := &ScreenshotAnalysis{Screenshot: *shot, Text: text}
	extracted, err := ocr.Parse(text)
	switch {
	case err == nil:
		out.Extracted, out.Found = extracted, true
	case errors.Is(err, ocr.ErrNoData):
	default:
		return nil, err
	}
	return out, nil
}

// ConfirmImport copies the recognised troops and enforcers into the owner's
// profile. Fields that were not found keep their saved value.
func (s *ScreenshotService) ConfirmImport(ctx context.Context, userID, screenshotID int) (*ocr.Extracted, error) {
	a, err := s.Analyze(ctx, userID, screenshotID)
	if err != nil {
		return nil, err
	}
	if !a.Found {
		return nil, ocr.ErrNoData
	}

	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}

	troops, enforcers := u.UserTroops, u.UserEnforcers
	if found := a.Extracted.Troops(); len(found) > 0 {
		b, err := json.Marshal(found)
		if err != nil {
			return nil, fmt.Errorf("encode troops: %w", err)
		}
		troops = string(b)
	}
	if len(a.Extracted.Enforcers) > 0 {
		b, err := json.Marshal(a.Extracted.Enforcers)
		if err != nil {
			return nil, fmt.Errorf("encode enforcers: %w", err)
		}
		enforcers = string(b)
	}

	if err := s.users.UpdateDetails(ctx, userID, troops, enforcers); err != nil {
		return nil, err
	}
	s.rec.record(ctx, userID, models.ActivityProfileImport, "Imported profile data from a screenshot",
		map[string]any{"screenshot_id": screenshotID})
	return &a.Extracted, nil
}

// owned hides other users' screenshots behind ErrScreenshotNotFound.
func (s *ScreenshotService) owned(ctx context.Context, userID, screenshotID int) (*models.Screenshot, error) {
	shot, err := s.screenshots.GetByID(ctx, screenshotID)
	if err != nil {
		return nil, err
	}
	if shot == nil || shot.UserID != userID {
		return nil, ErrScreenshotNotFound
	}
	return shot, nil
}
