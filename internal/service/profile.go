package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"tgm_calc/internal/logger"
	"tgm_calc/internal/models"
	"tgm_calc/internal/repository"
	"tgm_calc/internal/storage"
)

var (
	ErrNoFile       = errors.New("no file selected")
	ErrFileNotFound = errors.New("file not found")
)

type ProfileService struct {
	users       repository.Users
	follows     repository.FollowRepo
	screenshots repository.ScreenshotRepo
	store       storage.Storage
	rec         *recorder
	log         *logger.Logger
}

func NewProfileService(repos *repository.Repository, store storage.Storage, rec *recorder, log *logger.Logger) *ProfileService {
	return &ProfileService{
		users:       repos.Users,
		follows:     repos.Follows,
		screenshots: repos.Screenshots,
		store:       store,
		rec:         rec,
		log:         log,
	}
}

// Profile returns username's page data as seen by viewerID.
func (s *ProfileService) Profile(ctx context.Context, viewerID int, username string) (*models.Profile, error) {
	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, fmt.Errorf("%q: %w", username, ErrUserNotFound)
	}

	p := &models.Profile{User: *u}
	if p.Followers, err = s.follows.Followers(ctx, u.ID); err != nil {
		return nil, err
	}
	if p.Followed, err = s.follows.Followed(ctx, u.ID); err != nil {
		return nil, err
	}
	if p.Screenshots, err = s.screenshots.ListByUser(ctx, u.ID); err != nil {
		return nil, err
	}
	if viewerID != u.ID {
		if p.IsFollowing, err = s.follows.IsFollowing(ctx, viewerID, u.ID); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// UpdateAvatar stores the upload as the user's avatar and returns the stored
// name. Decodable images are stored as a square JPEG thumbnail, anything else as is.
func (s *ProfileService) UpdateAvatar(ctx context.Context, userID int, filename string, r io.Reader) (string, error) {
	data, err := readUpload(filename, r)
	if err != nil {
		return "", err
	}

	name := storage.UploadName(filename)
	if thumb, err := storage.Thumbnail(bytes.NewReader(data)); err == nil {
		data = thumb
		name = strings.TrimSuffix(name, filepath.Ext(name)) + ".jpg"
	} else if s.log != nil {
		s.log.Debugw("avatar_thumbnail_skipped", "user_id", userID, "err", err)
	}

	if err := s.put(ctx, storage.AvatarKey(name), data); err != nil {
		return "", err
	}
	if err := s.users.UpdateAvatar(ctx, userID, name); err != nil {
		return "", err
	}
	s.rec.record(ctx, userID, models.ActivityAvatarUpdate, "Updated avatar", map[string]any{"avatar": name})
	return name, nil
}

// UploadScreenshot stores the upload and attributes it to userID.
func (s *ProfileService) UploadScreenshot(ctx context.Context, userID int, filename string, r io.Reader) (*models.Screenshot, error) {
	data, err := readUpload(filename, r)
	if err != nil {
		return nil, err
	}

	name := storage.UploadName(filename)
	if err := s.put(ctx, storage.ScreenshotKey(name), data); err != nil {
		return nil, err
	}
	id, err := s.screenshots.Create(ctx, userID, name)
	if err != nil {
		return nil, err
	}
	s.rec.record(ctx, userID, models.ActivityScreenshotUpload, "Uploaded a screenshot",
		map[string]any{"screenshot_id": id, "filename": name})
	return &models.Screenshot{ID: id, Filename: name, UserID: userID}, nil
}

// SaveDetails stores the troop and enforcer blobs verbatim.
func (s *ProfileService) SaveDetails(ctx context.Context, userID int, troops, enforcers string) error {
	if err := s.users.UpdateDetails(ctx, userID, troops, enforcers); err != nil {
		return err
	}
	s.rec.record(ctx, userID, models.ActivityDetailsSave, "Saved troop and enforcer details", nil)
	return nil
}

// FindFriends returns users whose name contains term, without me.
func (s *ProfileService) FindFriends(ctx context.Context, me int, term string) ([]models.User, error) {
	return s.users.Search(ctx, strings.TrimSpace(term), me)
}

// OpenUpload opens a stored upload; prefix is storage.AvatarsPrefix or storage.ScreenshotsPrefix.
func (s *ProfileService) OpenUpload(ctx context.Context, prefix, name string) (io.ReadCloser, error) {
	if !storage.ValidName(name) {
		return nil, ErrFileNotFound
	}
	var key string
	switch prefix {
	case storage.AvatarsPrefix:
		key = storage.AvatarKey(name)
	case storage.ScreenshotsPrefix:
		key = storage.ScreenshotKey(name)
	default:
		return nil, ErrFileNotFound
	}
	rc, err := s.store.Read(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrFileNotFound
		}
		return nil, err
	}
	return rc, nil
}

func (s *ProfileService) put(ctx context.Context, key string, data []byte) error {
	if err := s.store.Write(ctx, key, bytes.NewReader(data), int64(len(data)), http.DetectContentType(data)); err != nil {
		return fmt.Errorf("store %s: %w", key, err)
	}
	return nil
}

func readUpload(filename string, r io.Reader) ([]byte, error) {
	if strings.TrimSpace(filename) == "" || r == nil {
		return nil, ErrNoFile
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if len(data) == 0 {
		return nil, ErrNoFile
	}
	return data, nil
}
