package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"tgm_calc/internal/models"
)

// ErrNotFound is returned by update statements that matched no row.
var ErrNotFound = errors.New("record not found")

type Authorization interface {
	Create(ctx context.Context, username, hash string) (int, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByID(ctx context.Context, id int) (*models.User, error)
	UpdatePassword(ctx context.Context, id int, hash string) error
}

type Users interface {
	Authorization
	UpdateAvatar(ctx context.Context, id int, filename string) error
	UpdateDetails(ctx context.Context, id int, troops, enforcers string) error
	Search(ctx context.Context, term string, excludeID int) ([]models.User, error)
}

type FollowRepo interface {
	Follow(ctx context.Context, followerID, followedID int) (bool, error)
	Unfollow(ctx context.Context, followerID, followedID int) (bool, error)
	IsFollowing(ctx context.Context, followerID, followedID int) (bool, error)
	Followed(ctx context.Context, userID int) ([]models.User, error)
	Followers(ctx context.Context, userID int) ([]models.User, error)
}

type ScreenshotRepo interface {
	Create(ctx context.Context, userID int, filename string) (int, error)
	GetByID(ctx context.Context, id int) (*models.Screenshot, error)
	ListByUser(ctx context.Context, userID int) ([]models.Screenshot, error)
}

type ActivityRepo interface {
	Append(ctx context.Context, e models.ActivityEvent) error
	List(ctx context.Context, userID int, afterSeq int64, from, to time.Time, typ string) ([]models.ActivityEvent, error)
}

type Repository struct {
	Users       Users
	Follows     FollowRepo
	Screenshots ScreenshotRepo
	Activity    ActivityRepo
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		Users:       NewUserRepository(db),
		Follows:     NewFollowSQLite(db),
		Screenshots: NewScreenshotSQLite(db),
		Activity:    NewActivitySQLite(db),
	}
}
