package repository

import (
	"context"
	"database/sql"
	"fmt"

	"tgm_calc/internal/models"
)

type FollowSQLite struct {
	db *sql.DB
}

func NewFollowSQLite(db *sql.DB) *FollowSQLite {
	return &FollowSQLite{db: db}
}

var _ FollowRepo = (*FollowSQLite)(nil)

const joinedUserColumns = `u.id, u.username, u.password_hash, u.avatar, u.user_troops, u.user_enforcers`

const (
	insertFollowSQL = `INSERT OR IGNORE INTO followers (follower_id, followed_id) VALUES (?, ?)`
	deleteFollowSQL = `DELETE FROM followers WHERE follower_id = ? AND followed_id = ?`
	countFollowSQL  = `SELECT COUNT(*) FROM followers WHERE follower_id = ? AND followed_id = ?`

	selectFollowedSQL = `SELECT ` + joinedUserColumns + ` FROM users u
		JOIN followers f ON f.followed_id = u.id
		WHERE f.follower_id = ? ORDER BY u.username`
	selectFollowersSQL = `SELECT ` + joinedUserColumns + ` FROM users u
		JOIN followers f ON f.follower_id = u.id
		WHERE f.followed_id = ? ORDER BY u.username`
)

// Follow records the edge follower -> followed. It reports false when the
// edge already existed; the table is left unchanged in that case.
func (r *FollowSQLite) Follow(ctx context.Context, followerID, followedID int) (bool, error) {
	res, err := r.db.ExecContext(ctx, insertFollowSQL, followerID, followedID)
	if err != nil {
		return false, fmt.Errorf("insert follow %d->%d: %w", followerID, followedID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("follow rows affected: %w", err)
	}
	return n > 0, nil
}

// Unfollow removes the edge. It reports false when there was nothing to remove.
func (r *FollowSQLite) Unfollow(ctx context.Context, followerID, followedID int) (bool, error) {
	res, err := r.db.ExecContext(ctx, deleteFollowSQL, followerID, followedID)
	if err != nil {
		return false, fmt.Errorf("delete follow %d->%d: %w", followerID, followedID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("unfollow rows affected: %w", err)
	}
	return n > 0, nil
}

func (r *FollowSQLite) IsFollowing(ctx context.Context, followerID, followedID int) (bool, error) {
	var count int64
	if err := r.db.QueryRowContext(ctx, countFollowSQL, followerID, followedID).Scan(&count); err != nil {
		return false, fmt.Errorf("count follow %d->%d: %w", followerID, followedID, err)
	}
	return count > 0, nil
}

// Followed lists the users userID follows.
func (r *FollowSQLite) Followed(ctx context.Context, userID int) ([]models.User, error) {
	return r.listUsers(ctx, selectFollowedSQL, userID)
}

// Followers lists the users following userID.
func (r *FollowSQLite) Followers(ctx context.Context, userID int) ([]models.User, error) {
	return r.listUsers(ctx, selectFollowersSQL, userID)
}

func (r *FollowSQLite) listUsers(ctx context.Context, query string, userID int) ([]models.User, error) {
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list social graph for user %d: %w", userID, err)
	}
	defer rows.Close()
	return collectUsers(rows)
}
