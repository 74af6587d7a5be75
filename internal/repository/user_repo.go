package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"tgm_calc/internal/models"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Ensure implementation of Users interface at compile time.
var _ Users = (*UserRepository)(nil)

const userColumns = `id, username, password_hash, avatar, user_troops, user_enforcers`

const (
	insertUserSQL           = `INSERT INTO users (username, password_hash) VALUES (?, ?)`
	selectUserByUsernameSQL = `SELECT ` + userColumns + ` FROM users WHERE username = ?`
	selectUserByIDSQL       = `SELECT ` + userColumns + ` FROM users WHERE id = ?`
	updatePasswordSQL       = `UPDATE users SET password_hash = ? WHERE id = ?`
	updateAvatarSQL         = `UPDATE users SET avatar = ? WHERE id = ?`
	updateDetailsSQL        = `UPDATE users SET user_troops = ?, user_enforcers = ? WHERE id = ?`
	searchUsersSQL          = `SELECT ` + userColumns + ` FROM users WHERE username LIKE ? ESCAPE '\' AND id != ? ORDER BY username`
)

type rowScanner interface {
	Scan(dest ...any) error
}

// scanUser reads one row laid out as userColumns.
func scanUser(row rowScanner) (models.User, error) {
	var u models.User
	var avatar, troops, enforcers sql.NullString
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &avatar, &troops, &enforcers); err != nil {
		return models.User{}, err
	}
	u.Avatar = avatar.String
	u.UserTroops = troops.String
	u.UserEnforcers = enforcers.String
	return u, nil
}

// Create inserts a new user and returns its ID.
func (r *UserRepository) Create(ctx context.Context, username, passwordHash string) (int, error) {
	res, err := r.db.ExecContext(ctx, insertUserSQL, username, passwordHash)
	if err != nil {
		return 0, fmt.Errorf("insert user %q: %w", username, err)
	}
	lastID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get last insert id for user %q: %w", username, err)
	}
	return int(lastID), nil
}

// GetByUsername fetches a user by username. Returns (nil, nil) if not found.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, selectUserByUsernameSQL, username))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select user %q: %w", username, err)
	}
	return &u, nil
}

// GetByID fetches a user by primary key. Returns (nil, nil) if not found.
func (r *UserRepository) GetByID(ctx context.Context, id int) (*models.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, selectUserByIDSQL, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select user %d: %w", id, err)
	}
	return &u, nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id int, hash string) error {
	return r.execUpdate(ctx, "update password", updatePasswordSQL, hash, id)
}

func (r *UserRepository) UpdateAvatar(ctx context.Context, id int, filename string) error {
	return r.execUpdate(ctx, "update avatar", updateAvatarSQL, filename, id)
}

// UpdateDetails stores the free-text troop and enforcer blobs verbatim.
func (r *UserRepository) UpdateDetails(ctx context.Context, id int, troops, enforcers string) error {
	return r.execUpdate(ctx, "update details", updateDetailsSQL, troops, enforcers, id)
}

// execUpdate runs a single-row UPDATE; the user id must be the last argument.
func (r *UserRepository) execUpdate(ctx context.Context, op, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s for user %v: %w", op, args[len(args)-1], err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows affected: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s for user %v: %w", op, args[len(args)-1], ErrNotFound)
	}
	return nil
}

// Search returns users whose username contains term, excluding excludeID.
func (r *UserRepository) Search(ctx context.Context, term string, excludeID int) ([]models.User, error) {
	rows, err := r.db.QueryContext(ctx, searchUsersSQL, "%"+escapeLike(term)+"%", excludeID)
	if err != nil {
		return nil, fmt.Errorf("search users %q: %w", term, err)
	}
	defer rows.Close()
	return collectUsers(rows)
}

func collectUsers(rows *sql.Rows) ([]models.User, error) {
	out := make([]models.User, 0, 8)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes term match literally inside a LIKE pattern.
func escapeLike(term string) string {
	return likeEscaper.Replace(term)
}
