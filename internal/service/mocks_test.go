package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"tgm_calc/internal/models"
	"tgm_calc/internal/repository"
	"tgm_calc/internal/storage"
)

// memUsers is an in-memory repository.Users.
type memUsers struct {
	mu     sync.Mutex
	byID   map[int]*models.User
	nextID int

	createErr error
	getErr    error
}

func newMemUsers(names ...string) *memUsers {
	m := &memUsers{byID: map[int]*models.User{}}
	for _, n := range names {
		m.Create(context.Background(), n, "")
	}
	return m
}

func (m *memUsers) Create(_ context.Context, username, hash string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return 0, m.createErr
	}
	for _, u := range m.byID {
		if u.Username == username {
			return 0, errors.New("constraint failed: UNIQUE constraint failed: users.username")
		}
	}
	m.nextID++
	m.byID[m.nextID] = &models.User{ID: m.nextID, Username: username, PasswordHash: hash}
	return m.nextID, nil
}

func (m *memUsers) GetByUsername(_ context.Context, username string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	for _, u := range m.byID {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memUsers) GetByID(_ context.Context, id int) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	u, ok := m.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (m *memUsers) update(id int, fn func(u *models.User)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return fmt.Errorf("user %d: %w", id, repository.ErrNotFound)
	}
	fn(u)
	return nil
}

func (m *memUsers) UpdatePassword(_ context.Context, id int, hash string) error {
	return m.update(id, func(u *models.User) { u.PasswordHash = hash })
}

func (m *memUsers) UpdateAvatar(_ context.Context, id int, filename string) error {
	return m.update(id, func(u *models.User) { u.Avatar = filename })
}

func (m *memUsers) UpdateDetails(_ context.Context, id int, troops, enforcers string) error {
	return m.update(id, func(u *models.User) { u.UserTroops, u.UserEnforcers = troops, enforcers })
}

func (m *memUsers) Search(_ context.Context, term string, excludeID int) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.User
	for _, u := range m.byID {
		if u.ID != excludeID && strings.Contains(u.Username, term) {
			out = append(out, *u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

type edge struct{ from, to int }

// memFollows is an in-memory repository.FollowRepo backed by memUsers.
type memFollows struct {
	users       *memUsers
	edges       map[edge]bool
	followCalls int
}

func newMemFollows(users *memUsers) *memFollows {
	return &memFollows{users: users, edges: map[edge]bool{}}
}

func (m *memFollows) Follow(_ context.Context, a, b int) (bool, error) {
	m.followCalls++
	if m.edges[edge{a, b}] {
		return false, nil
	}
	m.edges[edge{a, b}] = true
	return true, nil
}

func (m *memFollows) Unfollow(_ context.Context, a, b int) (bool, error) {
	if !m.edges[edge{a, b}] {
		return false, nil
	}
	delete(m.edges, edge{a, b})
	return true, nil
}

func (m *memFollows) IsFollowing(_ context.Context, a, b int) (bool, error) {
	return m.edges[edge{a, b}], nil
}

func (m *memFollows) Followed(ctx context.Context, id int) ([]models.User, error) {
	var out []models.User
	for e := range m.edges {
		if e.from == id {
			u, _ := m.users.GetByID(ctx, e.to)
			out = append(out, *u)
		}
	}
	return out, nil
}

func (m *memFollows) Followers(ctx context.Context, id int) ([]models.User, error) {
	var out []models.User
	for e := range m.edges {
		if e.to == id {
			u, _ := m.users.GetByID(ctx, e.from)
			out = append(out, *u)
		}
	}
	return out, nil
}

type memScreenshots struct {
	rows []models.Screenshot
}

func (m *memScreenshots) Create(_ context.Context, userID int, filename string) (int, error) {
	id := len(m.rows) + 1
	m.rows = append(m.rows, models.Screenshot{ID: id, Filename: filename, UserID: userID})
	return id, nil
}

func (m *memScreenshots) GetByID(_ context.Context, id int) (*models.Screenshot, error) {
	for _, s := range m.rows {
		if s.ID == id {
			cp := s
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memScreenshots) ListByUser(_ context.Context, userID int) ([]models.Screenshot, error) {
	var out []models.Screenshot
	for _, s := range m.rows {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

// fakeActivityRepo captures appended events and List arguments.
type fakeActivityRepo struct {
	appended  []models.ActivityEvent
	appendErr error

	gotUserID   int
	gotAfterSeq int64
	gotFrom     time.Time
	gotTo       time.Time
	gotType     string
	events      []models.ActivityEvent
	err         error
	calls       int
}

func (f *fakeActivityRepo) Append(_ context.Context, e models.ActivityEvent) error {
	f.appended = append(f.appended, e)
	return f.appendErr
}

func (f *fakeActivityRepo) List(_ context.Context, userID int, afterSeq int64, from, to time.Time, typ string) ([]models.ActivityEvent, error) {
	f.calls++
	f.gotUserID, f.gotAfterSeq, f.gotFrom, f.gotTo, f.gotType = userID, afterSeq, from, to, typ
	return f.events, f.err
}

func (f *fakeActivityRepo) types() []string {
	out := make([]string, 0, len(f.appended))
	for _, e := range f.appended {
		out = append(out, e.Type)
	}
	return out
}

// memStore is an in-memory storage.Storage.
type memStore struct {
	files    map[string][]byte
	types    map[string]string
	writeErr error
}

func newMemStore() *memStore {
	return &memStore{files: map[string][]byte{}, types: map[string]string{}}
}

func (m *memStore) Write(_ context.Context, key string, r io.Reader, _ int64, contentType string) error {
	if m.writeErr != nil {
		return m.writeErr
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.files[key], m.types[key] = b, contentType
	return nil
}

func (m *memStore) Read(_ context.Context, key string) (io.ReadCloser, error) {
	b, ok := m.files[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", storage.ErrNotFound, key)
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}

func (m *memStore) Exists(_ context.Context, key string) (bool, error) {
	_, ok := m.files[key]
	return ok, nil
}

func (m *memStore) Delete(_ context.Context, key string) error {
	delete(m.files, key)
	return nil
}

// fakeRecognizer returns text for every image, or err.
type fakeRecognizer struct {
	text string
	err  error
	got  [][]byte
}

func (f *fakeRecognizer) Recognize(_ context.Context, image []byte) (string, error) {
	f.got = append(f.got, image)
	return f.text, f.err
}

type fixture struct {
	users       *memUsers
	follows     *memFollows
	screenshots *memScreenshots
	activity    *fakeActivityRepo
	store       *memStore
	repos       *repository.Repository
	rec         *recorder
}

func newFixture(names ...string) *fixture {
	users := newMemUsers(names...)
	f := &fixture{
		users:       users,
		follows:     newMemFollows(users),
		screenshots: &memScreenshots{},
		activity:    &fakeActivityRepo{},
		store:       newMemStore(),
	}
	f.repos = &repository.Repository{
		Users:       f.users,
		Follows:     f.follows,
		Screenshots: f.screenshots,
		Activity:    f.activity,
	}
	f.rec = newRecorder(f.activity, nil)
	return f
}
