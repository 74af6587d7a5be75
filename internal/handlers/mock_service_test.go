package handlers

import (
	"context"
	"io"
	"net/http"
	"strings"
	"sync"

	"tgm_calc/internal/combat"
	"tgm_calc/internal/gamedata"
	"tgm_calc/internal/models"
	"tgm_calc/internal/ocr"
	"tgm_calc/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	signUpID      int
	signUpErr     error
	genTokenToken string
	genTokenErr   error
	parseID       int
	parseErr      error
	changeErr     error
	user          *models.User

	lastSignUpUsername string
	lastSignUpPassword string
	lastGenUsername    string
	lastGenPassword    string
	lastParseToken     string
	lastOldPassword    string
	lastNewPassword    string
}

func (m *mockAuth) SignUp(ctx context.Context, username, password string) (int, error) {
	m.lastSignUpUsername = username
	m.lastSignUpPassword = password
	return m.signUpID, m.signUpErr
}
func (m *mockAuth) GenerateToken(ctx context.Context, username, password string) (string, error) {
	m.lastGenUsername = username
	m.lastGenPassword = password
	return m.genTokenToken, m.genTokenErr
}
func (m *mockAuth) ParseToken(token string) (int, error) {
	m.lastParseToken = token
	return m.parseID, m.parseErr
}
func (m *mockAuth) ChangePassword(ctx context.Context, userID int, oldPassword, newPassword string) error {
	m.lastOldPassword = oldPassword
	m.lastNewPassword = newPassword
	return m.changeErr
}
func (m *mockAuth) CurrentUser(ctx context.Context, userID int) (*models.User, error) {
	if m.user != nil {
		return m.user, nil
	}
	return &models.User{ID: userID, Username: "me"}, nil
}

type mockSocial struct {
	err         error
	lastMe      int
	lastTarget  string
	followCalls int
	unfollowed  int
}

func (m *mockSocial) Follow(ctx context.Context, me int, username string) (bool, error) {
	m.followCalls++
	m.lastMe, m.lastTarget = me, username
	return m.err == nil, m.err
}
func (m *mockSocial) Unfollow(ctx context.Context, me int, username string) (bool, error) {
	m.unfollowed++
	m.lastMe, m.lastTarget = me, username
	return m.err == nil, m.err
}

type mockProfile struct {
	profile   *models.Profile
	err       error
	uploadErr error
	found     []models.User
	files     map[string]string // prefix/name -> content

	lastSearch    string
	lastFilename  string
	lastBody      string
	avatarCalls   int
	shotCalls     int
	lastTroops    string
	lastEnforcers string
}

func (m *mockProfile) Profile(ctx context.Context, viewerID int, username string) (*models.Profile, error) {
	return m.profile, m.err
}
func (m *mockProfile) UpdateAvatar(ctx context.Context, userID int, filename string, r io.Reader) (string, error) {
	m.avatarCalls++
	m.record(filename, r)
	return filename, m.uploadErr
}
func (m *mockProfile) UploadScreenshot(ctx context.Context, userID int, filename string, r io.Reader) (*models.Screenshot, error) {
	m.shotCalls++
	m.record(filename, r)
	if m.uploadErr != nil {
		return nil, m.uploadErr
	}
	return &models.Screenshot{ID: 1, Filename: filename, UserID: userID}, nil
}
func (m *mockProfile) record(filename string, r io.Reader) {
	m.lastFilename = filename
	b, _ := io.ReadAll(r)
	m.lastBody = string(b)
}
func (m *mockProfile) SaveDetails(ctx context.Context, userID int, troops, enforcers string) error {
	m.lastTroops, m.lastEnforcers = troops, enforcers
	return m.err
}
func (m *mockProfile) FindFriends(ctx context.Context, me int, term string) ([]models.User, error) {
	m.lastSearch = term
	return m.found, m.err
}
func (m *mockProfile) OpenUpload(ctx context.Context, prefix, name string) (io.ReadCloser, error) {
	content, ok := m.files[prefix+"/"+name]
	if !ok {
		return nil, service.ErrFileNotFound
	}
	return io.NopCloser(strings.NewReader(content)), nil
}

type mockScreenshots struct {
	analysis  *service.ScreenshotAnalysis
	err       error
	importErr error
	imported  int
}

func (m *mockScreenshots) Analyze(ctx context.Context, userID, screenshotID int) (*service.ScreenshotAnalysis, error) {
	return m.analysis, m.err
}
func (m *mockScreenshots) ConfirmImport(ctx context.Context, userID, screenshotID int) (*ocr.Extracted, error) {
	m.imported++
	if m.importErr != nil {
		return nil, m.importErr
	}
	return &ocr.Extracted{}, nil
}

type mockCombat struct {
	err         error
	lastInput   service.BattalionInput
	lastSetup   combat.SetupRequest
	lastSimWith service.SimulationInput
}

func (m *mockCombat) Battalion(ctx context.Context, in service.BattalionInput) (*combat.Battalion, error) {
	m.lastInput = in
	if m.err != nil {
		return nil, m.err
	}
	return &combat.Battalion{Summary: combat.Summary{TotalHP: 100}}, nil
}
func (m *mockCombat) Simulate(ctx context.Context, in service.SimulationInput) (*service.SimulationResult, error) {
	m.lastSimWith = in
	if m.err != nil {
		return nil, m.err
	}
	return &service.SimulationResult{Result: combat.BattleResult{Winner: combat.WinnerAttacker}}, nil
}
func (m *mockCombat) RecommendTroops(ctx context.Context, in service.BattalionInput) (*combat.TroopRecommendation, error) {
	m.lastInput = in
	if m.err != nil {
		return nil, m.err
	}
	return &combat.TroopRecommendation{}, nil
}
func (m *mockCombat) RecommendEnforcers(ctx context.Context, req combat.SetupRequest) (*combat.EnforcerRecommendation, error) {
	m.lastSetup = req
	if m.err != nil {
		return nil, m.err
	}
	return &combat.EnforcerRecommendation{}, nil
}

// mockActivity is read concurrently by the websocket writer and the test.
type mockActivity struct {
	mu      sync.Mutex
	resp    []models.ActivityEvent
	err     error
	filters []service.LogFilter
}

func (m *mockActivity) List(ctx context.Context, f service.LogFilter) ([]models.ActivityEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.filters = append(m.filters, f)
	if m.err != nil {
		return nil, m.err
	}
	var out []models.ActivityEvent
	for _, e := range m.resp {
		if f.AfterSeq > 0 && e.Seq <= f.AfterSeq {
			continue
		}
		if !f.From.IsZero() && e.OccurredAt.Before(f.From) {
			continue
		}
		if !f.To.IsZero() && e.OccurredAt.After(f.To) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (m *mockActivity) add(e models.ActivityEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resp = append(m.resp, e)
}

func (m *mockActivity) lastFilter() service.LogFilter {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.filters) == 0 {
		return service.LogFilter{}
	}
	return m.filters[len(m.filters)-1]
}

// ---- Shared Test Helpers ----

const shippedGameData = "../../data/gamedata"

// realCalculators backs the calculator pages with the shipped game data.
func realCalculators() service.Calculators {
	return service.NewCalculatorService(gamedata.NewLoader(shippedGameData))
}

func newTestRouter(s *service.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(s, nil, Config{})
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}

// withSession marks req as coming from a logged-in browser.
func withSession(req *http.Request) *http.Request {
	req.AddCookie(&http.Cookie{Name: tokenCookie, Value: "session"})
	return req
}
