package service

import (
	"context"
	"io"
	"time"

	"tgm_calc/internal/calculator"
	"tgm_calc/internal/combat"
	"tgm_calc/internal/gamedata"
	"tgm_calc/internal/logger"
	"tgm_calc/internal/models"
	"tgm_calc/internal/ocr"
	"tgm_calc/internal/repository"
	"tgm_calc/internal/storage"
)

type Authorization interface {
	SignUp(ctx context.Context, username, password string) (int, error)
	GenerateToken(ctx context.Context, username, password string) (string, error)
	ParseToken(accessToken string) (int, error)
	ChangePassword(ctx context.Context, userID int, oldPassword, newPassword string) error
	CurrentUser(ctx context.Context, userID int) (*models.User, error)
}

// Social manages the directed follow graph.
type Social interface {
	Follow(ctx context.Context, me int, username string) (bool, error)
	Unfollow(ctx context.Context, me int, username string) (bool, error)
}

// Profile covers profile pages, uploads, saved details and user search.
type Profile interface {
	Profile(ctx context.Context, viewerID int, username string) (*models.Profile, error)
	UpdateAvatar(ctx context.Context, userID int, filename string, r io.Reader) (string, error)
	UploadScreenshot(ctx context.Context, userID int, filename string, r io.Reader) (*models.Screenshot, error)
	SaveDetails(ctx context.Context, userID int, troops, enforcers string) error
	FindFriends(ctx context.Context, me int, term string) ([]models.User, error)
	OpenUpload(ctx context.Context, prefix, name string) (io.ReadCloser, error)
}

// Screenshots runs OCR on uploaded screenshots and imports what it finds.
type Screenshots interface {
	Analyze(ctx context.Context, userID, screenshotID int) (*ScreenshotAnalysis, error)
	ConfirmImport(ctx context.Context, userID, screenshotID int) (*ocr.Extracted, error)
}

type Calculators interface {
	CounterTroops(opponent calculator.TroopCounts) calculator.TroopCounts
	Gear(gear []string, investments map[string]int) (calculator.GearBoost, error)
	GearOptions() (*GearOptions, error)
	Resources(in calculator.ResourceAmounts) (calculator.ResourceSummary, error)
	CompareEnforcers(userText, opponentText string) (*combat.EnforcerComparison, error)
}

type Combat interface {
	Battalion(ctx context.Context, in BattalionInput) (*combat.Battalion, error)
	Simulate(ctx context.Context, in SimulationInput) (*SimulationResult, error)
	RecommendTroops(ctx context.Context, in BattalionInput) (*combat.TroopRecommendation, error)
	RecommendEnforcers(ctx context.Context, req combat.SetupRequest) (*combat.EnforcerRecommendation, error)
}

// ActivityLog exposes the append-only per-user activity log.
type ActivityLog interface {
	List(ctx context.Context, f LogFilter) ([]models.ActivityEvent, error)
}

// LogFilter supports history filtering by time range and type.
type LogFilter struct {
	UserID   int
	AfterSeq int64     // only events stored after this sequence number
	From     time.Time // inclusive; zero means no lower bound
	To       time.Time // inclusive; zero means no upper bound
	Type     string    // "", "REGISTER", "FOLLOW", ...
}

type Service struct {
	Authorization
	Social
	Profile
	Screenshots
	Calculators
	Combat
	ActivityLog
}

// Deps carries the non-repository collaborators of the services.
type Deps struct {
	Auth       AuthConfig
	Storage    storage.Storage
	Recognizer ocr.Recognizer
	GameData   *gamedata.Loader
	Log        *logger.Logger
}

func NewService(repos *repository.Repository, deps Deps) *Service {
	rec := newRecorder(repos.Activity, deps.Log)
	return &Service{
		Authorization: NewAuthService(repos.Users, rec, deps.Auth),
		Social:        NewSocialService(repos.Users, repos.Follows, rec),
		Profile:       NewProfileService(repos, deps.Storage, rec, deps.Log),
		Screenshots:   NewScreenshotService(repos, deps.Storage, deps.Recognizer, rec),
		Calculators:   NewCalculatorService(deps.GameData),
		Combat:        NewCombatService(deps.GameData),
		ActivityLog:   NewActivityLogService(repos.Activity),
	}
}
