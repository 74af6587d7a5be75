package handlers

import (
	"html/template"
	"strings"
	"time"

	"tgm_calc/internal/calculator"
	"tgm_calc/internal/logger"
	"tgm_calc/internal/service"
	"tgm_calc/web"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const defaultMaxUploadBytes = 16 << 20

// Config tunes the HTTP layer.
type Config struct {
	MaxUploadBytes int64
	SecureCookies  bool
	TokenTTL       time.Duration
}

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
	cfg      Config
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, log *logger.Logger, cfg Config) *Handler {
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = defaultMaxUploadBytes
	}
	return &Handler{services: services, log: log, cfg: cfg}
}

var templateFuncs = template.FuncMap{
	"decimal":   calculator.FormatDecimal,
	"formField": formFieldName,
	"join":      strings.Join,
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.MaxMultipartMemory = h.cfg.MaxUploadBytes
	router.SetHTMLTemplate(template.Must(web.Templates(templateFuncs)))
	router.Use(h.identify)
	router.NoRoute(h.notFound)

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health endpoint
	router.GET("/health", h.health)

	h.registerPageRoutes(router)
	h.registerAuthRoutes(router)
	h.registerMemberRoutes(router)

	// Versioned API endpoints (protected)
	h.registerAPIRoutes(router)

	// Activity stream (HTTP upgrade) on the same port
	router.GET("/ws/activity", h.userIdMiddleware, h.wsActivity)

	return router
}

// Public pages.
func (h *Handler) registerPageRoutes(r *gin.Engine) {
	r.GET("/", h.index)
	r.POST("/calculate", h.calculate)
	r.GET("/enforcer_calculator", h.enforcerCalculator)
	r.POST("/enforcer_calculator", h.enforcerCalculator)
	r.GET("/resource_calculator", h.resourceCalculator)
	r.POST("/resource_calculator", h.resourceCalculator)
	r.GET("/gear_calculator", h.gearCalculator)
	r.POST("/gear_calculator", h.gearCalculator)
}

func (h *Handler) registerAuthRoutes(r *gin.Engine) {
	auth := r.Group("/auth")
	{
		auth.GET("/register", h.registerPage)
		auth.POST("/register", h.register)
		auth.GET("/login", h.loginPage)
		auth.POST("/login", h.login)
		auth.GET("/logout", h.logout)

		// JSON clients
		auth.POST("/sign-up", h.signUp)
		auth.POST("/sign-in", h.signIn)
	}
}

// Pages that need a logged-in user.
func (h *Handler) registerMemberRoutes(r *gin.Engine) {
	m := r.Group("/", h.requireLogin)
	{
		m.GET("/user/:username", h.userProfile)
		// follow edges change only on POST so a cross-site link cannot toggle them
		m.POST("/follow/:username", h.follow)
		m.POST("/unfollow/:username", h.unfollow)

		m.GET("/profile", h.profile)
		m.POST("/profile", h.uploadProfileFile)
		m.GET("/find_friends", h.findFriends)
		m.POST("/find_friends", h.findFriends)
		m.GET("/change_password", h.changePasswordPage)
		m.POST("/change_password", h.changePassword)
		m.POST("/save_user_details", h.saveUserDetails)

		m.GET("/screenshots/:id", h.screenshot)
		m.POST("/confirm_update/:id", h.confirmUpdate)

		m.GET("/files/avatars/:name", h.avatarFile)
		m.GET("/files/screenshots/:name", h.screenshotFile)

		m.GET("/combat", h.combatPage)
	}
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1", h.userIdMiddleware)
	{
		h.registerCombatRoutes(api)
		api.GET("/activity", h.getActivity)
	}
}

func (h *Handler) registerCombatRoutes(api *gin.RouterGroup) {
	combat := api.Group("/combat")
	{
		combat.POST("/battalion", h.battalion)
		combat.POST("/simulate", h.simulate)
		combat.POST("/recommend/troops", h.recommendTroops)
		// Body example: {"user":{"troops_text":"Biker,T4,500"},"opponent":{"troops_text":"Bruiser,T4,500"}}
		combat.POST("/recommend/enforcers", h.recommendEnforcers)
	}
}
