package handlers

import (
	"errors"
	"net/http"

	"tgm_calc/internal/combat"
	"tgm_calc/internal/service"

	"github.com/gin-gonic/gin"
)

// Common response/status constants to avoid magic strings and typos.
const (
	statusOK = "ok"

	errCombatData = "failed to evaluate battle"
)

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// combatError answers 400 for inputs that cannot be evaluated, 500 otherwise.
func (h *Handler) combatError(c *gin.Context, logKey string, err error) {
	if errors.Is(err, service.ErrInvalidInput) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.logAndJSONError(c, http.StatusInternalServerError, errCombatData, logKey, err)
}

// BattalionRequest is one side of a battle. Text fields use the planner
// formats and are appended to the structured lists.
type BattalionRequest struct {
	Troops        []combat.Troop    `json:"troops"`
	Enforcers     []combat.Enforcer `json:"enforcers"`
	TroopsText    string            `json:"troops_text" example:"Biker,T4,500"`
	EnforcersText string            `json:"enforcers_text" example:"Bubba,Grand,true; Viper,Elite,false"`
	Misc          combat.MiscBuffs  `json:"misc_buffs"`
}

func (r BattalionRequest) input() service.BattalionInput {
	in := service.BattalionInput{Misc: r.Misc}
	in.Troops = append(append(in.Troops, r.Troops...), combat.ParseTroops(r.TroopsText)...)
	in.Enforcers = append(append(in.Enforcers, r.Enforcers...), combat.ParseEnforcers(r.EnforcersText)...)
	return in
}

type SimulateRequest struct {
	Attacker BattalionRequest `json:"attacker"`
	Defender BattalionRequest `json:"defender"`
}

// EnforcerSetupRequest asks for the best enforcer team for User against Opponent.
type EnforcerSetupRequest struct {
	User          BattalionRequest  `json:"user"`
	Opponent      BattalionRequest  `json:"opponent"`
	Available     []combat.Enforcer `json:"available_enforcers"`
	AvailableText string            `json:"available_enforcers_text"`
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": statusOK,
	})
}

func (h *Handler) combatPage(c *gin.Context) {
	data := gin.H{"Title": "Combat planner"}
	if u := h.currentUser(c); u != nil {
		data["CurrentUser"] = u
		data["UserTroops"] = u.UserTroops
		data["UserEnforcers"] = u.UserEnforcers
	}
	h.render(c, http.StatusOK, "combat.html", data)
}

// @Summary      Battalion stats
// @Description  Base totals, training center bonus, enforcer and signature weapon buffs per troop line.
// @Tags         combat
// @Accept       json
// @Produce      json
// @Param        input  body      BattalionRequest  true  "battalion"
// @Success      200    {object}  combat.Battalion
// @Failure      400    {object}  map[string]string
// @Failure      401    {object}  map[string]string
// @Failure      500    {object}  map[string]string
// @Router       /api/v1/combat/battalion [post]
// @Security     BearerAuth
func (h *Handler) battalion(c *gin.Context) {
	var req BattalionRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}
	b, err := h.services.Battalion(c.Request.Context(), req.input())
	if err != nil {
		h.combatError(c, "combat_battalion_failed", err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// @Summary      Simulate a battle
// @Tags         combat
// @Accept       json
// @Produce      json
// @Param        input  body      SimulateRequest  true  "attacker and defender"
// @Success      200    {object}  service.SimulationResult
// @Failure      400    {object}  map[string]string
// @Failure      401    {object}  map[string]string
// @Failure      500    {object}  map[string]string
// @Router       /api/v1/combat/simulate [post]
// @Security     BearerAuth
func (h *Handler) simulate(c *gin.Context) {
	var req SimulateRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}
	res, err := h.services.Simulate(c.Request.Context(), service.SimulationInput{
		Attacker: req.Attacker.input(),
		Defender: req.Defender.input(),
	})
	if err != nil {
		h.combatError(c, "combat_simulate_failed", err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// @Summary      Recommend a troop mix
// @Description  Body is the opponent battalion.
// @Tags         combat
// @Accept       json
// @Produce      json
// @Param        input  body      BattalionRequest  true  "opponent"
// @Success      200    {object}  combat.TroopRecommendation
// @Failure      400    {object}  map[string]string
// @Failure      401    {object}  map[string]string
// @Failure      500    {object}  map[string]string
// @Router       /api/v1/combat/recommend/troops [post]
// @Security     BearerAuth
func (h *Handler) recommendTroops(c *gin.Context) {
	var req BattalionRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}
	rec, err := h.services.RecommendTroops(c.Request.Context(), req.input())
	if err != nil {
		h.combatError(c, "combat_recommend_troops_failed", err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

// @Summary      Recommend an enforcer team
// @Tags         combat
// @Accept       json
// @Produce      json
// @Param        input  body      EnforcerSetupRequest  true  "both battalions"
// @Success      200    {object}  combat.EnforcerRecommendation
// @Failure      400    {object}  map[string]string
// @Failure      401    {object}  map[string]string
// @Failure      500    {object}  map[string]string
// @Router       /api/v1/combat/recommend/enforcers [post]
// @Security     BearerAuth
func (h *Handler) recommendEnforcers(c *gin.Context) {
	var req EnforcerSetupRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}
	user, opp := req.User.input(), req.Opponent.input()
	available := append(append([]combat.Enforcer(nil), req.Available...), combat.ParseEnforcers(req.AvailableText)...)
	if len(available) == 0 {
		// the user's own enforcers if they named any, otherwise the full roster
		available = user.Enforcers
	}

	rec, err := h.services.RecommendEnforcers(c.Request.Context(), combat.SetupRequest{
		UserTroops:        user.Troops,
		UserMisc:          user.Misc,
		OpponentTroops:    opp.Troops,
		OpponentEnforcers: opp.Enforcers,
		OpponentMisc:      opp.Misc,
		Available:         available,
	})
	if err != nil {
		h.combatError(c, "combat_recommend_enforcers_failed", err)
		return
	}
	c.JSON(http.StatusOK, rec)
}
