package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"tgm_calc/internal/calculator"
	"tgm_calc/internal/service"

	"github.com/gin-gonic/gin"
)

var troopFields = []string{"bruisers", "hitmen", "bikers"}

// formInt reads a required non-negative integer field. A non-empty problem
// is the message to show next to the form.
func formInt(c *gin.Context, name string) (v int64, problem string) {
	raw := strings.TrimSpace(c.PostForm(name))
	if raw == "" {
		return 0, fieldLabel(name) + " is required."
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fieldLabel(name) + " must be a whole number."
	}
	if v < 0 {
		return 0, fieldLabel(name) + " must be at least 0."
	}
	return v, ""
}

func fieldLabel(name string) string {
	if name == "" {
		return name
	}
	return strings.ToUpper(name[:1]) + name[1:]
}

// formFieldName turns a table name like "Advanced Arms" into "advanced_arms".
func formFieldName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), "_")
}

func formValues(c *gin.Context, names []string) map[string]string {
	out := make(map[string]string, len(names))
	for _, n := range names {
		out[n] = c.PostForm(n)
	}
	return out
}

// @Summary      Home page
// @Tags         pages
// @Produce      html
// @Router       / [get]
func (h *Handler) index(c *gin.Context) {
	data := gin.H{"Form": map[string]string{}}
	if u := h.currentUser(c); u != nil {
		data["CurrentUser"] = u
		data["UserTroops"] = u.UserTroops
		data["UserEnforcers"] = u.UserEnforcers
	}
	h.render(c, http.StatusOK, "index.html", data)
}

func (h *Handler) calculate(c *gin.Context) {
	data := gin.H{"Form": formValues(c, troopFields)}

	var errs []string
	counts := make(map[string]int, len(troopFields))
	for _, f := range troopFields {
		v, problem := formInt(c, f)
		if problem != "" {
			errs = append(errs, problem)
			continue
		}
		counts[f] = int(v)
	}
	if len(errs) > 0 {
		data["Errors"] = errs
		h.render(c, http.StatusOK, "index.html", data)
		return
	}

	data["Result"] = h.services.CounterTroops(calculator.TroopCounts{
		Bruisers: counts["bruisers"],
		Hitmen:   counts["hitmen"],
		Bikers:   counts["bikers"],
	})
	h.render(c, http.StatusOK, "index.html", data)
}

func (h *Handler) enforcerCalculator(c *gin.Context) {
	data := gin.H{"Title": "Enforcer calculator", "Form": formValues(c, []string{"user_enforcers", "opponent_enforcers"})}
	if c.Request.Method != http.MethodPost {
		h.render(c, http.StatusOK, "enforcer_calculator.html", data)
		return
	}

	res, err := h.services.CompareEnforcers(c.PostForm("user_enforcers"), c.PostForm("opponent_enforcers"))
	switch {
	case errors.Is(err, service.ErrNoEnforcers):
		data["Errors"] = []string{"Both sides need at least one enforcer as Name,Tier,true|false."}
	case err != nil:
		h.renderError(c, "enforcer_calculator_failed", err)
		return
	default:
		data["Result"] = res
	}
	h.render(c, http.StatusOK, "enforcer_calculator.html", data)
}

type resourceField struct {
	Label, Name, Value string
}

var resourceFieldNames = []string{"cash", "cargo", "arms", "metal", "diamonds"}

func (h *Handler) resourceCalculator(c *gin.Context) {
	fields := make([]resourceField, 0, len(resourceFieldNames))
	for _, n := range resourceFieldNames {
		fields = append(fields, resourceField{Label: fieldLabel(n), Name: n, Value: c.PostForm(n)})
	}
	data := gin.H{"Title": "Resource calculator", "Fields": fields}
	if c.Request.Method != http.MethodPost {
		h.render(c, http.StatusOK, "resource_calculator.html", data)
		return
	}

	var errs []string
	amounts := make(map[string]int64, len(resourceFieldNames))
	for _, n := range resourceFieldNames {
		v, problem := formInt(c, n)
		if problem != "" {
			errs = append(errs, problem)
			continue
		}
		amounts[n] = v
	}
	if len(errs) == 0 {
		sum, err := h.services.Resources(calculator.ResourceAmounts{
			Cash:     amounts["cash"],
			Cargo:    amounts["cargo"],
			Arms:     amounts["arms"],
			Metal:    amounts["metal"],
			Diamonds: amounts["diamonds"],
		})
		if err != nil {
			errs = append(errs, err.Error())
		} else {
			data["Result"] = sum
		}
	}
	data["Errors"] = errs
	h.render(c, http.StatusOK, "resource_calculator.html", data)
}

func (h *Handler) gearCalculator(c *gin.Context) {
	opts, err := h.services.GearOptions()
	if err != nil {
		h.renderError(c, "gear_options_failed", err)
		return
	}

	selected := map[string]bool{}
	levels := map[string]int{}
	data := gin.H{"Title": "Gear calculator", "Options": opts, "Selected": selected, "Levels": levels}
	if c.Request.Method != http.MethodPost {
		h.render(c, http.StatusOK, "gear_calculator.html", data)
		return
	}

	gear := c.PostFormArray("gear")
	for _, g := range gear {
		selected[g] = true
	}
	var errs []string
	for _, name := range opts.Investments {
		raw := strings.TrimSpace(c.PostForm(formFieldName(name)))
		if raw == "" {
			continue
		}
		lvl, err := strconv.Atoi(raw)
		if err != nil || lvl < 0 {
			errs = append(errs, fmt.Sprintf("%s level must be a whole number of at least 0.", name))
			continue
		}
		levels[name] = lvl
	}
	if len(errs) > 0 {
		data["Errors"] = errs
		h.render(c, http.StatusOK, "gear_calculator.html", data)
		return
	}

	boost, err := h.services.Gear(gear, levels)
	if err != nil {
		h.renderError(c, "gear_calculator_failed", err)
		return
	}
	data["Result"] = boost
	h.render(c, http.StatusOK, "gear_calculator.html", data)
}
