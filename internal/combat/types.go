// Package combat computes battalion stats from the game tables, runs the
// round based battle simulation and derives troop and enforcer
// recommendations from it.
package combat

// Combat troop types. Mortar Car is a siege type and is ignored by the
// troop mix and enforcer scoring logic.
const (
	TypeBruiser   = "Bruiser"
	TypeHitman    = "Hitman"
	TypeBiker     = "Biker"
	TypeMortarCar = "Mortar Car"

	SquadCrew = "Crew"
)

const (
	StatATK = "ATK"
	StatDEF = "DEF"
	StatHP  = "HP"
)

const (
	WinnerAttacker = "attacker"
	WinnerDefender = "defender"
	WinnerDraw     = "draw"
)

type Troop struct {
	Type     string `json:"type"`
	Tier     string `json:"tier"`
	Quantity int    `json:"quantity"`
}

type Enforcer struct {
	Name               string `json:"name"`
	Tier               string `json:"tier"`
	HasSignatureWeapon bool   `json:"has_signature_weapon"`
}

// MiscBuffs are player wide passives. A zero TrainingCenterLevel means none.
type MiscBuffs struct {
	TrainingCenterLevel int `json:"training_center_level"`
}

type AppliedBuff struct {
	Name       string  `json:"buff_name"`
	Source     string  `json:"source"`
	Stat       string  `json:"applied_to_stat"`
	Percentage float64 `json:"value_percentage"`
	Base       float64 `json:"base_value_for_calc"`
	Increase   float64 `json:"increase_amount"`
	Before     float64 `json:"stat_value_before_this_buff"`
	After      float64 `json:"stat_value_after_this_buff"`
}

// Group is one troop line of a battalion after all buffs are applied.
type Group struct {
	Type     string        `json:"type"`
	Tier     string        `json:"tier"`
	Quantity int           `json:"quantity"`
	BaseAtk  float64       `json:"base_atk_total"`
	BaseDef  float64       `json:"base_def_total"`
	BaseHP   float64       `json:"base_hp_total"`
	Atk      float64       `json:"atk"`
	Def      float64       `json:"def"`
	HP       float64       `json:"hp"`
	Buffs    []AppliedBuff `json:"buffs_applied"`
	Error    string        `json:"error,omitempty"`
}

type Summary struct {
	TotalAtk float64 `json:"total_atk"`
	TotalDef float64 `json:"total_def"`
	TotalHP  float64 `json:"total_hp"`
}

type Battalion struct {
	Summary
	Details []Group `json:"details"`
}

type BattleResult struct {
	Winner                 string   `json:"winner"`
	RoundsFought           int      `json:"rounds_fought"`
	AttackerHPRemainingPct float64  `json:"attacker_hp_remaining_percentage"`
	DefenderHPRemainingPct float64  `json:"defender_hp_remaining_percentage"`
	Log                    []string `json:"log"`
}
