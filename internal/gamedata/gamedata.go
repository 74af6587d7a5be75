// Package gamedata reads the static game reference tables from disk.
package gamedata

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"
)

const (
	GearFile              = "gear.json"
	InvestmentsFile       = "investments.json"
	TroopStatsFile        = "troop_stats.json"
	EnforcerBuffsFile     = "enforcer_buffs.json"
	TierMultipliersFile   = "enforcer_tier_multipliers.json"
	SignatureWeaponsFile  = "signature_weapon_buffs.json"
	CounterInfoFile       = "counter_info.json"
	MiscBuffsFile         = "misc_buffs.json"
	BuffTypeCombat        = "Combat"
	InvestmentStatAttack  = "attack"
	InvestmentStatDefense = "defense"
)

// ErrTableMissing is returned when a reference file does not exist.
var ErrTableMissing = errors.New("game data table missing")

type GearItem struct {
	Attack  float64 `json:"attack"`
	Defense float64 `json:"defense"`
}

// Investment is a levelled research bonus multiplying one gear stat.
type Investment struct {
	Stat     string  `json:"stat"`
	PerLevel float64 `json:"per_level"`
}

type TroopStats struct {
	Atk       float64 `json:"atk"`
	Def       float64 `json:"def"`
	HP        float64 `json:"hp"`
	Speed     float64 `json:"speed,omitempty"`
	Load      float64 `json:"load,omitempty"`
	Upkeep    float64 `json:"upkeep,omitempty"`
	Influence float64 `json:"influence,omitempty"`
}

type Buff struct {
	Name     string  `json:"name"`
	Type     string  `json:"type"`
	MaxValue float64 `json:"max_value"`
}

type EnforcerData struct {
	Buffs []Buff `json:"buffs"`
}

type TierMultiplier struct {
	PercentageBenefit float64 `json:"percentage_benefit"`
}

type WeaponSkill struct {
	Name      string  `json:"name"`
	BuffValue float64 `json:"buff_value"`
}

type SignatureWeapon struct {
	WeaponName     string       `json:"weapon_name"`
	BasicSkill     *WeaponSkill `json:"basic_skill,omitempty"`
	ExclusiveSkill *WeaponSkill `json:"exclusive_skill,omitempty"`
}

type CounterInfo struct {
	StrongAgainst []string `json:"strong_against"`
	WeakAgainst   []string `json:"weak_against"`
}

type MiscBuffs struct {
	// keyed "level_N"
	TrainingCenterDefBonus map[string]float64 `json:"training_center_def_bonus"`
}

// Combat bundles every table the battalion and battle calculations need.
type Combat struct {
	TroopStats       map[string]map[string]TroopStats
	EnforcerBuffs    map[string]EnforcerData
	TierMultipliers  map[string]TierMultiplier
	SignatureWeapons map[string]SignatureWeapon
	CounterInfo      map[string]CounterInfo
	MiscBuffs        MiscBuffs
}

// Troop returns the base stats of a troop type at a tier.
func (c *Combat) Troop(troopType, tier string) (TroopStats, bool) {
	tiers, ok := c.TroopStats[troopType]
	if !ok {
		return TroopStats{}, false
	}
	s, ok := tiers[tier]
	return s, ok
}

// Loader reads tables from dir each time they are requested, so edits on
// disk are picked up without a restart.
type Loader struct {
	dir string
}

func NewLoader(dir string) *Loader {
	return &Loader{dir: dir}
}

func (l *Loader) Dir() string { return l.dir }

func (l *Loader) Gear() (map[string]GearItem, error) {
	var out map[string]GearItem
	if err := l.read(GearFile, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (l *Loader) Investments() (map[string]Investment, error) {
	var out map[string]Investment
	if err := l.read(InvestmentsFile, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Combat loads the six combat tables concurrently.
func (l *Loader) Combat() (*Combat, error) {
	var c Combat
	var g errgroup.Group
	g.Go(func() error { return l.read(TroopStatsFile, &c.TroopStats) })
	g.Go(func() error { return l.read(EnforcerBuffsFile, &c.EnforcerBuffs) })
	g.Go(func() error { return l.read(TierMultipliersFile, &c.TierMultipliers) })
	g.Go(func() error { return l.read(SignatureWeaponsFile, &c.SignatureWeapons) })
	g.Go(func() error { return l.read(CounterInfoFile, &c.CounterInfo) })
	g.Go(func() error { return l.read(MiscBuffsFile, &c.MiscBuffs) })
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (l *Loader) read(name string, dst any) error {
	path := filepath.Join(l.dir, name)
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%s: %w", path, ErrTableMissing)
		}
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
