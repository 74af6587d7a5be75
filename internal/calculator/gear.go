package calculator

import (
	"math"
	"strconv"

	"tgm_calc/internal/gamedata"
)

// GearBoost is the combined attack and defense bonus of a gear loadout.
type GearBoost struct {
	AttackBoost  float64 `json:"attack_boost"`
	DefenseBoost float64 `json:"defense_boost"`
}

// GearAndInvestments sums the stats of the known gear items and scales each
// total by the investments bound to that stat. Unknown names are ignored.
func GearAndInvestments(
	gear []string,
	investments map[string]int,
	gearTable map[string]gamedata.GearItem,
	investmentTable map[string]gamedata.Investment,
) GearBoost {
	var atk, def float64
	for _, name := range gear {
		item, ok := gearTable[name]
		if !ok {
			continue
		}
		atk += item.Attack
		def += item.Defense
	}

	atkMul, defMul := 1.0, 1.0
	for name, level := range investments {
		inv, ok := investmentTable[name]
		if !ok || level <= 0 {
			continue
		}
		switch inv.Stat {
		case gamedata.InvestmentStatAttack:
			atkMul += float64(level) * inv.PerLevel
		case gamedata.InvestmentStatDefense:
			defMul += float64(level) * inv.PerLevel
		}
	}

	return GearBoost{
		AttackBoost:  Round3(atk * atkMul),
		DefenseBoost: Round3(def * defMul),
	}
}

// Round3 rounds to three decimals.
func Round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

// FormatDecimal renders v without trailing zeros, e.g. 25.025 or 10.01.
func FormatDecimal(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
