package combat

import (
	"fmt"
	"slices"

	"tgm_calc/internal/gamedata"
)

const (
	CounterStrongMod = 0.5
	CounterWeakMod   = -0.33
	MaxBattleRounds  = 100
)

// CounterModifier returns the damage modifier of attackerType hitting defenderType.
func CounterModifier(data *gamedata.Combat, attackerType, defenderType string) float64 {
	info, ok := data.CounterInfo[attackerType]
	if !ok {
		return 0
	}
	if slices.Contains(info.StrongAgainst, defenderType) {
		return CounterStrongMod
	}
	if slices.Contains(info.WeakAgainst, defenderType) {
		return CounterWeakMod
	}
	return 0
}

// Simulate fights attacker against defender for at most MaxBattleRounds.
// Every round both sides deal their counter-adjusted attack at the same
// time, spread over the enemy groups in proportion to their remaining HP.
// Inputs are not modified.
func Simulate(data *gamedata.Combat, attacker, defender Battalion) BattleResult {
	att := liveGroups(attacker)
	def := liveGroups(defender)

	initialAtt := max(1, sumHP(att))
	initialDef := max(1, sumHP(def))

	var log []string
	rounds := 0
	for round := 1; round <= MaxBattleRounds; round++ {
		attHP, defHP := sumHP(att), sumHP(def)
		log = append(log, fmt.Sprintf("Round %d: attacker HP %.0f, defender HP %.0f", round, attHP, defHP))
		if attHP == 0 || defHP == 0 {
			log = append(log, "One side was eliminated before acting.")
			break
		}
		rounds = round

		attDmg := damage(data, att, def, defHP)
		defDmg := damage(data, def, att, attHP)
		log = append(log, fmt.Sprintf("  attacker deals %.0f, defender deals %.0f", attDmg, defDmg))

		log = distribute(log, "Defender", def, attDmg, defHP)
		log = distribute(log, "Attacker", att, defDmg, attHP)

		if sumHP(att) == 0 || sumHP(def) == 0 {
			log = append(log, "One side was eliminated.")
			break
		}
		if round == MaxBattleRounds {
			log = append(log, "Maximum rounds reached.")
		}
	}

	finalAtt, finalDef := sumHP(att), sumHP(def)
	res := BattleResult{
		RoundsFought:           rounds,
		AttackerHPRemainingPct: finalAtt / initialAtt * 100,
		DefenderHPRemainingPct: finalDef / initialDef * 100,
	}
	switch {
	case finalAtt > 0 && finalDef <= 0:
		res.Winner = WinnerAttacker
	case finalDef > 0 && finalAtt <= 0:
		res.Winner = WinnerDefender
	case finalAtt <= 0 && finalDef <= 0:
		res.Winner = WinnerDraw
	case res.AttackerHPRemainingPct > res.DefenderHPRemainingPct:
		res.Winner = WinnerAttacker
	case res.DefenderHPRemainingPct > res.AttackerHPRemainingPct:
		res.Winner = WinnerDefender
	default:
		res.Winner = WinnerDraw
	}

	log = append(log,
		fmt.Sprintf("Rounds fought: %d", rounds),
		fmt.Sprintf("Final attacker HP: %.0f / %.0f", finalAtt, initialAtt),
		fmt.Sprintf("Final defender HP: %.0f / %.0f", finalDef, initialDef),
		"Winner: "+res.Winner,
	)
	res.Log = log
	return res
}

type fighter struct {
	typ  string
	tier string
	atk  float64
	hp   float64
}

func liveGroups(b Battalion) []fighter {
	out := make([]fighter, 0, len(b.Details))
	for _, g := range b.Details {
		if g.Error != "" {
			continue
		}
		out = append(out, fighter{typ: g.Type, tier: g.Tier, atk: g.Atk, hp: g.HP})
	}
	return out
}

func sumHP(fs []fighter) float64 {
	var total float64
	for _, f := range fs {
		total += max(0, f.hp)
	}
	return total
}

func damage(data *gamedata.Combat, from, to []fighter, toHP float64) float64 {
	var total float64
	for _, a := range from {
		if a.hp <= 0 {
			continue
		}
		for _, d := range to {
			if d.hp <= 0 {
				continue
			}
			total += a.atk * (1 + CounterModifier(data, a.typ, d.typ)) * (d.hp / toHP)
		}
	}
	return total
}

func distribute(log []string, side string, fs []fighter, dmg, totalHP float64) []string {
	for i := range fs {
		f := &fs[i]
		if f.hp <= 0 {
			continue
		}
		share := dmg * (f.hp / totalHP)
		before := f.hp
		f.hp = max(0, f.hp-share)
		log = append(log, fmt.Sprintf("  %s %s %s HP: %.0f -> %.0f (took %.0f)", side, f.typ, f.tier, before, f.hp, share))
	}
	return log
}
