package combat

import (
	"math"

	"tgm_calc/internal/gamedata"
)

const (
	AdvantageUser     = "user"
	AdvantageOpponent = "opponent"
	AdvantageEven     = "even"
)

type EnforcerScore struct {
	Enforcer
	Known   bool    `json:"known"`
	Percent float64 `json:"percent"` // e.g. 35 for +35%
}

type EnforcerComparison struct {
	User          []EnforcerScore `json:"user"`
	Opponent      []EnforcerScore `json:"opponent"`
	UserTotal     float64         `json:"user_total"`
	OpponentTotal float64         `json:"opponent_total"`
	Advantage     string          `json:"advantage"`
}

// CompareEnforcers totals each side's combat buffs: every combat buff at
// max_value scaled by the tier multiplier, plus signature weapon skills
// when the weapon is equipped. Unknown enforcers count for nothing.
func CompareEnforcers(data *gamedata.Combat, user, opponent []Enforcer) EnforcerComparison {
	var c EnforcerComparison
	c.User, c.UserTotal = scoreSide(data, user)
	c.Opponent, c.OpponentTotal = scoreSide(data, opponent)
	switch {
	case c.UserTotal > c.OpponentTotal:
		c.Advantage = AdvantageUser
	case c.OpponentTotal > c.UserTotal:
		c.Advantage = AdvantageOpponent
	default:
		c.Advantage = AdvantageEven
	}
	return c
}

func scoreSide(data *gamedata.Combat, enforcers []Enforcer) ([]EnforcerScore, float64) {
	out := make([]EnforcerScore, 0, len(enforcers))
	var total float64
	for _, e := range enforcers {
		s := EnforcerScore{Enforcer: e}
		ed, ok := data.EnforcerBuffs[e.Name]
		if ok {
			s.Known = true
			mult := data.TierMultipliers[e.Tier].PercentageBenefit
			for _, b := range ed.Buffs {
				if b.Type != gamedata.BuffTypeCombat {
					continue
				}
				if t, ok := ParseBuff(b.Name, data.TroopStats); ok {
					s.Percent += b.MaxValue * mult * t.Sign * 100
				}
			}
			if w, ok := data.SignatureWeapons[e.Name]; ok && e.HasSignatureWeapon {
				for _, skill := range []*gamedata.WeaponSkill{w.BasicSkill, w.ExclusiveSkill} {
					if skill == nil {
						continue
					}
					if t, ok := ParseBuff(skill.Name, data.TroopStats); ok {
						s.Percent += skill.BuffValue * t.Sign * 100
					}
				}
			}
		}
		s.Percent = math.Round(s.Percent*1000) / 1000
		total += s.Percent
		out = append(out, s)
	}
	return out, math.Round(total*1000) / 1000
}
