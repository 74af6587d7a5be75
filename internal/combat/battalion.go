package combat

import (
	"fmt"

	"tgm_calc/internal/gamedata"
)

// BattalionStats totals a battalion's ATK, DEF and HP. Training center DEF
// is applied first, then enforcer buffs and signature weapon skills, each
// as a percentage of the group's unbuffed totals. Troops whose type or tier
// is unknown are reported as error groups and left out of the totals.
func BattalionStats(data *gamedata.Combat, troops []Troop, enforcers []Enforcer, misc MiscBuffs) Battalion {
	groups := make([]Group, 0, len(troops))
	for _, t := range troops {
		groups = append(groups, newGroup(data, t, misc))
	}

	applyEnforcerBuffs(data, groups, enforcers)
	applySignatureWeapons(data, groups, enforcers)

	b := Battalion{Details: groups}
	for _, g := range groups {
		if g.Error != "" {
			continue
		}
		b.TotalAtk += g.Atk
		b.TotalDef += g.Def
		b.TotalHP += g.HP
	}
	return b
}

func newGroup(data *gamedata.Combat, t Troop, misc MiscBuffs) Group {
	g := Group{Type: t.Type, Tier: t.Tier, Quantity: t.Quantity, Buffs: []AppliedBuff{}}

	typ, ok := CanonicalType(t.Type, data.TroopStats)
	if !ok {
		g.Error = fmt.Sprintf("base stats not found for %s %s", t.Type, t.Tier)
		return g
	}
	base, ok := data.Troop(typ, t.Tier)
	if !ok {
		g.Error = fmt.Sprintf("base stats not found for %s %s", t.Type, t.Tier)
		return g
	}

	g.Type = typ
	q := float64(t.Quantity)
	g.BaseAtk, g.BaseDef, g.BaseHP = base.Atk*q, base.Def*q, base.HP*q
	g.Atk, g.Def, g.HP = g.BaseAtk, g.BaseDef, g.BaseHP

	if misc.TrainingCenterLevel > 0 {
		if bonus, ok := data.MiscBuffs.TrainingCenterDefBonus[fmt.Sprintf("level_%d", misc.TrainingCenterLevel)]; ok {
			before := g.Def
			g.Def += before * bonus
			g.Buffs = append(g.Buffs, AppliedBuff{
				Name:       "Training Center DEF Bonus",
				Source:     fmt.Sprintf("Training Center Level %d", misc.TrainingCenterLevel),
				Stat:       "def",
				Percentage: bonus,
				Base:       before,
				Increase:   before * bonus,
				Before:     before,
				After:      g.Def,
			})
		}
	}
	return g
}

func applyEnforcerBuffs(data *gamedata.Combat, groups []Group, enforcers []Enforcer) {
	for _, e := range enforcers {
		ed, ok := data.EnforcerBuffs[e.Name]
		if !ok {
			continue
		}
		// unknown tiers give no benefit
		mult := data.TierMultipliers[e.Tier].PercentageBenefit
		source := fmt.Sprintf("Enforcer: %s (Tier: %s)", e.Name, e.Tier)
		for _, buff := range ed.Buffs {
			if buff.Type != gamedata.BuffTypeCombat {
				continue
			}
			target, ok := ParseBuff(buff.Name, data.TroopStats)
			if !ok {
				continue
			}
			applyBuff(groups, target, buff.Name, source, buff.MaxValue*mult*target.Sign)
		}
	}
}

func applySignatureWeapons(data *gamedata.Combat, groups []Group, enforcers []Enforcer) {
	for _, e := range enforcers {
		if !e.HasSignatureWeapon {
			continue
		}
		w, ok := data.SignatureWeapons[e.Name]
		if !ok {
			continue
		}
		for _, s := range []struct {
			label string
			skill *gamedata.WeaponSkill
		}{
			{"Basic Skill", w.BasicSkill},
			{"Exclusive Skill", w.ExclusiveSkill},
		} {
			if s.skill == nil || s.skill.Name == "" {
				continue
			}
			target, ok := ParseBuff(s.skill.Name, data.TroopStats)
			if !ok {
				continue
			}
			source := fmt.Sprintf("Signature Weapon: %s (%s) - %s", w.WeaponName, e.Name, s.label)
			applyBuff(groups, target, s.skill.Name, source, s.skill.BuffValue*target.Sign)
		}
	}
}

func applyBuff(groups []Group, target BuffTarget, name, source string, pct float64) {
	if pct == 0 {
		return
	}
	for i := range groups {
		g := &groups[i]
		if g.Error != "" || (target.Squad != SquadCrew && target.Squad != g.Type) {
			continue
		}
		var base float64
		var stat *float64
		switch target.Stat {
		case StatATK:
			base, stat = g.BaseAtk, &g.Atk
		case StatDEF:
			base, stat = g.BaseDef, &g.Def
		case StatHP:
			base, stat = g.BaseHP, &g.HP
		}
		before := *stat
		*stat += base * pct
		g.Buffs = append(g.Buffs, AppliedBuff{
			Name:       name,
			Source:     source,
			Stat:       lowerStat(target.Stat),
			Percentage: pct,
			Base:       base,
			Increase:   base * pct,
			Before:     before,
			After:      *stat,
		})
	}
}

func lowerStat(s string) string {
	switch s {
	case StatATK:
		return "atk"
	case StatDEF:
		return "def"
	default:
		return "hp"
	}
}
