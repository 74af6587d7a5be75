package combat

import (
	"strconv"
	"strings"

	"tgm_calc/internal/gamedata"
)

// BuffTarget is a parsed buff name such as "Biker ATK Up" or "Crew HP Down".
type BuffTarget struct {
	Squad string
	Stat  string
	Sign  float64 // +1 for Up, -1 for Down
}

// ParseBuff splits a buff name into squad, stat and direction. The squad is
// every word before the stat, so multi-word types such as "Mortar Car" are
// kept whole. Plural squad names are mapped onto the troop table keys.
func ParseBuff(name string, troops map[string]map[string]gamedata.TroopStats) (BuffTarget, bool) {
	words := strings.Fields(name)
	if len(words) < 3 {
		return BuffTarget{}, false
	}

	var t BuffTarget
	switch strings.ToUpper(words[len(words)-1]) {
	case "UP":
		t.Sign = 1
	case "DOWN":
		t.Sign = -1
	default:
		return BuffTarget{}, false
	}

	t.Stat = strings.ToUpper(words[len(words)-2])
	if t.Stat != StatATK && t.Stat != StatDEF && t.Stat != StatHP {
		return BuffTarget{}, false
	}

	squad := strings.Join(words[:len(words)-2], " ")
	if strings.EqualFold(squad, SquadCrew) {
		t.Squad = SquadCrew
		return t, true
	}
	canon, ok := CanonicalType(squad, troops)
	if !ok {
		return BuffTarget{}, false
	}
	t.Squad = canon
	return t, true
}

// CanonicalType resolves a troop type name against the troop table keys,
// ignoring case and accepting plural forms like "Bikers" or "Hitmen".
func CanonicalType(name string, troops map[string]map[string]gamedata.TroopStats) (string, bool) {
	name = strings.TrimSpace(name)
	if _, ok := troops[name]; ok {
		return name, true
	}
	candidates := []string{name}
	switch {
	case strings.HasSuffix(strings.ToLower(name), "men"):
		candidates = append(candidates, name[:len(name)-3]+"man")
	case strings.HasSuffix(strings.ToLower(name), "s"):
		candidates = append(candidates, name[:len(name)-1])
	}
	for _, c := range candidates {
		for key := range troops {
			if strings.EqualFold(key, c) {
				return key, true
			}
		}
	}
	return "", false
}

// ParseTroops reads one "Type,Tier,Quantity" entry per line. Entries with a
// missing field or a non-positive quantity are skipped.
func ParseTroops(text string) []Troop {
	var out []Troop
	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		parts := strings.Split(line, ",")
		if len(parts) != 3 {
			continue
		}
		typ := strings.TrimSpace(parts[0])
		tier := strings.TrimSpace(parts[1])
		qty, err := strconv.Atoi(strings.TrimSpace(parts[2]))
		if typ == "" || tier == "" || err != nil || qty <= 0 {
			continue
		}
		out = append(out, Troop{Type: typ, Tier: tier, Quantity: qty})
	}
	return out
}

// ParseEnforcers reads "Name,Tier,true|false" entries separated by ';' or
// newlines. Malformed entries are skipped.
func ParseEnforcers(text string) []Enforcer {
	entries := strings.FieldsFunc(text, func(r rune) bool { return r == ';' || r == '\n' })
	var out []Enforcer
	for _, entry := range entries {
		parts := strings.Split(entry, ",")
		if len(parts) != 3 {
			continue
		}
		name := strings.TrimSpace(parts[0])
		tier := strings.TrimSpace(parts[1])
		weapon := strings.ToLower(strings.TrimSpace(parts[2]))
		if name == "" || tier == "" || (weapon != "true" && weapon != "false") {
			continue
		}
		out = append(out, Enforcer{Name: name, Tier: tier, HasSignatureWeapon: weapon == "true"})
	}
	return out
}
