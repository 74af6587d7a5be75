package combat

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"
	"slices"
	"sort"

	"tgm_calc/internal/gamedata"

	"golang.org/x/sync/errgroup"
)

var (
	ErrNoOpponentHP       = errors.New("opponent battalion has no HP")
	ErrNoCombatTroops     = errors.New("opponent has no bruisers, hitmen or bikers")
	ErrNoUserHP           = errors.New("user battalion has no HP")
	ErrNotEnoughEnforcers = errors.New("not enough valid enforcers to form a team of 5")
	ErrNoCandidateTeams   = errors.New("no candidate enforcer teams could be generated")
	ErrNoEvaluatedSetups  = errors.New("no enforcer setup could be evaluated")
)

const (
	teamSize          = 5
	squadSize         = teamSize - 1
	maxUnderbosses    = 3
	squadPoolSize     = 7
	maxCandidateTeams = 75
	topSetups         = 5
	fallbackT4HP      = 50
	minRecommendedQty = 100
)

// DefaultRecommendationEnforcers is the team assumed for the user when a
// troop mix is evaluated.
var DefaultRecommendationEnforcers = []Enforcer{
	{Name: "Red Thorn", Tier: "Grand", HasSignatureWeapon: true},
	{Name: "Captain", Tier: "Grand", HasSignatureWeapon: true},
	{Name: "Tengu", Tier: "Grand", HasSignatureWeapon: true},
	{Name: "Bubba", Tier: "Grand", HasSignatureWeapon: true},
	{Name: "The Professor", Tier: "Grand", HasSignatureWeapon: true},
}

var DefaultRecommendationMisc = MiscBuffs{TrainingCenterLevel: 25}

// PreferredUnderbosses are tried as team leaders in this order.
var PreferredUnderbosses = []string{"Red Thorn", "Captain", "The Professor", "Bubba", "Viper", "Banshee", "Enigma"}

var combatTypes = []string{TypeBruiser, TypeHitman, TypeBiker}

// counterOf maps a dominant opponent type to the primary counter and the
// two sacrificial screen types.
var counterOf = map[string][3]string{
	TypeBruiser: {TypeBiker, TypeHitman, TypeBruiser},
	TypeBiker:   {TypeHitman, TypeBruiser, TypeBiker},
	TypeHitman:  {TypeBruiser, TypeBiker, TypeHitman},
}

type TroopRecommendation struct {
	RecommendedMix       []Troop      `json:"recommended_mix"`
	OpponentDominantType string       `json:"opponent_dominant_type"`
	Simulation           BattleResult `json:"simulation_result"`
	AssumedEnforcers     []Enforcer   `json:"assumed_user_enforcers"`
	AssumedMisc          MiscBuffs    `json:"assumed_user_misc_buffs"`
	UserSummary          Summary      `json:"user_candidate_stats_summary"`
	OpponentSummary      Summary      `json:"opponent_stats_summary"`
}

// RecommendTroopMix builds a T4 counter force sized to 120% of the
// opponent's HP, screened by two T1 types at 10% each, and simulates it.
func RecommendTroopMix(data *gamedata.Combat, opponent []Troop, opponentEnforcers []Enforcer, opponentMisc MiscBuffs) (*TroopRecommendation, error) {
	opp := BattalionStats(data, opponent, opponentEnforcers, opponentMisc)
	if opp.TotalHP <= 0 {
		return nil, ErrNoOpponentHP
	}

	hpByType := make(map[string]float64, len(combatTypes))
	var combatHP float64
	for _, g := range opp.Details {
		if g.Error != "" || !slices.Contains(combatTypes, g.Type) {
			continue
		}
		hpByType[g.Type] += g.HP
		combatHP += g.HP
	}
	if combatHP == 0 {
		return nil, ErrNoCombatTroops
	}

	var dominant string
	var best float64
	for _, t := range combatTypes {
		if hpByType[t] > best {
			best, dominant = hpByType[t], t
		}
	}
	plan := counterOf[dominant]

	unitHP := float64(fallbackT4HP)
	if s, ok := data.Troop(plan[0], "T4"); ok && s.HP > 0 {
		unitHP = s.HP
	}
	primaryQty := int(math.Ceil(opp.TotalHP * 1.2 / unitHP))
	screenQty := int(math.Ceil(float64(primaryQty) * 0.1))

	mix := []Troop{
		{Type: plan[0], Tier: "T4", Quantity: max(minRecommendedQty, primaryQty)},
		{Type: plan[1], Tier: "T1", Quantity: max(minRecommendedQty, screenQty)},
		{Type: plan[2], Tier: "T1", Quantity: max(minRecommendedQty, screenQty)},
	}

	user := BattalionStats(data, mix, DefaultRecommendationEnforcers, DefaultRecommendationMisc)
	if user.TotalHP <= 0 {
		return nil, ErrNoUserHP
	}

	return &TroopRecommendation{
		RecommendedMix:       mix,
		OpponentDominantType: dominant,
		Simulation:           Simulate(data, user, opp),
		AssumedEnforcers:     DefaultRecommendationEnforcers,
		AssumedMisc:          DefaultRecommendationMisc,
		UserSummary:          user.Summary,
		OpponentSummary:      opp.Summary,
	}, nil
}

type EvaluatedSetup struct {
	Team        []Enforcer   `json:"enforcer_team"`
	UserSummary Summary      `json:"user_stats_summary"`
	Simulation  BattleResult `json:"simulation"`
}

type EnforcerRecommendation struct {
	Best *EvaluatedSetup  `json:"best_enforcer_recommendation"`
	Top  []EvaluatedSetup `json:"all_evaluated_setups"`
}

// SetupRequest carries both battalions for an enforcer setup search.
// Available may be empty, in which case every enforcer that has signature
// weapon data is assumed at Grand tier with the weapon equipped.
type SetupRequest struct {
	UserTroops        []Troop    `json:"user_troops"`
	UserMisc          MiscBuffs  `json:"user_misc_buffs"`
	OpponentTroops    []Troop    `json:"opponent_troops"`
	OpponentEnforcers []Enforcer `json:"opponent_enforcers"`
	OpponentMisc      MiscBuffs  `json:"opponent_misc_buffs"`
	Available         []Enforcer `json:"available_enforcers"`
}

// DefaultAvailableEnforcers lists every enforcer with signature weapon
// data, sorted by name.
func DefaultAvailableEnforcers(data *gamedata.Combat) []Enforcer {
	names := make([]string, 0, len(data.EnforcerBuffs))
	for name := range data.EnforcerBuffs {
		if _, ok := data.SignatureWeapons[name]; ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	out := make([]Enforcer, 0, len(names))
	for _, n := range names {
		out = append(out, Enforcer{Name: n, Tier: "Grand", HasSignatureWeapon: true})
	}
	return out
}

// RecommendEnforcerSetup generates up to 75 candidate teams of one
// underboss plus four squad enforcers, simulates each against the opponent
// and returns the best five. Wins rank first, then remaining attacker HP.
func RecommendEnforcerSetup(ctx context.Context, data *gamedata.Combat, req SetupRequest) (*EnforcerRecommendation, error) {
	available := req.Available
	if len(available) == 0 {
		available = DefaultAvailableEnforcers(data)
	}

	valid := make([]Enforcer, 0, len(available))
	for _, e := range available {
		if _, ok := data.EnforcerBuffs[e.Name]; !ok {
			continue
		}
		if _, ok := data.SignatureWeapons[e.Name]; e.HasSignatureWeapon && !ok {
			continue
		}
		valid = append(valid, e)
	}
	if len(valid) < teamSize {
		return nil, fmt.Errorf("found %d: %w", len(valid), ErrNotEnoughEnforcers)
	}

	opp := BattalionStats(data, req.OpponentTroops, req.OpponentEnforcers, req.OpponentMisc)
	if opp.TotalHP <= 0 {
		return nil, ErrNoOpponentHP
	}
	if base := BattalionStats(data, req.UserTroops, nil, req.UserMisc); base.TotalHP <= 0 {
		return nil, ErrNoUserHP
	}

	primary := primaryCombatType(data, req.UserTroops)
	teams := candidateTeams(data, valid, primary)
	if len(teams) == 0 {
		return nil, ErrNoCandidateTeams
	}

	results := make([]*EvaluatedSetup, len(teams))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, team := range teams {
		i, team := i, team
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			user := BattalionStats(data, req.UserTroops, team, req.UserMisc)
			if user.TotalHP <= 0 {
				return nil
			}
			results[i] = &EvaluatedSetup{
				Team:        team,
				UserSummary: user.Summary,
				Simulation:  Simulate(data, user, opp),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	evaluated := make([]EvaluatedSetup, 0, len(results))
	for _, r := range results {
		if r != nil {
			evaluated = append(evaluated, *r)
		}
	}
	if len(evaluated) == 0 {
		return nil, ErrNoEvaluatedSetups
	}

	sort.SliceStable(evaluated, func(i, j int) bool {
		wi := evaluated[i].Simulation.Winner == WinnerAttacker
		wj := evaluated[j].Simulation.Winner == WinnerAttacker
		if wi != wj {
			return wi
		}
		return evaluated[i].Simulation.AttackerHPRemainingPct > evaluated[j].Simulation.AttackerHPRemainingPct
	})

	top := evaluated[:min(topSetups, len(evaluated))]
	best := top[0]
	return &EnforcerRecommendation{Best: &best, Top: top}, nil
}

// primaryCombatType is the combat type with the largest single troop line,
// Bruiser when there is none.
func primaryCombatType(data *gamedata.Combat, troops []Troop) string {
	primary, most := "", 0
	for _, t := range troops {
		typ, ok := CanonicalType(t.Type, data.TroopStats)
		if !ok || !slices.Contains(combatTypes, typ) {
			continue
		}
		if t.Quantity > most {
			primary, most = typ, t.Quantity
		}
	}
	if primary == "" {
		return TypeBruiser
	}
	return primary
}

func underbossCandidates(valid []Enforcer) []Enforcer {
	var ubs []Enforcer
	for _, name := range PreferredUnderbosses {
		if i := slices.IndexFunc(valid, func(e Enforcer) bool { return e.Name == name }); i >= 0 {
			ubs = append(ubs, valid[i])
		}
		if len(ubs) == maxUnderbosses {
			break
		}
	}
	if len(ubs) == 0 {
		ubs = valid[:min(2, len(valid))]
	}
	return ubs
}

type scoredEnforcer struct {
	Enforcer
	score int
}

// squadScore gives +1 per Crew stat buff and +2 per buff on the primary type.
func squadScore(data *gamedata.Combat, name, primary string) int {
	score := 0
	for _, buff := range data.EnforcerBuffs[name].Buffs {
		if buff.Type != gamedata.BuffTypeCombat {
			continue
		}
		t, ok := ParseBuff(buff.Name, data.TroopStats)
		if !ok {
			continue
		}
		switch t.Squad {
		case SquadCrew:
			score++
		case primary:
			score += 2
		}
	}
	return score
}

func candidateTeams(data *gamedata.Combat, valid []Enforcer, primary string) [][]Enforcer {
	var teams [][]Enforcer
	for _, ub := range underbossCandidates(valid) {
		if len(teams) >= maxCandidateTeams {
			break
		}

		var pool []scoredEnforcer
		for _, e := range valid {
			if e.Name != ub.Name {
				pool = append(pool, scoredEnforcer{Enforcer: e, score: squadScore(data, e.Name, primary)})
			}
		}
		sort.SliceStable(pool, func(i, j int) bool { return pool[i].score > pool[j].score })
		pool = pool[:min(squadPoolSize, len(pool))]
		if len(pool) < squadSize {
			continue
		}

		for _, combo := range combinations(len(pool), squadSize) {
			if len(teams) >= maxCandidateTeams {
				break
			}
			team := []Enforcer{ub}
			seen := map[string]bool{ub.Name: true}
			for _, idx := range combo {
				team = append(team, pool[idx].Enforcer)
				seen[pool[idx].Name] = true
			}
			if len(seen) == teamSize {
				teams = append(teams, team)
			}
		}
	}
	return teams
}

// combinations returns every k-subset of 0..n-1 in lexicographic order.
func combinations(n, k int) [][]int {
	if k > n || k < 0 {
		return nil
	}
	var out [][]int
	idx := make([]int, k)
	for i := range idx {
		idx[i] = i
	}
	for {
		out = append(out, slices.Clone(idx))
		i := k - 1
		for i >= 0 && idx[i] == n-k+i {
			i--
		}
		if i < 0 {
			return out
		}
		idx[i]++
		for j := i + 1; j < k; j++ {
			idx[j] = idx[j-1] + 1
		}
	}
}
