package service

import (
	"context"
	"errors"
	"fmt"

	"tgm_calc/internal/combat"
	"tgm_calc/internal/gamedata"
)

// ErrInvalidInput marks combat requests that cannot be evaluated as given.
var ErrInvalidInput = errors.New("invalid combat input")

var combatInputErrors = []error{
	combat.ErrNoOpponentHP,
	combat.ErrNoCombatTroops,
	combat.ErrNoUserHP,
	combat.ErrNotEnoughEnforcers,
	combat.ErrNoCandidateTeams,
	combat.ErrNoEvaluatedSetups,
}

// BattalionInput describes one side of a battle.
type BattalionInput struct {
	Troops    []combat.Troop    `json:"troops"`
	Enforcers []combat.Enforcer `json:"enforcers"`
	Misc      combat.MiscBuffs  `json:"misc_buffs"`
}

type SimulationInput struct {
	Attacker BattalionInput `json:"attacker"`
	Defender BattalionInput `json:"defender"`
}

type SimulationResult struct {
	Attacker combat.Battalion    `json:"attacker_stats"`
	Defender combat.Battalion    `json:"defender_stats"`
	Result   combat.BattleResult `json:"battle_result"`
}

type CombatService struct {
	data *gamedata.Loader
}

func NewCombatService(data *gamedata.Loader) *CombatService {
	return &CombatService{data: data}
}

func (s *CombatService) Battalion(ctx context.Context, in BattalionInput) (*combat.Battalion, error) {
	data, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	b := combat.BattalionStats(data, in.Troops, in.Enforcers, in.Misc)
	return &b, nil
}

func (s *CombatService) Simulate(ctx context.Context, in SimulationInput) (*SimulationResult, error) {
	data, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	att := combat.BattalionStats(data, in.Attacker.Troops, in.Attacker.Enforcers, in.Attacker.Misc)
	def := combat.BattalionStats(data, in.Defender.Troops, in.Defender.Enforcers, in.Defender.Misc)
	if att.TotalHP <= 0 || def.TotalHP <= 0 {
		return nil, fmt.Errorf("%w: both battalions need troops with HP", ErrInvalidInput)
	}
	return &SimulationResult{Attacker: att, Defender: def, Result: combat.Simulate(data, att, def)}, nil
}

// RecommendTroops suggests a troop mix against opponent.
func (s *CombatService) RecommendTroops(ctx context.Context, opponent BattalionInput) (*combat.TroopRecommendation, error) {
	data, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	rec, err := combat.RecommendTroopMix(data, opponent.Troops, opponent.Enforcers, opponent.Misc)
	if err != nil {
		return nil, classifyCombatError(err)
	}
	return rec, nil
}

func (s *CombatService) RecommendEnforcers(ctx context.Context, req combat.SetupRequest) (*combat.EnforcerRecommendation, error) {
	data, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	rec, err := combat.RecommendEnforcerSetup(ctx, data, req)
	if err != nil {
		return nil, classifyCombatError(err)
	}
	return rec, nil
}

func (s *CombatService) load(ctx context.Context) (*gamedata.Combat, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.data.Combat()
}

func classifyCombatError(err error) error {
	for _, target := range combatInputErrors {
		if errors.Is(err, target) {
			return fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
	}
	return err
}
