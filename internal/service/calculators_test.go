package service

import (
	"context"
	"errors"
	"testing"

	"tgm_calc/internal/calculator"
	"tgm_calc/internal/combat"
	"tgm_calc/internal/gamedata"
)

const shippedGameData = "../../data/gamedata"

func TestCalculatorService_Gear(t *testing.T) {
	svc := NewCalculatorService(gamedata.NewLoader(shippedGameData))

	got, err := svc.Gear([]string{"M4A1", "Kevlar Vest", "Unknown"}, map[string]int{"Advanced Arms": 1, "Defensive Tactics": 1})
	if err != nil {
		t.Fatalf("Gear: %v", err)
	}
	if got.AttackBoost != 10.01 || got.DefenseBoost != 25.025 {
		t.Fatalf("got %+v", got)
	}

	opts, err := svc.GearOptions()
	if err != nil || len(opts.Gear) == 0 || len(opts.Investments) == 0 {
		t.Fatalf("GearOptions = %+v, %v", opts, err)
	}
	for i := 1; i < len(opts.Gear); i++ {
		if opts.Gear[i-1] > opts.Gear[i] {
			t.Fatalf("gear options not sorted: %v", opts.Gear)
		}
	}
}

func TestCalculatorService_MissingTables(t *testing.T) {
	svc := NewCalculatorService(gamedata.NewLoader(t.TempDir()))

	if _, err := svc.Gear(nil, nil); !errors.Is(err, gamedata.ErrTableMissing) {
		t.Fatalf("Gear err = %v", err)
	}
	if _, err := svc.CompareEnforcers("Bubba,Grand,true", "Viper,Rare,false"); !errors.Is(err, gamedata.ErrTableMissing) {
		t.Fatalf("CompareEnforcers err = %v", err)
	}
}

func TestCalculatorService_CounterAndResources(t *testing.T) {
	svc := NewCalculatorService(gamedata.NewLoader(shippedGameData))

	got := svc.CounterTroops(calculator.TroopCounts{Bruisers: 100, Hitmen: 50, Bikers: 75})
	if got != (calculator.TroopCounts{Bikers: 100, Bruisers: 50, Hitmen: 75}) {
		t.Fatalf("CounterTroops = %+v", got)
	}

	sum, err := svc.Resources(calculator.ResourceAmounts{Cash: 100, Cargo: 100, Arms: 100, Metal: 100, Diamonds: 100})
	if err != nil || sum.Total != 500 {
		t.Fatalf("Resources = %+v, %v", sum, err)
	}
}

func TestCalculatorService_CompareEnforcers(t *testing.T) {
	svc := NewCalculatorService(gamedata.NewLoader(shippedGameData))

	if _, err := svc.CompareEnforcers("", "Bubba,Grand,true"); !errors.Is(err, ErrNoEnforcers) {
		t.Fatalf("empty side err = %v", err)
	}
	cmp, err := svc.CompareEnforcers("Bubba,Grand,true", "Bubba,Common,false")
	if err != nil {
		t.Fatalf("CompareEnforcers: %v", err)
	}
	if cmp.Advantage != combat.AdvantageUser {
		t.Fatalf("advantage = %s", cmp.Advantage)
	}
}

func TestCombatService(t *testing.T) {
	ctx := context.Background()
	svc := NewCombatService(gamedata.NewLoader(shippedGameData))
	opponent := BattalionInput{Troops: []combat.Troop{{Type: "Bruiser", Tier: "T4", Quantity: 500}}}

	b, err := svc.Battalion(ctx, opponent)
	if err != nil || b.TotalHP <= 0 {
		t.Fatalf("Battalion = %+v, %v", b, err)
	}

	if _, err := svc.Simulate(ctx, SimulationInput{Attacker: opponent}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("empty defender err = %v", err)
	}
	res, err := svc.Simulate(ctx, SimulationInput{
		Attacker: BattalionInput{Troops: []combat.Troop{{Type: "Biker", Tier: "T4", Quantity: 800}}},
		Defender: opponent,
	})
	if err != nil || res.Result.Winner == "" {
		t.Fatalf("Simulate = %+v, %v", res, err)
	}

	rec, err := svc.RecommendTroops(ctx, opponent)
	if err != nil || rec.OpponentDominantType != combat.TypeBruiser {
		t.Fatalf("RecommendTroops = %+v, %v", rec, err)
	}
	if _, err := svc.RecommendTroops(ctx, BattalionInput{}); !errors.Is(err, ErrInvalidInput) || !errors.Is(err, combat.ErrNoOpponentHP) {
		t.Fatalf("empty opponent err = %v", err)
	}

	_, err = svc.RecommendEnforcers(ctx, combat.SetupRequest{
		UserTroops:     []combat.Troop{{Type: "Biker", Tier: "T4", Quantity: 500}},
		OpponentTroops: opponent.Troops,
		Available:      []combat.Enforcer{{Name: "Bubba", Tier: "Grand"}},
	})
	if !errors.Is(err, combat.ErrNotEnoughEnforcers) || !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("too few enforcers err = %v", err)
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if _, err := svc.Battalion(cancelled, opponent); !errors.Is(err, context.Canceled) {
		t.Fatalf("cancelled ctx err = %v", err)
	}
}
