package service

import (
	"errors"
	"sort"

	"tgm_calc/internal/calculator"
	"tgm_calc/internal/combat"
	"tgm_calc/internal/gamedata"
)

var ErrNoEnforcers = errors.New("enter at least one enforcer as Name,Tier,true|false")

// GearOptions are the names offered on the gear calculator form.
type GearOptions struct {
	Gear        []string
	Investments []string
}

type CalculatorService struct {
	data *gamedata.Loader
}

func NewCalculatorService(data *gamedata.Loader) *CalculatorService {
	return &CalculatorService{data: data}
}

func (s *CalculatorService) CounterTroops(opponent calculator.TroopCounts) calculator.TroopCounts {
	return calculator.CounterTroops(opponent)
}

func (s *CalculatorService) Gear(gear []string, investments map[string]int) (calculator.GearBoost, error) {
	gearTable, err := s.data.Gear()
	if err != nil {
		return calculator.GearBoost{}, err
	}
	investmentTable, err := s.data.Investments()
	if err != nil {
		return calculator.GearBoost{}, err
	}
	return calculator.GearAndInvestments(gear, investments, gearTable, investmentTable), nil
}

func (s *CalculatorService) GearOptions() (*GearOptions, error) {
	gearTable, err := s.data.Gear()
	if err != nil {
		return nil, err
	}
	investmentTable, err := s.data.Investments()
	if err != nil {
		return nil, err
	}
	return &GearOptions{Gear: sortedKeys(gearTable), Investments: sortedKeys(investmentTable)}, nil
}

func (s *CalculatorService) Resources(in calculator.ResourceAmounts) (calculator.ResourceSummary, error) {
	return calculator.Resources(in)
}

// CompareEnforcers parses both "Name,Tier,true|false; ..." lists and scores them.
func (s *CalculatorService) CompareEnforcers(userText, opponentText string) (*combat.EnforcerComparison, error) {
	user, opponent := combat.ParseEnforcers(userText), combat.ParseEnforcers(opponentText)
	if len(user) == 0 || len(opponent) == 0 {
		return nil, ErrNoEnforcers
	}
	data, err := s.data.Combat()
	if err != nil {
		return nil, err
	}
	cmp := combat.CompareEnforcers(data, user, opponent)
	return &cmp, nil
}

func sortedKeys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
