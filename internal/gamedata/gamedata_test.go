package gamedata

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

const shippedDir = "../../data/gamedata"

func TestLoader_ShippedTables(t *testing.T) {
	l := NewLoader(shippedDir)

	gear, err := l.Gear()
	if err != nil {
		t.Fatalf("Gear: %v", err)
	}
	if gear["M4A1"].Attack != 10 || gear["Kevlar Vest"].Defense != 25 {
		t.Fatalf("unexpected gear rows: %+v", gear)
	}

	inv, err := l.Investments()
	if err != nil {
		t.Fatalf("Investments: %v", err)
	}
	if inv["Advanced Arms"].Stat != InvestmentStatAttack || inv["Defensive Tactics"].Stat != InvestmentStatDefense {
		t.Fatalf("unexpected investments: %+v", inv)
	}

	c, err := l.Combat()
	if err != nil {
		t.Fatalf("Combat: %v", err)
	}
	if _, ok := c.Troop("Bruiser", "T4"); !ok {
		t.Fatalf("Bruiser T4 missing")
	}
	if _, ok := c.Troop("Bruiser", "T9"); ok {
		t.Fatalf("unexpected Bruiser T9")
	}
	if _, ok := c.MiscBuffs.TrainingCenterDefBonus["level_25"]; !ok {
		t.Fatalf("training center level_25 missing")
	}
	if c.TierMultipliers["Grand"].PercentageBenefit != 1 {
		t.Fatalf("Grand multiplier: %+v", c.TierMultipliers["Grand"])
	}
}

func TestLoader_MissingTable(t *testing.T) {
	l := NewLoader(t.TempDir())
	if _, err := l.Gear(); !errors.Is(err, ErrTableMissing) {
		t.Fatalf("want ErrTableMissing, got %v", err)
	}
	if _, err := l.Combat(); !errors.Is(err, ErrTableMissing) {
		t.Fatalf("want ErrTableMissing from Combat, got %v", err)
	}
}

func TestLoader_MalformedTable(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, InvestmentsFile), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := NewLoader(dir).Investments()
	if err == nil || errors.Is(err, ErrTableMissing) {
		t.Fatalf("want decode error, got %v", err)
	}
}
