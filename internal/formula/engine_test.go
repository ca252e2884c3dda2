package formula

import (
	"path/filepath"
	"testing"

	"go.uber.org/zap"
)

func TestCalcMeleeDamageFallsBackWithoutScripts(t *testing.T) {
	e, err := NewEngine(t.TempDir(), zap.NewNop())
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	defer e.Close()

	got := e.CalcMeleeDamage(MeleeContext{AttackerStrength: 7, TargetHp: 10, TargetHpMax: 10})
	if got != 7 {
		t.Fatalf("expected fallback damage 7, got %d", got)
	}
}

func TestCalcMineYieldFallsBackWithoutScripts(t *testing.T) {
	e, err := NewEngine(t.TempDir(), zap.NewNop())
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	defer e.Close()

	got := e.CalcMineYield(MineContext{EnergyAvailable: 30, CarryRemaining: 5})
	if got != 5 {
		t.Fatalf("expected fallback yield clamped to 5, got %d", got)
	}
}

func TestCalcMeleeDamageUsesLoadedScript(t *testing.T) {
	e, err := NewEngine(filepath.Join("testdata"), zap.NewNop())
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	defer e.Close()

	got := e.CalcMeleeDamage(MeleeContext{AttackerStrength: 10, TargetHp: 50, TargetHpMax: 100})
	if got != 20 {
		t.Fatalf("expected scripted damage 20, got %d", got)
	}
}

func TestCalcMineYieldUsesLoadedScriptAndClampsToCarry(t *testing.T) {
	e, err := NewEngine(filepath.Join("testdata"), zap.NewNop())
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	defer e.Close()

	got := e.CalcMineYield(MineContext{EnergyAvailable: 100, CarryRemaining: 4})
	if got != 4 {
		t.Fatalf("expected yield clamped to carry remaining 4, got %d", got)
	}
}
