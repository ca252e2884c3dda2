// Package formula embeds a small gopher-lua engine for the designer-tunable
// numeric payouts of melee attacks and resource mining, mirroring the
// teacher's scripting.Engine.CalcMeleeAttack table-in, table-out calling
// convention without pulling bot-script execution (C4/C5's custom ISA) into
// Lua at all — this engine only ever answers a single numeric question per
// call.
package formula

import (
	"fmt"
	"os"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Engine wraps a single gopher-lua VM. Single-goroutine access only: the
// scheduler calls into it from the tick loop, never concurrently.
type Engine struct {
	vm  *lua.LState
	log *zap.Logger
}

// NewEngine loads every .lua file directly under scriptsDir. Files are
// expected to define calc_melee_damage and calc_mine_yield globals; a
// missing scripts directory is not an error; a missing function is
// detected at call time and the fallback value is returned, without logging.
func NewEngine(scriptsDir string, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState(lua.Options{SkipOpenLibs: false})
	e := &Engine{vm: vm, log: log}

	entries, err := os.ReadDir(scriptsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return e, nil
		}
		vm.Close()
		return nil, fmt.Errorf("read formula scripts dir %s: %w", scriptsDir, err)
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(scriptsDir, entry.Name())
		if err := vm.DoFile(path); err != nil {
			vm.Close()
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
		log.Debug("loaded formula script", zap.String("file", path))
	}
	return e, nil
}

func (e *Engine) Close() {
	e.vm.Close()
}

// MeleeContext packs the inputs calc_melee_damage needs to compute damage
// for one attack.
type MeleeContext struct {
	AttackerStrength int32
	TargetHp         int32
	TargetHpMax      int32
}

// CalcMeleeDamage calls calc_melee_damage(ctx) -> {damage=N}. Falls back to
// the attacker's raw strength, unmodified, if the script is absent or
// errors — the same "never block combat on a bad script" fallback the
// teacher's CalcMeleeAttack uses.
func (e *Engine) CalcMeleeDamage(ctx MeleeContext) int32 {
	fn := e.vm.GetGlobal("calc_melee_damage")
	if fn == lua.LNil {
		return ctx.AttackerStrength
	}

	t := e.vm.NewTable()
	atk := e.vm.NewTable()
	atk.RawSetString("strength", lua.LNumber(ctx.AttackerStrength))
	t.RawSetString("attacker", atk)
	tgt := e.vm.NewTable()
	tgt.RawSetString("hp", lua.LNumber(ctx.TargetHp))
	tgt.RawSetString("hp_max", lua.LNumber(ctx.TargetHpMax))
	t.RawSetString("target", tgt)

	if err := e.vm.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, t); err != nil {
		e.log.Error("lua calc_melee_damage error", zap.Error(err))
		return ctx.AttackerStrength
	}
	result := e.vm.Get(-1)
	e.vm.Pop(1)

	rt, ok := result.(*lua.LTable)
	if !ok {
		e.log.Error("lua calc_melee_damage returned non-table")
		return ctx.AttackerStrength
	}
	dmg, ok := rt.RawGetString("damage").(lua.LNumber)
	if !ok {
		e.log.Error("lua calc_melee_damage result missing damage field")
		return ctx.AttackerStrength
	}
	return int32(dmg)
}

// MineContext packs the inputs calc_mine_yield needs for one mine tick.
type MineContext struct {
	EnergyAvailable int32
	CarryRemaining  int32
}

// CalcMineYield calls calc_mine_yield(ctx) -> {amount=N}, clamped to
// [0, min(EnergyAvailable, CarryRemaining)] here regardless of what the
// script returns. Falls back to that same clamp's upper bound if the
// script is absent or errors.
func (e *Engine) CalcMineYield(ctx MineContext) int32 {
	capAmt := ctx.EnergyAvailable
	if ctx.CarryRemaining < capAmt {
		capAmt = ctx.CarryRemaining
	}

	fn := e.vm.GetGlobal("calc_mine_yield")
	if fn == lua.LNil {
		return capAmt
	}

	t := e.vm.NewTable()
	t.RawSetString("energy_available", lua.LNumber(ctx.EnergyAvailable))
	t.RawSetString("carry_remaining", lua.LNumber(ctx.CarryRemaining))

	if err := e.vm.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, t); err != nil {
		e.log.Error("lua calc_mine_yield error", zap.Error(err))
		return capAmt
	}
	result := e.vm.Get(-1)
	e.vm.Pop(1)

	rt, ok := result.(*lua.LTable)
	if !ok {
		e.log.Error("lua calc_mine_yield returned non-table")
		return capAmt
	}
	amount, ok := rt.RawGetString("amount").(lua.LNumber)
	if !ok {
		e.log.Error("lua calc_mine_yield result missing amount field")
		return capAmt
	}
	out := int32(amount)
	if out > capAmt {
		out = capAmt
	}
	if out < 0 {
		out = 0
	}
	return out
}
