package persist

import (
	"reflect"
	"testing"

	"github.com/google/uuid"

	"github.com/caolo-go/sim/internal/compiler"
	"github.com/caolo-go/sim/internal/vm"
)

func TestScriptRoundTrip(t *testing.T) {
	unit := compiler.CompilationUnit{
		Start: "start",
		Nodes: []compiler.NamedNode{
			{ID: "start", Node: compiler.AstNode{Instruction: vm.OpStart, Next: "exit"}},
			{ID: "exit", Node: compiler.AstNode{Instruction: vm.OpExit}},
		},
	}
	prog, err := compiler.Compile(&unit)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	want := &Script{
		ID:       uuid.New(),
		Owner:    uuid.New(),
		Name:     "harvester",
		Unit:     unit,
		Compiled: prog,
	}

	blob, err := EncodeScript(want)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := DecodeScript(blob)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	if got.ID != want.ID || got.Owner != want.Owner || got.Name != want.Name {
		t.Fatalf("scalar fields mismatch: got %+v, want %+v", got, want)
	}
	if !reflect.DeepEqual(got.Unit, want.Unit) {
		t.Fatalf("unit mismatch: got %+v, want %+v", got.Unit, want.Unit)
	}
	if !reflect.DeepEqual(got.Compiled, want.Compiled) {
		t.Fatalf("compiled program mismatch: got %+v, want %+v", got.Compiled, want.Compiled)
	}
}

func TestScriptRoundTripWithoutCompiledProgram(t *testing.T) {
	want := &Script{
		ID:    uuid.New(),
		Owner: uuid.New(),
		Name:  "draft",
		Unit: compiler.CompilationUnit{
			Start: "start",
			Nodes: []compiler.NamedNode{{ID: "start", Node: compiler.AstNode{Instruction: vm.OpStart}}},
		},
	}

	blob, err := EncodeScript(want)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := DecodeScript(blob)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Compiled != nil {
		t.Fatalf("expected nil compiled program, got %+v", got.Compiled)
	}
}
