package compiler

import (
	"fmt"
	"math"
	"sort"

	"github.com/caolo-go/sim/internal/vm"
)

// CompiledProgram is the output of Compile: a byte stream ready for
// vm.New, a label table mapping label ids to byte offsets, and a
// source map from byte offset back to the originating node, useful for
// diagnostics.
type CompiledProgram struct {
	Bytecode  []byte
	Labels    map[int64]int
	SourceMap map[int]NodeID // byte offset of instruction start -> node
}

// CompileError reports a problem found while compiling a CompilationUnit.
type CompileError struct {
	Node NodeID
	Msg  string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("compiler: node %q: %s", e.Node, e.Msg)
}

// Compile linearizes unit into a CompiledProgram. Every leaf node (no
// Next successor) implicitly gets an Exit appended (spec.md §4.5). Labels
// referenced by a node (its Branch field, for JumpIfTrue/ScalarLabel) must
// name a node that exists in the unit; otherwise compilation fails.
func Compile(unit *CompilationUnit) (*CompiledProgram, error) {
	if unit.Start == "" {
		return nil, &CompileError{Msg: "no Start node designated"}
	}
	if _, ok := unit.nodeByID(unit.Start); !ok {
		return nil, &CompileError{Node: unit.Start, Msg: "Start node not found in unit"}
	}

	order, err := linearize(unit)
	if err != nil {
		return nil, err
	}

	labelIDs := assignLabelIDs(order)

	prog := &CompiledProgram{
		Labels:    make(map[int64]int, len(order)),
		SourceMap: make(map[int]NodeID, len(order)),
	}

	for _, id := range order {
		node, _ := unit.nodeByID(id)
		offset := len(prog.Bytecode)
		prog.Labels[labelIDs[id]] = offset
		prog.SourceMap[offset] = id

		prog.Bytecode = append(prog.Bytecode, byte(node.Instruction))
		switch node.Instruction {
		case vm.OpScalarInt:
			prog.Bytecode = appendI64(prog.Bytecode, node.IntArg)
		case vm.OpScalarFloat:
			prog.Bytecode = appendF64(prog.Bytecode, node.FloatArg)
		case vm.OpStringLit:
			prog.Bytecode = appendI64(prog.Bytecode, int64(len(node.StringArg)))
			prog.Bytecode = append(prog.Bytecode, node.StringArg...)
		case vm.OpScalarLabel:
			target, ok := labelIDs[node.Branch]
			if !ok {
				return nil, &CompileError{Node: id, Msg: fmt.Sprintf("ScalarLabel references unknown node %q", node.Branch)}
			}
			prog.Bytecode = appendI64(prog.Bytecode, target)
		case vm.OpJumpIfTrue:
			target, ok := labelIDs[node.Branch]
			if !ok {
				return nil, &CompileError{Node: id, Msg: fmt.Sprintf("JumpIfTrue references unknown node %q", node.Branch)}
			}
			prog.Bytecode = appendI64(prog.Bytecode, target)
		case vm.OpWriteReg, vm.OpReadReg:
			prog.Bytecode = append(prog.Bytecode, byte(node.IntArg))
		}

		if node.Next == "" {
			// leaf node: policy inserts an implicit Exit.
			prog.Bytecode = append(prog.Bytecode, byte(vm.OpExit))
		}
	}

	return prog, nil
}

// linearize walks the graph depth-first from Start, following the Next
// chain first and then recursing into each Branch target, visiting each
// node exactly once. The order
// is deterministic given a deterministic input node list.
func linearize(unit *CompilationUnit) ([]NodeID, error) {
	visited := make(map[NodeID]bool, len(unit.Nodes))
	var order []NodeID

	var visit func(id NodeID) error
	visit = func(id NodeID) error {
		if visited[id] {
			return nil
		}
		node, ok := unit.nodeByID(id)
		if !ok {
			return &CompileError{Node: id, Msg: "referenced node does not exist"}
		}
		visited[id] = true
		order = append(order, id)

		if node.Next != "" {
			if err := visit(node.Next); err != nil {
				return err
			}
		}
		if node.Branch != "" {
			if err := visit(node.Branch); err != nil {
				return err
			}
		}
		return nil
	}

	if err := visit(unit.Start); err != nil {
		return nil, err
	}

	// Any node unreachable from Start is still emitted (dead code is a
	// compiler concern, not a correctness one) in a stable order so output
	// is deterministic across repeated compiles of the same unit.
	var rest []NodeID
	for _, n := range unit.Nodes {
		if !visited[n.ID] {
			rest = append(rest, n.ID)
		}
	}
	sort.Slice(rest, func(i, j int) bool { return rest[i] < rest[j] })
	for _, id := range rest {
		if err := visit(id); err != nil {
			return nil, err
		}
	}

	return order, nil
}

// assignLabelIDs gives every node a stable numeric label id in emission
// order, used both as the ScalarLabel/JumpIfTrue operand and as the key
// into CompiledProgram.Labels / vm's label table.
func assignLabelIDs(order []NodeID) map[NodeID]int64 {
	ids := make(map[NodeID]int64, len(order))
	for i, id := range order {
		ids[id] = int64(i)
	}
	return ids
}

func appendI64(buf []byte, n int64) []byte {
	u := uint64(n)
	for i := 0; i < 8; i++ {
		buf = append(buf, byte(u>>(8*i)))
	}
	return buf
}

func appendF64(buf []byte, f float64) []byte {
	return appendI64(buf, int64(math.Float64bits(f)))
}
