// Package compiler turns a card/node DAG (CompilationUnit) into a linear
// byte-code program (CompiledProgram) the vm package can execute.
package compiler

import "github.com/caolo-go/sim/internal/vm"

// NodeID names an AstNode uniquely within a CompilationUnit.
type NodeID string

// AstNode is one instruction in the program graph: the instruction
// itself, its literal operands (interpretation depends on Instruction),
// an optional "next" successor, and — for branching instructions — an
// optional "branch" successor.
type AstNode struct {
	Instruction vm.Opcode
	IntArg      int64
	FloatArg    float64
	StringArg   string

	Next   NodeID // "" means this is a leaf node
	Branch NodeID // only meaningful for JumpIfTrue-style nodes
}

// CompilationUnit is the input to Compile: a set of uniquely named nodes
// forming a directed graph with a designated Start node.
type CompilationUnit struct {
	Nodes []NamedNode
	Start NodeID
}

type NamedNode struct {
	ID   NodeID
	Node AstNode
}

func (u *CompilationUnit) nodeByID(id NodeID) (AstNode, bool) {
	for _, n := range u.Nodes {
		if n.ID == id {
			return n.Node, true
		}
	}
	return AstNode{}, false
}
