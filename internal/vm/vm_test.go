package vm

import "testing"

// encode helpers mirror what the compiler package emits, kept local to
// the test so vm has no compile-time dependency on compiler.
func appendI64(buf []byte, n int64) []byte {
	u := uint64(n)
	for i := 0; i < 8; i++ {
		buf = append(buf, byte(u>>(8*i)))
	}
	return buf
}

func TestRunSimpleArithmetic(t *testing.T) {
	// push 2, push 3, add, exit
	var prog []byte
	prog = append(prog, byte(OpScalarInt))
	prog = appendI64(prog, 2)
	prog = append(prog, byte(OpScalarInt))
	prog = appendI64(prog, 3)
	prog = append(prog, byte(OpAdd))
	prog = append(prog, byte(OpExit))

	v := New[struct{}](prog, nil, nil, struct{}{}, 100)
	reason, err := v.Run()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reason != HaltExit {
		t.Fatalf("expected HaltExit, got %v", reason)
	}
	if len(v.Stack()) != 1 || v.Stack()[0] != Int(5) {
		t.Fatalf("expected stack [Int(5)], got %v", v.Stack())
	}
}

func TestDivisionByZeroIsFatal(t *testing.T) {
	var prog []byte
	prog = append(prog, byte(OpScalarInt))
	prog = appendI64(prog, 1)
	prog = append(prog, byte(OpScalarInt))
	prog = appendI64(prog, 0)
	prog = append(prog, byte(OpDiv))
	prog = append(prog, byte(OpExit))

	v := New[struct{}](prog, nil, nil, struct{}{}, 100)
	_, err := v.Run()
	ee, ok := err.(*ExecutionError)
	if !ok || ee.Kind != ErrDivisionByZero {
		t.Fatalf("expected DivisionByZero ExecutionError, got %v", err)
	}
}

func TestStepBudgetExhaustion(t *testing.T) {
	prog := []byte{byte(OpPass), byte(OpPass), byte(OpPass), byte(OpExit)}
	v := New[struct{}](prog, nil, nil, struct{}{}, 2)
	reason, err := v.Run()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reason != HaltTimeout {
		t.Fatalf("expected HaltTimeout, got %v", reason)
	}
}

func TestCallInvokesHostFunction(t *testing.T) {
	var prog []byte
	prog = append(prog, byte(OpStringLit))
	prog = appendI64(prog, int64(len("double")))
	prog = append(prog, []byte("double")...)
	prog = append(prog, byte(OpCall))
	prog = append(prog, byte(OpExit))

	hosts := HostTable[int]{
		"double": func(v *VM[int]) error {
			v.StackPush(Int(int64(v.Aux() * 2)))
			return nil
		},
	}
	v := New[int](prog, nil, hosts, 21, 100)
	reason, err := v.Run()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reason != HaltExit {
		t.Fatalf("expected HaltExit, got %v", reason)
	}
	if len(v.Stack()) != 1 || v.Stack()[0] != Int(42) {
		t.Fatalf("expected [Int(42)], got %v", v.Stack())
	}
}

func TestUnknownHostFnIsFatal(t *testing.T) {
	var prog []byte
	prog = append(prog, byte(OpStringLit))
	prog = appendI64(prog, int64(len("nope")))
	prog = append(prog, []byte("nope")...)
	prog = append(prog, byte(OpCall))

	v := New[struct{}](prog, nil, HostTable[struct{}]{}, struct{}{}, 100)
	_, err := v.Run()
	ee, ok := err.(*ExecutionError)
	if !ok || ee.Kind != ErrUnknownHostFn {
		t.Fatalf("expected UnknownHostFn ExecutionError, got %v", err)
	}
}
