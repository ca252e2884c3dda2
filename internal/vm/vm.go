package vm

// HostFn is a function the VM's Call instruction can invoke by name. The
// function is responsible for popping its own arguments off the stack and
// pushing its own return value, exactly as spec.md §4.4 describes: "host
// pops its arguments and pushes its return value". A non-nil error is
// always an unrecoverable ExecutionError; recoverable, script-visible
// failures are communicated by the host function pushing an
// OperationResult-style Scalar and returning nil.
type HostFn[A any] func(v *VM[A]) error

// HostTable resolves host-call names to functions. A program's Call
// instruction pops a string pointer, looks up the name here.
type HostTable[A any] map[string]HostFn[A]

// VM is a stack machine: program counter, evaluation stack, registers, a
// heap, and an opaque auxiliary context (A) the host functions use to
// reach the rest of the engine (executing entity, world handle, intents
// accumulator).
type VM[A any] struct {
	program []byte
	labels  map[int64]int // label id -> byte offset, resolved at compile time

	pc       int
	stack    []Scalar
	registers [RegisterCount]int64
	heap     *Heap
	hosts    HostTable[A]
	aux      A

	stepBudget int
	steps      int
}

// New creates a VM ready to run program against labels, with the given
// host function table and step budget. aux is the caller-supplied
// auxiliary context.
func New[A any](program []byte, labels map[int64]int, hosts HostTable[A], aux A, stepBudget int) *VM[A] {
	return &VM[A]{
		program:    program,
		labels:     labels,
		heap:       NewHeap(),
		hosts:      hosts,
		aux:        aux,
		stepBudget: stepBudget,
	}
}

func (v *VM[A]) Aux() A        { return v.aux }
func (v *VM[A]) SetAux(aux A)  { v.aux = aux }
func (v *VM[A]) Heap() *Heap   { return v.heap }
func (v *VM[A]) PC() int       { return v.pc }
func (v *VM[A]) Stack() []Scalar { return v.stack }

// StackPush pushes a value onto the evaluation stack.
func (v *VM[A]) StackPush(s Scalar) {
	v.stack = append(v.stack, s)
}

// StackPop pops a value, returning a StackUnderflow ExecutionError if the
// stack is empty.
func (v *VM[A]) StackPop() (Scalar, error) {
	if len(v.stack) == 0 {
		return Scalar{}, NewExecutionError(ErrStackUnderflow, "pop from empty stack")
	}
	s := v.stack[len(v.stack)-1]
	v.stack = v.stack[:len(v.stack)-1]
	return s, nil
}

// Register reads register i.
func (v *VM[A]) Register(i int) (int64, error) {
	if i < 0 || i >= RegisterCount {
		return 0, InvalidArgument("register index out of range")
	}
	return v.registers[i], nil
}

func (v *VM[A]) SetRegister(i int, val int64) error {
	if i < 0 || i >= RegisterCount {
		return InvalidArgument("register index out of range")
	}
	v.registers[i] = val
	return nil
}

func (v *VM[A]) readByte() (byte, error) {
	if v.pc >= len(v.program) {
		return 0, NewExecutionError(ErrInvalidInstruction, "program counter past end of program")
	}
	b := v.program[v.pc]
	v.pc++
	return b, nil
}

func (v *VM[A]) readI64() (int64, error) {
	if v.pc+8 > len(v.program) {
		return 0, NewExecutionError(ErrInvalidInstruction, "truncated int64 operand")
	}
	var u uint64
	for i := 0; i < 8; i++ {
		u |= uint64(v.program[v.pc+i]) << (8 * i)
	}
	v.pc += 8
	return int64(u), nil
}

func (v *VM[A]) readF64() (float64, error) {
	u, err := v.readI64()
	if err != nil {
		return 0, err
	}
	return float64FromBits(uint64(u)), nil
}

// Run executes the program from pc 0 until Exit, a fatal ExecutionError,
// or step-budget exhaustion (HaltTimeout).
func (v *VM[A]) Run() (HaltReason, error) {
	for {
		if v.steps >= v.stepBudget {
			return HaltTimeout, nil
		}
		v.steps++

		opByte, err := v.readByte()
		if err != nil {
			return HaltExit, err
		}
		op, ok := ValidOpcode(opByte)
		if !ok {
			return HaltExit, NewExecutionError(ErrInvalidInstruction, "unrecognized opcode")
		}

		switch op {
		case OpStart, OpPass:
			// no-op

		case OpExit:
			return HaltExit, nil

		case OpAdd, OpSub, OpMul, OpDiv:
			if err := v.binaryArith(op); err != nil {
				return HaltExit, err
			}

		case OpScalarInt:
			n, err := v.readI64()
			if err != nil {
				return HaltExit, err
			}
			v.StackPush(Int(n))

		case OpScalarFloat:
			f, err := v.readF64()
			if err != nil {
				return HaltExit, err
			}
			v.StackPush(Float(f))

		case OpScalarLabel:
			n, err := v.readI64()
			if err != nil {
				return HaltExit, err
			}
			v.StackPush(Label(n))

		case OpStringLit:
			ln, err := v.readI64()
			if err != nil {
				return HaltExit, err
			}
			if ln < 0 || v.pc+int(ln) > len(v.program) {
				return HaltExit, NewExecutionError(ErrInvalidInstruction, "truncated string literal")
			}
			s := string(v.program[v.pc : v.pc+int(ln)])
			v.pc += int(ln)
			v.StackPush(Pointer(v.heap.PutString(s)))

		case OpScalarArray:
			n, err := v.StackPop()
			if err != nil {
				return HaltExit, err
			}
			count, ok := n.AsInt()
			if !ok || count < 0 {
				return HaltExit, InvalidArgument("ScalarArray count must be a positive integer")
			}
			if int64(len(v.stack)) < count {
				return HaltExit, NewExecutionError(ErrStackUnderflow, "not enough values for array")
			}
			arr := make([]Scalar, count)
			copy(arr, v.stack[int64(len(v.stack))-count:])
			v.stack = v.stack[:int64(len(v.stack))-count]
			v.StackPush(Pointer(v.heap.PutArray(arr)))

		case OpCopyLast:
			if len(v.stack) > 0 {
				v.StackPush(v.stack[len(v.stack)-1])
			}

		case OpJumpIfTrue:
			cond, err := v.StackPop()
			if err != nil {
				return HaltExit, err
			}
			if cond.Truthy() {
				label, err := v.readI64()
				if err != nil {
					return HaltExit, err
				}
				if err := v.jumpTo(label); err != nil {
					return HaltExit, err
				}
			} else {
				// still consume the inline label operand
				if _, err := v.readI64(); err != nil {
					return HaltExit, err
				}
			}

		case OpJump:
			label, err := v.StackPop()
			if err != nil {
				return HaltExit, err
			}
			if label.Tag != TagLabel {
				return HaltExit, InvalidArgument("Jump requires a label on the stack")
			}
			if err := v.jumpTo(label.Int); err != nil {
				return HaltExit, err
			}

		case OpWriteReg:
			idx, err := v.readByte()
			if err != nil {
				return HaltExit, err
			}
			val, err := v.StackPop()
			if err != nil {
				return HaltExit, err
			}
			n, _ := val.AsInt()
			if err := v.SetRegister(int(idx), n); err != nil {
				return HaltExit, err
			}

		case OpReadReg:
			idx, err := v.readByte()
			if err != nil {
				return HaltExit, err
			}
			n, err := v.Register(int(idx))
			if err != nil {
				return HaltExit, err
			}
			v.StackPush(Int(n))

		case OpEquals, OpNotEquals, OpLess, OpLessOrEq:
			if err := v.comparison(op); err != nil {
				return HaltExit, err
			}

		case OpCall:
			namePtr, err := v.StackPop()
			if err != nil {
				return HaltExit, err
			}
			if namePtr.Tag != TagPointer {
				return HaltExit, InvalidArgument("Call requires a string pointer on the stack")
			}
			name, ok := v.heap.GetString(namePtr.Int)
			if !ok {
				return HaltExit, InvalidArgument("Call string pointer out of range")
			}
			fn, ok := v.hosts[name]
			if !ok {
				return HaltExit, NewExecutionError(ErrUnknownHostFn, name)
			}
			if err := fn(v); err != nil {
				return HaltExit, err
			}

		default:
			return HaltExit, NewExecutionError(ErrInvalidInstruction, op.String())
		}
	}
}

func (v *VM[A]) jumpTo(label int64) error {
	off, ok := v.labels[label]
	if !ok {
		return NewExecutionError(ErrInvalidInstruction, "jump to unresolved label")
	}
	v.pc = off
	return nil
}

func (v *VM[A]) binaryArith(op Opcode) error {
	b, err := v.StackPop()
	if err != nil {
		return err
	}
	a, err := v.StackPop()
	if err != nil {
		return err
	}
	if a.Tag == TagFloat || b.Tag == TagFloat {
		af, _ := a.AsFloat()
		bf, _ := b.AsFloat()
		switch op {
		case OpAdd:
			v.StackPush(Float(af + bf))
		case OpSub:
			v.StackPush(Float(af - bf))
		case OpMul:
			v.StackPush(Float(af * bf))
		case OpDiv:
			if bf == 0 {
				return NewExecutionError(ErrDivisionByZero, "")
			}
			v.StackPush(Float(af / bf))
		}
		return nil
	}
	ai, _ := a.AsInt()
	bi, _ := b.AsInt()
	switch op {
	case OpAdd:
		v.StackPush(Int(ai + bi))
	case OpSub:
		v.StackPush(Int(ai - bi))
	case OpMul:
		v.StackPush(Int(ai * bi))
	case OpDiv:
		if bi == 0 {
			return NewExecutionError(ErrDivisionByZero, "")
		}
		v.StackPush(Int(ai / bi))
	}
	return nil
}

func (v *VM[A]) comparison(op Opcode) error {
	b, err := v.StackPop()
	if err != nil {
		return err
	}
	a, err := v.StackPop()
	if err != nil {
		return err
	}
	af, aok := a.AsFloat()
	bf, bok := b.AsFloat()
	var result bool
	if aok && bok {
		switch op {
		case OpEquals:
			result = af == bf
		case OpNotEquals:
			result = af != bf
		case OpLess:
			result = af < bf
		case OpLessOrEq:
			result = af <= bf
		}
	} else {
		// non-numeric scalars (pointers, labels, null) compare by identity.
		switch op {
		case OpEquals:
			result = a == b
		case OpNotEquals:
			result = a != b
		default:
			return InvalidArgument("ordering comparison requires numeric operands")
		}
	}
	if result {
		v.StackPush(Int(1))
	} else {
		v.StackPush(Int(0))
	}
	return nil
}
