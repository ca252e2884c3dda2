// Package vm implements the stack-based byte-code interpreter bot
// programs run on: evaluation stack, registers, a heap for strings and
// arrays, and host calls into the intent API.
package vm

import "fmt"

// ScalarTag discriminates the Scalar union.
type ScalarTag uint8

const (
	TagInt ScalarTag = iota
	TagFloat
	TagPointer
	TagLabel
	TagNull
)

// Scalar is the tagged value type every VM stack slot holds.
type Scalar struct {
	Tag   ScalarTag
	Int   int64   // valid when Tag == TagInt, TagPointer, or TagLabel
	Float float64 // valid when Tag == TagFloat
}

func Int(v int64) Scalar     { return Scalar{Tag: TagInt, Int: v} }
func Float(v float64) Scalar { return Scalar{Tag: TagFloat, Float: v} }
func Pointer(v int64) Scalar { return Scalar{Tag: TagPointer, Int: v} }
func Label(v int64) Scalar   { return Scalar{Tag: TagLabel, Int: v} }
func Null() Scalar           { return Scalar{Tag: TagNull} }

// Truthy implements the VM's truthiness rule: non-zero numbers and
// non-null pointers are true.
func (s Scalar) Truthy() bool {
	switch s.Tag {
	case TagInt, TagLabel:
		return s.Int != 0
	case TagFloat:
		return s.Float != 0
	case TagPointer:
		return true
	case TagNull:
		return false
	default:
		return false
	}
}

func (s Scalar) String() string {
	switch s.Tag {
	case TagInt:
		return fmt.Sprintf("Int(%d)", s.Int)
	case TagFloat:
		return fmt.Sprintf("Float(%g)", s.Float)
	case TagPointer:
		return fmt.Sprintf("Pointer(%d)", s.Int)
	case TagLabel:
		return fmt.Sprintf("Label(%d)", s.Int)
	case TagNull:
		return "Null"
	default:
		return "Invalid"
	}
}

// AsInt coerces a Scalar to an int64, for host calls that expect integer
// arguments. Floats truncate toward zero.
func (s Scalar) AsInt() (int64, bool) {
	switch s.Tag {
	case TagInt, TagPointer, TagLabel:
		return s.Int, true
	case TagFloat:
		return int64(s.Float), true
	default:
		return 0, false
	}
}

func (s Scalar) AsFloat() (float64, bool) {
	switch s.Tag {
	case TagFloat:
		return s.Float, true
	case TagInt, TagPointer, TagLabel:
		return float64(s.Int), true
	default:
		return 0, false
	}
}
