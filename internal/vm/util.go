package vm

import "math"

func float64FromBits(u uint64) float64 { return math.Float64frombits(u) }

func float64Bits(f float64) uint64 { return math.Float64bits(f) }
