package number

import "math"

// intLimits holds the representable range of an integer Type, keyed by
// Type rather than branched over in an if-ladder.
var intLimits = map[Type]struct{ min, max uint64 }{
	I32: {1<<64 + math.MinInt32, uint64(math.MaxInt32)},
	I64: {1<<64 + math.MinInt64, uint64(math.MaxInt64)},
	U32: {0, math.MaxUint32},
	U64: {0, math.MaxUint64},
}

// Min returns t's minimum representable value, bit-cast into a uint64.
func Min(t Type) uint64 {
	return intLimits[t].min
}

// Max returns t's maximum representable value, bit-cast into a uint64.
func Max(t Type) uint64 {
	return intLimits[t].max
}
