package number

import "math"

// truncRange is the half-open [min, max) a float must fall in to be
// truncated into an integer Type without trapping.
type truncRange struct{ min, max float64 }

var truncRanges = map[[2]Type]truncRange{
	{F32, I32}: {math.MinInt32, math.MaxInt32 + 1},
	{F64, I32}: {math.MinInt32, math.MaxInt32 + 1},
	{F32, U32}: {-1, math.MaxUint32 + 1},
	{F64, U32}: {-1, math.MaxUint32 + 1},
	{F32, I64}: {math.MinInt64, math.MaxInt64 + 1},
	{F64, I64}: {math.MinInt64, math.MaxInt64 + 1},
	{F32, U64}: {-1, math.MaxUint64 + 1},
	{F64, U64}: {-1, math.MaxUint64 + 1},
}

// CanTruncate reports whether value, widened to float64, falls inside
// the range that can be truncated from a float Type to an integer Type.
func CanTruncate(from, to Type, value float64) bool {
	r, ok := truncRanges[[2]Type{from, to}]
	if !ok {
		return false
	}
	return r.min <= value && value < r.max
}

// truncTo converts an in-range float to the bit pattern of an integer
// Type, keyed by Type rather than a per-call switch.
var truncTo = map[Type]func(float64) uint64{
	I32: func(f float64) uint64 { return uint64(int32(f)) },
	I64: func(f float64) uint64 { return uint64(int64(f)) },
	U32: func(f float64) uint64 { return uint64(uint32(f)) },
	U64: func(f float64) uint64 { return uint64(f) },
}

// FloatTruncate truncates a float represented by floatBits to an integer
// (signed or unsigned). When it cannot perform the operation it returns
// the corresponding trap code instead of the truncated value.
func FloatTruncate(from, to Type, floatBits uint64) (uint64, TrapCode) {
	var f float64
	switch from {
	case F32:
		f = float64(math.Float32frombits(uint32(floatBits)))
	case F64:
		f = math.Float64frombits(floatBits)
	default:
		return 0, ConvertTrap
	}

	if math.IsNaN(f) {
		return 0, NanTrap
	}
	if !CanTruncate(from, to, f) {
		if math.Signbit(f) {
			return Min(to), ConvertTrap
		}
		return Max(to), ConvertTrap
	}

	conv, ok := truncTo[to]
	if !ok {
		return 0, ConvertTrap
	}
	return conv(f), NoTrap
}
