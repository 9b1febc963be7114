package variate

const (
	lcgModulus    = 2147483647
	lcgMultiplier = 630360016

	// DefaultLCGSeed is the initial seed of stream 1 of the classic
	// prime-modulus generator.
	DefaultLCGSeed = 1973272912
)

// LCG is a prime-modulus multiplicative congruential generator with modulus
// 2^31-1 and multiplier 630360016. It reproduces the generator the original
// inventory and queueing programs were written against.
type LCG struct {
	z uint64
}

// NewLCG creates an LCG. A seed of 0, or one that is a multiple of the modulus,
// selects DefaultLCGSeed.
func NewLCG(seed uint64) *LCG {
	z := seed % lcgModulus
	if z == 0 {
		z = DefaultLCGSeed
	}

	return &LCG{z: z}
}

// NewLCGStream creates a stream backed by an LCG.
func NewLCGStream(seed uint64) *Stream {
	return NewStreamFromSource(NewLCG(seed))
}

// Seed returns the current state of the generator.
func (g *LCG) Seed() uint64 {
	return g.z
}

// Float64 advances the generator and returns a number in (0, 1). The low bits
// are masked the same way the original generator does, which keeps the result
// away from both 0 and 1.
func (g *LCG) Float64() float64 {
	g.z = (g.z * lcgMultiplier) % lcgModulus

	return float64((g.z>>7)|1) / 16777216.0
}
