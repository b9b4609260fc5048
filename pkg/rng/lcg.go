package rng

// Lcg is a 31-bit non-negative linear congruential generator. Its
// parameters match the classic minimal-standard generator
// (Park-Miller: a = 16807, m = 2^31 - 1) so that
// ports of legacy content reproduce the exact same sub-seed sequence for a
// given master seed.
//
// Next() returns a value in [1, 2^31 - 2]. The generator never emits 0 or
// m itself on a well-formed seed, matching the legacy generator's range.
type Lcg struct {
	state int64
}

const (
	lcgA int64 = 16807
	lcgM int64 = 2147483647 // 2^31 - 1
)

// NewLcg creates an Lcg seeded from seed. A seed of 0 is remapped to 1,
// since 0 is a fixed point of the multiplicative LCG.
func NewLcg(seed int64) *Lcg {
	s := seed % lcgM
	if s < 0 {
		s += lcgM
	}
	if s == 0 {
		s = 1
	}
	return &Lcg{state: s}
}

// Next returns the next 31-bit non-negative integer in the sequence.
func (l *Lcg) Next() int32 {
	l.state = (l.state * lcgA) % lcgM
	return int32(l.state)
}
