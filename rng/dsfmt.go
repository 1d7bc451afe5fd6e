// Package rng implements the double-precision SIMD-oriented Fast Mersenne
// Twister (dSFMT), MEXP=607 parameter set, as a portable non-SIMD Go port of
// the reference C implementation. Output words
// are IEEE-754 bit patterns representing a value in [1,2): the exponent bits
// are fixed and the mantissa bits are uniform, so callers that want a plain
// pseudo-random 64-bit word (for masking, modulo, or bit-index lookups) can
// use the word as-is without ever forming the float64 it encodes.
package rng

import "fmt"

// w128 mirrors the reference's W128_T union: a 128-bit state block viewed as
// two 64-bit lanes.
type w128 struct {
	u [2]uint64
}

// RNG is one dSFMT-607 generator instance. It is not safe for concurrent use.
type RNG struct {
	state   []w128 // length stateSize+1; state[stateSize] is the lung
	scratch []w128 // block view of the last FillU64 request, reused across fills
}

// New allocates and seeds a generator from a 32-bit seed, the same seeding
// path as the reference's init_gen_rand.
func New(seed uint32) *RNG {
	g := &RNG{state: make([]w128, stateSize+1)}
	g.initGenRand(seed)
	return g
}

// NewFromKeyArray seeds a generator from an arbitrary-length key, the
// reference's init_by_array path. Longer keys give better initial
// diffusion than a single 32-bit seed; New is sufficient for this engine's
// single-seed configuration parameter.
func NewFromKeyArray(key []uint32) *RNG {
	g := &RNG{state: make([]w128, stateSize+1)}
	g.initByArray(key)
	return g
}

// MinArraySizeU64 is the minimum, and required even, length of a buffer
// passed to FillU64.
func MinArraySizeU64() int {
	return minArrayU64
}

// Identification returns the dSFMT parameter identification string.
func Identification() string {
	return idString
}

func lshift128(in w128, shiftBytes uint) w128 {
	shiftBits := shiftBytes * 8
	var out w128
	out.u[0] = in.u[0] << shiftBits
	out.u[1] = (in.u[1] << shiftBits) | (in.u[0] >> (64 - shiftBits))
	return out
}

// doRecursion is the generator's linear recursion over three 128-bit state
// blocks plus the lung accumulator, which it updates in place. It returns
// the newly generated block, already masked into the [1,2) IEEE bit pattern.
func doRecursion(a, b, c w128, lung *w128) w128 {
	x := lshift128(a, sl2)
	var r w128
	r.u[0] = a.u[0] ^ x.u[0] ^ ((b.u[0] >> sr1) & msk1) ^ (c.u[0] >> sr2) ^ (c.u[0] << sl1) ^ lung.u[1]
	r.u[1] = a.u[1] ^ x.u[1] ^ ((b.u[1] >> sr1) & msk2) ^ (c.u[1] >> sr2) ^ (c.u[1] << sl1) ^ lung.u[0]
	r.u[0] &= lowMask
	r.u[1] &= lowMask
	lung.u[0] ^= r.u[0]
	lung.u[1] ^= r.u[1]
	r.u[0] |= highConst
	r.u[1] |= highConst
	return r
}

// FillU64 fills buf with pseudo-random 64-bit words, refilling and advancing
// the generator's internal state as needed. len(buf) must be even and at
// least MinArraySizeU64(); this is the reference's fill_array64 /
// gen_rand_array, generalized to buffers larger than the internal state.
func (g *RNG) FillU64(buf []uint64) {
	if len(buf)%2 != 0 || len(buf) < minArrayU64 {
		panic(fmt.Sprintf("rng: FillU64 buffer length %d must be even and >= %d", len(buf), minArrayU64))
	}
	n := stateSize
	nBlocks := len(buf) / 2
	if cap(g.scratch) < nBlocks {
		g.scratch = make([]w128, nBlocks)
	}
	array := g.scratch[:nBlocks]
	lung := g.state[n]

	array[0] = doRecursion(g.state[0], g.state[pos1], g.state[n-1], &lung)
	i := 1
	for ; i < n-pos1; i++ {
		array[i] = doRecursion(g.state[i], g.state[i+pos1], array[i-1], &lung)
	}
	for ; i < n; i++ {
		array[i] = doRecursion(g.state[i], array[i+pos1-n], array[i-1], &lung)
	}
	for ; i < nBlocks-n; i++ {
		array[i] = doRecursion(array[i-n], array[i+pos1-n], array[i-1], &lung)
	}
	j := 0
	for ; j < 2*n-nBlocks; j++ {
		g.state[j] = array[j+nBlocks-n]
	}
	for ; i < nBlocks; i, j = i+1, j+1 {
		array[i] = doRecursion(array[i-n], array[i+pos1-n], array[i-1], &lung)
		g.state[j] = array[i]
	}
	g.state[n] = lung

	for k := 0; k < nBlocks; k++ {
		buf[2*k] = array[k].u[0]
		buf[2*k+1] = array[k].u[1]
	}
}

// initialMask forces every state word into the [1,2) IEEE bit pattern:
// mantissa bits from the seeding LCG, exponent bits fixed.
func (g *RNG) initialMask() {
	for i := range g.state {
		g.state[i].u[0] = (g.state[i].u[0] & lowMask) | highConst
		g.state[i].u[1] = (g.state[i].u[1] & lowMask) | highConst
	}
}

// periodCertification guarantees the generator's period is exactly
// 2^607-1 by fixing up the lung's parity against the parameter set's
// certification vector (SFMT_PCV1/2), following the reference's
// period_certification.
func (g *RNG) periodCertification() {
	pcv := [2]uint64{pcv1, pcv2}

	fix0 := (((uint64(highConst) >> sr1) & msk2) ^ (uint64(highConst) >> sr2)) | highConst
	fix1 := (((uint64(highConst) >> sr1) & msk1) ^ (uint64(highConst) >> sr2)) | highConst
	fix0 ^= uint64(highConst) >> (64 - 8*sl2)

	lung := &g.state[stateSize]
	newLung0 := lung.u[0] ^ fix0
	newLung1 := lung.u[1] ^ fix1

	inner := (newLung0 & pcv[0]) ^ (newLung1 & pcv[1])
	for shift := 32; shift > 0; shift >>= 1 {
		inner ^= inner >> uint(shift)
	}
	inner &= 1
	if inner == 1 {
		return
	}

	for i := 0; i < 2; i++ {
		work := uint64(1)
		for j := 0; j < 52; j++ {
			if work&pcv[i] != 0 {
				lung.u[i] ^= work
				return
			}
			work <<= 1
		}
	}
}

func iniFunc1(x uint32) uint32 {
	return (x ^ (x >> 27)) * 1664525
}

func iniFunc2(x uint32) uint32 {
	return (x ^ (x >> 27)) * 1566083941
}

// initGenRand seeds the state array from a single 32-bit seed via a simple
// LCG over the state's 32-bit words, then masks and certifies it.
func (g *RNG) initGenRand(seed uint32) {
	n := stateSize
	size := (n + 1) * 4
	psfmt := make([]uint32, size)
	psfmt[0] = seed
	for i := 1; i < size; i++ {
		psfmt[i] = 1812433253*(psfmt[i-1]^(psfmt[i-1]>>30)) + uint32(i)
	}
	g.packState(psfmt)
	g.initialMask()
	g.periodCertification()
}

// initByArray seeds the state array from an arbitrary-length key, following
// the reference's init_by_array mixing (ini_func1/ini_func2 passes with a
// lag chosen from the state's word count).
func (g *RNG) initByArray(key []uint32) {
	n := stateSize
	size := (n + 1) * 4

	var lag int
	switch {
	case size >= 623:
		lag = 11
	case size >= 68:
		lag = 7
	case size >= 39:
		lag = 5
	default:
		lag = 3
	}
	mid := (size - lag) / 2

	psfmt := make([]uint32, size)
	for i := range psfmt {
		psfmt[i] = 0x8b8b8b8b
	}

	keyLength := len(key)
	count := keyLength + 1
	if size > count {
		count = size
	}

	r := iniFunc1(psfmt[0] ^ psfmt[mid%size] ^ psfmt[(size-1)%size])
	psfmt[mid%size] += r
	r += uint32(keyLength)
	psfmt[(mid+lag)%size] += r
	psfmt[0] = r
	count--

	i, j := 1, 0
	for ; j < count && j < keyLength; j++ {
		r = iniFunc1(psfmt[i] ^ psfmt[(i+mid)%size] ^ psfmt[(i+size-1)%size])
		psfmt[(i+mid)%size] += r
		r += key[j] + uint32(i)
		psfmt[(i+mid+lag)%size] += r
		psfmt[i] = r
		i = (i + 1) % size
	}
	for ; j < count; j++ {
		r = iniFunc1(psfmt[i] ^ psfmt[(i+mid)%size] ^ psfmt[(i+size-1)%size])
		psfmt[(i+mid)%size] += r
		r += uint32(i)
		psfmt[(i+mid+lag)%size] += r
		psfmt[i] = r
		i = (i + 1) % size
	}
	for j = 0; j < size; j++ {
		r = iniFunc2(psfmt[i] + psfmt[(i+mid)%size] + psfmt[(i+size-1)%size])
		psfmt[(i+mid)%size] ^= r
		r -= uint32(i)
		psfmt[(i+mid+lag)%size] ^= r
		psfmt[i] = r
		i = (i + 1) % size
	}

	g.packState(psfmt)
	g.initialMask()
	g.periodCertification()
}

// packState repacks a flat little-endian 32-bit word view of the state into
// the 64-bit-lane blocks the recursion operates on.
func (g *RNG) packState(psfmt []uint32) {
	for k := range g.state {
		g.state[k].u[0] = uint64(psfmt[4*k]) | uint64(psfmt[4*k+1])<<32
		g.state[k].u[1] = uint64(psfmt[4*k+2]) | uint64(psfmt[4*k+3])<<32
	}
}
