package rng

// Parameters for the dSFMT generator with Mersenne exponent 607 (period
// 2^607-1), taken from the reference dSFMT-params607.h. This is the
// smallest member of the dSFMT family; world sizes targeted by this engine
// never approach its period.
const (
	mexp = 607

	// stateSize is SFMT_N: the number of 128-bit state blocks excluding the
	// "lung" accumulator block. DSFMT_N = (MEXP-128)/104 + 1.
	stateSize = (mexp-128)/104 + 1

	// minArrayU64 is SFMT_N64: the minimum, and required-multiple-of-two,
	// length of a buffer passed to FillU64.
	minArrayU64 = stateSize * 2

	pos1 = 2
	sl1  = 33
	sl2  = 1
	sr1  = 7
	sr2  = 24

	msk1 = 0xffcfeef7fdffffff
	msk2 = 0xfdffffb7ffffffff

	pcv1 = 0x0000000000000001
	pcv2 = 0x0005196200000000

	lowMask   = 0x000fffffffffffff
	highConst = 0x3ff0000000000000

	idString = "dSFMT-607:2-33-1-7-24:ffcfeef7fdffffff-fdffffb7ffffffff"
)
