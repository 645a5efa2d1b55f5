package placement

import "math/rand/v2"

func hash32(x uint32) uint32 {
	x ^= x >> 16
	x *= 0x7feb352d
	x ^= x >> 15
	x *= 0x846ca68b
	x ^= x >> 16
	return x
}

func hashCell(seed uint32, row, col int32) uint32 {
	h := seed
	h ^= uint32(row) * 0x9e3779b1
	h ^= uint32(col) * 0x85ebca6b
	return hash32(h)
}

// cellRand returns the random stream owned by a single grid cell, so the
// outcome of a cell depends only on the seed and its coordinates.
func cellRand(seed uint64, row, col int) *rand.Rand {
	h := hashCell(uint32(seed)^uint32(seed>>32), int32(row), int32(col))
	return rand.New(rand.NewPCG(seed, uint64(h)<<32|uint64(hash32(h))))
}
