package engine

// Shuffle turns len(floats)+1 pool positions into a permutation by
// Fisher-Yates selection: each float picks one of the remaining positions
// and the last position is implied.
func Shuffle(floats []float64) []int {
	n := len(floats) + 1
	pool := make([]int, n)
	for i := range pool {
		pool[i] = i
	}

	perm := make([]int, 0, n)
	for _, f := range floats {
		idx := scale(f, len(pool))
		perm = append(perm, pool[idx])
		pool = append(pool[:idx], pool[idx+1:]...)
	}
	return append(perm, pool...)
}

// Permutation deterministically orders n items for the given seeds and nonce.
func Permutation(n int, seeds Seeds, nonce uint64) []int {
	if n <= 0 {
		return nil
	}
	return Shuffle(Floats(seeds.Server, seeds.Client, nonce, 0, n-1))
}
