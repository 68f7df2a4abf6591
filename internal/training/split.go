package training

import "math/rand/v2"

// TrainTestSplit shuffles indices 0..n-1 with a fixed seed and returns the
// train and test partitions. At least one row is kept for each side when n > 1.
func TrainTestSplit(n int, testFrac float64, seed uint64) (train, test []int) {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	r := rand.New(rand.NewPCG(seed, seed))
	r.Shuffle(n, func(i, j int) { idx[i], idx[j] = idx[j], idx[i] })

	nTest := int(float64(n)*testFrac + 0.5)
	if n > 1 {
		nTest = max(1, min(nTest, n-1))
	} else {
		nTest = 0
	}
	return idx[nTest:], idx[:nTest]
}
