// Package jumphash implements Google's "Jump" consistent hash.
package jumphash

// Hash maps key to a bucket in [0, numBuckets). Adding a bucket moves only
// 1/numBuckets of the keys. Returns 0 when numBuckets <= 0.
//
// See https://arxiv.org/abs/1406.2294 and https://github.com/dgryski/go-jump.
func Hash(key uint64, numBuckets int) int {
	if numBuckets <= 0 {
		return 0
	}

	var b int64 = -1
	var j int64

	for j < int64(numBuckets) {
		b = j
		key = key*2862933555777941757 + 1
		j = int64(float64(b+1) * (float64(int64(1)<<31) / float64((key>>33)+1)))
	}

	return int(b)
}
