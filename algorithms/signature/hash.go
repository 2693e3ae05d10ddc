package signature

// foldSeed is the djb2 starting value
const foldSeed = 5381

// Fold hashes a signature with a djb2-style fold, right to left, after
// flooring every value to its fuzz bucket. Signatures whose values land
// in the same buckets hash identically, which makes the result tolerant
// to small frequency drift between captures. Fuzz factors below 2
// disable quantization.
func Fold(sig []uint32, fuzz int) uint32 {
	step := uint32(1)
	if fuzz > 1 {
		step = uint32(fuzz)
	}

	hash := uint32(foldSeed)
	for i := len(sig) - 1; i >= 0; i-- {
		v := sig[i] - sig[i]%step
		hash = hash*33 ^ v
	}
	return hash
}
