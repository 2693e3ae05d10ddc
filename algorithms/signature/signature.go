package signature

import (
	"fmt"
	"math"
	"slices"

	"github.com/RyanBlaney/sonido-edge/algorithms/common"
)

// Generator condenses a magnitude spectrum into one peak frequency per
// configured bin range, then suppresses the ranges whose peaks fall
// below the mean peak strength. The surviving integer frequencies form
// a compact signature suited to fuzz-tolerant hashing (see Fold).
//
// All buffers are allocated at construction and reused per frame.
type Generator struct {
	binResolution float64
	fuzz          int
	ranges        []int
	peaks         []float64 // per-range peak log magnitude
	values        []uint32  // per-range peak frequency, integer Hz
}

// New creates a generator for the given ascending bin boundaries. A bin
// belongs to the first range whose boundary exceeds it; bins past the
// last boundary fold into the last range. binResolution converts bins
// to Hz.
func New(ranges []int, binResolution float64, fuzz int) (*Generator, error) {
	if err := validateRanges(ranges); err != nil {
		return nil, err
	}
	if binResolution <= 0 {
		return nil, fmt.Errorf("invalid bin resolution: %v", binResolution)
	}

	return &Generator{
		binResolution: binResolution,
		fuzz:          fuzz,
		ranges:        slices.Clone(ranges),
		peaks:         make([]float64, len(ranges)),
		values:        make([]uint32, len(ranges)),
	}, nil
}

func validateRanges(ranges []int) error {
	if len(ranges) == 0 {
		return fmt.Errorf("no range boundaries given")
	}
	for r := 1; r < len(ranges); r++ {
		if ranges[r] <= ranges[r-1] {
			return fmt.Errorf("range boundaries must ascend: %v", ranges)
		}
	}
	return nil
}

// Update replaces the boundaries and fuzz factor in place. The range
// count is fixed at construction; changing it needs a new generator.
func (g *Generator) Update(ranges []int, fuzz int) error {
	if len(ranges) != len(g.ranges) {
		return fmt.Errorf("range count changed from %d to %d", len(g.ranges), len(ranges))
	}
	if err := validateRanges(ranges); err != nil {
		return err
	}

	copy(g.ranges, ranges)
	g.fuzz = fuzz
	return nil
}

// Compute builds the signature of a magnitude spectrum. Bin 0 (DC) is
// skipped. The returned slice is owned by the generator and overwritten
// by the next call.
func (g *Generator) Compute(spectrum []float64) []uint32 {
	for r := range g.values {
		g.peaks[r] = 0
		g.values[r] = 0
	}

	for i := 1; i < len(spectrum); i++ {
		r := g.rangeIndex(i)
		m := math.Log(math.Abs(spectrum[i]) + 1)
		if m > g.peaks[r] {
			g.peaks[r] = m
			g.values[r] = uint32(float64(i) * g.binResolution)
		}
	}

	// Keep only the ranges that carry above-average peak energy.
	mean := common.Mean(g.peaks)
	for r, peak := range g.peaks {
		if peak < mean {
			g.values[r] = 0
		}
	}

	return g.values
}

func (g *Generator) rangeIndex(bin int) int {
	for r, limit := range g.ranges {
		if limit > bin {
			return r
		}
	}
	return len(g.ranges) - 1
}

// Hash folds the given signature with the generator's fuzz factor; a
// nil signature hashes the most recently computed one.
func (g *Generator) Hash(sig []uint32) uint32 {
	if sig == nil {
		sig = g.values
	}
	return Fold(sig, g.fuzz)
}

// GetRanges returns a copy of the effective boundaries
func (g *Generator) GetRanges() []int {
	return slices.Clone(g.ranges)
}

// GetFuzzFactor returns the effective fuzz factor
func (g *Generator) GetFuzzFactor() int {
	return g.fuzz
}
