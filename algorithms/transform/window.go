package transform

import (
	"fmt"
	"math"
)

// Hamming is the analysis window applied before the forward transform:
//
//	w(i) = 0.54 - 0.46*cos(2*pi*i/(N-1))
//
// Coefficients are generated once per size and reused for every frame.
type Hamming struct {
	size         int
	coefficients []float64
}

// NewHamming creates a Hamming window of the given size
func NewHamming(size int) *Hamming {
	h := &Hamming{size: size}
	h.generate()
	return h
}

func (h *Hamming) generate() {
	h.coefficients = make([]float64, h.size)
	if h.size == 1 {
		h.coefficients[0] = 1.0
		return
	}

	denominator := float64(h.size - 1)
	for i := 0; i < h.size; i++ {
		h.coefficients[i] = 0.54 - 0.46*math.Cos(2*math.Pi*float64(i)/denominator)
	}
}

// ApplyInPlace multiplies the signal by the window coefficients
func (h *Hamming) ApplyInPlace(signal []float64) error {
	if len(signal) != h.size {
		return fmt.Errorf("signal length (%d) doesn't match window size (%d)", len(signal), h.size)
	}

	for i := range signal {
		signal[i] *= h.coefficients[i]
	}
	return nil
}

// GetCoefficients returns a copy of the window coefficients
func (h *Hamming) GetCoefficients() []float64 {
	coeffs := make([]float64, len(h.coefficients))
	copy(coeffs, h.coefficients)
	return coeffs
}

// GetSize returns the window length
func (h *Hamming) GetSize() int {
	return h.size
}
