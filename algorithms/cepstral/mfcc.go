package cepstral

import (
	"fmt"
	"math"
)

// logGuard keeps the log compression defined for empty filter energies
const logGuard = 1e-10

// MFCC computes mel-frequency cepstral coefficients from a magnitude
// spectrum: triangular filters equally spaced on the mel scale between
// 0 Hz and Nyquist, squared-magnitude filter energies, log compression,
// then a type-II DCT with plain x2 scaling.
//
// The filter bank, the DCT table, and all working buffers are built once
// at construction; Compute reuses them for every frame.
//
// References:
//   - Davis, S., Mermelstein, P. (1980). "Comparison of parametric
//     representations for monosyllabic word recognition in continuously
//     spoken sentences"
type MFCC struct {
	frameSize       int
	sampleRate      int
	numCoefficients int
	magSpectrumSize int
	filterBank      [][]float64
	dctMatrix       [][]float64
	melEnergies     []float64
	dctInput        []float64
	coefficients    []float64
}

// New creates an MFCC computer for the given frame size (the transform
// length; the magnitude spectrum has frameSize/2 bins), sample rate, and
// coefficient count.
func New(frameSize, sampleRate, numCoefficients int) (*MFCC, error) {
	if frameSize <= 0 || frameSize%2 != 0 {
		return nil, fmt.Errorf("invalid frame size: %d", frameSize)
	}
	if sampleRate <= 0 {
		return nil, fmt.Errorf("invalid sample rate: %d", sampleRate)
	}
	if numCoefficients <= 0 {
		return nil, fmt.Errorf("invalid coefficient count: %d", numCoefficients)
	}

	m := &MFCC{
		frameSize:       frameSize,
		sampleRate:      sampleRate,
		numCoefficients: numCoefficients,
		magSpectrumSize: frameSize / 2,
		melEnergies:     make([]float64, numCoefficients),
		dctInput:        make([]float64, numCoefficients),
		coefficients:    make([]float64, numCoefficients),
	}
	m.buildFilterBank()
	m.buildDCTMatrix()

	return m, nil
}

// HzToMel maps frequency to mel: 1127 * ln(1 + hz/700)
func HzToMel(hz float64) float64 {
	return 1127.0 * math.Log(1.0+hz/700.0)
}

// MelToHz is the inverse mapping
func MelToHz(mel float64) float64 {
	return 700.0 * (math.Exp(mel/1127.0) - 1.0)
}

// buildFilterBank places numCoefficients+2 boundary points equally
// spaced on the mel scale between 0 Hz and Nyquist and builds one
// triangular filter per coefficient between consecutive boundaries.
func (m *MFCC) buildFilterBank() {
	nyquist := float64(m.sampleRate) / 2.0
	melStep := HzToMel(nyquist) / float64(m.numCoefficients+1)

	binPoints := make([]int, m.numCoefficients+2)
	for i := range binPoints {
		hz := MelToHz(melStep * float64(i))
		bin := int(math.Floor(0.5 + hz/nyquist*float64(m.magSpectrumSize)))
		binPoints[i] = min(bin, m.magSpectrumSize)
	}

	m.filterBank = make([][]float64, m.numCoefficients)
	for i := range m.filterBank {
		filter := make([]float64, m.magSpectrumSize)
		begin, center, end := binPoints[i], binPoints[i+1], binPoints[i+2]

		// Empty slopes are skipped, so coincident boundaries at low
		// frequencies never divide by zero.
		for k := begin; k < center; k++ {
			filter[k] = float64(k-begin) / float64(center-begin)
		}
		for k := center; k < end; k++ {
			filter[k] = float64(end-k) / float64(end-center)
		}
		m.filterBank[i] = filter
	}
}

// buildDCTMatrix precomputes the type-II DCT table:
// dct[k][n] = 2*cos(pi/N*(n+0.5)*k)
func (m *MFCC) buildDCTMatrix() {
	n := m.numCoefficients
	m.dctMatrix = make([][]float64, n)
	for k := range m.dctMatrix {
		row := make([]float64, n)
		for j := range row {
			row[j] = 2.0 * math.Cos(math.Pi/float64(n)*(float64(j)+0.5)*float64(k))
		}
		m.dctMatrix[k] = row
	}
}

// Compute turns a magnitude spectrum into cepstral coefficients. The
// returned slice is owned by the computer and overwritten by the next
// call. Spectra longer than the configured bin count are truncated.
func (m *MFCC) Compute(spectrum []float64) []float64 {
	limit := min(len(spectrum), m.magSpectrumSize)

	for i, filter := range m.filterBank {
		energy := 0.0
		for k := 0; k < limit; k++ {
			energy += spectrum[k] * spectrum[k] * filter[k]
		}
		m.melEnergies[i] = energy
		m.dctInput[i] = math.Log(energy + logGuard)
	}

	m.applyDCT()
	return m.coefficients
}

func (m *MFCC) applyDCT() {
	for k, row := range m.dctMatrix {
		sum := 0.0
		for n, v := range m.dctInput {
			sum += v * row[n]
		}
		m.coefficients[k] = sum
	}
}

// GetFilterBank returns the triangular filter bank (one row per
// coefficient, one column per spectrum bin)
func (m *MFCC) GetFilterBank() [][]float64 {
	return m.filterBank
}

// GetCoefficients returns the most recently computed coefficients
func (m *MFCC) GetCoefficients() []float64 {
	return m.coefficients
}

// GetNumCoefficients returns the configured coefficient count
func (m *MFCC) GetNumCoefficients() int {
	return m.numCoefficients
}
