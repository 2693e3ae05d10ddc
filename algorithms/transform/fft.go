package transform

import (
	"fmt"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/floats"

	"github.com/RyanBlaney/sonido-edge/algorithms/common"
)

// FFT is the default Transformer, backed by go-dsp's real FFT. One
// instance serves one transform size and sample rate; the window is
// precomputed at construction.
type FFT struct {
	size       int
	sampleRate int
	window     *Hamming
	peakFreq   float64
	peakMag    float64
}

// NewFFT creates a transformer for the given frame size and sample rate.
// The size must be a positive power of two.
func NewFFT(size, sampleRate int) (*FFT, error) {
	if !common.IsPowerOfTwo(size) {
		return nil, fmt.Errorf("transform size must be a power of two: %d", size)
	}
	if sampleRate <= 0 {
		return nil, fmt.Errorf("invalid sample rate: %d", sampleRate)
	}

	return &FFT{
		size:       size,
		sampleRate: sampleRate,
		window:     NewHamming(size),
	}, nil
}

// Window applies the Hamming analysis window in place
func (f *FFT) Window(frame []float64) error {
	return f.window.ApplyInPlace(frame)
}

// RemoveDC subtracts the frame mean in place
func (f *FFT) RemoveDC(frame []float64) {
	mean := common.Mean(frame)
	for i := range frame {
		frame[i] -= mean
	}
}

// Transform runs the forward FFT on the frame and writes bin magnitudes
// into spectrum. The dominant-peak estimate is refreshed as a side
// effect and is readable through Peak.
func (f *FFT) Transform(frame, spectrum []float64) error {
	if len(frame) != f.size {
		return fmt.Errorf("frame length (%d) doesn't match transform size (%d)", len(frame), f.size)
	}
	numBins := f.size / 2
	if len(spectrum) < numBins {
		return fmt.Errorf("spectrum length (%d) is too small for %d bins", len(spectrum), numBins)
	}

	bins := fft.FFTReal(frame)
	for i := 0; i < numBins; i++ {
		spectrum[i] = cmplx.Abs(bins[i])
	}

	f.findPeak(spectrum[:numBins])
	return nil
}

// findPeak locates the strongest non-DC bin and refines its frequency by
// parabolic interpolation of the neighboring magnitudes. The reported
// magnitude stays the raw bin value.
func (f *FFT) findPeak(spectrum []float64) {
	if len(spectrum) < 2 {
		f.peakFreq, f.peakMag = 0, 0
		return
	}

	idx := floats.MaxIdx(spectrum[1:]) + 1
	refined := float64(idx)
	if idx < len(spectrum)-1 {
		refined += common.ParabolicPeak(spectrum[idx-1], spectrum[idx], spectrum[idx+1])
	}

	f.peakFreq = refined * float64(f.sampleRate) / float64(f.size)
	f.peakMag = spectrum[idx]
}

// Peak reports the dominant frequency and magnitude captured by the
// last Transform. Both are zero before the first Transform.
func (f *FFT) Peak() (float64, float64) {
	return f.peakFreq, f.peakMag
}

// GetSize returns the transform size
func (f *FFT) GetSize() int {
	return f.size
}

// GetSampleRate returns the sample rate in Hz
func (f *FFT) GetSampleRate() int {
	return f.sampleRate
}
