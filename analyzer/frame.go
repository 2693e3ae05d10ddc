package analyzer

import (
	"fmt"
	"slices"

	"github.com/RyanBlaney/sonido-edge/logging"
)

// FrameAnalysis is an owned snapshot of everything the engine extracts
// from one frame. Unlike the engine accessors it shares no memory with
// the analyzer, so it stays valid across later frames.
type FrameAnalysis struct {
	RMS          float64       `json:"rms"`
	DecibelLevel float64       `json:"decibel_level"`
	Pitch        float64       `json:"pitch"`           // Fundamental frequency in Hz, 0 when undetected
	Features     FeatureVector `json:"features"`        // Indexed by Feature
	Coefficients []float64     `json:"coefficients,omitempty"` // Cepstral coefficients, nil when disabled
	Signature    []uint32      `json:"signature,omitempty"`    // Per-range signature, nil when disabled
	Hash         uint32        `json:"hash,omitempty"`
}

// Transform windows the signal, optionally removes DC, and runs the
// forward transform into the engine-owned spectrum. Frames shorter than
// the transform length are zero padded. The transformer's interpolated
// peak estimate is captured into the feature vector; a following
// SpectralStatistics overwrites it with the bin-grid peak.
func (a *Analyzer) Transform(signal []float64, removeDC bool) error {
	if !a.initialized {
		return fmt.Errorf("analyzer is not configured")
	}

	a.loadSignal(signal)
	if err := a.transformer.Window(a.signal); err != nil {
		return fmt.Errorf("failed to window frame: %w", err)
	}
	if removeDC {
		a.transformer.RemoveDC(a.signal)
	}
	if err := a.transformer.Transform(a.signal, a.spectrum); err != nil {
		return fmt.Errorf("transform failed: %w", err)
	}
	if removeDC {
		a.spectrum[0] = 0
	}

	freq, mag := a.transformer.Peak()
	a.features[PeakFrequency] = freq
	a.features[PeakMagnitude] = mag

	return nil
}

// Pitch estimates the fundamental frequency of the raw (unwindowed)
// signal in Hz. Returns 0 when unconfigured or when no period is found.
func (a *Analyzer) Pitch(signal []float64) float64 {
	if !a.initialized {
		return 0
	}
	a.loadSignal(signal)
	return a.estimator.Estimate(a.signal)
}

// CepstralCoefficients computes cepstral coefficients over the given
// magnitude spectrum, or over the last transformed one when spectrum is
// nil or empty. Returns the engine-owned coefficient slice, or nil when
// the feature is disabled or the analyzer is unconfigured.
func (a *Analyzer) CepstralCoefficients(spectrum []float64) []float64 {
	if !a.initialized || a.cepstrum == nil {
		return nil
	}
	if len(spectrum) == 0 {
		spectrum = a.spectrum
	}
	return a.cepstrum.Compute(spectrum)
}

// Fingerprint computes the banded signature over the given magnitude
// spectrum, or over the last transformed one when spectrum is nil or
// empty. Returns the engine-owned signature slice, or nil when
// fingerprinting is disabled or the analyzer is unconfigured.
func (a *Analyzer) Fingerprint(spectrum []float64) []uint32 {
	if !a.initialized || a.generator == nil {
		return nil
	}
	if len(spectrum) == 0 {
		spectrum = a.spectrum
	}
	return a.generator.Compute(spectrum)
}

// FingerprintHash folds a signature into a fuzz-tolerant hash. A nil
// signature hashes the most recently computed one. Returns 0 when
// fingerprinting is disabled or the analyzer is unconfigured.
func (a *Analyzer) FingerprintHash(sig []uint32) uint32 {
	if !a.initialized || a.generator == nil {
		return 0
	}
	return a.generator.Hash(sig)
}

// Analyze runs the whole per-frame chain (levels, transform,
// statistics, cepstrum, signature, pitch) and returns an owned
// snapshot. Unlike the individual operations it copies results out of
// the engine buffers, so it allocates; callers that care should use the
// individual operations and the engine accessors instead.
func (a *Analyzer) Analyze(signal []float64, removeDC bool) (*FrameAnalysis, error) {
	if !a.initialized {
		return nil, fmt.Errorf("analyzer is not configured")
	}

	logger := a.logger.WithFields(logging.Fields{
		"function":  "Analyze",
		"samples":   len(signal),
		"remove_dc": removeDC,
	})
	logger.Debug("Starting frame analysis")

	result := &FrameAnalysis{
		RMS:          a.RMS(signal),
		DecibelLevel: a.DecibelLevel(signal),
	}

	if err := a.Transform(signal, removeDC); err != nil {
		logger.Error(err, "Frame transform failed")
		return nil, err
	}

	result.Features = *a.SpectralStatistics(nil)

	if coeffs := a.CepstralCoefficients(nil); coeffs != nil {
		result.Coefficients = slices.Clone(coeffs)
	}
	if sig := a.Fingerprint(nil); sig != nil {
		result.Signature = slices.Clone(sig)
		result.Hash = a.FingerprintHash(sig)
	}

	// Last, because the pitch estimator reuses the signal buffer that
	// Transform just windowed.
	result.Pitch = a.Pitch(signal)

	logger.Debug("Frame analysis complete", logging.Fields{
		"peak_frequency": result.Features[PeakFrequency],
		"pitch":          result.Pitch,
		"hash":           result.Hash,
	})
	return result, nil
}

// loadSignal copies a caller frame into the engine signal buffer,
// zero padding short frames
func (a *Analyzer) loadSignal(signal []float64) {
	n := copy(a.signal, signal)
	if n < len(a.signal) {
		clear(a.signal[n:])
	}
}
