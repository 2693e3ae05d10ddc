package config

// AnalyzerConfig holds every tunable of the analysis engine. Instances
// are plain data; the engine deep-copies on Configure, so callers can
// build, reuse, and mutate them freely.
type AnalyzerConfig struct {
	SampleRate           int     `json:"sample_rate"`           // Hz
	TransformLength      int     `json:"transform_length"`      // frame/FFT size, power of two
	MicSensitivity       float64 `json:"mic_sensitivity"`       // SPL reference, 0 disables decibel output
	Gain                 float64 `json:"gain"`                  // capture chain gain, dB
	RolloffPercentile    float64 `json:"rolloff_percentile"`    // cumulative magnitude fraction for rolloff
	Ranges               []int   `json:"ranges"`                // ascending fingerprint bin boundaries, empty disables
	FuzzFactor           int     `json:"fuzz_factor"`           // hash quantization step, Hz
	CepstralCoefficients int     `json:"cepstral_coefficients"` // MFCC count, 0 disables
}

// Defaults match the reference capture chain.
const (
	DefaultSampleRate           = 44100
	DefaultTransformLength      = 512
	DefaultMicSensitivity       = 5.012
	DefaultGain                 = 75.0
	DefaultRolloffPercentile    = 0.85
	DefaultFuzzFactor           = 32
	DefaultCepstralCoefficients = 13
)

// RangesTransformLength is the transform length the default range table
// is authored for. The engine rescales the table and the fuzz factor
// proportionally when configured with any other length.
const RangesTransformLength = 256

// DefaultRanges returns the canonical fingerprint range table. A fresh
// slice is allocated on every call.
func DefaultRanges() []int {
	return []int{5, 10, 20, 40, 80, 256}
}

// DefaultConfig returns the default engine configuration. Every call
// yields an independent value, so mutating one result never leaks into
// another.
func DefaultConfig() AnalyzerConfig {
	return AnalyzerConfig{
		SampleRate:           DefaultSampleRate,
		TransformLength:      DefaultTransformLength,
		MicSensitivity:       DefaultMicSensitivity,
		Gain:                 DefaultGain,
		RolloffPercentile:    DefaultRolloffPercentile,
		Ranges:               DefaultRanges(),
		FuzzFactor:           DefaultFuzzFactor,
		CepstralCoefficients: DefaultCepstralCoefficients,
	}
}
