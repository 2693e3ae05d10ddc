package analyzer

import (
	"fmt"
	"slices"

	"github.com/RyanBlaney/sonido-edge/algorithms/cepstral"
	"github.com/RyanBlaney/sonido-edge/algorithms/pitch"
	"github.com/RyanBlaney/sonido-edge/algorithms/signature"
	"github.com/RyanBlaney/sonido-edge/algorithms/transform"
	"github.com/RyanBlaney/sonido-edge/analyzer/config"
	"github.com/RyanBlaney/sonido-edge/logging"
)

// Analyzer turns one frame of audio at a time into compact numeric
// descriptors: ten spectral statistics, cepstral coefficients, a YIN
// pitch estimate, a banded signature with a fuzz-tolerant hash, and
// RMS/decibel level. All working memory is allocated when a
// configuration is applied and reused for every frame, so the
// steady-state per-frame path stays allocation free.
//
// An Analyzer is single threaded by contract: one instance per audio
// stream, calls serialized by the caller. Nothing blocks or spawns
// goroutines.
type Analyzer struct {
	cfg           config.AnalyzerConfig
	numBins       int
	binResolution float64

	signal   []float64
	spectrum []float64
	features FeatureVector

	transformer transform.Transformer
	cepstrum    *cepstral.MFCC
	estimator   *pitch.Estimator
	generator   *signature.Generator

	logger      logging.Logger
	initialized bool
}

// New returns an unconfigured analyzer. Per-frame operations on an
// unconfigured analyzer return zero values; call Configure first.
func New() *Analyzer {
	return &Analyzer{
		logger: logging.WithFields(logging.Fields{
			"component": "analyzer",
		}),
	}
}

// NewWithConfig returns an analyzer with the configuration applied
func NewWithConfig(cfg config.AnalyzerConfig) (*Analyzer, error) {
	a := New()
	if err := a.Configure(cfg); err != nil {
		return nil, err
	}
	return a, nil
}

// Configure applies a configuration. Structural changes (transform
// length, sample rate, range count, coefficient count) release and
// rebuild every buffer and component; any other change is applied in
// place and leaves buffer identities untouched. The caller's value is
// deep copied and never retained.
//
// On failure the analyzer is left fully unconfigured, never partially
// initialized.
func (a *Analyzer) Configure(cfg config.AnalyzerConfig) error {
	logger := a.logger.WithFields(logging.Fields{
		"function":         "Configure",
		"sample_rate":      cfg.SampleRate,
		"transform_length": cfg.TransformLength,
	})

	cfg.Ranges = slices.Clone(cfg.Ranges)
	rescaleDefaultRanges(&cfg)

	if a.initialized && !a.structuralChange(cfg) {
		a.cfg = cfg
		if a.generator != nil {
			if err := a.generator.Update(cfg.Ranges, cfg.FuzzFactor); err != nil {
				logger.Error(err, "Failed to update signature ranges")
				return fmt.Errorf("failed to update signature ranges: %w", err)
			}
		}
		logger.Debug("Configuration applied in place")
		return nil
	}

	a.release()

	if cfg.TransformLength <= 0 || cfg.SampleRate <= 0 {
		err := fmt.Errorf("invalid configuration: transform length %d, sample rate %d",
			cfg.TransformLength, cfg.SampleRate)
		logger.Error(err, "Rejecting configuration")
		return err
	}

	numBins := cfg.TransformLength / 2
	binResolution := float64(cfg.SampleRate) / float64(cfg.TransformLength)

	transformer, err := transform.NewFFT(cfg.TransformLength, cfg.SampleRate)
	if err != nil {
		logger.Error(err, "Failed to build transformer")
		return fmt.Errorf("failed to build transformer: %w", err)
	}

	var cepstrum *cepstral.MFCC
	if cfg.CepstralCoefficients > 0 {
		cepstrum, err = cepstral.New(cfg.TransformLength, cfg.SampleRate, cfg.CepstralCoefficients)
		if err != nil {
			logger.Error(err, "Failed to build cepstrum computer")
			return fmt.Errorf("failed to build cepstrum computer: %w", err)
		}
	}

	estimator, err := pitch.New(cfg.SampleRate, cfg.TransformLength)
	if err != nil {
		logger.Error(err, "Failed to build pitch estimator")
		return fmt.Errorf("failed to build pitch estimator: %w", err)
	}

	var generator *signature.Generator
	if len(cfg.Ranges) > 0 {
		generator, err = signature.New(cfg.Ranges, binResolution, cfg.FuzzFactor)
		if err != nil {
			logger.Error(err, "Failed to build signature generator")
			return fmt.Errorf("failed to build signature generator: %w", err)
		}
	}

	a.cfg = cfg
	a.numBins = numBins
	a.binResolution = binResolution
	a.signal = make([]float64, cfg.TransformLength)
	a.spectrum = make([]float64, numBins)
	a.features = FeatureVector{}
	a.transformer = transformer
	a.cepstrum = cepstrum
	a.estimator = estimator
	a.generator = generator
	a.initialized = true

	logger.Debug("Analyzer configured", logging.Fields{
		"num_bins":       numBins,
		"bin_resolution": binResolution,
		"ranges":         cfg.Ranges,
		"fuzz_factor":    cfg.FuzzFactor,
	})
	return nil
}

// structuralChange reports whether cfg needs a buffer rebuild
func (a *Analyzer) structuralChange(cfg config.AnalyzerConfig) bool {
	return cfg.TransformLength != a.cfg.TransformLength ||
		cfg.SampleRate != a.cfg.SampleRate ||
		len(cfg.Ranges) != len(a.cfg.Ranges) ||
		cfg.CepstralCoefficients != a.cfg.CepstralCoefficients
}

// rescaleDefaultRanges adapts the canonical default range table, which
// is authored for a transform length of 256, to the configured length.
// The fuzz factor scales with it. Caller-authored tables pass through
// untouched, and rescaling always starts from the supplied values, so
// reapplying the same configuration is idempotent.
func rescaleDefaultRanges(cfg *config.AnalyzerConfig) {
	if cfg.TransformLength == config.RangesTransformLength {
		return
	}
	if !slices.Equal(cfg.Ranges, config.DefaultRanges()) {
		return
	}

	for i, r := range cfg.Ranges {
		cfg.Ranges[i] = r * cfg.TransformLength / config.RangesTransformLength
	}
	cfg.FuzzFactor = cfg.FuzzFactor * cfg.TransformLength / config.RangesTransformLength
}

// release drops every component and buffer
func (a *Analyzer) release() {
	a.cfg = config.AnalyzerConfig{}
	a.numBins = 0
	a.binResolution = 0
	a.signal = nil
	a.spectrum = nil
	a.features = FeatureVector{}
	a.transformer = nil
	a.cepstrum = nil
	a.estimator = nil
	a.generator = nil
	a.initialized = false
}

// Initialized reports whether a configuration has been applied
func (a *Analyzer) Initialized() bool {
	return a.initialized
}

// GetConfig returns the effective configuration, including rescaled
// default ranges. The returned value is a deep copy.
func (a *Analyzer) GetConfig() config.AnalyzerConfig {
	cfg := a.cfg
	cfg.Ranges = slices.Clone(cfg.Ranges)
	return cfg
}

// GetNumBins returns the magnitude spectrum size
func (a *Analyzer) GetNumBins() int {
	return a.numBins
}

// GetBinResolution returns the width of one spectrum bin in Hz
func (a *Analyzer) GetBinResolution() float64 {
	return a.binResolution
}

// BinFrequency converts a bin index to its frequency in Hz
func (a *Analyzer) BinFrequency(bin int) float64 {
	return float64(bin) * a.binResolution
}

// GetSpectrum returns the engine-owned magnitude spectrum filled by the
// last Transform. Valid until the next Transform or Configure.
func (a *Analyzer) GetSpectrum() []float64 {
	return a.spectrum
}

// GetFeatures returns the engine-owned feature vector. Valid until the
// next sweep or Configure.
func (a *Analyzer) GetFeatures() *FeatureVector {
	return &a.features
}
