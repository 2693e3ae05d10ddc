package analyzer

import (
	"math"

	"github.com/RyanBlaney/sonido-edge/algorithms/common"
)

// RMS returns the root mean square of the signal. Callers are expected
// to hand in DC-free frames; no DC correction happens here.
func (a *Analyzer) RMS(signal []float64) float64 {
	return common.RMS(signal)
}

// DecibelLevel converts the signal's RMS amplitude to sound pressure
// level using the configured microphone sensitivity and gain:
//
//	SPL = round(20*log10(rms/sensitivity) - gain + 94)
//
// The 94 dB term anchors the scale to the 1 Pa reference tone used for
// microphone calibration. Returns 0 when the sensitivity is 0 (level
// conversion disabled) and for silent frames.
func (a *Analyzer) DecibelLevel(signal []float64) float64 {
	if a.cfg.MicSensitivity == 0 {
		return 0
	}
	rms := common.RMS(signal)
	if rms == 0 {
		return 0
	}
	dBV := 20 * math.Log10(rms/a.cfg.MicSensitivity)
	return math.Round(dBV - a.cfg.Gain + 94)
}
