package analyzer

import (
	"math"
	"testing"

	"github.com/RyanBlaney/sonido-edge/analyzer/config"
)

func TestRMS(t *testing.T) {
	t.Parallel()

	a := mustConfigured(t)

	if got := a.RMS(make([]float64, 512)); got != 0 {
		t.Errorf("RMS(silence) = %v, want 0", got)
	}

	signal := []float64{3, -3, 3, -3}
	if got := a.RMS(signal); math.Abs(got-3) > 1e-12 {
		t.Errorf("RMS(±3 square) = %v, want 3", got)
	}
}

func TestDecibelLevelDisabled(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	cfg.MicSensitivity = 0

	a, err := NewWithConfig(cfg)
	if err != nil {
		t.Fatalf("NewWithConfig() error = %v", err)
	}

	signal := []float64{0.5, -0.5, 0.5, -0.5}
	if got := a.DecibelLevel(signal); got != 0 {
		t.Errorf("DecibelLevel() = %v with zero sensitivity, want 0", got)
	}
}

func TestDecibelLevelSilence(t *testing.T) {
	t.Parallel()

	a := mustConfigured(t)
	if got := a.DecibelLevel(make([]float64, 512)); got != 0 {
		t.Errorf("DecibelLevel(silence) = %v, want 0", got)
	}
}

func TestDecibelLevelKnownValue(t *testing.T) {
	t.Parallel()

	a := mustConfigured(t)

	// RMS equal to the sensitivity makes the log term vanish:
	// round(0 - 75 + 94) = 19.
	signal := make([]float64, 512)
	for i := range signal {
		signal[i] = config.DefaultMicSensitivity
	}
	if got, want := a.DecibelLevel(signal), 19.0; got != want {
		t.Errorf("DecibelLevel() = %v, want %v", got, want)
	}
}
