package analyzer

import (
	"math"
	"testing"
)

func TestTransformUnconfigured(t *testing.T) {
	t.Parallel()

	a := New()
	if err := a.Transform(make([]float64, 512), true); err == nil {
		t.Fatal("Transform() error = nil on unconfigured analyzer, want error")
	}
	if _, err := a.Analyze(make([]float64, 512), true); err == nil {
		t.Fatal("Analyze() error = nil on unconfigured analyzer, want error")
	}
	if got := a.Pitch(make([]float64, 512)); got != 0 {
		t.Errorf("Pitch() = %v on unconfigured analyzer, want 0", got)
	}
}

func TestTransformPureTone(t *testing.T) {
	t.Parallel()

	a := mustConfigured(t)
	binRes := a.GetBinResolution()
	signal := cosineFrame(512, 32)

	if err := a.Transform(signal, true); err != nil {
		t.Fatalf("Transform() error = %v", err)
	}

	spectrum := a.GetSpectrum()
	if got := spectrum[0]; got != 0 {
		t.Errorf("spectrum[0] = %v with DC removal, want 0", got)
	}
	if spectrum[32] < 100 {
		t.Errorf("spectrum[32] = %v, want > 100", spectrum[32])
	}
	if spectrum[100] > spectrum[32]/20 {
		t.Errorf("spectrum[100] = %v, want far below the peak %v", spectrum[100], spectrum[32])
	}

	// Transform captures the transformer's interpolated peak estimate.
	features := a.GetFeatures()
	wantFreq := 32 * binRes
	if math.Abs(features[PeakFrequency]-wantFreq) > binRes/2 {
		t.Errorf("PeakFrequency = %v, want %v within half a bin", features[PeakFrequency], wantFreq)
	}
	if features[PeakMagnitude] < 100 {
		t.Errorf("PeakMagnitude = %v, want > 100", features[PeakMagnitude])
	}

	// The statistics sweep replaces it with the bin-grid peak.
	got := a.SpectralStatistics(nil)
	if want := 32 * binRes; got[PeakFrequency] != want {
		t.Errorf("bin-grid PeakFrequency = %v, want %v", got[PeakFrequency], want)
	}
	if math.Abs(got[Centroid]-wantFreq) > binRes {
		t.Errorf("Centroid = %v, want %v within one bin", got[Centroid], wantFreq)
	}
}

func TestTransformRemoveDC(t *testing.T) {
	t.Parallel()

	a := mustConfigured(t)
	signal := make([]float64, 512)
	for i := range signal {
		signal[i] = 0.5
	}

	if err := a.Transform(signal, false); err != nil {
		t.Fatalf("Transform() error = %v", err)
	}
	if a.GetSpectrum()[0] == 0 {
		t.Error("spectrum[0] = 0 with DC retained, want > 0")
	}

	if err := a.Transform(signal, true); err != nil {
		t.Fatalf("Transform() error = %v", err)
	}
	if got := a.GetSpectrum()[0]; got != 0 {
		t.Errorf("spectrum[0] = %v with DC removed, want 0", got)
	}
}

func TestTransformShortFrameZeroPadded(t *testing.T) {
	t.Parallel()

	a := mustConfigured(t)
	if err := a.Transform(make([]float64, 100), false); err != nil {
		t.Fatalf("Transform() error = %v for a short frame", err)
	}
	for i, m := range a.GetSpectrum() {
		if math.IsNaN(m) || math.IsInf(m, 0) {
			t.Fatalf("spectrum[%d] = %v, want finite", i, m)
		}
	}
}

func TestPitchPureTone(t *testing.T) {
	t.Parallel()

	a := mustConfigured(t)

	// 441 Hz at 44.1 kHz is an exact 100 sample period.
	signal := make([]float64, 512)
	for i := range signal {
		signal[i] = math.Sin(2 * math.Pi * float64(i) / 100)
	}

	first := a.Pitch(signal)
	if math.Abs(first-441) > 1 {
		t.Fatalf("Pitch() = %v, want 441 ±1", first)
	}

	second := a.Pitch(signal)
	if math.Abs(second-first) > 1e-9 {
		t.Errorf("Pitch() drifted from %v to %v on the same frame", first, second)
	}
}

func TestAnalyzePureTone(t *testing.T) {
	t.Parallel()

	a := mustConfigured(t)
	binRes := a.GetBinResolution()
	signal := cosineFrame(512, 32)

	result, err := a.Analyze(signal, true)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	if math.Abs(result.RMS-math.Sqrt(0.5)) > 1e-9 {
		t.Errorf("RMS = %v, want %v", result.RMS, math.Sqrt(0.5))
	}
	// round(20*log10(sqrt(0.5)/5.012) - 75 + 94) = round(1.99) = 2
	if got, want := result.DecibelLevel, 2.0; got != want {
		t.Errorf("DecibelLevel = %v, want %v", got, want)
	}

	wantFreq := 32 * binRes
	if math.Abs(result.Features[PeakFrequency]-wantFreq) > binRes/2 {
		t.Errorf("PeakFrequency = %v, want %v within half a bin", result.Features[PeakFrequency], wantFreq)
	}

	// The tone sits above the estimator's default 1470 Hz ceiling, so
	// the tracker locks onto the octave below.
	if math.Abs(result.Pitch-wantFreq/2) > 10 {
		t.Errorf("Pitch = %v, want ~%v", result.Pitch, wantFreq/2)
	}

	if got, want := len(result.Coefficients), 13; got != want {
		t.Fatalf("len(Coefficients) = %d, want %d", got, want)
	}
	for i, c := range result.Coefficients {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			t.Errorf("Coefficients[%d] = %v, want finite", i, c)
		}
	}

	if got, want := len(result.Signature), 6; got != want {
		t.Fatalf("len(Signature) = %d, want %d", got, want)
	}
	if got, want := result.Hash, a.FingerprintHash(result.Signature); got != want {
		t.Errorf("Hash = %d, want %d", got, want)
	}

	// The snapshot owns its memory.
	if &result.Signature[0] == &a.Fingerprint(nil)[0] {
		t.Error("Signature aliases the engine buffer, want an owned copy")
	}
}

func TestAnalyzeDeterministic(t *testing.T) {
	t.Parallel()

	a := mustConfigured(t)
	signal := cosineFrame(512, 32)

	first, err := a.Analyze(signal, true)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	second, err := a.Analyze(signal, true)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	if first.Hash != second.Hash {
		t.Errorf("Hash changed across identical frames: %d then %d", first.Hash, second.Hash)
	}
	if first.Features != second.Features {
		t.Errorf("Features changed across identical frames:\n%v\n%v", first.Features, second.Features)
	}
}

func TestFingerprintUsesInternalSpectrum(t *testing.T) {
	t.Parallel()

	a := mustConfigured(t)
	if err := a.Transform(cosineFrame(512, 32), true); err != nil {
		t.Fatalf("Transform() error = %v", err)
	}

	fromNil := a.FingerprintHash(a.Fingerprint(nil))
	explicit := a.FingerprintHash(a.Fingerprint(a.GetSpectrum()))
	if fromNil != explicit {
		t.Errorf("hash from nil spectrum = %d, want %d", fromNil, explicit)
	}
}

// cosineFrame builds one frame of a unit cosine landing exactly on the
// given transform bin.
func cosineFrame(size, bin int) []float64 {
	frame := make([]float64, size)
	for i := range frame {
		frame[i] = math.Cos(2 * math.Pi * float64(bin) * float64(i) / float64(size))
	}
	return frame
}
