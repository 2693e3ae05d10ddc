package transform

import (
	"math"
	"testing"
)

func TestNewFFTRejectsInvalidSizes(t *testing.T) {
	t.Parallel()

	for _, size := range []int{0, -8, 3, 500} {
		if _, err := NewFFT(size, 44100); err == nil {
			t.Errorf("NewFFT(%d, 44100) succeeded, want error", size)
		}
	}
	if _, err := NewFFT(512, 0); err == nil {
		t.Error("NewFFT with zero sample rate succeeded, want error")
	}
	if _, err := NewFFT(512, 44100); err != nil {
		t.Fatalf("NewFFT(512, 44100) failed: %v", err)
	}
}

func TestTransformImpulse(t *testing.T) {
	t.Parallel()

	f, err := NewFFT(8, 8000)
	if err != nil {
		t.Fatalf("NewFFT failed: %v", err)
	}

	frame := make([]float64, 8)
	frame[0] = 1.0
	spectrum := make([]float64, 4)

	if err := f.Transform(frame, spectrum); err != nil {
		t.Fatalf("Transform failed: %v", err)
	}

	// An impulse has a flat magnitude spectrum.
	for i, mag := range spectrum {
		if math.Abs(mag-1.0) > 1e-9 {
			t.Errorf("bin %d: got %v, want 1", i, mag)
		}
	}
}

func TestTransformPureCosine(t *testing.T) {
	t.Parallel()

	const (
		size       = 64
		sampleRate = 6400
		bin        = 4
	)

	f, err := NewFFT(size, sampleRate)
	if err != nil {
		t.Fatalf("NewFFT failed: %v", err)
	}

	spectrum := make([]float64, size/2)
	if err := f.Transform(cosineFrame(size, bin), spectrum); err != nil {
		t.Fatalf("Transform failed: %v", err)
	}

	if got, want := spectrum[bin], float64(size)/2; math.Abs(got-want) > 1e-6 {
		t.Errorf("tone bin magnitude: got %v, want %v", got, want)
	}
	for i, mag := range spectrum {
		if i != bin && mag > 1e-6 {
			t.Errorf("bin %d leaked energy: got %v, want ~0", i, mag)
		}
	}

	freq, mag := f.Peak()
	want := float64(bin) * sampleRate / size
	if math.Abs(freq-want) > 0.5 {
		t.Errorf("peak frequency: got %v, want %v", freq, want)
	}
	if math.Abs(mag-float64(size)/2) > 1e-6 {
		t.Errorf("peak magnitude: got %v, want %v", mag, float64(size)/2)
	}
}

func TestTransformFrameSizeMismatch(t *testing.T) {
	t.Parallel()

	f, err := NewFFT(16, 8000)
	if err != nil {
		t.Fatalf("NewFFT failed: %v", err)
	}

	if err := f.Transform(make([]float64, 8), make([]float64, 8)); err == nil {
		t.Error("Transform accepted a short frame, want error")
	}
	if err := f.Transform(make([]float64, 16), make([]float64, 4)); err == nil {
		t.Error("Transform accepted a short spectrum, want error")
	}
}

func TestRemoveDC(t *testing.T) {
	t.Parallel()

	f, err := NewFFT(8, 8000)
	if err != nil {
		t.Fatalf("NewFFT failed: %v", err)
	}

	frame := []float64{5, 6, 5, 6, 5, 6, 5, 6}
	f.RemoveDC(frame)

	sum := 0.0
	for _, v := range frame {
		sum += v
	}
	if math.Abs(sum/float64(len(frame))) > 1e-12 {
		t.Errorf("mean after DC removal: got %v, want 0", sum/float64(len(frame)))
	}
}

func cosineFrame(size, bin int) []float64 {
	frame := make([]float64, size)
	for n := 0; n < size; n++ {
		frame[n] = math.Cos(2 * math.Pi * float64(bin) * float64(n) / float64(size))
	}
	return frame
}
