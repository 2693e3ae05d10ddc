package transform

// Transformer is the spectral transform contract the analyzer drives for
// every frame: window application, optional DC removal, forward transform
// with magnitude conversion, and the transform's own dominant-peak
// estimate. Implementations keep whatever state they need between calls
// and are not safe for concurrent use.
type Transformer interface {
	// Window applies the analysis window to the frame in place
	Window(frame []float64) error

	// RemoveDC subtracts the frame mean in place
	RemoveDC(frame []float64)

	// Transform runs the forward transform on the frame and writes one
	// magnitude per bin into spectrum (len(frame)/2 bins)
	Transform(frame, spectrum []float64) error

	// Peak reports the dominant frequency (Hz) and its magnitude from
	// the most recent Transform
	Peak() (freq, magnitude float64)
}
