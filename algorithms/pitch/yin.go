package pitch

import (
	"fmt"
	"math"

	"github.com/RyanBlaney/sonido-edge/algorithms/common"
)

const (
	// defaultMaxFrequency bounds the search on a freshly built estimator
	defaultMaxFrequency = 1500.0

	// minLag is the fixed floor of the fresh candidate scan
	minLag = 30

	// candidateThreshold accepts the first sufficiently deep local
	// minimum during the fresh scan
	candidateThreshold = 0.1
)

// Estimator implements the YIN fundamental frequency estimator with an
// inter-frame continuity bias: before scanning the whole lag range, the
// neighborhood of the previous frame's period is re-examined so a
// sustained tone keeps a stable estimate across frames.
//
// References:
//   - de Cheveigné, A., Kawahara, H. (2002). "YIN, a fundamental
//     frequency estimator for speech and music"
type Estimator struct {
	sampleRate int
	frameSize  int
	delta      []float64 // cumulative mean normalized difference per lag
	prevPeriod float64
	minPeriod  int
}

// New creates a YIN estimator for the given sample rate and frame size.
// The lag search covers frameSize/2 samples.
func New(sampleRate, frameSize int) (*Estimator, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("invalid sample rate: %d", sampleRate)
	}
	if frameSize < 2 {
		return nil, fmt.Errorf("invalid frame size: %d", frameSize)
	}

	e := &Estimator{
		sampleRate: sampleRate,
		frameSize:  frameSize,
		delta:      make([]float64, frameSize/2),
		prevPeriod: 1.0,
	}
	e.SetMaxFrequency(defaultMaxFrequency)

	return e, nil
}

// SetMaxFrequency bounds the highest detectable pitch. Values at or
// below 200 Hz are treated as misconfiguration and replaced with 2000.
func (e *Estimator) SetMaxFrequency(maxHz float64) {
	if maxHz <= 200 {
		maxHz = 2000
	}
	e.minPeriod = int(math.Ceil(float64(e.sampleRate) / maxHz))
}

// GetMaxFrequency reports the effective maximum detectable frequency
func (e *Estimator) GetMaxFrequency() float64 {
	return float64(e.sampleRate) / float64(e.minPeriod)
}

// Reset clears the inter-frame continuity state
func (e *Estimator) Reset() {
	e.prevPeriod = 1.0
}

// Estimate returns the fundamental frequency of the frame in Hz, or 0
// when no period can be established. Frames shorter than the configured
// size yield 0.
func (e *Estimator) Estimate(frame []float64) float64 {
	if len(frame) < e.frameSize {
		return 0
	}

	e.cumulativeDifference(frame)

	period := e.continuityCandidate()
	if period < 0 {
		period = e.freshCandidate()
	}

	refined := e.refine(period)
	if refined <= 0 {
		return 0
	}
	e.prevPeriod = refined

	return float64(e.sampleRate) / refined
}

// cumulativeDifference fills delta with the cumulative mean normalized
// difference function over the first half of the frame. The running sum
// includes the current lag; lag 0 is forced to 1 afterwards.
func (e *Estimator) cumulativeDifference(frame []float64) {
	half := e.frameSize / 2

	runningSum := 0.0
	for tau := 0; tau < half; tau++ {
		sum := 0.0
		for j := 0; j < half; j++ {
			d := frame[j] - frame[j+tau]
			sum += d * d
		}
		e.delta[tau] = sum
		runningSum += sum
		if runningSum > 0 {
			e.delta[tau] = sum * float64(tau) / runningSum
		}
	}
	e.delta[0] = 1.0
}

// continuityCandidate re-examines the lags around the previous period.
// The last strict local minimum in the window wins; -1 means none.
func (e *Estimator) continuityCandidate() int {
	prev := int(math.Round(e.prevPeriod))

	found := -1
	for i := prev - 1; i <= prev+1; i++ {
		if i <= 0 || i >= len(e.delta)-1 {
			continue
		}
		if e.delta[i] < e.delta[i-1] && e.delta[i] < e.delta[i+1] {
			found = i
		}
	}
	return found
}

// freshCandidate scans the full lag range: the first strict local
// minimum below the acceptance threshold wins, otherwise the global
// minimum over the scan.
func (e *Estimator) freshCandidate() int {
	minInd := 0
	minVal := math.Inf(1)
	for i := minLag; i < len(e.delta)-1; i++ {
		if e.delta[i] < minVal {
			minVal = e.delta[i]
			minInd = i
		}
		if e.delta[i] < candidateThreshold &&
			e.delta[i] < e.delta[i-1] && e.delta[i] < e.delta[i+1] {
			return i
		}
	}
	return minInd
}

// refine sharpens an integer lag by parabolic interpolation of the
// difference function around it. Boundary lags pass through unrefined.
func (e *Estimator) refine(period int) float64 {
	if period <= 0 || period >= len(e.delta)-1 {
		return float64(period)
	}
	return float64(period) + common.ParabolicPeak(e.delta[period-1], e.delta[period], e.delta[period+1])
}
