package analyzer

import "math"

// Feature indexes the spectral feature vector
type Feature int

const (
	PeakFrequency Feature = iota
	PeakMagnitude
	AverageMagnitude
	Spread
	Skewness
	Centroid
	Flatness
	Crest
	Kurtosis
	Rolloff

	// NumFeatures is the feature vector length
	NumFeatures
)

var featureNames = [NumFeatures]string{
	"PeakFreq",
	"PeakMag",
	"AvgMag",
	"Spread",
	"Skewness",
	"Centroid",
	"Flatness",
	"Crest",
	"Kurtosis",
	"Rolloff",
}

// String returns the canonical feature name
func (f Feature) String() string {
	if f < 0 || f >= NumFeatures {
		return "Unknown"
	}
	return featureNames[f]
}

// FeatureVector holds the spectral statistics of one frame, indexed by
// Feature
type FeatureVector [NumFeatures]float64

// Named returns the vector keyed by canonical feature names
func (v *FeatureVector) Named() map[string]float64 {
	out := make(map[string]float64, NumFeatures)
	for f := Feature(0); f < NumFeatures; f++ {
		out[f.String()] = v[f]
	}
	return out
}

// SpectralStatistics computes the feature vector over the given
// magnitude spectrum, or over the spectrum from the last Transform when
// spectrum is nil or empty. It returns the engine-owned vector, or nil
// when unconfigured.
//
// Bin 0 (DC) is excluded from every sum, while every mean still divides
// by the full bin count. Centroid and peak frequency are reported in
// Hz; spread and skewness stay in bin units. A silent spectrum yields
// the documented fallbacks: centroid 0, crest 1, kurtosis -3, NaN for
// spread and skewness.
func (a *Analyzer) SpectralStatistics(spectrum []float64) *FeatureVector {
	if !a.initialized {
		return nil
	}
	if len(spectrum) == 0 {
		spectrum = a.spectrum
	}
	n := float64(len(spectrum))

	var (
		sumAmplitudes float64
		sumWeighted   float64
		logSum        float64
		sumF          float64
		sumSq         float64
		maxSq         float64
		peakBin       int
		peakMag       float64
	)

	for i := 1; i < len(spectrum); i++ {
		m := spectrum[i]

		sumAmplitudes += m
		sumWeighted += m * float64(i)

		// Flatness works on 1+magnitude so empty bins contribute
		// log(1)=0 instead of blowing up the geometric mean.
		f := 1.0 + m
		logSum += math.Log(f)
		sumF += f

		sq := m * m
		sumSq += sq
		if sq > maxSq {
			maxSq = sq
		}

		if m > peakMag {
			peakMag = m
			peakBin = i
		}
	}

	meanMag := sumAmplitudes / n

	centroidBins := 0.0
	if sumAmplitudes > 0 {
		centroidBins = sumWeighted / sumAmplitudes
	}

	flatness := 0.0
	if sumF > 0 {
		flatness = math.Exp(logSum/n) / (sumF / n)
	}

	crest := 1.0
	if sumSq > 0 {
		crest = maxSq / (sumSq / n)
	}

	threshold := a.cfg.RolloffPercentile * sumAmplitudes

	var (
		spreadSum  float64
		skewSum    float64
		rolloff    float64
		rolloffSum float64
		m2         float64
		m4         float64
	)

	for i := 1; i < len(spectrum); i++ {
		m := spectrum[i]

		d := float64(i) - centroidBins
		spreadSum += d * d * m
		skewSum += d * d * d * m

		if rolloff == 0 {
			if rolloffSum > threshold {
				rolloff = float64(i) / n
			} else {
				rolloffSum += m
			}
		}

		dm := m - meanMag
		m2 += dm * dm
		m4 += dm * dm * dm * dm
	}

	spread := math.Sqrt(spreadSum / sumAmplitudes)
	skewness := (skewSum / sumAmplitudes) / (spread * spread * spread)

	m2 /= n
	m4 /= n
	kurtosis := -3.0
	if m2 != 0 {
		kurtosis = m4/(m2*m2) - 3.0
	}

	a.features[PeakFrequency] = float64(peakBin) * a.binResolution
	a.features[PeakMagnitude] = peakMag
	a.features[AverageMagnitude] = meanMag
	a.features[Spread] = spread
	a.features[Skewness] = skewness
	a.features[Centroid] = centroidBins * a.binResolution
	a.features[Flatness] = flatness
	a.features[Crest] = crest
	a.features[Kurtosis] = kurtosis
	a.features[Rolloff] = rolloff

	return &a.features
}
