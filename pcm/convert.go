// Package pcm converts captured audio buffers into the normalized
// float64 frames the analyzer consumes. Capture sources hand over
// either typed sample slices (microphone drivers, ADC DMA buffers) or
// raw little endian byte streams; both land here, and FrameBuffer
// reassembles fixed analysis frames from chunks of whatever size the
// driver delivers.
//
// Conversion is per sample only. Channel mixdown and resampling stay
// with the caller.
package pcm

import (
	"encoding/binary"
	"math"
)

const (
	int16Scale = 1.0 / 32768.0
	int32Scale = 1.0 / 2147483648.0
)

// FromInt16 converts signed 16 bit samples to float64 in [-1, 1)
func FromInt16(samples []int16) []float64 {
	out := make([]float64, len(samples))
	for i, s := range samples {
		out[i] = float64(s) * int16Scale
	}
	return out
}

// FromInt32 converts signed 32 bit samples to float64 in [-1, 1)
func FromInt32(samples []int32) []float64 {
	out := make([]float64, len(samples))
	for i, s := range samples {
		out[i] = float64(s) * int32Scale
	}
	return out
}

// FromFloat32 widens 32 bit float samples to float64
func FromFloat32(samples []float32) []float64 {
	out := make([]float64, len(samples))
	for i, s := range samples {
		out[i] = float64(s)
	}
	return out
}

// DecodeS16LE converts raw little endian signed 16 bit PCM bytes to
// float64 in [-1, 1). A trailing partial sample is dropped.
func DecodeS16LE(data []byte) []float64 {
	n := len(data) / 2
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		s := int16(binary.LittleEndian.Uint16(data[i*2:]))
		out[i] = float64(s) * int16Scale
	}
	return out
}

// DecodeF64LE converts raw little endian 64 bit float PCM bytes, the
// format FFmpeg emits for f64le output. A trailing partial sample is
// dropped.
func DecodeF64LE(data []byte) []float64 {
	n := len(data) / 8
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		bits := binary.LittleEndian.Uint64(data[i*8:])
		out[i] = math.Float64frombits(bits)
	}
	return out
}
