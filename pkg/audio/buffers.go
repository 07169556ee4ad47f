// Package audio provides small helpers for non-interleaved float32 sample
// buffers. Everything here is allocation-free and safe to call from a
// realtime audio callback.
package audio

import "math"

// Silence zeroes every buffer in place.
func Silence(bufs [][]float32) {
	for _, buf := range bufs {
		clear(buf)
	}
}

// Accumulate mixes src into dst scaled by gain: dst[i] += src[i] * gain.
// Buffers of unequal length mix over the shorter of the two.
func Accumulate(dst, src []float32, gain float32) {
	n := len(dst)
	if len(src) < n {
		n = len(src)
	}
	for i := 0; i < n; i++ {
		dst[i] += src[i] * gain
	}
}

// Clip hard-limits every sample into [-1, 1], the range the DAC accepts.
// Summing many hot channels can push the mix past full scale; clipping at
// the very end keeps the overflow from wrapping into garbage.
func Clip(buf []float32) {
	for i, v := range buf {
		if v > 1 {
			buf[i] = 1
		} else if v < -1 {
			buf[i] = -1
		}
	}
}

// Peak returns the largest sample magnitude in the buffer.
func Peak(buf []float32) float32 {
	var peak float32
	for _, v := range buf {
		if v < 0 {
			v = -v
		}
		if v > peak {
			peak = v
		}
	}

	return peak
}

// RMS returns the root mean square of the buffer, the usual basis for meter
// ballistics. An empty buffer reports zero.
func RMS(buf []float32) float32 {
	if len(buf) == 0 {
		return 0
	}

	var sum float64
	for _, v := range buf {
		sum += float64(v) * float64(v)
	}

	return float32(math.Sqrt(sum / float64(len(buf))))
}
