// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package audio

import "math"

// Waveform geometry. The live recording meter has 12 bars; the static
// playback waveform has 24 shorter ones. Heights are in cells scaled by
// the renderer, the values here match the sizes the visualization was
// tuned with.
const (
	RecordingBarCount = 12
	RecordingMinBar   = 4
	RecordingMaxBar   = 24

	WaveformBarCount = 24
	WaveformMinBar   = 4
	WaveformMaxBar   = 20

	// WaveformCentre is the midpoint of unsigned 8-bit PCM; amplitude is
	// distance from it.
	WaveformCentre = 128

	// peakFloor keeps the normalization divisor away from zero.
	peakFloor = 2
	// silenceThreshold: below this peak the whole frame is treated as
	// near-silence and scaled down so noise does not fill the meter.
	silenceThreshold = 10
)

// PeaksToHeights maps per-bucket peak amplitudes (0..127) to bar heights.
// Bars are normalized against the loudest bucket of the frame so the meter
// uses its full range, then globally damped when the frame is near-silent.
func PeaksToHeights(peaks []int) []int {
	maxPeak := peakFloor
	for _, p := range peaks {
		if p > maxPeak {
			maxPeak = p
		}
	}

	rng := float64(RecordingMaxBar - RecordingMinBar)
	heights := make([]float64, len(peaks))
	for i, p := range peaks {
		t := math.Min(1, float64(p)/float64(maxPeak))
		heights[i] = RecordingMinBar + t*rng
	}

	out := make([]int, len(peaks))
	if maxPeak < silenceThreshold {
		levelScale := float64(maxPeak) / silenceThreshold
		for i, h := range heights {
			out[i] = int(math.Round(RecordingMinBar + (h-RecordingMinBar)*levelScale))
		}
		return out
	}
	for i, h := range heights {
		out[i] = int(math.Round(h))
	}
	return out
}

// BucketPeaks reduces a frame of unsigned 8-bit PCM samples to
// RecordingBarCount peak-amplitude buckets.
func BucketPeaks(samples []byte) []int {
	peaks := make([]int, RecordingBarCount)
	if len(samples) == 0 {
		return peaks
	}
	groupSize := len(samples) / RecordingBarCount
	if groupSize == 0 {
		groupSize = 1
	}
	for i := 0; i < RecordingBarCount; i++ {
		start := i * groupSize
		end := start + groupSize
		if i == RecordingBarCount-1 || end > len(samples) {
			end = len(samples)
		}
		for j := start; j < end && j < len(samples); j++ {
			amp := int(samples[j]) - WaveformCentre
			if amp < 0 {
				amp = -amp
			}
			if amp > peaks[i] {
				peaks[i] = amp
			}
		}
	}
	return peaks
}

// SeededBarHeights produces the static playback waveform: a deterministic
// pseudo-shape derived from the seed so the same message always renders the
// same bars.
func SeededBarHeights(seed int) []int {
	heights := make([]int, WaveformBarCount)
	for i := range heights {
		t := math.Sin(float64(seed)+float64(i)*0.7)*0.5 + 0.5
		heights[i] = int(WaveformMinBar + t*float64(WaveformMaxBar-WaveformMinBar))
	}
	return heights
}

// SeedFromString derives a waveform seed from an identifier, summing code
// points the way the web client does.
func SeedFromString(s string) int {
	seed := 0
	for _, r := range s {
		seed += int(r)
	}
	return seed
}
