package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
)

const (
	sampleRate = beep.SampleRate(44100)

	// baseFrequency is the pitch of merging two 2s into a 4
	baseFrequency = 261.63

	mergeDuration = 120 * time.Millisecond
	spawnDuration = 40 * time.Millisecond
	spawnPitch    = 1320.0
)

// MergeFrequency returns the pitch for a merge producing value. Every
// doubling raises the pitch by two semitones.
func MergeFrequency(value int) float64 {
	if value < 4 {
		value = 4
	}
	steps := math.Log2(float64(value)) - 2
	return baseFrequency * math.Pow(2, steps*2/12)
}

// Tone is a sine of freq lasting d that fades out linearly
func Tone(freq float64, d time.Duration, volume float64) beep.Streamer {
	sine, err := generators.SineTone(sampleRate, freq)
	if err != nil {
		return beep.Silence(sampleRate.N(d))
	}
	return withVolume(newFade(beep.Take(sampleRate.N(d), sine), sampleRate.N(d)), volume)
}

// fade scales samples from full volume down to silence over total samples
type fade struct {
	streamer beep.Streamer
	position int
	total    int
}

func newFade(s beep.Streamer, total int) *fade {
	return &fade{streamer: s, total: total}
}

func (f *fade) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = f.streamer.Stream(samples)
	for i := 0; i < n; i++ {
		vol := 0.0
		if f.total > 0 {
			vol = 1 - float64(f.position)/float64(f.total)
		}
		if vol < 0 {
			vol = 0
		}
		samples[i][0] *= vol
		samples[i][1] *= vol
		f.position++
	}
	return n, ok
}

func (f *fade) Err() error { return f.streamer.Err() }

// math.Log2(0) is -Inf, so zero volume is expressed as silent
func withVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol), Silent: false}
}
