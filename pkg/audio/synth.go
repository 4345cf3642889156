package audio

import (
	"fmt"
	"math"

	"github.com/borgmon/alarm-clock/pkg/models"
)

// tone is one enveloped sine burst within a pattern.
type tone struct {
	freq   float64
	start  float64 // seconds
	length float64 // seconds
	volume float64
}

// patterns lists the bursts of one loop period of each synthesized sound.
var patterns = map[models.Pattern]struct {
	period float64
	tones  []tone
}{
	models.PatternBeep: {
		period: 1.0,
		tones: []tone{
			{freq: 880, start: 0.0, length: 0.12, volume: 0.5},
			{freq: 880, start: 0.2, length: 0.12, volume: 0.5},
			{freq: 880, start: 0.4, length: 0.12, volume: 0.5},
		},
	},
	models.PatternPulse: {
		period: 0.8,
		tones: []tone{
			{freq: 660, start: 0.0, length: 0.3, volume: 0.45},
			{freq: 990, start: 0.4, length: 0.3, volume: 0.45},
		},
	},
	models.PatternChime: {
		period: 2.0,
		tones: []tone{
			{freq: 523.25, start: 0.0, length: 1.2, volume: 0.35},
			{freq: 659.25, start: 0.15, length: 1.2, volume: 0.3},
			{freq: 783.99, start: 0.3, length: 1.2, volume: 0.3},
		},
	},
}

// Synthesize renders one loop period of pattern in the engine format.
func Synthesize(p models.Pattern) ([]byte, error) {
	def, ok := patterns[p]
	if !ok {
		return nil, fmt.Errorf("audio: unknown pattern %q", p)
	}

	numSamples := int(float64(SampleRate) * def.period)
	samples := make([]int16, numSamples*Channels)

	for i := 0; i < numSamples; i++ {
		t := float64(i) / float64(SampleRate)
		sample := 0.0

		for _, tn := range def.tones {
			if t < tn.start || t >= tn.start+tn.length {
				continue
			}
			sample += math.Sin(2*math.Pi*tn.freq*(t-tn.start)) * envelope(t-tn.start, tn.length) * tn.volume
		}

		if sample > 1.0 {
			sample = 1.0
		} else if sample < -1.0 {
			sample = -1.0
		}

		value := int16(sample * 32767)
		samples[i*2] = value
		samples[i*2+1] = value
	}

	return encodePCM(samples), nil
}

// envelope is a short cosine attack followed by an exponential decay, so
// bursts start and end without clicks.
func envelope(t, length float64) float64 {
	const attack = 0.01
	if t < attack {
		return (1 - math.Cos(math.Pi*t/attack)) / 2
	}
	release := length - t
	if release < attack {
		return release / attack * math.Exp(-3*(t-attack)/length)
	}
	return math.Exp(-3 * (t - attack) / length)
}
