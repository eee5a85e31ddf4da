package music

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/chambtai-sys/Daily-Briefing-AI/internal/audio"
)

// Synthesis parameters per style.
const (
	// Calm: two detuned drones panned by a slow modulator.
	calmToneOneHz   = 146.83 // D3
	calmToneTwoHz   = 220.00 // A3
	calmModulatorHz = 0.2
	calmToneLevel   = 0.1
	calmNoiseLevel  = 0.005

	// Upbeat: 120 BPM rhythmic bed.
	upbeatBeatSeconds = 60.0 / 120.0
	upbeatKickHz      = 60.0
	upbeatKickDecay   = 20.0
	upbeatKickWindow  = 0.1
	upbeatHatWindow   = 0.05
	upbeatHatLevel    = 0.1
	upbeatChordOneHz  = 220.0
	upbeatChordTwoHz  = 330.0
	upbeatChordLevel  = 0.05

	// Focus: binaural-style beat, 4 Hz difference.
	focusLeftHz    = 200.0
	focusRightHz   = 204.0
	focusToneLevel = 0.1

	// Envelope defaults; overridable per synthesizer.
	DefaultFadeIn  = 0.5
	DefaultFadeOut = 1.5
)

// noiseFunc returns a uniform random value in [-1, 1).
type noiseFunc func() float64

// stereoVoice computes one stereo sample pair for a point in time.
// Voices are pure apart from the injected noise source, which keeps each
// style independently testable.
type stereoVoice func(t float64, noise noiseFunc) (left, right float64)

var voices = map[Style]stereoVoice{
	StyleNone:   silentVoice,
	StyleCalm:   calmVoice,
	StyleUpbeat: upbeatVoice,
	StyleFocus:  focusVoice,
}

// Synthesizer renders procedural background beds. The zero value is not
// usable; construct with NewSynthesizer or NewSeededSynthesizer.
type Synthesizer struct {
	noise   noiseFunc
	fadeIn  float64
	fadeOut float64
}

// NewSynthesizer creates a synthesizer with a time-seeded noise source.
func NewSynthesizer() *Synthesizer {
	return NewSeededSynthesizer(time.Now().UnixNano())
}

// NewSeededSynthesizer creates a synthesizer with a deterministic noise
// source, used by tests that need reproducible output.
func NewSeededSynthesizer(seed int64) *Synthesizer {
	rng := rand.New(rand.NewSource(seed))
	return &Synthesizer{
		noise:   func() float64 { return rng.Float64()*2 - 1 },
		fadeIn:  DefaultFadeIn,
		fadeOut: DefaultFadeOut,
	}
}

// SetFades overrides the fade-in/fade-out windows in seconds.
func (s *Synthesizer) SetFades(fadeIn, fadeOut float64) {
	if fadeIn > 0 {
		s.fadeIn = fadeIn
	}
	if fadeOut > 0 {
		s.fadeOut = fadeOut
	}
}

// Render generates a two-channel bed of the given style and duration.
// StyleNone yields an all-zero buffer so downstream mixing needs no
// special case for silence.
func (s *Synthesizer) Render(style Style, durationSeconds float64, sampleRate int) (*audio.Buffer, error) {
	if durationSeconds <= 0 {
		return nil, fmt.Errorf("duration must be positive, got %f", durationSeconds)
	}
	if sampleRate <= 0 {
		return nil, fmt.Errorf("sample rate must be positive, got %d", sampleRate)
	}

	voice, ok := voices[style]
	if !ok {
		return nil, fmt.Errorf("unknown music style %q", style)
	}

	frames := int(math.Round(durationSeconds * float64(sampleRate)))
	buf := audio.NewBuffer(2, frames, sampleRate)
	if style == StyleNone {
		return buf, nil
	}

	for i := 0; i < frames; i++ {
		t := float64(i) / float64(sampleRate)
		l, r := voice(t, s.noise)
		env := s.envelope(t, durationSeconds)
		buf.Data[0][i] = l * env
		buf.Data[1][i] = r * env
	}
	return buf, nil
}

// envelope ramps linearly from zero over the fade-in window and back to
// zero over the final fade-out window, preventing clicks at the buffer
// boundaries. Clamped to be non-negative for durations shorter than the
// fade windows.
func (s *Synthesizer) envelope(t, duration float64) float64 {
	env := 1.0
	if in := t / s.fadeIn; in < env {
		env = in
	}
	if out := (duration - t) / s.fadeOut; out < env {
		env = out
	}
	if env < 0 {
		return 0
	}
	return env
}

func silentVoice(_ float64, _ noiseFunc) (float64, float64) {
	return 0, 0
}

// calmVoice cross-fades two detuned drones with a 0.2 Hz modulator: as
// the modulator rises, tone one leans left and tone two leans right. A
// touch of noise adds texture to each channel.
func calmVoice(t float64, noise noiseFunc) (float64, float64) {
	tone1 := math.Sin(2 * math.Pi * calmToneOneHz * t)
	tone2 := math.Sin(2 * math.Pi * calmToneTwoHz * t)
	mod := 0.5 + 0.5*math.Sin(2*math.Pi*calmModulatorHz*t)

	left := calmToneLevel * (tone1*mod + tone2*(1-mod))
	right := calmToneLevel * (tone1*(1-mod) + tone2*mod)

	left += calmNoiseLevel * noise()
	right += calmNoiseLevel * noise()
	return left, right
}

// upbeatVoice lays down a 120 BPM bed: a decaying 60 Hz kick at the top
// of each beat, a noise hat on each half-beat, and a two-tone chord
// gated at twice the beat rate with the gate inverted between channels
// for stereo movement. Kick and hat are identical on both channels.
func upbeatVoice(t float64, noise noiseFunc) (float64, float64) {
	beatPhase := math.Mod(t, upbeatBeatSeconds)

	var kick float64
	if beatPhase < upbeatKickWindow {
		kick = math.Sin(2*math.Pi*upbeatKickHz*beatPhase) * math.Exp(-upbeatKickDecay*beatPhase)
	}

	var hat float64
	if math.Mod(t, upbeatBeatSeconds/2) < upbeatHatWindow {
		hat = upbeatHatLevel * noise()
	}

	chord := math.Sin(2*math.Pi*upbeatChordOneHz*t) + math.Sin(2*math.Pi*upbeatChordTwoHz*t)
	gate := 0.0
	if math.Sin(2*math.Pi*t*2/upbeatBeatSeconds) > 0 {
		gate = 1.0
	}

	left := kick + hat + chord*gate*upbeatChordLevel
	right := kick + hat + chord*(1-gate)*upbeatChordLevel
	return left, right
}

// focusVoice plays near-identical pure tones per ear, a 4 Hz
// binaural-style difference.
func focusVoice(t float64, _ noiseFunc) (float64, float64) {
	left := focusToneLevel * math.Sin(2*math.Pi*focusLeftHz*t)
	right := focusToneLevel * math.Sin(2*math.Pi*focusRightHz*t)
	return left, right
}
