package mixer

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/chambtai-sys/Daily-Briefing-AI/internal/audio"
	"github.com/chambtai-sys/Daily-Briefing-AI/internal/music"
)

const (
	// DefaultRenderSampleRate is the offline render target rate.
	DefaultRenderSampleRate = 44100

	// DefaultMusicGain attenuates the music path relative to the voice.
	DefaultMusicGain = 0.6
)

// Renderer performs the offline mix of a voice buffer with a synthesized
// background bed. The voice is upsampled to the render target rate and
// routed to both channels; the music is attenuated and summed in. No
// limiter is applied beyond the per-style amplitude levels; if both
// paths clip together the encoder clamp saturates.
type Renderer struct {
	logger     *slog.Logger
	synth      *music.Synthesizer
	sampleRate int
	musicGain  float64
}

// NewRenderer creates a renderer targeting the given sample rate.
func NewRenderer(logger *slog.Logger, synth *music.Synthesizer, sampleRate int, musicGain float64) *Renderer {
	if sampleRate <= 0 {
		sampleRate = DefaultRenderSampleRate
	}
	if musicGain <= 0 {
		musicGain = DefaultMusicGain
	}
	return &Renderer{
		logger:     logger,
		synth:      synth,
		sampleRate: sampleRate,
		musicGain:  musicGain,
	}
}

// SampleRate returns the render target sample rate.
func (r *Renderer) SampleRate() int {
	return r.sampleRate
}

// Mix renders the voice buffer together with a bed of the given style.
// The output duration equals the voice duration exactly; music is
// generated to match and never extends or truncates the result. The
// render runs offline to completion before returning.
func (r *Renderer) Mix(ctx context.Context, voice *audio.Buffer, style music.Style) (*audio.Buffer, error) {
	if voice == nil || voice.Frames() == 0 || voice.Duration() <= 0 {
		return nil, fmt.Errorf("voice buffer is empty or has non-positive duration")
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("render cancelled before start: %w", err)
	}

	duration := voice.Duration()
	frames := int(math.Round(duration * float64(r.sampleRate)))

	bed, err := r.synth.Render(style, duration, r.sampleRate)
	if err != nil {
		return nil, fmt.Errorf("music synthesis failed: %w", err)
	}

	out := audio.NewBuffer(2, frames, r.sampleRate)
	for c := 0; c < 2; c++ {
		// Mono voice is routed to both channels.
		src := voice.Data[0]
		if voice.NumChannels() > c {
			src = voice.Data[c]
		}
		upsampleInto(out.Data[c], src, voice.SampleRate, r.sampleRate)

		n := frames
		if bed.Frames() < n {
			n = bed.Frames()
		}
		for i := 0; i < n; i++ {
			out.Data[c][i] += r.musicGain * bed.Data[c][i]
		}
	}

	r.logger.Debug("render complete",
		slog.String("style", style.String()),
		slog.Float64("duration_seconds", duration),
		slog.Int("render_sample_rate", r.sampleRate),
		slog.Int("frames", frames),
	)
	return out, nil
}

// upsampleInto resamples src into dst by linear interpolation. dst is
// expected to be at the higher rate; positions past the final source
// sample hold its value.
func upsampleInto(dst, src []float64, srcRate, dstRate int) {
	if len(src) == 0 {
		return
	}
	step := float64(srcRate) / float64(dstRate)
	for i := range dst {
		pos := float64(i) * step
		j := int(pos)
		if j >= len(src)-1 {
			dst[i] = src[len(src)-1]
			continue
		}
		frac := pos - float64(j)
		dst[i] = src[j]*(1-frac) + src[j+1]*frac
	}
}
