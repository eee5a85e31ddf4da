package pipeline

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/chambtai-sys/Daily-Briefing-AI/internal/audio"
	"github.com/chambtai-sys/Daily-Briefing-AI/internal/mixer"
	"github.com/chambtai-sys/Daily-Briefing-AI/internal/music"
	"github.com/chambtai-sys/Daily-Briefing-AI/internal/resource"
)

// ErrMissingAudio signals that the speech synthesis collaborator
// returned no usable payload. The pipeline does not proceed to
// synthesis or mixing.
var ErrMissingAudio = errors.New("no speech audio data provided")

// ErrMalformedAudio signals a payload that is not valid base64 PCM.
var ErrMalformedAudio = errors.New("malformed speech audio payload")

// Pipeline runs the four-stage briefing audio flow. Stages run in order
// within one call; each invocation allocates its own buffers, so
// concurrent calls are naturally isolated.
type Pipeline struct {
	logger          *slog.Logger
	store           *resource.Store
	renderer        *mixer.Renderer
	voiceSampleRate int
}

// Result describes a completed mix.
type Result struct {
	Resource        *resource.Resource
	Style           music.Style
	DurationSeconds float64
	Elapsed         time.Duration
}

// New creates a pipeline. voiceSampleRate is the rate of incoming TTS
// audio, fixed at 24 kHz by contract.
func New(logger *slog.Logger, store *resource.Store, renderer *mixer.Renderer, voiceSampleRate int) *Pipeline {
	if voiceSampleRate <= 0 {
		voiceSampleRate = audio.VoiceSampleRate
	}
	return &Pipeline{
		logger:          logger,
		store:           store,
		renderer:        renderer,
		voiceSampleRate: voiceSampleRate,
	}
}

// MixBriefing decodes base64 speech PCM, mixes it with a background bed
// of the requested style, encodes the result as WAV, and registers it in
// the store. With StyleNone the decoded bytes are wrapped directly into
// the container, preserving the voice bit-exactly and skipping the
// render entirely. On failure no resource is created.
func (p *Pipeline) MixBriefing(ctx context.Context, audioBase64 string, style music.Style, title string) (*Result, error) {
	start := time.Now()

	if audioBase64 == "" {
		return nil, ErrMissingAudio
	}

	raw, err := base64.StdEncoding.DecodeString(audioBase64)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedAudio, err)
	}
	if len(raw) < audio.BytesPerSample {
		return nil, ErrMissingAudio
	}

	var (
		encoded  []byte
		duration float64
	)

	if style == music.StyleNone {
		// Fast path: no stereo upmix or render cost, bit-exact voice.
		frames := len(raw) / audio.BytesPerSample
		raw = raw[:frames*audio.BytesPerSample]
		duration = float64(frames) / float64(p.voiceSampleRate)

		encoded, err = audio.EncodeWAVRaw(raw, p.voiceSampleRate, 1)
		if err != nil {
			return nil, fmt.Errorf("failed to encode voice audio: %w", err)
		}
	} else {
		voice, err := audio.DecodePCM16Bytes(raw, p.voiceSampleRate, 1)
		if err != nil {
			return nil, fmt.Errorf("failed to decode voice audio: %w", err)
		}
		if voice.Duration() <= 0 {
			return nil, ErrMissingAudio
		}

		mixed, err := p.renderer.Mix(ctx, voice, style)
		if err != nil {
			return nil, fmt.Errorf("render failed: %w", err)
		}
		duration = mixed.Duration()

		encoded, err = audio.EncodeWAV(mixed)
		if err != nil {
			return nil, fmt.Errorf("failed to encode mixed audio: %w", err)
		}
	}

	res := p.store.Create(encoded, audio.MimeTypeWAV, SuggestedFilename(title))
	elapsed := time.Since(start)

	p.logger.Info("briefing audio mixed",
		slog.String("resource_id", res.ID),
		slog.String("style", style.String()),
		slog.Float64("duration_seconds", duration),
		slog.Int("size_bytes", res.SizeBytes),
		slog.Duration("elapsed", elapsed),
	)

	return &Result{
		Resource:        res,
		Style:           style,
		DurationSeconds: duration,
		Elapsed:         elapsed,
	}, nil
}
