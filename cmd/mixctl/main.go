// Command mixctl runs the briefing mix pipeline against a local file:
// it reads a speech PCM payload, mixes it with a chosen background bed,
// writes the resulting WAV, and can play it through the system output.
package main

import (
	"bytes"
	"context"
	"encoding/base64"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/hajimehoshi/oto/v2"

	"github.com/chambtai-sys/Daily-Briefing-AI/internal/audio"
	"github.com/chambtai-sys/Daily-Briefing-AI/internal/mixer"
	"github.com/chambtai-sys/Daily-Briefing-AI/internal/music"
	"github.com/chambtai-sys/Daily-Briefing-AI/internal/pipeline"
	"github.com/chambtai-sys/Daily-Briefing-AI/internal/resource"
)

func main() {
	var (
		inPath     = flag.String("in", "", "Input file: base64-encoded 24kHz mono 16-bit PCM (or raw PCM with -raw)")
		rawInput   = flag.Bool("raw", false, "Treat the input file as raw PCM bytes instead of base64")
		styleName  = flag.String("style", "none", "Music style: none, calm, upbeat, focus")
		title      = flag.String("title", "", "Briefing title, used to derive the output filename")
		outPath    = flag.String("out", "", "Output WAV path (default: filename derived from title)")
		play       = flag.Bool("play", false, "Play the mixed audio after writing it")
		renderRate = flag.Int("render-rate", mixer.DefaultRenderSampleRate, "Render target sample rate")
		musicGain  = flag.Float64("gain", mixer.DefaultMusicGain, "Music attenuation gain")
		seed       = flag.Int64("seed", 0, "Noise seed (0 = time-based)")
		verbose    = flag.Bool("v", false, "Verbose logging")
	)
	flag.Parse()

	if *inPath == "" {
		fmt.Fprintln(os.Stderr, "mixctl: -in is required")
		flag.Usage()
		os.Exit(2)
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	payload, err := os.ReadFile(*inPath)
	if err != nil {
		logger.Error("Failed to read input file", slog.String("error", err.Error()))
		os.Exit(1)
	}

	encoded := string(bytes.TrimSpace(payload))
	if *rawInput {
		encoded = base64.StdEncoding.EncodeToString(payload)
	}

	style, err := music.ParseStyle(*styleName)
	if err != nil {
		logger.Error("Invalid style", slog.String("error", err.Error()))
		os.Exit(2)
	}

	var synth *music.Synthesizer
	if *seed != 0 {
		synth = music.NewSeededSynthesizer(*seed)
	} else {
		synth = music.NewSynthesizer()
	}

	store := resource.NewStore()
	renderer := mixer.NewRenderer(logger, synth, *renderRate, *musicGain)
	pipe := pipeline.New(logger, store, renderer, audio.VoiceSampleRate)

	result, err := pipe.MixBriefing(context.Background(), encoded, style, *title)
	if err != nil {
		logger.Error("Mix failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	out := *outPath
	if out == "" {
		out = result.Resource.Filename
	}
	if err := os.WriteFile(out, result.Resource.Data, 0644); err != nil {
		logger.Error("Failed to write output", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("Wrote mixed briefing",
		slog.String("path", out),
		slog.String("style", style.String()),
		slog.Float64("duration_seconds", result.DurationSeconds),
		slog.Int("size_bytes", result.Resource.SizeBytes),
	)

	if *play {
		if err := playWAV(result.Resource.Data); err != nil {
			logger.Error("Playback failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	store.Release(result.Resource.ID)
}

// playWAV plays an encoded WAV file through the default audio device and
// blocks until playback finishes.
func playWAV(data []byte) error {
	info, err := audio.GetWAVInfo(data)
	if err != nil {
		return err
	}

	ctx, ready, err := oto.NewContext(int(info.SampleRate), int(info.Channels), audio.BytesPerSample)
	if err != nil {
		return fmt.Errorf("failed to open audio device: %w", err)
	}
	<-ready

	// The data chunk starts right after the 44-byte header.
	player := ctx.NewPlayer(bytes.NewReader(data[44:]))
	player.Play()
	for player.IsPlaying() {
		time.Sleep(10 * time.Millisecond)
	}
	return player.Close()
}
