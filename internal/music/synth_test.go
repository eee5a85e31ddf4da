package music

import (
	"math"
	"testing"
)

func TestParseStyle(t *testing.T) {
	tests := []struct {
		input   string
		want    Style
		wantErr bool
	}{
		{"none", StyleNone, false},
		{"calm", StyleCalm, false},
		{"upbeat", StyleUpbeat, false},
		{"focus", StyleFocus, false},
		{"", StyleNone, false},
		{"jazz", "", true},
	}

	for _, tt := range tests {
		got, err := ParseStyle(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseStyle(%q): expected error", tt.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseStyle(%q) failed: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseStyle(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestRenderNoneIsSilent(t *testing.T) {
	s := NewSeededSynthesizer(1)

	for _, d := range []float64{0.1, 1.0, 7.3} {
		buf, err := s.Render(StyleNone, d, 24000)
		if err != nil {
			t.Fatalf("Render failed for duration %v: %v", d, err)
		}
		if buf.NumChannels() != 2 {
			t.Fatalf("Expected 2 channels, got %d", buf.NumChannels())
		}
		for c := 0; c < 2; c++ {
			for i, v := range buf.Data[c] {
				if v != 0 {
					t.Fatalf("Duration %v channel %d sample %d is %v, want 0", d, c, i, v)
				}
			}
		}
	}
}

func TestRenderFrameCount(t *testing.T) {
	s := NewSeededSynthesizer(1)

	buf, err := s.Render(StyleFocus, 1.0, 44100)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if buf.Frames() != 44100 {
		t.Errorf("Expected 44100 frames, got %d", buf.Frames())
	}
	if buf.SampleRate != 44100 {
		t.Errorf("Expected sample rate 44100, got %d", buf.SampleRate)
	}
}

func TestRenderInvalidArgs(t *testing.T) {
	s := NewSeededSynthesizer(1)

	if _, err := s.Render(StyleCalm, 0, 24000); err == nil {
		t.Error("Expected error for zero duration")
	}
	if _, err := s.Render(StyleCalm, -1, 24000); err == nil {
		t.Error("Expected error for negative duration")
	}
	if _, err := s.Render(StyleCalm, 1.0, 0); err == nil {
		t.Error("Expected error for zero sample rate")
	}
	if _, err := s.Render(Style("jazz"), 1.0, 24000); err == nil {
		t.Error("Expected error for unknown style")
	}
}

// windowPeak returns the maximum absolute sample in [start, end) seconds.
func windowPeak(data []float64, sampleRate int, start, end float64) float64 {
	lo := int(start * float64(sampleRate))
	hi := int(end * float64(sampleRate))
	if hi > len(data) {
		hi = len(data)
	}
	peak := 0.0
	for i := lo; i < hi; i++ {
		if v := math.Abs(data[i]); v > peak {
			peak = v
		}
	}
	return peak
}

func TestEnvelopeBoundaries(t *testing.T) {
	s := NewSeededSynthesizer(1)
	sampleRate := 8000
	duration := 3.0

	for _, style := range []Style{StyleCalm, StyleUpbeat, StyleFocus} {
		buf, err := s.Render(style, duration, sampleRate)
		if err != nil {
			t.Fatalf("Render %v failed: %v", style, err)
		}

		for c := 0; c < 2; c++ {
			if v := math.Abs(buf.Data[c][0]); v > 1e-9 {
				t.Errorf("%v channel %d: amplitude at t=0 is %v, want 0", style, c, v)
			}
			last := math.Abs(buf.Data[c][buf.Frames()-1])
			if last > 1e-3 {
				t.Errorf("%v channel %d: amplitude at t=duration is %v, want ~0", style, c, last)
			}
		}
	}
}

func TestEnvelopeRampMonotonic(t *testing.T) {
	// Focus has no noise term, so per-window peaks track the envelope:
	// the 200 Hz tone completes ten full cycles per 50ms window.
	s := NewSeededSynthesizer(1)
	sampleRate := 8000
	duration := 4.0

	buf, err := s.Render(StyleFocus, duration, sampleRate)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	// Rising over the first 0.5s.
	prev := -1.0
	for start := 0.0; start < 0.5; start += 0.05 {
		peak := windowPeak(buf.Data[0], sampleRate, start, start+0.05)
		if peak < prev-1e-6 {
			t.Fatalf("Fade-in not monotonic: window at %.2fs peaked %v after %v", start, peak, prev)
		}
		prev = peak
	}

	// Full amplitude by t=0.5.
	full := windowPeak(buf.Data[0], sampleRate, 0.5, 1.0)
	if math.Abs(full-0.1) > 0.01 {
		t.Errorf("Expected full amplitude ~0.1 after fade-in, got %v", full)
	}

	// Falling over the final 1.5s.
	prev = math.Inf(1)
	for start := duration - 1.5; start < duration-0.1; start += 0.1 {
		peak := windowPeak(buf.Data[0], sampleRate, start, start+0.1)
		if peak > prev+1e-6 {
			t.Fatalf("Fade-out not monotonic: window at %.2fs peaked %v after %v", start, peak, prev)
		}
		prev = peak
	}
}

func TestUpbeatKickPeriodicity(t *testing.T) {
	// 120 BPM: a kick transient should top every 0.5s beat, far louder
	// than the chord-only stretch later in the same beat.
	s := NewSeededSynthesizer(1)
	sampleRate := 8000

	buf, err := s.Render(StyleUpbeat, 3.0, sampleRate)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	for _, beatStart := range []float64{0.5, 1.0} {
		kick := windowPeak(buf.Data[0], sampleRate, beatStart, beatStart+0.05)
		quiet := windowPeak(buf.Data[0], sampleRate, beatStart+0.35, beatStart+0.45)
		if kick < 5*quiet {
			t.Errorf("No kick transient at %.1fs: peak %v vs off-beat %v", beatStart, kick, quiet)
		}
	}
}

func TestFocusChannelsDiffer(t *testing.T) {
	// 200 Hz left vs 204 Hz right drift out of phase, so the channels
	// must diverge away from the fade edges.
	s := NewSeededSynthesizer(1)
	sampleRate := 8000

	buf, err := s.Render(StyleFocus, 3.0, sampleRate)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	maxDiff := 0.0
	for i := sampleRate / 2; i < sampleRate; i++ {
		if d := math.Abs(buf.Data[0][i] - buf.Data[1][i]); d > maxDiff {
			maxDiff = d
		}
	}
	if maxDiff < 0.01 {
		t.Errorf("Focus channels nearly identical (max diff %v), expected binaural divergence", maxDiff)
	}
}

func TestRenderDeterministicWithSeed(t *testing.T) {
	a, err := NewSeededSynthesizer(42).Render(StyleCalm, 1.0, 8000)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	b, err := NewSeededSynthesizer(42).Render(StyleCalm, 1.0, 8000)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	for c := 0; c < 2; c++ {
		for i := range a.Data[c] {
			if a.Data[c][i] != b.Data[c][i] {
				t.Fatalf("Same seed diverged at channel %d sample %d", c, i)
			}
		}
	}
}
