package audio

import (
	"bytes"
	"math"
	"testing"
)

func TestEncodeWAV(t *testing.T) {
	// 440Hz sine wave for 0.1 seconds at 8kHz, stereo.
	sampleRate := 8000
	frames := 800

	buf := NewBuffer(2, frames, sampleRate)
	for i := 0; i < frames; i++ {
		v := 0.5 * math.Sin(2*math.Pi*440*float64(i)/float64(sampleRate))
		buf.Data[0][i] = v
		buf.Data[1][i] = -v
	}

	wavData, err := EncodeWAV(buf)
	if err != nil {
		t.Fatalf("EncodeWAV failed: %v", err)
	}

	expectedSize := 44 + frames*2*BytesPerSample
	if len(wavData) != expectedSize {
		t.Errorf("Expected WAV size %d, got %d", expectedSize, len(wavData))
	}

	if err := ValidateWAV(wavData); err != nil {
		t.Errorf("Generated WAV is invalid: %v", err)
	}

	info, err := GetWAVInfo(wavData)
	if err != nil {
		t.Fatalf("Failed to get WAV info: %v", err)
	}

	if info.SampleRate != uint32(sampleRate) {
		t.Errorf("Expected sample rate %d, got %d", sampleRate, info.SampleRate)
	}
	if info.Channels != 2 {
		t.Errorf("Expected 2 channels, got %d", info.Channels)
	}
	if info.BitsPerSample != 16 {
		t.Errorf("Expected 16 bits per sample, got %d", info.BitsPerSample)
	}

	expectedDuration := float64(frames) / float64(sampleRate)
	if math.Abs(info.Duration-expectedDuration) > 0.001 {
		t.Errorf("Expected duration %.3f, got %.3f", expectedDuration, info.Duration)
	}
}

func TestEncodeWAVRawBitExact(t *testing.T) {
	pcm := int16LE(100, -200, 300, -400, 32767, -32768)

	wavData, err := EncodeWAVRaw(pcm, 24000, 1)
	if err != nil {
		t.Fatalf("EncodeWAVRaw failed: %v", err)
	}

	if !bytes.Equal(wavData[44:], pcm) {
		t.Error("Direct-path data chunk does not match the original PCM bytes")
	}

	info, err := GetWAVInfo(wavData)
	if err != nil {
		t.Fatalf("Failed to get WAV info: %v", err)
	}
	if info.Channels != 1 || info.SampleRate != 24000 {
		t.Errorf("Unexpected header: channels=%d rate=%d", info.Channels, info.SampleRate)
	}
}

func TestQuantizeSample(t *testing.T) {
	tests := []struct {
		name  string
		value float64
		want  int16
	}{
		{"negative full scale", -1.0, -32768},
		{"positive full scale", 1.0, 32767},
		{"zero", 0.0, 0},
		{"negative half", -0.5, -16384},
		{"clamp below", -2.0, -32768},
		{"clamp above", 2.0, 32767},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := QuantizeSample(tt.value); got != tt.want {
				t.Errorf("QuantizeSample(%v) = %d, want %d", tt.value, got, tt.want)
			}
		})
	}
}

func TestEncodeDecodeInverse(t *testing.T) {
	// decode(encode(s)) must land within one quantization step of s.
	// The positive branch scales by 32767 on encode and 32768 on decode,
	// so allow the extra step that mismatch introduces.
	samples := []float64{-1.0, -0.75, -1.0 / 32768, 0, 1.0 / 32768, 0.25, 0.999, 1.0}
	tolerance := 2.0 / 32768

	for _, s := range samples {
		q := QuantizeSample(s)
		back := float64(q) / 32768.0
		if math.Abs(back-s) > tolerance {
			t.Errorf("Round trip of %v gave %v (diff %v)", s, back, math.Abs(back-s))
		}
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	sampleRate := 24000
	frames := 240
	buf := NewBuffer(2, frames, sampleRate)
	for i := 0; i < frames; i++ {
		buf.Data[0][i] = 0.3 * math.Sin(2*math.Pi*220*float64(i)/float64(sampleRate))
		buf.Data[1][i] = 0.3 * math.Cos(2*math.Pi*220*float64(i)/float64(sampleRate))
	}

	wavData, err := EncodeWAV(buf)
	if err != nil {
		t.Fatalf("EncodeWAV failed: %v", err)
	}

	decoded, err := DecodeWAV(wavData)
	if err != nil {
		t.Fatalf("DecodeWAV failed: %v", err)
	}

	if decoded.NumChannels() != 2 || decoded.Frames() != frames {
		t.Fatalf("Unexpected shape: channels=%d frames=%d", decoded.NumChannels(), decoded.Frames())
	}
	if decoded.SampleRate != sampleRate {
		t.Errorf("Expected sample rate %d, got %d", sampleRate, decoded.SampleRate)
	}

	for c := 0; c < 2; c++ {
		for i := 0; i < frames; i++ {
			if math.Abs(decoded.Data[c][i]-buf.Data[c][i]) > 2.0/32768 {
				t.Fatalf("Channel %d sample %d drifted: %v vs %v", c, i, decoded.Data[c][i], buf.Data[c][i])
			}
		}
	}
}

func TestEncodeWAVEmpty(t *testing.T) {
	if _, err := EncodeWAV(&Buffer{SampleRate: 8000}); err == nil {
		t.Error("Expected error for empty buffer")
	}
	if _, err := EncodeWAVRaw(nil, 8000, 1); err == nil {
		t.Error("Expected error for empty raw data")
	}
}

func TestEncodeWAVInvalidSampleRate(t *testing.T) {
	buf := NewBuffer(1, 10, 0)
	if _, err := EncodeWAV(buf); err == nil {
		t.Error("Expected error for zero sample rate")
	}
}

func TestValidateWAV(t *testing.T) {
	if err := ValidateWAV([]byte{1, 2, 3}); err == nil {
		t.Error("Expected error for too short WAV data")
	}

	invalidWAV := make([]byte, 50)
	copy(invalidWAV[0:4], []byte("FAKE"))
	if err := ValidateWAV(invalidWAV); err == nil {
		t.Error("Expected error for invalid RIFF header")
	}
}

func TestGetWAVDuration(t *testing.T) {
	sampleRate := 8000
	buf := NewBuffer(2, sampleRate, sampleRate) // 1 second, stereo
	for i := range buf.Data[0] {
		buf.Data[0][i] = 0.1
		buf.Data[1][i] = -0.1
	}

	wavData, err := EncodeWAV(buf)
	if err != nil {
		t.Fatalf("EncodeWAV failed: %v", err)
	}

	duration, err := GetWAVDuration(wavData)
	if err != nil {
		t.Fatalf("GetWAVDuration failed: %v", err)
	}

	if math.Abs(duration-1.0) > 0.001 {
		t.Errorf("Expected duration 1.000, got %.3f", duration)
	}
}
