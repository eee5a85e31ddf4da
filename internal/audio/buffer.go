package audio

import (
	"encoding/base64"
	"fmt"
)

const (
	// BytesPerSample is fixed at 2 for 16-bit PCM.
	BytesPerSample = 2

	// VoiceSampleRate is the sample rate the TTS collaborator delivers.
	VoiceSampleRate = 24000
)

// Buffer is the canonical in-memory audio representation: one float64
// slice per channel, all of equal length, samples normalized to [-1, 1].
type Buffer struct {
	SampleRate int
	Data       [][]float64
}

// NewBuffer allocates a zeroed buffer with the given shape.
func NewBuffer(channels, frames, sampleRate int) *Buffer {
	data := make([][]float64, channels)
	for c := range data {
		data[c] = make([]float64, frames)
	}
	return &Buffer{SampleRate: sampleRate, Data: data}
}

// NumChannels returns the channel count.
func (b *Buffer) NumChannels() int {
	return len(b.Data)
}

// Frames returns the per-channel sample count.
func (b *Buffer) Frames() int {
	if len(b.Data) == 0 {
		return 0
	}
	return len(b.Data[0])
}

// Duration returns the buffer length in seconds.
func (b *Buffer) Duration() float64 {
	if b.SampleRate <= 0 {
		return 0
	}
	return float64(b.Frames()) / float64(b.SampleRate)
}

// DecodePCM16 converts a base64 string of interleaved little-endian
// 16-bit PCM samples into a normalized float buffer.
func DecodePCM16(encoded string, sampleRate, numChannels int) (*Buffer, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64 audio payload: %w", err)
	}
	return DecodePCM16Bytes(raw, sampleRate, numChannels)
}

// DecodePCM16Bytes converts interleaved little-endian 16-bit PCM bytes
// into a normalized float buffer. A trailing partial frame is silently
// dropped; callers are expected to supply well-formed payloads.
func DecodePCM16Bytes(raw []byte, sampleRate, numChannels int) (*Buffer, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("sample rate must be positive, got %d", sampleRate)
	}
	if numChannels < 1 {
		return nil, fmt.Errorf("channel count must be at least 1, got %d", numChannels)
	}

	sampleCount := len(raw) / BytesPerSample
	frames := sampleCount / numChannels

	buf := NewBuffer(numChannels, frames, sampleRate)
	for i := 0; i < frames; i++ {
		for c := 0; c < numChannels; c++ {
			off := (i*numChannels + c) * BytesPerSample
			s := int16(raw[off]) | int16(raw[off+1])<<8
			// -32768 maps to -1.0 and 32767 to 0.999969..., the standard
			// PCM normalization rather than a symmetric clip.
			buf.Data[c][i] = float64(s) / 32768.0
		}
	}
	return buf, nil
}
