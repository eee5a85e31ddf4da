package audio

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// MimeTypeWAV is the MIME designation for encoded output.
const MimeTypeWAV = "audio/wav"

// WAVHeader represents the 44-byte header of a canonical PCM WAV file.
type WAVHeader struct {
	ChunkID       [4]byte // "RIFF"
	ChunkSize     uint32  // File size - 8 bytes
	Format        [4]byte // "WAVE"
	Subchunk1ID   [4]byte // "fmt "
	Subchunk1Size uint32  // 16 for PCM
	AudioFormat   uint16  // 1 for PCM
	NumChannels   uint16  // Number of channels
	SampleRate    uint32  // Sample rate
	ByteRate      uint32  // SampleRate * NumChannels * BitsPerSample / 8
	BlockAlign    uint16  // NumChannels * BitsPerSample / 8
	BitsPerSample uint16  // Bits per sample
	Subchunk2ID   [4]byte // "data"
	Subchunk2Size uint32  // Number of bytes in the data
}

func newWAVHeader(dataSize uint32, sampleRate, channels int) WAVHeader {
	numChannels := uint16(channels)
	bitsPerSample := uint16(16)
	return WAVHeader{
		ChunkID:       [4]byte{'R', 'I', 'F', 'F'},
		ChunkSize:     36 + dataSize,
		Format:        [4]byte{'W', 'A', 'V', 'E'},
		Subchunk1ID:   [4]byte{'f', 'm', 't', ' '},
		Subchunk1Size: 16,
		AudioFormat:   1, // PCM
		NumChannels:   numChannels,
		SampleRate:    uint32(sampleRate),
		ByteRate:      uint32(sampleRate) * uint32(numChannels) * uint32(bitsPerSample) / 8,
		BlockAlign:    numChannels * bitsPerSample / 8,
		BitsPerSample: bitsPerSample,
		Subchunk2ID:   [4]byte{'d', 'a', 't', 'a'},
		Subchunk2Size: dataSize,
	}
}

// QuantizeSample converts a normalized float sample to int16. The scale
// factor is asymmetric: 32768 for the negative branch (the exact inverse
// of decoding) and 32767 for the positive branch (max-positive
// convention). Input is clamped to [-1, 1] first, so summed paths that
// clip together simply saturate here.
func QuantizeSample(v float64) int16 {
	if v < -1 {
		v = -1
	} else if v > 1 {
		v = 1
	}
	if v < 0 {
		return int16(v * 32768)
	}
	return int16(v * 32767)
}

// EncodeWAV serializes a float buffer into a PCM WAV file, interleaving
// channels frame-by-frame and quantizing each sample to 16 bits.
func EncodeWAV(b *Buffer) ([]byte, error) {
	if b == nil || b.NumChannels() == 0 || b.Frames() == 0 {
		return nil, fmt.Errorf("cannot encode empty audio buffer")
	}
	if b.SampleRate <= 0 {
		return nil, fmt.Errorf("sample rate must be positive, got %d", b.SampleRate)
	}

	channels := b.NumChannels()
	frames := b.Frames()
	samples := make([]int16, frames*channels)
	for i := 0; i < frames; i++ {
		for c := 0; c < channels; c++ {
			samples[i*channels+c] = QuantizeSample(b.Data[c][i])
		}
	}

	dataSize := uint32(len(samples) * BytesPerSample)
	header := newWAVHeader(dataSize, b.SampleRate, channels)

	buf := bytes.NewBuffer(make([]byte, 0, 44+len(samples)*BytesPerSample))
	if err := binary.Write(buf, binary.LittleEndian, header); err != nil {
		return nil, fmt.Errorf("failed to write WAV header: %w", err)
	}
	if err := binary.Write(buf, binary.LittleEndian, samples); err != nil {
		return nil, fmt.Errorf("failed to write audio data: %w", err)
	}
	return buf.Bytes(), nil
}

// EncodeWAVRaw wraps already-quantized PCM bytes in a WAV container
// without passing through the float pipeline. This is the no-music fast
// path: the voice bytes survive bit-exact.
func EncodeWAVRaw(pcm []byte, sampleRate, channels int) ([]byte, error) {
	if len(pcm) == 0 {
		return nil, fmt.Errorf("cannot encode empty audio data")
	}
	if sampleRate <= 0 {
		return nil, fmt.Errorf("sample rate must be positive, got %d", sampleRate)
	}
	if channels < 1 {
		return nil, fmt.Errorf("channel count must be at least 1, got %d", channels)
	}

	header := newWAVHeader(uint32(len(pcm)), sampleRate, channels)

	buf := bytes.NewBuffer(make([]byte, 0, 44+len(pcm)))
	if err := binary.Write(buf, binary.LittleEndian, header); err != nil {
		return nil, fmt.Errorf("failed to write WAV header: %w", err)
	}
	if _, err := buf.Write(pcm); err != nil {
		return nil, fmt.Errorf("failed to write audio data: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeWAV decodes a 16-bit PCM WAV file back into a float buffer.
func DecodeWAV(data []byte) (*Buffer, error) {
	if err := ValidateWAV(data); err != nil {
		return nil, err
	}

	buf := bytes.NewReader(data)
	var header WAVHeader
	if err := binary.Read(buf, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("failed to read WAV header: %w", err)
	}

	if header.AudioFormat != 1 {
		return nil, fmt.Errorf("unsupported audio format: %d (only PCM is supported)", header.AudioFormat)
	}
	if header.BitsPerSample != 16 {
		return nil, fmt.Errorf("unsupported bit depth: %d (only 16-bit is supported)", header.BitsPerSample)
	}
	if header.NumChannels < 1 {
		return nil, fmt.Errorf("invalid channel count: %d", header.NumChannels)
	}

	numSamples := int(header.Subchunk2Size) / BytesPerSample
	if numSamples <= 0 {
		return nil, fmt.Errorf("no audio data found")
	}

	samples := make([]int16, numSamples)
	if err := binary.Read(buf, binary.LittleEndian, samples); err != nil {
		return nil, fmt.Errorf("failed to read audio samples: %w", err)
	}

	channels := int(header.NumChannels)
	frames := numSamples / channels
	out := NewBuffer(channels, frames, int(header.SampleRate))
	for i := 0; i < frames; i++ {
		for c := 0; c < channels; c++ {
			out.Data[c][i] = float64(samples[i*channels+c]) / 32768.0
		}
	}
	return out, nil
}

// ValidateWAV checks the container structure without decoding the audio data.
func ValidateWAV(data []byte) error {
	if len(data) < 44 {
		return fmt.Errorf("WAV data too short: need at least 44 bytes, got %d", len(data))
	}
	if string(data[0:4]) != "RIFF" {
		return fmt.Errorf("invalid WAV file: missing RIFF header")
	}
	if string(data[8:12]) != "WAVE" {
		return fmt.Errorf("invalid WAV file: missing WAVE format")
	}
	if string(data[12:16]) != "fmt " {
		return fmt.Errorf("invalid WAV file: missing fmt chunk")
	}
	if string(data[36:40]) != "data" {
		return fmt.Errorf("invalid WAV file: missing data chunk")
	}
	return nil
}

// GetWAVDuration calculates the duration of a WAV file in seconds.
func GetWAVDuration(data []byte) (float64, error) {
	if err := ValidateWAV(data); err != nil {
		return 0, err
	}

	sampleRate := binary.LittleEndian.Uint32(data[24:28])
	if sampleRate == 0 {
		return 0, fmt.Errorf("invalid sample rate: 0")
	}
	channels := binary.LittleEndian.Uint16(data[22:24])
	if channels == 0 {
		return 0, fmt.Errorf("invalid channel count: 0")
	}

	dataSize := binary.LittleEndian.Uint32(data[40:44])
	frames := dataSize / BytesPerSample / uint32(channels)
	return float64(frames) / float64(sampleRate), nil
}

// WAVInfo holds basic metadata extracted from a WAV file.
type WAVInfo struct {
	SampleRate    uint32  `json:"sample_rate"`
	Channels      uint16  `json:"channels"`
	BitsPerSample uint16  `json:"bits_per_sample"`
	Duration      float64 `json:"duration_seconds"`
	DataSize      uint32  `json:"data_size_bytes"`
	NumFrames     uint32  `json:"num_frames"`
}

// GetWAVInfo extracts metadata from a WAV file.
func GetWAVInfo(data []byte) (*WAVInfo, error) {
	if err := ValidateWAV(data); err != nil {
		return nil, err
	}

	buf := bytes.NewReader(data)
	var header WAVHeader
	if err := binary.Read(buf, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("failed to read WAV header: %w", err)
	}
	if header.NumChannels == 0 || header.BitsPerSample == 0 || header.SampleRate == 0 {
		return nil, fmt.Errorf("invalid WAV header fields")
	}

	frames := header.Subchunk2Size / (uint32(header.BitsPerSample) / 8) / uint32(header.NumChannels)
	return &WAVInfo{
		SampleRate:    header.SampleRate,
		Channels:      header.NumChannels,
		BitsPerSample: header.BitsPerSample,
		Duration:      float64(frames) / float64(header.SampleRate),
		DataSize:      header.Subchunk2Size,
		NumFrames:     frames,
	}, nil
}
