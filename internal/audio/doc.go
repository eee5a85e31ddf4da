// Package audio provides PCM decoding, the normalized float buffer type,
// and WAV container serialization.
package audio
