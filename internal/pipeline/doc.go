// Package pipeline orchestrates the briefing audio flow: decode speech
// PCM, synthesize the background bed, mix, and encode to WAV.
package pipeline
