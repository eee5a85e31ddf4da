// Package music synthesizes procedural background beds for briefing audio.
package music
