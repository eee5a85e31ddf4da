// Package resource holds encoded briefing audio in memory until the
// owner releases it.
package resource
