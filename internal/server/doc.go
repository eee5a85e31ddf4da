// Package server exposes the briefing audio pipeline over HTTP.
package server
