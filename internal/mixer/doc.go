// Package mixer renders voice and background-music buffers into a single
// stereo buffer at the render target sample rate.
package mixer
