// Package export turns reconstructed fields into files: 8-bit PNG renders
// of a chosen plane and raw half-precision dumps for later analysis.
package export
