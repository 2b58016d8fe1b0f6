// Package stages provides the built-in reconstruction participants.
//
// Default priorities, highest first, within the stages they handle:
//
//	Hologram         ReferenceRemoval 100
//	FilteredField    SpectralFilter 100, Propagation 0
//	PropagatedField  Propagation 100, TiltCorrection 50, Autofocus -50,
//	                 Collector -100, Progress -1000
package stages
