// Package pipeline runs a hologram reconstruction as a fixed sequence of
// stages over a set of independently pluggable participants.
//
// A participant declares the stages it handles by implementing the matching
// capability interfaces (HologramHandler, PropagatedFieldHandler, ...). It
// may declare a priority per stage, discover its siblings once per run
// through a Registry, and abort the run by returning an error. Runs are
// all-or-nothing: the first error stops every later participant, stage and
// loop iteration.
package pipeline
