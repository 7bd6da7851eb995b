// Package services holds the shared error taxonomy for disc processing.
//
// Every failure raised while handling a disc is tagged with one of the
// exported sentinel errors so the state machine can decide whether to eject,
// degrade to a fallback identity, or surface the problem to the operator.
// All of them are local to a single disc; none should terminate the daemon.
package services
