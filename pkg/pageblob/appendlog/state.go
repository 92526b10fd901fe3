// Package appendlog implements the user-facing append-log handle: a
// finite-state machine (Uninitialized / Reading / Writing / Corrupted)
// that owns the page window, picks the right framed stream, and
// mediates state transitions.
//
// Each arm is a tagged variant that owns its data and is moved from
// state to state rather than shared, following the convention of
// embedding/decorating one concrete implementation per concern rather
// than branching on a mode flag everywhere.
package appendlog

import "fmt"

// stateName identifies which arm of the state machine a Handle is
// currently in, for diagnostics and Forbidden error messages.
type stateName string

const (
	nameUninitialized stateName = "Uninitialized"
	nameReading       stateName = "Reading"
	nameWriting       stateName = "Writing"
	nameCorrupted     stateName = "Corrupted"
)

// handleState is implemented by each of the four state arms. Besides
// identifying itself, a state carries no exported behavior: all legal
// operations are exposed as methods on Handle, which type-switches to
// the concrete arm and performs the transition atomically (pull the
// old arm out, build the new one from its fields, swap it in).
type handleState interface {
	name() stateName
	fmt.Stringer
}

type uninitializedState struct{}

func (uninitializedState) name() stateName { return nameUninitialized }
func (s uninitializedState) String() string { return string(s.name()) }
