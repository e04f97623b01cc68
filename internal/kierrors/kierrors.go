// Package kierrors collects the sentinel error kinds the editing core
// distinguishes (spec §7), so that every package reports failures the
// same callers can classify with errors.Is rather than inventing its own
// ad-hoc error strings. Mirrors the way the teacher lineage centralizes
// sentinels in internal/engine/errors.go and internal/dispatcher/errors.go,
// collapsed into one package since the core's failure taxonomy is shared
// across many small packages rather than owned by one engine.
package kierrors

import "errors"

// Error kinds distinguished by the editing core (spec §7).
var (
	// ErrEditOutOfRange is returned when a transaction's pre-edit range
	// exceeds buffer bounds. The whole transaction is rejected.
	ErrEditOutOfRange = errors.New("edit out of range")

	// ErrRaiseWouldBreakSyntax is returned when raising a node would
	// introduce a parse error at the raised site.
	ErrRaiseWouldBreakSyntax = errors.New("raise would break syntax")

	// ErrNoMatchingNode is returned by syntax/selection-mode queries that
	// find no structural node satisfying the request.
	ErrNoMatchingNode = errors.New("no matching node")

	// ErrNoMoreSelection is a soft movement failure: no candidate exists
	// in the requested direction. State is left unchanged.
	ErrNoMoreSelection = errors.New("no more selection")

	// ErrInvalidSelectionSet is returned when a selection set fails its
	// structural invariants (spec §3).
	ErrInvalidSelectionSet = errors.New("invalid selection set")

	// ErrSearchCompileError is returned when a Find search configuration
	// fails to compile (bad regex, bad glob, ...).
	ErrSearchCompileError = errors.New("search configuration failed to compile")

	// ErrBufferNotFound is returned when a dispatch targets a buffer id
	// the App does not know about.
	ErrBufferNotFound = errors.New("buffer not found")

	// ErrHostProtocolMismatch is returned when a host bridge envelope
	// fails to decode into any known message shape.
	ErrHostProtocolMismatch = errors.New("host protocol mismatch")

	// ErrBridgeTimeout is returned when an outbound collaborator request
	// (LSP, host bridge) exceeds its configured timeout.
	ErrBridgeTimeout = errors.New("bridge request timed out")

	// ErrChecksumMismatch is returned when host-reported keyboard input
	// fails to checksum against the core's view of the buffer, forcing a
	// resync before the key is consumed.
	ErrChecksumMismatch = errors.New("checksum mismatch")
)
