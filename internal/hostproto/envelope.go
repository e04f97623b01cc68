// Package hostproto implements the bidirectional host bridge protocol
// (spec §6): the tagged-union wire format a VS Code/JetBrains embedding
// (or any other host) speaks to drive the editing core, plus the
// UTF-16 boundary conversion every position on the wire needs.
package hostproto

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
)

// Kind tags the inner message of an Envelope.
type Kind string

// Inbound message kinds (host -> core).
const (
	KindBufferOpen        Kind = "BufferOpen"
	KindBufferChange      Kind = "BufferChange"
	KindBufferActive      Kind = "BufferActive"
	KindSyncBufferResp    Kind = "SyncBufferResponse"
	KindSelectionSet      Kind = "SelectionSet"
	KindKeyboardInput     Kind = "KeyboardInput"
	KindViewportChange    Kind = "ViewportChange"
	KindDiagnosticsChange Kind = "DiagnosticsChange"
	KindPromptEnter       Kind = "PromptEnter"
	KindPing              Kind = "Ping"
)

// Outbound message kinds (core -> host).
const (
	KindBufferDiff         Kind = "BufferDiff"
	KindBufferSave         Kind = "BufferSave"
	KindSelectionUpdate    Kind = "SelectionUpdate"
	KindModeChange         Kind = "ModeChange"
	KindSelectionModeChange Kind = "SelectionModeChange"
	KindRequestLsp         Kind = "RequestLsp"
	KindShowInfo           Kind = "ShowInfo"
	KindJumpsChanged       Kind = "JumpsChanged"
	KindMarksChanged       Kind = "MarksChanged"
	KindSyncBufferRequest  Kind = "SyncBufferRequest"
)

// Envelope is the wire frame every message travels in (spec §6: "Each
// envelope carries {id, message}; id = 0 is an event (no reply),
// non-zero is a request expecting a matching reply with the same id").
type Envelope struct {
	ID      int64           `json:"id"`
	Message json.RawMessage `json:"message"`
}

// IsEvent reports whether this envelope expects no reply.
func (e Envelope) IsEvent() bool { return e.ID == 0 }

// MessageKind reads the inner message's "kind" tag via gjson without a
// full struct decode — used to dispatch on the tag before committing to
// unmarshaling a specific payload type.
func (e Envelope) MessageKind() Kind {
	return Kind(gjson.GetBytes(e.Message, "kind").String())
}

// EncodeMessage wraps a tagged payload (one of the In*/Out* structs
// below) into the {kind, ...fields} shape the wire expects, patching the
// "kind" field in with sjson rather than adding a Kind field to every
// payload struct.
func EncodeMessage(kind Kind, payload any) (json.RawMessage, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("hostproto: encoding %s payload: %w", kind, err)
	}
	patched, err := sjson.SetBytes(data, "kind", string(kind))
	if err != nil {
		return nil, fmt.Errorf("hostproto: tagging %s payload: %w", kind, err)
	}
	return patched, nil
}

// Pretty formats a raw envelope message for debug/:config dump output
// (SPEC_FULL.md ambient-stack wiring: tidwall/pretty).
func Pretty(raw json.RawMessage) string {
	return string(pretty.Pretty(raw))
}

// Edit is one {range, new_text} entry of a BufferChange/BufferDiff.
type Edit struct {
	Range   Range  `json:"range"`
	NewText string `json:"new_text"`
}

// InBufferOpen is sent when the host opens a buffer.
type InBufferOpen struct {
	URI        string `json:"uri"`
	LanguageID string `json:"language_id"`
	Content    string `json:"content"`
}

// InBufferChange carries host-originated edits to an already-open buffer.
type InBufferChange struct {
	BufferID string `json:"buffer_id"`
	Edits    []Edit `json:"edits"`
}

// InBufferActive notifies the core which buffer now has host focus.
type InBufferActive struct {
	URI string `json:"uri"`
}

// InSyncBufferResponse answers a prior OutSyncBufferRequest with the
// host's authoritative content.
type InSyncBufferResponse struct {
	URI     string `json:"uri"`
	Content string `json:"content"`
}

// WireSelection is one selection entry on the wire.
type WireSelection struct {
	Anchor     Position `json:"anchor"`
	Active     Position `json:"active"`
	IsExtended bool     `json:"is_extended"`
}

// InSelectionSet overrides a buffer's selection set from the host side
// (e.g. a mouse click handled natively by the host UI).
type InSelectionSet struct {
	BufferID   string          `json:"buffer_id"`
	Primary    int             `json:"primary"`
	Selections []WireSelection `json:"selections"`
}

// InKeyboardInput is one keypress, carrying a checksum of the buffer the
// host believes is current so ChecksumMismatch can force a resync
// before the key is consumed (spec §7).
type InKeyboardInput struct {
	Key      string `json:"key"`
	BufferID string `json:"buffer_id"`
	Checksum string `json:"checksum"`
}

// InViewportChange reports the host's visible line ranges, used for
// RevealLayout-style queries and incremental highlight scoping.
type InViewportChange struct {
	BufferID string  `json:"buffer_id"`
	Ranges   []Range `json:"ranges"`
}

// DiagnosticEntry is one diagnostic span, feeding the Diagnostics
// selection mode's external candidate list.
type DiagnosticEntry struct {
	Range    Range  `json:"range"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

// BufferDiagnostics groups diagnostics for one buffer.
type BufferDiagnostics struct {
	BufferID    string            `json:"buffer_id"`
	Diagnostics []DiagnosticEntry `json:"diagnostics"`
}

// InDiagnosticsChange replaces the diagnostics for a set of buffers.
type InDiagnosticsChange struct {
	PerBuffer []BufferDiagnostics `json:"per_buffer"`
}

// InPromptEnter signals the user accepted the active prompt's input.
type InPromptEnter struct {
	BufferID string `json:"buffer_id"`
	Text     string `json:"text"`
}

// Ping/Pong carry no payload beyond the envelope id and are shared by
// both directions for liveness checks.
type Ping struct{}

// OutBufferDiff carries core-originated edits back to the host, the
// mirror of InBufferChange.
type OutBufferDiff struct {
	BufferID string `json:"buffer_id"`
	Edits    []Edit `json:"edits"`
}

// OutBufferSave notifies the host a buffer was saved.
type OutBufferSave struct {
	BufferID string `json:"buffer_id"`
}

// OutSelectionUpdate pushes the authoritative selection set for a buffer.
type OutSelectionUpdate struct {
	BufferID   string          `json:"buffer_id"`
	Primary    int             `json:"primary"`
	Selections []WireSelection `json:"selections"`
}

// OutModeChange announces an Editor's Normal/Insert mode transition.
type OutModeChange struct {
	BufferID string `json:"buffer_id"`
	Mode     string `json:"mode"`
}

// OutSelectionModeChange announces a selection mode change (SetMode).
type OutSelectionModeChange struct {
	BufferID string `json:"buffer_id"`
	ModeTag  string `json:"mode_tag"`
}

// OutRequestLsp asks the host to forward an LSP request for a buffer
// (spec §9: "Async LSP: tasks live on worker threads... cancellation is
// by correlation-id invalidation"); Method/Params are opaque to the
// core and interpreted by the host's LSP client.
type OutRequestLsp struct {
	BufferID string          `json:"buffer_id"`
	Method   string          `json:"method"`
	Params   json.RawMessage `json:"params"`
}

// OutShowInfo asks the host to surface a transient status/info message.
type OutShowInfo struct {
	Message string `json:"message"`
	IsError bool   `json:"is_error"`
}

// OutJumpsChanged/OutMarksChanged notify the host the persisted
// jump-list/marks changed, so a host-side gutter UI can refresh.
type OutJumpsChanged struct {
	BufferID string `json:"buffer_id"`
}
type OutMarksChanged struct {
	BufferID string `json:"buffer_id"`
}

// OutSyncBufferRequest asks the host for its authoritative content for
// a buffer — issued on ChecksumMismatch or any other host/bridge error
// where a full resync is the safe recovery (spec §7).
type OutSyncBufferRequest struct {
	BufferID string `json:"buffer_id"`
}
