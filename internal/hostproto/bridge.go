package hostproto

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/gorilla/websocket"

	"github.com/ki-editor/ki/internal/klog"
)

// ErrBridgeClosed is returned by Bridge operations after Close.
var ErrBridgeClosed = errors.New("hostproto: bridge closed")

// Handler processes one inbound event envelope (id == 0).
type Handler func(kind Kind, raw json.RawMessage)

// RequestHandler answers an inbound request envelope (non-zero id sent
// by the peer, not a reply to one of our own Request calls) with a
// reply kind/payload.
type RequestHandler func(raw json.RawMessage) (Kind, any, error)

// Bridge is the duplex host bridge transport (spec §6): envelopes
// travel over a websocket connection so a VS Code/JetBrains embedding,
// or a browser-hosted terminal, can dial in. Grounded on the teacher's
// internal/lsp.Transport (atomic id counter, pending-request map keyed
// by id, notification handler table) re-targeted from stdio+
// Content-Length framing to websocket message framing.
type Bridge struct {
	conn *websocket.Conn
	log  *klog.Logger

	mu          sync.Mutex
	nextID      atomic.Int64
	pending     map[int64]chan *Envelope
	handlers    map[Kind]Handler
	reqHandlers map[Kind]RequestHandler

	writeMu sync.Mutex
	closed  atomic.Bool
	done    chan struct{}
}

// NewBridge wraps an already-established websocket connection.
func NewBridge(conn *websocket.Conn, log *klog.Logger) *Bridge {
	if log == nil {
		log = klog.Discard
	}
	return &Bridge{
		conn:        conn,
		log:         log.WithComponent("hostproto"),
		pending:     make(map[int64]chan *Envelope),
		handlers:    make(map[Kind]Handler),
		reqHandlers: make(map[Kind]RequestHandler),
		done:        make(chan struct{}),
	}
}

// OnEvent registers the handler invoked for inbound event envelopes
// (id == 0) carrying kind.
func (b *Bridge) OnEvent(kind Kind, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[kind] = h
}

// OnRequest registers the handler invoked for inbound request envelopes
// (non-zero id sent by the peer) carrying kind; Serve writes the
// handler's returned kind/payload back as the reply with the same id.
func (b *Bridge) OnRequest(kind Kind, h RequestHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.reqHandlers[kind] = h
}

// Close tears down the bridge connection.
func (b *Bridge) Close() error {
	if b.closed.Swap(true) {
		return nil
	}
	close(b.done)
	b.mu.Lock()
	b.pending = make(map[int64]chan *Envelope)
	b.mu.Unlock()
	return b.conn.Close()
}

// Serve reads envelopes until the connection closes or ctx is done,
// dispatching events to registered handlers and routing replies to
// whichever Request call is waiting on that id.
func (b *Bridge) Serve(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-b.done:
			return ErrBridgeClosed
		default:
		}

		_, data, err := b.conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("hostproto: reading envelope: %w", err)
		}

		var env Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			b.log.Warn("dropping malformed envelope: %v", err)
			continue
		}

		if !env.IsEvent() {
			b.mu.Lock()
			ch, isReply := b.pending[env.ID]
			b.mu.Unlock()
			if isReply {
				ch <- &env
				continue
			}

			kind := env.MessageKind()
			b.mu.Lock()
			rh, ok := b.reqHandlers[kind]
			b.mu.Unlock()
			if !ok {
				b.log.Debug("no request handler registered for kind %s", kind)
				continue
			}
			replyKind, payload, err := rh(env.Message)
			if err != nil {
				b.log.Warn("request handler for %s failed: %v", kind, err)
				continue
			}
			msg, err := EncodeMessage(replyKind, payload)
			if err != nil {
				b.log.Warn("encoding reply to %s: %v", kind, err)
				continue
			}
			if err := b.writeEnvelope(Envelope{ID: env.ID, Message: msg}); err != nil {
				b.log.Warn("writing reply to %s: %v", kind, err)
			}
			continue
		}

		kind := env.MessageKind()
		b.mu.Lock()
		h, ok := b.handlers[kind]
		b.mu.Unlock()
		if !ok {
			b.log.Debug("no handler registered for event kind %s", kind)
			continue
		}
		h(kind, env.Message)
	}
}

// Request sends kind/payload as a request envelope and blocks for the
// matching reply, unmarshaling its message into result (pass nil to
// discard the body). Used for the SyncBufferRequest/Response
// round-trip spec §7 describes for resync-on-error.
func (b *Bridge) Request(ctx context.Context, kind Kind, payload any, result any) error {
	if b.closed.Load() {
		return ErrBridgeClosed
	}

	id := b.nextID.Add(1)
	ch := make(chan *Envelope, 1)
	b.mu.Lock()
	b.pending[id] = ch
	b.mu.Unlock()
	defer func() {
		b.mu.Lock()
		delete(b.pending, id)
		b.mu.Unlock()
	}()

	msg, err := EncodeMessage(kind, payload)
	if err != nil {
		return err
	}
	if err := b.writeEnvelope(Envelope{ID: id, Message: msg}); err != nil {
		return err
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-b.done:
		return ErrBridgeClosed
	case env, ok := <-ch:
		if !ok {
			return ErrBridgeClosed
		}
		if result != nil {
			return json.Unmarshal(env.Message, result)
		}
		return nil
	}
}

// Emit sends kind/payload as a fire-and-forget event (envelope id 0).
func (b *Bridge) Emit(kind Kind, payload any) error {
	if b.closed.Load() {
		return ErrBridgeClosed
	}
	msg, err := EncodeMessage(kind, payload)
	if err != nil {
		return err
	}
	return b.writeEnvelope(Envelope{ID: 0, Message: msg})
}

func (b *Bridge) writeEnvelope(env Envelope) error {
	data, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("hostproto: encoding envelope: %w", err)
	}
	b.writeMu.Lock()
	defer b.writeMu.Unlock()
	return b.conn.WriteMessage(websocket.TextMessage, data)
}
