package hostproto

import (
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/ki-editor/ki/internal/klog"
)

// upgrader accepts any origin: the bridge is meant to be reached by a
// host embedding (VS Code webview, JetBrains plugin panel, or a
// browser-hosted terminal) the operator controls, not a public client.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Accept upgrades an incoming HTTP request to a websocket connection
// and wraps it in a Bridge.
func Accept(w http.ResponseWriter, r *http.Request, log *klog.Logger) (*Bridge, error) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return nil, err
	}
	return NewBridge(conn, log), nil
}

// Dial connects to a host bridge listening at url (ws:// or wss://).
func Dial(url string, log *klog.Logger) (*Bridge, error) {
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, err
	}
	return NewBridge(conn, log), nil
}
