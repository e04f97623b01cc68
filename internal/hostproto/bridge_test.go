package hostproto

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func unmarshal(raw []byte, v any) error { return json.Unmarshal(raw, v) }

func TestBridgeRequestReplyRoundTrip(t *testing.T) {
	ready := make(chan struct{})
	var serverBridge *Bridge

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, err := Accept(w, r, nil)
		if err != nil {
			t.Errorf("accept: %v", err)
			return
		}
		serverBridge = b
		b.OnRequest(KindBufferActive, func(raw json.RawMessage) (Kind, any, error) {
			var in InBufferActive
			if err := unmarshal(raw, &in); err != nil {
				return "", nil, err
			}
			return KindShowInfo, OutShowInfo{Message: "pong:" + in.URI}, nil
		})
		close(ready)
		go b.Serve(context.Background())
	}))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	client, err := Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer client.Close()
	<-ready
	defer serverBridge.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	var result OutShowInfo
	if err := client.Request(ctx, KindBufferActive, InBufferActive{URI: "file:///a.go"}, &result); err != nil {
		t.Fatalf("request: %v", err)
	}
	if result.Message != "pong:file:///a.go" {
		t.Fatalf("expected echoed reply, got %+v", result)
	}
}

func TestBridgeEmitDeliversEvent(t *testing.T) {
	received := make(chan InPromptEnter, 1)
	ready := make(chan struct{})
	var serverBridge *Bridge

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, err := Accept(w, r, nil)
		if err != nil {
			t.Errorf("accept: %v", err)
			return
		}
		serverBridge = b
		b.OnEvent(KindPromptEnter, func(kind Kind, raw json.RawMessage) {
			var p InPromptEnter
			unmarshal(raw, &p)
			received <- p
		})
		close(ready)
		go b.Serve(context.Background())
	}))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	client, err := Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer client.Close()
	<-ready
	defer serverBridge.Close()

	if err := client.Emit(KindPromptEnter, InPromptEnter{BufferID: "b1", Text: "hello"}); err != nil {
		t.Fatalf("emit: %v", err)
	}

	select {
	case p := <-received:
		if p.Text != "hello" {
			t.Fatalf("expected text 'hello', got %+v", p)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
	}
}
