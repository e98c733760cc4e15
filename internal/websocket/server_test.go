// internal/websocket/server_test.go
package websocket

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/wailsapp/wails/v2/pkg/logger"
)

func dial(t *testing.T, srv *httptest.Server, key string) (*websocket.Conn, *http.Response, error) {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	header := http.Header{}
	if key != "" {
		header.Set(AuthHeader, key)
	}
	return websocket.DefaultDialer.Dial(url, header)
}

func TestServer_RPC(t *testing.T) {
	s := NewServer(&fakeApp{}, "", logger.NewDefaultLogger())
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	conn, _, err := dial(t, srv, "")
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	defer conn.Close()

	req := WSMessage{
		Kind:    KindRPCRequest,
		Request: &RPCRequest{ID: "1", Method: "RenderMarkdown", Params: []interface{}{"hi"}},
	}
	if err := conn.WriteJSON(req); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var resp WSMessage
	if err := conn.ReadJSON(&resp); err != nil {
		t.Fatalf("ReadJSON failed: %v", err)
	}
	if resp.Kind != KindRPCResponse || resp.Response == nil {
		t.Fatalf("Unexpected message %+v", resp)
	}
	if resp.Response.ID != "1" || resp.Response.Result != "<p>hi</p>" {
		t.Errorf("Unexpected response %+v", resp.Response)
	}
}

func TestServer_RPCError(t *testing.T) {
	s := NewServer(&fakeApp{}, "", logger.NewDefaultLogger())
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	conn, _, err := dial(t, srv, "")
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	defer conn.Close()

	conn.WriteJSON(WSMessage{
		Kind:    KindRPCRequest,
		Request: &RPCRequest{ID: "2", Method: "Missing"},
	})

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var resp WSMessage
	if err := conn.ReadJSON(&resp); err != nil {
		t.Fatalf("ReadJSON failed: %v", err)
	}
	if resp.Response == nil || resp.Response.Error == "" {
		t.Errorf("Expected error response, got %+v", resp.Response)
	}
}

func TestServer_Auth(t *testing.T) {
	s := NewServer(&fakeApp{}, "secret", logger.NewDefaultLogger())
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	_, resp, err := dial(t, srv, "wrong")
	if err == nil {
		t.Fatal("Expected dial to fail without the key")
	}
	if resp == nil || resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("Expected 401, got %v", resp)
	}

	conn, _, err := dial(t, srv, "secret")
	if err != nil {
		t.Fatalf("Dial with key failed: %v", err)
	}
	conn.Close()
}

func TestServer_Broadcast(t *testing.T) {
	s := NewServer(&fakeApp{}, "", logger.NewDefaultLogger())
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	conn, _, err := dial(t, srv, "")
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	defer conn.Close()

	// Registration happens in the handler; wait until it is visible.
	deadline := time.Now().Add(5 * time.Second)
	for {
		s.clientsMu.RLock()
		n := len(s.clients)
		s.clientsMu.RUnlock()
		if n == 1 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("client never registered")
		}
		time.Sleep(10 * time.Millisecond)
	}

	s.BroadcastEvent("session:changed", map[string]int{"activeIndex": 0})

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var msg WSMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("ReadJSON failed: %v", err)
	}
	if msg.Kind != KindEvent || msg.Event == nil || msg.Event.Type != "session:changed" {
		t.Errorf("Unexpected event %+v", msg)
	}
}

func TestClient_CloseTwice(t *testing.T) {
	c := NewClient("id", nil)
	c.Close()
	c.Close()
	if err := c.SendEvent("x", nil); err != ErrClientClosed {
		t.Errorf("Expected ErrClientClosed, got %v", err)
	}
}
