package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func newTestServer(t *testing.T, cfg *Config) (*Server, *httptest.Server) {
	t.Helper()
	srv, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return srv, ts
}

func dial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func send(t *testing.T, conn *websocket.Conn, msg string) {
	t.Helper()
	if err := conn.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
		t.Fatalf("WriteMessage() error = %v", err)
	}
}

func recv(t *testing.T, conn *websocket.Conn) ServerMessage {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var msg ServerMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}
	return msg
}

func expectState(t *testing.T, msg ServerMessage, value string, accepted bool) {
	t.Helper()
	if msg.Type != TypeState {
		t.Fatalf("message type = %q, want state (%+v)", msg.Type, msg)
	}
	if msg.Value != value {
		t.Errorf("state value = %q, want %q", msg.Value, value)
	}
	if msg.Accepted == nil || *msg.Accepted != accepted {
		t.Errorf("state accepted = %v, want %v", msg.Accepted, accepted)
	}
}

func expectChanged(t *testing.T, msg ServerMessage, changed bool) {
	t.Helper()
	if msg.Changed == nil || *msg.Changed != changed {
		t.Errorf("state changed = %v, want %v", msg.Changed, changed)
	}
}

func TestSession_InitialState(t *testing.T) {
	_, ts := newTestServer(t, &Config{InitialValue: "10.0.0.1"})
	conn := dial(t, ts)

	msg := recv(t, conn)
	expectState(t, msg, "10.0.0.1", true)
	expectChanged(t, msg, false)
	if len(msg.Segments) != 4 || msg.Segments[3] != "1" {
		t.Errorf("segments = %q", msg.Segments)
	}
	if msg.Complete == nil || !*msg.Complete {
		t.Errorf("complete = %v, want true", msg.Complete)
	}
}

func TestSession_TypingAdvancesFocus(t *testing.T) {
	_, ts := newTestServer(t, &Config{})
	conn := dial(t, ts)
	expectState(t, recv(t, conn), "...", true)

	send(t, conn, `{"type":"input","index":0,"text":"1"}`)
	first := recv(t, conn)
	expectState(t, first, "1...", true)
	expectChanged(t, first, true)

	send(t, conn, `{"type":"input","index":0,"text":"19"}`)
	expectState(t, recv(t, conn), "19...", true)

	send(t, conn, `{"type":"input","index":0,"text":"192"}`)
	focus := recv(t, conn)
	if focus.Type != TypeFocus || focus.Index == nil || *focus.Index != 1 {
		t.Fatalf("expected focus on 1, got %+v", focus)
	}
	state := recv(t, conn)
	expectState(t, state, "192...", true)
	if state.Complete == nil || *state.Complete {
		t.Errorf("complete = %v, want false", state.Complete)
	}
}

func TestSession_RejectedInput(t *testing.T) {
	_, ts := newTestServer(t, &Config{InitialValue: "10.0.0.1"})
	conn := dial(t, ts)
	recv(t, conn)

	send(t, conn, `{"type":"input","index":1,"text":"a"}`)
	msg := recv(t, conn)
	expectState(t, msg, "10.0.0.1", false)
	expectChanged(t, msg, false)

	send(t, conn, `{"type":"input","index":7,"text":"1"}`)
	msg = recv(t, conn)
	expectState(t, msg, "10.0.0.1", false)
	expectChanged(t, msg, false)
}

func TestSession_ClampAndNormalize(t *testing.T) {
	_, ts := newTestServer(t, &Config{})
	conn := dial(t, ts)
	recv(t, conn)

	send(t, conn, `{"type":"input","index":2,"text":"999"}`)
	focus := recv(t, conn)
	if focus.Type != TypeFocus || *focus.Index != 3 {
		t.Fatalf("expected focus on 3, got %+v", focus)
	}
	expectState(t, recv(t, conn), "..255.", true)

	send(t, conn, `{"type":"input","index":3,"text":"07"}`)
	expectState(t, recv(t, conn), "..255.7", true)
}

func TestSession_Keys(t *testing.T) {
	_, ts := newTestServer(t, &Config{InitialValue: "10..."})
	conn := dial(t, ts)
	recv(t, conn)

	send(t, conn, `{"type":"key","index":1,"key":"backspace"}`)
	focus := recv(t, conn)
	if focus.Type != TypeFocus || *focus.Index != 0 {
		t.Fatalf("expected focus on 0, got %+v", focus)
	}
	expectState(t, recv(t, conn), "10...", true)

	// caret not at end: no move
	send(t, conn, `{"type":"key","index":0,"key":"right","caret_start":1,"caret_end":1}`)
	expectState(t, recv(t, conn), "10...", false)

	send(t, conn, `{"type":"key","index":0,"key":"."}`)
	focus = recv(t, conn)
	if focus.Type != TypeFocus || *focus.Index != 1 {
		t.Fatalf("expected focus on 1, got %+v", focus)
	}
	recv(t, conn)
}

func TestSession_SetValue(t *testing.T) {
	_, ts := newTestServer(t, &Config{})
	conn := dial(t, ts)
	recv(t, conn)

	send(t, conn, `{"type":"set","value":"172.16.0.9"}`)
	msg := recv(t, conn)
	expectState(t, msg, "172.16.0.9", true)
	expectChanged(t, msg, false)
	if msg.Complete == nil || !*msg.Complete {
		t.Errorf("complete = %v, want true", msg.Complete)
	}
}

func TestSession_MalformedFrames(t *testing.T) {
	tests := []struct {
		name  string
		frame string
	}{
		{"invalid json", `{"type":`},
		{"missing type", `{"index":1}`},
		{"unknown type", `{"type":"paste"}`},
		{"input without index", `{"type":"input","text":"1"}`},
		{"key without index", `{"type":"key","key":"left"}`},
		{"unknown key", `{"type":"key","index":0,"key":"tab"}`},
	}

	_, ts := newTestServer(t, &Config{})
	conn := dial(t, ts)
	recv(t, conn)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			send(t, conn, tt.frame)
			msg := recv(t, conn)
			if msg.Type != TypeError || msg.Message == "" {
				t.Errorf("reply = %+v, want error", msg)
			}
		})
	}
}

func TestSession_IsolatedEditors(t *testing.T) {
	_, ts := newTestServer(t, &Config{})
	a := dial(t, ts)
	b := dial(t, ts)
	recv(t, a)
	recv(t, b)

	send(t, a, `{"type":"input","index":0,"text":"8"}`)
	expectState(t, recv(t, a), "8...", true)

	send(t, b, `{"type":"input","index":1,"text":"4"}`)
	expectState(t, recv(t, b), ".4..", true)
}

func TestHealth(t *testing.T) {
	_, ts := newTestServer(t, &Config{})

	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz error = %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var body healthResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode error = %v", err)
	}
	if body.Status != "ok" {
		t.Errorf("status = %q, want ok", body.Status)
	}
}

func TestCheckOrigin(t *testing.T) {
	srv, ts := newTestServer(t, &Config{Origins: []string{"http://allowed.example"}})
	_ = srv

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"

	header := http.Header{"Origin": []string{"http://evil.example"}}
	if _, resp, err := websocket.DefaultDialer.Dial(url, header); err == nil {
		t.Error("Dial() from disallowed origin succeeded")
	} else if resp != nil && resp.StatusCode != http.StatusForbidden {
		t.Errorf("status = %d, want 403", resp.StatusCode)
	}

	header = http.Header{"Origin": []string{"http://allowed.example"}}
	conn, _, err := websocket.DefaultDialer.Dial(url, header)
	if err != nil {
		t.Fatalf("Dial() from allowed origin error = %v", err)
	}
	_ = conn.Close()
}

func TestNew_TLSRequiresBothPaths(t *testing.T) {
	if _, err := New(&Config{CertPath: "cert.pem"}); err == nil {
		t.Error("New() with only a certificate path should fail")
	}
	if _, err := New(&Config{CertPath: "missing.pem", KeyPath: "missing.key"}); err == nil {
		t.Error("New() with missing files should fail")
	}
}
