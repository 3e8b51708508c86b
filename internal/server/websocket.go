package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/muurk/ipfield/internal/logging"
	"github.com/muurk/ipfield/internal/segment"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 8192
)

// Message types
const (
	TypeSet   = "set"
	TypeInput = "input"
	TypeKey   = "key"
	TypeFocus = "focus"
	TypeState = "state"
	TypeError = "error"
)

// ClientMessage is a frame sent by the front end
type ClientMessage struct {
	Type       string `json:"type"`
	Value      string `json:"value,omitempty"`
	Index      *int   `json:"index,omitempty"`
	Text       string `json:"text,omitempty"`
	Key        string `json:"key,omitempty"`
	CaretStart int    `json:"caret_start,omitempty"`
	CaretEnd   int    `json:"caret_end,omitempty"`
}

// ServerMessage is a frame sent to the front end
type ServerMessage struct {
	Type     string   `json:"type"`
	Index    *int     `json:"index,omitempty"`
	Value    string   `json:"value,omitempty"`
	Segments []string `json:"segments,omitempty"`
	Accepted *bool    `json:"accepted,omitempty"`
	Changed  *bool    `json:"changed,omitempty"`
	Complete *bool    `json:"complete,omitempty"`
	Message  string   `json:"message,omitempty"`
}

// session owns the editor of one connection. Only the read loop touches it.
type session struct {
	conn       *websocket.Conn
	remoteAddr string
	editor     *segment.Editor
	pending    []ServerMessage
}

func newSession(conn *websocket.Conn, remoteAddr, value string) *session {
	return &session{
		conn:       conn,
		remoteAddr: remoteAddr,
		editor:     segment.NewEditor(value),
	}
}

// Focus queues a focus request for the front end. It implements segment.Focuser.
func (s *session) Focus(index int) {
	s.pending = append(s.pending, ServerMessage{Type: TypeFocus, Index: &index})
}

func (s *session) run() error {
	logging.LogConnection(s.remoteAddr, "session_opened")

	stopPing := make(chan struct{})
	defer func() {
		close(stopPing)
		_ = s.conn.Close()
		logging.LogConnection(s.remoteAddr, "session_closed")
	}()

	s.conn.SetReadLimit(maxMessageSize)
	if err := s.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		return fmt.Errorf("failed to set read deadline: %w", err)
	}
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	go s.pingLoop(stopPing)

	if err := s.write(s.state(true, false)); err != nil {
		return err
	}

	for {
		msgType, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return fmt.Errorf("read failed: %w", err)
			}
			logging.Info("Session closed by peer",
				zap.String("remote_addr", s.remoteAddr),
				zap.Error(err),
			)
			return nil
		}

		if msgType != websocket.TextMessage {
			if err := s.write(errorMessage("binary frames are not supported")); err != nil {
				return err
			}
			continue
		}

		logging.LogSessionMessage(s.remoteAddr, "received", "text", data)

		for _, reply := range s.handle(data) {
			if err := s.write(reply); err != nil {
				return err
			}
		}
	}
}

// handle applies one client frame to the editor and returns the replies in
// send order: any focus request, then the resulting state
func (s *session) handle(data []byte) []ServerMessage {
	var msg ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return []ServerMessage{errorMessage("malformed message: " + err.Error())}
	}

	s.pending = s.pending[:0]
	var accepted, changed bool

	switch msg.Type {
	case TypeSet:
		s.editor.SetValue(msg.Value)
		accepted = true

	case TypeInput:
		if msg.Index == nil {
			return []ServerMessage{errorMessage("input requires an index")}
		}
		accepted = s.editor.Input(*msg.Index, msg.Text, s)
		changed = accepted

	case TypeKey:
		if msg.Index == nil {
			return []ServerMessage{errorMessage("key requires an index")}
		}
		key := segment.ParseKey(msg.Key)
		if key == segment.KeyOther {
			return []ServerMessage{errorMessage(fmt.Sprintf("unknown key %q", msg.Key))}
		}
		snap := segment.Snapshot{
			Text:       s.editor.Segment(*msg.Index),
			CaretStart: msg.CaretStart,
			CaretEnd:   msg.CaretEnd,
		}
		accepted = s.editor.Key(*msg.Index, key, snap, s)

	case "":
		return []ServerMessage{errorMessage("missing message type")}

	default:
		return []ServerMessage{errorMessage(fmt.Sprintf("unknown message type %q", msg.Type))}
	}

	replies := append([]ServerMessage(nil), s.pending...)
	return append(replies, s.state(accepted, changed))
}

// state describes the editor. changed is set only for an accepted input
// frame, the one case where the editor emitted a new value.
func (s *session) state(accepted, changed bool) ServerMessage {
	segs := s.editor.Segments()
	complete := s.editor.Complete()
	return ServerMessage{
		Type:     TypeState,
		Value:    s.editor.Value(),
		Segments: segs[:],
		Accepted: &accepted,
		Changed:  &changed,
		Complete: &complete,
	}
}

func (s *session) write(msg ServerMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal %s message: %w", msg.Type, err)
	}

	if err := s.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return fmt.Errorf("failed to set write deadline: %w", err)
	}
	if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return fmt.Errorf("failed to write %s message: %w", msg.Type, err)
	}

	logging.LogSessionMessage(s.remoteAddr, "sent", msg.Type, data)
	return nil
}

// pingLoop keeps the read deadline alive. WriteControl is safe to call
// concurrently with the read loop's writes.
func (s *session) pingLoop(stop <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			err := s.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
			if err != nil {
				if !errors.Is(err, websocket.ErrCloseSent) {
					logging.Debug("Ping failed", zap.String("remote_addr", s.remoteAddr), zap.Error(err))
				}
				return
			}
		case <-stop:
			return
		}
	}
}

func errorMessage(text string) ServerMessage {
	return ServerMessage{Type: TypeError, Message: text}
}
