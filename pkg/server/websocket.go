package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/srodi/hotspot-report/pkg/config"
	"github.com/srodi/hotspot-report/pkg/report"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		// No Origin header = direct connection (non-browser clients like agents and curl)
		return origin == "" || origin == "http://"+r.Host || origin == "https://"+r.Host
	},
	ReadBufferSize:  config.WSReadBufferSize,
	WriteBufferSize: config.WSWriteBufferSize,
}

// wsRequest is one tool call frame sent by a client.
type wsRequest struct {
	ID        json.RawMessage `json:"id,omitempty"`
	Tool      string          `json:"tool"`
	Arguments json.RawMessage `json:"arguments,omitempty"`
}

// wsResponse answers exactly one wsRequest, echoing its id.
type wsResponse struct {
	ID     json.RawMessage `json:"id,omitempty"`
	Status report.Status   `json:"status,omitempty"`
	Result report.Outcome  `json:"result,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// handleWebSocket serves tool calls on one connection, answering frames in
// the order they arrive.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Error(err, "websocket upgrade failed")
		return
	}
	defer conn.Close()
	conn.SetReadLimit(config.WSReadLimit)

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-s.closing:
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
				time.Now().Add(time.Second))
			conn.Close()
		case <-done:
		}
	}()

	log := s.log.WithValues("remote", r.RemoteAddr)
	log.V(1).Info("websocket session opened")
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Error(err, "websocket read failed")
			}
			log.V(1).Info("websocket session closed")
			return
		}

		resp := s.answer(data)
		if err := conn.SetWriteDeadline(time.Now().Add(config.WSWriteDeadline)); err != nil {
			log.Error(err, "websocket write deadline failed")
			return
		}
		if err := conn.WriteJSON(resp); err != nil {
			log.Error(err, "websocket write failed")
			return
		}
	}
}

func (s *Server) answer(data []byte) wsResponse {
	var req wsRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return wsResponse{Error: "malformed request: " + err.Error()}
	}
	if req.Tool == "" {
		return wsResponse{ID: req.ID, Error: "malformed request: missing tool"}
	}

	out, err := s.call(req.Tool, req.Arguments)
	if err != nil {
		return wsResponse{ID: req.ID, Error: err.Error()}
	}
	return wsResponse{ID: req.ID, Status: out.Status(), Result: out}
}
