package server

import (
	"encoding/json"
	"net/http"
)

// errorBody is the body of every non-200 response.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error(err, "encoding response failed", "status", status)
	}
}

// writeError reports err under the standard text of status.
func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.writeJSON(w, status, errorBody{Error: http.StatusText(status), Message: err.Error()})
}
