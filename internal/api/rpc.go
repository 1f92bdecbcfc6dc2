package api

import (
	"encoding/json"
	"net/http"
)

// rpcRequest is the body of a POST /api/v1/rpc call.
type rpcRequest struct {
	Method string          `json:"method"`
	Params json.RawMessage `json:"params"`
}

// handleRPC decodes one dispatch call and writes back the envelope. The
// HTTP status is 200 for every dispatched call, success or not; the ok
// field inside the envelope is the outcome discriminator. Only a body that
// cannot be decoded at all is rejected at the transport level.
func (s *Server) handleRPC(w http.ResponseWriter, r *http.Request) {
	var req rpcRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body: "+err.Error())
		return
	}

	env := s.dispatcher.Dispatch(r.Context(), req.Method, req.Params)
	writeJSON(w, http.StatusOK, env)
}
