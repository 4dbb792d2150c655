package api

import (
	"net/http"

	"github.com/nerrad567/netmcp/internal/mcp"
)

// handleMCP decodes one envelope and dispatches it.
//
// Malformed envelopes and malformed method parameters are rejected with 400
// before any envelope is built. Everything else, including unknown methods
// and missing devices, is answered with 200 and an envelope.
func (s *Server) handleMCP(w http.ResponseWriter, r *http.Request) {
	req, err := mcp.DecodeRequest(r.Body)
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}

	resp, err := s.dispatcher.Dispatch(r.Context(), req)
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// handleListMethods serves the plain discovery document.
func (s *Server) handleListMethods(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, mcp.NewCatalogue(false))
}

// handleListTools serves the JSON-RPC flavoured discovery document.
func (s *Server) handleListTools(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, mcp.NewCatalogue(true))
}
