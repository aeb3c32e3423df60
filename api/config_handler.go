package api

import (
	"net/http"

	"github.com/seenimoa/finsense/internal/config"
)

// handleGetConfig returns the running configuration. The Hugging Face
// token is excluded by its json:"-" tag.
func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.cfg)
}

// handleGetConfigKeys returns the masked status of every credential.
func (s *Server) handleGetConfigKeys(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, config.CheckAPIKeys(s.cfg))
}
