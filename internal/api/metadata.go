package api

import (
	"net/http"

	"github.com/sirupsen/logrus"
)

// handleGetMetadata serves the global metadata document clients refresh from
func (s *Server) handleGetMetadata(w http.ResponseWriter, r *http.Request) {
	md, err := s.metadata.GlobalMetadata(r.Context())
	if err != nil {
		logrus.Errorf("failed to assemble global metadata: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to fetch metadata")
		return
	}
	respondJSON(w, http.StatusOK, md.Document())
}
