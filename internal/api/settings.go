// ABOUTME: White-label settings handlers for frontends and machine callers
// ABOUTME: Read for viewers, write for editors, machine read via the public-key gate

package api

import (
	"errors"
	"net/http"

	"github.com/cortexui/cortex-api/internal/store"
)

// loadWhiteLabel reads the branding record, falling back to defaults when
// none has been stored yet.
func (s *Server) loadWhiteLabel(r *http.Request) (store.WhiteLabel, error) {
	var wl store.WhiteLabel
	err := s.store.GetConfigRecord(r.Context(), store.ConfigWhiteLabel, &wl)
	if errors.Is(err, store.ErrNotFound) {
		return store.WhiteLabel{AppName: "CortexUI"}, nil
	}
	return wl, err
}

func (s *Server) handleWhiteLabelGet(w http.ResponseWriter, r *http.Request) {
	wl, err := s.loadWhiteLabel(r)
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, "White-label settings retrieved.", map[string]any{"whitelabel": wl})
}

func (s *Server) handleWhiteLabelPut(w http.ResponseWriter, r *http.Request) {
	var req store.WhiteLabel
	if !decodeBody(w, r, &req) {
		return
	}
	if req.AppName == "" {
		writeFail(w, http.StatusBadRequest, "BAD_REQUEST", "Application name is required.")
		return
	}

	if err := s.store.SetConfigRecord(r.Context(), store.ConfigWhiteLabel, req); err != nil {
		writeError(w, err)
		return
	}

	writeOK(w, "White-label settings updated.", map[string]any{"whitelabel": req})
}

func (s *Server) handlePublicWhiteLabel(w http.ResponseWriter, r *http.Request) {
	wl, err := s.loadWhiteLabel(r)
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, "White-label settings retrieved.", map[string]any{"whitelabel": wl})
}
