package daemon

import (
	"encoding/json"
	"net/http"

	"github.com/ohjain/ohjain/types"
)

// Routes builds the API mux.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/manage", s.handleManage)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	return mux
}

func (s *Server) handleManage(w http.ResponseWriter, r *http.Request) {
	var req types.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, types.Failed("", err))
		return
	}
	if req.Region == "" {
		req.Region = s.cfg.Region
	}

	result := s.manage(r.Context(), req)

	s.logger.WithContext(r.Context()).Info().
		Str("action", result.Action).
		Str("instance_id", result.InstanceID).
		Bool("success", result.Success).
		Msg("api request handled")

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
