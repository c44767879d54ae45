package gateway

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/hyperjump/kyoshi/internal/models"
	"github.com/hyperjump/kyoshi/internal/web"
	"go.uber.org/zap"
)

// validator lets the gateway reject malformed requests before they reach an
// agent. Defaults applied during validation are forwarded.
type validator interface {
	Validate() error
}

func (s *Server) forwardWorksheet(w http.ResponseWriter, r *http.Request) {
	s.forwardJSON(w, r, s.config.Agents.WorksheetURL+"/worksheet", &models.WorksheetRequest{})
}

func (s *Server) forwardStudyPlan(w http.ResponseWriter, r *http.Request) {
	s.forwardJSON(w, r, s.config.Agents.StudyPlanURL+"/from-syllabus", &models.StudyPlanRequest{})
}

func (s *Server) forwardVoice(w http.ResponseWriter, r *http.Request) {
	s.forwardJSON(w, r, s.config.Agents.VoiceURL+"/explain", &models.VoiceRequest{})
}

// forwardJSON validates the request body against req's shape, then forwards
// it to target. Agent responses pass through with their status; only a
// transport failure reaching the agent becomes a 502 here.
func (s *Server) forwardJSON(w http.ResponseWriter, r *http.Request, target string, req validator) {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		web.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		web.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	body, err := json.Marshal(req)
	if err != nil {
		web.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	out, err := http.NewRequestWithContext(r.Context(), http.MethodPost, target, bytes.NewReader(body))
	if err != nil {
		web.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	out.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(out)
	if err != nil {
		s.logger.Error("agent unreachable", zap.String("target", target), zap.Error(err))
		web.RespondError(w, http.StatusBadGateway, "upstream agent unreachable")
		return
	}
	defer resp.Body.Close()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.StatusCode)
	if _, err := io.Copy(w, resp.Body); err != nil {
		s.logger.Warn("copying agent response", zap.Error(err))
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	web.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
