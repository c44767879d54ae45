package voice

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/hyperjump/kyoshi/internal/metrics"
	"github.com/hyperjump/kyoshi/internal/models"
	"github.com/hyperjump/kyoshi/internal/web"
	"go.uber.org/zap"
)

func (s *Server) handleExplain(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.VoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		web.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		web.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.logger.Debug("explain request",
		zap.String("file_id", req.FileID),
		zap.String("visual_format", req.VisualFormat))

	resp, stats, err := s.Generate(r.Context(), &req)
	if err != nil {
		s.logger.Error("voice explanation failed", zap.Error(err))
		s.record(r, start, false, stats)
		web.RespondError(w, web.ErrorStatus(err), err.Error())
		return
	}

	s.record(r, start, true, stats)
	web.RespondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	web.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// record writes one metrics entry. The voice agent produces prose, so the
// JSON-validity bit tracks run success and accuracy compares the explanation
// against the transcript.
func (s *Server) record(r *http.Request, start time.Time, success bool, stats *runStats) {
	if s.metrics == nil {
		return
	}
	e := metrics.Entry{
		Agent:     "voice",
		Success:   success,
		JSONValid: success,
		LatencyMS: time.Since(start).Milliseconds(),
	}
	if success && stats != nil && stats.output != "" {
		e.Accuracy = s.eval.Accuracy(r.Context(), stats.transcript, stats.output)
		e.QualityScore = s.eval.Quality(r.Context(), stats.output)
	}
	s.metrics.Record(e)
}
