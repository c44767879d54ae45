package worksheet

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/hyperjump/kyoshi/internal/metrics"
	"github.com/hyperjump/kyoshi/internal/models"
	"github.com/hyperjump/kyoshi/internal/web"
	"go.uber.org/zap"
)

func (s *Server) handleWorksheet(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.WorksheetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		web.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		web.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.logger.Debug("worksheet request",
		zap.Strings("sources", req.Sources()),
		zap.Int("num_sets", req.NumSets),
		zap.Int("questions_per_set", req.QuestionsPerSet))

	resp, stats, err := s.Generate(r.Context(), &req)
	if err != nil {
		s.logger.Error("worksheet generation failed", zap.Error(err))
		s.record(r, start, false, stats, "")
		web.RespondError(w, web.ErrorStatus(err), err.Error())
		return
	}

	s.record(r, start, true, stats, stats.output)
	web.RespondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	web.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// record writes one metrics entry. Evaluation scores are only computed for
// successful runs.
func (s *Server) record(r *http.Request, start time.Time, success bool, stats *runStats, output string) {
	if s.metrics == nil {
		return
	}
	e := metrics.Entry{
		Agent:     "worksheet",
		Success:   success,
		LatencyMS: time.Since(start).Milliseconds(),
	}
	if stats != nil {
		e.JSONValid = stats.jsonValid
	}
	if success && output != "" {
		e.Accuracy = s.eval.Accuracy(r.Context(), stats.contextText, output)
		e.QualityScore = s.eval.Quality(r.Context(), output)
	}
	s.metrics.Record(e)
}
