package studyplan

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/hyperjump/kyoshi/internal/metrics"
	"github.com/hyperjump/kyoshi/internal/models"
	"github.com/hyperjump/kyoshi/internal/web"
	"go.uber.org/zap"
)

func (s *Server) handleFromSyllabus(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.StudyPlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		web.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		web.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.logger.Debug("studyplan request",
		zap.String("file_id", req.FileID),
		zap.Int("duration_weeks", req.DurationWeeks))

	resp, stats, err := s.Generate(r.Context(), &req)
	if err != nil {
		s.logger.Error("studyplan generation failed", zap.Error(err))
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

func (s *Server) record(r *http.Request, start time.Time, success bool, stats *runStats) {
	if s.metrics == nil {
		return
	}
	e := metrics.Entry{
		Agent:     "studyplan",
		Success:   success,
		LatencyMS: time.Since(start).Milliseconds(),
	}
	if stats != nil {
		e.JSONValid = stats.jsonValid
		if success && stats.output != "" {
			e.Accuracy = s.eval.Accuracy(r.Context(), stats.contextText, stats.output)
			e.QualityScore = s.eval.Quality(r.Context(), stats.output)
		}
	}
	s.metrics.Record(e)
}
