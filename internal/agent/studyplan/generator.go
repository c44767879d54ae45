package studyplan

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hyperjump/kyoshi/internal/filestore"
	"github.com/hyperjump/kyoshi/internal/ident"
	"github.com/hyperjump/kyoshi/internal/models"
	"github.com/hyperjump/kyoshi/internal/pipeline"
	"github.com/hyperjump/kyoshi/internal/render"
	"github.com/hyperjump/kyoshi/pkg/utils"
	"go.uber.org/zap"
)

const systemPrompt = `You are a curriculum planner. Turn the provided syllabus
into a realistic week-by-week teaching plan grounded strictly in the syllabus
content. Output ONLY valid JSON in this exact shape, with no prose and no
markdown fences:
{"overview": "...", "weekly_outline": [{"week": 1, "topics": ["..."], "outcomes": ["..."], "checks": ["..."]}], "resources": [{"title": "...", "note": "..."}]}
"weekly_outline" must contain exactly the requested number of weeks.`

// overviewMaxChars bounds the overview paragraph in the response.
const overviewMaxChars = 2000

// runStats carries per-run observability data back to the handler.
type runStats struct {
	contextText string
	jsonValid   bool
	output      string
}

// Generate runs the studyplan pipeline: syllabus extraction, one constrained
// generation, normalization of the weekly outline, and rendering. The request
// must already be validated. A syllabus that does not resolve in the store is
// a not-found error before any model call.
func (s *Server) Generate(ctx context.Context, req *models.StudyPlanRequest) (*models.StudyPlanResponse, *runStats, error) {
	if _, err := s.store.Resolve(req.FileID, filestore.DocumentExts); err != nil {
		return nil, nil, err
	}

	ec := s.extractor.Build([]string{req.FileID}, s.config.Limits.SyllabusContextChars)
	if ec.Truncated {
		s.logger.Debug("syllabus truncated", zap.Int("budget", s.config.Limits.SyllabusContextChars))
	}

	stats := &runStats{contextText: ec.Text, jsonValid: true}

	raw, err := pipeline.GenerateJSON(ctx, "studyplan", s.userPrompt(req, ec.Text), func(ctx context.Context, user string) (string, error) {
		return s.client.Complete(ctx, systemPrompt, user, true)
	})
	if err != nil {
		return nil, stats, err
	}

	var parsed struct {
		Overview  string `json:"overview"`
		Resources any    `json:"resources"`
	}
	_ = json.Unmarshal(raw, &parsed)

	entries, shape := pipeline.Normalize(raw, "weekly_outline")
	if shape == pipeline.ShapeUnrecognized {
		stats.jsonValid = false
	}
	weeks := pipeline.WeeklyItems(entries, req.DurationWeeks)
	if len(weeks) < req.DurationWeeks {
		s.logger.Warn("plan under-produced",
			zap.Int("got", len(weeks)), zap.Int("want", req.DurationWeeks))
	}

	resp := &models.StudyPlanResponse{
		PlanID:        ident.New("sp"),
		Overview:      utils.Truncate(parsed.Overview, overviewMaxChars),
		WeeklyOutline: weeks,
		Resources:     pipeline.StringMaps(parsed.Resources),
	}

	path, err := s.renderer.Plan(resp.Overview, weeks, render.Params{
		Prefix:   "plan",
		Title:    "Study Plan",
		Language: req.TargetLanguage,
	})
	if err != nil {
		return nil, stats, err
	}
	resp.PlanPDFURL = s.store.PublicURL(path)

	if out, err := json.Marshal(resp); err == nil {
		stats.output = string(out)
	}
	return resp, stats, nil
}

func (s *Server) userPrompt(req *models.StudyPlanRequest, contextText string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Plan %d weeks of teaching", req.DurationWeeks)
	if len(req.Grades) > 0 {
		fmt.Fprintf(&b, " for grades %s", strings.Join(req.Grades, ", "))
	}
	b.WriteString(".\n")
	if len(req.Constraints) > 0 {
		if c, err := json.Marshal(req.Constraints); err == nil {
			fmt.Fprintf(&b, "Constraints: %s\n", c)
		}
	}
	if req.TargetLanguage != "" && req.TargetLanguage != "en" {
		fmt.Fprintf(&b, "Write the plan in language %q.\n", req.TargetLanguage)
	}
	b.WriteString("\nSyllabus:\n")
	b.WriteString(contextText)
	return b.String()
}
