package worksheet

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/hyperjump/kyoshi/internal/extract"
	"github.com/hyperjump/kyoshi/internal/filestore"
	"github.com/hyperjump/kyoshi/internal/ident"
	"github.com/hyperjump/kyoshi/internal/models"
	"github.com/hyperjump/kyoshi/internal/pipeline"
	"github.com/hyperjump/kyoshi/internal/render"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// runStats carries per-run observability data back to the handler.
type runStats struct {
	contextText string
	jsonValid   bool
	output      string
}

// Generate runs the full worksheet pipeline: context extraction, one
// constrained generation per set (fanned out concurrently), normalization,
// and rendering. The request must already be validated. A request whose
// sources all fail to resolve is a not-found error before any model call;
// individually missing sources among several contribute inline annotations.
func (s *Server) Generate(ctx context.Context, req *models.WorksheetRequest) (*models.WorksheetResponse, *runStats, error) {
	found := 0
	for _, id := range req.Sources() {
		if _, err := s.store.Resolve(id, filestore.DocumentExts, filestore.ImageExts); err == nil {
			found++
		}
	}
	if found == 0 {
		return nil, nil, fmt.Errorf("no source file for request: %w", models.ErrNotFound)
	}

	ec := s.extractor.Build(req.Sources(), s.config.Limits.WorksheetContextChars)
	if ec.Truncated {
		s.logger.Debug("context truncated", zap.Int("budget", s.config.Limits.WorksheetContextChars))
	}

	call, err := s.bindCall(ec)
	if err != nil {
		return nil, nil, err
	}

	stats := &runStats{contextText: ec.Text, jsonValid: true}
	var mu sync.Mutex

	sets := make([]models.WorksheetSet, req.NumSets)
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < req.NumSets; i++ {
		i := i
		g.Go(func() error {
			difficulty := req.DifficultyFor(i)
			prompt := userPrompt(req.GradeBands, difficulty, req.QuestionsPerSet, req.QuestionMix, req.Language, ec.Text)
			raw, err := pipeline.GenerateJSON(gctx, "worksheet", prompt, call)
			if err != nil {
				return err
			}
			entries, shape := pipeline.Normalize(raw, "items")
			if shape == pipeline.ShapeUnrecognized {
				mu.Lock()
				stats.jsonValid = false
				mu.Unlock()
			}
			items := pipeline.WorksheetItems(entries, req.QuestionsPerSet)
			if len(items) < req.QuestionsPerSet {
				s.logger.Warn("set under-produced",
					zap.Int("set", i), zap.Int("got", len(items)), zap.Int("want", req.QuestionsPerSet))
			}

			path, err := s.renderer.Worksheet(items, render.Params{
				Prefix:     "worksheet",
				Title:      "Worksheet",
				Difficulty: difficulty,
				SetIndex:   i,
				Language:   req.Language,
			})
			if err != nil {
				return err
			}
			sets[i] = models.WorksheetSet{
				SetIndex:   i,
				Difficulty: difficulty,
				Items:      items,
				PDFURL:     s.store.PublicURL(path),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, stats, err
	}

	if out, err := json.Marshal(sets); err == nil {
		stats.output = string(out)
	}
	return &models.WorksheetResponse{WorksheetID: ident.New("ws"), Sets: sets}, stats, nil
}

// bindCall binds the model transport for this run: a vision call carrying the
// first resolved image when the sources include one, a plain chat call
// otherwise.
func (s *Server) bindCall(ec *extract.Context) (pipeline.Call, error) {
	if !ec.NeedsVision || len(ec.ImagePaths) == 0 {
		return func(ctx context.Context, user string) (string, error) {
			return s.client.Complete(ctx, systemPrompt, user, true)
		}, nil
	}

	imgPath := ec.ImagePaths[0]
	img, err := os.ReadFile(imgPath)
	if err != nil {
		return nil, &models.GenerationError{Stage: "vision-input", Err: err}
	}
	mime := "image/png"
	if ext := filepath.Ext(imgPath); ext == ".jpg" || ext == ".jpeg" {
		mime = "image/jpeg"
	}
	return func(ctx context.Context, user string) (string, error) {
		return s.client.CompleteVision(ctx, systemPrompt, user, img, mime, true)
	}, nil
}
