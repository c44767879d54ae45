package metrics

import (
	"context"
	"regexp"
	"strconv"

	"github.com/hyperjump/kyoshi/internal/llm"
	"github.com/hyperjump/kyoshi/pkg/utils"
	"go.uber.org/zap"
)

// Evaluator scores generated content against its source material. Both scores
// are best effort: any failure yields zero and a warning.
type Evaluator struct {
	client llm.Client
	judge  bool
	logger *zap.Logger
}

// NewEvaluator creates an evaluator. When judge is false, Quality always
// returns zero without calling the model.
func NewEvaluator(client llm.Client, judge bool, logger *zap.Logger) *Evaluator {
	return &Evaluator{client: client, judge: judge, logger: logger}
}

const evalInputChars = 4000

// Accuracy measures cosine similarity between embeddings of the source
// material and the generated output, in [0, 1].
func (e *Evaluator) Accuracy(ctx context.Context, source, output string) float64 {
	if source == "" || output == "" {
		return 0
	}
	vecs, err := e.client.Embed(ctx, []string{
		utils.Truncate(source, evalInputChars),
		utils.Truncate(output, evalInputChars),
	})
	if err != nil || len(vecs) < 2 {
		e.logger.Warn("metrics: embed for accuracy", zap.Error(err))
		return 0
	}
	cos := utils.Cosine(vecs[0], vecs[1])
	if cos < 0 {
		return 0
	}
	return cos
}

var scoreRe = regexp.MustCompile(`\d+(?:\.\d+)?`)

const judgeSystem = "You grade educational content. Rate the pedagogical quality " +
	"of the material on a scale of 1 to 10. Reply with the number first."

// Quality asks the model to grade the output on a 1-10 scale and parses the
// first number from the reply.
func (e *Evaluator) Quality(ctx context.Context, output string) float64 {
	if !e.judge || output == "" {
		return 0
	}
	reply, err := e.client.Complete(ctx, judgeSystem, utils.Truncate(output, evalInputChars), false)
	if err != nil {
		e.logger.Warn("metrics: quality judge", zap.Error(err))
		return 0
	}
	m := scoreRe.FindString(reply)
	if m == "" {
		e.logger.Warn("metrics: judge reply had no score", zap.String("reply", utils.Truncate(reply, 80)))
		return 0
	}
	score, err := strconv.ParseFloat(m, 64)
	if err != nil || score < 1 || score > 10 {
		return 0
	}
	return score
}
