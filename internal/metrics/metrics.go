// Package metrics records one JSONL entry per generation run and aggregates
// them into per-agent summaries. Recording is best effort: a metrics failure
// is logged and never fails the request that produced it.
package metrics

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Entry is one recorded generation run.
type Entry struct {
	Timestamp    string  `json:"timestamp"`
	Agent        string  `json:"agent"`
	Success      bool    `json:"success"`
	JSONValid    bool    `json:"json_valid"`
	QualityScore float64 `json:"quality_score"`
	Accuracy     float64 `json:"accuracy"`
	LatencyMS    int64   `json:"latency_ms"`
}

// Logger appends entries to a JSONL file.
type Logger struct {
	mu     sync.Mutex
	path   string
	logger *zap.Logger
}

// NewLogger creates a metrics logger writing to path.
func NewLogger(path string, logger *zap.Logger) *Logger {
	return &Logger{path: path, logger: logger}
}

// Record appends one entry. Failures are logged, not returned.
func (l *Logger) Record(e Entry) {
	if e.Timestamp == "" {
		e.Timestamp = time.Now().UTC().Format(time.RFC3339)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		l.logger.Warn("metrics: create directory", zap.Error(err))
		return
	}
	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		l.logger.Warn("metrics: open log", zap.Error(err))
		return
	}
	defer f.Close()

	line, err := json.Marshal(e)
	if err != nil {
		l.logger.Warn("metrics: marshal entry", zap.Error(err))
		return
	}
	if _, err := f.Write(append(line, '\n')); err != nil {
		l.logger.Warn("metrics: write entry", zap.Error(err))
	}
}

// Summary aggregates the entries of one agent.
type Summary struct {
	Agent       string  `json:"agent"`
	Total       int     `json:"total"`
	Reliability float64 `json:"reliability"`
	JSONValid   float64 `json:"json_valid_rate"`
	MeanQuality float64 `json:"mean_quality"`
	MeanAcc     float64 `json:"mean_accuracy"`
	MeanLatency float64 `json:"mean_latency_ms"`
}

// Load reads all entries from path. Malformed lines are skipped.
func Load(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var entries []Entry
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		var e Entry
		if err := json.Unmarshal(sc.Bytes(), &e); err != nil {
			continue
		}
		entries = append(entries, e)
	}
	return entries, sc.Err()
}

// Aggregate groups entries by agent and computes per-agent summaries.
func Aggregate(entries []Entry) map[string]Summary {
	type acc struct {
		total, success, valid   int
		quality, accSum, latSum float64
		qualityN, accN          int
	}
	byAgent := map[string]*acc{}
	for _, e := range entries {
		a := byAgent[e.Agent]
		if a == nil {
			a = &acc{}
			byAgent[e.Agent] = a
		}
		a.total++
		if e.Success {
			a.success++
		}
		if e.JSONValid {
			a.valid++
		}
		if e.QualityScore > 0 {
			a.quality += e.QualityScore
			a.qualityN++
		}
		if e.Accuracy > 0 {
			a.accSum += e.Accuracy
			a.accN++
		}
		a.latSum += float64(e.LatencyMS)
	}

	out := make(map[string]Summary, len(byAgent))
	for agent, a := range byAgent {
		s := Summary{
			Agent:       agent,
			Total:       a.total,
			Reliability: float64(a.success) / float64(a.total),
			JSONValid:   float64(a.valid) / float64(a.total),
			MeanLatency: a.latSum / float64(a.total),
		}
		if a.qualityN > 0 {
			s.MeanQuality = a.quality / float64(a.qualityN)
		}
		if a.accN > 0 {
			s.MeanAcc = a.accSum / float64(a.accN)
		}
		out[agent] = s
	}
	return out
}
