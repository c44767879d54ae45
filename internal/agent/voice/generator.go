package voice

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hyperjump/kyoshi/internal/filestore"
	"github.com/hyperjump/kyoshi/internal/ident"
	"github.com/hyperjump/kyoshi/internal/models"
)

const systemPrompt = `You are a patient teacher answering a student's spoken
question. Explain clearly at the requested level, using short sentences a
teacher could read aloud or write on the board. Answer in plain prose, no
JSON, no markdown.`

// runStats carries per-run observability data back to the handler.
type runStats struct {
	transcript string
	output     string
}

// Generate runs the voice pipeline: transcription, explanation, and speech
// synthesis. The request must already be validated.
func (s *Server) Generate(ctx context.Context, req *models.VoiceRequest) (*models.VoiceResponse, *runStats, error) {
	path, err := s.store.Resolve(req.FileID, filestore.AudioExts)
	if err != nil {
		return nil, nil, err
	}
	audio, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, &models.GenerationError{Stage: "audio-input", Err: err}
	}

	transcript, err := s.client.Transcribe(ctx, audio, filepath.Base(path), req.TargetLanguage)
	if err != nil {
		return nil, nil, &models.GenerationError{Stage: "transcribe", Err: err}
	}
	transcript = strings.TrimSpace(transcript)
	if transcript == "" {
		return nil, nil, models.NewInputError("audio could not be transcribed")
	}
	stats := &runStats{transcript: transcript}

	explanation, err := s.client.Complete(ctx, systemPrompt, s.userPrompt(req, transcript), false)
	if err != nil {
		return nil, stats, &models.GenerationError{Stage: "explain", Err: err}
	}
	explanation = strings.TrimSpace(explanation)
	stats.output = explanation

	resp := &models.VoiceResponse{
		AnswerID:    ident.New("ans"),
		Transcript:  transcript,
		Explanation: explanation,
	}

	speech, err := s.client.Speak(ctx, explanation)
	if err != nil {
		return nil, stats, &models.GenerationError{Stage: "speech", Err: err}
	}
	audioPath, err := s.store.Write(resp.AnswerID+".mp3", speech)
	if err != nil {
		return nil, stats, &models.RenderError{Path: resp.AnswerID + ".mp3", Err: err}
	}
	resp.AudioURL = s.store.PublicURL(audioPath)
	return resp, stats, nil
}

func (s *Server) userPrompt(req *models.VoiceRequest, transcript string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Student question (transcribed): %s\n\n", transcript)
	if req.Level != "" {
		fmt.Fprintf(&b, "Explain at level: %s.\n", req.Level)
	}
	switch req.VisualFormat {
	case models.FormatSteps:
		b.WriteString("Structure the answer as numbered steps.\n")
	case models.FormatStory:
		b.WriteString("Explain through a short story or analogy.\n")
	default:
		b.WriteString("Structure the answer as concise board notes.\n")
	}
	if req.TopicHint != "" {
		fmt.Fprintf(&b, "The question is likely about: %s.\n", req.TopicHint)
	}
	if req.TargetLanguage != "" && req.TargetLanguage != "en" {
		fmt.Fprintf(&b, "Answer in language %q.\n", req.TargetLanguage)
	}
	return b.String()
}
