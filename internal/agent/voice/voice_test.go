package voice

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/hyperjump/kyoshi/internal/config"
	"github.com/hyperjump/kyoshi/internal/filestore"
	"github.com/hyperjump/kyoshi/internal/llm"
	"github.com/hyperjump/kyoshi/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestServer(t *testing.T, stub *llm.Stub) (*Server, *filestore.Store) {
	t.Helper()
	dir := t.TempDir()
	store, err := filestore.New(dir, "/files")
	require.NoError(t, err)
	cfg := &config.Config{}
	config.ApplyDefaults(cfg)
	cfg.Store.Root = dir
	return NewServer(store, stub, cfg, zap.NewNop(), nil), store
}

func postExplain(t *testing.T, srv *Server, req models.VoiceRequest) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(req)
	require.NoError(t, err)
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/explain", bytes.NewReader(body)))
	return rec
}

func TestHandleExplain(t *testing.T) {
	stub := &llm.Stub{
		Transcript: "why is the sky blue",
		Replies:    []string{"Sunlight scatters in the atmosphere. Blue light scatters most."},
		Audio:      []byte("mp3-bytes"),
	}
	srv, store := newTestServer(t, stub)
	_, err := store.Write("question1.wav", []byte("riff-audio"))
	require.NoError(t, err)

	rec := postExplain(t, srv, models.VoiceRequest{FileID: "question1", Level: "grade 5"})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.VoiceResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, strings.HasPrefix(resp.AnswerID, "ans_"))
	assert.Equal(t, "why is the sky blue", resp.Transcript)
	assert.Contains(t, resp.Explanation, "scatters")
	assert.Equal(t, "/files/"+resp.AnswerID+".mp3", resp.AudioURL)

	data, err := os.ReadFile(store.Path(resp.AnswerID + ".mp3"))
	require.NoError(t, err)
	assert.Equal(t, []byte("mp3-bytes"), data)
}

func TestHandleExplainMissingAudio(t *testing.T) {
	srv, _ := newTestServer(t, &llm.Stub{})
	rec := postExplain(t, srv, models.VoiceRequest{FileID: "nope"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleExplainValidation(t *testing.T) {
	stub := &llm.Stub{}
	srv, _ := newTestServer(t, stub)

	rec := postExplain(t, srv, models.VoiceRequest{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = postExplain(t, srv, models.VoiceRequest{FileID: "x", VisualFormat: "interpretive-dance"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	assert.Equal(t, 0, stub.CompleteCalls)
}

func TestGenerateEmptyTranscript(t *testing.T) {
	stub := &llm.Stub{Transcript: "   "}
	srv, store := newTestServer(t, stub)
	_, err := store.Write("question1.wav", []byte("riff-audio"))
	require.NoError(t, err)

	req := &models.VoiceRequest{FileID: "question1"}
	require.NoError(t, req.Validate())
	_, _, err = srv.Generate(context.Background(), req)
	require.Error(t, err)
	var inputErr *models.InputError
	assert.ErrorAs(t, err, &inputErr)
	assert.Equal(t, 0, stub.CompleteCalls)
}

func TestGenerateSpeechFailureFailsRun(t *testing.T) {
	stub := &llm.Stub{
		Transcript: "what is a fraction",
		Replies:    []string{"A fraction is a part of a whole."},
	}
	srv, store := newTestServer(t, stub)
	_, err := store.Write("question1.mp3", []byte("audio"))
	require.NoError(t, err)

	// Speak fails only after the explanation has been produced.
	srv.client = &failAfterChat{Stub: stub}

	req := &models.VoiceRequest{FileID: "question1"}
	require.NoError(t, req.Validate())
	_, _, err = srv.Generate(context.Background(), req)
	require.Error(t, err)
	var genErr *models.GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, "speech", genErr.Stage)
}

func TestHandleExplainSpeechFailure(t *testing.T) {
	stub := &llm.Stub{
		Transcript: "what is a fraction",
		Replies:    []string{"A fraction is a part of a whole."},
	}
	srv, store := newTestServer(t, stub)
	_, err := store.Write("question1.mp3", []byte("audio"))
	require.NoError(t, err)
	srv.client = &failAfterChat{Stub: stub}

	rec := postExplain(t, srv, models.VoiceRequest{FileID: "question1"})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestGeneratePromptShapesFormat(t *testing.T) {
	stub := &llm.Stub{Transcript: "how do plants eat", Replies: []string{"Plants make food from light."}}
	srv, store := newTestServer(t, stub)
	_, err := store.Write("question1.wav", []byte("audio"))
	require.NoError(t, err)

	req := &models.VoiceRequest{FileID: "question1", VisualFormat: models.FormatSteps, TopicHint: "photosynthesis"}
	require.NoError(t, req.Validate())
	_, _, err = srv.Generate(context.Background(), req)
	require.NoError(t, err)
	assert.Contains(t, stub.LastUser, "numbered steps")
	assert.Contains(t, stub.LastUser, "photosynthesis")
}

// failAfterChat wraps Stub but fails speech synthesis.
type failAfterChat struct {
	*llm.Stub
}

func (f *failAfterChat) Speak(_ context.Context, _ string) ([]byte, error) {
	return nil, assert.AnError
}
