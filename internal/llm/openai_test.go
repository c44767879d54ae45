package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hyperjump/kyoshi/internal/config"
)

func testClient(t *testing.T, handler http.HandlerFunc) *OpenAI {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	cfg := config.OracleConfig{
		BaseURL:         srv.URL,
		APIKey:          "sk-test",
		ChatModel:       "chat-model",
		VisionModel:     "vision-model",
		TranscribeModel: "asr-model",
		SpeechModel:     "tts-model",
		SpeechVoice:     "alloy",
		EmbedModel:      "embed-model",
		TimeoutSeconds:  5,
	}
	return NewOpenAI(cfg)
}

func TestComplete_sendsStructuredMode(t *testing.T) {
	var gotReq chatRequest
	var gotAuth string
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("path: got %s", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Fatal(err)
		}
		_, _ = io.WriteString(w, `{"choices":[{"message":{"content":"{\"items\":[]}"}}]}`)
	})

	out, err := c.Complete(context.Background(), "sys", "user", true)
	if err != nil {
		t.Fatal(err)
	}
	if out != `{"items":[]}` {
		t.Errorf("got %q", out)
	}
	if gotAuth != "Bearer sk-test" {
		t.Errorf("auth: got %q", gotAuth)
	}
	if gotReq.Model != "chat-model" {
		t.Errorf("model: got %q", gotReq.Model)
	}
	if gotReq.ResponseFormat == nil || gotReq.ResponseFormat.Type != "json_object" {
		t.Errorf("response_format: got %+v", gotReq.ResponseFormat)
	}
	if len(gotReq.Messages) != 2 || gotReq.Messages[0].Role != "system" {
		t.Errorf("messages: got %+v", gotReq.Messages)
	}
}

func TestComplete_unstructuredOmitsResponseFormat(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if strings.Contains(string(body), "response_format") {
			t.Error("response_format should be omitted when structured is false")
		}
		_, _ = io.WriteString(w, `{"choices":[{"message":{"content":"plain text"}}]}`)
	})
	out, err := c.Complete(context.Background(), "sys", "user", false)
	if err != nil {
		t.Fatal(err)
	}
	if out != "plain text" {
		t.Errorf("got %q", out)
	}
}

func TestCompleteVision_inlinesImage(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		s := string(body)
		if !strings.Contains(s, `"vision-model"`) {
			t.Error("vision model not used")
		}
		if !strings.Contains(s, "data:image/png;base64,") {
			t.Error("image not inlined as data URL")
		}
		_, _ = io.WriteString(w, `{"choices":[{"message":{"content":"ok"}}]}`)
	})
	if _, err := c.CompleteVision(context.Background(), "sys", "user", []byte{1, 2, 3}, "image/png", true); err != nil {
		t.Fatal(err)
	}
}

func TestComplete_providerError(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"overloaded"}}`, http.StatusServiceUnavailable)
	})
	_, err := c.Complete(context.Background(), "sys", "user", false)
	var ae *apiError
	if !errors.As(err, &ae) {
		t.Fatalf("want apiError, got %v", err)
	}
	if ae.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("status: got %d", ae.StatusCode)
	}
}

func TestTranscribe(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/audio/transcriptions" {
			t.Errorf("path: got %s", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatal(err)
		}
		if got := r.FormValue("model"); got != "asr-model" {
			t.Errorf("model: got %q", got)
		}
		if got := r.FormValue("language"); got != "en" {
			t.Errorf("language: got %q", got)
		}
		f, hdr, err := r.FormFile("file")
		if err != nil {
			t.Fatal(err)
		}
		defer f.Close()
		if hdr.Filename != "q.wav" {
			t.Errorf("filename: got %q", hdr.Filename)
		}
		_, _ = io.WriteString(w, `{"text":" Why is the sky blue? "}`)
	})

	out, err := c.Transcribe(context.Background(), []byte("wav"), "q.wav", "en")
	if err != nil {
		t.Fatal(err)
	}
	if out != "Why is the sky blue?" {
		t.Errorf("got %q", out)
	}
}

func TestSpeak_returnsRawBytes(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/audio/speech" {
			t.Errorf("path: got %s", r.URL.Path)
		}
		var req speechRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatal(err)
		}
		if req.Voice != "alloy" || req.Model != "tts-model" {
			t.Errorf("req: %+v", req)
		}
		_, _ = w.Write([]byte("mp3-bytes"))
	})

	out, err := c.Speak(context.Background(), "hello class")
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != "mp3-bytes" {
		t.Errorf("got %q", out)
	}
}

func TestEmbed(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/embeddings" {
			t.Errorf("path: got %s", r.URL.Path)
		}
		_, _ = io.WriteString(w, `{"data":[{"embedding":[1,0]},{"embedding":[0,1]}]}`)
	})

	vecs, err := c.Embed(context.Background(), []string{"a", "b"})
	if err != nil {
		t.Fatal(err)
	}
	if len(vecs) != 2 || vecs[0][0] != 1 || vecs[1][1] != 1 {
		t.Errorf("got %v", vecs)
	}
}
