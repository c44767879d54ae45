package llm

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/hyperjump/kyoshi/internal/config"
)

// OpenAI implements Client against an OpenAI-compatible API. It also works
// with any compatible service by setting a custom base URL. One configured
// client is constructed at process start and shared by every pipeline run;
// it holds no per-request state.
type OpenAI struct {
	cfg        config.OracleConfig
	httpClient *http.Client
}

// NewOpenAI creates a provider client from cfg.
func NewOpenAI(cfg config.OracleConfig) *OpenAI {
	timeout := cfg.Timeout()
	if timeout <= 0 {
		timeout = 90 * time.Second
	}
	return &OpenAI{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    float64         `json:"temperature"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// apiError represents a non-2xx reply from the provider.
type apiError struct {
	StatusCode int
	Body       string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Body)
}

// Complete implements Client.
func (c *OpenAI) Complete(ctx context.Context, system, user string, structured bool) (string, error) {
	return c.chat(ctx, c.cfg.ChatModel, []chatMessage{
		{Role: "system", Content: system},
		{Role: "user", Content: user},
	}, structured)
}

// CompleteVision implements Client. The image travels inline as a base64
// data URL content part alongside the user text.
func (c *OpenAI) CompleteVision(ctx context.Context, system, user string, image []byte, mime string, structured bool) (string, error) {
	if mime == "" {
		mime = "image/png"
	}
	dataURL := fmt.Sprintf("data:%s;base64,%s", mime, base64.StdEncoding.EncodeToString(image))
	parts := []contentPart{
		{Type: "text", Text: user},
		{Type: "image_url", ImageURL: &imageURL{URL: dataURL}},
	}
	return c.chat(ctx, c.cfg.VisionModel, []chatMessage{
		{Role: "system", Content: system},
		{Role: "user", Content: parts},
	}, structured)
}

func (c *OpenAI) chat(ctx context.Context, model string, messages []chatMessage, structured bool) (string, error) {
	reqBody := chatRequest{
		Model:       model,
		Messages:    messages,
		Temperature: 0.3,
	}
	if structured {
		reqBody.ResponseFormat = &responseFormat{Type: "json_object"}
	}
	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	respBody, err := c.post(ctx, "/chat/completions", "application/json", bytes.NewReader(body))
	if err != nil {
		return "", err
	}

	var chatResp chatResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}
	if chatResp.Error != nil {
		return "", fmt.Errorf("api error: %s", chatResp.Error.Message)
	}
	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}
	return chatResp.Choices[0].Message.Content, nil
}

// Transcribe implements Client via the multipart transcription endpoint.
func (c *OpenAI) Transcribe(ctx context.Context, audio []byte, filename, languageHint string) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if err := mw.WriteField("model", c.cfg.TranscribeModel); err != nil {
		return "", fmt.Errorf("build form: %w", err)
	}
	if languageHint != "" {
		if err := mw.WriteField("language", languageHint); err != nil {
			return "", fmt.Errorf("build form: %w", err)
		}
	}
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("build form: %w", err)
	}
	if _, err := fw.Write(audio); err != nil {
		return "", fmt.Errorf("build form: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("build form: %w", err)
	}

	respBody, err := c.post(ctx, "/audio/transcriptions", mw.FormDataContentType(), &buf)
	if err != nil {
		return "", err
	}
	var out struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(respBody, &out); err != nil {
		return "", fmt.Errorf("unmarshal transcription: %w", err)
	}
	return strings.TrimSpace(out.Text), nil
}

type speechRequest struct {
	Model string `json:"model"`
	Voice string `json:"voice"`
	Input string `json:"input"`
}

// Speak implements Client, returning the synthesized MP3 bytes.
func (c *OpenAI) Speak(ctx context.Context, text string) ([]byte, error) {
	body, err := json.Marshal(speechRequest{
		Model: c.cfg.SpeechModel,
		Voice: c.cfg.SpeechVoice,
		Input: text,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	return c.post(ctx, "/audio/speech", "application/json", bytes.NewReader(body))
}

type embedRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embedResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
}

// Embed implements Client.
func (c *OpenAI) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	body, err := json.Marshal(embedRequest{Model: c.cfg.EmbedModel, Input: texts})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	respBody, err := c.post(ctx, "/embeddings", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	var out embedResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, fmt.Errorf("unmarshal embeddings: %w", err)
	}
	vectors := make([][]float32, len(out.Data))
	for i, d := range out.Data {
		vectors[i] = d.Embedding
	}
	return vectors, nil
}

// post performs one call against the provider. Transport and provider errors
// are returned as-is; this layer never retries.
func (c *OpenAI) post(ctx context.Context, path, contentType string, body io.Reader) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimRight(c.cfg.BaseURL, "/")+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &apiError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}
	return respBody, nil
}
