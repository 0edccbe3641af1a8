package measure

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

// WhisperConfig holds configuration for the Whisper-compatible transcription
// backend.
type WhisperConfig struct {
	APIKey  string
	BaseURL string // default: "https://api.openai.com/v1"
	Model   string // default: "whisper-1"
}

// WhisperAssessor transcribes uploaded audio through a Whisper-compatible
// endpoint and scores the transcript against the reference text.
type WhisperAssessor struct {
	cfg        WhisperConfig
	httpClient *http.Client
}

// NewWhisperAssessor creates a WhisperAssessor with sensible defaults applied.
func NewWhisperAssessor(cfg WhisperConfig) *WhisperAssessor {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "whisper-1"
	}
	return &WhisperAssessor{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: 300 * time.Second,
		},
	}
}

func (a *WhisperAssessor) Name() string { return "whisper-align" }

// Measure transcribes the audio and aligns the transcript with the reference
// text.
func (a *WhisperAssessor) Measure(ctx context.Context, req MeasurementRequest) (*Assessment, error) {
	transcript, duration, err := a.transcribe(ctx, req)
	if err != nil {
		return nil, err
	}

	result := Score(req.ReferenceText, transcript, duration)
	result.Transcript = transcript
	result.ReferenceText = req.ReferenceText
	result.Language = req.Language
	return &result, nil
}

func (a *WhisperAssessor) transcribe(ctx context.Context, req MeasurementRequest) (string, float64, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	filename := req.Filename
	if filename == "" {
		filename = "audio.wav"
	}
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return "", 0, fmt.Errorf("create form file: %w", err)
	}
	if _, err = fw.Write(req.Audio); err != nil {
		return "", 0, fmt.Errorf("write audio data: %w", err)
	}

	_ = mw.WriteField("model", a.cfg.Model)
	_ = mw.WriteField("response_format", "verbose_json")
	if lang := languageCode(req.Language); lang != "" {
		_ = mw.WriteField("language", lang)
	}

	if err = mw.Close(); err != nil {
		return "", 0, fmt.Errorf("close multipart writer: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", a.cfg.BaseURL+"/audio/transcriptions", &body)
	if err != nil {
		return "", 0, err
	}
	httpReq.Header.Set("Content-Type", mw.FormDataContentType())
	if a.cfg.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+a.cfg.APIKey)
	}

	resp, err := a.httpClient.Do(httpReq)
	if err != nil {
		return "", 0, fmt.Errorf("transcription request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", 0, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", 0, fmt.Errorf("transcription failed (status %d): %s", resp.StatusCode, string(respBody))
	}

	var apiResp struct {
		Text     string  `json:"text"`
		Duration float64 `json:"duration"`
	}
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return "", 0, fmt.Errorf("parse response: %w", err)
	}
	return apiResp.Text, apiResp.Duration, nil
}

// languageCode reduces a locale like "en-US" to the ISO 639-1 code Whisper
// expects.
func languageCode(locale string) string {
	locale = strings.TrimSpace(locale)
	if locale == "" {
		return ""
	}
	if i := strings.IndexAny(locale, "-_"); i > 0 {
		return strings.ToLower(locale[:i])
	}
	return strings.ToLower(locale)
}
