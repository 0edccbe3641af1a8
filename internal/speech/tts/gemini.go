package tts

import (
	"bufio"
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// GeminiConfig holds configuration for the Gemini TTS backend.
type GeminiConfig struct {
	APIKey  string
	BaseURL string // default: "https://generativelanguage.googleapis.com/v1beta"
	Model   string // default: "gemini-2.5-flash-preview-tts"
}

// GeminiTTS synthesizes speech with Gemini's generative voice models via the
// streaming generateContent endpoint. Audio arrives as base64 inline-data
// chunks of raw PCM; callers are expected to containerize the payload.
type GeminiTTS struct {
	cfg        GeminiConfig
	httpClient *http.Client
}

// NewGeminiTTS creates a GeminiTTS with sensible defaults applied.
func NewGeminiTTS(cfg GeminiConfig) *GeminiTTS {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://generativelanguage.googleapis.com/v1beta"
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-2.5-flash-preview-tts"
	}
	return &GeminiTTS{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

func (g *GeminiTTS) Name() string { return "gemini-tts" }

type geminiStreamChunk struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				InlineData struct {
					MimeType string `json:"mimeType"`
					Data     string `json:"data"`
				} `json:"inlineData"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Synthesize streams audio chunks from the model and concatenates them. The
// reported MIME type is taken from the last chunk that carried one.
func (g *GeminiTTS) Synthesize(ctx context.Context, req SynthesisRequest) (*SynthesisResult, error) {
	if g.cfg.APIKey == "" {
		return nil, fmt.Errorf("missing GOOGLE_API_KEY in environment")
	}

	body := map[string]any{
		"contents": []map[string]any{
			{
				"role":  "user",
				"parts": []map[string]any{{"text": req.Text}},
			},
		},
		"generationConfig": map[string]any{
			"temperature":        1,
			"responseModalities": []string{"AUDIO"},
			"speechConfig": map[string]any{
				"voiceConfig": map[string]any{
					"prebuiltVoiceConfig": map[string]any{"voiceName": req.Voice},
				},
			},
		},
	}

	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:streamGenerateContent?alt=sse", g.cfg.BaseURL, g.cfg.Model)
	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", g.cfg.APIKey)

	resp, err := g.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("tts request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("tts failed (status %d): %s", resp.StatusCode, string(respBody))
	}

	audio, mimeType, err := collectSSEAudio(resp.Body)
	if err != nil {
		return nil, err
	}
	if len(audio) == 0 {
		return nil, fmt.Errorf("no audio data received from model")
	}

	return &SynthesisResult{Audio: audio, MIMEType: mimeType}, nil
}

// collectSSEAudio reads server-sent events and concatenates the inline audio
// data of every chunk. Events without audio parts are skipped.
func collectSSEAudio(r io.Reader) ([]byte, string, error) {
	var audio bytes.Buffer
	var mimeType string

	scanner := bufio.NewScanner(r)
	// Inline audio chunks are large; a single event can run to megabytes.
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		payload := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if payload == "" || payload == "[DONE]" {
			continue
		}

		var chunk geminiStreamChunk
		if err := json.Unmarshal([]byte(payload), &chunk); err != nil {
			return nil, "", fmt.Errorf("parse stream chunk: %w", err)
		}
		if len(chunk.Candidates) == 0 {
			continue
		}
		for _, part := range chunk.Candidates[0].Content.Parts {
			if part.InlineData.Data == "" {
				continue
			}
			if part.InlineData.MimeType != "" {
				mimeType = part.InlineData.MimeType
			}
			raw, err := base64.StdEncoding.DecodeString(part.InlineData.Data)
			if err != nil {
				return nil, "", fmt.Errorf("decode audio chunk: %w", err)
			}
			audio.Write(raw)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, "", fmt.Errorf("read stream: %w", err)
	}
	return audio.Bytes(), mimeType, nil
}
