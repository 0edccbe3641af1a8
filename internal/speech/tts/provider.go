package tts

import "context"

// SynthesisRequest holds the parameters for text-to-speech generation.
type SynthesisRequest struct {
	Text  string `json:"text"`
	Voice string `json:"voice,omitempty"`
}

// SynthesisResult holds the generated audio and the MIME type the provider
// reported for it. The MIME type may describe raw PCM (e.g.
// "audio/L16;rate=24000") rather than a playable container.
type SynthesisResult struct {
	Audio    []byte
	MIMEType string
}

// Provider is the interface for text-to-speech backends.
type Provider interface {
	Synthesize(ctx context.Context, req SynthesisRequest) (*SynthesisResult, error)
	Name() string
}
