package tts

import (
	"context"
	"encoding/hex"
	"fmt"

	"github.com/google/uuid"

	"github.com/notq/speech-backend/internal/audio"
	"github.com/notq/speech-backend/internal/storage"
)

// fallbackMIME is assumed when a provider reports no MIME type at all.
const fallbackMIME = "audio/L16;rate=24000"

// Service synthesizes speech and persists the result as a playable file.
type Service struct {
	provider Provider
	store    *storage.PublicStore
}

func NewService(p Provider, store *storage.PublicStore) *Service {
	return &Service{provider: p, store: store}
}

// SynthesisOutput describes the file written for a synthesis request.
type SynthesisOutput struct {
	Filename string
	MIMEType string
}

// SynthesizeToFile runs the provider and writes the normalized audio under a
// random filename in the public store.
func (s *Service) SynthesizeToFile(ctx context.Context, req SynthesisRequest) (*SynthesisOutput, error) {
	result, err := s.provider.Synthesize(ctx, req)
	if err != nil {
		return nil, err
	}

	payload, ext, outMIME := NormalizeAudio(result.Audio, result.MIMEType)

	u := uuid.New()
	filename := fmt.Sprintf("tts_%s%s", hex.EncodeToString(u[:]), ext)
	if err := s.store.Save(filename, payload); err != nil {
		return nil, err
	}

	return &SynthesisOutput{Filename: filename, MIMEType: outMIME}, nil
}

// NormalizeAudio applies the container policy: payloads already in a WAV
// container pass through unchanged; raw PCM payloads are wrapped per the
// parameters in the reported MIME type (defaulting to 16-bit/24000 Hz); any
// other recognized format is saved as-is under its own extension.
func NormalizeAudio(raw []byte, mimeType string) (payload []byte, ext string, outMIME string) {
	ext = audio.ExtensionForMIME(mimeType)
	if ext == "" {
		ext = ".wav"
	}

	if ext != ".wav" {
		return raw, ext, mimeType
	}

	if audio.IsWAV(mimeType) {
		return raw, ".wav", mimeType
	}

	src := mimeType
	if src == "" {
		src = fallbackMIME
	}
	params := audio.ParseMIMEParams(src)
	return audio.EncodeWAV(raw, params.BitsPerSample, params.SampleRate), ".wav", "audio/wav"
}
