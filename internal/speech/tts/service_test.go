package tts

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/notq/speech-backend/internal/audio"
	"github.com/notq/speech-backend/internal/storage"
)

func TestNormalizeAudioRawPCM(t *testing.T) {
	raw := []byte{0x01, 0x02, 0x03, 0x04}
	payload, ext, mime := NormalizeAudio(raw, "audio/L16;rate=24000")

	if ext != ".wav" || mime != "audio/wav" {
		t.Errorf("ext=%q mime=%q, want .wav/audio/wav", ext, mime)
	}
	if len(payload) != audio.WAVHeaderSize+len(raw) {
		t.Errorf("payload length %d, want %d", len(payload), audio.WAVHeaderSize+len(raw))
	}
	if !bytes.Equal(payload[audio.WAVHeaderSize:], raw) {
		t.Error("PCM bytes not preserved after the header")
	}
}

func TestNormalizeAudioEmptyMIMEDefaults(t *testing.T) {
	payload, ext, mime := NormalizeAudio([]byte{0, 0}, "")
	if ext != ".wav" || mime != "audio/wav" {
		t.Errorf("ext=%q mime=%q, want .wav/audio/wav", ext, mime)
	}
	want := audio.EncodeWAV([]byte{0, 0}, 16, 24000)
	if !bytes.Equal(payload, want) {
		t.Error("empty MIME type should fall back to audio/L16;rate=24000")
	}
}

func TestNormalizeAudioWAVPassthrough(t *testing.T) {
	wavBytes := audio.EncodeWAV([]byte{1, 2}, 16, 24000)
	payload, ext, mime := NormalizeAudio(wavBytes, "audio/wav")
	if ext != ".wav" || mime != "audio/wav" {
		t.Errorf("ext=%q mime=%q", ext, mime)
	}
	if !bytes.Equal(payload, wavBytes) {
		t.Error("WAV payload must pass through unchanged")
	}
}

func TestNormalizeAudioOtherFormat(t *testing.T) {
	mp3 := []byte{0xFF, 0xFB, 0x90}
	payload, ext, mime := NormalizeAudio(mp3, "audio/mpeg")
	if ext != ".mp3" || mime != "audio/mpeg" {
		t.Errorf("ext=%q mime=%q, want .mp3/audio/mpeg", ext, mime)
	}
	if !bytes.Equal(payload, mp3) {
		t.Error("non-WAV payload must be saved as given")
	}
}

type fakeProvider struct {
	result *SynthesisResult
	err    error
}

func (f *fakeProvider) Synthesize(context.Context, SynthesisRequest) (*SynthesisResult, error) {
	return f.result, f.err
}

func (f *fakeProvider) Name() string { return "fake" }

func TestSynthesizeToFile(t *testing.T) {
	store, err := storage.NewPublicStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	raw := []byte{0x10, 0x20, 0x30, 0x40}
	svc := NewService(&fakeProvider{result: &SynthesisResult{Audio: raw, MIMEType: "audio/L16;rate=24000"}}, store)

	out, err := svc.SynthesizeToFile(context.Background(), SynthesisRequest{Text: "hello", Voice: "zephyr"})
	if err != nil {
		t.Fatalf("SynthesizeToFile: %v", err)
	}
	if !strings.HasPrefix(out.Filename, "tts_") || !strings.HasSuffix(out.Filename, ".wav") {
		t.Errorf("unexpected filename %q", out.Filename)
	}

	data, err := os.ReadFile(filepath.Join(store.Dir(), out.Filename))
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if len(data) != audio.WAVHeaderSize+len(raw) {
		t.Errorf("file size %d, want %d", len(data), audio.WAVHeaderSize+len(raw))
	}
}

func TestSynthesizeToFileProviderError(t *testing.T) {
	store, err := storage.NewPublicStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	svc := NewService(&fakeProvider{err: fmt.Errorf("quota exceeded")}, store)
	if _, err := svc.SynthesizeToFile(context.Background(), SynthesisRequest{Text: "x"}); err == nil {
		t.Fatal("expected provider error to propagate")
	}
}

func TestGeminiSynthesizeStream(t *testing.T) {
	pcm := []byte{0xAA, 0xBB, 0xCC, 0xDD}
	chunk1 := base64.StdEncoding.EncodeToString(pcm[:2])
	chunk2 := base64.StdEncoding.EncodeToString(pcm[2:])

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/models/gemini-2.5-flash-preview-tts:streamGenerateContent" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if r.Header.Get("x-goog-api-key") != "test-key" {
			t.Errorf("missing api key header")
		}
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprintf(w, "data: {\"candidates\":[{\"content\":{\"parts\":[{\"inlineData\":{\"mimeType\":\"audio/L16;rate=24000\",\"data\":%q}}]}}]}\n\n", chunk1)
		fmt.Fprintf(w, "data: {\"candidates\":[{\"content\":{\"parts\":[{\"inlineData\":{\"data\":%q}}]}}]}\n\n", chunk2)
		fmt.Fprint(w, "data: {\"candidates\":[]}\n\n")
	}))
	defer srv.Close()

	g := NewGeminiTTS(GeminiConfig{APIKey: "test-key", BaseURL: srv.URL})
	result, err := g.Synthesize(context.Background(), SynthesisRequest{Text: "hi", Voice: "zephyr"})
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if !bytes.Equal(result.Audio, pcm) {
		t.Errorf("audio = %x, want %x", result.Audio, pcm)
	}
	if result.MIMEType != "audio/L16;rate=24000" {
		t.Errorf("mime = %q", result.MIMEType)
	}
}

func TestGeminiSynthesizeNoAudio(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "data: {\"candidates\":[{\"content\":{\"parts\":[{}]}}]}\n\n")
	}))
	defer srv.Close()

	g := NewGeminiTTS(GeminiConfig{APIKey: "k", BaseURL: srv.URL})
	if _, err := g.Synthesize(context.Background(), SynthesisRequest{Text: "hi"}); err == nil {
		t.Fatal("expected error when the stream carries no audio")
	}
}
