package handlers

import (
	"net/http"
	"strings"

	"github.com/notq/speech-backend/internal/speech/tts"
)

type SpeechHandler struct {
	svc *tts.Service
}

func NewSpeechHandler(svc *tts.Service) *SpeechHandler {
	return &SpeechHandler{svc: svc}
}

// Synthesize converts text to speech and returns the public file location.
// The route keeps the original "/text_to_speach" spelling for client
// compatibility.
func (h *SpeechHandler) Synthesize(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "message": "invalid form data"})
		return
	}

	text := r.FormValue("text")
	voiceName := r.FormValue("voice_name")
	if strings.TrimSpace(text) == "" || strings.TrimSpace(voiceName) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "message": "text and voice_name are required"})
		return
	}

	out, err := h.svc.SynthesizeToFile(r.Context(), tts.SynthesisRequest{Text: text, Voice: voiceName})
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"success":  false,
			"message":  "Error during TTS: " + err.Error(),
			"filename": nil,
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":      true,
		"message":      "Speech synthesized successfully.",
		"filename":     out.Filename,
		"download_url": downloadURL(r, out.Filename),
	})
}

// downloadURL builds an absolute link when the request carries enough
// information, falling back to a server-relative path.
func downloadURL(r *http.Request, filename string) string {
	path := "/public/" + filename
	if r.Host == "" {
		return path
	}
	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + r.Host + path
}
