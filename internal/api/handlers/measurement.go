package handlers

import (
	"io"
	"net/http"
	"strings"

	"github.com/notq/speech-backend/internal/speech/measure"
)

// maxUploadBytes caps uploaded audio at 25 MB, matching common STT limits.
const maxUploadBytes = 25 << 20

type MeasurementHandler struct {
	assessor measure.Provider
}

func NewMeasurementHandler(assessor measure.Provider) *MeasurementHandler {
	return &MeasurementHandler{assessor: assessor}
}

// Measure scores an uploaded recording against a reference text.
func (h *MeasurementHandler) Measure(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid multipart form"})
		return
	}

	file, header, err := r.FormFile("audio_file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "audio_file is required"})
		return
	}
	defer file.Close()

	referenceText := r.FormValue("reference_text")
	if strings.TrimSpace(referenceText) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "reference_text is required"})
		return
	}

	language := r.FormValue("language")
	if language == "" {
		language = "en-US"
	}

	audioBytes, err := io.ReadAll(file)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "failed to read audio file"})
		return
	}

	result, err := h.assessor.Measure(r.Context(), measure.MeasurementRequest{
		Audio:         audioBytes,
		Filename:      header.Filename,
		ReferenceText: referenceText,
		Language:      language,
	})
	if err != nil {
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, result)
}
