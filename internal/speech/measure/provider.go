// Package measure scores spoken audio against a reference text: a
// transcription backend turns audio into words, and a deterministic aligner
// derives pronunciation-level scores from the comparison.
package measure

import "context"

// WordScore reports whether one reference word was recognized in the
// transcript.
type WordScore struct {
	Word    string `json:"word"`
	Matched bool   `json:"matched"`
}

// Assessment is the result returned to API clients.
type Assessment struct {
	Transcript        string      `json:"transcript"`
	ReferenceText     string      `json:"reference_text"`
	Language          string      `json:"language"`
	AccuracyScore     float64     `json:"accuracy_score"`     // 0-100, precision of spoken words
	CompletenessScore float64     `json:"completeness_score"` // 0-100, reference coverage
	FluencyScore      float64     `json:"fluency_score"`      // 0-100, speaking-rate band
	OverallScore      float64     `json:"overall_score"`
	Level             string      `json:"level"` // excellent, good, fair, needs practice
	Words             []WordScore `json:"words"`
	DurationSeconds   float64     `json:"duration_seconds"`
}

// MeasurementRequest carries the uploaded audio and its reference text.
type MeasurementRequest struct {
	Audio         []byte
	Filename      string
	ReferenceText string
	Language      string // locale hint, e.g. "en-US"
}

// Provider is the interface for pronunciation assessment backends.
type Provider interface {
	Measure(ctx context.Context, req MeasurementRequest) (*Assessment, error)
	Name() string
}
