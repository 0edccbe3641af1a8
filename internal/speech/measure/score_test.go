package measure

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
)

func TestScorePerfectMatch(t *testing.T) {
	// ~100 wpm keeps the fluency component at 100.
	got := Score("The quick brown fox", "the quick brown fox!", 2.4)
	if got.AccuracyScore != 100 || got.CompletenessScore != 100 || got.FluencyScore != 100 {
		t.Errorf("perfect read should score 100s, got %+v", got)
	}
	if got.OverallScore != 100 || got.Level != "excellent" {
		t.Errorf("overall = %v level = %q", got.OverallScore, got.Level)
	}
	for _, w := range got.Words {
		if !w.Matched {
			t.Errorf("word %q not matched", w.Word)
		}
	}
}

func TestScorePartialMatch(t *testing.T) {
	got := Score("mama wants more juice", "mama more", 1.5)
	if got.CompletenessScore != 50 {
		t.Errorf("completeness = %v, want 50", got.CompletenessScore)
	}
	if got.AccuracyScore != 100 {
		t.Errorf("accuracy = %v, want 100 (everything spoken was in the reference)", got.AccuracyScore)
	}
	wantMatched := []bool{true, false, true, false}
	var matched []bool
	for _, w := range got.Words {
		matched = append(matched, w.Matched)
	}
	if !reflect.DeepEqual(matched, wantMatched) {
		t.Errorf("matched = %v, want %v", matched, wantMatched)
	}
}

func TestScoreNoSpeech(t *testing.T) {
	got := Score("hello world", "", 3)
	if got.AccuracyScore != 0 || got.CompletenessScore != 0 || got.OverallScore != 0 {
		t.Errorf("silence should score zero, got %+v", got)
	}
	if got.Level != "needs practice" {
		t.Errorf("level = %q", got.Level)
	}
}

func TestScoreOutOfOrderWords(t *testing.T) {
	// Only an in-order subsequence counts as matched.
	got := Score("one two three", "three two one", 1.8)
	if got.CompletenessScore >= 100 {
		t.Errorf("out-of-order read should not be complete, got %v", got.CompletenessScore)
	}
}

func TestScoreZeroDuration(t *testing.T) {
	got := Score("hello world", "hello world", 0)
	if got.FluencyScore != 0 {
		t.Errorf("fluency = %v, want 0 without duration", got.FluencyScore)
	}
	// The fluency weight shifts to accuracy so a perfect read still rates 100.
	if got.OverallScore != 100 {
		t.Errorf("overall = %v, want 100", got.OverallScore)
	}
}

func TestFluencyScoreBands(t *testing.T) {
	tests := []struct {
		words    int
		duration float64
		want     float64
	}{
		{20, 12, 100}, // 100 wpm
		{8, 12, 50},   // 40 wpm: half of the lower bound
		{0, 12, 0},
		{64, 12, 20}, // 320 wpm: 100 - 160/2
	}
	for _, tt := range tests {
		if got := fluencyScore(tt.words, tt.duration); got != tt.want {
			t.Errorf("fluencyScore(%d, %v) = %v, want %v", tt.words, tt.duration, got, tt.want)
		}
	}
}

func TestNormalizeWords(t *testing.T) {
	got := normalizeWords("Don't STOP, me now!")
	want := []string{"don't", "stop", "me", "now"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("normalizeWords = %v, want %v", got, want)
	}
}

func TestLanguageCode(t *testing.T) {
	tests := map[string]string{
		"en-US": "en",
		"ar":    "ar",
		"pt_BR": "pt",
		"":      "",
	}
	for in, want := range tests {
		if got := languageCode(in); got != want {
			t.Errorf("languageCode(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestWhisperAssessorMeasure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/audio/transcriptions" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		if got := r.FormValue("language"); got != "en" {
			t.Errorf("language field = %q, want en", got)
		}
		fmt.Fprint(w, `{"text": "the quick brown fox", "language": "english", "duration": 2.4}`)
	}))
	defer srv.Close()

	a := NewWhisperAssessor(WhisperConfig{APIKey: "k", BaseURL: srv.URL})
	got, err := a.Measure(context.Background(), MeasurementRequest{
		Audio:         []byte("fake-wav-bytes"),
		Filename:      "sample.wav",
		ReferenceText: "The quick brown fox",
		Language:      "en-US",
	})
	if err != nil {
		t.Fatalf("Measure: %v", err)
	}
	if got.Transcript != "the quick brown fox" {
		t.Errorf("transcript = %q", got.Transcript)
	}
	if got.OverallScore != 100 || got.Level != "excellent" {
		t.Errorf("scores: %+v", got)
	}
	if got.Language != "en-US" || got.DurationSeconds != 2.4 {
		t.Errorf("metadata: %+v", got)
	}
}
