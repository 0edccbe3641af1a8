package measure

import (
	"strings"
	"unicode"
)

// Score weights and level bands for the overall rating.
const (
	accuracyWeight     = 0.5
	completenessWeight = 0.3
	fluencyWeight      = 0.2
)

// Score compares a transcript against the reference text and derives the
// assessment numbers. Pure and deterministic; duration of zero disables the
// fluency component (its weight shifts to accuracy).
func Score(reference, transcript string, durationSeconds float64) Assessment {
	refWords := normalizeWords(reference)
	hypWords := normalizeWords(transcript)

	matchedRef := alignWords(refWords, hypWords)
	matched := 0
	words := make([]WordScore, len(refWords))
	for i, w := range refWords {
		words[i] = WordScore{Word: w, Matched: matchedRef[i]}
		if matchedRef[i] {
			matched++
		}
	}

	var accuracy, completeness float64
	if len(hypWords) > 0 {
		accuracy = 100 * float64(matched) / float64(len(hypWords))
		if accuracy > 100 {
			accuracy = 100
		}
	}
	if len(refWords) > 0 {
		completeness = 100 * float64(matched) / float64(len(refWords))
	}

	var overall float64
	fluency := fluencyScore(len(hypWords), durationSeconds)
	if durationSeconds > 0 {
		overall = accuracyWeight*accuracy + completenessWeight*completeness + fluencyWeight*fluency
	} else {
		overall = (accuracyWeight+fluencyWeight)*accuracy + completenessWeight*completeness
	}

	return Assessment{
		AccuracyScore:     round1(accuracy),
		CompletenessScore: round1(completeness),
		FluencyScore:      round1(fluency),
		OverallScore:      round1(overall),
		Level:             levelFor(overall),
		Words:             words,
		DurationSeconds:   durationSeconds,
	}
}

// fluencyScore rates the speaking rate: a conversational 80-160 words per
// minute scores 100, tapering linearly outside that band.
func fluencyScore(wordCount int, durationSeconds float64) float64 {
	if durationSeconds <= 0 || wordCount == 0 {
		return 0
	}
	wpm := float64(wordCount) / durationSeconds * 60
	switch {
	case wpm >= 80 && wpm <= 160:
		return 100
	case wpm < 80:
		return 100 * wpm / 80
	default:
		over := wpm - 160
		score := 100 - over/2
		if score < 0 {
			return 0
		}
		return score
	}
}

func levelFor(overall float64) string {
	switch {
	case overall >= 90:
		return "excellent"
	case overall >= 75:
		return "good"
	case overall >= 60:
		return "fair"
	default:
		return "needs practice"
	}
}

// normalizeWords lowercases, strips punctuation, and splits on whitespace.
func normalizeWords(s string) []string {
	var sb strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsNumber(r):
			sb.WriteRune(r)
		case r == '\'':
			// keep apostrophes inside contractions
			sb.WriteRune(r)
		default:
			sb.WriteRune(' ')
		}
	}
	return strings.Fields(sb.String())
}

// alignWords marks which reference words appear, in order, in the hypothesis
// via a longest-common-subsequence alignment.
func alignWords(ref, hyp []string) []bool {
	matched := make([]bool, len(ref))
	if len(ref) == 0 || len(hyp) == 0 {
		return matched
	}

	// lcs[i][j] = LCS length of ref[i:] and hyp[j:]
	lcs := make([][]int, len(ref)+1)
	for i := range lcs {
		lcs[i] = make([]int, len(hyp)+1)
	}
	for i := len(ref) - 1; i >= 0; i-- {
		for j := len(hyp) - 1; j >= 0; j-- {
			if ref[i] == hyp[j] {
				lcs[i][j] = lcs[i+1][j+1] + 1
			} else if lcs[i+1][j] >= lcs[i][j+1] {
				lcs[i][j] = lcs[i+1][j]
			} else {
				lcs[i][j] = lcs[i][j+1]
			}
		}
	}

	i, j := 0, 0
	for i < len(ref) && j < len(hyp) {
		switch {
		case ref[i] == hyp[j]:
			matched[i] = true
			i++
			j++
		case lcs[i+1][j] >= lcs[i][j+1]:
			i++
		default:
			j++
		}
	}
	return matched
}

func round1(v float64) float64 {
	return float64(int(v*10+0.5)) / 10
}
