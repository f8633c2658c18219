package intelligence

import (
	"regexp"
	"strings"
	"unicode"
)

// Sub-score weights. They sum to 1 so Score stays in [0,1] before the
// final clamp.
const (
	vocabularyWeight = 0.40
	structureWeight  = 0.30
	factualWeight    = 0.30
)

// structureMarker matches list markers, markdown headers, code fences
// and lines ending in a colon (enumeration introductions).
var structureMarker = regexp.MustCompile("(?m)(^[ \t]*([-*+]|[0-9]+[.)])[ \t]+|^#{1,6}[ \t]|```|:[ \t]*$)")

// Score estimates the information density of content as a value in
// [0,1]. It is a weighted sum of three independently clamped
// sub-scores: vocabulary richness, structural signal and factual
// density. Empty content scores 0.
func Score(content string) float64 {
	tokens := strings.Fields(content)
	if len(tokens) == 0 {
		return 0
	}
	score := vocabularyWeight*vocabularyRichness(tokens) +
		structureWeight*structuralSignal(content) +
		factualWeight*factualDensity(tokens)
	return clamp01(score)
}

// vocabularyRichness is the ratio of unique lowercased tokens to total
// tokens.
func vocabularyRichness(tokens []string) float64 {
	if len(tokens) == 0 {
		return 0
	}
	seen := make(map[string]struct{}, len(tokens))
	for _, tok := range tokens {
		seen[strings.ToLower(tok)] = struct{}{}
	}
	return clamp01(float64(len(seen)) / float64(len(tokens)))
}

// structuralSignal is a fixed bonus for the presence of structure
// markers: lists, headers, code fences, trailing colons.
func structuralSignal(content string) float64 {
	if structureMarker.MatchString(content) {
		return 1
	}
	return 0
}

// factualDensity is the ratio of tokens that carry a digit or look
// like proper nouns (capitalized, not sentence-initial) to total
// tokens.
func factualDensity(tokens []string) float64 {
	if len(tokens) == 0 {
		return 0
	}
	factual := 0
	sentenceStart := true
	for _, tok := range tokens {
		if isNumeric(tok) || (!sentenceStart && isCapitalized(tok)) {
			factual++
		}
		sentenceStart = endsSentence(tok)
	}
	return clamp01(float64(factual) / float64(len(tokens)))
}

func isNumeric(tok string) bool {
	return strings.ContainsFunc(tok, unicode.IsDigit)
}

func isCapitalized(tok string) bool {
	for _, r := range tok {
		return unicode.IsUpper(r)
	}
	return false
}

func endsSentence(tok string) bool {
	if tok == "" {
		return false
	}
	return isTerminal(tok[len(tok)-1])
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
