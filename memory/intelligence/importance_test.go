package intelligence

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoreBounds(t *testing.T) {
	texts := []string{
		"Alice is a senior Python developer.",
		"- item one\n- item two\n- item three",
		"Release 2.4.1 ships on 2024-03-15 with 37 fixes.",
		strings.Repeat("word ", 200),
		"a a a a a a a a",
		"!@#$%^&*()",
	}
	for _, text := range texts {
		s := Score(text)
		assert.GreaterOrEqual(t, s, 0.0, "text %q", text)
		assert.LessOrEqual(t, s, 1.0, "text %q", text)
	}
}

func TestScoreEmpty(t *testing.T) {
	assert.Zero(t, Score(""))
	assert.Zero(t, Score("   \n\t "))
}

func TestScoreStructureBonus(t *testing.T) {
	flat := "alpha beta gamma delta epsilon"
	listed := "- alpha\n- beta\n- gamma\n- delta\n- epsilon"
	assert.Greater(t, Score(listed), Score(flat))
}

func TestScoreFactualBonus(t *testing.T) {
	vague := "the cat sat on the mat and then the cat slept"
	factual := "version 2 of the parser shipped with 37 fixes in 2024"
	assert.Greater(t, Score(factual), Score(vague))
}

func TestVocabularyRichness(t *testing.T) {
	assert.Equal(t, 0.5, vocabularyRichness([]string{"go", "go", "run", "run"}))
	assert.Equal(t, 1.0, vocabularyRichness([]string{"one", "two", "three"}))
	assert.Equal(t, 0.25, vocabularyRichness([]string{"Same", "same", "SAME", "sAmE"}),
		"tokens compare case insensitively")
	assert.Zero(t, vocabularyRichness(nil))
}

func TestStructuralSignal(t *testing.T) {
	assert.Equal(t, 1.0, structuralSignal("- bullet point"))
	assert.Equal(t, 1.0, structuralSignal("1. numbered entry"))
	assert.Equal(t, 1.0, structuralSignal("# Heading"))
	assert.Equal(t, 1.0, structuralSignal("```\ncode\n```"))
	assert.Equal(t, 1.0, structuralSignal("Shopping list:\nmilk"))
	assert.Zero(t, structuralSignal("plain prose with no markers at all"))
}

func TestFactualDensity(t *testing.T) {
	tokens := strings.Fields("I met Alice yesterday. Bob arrived later.")
	// "Alice" is capitalized mid-sentence, "I" and "Bob" open sentences,
	// and no token carries a digit.
	assert.InDelta(t, 1.0/7.0, factualDensity(tokens), 1e-9)

	numeric := strings.Fields("released 37 fixes in 2024")
	assert.InDelta(t, 2.0/5.0, factualDensity(numeric), 1e-9)

	assert.Zero(t, factualDensity(nil))
}
