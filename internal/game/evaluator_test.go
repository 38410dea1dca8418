// internal/game/evaluator_test.go

package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluateExactMatch(t *testing.T) {
	t.Parallel()

	res := Evaluate("APPLE", "APPLE", DifficultyNormal)

	assert.True(t, res.ExactMatch)
	assert.Equal(t, 5, res.CorrectLetters)
	require.Len(t, res.Feedback, 5)
	for i, fb := range res.Feedback {
		assert.Equalf(t, FeedbackCorrectPosition, fb, "position %d", i)
	}
}

func TestEvaluatePartialMatch(t *testing.T) {
	t.Parallel()

	// target PAPER: leading A and P misplaced, middle P exact, L absent,
	// trailing E misplaced.
	res := Evaluate("APPLE", "PAPER", DifficultyNormal)

	assert.False(t, res.ExactMatch)
	assert.Equal(t, 4, res.CorrectLetters)
	assert.Equal(t, []Feedback{
		FeedbackWrongPosition,   // A -> PAPER has A at 1
		FeedbackWrongPosition,   // P -> PAPER has P at 0
		FeedbackCorrectPosition, // P at 2
		FeedbackNotInWord,       // L
		FeedbackWrongPosition,   // E -> PAPER has E at 3
	}, res.Feedback)
}

func TestEvaluateDuplicateLettersNotDoubleCounted(t *testing.T) {
	t.Parallel()

	// ARENA holds two As but APPLE only one: exactly one A credit.
	res := Evaluate("ARENA", "APPLE", DifficultyNormal)

	assert.False(t, res.ExactMatch)
	assert.Equal(t, []Feedback{
		FeedbackCorrectPosition, // A at 0
		FeedbackNotInWord,       // R
		FeedbackWrongPosition,   // E
		FeedbackNotInWord,       // N
		FeedbackNotInWord,       // second A: the only A slot is consumed
	}, res.Feedback)
	assert.Equal(t, 2, res.CorrectLetters)
}

func TestEvaluateRepeatedGuessLetterAgainstRepeatedTarget(t *testing.T) {
	t.Parallel()

	// Both words hold two Ps; both guessed Ps earn credit.
	res := Evaluate("PAPER", "APPLE", DifficultyNormal)

	assert.Equal(t, FeedbackWrongPosition, res.Feedback[0])   // P
	assert.Equal(t, FeedbackCorrectPosition, res.Feedback[2]) // second P, exact slot
	assert.False(t, res.ExactMatch)
}

func TestEvaluateCaseInsensitive(t *testing.T) {
	t.Parallel()

	res := Evaluate("apple", "ApPlE", DifficultyNormal)

	assert.True(t, res.ExactMatch)
	assert.Equal(t, "APPLE", res.Guess)
}

func TestEvaluateExpertHidesFeedback(t *testing.T) {
	t.Parallel()

	res := Evaluate("APPLE", "PAPER", DifficultyExpert)

	assert.Empty(t, res.Feedback)
	assert.Equal(t, 4, res.CorrectLetters)
	assert.False(t, res.ExactMatch)

	exact := Evaluate("APPLE", "APPLE", DifficultyExpert)
	assert.Empty(t, exact.Feedback)
	assert.True(t, exact.ExactMatch)
	assert.Equal(t, 5, exact.CorrectLetters)
}

func TestEvaluateHardKeepsFeedbackData(t *testing.T) {
	t.Parallel()

	normal := Evaluate("APPLE", "PAPER", DifficultyNormal)
	hard := Evaluate("APPLE", "PAPER", DifficultyHard)

	assert.Equal(t, normal.Feedback, hard.Feedback)
	assert.Equal(t, normal.CorrectLetters, hard.CorrectLetters)
}

func TestEvaluateNoLettersShared(t *testing.T) {
	t.Parallel()

	res := Evaluate("SUN", "MAP", DifficultyNormal)

	assert.Equal(t, 0, res.CorrectLetters)
	for _, fb := range res.Feedback {
		assert.Equal(t, FeedbackNotInWord, fb)
	}
}
