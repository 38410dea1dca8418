// internal/game/evaluator.go
//
// Guess evaluation for the duel engine.
// One pure two-pass core scores every guess; Difficulty only selects which
// fields of the Result are exposed:
//   - normal/hard keep the per-letter feedback as computed.
//   - expert discards feedback and keeps only the count and exact flag.

package game

import "strings"

// Evaluate compares a guess against a target word under the given difficulty.
// Both strings must be the same length; comparison is case-insensitive.
// Length enforcement is the caller's job (see Controller.SubmitGuess).
func Evaluate(guess, target string, d Difficulty) Result {
	guess = strings.ToUpper(guess)
	target = strings.ToUpper(target)

	feedback, correct, exact := score(guess, target)

	res := Result{
		Guess:          guess,
		CorrectLetters: correct,
		ExactMatch:     exact,
	}
	if d != DifficultyExpert {
		res.Feedback = feedback
	} else {
		res.Feedback = []Feedback{}
	}
	return res
}

// score implements the standard two-pass scoring algorithm.
//
// Pass 1:
//   - Mark exact matches as correct-position and consume those target slots.
//
// Pass 2:
//   - For each non-hit guess letter: if an unconsumed target slot still holds
//     that letter, mark wrong-position and consume it; otherwise not-in-word.
//
// Consuming slots is what keeps repeated letters honest: guess "ARENA" vs
// target "APPLE" awards exactly one credit for the single 'A'.
func score(guess, target string) (feedback []Feedback, correct int, exact bool) {
	n := len(guess)
	feedback = make([]Feedback, n)
	used := make([]bool, n)

	exact = true
	for i := 0; i < n; i++ {
		if guess[i] == target[i] {
			feedback[i] = FeedbackCorrectPosition
			used[i] = true
			correct++
		} else {
			exact = false
		}
	}

	for i := 0; i < n; i++ {
		if feedback[i] == FeedbackCorrectPosition {
			continue
		}
		found := -1
		for j := 0; j < n; j++ {
			if !used[j] && target[j] == guess[i] {
				found = j
				break
			}
		}
		if found >= 0 {
			feedback[i] = FeedbackWrongPosition
			used[found] = true
			correct++
		} else {
			feedback[i] = FeedbackNotInWord
		}
	}
	return feedback, correct, exact
}
