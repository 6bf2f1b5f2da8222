package server

import "strings"

// normalizeWord is the equality rule for imposter guesses: trim plus
// case-fold, so "  Apple " matches "apple".
func normalizeWord(word string) string {
	return strings.ToLower(strings.TrimSpace(word))
}

// submitGuess upserts an imposter's attempt at the secret word, recomputing
// correctness on every write. Guesses logically accompany voting, but client
// and network skew mean one can land a phase early or late; the only hard
// rejection is a completed round.
func submitGuess(game *Game, imposterID, guessedWord string) (*GuessEntry, error) {
	round := currentRound(game)
	if round == nil {
		return nil, ErrInvalidTransition
	}
	if round.Status == roundCompleted {
		return nil, ErrRoundCompleted
	}
	if !isParticipant(game, imposterID) {
		return nil, ErrNotAParticipant
	}
	if !containsID(round.ImposterIDs, imposterID) {
		return nil, ErrNotAnImposter
	}

	correct := normalizeWord(guessedWord) == normalizeWord(round.SecretWord)
	for i := range round.Guesses {
		if round.Guesses[i].ImposterID == imposterID {
			round.Guesses[i].GuessedWord = guessedWord
			round.Guesses[i].IsCorrect = correct
			return &round.Guesses[i], nil
		}
	}
	round.Guesses = append(round.Guesses, GuessEntry{
		ImposterID:  imposterID,
		GuessedWord: guessedWord,
		IsCorrect:   correct,
	})
	return &round.Guesses[len(round.Guesses)-1], nil
}
