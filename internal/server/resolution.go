package server

// computeAwards derives the round result and per-player point deltas from the
// imposter set, the game master's declared elimination (empty = nobody) and
// the recorded guesses. Pure function: same inputs, same awards.
//
// Scoring: a surviving imposter earns 1 point, plus 1 more for a correct
// word guess; an eliminated imposter earns nothing, guess or no guess. Each
// non-imposter earns 1 point when an imposter was eliminated. Zero deltas are
// omitted.
func computeAwards(players []GamePlayer, imposterIDs []string, votedOutID string, guesses []GuessEntry) (RoundResult, []PointAward) {
	eliminatedIsImposter := votedOutID != "" && containsID(imposterIDs, votedOutID)
	winner := winnerImposter
	if eliminatedIsImposter {
		winner = winnerNonImposters
	}

	correct := make(map[string]bool, len(guesses))
	for _, guess := range guesses {
		correct[guess.ImposterID] = guess.IsCorrect
	}

	var awards []PointAward
	for _, player := range players {
		points := 0
		if containsID(imposterIDs, player.UserID) {
			if player.UserID != votedOutID {
				points = 1
				if correct[player.UserID] {
					points++
				}
			}
		} else if eliminatedIsImposter {
			points = 1
		}
		if points > 0 {
			awards = append(awards, PointAward{UserID: player.UserID, Points: points})
		}
	}
	return RoundResult{Winner: winner, EliminatedIsImposter: eliminatedIsImposter}, awards
}

// resolveRound performs voting -> round_end and commits the round's outcome
// exactly once. Point totals are additive counters, so the Resolved guard is
// what keeps a duplicate trigger (double click, retried request) from paying
// everyone twice: a second call returns the stored result under
// errAlreadyResolved and applies no deltas.
//
// Runs inside the store mutex, so concurrent attempts serialize and exactly
// one of them passes the guard.
func resolveRound(game *Game, actorID, votedOutID string) (RoundResult, []PointAward, error) {
	if game.GameMasterID != actorID {
		return RoundResult{}, nil, ErrNotGameMaster
	}
	round := currentRound(game)
	if round == nil {
		return RoundResult{}, nil, ErrInvalidTransition
	}
	if round.Outcome.Resolved {
		return RoundResult{
			Winner:               round.Outcome.Winner,
			EliminatedIsImposter: round.Outcome.EliminatedIsImposter,
		}, nil, errAlreadyResolved
	}
	if game.Status != statusVoting || round.Status != roundVoting {
		return RoundResult{}, nil, ErrInvalidTransition
	}
	if votedOutID != "" && !isParticipant(game, votedOutID) {
		return RoundResult{}, nil, ErrNotAParticipant
	}

	result, awards := computeAwards(game.Players, round.ImposterIDs, votedOutID, round.Guesses)

	round.Outcome = RoundOutcome{
		Resolved:             true,
		Winner:               result.Winner,
		VotedOutID:           votedOutID,
		EliminatedIsImposter: result.EliminatedIsImposter,
	}
	round.Status = roundCompleted
	setStatus(game, statusRoundEnd)
	for _, award := range awards {
		if player, ok := findPlayer(game, award.UserID); ok {
			player.TotalPoints += award.Points
		}
	}
	return result, awards, nil
}
