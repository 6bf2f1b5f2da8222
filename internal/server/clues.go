package server

// submitClue upserts a player's one-word clue for the round. A player writes
// their own clue; the game master may enter one on a player's behalf (the
// sheet records who typed it). Clues are open during discussion and voting.
func submitClue(game *Game, actorID, playerID, clueWord string) (*ClueEntry, error) {
	round := currentRound(game)
	if round == nil {
		return nil, ErrInvalidTransition
	}
	if round.Status == roundCompleted {
		return nil, ErrRoundCompleted
	}
	if round.Status != roundDiscussion && round.Status != roundVoting {
		return nil, ErrInvalidTransition
	}
	if !isParticipant(game, playerID) {
		return nil, ErrNotAParticipant
	}
	enteredBy := clueByPlayer
	if actorID != playerID {
		if game.GameMasterID != actorID {
			return nil, ErrNotGameMaster
		}
		enteredBy = clueByGameMaster
	}

	for i := range round.Clues {
		if round.Clues[i].PlayerID == playerID {
			round.Clues[i].ClueWord = clueWord
			round.Clues[i].EnteredBy = enteredBy
			return &round.Clues[i], nil
		}
	}
	round.Clues = append(round.Clues, ClueEntry{
		PlayerID:  playerID,
		ClueWord:  clueWord,
		EnteredBy: enteredBy,
	})
	return &round.Clues[len(round.Clues)-1], nil
}
