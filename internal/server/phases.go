package server

// The game status sequence every client observes. Advancing is a
// game-master-only action; voting -> round_end is excluded here because it
// must carry the declared elimination and runs resolution (resolution.go).
var gameTransitions = map[string][]string{
	statusWaiting:        {statusRoleAssignment},
	statusRoleAssignment: {statusDiscussion},
	statusDiscussion:     {statusVoting},
	statusVoting:         {statusRoundEnd},
	statusRoundEnd:       {statusWaiting, statusGameEnd},
}

// Round status tracks the game status in lockstep while a round is live.
var roundStatusFor = map[string]string{
	statusRoleAssignment: roundSetup,
	statusDiscussion:     roundDiscussion,
	statusVoting:         roundVoting,
}

func canTransition(from, to string) bool {
	for _, allowed := range gameTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

func currentRound(game *Game) *RoundState {
	if len(game.Rounds) == 0 {
		return nil
	}
	round := &game.Rounds[len(game.Rounds)-1]
	if round.Number != game.CurrentRound {
		return nil
	}
	return round
}

func roundByNumber(game *Game, number int) *RoundState {
	if game == nil || number <= 0 {
		return nil
	}
	for i := range game.Rounds {
		if game.Rounds[i].Number == number {
			return &game.Rounds[i]
		}
	}
	return nil
}

func setStatus(game *Game, status string) {
	game.Status = status
	game.StatusSince = timeNowUTC()
}

// startRound performs waiting -> role_assignment: it validates the round
// setup, creates the round row and bumps the game's round counter. Nothing is
// mutated on a validation failure.
func startRound(game *Game, actorID, secretWord, bonusHint string, imposterIDs []string) (*RoundState, error) {
	if game.GameMasterID != actorID {
		return nil, ErrNotGameMaster
	}
	if !canTransition(game.Status, statusRoleAssignment) {
		return nil, ErrInvalidTransition
	}
	if secretWord == "" || bonusHint == "" || len(imposterIDs) == 0 {
		return nil, ErrInvalidTransition
	}
	seen := make(map[string]struct{}, len(imposterIDs))
	for _, id := range imposterIDs {
		if !isParticipant(game, id) {
			return nil, ErrNotAParticipant
		}
		if _, dup := seen[id]; dup {
			return nil, ErrInvalidTransition
		}
		seen[id] = struct{}{}
	}
	// Imposters must be a strict subset: somebody has to hold the word.
	if len(seen) >= len(game.Players) {
		return nil, ErrInvalidTransition
	}

	game.CurrentRound++
	game.Rounds = append(game.Rounds, RoundState{
		Number:      game.CurrentRound,
		SecretWord:  secretWord,
		BonusHint:   bonusHint,
		ImposterIDs: append([]string(nil), imposterIDs...),
		Status:      roundSetup,
	})
	setStatus(game, statusRoleAssignment)
	return currentRound(game), nil
}

// advanceGame moves the game to the target status. It covers every master
// transition except voting -> round_end, which must go through resolveRound.
func advanceGame(game *Game, actorID, target string) error {
	if game.GameMasterID != actorID {
		return ErrNotGameMaster
	}
	if !canTransition(game.Status, target) {
		return ErrInvalidTransition
	}
	switch target {
	case statusRoleAssignment:
		// Entered only through startRound, which creates the round.
		return ErrInvalidTransition
	case statusRoundEnd:
		// Requires the declared elimination; handled by resolution.
		return ErrInvalidTransition
	case statusDiscussion, statusVoting:
		round := currentRound(game)
		if round == nil {
			return ErrInvalidTransition
		}
		round.Status = roundStatusFor[target]
	case statusWaiting, statusGameEnd:
		// Leaving round_end; the completed round stays as history.
	}
	setStatus(game, target)
	return nil
}

// setSpotlight points the shared spotlight at a player, or clears it. Only
// meaningful during discussion and freely reassignable there.
func setSpotlight(game *Game, actorID, playerID string) error {
	if game.GameMasterID != actorID {
		return ErrNotGameMaster
	}
	round := currentRound(game)
	if round == nil || round.Status != roundDiscussion {
		return ErrInvalidTransition
	}
	if playerID != "" && !isParticipant(game, playerID) {
		return ErrNotAParticipant
	}
	round.SpotlightID = playerID
	return nil
}
