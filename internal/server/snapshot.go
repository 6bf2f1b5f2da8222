package server

import "sort"

// snapshot is the shared client view of a game. It never leaks the secret
// word, the hint or the imposter set while a round is live; those are served
// per player through the role endpoint and revealed here only after
// resolution.
func snapshot(game *Game) map[string]any {
	players := make([]map[string]any, 0, len(game.Players))
	for _, player := range game.Players {
		players = append(players, map[string]any{
			"user_id":      player.UserID,
			"username":     player.Username,
			"total_points": player.TotalPoints,
			"joined_at":    player.JoinedAt,
		})
	}
	payload := map[string]any{
		"game_id":        game.ID,
		"invite_code":    game.InviteCode,
		"game_master_id": game.GameMasterID,
		"status":         game.Status,
		"status_since":   game.StatusSince,
		"current_round":  game.CurrentRound,
		"players":        players,
		"leaderboard":    leaderboard(game),
	}
	if round := currentRound(game); round != nil {
		payload["round"] = roundView(round)
	}
	return payload
}

func roundView(round *RoundState) map[string]any {
	clues := make([]map[string]any, 0, len(round.Clues))
	for _, clue := range round.Clues {
		clues = append(clues, map[string]any{
			"player_id":  clue.PlayerID,
			"clue_word":  clue.ClueWord,
			"entered_by": clue.EnteredBy,
		})
	}
	view := map[string]any{
		"number":              round.Number,
		"status":              round.Status,
		"spotlight_player_id": round.SpotlightID,
		"imposter_count":      len(round.ImposterIDs),
		"votes_cast":          len(round.Votes),
		"tally":               tallyVotes(round),
		"clues":               clues,
	}
	if round.Outcome.Resolved {
		guesses := make([]map[string]any, 0, len(round.Guesses))
		for _, guess := range round.Guesses {
			guesses = append(guesses, map[string]any{
				"imposter_id":  guess.ImposterID,
				"guessed_word": guess.GuessedWord,
				"is_correct":   guess.IsCorrect,
			})
		}
		view["winner"] = round.Outcome.Winner
		view["voted_out_player_id"] = round.Outcome.VotedOutID
		view["eliminated_is_imposter"] = round.Outcome.EliminatedIsImposter
		view["imposter_ids"] = round.ImposterIDs
		view["secret_word"] = round.SecretWord
		view["guesses"] = guesses
	}
	return view
}

func leaderboard(game *Game) []map[string]any {
	ranked := append([]GamePlayer(nil), game.Players...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].TotalPoints > ranked[j].TotalPoints
	})
	entries := make([]map[string]any, 0, len(ranked))
	for _, player := range ranked {
		entries = append(entries, map[string]any{
			"user_id":      player.UserID,
			"username":     player.Username,
			"total_points": player.TotalPoints,
		})
	}
	return entries
}

func resultsView(game *Game) map[string]any {
	rounds := make([]map[string]any, 0, len(game.Rounds))
	for i := range game.Rounds {
		round := &game.Rounds[i]
		if !round.Outcome.Resolved {
			continue
		}
		rounds = append(rounds, roundView(round))
	}
	return map[string]any{
		"game_id":     game.ID,
		"status":      game.Status,
		"rounds":      rounds,
		"leaderboard": leaderboard(game),
	}
}
