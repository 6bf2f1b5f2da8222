package server

import (
	"encoding/json"

	"word-imposter/internal/db"

	"github.com/rs/zerolog/log"
)

// restoreGame rebuilds a game from its persisted rows and re-registers it in
// the in-memory store, e.g. after a server restart. Addressable by game id or
// invite code.
func (s *Server) restoreGame(idOrCode string) (*Game, bool) {
	if s.db == nil {
		return nil, false
	}
	var record db.Game
	err := s.db.Where("game_id = ?", idOrCode).
		Or("invite_code = ?", normalizeInviteCode(idOrCode)).
		First(&record).Error
	if err != nil {
		return nil, false
	}

	game := &Game{
		ID:           record.GameID,
		DBID:         record.ID,
		InviteCode:   record.InviteCode,
		GameMasterID: record.GameMasterID,
		Status:       record.Status,
		StatusSince:  record.UpdatedAt,
		CurrentRound: record.CurrentRound,
	}

	var players []db.GamePlayer
	if err := s.db.Where("game_id = ?", record.ID).Order("joined_at asc").Find(&players).Error; err != nil {
		return nil, false
	}
	for _, player := range players {
		game.Players = append(game.Players, GamePlayer{
			UserID:      player.UserID,
			Username:    player.Username,
			TotalPoints: player.TotalPoints,
			JoinedAt:    player.JoinedAt,
			DBID:        player.ID,
		})
	}

	var rounds []db.Round
	if err := s.db.Where("game_id = ?", record.ID).Order("number asc").Find(&rounds).Error; err != nil {
		return nil, false
	}
	for _, row := range rounds {
		round, ok := restoreRound(s, row)
		if !ok {
			return nil, false
		}
		game.Rounds = append(game.Rounds, round)
	}

	if err := s.store.RestoreGame(game); err != nil {
		// Lost a race against another restore of the same game; use the
		// registered copy.
		if registered, ok := s.store.GetGame(game.ID); ok {
			return registered, true
		}
		return nil, false
	}
	log.Info().Str("game_id", game.ID).Int("rounds", len(game.Rounds)).Msg("game restored from database")
	return game, true
}

func restoreRound(s *Server, row db.Round) (RoundState, bool) {
	var imposterIDs []string
	if err := json.Unmarshal(row.ImposterIDs, &imposterIDs); err != nil {
		return RoundState{}, false
	}
	round := RoundState{
		Number:      row.Number,
		DBID:        row.ID,
		SecretWord:  row.SecretWord,
		BonusHint:   row.BonusHint,
		ImposterIDs: imposterIDs,
		Status:      row.Status,
	}
	if row.SpotlightPlayerID != nil {
		round.SpotlightID = *row.SpotlightPlayerID
	}
	if row.Status == roundCompleted && row.Winner != nil {
		round.Outcome = RoundOutcome{
			Resolved: true,
			Winner:   *row.Winner,
		}
		if row.VotedOutPlayerID != nil {
			round.Outcome.VotedOutID = *row.VotedOutPlayerID
			round.Outcome.EliminatedIsImposter = containsID(imposterIDs, *row.VotedOutPlayerID)
		}
	}

	var votes []db.Vote
	if err := s.db.Where("round_id = ?", row.ID).Find(&votes).Error; err != nil {
		return RoundState{}, false
	}
	for _, vote := range votes {
		entry := VoteEntry{VoterID: vote.VoterID, DBID: vote.ID}
		if vote.VotedForID != nil {
			entry.VotedForID = *vote.VotedForID
		}
		round.Votes = append(round.Votes, entry)
	}

	var guesses []db.ImposterGuess
	if err := s.db.Where("round_id = ?", row.ID).Find(&guesses).Error; err != nil {
		return RoundState{}, false
	}
	for _, guess := range guesses {
		round.Guesses = append(round.Guesses, GuessEntry{
			ImposterID:  guess.ImposterID,
			GuessedWord: guess.GuessedWord,
			IsCorrect:   guess.IsCorrect,
			DBID:        guess.ID,
		})
	}

	var clues []db.PlayerClue
	if err := s.db.Where("round_id = ?", row.ID).Find(&clues).Error; err != nil {
		return RoundState{}, false
	}
	for _, clue := range clues {
		round.Clues = append(round.Clues, ClueEntry{
			PlayerID:  clue.PlayerID,
			ClueWord:  clue.ClueWord,
			EnteredBy: clue.EnteredBy,
			DBID:      clue.ID,
		})
	}
	return round, true
}
