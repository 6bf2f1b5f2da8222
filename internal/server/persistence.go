package server

import (
	"encoding/json"
	"errors"

	"word-imposter/internal/db"

	"github.com/jackc/pgconn"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// The in-memory store is authoritative during play; these helpers mirror each
// committed change into Postgres. With no database configured (tests, local
// play) every helper is a no-op.

func (s *Server) persistGame(game *Game) error {
	if s.db == nil {
		return nil
	}
	record := db.Game{
		GameID:       game.ID,
		InviteCode:   game.InviteCode,
		GameMasterID: game.GameMasterID,
		Status:       game.Status,
	}
	if err := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&record).Error; err != nil {
		return err
	}
	game.DBID = record.ID
	return s.persistEvent(game, "game_created", EventPayload{
		GameID:     game.ID,
		InviteCode: game.InviteCode,
		UserID:     game.GameMasterID,
	})
}

func (s *Server) ensureGameDBID(game *Game) error {
	if s.db == nil || game.DBID != 0 {
		return nil
	}
	var record db.Game
	if err := s.db.Where("game_id = ?", game.ID).First(&record).Error; err != nil {
		return nil
	}
	game.DBID = record.ID
	return nil
}

func (s *Server) persistPlayer(game *Game, player *GamePlayer) error {
	if s.db == nil {
		return nil
	}
	if player.DBID != 0 {
		return nil
	}
	if game.DBID == 0 {
		if err := s.ensureGameDBID(game); err != nil {
			return err
		}
		if game.DBID == 0 {
			return ErrGameNotFound
		}
	}
	record := db.GamePlayer{
		GameID:   game.DBID,
		UserID:   player.UserID,
		Username: player.Username,
		JoinedAt: player.JoinedAt,
	}
	if err := s.db.Create(&record).Error; err != nil {
		if isUniqueViolation(err) {
			existing, lookupErr := s.findPlayerDBID(game.DBID, player.UserID)
			if lookupErr == nil && existing != 0 {
				player.DBID = existing
				return nil
			}
		}
		return err
	}
	player.DBID = record.ID
	return s.persistEvent(game, "player_joined", EventPayload{
		UserID:   player.UserID,
		Username: player.Username,
	})
}

func (s *Server) persistRound(game *Game, round *RoundState) error {
	if s.db == nil {
		return nil
	}
	if round == nil || round.DBID != 0 {
		return nil
	}
	if game.DBID == 0 {
		if err := s.ensureGameDBID(game); err != nil {
			return err
		}
	}
	if game.DBID == 0 {
		return ErrGameNotFound
	}
	imposters, err := json.Marshal(round.ImposterIDs)
	if err != nil {
		return err
	}
	record := db.Round{
		GameID:      game.DBID,
		Number:      round.Number,
		SecretWord:  round.SecretWord,
		BonusHint:   round.BonusHint,
		ImposterIDs: datatypes.JSON(imposters),
		Status:      round.Status,
	}
	if err := s.db.Create(&record).Error; err != nil {
		return err
	}
	round.DBID = record.ID
	if err := s.db.Model(&db.Game{}).Where("id = ?", game.DBID).
		Update("current_round", game.CurrentRound).Error; err != nil {
		return err
	}
	return s.persistEvent(game, "round_started", EventPayload{
		RoundNumber: round.Number,
		Imposters:   len(round.ImposterIDs),
	})
}

func (s *Server) persistStatus(game *Game, eventType string, payload EventPayload) error {
	if s.db == nil {
		return nil
	}
	if game.DBID == 0 {
		if err := s.ensureGameDBID(game); err != nil {
			return err
		}
	}
	if game.DBID == 0 {
		return ErrGameNotFound
	}
	if err := s.db.Model(&db.Game{}).Where("id = ?", game.DBID).
		Update("status", game.Status).Error; err != nil {
		return err
	}
	if round := currentRound(game); round != nil && round.DBID != 0 && round.Status != roundCompleted {
		if err := s.db.Model(&db.Round{}).Where("id = ?", round.DBID).
			Update("status", round.Status).Error; err != nil {
			return err
		}
	}
	return s.persistEvent(game, eventType, payload)
}

func (s *Server) persistVote(game *Game, round *RoundState, vote *VoteEntry) error {
	if s.db == nil {
		return nil
	}
	if err := s.persistRound(game, round); err != nil {
		return err
	}
	record := db.Vote{
		RoundID: round.DBID,
		VoterID: vote.VoterID,
	}
	if vote.VotedForID != "" {
		value := vote.VotedForID
		record.VotedForID = &value
	}
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "round_id"}, {Name: "voter_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"voted_for_id", "updated_at"}),
	}).Create(&record).Error
	if err != nil {
		return err
	}
	vote.DBID = record.ID
	return s.persistEvent(game, "vote_recorded", EventPayload{
		UserID:      vote.VoterID,
		RoundNumber: round.Number,
	})
}

func (s *Server) persistGuess(game *Game, round *RoundState, guess *GuessEntry) error {
	if s.db == nil {
		return nil
	}
	if err := s.persistRound(game, round); err != nil {
		return err
	}
	record := db.ImposterGuess{
		RoundID:     round.DBID,
		ImposterID:  guess.ImposterID,
		GuessedWord: guess.GuessedWord,
		IsCorrect:   guess.IsCorrect,
	}
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "round_id"}, {Name: "imposter_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"guessed_word", "is_correct", "updated_at"}),
	}).Create(&record).Error
	if err != nil {
		return err
	}
	guess.DBID = record.ID
	return s.persistEvent(game, "guess_submitted", EventPayload{
		UserID:      guess.ImposterID,
		RoundNumber: round.Number,
	})
}

func (s *Server) persistClue(game *Game, round *RoundState, clue *ClueEntry) error {
	if s.db == nil {
		return nil
	}
	if err := s.persistRound(game, round); err != nil {
		return err
	}
	record := db.PlayerClue{
		RoundID:   round.DBID,
		PlayerID:  clue.PlayerID,
		ClueWord:  clue.ClueWord,
		EnteredBy: clue.EnteredBy,
	}
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "round_id"}, {Name: "player_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"clue_word", "entered_by", "updated_at"}),
	}).Create(&record).Error
	if err != nil {
		return err
	}
	clue.DBID = record.ID
	return s.persistEvent(game, "clue_entered", EventPayload{
		UserID:      clue.PlayerID,
		RoundNumber: round.Number,
		EnteredBy:   clue.EnteredBy,
	})
}

func (s *Server) persistSpotlight(game *Game, round *RoundState) error {
	if s.db == nil {
		return nil
	}
	if err := s.persistRound(game, round); err != nil {
		return err
	}
	var spotlight *string
	if round.SpotlightID != "" {
		value := round.SpotlightID
		spotlight = &value
	}
	return s.db.Model(&db.Round{}).Where("id = ?", round.DBID).
		Update("spotlight_player_id", spotlight).Error
}

// persistResolution mirrors a committed round outcome. The round update is a
// compare-and-set on status, and the point awards are relative increments:
// even if a second process raced past the in-memory guard, the rows are paid
// at most once.
func (s *Server) persistResolution(game *Game, round *RoundState, awards []PointAward) error {
	if s.db == nil {
		return nil
	}
	if err := s.persistRound(game, round); err != nil {
		return err
	}
	updates := map[string]any{
		"status": roundCompleted,
		"winner": round.Outcome.Winner,
	}
	if round.Outcome.VotedOutID != "" {
		updates["voted_out_player_id"] = round.Outcome.VotedOutID
	}
	res := s.db.Model(&db.Round{}).
		Where("id = ? AND status <> ?", round.DBID, roundCompleted).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStorageConflict
	}
	for _, award := range awards {
		if err := s.db.Model(&db.GamePlayer{}).
			Where("game_id = ? AND user_id = ?", game.DBID, award.UserID).
			Update("total_points", gorm.Expr("total_points + ?", award.Points)).Error; err != nil {
			return err
		}
	}
	return s.persistStatus(game, "round_resolved", EventPayload{
		RoundNumber: round.Number,
		Winner:      round.Outcome.Winner,
		VotedOutID:  round.Outcome.VotedOutID,
	})
}

func (s *Server) persistEvent(game *Game, eventType string, payload EventPayload) error {
	if s.db == nil {
		return nil
	}
	if game.DBID == 0 {
		if err := s.ensureGameDBID(game); err != nil {
			return err
		}
	}
	if game.DBID == 0 {
		return ErrGameNotFound
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	event := db.Event{
		GameID:  game.DBID,
		RoundID: s.resolveEventRoundID(game),
		UserID:  resolveEventUserID(payload),
		Type:    eventType,
		Payload: datatypes.JSON(data),
	}
	return s.db.Create(&event).Error
}

func (s *Server) resolveEventRoundID(game *Game) *uint {
	round := currentRound(game)
	if round == nil || round.DBID == 0 {
		return nil
	}
	id := round.DBID
	return &id
}

func resolveEventUserID(payload EventPayload) *string {
	if payload.UserID == "" {
		return nil
	}
	value := payload.UserID
	return &value
}

func (s *Server) findPlayerDBID(gameDBID uint, userID string) (uint, error) {
	var record db.GamePlayer
	if err := s.db.Where("game_id = ? AND user_id = ?", gameDBID, userID).First(&record).Error; err != nil {
		return 0, err
	}
	return record.ID, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
