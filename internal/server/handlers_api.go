package server

import (
	"errors"
	"net/http"

	"word-imposter/internal/db"

	"github.com/rs/zerolog/log"
)

type createGameRequest struct {
	UserID string `json:"user_id"`
}

type joinRequest struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}

type startRoundRequest struct {
	UserID      string   `json:"user_id"`
	SecretWord  string   `json:"secret_word"`
	BonusHint   string   `json:"bonus_hint"`
	ImposterIDs []string `json:"imposter_ids"`
}

type advanceRequest struct {
	UserID string `json:"user_id"`
	Status string `json:"status"`
}

type resolveRequest struct {
	UserID           string `json:"user_id"`
	VotedOutPlayerID string `json:"voted_out_player_id"`
}

type voteRequest struct {
	UserID     string `json:"user_id"`
	VotedForID string `json:"voted_for_id"`
}

type guessRequest struct {
	UserID      string `json:"user_id"`
	GuessedWord string `json:"guessed_word"`
}

type clueRequest struct {
	UserID   string `json:"user_id"`
	PlayerID string `json:"player_id"`
	ClueWord string `json:"clue_word"`
}

type spotlightRequest struct {
	UserID   string `json:"user_id"`
	PlayerID string `json:"player_id"`
}

func (s *Server) handleGameSubroutes(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		if gameID, userID, ok := parsePlayerRolePath(r.URL.Path); ok {
			s.handleRole(w, r, gameID, userID)
			return
		}
	}

	gameID, action, ok := parseGamePath(r.URL.Path)
	if !ok {
		http.NotFound(w, r)
		return
	}
	if action == "" && r.Method == http.MethodGet {
		s.handleGetGame(w, r, gameID)
		return
	}

	switch r.Method {
	case http.MethodGet:
		switch action {
		case "tally":
			s.handleTally(w, r, gameID)
		case "results":
			s.handleResults(w, r, gameID)
		case "events":
			s.handleEvents(w, r, gameID)
		default:
			http.NotFound(w, r)
		}
	case http.MethodPost:
		switch action {
		case "join":
			s.handleJoinGame(w, r, gameID)
		case "rounds":
			s.handleStartRound(w, r, gameID)
		case "advance":
			s.handleAdvance(w, r, gameID)
		case "resolve":
			s.handleResolve(w, r, gameID)
		case "votes":
			s.handleVotes(w, r, gameID)
		case "guesses":
			s.handleGuesses(w, r, gameID)
		case "clues":
			s.handleClues(w, r, gameID)
		case "spotlight":
			s.handleSpotlight(w, r, gameID)
		default:
			http.NotFound(w, r)
		}
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	var req createGameRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}
	userID, err := validateUserID(req.UserID)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	game := s.store.CreateGame(userID)
	if err := s.persistGame(game); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create game")
		return
	}
	log.Info().Str("game_id", game.ID).Str("invite_code", game.InviteCode).Msg("game created")
	writeJSON(w, http.StatusCreated, map[string]string{
		"game_id":     game.ID,
		"invite_code": game.InviteCode,
	})
}

func (s *Server) handleListGames(w http.ResponseWriter, r *http.Request) {
	summaries := make([]map[string]any, 0)
	for _, game := range s.store.ListGameSummaries() {
		summaries = append(summaries, map[string]any{
			"game_id":     game.ID,
			"invite_code": game.InviteCode,
			"status":      game.Status,
			"players":     game.Players,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"games": summaries})
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request, gameID string) {
	game, ok := s.lookupGame(gameID)
	if !ok {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, snapshot(game))
}

func (s *Server) handleJoinGame(w http.ResponseWriter, r *http.Request, gameID string) {
	var req joinRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}
	userID, err := validateUserID(req.UserID)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	username, err := validateUsername(req.Username)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if _, ok := s.lookupGame(gameID); !ok {
		http.NotFound(w, r)
		return
	}
	game, player, err := s.store.AddPlayer(gameID, userID, username)
	if err != nil {
		if errors.Is(err, ErrGameNotFound) {
			http.NotFound(w, r)
			return
		}
		writeError(w, statusForError(err), err.Error())
		return
	}
	if err := s.persistPlayer(game, player); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to join game")
		return
	}
	log.Info().Str("game_id", game.ID).Str("user_id", userID).Msg("player joined")
	writeJSON(w, http.StatusOK, map[string]any{
		"game_id":     game.ID,
		"invite_code": game.InviteCode,
		"user_id":     player.UserID,
		"username":    player.Username,
	})
	s.broadcastGameUpdate(game)
}

func (s *Server) handleStartRound(w http.ResponseWriter, r *http.Request, gameID string) {
	var req startRoundRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "round setup is required")
		return
	}
	secretWord, err := validateWord("secret_word", req.SecretWord)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	bonusHint, err := validateHint(req.BonusHint)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(req.ImposterIDs) == 0 {
		writeError(w, http.StatusBadRequest, "at least one imposter is required")
		return
	}

	var round *RoundState
	game, err := s.store.UpdateGame(gameID, func(game *Game) error {
		if len(game.Players) < s.cfg.MinPlayers {
			return ErrInvalidTransition
		}
		var startErr error
		round, startErr = startRound(game, req.UserID, secretWord, bonusHint, req.ImposterIDs)
		return startErr
	})
	if err != nil {
		writeError(w, statusForError(err), err.Error())
		return
	}
	if err := s.persistRound(game, round); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to start round")
		return
	}
	if err := s.persistStatus(game, "status_changed", EventPayload{Status: game.Status}); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to start round")
		return
	}
	log.Info().Str("game_id", game.ID).Int("round", round.Number).
		Int("imposters", len(round.ImposterIDs)).Msg("round started")
	writeJSON(w, http.StatusOK, map[string]any{
		"game_id":      game.ID,
		"round_number": round.Number,
		"status":       game.Status,
	})
	s.broadcastGameUpdate(game)
}

func (s *Server) handleAdvance(w http.ResponseWriter, r *http.Request, gameID string) {
	var req advanceRequest
	if err := readJSON(r.Body, &req); err != nil || req.Status == "" {
		writeError(w, http.StatusBadRequest, "target status is required")
		return
	}
	game, err := s.store.UpdateGame(gameID, func(game *Game) error {
		return advanceGame(game, req.UserID, req.Status)
	})
	if err != nil {
		writeError(w, statusForError(err), err.Error())
		return
	}
	if err := s.persistStatus(game, "status_changed", EventPayload{Status: game.Status, UserID: req.UserID}); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to advance game")
		return
	}
	log.Info().Str("game_id", game.ID).Str("status", game.Status).Msg("status advanced")
	writeJSON(w, http.StatusOK, map[string]any{
		"game_id": game.ID,
		"status":  game.Status,
	})
	s.broadcastGameUpdate(game)
}

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request, gameID string) {
	var req resolveRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	var (
		result    RoundResult
		awards    []PointAward
		round     *RoundState
		duplicate bool
	)
	game, err := s.store.UpdateGame(gameID, func(game *Game) error {
		var resolveErr error
		result, awards, resolveErr = resolveRound(game, req.UserID, req.VotedOutPlayerID)
		if errors.Is(resolveErr, errAlreadyResolved) {
			duplicate = true
			return nil
		}
		if resolveErr != nil {
			return resolveErr
		}
		round = currentRound(game)
		return nil
	})
	if err != nil {
		writeError(w, statusForError(err), err.Error())
		return
	}
	if !duplicate {
		if err := s.persistResolution(game, round, awards); err != nil {
			if !errors.Is(err, ErrStorageConflict) {
				writeError(w, http.StatusInternalServerError, "failed to resolve round")
				return
			}
			// Another writer already committed this round; the stored
			// outcome stands and no deltas were reapplied.
			log.Warn().Str("game_id", game.ID).Msg("resolution lost storage race")
		}
		log.Info().Str("game_id", game.ID).Str("winner", result.Winner).
			Bool("eliminated_is_imposter", result.EliminatedIsImposter).Msg("round resolved")
		s.broadcastGameUpdate(game)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"game_id":                game.ID,
		"status":                 game.Status,
		"winner":                 result.Winner,
		"eliminated_is_imposter": result.EliminatedIsImposter,
	})
}

func (s *Server) handleVotes(w http.ResponseWriter, r *http.Request, gameID string) {
	var req voteRequest
	if err := readJSON(r.Body, &req); err != nil || req.UserID == "" {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}
	var vote *VoteEntry
	game, err := s.store.UpdateGame(gameID, func(game *Game) error {
		var voteErr error
		vote, voteErr = recordVote(game, req.UserID, req.VotedForID)
		return voteErr
	})
	if err != nil {
		writeError(w, statusForError(err), err.Error())
		return
	}
	if err := s.persistVote(game, currentRound(game), vote); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to record vote")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"game_id":      game.ID,
		"voter_id":     vote.VoterID,
		"voted_for_id": vote.VotedForID,
	})
	s.broadcastGameUpdate(game)
}

func (s *Server) handleGuesses(w http.ResponseWriter, r *http.Request, gameID string) {
	var req guessRequest
	if err := readJSON(r.Body, &req); err != nil || req.UserID == "" {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}
	guessedWord, err := validateWord("guessed_word", req.GuessedWord)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var guess *GuessEntry
	game, err := s.store.UpdateGame(gameID, func(game *Game) error {
		var guessErr error
		guess, guessErr = submitGuess(game, req.UserID, guessedWord)
		return guessErr
	})
	if err != nil {
		writeError(w, statusForError(err), err.Error())
		return
	}
	if err := s.persistGuess(game, currentRound(game), guess); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to record guess")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"game_id":     game.ID,
		"imposter_id": guess.ImposterID,
		"is_correct":  guess.IsCorrect,
	})
	s.broadcastGameUpdate(game)
}

func (s *Server) handleClues(w http.ResponseWriter, r *http.Request, gameID string) {
	var req clueRequest
	if err := readJSON(r.Body, &req); err != nil || req.UserID == "" {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}
	clueWord, err := validateClue(req.ClueWord)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	playerID := req.PlayerID
	if playerID == "" {
		playerID = req.UserID
	}
	var clue *ClueEntry
	game, err := s.store.UpdateGame(gameID, func(game *Game) error {
		var clueErr error
		clue, clueErr = submitClue(game, req.UserID, playerID, clueWord)
		return clueErr
	})
	if err != nil {
		writeError(w, statusForError(err), err.Error())
		return
	}
	if err := s.persistClue(game, currentRound(game), clue); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to record clue")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"game_id":    game.ID,
		"player_id":  clue.PlayerID,
		"entered_by": clue.EnteredBy,
	})
	s.broadcastGameUpdate(game)
}

func (s *Server) handleSpotlight(w http.ResponseWriter, r *http.Request, gameID string) {
	var req spotlightRequest
	if err := readJSON(r.Body, &req); err != nil || req.UserID == "" {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}
	game, err := s.store.UpdateGame(gameID, func(game *Game) error {
		return setSpotlight(game, req.UserID, req.PlayerID)
	})
	if err != nil {
		writeError(w, statusForError(err), err.Error())
		return
	}
	if err := s.persistSpotlight(game, currentRound(game)); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to set spotlight")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"game_id":             game.ID,
		"spotlight_player_id": req.PlayerID,
	})
	s.broadcastGameUpdate(game)
}

func (s *Server) handleTally(w http.ResponseWriter, r *http.Request, gameID string) {
	game, ok := s.lookupGame(gameID)
	if !ok {
		http.NotFound(w, r)
		return
	}
	var tally map[string]int
	roundNumber := 0
	_, err := s.store.UpdateGame(game.ID, func(game *Game) error {
		round := currentRound(game)
		if round == nil {
			return ErrInvalidTransition
		}
		roundNumber = round.Number
		tally = tallyVotes(round)
		return nil
	})
	if err != nil {
		writeError(w, statusForError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"game_id":      game.ID,
		"round_number": roundNumber,
		"tally":        tally,
	})
}

func (s *Server) handleResults(w http.ResponseWriter, r *http.Request, gameID string) {
	game, ok := s.lookupGame(gameID)
	if !ok {
		http.NotFound(w, r)
		return
	}
	var view map[string]any
	_, err := s.store.UpdateGame(game.ID, func(game *Game) error {
		view = resultsView(game)
		return nil
	})
	if err != nil {
		writeError(w, statusForError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// handleRole serves the per-player word view: imposters get the bonus hint,
// everyone else the secret word. Never part of the broadcast snapshot.
func (s *Server) handleRole(w http.ResponseWriter, r *http.Request, gameID, userID string) {
	game, ok := s.lookupGame(gameID)
	if !ok {
		http.NotFound(w, r)
		return
	}
	var payload map[string]any
	_, err := s.store.UpdateGame(game.ID, func(game *Game) error {
		if !isParticipant(game, userID) {
			return ErrNotAParticipant
		}
		round := currentRound(game)
		if round == nil {
			return ErrInvalidTransition
		}
		if containsID(round.ImposterIDs, userID) {
			payload = map[string]any{
				"round_number": round.Number,
				"role":         "imposter",
				"bonus_hint":   round.BonusHint,
			}
		} else {
			payload = map[string]any{
				"round_number": round.Number,
				"role":         "word_holder",
				"secret_word":  round.SecretWord,
			}
		}
		return nil
	})
	if err != nil {
		writeError(w, statusForError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, payload)
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request, gameID string) {
	if s.db == nil {
		writeError(w, http.StatusServiceUnavailable, "events not available")
		return
	}
	game, ok := s.lookupGame(gameID)
	if !ok {
		http.NotFound(w, r)
		return
	}
	if game.DBID == 0 {
		if err := s.ensureGameDBID(game); err != nil {
			writeError(w, http.StatusInternalServerError, "failed to load game")
			return
		}
	}
	var records []db.Event
	if err := s.db.Where("game_id = ?", game.DBID).Order("created_at asc").Find(&records).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load events")
		return
	}
	events := make([]map[string]any, 0, len(records))
	for _, record := range records {
		events = append(events, map[string]any{
			"id":         record.ID,
			"type":       record.Type,
			"round_id":   record.RoundID,
			"user_id":    record.UserID,
			"created_at": record.CreatedAt,
			"payload":    record.Payload,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"game_id": game.ID,
		"events":  events,
	})
}
