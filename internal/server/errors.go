package server

import "errors"

var (
	ErrGameNotFound      = errors.New("game not found")
	ErrInvalidTransition = errors.New("invalid phase transition")
	ErrNotGameMaster     = errors.New("only the game master can do that")
	ErrNotAParticipant   = errors.New("user is not a player in this game")
	ErrNotAnImposter     = errors.New("user is not an imposter this round")
	ErrRoundCompleted    = errors.New("round already completed")
	ErrStorageConflict   = errors.New("storage conflict, re-read and retry")

	// errAlreadyResolved marks a duplicate resolution attempt. It never
	// reaches callers: they receive the previously committed result instead.
	errAlreadyResolved = errors.New("round already resolved")
)
