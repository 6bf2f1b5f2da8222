package server

import "time"

const (
	statusWaiting        = "waiting"
	statusRoleAssignment = "role_assignment"
	statusDiscussion     = "discussion"
	statusVoting         = "voting"
	statusRoundEnd       = "round_end"
	statusGameEnd        = "game_end"
)

const (
	roundSetup      = "setup"
	roundDiscussion = "discussion"
	roundVoting     = "voting"
	roundCompleted  = "completed"
)

const (
	winnerImposter     = "imposter"
	winnerNonImposters = "non_imposters"
)

const (
	clueByPlayer     = "player"
	clueByGameMaster = "game_master"
)

type GameSummary struct {
	ID         string
	InviteCode string
	Status     string
	Players    int
}

type Game struct {
	ID           string
	DBID         uint
	InviteCode   string
	GameMasterID string
	Status       string
	StatusSince  time.Time
	CurrentRound int
	Players      []GamePlayer
	Rounds       []RoundState
}

type GamePlayer struct {
	UserID      string
	Username    string
	TotalPoints int
	JoinedAt    time.Time
	DBID        uint
}

type RoundState struct {
	Number      int
	DBID        uint
	SecretWord  string
	BonusHint   string
	ImposterIDs []string
	SpotlightID string
	Status      string
	Outcome     RoundOutcome
	Votes       []VoteEntry
	Guesses     []GuessEntry
	Clues       []ClueEntry
}

// RoundOutcome is the write-once result of round resolution. The zero value
// means the round is still pending; once Resolved is set the round is
// immutable and the remaining fields never change.
type RoundOutcome struct {
	Resolved             bool
	Winner               string
	VotedOutID           string
	EliminatedIsImposter bool
}

type VoteEntry struct {
	VoterID    string
	VotedForID string // empty = abstain
	DBID       uint
}

type GuessEntry struct {
	ImposterID  string
	GuessedWord string
	IsCorrect   bool
	DBID        uint
}

type ClueEntry struct {
	PlayerID  string
	ClueWord  string
	EnteredBy string
	DBID      uint
}

// RoundResult is what resolution reports back to the caller for immediate
// feedback; everything else is observed through committed rows.
type RoundResult struct {
	Winner               string `json:"winner"`
	EliminatedIsImposter bool   `json:"eliminated_is_imposter"`
}

type PointAward struct {
	UserID string
	Points int
}
