package db

import (
	"time"

	"gorm.io/datatypes"
)

type Game struct {
	ID           uint      `gorm:"primaryKey"`
	GameID       string    `gorm:"size:64;uniqueIndex;not null"`
	InviteCode   string    `gorm:"size:12;uniqueIndex;not null"`
	GameMasterID string    `gorm:"size:64;not null"`
	Status       string    `gorm:"size:32;not null"`
	CurrentRound int       `gorm:"not null;default:0"`
	CreatedAt    time.Time `gorm:"not null"`
	UpdatedAt    time.Time `gorm:"not null"`
	Players      []GamePlayer
	Rounds       []Round
	Events       []Event
}

type GamePlayer struct {
	ID          uint      `gorm:"primaryKey"`
	GameID      uint      `gorm:"index;not null;uniqueIndex:idx_game_players_game_user"`
	UserID      string    `gorm:"size:64;not null;uniqueIndex:idx_game_players_game_user"`
	Username    string    `gorm:"size:64;not null"`
	TotalPoints int       `gorm:"not null;default:0"`
	JoinedAt    time.Time `gorm:"not null"`
	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time `gorm:"not null"`
}

type Round struct {
	ID                uint           `gorm:"primaryKey"`
	GameID            uint           `gorm:"index;not null;uniqueIndex:idx_rounds_game_number"`
	Number            int            `gorm:"not null;uniqueIndex:idx_rounds_game_number"`
	SecretWord        string         `gorm:"size:120;not null"`
	BonusHint         string         `gorm:"size:200;not null"`
	ImposterIDs       datatypes.JSON `gorm:"type:jsonb;not null"`
	SpotlightPlayerID *string        `gorm:"size:64"`
	VotedOutPlayerID  *string        `gorm:"size:64"`
	Winner            *string        `gorm:"size:16"`
	Status            string         `gorm:"size:32;not null"`
	CreatedAt         time.Time      `gorm:"not null"`
	UpdatedAt         time.Time      `gorm:"not null"`
	Votes             []Vote
	Guesses           []ImposterGuess
	Clues             []PlayerClue
}

type Vote struct {
	ID         uint      `gorm:"primaryKey"`
	RoundID    uint      `gorm:"index;not null;uniqueIndex:idx_votes_round_voter"`
	VoterID    string    `gorm:"size:64;not null;uniqueIndex:idx_votes_round_voter"`
	VotedForID *string   `gorm:"size:64"`
	CreatedAt  time.Time `gorm:"not null"`
	UpdatedAt  time.Time `gorm:"not null"`
}

type ImposterGuess struct {
	ID          uint      `gorm:"primaryKey"`
	RoundID     uint      `gorm:"index;not null;uniqueIndex:idx_guesses_round_imposter"`
	ImposterID  string    `gorm:"size:64;not null;uniqueIndex:idx_guesses_round_imposter"`
	GuessedWord string    `gorm:"size:120;not null"`
	IsCorrect   bool      `gorm:"not null;default:false"`
	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time `gorm:"not null"`
}

type PlayerClue struct {
	ID        uint      `gorm:"primaryKey"`
	RoundID   uint      `gorm:"index;not null;uniqueIndex:idx_clues_round_player"`
	PlayerID  string    `gorm:"size:64;not null;uniqueIndex:idx_clues_round_player"`
	ClueWord  string    `gorm:"size:120;not null"`
	EnteredBy string    `gorm:"size:16;not null"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type Event struct {
	ID        uint           `gorm:"primaryKey"`
	GameID    uint           `gorm:"index;not null"`
	RoundID   *uint          `gorm:"index"`
	UserID    *string        `gorm:"size:64"`
	Type      string         `gorm:"size:64;not null"`
	Payload   datatypes.JSON `gorm:"type:jsonb;not null"`
	CreatedAt time.Time      `gorm:"not null"`
}
