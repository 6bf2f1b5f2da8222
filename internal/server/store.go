package server

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store holds every running game in memory and is the authoritative state
// during play; Postgres mirrors it row by row through persistence.go. All
// mutations happen inside the store mutex, so an update closure sees a
// consistent game and concurrent requests serialize per store.
type Store struct {
	mu    sync.Mutex
	games map[string]*Game
}

func NewStore() *Store {
	return &Store{
		games: make(map[string]*Game),
	}
}

func (s *Store) CreateGame(masterID string) *Game {
	s.mu.Lock()
	defer s.mu.Unlock()

	game := &Game{
		ID:           uuid.NewString(),
		InviteCode:   newInviteCode(),
		GameMasterID: masterID,
		Status:       statusWaiting,
		StatusSince:  timeNowUTC(),
	}
	s.games[game.ID] = game
	return game
}

func (s *Store) GetGame(id string) (*Game, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	game, ok := s.games[id]
	return game, ok
}

func (s *Store) UpdateGame(id string, update func(game *Game) error) (*Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	game, ok := s.games[id]
	if !ok {
		return nil, ErrGameNotFound
	}
	if err := update(game); err != nil {
		return nil, err
	}
	return game, nil
}

func (s *Store) FindGameByInviteCode(code string) (*Game, bool) {
	normalized := normalizeInviteCode(code)
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, game := range s.games {
		if game.InviteCode == normalized {
			return game, true
		}
	}
	return nil, false
}

// AddPlayer registers a user in a game's player registry. The game may be
// addressed by id or by invite code. Joining is idempotent for a user already
// in the game; new players are only admitted between rounds.
func (s *Store) AddPlayer(gameIDOrCode, userID, username string) (*Game, *GamePlayer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	game, ok := s.games[gameIDOrCode]
	if !ok {
		code := normalizeInviteCode(gameIDOrCode)
		for _, candidate := range s.games {
			if candidate.InviteCode == code {
				game = candidate
				ok = true
				break
			}
		}
	}
	if !ok {
		return nil, nil, ErrGameNotFound
	}

	for i := range game.Players {
		if game.Players[i].UserID == userID {
			if username != "" {
				game.Players[i].Username = username
			}
			return game, &game.Players[i], nil
		}
	}
	if game.Status != statusWaiting {
		return nil, nil, ErrInvalidTransition
	}

	game.Players = append(game.Players, GamePlayer{
		UserID:   userID,
		Username: username,
		JoinedAt: timeNowUTC(),
	})
	return game, &game.Players[len(game.Players)-1], nil
}

// RestoreGame re-registers a game rebuilt from persisted rows, e.g. after a
// server restart.
func (s *Store) RestoreGame(game *Game) error {
	if game == nil {
		return ErrGameNotFound
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.games[game.ID]; ok {
		return ErrStorageConflict
	}
	for _, existing := range s.games {
		if existing.InviteCode == game.InviteCode {
			return ErrStorageConflict
		}
	}
	s.games[game.ID] = game
	return nil
}

func (s *Store) ListGameSummaries() []GameSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := make([]GameSummary, 0, len(s.games))
	for _, game := range s.games {
		list = append(list, GameSummary{
			ID:         game.ID,
			InviteCode: game.InviteCode,
			Status:     game.Status,
			Players:    len(game.Players),
		})
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].ID < list[j].ID
	})
	return list
}

func findPlayer(game *Game, userID string) (*GamePlayer, bool) {
	for i := range game.Players {
		if game.Players[i].UserID == userID {
			return &game.Players[i], true
		}
	}
	return nil, false
}

func isParticipant(game *Game, userID string) bool {
	_, ok := findPlayer(game, userID)
	return ok
}

func normalizeInviteCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func timeNowUTC() time.Time {
	return time.Now().UTC()
}
