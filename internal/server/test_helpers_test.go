package server

import (
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestServer(t *testing.T, handler http.Handler) *httptest.Server {
	t.Helper()
	listener, err := net.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		t.Skipf("skipping test; listen unavailable: %v", err)
	}
	ts := &httptest.Server{
		Listener: listener,
		Config:   &http.Server{Handler: handler},
	}
	ts.Start()
	return ts
}

// newWaitingGame builds a game in the waiting lobby with the given players
// already registered. The game master is "gm" and is not a participant.
func newWaitingGame(userIDs ...string) *Game {
	game := &Game{
		ID:           "game-1",
		InviteCode:   "ABC234",
		GameMasterID: "gm",
		Status:       statusWaiting,
		StatusSince:  timeNowUTC(),
	}
	for _, id := range userIDs {
		game.Players = append(game.Players, GamePlayer{
			UserID:   id,
			Username: "Player " + id,
			JoinedAt: timeNowUTC(),
		})
	}
	return game
}

// gameInVoting walks a four-player game (p1..p4) through round setup and
// discussion into the voting window.
func gameInVoting(t *testing.T, imposterIDs ...string) *Game {
	t.Helper()
	game := newWaitingGame("p1", "p2", "p3", "p4")
	if _, err := startRound(game, "gm", "apple", "a fruit", imposterIDs); err != nil {
		t.Fatalf("start round: %v", err)
	}
	if err := advanceGame(game, "gm", statusDiscussion); err != nil {
		t.Fatalf("advance to discussion: %v", err)
	}
	if err := advanceGame(game, "gm", statusVoting); err != nil {
		t.Fatalf("advance to voting: %v", err)
	}
	return game
}

func totalPoints(t *testing.T, game *Game, userID string) int {
	t.Helper()
	player, ok := findPlayer(game, userID)
	if !ok {
		t.Fatalf("player %s not found", userID)
	}
	return player.TotalPoints
}
