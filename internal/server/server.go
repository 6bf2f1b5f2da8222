package server

import (
	"net/http"

	"word-imposter/internal/config"

	"gorm.io/gorm"
)

type Server struct {
	store *Store
	db    *gorm.DB
	ws    *wsHub
	cfg   config.Config
}

func New(conn *gorm.DB, cfg config.Config) *Server {
	return &Server{
		store: NewStore(),
		db:    conn,
		ws:    newWSHub(),
		cfg:   cfg,
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/games", s.handleCreateGame)
	mux.HandleFunc("GET /api/games", s.handleListGames)
	mux.HandleFunc("GET /api/games/", s.handleGameSubroutes)
	mux.HandleFunc("POST /api/games/", s.handleGameSubroutes)
	mux.HandleFunc("GET /ws/games/", s.handleWebsocket)
	return mux
}

// lookupGame fetches a running game by id or invite code, falling back to the
// database mirror for games evicted by a restart.
func (s *Server) lookupGame(idOrCode string) (*Game, bool) {
	if game, ok := s.store.GetGame(idOrCode); ok {
		return game, true
	}
	if game, ok := s.store.FindGameByInviteCode(idOrCode); ok {
		return game, true
	}
	return s.restoreGame(idOrCode)
}
