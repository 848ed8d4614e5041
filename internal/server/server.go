package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/scythe504/guesswho-backend/internal/game"
)

type Server struct {
	port    int
	gateway *game.Gateway
	store   *game.SessionStore
}

func NewServer(port int, gateway *game.Gateway, store *game.SessionStore) *http.Server {
	s := &Server{
		port:    port,
		gateway: gateway,
		store:   store,
	}

	return &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      s.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}
