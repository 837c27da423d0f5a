package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/scythe504/goroda-bot/internal"
	"github.com/scythe504/goroda-bot/internal/bot"
	"github.com/scythe504/goroda-bot/internal/game"
)

// Server is the HTTP surface: the webhook transport binding, the websocket
// chat transport, the stats endpoint and the keep-alive health check.
type Server struct {
	port   string
	router *bot.Router
	engine *game.Engine
	sink   internal.AchievementSink
	hub    *Hub
}

func NewServer(port string, engine *game.Engine, router *bot.Router, sink internal.AchievementSink, hub *Hub) *Server {
	return &Server{
		port:   port,
		router: router,
		engine: engine,
		sink:   sink,
		hub:    hub,
	}
}

func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf(":%s", s.port),
		Handler:      s.RegisterRoutes(),
		ReadTimeout:  10 * time.Second,
		IdleTimeout:  time.Minute,
		WriteTimeout: 30 * time.Second,
	}
}
