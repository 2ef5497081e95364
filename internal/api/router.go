package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mcoot/rushmax/internal/api/handler"
	"github.com/mcoot/rushmax/internal/api/middleware"
	sharedmw "github.com/mcoot/rushmax/internal/middleware"
	"github.com/mcoot/rushmax/internal/services/game"
	"github.com/mcoot/rushmax/internal/services/judge"
	"github.com/mcoot/rushmax/internal/services/lobby"
	"github.com/mcoot/rushmax/internal/services/questions"
	"github.com/mcoot/rushmax/internal/services/registry"
	"github.com/mcoot/rushmax/internal/services/scoring"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger          *slog.Logger
	InstanceID      string
	Registry        registry.ServiceInterface
	LobbyController lobby.ControllerInterface
	GameController  game.ControllerInterface
	Questions       questions.ServiceInterface
	Leaderboard     scoring.LeaderboardInterface
	Judge           judge.ServiceInterface
	Sweeper         handler.Sweeper
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	playerHandler := handler.NewPlayerHandler(cfg.Registry)
	queueHandler := handler.NewQueueHandler(cfg.LobbyController, cfg.Sweeper)
	roomHandler := handler.NewRoomHandler(cfg.LobbyController)
	gameHandler := handler.NewGameHandler(cfg.GameController)
	scoreHandler := handler.NewScoreHandler(cfg.Leaderboard)
	judgeHandler := handler.NewJudgeHandler(cfg.Judge)
	serverHandler := handler.NewServerHandler(cfg.InstanceID, cfg.Registry, cfg.LobbyController, cfg.GameController, cfg.Questions)

	// Create middleware
	authMiddleware := middleware.Auth(cfg.Registry)
	loggingMiddleware := sharedmw.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Public routes
	api.HandleFunc("/health", serverHandler.Health).Methods(http.MethodGet)
	api.HandleFunc("/status", serverHandler.Status).Methods(http.MethodGet)
	api.HandleFunc("/stats", serverHandler.Stats).Methods(http.MethodGet)
	api.HandleFunc("/players", playerHandler.Register).Methods(http.MethodPost)
	api.HandleFunc("/rooms", roomHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/rooms/{id}", roomHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/scores/top", scoreHandler.Top).Methods(http.MethodGet)
	api.HandleFunc("/solo/question", serverHandler.SoloQuestion).Methods(http.MethodGet)
	api.HandleFunc("/solo/questions", serverHandler.SoloQuestions).Methods(http.MethodGet)
	api.HandleFunc("/judge/ask", judgeHandler.Ask).Methods(http.MethodPost)
	api.HandleFunc("/judge/probe", judgeHandler.Probe).Methods(http.MethodPost)

	// Authenticated routes; each request refreshes the player's liveness
	protected := func(h http.HandlerFunc) http.Handler { return authMiddleware(h) }
	api.Handle("/players/heartbeat", protected(playerHandler.Heartbeat)).Methods(http.MethodPost)
	api.Handle("/players/me", protected(playerHandler.GetMe)).Methods(http.MethodGet)
	api.Handle("/queue", protected(queueHandler.Join)).Methods(http.MethodPost)
	api.Handle("/queue", protected(queueHandler.Poll)).Methods(http.MethodGet)
	api.Handle("/queue", protected(queueHandler.Leave)).Methods(http.MethodDelete)
	api.Handle("/rooms", protected(roomHandler.Create)).Methods(http.MethodPost)
	api.Handle("/rooms/{id}/join", protected(roomHandler.Join)).Methods(http.MethodPost)
	api.Handle("/rooms/{id}/leave", protected(roomHandler.Leave)).Methods(http.MethodPost)
	api.Handle("/games/{id}/question", protected(gameHandler.NextQuestion)).Methods(http.MethodGet)
	api.Handle("/scores", protected(scoreHandler.Submit)).Methods(http.MethodPost)

	return r
}
