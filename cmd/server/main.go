// cmd/server/main.go
package main

import (
	"context"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/tahcohcat/eventquest-web/config"
	"github.com/tahcohcat/eventquest-web/internal/api"
	"github.com/tahcohcat/eventquest-web/internal/auth"
	"github.com/tahcohcat/eventquest-web/internal/database"
	"github.com/tahcohcat/eventquest-web/internal/logger"
	"github.com/tahcohcat/eventquest-web/internal/middleware"
	"github.com/tahcohcat/eventquest-web/internal/services"
	"github.com/tahcohcat/eventquest-web/internal/websocket"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New().WithError(err).Error("failed to load config")
		os.Exit(1)
	}

	logger.Init(cfg.Log.Env, logger.LogLevel(cfg.Log.Level))
	log := logger.New()

	// Initialize database
	db, err := database.NewDB(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		log.WithError(err).Error("failed to initialize database")
		os.Exit(1)
	}
	defer db.Close()

	if cfg.Database.Seed {
		if err := db.Seed(context.Background()); err != nil {
			log.WithError(err).Error("failed to seed database")
			os.Exit(1)
		}
		log.WithField("demo_user", database.DemoUserID).Info("demo data seeded")
	}

	// Initialize services
	profiles := services.NewProfileService(db, cfg.Leaderboard.NextLevelPoints)
	leaderboard := services.NewLeaderboardService(db)
	catalog := services.NewCatalogService(db)

	authn := auth.New(cfg.Auth.SessionSecret, db, cfg.Auth.PasscodeHash)

	hub := websocket.NewHub(cfg.Server.AllowedOrigins)
	go hub.Run()

	r := mux.NewRouter()
	r.Use(middleware.Logging)
	r.Use(authn.SessionMiddleware)

	r.HandleFunc("/login", authn.LoginHandler).Methods("GET", "POST")
	r.HandleFunc("/logout", authn.LogoutHandler).Methods("GET", "POST")

	dashboard := api.NewDashboardHandler(profiles, leaderboard, catalog, hub)
	authn.OnLogout(dashboard.DropBoard)

	apiRouter := r.PathPrefix("/api/v1").Subrouter()
	api.RegisterRoutes(apiRouter, dashboard)

	r.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		hub.ServeWS(w, r, auth.BoardID(r))
	})

	// Dashboard frontend
	r.PathPrefix("/").Handler(http.FileServer(http.Dir(cfg.Server.StaticDir))).Methods("GET")

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	log.WithField("port", cfg.Server.Port).
		WithField("driver", cfg.Database.Driver).
		Info("EventQuest server starting")

	if err := http.ListenAndServe(":"+cfg.Server.Port, c.Handler(r)); err != nil {
		log.WithError(err).Error("server stopped")
		os.Exit(1)
	}
}
