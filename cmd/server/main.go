package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"notesync-web/internal/config"
	"notesync-web/internal/handler"
	"notesync-web/internal/middleware"
	"notesync-web/internal/remote"
	"notesync-web/internal/repository"
	"notesync-web/internal/service"
	"notesync-web/internal/view"
	"notesync-web/internal/websocket"
	"notesync-web/pkg/hash"

	_ "github.com/go-kivik/kivik/v4/couchdb"

	"github.com/go-kivik/kivik/v4"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	sessionKey, err := hash.DeriveKey(cfg.Session.Secret, "session", 32)
	if err != nil {
		log.Fatalf("Failed to derive session key: %v", err)
	}

	stateRepo, closeState := openStateRepository(cfg)
	defer closeState()

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	go sweepExpiredState(ctx, stateRepo, time.Hour)

	api := remote.NewClient(cfg.API.BaseURL, cfg.API.Timeout)

	wsManager := websocket.NewManager(websocket.Options{
		MaxConnPerUser: cfg.WebSocket.MaxConnPerUser,
		MaxMessageSize: cfg.WebSocket.MaxMessageSize,
		WriteWait:      cfg.WebSocket.WriteWait,
		PongWait:       cfg.WebSocket.PongWait,
		PingPeriod:     cfg.WebSocket.PingPeriod,
	})
	go wsManager.Run(ctx)

	authService := service.NewAuthService(api, stateRepo, sessionKey, cfg.Session.TTL)
	noteService := service.NewNoteService(api, wsManager)
	historyService := service.NewHistoryService(api, wsManager, cfg.History.PageSize, cfg.History.RestoreTimeout)
	settingsService := service.NewSettingsService(api)
	preferenceService := service.NewPreferenceService(stateRepo)

	cookie := middleware.SessionCookie{
		Name:   cfg.Session.CookieName,
		Secure: cfg.Session.Secure,
		TTL:    cfg.Session.TTL,
	}
	renderer := handler.NewRenderer(view.MustParseTemplates(), authService, cookie)

	authHandler := handler.NewAuthHandler(renderer, authService, historyService)
	noteHandler := handler.NewNoteHandler(renderer, noteService, preferenceService)
	recycleHandler := handler.NewRecycleHandler(renderer, noteService)
	historyHandler := handler.NewHistoryHandler(renderer, historyService, preferenceService, cfg.History.RestoreTimeout)
	settingsHandler := handler.NewSettingsHandler(renderer, settingsService)
	preferenceHandler := handler.NewPreferenceHandler(preferenceService)
	wsHandler := handler.NewWebSocketHandler(wsManager, cfg.WebSocket.ReadBufferSize, cfg.WebSocket.WriteBufferSize)
	healthHandler := handler.NewHealthHandler(stateRepo)

	r := mux.NewRouter()

	r.Use(middleware.LoggerMiddleware())
	r.Use(middleware.CORSMiddleware(
		cfg.CORS.AllowedOrigins,
		cfg.CORS.AllowedMethods,
		cfg.CORS.AllowedHeaders,
	))
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware())
		r.Handle("/metrics", promhttp.Handler()).Methods("GET")
	}

	r.HandleFunc("/health", healthHandler.Health).Methods("GET")
	r.HandleFunc("/login", authHandler.LoginPage).Methods("GET")
	r.HandleFunc("/login", authHandler.Login).Methods("POST", "OPTIONS")

	protected := r.PathPrefix("").Subrouter()
	protected.Use(middleware.AuthMiddleware(authService, cookie))

	protected.HandleFunc("/logout", authHandler.Logout).Methods("POST")

	protected.HandleFunc("/", noteHandler.Vaults).Methods("GET")
	protected.HandleFunc("/vaults/{vault}/notes", noteHandler.Notes).Methods("GET")
	protected.HandleFunc("/vaults/{vault}/note", noteHandler.Note).Methods("GET")
	protected.HandleFunc("/vaults/{vault}/files", noteHandler.Files).Methods("GET")

	protected.HandleFunc("/vaults/{vault}/recycle", recycleHandler.List).Methods("GET")
	protected.HandleFunc("/vaults/{vault}/recycle/restore", recycleHandler.Restore).Methods("POST")
	protected.HandleFunc("/vaults/{vault}/recycle/delete", recycleHandler.Delete).Methods("POST")

	protected.HandleFunc("/history/open", historyHandler.Open).Methods("POST")
	protected.HandleFunc("/history", historyHandler.List).Methods("GET")
	protected.HandleFunc("/history/toggle", historyHandler.Toggle).Methods("POST")
	protected.HandleFunc("/history/restore", historyHandler.Restore).Methods("POST")
	protected.HandleFunc("/history/close", historyHandler.Close).Methods("POST")
	protected.HandleFunc("/history/{id:[0-9]+}", historyHandler.Select).Methods("GET")
	protected.HandleFunc("/history/{id:[0-9]+}/raw", historyHandler.Raw).Methods("GET")

	protected.HandleFunc("/api/preferences", preferenceHandler.Get).Methods("GET", "OPTIONS")
	protected.HandleFunc("/api/preferences", preferenceHandler.Update).Methods("PUT", "OPTIONS")

	protected.HandleFunc("/ws", wsHandler.HandleConnection)

	admin := protected.PathPrefix("/settings").Subrouter()
	admin.Use(middleware.RequireAdmin)
	admin.HandleFunc("", settingsHandler.Get).Methods("GET")
	admin.HandleFunc("", settingsHandler.Update).Methods("POST")

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)

	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Starting notesync-web on %s (env: %s)", addr, cfg.Server.Env)
		log.Printf("Using sync API at %s, state backend %s", cfg.API.BaseURL, cfg.State.Backend)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped gracefully")
}

func openStateRepository(cfg *config.Config) (repository.AppStateRepository, func()) {
	switch cfg.State.Backend {
	case config.StateBackendCouchDB:
		client, err := kivik.New("couch", cfg.Database.URL())
		if err != nil {
			log.Fatalf("Failed to connect to CouchDB: %v", err)
		}

		exists, err := client.DBExists(context.Background(), cfg.Database.Name)
		if err != nil {
			log.Fatalf("Failed to check database existence: %v", err)
		}

		if !exists {
			if err := client.CreateDB(context.Background(), cfg.Database.Name); err != nil {
				log.Fatalf("Failed to create database: %v", err)
			}
			log.Printf("Created database: %s", cfg.Database.Name)
		}
		log.Printf("Connected to CouchDB at %s:%s", cfg.Database.Host, cfg.Database.Port)

		return repository.NewCouchAppStateRepository(client, cfg.Database.Name), func() { client.Close() }

	case config.StateBackendSQLite:
		repo, db, err := repository.OpenSQLiteAppStateRepository(cfg.State.SQLitePath)
		if err != nil {
			log.Fatalf("Failed to open state database: %v", err)
		}
		return repo, closeDB(db)

	default:
		return repository.NewMemoryAppStateRepository(), func() {}
	}
}

func closeDB(db *sql.DB) func() {
	return func() {
		if err := db.Close(); err != nil {
			log.Printf("Failed to close state database: %v", err)
		}
	}
}

// sweepExpiredState drops app state whose session has lapsed.
func sweepExpiredState(ctx context.Context, repo repository.AppStateRepository, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			deleted, err := repo.DeleteExpired(ctx, now)
			if err != nil {
				log.Printf("[State] sweep failed: %v", err)
				continue
			}
			if deleted > 0 {
				log.Printf("[State] removed %d expired sessions", deleted)
			}
		}
	}
}
