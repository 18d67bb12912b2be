package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"cafehub/internals/auth"
	"cafehub/internals/config"
	"cafehub/internals/handlers"
	"cafehub/internals/storage"
)

func main() {
	// A local .env may carry CONFIG_PATH and SESSION_SECRET_KEY.
	godotenv.Load()

	seed := flag.Bool("seed", false, "Load initial cities and cafes before serving")
	cfg := config.MustLoad()
	log.Println("Config loaded")

	db, err := storage.Open(cfg.Database.SQLitePath)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("Database connected")

	if err := storage.Migrate(db); err != nil {
		log.Fatalf("Failed to create tables: %v", err)
	}
	log.Println("Tables created or already exist")

	if *seed {
		if err := storage.Seed(context.Background(), db); err != nil {
			log.Fatalf("Failed to seed database: %v", err)
		}
		log.Println("Seed data loaded")
	}

	sm := auth.NewManager(cfg.Session.SecretKey, cfg.Session.CookieName,
		storage.NewUserRepository(db))
	router := handlers.NewRouter(db, sm)
	log.Println("Router setup complete")

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS", "PATCH", "PUT", "DELETE"},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true, // auth rides the session cookie
	})
	handler := c.Handler(router)

	server := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: handler,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Println("Server started")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-done
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to gracefully shutdown server: %v", err)
	}
	log.Println("Server stopped")
}
