// api/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"sitepulse/api/database"
	"sitepulse/api/handlers"
	"sitepulse/api/middleware"
	"sitepulse/api/stats"
	"sitepulse/api/store"
)

func main() {
	// Load .env file at the very start
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found or error loading .env: %v", err)
	}

	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// --- Initialize PostgreSQL Database (for dashboard users) ---
	dbClient, err := database.NewPostgresDB()
	if err != nil {
		log.Fatalf("Failed to initialize PostgreSQL database: %v", err)
	}
	defer dbClient.Close()

	userStore := store.NewUserStore(dbClient.DB)
	if err := userStore.EnsureSchema(context.Background()); err != nil {
		log.Fatalf("Failed to ensure users schema: %v", err)
	}

	// --- Initialize the visit event store ---
	// ClickHouse when configured, otherwise the in-memory store so the
	// tracking API still runs in local development.
	var visitStore stats.VisitStore
	if os.Getenv("CLICKHOUSE_HOST") != "" {
		chClient, err := database.NewClickHouseDB()
		if err != nil {
			log.Fatalf("Failed to initialize ClickHouse database: %v", err)
		}
		defer chClient.Close()

		chStore := store.NewVisitStore(chClient)
		if err := chStore.EnsureSchema(context.Background()); err != nil {
			log.Fatalf("Failed to ensure page_visits schema: %v", err)
		}
		visitStore = chStore
	} else {
		log.Println("CLICKHOUSE_HOST not set, using in-memory visit store (development only).")
		visitStore = store.NewMemoryVisitStore()
	}

	engine := stats.NewEngine(visitStore)

	// --- Initialize Handlers ---
	authHandlers := handlers.NewAuthHandlers(userStore)
	visitHandlers := handlers.NewVisitHandlers(visitStore, engine)

	r := gin.Default()

	r.Use(middleware.CORSMiddleware())

	api := r.Group("/api")
	{
		// Public: the client tracker posts here, fire-and-forget.
		api.POST("/track", visitHandlers.RecordVisit)

		// Dashboard account endpoints (no authentication required)
		api.POST("/signup", authHandlers.Signup)
		api.POST("/login", authHandlers.Login)
		api.POST("/logout", authHandlers.Logout)

		// Protected: the reporting dashboard polls stats.
		protected := api.Group("/")
		protected.Use(middleware.AuthRequired())
		{
			protected.GET("/stats", visitHandlers.GetStats)
		}
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	go func() {
		log.Printf("Go API server starting on http://localhost:%s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Go API server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting.")
}
