package main

import (
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"dispatch-route-solver/internal/adapters/cache"
	"dispatch-route-solver/internal/adapters/distance"
	"dispatch-route-solver/internal/adapters/repositories"
	"dispatch-route-solver/internal/api"
	"dispatch-route-solver/internal/platform/config"
	"dispatch-route-solver/internal/platform/db"
	"dispatch-route-solver/internal/ports"

	"github.com/joho/godotenv"
	_ "modernc.org/sqlite"
)

// main is the application composition root.
// It wires concrete adapters (SQLite, Redis, ORS) behind ports and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	dbPath := config.Get("DB_PATH", "data/app.db")
	seedPath := config.Get("SEED_PATH", "data/seeds/instance.json")
	port := config.Get("PORT", "8080")

	sqldb, err := db.OpenSqlite(dbPath)
	if err != nil {
		log.Fatal(err)
	}
	defer sqldb.Close()

	// Initialize schema and seed demo data on startup for local runs.
	if err := initAndSeed(sqldb, seedPath); err != nil {
		log.Fatal(err)
	}

	provider, err := buildTravelTimeProvider(sqldb)
	if err != nil {
		log.Fatal(err)
	}

	repo := repositories.NewSqliteInstanceRepository(sqldb)
	router := api.NewRouter(repo, provider)

	// Timeouts are tuned for cold-cache travel matrix builds (external API latency).
	log.Printf("Server listening addr=:%s", port)
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}

// buildTravelTimeProvider picks the travel-time source and cache from the environment.
// With ORS_BASE_URL set the OpenRouteService adapter is used, otherwise the
// haversine estimator keeps the service usable offline. REDIS_URL switches the
// cache from the local SQLite table to a shared Redis instance.
func buildTravelTimeProvider(sqldb *sql.DB) (ports.TravelTimeProvider, error) {
	var inner ports.TravelTimeProvider

	if baseURL := strings.TrimSpace(os.Getenv("ORS_BASE_URL")); baseURL != "" {
		cfg := distance.DefaultConfig()
		cfg.BaseURL = baseURL
		cfg.APIKey = os.Getenv("ORS_API_KEY")
		cfg.Timeout = config.GetDuration("ORS_TIMEOUT", cfg.Timeout)

		ors, err := distance.NewORSTravelTimeProvider(cfg)
		if err != nil {
			return nil, fmt.Errorf("build travel time provider: %w", err)
		}
		inner = ors
	} else {
		log.Println("ORS_BASE_URL not set, using haversine travel time estimates")
		inner = distance.NewHaversineTravelTimeProvider()
	}

	var tc ports.TravelTimeCache
	if redisURL := strings.TrimSpace(os.Getenv("REDIS_URL")); redisURL != "" {
		ttl := config.GetDuration("REDIS_CACHE_TTL", 24*time.Hour)
		rc, err := cache.NewRedisTravelTimeCacheFromURL(redisURL, ttl)
		if err != nil {
			return nil, fmt.Errorf("build travel time provider: %w", err)
		}
		tc = rc
	} else {
		tc = cache.NewSqliteTravelTimeCache(sqldb)
	}

	return distance.NewCachingTravelTimeProvider(tc, inner), nil
}

func initAndSeed(sqldb *sql.DB, seedPath string) error {
	if err := repositories.InitSchema(sqldb); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	if err := repositories.SeedFromJSON(sqldb, seedPath); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	return nil
}
