package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"strings"
	"time"

	"dispatch-route-solver/internal/adapters/cache"
	"dispatch-route-solver/internal/adapters/distance"
	"dispatch-route-solver/internal/adapters/repositories"
	"dispatch-route-solver/internal/domain"
	"dispatch-route-solver/internal/platform/config"
	"dispatch-route-solver/internal/platform/db"
	"dispatch-route-solver/internal/ports"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	_ "modernc.org/sqlite"
)

// matrixtool pre-warms the travel-time cache for a problem instance so the
// server never blocks a solve on cold routing calls. It queries every
// unordered location pair in both highway modes and writes the results to
// the configured cache backend.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	dbPath := config.Get("DB_PATH", "data/app.db")
	seedPath := config.Get("SEED_PATH", "data/seeds/instance.json")

	sqldb, err := db.OpenSqlite(dbPath)
	if err != nil {
		log.Fatal(err)
	}
	defer sqldb.Close()

	if err := repositories.InitSchema(sqldb); err != nil {
		log.Fatal(err)
	}
	if err := repositories.SeedFromJSON(sqldb, seedPath); err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()

	tc, err := buildCache(ctx, sqldb)
	if err != nil {
		log.Fatal(err)
	}

	provider := buildProvider()

	repo := repositories.NewSqliteInstanceRepository(sqldb)
	instance, err := repo.LoadInstance(ctx)
	if err != nil {
		log.Fatal(err)
	}

	locations := instance.Locations()
	log.Printf("Warming travel cache locations=%d pairs=%d", len(locations), len(locations)*(len(locations)-1)/2)

	warmed, err := warm(ctx, tc, provider, locations)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("Travel cache warm complete entries=%d", warmed)
}

// buildCache prefers a shared Postgres cache when DATABASE_URL is set,
// then Redis, then the local SQLite table.
func buildCache(ctx context.Context, sqldb *sql.DB) (ports.TravelTimeCache, error) {
	if databaseURL := strings.TrimSpace(os.Getenv("DATABASE_URL")); databaseURL != "" {
		pgdb, err := db.OpenPostgres(databaseURL)
		if err != nil {
			return nil, err
		}

		pc := cache.NewSQLTravelTimeCache(pgdb)
		if err := pc.InitSchema(ctx); err != nil {
			return nil, err
		}
		return pc, nil
	}

	if redisURL := strings.TrimSpace(os.Getenv("REDIS_URL")); redisURL != "" {
		ttl := config.GetDuration("REDIS_CACHE_TTL", 24*time.Hour)
		return cache.NewRedisTravelTimeCacheFromURL(redisURL, ttl)
	}

	return cache.NewSqliteTravelTimeCache(sqldb), nil
}

func buildProvider() ports.TravelTimeProvider {
	baseURL := strings.TrimSpace(os.Getenv("ORS_BASE_URL"))
	if baseURL == "" {
		log.Println("ORS_BASE_URL not set, using haversine travel time estimates")
		return distance.NewHaversineTravelTimeProvider()
	}

	cfg := distance.DefaultConfig()
	cfg.BaseURL = baseURL
	cfg.APIKey = os.Getenv("ORS_API_KEY")
	cfg.Timeout = config.GetDuration("ORS_TIMEOUT", cfg.Timeout)

	ors, err := distance.NewORSTravelTimeProvider(cfg)
	if err != nil {
		log.Fatal(err)
	}
	return ors
}

// warm fills the cache for every unordered pair in both highway modes,
// skipping entries already present.
func warm(ctx context.Context, tc ports.TravelTimeCache, provider ports.TravelTimeProvider, locations []domain.Location) (int, error) {
	warmed := 0

	for i := 0; i < len(locations); i++ {
		for j := i + 1; j < len(locations); j++ {
			for _, allowHighways := range []bool{false, true} {
				if _, ok, err := tc.Get(ctx, locations[i], locations[j], allowHighways); err != nil {
					return warmed, err
				} else if ok {
					continue
				}

				seconds, err := provider.TravelTime(ctx, locations[i], locations[j], allowHighways)
				if err != nil {
					return warmed, err
				}

				if err := tc.Put(ctx, locations[i], locations[j], allowHighways, seconds); err != nil {
					return warmed, err
				}
				warmed++
			}
		}
	}

	return warmed, nil
}
