package repositories

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"dispatch-route-solver/internal/adapters/cache"
	"dispatch-route-solver/internal/domain"
)

const seedJSON = `{
	"depots": [
		{"depot_id": "depot-1", "lat": 33.45, "lon": -112.07}
	],
	"vehicles": [
		{
			"vehicle_id": "veh-1",
			"depot_id": "depot-1",
			"departure": "2026-03-02T08:00:00Z",
			"chef_level": 2,
			"day_segments": [1, 2]
		}
	],
	"customers": [
		{
			"customer_id": "cust-1",
			"name": "First Stop",
			"lat": 33.50,
			"lon": -112.00,
			"ready_time": "2026-03-02T09:00:00Z",
			"due_time": "2026-03-02T10:00:00Z",
			"service_seconds": 600,
			"order_size": 4,
			"fixed_vehicle_id": "veh-1",
			"allow_highways": true
		},
		{
			"customer_id": "cust-2",
			"name": "Open Window",
			"lat": 33.60,
			"lon": -112.10
		}
	]
}`

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, InitSchema(db))
	return db
}

func seedTestDB(t *testing.T, db *sql.DB, payload string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "seed.json")
	require.NoError(t, os.WriteFile(path, []byte(payload), 0o644))
	require.NoError(t, SeedFromJSON(db, path))
}

func TestLoadInstanceRoundTrip(t *testing.T) {
	db := openTestDB(t)
	seedTestDB(t, db, seedJSON)

	repo := NewSqliteInstanceRepository(db)
	instance, err := repo.LoadInstance(context.Background())
	require.NoError(t, err)

	require.Len(t, instance.Depots, 1)
	require.Len(t, instance.Vehicles, 1)
	require.Len(t, instance.Customers, 2)

	v := instance.Vehicles[0]
	require.Equal(t, "veh-1", v.ID)
	require.NotNil(t, v.Depot)
	require.Equal(t, "depot-1", v.Depot.ID)
	require.Equal(t, domain.Location{Lat: 33.45, Lon: -112.07}, v.Depot.Location)
	require.Equal(t, time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC), v.DepartureTime)
	require.Equal(t, 2, v.ChefLevel)
	require.Equal(t, []int{1, 2}, v.DaySegments)

	full := instance.Customers[0]
	require.Equal(t, "cust-1", full.ID)
	require.Equal(t, "First Stop", full.Name)
	require.Equal(t, 10*time.Minute, full.ServiceDuration)
	require.Equal(t, 4, full.OrderSize)
	require.Equal(t, "veh-1", full.FixedVehicleID)
	require.True(t, full.AllowHighways)
	require.True(t, full.HasDueTime())

	sparse := instance.Customers[1]
	require.Equal(t, "cust-2", sparse.ID)
	require.True(t, sparse.ReadyTime.IsZero())
	require.False(t, sparse.HasDueTime())
	require.Zero(t, sparse.ServiceDuration)
	require.Empty(t, sparse.FixedVehicleID)
}

func TestSeedValidation(t *testing.T) {
	db := openTestDB(t)
	dir := t.TempDir()

	cases := []struct {
		name    string
		payload string
	}{
		{"vehicle with unknown depot", `{
			"depots": [],
			"vehicles": [{"vehicle_id": "veh-1", "depot_id": "ghost", "departure": "2026-03-02T08:00:00Z"}]
		}`},
		{"vehicle without departure", `{
			"depots": [{"depot_id": "depot-1", "lat": 1, "lon": 2}],
			"vehicles": [{"vehicle_id": "veh-1", "depot_id": "depot-1"}]
		}`},
		{"customer pinned to unknown vehicle", `{
			"depots": [{"depot_id": "depot-1", "lat": 1, "lon": 2}],
			"vehicles": [],
			"customers": [{"customer_id": "cust-1", "name": "x", "lat": 1, "lon": 2, "fixed_vehicle_id": "ghost"}]
		}`},
		{"empty customer id", `{
			"depots": [],
			"vehicles": [],
			"customers": [{"customer_id": " ", "name": "x", "lat": 1, "lon": 2}]
		}`},
	}

	for i, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(dir, "bad"+string(rune('a'+i))+".json")
			require.NoError(t, os.WriteFile(path, []byte(tc.payload), 0o644))
			require.Error(t, SeedFromJSON(db, path))
		})
	}
}

func TestSeedIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	seedTestDB(t, db, seedJSON)
	seedTestDB(t, db, seedJSON)

	repo := NewSqliteInstanceRepository(db)
	instance, err := repo.LoadInstance(context.Background())
	require.NoError(t, err)
	require.Len(t, instance.Customers, 2)
}

func TestTravelCacheTableWorks(t *testing.T) {
	db := openTestDB(t)
	tc := cache.NewSqliteTravelTimeCache(db)
	ctx := context.Background()

	from := domain.Location{Lat: 33.45, Lon: -112.07}
	to := domain.Location{Lat: 33.60, Lon: -112.10}

	_, ok, err := tc.Get(ctx, from, to, false)
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, tc.Put(ctx, from, to, false, 480))
	require.NoError(t, tc.Put(ctx, from, to, false, 520)) // replace

	seconds, ok, err := tc.Get(ctx, from, to, false)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, int64(520), seconds)
}
