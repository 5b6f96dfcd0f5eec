package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
	if store.Driver() != "sqlite" {
		t.Errorf("Driver() = %q, expected sqlite", store.Driver())
	}
}

func TestStoreSaveAndRetrieve(t *testing.T) {
	store := openTestStore(t)

	for _, score := range []int{100, 50, 200} {
		if _, err := store.SaveScore("ghostmaze", score); err != nil {
			t.Fatalf("SaveScore() failed: %v", err)
		}
	}
	if _, err := store.SaveScore("ghostmaze_twin", 500); err != nil {
		t.Fatalf("SaveScore() failed: %v", err)
	}

	scores, err := store.TopScores("ghostmaze", 10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(scores) != 3 {
		t.Fatalf("Expected 3 scores, got %d", len(scores))
	}
	if scores[0].Score != 200 || scores[1].Score != 100 || scores[2].Score != 50 {
		t.Errorf("Scores not in expected order: %v", scores)
	}
	if scores[0].CreatedAt.IsZero() {
		t.Error("CreatedAt was not parsed")
	}

	twin, err := store.TopScores("ghostmaze_twin", 10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(twin) != 1 {
		t.Errorf("Expected 1 twin score, got %d", len(twin))
	}
}

func TestStoreTopScoresLimit(t *testing.T) {
	store := openTestStore(t)

	for i := 0; i < 5; i++ {
		store.SaveScore("test", (i+1)*100)
	}

	scores, err := store.TopScores("test", 3)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(scores) != 3 {
		t.Fatalf("Expected 3 scores with limit, got %d", len(scores))
	}
	if scores[0].Score != 500 || scores[1].Score != 400 || scores[2].Score != 300 {
		t.Errorf("Scores not in expected order: %v", scores)
	}

	all, err := store.AllScores("test")
	if err != nil {
		t.Fatalf("AllScores() failed: %v", err)
	}
	if len(all) != 5 {
		t.Errorf("Expected 5 scores, got %d", len(all))
	}
}

func TestStoreHighScore(t *testing.T) {
	store := openTestStore(t)

	high, err := store.HighScore("ghostmaze")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 0 {
		t.Errorf("Expected high score of 0 for empty game, got %d", high)
	}

	store.SaveScore("ghostmaze", 100)
	store.SaveScore("ghostmaze", 300)
	store.SaveScore("ghostmaze", 200)

	high, err = store.HighScore("ghostmaze")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 300 {
		t.Errorf("Expected high score of 300, got %d", high)
	}
}

func TestStoreRuns(t *testing.T) {
	store := openTestStore(t)

	for i := 0; i < 3; i++ {
		_, err := store.SaveRun(Run{
			GameID:   "ghostmaze",
			LevelID:  "classic",
			Score:    10 * (i + 1),
			Pellets:  i,
			Fruits:   1,
			Captures: 2,
			Deaths:   3,
			Duration: time.Duration(i+1) * 1500 * time.Millisecond,
		})
		if err != nil {
			t.Fatalf("SaveRun() failed: %v", err)
		}
	}
	store.SaveRun(Run{GameID: "ghostmaze_twin", LevelID: "twin"})

	runs, err := store.RecentRuns("ghostmaze", 2)
	if err != nil {
		t.Fatalf("RecentRuns() failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("Expected 2 runs, got %d", len(runs))
	}
	r := runs[0]
	if r.Score != 30 || r.Pellets != 2 || r.LevelID != "classic" {
		t.Errorf("newest run = %+v", r)
	}
	if r.Duration != 4500*time.Millisecond {
		t.Errorf("Duration = %v, expected 4.5s", r.Duration)
	}
	if r.Fruits != 1 || r.Captures != 2 || r.Deaths != 3 {
		t.Errorf("counters = %d/%d/%d", r.Fruits, r.Captures, r.Deaths)
	}
}

func TestStoreClearScores(t *testing.T) {
	store := openTestStore(t)

	store.SaveScore("ghostmaze", 100)
	store.SaveScore("ghostmaze", 200)
	store.SaveScore("ghostmaze_twin", 300)
	store.SaveRun(Run{GameID: "ghostmaze", LevelID: "classic"})

	if err := store.ClearScores("ghostmaze"); err != nil {
		t.Fatalf("ClearScores() failed: %v", err)
	}

	if scores, _ := store.TopScores("ghostmaze", 10); len(scores) != 0 {
		t.Errorf("Expected 0 scores after clear, got %d", len(scores))
	}
	if runs, _ := store.RecentRuns("ghostmaze", 10); len(runs) != 0 {
		t.Errorf("Expected 0 runs after clear, got %d", len(runs))
	}
	if scores, _ := store.TopScores("ghostmaze_twin", 10); len(scores) != 1 {
		t.Error("Other games should not be affected by clearing")
	}
}

func TestStoreGameStats(t *testing.T) {
	store := openTestStore(t)

	stats, err := store.GetGameStats("ghostmaze")
	if err != nil {
		t.Fatalf("GetGameStats() failed: %v", err)
	}
	if stats.GamesCount != 0 || !stats.LastPlayed.IsZero() {
		t.Errorf("empty stats = %+v", stats)
	}

	store.SaveScore("ghostmaze", 10)
	store.SaveScore("ghostmaze", 30)
	store.SaveScore("ghostmaze_twin", 5)

	stats, err = store.GetGameStats("ghostmaze")
	if err != nil {
		t.Fatalf("GetGameStats() failed: %v", err)
	}
	if stats.GamesCount != 2 || stats.HighScore != 30 || stats.AvgScore != 20 || stats.TotalScore != 40 {
		t.Errorf("stats = %+v", stats)
	}

	all, err := store.GetAllGamesStats()
	if err != nil {
		t.Fatalf("GetAllGamesStats() failed: %v", err)
	}
	if len(all) != 2 || all["ghostmaze_twin"].HighScore != 5 {
		t.Errorf("all stats = %v", all)
	}
}

func TestStoreNestedPath(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "subdir", "deep", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}
}

func TestRebind(t *testing.T) {
	tests := []struct {
		d     dialect
		query string
		want  string
	}{
		{sqliteDialect, "SELECT a FROM t WHERE b = ? AND c = ?", "SELECT a FROM t WHERE b = ? AND c = ?"},
		{postgresDialect, "SELECT a FROM t WHERE b = ? AND c = ?", "SELECT a FROM t WHERE b = $1 AND c = $2"},
		{postgresDialect, "DELETE FROM t", "DELETE FROM t"},
	}

	for _, tt := range tests {
		if got := tt.d.rebind(tt.query); got != tt.want {
			t.Errorf("%s rebind(%q) = %q, expected %q", tt.d.name, tt.query, got, tt.want)
		}
	}
}

func TestIsPostgresDSN(t *testing.T) {
	tests := map[string]bool{
		"postgres://user@localhost/ghostmaze":   true,
		"postgresql://user@localhost/ghostmaze": true,
		"~/.ghostmaze/scores.db":                false,
		"/tmp/postgres.db":                      false,
	}
	for dsn, want := range tests {
		if got := isPostgresDSN(dsn); got != want {
			t.Errorf("isPostgresDSN(%q) = %v, expected %v", dsn, got, want)
		}
	}
}

func TestParseTime(t *testing.T) {
	want := time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)
	tests := []any{
		want,
		"2024-05-01 12:30:00",
		"2024-05-01T12:30:00Z",
		[]byte("2024-05-01 12:30:00"),
	}
	for _, in := range tests {
		if got := parseTime(in); !got.Equal(want) {
			t.Errorf("parseTime(%v) = %v, expected %v", in, got, want)
		}
	}
	if got := parseTime(nil); !got.IsZero() {
		t.Errorf("parseTime(nil) = %v, expected zero", got)
	}
}

// TestPostgresStore runs against a live server when GHOSTMAZE_TEST_POSTGRES
// holds a DSN.
func TestPostgresStore(t *testing.T) {
	dsn := os.Getenv("GHOSTMAZE_TEST_POSTGRES")
	if dsn == "" {
		t.Skip("GHOSTMAZE_TEST_POSTGRES not set")
	}

	store, err := Open(dsn)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	const game = "ghostmaze_pgtest"
	if err := store.ClearScores(game); err != nil {
		t.Fatalf("ClearScores() failed: %v", err)
	}
	defer store.ClearScores(game)

	id, err := store.SaveScore(game, 42)
	if err != nil || id == 0 {
		t.Fatalf("SaveScore() = %d, %v", id, err)
	}
	if high, err := store.HighScore(game); err != nil || high != 42 {
		t.Errorf("HighScore() = %d, %v", high, err)
	}
	if _, err := store.SaveRun(Run{GameID: game, LevelID: "classic", Score: 42}); err != nil {
		t.Fatalf("SaveRun() failed: %v", err)
	}
	runs, err := store.RecentRuns(game, 5)
	if err != nil || len(runs) != 1 || runs[0].CreatedAt.IsZero() {
		t.Errorf("RecentRuns() = %v, %v", runs, err)
	}
}
