package storage

import (
	"strconv"
	"strings"
	"time"
)

// dialect holds the SQL differences between the supported databases.
type dialect struct {
	name   string
	driver string
	schema string
	// numbered placeholders ($1, $2, ...) instead of ?
	numbered bool
}

var sqliteDialect = dialect{
	name:   "sqlite",
	driver: "sqlite",
	schema: `
		CREATE TABLE IF NOT EXISTS scores (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			game_id TEXT NOT NULL,
			score INTEGER NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_scores_game_id ON scores(game_id);
		CREATE INDEX IF NOT EXISTS idx_scores_top ON scores(game_id, score DESC);

		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			game_id TEXT NOT NULL,
			level_id TEXT NOT NULL,
			score INTEGER NOT NULL DEFAULT 0,
			pellets INTEGER NOT NULL DEFAULT 0,
			fruits INTEGER NOT NULL DEFAULT 0,
			captures INTEGER NOT NULL DEFAULT 0,
			deaths INTEGER NOT NULL DEFAULT 0,
			duration_ms INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_runs_game_id ON runs(game_id);
	`,
}

var postgresDialect = dialect{
	name:     "postgres",
	driver:   "postgres",
	numbered: true,
	schema: `
		CREATE TABLE IF NOT EXISTS scores (
			id BIGSERIAL PRIMARY KEY,
			game_id TEXT NOT NULL,
			score INTEGER NOT NULL,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_scores_game_id ON scores(game_id);
		CREATE INDEX IF NOT EXISTS idx_scores_top ON scores(game_id, score DESC);

		CREATE TABLE IF NOT EXISTS runs (
			id BIGSERIAL PRIMARY KEY,
			game_id TEXT NOT NULL,
			level_id TEXT NOT NULL,
			score INTEGER NOT NULL DEFAULT 0,
			pellets INTEGER NOT NULL DEFAULT 0,
			fruits INTEGER NOT NULL DEFAULT 0,
			captures INTEGER NOT NULL DEFAULT 0,
			deaths INTEGER NOT NULL DEFAULT 0,
			duration_ms BIGINT NOT NULL DEFAULT 0,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_runs_game_id ON runs(game_id);
	`,
}

// isPostgresDSN reports whether a data source name addresses PostgreSQL.
func isPostgresDSN(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

// rebind rewrites ? placeholders for dialects with numbered parameters.
// Queries in this package never contain a literal question mark.
func (d dialect) rebind(query string) string {
	if !d.numbered {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// sqliteTimeLayouts are the text forms SQLite may hand back for a DATETIME.
var sqliteTimeLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
}

// parseTime converts a scanned timestamp column. The sqlite driver returns
// strings or time.Time depending on the column; lib/pq returns time.Time.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		for _, layout := range sqliteTimeLayouts {
			if parsed, err := time.Parse(layout, t); err == nil {
				return parsed
			}
		}
	case []byte:
		return parseTime(string(t))
	}
	return time.Time{}
}
