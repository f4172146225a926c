package main

import (
	"database/sql"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/eamf/volleyball-stats-app-sub000/internal/volley"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	_ "github.com/tursodatabase/libsql-client-go/libsql"
)

// Simplified config loading for the script
func loadConfig() map[string]string {
	err := godotenv.Load()
	if err != nil {
		log.Warn("No .env file found, reading from environment variables")
	}

	config := make(map[string]string)
	required := []string{"TURSO_PRIMARY_URL", "TURSO_AUTH_TOKEN"}

	for _, key := range required {
		if value, ok := os.LookupEnv(key); ok {
			config[key] = value
		} else {
			log.Fatalf("Error: Required environment variable %s is not set.", key)
		}
	}
	return config
}

func main() {
	log.Info("Starting database seeder...")
	cfg := loadConfig()

	// Connect directly to the primary database
	dbURL := fmt.Sprintf("%s?authToken=%s", cfg["TURSO_PRIMARY_URL"], cfg["TURSO_AUTH_TOKEN"])
	db, err := sql.Open("libsql", dbURL)
	if err != nil {
		log.Fatalf("Failed to open primary database: %s", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to connect to primary database: %s", err)
	}

	log.Info("Successfully connected to the primary database.")

	seedPlayTypes(db)
	homeTeamID, awayTeamID := seedDemoClub(db)
	seedDemoGames(db, homeTeamID, awayTeamID)
}

func seedPlayTypes(db *sql.DB) {
	catalog := []volley.PlayType{
		{ID: "serve-ace", Category: volley.CategoryServe, Label: "Ace", DefaultValue: 1, DefaultScoreIncrement: 1, IsPositive: true},
		{ID: "serve-error", Category: volley.CategoryServe, Label: "Service Error", DefaultValue: 1, DefaultScoreIncrement: -1, IsPositive: false},
		{ID: "serve-in-play", Category: volley.CategoryServe, Label: "Serve In Play", DefaultValue: 1, DefaultScoreIncrement: 0, IsPositive: true},
		{ID: "attack-kill", Category: volley.CategoryAttack, Label: "Kill", DefaultValue: 1, DefaultScoreIncrement: 1, IsPositive: true},
		{ID: "attack-error", Category: volley.CategoryAttack, Label: "Attack Error", DefaultValue: 1, DefaultScoreIncrement: -1, IsPositive: false},
		{ID: "attack-blocked", Category: volley.CategoryAttack, Label: "Attack Blocked", DefaultValue: 1, DefaultScoreIncrement: 0, IsPositive: false},
		{ID: "block-point", Category: volley.CategoryBlock, Label: "Stuff Block", DefaultValue: 1, DefaultScoreIncrement: 1, IsPositive: true},
		{ID: "block-touch", Category: volley.CategoryBlock, Label: "Block Touch", DefaultValue: 1, DefaultScoreIncrement: 0, IsPositive: true},
		{ID: "block-error", Category: volley.CategoryBlock, Label: "Blocking Error", DefaultValue: 1, DefaultScoreIncrement: -1, IsPositive: false},
		{ID: "dig", Category: volley.CategoryDig, Label: "Dig", DefaultValue: 1, DefaultScoreIncrement: 0, IsPositive: true},
		{ID: "dig-error", Category: volley.CategoryDig, Label: "Dig Error", DefaultValue: 1, DefaultScoreIncrement: -1, IsPositive: false},
		{ID: "set-assist", Category: volley.CategorySet, Label: "Assist", DefaultValue: 1, DefaultScoreIncrement: 0, IsPositive: true},
		{ID: "set-error", Category: volley.CategorySet, Label: "Setting Error", DefaultValue: 1, DefaultScoreIncrement: -1, IsPositive: false},
		{ID: "receive-perfect", Category: volley.CategoryReceive, Label: "Perfect Pass", DefaultValue: 1, DefaultScoreIncrement: 0, IsPositive: true},
		{ID: "receive-error", Category: volley.CategoryReceive, Label: "Reception Error", DefaultValue: 1, DefaultScoreIncrement: -1, IsPositive: false},
		{ID: "opponent-error", Category: volley.CategoryError, Label: "Opponent Error", DefaultValue: 1, DefaultScoreIncrement: 1, IsPositive: true},
	}

	for _, pt := range catalog {
		_, err := db.Exec(
			"INSERT OR IGNORE INTO play_types (id, category, label, default_value, default_score_increment, is_positive) VALUES (?, ?, ?, ?, ?, ?)",
			pt.ID, pt.Category, pt.Label, pt.DefaultValue, pt.DefaultScoreIncrement, pt.IsPositive,
		)
		if err != nil {
			log.Fatalf("Failed to insert play type %s: %s", pt.ID, err)
		}
	}
	log.Info("Ensured play type catalog exists.", "types", len(catalog))
}

func seedDemoClub(db *sql.DB) (string, string) {
	now := time.Now().Unix()

	const clubID = "demo-club"
	if _, err := db.Exec(
		"INSERT OR IGNORE INTO clubs (id, name, city, created_at) VALUES (?, ?, ?, ?)",
		clubID, "Riverside Volley Club", "Porto", now,
	); err != nil {
		log.Fatalf("Failed to insert demo club: %s", err)
	}

	if _, err := db.Exec(
		"INSERT OR IGNORE INTO championships (id, club_id, name, season, created_at) VALUES (?, ?, ?, ?, ?)",
		"demo-championship", clubID, "Regional League", "2025/2026", now,
	); err != nil {
		log.Fatalf("Failed to insert demo championship: %s", err)
	}

	teams := []struct {
		id, name string
	}{
		{"demo-team-eagles", "Riverside Eagles"},
		{"demo-team-sharks", "Riverside Sharks"},
	}
	for _, t := range teams {
		if _, err := db.Exec(
			"INSERT OR IGNORE INTO teams (id, club_id, name, category, created_at) VALUES (?, ?, ?, ?, ?)",
			t.id, clubID, t.name, "SENIOR", now,
		); err != nil {
			log.Fatalf("Failed to insert demo team %s: %s", t.name, err)
		}
	}

	roster := []struct {
		teamID   string
		name     string
		jersey   int
		position string
	}{
		{"demo-team-eagles", "Ana Ribeiro", 7, "OUTSIDE_HITTER"},
		{"demo-team-eagles", "Bruno Costa", 12, "SETTER"},
		{"demo-team-eagles", "Carla Mendes", 3, "MIDDLE_BLOCKER"},
		{"demo-team-eagles", "Diogo Santos", 9, "LIBERO"},
		{"demo-team-sharks", "Eva Martins", 4, "OPPOSITE"},
		{"demo-team-sharks", "Filipe Rocha", 11, "OUTSIDE_HITTER"},
		{"demo-team-sharks", "Gabriela Pinto", 2, "SETTER"},
		{"demo-team-sharks", "Hugo Ferreira", 15, "MIDDLE_BLOCKER"},
	}
	for i, p := range roster {
		playerID := fmt.Sprintf("demo-player-%d", i+1)
		if _, err := db.Exec(
			"INSERT OR IGNORE INTO players (id, team_id, name, jersey_number, position, created_at) VALUES (?, ?, ?, ?, ?, ?)",
			playerID, p.teamID, p.name, p.jersey, p.position, now,
		); err != nil {
			log.Fatalf("Failed to insert demo player %s: %s", p.name, err)
		}
	}

	log.Info("Ensured demo club, teams and roster exist.")
	return teams[0].id, teams[1].id
}

func seedDemoGames(db *sql.DB, homeTeamID, awayTeamID string) {
	const batchSize = 50
	const numGames = 200

	log.Info("Preparing to insert demo games...", "total", numGames, "batch_size", batchSize)
	startTime := time.Now()

	tx, err := db.Begin()
	if err != nil {
		log.Fatalf("Failed to begin transaction: %s", err)
	}

	valueStrings := make([]string, 0, batchSize)
	valueArgs := make([]interface{}, 0, batchSize*6) // 6 columns per game

	for i := 0; i < numGames; i++ {
		scheduledAt := time.Now().Add(time.Duration(rand.Intn(90*24)) * time.Hour)

		valueStrings = append(valueStrings, "(?, ?, ?, ?, ?, ?)")
		valueArgs = append(valueArgs,
			uuid.NewString(),
			"demo-championship",
			homeTeamID,
			awayTeamID,
			scheduledAt.Unix(),
			volley.GameStatusScheduled,
		)

		if (i+1)%batchSize == 0 || (i+1) == numGames {
			stmt := fmt.Sprintf(`
				INSERT INTO games (id, championship_id, home_team_id, away_team_id, scheduled_at, status)
				VALUES %s;`, strings.Join(valueStrings, ","))

			_, err := tx.Exec(stmt, valueArgs...)
			if err != nil {
				tx.Rollback()
				log.Fatalf("Failed to execute batch insert: %s", err)
			}

			// Reset for the next batch
			valueStrings = make([]string, 0, batchSize)
			valueArgs = make([]interface{}, 0, batchSize*6)
			log.Info("Inserted batch", "completed", i+1, "total", numGames)
		}
	}

	if err := tx.Commit(); err != nil {
		log.Fatalf("Failed to commit transaction: %s", err)
	}

	duration := time.Since(startTime)
	log.Info("Successfully inserted all demo games.", "duration", duration)
}
