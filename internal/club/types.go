package club

import (
	"database/sql"
	"sync"
)

// store handles all database operations for the club.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}

// ClubInfo represents a club in the store.
type ClubInfo struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	City      string `json:"city,omitempty"`
	CreatedAt int64  `json:"created_at"`
}

// Championship represents a competition a club's teams play in.
type Championship struct {
	ID        string `json:"id"`
	ClubID    string `json:"club_id"`
	Name      string `json:"name"`
	Season    string `json:"season,omitempty"`
	CreatedAt int64  `json:"created_at"`
}

// TeamInfo represents a team in the store.
type TeamInfo struct {
	ID        string `json:"id"`
	ClubID    string `json:"club_id"`
	Name      string `json:"name"`
	Category  string `json:"category,omitempty"`
	CreatedAt int64  `json:"created_at"`
}

// PlayerInfo represents a player in the store.
type PlayerInfo struct {
	ID           string  `json:"id"`
	TeamID       *string `json:"team_id,omitempty"`
	Name         string  `json:"name"`
	JerseyNumber *int    `json:"jersey_number,omitempty"`
	Position     *string `json:"position,omitempty"`
	CreatedAt    int64   `json:"created_at"`
}

// PlayerStats represents a player's aggregated statistics for the leaderboard.
type PlayerStats struct {
	PlayerID        string  `json:"player_id"`
	PlayerName      string  `json:"player_name"`
	GamesPlayed     int     `json:"games_played"`
	GamesWon        int     `json:"games_won"`
	GamesLost       int     `json:"games_lost"`
	SetsWon         int     `json:"sets_won"`
	SetsLost        int     `json:"sets_lost"`
	PointsScored    int     `json:"points_scored"`
	ErrorsCommitted int     `json:"errors_committed"`
	WinPercentage   float64 `json:"win_percentage"`
}

// PlayerGameLine is one player's contribution to a completed game, used to
// roll the game into the aggregated player_stats table.
type PlayerGameLine struct {
	PlayerID        string `json:"player_id"`
	Won             bool   `json:"won"`
	SetsWon         int    `json:"sets_won"`
	SetsLost        int    `json:"sets_lost"`
	PointsScored    int    `json:"points_scored"`
	ErrorsCommitted int    `json:"errors_committed"`
}
