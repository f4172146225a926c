package notifier

import (
	"github.com/eamf/volleyball-stats-app-sub000/internal/club"
)

// SetScore is one set line in a final game result.
type SetScore struct {
	Number    int `json:"number"`
	HomeScore int `json:"home_score"`
	AwayScore int `json:"away_score"`
}

// GameResult is the denormalized summary of a completed game used for
// notifications. It is assembled from the game and club stores so the
// notifier never touches the database itself.
type GameResult struct {
	GameID       string     `json:"game_id"`
	HomeTeamName string     `json:"home_team_name"`
	AwayTeamName string     `json:"away_team_name"`
	HomeSetsWon  int        `json:"home_sets_won"`
	AwaySetsWon  int        `json:"away_sets_won"`
	Sets         []SetScore `json:"sets"`
	CompletedAt  int64      `json:"completed_at"`
}

// Winner returns the name of the winning team.
func (r *GameResult) Winner() string {
	if r.HomeSetsWon > r.AwaySetsWon {
		return r.HomeTeamName
	}
	return r.AwayTeamName
}

// Notifier defines a high-level interface for sending notifications about business events.
// This decouples the rest of the application from the specific notification provider (e.g., Slack).
type Notifier interface {
	// For completed games
	SendResultNotification(result *GameResult, dryRun bool) error
	// For leaderboard and player stat lookups
	SendLeaderboard(stats []club.PlayerStats, dryRun bool) error
	SendPlayerStats(stats *club.PlayerStats, query string, dryRun bool) error
	SendPlayerNotFound(query string, dryRun bool) error

	// For formatting responses without sending
	FormatLeaderboardResponse(stats []club.PlayerStats) (any, error)
	FormatPlayerStatsResponse(stats *club.PlayerStats, query string) (any, error)
	FormatPlayerNotFoundResponse(query string) (any, error)
}
