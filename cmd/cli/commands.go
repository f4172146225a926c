package main

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(gamesCmd)
	rootCmd.AddCommand(scoreCmd)
	rootCmd.AddCommand(boxScoreCmd)
	rootCmd.AddCommand(startGameCmd)
	rootCmd.AddCommand(playersCmd)
	rootCmd.AddCommand(playTypesCmd)
	rootCmd.AddCommand(leaderboardCmd)
	rootCmd.AddCommand(recordPlayCmd)
	rootCmd.AddCommand(metricsCmd)
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/health")
	},
}

var gamesCmd = &cobra.Command{
	Use:   "games",
	Short: "List the games in the store",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/games")
	},
}

var scoreCmd = &cobra.Command{
	Use:   "score <gameID>",
	Short: "Show the live score for a game",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/games/score?gameID=" + url.QueryEscape(args[0]))
	},
}

var boxScoreCmd = &cobra.Command{
	Use:   "box-score <gameID>",
	Short: "Show the per-player box score for a game",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/games/box-score?gameID=" + url.QueryEscape(args[0]))
	},
}

var startGameCmd = &cobra.Command{
	Use:   "start-game <gameID>",
	Short: "Start a scorekeeping session for a game",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performPostRequest("/games/start?gameID="+url.QueryEscape(args[0]), "")
	},
}

var playersCmd = &cobra.Command{
	Use:   "players",
	Short: "List the players in the club store",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/players")
	},
}

var playTypesCmd = &cobra.Command{
	Use:   "play-types",
	Short: "List the play type catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/play-types")
	},
}

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "Show the player stats leaderboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/leaderboard")
	},
}

var recordPlayCmd = &cobra.Command{
	Use:   "record-play <gameID> <playTypeID> <side>",
	Short: "Record a play for a live game (side is HOME or AWAY)",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		body := fmt.Sprintf(`{"game_id":%q,"play_type_id":%q,"side":%q}`, args[0], args[1], strings.ToUpper(args[2]))
		return performPostRequest("/record-play", body)
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Get application metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/metrics")
	},
}

func performGetRequest(endpoint string) error {
	url := host + endpoint
	fmt.Printf("Making request to %s\n", url)

	resp, err := http.Get(url)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	fmt.Printf("Status Code: %d\n", resp.StatusCode)
	fmt.Println("Response Body:")
	fmt.Println(string(body))

	return nil
}

func performPostRequest(endpoint, body string) error {
	url := host + endpoint
	fmt.Printf("Making request to %s\n", url)

	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	fmt.Printf("Status Code: %d\n", resp.StatusCode)
	fmt.Println("Response Body:")
	fmt.Println(string(respBody))

	return nil
}
