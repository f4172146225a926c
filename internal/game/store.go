package game

import (
	"database/sql"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/eamf/volleyball-stats-app-sub000/internal/scoring"
	"github.com/eamf/volleyball-stats-app-sub000/internal/volley"
)

// New creates a new GameStore.
func New(db *sql.DB) GameStore {
	return &store{
		db: db,
	}
}

func (s *store) CreateGame(game volley.Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO games (id, championship_id, home_team_id, away_team_id, scheduled_at, status, home_sets_won, away_sets_won, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			championship_id = excluded.championship_id,
			home_team_id = excluded.home_team_id,
			away_team_id = excluded.away_team_id,
			scheduled_at = excluded.scheduled_at;
	`, game.ID, nullString(game.ChampionshipID), game.HomeTeamID, game.AwayTeamID, game.ScheduledAt, game.Status, game.HomeSetsWon, game.AwaySetsWon, game.CompletedAt)
	if err != nil {
		return fmt.Errorf("failed to create game: %w", err)
	}
	return nil
}

func (s *store) GetGame(gameID string) (*volley.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow(`
		SELECT id, championship_id, home_team_id, away_team_id, scheduled_at, status, home_sets_won, away_sets_won, completed_at
		FROM games WHERE id = ?
	`, gameID)
	game, err := scanGame(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("game '%s' not found", gameID)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return game, nil
}

func (s *store) GetAllGames() ([]volley.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT id, championship_id, home_team_id, away_team_id, scheduled_at, status, home_sets_won, away_sets_won, completed_at
		FROM games ORDER BY scheduled_at DESC
	`)
	if err != nil {
		log.Error("Failed to query all games", "error", err)
		return nil, err
	}
	defer rows.Close()

	var games []volley.Game
	for rows.Next() {
		game, err := scanGame(rows)
		if err != nil {
			log.Error("Failed to scan game row", "error", err)
			continue
		}
		games = append(games, *game)
	}
	return games, nil
}

func (s *store) DeleteGame(gameID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Sets and plays go with the game via ON DELETE CASCADE.
	_, err := s.db.Exec("DELETE FROM games WHERE id = ?", gameID)
	if err != nil {
		return fmt.Errorf("failed to delete game %s: %w", gameID, err)
	}
	return nil
}

func scanGame(scanner interface{ Scan(...any) error }) (*volley.Game, error) {
	var game volley.Game
	var championshipID sql.NullString
	var completedAt sql.NullInt64

	err := scanner.Scan(
		&game.ID, &championshipID, &game.HomeTeamID, &game.AwayTeamID, &game.ScheduledAt,
		&game.Status, &game.HomeSetsWon, &game.AwaySetsWon, &completedAt,
	)
	if err != nil {
		return nil, err
	}
	game.ChampionshipID = championshipID.String
	if completedAt.Valid {
		game.CompletedAt = &completedAt.Int64
	}
	return &game, nil
}

func (s *store) GetSets(gameID string) ([]volley.Set, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT id, game_id, number, home_score, away_score, is_completed, completed_at
		FROM sets WHERE game_id = ? ORDER BY number
	`, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sets []volley.Set
	for rows.Next() {
		var set volley.Set
		var completedAt sql.NullInt64
		if err := rows.Scan(&set.ID, &set.GameID, &set.Number, &set.HomeScore, &set.AwayScore, &set.IsCompleted, &completedAt); err != nil {
			log.Error("Failed to scan set row", "error", err)
			continue
		}
		if completedAt.Valid {
			set.CompletedAt = &completedAt.Int64
		}
		sets = append(sets, set)
	}
	return sets, nil
}

func (s *store) GetPlay(playID string) (*volley.Play, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow(`
		SELECT id, game_id, set_id, player_id, play_type_id, side, court_x, court_y, value, score_increment, created_at
		FROM plays WHERE id = ?
	`, playID)
	play, err := scanPlay(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("play '%s' not found", playID)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return play, nil
}

func (s *store) GetPlays(setID string) ([]volley.Play, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT id, game_id, set_id, player_id, play_type_id, side, court_x, court_y, value, score_increment, created_at
		FROM plays WHERE set_id = ? ORDER BY created_at
	`, setID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var plays []volley.Play
	for rows.Next() {
		play, err := scanPlay(rows)
		if err != nil {
			log.Error("Failed to scan play row", "error", err)
			continue
		}
		plays = append(plays, *play)
	}
	return plays, nil
}

func scanPlay(scanner interface{ Scan(...any) error }) (*volley.Play, error) {
	var play volley.Play
	var playerID sql.NullString
	var courtX, courtY sql.NullFloat64

	err := scanner.Scan(
		&play.ID, &play.GameID, &play.SetID, &playerID, &play.PlayTypeID, &play.Side,
		&courtX, &courtY, &play.Value, &play.ScoreIncrement, &play.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if playerID.Valid {
		play.PlayerID = &playerID.String
	}
	if courtX.Valid {
		play.CourtX = &courtX.Float64
	}
	if courtY.Valid {
		play.CourtY = &courtY.Float64
	}
	return &play, nil
}

func (s *store) UpsertPlayType(playType volley.PlayType) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO play_types (id, category, label, default_value, default_score_increment, is_positive)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			category = excluded.category,
			label = excluded.label,
			default_value = excluded.default_value,
			default_score_increment = excluded.default_score_increment,
			is_positive = excluded.is_positive;
	`, playType.ID, playType.Category, playType.Label, playType.DefaultValue, playType.DefaultScoreIncrement, playType.IsPositive)
	if err != nil {
		return fmt.Errorf("failed to upsert play type: %w", err)
	}
	return nil
}

func (s *store) GetPlayType(playTypeID string) (*volley.PlayType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var pt volley.PlayType
	err := s.db.QueryRow(`
		SELECT id, category, label, default_value, default_score_increment, is_positive
		FROM play_types WHERE id = ?
	`, playTypeID).Scan(&pt.ID, &pt.Category, &pt.Label, &pt.DefaultValue, &pt.DefaultScoreIncrement, &pt.IsPositive)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("play type '%s' not found", playTypeID)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &pt, nil
}

func (s *store) GetPlayTypes() ([]volley.PlayType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT id, category, label, default_value, default_score_increment, is_positive
		FROM play_types ORDER BY category, label
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var playTypes []volley.PlayType
	for rows.Next() {
		var pt volley.PlayType
		if err := rows.Scan(&pt.ID, &pt.Category, &pt.Label, &pt.DefaultValue, &pt.DefaultScoreIncrement, &pt.IsPositive); err != nil {
			log.Error("Failed to scan play type row", "error", err)
			continue
		}
		playTypes = append(playTypes, pt)
	}
	return playTypes, nil
}

// ApplyIntents executes the engine's persistence intents for one game in a
// single transaction, in order. Either every intent lands or none do, so a
// failure leaves the durable state consistent and the caller resyncs.
func (s *store) ApplyIntents(gameID string, intents []scoring.Intent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	for _, intent := range intents {
		if err := applyIntent(tx, gameID, intent); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to apply %s intent for game %s: %w", intent.Kind, gameID, err)
		}
	}

	return tx.Commit()
}

func applyIntent(tx *sql.Tx, gameID string, intent scoring.Intent) error {
	switch intent.Kind {
	case scoring.IntentUpsertSet:
		_, err := tx.Exec(`
			INSERT INTO sets (id, game_id, number, home_score, away_score, is_completed, completed_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				home_score = excluded.home_score,
				away_score = excluded.away_score,
				is_completed = excluded.is_completed,
				completed_at = excluded.completed_at;
		`, intent.Set.ID, intent.Set.GameID, intent.Set.Number, intent.Set.HomeScore, intent.Set.AwayScore, intent.Set.IsCompleted, intent.Set.CompletedAt)
		return err

	case scoring.IntentInsertPlay:
		_, err := tx.Exec(`
			INSERT INTO plays (id, game_id, set_id, player_id, play_type_id, side, court_x, court_y, value, score_increment, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, intent.Play.ID, intent.Play.GameID, intent.Play.SetID, intent.Play.PlayerID, intent.Play.PlayTypeID, intent.Play.Side,
			intent.Play.CourtX, intent.Play.CourtY, intent.Play.Value, intent.Play.ScoreIncrement, intent.Play.CreatedAt)
		return err

	case scoring.IntentUpdatePlay:
		_, err := tx.Exec(`
			UPDATE plays SET player_id = ?, play_type_id = ?, side = ?, court_x = ?, court_y = ?, value = ?, score_increment = ?
			WHERE id = ?
		`, intent.Play.PlayerID, intent.Play.PlayTypeID, intent.Play.Side, intent.Play.CourtX, intent.Play.CourtY,
			intent.Play.Value, intent.Play.ScoreIncrement, intent.Play.ID)
		return err

	case scoring.IntentDeletePlay:
		_, err := tx.Exec("DELETE FROM plays WHERE id = ?", intent.PlayID)
		return err

	case scoring.IntentUpdateGame:
		_, err := tx.Exec(`
			UPDATE games SET status = ?, home_sets_won = ?, away_sets_won = ?, completed_at = ?
			WHERE id = ?
		`, intent.Game.Status, intent.Game.HomeSetsWon, intent.Game.AwaySetsWon, intent.Game.CompletedAt, gameID)
		return err

	default:
		return fmt.Errorf("unknown intent kind %q", intent.Kind)
	}
}

// BoxScore aggregates the recorded plays of one game into per-player lines.
func (s *store) BoxScore(gameID string) ([]BoxScoreLine, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT
			player_id,
			side,
			COALESCE(SUM(CASE WHEN score_increment > 0 THEN score_increment ELSE 0 END), 0) AS points,
			COALESCE(SUM(CASE WHEN value < 0 THEN 1 ELSE 0 END), 0) AS errors,
			COUNT(*) AS plays
		FROM plays
		WHERE game_id = ? AND player_id IS NOT NULL
		GROUP BY player_id, side
		ORDER BY points DESC
	`, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []BoxScoreLine
	for rows.Next() {
		var line BoxScoreLine
		if err := rows.Scan(&line.PlayerID, &line.Side, &line.Points, &line.Errors, &line.Plays); err != nil {
			log.Error("Failed to scan box score row", "error", err)
			continue
		}
		lines = append(lines, line)
	}
	return lines, nil
}

func (s *store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		log.Error("Failed to begin transaction for clearing store", "error", err)
		return
	}

	for _, table := range []string{"plays", "sets", "games"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			log.Error("Failed to clear table", "table", table, "error", err)
			tx.Rollback()
			return
		}
	}

	if err := tx.Commit(); err != nil {
		log.Error("Failed to commit transaction for clearing store", "error", err)
	}
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
