package club

import (
	"database/sql"
	"fmt"

	"github.com/charmbracelet/log"
)

// New creates a new ClubStore.
func New(db *sql.DB) ClubStore {
	return &store{
		db: db,
	}
}

func (s *store) UpsertClub(club ClubInfo) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO clubs (id, name, city, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			city = excluded.city;
	`, club.ID, club.Name, club.City, club.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert club: %w", err)
	}
	return nil
}

func (s *store) GetClub(clubID string) (*ClubInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var club ClubInfo
	var city sql.NullString
	err := s.db.QueryRow("SELECT id, name, city, created_at FROM clubs WHERE id = ?", clubID).
		Scan(&club.ID, &club.Name, &city, &club.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("club '%s' not found", clubID)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	club.City = city.String
	return &club, nil
}

func (s *store) GetAllClubs() ([]ClubInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query("SELECT id, name, city, created_at FROM clubs ORDER BY name")
	if err != nil {
		log.Error("Failed to query all clubs", "error", err)
		return nil, err
	}
	defer rows.Close()

	var clubs []ClubInfo
	for rows.Next() {
		var club ClubInfo
		var city sql.NullString
		if err := rows.Scan(&club.ID, &club.Name, &city, &club.CreatedAt); err != nil {
			log.Error("Failed to scan club row", "error", err)
			continue
		}
		club.City = city.String
		clubs = append(clubs, club)
	}
	return clubs, nil
}

func (s *store) UpsertChampionship(championship Championship) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO championships (id, club_id, name, season, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			season = excluded.season;
	`, championship.ID, championship.ClubID, championship.Name, championship.Season, championship.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert championship: %w", err)
	}
	return nil
}

func (s *store) GetChampionships(clubID string) ([]Championship, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query("SELECT id, club_id, name, season, created_at FROM championships WHERE club_id = ? ORDER BY created_at DESC", clubID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var championships []Championship
	for rows.Next() {
		var c Championship
		var season sql.NullString
		if err := rows.Scan(&c.ID, &c.ClubID, &c.Name, &season, &c.CreatedAt); err != nil {
			log.Error("Failed to scan championship row", "error", err)
			continue
		}
		c.Season = season.String
		championships = append(championships, c)
	}
	return championships, nil
}

func (s *store) UpsertTeam(team TeamInfo) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO teams (id, club_id, name, category, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			category = excluded.category;
	`, team.ID, team.ClubID, team.Name, team.Category, team.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert team: %w", err)
	}
	return nil
}

func (s *store) GetTeam(teamID string) (*TeamInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var team TeamInfo
	var category sql.NullString
	err := s.db.QueryRow("SELECT id, club_id, name, category, created_at FROM teams WHERE id = ?", teamID).
		Scan(&team.ID, &team.ClubID, &team.Name, &category, &team.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("team '%s' not found", teamID)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	team.Category = category.String
	return &team, nil
}

func (s *store) GetAllTeams() ([]TeamInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query("SELECT id, club_id, name, category, created_at FROM teams ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var teams []TeamInfo
	for rows.Next() {
		var team TeamInfo
		var category sql.NullString
		if err := rows.Scan(&team.ID, &team.ClubID, &team.Name, &category, &team.CreatedAt); err != nil {
			log.Error("Failed to scan team row", "error", err)
			continue
		}
		team.Category = category.String
		teams = append(teams, team)
	}
	return teams, nil
}

func (s *store) UpsertPlayer(player PlayerInfo) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.upsertPlayerLocked(player)
}

func (s *store) UpsertPlayers(players []PlayerInfo) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, player := range players {
		if err := s.upsertPlayerLocked(player); err != nil {
			return err
		}
	}
	return nil
}

func (s *store) upsertPlayerLocked(player PlayerInfo) error {
	_, err := s.db.Exec(`
		INSERT INTO players (id, team_id, name, jersey_number, position, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			team_id = excluded.team_id,
			name = excluded.name,
			jersey_number = excluded.jersey_number,
			position = excluded.position;
	`, player.ID, player.TeamID, player.Name, player.JerseyNumber, player.Position, player.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert player %s: %w", player.ID, err)
	}
	return nil
}

func (s *store) GetPlayer(playerID string) (*PlayerInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow("SELECT id, team_id, name, jersey_number, position, created_at FROM players WHERE id = ?", playerID)
	player, err := scanPlayer(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("player '%s' not found", playerID)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return player, nil
}

func (s *store) GetAllPlayers() ([]PlayerInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.queryPlayers("SELECT id, team_id, name, jersey_number, position, created_at FROM players ORDER BY name")
}

func (s *store) GetTeamRoster(teamID string) ([]PlayerInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.queryPlayers("SELECT id, team_id, name, jersey_number, position, created_at FROM players WHERE team_id = ? ORDER BY jersey_number", teamID)
}

func (s *store) queryPlayers(query string, args ...any) ([]PlayerInfo, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		log.Error("Failed to query players", "error", err)
		return nil, err
	}
	defer rows.Close()

	var players []PlayerInfo
	for rows.Next() {
		player, err := scanPlayer(rows)
		if err != nil {
			log.Error("Failed to scan player row", "error", err)
			continue
		}
		players = append(players, *player)
	}
	return players, nil
}

func scanPlayer(scanner interface{ Scan(...any) error }) (*PlayerInfo, error) {
	var player PlayerInfo
	var teamID, position sql.NullString
	var jersey sql.NullInt64

	err := scanner.Scan(&player.ID, &teamID, &player.Name, &jersey, &position, &player.CreatedAt)
	if err != nil {
		return nil, err
	}
	if teamID.Valid {
		player.TeamID = &teamID.String
	}
	if jersey.Valid {
		n := int(jersey.Int64)
		player.JerseyNumber = &n
	}
	if position.Valid {
		player.Position = &position.String
	}
	return &player, nil
}

func (s *store) IsKnownPlayer(playerID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var exists bool
	err := s.db.QueryRow("SELECT EXISTS(SELECT 1 FROM players WHERE id = ?)", playerID).Scan(&exists)
	if err != nil {
		log.Error("Failed to check if player exists", "error", err, "playerID", playerID)
		return false
	}
	return exists
}

// UpdatePlayerStats rolls a completed game's per-player lines into the
// aggregated player_stats table.
func (s *store) UpdatePlayerStats(lines []PlayerGameLine) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction for stats update: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO player_stats (player_id, games_played, games_won, games_lost, sets_won, sets_lost, points_scored, errors_committed)
		VALUES (?, 1, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(player_id) DO UPDATE SET
			games_played = games_played + 1,
			games_won = games_won + excluded.games_won,
			games_lost = games_lost + excluded.games_lost,
			sets_won = sets_won + excluded.sets_won,
			sets_lost = sets_lost + excluded.sets_lost,
			points_scored = points_scored + excluded.points_scored,
			errors_committed = errors_committed + excluded.errors_committed;
	`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to prepare player_stats statement: %w", err)
	}
	defer stmt.Close()

	for _, line := range lines {
		won, lost := 0, 1
		if line.Won {
			won, lost = 1, 0
		}
		if _, err := stmt.Exec(line.PlayerID, won, lost, line.SetsWon, line.SetsLost, line.PointsScored, line.ErrorsCommitted); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to update stats for player %s: %w", line.PlayerID, err)
		}
		log.Debug("Updated player stats", "playerID", line.PlayerID, "won", line.Won)
	}

	return tx.Commit()
}

func (s *store) GetPlayerStats() ([]PlayerStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT
			ps.player_id,
			p.name,
			ps.games_played,
			ps.games_won,
			ps.games_lost,
			ps.sets_won,
			ps.sets_lost,
			ps.points_scored,
			ps.errors_committed
		FROM player_stats ps
		JOIN players p ON ps.player_id = p.id
		ORDER BY ps.games_won DESC, ps.sets_won DESC, ps.points_scored DESC;
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []PlayerStats
	for rows.Next() {
		var stat PlayerStats
		err := rows.Scan(
			&stat.PlayerID,
			&stat.PlayerName,
			&stat.GamesPlayed,
			&stat.GamesWon,
			&stat.GamesLost,
			&stat.SetsWon,
			&stat.SetsLost,
			&stat.PointsScored,
			&stat.ErrorsCommitted,
		)
		if err != nil {
			return nil, err
		}
		if stat.GamesPlayed > 0 {
			stat.WinPercentage = (float64(stat.GamesWon) / float64(stat.GamesPlayed)) * 100
		}
		stats = append(stats, stat)
	}
	return stats, nil
}

// GetPlayerStatsByName retrieves the statistics for a single player by name.
// It performs a case-insensitive, fuzzy search (e.g., "ana" matches "Ana Souza").
func (s *store) GetPlayerStatsByName(playerName string) (*PlayerStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT
			p.id,
			p.name,
			COALESCE(ps.games_played, 0),
			COALESCE(ps.games_won, 0),
			COALESCE(ps.games_lost, 0),
			COALESCE(ps.sets_won, 0),
			COALESCE(ps.sets_lost, 0),
			COALESCE(ps.points_scored, 0),
			COALESCE(ps.errors_committed, 0)
		FROM players p
		LEFT JOIN player_stats ps ON p.id = ps.player_id
		WHERE p.name LIKE ? COLLATE NOCASE
		LIMIT 1
	`

	var stat PlayerStats
	pattern := "%" + playerName + "%"

	row := s.db.QueryRow(query, pattern)
	err := row.Scan(
		&stat.PlayerID,
		&stat.PlayerName,
		&stat.GamesPlayed,
		&stat.GamesWon,
		&stat.GamesLost,
		&stat.SetsWon,
		&stat.SetsLost,
		&stat.PointsScored,
		&stat.ErrorsCommitted,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			log.Info("No stats found for player matching pattern", "pattern", pattern)
			return nil, fmt.Errorf("player matching '%s' not found", playerName)
		}
		log.Error("Failed to query player stats by name", "error", err, "pattern", pattern)
		return nil, fmt.Errorf("database error: %w", err)
	}

	if stat.GamesPlayed > 0 {
		stat.WinPercentage = (float64(stat.GamesWon) / float64(stat.GamesPlayed)) * 100
	}
	return &stat, nil
}

func (s *store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		log.Error("Failed to begin transaction for clearing store", "error", err)
		return
	}

	for _, table := range []string{"player_stats", "players", "teams", "championships", "clubs"} {
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
