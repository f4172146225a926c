package volley

// GameStatus defines the lifecycle status of a game.
type GameStatus string

const (
	GameStatusScheduled  GameStatus = "SCHEDULED"
	GameStatusInProgress GameStatus = "IN_PROGRESS"
	GameStatusCompleted  GameStatus = "COMPLETED"
	GameStatusCancelled  GameStatus = "CANCELLED"
)

// TeamSide identifies which side of the net a score effect applies to.
type TeamSide string

const (
	SideHome TeamSide = "HOME"
	SideAway TeamSide = "AWAY"
)

// Opponent returns the other side.
func (s TeamSide) Opponent() TeamSide {
	if s == SideHome {
		return SideAway
	}
	return SideHome
}

// PlayCategory groups play types for box-score reporting.
type PlayCategory string

const (
	CategoryServe   PlayCategory = "SERVE"
	CategoryAttack  PlayCategory = "ATTACK"
	CategoryBlock   PlayCategory = "BLOCK"
	CategoryDig     PlayCategory = "DIG"
	CategorySet     PlayCategory = "SET"
	CategoryReceive PlayCategory = "RECEIVE"
	CategoryError   PlayCategory = "ERROR"
)

// Game represents a single scheduled match between two teams.
type Game struct {
	ID             string     `json:"id"`
	ChampionshipID string     `json:"championship_id"`
	HomeTeamID     string     `json:"home_team_id"`
	AwayTeamID     string     `json:"away_team_id"`
	ScheduledAt    int64      `json:"scheduled_at"`
	Status         GameStatus `json:"status"`
	HomeSetsWon    int        `json:"home_sets_won"`
	AwaySetsWon    int        `json:"away_sets_won"`
	CompletedAt    *int64     `json:"completed_at,omitempty"`
}

// Set is one of up to five sets within a game. Set numbers are unique per
// game and have no gaps; at most one incomplete set exists per game.
type Set struct {
	ID          string `json:"id"`
	GameID      string `json:"game_id"`
	Number      int    `json:"number"`
	HomeScore   int    `json:"home_score"`
	AwayScore   int    `json:"away_score"`
	IsCompleted bool   `json:"is_completed"`
	CompletedAt *int64 `json:"completed_at,omitempty"`
}

// Winner reports the side that took a completed set. The win-by-two rule
// makes ties impossible for completed sets.
func (s Set) Winner() TeamSide {
	if s.HomeScore > s.AwayScore {
		return SideHome
	}
	return SideAway
}

// Play is one recorded statistical event tied to a player or a team.
// Value is the box-score contribution; ScoreIncrement is the effect on the
// live set score (+1, -1 or 0) and is deliberately decoupled from Value.
type Play struct {
	ID             string   `json:"id"`
	GameID         string   `json:"game_id"`
	SetID          string   `json:"set_id"`
	PlayerID       *string  `json:"player_id,omitempty"` // nil = team play
	PlayTypeID     string   `json:"play_type_id"`
	Side           TeamSide `json:"side"`
	CourtX         *float64 `json:"court_x,omitempty"`
	CourtY         *float64 `json:"court_y,omitempty"`
	Value          int      `json:"value"`
	ScoreIncrement int      `json:"score_increment"`
	CreatedAt      int64    `json:"created_at"`
}

// PlayType is a catalog entry describing a category of event. Read-mostly
// reference data consumed to default a new play's value and score increment.
type PlayType struct {
	ID                    string       `json:"id"`
	Category              PlayCategory `json:"category"`
	Label                 string       `json:"label"`
	DefaultValue          int          `json:"default_value"`
	DefaultScoreIncrement int          `json:"default_score_increment"`
	IsPositive            bool         `json:"is_positive"`
}
