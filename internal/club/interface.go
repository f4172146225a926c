package club

// ClubStore defines the interface for interacting with the club's data.
type ClubStore interface {
	UpsertClub(club ClubInfo) error
	GetClub(clubID string) (*ClubInfo, error)
	GetAllClubs() ([]ClubInfo, error)

	UpsertChampionship(championship Championship) error
	GetChampionships(clubID string) ([]Championship, error)

	UpsertTeam(team TeamInfo) error
	GetTeam(teamID string) (*TeamInfo, error)
	GetAllTeams() ([]TeamInfo, error)

	UpsertPlayer(player PlayerInfo) error
	UpsertPlayers(players []PlayerInfo) error
	GetPlayer(playerID string) (*PlayerInfo, error)
	GetAllPlayers() ([]PlayerInfo, error)
	GetTeamRoster(teamID string) ([]PlayerInfo, error)
	IsKnownPlayer(playerID string) bool

	UpdatePlayerStats(lines []PlayerGameLine) error
	GetPlayerStats() ([]PlayerStats, error)
	GetPlayerStatsByName(playerName string) (*PlayerStats, error)

	Clear()
}
