package club

import "sync"

// Mock is a mock implementation of the ClubStore interface for testing.
// It records calls and delegates to the provided Func fields when set.
type Mock struct {
	mu sync.Mutex

	UpsertClubFunc           func(club ClubInfo) error
	GetClubFunc              func(clubID string) (*ClubInfo, error)
	GetAllClubsFunc          func() ([]ClubInfo, error)
	UpsertChampionshipFunc   func(championship Championship) error
	GetChampionshipsFunc     func(clubID string) ([]Championship, error)
	UpsertTeamFunc           func(team TeamInfo) error
	GetTeamFunc              func(teamID string) (*TeamInfo, error)
	GetAllTeamsFunc          func() ([]TeamInfo, error)
	UpsertPlayerFunc         func(player PlayerInfo) error
	UpsertPlayersFunc        func(players []PlayerInfo) error
	GetPlayerFunc            func(playerID string) (*PlayerInfo, error)
	GetAllPlayersFunc        func() ([]PlayerInfo, error)
	GetTeamRosterFunc        func(teamID string) ([]PlayerInfo, error)
	IsKnownPlayerFunc        func(playerID string) bool
	UpdatePlayerStatsFunc    func(lines []PlayerGameLine) error
	GetPlayerStatsFunc       func() ([]PlayerStats, error)
	GetPlayerStatsByNameFunc func(playerName string) (*PlayerStats, error)

	UpdatePlayerStatsCalls [][]PlayerGameLine
	UpsertPlayerCalls      []PlayerInfo
	ClearCalls             int
}

var _ ClubStore = (*Mock)(nil)

// NewMock creates a new mock ClubStore.
func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) UpsertClub(club ClubInfo) error {
	if m.UpsertClubFunc != nil {
		return m.UpsertClubFunc(club)
	}
	return nil
}

func (m *Mock) GetClub(clubID string) (*ClubInfo, error) {
	if m.GetClubFunc != nil {
		return m.GetClubFunc(clubID)
	}
	return nil, nil
}

func (m *Mock) GetAllClubs() ([]ClubInfo, error) {
	if m.GetAllClubsFunc != nil {
		return m.GetAllClubsFunc()
	}
	return nil, nil
}

func (m *Mock) UpsertChampionship(championship Championship) error {
	if m.UpsertChampionshipFunc != nil {
		return m.UpsertChampionshipFunc(championship)
	}
	return nil
}

func (m *Mock) GetChampionships(clubID string) ([]Championship, error) {
	if m.GetChampionshipsFunc != nil {
		return m.GetChampionshipsFunc(clubID)
	}
	return nil, nil
}

func (m *Mock) UpsertTeam(team TeamInfo) error {
	if m.UpsertTeamFunc != nil {
		return m.UpsertTeamFunc(team)
	}
	return nil
}

func (m *Mock) GetTeam(teamID string) (*TeamInfo, error) {
	if m.GetTeamFunc != nil {
		return m.GetTeamFunc(teamID)
	}
	return nil, nil
}

func (m *Mock) GetAllTeams() ([]TeamInfo, error) {
	if m.GetAllTeamsFunc != nil {
		return m.GetAllTeamsFunc()
	}
	return nil, nil
}

func (m *Mock) UpsertPlayer(player PlayerInfo) error {
	m.mu.Lock()
	m.UpsertPlayerCalls = append(m.UpsertPlayerCalls, player)
	m.mu.Unlock()
	if m.UpsertPlayerFunc != nil {
		return m.UpsertPlayerFunc(player)
	}
	return nil
}

func (m *Mock) UpsertPlayers(players []PlayerInfo) error {
	if m.UpsertPlayersFunc != nil {
		return m.UpsertPlayersFunc(players)
	}
	return nil
}

func (m *Mock) GetPlayer(playerID string) (*PlayerInfo, error) {
	if m.GetPlayerFunc != nil {
		return m.GetPlayerFunc(playerID)
	}
	return nil, nil
}

func (m *Mock) GetAllPlayers() ([]PlayerInfo, error) {
	if m.GetAllPlayersFunc != nil {
		return m.GetAllPlayersFunc()
	}
	return nil, nil
}

func (m *Mock) GetTeamRoster(teamID string) ([]PlayerInfo, error) {
	if m.GetTeamRosterFunc != nil {
		return m.GetTeamRosterFunc(teamID)
	}
	return nil, nil
}

func (m *Mock) IsKnownPlayer(playerID string) bool {
	if m.IsKnownPlayerFunc != nil {
		return m.IsKnownPlayerFunc(playerID)
	}
	return false
}

func (m *Mock) UpdatePlayerStats(lines []PlayerGameLine) error {
	m.mu.Lock()
	m.UpdatePlayerStatsCalls = append(m.UpdatePlayerStatsCalls, lines)
	m.mu.Unlock()
	if m.UpdatePlayerStatsFunc != nil {
		return m.UpdatePlayerStatsFunc(lines)
	}
	return nil
}

func (m *Mock) GetPlayerStats() ([]PlayerStats, error) {
	if m.GetPlayerStatsFunc != nil {
		return m.GetPlayerStatsFunc()
	}
	return nil, nil
}

func (m *Mock) GetPlayerStatsByName(playerName string) (*PlayerStats, error) {
	if m.GetPlayerStatsByNameFunc != nil {
		return m.GetPlayerStatsByNameFunc(playerName)
	}
	return nil, nil
}

func (m *Mock) Clear() {
	m.mu.Lock()
	m.ClearCalls++
	m.mu.Unlock()
}
