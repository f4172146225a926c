package recorder

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/eamf/volleyball-stats-app-sub000/internal/club"
	"github.com/eamf/volleyball-stats-app-sub000/internal/metrics"
	"github.com/eamf/volleyball-stats-app-sub000/internal/notifier"
	"github.com/eamf/volleyball-stats-app-sub000/internal/pubsub"
	"github.com/eamf/volleyball-stats-app-sub000/internal/scoring"
	"github.com/eamf/volleyball-stats-app-sub000/internal/volley"
)

// New creates a new Recorder. The engine options are passed to every engine
// it builds, which lets tests pin the clock and ID generation.
func New(games Store, clubStore ClubStore, metrics metrics.Metrics, pubsub pubsub.PubSubClient, opts ...scoring.Option) *Recorder {
	return &Recorder{
		games:      games,
		club:       clubStore,
		pubsub:     pubsub,
		metrics:    metrics,
		sessions:   make(map[string]*scoring.Engine),
		engineOpts: opts,
	}
}

// StartGame opens a scorekeeping session and moves the game to in-progress.
func (r *Recorder) StartGame(gameID string) (scoring.Result, error) {
	defer r.observe(time.Now())

	eng, err := r.session(gameID)
	if err != nil {
		return scoring.Result{}, err
	}

	res, err := eng.Start()
	if err != nil {
		return scoring.Result{}, r.checkEngineErr(gameID, err)
	}
	if err := r.commit(gameID, res); err != nil {
		return scoring.Result{}, err
	}

	log.Info("Game started", "gameID", gameID, "set", res.CurrentSet.Number)
	return res, nil
}

// RecordPlay records a single play and applies its score effect.
func (r *Recorder) RecordPlay(req PlayRequest) (scoring.Result, error) {
	defer r.observe(time.Now())

	eng, err := r.session(req.GameID)
	if err != nil {
		return scoring.Result{}, err
	}

	playType, err := r.games.GetPlayType(req.PlayTypeID)
	if err != nil {
		return scoring.Result{}, err
	}
	if playType == nil {
		return scoring.Result{}, fmt.Errorf("play type '%s' not found", req.PlayTypeID)
	}

	res, err := eng.RecordPlay(*playType, req.Side, req.PlayerID, req.CourtX, req.CourtY)
	if err != nil {
		return scoring.Result{}, r.checkEngineErr(req.GameID, err)
	}
	if err := r.commit(req.GameID, res); err != nil {
		return scoring.Result{}, err
	}

	r.metrics.IncPlaysRecorded()
	r.settle(req.GameID, res)
	return res, nil
}

// DeletePlay removes a play from the current set and reverses its score effect.
func (r *Recorder) DeletePlay(gameID, playID string) (scoring.Result, error) {
	defer r.observe(time.Now())

	eng, err := r.session(gameID)
	if err != nil {
		return scoring.Result{}, err
	}

	play, err := r.games.GetPlay(playID)
	if err != nil {
		return scoring.Result{}, err
	}
	if play == nil {
		return scoring.Result{}, fmt.Errorf("play '%s' not found", playID)
	}

	res, err := eng.DeletePlay(*play)
	if err != nil {
		return scoring.Result{}, r.checkEngineErr(gameID, err)
	}
	if err := r.commit(gameID, res); err != nil {
		return scoring.Result{}, err
	}
	return res, nil
}

// EditPlay rewrites a recorded play and settles the net score change.
func (r *Recorder) EditPlay(req EditRequest) (scoring.Result, error) {
	defer r.observe(time.Now())

	eng, err := r.session(req.GameID)
	if err != nil {
		return scoring.Result{}, err
	}

	play, err := r.games.GetPlay(req.PlayID)
	if err != nil {
		return scoring.Result{}, err
	}
	if play == nil {
		return scoring.Result{}, fmt.Errorf("play '%s' not found", req.PlayID)
	}

	newType, err := r.games.GetPlayType(req.NewPlayTypeID)
	if err != nil {
		return scoring.Result{}, err
	}
	if newType == nil {
		return scoring.Result{}, fmt.Errorf("play type '%s' not found", req.NewPlayTypeID)
	}

	res, err := eng.EditPlay(*play, *newType, req.NewSide, req.NewPlayerID)
	if err != nil {
		return scoring.Result{}, r.checkEngineErr(req.GameID, err)
	}
	if err := r.commit(req.GameID, res); err != nil {
		return scoring.Result{}, err
	}

	r.settle(req.GameID, res)
	return res, nil
}

// AdjustScore is the manual override for a single score correction.
func (r *Recorder) AdjustScore(gameID string, side volley.TeamSide, delta int) (scoring.Result, error) {
	defer r.observe(time.Now())

	eng, err := r.session(gameID)
	if err != nil {
		return scoring.Result{}, err
	}

	res, err := eng.IncrementScore(side, delta)
	if err != nil {
		return scoring.Result{}, r.checkEngineErr(gameID, err)
	}
	if err := r.commit(gameID, res); err != nil {
		return scoring.Result{}, err
	}

	r.settle(gameID, res)
	return res, nil
}

// CompleteSet ends the current set regardless of the win condition.
func (r *Recorder) CompleteSet(gameID string) (scoring.Result, error) {
	defer r.observe(time.Now())

	eng, err := r.session(gameID)
	if err != nil {
		return scoring.Result{}, err
	}

	res, err := eng.CompleteSetManually()
	if err != nil {
		return scoring.Result{}, r.checkEngineErr(gameID, err)
	}
	if err := r.commit(gameID, res); err != nil {
		return scoring.Result{}, err
	}

	r.settle(gameID, res)
	return res, nil
}

// CompleteGame ends the game early with an explicit sets-won tally.
func (r *Recorder) CompleteGame(gameID string, homeWins, awayWins int) (scoring.Result, error) {
	defer r.observe(time.Now())

	eng, err := r.session(gameID)
	if err != nil {
		return scoring.Result{}, err
	}

	res, err := eng.CompleteGameManually(homeWins, awayWins)
	if err != nil {
		return scoring.Result{}, r.checkEngineErr(gameID, err)
	}
	if err := r.commit(gameID, res); err != nil {
		return scoring.Result{}, err
	}

	r.settle(gameID, res)
	return res, nil
}

// CancelGame marks the game cancelled and closes its session.
func (r *Recorder) CancelGame(gameID string) (scoring.Result, error) {
	defer r.observe(time.Now())

	eng, err := r.session(gameID)
	if err != nil {
		return scoring.Result{}, err
	}

	res, err := eng.CancelGame()
	if err != nil {
		return scoring.Result{}, r.checkEngineErr(gameID, err)
	}
	if err := r.commit(gameID, res); err != nil {
		return scoring.Result{}, err
	}

	r.dropSession(gameID)
	log.Info("Game cancelled", "gameID", gameID)
	return res, nil
}

// UpdatePlayerStats rolls a completed game into the aggregated player stats.
// Each player credited on the box score gets one game line attributed by the
// side they played on.
func (r *Recorder) UpdatePlayerStats(gameID string) error {
	game, err := r.games.GetGame(gameID)
	if err != nil {
		return err
	}
	if game == nil {
		return fmt.Errorf("game '%s' not found", gameID)
	}
	if game.Status != volley.GameStatusCompleted {
		return fmt.Errorf("game '%s' is %s, stats are only updated for completed games", gameID, game.Status)
	}

	box, err := r.games.BoxScore(gameID)
	if err != nil {
		return err
	}
	if len(box) == 0 {
		log.Warn("No attributed plays for game, skipping stats update", "gameID", gameID)
		return nil
	}

	homeWon := game.HomeSetsWon > game.AwaySetsWon
	lines := make([]club.PlayerGameLine, 0, len(box))
	for _, line := range box {
		home := line.Side == volley.SideHome
		setsWon, setsLost := game.HomeSetsWon, game.AwaySetsWon
		if !home {
			setsWon, setsLost = game.AwaySetsWon, game.HomeSetsWon
		}
		lines = append(lines, club.PlayerGameLine{
			PlayerID:        line.PlayerID,
			Won:             home == homeWon,
			SetsWon:         setsWon,
			SetsLost:        setsLost,
			PointsScored:    line.Points,
			ErrorsCommitted: line.Errors,
		})
	}

	if err := r.club.UpdatePlayerStats(lines); err != nil {
		return fmt.Errorf("failed to update player stats for game %s: %w", gameID, err)
	}
	log.Info("Player stats updated", "gameID", gameID, "players", len(lines))
	return nil
}

// GameResult assembles the final-score summary for a completed game.
func (r *Recorder) GameResult(gameID string) (*notifier.GameResult, error) {
	game, err := r.games.GetGame(gameID)
	if err != nil {
		return nil, err
	}
	if game == nil {
		return nil, fmt.Errorf("game '%s' not found", gameID)
	}

	sets, err := r.games.GetSets(gameID)
	if err != nil {
		return nil, err
	}

	result := &notifier.GameResult{
		GameID:       gameID,
		HomeTeamName: r.teamName(game.HomeTeamID),
		AwayTeamName: r.teamName(game.AwayTeamID),
		HomeSetsWon:  game.HomeSetsWon,
		AwaySetsWon:  game.AwaySetsWon,
	}
	if game.CompletedAt != nil {
		result.CompletedAt = *game.CompletedAt
	}
	for _, set := range sets {
		if !set.IsCompleted {
			continue
		}
		result.Sets = append(result.Sets, notifier.SetScore{
			Number:    set.Number,
			HomeScore: set.HomeScore,
			AwayScore: set.AwayScore,
		})
	}
	return result, nil
}

// session returns the live engine for a game, rebuilding it from storage
// when none is held.
func (r *Recorder) session(gameID string) (*scoring.Engine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if eng, ok := r.sessions[gameID]; ok {
		return eng, nil
	}

	game, err := r.games.GetGame(gameID)
	if err != nil {
		return nil, err
	}
	if game == nil {
		return nil, fmt.Errorf("game '%s' not found", gameID)
	}
	sets, err := r.games.GetSets(gameID)
	if err != nil {
		return nil, err
	}

	eng, err := scoring.NewFromSets(*game, sets, r.engineOpts...)
	if err != nil {
		return nil, err
	}
	r.sessions[gameID] = eng
	log.Debug("Scorekeeping session loaded", "gameID", gameID, "sets", len(sets))
	return eng, nil
}

// commit persists a transition's intents. On failure the in-memory session
// is ahead of the store, so it is discarded and rebuilt on the next call.
func (r *Recorder) commit(gameID string, res scoring.Result) error {
	if err := r.games.ApplyIntents(gameID, res.Intents); err != nil {
		r.dropSession(gameID)
		r.metrics.IncSessionResyncs()
		log.Error("Failed to persist scoring intents, session dropped", "gameID", gameID, "error", err)
		return err
	}
	return nil
}

// checkEngineErr drops the session for errors that mean the mirror itself is
// inconsistent with the stored game. Rule violations keep the session alive.
func (r *Recorder) checkEngineErr(gameID string, err error) error {
	if errors.Is(err, scoring.ErrDuplicateSetNumber) || errors.Is(err, scoring.ErrInconsistentSetCount) {
		r.dropSession(gameID)
		r.metrics.IncSessionResyncs()
	}
	return err
}

// settle handles the aftermath of a committed transition: completion metrics
// and, when the game just finished, the completion events.
func (r *Recorder) settle(gameID string, res scoring.Result) {
	if res.SetCompleted {
		r.metrics.IncSetsCompleted()
		log.Info("Set completed", "gameID", gameID)
	}
	if !res.GameCompleted {
		return
	}

	r.metrics.IncGamesCompleted()
	r.dropSession(gameID)
	log.Info("Game completed", "gameID", gameID)

	event := pubsub.GameCompletedEvent{GameID: gameID}
	if err := r.pubsub.SendMessage(pubsub.EventUpdatePlayerStats, event); err != nil {
		log.Error("Failed to publish stats update event", "gameID", gameID, "error", err)
	}
	if err := r.pubsub.SendMessage(pubsub.EventNotifyResult, event); err != nil {
		log.Error("Failed to publish result notification event", "gameID", gameID, "error", err)
	}
}

func (r *Recorder) dropSession(gameID string) {
	r.mu.Lock()
	delete(r.sessions, gameID)
	r.mu.Unlock()
}

func (r *Recorder) observe(start time.Time) {
	r.metrics.ObserveScoringOpDuration(float64(time.Since(start).Milliseconds()))
}

// teamName resolves a team ID to its display name, falling back to the ID.
func (r *Recorder) teamName(teamID string) string {
	team, err := r.club.GetTeam(teamID)
	if err != nil || team == nil {
		return teamID
	}
	return team.Name
}
