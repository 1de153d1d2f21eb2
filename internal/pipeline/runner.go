// Package pipeline orchestrates a full synchronization run: player details,
// game details, then averages. Phases run sequentially; a phase that fails
// its preconditions halts the phases that depend on it, while outputs of
// already-completed phases stay valid on disk.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/ibl-data/courtsync/internal/config"
	"github.com/ibl-data/courtsync/internal/fetch"
	"github.com/ibl-data/courtsync/internal/ingest"
	"github.com/ibl-data/courtsync/internal/logging"
	"github.com/ibl-data/courtsync/internal/plan"
	"github.com/ibl-data/courtsync/internal/stats"
	"github.com/ibl-data/courtsync/internal/store"
	"github.com/ibl-data/courtsync/internal/teams"
)

// Runner executes the synchronization pipeline.
type Runner struct {
	cfg    *config.Config
	log    *logrus.Logger
	client *fetch.Client
}

// NewRunner wires a runner from the run configuration.
func NewRunner(cfg *config.Config, log *logrus.Logger) *Runner {
	return &Runner{
		cfg:    cfg,
		log:    log,
		client: fetch.NewClient(cfg.RequestDelay, cfg.FetchTimeout),
	}
}

// Run executes all phases in order.
func (r *Runner) Run(ctx context.Context) error {
	logging.Banner(r.log, strings.ToUpper(r.cfg.LeagueName)+" LEAGUE AUTO-UPDATE STARTED")

	mapping := teams.LoadMapping(r.cfg.TeamsCSV, r.log)

	if err := r.UpdatePlayers(ctx, mapping); err != nil {
		return fmt.Errorf("player update: %w", err)
	}
	if err := r.UpdateGames(ctx, mapping); err != nil {
		return fmt.Errorf("game update: %w", err)
	}
	if err := r.CalculateAverages(); err != nil {
		return fmt.Errorf("averages calculation: %w", err)
	}

	logging.Banner(r.log, "ALL UPDATES COMPLETED SUCCESSFULLY")
	r.logSummary()
	return nil
}

// UpdatePlayers refreshes the player-details and player-history tables.
// Players whose persisted record the planner considers complete are not
// re-fetched; their rows are rebuilt from prior state.
func (r *Runner) UpdatePlayers(ctx context.Context, mapping *teams.Mapping) error {
	logging.Banner(r.log, "STEP 1: UPDATING PLAYER DETAILS")

	detailsPath := r.cfg.TablePath("player_details")
	historyPath := r.cfg.TablePath("player_history")

	existingDetails, err := store.Load(detailsPath)
	if err != nil {
		r.log.Warnf("Could not read existing player details: %v", err)
	}
	existingHistory, err := store.Load(historyPath)
	if err != nil {
		r.log.Warnf("Could not read existing player history: %v", err)
	}
	state := plan.NewPlayerState(existingDetails, existingHistory)

	r.log.Info("Fetching player list...")
	doc, err := r.client.Document(ctx, r.cfg.LeagueURL)
	if err != nil {
		return fmt.Errorf("fetch league page: %w", err)
	}
	players := ingest.ParsePlayerList(doc)
	if len(players) == 0 {
		return fmt.Errorf("no players found on league page")
	}
	r.log.Infof("Found %d players", len(players))

	var detailRows, historyRows []store.Row
	allSeasons := make(map[string]bool)
	var newCount, updatedCount, skippedCount int

	for i, p := range players {
		team := mapping.Resolve(p.Team)

		var bio ingest.PlayerBio
		var history map[string]string

		shouldFetch, reason := state.NeedsPlayerFetch(p.Name)
		if shouldFetch {
			r.log.Infof("[%d/%d] Scraping: %s (%s)", i+1, len(players), p.Name, reason)

			profile, err := r.client.Document(ctx, r.absoluteURL(p.URL))
			if err != nil {
				// Skip-and-continue: this player keeps blank fields and will
				// be flagged again next run.
				r.log.Errorf("Error fetching player page for %s: %v", p.Name, err)
				history = map[string]string{}
			} else {
				bio = ingest.ParsePlayerBio(profile)
				history = ingest.ParsePlayerHistory(profile)
			}

			if _, known := state.Details[p.Name]; known {
				updatedCount++
			} else {
				newCount++
			}
		} else {
			prior := state.Details[p.Name]
			bio = ingest.PlayerBio{
				DateOfBirth: prior["Date Of Birth"],
				Height:      prior["Height"],
				Number:      prior["Number"],
			}
			history = state.Seasons(p.Name)
			skippedCount++
		}

		for season := range history {
			allSeasons[season] = true
		}

		detailRows = append(detailRows, store.Row{
			"Name":          p.Name,
			"Team":          team,
			"Date Of Birth": bio.DateOfBirth,
			"Height":        bio.Height,
			"Number":        bio.Number,
		})
		historyRow := store.Row{
			"Name":          p.Name,
			"Current Team":  team,
			"Date Of Birth": bio.DateOfBirth,
			"Height":        bio.Height,
			"Number":        bio.Number,
		}
		for season, entry := range history {
			historyRow[season] = entry
		}
		historyRows = append(historyRows, historyRow)
	}

	seasons := make([]string, 0, len(allSeasons))
	for s := range allSeasons {
		seasons = append(seasons, s)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(seasons)))

	if err := store.Save(detailRows, detailsPath, store.PlayerDetailColumns); err != nil {
		return err
	}
	historyColumns := append(append([]string{}, store.PlayerHistoryBioColumns...), seasons...)
	if err := store.Save(historyRows, historyPath, historyColumns); err != nil {
		return err
	}

	r.log.Info("Player details updated")
	r.log.Infof("  Total: %d | New: %d | Updated: %d | Skipped: %d",
		len(players), newCount, updatedCount, skippedCount)
	return nil
}

// UpdateGames downloads the schedule feed and scrapes box scores for every
// completed game not yet present in the quarter table.
func (r *Runner) UpdateGames(ctx context.Context, mapping *teams.Mapping) error {
	logging.Banner(r.log, "STEP 2: UPDATING GAME DETAILS")

	schedule, err := r.refreshSchedule(ctx)
	if err != nil {
		return err
	}
	if len(schedule) == 0 {
		return fmt.Errorf("no games in schedule feed")
	}

	quartersPath := r.cfg.GamePath("game_quarters")
	existingQuarters, err := store.Load(quartersPath)
	if err != nil {
		r.log.Warnf("Could not read existing quarters data: %v", err)
	}

	games := plan.NewGames(schedule, existingQuarters)
	if len(games) == 0 {
		r.log.Info("All games already scraped")
		return nil
	}
	r.log.Infof("Scraping %d new games", len(games))

	var allQuarters, allPlayers, allTeams []store.Row
	for i, game := range games {
		r.log.Infof("[%d/%d] Game %s: %s vs %s", i+1, len(games), game.ID, game.HomeTeam, game.AwayTeam)

		url := fmt.Sprintf("%s/match/%s/", r.cfg.BaseURL, game.ID)
		doc, err := r.client.Document(ctx, url)
		if err != nil {
			r.log.Errorf("Error fetching game %s: %v (skipping)", game.ID, err)
			continue
		}

		gs := ingest.ParseGame(doc, game.ID, mapping)
		if gs.Empty() {
			// Not persisted anywhere, so the planner retries it next run.
			r.log.Warnf("No stats found for game %s - may not have detailed stats yet", game.ID)
			continue
		}
		allQuarters = append(allQuarters, gs.Quarters...)
		allPlayers = append(allPlayers, gs.Players...)
		allTeams = append(allTeams, gs.Teams...)
	}

	if len(allQuarters) > 0 {
		if err := store.Append(allQuarters, quartersPath, store.QuarterColumns); err != nil {
			return err
		}
	}
	if len(allPlayers) > 0 {
		if err := store.Append(allPlayers, r.cfg.GamePath("game_player_stats"), store.PlayerGameColumns); err != nil {
			return err
		}
	}
	if len(allTeams) > 0 {
		if err := store.Append(allTeams, r.cfg.GamePath("game_team_stats"), store.TeamGameColumns); err != nil {
			return err
		}
	}

	r.log.Infof("Game stats updated: %d new games scraped", len(games))
	return nil
}

// refreshSchedule downloads the schedule workbook and persists it as the
// schedule table.
func (r *Runner) refreshSchedule(ctx context.Context) ([]store.Row, error) {
	doc, err := r.client.Document(ctx, r.cfg.LeagueURL)
	if err != nil {
		return nil, fmt.Errorf("fetch league page: %w", err)
	}
	leagueID := ingest.ExtractLeagueID(doc)
	if leagueID == "" {
		return nil, fmt.Errorf("could not find league_id on league page")
	}

	data, err := r.client.Bytes(ctx, ingest.ScheduleFeedURL(r.cfg.LeagueURL, leagueID))
	if err != nil {
		return nil, fmt.Errorf("download schedule feed: %w", err)
	}
	schedule, columns, err := ingest.ConvertScheduleWorkbook(data)
	if err != nil {
		return nil, err
	}

	if err := store.Save(schedule, r.cfg.GamePath("games_schedule"), columns); err != nil {
		return nil, err
	}
	r.log.Infof("Games schedule updated: %d games", len(schedule))
	return schedule, nil
}

// CalculateAverages rebuilds the three averages tables from the accumulated
// per-game tables. It needs no network and can run on its own.
func (r *Runner) CalculateAverages() error {
	logging.Banner(r.log, "STEP 3: CALCULATING AVERAGES")

	playerGames, err := store.Load(r.cfg.GamePath("game_player_stats"))
	if err != nil {
		return fmt.Errorf("read player stats: %w", err)
	}
	if playerGames == nil {
		return fmt.Errorf("no player stats found")
	}
	teamGames, err := store.Load(r.cfg.GamePath("game_team_stats"))
	if err != nil {
		return fmt.Errorf("read team stats: %w", err)
	}
	if teamGames == nil {
		return fmt.Errorf("no team stats found")
	}

	res := stats.Aggregate(playerGames, teamGames)

	if err := store.Save(res.PlayerAverages, r.cfg.TablePath("player_averages"), res.PlayerColumns); err != nil {
		return err
	}
	r.log.Infof("Player averages calculated: %d players", len(res.PlayerAverages))

	if err := store.Save(res.TeamAverages, r.cfg.TablePath("team_averages"), res.TeamColumns); err != nil {
		return err
	}
	r.log.Infof("Team averages calculated: %d teams", len(res.TeamAverages))

	if len(res.OpponentAverages) > 0 {
		if err := store.Save(res.OpponentAverages, r.cfg.TablePath("opponent_averages"), res.OpponentColumns); err != nil {
			return err
		}
		r.log.Infof("Opponent averages calculated: %d teams", len(res.OpponentAverages))
	}
	return nil
}

// logSummary lists every expected output file with its size so a glance at
// the run log shows what the run produced.
func (r *Runner) logSummary() {
	paths := []string{
		r.cfg.TablePath("player_details"),
		r.cfg.TablePath("player_history"),
		r.cfg.TablePath("player_averages"),
		r.cfg.TablePath("team_averages"),
		r.cfg.TablePath("opponent_averages"),
		r.cfg.GamePath("games_schedule"),
		r.cfg.GamePath("game_quarters"),
		r.cfg.GamePath("game_player_stats"),
		r.cfg.GamePath("game_team_stats"),
	}
	r.log.Info("Summary of updated files:")
	for _, p := range paths {
		if info, err := os.Stat(p); err == nil {
			r.log.Infof("  %s (%.1f KB)", p, float64(info.Size())/1024)
		} else {
			r.log.Infof("  %s (not found)", p)
		}
	}
}

// absoluteURL resolves site-relative profile links against the base URL.
func (r *Runner) absoluteURL(href string) string {
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	return strings.TrimRight(r.cfg.BaseURL, "/") + "/" + strings.TrimLeft(href, "/")
}
