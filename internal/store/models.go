package store

import "sort"

// Canonical column orders for the persisted tables. These are the
// schema-significant layouts: Save keeps these first and sorts any
// unanticipated extra columns after them.

// PlayerDetailColumns lays out the player-details table.
var PlayerDetailColumns = []string{"Name", "Team", "Date Of Birth", "Height", "Number"}

// PlayerHistoryBioColumns are the fixed identity/bio columns of the
// player-history table; the season columns that follow are dynamic and
// sorted descending by the pipeline.
var PlayerHistoryBioColumns = []string{"Name", "Current Team", "Date Of Birth", "Height", "Number"}

// QuarterColumns lays out the per-quarter table: one row per team
// perspective per quarter per game.
var QuarterColumns = []string{"game_id", "team", "opponent", "quarter", "score", "score_against"}

// PlayerGameColumns lays out the per-player-game table.
var PlayerGameColumns = []string{
	"game_id", "team", "number", "player_name", "player_url", "starter", "min", "pts",
	"2ptm", "2pta", "2pt_pct",
	"3ptm", "3pta", "3pt_pct",
	"fgm", "fga", "fg_pct",
	"ftm", "fta", "ft_pct",
	"def", "off", "reb", "pf", "pfa",
	"stl", "to", "ast", "blk", "blka", "rate",
}

// TeamGameColumns lays out the per-team-game table, including the
// supplemental labeled-text categories.
var TeamGameColumns = []string{
	"game_id", "team", "pts",
	"2ptm", "2pta", "2pt_pct",
	"3ptm", "3pta", "3pt_pct",
	"fgm", "fga", "fg_pct",
	"ftm", "fta", "ft_pct",
	"def", "off", "reb", "pf", "pfa",
	"stl", "to", "ast", "blk", "blka", "rate",
	"second_chance_pts", "bench_pts", "fast_break_pts",
	"points_in_paint", "pts_off_turnovers",
}

// ScheduleColumns are the schedule-feed columns the pipeline depends on; the
// workbook carries more, which pass through as extras.
const (
	ScheduleCodeColumn      = "Code"
	ScheduleHomeTeamColumn  = "Home Team"
	ScheduleAwayTeamColumn  = "Away Team"
	ScheduleHomeScoreColumn = "Home Score"
)

func sortedKeys(row Row) []string {
	keys := make([]string, 0, len(row))
	for k := range row {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
