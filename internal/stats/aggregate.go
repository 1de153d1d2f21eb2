// Package stats folds the accumulated per-game tables into per-player,
// per-team and per-opponent averages with derived metrics and league
// rankings. It operates purely over in-memory rows; scraping cadence never
// affects it.
package stats

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/ibl-data/courtsync/internal/store"
)

// Numeric columns eligible for averaging. Anything outside these lists
// (verbatim extra labels, urls, ids) stays in the per-game tables but never
// reaches the averages.
var playerNumericCols = []string{
	"pts", "2ptm", "2pta", "3ptm", "3pta", "fgm", "fga",
	"ftm", "fta", "def", "off", "reb", "pf", "pfa",
	"stl", "to", "ast", "blk", "blka", "rate", "min",
}

var teamNumericCols = []string{
	"pts", "2ptm", "2pta", "3ptm", "3pta", "fgm", "fga",
	"ftm", "fta", "def", "off", "reb", "pf", "pfa",
	"stl", "to", "ast", "blk", "blka", "rate",
	"second_chance_pts", "bench_pts", "fast_break_pts",
	"points_in_paint", "pts_off_turnovers",
}

// playerColumnOrder is the published layout of the player-averages table.
var playerColumnOrder = []string{
	"player_name", "team", "games_played", "games_started", "min", "pts",
	"fgm", "fga", "fg_pct",
	"2ptm", "2pta", "2pt_pct",
	"3ptm", "3pta", "3pt_pct",
	"ftm", "fta", "ft_pct",
	"def", "off", "reb",
	"ast", "stl", "to", "pf", "pfa",
	"blk", "blka", "rate",
}

// teamColumnBase orders the team-averages stat columns before rank
// interleaving: the averaged box categories, then possessions, then the
// recomputed percentages.
var teamColumnBase = append(append([]string{}, teamNumericCols...),
	"possessions", "2pt_pct", "3pt_pct", "fg_pct", "ft_pct")

// Ranking polarity. Higher is better for scoring, shooting efficiency,
// rebounds, playmaking and the supplemental scoring categories; lower is
// better for giveaways and fouls.
var higherBetterCols = []string{
	"pts", "fgm", "fga", "fg_pct", "2ptm", "2pta", "2pt_pct",
	"3ptm", "3pta", "3pt_pct", "ftm", "fta", "ft_pct",
	"def", "off", "reb", "ast", "stl", "blk", "pfa", "rate",
	"second_chance_pts", "bench_pts", "fast_break_pts",
	"points_in_paint", "pts_off_turnovers", "possessions",
}

var lowerBetterCols = []string{"to", "pf", "blka"}

// Opponent columns deliberately dropped: bench scoring and fouls-drawn carry
// no meaning from the opponent's side.
var opponentDroppedCols = []string{"opp_bench_pts", "opp_pfa"}

// Result holds the three averages tables plus their column orders for the
// tabular store.
type Result struct {
	PlayerAverages   []store.Row
	PlayerColumns    []string
	TeamAverages     []store.Row
	TeamColumns      []string
	OpponentAverages []store.Row
	OpponentColumns  []string
}

// Aggregate computes all three averages tables from the accumulated per-game
// rows.
func Aggregate(playerGames, teamGames []store.Row) Result {
	res := Result{
		PlayerAverages: playerAverages(playerGames),
		PlayerColumns:  playerColumnOrder,
	}

	teamAvg, teamCols := teamAverages(teamGames)
	oppAvg, oppCols := opponentAverages(teamGames)

	teamAvg, teamCols = mergePointsAllowed(teamAvg, teamCols, oppAvg)

	res.TeamAverages = teamAvg
	res.TeamColumns = teamCols
	res.OpponentAverages = oppAvg
	res.OpponentColumns = oppCols
	return res
}

// playerAverages groups by (player, team): a player who changed teams
// mid-season gets one row per team.
func playerAverages(games []store.Row) []store.Row {
	groups, keys := groupBy(games, func(r store.Row) string {
		return r["player_name"] + "\x00" + r["team"]
	})

	var out []store.Row
	for _, key := range keys {
		rows := groups[key]
		means := meanColumns(rows, playerNumericCols)

		name, team, _ := strings.Cut(key, "\x00")
		avg := store.Row{
			"player_name":   name,
			"team":          team,
			"games_played":  strconv.Itoa(len(rows)),
			"games_started": strconv.Itoa(sumInt(rows, "starter")),
		}
		recomputePercentages(means, "")
		for col, v := range means {
			avg[col] = format1(v)
		}
		out = append(out, avg)
	}
	return out
}

// teamAverages groups by team and derives estimated possessions:
// fga + 0.44*fta - offensive rebounds + turnovers.
func teamAverages(games []store.Row) ([]store.Row, []string) {
	groups, keys := groupBy(games, func(r store.Row) string { return r["team"] })

	rows := make([]store.Row, 0, len(keys))
	meansByTeam := make([]map[string]float64, 0, len(keys))
	for _, team := range keys {
		means := meanColumns(groups[team], teamNumericCols)
		addPossessions(means, "")
		recomputePercentages(means, "")

		avg := store.Row{"team": team, "games_played": strconv.Itoa(len(groups[team]))}
		for col, v := range means {
			if col == "possessions" {
				avg[col] = format2(v)
			} else {
				avg[col] = format1(v)
			}
		}
		rows = append(rows, avg)
		meansByTeam = append(meansByTeam, means)
	}

	applyRanks(rows, meansByTeam, teamColumnBase, teamPolarity)
	return rows, interleaveRanks(rows, teamColumnBase)
}

// opponentAverages gives each team the other side's per-game stats under the
// opp_ prefix and averages those. Ranking polarity inverts: conceding less is
// better, except forcing turnovers (opp_to), where more is better.
func opponentAverages(games []store.Row) ([]store.Row, []string) {
	byGame, gameIDs := groupBy(games, func(r store.Row) string { return r["game_id"] })

	var oppGames []store.Row
	for _, id := range gameIDs {
		pair := byGame[id]
		if len(pair) != 2 {
			continue
		}
		for idx := 0; idx < 2; idx++ {
			own, other := pair[idx], pair[1-idx]
			opp := store.Row{"team": own["team"], "game_id": id}
			for _, col := range teamNumericCols {
				if v, ok := other[col]; ok {
					opp["opp_"+col] = v
				}
			}
			oppGames = append(oppGames, opp)
		}
	}
	if len(oppGames) == 0 {
		return nil, nil
	}

	oppNumeric := make([]string, len(teamNumericCols))
	for i, col := range teamNumericCols {
		oppNumeric[i] = "opp_" + col
	}

	groups, keys := groupBy(oppGames, func(r store.Row) string { return r["team"] })

	rows := make([]store.Row, 0, len(keys))
	meansByTeam := make([]map[string]float64, 0, len(keys))
	for _, team := range keys {
		means := meanColumns(groups[team], oppNumeric)
		recomputePercentages(means, "opp_")
		addPossessions(means, "opp_")
		for _, col := range opponentDroppedCols {
			delete(means, col)
		}

		avg := store.Row{"team": team, "games_played": strconv.Itoa(len(groups[team]))}
		for col, v := range means {
			if col == "opp_possessions" {
				avg[col] = format2(v)
			} else {
				avg[col] = format1(v)
			}
		}
		rows = append(rows, avg)
		meansByTeam = append(meansByTeam, means)
	}

	base := opponentColumnBase()
	applyRanks(rows, meansByTeam, base, opponentPolarity)
	return rows, interleaveRanks(rows, base)
}

// opponentColumnBase mirrors the team layout under the opp_ prefix, minus
// the dropped columns, with percentages before possessions.
func opponentColumnBase() []string {
	var base []string
	for _, col := range teamNumericCols {
		opp := "opp_" + col
		if contains(opponentDroppedCols, opp) {
			continue
		}
		base = append(base, opp)
	}
	return append(base, "opp_2pt_pct", "opp_3pt_pct", "opp_fg_pct", "opp_ft_pct", "opp_possessions")
}

func teamPolarity(col string) (descending, ranked bool) {
	if contains(higherBetterCols, col) {
		return true, true
	}
	if contains(lowerBetterCols, col) {
		return false, true
	}
	return false, false
}

func opponentPolarity(col string) (descending, ranked bool) {
	if !strings.HasPrefix(col, "opp_") {
		return false, false
	}
	// Forcing turnovers is the one opponent stat where more is better.
	if col == "opp_to" {
		return true, true
	}
	return false, true
}

// applyRanks computes minimum-method ranks for every ranked column present
// and writes "<col>_rank" into each row.
func applyRanks(rows []store.Row, means []map[string]float64, cols []string, polarity func(string) (bool, bool)) {
	for _, col := range cols {
		descending, ranked := polarity(col)
		if !ranked {
			continue
		}
		values := make([]float64, 0, len(rows))
		present := true
		for _, m := range means {
			v, ok := m[col]
			if !ok {
				present = false
				break
			}
			values = append(values, v)
		}
		if !present || len(values) == 0 {
			continue
		}
		for i, rank := range rankMin(values, descending) {
			rows[i][col+"_rank"] = strconv.Itoa(rank)
		}
	}
}

// interleaveRanks produces the final column order: identity columns first,
// then each stat column immediately followed by its rank companion.
func interleaveRanks(rows []store.Row, base []string) []string {
	cols := []string{"team", "games_played"}
	for _, col := range base {
		if !anyHas(rows, col) {
			continue
		}
		cols = append(cols, col)
		if anyHas(rows, col+"_rank") {
			cols = append(cols, col+"_rank")
		}
	}
	return cols
}

// mergePointsAllowed copies opponent scoring into the team table as
// pts_allowed/pts_allowed_rank, ordered directly after the team's own points
// columns so defense sits next to offense.
func mergePointsAllowed(teamAvg []store.Row, teamCols []string, oppAvg []store.Row) ([]store.Row, []string) {
	byTeam := make(map[string]store.Row, len(oppAvg))
	for _, row := range oppAvg {
		byTeam[row["team"]] = row
	}
	merged := false
	for _, row := range teamAvg {
		opp, ok := byTeam[row["team"]]
		if !ok || opp["opp_pts"] == "" {
			continue
		}
		row["pts_allowed"] = opp["opp_pts"]
		row["pts_allowed_rank"] = opp["opp_pts_rank"]
		merged = true
	}
	if !merged {
		return teamAvg, teamCols
	}

	var cols []string
	for _, col := range teamCols {
		cols = append(cols, col)
		if col == "pts_rank" {
			cols = append(cols, "pts_allowed", "pts_allowed_rank")
		}
	}
	return teamAvg, cols
}

// groupBy splits rows into groups, returning the groups plus their keys in
// sorted order for deterministic output.
func groupBy(rows []store.Row, key func(store.Row) string) (map[string][]store.Row, []string) {
	groups := make(map[string][]store.Row)
	for _, row := range rows {
		k := key(row)
		groups[k] = append(groups[k], row)
	}
	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return groups, keys
}

// meanColumns computes the arithmetic mean of each listed column. Cells that
// are empty or non-numeric are skipped rather than counted as zero, and a
// column with no parsable cells at all is omitted.
func meanColumns(rows []store.Row, cols []string) map[string]float64 {
	means := make(map[string]float64, len(cols))
	for _, col := range cols {
		var sum float64
		var n int
		for _, row := range rows {
			v, ok := row[col]
			if !ok || strings.TrimSpace(v) == "" {
				continue
			}
			f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
			if err != nil {
				continue
			}
			sum += f
			n++
		}
		if n > 0 {
			means[col] = sum / float64(n)
		}
	}
	return means
}

// recomputePercentages overwrites the percentage fields from the averaged
// made/attempted pairs. Averaging per-game percentages directly would weight
// low-volume games equally with high-volume ones; ratios of averages do not.
func recomputePercentages(means map[string]float64, prefix string) {
	pairs := []struct{ made, att, pct string }{
		{"2ptm", "2pta", "2pt_pct"},
		{"3ptm", "3pta", "3pt_pct"},
		{"fgm", "fga", "fg_pct"},
		{"ftm", "fta", "ft_pct"},
	}
	for _, p := range pairs {
		made, okM := means[prefix+p.made]
		att, okA := means[prefix+p.att]
		if !okM || !okA {
			continue
		}
		if att == 0 {
			means[prefix+p.pct] = 0
		} else {
			means[prefix+p.pct] = made / att * 100
		}
	}
}

// addPossessions derives the standard estimated-possessions metric when all
// of its inputs are present.
func addPossessions(means map[string]float64, prefix string) {
	fga, ok1 := means[prefix+"fga"]
	fta, ok2 := means[prefix+"fta"]
	off, ok3 := means[prefix+"off"]
	to, ok4 := means[prefix+"to"]
	if ok1 && ok2 && ok3 && ok4 {
		means[prefix+"possessions"] = fga + 0.44*fta - off + to
	}
}

func sumInt(rows []store.Row, col string) int {
	total := 0
	for _, row := range rows {
		total += store.Int(row[col])
	}
	return total
}

func anyHas(rows []store.Row, col string) bool {
	for _, row := range rows {
		if _, ok := row[col]; ok {
			return true
		}
	}
	return false
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func format1(v float64) string {
	return fmt.Sprintf("%.1f", math.Round(v*10)/10)
}

func format2(v float64) string {
	return fmt.Sprintf("%.2f", math.Round(v*100)/100)
}
