// Package plan decides which entities need a fresh page fetch and which can
// be served from previously persisted state. Keeping this logic separate from
// the scrapers makes the incremental behavior testable without any network.
package plan

import (
	"strings"

	"github.com/ibl-data/courtsync/internal/store"
)

// Reasons a player page is (or is not) scheduled for fetching. Rule order
// matters: bio completeness is checked before history completeness, so a
// player missing only history still gets flagged with the right reason.
const (
	ReasonNewPlayer     = "new player"
	ReasonMissingDOB    = "missing DOB"
	ReasonMissingHeight = "missing height"
	ReasonMissingNumber = "missing number"
	ReasonNoHistory     = "no history data"
	ReasonComplete      = "complete data"
)

// PlayerState indexes previously persisted player rows by name.
type PlayerState struct {
	Details map[string]store.Row
	History map[string]store.Row
}

// NewPlayerState builds the lookup from loaded detail and history tables.
func NewPlayerState(details, history []store.Row) *PlayerState {
	s := &PlayerState{
		Details: make(map[string]store.Row, len(details)),
		History: make(map[string]store.Row, len(history)),
	}
	for _, row := range details {
		if name := row["Name"]; name != "" {
			s.Details[name] = row
		}
	}
	for _, row := range history {
		if name := row["Name"]; name != "" {
			s.History[name] = row
		}
	}
	return s
}

// NeedsPlayerFetch reports whether the player's profile page must be scraped
// this run, and why. First matching rule wins.
func (s *PlayerState) NeedsPlayerFetch(name string) (bool, string) {
	details, ok := s.Details[name]
	if !ok {
		return true, ReasonNewPlayer
	}
	if blank(details["Date Of Birth"]) {
		return true, ReasonMissingDOB
	}
	if blank(details["Height"]) {
		return true, ReasonMissingHeight
	}
	if blank(details["Number"]) {
		return true, ReasonMissingNumber
	}
	if !s.hasAnyHistory(name) {
		return true, ReasonNoHistory
	}
	return false, ReasonComplete
}

// hasAnyHistory reports whether the persisted history row carries at least
// one actual season entry beyond the identity/bio columns.
func (s *PlayerState) hasAnyHistory(name string) bool {
	row, ok := s.History[name]
	if !ok {
		return false
	}
	for col, v := range row {
		if isBioColumn(col) {
			continue
		}
		if !blank(v) {
			return true
		}
	}
	return false
}

// Seasons returns the persisted season entries for a player, keyed by season
// label, for players whose pages are being skipped this run.
func (s *PlayerState) Seasons(name string) map[string]string {
	row, ok := s.History[name]
	if !ok {
		return map[string]string{}
	}
	seasons := make(map[string]string)
	for col, v := range row {
		if !isBioColumn(col) && !blank(v) {
			seasons[col] = v
		}
	}
	return seasons
}

func isBioColumn(col string) bool {
	for _, bio := range store.PlayerHistoryBioColumns {
		if col == bio {
			return true
		}
	}
	return false
}

func blank(v string) bool {
	return strings.TrimSpace(v) == ""
}

// GameRef identifies one scheduled game picked for fetching.
type GameRef struct {
	ID       string
	HomeTeam string
	AwayTeam string
}

// NewGames returns the completed games that have no rows in the persisted
// quarter table yet, in schedule order. A game whose fetch later yields no
// rows stays out of the quarter table and is therefore retried on the next
// run instead of being silently marked done.
func NewGames(schedule, existingQuarters []store.Row) []GameRef {
	existing := make(map[string]bool)
	for _, row := range existingQuarters {
		if id := row["game_id"]; id != "" {
			existing[id] = true
		}
	}

	var games []GameRef
	seen := make(map[string]bool)
	for _, row := range schedule {
		// Completed means the final score has been recorded upstream.
		if blank(row[store.ScheduleHomeScoreColumn]) {
			continue
		}
		id := normalizeGameID(row[store.ScheduleCodeColumn])
		if id == "" || existing[id] || seen[id] {
			continue
		}
		games = append(games, GameRef{
			ID:       id,
			HomeTeam: row[store.ScheduleHomeTeamColumn],
			AwayTeam: row[store.ScheduleAwayTeamColumn],
		})
		seen[id] = true
	}
	return games
}

// normalizeGameID strips the ".0" decoration spreadsheet exports put on
// numeric game codes.
func normalizeGameID(code string) string {
	code = strings.TrimSpace(code)
	return strings.TrimSuffix(code, ".0")
}
