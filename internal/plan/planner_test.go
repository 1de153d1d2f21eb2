package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ibl-data/courtsync/internal/store"
)

func completeDetails(name string) store.Row {
	return store.Row{
		"Name":          name,
		"Team":          "הפועל חיפה",
		"Date Of Birth": "14/03/1998",
		"Height":        "1.96",
		"Number":        "7",
	}
}

func TestNeedsPlayerFetchNewPlayer(t *testing.T) {
	s := NewPlayerState(nil, nil)

	fetch, reason := s.NeedsPlayerFetch("דני כהן")
	assert.True(t, fetch)
	assert.Equal(t, ReasonNewPlayer, reason)
}

func TestNeedsPlayerFetchBioRuleOrder(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(store.Row)
		reason string
	}{
		{"missing dob", func(r store.Row) { r["Date Of Birth"] = "" }, ReasonMissingDOB},
		{"missing height", func(r store.Row) { r["Height"] = "  " }, ReasonMissingHeight},
		{"missing number", func(r store.Row) { r["Number"] = "" }, ReasonMissingNumber},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			details := completeDetails("דני כהן")
			tt.mutate(details)
			// History is fully populated; bio gaps must win over it.
			history := store.Row{"Name": "דני כהן", "2024-25": "הפועל חיפה"}
			s := NewPlayerState([]store.Row{details}, []store.Row{history})

			fetch, reason := s.NeedsPlayerFetch("דני כהן")
			assert.True(t, fetch)
			assert.Equal(t, tt.reason, reason)
		})
	}
}

func TestNeedsPlayerFetchNoHistory(t *testing.T) {
	details := completeDetails("דני כהן")

	// A history row carrying only identity/bio columns does not count as
	// having season data.
	bioOnly := store.Row{
		"Name":          "דני כהן",
		"Current Team":  "הפועל חיפה",
		"Date Of Birth": "14/03/1998",
		"Height":        "1.96",
		"Number":        "7",
	}
	s := NewPlayerState([]store.Row{details}, []store.Row{bioOnly})

	fetch, reason := s.NeedsPlayerFetch("דני כהן")
	assert.True(t, fetch)
	assert.Equal(t, ReasonNoHistory, reason)
}

func TestNeedsPlayerFetchCompleteData(t *testing.T) {
	details := completeDetails("דני כהן")
	history := store.Row{"Name": "דני כהן", "2023-24": "מכבי רעננה", "2024-25": "הפועל חיפה"}
	s := NewPlayerState([]store.Row{details}, []store.Row{history})

	fetch, reason := s.NeedsPlayerFetch("דני כהן")
	assert.False(t, fetch)
	assert.Equal(t, ReasonComplete, reason)
}

func TestSeasonsFiltersBioColumns(t *testing.T) {
	history := store.Row{
		"Name":          "דני כהן",
		"Current Team":  "הפועל חיפה",
		"Date Of Birth": "14/03/1998",
		"Height":        "1.96",
		"Number":        "7",
		"2023-24":       "מכבי רעננה",
		"2024-25":       "הפועל חיפה, מכבי רעננה",
		"2022-23":       "",
	}
	s := NewPlayerState(nil, []store.Row{history})

	assert.Equal(t, map[string]string{
		"2023-24": "מכבי רעננה",
		"2024-25": "הפועל חיפה, מכבי רעננה",
	}, s.Seasons("דני כהן"))
	assert.Empty(t, s.Seasons("unknown"))
}

func scheduleRow(code, home, away, homeScore string) store.Row {
	return store.Row{
		store.ScheduleCodeColumn:      code,
		store.ScheduleHomeTeamColumn:  home,
		store.ScheduleAwayTeamColumn:  away,
		store.ScheduleHomeScoreColumn: homeScore,
	}
}

func TestNewGamesSelectsCompletedUnscraped(t *testing.T) {
	schedule := []store.Row{
		scheduleRow("101.0", "הפועל חיפה", "מכבי רעננה", "88"),
		scheduleRow("102", "עירוני נהריה", "הפועל גליל עליון", ""), // not played yet
		scheduleRow("103.0", "מכבי רעננה", "עירוני נהריה", "75"),
	}
	existing := []store.Row{{"game_id": "101", "team": "הפועל חיפה"}}

	games := NewGames(schedule, existing)

	assert.Equal(t, []GameRef{
		{ID: "103", HomeTeam: "מכבי רעננה", AwayTeam: "עירוני נהריה"},
	}, games)
}

func TestNewGamesRetriesGamesWithNoPersistedRows(t *testing.T) {
	schedule := []store.Row{
		scheduleRow("101.0", "הפועל חיפה", "מכבי רעננה", "88"),
	}

	// A previous run may have fetched 101 but found an empty page; nothing
	// was persisted, so the game must be planned again.
	games := NewGames(schedule, nil)

	assert.Len(t, games, 1)
	assert.Equal(t, "101", games[0].ID)
}

func TestNewGamesDeduplicatesScheduleRows(t *testing.T) {
	schedule := []store.Row{
		scheduleRow("101.0", "הפועל חיפה", "מכבי רעננה", "88"),
		scheduleRow("101", "הפועל חיפה", "מכבי רעננה", "88"),
	}

	games := NewGames(schedule, nil)

	assert.Len(t, games, 1)
}

func TestNewGamesEmptyWhenAllScraped(t *testing.T) {
	schedule := []store.Row{
		scheduleRow("101", "הפועל חיפה", "מכבי רעננה", "88"),
	}
	existing := []store.Row{{"game_id": "101"}}

	assert.Empty(t, NewGames(schedule, existing))
}
