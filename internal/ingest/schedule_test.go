package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestExtractLeagueID(t *testing.T) {
	html := `<p><a class="export" href="/league/leumit/?feed=csv&league_id=447&season=2024">יצוא</a></p>`
	assert.Equal(t, "447", ExtractLeagueID(doc(t, html)))
}

func TestExtractLeagueIDTrailingParam(t *testing.T) {
	html := `<a class="export" href="/?league_id=12">x</a>`
	assert.Equal(t, "12", ExtractLeagueID(doc(t, html)))
}

func TestExtractLeagueIDMissing(t *testing.T) {
	assert.Equal(t, "", ExtractLeagueID(doc(t, `<a class="export" href="/?feed=csv">x</a>`)))
	assert.Equal(t, "", ExtractLeagueID(doc(t, `<p>no link</p>`)))
}

func TestScheduleFeedURL(t *testing.T) {
	url := ScheduleFeedURL("https://ibasketball.co.il/league/leumit/", "447")
	assert.Equal(t, "https://ibasketball.co.il/league/leumit/?feed=xlsx&league_id=447", url)
}

func scheduleWorkbook(t *testing.T, records [][]string) []byte {
	t.Helper()
	wb := excelize.NewFile()
	defer wb.Close()
	sheet := wb.GetSheetName(0)
	for r, rec := range records {
		for c, v := range rec {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			require.NoError(t, err)
			require.NoError(t, wb.SetCellStr(sheet, cell, v))
		}
	}
	buf, err := wb.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestConvertScheduleWorkbook(t *testing.T) {
	data := scheduleWorkbook(t, [][]string{
		{"Code", "Date", "Home Team", "Away Team", "Home Score", "Away Score"},
		{"101.0", "2025-10-12", "הפועל חיפה", "מכבי רעננה", "88", "75"},
		{"102.0", "2025-10-19", "עירוני נהריה", "הפועל גליל עליון", "", ""},
	})

	rows, header, err := ConvertScheduleWorkbook(data)
	require.NoError(t, err)

	assert.Equal(t, []string{"Code", "Date", "Home Team", "Away Team", "Home Score", "Away Score"}, header)
	require.Len(t, rows, 2)
	assert.Equal(t, "101.0", rows[0]["Code"])
	assert.Equal(t, "הפועל חיפה", rows[0]["Home Team"])
	assert.Equal(t, "88", rows[0]["Home Score"])
	assert.Equal(t, "", rows[1]["Home Score"])
}

func TestConvertScheduleWorkbookRejectsGarbage(t *testing.T) {
	_, _, err := ConvertScheduleWorkbook([]byte("not an xlsx"))
	assert.Error(t, err)
}
