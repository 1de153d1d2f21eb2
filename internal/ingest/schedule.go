package ingest

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/xuri/excelize/v2"

	"github.com/ibl-data/courtsync/internal/store"
)

// ExtractLeagueID pulls the league id out of the export link on the league
// landing page. Returns "" when the page carries no export link.
func ExtractLeagueID(doc *goquery.Document) string {
	href, ok := doc.Find("a.export").First().Attr("href")
	if !ok {
		return ""
	}
	_, after, found := strings.Cut(href, "league_id=")
	if !found {
		return ""
	}
	id, _, _ := strings.Cut(after, "&")
	return id
}

// ScheduleFeedURL builds the xlsx export URL for a league page.
func ScheduleFeedURL(leagueURL, leagueID string) string {
	return fmt.Sprintf("%s/?feed=xlsx&league_id=%s", strings.TrimRight(leagueURL, "/"), leagueID)
}

// ConvertScheduleWorkbook turns the downloaded xlsx schedule feed into table
// rows keyed by the workbook's header row, preserving the workbook's column
// order for persistence.
func ConvertScheduleWorkbook(data []byte) ([]store.Row, []string, error) {
	wb, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, nil, fmt.Errorf("open schedule workbook: %w", err)
	}
	defer wb.Close()

	sheets := wb.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, fmt.Errorf("schedule workbook has no sheets")
	}
	records, err := wb.GetRows(sheets[0])
	if err != nil {
		return nil, nil, fmt.Errorf("read schedule sheet %q: %w", sheets[0], err)
	}
	if len(records) == 0 {
		return nil, nil, nil
	}

	var header []string
	for _, col := range records[0] {
		if col != "" {
			header = append(header, col)
		}
	}

	rows := make([]store.Row, 0, len(records)-1)
	for _, rec := range records[1:] {
		row := make(store.Row, len(header))
		for i, col := range records[0] {
			if col == "" {
				continue
			}
			if i < len(rec) {
				row[col] = strings.TrimSpace(rec[i])
			} else {
				row[col] = ""
			}
		}
		rows = append(rows, row)
	}
	return rows, header, nil
}
