package ingest

import (
	"math"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/ibl-data/courtsync/internal/store"
	"github.com/ibl-data/courtsync/internal/teams"
)

const (
	playerNameHeader = "שחקן"  // name column header in performance tables
	totalRowLabel    = "סך הכל" // literal total marker in the label cell
)

// supplementalStats maps the labeled-text block under each team's table to
// canonical field names. Unrecognized labels are kept verbatim as extra
// columns rather than dropped.
var supplementalStats = map[string]string{
	"נקודות מהזדמנות שנייה:": "second_chance_pts",
	"נקודות ספסל:":           "bench_pts",
	"נקודות ממתפרצת:":        "fast_break_pts",
	"נקודות בצבע:":           "points_in_paint",
	"נקודות מאיבודים:":       "pts_off_turnovers",
}

// GameStats bundles the normalized record sets extracted from one game page.
type GameStats struct {
	Quarters []store.Row
	Players  []store.Row
	Teams    []store.Row
}

// ParseGame runs all three extractions over a fetched game document.
// Structurally absent sections yield empty slices, never an error.
func ParseGame(doc *goquery.Document, gameID string, mapping *teams.Mapping) GameStats {
	return GameStats{
		Quarters: ParseQuarters(doc, gameID, mapping),
		Players:  ParsePlayerStats(doc, gameID, mapping),
		Teams:    ParseTeamStats(doc, gameID, mapping),
	}
}

// Empty reports whether the page yielded no records at all, which usually
// means the detailed stats are not published yet.
func (g GameStats) Empty() bool {
	return len(g.Quarters) == 0 && len(g.Players) == 0 && len(g.Teams) == 0
}

// ParseQuarters extracts both teams' quarter-by-quarter scoring from the
// results table. A results table without exactly two team rows is malformed
// and yields nothing; guessing at it would persist garbage.
func ParseQuarters(doc *goquery.Document, gameID string, mapping *teams.Mapping) []store.Row {
	rows := doc.Find("table.sp-event-results tbody tr")

	var names []string
	rows.Each(func(_ int, row *goquery.Selection) {
		cell := row.Find("td.data-name").First()
		if cell.Length() == 0 {
			return
		}
		name := strings.TrimSpace(cell.Text())
		if link := cell.Find("a").First(); link.Length() > 0 {
			name = strings.TrimSpace(link.Text())
		}
		names = append(names, mapping.Resolve(name))
	})
	if len(names) != 2 {
		return nil
	}

	quarterCells := []struct {
		label string
		class string
	}{
		{"Q1", "td.data-one"},
		{"Q2", "td.data-two"},
		{"Q3", "td.data-three"},
		{"Q4", "td.data-four"},
	}

	var out []store.Row
	for idx := 0; idx < 2; idx++ {
		own, opp := rows.Eq(idx), rows.Eq(1-idx)
		for _, q := range quarterCells {
			out = append(out, store.Row{
				"game_id":       gameID,
				"team":          names[idx],
				"opponent":      names[1-idx],
				"quarter":       q.label,
				"score":         strconv.Itoa(store.Int(own.Find(q.class).First().Text())),
				"score_against": strconv.Itoa(store.Int(opp.Find(q.class).First().Text())),
			})
		}
	}
	return out
}

// ParsePlayerStats extracts per-player box-score lines from each team's
// performance table. Rows with zero playing time are dropped entirely: the
// source considers them "did not play".
func ParsePlayerStats(doc *goquery.Document, gameID string, mapping *teams.Mapping) []store.Row {
	var stats []store.Row

	doc.Find("div.sp-template-event-performance-values").Each(func(_ int, section *goquery.Selection) {
		caption := strings.TrimSpace(section.Find("h4.sp-table-caption").First().Text())
		if caption == "" {
			return
		}
		team := mapping.Resolve(caption)

		table := section.Find("table.sp-event-performance").First()
		if table.Length() == 0 {
			return
		}
		headers := headerTexts(table)

		table.Find("tbody tr").Each(func(_ int, row *goquery.Selection) {
			if row.HasClass("sp-total-row") {
				return
			}

			rec := store.Row{"game_id": gameID, "team": team}
			if row.HasClass("lineup") {
				rec["starter"] = "1"
			} else {
				rec["starter"] = "0"
			}

			row.Find("td").Each(func(i int, cell *goquery.Selection) {
				if i >= len(headers) {
					return
				}
				// The name column yields both display name and profile
				// reference regardless of what the header says.
				if headers[i] == playerNameHeader || cell.HasClass("data-name") {
					if link := cell.Find("a").First(); link.Length() > 0 {
						rec["player_name"] = strings.TrimSpace(link.Text())
						if href, ok := link.Attr("href"); ok {
							rec["player_url"] = href
						}
					} else {
						rec["player_name"] = strings.TrimSpace(cell.Text())
					}
					return
				}
				key := headers[i]
				if dk, ok := cell.Attr("data-key"); ok && dk != "" {
					key = dk
				}
				rec[key] = strings.TrimSpace(cell.Text())
			})

			if rec["player_name"] == "" {
				return
			}
			minutes := rec["min"]
			if minutes == "" || minutes == "00:00" || minutes == "0:00" {
				return
			}

			// Jersey number arrives under the positional "#" column.
			if num, ok := rec["#"]; ok {
				rec["number"] = num
				delete(rec, "#")
			}
			rec["min"] = strconv.Itoa(RoundMinutes(minutes))
			// Raw plus-minus is discarded; it is not part of the schema.
			delete(rec, "pm")

			splitShootingStats(rec)
			stats = append(stats, rec)
		})
	})

	return stats
}

// ParseTeamStats extracts each team's total line plus the supplemental
// labeled-text categories.
func ParseTeamStats(doc *goquery.Document, gameID string, mapping *teams.Mapping) []store.Row {
	var stats []store.Row

	doc.Find("div.sp-template-event-performance-values").Each(func(_ int, section *goquery.Selection) {
		caption := strings.TrimSpace(section.Find("h4.sp-table-caption").First().Text())
		if caption == "" {
			return
		}
		team := mapping.Resolve(caption)

		table := section.Find("table.sp-event-performance").First()
		if table.Length() == 0 {
			return
		}
		headerKeys := classHeaderKeys(table)

		totalRow := findTotalRow(table)
		if totalRow == nil {
			return
		}

		rec := store.Row{"game_id": gameID, "team": team}
		totalRow.Find("td").Each(func(i int, cell *goquery.Selection) {
			if cell.HasClass("data-name") {
				return
			}
			key := classDataKey(cell)
			if key == "" && i < len(headerKeys) {
				key = headerKeys[i]
			}
			if key == "" {
				return
			}
			rec[key] = strings.TrimSpace(cell.Text())
		})

		splitShootingStats(rec)
		for _, k := range []string{"min", "pm", "#", "number"} {
			delete(rec, k)
		}

		section.Find("div.team-stats label").Each(func(_ int, label *goquery.Selection) {
			statText := firstTextSegment(label)
			span := label.Find("span").First()
			if statText == "" || span.Length() == 0 {
				return
			}
			key, ok := supplementalStats[statText]
			if !ok {
				key = statText
			}
			rec[key] = strings.TrimSpace(span.Text())
		})

		stats = append(stats, rec)
	})

	return stats
}

// findTotalRow locates the team-total row: the structural footer row when
// present, otherwise the last body row whose label cell carries the literal
// total marker. The literal scan is a heuristic over the source's own text;
// isolating it here lets it be swapped without touching extraction.
func findTotalRow(table *goquery.Selection) *goquery.Selection {
	if row := table.Find("tfoot tr.sp-total-row").First(); row.Length() > 0 {
		return row
	}
	rows := table.Find("tbody tr")
	for i := rows.Length() - 1; i >= 0; i-- {
		row := rows.Eq(i)
		if strings.Contains(row.Find("td.data-name").Text(), totalRowLabel) {
			return row
		}
	}
	return nil
}

// splitShootingStats decomposes the composite "made-attempted" shooting
// fields into integer made/attempted pairs, derives field-goal totals, and
// recomputes every percentage from them. Upstream percentage fields are
// discarded: their rounding is not trustworthy, so percentages always come
// from our own made/attempted counts.
func splitShootingStats(rec store.Row) {
	splitComposite(rec, "fgs", "2ptm", "2pta")
	splitComposite(rec, "threeps", "3ptm", "3pta")
	splitComposite(rec, "fts", "ftm", "fta")

	for _, k := range []string{"2ptm", "2pta", "3ptm", "3pta", "ftm", "fta"} {
		if v, ok := rec[k]; ok {
			rec[k] = strconv.Itoa(store.Int(v))
		}
	}

	twoM, twoA := store.Int(rec["2ptm"]), store.Int(rec["2pta"])
	threeM, threeA := store.Int(rec["3ptm"]), store.Int(rec["3pta"])
	ftM, ftA := store.Int(rec["ftm"]), store.Int(rec["fta"])

	rec["fgm"] = strconv.Itoa(twoM + threeM)
	rec["fga"] = strconv.Itoa(twoA + threeA)
	rec["2pt_pct"] = pctString(twoM, twoA)
	rec["3pt_pct"] = pctString(threeM, threeA)
	rec["fg_pct"] = pctString(twoM+threeM, twoA+threeA)
	rec["ft_pct"] = pctString(ftM, ftA)

	for _, k := range []string{"fgpercent", "threeppercent", "ftpercent"} {
		delete(rec, k)
	}
}

func splitComposite(rec store.Row, composite, madeKey, attKey string) {
	v, ok := rec[composite]
	if !ok || !strings.Contains(v, "-") {
		return
	}
	parts := strings.SplitN(v, "-", 2)
	rec[madeKey] = strconv.Itoa(store.Int(parts[0]))
	rec[attKey] = strconv.Itoa(store.Int(parts[1]))
	delete(rec, composite)
}

// pctString renders made/attempted as a percentage with one decimal. Zero
// attempts is 0.0, not an error.
func pctString(made, attempted int) string {
	if attempted == 0 {
		return "0.0"
	}
	pct := math.Round(float64(made)/float64(attempted)*1000) / 10
	return strconv.FormatFloat(pct, 'f', 1, 64)
}

// RoundMinutes normalizes playing time to whole minutes: "mm:ss" rounds to
// the nearest minute (30 seconds rounds up), a bare integer passes through,
// anything unparsable is 0.
func RoundMinutes(min string) int {
	if !strings.Contains(min, ":") {
		return store.Int(min)
	}
	parts := strings.SplitN(min, ":", 2)
	mins, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0
	}
	secs, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0
	}
	if secs >= 30 {
		mins++
	}
	return mins
}

// headerTexts returns the trimmed header-row cell texts, in column order.
func headerTexts(table *goquery.Selection) []string {
	var headers []string
	table.Find("thead tr").First().Find("th").Each(func(_ int, th *goquery.Selection) {
		headers = append(headers, strings.TrimSpace(th.Text()))
	})
	return headers
}

// classHeaderKeys returns, per header column, the semantic field key encoded
// in the th's "data-*" class, or "" when the column has none.
func classHeaderKeys(table *goquery.Selection) []string {
	var keys []string
	table.Find("thead tr").First().Find("th").Each(func(_ int, th *goquery.Selection) {
		keys = append(keys, classDataKey(th))
	})
	return keys
}

// classDataKey extracts the field key from an element's "data-" prefixed
// class, if any.
func classDataKey(s *goquery.Selection) string {
	class, _ := s.Attr("class")
	for _, c := range strings.Fields(class) {
		if strings.HasPrefix(c, "data-") {
			return strings.TrimPrefix(c, "data-")
		}
	}
	return ""
}
