// Package ingest extracts normalized records from the league site's pages:
// the player gallery, player profile pages, the schedule feed, and per-game
// box-score pages. Extraction never invents data: structurally absent
// sections yield empty results, and only a failed page fetch surfaces as an
// error to the caller.
package ingest

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Site labels the profile pages key data by. The league publishes in Hebrew;
// these literals are part of the upstream contract.
const (
	labelHeight = "גובה"  // height metric on the profile page
	labelNumber = "מספר"  // jersey number label
	labelYouth  = "נוער"  // youth-league marker in season history
)

// PlayerListing is one entry of the league's player gallery.
type PlayerListing struct {
	Name string
	Team string // raw label as displayed; resolved by the caller
	URL  string
}

// PlayerBio holds the lazily populated detail fields of a profile page.
type PlayerBio struct {
	DateOfBirth string // dd/mm/yyyy
	Height      string
	Number      string
}

// ParsePlayerList extracts the roster listing from the league landing page.
func ParsePlayerList(doc *goquery.Document) []PlayerListing {
	var players []PlayerListing
	doc.Find(".player-gallery a.player").Each(func(_ int, s *goquery.Selection) {
		team := strings.TrimSpace(s.Find("span").First().Text())
		// The gallery anchor holds the name as its first text segment, with
		// the team in a trailing span.
		name := firstTextSegment(s)
		url, _ := s.Attr("href")
		if name == "" {
			return
		}
		players = append(players, PlayerListing{Name: name, Team: team, URL: url})
	})
	return players
}

// ParsePlayerBio extracts date of birth, height and jersey number from a
// player profile page. Missing fields stay empty; the planner will flag the
// player again next run.
func ParsePlayerBio(doc *goquery.Document) PlayerBio {
	var bio PlayerBio

	if dob := lastSegment(doc.Find("div.data-birthdate").First()); dob != "" {
		bio.DateOfBirth = reverseDate(dob)
	}

	doc.Find("div.data-other").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if metric, _ := s.Attr("data-metric"); metric == labelHeight {
			bio.Height = lastSegment(s)
			return false
		}
		return true
	})

	doc.Find("ul.general li").EachWithBreak(func(_ int, li *goquery.Selection) bool {
		label := li.Find("span.label").Text()
		if !strings.Contains(label, labelNumber) {
			return true
		}
		bio.Number = strings.TrimSpace(li.Find("span.data-number").Text())
		return false
	})

	return bio
}

// ParsePlayerHistory extracts a player's season-by-season history from the
// profile's teams block. Entries for the same season are comma-joined.
//
// Traversal stops as soon as a second youth-league entry is seen, and that
// second entry is not recorded. This mirrors the long-standing upstream
// behavior exactly; it is flagged for product-owner confirmation rather than
// generalized here.
func ParsePlayerHistory(doc *goquery.Document) map[string]string {
	history := make(map[string]string)
	youthCount := 0

	doc.Find("div.data-teams br").EachWithBreak(func(_ int, br *goquery.Selection) bool {
		seasonSpan := nextSibling(br, "span[title]")
		if seasonSpan == nil {
			return true
		}
		season := NormalizeSeason(strings.TrimSpace(seasonSpan.Text()))

		teamLink := nextSibling(seasonSpan, "a")
		if teamLink == nil {
			return true
		}
		leagueLink := nextSibling(teamLink, "a")
		if leagueLink == nil {
			return true
		}

		team := strings.TrimSpace(teamLink.Text())
		league := strings.TrimSpace(leagueLink.Text())

		if strings.Contains(league, labelYouth) {
			youthCount++
			if youthCount > 1 {
				return false
			}
		}

		entry := team + " (" + league + ")"
		if existing, ok := history[season]; ok {
			history[season] = existing + ", " + entry
		} else {
			history[season] = entry
		}
		return true
	})

	return history
}

// NormalizeSeason shortens "2024-2025" to the "2024-25" label used across
// the persisted tables. Anything else passes through unchanged.
func NormalizeSeason(season string) string {
	parts := strings.Split(season, "-")
	if len(parts) == 2 && len(parts[1]) >= 2 {
		return parts[0] + "-" + parts[1][len(parts[1])-2:]
	}
	return season
}

// reverseDate flips "2003-05-17" into the site's display order "17/05/2003".
func reverseDate(dob string) string {
	parts := strings.Split(dob, "-")
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, "/")
}

// textSegments flattens a node's subtree into its non-empty text segments in
// document order. Labeled data divs on these pages put the label first and
// the value last.
func textSegments(s *goquery.Selection) []string {
	var segments []string
	var walk func(*goquery.Selection)
	walk = func(sel *goquery.Selection) {
		sel.Contents().Each(func(_ int, c *goquery.Selection) {
			if goquery.NodeName(c) == "#text" {
				if t := strings.TrimSpace(c.Text()); t != "" {
					segments = append(segments, t)
				}
				return
			}
			walk(c)
		})
	}
	walk(s)
	return segments
}

func firstTextSegment(s *goquery.Selection) string {
	if segs := textSegments(s); len(segs) > 0 {
		return segs[0]
	}
	return ""
}

func lastSegment(s *goquery.Selection) string {
	if segs := textSegments(s); len(segs) > 0 {
		return segs[len(segs)-1]
	}
	return ""
}

// nextSibling returns the first following sibling of s matching the
// selector, or nil when none exists.
func nextSibling(s *goquery.Selection, selector string) *goquery.Selection {
	next := s.NextAll().Filter(selector).First()
	if next.Length() == 0 {
		return nil
	}
	return next
}
