package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const playerGalleryHTML = `
<div class="player-gallery">
  <a class="player" href="/player/123/">דני כהן<span>הפועל חיפה ב.ק</span></a>
  <a class="player" href="/player/124/">
    יוסי לוי
    <span>מכבי רעננה</span>
  </a>
  <a class="player" href="/player/125/"><span></span></a>
</div>`

func TestParsePlayerList(t *testing.T) {
	players := ParsePlayerList(doc(t, playerGalleryHTML))

	// The nameless anchor is skipped.
	require.Len(t, players, 2)

	assert.Equal(t, PlayerListing{
		Name: "דני כהן",
		Team: "הפועל חיפה ב.ק",
		URL:  "/player/123/",
	}, players[0])
	assert.Equal(t, "יוסי לוי", players[1].Name)
	assert.Equal(t, "מכבי רעננה", players[1].Team)
}

const playerProfileHTML = `
<div class="player-details">
  <div class="data-birthdate"><span class="label">תאריך לידה</span>2003-05-17</div>
  <div class="data-other" data-metric="משקל"><span class="label">משקל</span>92</div>
  <div class="data-other" data-metric="גובה"><span class="label">גובה</span>1.96</div>
  <ul class="general">
    <li><span class="label">קבוצה</span><span class="data-team">הפועל חיפה</span></li>
    <li><span class="label">מספר חולצה</span><span class="data-number">7</span></li>
  </ul>
</div>`

func TestParsePlayerBio(t *testing.T) {
	bio := ParsePlayerBio(doc(t, playerProfileHTML))

	assert.Equal(t, "17/05/2003", bio.DateOfBirth)
	assert.Equal(t, "1.96", bio.Height)
	assert.Equal(t, "7", bio.Number)
}

func TestParsePlayerBioMissingFieldsStayEmpty(t *testing.T) {
	bio := ParsePlayerBio(doc(t, "<div></div>"))

	assert.Equal(t, PlayerBio{}, bio)
}

const playerHistoryHTML = `
<div class="data-teams">
  <br><span title="עונה">2024-2025</span> <a href="/t/1">הפועל חיפה</a> <a href="/l/1">ליגת העל</a>
  <br><span title="עונה">2024-2025</span> <a href="/t/2">מכבי רעננה</a> <a href="/l/1">ליגת העל</a>
  <br><span title="עונה">2023-2024</span> <a href="/t/2">מכבי רעננה</a> <a href="/l/2">ליגה לאומית</a>
</div>`

func TestParsePlayerHistory(t *testing.T) {
	history := ParsePlayerHistory(doc(t, playerHistoryHTML))

	assert.Equal(t, map[string]string{
		"2024-25": "הפועל חיפה (ליגת העל), מכבי רעננה (ליגת העל)",
		"2023-24": "מכבי רעננה (ליגה לאומית)",
	}, history)
}

const youthHistoryHTML = `
<div class="data-teams">
  <br><span title="עונה">2024-2025</span> <a href="/t/1">הפועל חיפה</a> <a href="/l/1">ליגת העל</a>
  <br><span title="עונה">2022-2023</span> <a href="/t/3">הפועל חיפה</a> <a href="/l/3">ליגת נוער</a>
  <br><span title="עונה">2021-2022</span> <a href="/t/3">הפועל חיפה</a> <a href="/l/3">ליגת נוער</a>
  <br><span title="עונה">2020-2021</span> <a href="/t/4">מכבי רעננה</a> <a href="/l/1">ליגת העל</a>
</div>`

func TestParsePlayerHistoryStopsAtSecondYouthEntry(t *testing.T) {
	history := ParsePlayerHistory(doc(t, youthHistoryHTML))

	// The second youth-league entry is not recorded and traversal stops, so
	// the senior season behind it is never reached.
	assert.Equal(t, map[string]string{
		"2024-25": "הפועל חיפה (ליגת העל)",
		"2022-23": "הפועל חיפה (ליגת נוער)",
	}, history)
}

func TestParsePlayerHistoryEmptyBlock(t *testing.T) {
	assert.Empty(t, ParsePlayerHistory(doc(t, `<div class="data-teams"></div>`)))
}

func TestNormalizeSeason(t *testing.T) {
	assert.Equal(t, "2024-25", NormalizeSeason("2024-2025"))
	assert.Equal(t, "2009-10", NormalizeSeason("2009-2010"))
	assert.Equal(t, "2024-25", NormalizeSeason("2024-25"))
	assert.Equal(t, "career", NormalizeSeason("career"))
}
