package teams

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ibl-data/courtsync/internal/store"
)

func referenceRows() []store.Row {
	return []store.Row{
		{
			"normalized_name":     "הפועל חיפה",
			"player_details_name": "הפועל חיפה ב.ק",
			"schedule_team_name":  "הפועל בנק יהב חיפה",
			"short_name":          "חיפה",
		},
		{
			"normalized_name":     "מכבי רעננה",
			"player_details_name": "מכבי רעננה",
			"schedule_team_name":  "מכבי עירוני רעננה",
		},
	}
}

func TestResolveVariants(t *testing.T) {
	m := BuildMapping(referenceRows(), nil)

	assert.Equal(t, "הפועל חיפה", m.Resolve("הפועל חיפה ב.ק"))
	assert.Equal(t, "הפועל חיפה", m.Resolve("הפועל בנק יהב חיפה"))
	assert.Equal(t, "הפועל חיפה", m.Resolve("חיפה"))
	assert.Equal(t, "מכבי רעננה", m.Resolve("מכבי עירוני רעננה"))
}

func TestResolveIsIdempotent(t *testing.T) {
	m := BuildMapping(referenceRows(), nil)

	// Canonical names map to themselves, so resolving twice is a no-op.
	for _, canonical := range []string{"הפועל חיפה", "מכבי רעננה"} {
		assert.Equal(t, canonical, m.Resolve(canonical))
		assert.Equal(t, canonical, m.Resolve(m.Resolve(canonical)))
	}
}

func TestResolveTrimsWhitespace(t *testing.T) {
	m := BuildMapping(referenceRows(), nil)

	assert.Equal(t, "הפועל חיפה", m.Resolve("  חיפה "))
}

func TestResolveUnknownPassesThrough(t *testing.T) {
	m := BuildMapping(referenceRows(), nil)

	assert.Equal(t, "עירוני נהריה", m.Resolve("עירוני נהריה"))
}

func TestEmptyMappingIsIdentity(t *testing.T) {
	m := BuildMapping(nil, nil)

	assert.Equal(t, 0, m.Size())
	assert.Equal(t, "  anything  ", m.Resolve("  anything  "))
}

func TestLoadMappingMissingFileDegradesToIdentity(t *testing.T) {
	m := LoadMapping("testdata/does-not-exist.csv", nil)

	assert.Equal(t, 0, m.Size())
	assert.Equal(t, "מכבי רעננה", m.Resolve("מכבי רעננה"))
}

func TestBuildMappingSkipsRowsWithoutCanonical(t *testing.T) {
	rows := []store.Row{{"player_details_name": "variant only"}}
	m := BuildMapping(rows, nil)

	assert.Equal(t, 0, m.Size())
}
