// Package teams resolves the many spellings a team appears under across the
// league site (gallery captions, schedule feed, box-score headers) to one
// canonical name. The mapping is built once per run from the reference table
// and is immutable afterwards; resolution is a pure lookup.
package teams

import (
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/ibl-data/courtsync/internal/store"
)

// Reference table columns. Each row names one canonical team and the
// variants it is known to appear under.
const (
	colCanonical    = "normalized_name"
	colDetailsName  = "player_details_name"
	colScheduleName = "schedule_team_name"
	colShortName    = "short_name"
)

// Mapping is a finalized variant -> canonical lookup.
type Mapping struct {
	byVariant map[string]string
	log       *logrus.Logger
}

// BuildMapping constructs the mapping from reference-table rows. Every
// variant maps to its canonical name, and each canonical name maps to itself
// so resolution is idempotent. nil or empty rows yield an identity mapping.
func BuildMapping(rows []store.Row, log *logrus.Logger) *Mapping {
	m := &Mapping{byVariant: make(map[string]string), log: log}

	for _, row := range rows {
		canonical := row[colCanonical]
		if canonical == "" {
			continue
		}
		for _, col := range []string{colDetailsName, colScheduleName, colShortName} {
			if v := row[col]; v != "" {
				m.byVariant[v] = canonical
			}
		}
		m.byVariant[canonical] = canonical
	}

	if log != nil && len(m.byVariant) > 0 {
		log.Infof("Loaded team mapping: %d rows, %d name variations", len(rows), len(m.byVariant))
	}
	return m
}

// LoadMapping reads the reference table and builds the mapping. A missing or
// unreadable table is a soft failure: resolution degrades to identity
// pass-through for the whole run.
func LoadMapping(path string, log *logrus.Logger) *Mapping {
	rows, err := store.Load(path)
	if err != nil {
		if log != nil {
			log.Warnf("Error loading team mapping %s: %v (continuing without normalization)", path, err)
		}
		return BuildMapping(nil, log)
	}
	if rows == nil {
		if log != nil {
			log.Warnf("Team mapping file not found: %s (continuing without normalization)", path)
		}
		return BuildMapping(nil, log)
	}
	return BuildMapping(rows, log)
}

// Resolve returns the canonical name for an observed team label. Lookup is
// exact first, then with surrounding whitespace trimmed. Unknown names pass
// through unchanged with a diagnostic so operators can extend the reference
// table.
func (m *Mapping) Resolve(name string) string {
	if len(m.byVariant) == 0 {
		return name
	}
	if canonical, ok := m.byVariant[name]; ok {
		m.logResolution(name, canonical)
		return canonical
	}
	trimmed := strings.TrimSpace(name)
	if canonical, ok := m.byVariant[trimmed]; ok {
		m.logResolution(name, canonical)
		return canonical
	}
	if m.log != nil {
		m.log.Warnf("No mapping found for team: %q", name)
	}
	return name
}

// Size reports how many variants the mapping knows.
func (m *Mapping) Size() int { return len(m.byVariant) }

func (m *Mapping) logResolution(from, to string) {
	if m.log != nil && from != to {
		m.log.Infof("Normalized team name: %q -> %q", from, to)
	}
}
