package reconcile

import (
	"log"
	"sort"
	"strings"
)

// Matcher groups partial records across sources that describe the same
// hero. The join key is the numeric hero id; records that arrive without
// one fall back to a case-insensitive exact name match against records
// already keyed by id from a higher-priority source.
type Matcher struct{}

// MatchGroup is every source's view of one hero, ordered by descending
// source priority. Singletons (heroes only one source knows) are kept.
type MatchGroup struct {
	HeroID  int
	Name    string
	Records []*Partial
}

// NewMatcher creates a matcher.
func NewMatcher() *Matcher {
	return &Matcher{}
}

// Match groups all partials from all sources. Output is sorted by hero
// id (name-only groups last, sorted by name) so downstream merging is
// deterministic.
func (m *Matcher) Match(sources []Source) []*MatchGroup {
	ordered := make([]Source, len(sources))
	copy(ordered, sources)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Priority > ordered[j].Priority
	})

	byID := make(map[int]*MatchGroup)
	byName := make(map[string]*MatchGroup)
	var groups []*MatchGroup

	add := func(g *MatchGroup, p *Partial) {
		g.Records = append(g.Records, p)
		if g.Name == "" && p.Hero.Name != "" {
			g.Name = p.Hero.Name
		}
	}

	for _, src := range ordered {
		for _, p := range src.Heroes {
			name := strings.TrimSpace(p.Hero.Name)
			if name == "" && p.HeroID == 0 {
				log.Printf("⚠️  %s: dropping record with no id and no name", src.Name)
				continue
			}
			nameKey := strings.ToLower(name)

			if p.HeroID != 0 {
				if g, ok := byID[p.HeroID]; ok {
					if g.Name != "" && name != "" && !strings.EqualFold(g.Name, name) {
						log.Printf("⚠️  hero %d: name mismatch across sources (%q vs %q from %s) - keeping higher-priority name",
							p.HeroID, g.Name, name, src.Name)
					}
					add(g, p)
					if nameKey != "" {
						if _, taken := byName[nameKey]; !taken {
							byName[nameKey] = g
						}
					}
					continue
				}
				// A name-only group may already exist for this hero from a
				// lower-priority source seen in an earlier id-less record.
				if g, ok := byName[nameKey]; ok && nameKey != "" && g.HeroID == 0 {
					g.HeroID = p.HeroID
					add(g, p)
					byID[p.HeroID] = g
					sortGroup(g)
					continue
				}
				g := &MatchGroup{HeroID: p.HeroID}
				add(g, p)
				byID[p.HeroID] = g
				if nameKey != "" {
					if _, taken := byName[nameKey]; !taken {
						byName[nameKey] = g
					}
				}
				groups = append(groups, g)
				continue
			}

			// No id: join by name, or start a name-only singleton.
			if g, ok := byName[nameKey]; ok {
				add(g, p)
				continue
			}
			g := &MatchGroup{Name: name}
			add(g, p)
			byName[nameKey] = g
			groups = append(groups, g)
		}
	}

	for _, g := range groups {
		sortGroup(g)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		a, b := groups[i], groups[j]
		if (a.HeroID == 0) != (b.HeroID == 0) {
			return b.HeroID == 0
		}
		if a.HeroID != b.HeroID {
			return a.HeroID < b.HeroID
		}
		return a.Name < b.Name
	})

	return groups
}

func sortGroup(g *MatchGroup) {
	sort.SliceStable(g.Records, func(i, j int) bool {
		return g.Records[i].Priority > g.Records[j].Priority
	})
	// Higher-priority source's name wins the group label.
	for _, r := range g.Records {
		if r.Hero.Name != "" {
			g.Name = r.Hero.Name
			break
		}
	}
}
