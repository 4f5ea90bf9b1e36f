package reconcile

import "github.com/herolabs/hokhub/internal/hok"

// Source names. Priority decides which source wins identity fields and
// breaks ties everywhere else.
const (
	SourceWorld  = "world"
	SourceCamp   = "camp"
	SourceBackup = "backup"
)

// Default priorities (higher wins).
const (
	PriorityWorld  = 3
	PriorityCamp   = 2
	PriorityBackup = 1
)

// Partial is one source's normalized view of a single hero. Only the
// fields the source actually knows are populated; the engine never
// invents values a source did not provide.
type Partial struct {
	Source   string
	Priority int
	HeroID   int
	Hero     *hok.Hero
}

// Source is a named batch of partials from one normalizer run.
type Source struct {
	Name     string
	Priority int
	Heroes   []*Partial
}

// NewSource tags every partial with the source name and priority.
func NewSource(name string, priority int, heroes []*hok.Hero) Source {
	partials := make([]*Partial, 0, len(heroes))
	for _, h := range heroes {
		partials = append(partials, &Partial{
			Source:   name,
			Priority: priority,
			HeroID:   h.HeroID,
			Hero:     h,
		})
	}
	return Source{Name: name, Priority: priority, Heroes: partials}
}
