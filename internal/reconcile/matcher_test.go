package reconcile

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/herolabs/hokhub/internal/hok"
)

func worldSource(heroes ...*hok.Hero) Source {
	return NewSource(SourceWorld, PriorityWorld, heroes)
}

func campSource(heroes ...*hok.Hero) Source {
	return NewSource(SourceCamp, PriorityCamp, heroes)
}

func backupSource(heroes ...*hok.Hero) Source {
	return NewSource(SourceBackup, PriorityBackup, heroes)
}

func TestMatchGroupsByID(t *testing.T) {
	sources := []Source{
		campSource(&hok.Hero{HeroID: 142, Name: "Angela"}),
		worldSource(&hok.Hero{HeroID: 142, Name: "Angela"}, &hok.Hero{HeroID: 501, Name: "Shi"}),
	}

	groups := NewMatcher().Match(sources)
	require.Len(t, groups, 2)

	require.Equal(t, 142, groups[0].HeroID)
	require.Equal(t, "Angela", groups[0].Name)
	require.Len(t, groups[0].Records, 2)

	require.Equal(t, 501, groups[1].HeroID)
	require.Len(t, groups[1].Records, 1)
}

func TestMatchRecordsOrderedByPriority(t *testing.T) {
	sources := []Source{
		backupSource(&hok.Hero{HeroID: 142}),
		campSource(&hok.Hero{HeroID: 142, Name: "Angela"}),
		worldSource(&hok.Hero{HeroID: 142, Name: "Angela"}),
	}

	groups := NewMatcher().Match(sources)
	require.Len(t, groups, 1)

	g := groups[0]
	require.Len(t, g.Records, 3)
	require.Equal(t, SourceWorld, g.Records[0].Source)
	require.Equal(t, SourceCamp, g.Records[1].Source)
	require.Equal(t, SourceBackup, g.Records[2].Source)
}

func TestMatchIDLessRecordJoinsByName(t *testing.T) {
	sources := []Source{
		worldSource(&hok.Hero{HeroID: 142, Name: "Angela"}),
		campSource(&hok.Hero{Name: "ANGELA", Role: "Mage"}),
	}

	groups := NewMatcher().Match(sources)
	require.Len(t, groups, 1)
	require.Equal(t, 142, groups[0].HeroID)
	require.Len(t, groups[0].Records, 2)
}

func TestMatchNameOnlyGroupUpgradedWhenIDArrives(t *testing.T) {
	// World record has no id; camp later supplies one for the same name.
	sources := []Source{
		worldSource(&hok.Hero{Name: "Angela"}),
		campSource(&hok.Hero{HeroID: 142, Name: "Angela"}),
	}

	groups := NewMatcher().Match(sources)
	require.Len(t, groups, 1)
	require.Equal(t, 142, groups[0].HeroID)
	require.Equal(t, "Angela", groups[0].Name)
	require.Len(t, groups[0].Records, 2)
}

func TestMatchDropsNamelessIDLessRecords(t *testing.T) {
	sources := []Source{
		worldSource(&hok.Hero{Name: "Angela", HeroID: 142}, &hok.Hero{}),
	}

	groups := NewMatcher().Match(sources)
	require.Len(t, groups, 1)
}

func TestMatchNameMismatchKeepsHigherPriorityName(t *testing.T) {
	sources := []Source{
		campSource(&hok.Hero{HeroID: 142, Name: "Angela the Mage"}),
		worldSource(&hok.Hero{HeroID: 142, Name: "Angela"}),
	}

	groups := NewMatcher().Match(sources)
	require.Len(t, groups, 1)
	require.Equal(t, "Angela", groups[0].Name)
}

func TestMatchOutputDeterministic(t *testing.T) {
	sources := []Source{
		campSource(
			&hok.Hero{HeroID: 520, Name: "Zeta"},
			&hok.Hero{HeroID: 101, Name: "Alpha"},
			&hok.Hero{Name: "NamelessID"},
		),
		worldSource(&hok.Hero{HeroID: 310, Name: "Mid"}),
	}

	first := NewMatcher().Match(sources)
	second := NewMatcher().Match(sources)

	require.Equal(t, len(first), len(second))
	for i := range first {
		require.Equal(t, first[i].HeroID, second[i].HeroID)
		require.Equal(t, first[i].Name, second[i].Name)
	}

	// Sorted by id, name-only groups last.
	require.Equal(t, []int{101, 310, 520, 0}, []int{first[0].HeroID, first[1].HeroID, first[2].HeroID, first[3].HeroID})
	require.Equal(t, "NamelessID", first[3].Name)
}
