package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/FACorreiaa/go-heritage-routes/internal/types"
)

func TestInterestMatcher_Explain(t *testing.T) {
	m := NewInterestMatcher()

	base := types.Location{
		ID:          "konark",
		Name:        "Konark Sun Temple",
		Description: "A chariot shaped shrine dedicated to Surya",
		Category:    "religious",
		Dynasty:     "Eastern Ganga",
		Tags:        []string{"unesco", "sun-worship"},
	}

	tests := []struct {
		name     string
		loc      types.Location
		interest string
		want     MatchKind
	}{
		{"exact category ignoring case", base, "Religious", MatchCategoryExact},
		{"interest contains category", base, "religious sites", MatchCategory},
		{"tag contains interest", base, "worship", MatchTag},
		{"interest contains name", types.Location{Name: "Hampi", Category: "historical"}, "hampi ruins", MatchName},
		{"description contains interest", base, "chariot", MatchDescription},
		{"dynasty contains interest", base, "ganga", MatchDynasty},
		{
			"broad category keyword in text",
			types.Location{Name: "Golconda", Category: "historical", Description: "A citadel on a granite hill"},
			types.InterestFortsPalaces,
			MatchBroadCategory,
		},
		{
			"reverse broad category through a related canonical name",
			types.Location{Name: "Sun Shrine", Category: "religious", Description: "A shrine by the sea"},
			"temple",
			MatchReverseBroadCategory,
		},
		{"unrelated interest", base, "beach", NoMatch},
		{"blank interest never matches", base, "   ", NoMatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, m.Explain(tt.loc, tt.interest), "got %s", m.Explain(tt.loc, tt.interest))
		})
	}
}

func TestInterestMatcher_EmptyFieldsDoNotMatchEverything(t *testing.T) {
	m := NewInterestMatcher()
	loc := types.Location{ID: "x", Name: "Site X", Category: ""}
	assert.False(t, m.Matches(loc, "religious"))
}

func TestInterestMatcher_TempleMatchesAncientTemplesTag(t *testing.T) {
	m := NewInterestMatcher()
	loc := types.Location{
		ID:       "t1",
		Name:     "Site T",
		Category: "religious",
		Tags:     []string{"ancient_temples"},
	}

	assert.True(t, m.Matches(loc, "temple"))
	assert.NotEqual(t, MatchCategoryExact, m.Explain(loc, "temple"))
	assert.NotEqual(t, MatchCategory, m.Explain(loc, "temple"))
}

func TestInterestMatcher_CanonicalInterestExpandsToKeywords(t *testing.T) {
	m := NewInterestMatcher()
	loc := types.Location{
		ID:          "t2",
		Name:        "Site T2",
		Category:    "religious",
		Description: "A sacred temple complex",
	}

	assert.Equal(t, MatchBroadCategory, m.Explain(loc, types.InterestAncientTemples))
}

func TestInterestMatcher_MatchesAnyAndCount(t *testing.T) {
	m := NewInterestMatcher()
	loc := site("A", 0, 0, "religious")

	assert.True(t, m.MatchesAny(loc, nil))
	assert.True(t, m.MatchesAny(loc, []string{"beach", "religious"}))
	assert.False(t, m.MatchesAny(loc, []string{"beach"}))
	assert.Equal(t, 1, m.MatchCount(loc, []string{"beach", "religious"}))
}
