package planner

import (
	"sort"
	"strings"

	"github.com/FACorreiaa/go-heritage-routes/internal/types"
)

// MatchKind names the rule that accepted an interest for a location.
type MatchKind int

const (
	NoMatch MatchKind = iota
	MatchCategoryExact
	MatchCategory
	MatchTag
	MatchName
	MatchDescription
	MatchDynasty
	MatchBroadCategory
	MatchReverseBroadCategory
)

func (k MatchKind) String() string {
	switch k {
	case MatchCategoryExact:
		return "category_exact"
	case MatchCategory:
		return "category"
	case MatchTag:
		return "tag"
	case MatchName:
		return "name"
	case MatchDescription:
		return "description"
	case MatchDynasty:
		return "dynasty"
	case MatchBroadCategory:
		return "broad_category"
	case MatchReverseBroadCategory:
		return "reverse_broad_category"
	default:
		return "none"
	}
}

// broadCategories expands the canonical interest vocabulary into loose keyword sets.
// The lists overlap on purpose; matching is lenient rather than a strict taxonomy.
var broadCategories = map[string][]string{
	types.InterestHistorical:     {"history", "historic", "heritage", "ancient", "medieval", "monument", "fort", "palace", "temple", "empire", "dynasty"},
	types.InterestReligious:      {"temple", "mosque", "church", "gurudwara", "shrine", "stupa", "monastery", "sacred", "pilgrimage", "worship", "spiritual", "holy", "religious"},
	types.InterestArchitectural:  {"architecture", "architectural", "dome", "minaret", "pillar", "carving", "sculpture", "facade", "gopuram", "shikhara", "mandapa", "vimana", "monument"},
	types.InterestCultural:       {"culture", "cultural", "tradition", "festival", "art", "dance", "music", "craft", "folklore", "legend"},
	types.InterestArchaeological: {"archaeolog", "excavation", "ruins", "ancient", "inscription", "rock-cut", "cave", "civilization"},
	types.InterestRoyalHeritage:  {"royal", "king", "queen", "maharaja", "palace", "court", "throne", "emperor", "sultan"},
	types.InterestAncientTemples: {"temple", "shrine", "mandir", "gopuram", "shikhara", "deity"},
	types.InterestFortsPalaces:   {"fort", "fortress", "palace", "citadel", "rampart", "mahal"},
	types.InterestUnescoSites:    {"unesco", "world heritage"},
}

// broadCategoryNames is the sorted key set so reverse expansion is deterministic.
var broadCategoryNames = func() []string {
	names := make([]string, 0, len(broadCategories))
	for name := range broadCategories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}()

// InterestMatcher decides whether a location satisfies a free-form interest.
type InterestMatcher struct{}

func NewInterestMatcher() *InterestMatcher {
	return &InterestMatcher{}
}

// Matches reports whether interest matches location under any rule.
func (m *InterestMatcher) Matches(loc types.Location, interest string) bool {
	return m.Explain(loc, interest) != NoMatch
}

// Explain returns the first rule, in priority order, that matches interest against loc.
func (m *InterestMatcher) Explain(loc types.Location, interest string) MatchKind {
	q := normalize(interest)
	if q == "" {
		return NoMatch
	}

	category := normalize(loc.Category)
	if category != "" && category == q {
		return MatchCategoryExact
	}
	if related(q, category) {
		return MatchCategory
	}
	for _, tag := range loc.Tags {
		if related(q, normalize(tag)) {
			return MatchTag
		}
	}
	if related(q, normalize(loc.Name)) {
		return MatchName
	}
	if strings.Contains(strings.ToLower(loc.Description), q) {
		return MatchDescription
	}
	if related(q, normalize(loc.Dynasty)) {
		return MatchDynasty
	}

	text := searchableText(loc)
	if keywords, ok := broadCategories[q]; ok && containsAny(text, keywords) {
		return MatchBroadCategory
	}
	for _, name := range broadCategoryNames {
		if name == q {
			continue
		}
		if related(q, name) && containsAny(text, broadCategories[name]) {
			return MatchReverseBroadCategory
		}
	}
	return NoMatch
}

// MatchesAny reports whether at least one interest matches. An empty list matches everything.
func (m *InterestMatcher) MatchesAny(loc types.Location, interests []string) bool {
	if len(interests) == 0 {
		return true
	}
	for _, interest := range interests {
		if m.Matches(loc, interest) {
			return true
		}
	}
	return false
}

// MatchCount returns how many interests match loc.
func (m *InterestMatcher) MatchCount(loc types.Location, interests []string) int {
	n := 0
	for _, interest := range interests {
		if m.Matches(loc, interest) {
			n++
		}
	}
	return n
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// related is bidirectional substring containment, ignoring empty operands.
func related(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

func searchableText(loc types.Location) string {
	var b strings.Builder
	b.WriteString(loc.Name)
	b.WriteByte(' ')
	b.WriteString(loc.Description)
	b.WriteByte(' ')
	b.WriteString(loc.Category)
	b.WriteByte(' ')
	b.WriteString(strings.Join(loc.Tags, " "))
	b.WriteByte(' ')
	b.WriteString(loc.Dynasty)
	return strings.ToLower(b.String())
}
