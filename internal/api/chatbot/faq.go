package chatbot

import (
	"math"
	"regexp"
	"strings"
)

// FAQ is a canned question and its answer.
type FAQ struct {
	Question string
	Answer   string
}

var defaultFAQs = []FAQ{
	{"What is the best time to visit Taj Mahal",
		"The best time to visit the Taj Mahal is from October to March when the weather is pleasant. At sunrise the marble takes on a soft pink glow and at sunset it turns golden. The monument is closed on Fridays."},
	{"How to reach Taj Mahal",
		"The Taj Mahal is in Agra, Uttar Pradesh. Agra Airport is 12 km away and Agra Cantt station is well connected by rail. From Delhi the Yamuna Expressway takes 3 to 4 hours, or take the Gatimaan Express."},
	{"History of Taj Mahal",
		"The Taj Mahal was built by the Mughal emperor Shah Jahan between 1632 and 1653 as a mausoleum for his wife Mumtaz Mahal. It is the finest example of Mughal architecture, combining Islamic, Persian and Indian styles."},
	{"What is the best time to visit Hampi",
		"Visit Hampi between October and March when temperatures stay between 15°C and 30°C. Avoid April to June when it goes above 40°C. The Hampi Festival in November is the best time to experience local culture."},
	{"How do I reach Hampi",
		"The nearest airports are Ballari (60 km) and Hubli (143 km). Hospet Junction, 12 km away, connects to Bangalore, Hyderabad and Goa. From Hospet take a local bus, auto-rickshaw or taxi."},
	{"History of Hampi",
		"Hampi was the capital of the Vijayanagara Empire (1336-1646 CE), once one of the richest cities in the world. Its ruins include the Virupaksha Temple and the stone chariot of the Vittala Temple. UNESCO listed it in 1986."},
	{"What are the must see spots in Hampi",
		"Do not miss the Virupaksha Temple, the Vittala Temple and its stone chariot, the Lotus Mahal, the Elephant Stables, Hemakuta Hill at sunset and the Royal Enclosure with the Mahanavami Dibba."},
	{"What is the Buddhist Trail",
		"The Buddhist Trail links Bodh Gaya where the Buddha attained enlightenment, Sarnath where he gave his first sermon, Kushinagar, Rajgir and Nalanda. It traces the life and teachings of the Buddha."},
	{"Best time to visit India",
		"October to March suits most of India. Hill stations are best from April to June. The monsoon (July to September) is beautiful in Kerala but makes travel elsewhere harder. December to February is ideal for heritage sites."},
	{"Golden Triangle route",
		"The Golden Triangle covers Delhi, Agra and Jaipur: Mughal and British Delhi, the Taj Mahal in Agra and the Rajput palaces of the Pink City. Allow 5 to 7 days."},
	{"Mughal architecture",
		"Mughal architecture (1526-1857) blends Islamic, Persian, Turkish and Indian styles: bulbous domes, slender minarets, pointed arches, red sandstone and white marble. See the Taj Mahal, the Red Fort and Humayun's Tomb."},
	{"Vijayanagara Empire",
		"The Vijayanagara Empire (1336-1646) ruled South India from its capital at Hampi. It was known for its armies, trade networks and temple architecture until it fell to the Deccan Sultanates."},
	{"Chola dynasty temples",
		"The Cholas (9th-13th centuries) built temples with towering gopurams and remarkable bronzes. The Brihadeeswarar Temple in Thanjavur and the temples at Darasuram and Gangaikonda Cholapuram are UNESCO sites."},
	{"How to plan historical route in India",
		"Pick a theme such as Mughal heritage, temples or Buddhist sites, keep to one region, allow 2 to 3 days per major site, check the season, book stays early and hire local guides."},
}

var tokenPattern = regexp.MustCompile(`[a-z0-9]+`)

// stopWords are dropped before vectorizing so that question scaffolding does not dominate.
var stopWords = map[string]struct{}{
	"a": {}, "about": {}, "an": {}, "and": {}, "are": {}, "at": {}, "be": {}, "can": {}, "could": {},
	"do": {}, "does": {}, "for": {}, "from": {}, "get": {}, "how": {}, "i": {}, "in": {}, "is": {},
	"it": {}, "me": {}, "my": {}, "of": {}, "on": {}, "or": {}, "please": {}, "should": {}, "tell": {},
	"that": {}, "the": {}, "there": {}, "this": {}, "to": {}, "we": {}, "what": {}, "when": {},
	"where": {}, "which": {}, "who": {}, "why": {}, "with": {}, "would": {}, "you": {},
}

func tokenize(text string) []string {
	raw := tokenPattern.FindAllString(strings.ToLower(text), -1)
	out := raw[:0]
	for _, tok := range raw {
		if _, stop := stopWords[tok]; !stop {
			out = append(out, tok)
		}
	}
	return out
}

type vector map[string]float64

// FAQIndex ranks FAQs against a query by TF-IDF cosine similarity.
type FAQIndex struct {
	faqs    []FAQ
	idf     map[string]float64
	vectors []vector
}

func NewFAQIndex(faqs []FAQ) *FAQIndex {
	idx := &FAQIndex{faqs: faqs, idf: make(map[string]float64)}

	df := make(map[string]int)
	docs := make([][]string, len(faqs))
	for i, f := range faqs {
		docs[i] = tokenize(f.Question)
		seen := make(map[string]struct{})
		for _, tok := range docs[i] {
			if _, ok := seen[tok]; !ok {
				seen[tok] = struct{}{}
				df[tok]++
			}
		}
	}
	n := float64(len(faqs))
	for tok, d := range df {
		idx.idf[tok] = math.Log((1+n)/(1+float64(d))) + 1
	}
	for _, doc := range docs {
		idx.vectors = append(idx.vectors, idx.vectorize(doc))
	}
	return idx
}

// vectorize builds an L2-normalized TF-IDF vector. Terms outside the FAQ vocabulary are ignored.
func (idx *FAQIndex) vectorize(tokens []string) vector {
	v := make(vector)
	for _, tok := range tokens {
		if w, ok := idx.idf[tok]; ok {
			v[tok] += w
		}
	}
	var norm float64
	for _, w := range v {
		norm += w * w
	}
	if norm == 0 {
		return v
	}
	norm = math.Sqrt(norm)
	for tok := range v {
		v[tok] /= norm
	}
	return v
}

// minMatchTerms keeps one-word queries such as a bare place name from snapping to an arbitrary FAQ.
const minMatchTerms = 2

// Match returns the most similar FAQ and its cosine similarity in [0,1].
// ok is false when the query shares fewer than two terms with the FAQ vocabulary.
func (idx *FAQIndex) Match(query string) (faq FAQ, score float64, ok bool) {
	q := idx.vectorize(tokenize(query))
	if len(q) < minMatchTerms {
		return FAQ{}, 0, false
	}
	best := -1
	for i, v := range idx.vectors {
		var dot float64
		for tok, w := range q {
			dot += w * v[tok]
		}
		if dot > score {
			score, best = dot, i
		}
	}
	if best < 0 {
		return FAQ{}, 0, false
	}
	return idx.faqs[best], math.Min(score, 1), true
}
