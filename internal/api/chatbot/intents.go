package chatbot

import (
	"regexp"
	"strings"
)

const (
	IntentGreeting      = "greeting"
	IntentFarewell      = "farewell"
	IntentBestTime      = "best_time"
	IntentHowToReach    = "how_to_reach"
	IntentRoutePlanning = "route_planning"
	IntentMustSee       = "must_see"
	IntentDynasty       = "dynasty"
	IntentHistory       = "history"
	IntentArchitecture  = "architecture"
	IntentCulture       = "culture"
	IntentLocationInfo  = "location_info"
)

type intentRule struct {
	name    string
	pattern *regexp.Regexp
}

// intentRules are tried in order; the first match wins, so narrower intents come first.
var intentRules = []intentRule{
	{IntentGreeting, regexp.MustCompile(`\b(hello|hi|hey|greetings|namaste|good\s+(morning|afternoon|evening))\b`)},
	{IntentFarewell, regexp.MustCompile(`\b(bye|goodbye|see you|farewell|thanks|thank you)\b`)},
	{IntentBestTime, regexp.MustCompile(`\b(best time|when to visit|when should i visit|visiting season|weather|climate)\b`)},
	{IntentHowToReach, regexp.MustCompile(`\b(how to reach|how do i reach|how to get to|how do i get to|directions to|travel to)\b`)},
	{IntentRoutePlanning, regexp.MustCompile(`\b(route|itinerary|plan|trip|tour|circuit|trail)\b`)},
	{IntentMustSee, regexp.MustCompile(`\b(must see|must visit|must-see|top attractions|highlights|famous|popular)\b`)},
	{IntentDynasty, regexp.MustCompile(`\b(dynasty|empire|ruler|king|emperor|sultan|sultanate)\b`)},
	{IntentHistory, regexp.MustCompile(`\b(history|historical|past|ancient|built by|founded by)\b`)},
	{IntentArchitecture, regexp.MustCompile(`\b(architecture|architectural|design|style|construction)\b`)},
	{IntentCulture, regexp.MustCompile(`\b(culture|cultural|tradition|festival|art|customs)\b`)},
	{IntentLocationInfo, regexp.MustCompile(`\b(tell me about|info about|information about|what is|describe|explain)\s+\S`)},
}

// DetectIntent returns the first matching intent name or "" when none applies.
func DetectIntent(message string) string {
	m := strings.ToLower(message)
	for _, rule := range intentRules {
		if rule.pattern.MatchString(m) {
			return rule.name
		}
	}
	return ""
}

// keyedAnswer is a lookup table entry matched by substring.
type keyedAnswer struct {
	key    string
	answer string
}

func lookupAnswer(table []keyedAnswer, subject string) (string, bool) {
	s := strings.ToLower(subject)
	if s == "" {
		return "", false
	}
	for _, e := range table {
		if strings.Contains(s, e.key) {
			return e.answer, true
		}
	}
	return "", false
}

var bestTimes = []keyedAnswer{
	{"taj mahal", "October to March is ideal for the Taj Mahal. Come at sunrise or late afternoon for the best light and fewer crowds."},
	{"hampi", "October to March has pleasant weather in Hampi (15-30°C). The Hampi Festival in November is special."},
	{"rajasthan", "October to March is perfect for Rajasthan. Avoid summer when temperatures exceed 45°C."},
	{"kerala", "October to March suits general touring in Kerala. June to September is beautiful but wet."},
	{"delhi", "October to March is pleasant in Delhi. Avoid May-June heat and the July-September monsoon."},
	{"goa", "November to February is peak season in Goa with little rain."},
	{"india", "October to March is ideal for most of India, with cool, dry weather for sightseeing."},
}

var routeSuggestions = []keyedAnswer{
	{"golden triangle", "The Golden Triangle (Delhi, Agra, Jaipur) covers the Red Fort, the Taj Mahal and the Hawa Mahal. A 5-7 day introduction to Indian heritage."},
	{"buddhist", "The Buddhist Circuit visits Bodh Gaya, Sarnath, Kushinagar and Rajgir, following the life of the Buddha."},
	{"south india", "The South India Temple Trail covers the shore temples of Mahabalipuram, the Brihadeeswarar Temple in Thanjavur, the Meenakshi Temple in Madurai and the ruins of Hampi."},
	{"temple", "The South India Temple Trail covers the shore temples of Mahabalipuram, the Brihadeeswarar Temple in Thanjavur, the Meenakshi Temple in Madurai and the ruins of Hampi."},
	{"rajasthan", "The Rajasthan Heritage Circuit runs through Jaipur, Udaipur, Jodhpur and Jaisalmer, showing Rajput grandeur."},
	{"mughal", "The Mughal Heritage Route covers Delhi (Red Fort, Humayun's Tomb) and Agra (Taj Mahal, Fatehpur Sikri)."},
}

var mustSee = []keyedAnswer{
	{"hampi", "Must-see in Hampi: Virupaksha Temple, Vittala Temple with the stone chariot, Lotus Mahal, Elephant Stables, Hemakuta Hill at sunset and the Royal Enclosure."},
	{"delhi", "Delhi highlights: Red Fort, India Gate, Humayun's Tomb, Qutub Minar, Lotus Temple and Chandni Chowk."},
	{"agra", "Agra essentials: the Taj Mahal at sunrise or sunset, Agra Fort, Fatehpur Sikri and Mehtab Bagh across the Yamuna."},
	{"taj mahal", "Agra essentials: the Taj Mahal at sunrise or sunset, Agra Fort, Fatehpur Sikri and Mehtab Bagh across the Yamuna."},
	{"jaipur", "Jaipur must-sees: Amber Fort, City Palace, Hawa Mahal, Jantar Mantar and the old bazaars."},
}

var dynastyInfo = []keyedAnswer{
	{"mughal", "The Mughal Empire (1526-1857) built the Taj Mahal, the Red Fort and Fatehpur Sikri, blending Persian, Turkish and Indian styles."},
	{"vijayanagara", "The Vijayanagara Empire (1336-1646), with its capital at Hampi, was South India's most powerful kingdom, famous for vast temple complexes."},
	{"chola", "The Chola dynasty (9th-13th centuries) built temples with towering gopurams; its UNESCO temples show Dravidian architecture at its peak."},
	{"mauryan", "The Mauryan Empire (322-185 BCE) under Ashoka spread Buddhism across India and left rock edicts and the stupa at Sanchi."},
}

var knownDynasties = []string{"Mughal", "Chola", "Vijayanagara", "Mauryan", "Gupta", "Delhi Sultanate", "Maratha", "Rajput", "Chalukya", "Pallava", "Hoysala"}

func extractDynasty(message string) string {
	m := strings.ToLower(message)
	for _, d := range knownDynasties {
		if strings.Contains(m, strings.ToLower(d)) {
			return d
		}
	}
	return ""
}

// placePattern picks a capitalized place name after a preposition, e.g. "visit Red Fort".
var placePattern = regexp.MustCompile(`\b(?:about|of|in|visit|reach|to)\s+([A-Z][a-z]+(?:\s+[A-Z][a-z]+)*)`)

func extractPlaceName(message string) string {
	if m := placePattern.FindStringSubmatch(message); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}
