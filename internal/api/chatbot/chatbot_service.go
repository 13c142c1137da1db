package chatbot

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"log/slog"
	"sort"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-heritage-routes/app/observability/metrics"
	"github.com/FACorreiaa/go-heritage-routes/internal/planner"
	"github.com/FACorreiaa/go-heritage-routes/internal/types"
)

const (
	faqThreshold        = 0.6
	searchThreshold     = 0.5
	maxSearchLocations  = 3
	maxSuggestions      = 4
	DefaultRecommendN   = 5
	MaxRecommendN       = 50
	fallbackConfidence  = 0.3
	locationConfidence  = 0.9
	greetingConfidence  = 0.9
	tableHitConfidence  = 0.8
	guidanceConfidence  = 0.4
	searchMaxConfidence = 0.8
)

var ErrEmptyMessage = errors.New("message is required")

// Translator localizes chatbot answers. Implementations return types.ErrUnsupportedLanguage for unknown targets.
type Translator interface {
	Translate(ctx context.Context, text, target string) (string, error)
}

var _ Service = (*ServiceImpl)(nil)

type Service interface {
	Ask(ctx context.Context, req types.ChatRequest) (types.ChatResponse, error)
	History(ctx context.Context, sessionID string) ([]types.ChatMessage, error)
	ClearHistory(ctx context.Context, sessionID string) error
	Recommend(ctx context.Context, req types.RecommendRequest) ([]types.ScoredLocation, error)
}

type ServiceImpl struct {
	logger     *slog.Logger
	catalog    planner.Catalog
	planner    *planner.Planner
	sessions   *SessionStore
	faqs       *FAQIndex
	translator Translator
}

// NewServiceImpl wires the chatbot. translator may be nil, in which case answers stay in English.
func NewServiceImpl(catalog planner.Catalog, p *planner.Planner, sessions *SessionStore, translator Translator, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:     logger,
		catalog:    catalog,
		planner:    p,
		sessions:   sessions,
		faqs:       NewFAQIndex(defaultFAQs),
		translator: translator,
	}
}

// Ask answers a free-text question and records the exchange in the session history.
func (s *ServiceImpl) Ask(ctx context.Context, req types.ChatRequest) (types.ChatResponse, error) {
	ctx, span := otel.Tracer("ChatbotService").Start(ctx, "Ask", trace.WithAttributes(
		attribute.String("chat.lang", req.Lang),
	))
	defer span.End()
	l := s.logger.With(slog.String("method", "Ask"))

	msg := strings.TrimSpace(req.Message)
	if msg == "" {
		span.SetStatus(codes.Error, "empty message")
		return types.ChatResponse{}, ErrEmptyMessage
	}

	locs, err := s.catalog.All(ctx)
	if err != nil {
		l.ErrorContext(ctx, "Failed to load catalog", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "catalog unavailable")
		return types.ChatResponse{}, fmt.Errorf("failed to load catalog: %w", err)
	}

	resp := s.answer(msg, req.LocationID, locs)
	resp.SessionID = s.sessions.Resolve(req.SessionID)
	resp.Suggestions = suggestionsFor(msg, mentionedLocation(msg, req.LocationID, locs))

	if err = s.localize(ctx, &resp, req.Lang); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "translation failed")
		return types.ChatResponse{}, err
	}

	s.sessions.Append(resp.SessionID,
		types.ChatMessage{Role: "user", Content: msg},
		types.ChatMessage{Role: "assistant", Content: resp.Response},
	)

	metrics.Get().ChatQueriesTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("type", string(resp.Type))))
	span.SetAttributes(
		attribute.String("chat.type", string(resp.Type)),
		attribute.Float64("chat.confidence", resp.Confidence),
	)
	span.SetStatus(codes.Ok, "")
	l.DebugContext(ctx, "Chat answered",
		slog.String("type", string(resp.Type)),
		slog.String("intent", resp.Intent),
		slog.Float64("confidence", resp.Confidence))
	return resp, nil
}

// answer runs the strategy chain: FAQ, intent rules, named location, catalog search, fallback.
func (s *ServiceImpl) answer(msg, locationID string, locs []types.Location) types.ChatResponse {
	if faq, score, ok := s.faqs.Match(msg); ok && score >= faqThreshold {
		return types.ChatResponse{Response: faq.Answer, Type: types.ChatResponseFAQ, Confidence: score}
	}

	loc := mentionedLocation(msg, locationID, locs)

	if intent := DetectIntent(msg); intent != "" {
		if resp, ok := answerIntent(intent, msg, loc, locs); ok {
			return resp
		}
		if resp, ok := searchCatalog(msg, locs); ok {
			return resp
		}
		if intent == IntentLocationInfo {
			subject := extractPlaceName(msg)
			if subject == "" {
				subject = "that place"
			}
			return types.ChatResponse{
				Response:   fmt.Sprintf("I don't have specific information about %s yet. I can tell you about sites like the Taj Mahal, Hampi, Khajuraho or the Ajanta caves. What kind of heritage interests you most?", subject),
				Type:       types.ChatResponseIntent,
				Intent:     intent,
				Confidence: guidanceConfidence,
			}
		}
		return fallback(msg)
	}

	if loc != nil {
		return types.ChatResponse{
			Response:   overview(*loc),
			Type:       types.ChatResponseLocation,
			Confidence: locationConfidence,
			Locations:  []types.Location{*loc},
		}
	}
	if resp, ok := searchCatalog(msg, locs); ok {
		return resp
	}
	return fallback(msg)
}

// answerIntent answers intents with a table or catalog lookup. ok is false for the location bound
// intents when no location was named, so the caller can fall through to catalog search.
func answerIntent(intent, msg string, loc *types.Location, locs []types.Location) (types.ChatResponse, bool) {
	resp := types.ChatResponse{Type: types.ChatResponseIntent, Intent: intent}
	if loc != nil {
		resp.Locations = []types.Location{*loc}
	}
	subject := extractPlaceName(msg)
	if loc != nil {
		subject = loc.Name
	}

	switch intent {
	case IntentGreeting:
		resp.Response = "Namaste! I'm your heritage travel assistant. Ask me about historical sites, dynasties, routes or the best time to visit."
		resp.Confidence = greetingConfidence
	case IntentFarewell:
		resp.Response = "Thank you for exploring India's heritage with me. Have a wonderful journey!"
		resp.Confidence = greetingConfidence
	case IntentBestTime:
		if answer, ok := lookupAnswer(bestTimes, msg); ok {
			resp.Response, resp.Confidence = answer, tableHitConfidence
			break
		}
		place := subject
		if place == "" {
			place = "most sites"
		}
		resp.Response = fmt.Sprintf("For %s in India, October to March is generally the best time to visit, with pleasant weather and clear skies. Avoid the April to June heat and the July to September monsoon unless you are heading to the hills.", place)
		resp.Confidence = 0.6
	case IntentHowToReach:
		if subject == "" {
			resp.Response = "Tell me which destination you want to reach and I'll point you to flights, trains and road routes."
			resp.Confidence = fallbackConfidence
			break
		}
		resp.Response = fmt.Sprintf("To reach %s, check the nearest airport, railway station and road connections. Most major heritage sites in India are well connected by rail and road. Want me to plan a route that includes %s?", subject, subject)
		if loc != nil {
			resp.Response = fmt.Sprintf("%s is at %.4f, %.4f. %s", loc.Name, loc.Coordinates.Lat, loc.Coordinates.Lng, resp.Response)
		}
		resp.Confidence = 0.6
	case IntentRoutePlanning:
		if answer, ok := lookupAnswer(routeSuggestions, msg); ok {
			resp.Response, resp.Confidence = answer, tableHitConfidence
			break
		}
		resp.Response = "I can help you plan a heritage route! Popular options are the Golden Triangle, the Buddhist Circuit, the South India Temple Trail and Rajasthan's royal circuit. Tell me your interests and how many days you have for a personalized route."
		resp.Confidence = 0.7
	case IntentMustSee:
		if answer, ok := lookupAnswer(mustSee, msg); ok {
			resp.Response, resp.Confidence = answer, tableHitConfidence
			break
		}
		if loc != nil {
			resp.Response, resp.Confidence = overview(*loc), tableHitConfidence
			break
		}
		resp.Response = "I'd love to suggest must-see attractions! Which destination do you have in mind? I know the major heritage sites across India."
		resp.Confidence = 0.5
	case IntentDynasty:
		if answer, ok := lookupAnswer(dynastyInfo, msg); ok {
			resp.Response, resp.Confidence = answer, tableHitConfidence
			break
		}
		if d := extractDynasty(msg); d != "" {
			if sites := byDynasty(locs, d); len(sites) > 0 {
				resp.Response = fmt.Sprintf("Sites associated with the %s: %s.", d, strings.Join(names(sites), ", "))
				resp.Locations = sites
				resp.Confidence = 0.7
				break
			}
		}
		resp.Response = "India was ruled by many great dynasties, including the Mauryas, Guptas, Cholas, the Delhi Sultanate, the Mughals and the Marathas. Each left its own architectural and cultural legacy. Which one interests you?"
		resp.Confidence = 0.6
	case IntentHistory, IntentArchitecture, IntentCulture, IntentLocationInfo:
		if loc == nil {
			return types.ChatResponse{}, false
		}
		resp.Response = topicAnswer(intent, *loc)
		resp.Confidence = locationConfidence
		if intent == IntentLocationInfo {
			resp.Type = types.ChatResponseLocation
		}
	default:
		return types.ChatResponse{}, false
	}
	return resp, true
}

func topicAnswer(intent string, loc types.Location) string {
	switch intent {
	case IntentHistory:
		if loc.History != "" {
			return fmt.Sprintf("History of %s: %s", loc.Name, loc.History)
		}
	case IntentArchitecture:
		if len(loc.Tags) > 0 {
			return fmt.Sprintf("%s: %s Notable for: %s.", loc.Name, loc.Description, strings.Join(loc.Tags, ", "))
		}
	case IntentCulture:
		if len(loc.CulturalFacts) > 0 {
			answer := fmt.Sprintf("Cultural insight on %s: %s", loc.Name, loc.CulturalFacts[0])
			if len(loc.Legends) > 0 {
				answer += fmt.Sprintf(" Legend has it: %s. %s", loc.Legends[0].Title, loc.Legends[0].Description)
			}
			return answer
		}
	}
	return overview(loc)
}

func overview(loc types.Location) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s is a %s site. %s", loc.Name, loc.Category, strings.TrimSpace(loc.Description))
	if loc.Period != "" {
		fmt.Fprintf(&b, " It dates from %s.", loc.Period)
	}
	if loc.Dynasty != "" && !strings.EqualFold(loc.Dynasty, "unknown") {
		fmt.Fprintf(&b, " It is associated with the %s.", loc.Dynasty)
	}
	if len(loc.CulturalFacts) > 0 {
		fmt.Fprintf(&b, " Cultural insight: %s", loc.CulturalFacts[0])
	}
	return b.String()
}

// mentionedLocation resolves locationID, or else the catalog location whose name appears in msg.
// The longest matching name wins so that "Golden Temple" beats a shorter name inside it.
func mentionedLocation(msg, locationID string, locs []types.Location) *types.Location {
	if locationID != "" {
		for i := range locs {
			if locs[i].ID == locationID {
				return &locs[i]
			}
		}
	}
	m := strings.ToLower(msg)
	var best *types.Location
	for i := range locs {
		name := strings.ToLower(locs[i].Name)
		if name == "" || !strings.Contains(m, name) {
			continue
		}
		if best == nil || len(name) > len(best.Name) {
			best = &locs[i]
		}
	}
	return best
}

func searchText(loc types.Location) string {
	parts := []string{loc.Name, loc.Description, loc.History, loc.Dynasty, loc.Period}
	parts = append(parts, loc.CulturalFacts...)
	parts = append(parts, loc.Tags...)
	return strings.ToLower(strings.Join(parts, " "))
}

// searchScore counts occurrences of every query word longer than two characters.
func searchScore(text string, words []string) int {
	score := 0
	for _, w := range words {
		score += strings.Count(text, w)
	}
	return score
}

func searchCatalog(msg string, locs []types.Location) (types.ChatResponse, bool) {
	var words []string
	for _, w := range tokenize(msg) {
		if len(w) > 2 {
			words = append(words, w)
		}
	}
	if len(words) == 0 {
		return types.ChatResponse{}, false
	}

	type hit struct {
		loc   types.Location
		score int
	}
	var hits []hit
	for _, loc := range locs {
		if score := searchScore(searchText(loc), words); score > 0 {
			hits = append(hits, hit{loc, score})
		}
	}
	if len(hits) == 0 {
		return types.ChatResponse{}, false
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].score > hits[j].score })

	confidence := min(searchMaxConfidence, float64(hits[0].score)/10)
	if confidence <= searchThreshold {
		return types.ChatResponse{}, false
	}
	resp := types.ChatResponse{
		Response:   overview(hits[0].loc),
		Type:       types.ChatResponseSearch,
		Confidence: confidence,
	}
	for _, h := range hits[:min(len(hits), maxSearchLocations)] {
		resp.Locations = append(resp.Locations, h.loc)
	}
	return resp, true
}

var fallbacks = []string{
	"I'm still learning about India's vast heritage. Try asking about a specific monument like the Taj Mahal, Hampi or the Khajuraho temples.",
	"Interesting question! I specialize in Indian heritage sites, historical periods and cultural routes. Try asking about a monument, a dynasty or a region.",
	"I'd love to help you explore Indian culture! Are you interested in temple architecture, Mughal monuments, Buddhist sites or travel planning?",
	"I can help with major heritage sites, historical periods and travel routes across India. Which of these interests you most?",
}

// fallback picks a canned answer deterministically from the query text.
func fallback(msg string) types.ChatResponse {
	h := fnv.New32a()
	_, _ = h.Write([]byte(strings.ToLower(msg)))
	return types.ChatResponse{
		Response:   fallbacks[h.Sum32()%uint32(len(fallbacks))],
		Type:       types.ChatResponseFallback,
		Confidence: fallbackConfidence,
	}
}

var defaultSuggestions = []string{
	"Tell me about the Taj Mahal",
	"Plan a heritage route",
	"Buddhist trail in India",
	"Mughal monuments",
}

func suggestionsFor(msg string, loc *types.Location) []string {
	var out []string
	if loc != nil {
		out = append(out,
			"Best time to visit "+loc.Name,
			"How to reach "+loc.Name,
			"Cultural significance of "+loc.Name,
			"Architecture of "+loc.Name,
		)
	}

	m := strings.ToLower(msg)
	switch {
	case strings.Contains(m, "history") || strings.Contains(m, "historical"):
		out = append(out, "Tell me about Mughal architecture", "What is the Vijayanagara Empire?", "Show me Buddhist heritage sites")
	case strings.Contains(m, "time") || strings.Contains(m, "visit"):
		out = append(out, "Best time to visit Rajasthan", "Weather in Kerala", "Festival seasons in India")
	case strings.Contains(m, "route") || strings.Contains(m, "plan"):
		out = append(out, "Golden Triangle route", "Buddhist circuit plan", "South India temple trail")
	case strings.Contains(m, "temple"):
		out = append(out, "Chola dynasty temples", "Cave temples of India", "Temple architecture styles")
	}

	if len(out) == 0 {
		out = append(out, defaultSuggestions...)
	}
	return out[:min(len(out), maxSuggestions)]
}

func byDynasty(locs []types.Location, dynasty string) []types.Location {
	d := strings.ToLower(dynasty)
	var out []types.Location
	for _, l := range locs {
		if strings.Contains(strings.ToLower(l.Dynasty), d) {
			out = append(out, l)
		}
	}
	return out
}

func names(locs []types.Location) []string {
	out := make([]string, len(locs))
	for i, l := range locs {
		out[i] = l.Name
	}
	return out
}

// localize translates the answer and suggestions in place. English and empty targets are a no-op.
func (s *ServiceImpl) localize(ctx context.Context, resp *types.ChatResponse, lang string) error {
	if s.translator == nil || lang == "" || strings.EqualFold(lang, "en") {
		return nil
	}
	text, err := s.translator.Translate(ctx, resp.Response, lang)
	if err != nil {
		return fmt.Errorf("translate answer: %w", err)
	}
	resp.Response = text

	suggestions := make([]string, len(resp.Suggestions))
	for i, sg := range resp.Suggestions {
		if suggestions[i], err = s.translator.Translate(ctx, sg, lang); err != nil {
			return fmt.Errorf("translate suggestion: %w", err)
		}
	}
	resp.Suggestions = suggestions
	return nil
}

func (s *ServiceImpl) History(ctx context.Context, sessionID string) ([]types.ChatMessage, error) {
	history, ok := s.sessions.History(sessionID)
	if !ok {
		s.logger.DebugContext(ctx, "Unknown chat session", slog.String("method", "History"), slog.String("session_id", sessionID))
		return nil, fmt.Errorf("session %q: %w", sessionID, types.ErrNotFound)
	}
	return history, nil
}

func (s *ServiceImpl) ClearHistory(ctx context.Context, sessionID string) error {
	if !s.sessions.Clear(sessionID) {
		return fmt.Errorf("session %q: %w", sessionID, types.ErrNotFound)
	}
	s.logger.InfoContext(ctx, "Chat session cleared", slog.String("method", "ClearHistory"), slog.String("session_id", sessionID))
	return nil
}

// Recommend scores the catalog against the preferences and returns the best locations without sequencing a route.
func (s *ServiceImpl) Recommend(ctx context.Context, req types.RecommendRequest) ([]types.ScoredLocation, error) {
	ctx, span := otel.Tracer("ChatbotService").Start(ctx, "Recommend")
	defer span.End()

	limit := req.Limit
	switch {
	case limit <= 0:
		limit = DefaultRecommendN
	case limit > MaxRecommendN:
		limit = MaxRecommendN
	}

	prefs, err := s.planner.Normalize(req.Preferences)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid preferences")
		return nil, err
	}
	recs, err := s.planner.Recommend(ctx, s.catalog, prefs, limit)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "recommend failed")
		return nil, fmt.Errorf("recommend: %w", err)
	}
	span.SetAttributes(attribute.Int("recommend.count", len(recs)))
	span.SetStatus(codes.Ok, "")
	return recs, nil
}
