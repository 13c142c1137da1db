package translation

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/FACorreiaa/go-heritage-routes/app/observability/metrics"
	"github.com/FACorreiaa/go-heritage-routes/internal/types"
)

const defaultCacheTTL = 24 * time.Hour

// translatableFields are the keys TranslateFields sends to the backend. Other keys are copied as is.
var translatableFields = map[string]struct{}{
	"name": {}, "description": {}, "title": {}, "content": {}, "text": {}, "message": {}, "history": {},
}

var _ Service = (*ServiceImpl)(nil)

type Service interface {
	Translate(ctx context.Context, text, target string) (string, error)
	TranslateFields(ctx context.Context, fields map[string]string, target string) (map[string]string, error)
	TranslateLocation(ctx context.Context, loc types.Location, target string) (types.Location, error)
	Languages() []types.Language
	Stats() types.TranslationStats
	Clear()
}

// ServiceImpl caches backend translations keyed by target language and source text.
type ServiceImpl struct {
	logger   *slog.Logger
	backend  Backend
	cache    *cache.Cache
	inflight singleflight.Group

	hits     atomic.Uint64
	misses   atomic.Uint64
	failures atomic.Uint64
}

func NewServiceImpl(backend Backend, ttl time.Duration, logger *slog.Logger) *ServiceImpl {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &ServiceImpl{
		logger:  logger,
		backend: backend,
		cache:   cache.New(ttl, ttl/2),
	}
}

func normalizeTarget(target string) (string, error) {
	t := strings.ToLower(strings.TrimSpace(target))
	if t == "" {
		return SourceLanguage, nil
	}
	if !IsSupported(t) {
		return "", fmt.Errorf("%q: %w", target, types.ErrUnsupportedLanguage)
	}
	return t, nil
}

// Translate returns text in the target language. English targets and blank text pass through.
// Backend failures are logged and counted, and the original text is returned.
func (s *ServiceImpl) Translate(ctx context.Context, text, target string) (string, error) {
	lang, err := normalizeTarget(target)
	if err != nil {
		return "", err
	}
	if lang == SourceLanguage || strings.TrimSpace(text) == "" {
		return text, nil
	}

	m := metrics.Get()
	key := lang + ":" + text
	if v, ok := s.cache.Get(key); ok {
		s.hits.Add(1)
		m.TranslationCacheHits.Add(ctx, 1)
		return v.(string), nil
	}

	ctx, span := otel.Tracer("TranslationService").Start(ctx, "Translate", trace.WithAttributes(
		attribute.String("translation.target", lang),
	))
	defer span.End()

	s.misses.Add(1)
	m.TranslationCacheMisses.Add(ctx, 1)
	v, err, _ := s.inflight.Do(key, func() (interface{}, error) {
		translated, err := s.backend.Translate(ctx, text, lang)
		if err != nil {
			return nil, err
		}
		s.cache.SetDefault(key, translated)
		return translated, nil
	})
	if err != nil {
		s.failures.Add(1)
		m.TranslationFailuresTotal.Add(ctx, 1)
		span.RecordError(err)
		s.logger.WarnContext(ctx, "Translation failed, returning source text",
			slog.String("method", "Translate"),
			slog.String("target", lang),
			slog.Any("error", err))
		return text, nil
	}
	return v.(string), nil
}

// TranslateFields translates the well known text keys of fields concurrently.
func (s *ServiceImpl) TranslateFields(ctx context.Context, fields map[string]string, target string) (map[string]string, error) {
	if _, err := normalizeTarget(target); err != nil {
		return nil, err
	}

	out := make(map[string]string, len(fields))
	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	for k, v := range fields {
		if _, ok := translatableFields[strings.ToLower(k)]; !ok {
			mu.Lock()
			out[k] = v
			mu.Unlock()
			continue
		}
		g.Go(func() error {
			translated, err := s.Translate(gctx, v, target)
			if err != nil {
				return err
			}
			mu.Lock()
			out[k] = translated
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// TranslateLocation returns a copy of loc with its descriptive text translated. Ids, tags and coordinates are untouched.
func (s *ServiceImpl) TranslateLocation(ctx context.Context, loc types.Location, target string) (types.Location, error) {
	lang, err := normalizeTarget(target)
	if err != nil {
		return types.Location{}, err
	}
	if lang == SourceLanguage {
		return loc, nil
	}

	out := loc
	out.CulturalFacts = append([]string(nil), loc.CulturalFacts...)
	out.Legends = append([]types.Legend(nil), loc.Legends...)

	g, gctx := errgroup.WithContext(ctx)
	field := func(dst *string) {
		src := *dst
		g.Go(func() error {
			translated, err := s.Translate(gctx, src, lang)
			*dst = translated
			return err
		})
	}
	field(&out.Name)
	field(&out.Description)
	field(&out.History)
	for i := range out.CulturalFacts {
		field(&out.CulturalFacts[i])
	}
	for i := range out.Legends {
		field(&out.Legends[i].Title)
		field(&out.Legends[i].Description)
	}
	if err := g.Wait(); err != nil {
		return types.Location{}, fmt.Errorf("translate location %q: %w", loc.ID, err)
	}
	return out, nil
}

func (s *ServiceImpl) Languages() []types.Language {
	return Languages()
}

func (s *ServiceImpl) Stats() types.TranslationStats {
	return types.TranslationStats{
		Hits:      s.hits.Load(),
		Misses:    s.misses.Load(),
		Failures:  s.failures.Load(),
		CacheSize: s.cache.ItemCount(),
	}
}

// Clear empties the cache. Counters are kept.
func (s *ServiceImpl) Clear() {
	s.cache.Flush()
	s.logger.Info("Translation cache cleared")
}
