package translation

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/FACorreiaa/go-heritage-routes/internal/types"
)

type MockBackend struct {
	mock.Mock
}

func (m *MockBackend) Translate(ctx context.Context, text, target string) (string, error) {
	args := m.Called(ctx, text, target)
	return args.String(0), args.Error(1)
}

// upperBackend is a deterministic backend for concurrent tests.
type upperBackend struct {
	mu    sync.Mutex
	calls int
}

func (b *upperBackend) Translate(_ context.Context, text, target string) (string, error) {
	b.mu.Lock()
	b.calls++
	b.mu.Unlock()
	return target + ":" + strings.ToUpper(text), nil
}

func setupTranslationTest(backend Backend) *ServiceImpl {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return NewServiceImpl(backend, 0, logger)
}

func TestLanguages(t *testing.T) {
	langs := Languages()
	require.Len(t, langs, 10)
	assert.Equal(t, "en", langs[0].Code)
	assert.True(t, IsSupported("ta"))
	assert.False(t, IsSupported("fr"))

	langs[0].Code = "xx"
	assert.Equal(t, "en", Languages()[0].Code)
}

func TestTranslate(t *testing.T) {
	ctx := context.Background()

	t.Run("caches backend results", func(t *testing.T) {
		backend := new(MockBackend)
		backend.On("Translate", mock.Anything, "Temple", "hi").Return("मंदिर", nil).Once()
		svc := setupTranslationTest(backend)

		for range 3 {
			got, err := svc.Translate(ctx, "Temple", "HI")
			require.NoError(t, err)
			assert.Equal(t, "मंदिर", got)
		}
		backend.AssertExpectations(t)
		assert.Equal(t, types.TranslationStats{Hits: 2, Misses: 1, CacheSize: 1}, svc.Stats())
	})

	t.Run("english, empty target and blank text pass through", func(t *testing.T) {
		backend := new(MockBackend)
		svc := setupTranslationTest(backend)

		for _, target := range []string{"en", "", " EN "} {
			got, err := svc.Translate(ctx, "Temple", target)
			require.NoError(t, err)
			assert.Equal(t, "Temple", got)
		}
		got, err := svc.Translate(ctx, "  ", "hi")
		require.NoError(t, err)
		assert.Equal(t, "  ", got)
		backend.AssertNotCalled(t, "Translate", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unsupported language", func(t *testing.T) {
		svc := setupTranslationTest(new(MockBackend))
		_, err := svc.Translate(ctx, "Temple", "fr")
		assert.ErrorIs(t, err, types.ErrUnsupportedLanguage)
	})

	t.Run("backend failure returns the source text uncached", func(t *testing.T) {
		backend := new(MockBackend)
		backend.On("Translate", mock.Anything, "Fort", "ta").Return("", errors.New("quota exceeded"))
		svc := setupTranslationTest(backend)

		for range 2 {
			got, err := svc.Translate(ctx, "Fort", "ta")
			require.NoError(t, err)
			assert.Equal(t, "Fort", got)
		}
		backend.AssertNumberOfCalls(t, "Translate", 2)
		stats := svc.Stats()
		assert.Equal(t, uint64(2), stats.Failures)
		assert.Zero(t, stats.CacheSize)
	})

	t.Run("clear keeps counters", func(t *testing.T) {
		svc := setupTranslationTest(&upperBackend{})
		_, err := svc.Translate(ctx, "fort", "hi")
		require.NoError(t, err)
		svc.Clear()
		stats := svc.Stats()
		assert.Zero(t, stats.CacheSize)
		assert.Equal(t, uint64(1), stats.Misses)
	})
}

func TestTranslateFields(t *testing.T) {
	svc := setupTranslationTest(&upperBackend{})

	out, err := svc.TranslateFields(context.Background(), map[string]string{
		"name":        "hampi",
		"Description": "ruins",
		"id":          "hampi",
		"category":    "historical",
	}, "kn")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"name":        "kn:HAMPI",
		"Description": "kn:RUINS",
		"id":          "hampi",
		"category":    "historical",
	}, out)

	_, err = svc.TranslateFields(context.Background(), map[string]string{"name": "x"}, "zz")
	assert.ErrorIs(t, err, types.ErrUnsupportedLanguage)
}

func TestTranslateLocation(t *testing.T) {
	backend := &upperBackend{}
	svc := setupTranslationTest(backend)
	loc := types.Location{
		ID:            "hampi",
		Name:          "Hampi",
		Description:   "Ruins",
		Category:      "historical",
		CulturalFacts: []string{"stone chariot"},
		Legends:       []types.Legend{{Title: "Kishkindha", Description: "monkey kingdom"}},
		Tags:          []string{"Ruins"},
	}

	out, err := svc.TranslateLocation(context.Background(), loc, "hi")
	require.NoError(t, err)
	assert.Equal(t, "hi:HAMPI", out.Name)
	assert.Equal(t, "hi:RUINS", out.Description)
	assert.Equal(t, "", out.History)
	assert.Equal(t, []string{"hi:STONE CHARIOT"}, out.CulturalFacts)
	assert.Equal(t, "hi:KISHKINDHA", out.Legends[0].Title)
	assert.Equal(t, "hampi", out.ID)
	assert.Equal(t, "historical", out.Category)
	assert.Equal(t, []string{"Ruins"}, out.Tags)

	assert.Equal(t, "stone chariot", loc.CulturalFacts[0], "input must not be mutated")
	assert.Equal(t, "Kishkindha", loc.Legends[0].Title)

	same, err := svc.TranslateLocation(context.Background(), loc, "en")
	require.NoError(t, err)
	assert.Equal(t, loc, same)
}

type fakeGenerator struct {
	text   string
	err    error
	prompt string
	model  string
}

func (f *fakeGenerator) GenerateContent(_ context.Context, model string, contents []*genai.Content, _ *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.model = model
	f.prompt = contents[0].Parts[0].Text
	if f.err != nil {
		return nil, f.err
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: &genai.Content{Parts: []*genai.Part{{Text: f.text}}}}},
	}, nil
}

func TestGeminiBackend(t *testing.T) {
	ctx := context.Background()

	t.Run("prompt names the language", func(t *testing.T) {
		gen := &fakeGenerator{text: "  ஹம்பி \n"}
		got, err := newGeminiBackend(gen, "").Translate(ctx, "Hampi", "ta")
		require.NoError(t, err)
		assert.Equal(t, "ஹம்பி", got)
		assert.Equal(t, DefaultModel, gen.model)
		assert.Contains(t, gen.prompt, "to Tamil")
		assert.True(t, strings.HasSuffix(gen.prompt, "Hampi"))
	})

	t.Run("errors", func(t *testing.T) {
		_, err := newGeminiBackend(&fakeGenerator{err: errors.New("boom")}, "m").Translate(ctx, "x", "hi")
		assert.ErrorContains(t, err, "boom")

		_, err = newGeminiBackend(&fakeGenerator{text: " "}, "m").Translate(ctx, "x", "hi")
		assert.ErrorContains(t, err, "empty")

		_, err = newGeminiBackend(&fakeGenerator{}, "m").Translate(ctx, "x", "fr")
		assert.ErrorIs(t, err, types.ErrUnsupportedLanguage)
	})

	t.Run("missing key", func(t *testing.T) {
		t.Setenv(geminiAPIKeyEnvVar, "")
		_, err := NewGeminiBackend(ctx, "")
		assert.ErrorIs(t, err, ErrMissingAPIKey)
	})
}

func TestHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	svc := setupTranslationTest(&upperBackend{})
	h := NewHandler(svc, logger)
	r := chi.NewRouter()
	r.Get("/translate/languages", h.GetLanguages)
	r.Post("/translate", h.Translate)
	r.Get("/translate/stats", h.GetStats)
	r.Delete("/translate/cache", h.ClearCache)

	do := func(method, target, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, target, strings.NewReader(body))
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec
	}

	t.Run("languages", func(t *testing.T) {
		rec := do(http.MethodGet, "/translate/languages", "")
		require.Equal(t, http.StatusOK, rec.Code)
		var langs []types.Language
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &langs))
		assert.Len(t, langs, 10)
	})

	t.Run("translate", func(t *testing.T) {
		rec := do(http.MethodPost, "/translate", `{"text":"fort","target":"Hi"}`)
		require.Equal(t, http.StatusOK, rec.Code)
		var resp types.TranslateResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, types.TranslateResponse{Text: "fort", Translated: "hi:FORT", Target: "hi"}, resp)
	})

	t.Run("bad requests", func(t *testing.T) {
		assert.Equal(t, http.StatusBadRequest, do(http.MethodPost, "/translate", `{"text":"","target":"hi"}`).Code)
		assert.Equal(t, http.StatusBadRequest, do(http.MethodPost, "/translate", `{"text":"fort"}`).Code)
		assert.Equal(t, http.StatusBadRequest, do(http.MethodPost, "/translate", `{"text":"fort","target":"fr"}`).Code)
	})

	t.Run("stats and clear", func(t *testing.T) {
		rec := do(http.MethodGet, "/translate/stats", "")
		require.Equal(t, http.StatusOK, rec.Code)
		var stats types.TranslationStats
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
		assert.Equal(t, 1, stats.CacheSize)

		assert.Equal(t, http.StatusNoContent, do(http.MethodDelete, "/translate/cache", "").Code)
		assert.Zero(t, svc.Stats().CacheSize)
	})
}
