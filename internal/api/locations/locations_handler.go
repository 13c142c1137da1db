package locations

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-heritage-routes/internal/api"
	"github.com/FACorreiaa/go-heritage-routes/internal/types"
)

type Handler struct {
	service Service
	logger  *slog.Logger
}

func NewHandler(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

func startSpan(r *http.Request, name, route string) (trace.Span, *http.Request) {
	ctx, span := otel.Tracer("LocationsHandler").Start(r.Context(), name, trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String(route),
	))
	return span, r.WithContext(ctx)
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, l *slog.Logger, msg string, err error) {
	status := api.StatusFromError(err)
	if status >= http.StatusInternalServerError {
		l.ErrorContext(r.Context(), msg, slog.Any("error", err))
		api.ErrorResponse(w, r, status, msg)
		return
	}
	l.WarnContext(r.Context(), msg, slog.Any("error", err))
	api.ErrorResponse(w, r, status, err.Error())
}

// GetLocations godoc
// @Summary      List heritage locations
// @Tags         locations
// @Produce      json
// @Param        lang query string false "Target language code"
// @Success      200 {array} types.Location
// @Router       /locations [get]
func (h *Handler) GetLocations(w http.ResponseWriter, r *http.Request) {
	span, r := startSpan(r, "GetLocations", "/locations")
	defer span.End()
	l := h.logger.With(slog.String("handler", "GetLocations"))

	locs, err := h.service.All(r.Context(), r.URL.Query().Get("lang"))
	if err != nil {
		h.fail(w, r, l, "Failed to fetch locations", err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, locs)
}

// GetLocation godoc
// @Summary      Get a location by id
// @Tags         locations
// @Produce      json
// @Param        id   path  string true  "Location id"
// @Param        lang query string false "Target language code"
// @Success      200 {object} types.Location
// @Failure      404 {object} api.ErrorBody
// @Router       /locations/{id} [get]
func (h *Handler) GetLocation(w http.ResponseWriter, r *http.Request) {
	span, r := startSpan(r, "GetLocation", "/locations/{id}")
	defer span.End()
	id := chi.URLParam(r, "id")
	l := h.logger.With(slog.String("handler", "GetLocation"), slog.String("id", id))

	loc, err := h.service.ByID(r.Context(), id, r.URL.Query().Get("lang"))
	if err != nil {
		h.fail(w, r, l, "Failed to fetch location", err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, loc)
}

// GetPlaceInfo godoc
// @Summary      Location with related and nearby sites
// @Tags         locations
// @Produce      json
// @Param        id   path  string true  "Location id"
// @Param        lang query string false "Target language code"
// @Success      200 {object} types.PlaceInfo
// @Failure      404 {object} api.ErrorBody
// @Router       /locations/{id}/info [get]
func (h *Handler) GetPlaceInfo(w http.ResponseWriter, r *http.Request) {
	span, r := startSpan(r, "GetPlaceInfo", "/locations/{id}/info")
	defer span.End()
	id := chi.URLParam(r, "id")
	l := h.logger.With(slog.String("handler", "GetPlaceInfo"), slog.String("id", id))

	info, err := h.service.PlaceInfo(r.Context(), id, r.URL.Query().Get("lang"))
	if err != nil {
		h.fail(w, r, l, "Failed to fetch place information", err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, info)
}

// GetRelated godoc
// @Summary      Locations related by theme or dynasty
// @Tags         locations
// @Produce      json
// @Param        id    path  string true  "Location id"
// @Param        limit query int    false "Maximum results (default 5)"
// @Success      200 {array} types.RelatedLocation
// @Router       /locations/{id}/related [get]
func (h *Handler) GetRelated(w http.ResponseWriter, r *http.Request) {
	span, r := startSpan(r, "GetRelated", "/locations/{id}/related")
	defer span.End()
	id := chi.URLParam(r, "id")
	l := h.logger.With(slog.String("handler", "GetRelated"), slog.String("id", id))

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			l.WarnContext(r.Context(), "Invalid limit", slog.String("limit", raw))
			api.ErrorResponse(w, r, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	related, err := h.service.Related(r.Context(), id, limit)
	if err != nil {
		h.fail(w, r, l, "Failed to fetch related locations", err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, related)
}

// GetByCategory godoc
// @Summary      Locations in a category
// @Tags         locations
// @Produce      json
// @Param        category path string true "Category, e.g. historical"
// @Success      200 {array} types.Location
// @Router       /locations/category/{category} [get]
func (h *Handler) GetByCategory(w http.ResponseWriter, r *http.Request) {
	span, r := startSpan(r, "GetByCategory", "/locations/category/{category}")
	defer span.End()
	l := h.logger.With(slog.String("handler", "GetByCategory"))

	locs, err := h.service.ByCategory(r.Context(), chi.URLParam(r, "category"), r.URL.Query().Get("lang"))
	if err != nil {
		h.fail(w, r, l, "Failed to fetch locations by category", err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, locs)
}

// GetByPeriod godoc
// @Summary      Locations whose period contains the given text
// @Tags         locations
// @Produce      json
// @Param        period path string true "Period fragment, e.g. 16th"
// @Success      200 {array} types.Location
// @Router       /locations/period/{period} [get]
func (h *Handler) GetByPeriod(w http.ResponseWriter, r *http.Request) {
	span, r := startSpan(r, "GetByPeriod", "/locations/period/{period}")
	defer span.End()
	l := h.logger.With(slog.String("handler", "GetByPeriod"))

	locs, err := h.service.ByPeriod(r.Context(), chi.URLParam(r, "period"), r.URL.Query().Get("lang"))
	if err != nil {
		h.fail(w, r, l, "Failed to fetch locations by period", err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, locs)
}

// GetByDynasty godoc
// @Summary      Locations built under a dynasty
// @Tags         locations
// @Produce      json
// @Param        dynasty path string true "Dynasty fragment, e.g. Mughal"
// @Success      200 {array} types.Location
// @Router       /locations/dynasty/{dynasty} [get]
func (h *Handler) GetByDynasty(w http.ResponseWriter, r *http.Request) {
	span, r := startSpan(r, "GetByDynasty", "/locations/dynasty/{dynasty}")
	defer span.End()
	l := h.logger.With(slog.String("handler", "GetByDynasty"))

	locs, err := h.service.ByDynasty(r.Context(), chi.URLParam(r, "dynasty"), r.URL.Query().Get("lang"))
	if err != nil {
		h.fail(w, r, l, "Failed to fetch locations by dynasty", err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, locs)
}

// Search godoc
// @Summary      Free text search over the catalog
// @Tags         locations
// @Produce      json
// @Param        q query string true "Search text"
// @Success      200 {array} types.Location
// @Failure      400 {object} api.ErrorBody
// @Router       /locations/search [get]
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	span, r := startSpan(r, "Search", "/locations/search")
	defer span.End()
	l := h.logger.With(slog.String("handler", "Search"))

	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		l.WarnContext(r.Context(), "Empty search query")
		api.ErrorResponse(w, r, http.StatusBadRequest, "No search query provided")
		return
	}
	locs, err := h.service.Search(r.Context(), q, r.URL.Query().Get("lang"))
	if err != nil {
		h.fail(w, r, l, "Search operation failed", err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, locs)
}

// AdvancedSearch godoc
// @Summary      Combined search by text, category, period, dynasty and tags
// @Tags         locations
// @Accept       json
// @Produce      json
// @Param        query body types.LocationQuery true "Search criteria"
// @Success      200 {array} types.Location
// @Failure      400 {object} api.ErrorBody
// @Router       /locations/search [post]
func (h *Handler) AdvancedSearch(w http.ResponseWriter, r *http.Request) {
	span, r := startSpan(r, "AdvancedSearch", "/locations/search")
	defer span.End()
	l := h.logger.With(slog.String("handler", "AdvancedSearch"))

	var q types.LocationQuery
	if err := api.DecodeJSONBody(w, r, &q); err != nil {
		l.WarnContext(r.Context(), "Failed to decode request body", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(q.Query) == "" && q.Category == "" && q.Period == "" && q.Dynasty == "" && len(q.Tags) == 0 {
		api.ErrorResponse(w, r, http.StatusBadRequest, "No search criteria provided")
		return
	}

	locs, err := h.service.AdvancedSearch(r.Context(), q, r.URL.Query().Get("lang"))
	if err != nil {
		h.fail(w, r, l, "Advanced search operation failed", err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, locs)
}

// Nearby godoc
// @Summary      Locations within a radius of a point
// @Tags         locations
// @Produce      json
// @Param        lat    query number true  "Latitude"
// @Param        lng    query number true  "Longitude"
// @Param        radius query number false "Radius in km (default 100)"
// @Success      200 {array} types.NearbyLocation
// @Failure      400 {object} api.ErrorBody
// @Router       /locations/nearby [get]
func (h *Handler) Nearby(w http.ResponseWriter, r *http.Request) {
	span, r := startSpan(r, "Nearby", "/locations/nearby")
	defer span.End()
	l := h.logger.With(slog.String("handler", "Nearby"))

	query := r.URL.Query()
	lat, errLat := strconv.ParseFloat(query.Get("lat"), 64)
	lng, errLng := strconv.ParseFloat(query.Get("lng"), 64)
	if err := errors.Join(errLat, errLng); err != nil {
		l.WarnContext(r.Context(), "Invalid coordinates", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, "lat and lng must be numbers")
		return
	}
	radius := DefaultNearbyRadiusKm
	if raw := query.Get("radius"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			api.ErrorResponse(w, r, http.StatusBadRequest, "radius must be a number")
			return
		}
		radius = v
	}

	nearby, err := h.service.Nearby(r.Context(), types.Coordinate{Lat: lat, Lng: lng}, radius)
	if err != nil {
		h.fail(w, r, l, "Failed to fetch nearby locations", err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, nearby)
}

// GetThemes godoc
// @Summary      Distinct location tags
// @Tags         catalog
// @Produce      json
// @Success      200 {array} string
// @Router       /themes [get]
func (h *Handler) GetThemes(w http.ResponseWriter, r *http.Request) {
	span, r := startSpan(r, "GetThemes", "/themes")
	defer span.End()
	l := h.logger.With(slog.String("handler", "GetThemes"))

	themes, err := h.service.Themes(r.Context())
	if err != nil {
		h.fail(w, r, l, "Failed to fetch themes", err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, themes)
}

// GetDynasties godoc
// @Summary      Distinct dynasties
// @Tags         catalog
// @Produce      json
// @Success      200 {array} string
// @Router       /dynasties [get]
func (h *Handler) GetDynasties(w http.ResponseWriter, r *http.Request) {
	span, r := startSpan(r, "GetDynasties", "/dynasties")
	defer span.End()
	l := h.logger.With(slog.String("handler", "GetDynasties"))

	dynasties, err := h.service.Dynasties(r.Context())
	if err != nil {
		h.fail(w, r, l, "Failed to fetch dynasties", err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, dynasties)
}

// GetStatistics godoc
// @Summary      Catalog statistics
// @Tags         catalog
// @Produce      json
// @Success      200 {object} types.CatalogStatistics
// @Router       /statistics [get]
func (h *Handler) GetStatistics(w http.ResponseWriter, r *http.Request) {
	span, r := startSpan(r, "GetStatistics", "/statistics")
	defer span.End()
	l := h.logger.With(slog.String("handler", "GetStatistics"))

	stats, err := h.service.Statistics(r.Context())
	if err != nil {
		h.fail(w, r, l, "Failed to fetch statistics", err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, stats)
}

// Reindex godoc
// @Summary      Rebuild the geo index and drop cached catalog reads
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} map[string]int
// @Failure      401 {object} api.ErrorBody
// @Failure      403 {object} api.ErrorBody
// @Router       /admin/catalog/reindex [post]
func (h *Handler) Reindex(w http.ResponseWriter, r *http.Request) {
	span, r := startSpan(r, "Reindex", "/admin/catalog/reindex")
	defer span.End()
	l := h.logger.With(slog.String("handler", "Reindex"))

	n, err := h.service.Reindex(r.Context())
	if err != nil {
		h.fail(w, r, l, "Failed to reindex catalog", err)
		return
	}
	l.InfoContext(r.Context(), "Catalog reindexed", slog.Int("locations", n))
	api.WriteJSONResponse(w, r, http.StatusOK, map[string]int{"indexed": n})
}
