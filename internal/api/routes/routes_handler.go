package routes

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-heritage-routes/internal/api"
	"github.com/FACorreiaa/go-heritage-routes/internal/types"
)

// NoSuitableDetails is the details payload of a 422 response.
type NoSuitableDetails struct {
	Original types.UserPreferences `json:"original"`
	Relaxed  types.UserPreferences `json:"relaxed"`
}

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

// GetRoutes godoc
// @Summary      List predefined routes
// @Tags         routes
// @Produce      json
// @Success      200 {array} types.Route
// @Router       /routes [get]
func (h *Handler) GetRoutes(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("RoutesHandler").Start(r.Context(), "GetRoutes", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/routes"),
	))
	defer span.End()

	routes, err := h.service.All(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to fetch routes", slog.String("handler", "GetRoutes"), slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to fetch routes")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, routes)
}

// GetRoute godoc
// @Summary      Get a predefined route
// @Tags         routes
// @Produce      json
// @Param        id path string true "Route id"
// @Success      200 {object} types.Route
// @Failure      404 {object} api.ErrorBody
// @Router       /routes/{id} [get]
func (h *Handler) GetRoute(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("RoutesHandler").Start(r.Context(), "GetRoute", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/routes/{id}"),
	))
	defer span.End()

	route, err := h.service.ByID(ctx, chi.URLParam(r, "id"))
	if errors.Is(err, types.ErrNotFound) {
		api.ErrorResponse(w, r, http.StatusNotFound, "Route not found")
		return
	}
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to fetch route", slog.String("handler", "GetRoute"), slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to fetch route")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, route)
}

// GetRoutesByTheme godoc
// @Summary      Predefined routes whose id, name or description mention a theme
// @Tags         routes
// @Produce      json
// @Param        theme path string true "Theme, e.g. buddhist"
// @Success      200 {array} types.Route
// @Router       /routes/theme/{theme} [get]
func (h *Handler) GetRoutesByTheme(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("RoutesHandler").Start(r.Context(), "GetRoutesByTheme", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/routes/theme/{theme}"),
	))
	defer span.End()

	routes, err := h.service.ByTheme(ctx, chi.URLParam(r, "theme"))
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to fetch routes by theme", slog.String("handler", "GetRoutesByTheme"), slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to fetch routes by theme")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, routes)
}

// CreatePersonalizedRoute godoc
// @Summary      Build a personalized route
// @Description  Filters the catalog by the given preferences, relaxing period, dynasty and distance once
// @Description  when nothing matches, then scores and sequences the best locations.
// @Tags         routes
// @Accept       json
// @Produce      json
// @Param        preferences body types.PreferencesRequest true "Travel preferences"
// @Success      200 {object} types.Route
// @Failure      400 {object} api.ErrorBody
// @Failure      422 {object} api.ErrorBody{details=NoSuitableDetails}
// @Router       /routes/personalized [post]
func (h *Handler) CreatePersonalizedRoute(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("RoutesHandler").Start(r.Context(), "CreatePersonalizedRoute", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/routes/personalized"),
	))
	defer span.End()
	l := h.logger.With(slog.String("handler", "CreatePersonalizedRoute"))

	var req types.PreferencesRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Failed to decode request body", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	route, err := h.service.CreatePersonalized(ctx, req)
	if err != nil {
		var noSuitable *types.NoSuitableLocationsError
		status := api.StatusFromError(err)
		switch {
		case errors.As(err, &noSuitable):
			api.ErrorResponseWithDetails(w, r, status, noSuitable.Error(), NoSuitableDetails{
				Original: noSuitable.Original,
				Relaxed:  noSuitable.Relaxed,
			})
		case status == http.StatusInternalServerError:
			api.ErrorResponse(w, r, status, "Failed to build personalized route")
		default:
			api.ErrorResponse(w, r, status, err.Error())
		}
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, route)
}
