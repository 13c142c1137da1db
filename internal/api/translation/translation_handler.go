package translation

import (
	"log/slog"
	"net/http"
	"strings"

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
	ctx, span := otel.Tracer("TranslationHandler").Start(r.Context(), name, trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String(route),
	))
	return span, r.WithContext(ctx)
}

// GetLanguages godoc
// @Summary      Supported translation languages
// @Tags         translation
// @Produce      json
// @Success      200 {array} types.Language
// @Router       /translate/languages [get]
func (h *Handler) GetLanguages(w http.ResponseWriter, r *http.Request) {
	span, r := startSpan(r, "GetLanguages", "/translate/languages")
	defer span.End()
	api.WriteJSONResponse(w, r, http.StatusOK, h.service.Languages())
}

// Translate godoc
// @Summary      Translate a text
// @Tags         translation
// @Accept       json
// @Produce      json
// @Param        request body types.TranslateRequest true "Text and target language"
// @Success      200 {object} types.TranslateResponse
// @Failure      400 {object} api.ErrorBody
// @Router       /translate [post]
func (h *Handler) Translate(w http.ResponseWriter, r *http.Request) {
	span, r := startSpan(r, "Translate", "/translate")
	defer span.End()
	l := h.logger.With(slog.String("handler", "Translate"))

	var req types.TranslateRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(r.Context(), "Failed to decode request body", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "text is required")
		return
	}
	if strings.TrimSpace(req.Target) == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "target is required")
		return
	}

	translated, err := h.service.Translate(r.Context(), req.Text, req.Target)
	if err != nil {
		status := api.StatusFromError(err)
		if status >= http.StatusInternalServerError {
			l.ErrorContext(r.Context(), "Failed to translate", slog.Any("error", err))
			api.ErrorResponse(w, r, status, "Failed to translate")
			return
		}
		api.ErrorResponse(w, r, status, err.Error())
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, types.TranslateResponse{
		Text:       req.Text,
		Translated: translated,
		Target:     strings.ToLower(strings.TrimSpace(req.Target)),
	})
}

// GetStats godoc
// @Summary      Translation cache statistics
// @Tags         translation
// @Produce      json
// @Success      200 {object} types.TranslationStats
// @Router       /translate/stats [get]
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	span, r := startSpan(r, "GetStats", "/translate/stats")
	defer span.End()
	api.WriteJSONResponse(w, r, http.StatusOK, h.service.Stats())
}

// ClearCache godoc
// @Summary      Empty the translation cache
// @Tags         admin
// @Security     BearerAuth
// @Success      204
// @Failure      401 {object} api.ErrorBody
// @Router       /translate/cache [delete]
func (h *Handler) ClearCache(w http.ResponseWriter, r *http.Request) {
	span, r := startSpan(r, "ClearCache", "/translate/cache")
	defer span.End()

	h.service.Clear()
	h.logger.InfoContext(r.Context(), "Translation cache cleared by admin", slog.String("handler", "ClearCache"))
	w.WriteHeader(http.StatusNoContent)
}
