package chatbot

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
	ctx, span := otel.Tracer("ChatbotHandler").Start(r.Context(), name, trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String(route),
	))
	return span, r.WithContext(ctx)
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, l *slog.Logger, msg string, err error) {
	status := api.StatusFromError(err)
	if errors.Is(err, ErrEmptyMessage) {
		status = http.StatusBadRequest
	}
	if status >= http.StatusInternalServerError {
		l.ErrorContext(r.Context(), msg, slog.Any("error", err))
		api.ErrorResponse(w, r, status, msg)
		return
	}
	l.WarnContext(r.Context(), msg, slog.Any("error", err))
	api.ErrorResponse(w, r, status, err.Error())
}

// Chat godoc
// @Summary      Ask the heritage assistant
// @Description  Answers from the FAQ, intent rules, the catalog or a fallback, and keeps the session history.
// @Tags         chat
// @Accept       json
// @Produce      json
// @Param        request body types.ChatRequest true "Question"
// @Success      200 {object} types.ChatResponse
// @Failure      400 {object} api.ErrorBody
// @Router       /chat [post]
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	span, r := startSpan(r, "Chat", "/chat")
	defer span.End()
	l := h.logger.With(slog.String("handler", "Chat"))

	var req types.ChatRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(r.Context(), "Failed to decode request body", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.service.Ask(r.Context(), req)
	if err != nil {
		h.fail(w, r, l, "Failed to answer question", err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, resp)
}

// Recommend godoc
// @Summary      Recommend locations for a set of preferences
// @Tags         chat
// @Accept       json
// @Produce      json
// @Param        request body types.RecommendRequest true "Preferences and limit"
// @Success      200 {array} types.ScoredLocation
// @Failure      400 {object} api.ErrorBody
// @Failure      422 {object} api.ErrorBody
// @Router       /chat/recommend [post]
func (h *Handler) Recommend(w http.ResponseWriter, r *http.Request) {
	span, r := startSpan(r, "Recommend", "/chat/recommend")
	defer span.End()
	l := h.logger.With(slog.String("handler", "Recommend"))

	var req types.RecommendRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(r.Context(), "Failed to decode request body", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	recs, err := h.service.Recommend(r.Context(), req)
	if err != nil {
		h.fail(w, r, l, "Failed to recommend locations", err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, recs)
}

// GetHistory godoc
// @Summary      Conversation history of a chat session
// @Tags         chat
// @Produce      json
// @Param        sessionID path string true "Session id"
// @Success      200 {array} types.ChatMessage
// @Failure      404 {object} api.ErrorBody
// @Router       /chat/history/{sessionID} [get]
func (h *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	span, r := startSpan(r, "GetHistory", "/chat/history/{sessionID}")
	defer span.End()
	l := h.logger.With(slog.String("handler", "GetHistory"))

	history, err := h.service.History(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		h.fail(w, r, l, "Failed to fetch chat history", err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, history)
}

// ClearHistory godoc
// @Summary      Delete a chat session
// @Tags         chat
// @Param        sessionID path string true "Session id"
// @Success      204
// @Failure      404 {object} api.ErrorBody
// @Router       /chat/history/{sessionID} [delete]
func (h *Handler) ClearHistory(w http.ResponseWriter, r *http.Request) {
	span, r := startSpan(r, "ClearHistory", "/chat/history/{sessionID}")
	defer span.End()
	l := h.logger.With(slog.String("handler", "ClearHistory"))

	if err := h.service.ClearHistory(r.Context(), chi.URLParam(r, "sessionID")); err != nil {
		h.fail(w, r, l, "Failed to clear chat history", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
