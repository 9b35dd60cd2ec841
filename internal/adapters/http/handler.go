package httpadapter

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/PabloGalante/psychologue-api/internal/app/conversation"
	"github.com/PabloGalante/psychologue-api/internal/app/emotion"
	"github.com/PabloGalante/psychologue-api/internal/app/exercises"
	"github.com/PabloGalante/psychologue-api/internal/app/progress"
	"github.com/PabloGalante/psychologue-api/internal/domain"
	"github.com/PabloGalante/psychologue-api/internal/observability"
)

const (
	msgNotFound       = "Endpoint non trouvé"
	msgInternal       = "Erreur interne du serveur"
	msgFallback       = "Service de génération indisponible"
	msgCleared        = "Conversation effacée"
	msgNothingToClear = "Aucune conversation trouvée"
	msgNoSession      = "Session non trouvée"
)

type Server struct {
	conv     *conversation.Service
	emotions *emotion.Classifier
	progress *progress.Service
}

func NewServer(conv *conversation.Service, emotions *emotion.Classifier, prog *progress.Service) http.Handler {
	s := &Server{
		conv:     conv,
		emotions: emotions,
		progress: prog,
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = handleError

	e.Use(withRequestID, withLogging, middleware.Recover(), withCORS())

	e.GET("/healthz", s.handleHealthz)

	api := e.Group("/api")
	api.POST("/chat", s.handleChat)
	api.GET("/clear/:sessionId", s.handleClear)
	api.POST("/analyze-emotion", s.handleAnalyzeEmotion)
	api.GET("/progress/:sessionId", s.handleProgress)
	api.GET("/exercises", s.handleExercises)

	return e
}

// ─────────────────────────────────────────────
// DTOs (request/response)
// ─────────────────────────────────────────────

type chatRequest struct {
	Prompt    string `json:"prompt"`
	SessionID string `json:"sessionId"`
}

type chatResponse struct {
	Response string `json:"response"`
	Retry    bool   `json:"retry,omitempty"`
	Timeout  bool   `json:"timeout,omitempty"`
	Error    string `json:"error,omitempty"`
	Fallback bool   `json:"fallback,omitempty"`
}

type clearResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type analyzeEmotionRequest struct {
	Text string `json:"text"`
}

type analyzeEmotionResponse struct {
	Emotion domain.Emotion `json:"emotion"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// ─────────────────────────────────────────────
// Concrete handlers
// ─────────────────────────────────────────────

func (s *Server) handleHealthz(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleChat(c echo.Context) error {
	var req chatRequest
	if err := json.NewDecoder(c.Request().Body).Decode(&req); err != nil {
		return badRequest(c, "invalid JSON body")
	}

	out, err := s.conv.Chat(c.Request().Context(), conversation.ChatInput{
		SessionID: domain.SessionID(req.SessionID),
		Prompt:    req.Prompt,
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return badRequest(c, "sessionId and prompt are required")
		}
		return err
	}

	return c.JSON(http.StatusOK, toChatResponse(out))
}

func (s *Server) handleClear(c echo.Context) error {
	id := domain.SessionID(c.Param("sessionId"))

	if s.conv.Clear(c.Request().Context(), id) {
		return c.JSON(http.StatusOK, clearResponse{Success: true, Message: msgCleared})
	}
	return c.JSON(http.StatusOK, clearResponse{Success: false, Message: msgNothingToClear})
}

func (s *Server) handleAnalyzeEmotion(c echo.Context) error {
	var req analyzeEmotionRequest
	if err := json.NewDecoder(c.Request().Body).Decode(&req); err != nil {
		return badRequest(c, "invalid JSON body")
	}

	e := s.emotions.Classify(c.Request().Context(), req.Text)
	return c.JSON(http.StatusOK, analyzeEmotionResponse{Emotion: e})
}

func (s *Server) handleProgress(c echo.Context) error {
	id := domain.SessionID(c.Param("sessionId"))

	p, err := s.progress.GetProgress(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return c.JSON(http.StatusNotFound, errorResponse{Error: msgNoSession})
		}
		return err
	}

	return c.JSON(http.StatusOK, p)
}

func (s *Server) handleExercises(c echo.Context) error {
	return c.JSON(http.StatusOK, exercises.List())
}

// ─────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────

func toChatResponse(out *conversation.ChatOutput) chatResponse {
	resp := chatResponse{Response: out.Response}
	switch out.Outcome {
	case conversation.OutcomeWarmingUp:
		resp.Retry = true
	case conversation.OutcomeTimedOut:
		resp.Timeout = true
	case conversation.OutcomeFallback:
		resp.Error = msgFallback
		resp.Fallback = true
	}
	return resp
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, errorResponse{Error: msg})
}

// handleError renders unmatched routes as 404 and anything unhandled as 500.
func handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		switch {
		case he.Code == http.StatusNotFound, he.Code == http.StatusMethodNotAllowed:
			_ = c.JSON(http.StatusNotFound, errorResponse{Error: msgNotFound})
			return
		case he.Code < http.StatusInternalServerError:
			_ = c.JSON(he.Code, errorResponse{Error: fmt.Sprint(he.Message)})
			return
		}
	}

	observability.LoggerFromContext(c.Request().Context()).Error("unhandled error", "error", err)
	_ = c.JSON(http.StatusInternalServerError, errorResponse{Error: msgInternal})
}
