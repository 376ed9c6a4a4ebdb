package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/hitoshi/meatsafe/internal/middleware"
	"github.com/hitoshi/meatsafe/internal/model"
	"github.com/hitoshi/meatsafe/internal/quiz"
)

// QuizServiceInterface はクイズハンドラーが必要とするサービスインターフェース。
type QuizServiceInterface interface {
	Questions() []quiz.QuestionView
	Submit(ctx context.Context, userID string, answers []model.QuizAnswer) (*model.QuizAttempt, error)
	ListAttempts(ctx context.Context, userID string) ([]*model.QuizAttempt, error)
}

// QuizMetrics はクイズハンドラーが記録するメトリクスのインターフェース。
type QuizMetrics interface {
	RecordQuizSubmission(passed bool)
}

// QuizHandler は食肉衛生クイズのHTTPハンドラー。
type QuizHandler struct {
	service QuizServiceInterface
	metrics QuizMetrics
}

// NewQuizHandler はQuizHandlerを生成する。
func NewQuizHandler(service QuizServiceInterface, metrics QuizMetrics) *QuizHandler {
	return &QuizHandler{
		service: service,
		metrics: metrics,
	}
}

// Questions は全設問を正解を除いた形で返す。
// GET /api/quiz/questions
func (h *QuizHandler) Questions(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.service.Questions())
}

// submitQuizRequest はクイズ提出リクエストのボディ。
type submitQuizRequest struct {
	Answers []model.QuizAnswer `json:"answers"`
}

// Submit は回答を採点し、受験結果を返す。
// POST /api/quiz/submit
func (h *QuizHandler) Submit(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.UserFromContext(r.Context())
	if err != nil {
		middleware.WriteErrorResponse(w, http.StatusUnauthorized, model.NewAuthRequiredError())
		return
	}

	var req submitQuizRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteErrorResponse(w, http.StatusBadRequest, model.NewInvalidAnswersError())
		return
	}

	attempt, err := h.service.Submit(r.Context(), user.ID, req.Answers)
	if err != nil {
		var apiErr *model.APIError
		if errors.As(err, &apiErr) {
			middleware.WriteErrorResponse(w, http.StatusBadRequest, apiErr)
			return
		}
		slog.Error("failed to submit quiz", slog.String("error", err.Error()))
		middleware.WriteInternalServerError(w)
		return
	}

	h.metrics.RecordQuizSubmission(attempt.Passed)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(toQuizAttemptResponse(attempt))
}

// Attempts は現在のユーザーの受験履歴を返す。
// GET /api/quiz/attempts
func (h *QuizHandler) Attempts(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.UserFromContext(r.Context())
	if err != nil {
		middleware.WriteErrorResponse(w, http.StatusUnauthorized, model.NewAuthRequiredError())
		return
	}

	attempts, err := h.service.ListAttempts(r.Context(), user.ID)
	if err != nil {
		slog.Error("failed to list quiz attempts", slog.String("error", err.Error()))
		middleware.WriteInternalServerError(w)
		return
	}

	responses := make([]quizAttemptResponse, 0, len(attempts))
	for _, a := range attempts {
		responses = append(responses, toQuizAttemptResponse(a))
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(responses)
}
