package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/meatsafe/internal/analytics"
	"github.com/hitoshi/meatsafe/internal/middleware"
	"github.com/hitoshi/meatsafe/internal/model"
)

// AdminServiceInterface は管理者ハンドラーが必要とするサービスインターフェース。
type AdminServiceInterface interface {
	ListUsers(ctx context.Context) ([]*model.User, error)
	SetStatus(ctx context.Context, userID string, status model.UserStatus, adminID string) (*model.User, error)
}

// AnalyticsServiceInterface は集計ハンドラーが必要とするサービスインターフェース。
type AnalyticsServiceInterface interface {
	Summarize(ctx context.Context) (*analytics.Summary, error)
}

// AdminMetrics は管理者ハンドラーが記録するメトリクスのインターフェース。
type AdminMetrics interface {
	RecordStatusTransition(status string)
}

// AdminHandler は管理者向けAPIのHTTPハンドラー。
type AdminHandler struct {
	users     AdminServiceInterface
	analytics AnalyticsServiceInterface
	metrics   AdminMetrics
}

// NewAdminHandler はAdminHandlerを生成する。
func NewAdminHandler(users AdminServiceInterface, analyticsService AnalyticsServiceInterface, metrics AdminMetrics) *AdminHandler {
	return &AdminHandler{
		users:     users,
		analytics: analyticsService,
		metrics:   metrics,
	}
}

// ListUsers は全ユーザーの一覧を返す。
// GET /api/admin/users
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.ListUsers(r.Context())
	if err != nil {
		slog.Error("failed to list users", slog.String("error", err.Error()))
		middleware.WriteInternalServerError(w)
		return
	}

	responses := make([]userResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, toUserResponse(u))
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(responses)
}

// updateStatusRequest はステータス変更リクエストのボディ。
// approved_byなどの監査項目はリクエストから受け取らず、
// サーバー側で操作した管理者のIDを記録する。
type updateStatusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus はユーザーの承認ステータスを変更する。
// PUT /api/admin/users/{id}
func (h *AdminHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	admin, err := middleware.UserFromContext(r.Context())
	if err != nil {
		middleware.WriteErrorResponse(w, http.StatusUnauthorized, model.NewAuthRequiredError())
		return
	}

	targetID := chi.URLParam(r, "id")

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteErrorResponse(w, http.StatusBadRequest, model.NewInvalidStatusError(""))
		return
	}

	updated, err := h.users.SetStatus(r.Context(), targetID, model.UserStatus(req.Status), admin.ID)
	if err != nil {
		var apiErr *model.APIError
		if errors.As(err, &apiErr) {
			status := http.StatusBadRequest
			if apiErr.Code == model.ErrCodeUserNotFound {
				status = http.StatusNotFound
			}
			middleware.WriteErrorResponse(w, status, apiErr)
			return
		}
		slog.Error("failed to update user status", slog.String("error", err.Error()))
		middleware.WriteInternalServerError(w)
		return
	}

	h.metrics.RecordStatusTransition(req.Status)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toUserResponse(updated))
}

// Analytics は管理者ダッシュボード向けの集計を返す。
// GET /api/admin/analytics
func (h *AdminHandler) Analytics(w http.ResponseWriter, r *http.Request) {
	summary, err := h.analytics.Summarize(r.Context())
	if err != nil {
		slog.Error("failed to summarize analytics", slog.String("error", err.Error()))
		middleware.WriteInternalServerError(w)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(summary)
}
