package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/meatsafe/internal/middleware"
	"github.com/hitoshi/meatsafe/internal/model"
)

// maxUploadSize はmultipartフォームのメモリ上限（32MB）。
const maxUploadSize = 32 << 20

// UploadServiceInterface はアップロードハンドラーが必要とするサービスインターフェース。
type UploadServiceInterface interface {
	SaveFile(ctx context.Context, userID, filename, description string, r io.Reader, size int64) (*model.ComplianceUpload, error)
	ListByUser(ctx context.Context, userID string) ([]*model.ComplianceUpload, error)
	OpenFile(ctx context.Context, uploadID, requesterID string, requesterIsAdmin bool) (*model.ComplianceUpload, io.ReadCloser, error)
}

// UploadMetrics はアップロードハンドラーが記録するメトリクスのインターフェース。
type UploadMetrics interface {
	RecordUpload(kind string)
}

// UploadHandler はコンプライアンス証跡アップロードのHTTPハンドラー。
type UploadHandler struct {
	service    UploadServiceInterface
	metrics    UploadMetrics
	adminEmail string
}

// NewUploadHandler はUploadHandlerを生成する。
func NewUploadHandler(service UploadServiceInterface, metrics UploadMetrics, adminEmail string) *UploadHandler {
	return &UploadHandler{
		service:    service,
		metrics:    metrics,
		adminEmail: adminEmail,
	}
}

// Upload はmultipart/form-dataでファイルを受け取り保存する。
// フォームフィールド: file（必須）、description（任意）
// POST /api/compliance/upload
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.UserFromContext(r.Context())
	if err != nil {
		middleware.WriteErrorResponse(w, http.StatusUnauthorized, model.NewAuthRequiredError())
		return
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		middleware.WriteErrorResponse(w, http.StatusBadRequest, &model.APIError{
			Code:     "INVALID_MULTIPART",
			Message:  "リクエストの形式が無効です。",
			Category: "upload",
			Action:   "multipart/form-data形式でファイルを送信してください。",
		})
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		middleware.WriteErrorResponse(w, http.StatusBadRequest, &model.APIError{
			Code:     "FILE_REQUIRED",
			Message:  "ファイルが指定されていません。",
			Category: "upload",
			Action:   "fileフィールドにファイルを添付してください。",
		})
		return
	}
	defer file.Close()

	description := r.FormValue("description")

	upload, err := h.service.SaveFile(r.Context(), user.ID, header.Filename, description, file, header.Size)
	if err != nil {
		var apiErr *model.APIError
		if errors.As(err, &apiErr) {
			middleware.WriteErrorResponse(w, http.StatusBadRequest, apiErr)
			return
		}
		slog.Error("failed to save upload", slog.String("error", err.Error()))
		middleware.WriteInternalServerError(w)
		return
	}

	h.metrics.RecordUpload(string(upload.Kind))

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(toUploadResponse(upload))
}

// ListUploads は現在のユーザーのアップロード一覧を返す。
// GET /api/compliance/uploads
func (h *UploadHandler) ListUploads(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.UserFromContext(r.Context())
	if err != nil {
		middleware.WriteErrorResponse(w, http.StatusUnauthorized, model.NewAuthRequiredError())
		return
	}

	uploads, err := h.service.ListByUser(r.Context(), user.ID)
	if err != nil {
		slog.Error("failed to list uploads", slog.String("error", err.Error()))
		middleware.WriteInternalServerError(w)
		return
	}

	responses := make([]uploadResponse, 0, len(uploads))
	for _, u := range uploads {
		responses = append(responses, toUploadResponse(u))
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(responses)
}

// ServeFile はアップロードされたファイルの内容を返す。
// 所有者本人または管理者のみアクセス可能。
// GET /api/compliance/file/{id}
func (h *UploadHandler) ServeFile(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.UserFromContext(r.Context())
	if err != nil {
		middleware.WriteErrorResponse(w, http.StatusUnauthorized, model.NewAuthRequiredError())
		return
	}

	uploadID := chi.URLParam(r, "id")
	isAdmin := user.Email == h.adminEmail

	upload, reader, err := h.service.OpenFile(r.Context(), uploadID, user.ID, isAdmin)
	if err != nil {
		var apiErr *model.APIError
		if errors.As(err, &apiErr) {
			status := http.StatusNotFound
			if apiErr.Code == model.ErrCodeUploadAccessDenied {
				status = http.StatusForbidden
			}
			middleware.WriteErrorResponse(w, status, apiErr)
			return
		}
		slog.Error("failed to open upload", slog.String("error", err.Error()))
		middleware.WriteInternalServerError(w)
		return
	}
	defer reader.Close()

	w.Header().Set("Content-Disposition", `inline; filename="`+upload.Filename+`"`)
	if _, err := io.Copy(w, reader); err != nil {
		slog.Error("failed to stream upload", slog.String("error", err.Error()))
	}
}
