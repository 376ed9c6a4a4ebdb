// Package upload はコンプライアンス証跡ファイルの保存と取得を提供する。
package upload

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hitoshi/meatsafe/internal/model"
	"github.com/hitoshi/meatsafe/internal/repository"
	"github.com/hitoshi/meatsafe/internal/security"
	"github.com/hitoshi/meatsafe/internal/storage"
)

// kindByExtension は許可拡張子からファイル種別へのマッピング。
// ここに無い拡張子のアップロードは拒否する。
var kindByExtension = map[string]model.UploadKind{
	".jpg":  model.UploadKindImage,
	".jpeg": model.UploadKindImage,
	".png":  model.UploadKindImage,
	".gif":  model.UploadKindImage,
	".mp4":  model.UploadKindVideo,
	".mov":  model.UploadKindVideo,
	".avi":  model.UploadKindVideo,
	".wmv":  model.UploadKindVideo,
}

// Service はアップロードに関するビジネスロジックを提供する。
type Service struct {
	uploadRepo repository.UploadRepository
	store      storage.ObjectStorage
	sanitizer  security.InputSanitizerService
}

// NewService はServiceを生成する。
func NewService(
	uploadRepo repository.UploadRepository,
	store storage.ObjectStorage,
	sanitizer security.InputSanitizerService,
) *Service {
	return &Service{
		uploadRepo: uploadRepo,
		store:      store,
		sanitizer:  sanitizer,
	}
}

// SaveFile はアップロードされたファイルを検証・保存し、レコードを作成する。
// 拡張子は許可リストで検証し、ファイル種別（画像・動画）を判定する。
// オブジェクトキーはUUIDで生成し、元のファイル名とは独立させる。
func (s *Service) SaveFile(ctx context.Context, userID, filename, description string, r io.Reader, size int64) (*model.ComplianceUpload, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	kind, ok := kindByExtension[ext]
	if !ok {
		return nil, model.NewFileTypeNotAllowedError(ext)
	}

	objectKey := uuid.New().String() + ext
	contentType := mime.TypeByExtension(ext)
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	if err := s.store.Put(ctx, objectKey, r, size, contentType); err != nil {
		return nil, fmt.Errorf("failed to store file: %w", err)
	}

	upload := &model.ComplianceUpload{
		ID:          uuid.New().String(),
		UserID:      userID,
		Filename:    filename,
		ObjectKey:   objectKey,
		Kind:        kind,
		Description: s.sanitizer.Sanitize(description),
		UploadedAt:  time.Now(),
	}

	if err := s.uploadRepo.Create(ctx, upload); err != nil {
		// レコード作成に失敗した場合は孤児オブジェクトを残さない
		if delErr := s.store.Delete(ctx, objectKey); delErr != nil {
			slog.Error("failed to clean up orphaned object",
				slog.String("object_key", objectKey),
				slog.String("error", delErr.Error()),
			)
		}
		return nil, fmt.Errorf("failed to save upload record: %w", err)
	}

	slog.Info("file uploaded",
		slog.String("upload_id", upload.ID),
		slog.String("user_id", userID),
		slog.String("kind", string(kind)),
	)
	return upload, nil
}

// ListByUser はユーザーのアップロード一覧を返す。
func (s *Service) ListByUser(ctx context.Context, userID string) ([]*model.ComplianceUpload, error) {
	uploads, err := s.uploadRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list uploads: %w", err)
	}
	return uploads, nil
}

// OpenFile はアップロードされたファイルのリーダーを開く。
// 所有者本人または管理者のみアクセス可能。
// 呼び出し側が返されたリーダーをCloseする。
func (s *Service) OpenFile(ctx context.Context, uploadID, requesterID string, requesterIsAdmin bool) (*model.ComplianceUpload, io.ReadCloser, error) {
	upload, err := s.uploadRepo.FindByID(ctx, uploadID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to find upload: %w", err)
	}
	if upload == nil {
		return nil, nil, model.NewUploadNotFoundError(uploadID)
	}

	if upload.UserID != requesterID && !requesterIsAdmin {
		return nil, nil, model.NewUploadAccessDeniedError()
	}

	r, err := s.store.Get(ctx, upload.ObjectKey)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open stored file: %w", err)
	}

	return upload, r, nil
}
