package upload

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/hitoshi/meatsafe/internal/model"
	"github.com/hitoshi/meatsafe/internal/repository"
	"github.com/hitoshi/meatsafe/internal/security"
	"github.com/hitoshi/meatsafe/internal/storage"
)

// --- モック定義 ---

type mockUploadRepo struct {
	createFn       func(ctx context.Context, upload *model.ComplianceUpload) error
	findByIDFn     func(ctx context.Context, id string) (*model.ComplianceUpload, error)
	listByUserIDFn func(ctx context.Context, userID string) ([]*model.ComplianceUpload, error)
}

func (m *mockUploadRepo) Create(ctx context.Context, upload *model.ComplianceUpload) error {
	if m.createFn != nil {
		return m.createFn(ctx, upload)
	}
	return nil
}

func (m *mockUploadRepo) FindByID(ctx context.Context, id string) (*model.ComplianceUpload, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockUploadRepo) ListByUserID(ctx context.Context, userID string) ([]*model.ComplianceUpload, error) {
	if m.listByUserIDFn != nil {
		return m.listByUserIDFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockUploadRepo) CountByKind(_ context.Context) (map[model.UploadKind]int, error) {
	return nil, nil
}

type mockStorage struct {
	putFn    func(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	getFn    func(ctx context.Context, key string) (io.ReadCloser, error)
	deleteFn func(ctx context.Context, key string) error
}

func (m *mockStorage) Ensure(_ context.Context) error {
	return nil
}

func (m *mockStorage) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	if m.putFn != nil {
		return m.putFn(ctx, key, r, size, contentType)
	}
	return nil
}

func (m *mockStorage) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	return io.NopCloser(bytes.NewReader(nil)), nil
}

func (m *mockStorage) Delete(ctx context.Context, key string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, key)
	}
	return nil
}

var _ repository.UploadRepository = (*mockUploadRepo)(nil)
var _ storage.ObjectStorage = (*mockStorage)(nil)

func newTestService(repo *mockUploadRepo, store *mockStorage) *Service {
	return NewService(repo, store, security.NewInputSanitizer())
}

// --- テスト ---

func TestSaveFile_Image_DeterminesKindAndStores(t *testing.T) {
	var storedKey string
	var storedContentType string
	store := &mockStorage{
		putFn: func(_ context.Context, key string, _ io.Reader, _ int64, contentType string) error {
			storedKey = key
			storedContentType = contentType
			return nil
		},
	}
	var created *model.ComplianceUpload
	repo := &mockUploadRepo{
		createFn: func(_ context.Context, upload *model.ComplianceUpload) error {
			created = upload
			return nil
		},
	}
	svc := newTestService(repo, store)

	upload, err := svc.SaveFile(context.Background(), "user-1", "kitchen-photo.JPG", "冷蔵庫の温度記録", strings.NewReader("data"), 4)
	if err != nil {
		t.Fatalf("SaveFile() error = %v", err)
	}
	if upload.Kind != model.UploadKindImage {
		t.Errorf("kind = %q, want %q", upload.Kind, model.UploadKindImage)
	}
	if !strings.HasSuffix(storedKey, ".jpg") {
		t.Errorf("object key = %q, want .jpg suffix", storedKey)
	}
	if storedKey == "kitchen-photo.JPG" {
		t.Error("object key should not reuse the original filename")
	}
	if storedContentType != "image/jpeg" {
		t.Errorf("content type = %q, want %q", storedContentType, "image/jpeg")
	}
	if created == nil {
		t.Fatal("expected record to be created")
	}
	if created.Filename != "kitchen-photo.JPG" {
		t.Errorf("filename = %q, want original name preserved", created.Filename)
	}
}

func TestSaveFile_Video_DeterminesKind(t *testing.T) {
	svc := newTestService(&mockUploadRepo{}, &mockStorage{})

	upload, err := svc.SaveFile(context.Background(), "user-1", "cleaning.mp4", "", strings.NewReader("data"), 4)
	if err != nil {
		t.Fatalf("SaveFile() error = %v", err)
	}
	if upload.Kind != model.UploadKindVideo {
		t.Errorf("kind = %q, want %q", upload.Kind, model.UploadKindVideo)
	}
}

func TestSaveFile_DisallowedExtension_Rejected(t *testing.T) {
	svc := newTestService(&mockUploadRepo{}, &mockStorage{})

	exts := []string{"report.pdf", "notes.txt", "archive.zip", "noextension"}
	for _, filename := range exts {
		t.Run(filename, func(t *testing.T) {
			_, err := svc.SaveFile(context.Background(), "user-1", filename, "", strings.NewReader("data"), 4)
			var apiErr *model.APIError
			if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeFileTypeNotAllowed {
				t.Errorf("expected FILE_TYPE_NOT_ALLOWED, got %v", err)
			}
		})
	}
}

func TestSaveFile_RecordFailure_CleansUpObject(t *testing.T) {
	deletedKey := ""
	store := &mockStorage{
		deleteFn: func(_ context.Context, key string) error {
			deletedKey = key
			return nil
		},
	}
	repo := &mockUploadRepo{
		createFn: func(_ context.Context, _ *model.ComplianceUpload) error {
			return errors.New("db down")
		},
	}
	svc := newTestService(repo, store)

	_, err := svc.SaveFile(context.Background(), "user-1", "photo.png", "", strings.NewReader("data"), 4)
	if err == nil {
		t.Fatal("expected error when record creation fails")
	}
	if deletedKey == "" {
		t.Error("expected stored object to be cleaned up")
	}
}

func TestSaveFile_SanitizesDescription(t *testing.T) {
	var created *model.ComplianceUpload
	repo := &mockUploadRepo{
		createFn: func(_ context.Context, upload *model.ComplianceUpload) error {
			created = upload
			return nil
		},
	}
	svc := newTestService(repo, &mockStorage{})

	_, err := svc.SaveFile(context.Background(), "user-1", "photo.png", `<script>alert(1)</script>清掃記録`, strings.NewReader("data"), 4)
	if err != nil {
		t.Fatalf("SaveFile() error = %v", err)
	}
	if created.Description != "清掃記録" {
		t.Errorf("description = %q, want %q", created.Description, "清掃記録")
	}
}

func TestOpenFile_Owner_CanAccess(t *testing.T) {
	repo := &mockUploadRepo{
		findByIDFn: func(_ context.Context, id string) (*model.ComplianceUpload, error) {
			return &model.ComplianceUpload{ID: id, UserID: "owner-1", ObjectKey: "key.jpg"}, nil
		},
	}
	store := &mockStorage{
		getFn: func(_ context.Context, key string) (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader("bytes")), nil
		},
	}
	svc := newTestService(repo, store)

	upload, r, err := svc.OpenFile(context.Background(), "upload-1", "owner-1", false)
	if err != nil {
		t.Fatalf("OpenFile() error = %v", err)
	}
	defer r.Close()
	if upload.ID != "upload-1" {
		t.Errorf("upload ID = %q, want %q", upload.ID, "upload-1")
	}
}

func TestOpenFile_Admin_CanAccessOthersFile(t *testing.T) {
	repo := &mockUploadRepo{
		findByIDFn: func(_ context.Context, id string) (*model.ComplianceUpload, error) {
			return &model.ComplianceUpload{ID: id, UserID: "owner-1", ObjectKey: "key.jpg"}, nil
		},
	}
	svc := newTestService(repo, &mockStorage{})

	_, r, err := svc.OpenFile(context.Background(), "upload-1", "admin-1", true)
	if err != nil {
		t.Fatalf("OpenFile() as admin error = %v", err)
	}
	r.Close()
}

func TestOpenFile_OtherUser_Denied(t *testing.T) {
	repo := &mockUploadRepo{
		findByIDFn: func(_ context.Context, id string) (*model.ComplianceUpload, error) {
			return &model.ComplianceUpload{ID: id, UserID: "owner-1", ObjectKey: "key.jpg"}, nil
		},
	}
	svc := newTestService(repo, &mockStorage{})

	_, _, err := svc.OpenFile(context.Background(), "upload-1", "stranger", false)
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeUploadAccessDenied {
		t.Errorf("expected UPLOAD_ACCESS_DENIED, got %v", err)
	}
}

func TestOpenFile_NotFound(t *testing.T) {
	svc := newTestService(&mockUploadRepo{}, &mockStorage{})

	_, _, err := svc.OpenFile(context.Background(), "missing", "user-1", false)
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeUploadNotFound {
		t.Errorf("expected UPLOAD_NOT_FOUND, got %v", err)
	}
}

func TestListByUser_ReturnsUploads(t *testing.T) {
	repo := &mockUploadRepo{
		listByUserIDFn: func(_ context.Context, userID string) ([]*model.ComplianceUpload, error) {
			return []*model.ComplianceUpload{
				{ID: "upload-1", UserID: userID, Kind: model.UploadKindImage},
			}, nil
		},
	}
	svc := newTestService(repo, &mockStorage{})

	uploads, err := svc.ListByUser(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("ListByUser() error = %v", err)
	}
	if len(uploads) != 1 {
		t.Errorf("len(uploads) = %d, want 1", len(uploads))
	}
}
