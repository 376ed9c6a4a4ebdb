package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalStorage はローカルファイルシステムにオブジェクトを保存するバックエンド。
// 開発環境および小規模な単一ノード構成向け。
type LocalStorage struct {
	baseDir string
}

// NewLocalStorage はLocalStorageを生成する。
func NewLocalStorage(baseDir string) *LocalStorage {
	return &LocalStorage{baseDir: baseDir}
}

// Ensure は保存先ディレクトリを作成する。
func (s *LocalStorage) Ensure(_ context.Context) error {
	if err := os.MkdirAll(s.baseDir, 0o755); err != nil {
		return fmt.Errorf("failed to create upload directory: %w", err)
	}
	return nil
}

// safePath はキーをbaseDir配下のパスに解決する。
// パストラバーサルを防ぐため、baseDirの外を指すキーは拒否する。
func (s *LocalStorage) safePath(key string) (string, error) {
	cleaned := filepath.Clean(key)
	if cleaned == ".." || strings.HasPrefix(cleaned, "../") || filepath.IsAbs(cleaned) {
		return "", fmt.Errorf("invalid object key: %s", key)
	}
	return filepath.Join(s.baseDir, cleaned), nil
}

// Put はオブジェクトをファイルとして保存する。
func (s *LocalStorage) Put(_ context.Context, key string, r io.Reader, _ int64, _ string) error {
	path, err := s.safePath(key)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

// Get はオブジェクトのリーダーを開く。
func (s *LocalStorage) Get(_ context.Context, key string) (io.ReadCloser, error) {
	path, err := s.safePath(key)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return f, nil
}

// Delete はオブジェクトのファイルを削除する。
func (s *LocalStorage) Delete(_ context.Context, key string) error {
	path, err := s.safePath(key)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// compile-time interface check
var _ ObjectStorage = (*LocalStorage)(nil)
