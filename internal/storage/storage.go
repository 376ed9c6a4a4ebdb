// Package storage はコンプライアンス証跡ファイルの保存先を抽象化する。
// ローカルファイルシステムとMinIO（S3互換）の2つのバックエンドを提供する。
package storage

import (
	"context"
	"io"
)

// ObjectStorage はオブジェクトストレージのバックエンド共通インターフェース。
type ObjectStorage interface {
	// Ensure は保存先（ディレクトリまたはバケット）の存在を保証する。
	Ensure(ctx context.Context) error
	// Put はオブジェクトを保存する。
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	// Get はオブジェクトのリーダーを開く。呼び出し側がCloseする。
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	// Delete はオブジェクトを削除する。
	Delete(ctx context.Context, key string) error
}
