// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"
	"time"

	"github.com/hitoshi/meatsafe/internal/model"
)

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.User, error)

	// FindByEmail は指定メールアドレスのユーザーを取得する。見つからない場合はnilを返す。
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// Create はユーザーを作成する。
	Create(ctx context.Context, user *model.User) error

	// UpdateRestaurantName はレストラン名を更新し、更新後のユーザーを返す。
	// ユーザーが見つからない場合はnilを返す。
	UpdateRestaurantName(ctx context.Context, id, restaurantName string) (*model.User, error)

	// UpdateStatus は承認状態と承認者情報を更新し、更新後のユーザーを返す。
	// 他のフィールドには触れない。ユーザーが見つからない場合はnilを返す。
	UpdateStatus(ctx context.Context, id string, status model.UserStatus, approvedBy string, approvedAt time.Time) (*model.User, error)

	// ListAll は全ユーザーを作成日時の降順で返す。
	ListAll(ctx context.Context) ([]*model.User, error)

	// CountByStatus は承認状態ごとのユーザー数を返す。
	CountByStatus(ctx context.Context) (map[model.UserStatus]int, error)
}

// SessionRepository はセッションデータの永続化インターフェース。
type SessionRepository interface {
	// Create はセッションを作成する。
	Create(ctx context.Context, session *model.Session) error
	// FindByID は指定IDのセッションを取得する。期限切れの場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Session, error)
	// DeleteByID は指定IDのセッションを削除する。
	DeleteByID(ctx context.Context, id string) error
	// DeleteByUserID は指定ユーザーの全セッションを削除する。
	DeleteByUserID(ctx context.Context, userID string) error
	// DeleteExpired は期限切れセッションを削除し、削除件数を返す。
	DeleteExpired(ctx context.Context) (int64, error)
}

// UploadRepository はコンプライアンス証跡の永続化インターフェース。
type UploadRepository interface {
	// Create はアップロードレコードを作成する。
	Create(ctx context.Context, upload *model.ComplianceUpload) error
	// FindByID は指定IDのアップロードを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.ComplianceUpload, error)
	// ListByUserID はユーザーのアップロード一覧をアップロード日時の降順で返す。
	ListByUserID(ctx context.Context, userID string) ([]*model.ComplianceUpload, error)
	// CountByKind はファイル種別ごとのアップロード数を返す。
	CountByKind(ctx context.Context) (map[model.UploadKind]int, error)
}

// QuizAttemptRepository はクイズ受験結果の永続化インターフェース。
type QuizAttemptRepository interface {
	// Create は受験結果を作成する。
	Create(ctx context.Context, attempt *model.QuizAttempt) error
	// ListByUserID はユーザーの受験履歴を受験日時の降順で返す。
	ListByUserID(ctx context.Context, userID string) ([]*model.QuizAttempt, error)
	// CountTotalAndPassed は全受験数と合格数を返す。
	CountTotalAndPassed(ctx context.Context) (total int, passed int, err error)
}
