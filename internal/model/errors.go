// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, upload, quiz, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeAuthRequired       = "AUTH_REQUIRED"
	ErrCodeSessionIDRequired  = "SESSION_ID_REQUIRED"
	ErrCodeExchangeFailed     = "EXCHANGE_FAILED"
	ErrCodeAuthUnavailable    = "AUTH_SERVICE_UNAVAILABLE"
	ErrCodeAdminRequired      = "ADMIN_REQUIRED"
	ErrCodeApprovalPending    = "APPROVAL_PENDING"
	ErrCodeInvalidStatus      = "INVALID_STATUS"
	ErrCodeUserNotFound       = "USER_NOT_FOUND"
	ErrCodeInvalidProfile     = "INVALID_PROFILE"
	ErrCodeFileTypeNotAllowed = "FILE_TYPE_NOT_ALLOWED"
	ErrCodeUploadNotFound     = "UPLOAD_NOT_FOUND"
	ErrCodeUploadAccessDenied = "UPLOAD_ACCESS_DENIED"
	ErrCodeInvalidAnswers     = "INVALID_ANSWERS"
)

// NewAuthRequiredError は未認証エラーを生成する。
func NewAuthRequiredError() *APIError {
	return &APIError{
		Code:     ErrCodeAuthRequired,
		Message:  "認証が必要です。",
		Category: "auth",
		Action:   "ログインしてから再度お試しください。",
	}
}

// NewSessionIDRequiredError はワンタイムトークン未指定エラーを生成する。
func NewSessionIDRequiredError() *APIError {
	return &APIError{
		Code:     ErrCodeSessionIDRequired,
		Message:  "X-Session-IDヘッダーが指定されていません。",
		Category: "auth",
		Action:   "ログインフローを最初からやり直してください。",
	}
}

// NewExchangeFailedError はワンタイムトークン交換失敗エラーを生成する。
// トークンが無効・期限切れ・使用済みの場合に使用する。
func NewExchangeFailedError() *APIError {
	return &APIError{
		Code:     ErrCodeExchangeFailed,
		Message:  "セッショントークンの交換に失敗しました。",
		Category: "auth",
		Action:   "トークンは一度しか使用できません。ログインし直してください。",
	}
}

// NewAuthUnavailableError は外部認証サービス呼び出し失敗エラーを生成する。
func NewAuthUnavailableError() *APIError {
	return &APIError{
		Code:     ErrCodeAuthUnavailable,
		Message:  "認証サービスに接続できませんでした。",
		Category: "system",
		Action:   "しばらく待ってから再度お試しください。",
	}
}

// NewAdminRequiredError は管理者権限エラーを生成する。
func NewAdminRequiredError() *APIError {
	return &APIError{
		Code:     ErrCodeAdminRequired,
		Message:  "管理者権限が必要です。",
		Category: "auth",
		Action:   "管理者アカウントでログインしてください。",
	}
}

// NewApprovalPendingError は未承認アカウントエラーを生成する。
func NewApprovalPendingError() *APIError {
	return &APIError{
		Code:     ErrCodeApprovalPending,
		Message:  "アカウントは管理者の承認待ちです。",
		Category: "auth",
		Action:   "承認されるまでお待ちください。",
	}
}

// NewInvalidStatusError は無効なステータス値エラーを生成する。
func NewInvalidStatusError(status string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidStatus,
		Message:  fmt.Sprintf("無効なステータスです: %s", status),
		Category: "validation",
		Action:   "ステータスには pending、approved、rejected のいずれかを指定してください。",
	}
}

// NewUserNotFoundError はユーザーが見つからない場合のエラーを生成する。
func NewUserNotFoundError(userID string) *APIError {
	return &APIError{
		Code:     ErrCodeUserNotFound,
		Message:  fmt.Sprintf("指定されたユーザーが見つかりません: %s", userID),
		Category: "auth",
		Action:   "ユーザーIDを確認してください。",
	}
}

// NewInvalidProfileError はプロフィール更新の検証エラーを生成する。
func NewInvalidProfileError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidProfile,
		Message:  fmt.Sprintf("プロフィールの内容が無効です: %s", reason),
		Category: "validation",
		Action:   "入力内容を確認してください。",
	}
}

// NewFileTypeNotAllowedError は許可されていないファイル種別のエラーを生成する。
func NewFileTypeNotAllowedError(ext string) *APIError {
	return &APIError{
		Code:     ErrCodeFileTypeNotAllowed,
		Message:  fmt.Sprintf("許可されていないファイル種別です: %s", ext),
		Category: "upload",
		Action:   "画像（jpg, jpeg, png, gif）または動画（mp4, mov, avi, wmv）をアップロードしてください。",
	}
}

// NewUploadNotFoundError はアップロードが見つからない場合のエラーを生成する。
func NewUploadNotFoundError(uploadID string) *APIError {
	return &APIError{
		Code:     ErrCodeUploadNotFound,
		Message:  fmt.Sprintf("指定されたファイルが見つかりません: %s", uploadID),
		Category: "upload",
		Action:   "ファイルIDを確認してください。",
	}
}

// NewUploadAccessDeniedError は他ユーザーのアップロードへのアクセス拒否エラーを生成する。
func NewUploadAccessDeniedError() *APIError {
	return &APIError{
		Code:     ErrCodeUploadAccessDenied,
		Message:  "このファイルへのアクセス権限がありません。",
		Category: "upload",
		Action:   "自分がアップロードしたファイルのみ閲覧できます。",
	}
}

// NewInvalidAnswersError はクイズ回答の検証エラーを生成する。
func NewInvalidAnswersError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidAnswers,
		Message:  "クイズの回答形式が無効です。",
		Category: "quiz",
		Action:   "すべての設問に回答してから送信してください。",
	}
}
