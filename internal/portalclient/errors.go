// Package portalclient はポータルAPIのGoクライアントを提供する。
// セッションの確立・更新・破棄と、ビュー保護のためのアクセス判定を含む。
package portalclient

import "fmt"

// ErrorKind は認証エラーの分類を表す。
type ErrorKind string

const (
	// ErrNoSession はセッションCookieが無い、または期限切れの状態。
	// 想定内のログアウト状態であり、障害ではない。
	ErrNoSession ErrorKind = "no_session"
	// ErrExchangeFailed はワンタイムトークンが無効・期限切れ・使用済みの状態。
	ErrExchangeFailed ErrorKind = "exchange_failed"
	// ErrForbidden は管理者専用または承認必須の操作をサーバーが拒否した状態。
	ErrForbidden ErrorKind = "forbidden"
	// ErrNetworkFailure は一時的な通信障害。
	ErrNetworkFailure ErrorKind = "network_failure"
)

// AuthError は認証・認可の失敗を分類付きで表す。
type AuthError struct {
	Kind ErrorKind
	Err  error
}

// Error はerrorインターフェースを実装する。
func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return string(e.Kind)
}

// Unwrap はラップされた元のエラーを返す。
func (e *AuthError) Unwrap() error {
	return e.Err
}

// IsKind はerrが指定された分類のAuthErrorかを判定する。
func IsKind(err error, kind ErrorKind) bool {
	authErr, ok := err.(*AuthError)
	if !ok {
		return false
	}
	return authErr.Kind == kind
}
