// Package handler はHTTPハンドラーを提供する。
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/hitoshi/meatsafe/internal/auth"
	"github.com/hitoshi/meatsafe/internal/middleware"
	"github.com/hitoshi/meatsafe/internal/model"
)

// sessionTokenHeader はワンタイムトークンを渡すリクエストヘッダー名。
const sessionTokenHeader = "X-Session-ID"

// AuthServiceInterface は認証ハンドラーが必要とするサービスインターフェース。
type AuthServiceInterface interface {
	GetLoginURL() string
	ExchangeToken(ctx context.Context, token string) (*model.User, *model.Session, error)
	Logout(ctx context.Context, sessionID string) error
}

// AuthMetrics は認証ハンドラーが記録するメトリクスのインターフェース。
type AuthMetrics interface {
	RecordLogin()
	RecordExchangeFailure(reason string)
}

// AuthHandlerConfig は認証ハンドラーの設定。
type AuthHandlerConfig struct {
	CookieDomain  string
	CookieSecure  bool
	SessionMaxAge int // セッションCookieの有効期間（秒）
}

// AuthHandler はトークン交換とセッション管理のHTTPハンドラー。
type AuthHandler struct {
	service AuthServiceInterface
	metrics AuthMetrics
	config  AuthHandlerConfig
}

// NewAuthHandler はAuthHandlerを生成する。
func NewAuthHandler(service AuthServiceInterface, metrics AuthMetrics, config AuthHandlerConfig) *AuthHandler {
	return &AuthHandler{
		service: service,
		metrics: metrics,
		config:  config,
	}
}

// Login は認証基盤のログイン画面URLを返す。
// フロントエンドはこのURLにユーザーをリダイレクトする。
// GET /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"auth_url": h.service.GetLoginURL(),
	})
}

// Exchange はX-Session-IDヘッダーのワンタイムトークンをアプリ自身の
// セッションに交換する。成功時はHTTP Only Cookieを設定し、
// ユーザー情報を返す。
// POST /api/auth/profile
func (h *AuthHandler) Exchange(w http.ResponseWriter, r *http.Request) {
	token := r.Header.Get(sessionTokenHeader)
	if token == "" {
		h.metrics.RecordExchangeFailure("missing_token")
		middleware.WriteErrorResponse(w, http.StatusBadRequest, model.NewSessionIDRequiredError())
		return
	}

	user, session, err := h.service.ExchangeToken(r.Context(), token)
	if err != nil {
		if errors.Is(err, auth.ErrTokenRejected) {
			slog.Warn("token exchange rejected", slog.String("error", err.Error()))
			h.metrics.RecordExchangeFailure("token_rejected")
			middleware.WriteErrorResponse(w, http.StatusUnauthorized, model.NewExchangeFailedError())
			return
		}
		slog.Error("token exchange failed", slog.String("error", err.Error()))
		h.metrics.RecordExchangeFailure("provider_unavailable")
		middleware.WriteErrorResponse(w, http.StatusInternalServerError, model.NewAuthUnavailableError())
		return
	}

	// セッションCookieを設定（HTTP Only）
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    session.ID,
		Path:     "/",
		Domain:   h.config.CookieDomain,
		MaxAge:   h.config.SessionMaxAge,
		HttpOnly: true,
		Secure:   h.config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	h.metrics.RecordLogin()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"user": toUserResponse(user),
	})
}

// Logout はセッションを破棄し、Cookieをクリアする。
// セッションが無効でもCookieのクリアは常に行う。
// POST /api/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(middleware.SessionCookieName)
	if err == nil && cookie.Value != "" {
		if logoutErr := h.service.Logout(r.Context(), cookie.Value); logoutErr != nil {
			slog.Error("failed to logout", slog.String("error", logoutErr.Error()))
			// ログアウト失敗してもCookieはクリアする
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		Domain:   h.config.CookieDomain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"message": "logged out",
	})
}
