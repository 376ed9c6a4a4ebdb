package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrTokenRejected は認証基盤がセッショントークンを拒否したことを示す。
// トークンの期限切れ・失効・不正のいずれでも返される。
var ErrTokenRejected = errors.New("session token rejected by auth service")

// ProviderSessionData は認証基盤から取得したセッション保有者の情報を表す。
type ProviderSessionData struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// IdentityProvider は外部認証基盤のインターフェース。
// 認証基盤はログイン画面を提供し、ログイン完了後にワンタイムの
// セッショントークンを発行する。本アプリはそのトークンを
// 検証APIに渡してセッション保有者の情報を取得する。
type IdentityProvider interface {
	// LoginURL は認証基盤のログイン画面URLを返す。
	LoginURL() string
	// FetchSessionData はセッショントークンを検証し、保有者情報を取得する。
	// トークンが拒否された場合はErrTokenRejectedを返す。
	FetchSessionData(ctx context.Context, token string) (*ProviderSessionData, error)
}

// HTTPProviderConfig はHTTP経由の認証基盤プロバイダーの設定。
type HTTPProviderConfig struct {
	// ServiceURL はセッション検証エンドポイントのURL。
	ServiceURL string
	// LoginPageURL はユーザーをリダイレクトするログイン画面のURL。
	LoginPageURL string
	// HTTPClient はテスト用に差し替え可能。nilの場合はタイムアウト付きの
	// デフォルトクライアントを使用する。
	HTTPClient *http.Client
}

// HTTPProvider はHTTPで外部認証基盤と通信するIdentityProviderの実装。
type HTTPProvider struct {
	config HTTPProviderConfig
	client *http.Client
}

// NewHTTPProvider はHTTPProviderを生成する。
func NewHTTPProvider(config HTTPProviderConfig) *HTTPProvider {
	client := config.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTPProvider{config: config, client: client}
}

// LoginURL は認証基盤のログイン画面URLを返す。
func (p *HTTPProvider) LoginURL() string {
	return p.config.LoginPageURL
}

// FetchSessionData はX-Session-IDヘッダーでトークンを検証APIに渡し、
// セッション保有者の情報を取得する。
// 認証基盤が4xxを返した場合はErrTokenRejectedを返す。
func (p *HTTPProvider) FetchSessionData(ctx context.Context, token string) (*ProviderSessionData, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.config.ServiceURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create session data request: %w", err)
	}
	req.Header.Set("X-Session-ID", token)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("session data request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read session data response: %w", err)
	}

	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		return nil, fmt.Errorf("session data fetch failed with status %d: %w", resp.StatusCode, ErrTokenRejected)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("session data fetch failed with status %d: %s", resp.StatusCode, string(body))
	}

	var data ProviderSessionData
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("failed to parse session data response: %w", err)
	}

	if data.Email == "" {
		return nil, fmt.Errorf("empty email in session data response")
	}

	return &data, nil
}

// compile-time interface check
var _ IdentityProvider = (*HTTPProvider)(nil)
