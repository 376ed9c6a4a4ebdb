package portalclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"sync"
	"time"
)

const defaultRequestTimeout = 10 * time.Second

// Identity はクライアントから見た認証済みユーザーを表す。
type Identity struct {
	ID             string `json:"id"`
	Email          string `json:"email"`
	Name           string `json:"name"`
	RestaurantName string `json:"restaurant_name"`
	Status         string `json:"status"`
}

// IsApproved は承認済みアカウントかを返す。
func (i *Identity) IsApproved() bool {
	return i.Status == "approved"
}

// Config はClientの設定を保持する。
type Config struct {
	// BaseURL はポータルAPIのベースURL。
	BaseURL string
	// HTTPClient は省略時、Cookie jar付き・10秒タイムアウトのクライアントを使う。
	HTTPClient *http.Client
	// Logger は省略時slog.Defaultを使う。
	Logger *slog.Logger
	// Navigate はブラウザ遷移のフック。Initiateが認可URLへの遷移に使う。
	Navigate func(url string)
}

// Client はポータルAPIに対するセッション状態の唯一の保持者。
// Identityの書き込みはClientのみが行い、他のコンポーネントは参照だけを読む。
type Client struct {
	baseURL  string
	http     *http.Client
	logger   *slog.Logger
	navigate func(url string)

	mu       sync.RWMutex
	identity *Identity
	loading  bool
}

// NewClient はClientを生成する。初期状態はloading=true（初回解決まで未確定）。
func NewClient(config Config) (*Client, error) {
	if config.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create cookie jar: %w", err)
		}
		httpClient = &http.Client{
			Jar:     jar,
			Timeout: defaultRequestTimeout,
		}
	} else if httpClient.Jar == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create cookie jar: %w", err)
		}
		httpClient.Jar = jar
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	navigate := config.Navigate
	if navigate == nil {
		navigate = func(string) {}
	}

	return &Client{
		baseURL:  config.BaseURL,
		http:     httpClient,
		logger:   logger,
		navigate: navigate,
		loading:  true,
	}, nil
}

// CurrentIdentity は現在のIdentityのコピーを返す。未ログイン時はnil。
// loading=trueの間の値は未確定であり、認可判定にはLoadingと併せて使うこと。
func (c *Client) CurrentIdentity() *Identity {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.identity == nil {
		return nil
	}
	copied := *c.identity
	return &copied
}

// Loading は初回解決が完了するまでtrueを返す。
func (c *Client) Loading() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loading
}

// Init は起動時のセッション解決プロトコルを実行する。
// 1. 既存CookieからのRefreshを試みる
// 2. ページURLにワンタイムトークンのフラグメントがあればCompleteExchangeを実行し、
//    成功すればRefreshの結果を上書きする
// Refreshを待ってから交換を発行するため、交換結果が常に因果的に最後になる。
// 戻り値はトークンフラグメントを除去したページURL。
func (c *Client) Init(ctx context.Context, pageURL string) (string, error) {
	defer c.setLoading(false)

	c.Refresh(ctx)

	token := ParseFragmentToken(pageURL)
	stripped := StripFragmentToken(pageURL)
	if token == "" {
		return stripped, nil
	}

	if _, err := c.CompleteExchange(ctx, token); err != nil {
		// 交換失敗はログアウト状態のまま継続する。トークンはサーバー側で
		// 一度しか使えないため再試行せず、Initiateからやり直してもらう。
		return stripped, err
	}
	return stripped, nil
}

// Initiate は外部ログインフローを開始する。
// 認可URLを取得してブラウザをそこへ遷移させる。
func (c *Client) Initiate(ctx context.Context) error {
	resp, err := c.doRequest(ctx, http.MethodGet, "/api/auth/login", nil, "")
	if err != nil {
		return &AuthError{Kind: ErrNetworkFailure, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &AuthError{Kind: ErrNetworkFailure, Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	var body struct {
		AuthURL string `json:"auth_url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return &AuthError{Kind: ErrNetworkFailure, Err: fmt.Errorf("failed to decode auth URL: %w", err)}
	}

	c.navigate(body.AuthURL)
	return nil
}

// CompleteExchange はワンタイムトークンをセッションに交換する。
// 成功時はセッションCookieがjarに保存され、Identityが確定する。
// トークンは単一使用であり、失敗時の再試行には新しいInitiateが必要。
func (c *Client) CompleteExchange(ctx context.Context, token string) (*Identity, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/api/auth/profile", nil, token)
	if err != nil {
		return nil, &AuthError{Kind: ErrNetworkFailure, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		return nil, &AuthError{Kind: ErrExchangeFailed, Err: fmt.Errorf("server rejected token: %s", readErrorMessage(resp.Body))}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &AuthError{Kind: ErrNetworkFailure, Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	var body struct {
		User Identity `json:"user"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, &AuthError{Kind: ErrNetworkFailure, Err: fmt.Errorf("failed to decode identity: %w", err)}
	}

	c.setIdentity(&body.User)
	c.logger.Info("session established", "user_id", body.User.ID, "status", body.User.Status)
	return c.CurrentIdentity(), nil
}

// Refresh は保存済みセッションからIdentityを再解決する。
// セッションが無い・期限切れ・通信障害の場合はIdentityを消去して
// 正常終了する。未ログインは想定内の状態であり、障害ではない。
func (c *Client) Refresh(ctx context.Context) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/api/users/me", nil, "")
	if err != nil {
		c.logger.Debug("identity refresh failed", "error", err)
		c.setIdentity(nil)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.setIdentity(nil)
		return
	}

	var identity Identity
	if err := json.NewDecoder(resp.Body).Decode(&identity); err != nil {
		c.logger.Debug("failed to decode identity", "error", err)
		c.setIdentity(nil)
		return
	}
	c.setIdentity(&identity)
}

// Terminate はサーバー側セッションの破棄を要求し、ローカルのIdentityを
// 無条件に消去する。サーバー応答に関わらずログアウトは常に成功扱いとする。
func (c *Client) Terminate(ctx context.Context) error {
	resp, err := c.doRequest(ctx, http.MethodPost, "/api/auth/logout", nil, "")
	if err != nil {
		c.logger.Debug("logout request failed", "error", err)
	} else {
		resp.Body.Close()
	}

	c.setIdentity(nil)
	return nil
}

// UpdateProfile は店舗名を更新し、更新後のIdentityを返す。
func (c *Client) UpdateProfile(ctx context.Context, restaurantName string) (*Identity, error) {
	payload, err := json.Marshal(map[string]string{"restaurant_name": restaurantName})
	if err != nil {
		return nil, fmt.Errorf("failed to encode profile: %w", err)
	}

	resp, err := c.doRequest(ctx, http.MethodPut, "/api/users/me", bytes.NewReader(payload), "")
	if err != nil {
		return nil, &AuthError{Kind: ErrNetworkFailure, Err: err}
	}
	defer resp.Body.Close()

	if authErr := c.classifyWriteFailure(ctx, resp); authErr != nil {
		return nil, authErr
	}

	var identity Identity
	if err := json.NewDecoder(resp.Body).Decode(&identity); err != nil {
		return nil, &AuthError{Kind: ErrNetworkFailure, Err: fmt.Errorf("failed to decode identity: %w", err)}
	}
	c.setIdentity(&identity)
	return c.CurrentIdentity(), nil
}

// SetUserStatus は管理者として対象ユーザーのステータスを変更する。
// approved_byには操作中の管理者IDを載せるが、承認者と承認日時は
// サーバー側でセッションの管理者から決定される。
func (c *Client) SetUserStatus(ctx context.Context, userID, status string) (*Identity, error) {
	body := map[string]string{"status": status}
	if me := c.CurrentIdentity(); me != nil {
		body["approved_by"] = me.ID
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode status: %w", err)
	}

	resp, err := c.doRequest(ctx, http.MethodPut, "/api/admin/users/"+userID, bytes.NewReader(payload), "")
	if err != nil {
		return nil, &AuthError{Kind: ErrNetworkFailure, Err: err}
	}
	defer resp.Body.Close()

	if authErr := c.classifyWriteFailure(ctx, resp); authErr != nil {
		return nil, authErr
	}

	var updated Identity
	if err := json.NewDecoder(resp.Body).Decode(&updated); err != nil {
		return nil, &AuthError{Kind: ErrNetworkFailure, Err: fmt.Errorf("failed to decode user record: %w", err)}
	}
	return &updated, nil
}

// classifyWriteFailure は書き込み系APIの失敗応答をAuthErrorに分類する。
// 403はガード迂回かIdentityの陳腐化を示すため、Refreshで再解決する。
func (c *Client) classifyWriteFailure(ctx context.Context, resp *http.Response) error {
	switch {
	case resp.StatusCode == http.StatusOK:
		return nil
	case resp.StatusCode == http.StatusUnauthorized:
		c.setIdentity(nil)
		return &AuthError{Kind: ErrNoSession, Err: fmt.Errorf("session expired")}
	case resp.StatusCode == http.StatusForbidden:
		c.Refresh(ctx)
		return &AuthError{Kind: ErrForbidden, Err: fmt.Errorf("server rejected request: %s", readErrorMessage(resp.Body))}
	default:
		return fmt.Errorf("request failed with status %d: %s", resp.StatusCode, readErrorMessage(resp.Body))
	}
}

func (c *Client) doRequest(ctx context.Context, method, path string, body io.Reader, sessionToken string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if sessionToken != "" {
		req.Header.Set("X-Session-ID", sessionToken)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	return resp, nil
}

func (c *Client) setIdentity(identity *Identity) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.identity = identity
}

func (c *Client) setLoading(loading bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = loading
}

// readErrorMessage はAPIエラーレスポンスからメッセージを取り出す。
func readErrorMessage(body io.Reader) string {
	var errBody struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(body).Decode(&errBody); err != nil || errBody.Message == "" {
		return "unknown error"
	}
	return errBody.Message
}
