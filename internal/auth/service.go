// Package auth はセッショントークン交換とセッション管理を提供する。
package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hitoshi/meatsafe/internal/model"
	"github.com/hitoshi/meatsafe/internal/repository"
)

// defaultRestaurantName は新規登録ユーザーの初期店舗名。
// プロフィール設定が完了するまでのプレースホルダーとして使用する。
const defaultRestaurantName = "Pending Setup"

// ServiceConfig は認証サービスの設定。
type ServiceConfig struct {
	SessionMaxAge int // セッション有効期間（秒）
}

// Service は認証に関するビジネスロジックを提供する。
type Service struct {
	provider    IdentityProvider
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	config      ServiceConfig
}

// NewService はServiceを生成する。
func NewService(
	provider IdentityProvider,
	userRepo repository.UserRepository,
	sessionRepo repository.SessionRepository,
	config ServiceConfig,
) *Service {
	return &Service{
		provider:    provider,
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		config:      config,
	}
}

// GetLoginURL は認証基盤のログイン画面URLを返す。
func (s *Service) GetLoginURL() string {
	return s.provider.LoginURL()
}

// ExchangeToken はワンタイムのセッショントークンを検証し、セッションを発行する。
// 未登録ユーザーの場合はstatus=pendingのusersレコードを自動作成する。
// 登録済みユーザーの場合はメールアドレスで既存ユーザーを特定しログインする。
// トークンが拒否された場合はErrTokenRejectedをラップしたエラーを返す。
func (s *Service) ExchangeToken(ctx context.Context, token string) (*model.User, *model.Session, error) {
	if token == "" {
		return nil, nil, fmt.Errorf("session token is required: %w", ErrTokenRejected)
	}

	// 1. トークンを認証基盤で検証し、保有者情報を取得
	data, err := s.provider.FetchSessionData(ctx, token)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch session data: %w", err)
	}

	// 2. メールアドレスで既存ユーザーを検索
	user, err := s.userRepo.FindByEmail(ctx, data.Email)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to find user: %w", err)
	}

	if user != nil {
		slog.Info("existing user logged in",
			slog.String("user_id", user.ID),
			slog.String("status", string(user.Status)),
		)
	} else {
		// 3. 新規ユーザー: pending状態で自動作成
		now := time.Now()
		user = &model.User{
			ID:             uuid.New().String(),
			Email:          data.Email,
			Name:           data.Name,
			RestaurantName: defaultRestaurantName,
			Status:         model.StatusPending,
			CreatedAt:      now,
			UpdatedAt:      now,
		}

		if err := s.userRepo.Create(ctx, user); err != nil {
			return nil, nil, fmt.Errorf("failed to create user: %w", err)
		}

		slog.Info("new user created",
			slog.String("user_id", user.ID),
			slog.String("email", user.Email),
		)
	}

	// 4. セッションを発行
	session, err := s.createSession(ctx, user.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create session: %w", err)
	}

	return user, session, nil
}

// Logout はセッションを破棄する。
func (s *Service) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return fmt.Errorf("session ID is required")
	}

	if err := s.sessionRepo.DeleteByID(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	slog.Info("user logged out", slog.String("session_id", sessionID))
	return nil
}

// GetCurrentUser はセッションから現在のユーザーを取得する。
func (s *Service) GetCurrentUser(ctx context.Context, sessionID string) (*model.User, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("session ID is required")
	}

	session, err := s.sessionRepo.FindByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to find session: %w", err)
	}
	if session == nil {
		return nil, fmt.Errorf("session not found or expired")
	}

	user, err := s.userRepo.FindByID(ctx, session.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("user not found")
	}

	return user, nil
}

// createSession はセッションを作成し永続化する。
func (s *Service) createSession(ctx context.Context, userID string) (*model.Session, error) {
	sessionID, err := generateSessionID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate session ID: %w", err)
	}

	session := &model.Session{
		ID:        sessionID,
		UserID:    userID,
		ExpiresAt: time.Now().Add(time.Duration(s.config.SessionMaxAge) * time.Second),
		CreatedAt: time.Now(),
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	return session, nil
}

// generateSessionID は暗号的に安全なセッションIDを生成する。
func generateSessionID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
