// Package user はユーザープロフィールと承認ワークフローのビジネスロジックを提供する。
package user

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/hitoshi/meatsafe/internal/model"
	"github.com/hitoshi/meatsafe/internal/repository"
	"github.com/hitoshi/meatsafe/internal/security"
)

// Service はユーザーに関するビジネスロジックを提供する。
type Service struct {
	userRepo  repository.UserRepository
	sanitizer security.InputSanitizerService
}

// NewService はServiceを生成する。
func NewService(userRepo repository.UserRepository, sanitizer security.InputSanitizerService) *Service {
	return &Service{
		userRepo:  userRepo,
		sanitizer: sanitizer,
	}
}

// UpdateProfile はユーザーの店舗名を更新する。
// 店舗名はサニタイズ後に空でないことを要求する。
func (s *Service) UpdateProfile(ctx context.Context, userID, restaurantName string) (*model.User, error) {
	cleaned := s.sanitizer.Sanitize(strings.TrimSpace(restaurantName))
	if cleaned == "" {
		return nil, model.NewInvalidProfileError("restaurant_name is required")
	}

	user, err := s.userRepo.UpdateRestaurantName(ctx, userID, cleaned)
	if err != nil {
		return nil, fmt.Errorf("failed to update restaurant name: %w", err)
	}
	if user == nil {
		return nil, model.NewUserNotFoundError(userID)
	}

	slog.Info("profile updated",
		slog.String("user_id", userID),
		slog.String("restaurant_name", cleaned),
	)
	return user, nil
}

// SetStatus は管理者によるユーザーの承認ステータス変更を処理する。
// どの状態からどの状態への遷移も許可される。
// approved_atとapproved_byは承認・却下・保留いずれの遷移でも
// 最後に操作した管理者と日時で上書きされる。
func (s *Service) SetStatus(ctx context.Context, userID string, status model.UserStatus, adminID string) (*model.User, error) {
	if !status.Valid() {
		return nil, model.NewInvalidStatusError(string(status))
	}

	user, err := s.userRepo.UpdateStatus(ctx, userID, status, adminID, time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to update status: %w", err)
	}
	if user == nil {
		return nil, model.NewUserNotFoundError(userID)
	}

	slog.Info("user status changed",
		slog.String("user_id", userID),
		slog.String("status", string(status)),
		slog.String("admin_id", adminID),
	)
	return user, nil
}

// ListUsers は全ユーザーを返す。管理者画面用。
func (s *Service) ListUsers(ctx context.Context) ([]*model.User, error) {
	users, err := s.userRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}
