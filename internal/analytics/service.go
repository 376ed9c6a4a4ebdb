// Package analytics は管理者ダッシュボード向けの集計を提供する。
package analytics

import (
	"context"
	"fmt"

	"github.com/hitoshi/meatsafe/internal/model"
)

// UserCounter はユーザーのステータス別集計のインターフェース。
type UserCounter interface {
	CountByStatus(ctx context.Context) (map[model.UserStatus]int, error)
}

// UploadCounter はアップロードの種別別集計のインターフェース。
type UploadCounter interface {
	CountByKind(ctx context.Context) (map[model.UploadKind]int, error)
}

// QuizCounter はクイズ受験数と合格数の集計のインターフェース。
type QuizCounter interface {
	CountTotalAndPassed(ctx context.Context) (int, int, error)
}

// Summary は管理者ダッシュボードに表示する集計結果。
type Summary struct {
	TotalUsers    int     `json:"total_users"`
	PendingUsers  int     `json:"pending_users"`
	ApprovedUsers int     `json:"approved_users"`
	RejectedUsers int     `json:"rejected_users"`
	TotalUploads  int     `json:"total_uploads"`
	ImageUploads  int     `json:"image_uploads"`
	VideoUploads  int     `json:"video_uploads"`
	QuizAttempts  int     `json:"quiz_attempts"`
	QuizPasses    int     `json:"quiz_passes"`
	QuizPassRate  float64 `json:"quiz_pass_rate"`
}

// Service は集計に関するビジネスロジックを提供する。
type Service struct {
	users   UserCounter
	uploads UploadCounter
	quizzes QuizCounter
}

// NewService はServiceを生成する。
func NewService(users UserCounter, uploads UploadCounter, quizzes QuizCounter) *Service {
	return &Service{
		users:   users,
		uploads: uploads,
		quizzes: quizzes,
	}
}

// Summarize は全集計をまとめて返す。
// 受験が1件もない場合の合格率は0とする。
func (s *Service) Summarize(ctx context.Context) (*Summary, error) {
	userCounts, err := s.users.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	uploadCounts, err := s.uploads.CountByKind(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count uploads: %w", err)
	}

	attempts, passes, err := s.quizzes.CountTotalAndPassed(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count quiz attempts: %w", err)
	}

	summary := &Summary{
		PendingUsers:  userCounts[model.StatusPending],
		ApprovedUsers: userCounts[model.StatusApproved],
		RejectedUsers: userCounts[model.StatusRejected],
		ImageUploads:  uploadCounts[model.UploadKindImage],
		VideoUploads:  uploadCounts[model.UploadKindVideo],
		QuizAttempts:  attempts,
		QuizPasses:    passes,
	}
	summary.TotalUsers = summary.PendingUsers + summary.ApprovedUsers + summary.RejectedUsers
	summary.TotalUploads = summary.ImageUploads + summary.VideoUploads
	if attempts > 0 {
		summary.QuizPassRate = float64(passes) / float64(attempts)
	}

	return summary, nil
}
