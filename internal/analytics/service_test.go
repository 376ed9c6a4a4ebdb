package analytics

import (
	"context"
	"errors"
	"testing"

	"github.com/hitoshi/meatsafe/internal/model"
)

// --- モック定義 ---

type mockUserCounter struct {
	countByStatusFn func(ctx context.Context) (map[model.UserStatus]int, error)
}

func (m *mockUserCounter) CountByStatus(ctx context.Context) (map[model.UserStatus]int, error) {
	if m.countByStatusFn != nil {
		return m.countByStatusFn(ctx)
	}
	return map[model.UserStatus]int{}, nil
}

type mockUploadCounter struct {
	countByKindFn func(ctx context.Context) (map[model.UploadKind]int, error)
}

func (m *mockUploadCounter) CountByKind(ctx context.Context) (map[model.UploadKind]int, error) {
	if m.countByKindFn != nil {
		return m.countByKindFn(ctx)
	}
	return map[model.UploadKind]int{}, nil
}

type mockQuizCounter struct {
	countTotalAndPassedFn func(ctx context.Context) (int, int, error)
}

func (m *mockQuizCounter) CountTotalAndPassed(ctx context.Context) (int, int, error) {
	if m.countTotalAndPassedFn != nil {
		return m.countTotalAndPassedFn(ctx)
	}
	return 0, 0, nil
}

// --- テスト ---

func TestSummarize_AggregatesAllCounts(t *testing.T) {
	users := &mockUserCounter{
		countByStatusFn: func(_ context.Context) (map[model.UserStatus]int, error) {
			return map[model.UserStatus]int{
				model.StatusPending:  2,
				model.StatusApproved: 5,
				model.StatusRejected: 1,
			}, nil
		},
	}
	uploads := &mockUploadCounter{
		countByKindFn: func(_ context.Context) (map[model.UploadKind]int, error) {
			return map[model.UploadKind]int{
				model.UploadKindImage: 7,
				model.UploadKindVideo: 3,
			}, nil
		},
	}
	quizzes := &mockQuizCounter{
		countTotalAndPassedFn: func(_ context.Context) (int, int, error) {
			return 4, 3, nil
		},
	}

	svc := NewService(users, uploads, quizzes)
	summary, err := svc.Summarize(context.Background())
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}

	if summary.TotalUsers != 8 {
		t.Errorf("total_users = %d, want 8", summary.TotalUsers)
	}
	if summary.PendingUsers != 2 {
		t.Errorf("pending_users = %d, want 2", summary.PendingUsers)
	}
	if summary.TotalUploads != 10 {
		t.Errorf("total_uploads = %d, want 10", summary.TotalUploads)
	}
	if summary.QuizAttempts != 4 {
		t.Errorf("quiz_attempts = %d, want 4", summary.QuizAttempts)
	}
	if summary.QuizPassRate != 0.75 {
		t.Errorf("quiz_pass_rate = %f, want 0.75", summary.QuizPassRate)
	}
}

func TestSummarize_NoAttempts_PassRateIsZero(t *testing.T) {
	svc := NewService(&mockUserCounter{}, &mockUploadCounter{}, &mockQuizCounter{})

	summary, err := svc.Summarize(context.Background())
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if summary.QuizPassRate != 0 {
		t.Errorf("quiz_pass_rate = %f, want 0", summary.QuizPassRate)
	}
}

func TestSummarize_CounterFailure_ReturnsError(t *testing.T) {
	users := &mockUserCounter{
		countByStatusFn: func(_ context.Context) (map[model.UserStatus]int, error) {
			return nil, errors.New("db down")
		},
	}
	svc := NewService(users, &mockUploadCounter{}, &mockQuizCounter{})

	if _, err := svc.Summarize(context.Background()); err == nil {
		t.Error("expected error when counter fails")
	}
}
