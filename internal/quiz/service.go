// Package quiz は食肉衛生トレーニングクイズの出題・採点・履歴管理を提供する。
package quiz

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hitoshi/meatsafe/internal/model"
	"github.com/hitoshi/meatsafe/internal/repository"
)

// passThreshold は合格に必要な正答率。
const passThreshold = 0.7

// QuestionView は受験者に返す設問。正解インデックスを含まない。
type QuestionView struct {
	ID       int      `json:"id"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

// Service はクイズに関するビジネスロジックを提供する。
type Service struct {
	attemptRepo repository.QuizAttemptRepository
}

// NewService はServiceを生成する。
func NewService(attemptRepo repository.QuizAttemptRepository) *Service {
	return &Service{attemptRepo: attemptRepo}
}

// Questions は全設問を正解を除いた形で返す。
func (s *Service) Questions() []QuestionView {
	views := make([]QuestionView, 0, len(questionBank))
	for _, q := range questionBank {
		views = append(views, QuestionView{
			ID:       q.ID,
			Question: q.Question,
			Options:  q.Options,
		})
	}
	return views
}

// Submit は回答を採点し、受験結果を保存して返す。
// 正答率70%以上で合格。未回答の設問は不正解として扱う。
// 同一設問への重複回答は最初の回答のみを採点する。
func (s *Service) Submit(ctx context.Context, userID string, answers []model.QuizAnswer) (*model.QuizAttempt, error) {
	if len(answers) == 0 {
		return nil, model.NewInvalidAnswersError()
	}

	answered := make(map[int]int, len(answers))
	for _, a := range answers {
		if _, ok := answered[a.QuestionID]; !ok {
			answered[a.QuestionID] = a.SelectedAnswer
		}
	}

	score := 0
	for _, q := range questionBank {
		if selected, ok := answered[q.ID]; ok && selected == q.CorrectAnswer {
			score++
		}
	}

	total := len(questionBank)
	attempt := &model.QuizAttempt{
		ID:             uuid.New().String(),
		UserID:         userID,
		Score:          score,
		TotalQuestions: total,
		Passed:         float64(score)/float64(total) >= passThreshold,
		Answers:        answers,
		CompletedAt:    time.Now(),
	}

	if err := s.attemptRepo.Create(ctx, attempt); err != nil {
		return nil, fmt.Errorf("failed to save quiz attempt: %w", err)
	}

	slog.Info("quiz submitted",
		slog.String("user_id", userID),
		slog.Int("score", score),
		slog.Bool("passed", attempt.Passed),
	)
	return attempt, nil
}

// ListAttempts はユーザーの受験履歴を返す。
func (s *Service) ListAttempts(ctx context.Context, userID string) ([]*model.QuizAttempt, error) {
	attempts, err := s.attemptRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list quiz attempts: %w", err)
	}
	return attempts, nil
}
