package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/hitoshi/meatsafe/internal/model"
)

// PostgresQuizAttemptRepo はPostgreSQLを使用したクイズ受験結果リポジトリ。
// 回答内容はJSONBカラムに格納する。
type PostgresQuizAttemptRepo struct {
	db *sql.DB
}

// NewPostgresQuizAttemptRepo はPostgresQuizAttemptRepoを生成する。
func NewPostgresQuizAttemptRepo(db *sql.DB) *PostgresQuizAttemptRepo {
	return &PostgresQuizAttemptRepo{db: db}
}

// Create は受験結果を作成する。
func (r *PostgresQuizAttemptRepo) Create(ctx context.Context, attempt *model.QuizAttempt) error {
	answersJSON, err := json.Marshal(attempt.Answers)
	if err != nil {
		return fmt.Errorf("failed to marshal answers: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO quiz_attempts (id, user_id, score, total_questions, passed, answers, completed_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		attempt.ID, attempt.UserID, attempt.Score, attempt.TotalQuestions,
		attempt.Passed, answersJSON, attempt.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert quiz attempt: %w", err)
	}
	return nil
}

// ListByUserID はユーザーの受験履歴を受験日時の降順で返す。
func (r *PostgresQuizAttemptRepo) ListByUserID(ctx context.Context, userID string) ([]*model.QuizAttempt, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, score, total_questions, passed, answers, completed_at
		 FROM quiz_attempts
		 WHERE user_id = $1
		 ORDER BY completed_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list quiz attempts: %w", err)
	}
	defer rows.Close()

	var attempts []*model.QuizAttempt
	for rows.Next() {
		attempt := &model.QuizAttempt{}
		var answersJSON []byte
		if err := rows.Scan(&attempt.ID, &attempt.UserID, &attempt.Score, &attempt.TotalQuestions,
			&attempt.Passed, &answersJSON, &attempt.CompletedAt); err != nil {
			return nil, fmt.Errorf("failed to scan quiz attempt: %w", err)
		}
		if err := json.Unmarshal(answersJSON, &attempt.Answers); err != nil {
			return nil, fmt.Errorf("failed to unmarshal answers: %w", err)
		}
		attempts = append(attempts, attempt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate quiz attempts: %w", err)
	}

	return attempts, nil
}

// CountTotalAndPassed は全受験数と合格数を返す。
func (r *PostgresQuizAttemptRepo) CountTotalAndPassed(ctx context.Context) (int, int, error) {
	var total, passed int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COUNT(*) FILTER (WHERE passed) FROM quiz_attempts`,
	).Scan(&total, &passed)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count quiz attempts: %w", err)
	}
	return total, passed, nil
}

// compile-time interface check
var _ QuizAttemptRepository = (*PostgresQuizAttemptRepo)(nil)
