package handler

import (
	"time"

	"github.com/hitoshi/meatsafe/internal/model"
)

// userResponse はユーザー情報のAPIレスポンス。
type userResponse struct {
	ID             string     `json:"id"`
	Email          string     `json:"email"`
	Name           string     `json:"name"`
	RestaurantName string     `json:"restaurant_name"`
	Status         string     `json:"status"`
	CreatedAt      time.Time  `json:"created_at"`
	ApprovedAt     *time.Time `json:"approved_at,omitempty"`
	ApprovedBy     *string    `json:"approved_by,omitempty"`
}

// toUserResponse はmodel.UserをAPIレスポンス形式に変換する。
func toUserResponse(user *model.User) userResponse {
	return userResponse{
		ID:             user.ID,
		Email:          user.Email,
		Name:           user.Name,
		RestaurantName: user.RestaurantName,
		Status:         string(user.Status),
		CreatedAt:      user.CreatedAt,
		ApprovedAt:     user.ApprovedAt,
		ApprovedBy:     user.ApprovedBy,
	}
}

// uploadResponse はアップロード情報のAPIレスポンス。
type uploadResponse struct {
	ID          string    `json:"id"`
	Filename    string    `json:"filename"`
	Kind        string    `json:"kind"`
	Description string    `json:"description"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

// toUploadResponse はmodel.ComplianceUploadをAPIレスポンス形式に変換する。
func toUploadResponse(upload *model.ComplianceUpload) uploadResponse {
	return uploadResponse{
		ID:          upload.ID,
		Filename:    upload.Filename,
		Kind:        string(upload.Kind),
		Description: upload.Description,
		UploadedAt:  upload.UploadedAt,
	}
}

// quizAttemptResponse はクイズ受験結果のAPIレスポンス。
type quizAttemptResponse struct {
	ID             string    `json:"id"`
	Score          int       `json:"score"`
	TotalQuestions int       `json:"total_questions"`
	Passed         bool      `json:"passed"`
	CompletedAt    time.Time `json:"completed_at"`
}

// toQuizAttemptResponse はmodel.QuizAttemptをAPIレスポンス形式に変換する。
func toQuizAttemptResponse(attempt *model.QuizAttempt) quizAttemptResponse {
	return quizAttemptResponse{
		ID:             attempt.ID,
		Score:          attempt.Score,
		TotalQuestions: attempt.TotalQuestions,
		Passed:         attempt.Passed,
		CompletedAt:    attempt.CompletedAt,
	}
}
