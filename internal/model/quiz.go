package model

import "time"

// QuizAnswer は1問に対する回答を表す。
type QuizAnswer struct {
	QuestionID     int `json:"question_id"`
	SelectedAnswer int `json:"selected_answer"`
}

// QuizAttempt は食品安全クイズの受験結果を表す。
// 回答内容はJSONとして永続化し、採点結果とともに保持する。
type QuizAttempt struct {
	ID             string
	UserID         string
	Score          int
	TotalQuestions int
	Passed         bool
	Answers        []QuizAnswer
	CompletedAt    time.Time
}
