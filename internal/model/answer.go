package model

import "time"

// Answer is a single (questionId, answer) pair
type Answer struct {
	QuestionID string `json:"questionId" bson:"questionId"`
	Answer     string `json:"answer" bson:"answer"`
}

// Progress is the record written by the persistence endpoint
type Progress struct {
	SessionID string    `json:"sessionId" bson:"sessionId"`
	CatalogID string    `json:"catalogId" bson:"catalogId"`
	Answers   []Answer  `json:"answers" bson:"answers"`
	SavedAt   time.Time `json:"savedAt" bson:"savedAt"`
}

// AnswerRequest is the body of an answer update
type AnswerRequest struct {
	Answer string `json:"answer"`
}

// ThemeSelectRequest is the body of a theme selection
type ThemeSelectRequest struct {
	ThemeID string `json:"themeId"`
}
