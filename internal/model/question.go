package model

// QuestionKind defines how a question is answered
type QuestionKind string

const (
	KindMultipleChoice QuestionKind = "multiple-choice" // Pick one of Options
	KindOpenEnded      QuestionKind = "open-ended"      // Free text
)

// UnlockPredicate gates a conditional question on another question's answer
type UnlockPredicate struct {
	QuestionID string `json:"questionId" bson:"questionId" yaml:"questionId" validate:"required"`
	Answer     string `json:"answer" bson:"answer" yaml:"answer"`
}

// Question is a base question of a theme or a conditional follow-up
type Question struct {
	ID                   string           `json:"id" bson:"id" yaml:"id" validate:"required,idtoken"`
	ThemeID              string           `json:"themeId" bson:"themeId" yaml:"themeId" validate:"required"`
	Kind                 QuestionKind     `json:"type" bson:"type" yaml:"type" validate:"required,oneof=multiple-choice open-ended"`
	Text                 string           `json:"text" bson:"text" yaml:"text" validate:"required"`
	Info                 string           `json:"info,omitempty" bson:"info,omitempty" yaml:"info,omitempty"`
	Options              []string         `json:"options,omitempty" bson:"options,omitempty" yaml:"options,omitempty"` // multiple-choice only
	ConditionalQuestions []Question       `json:"conditionalQuestions,omitempty" bson:"conditionalQuestions,omitempty" yaml:"conditionalQuestions,omitempty" validate:"dive"`
	DependsOn            *UnlockPredicate `json:"dependsOn,omitempty" bson:"dependsOn,omitempty" yaml:"dependsOn,omitempty"`
}

// IsConditional reports whether the question is gated by an unlock predicate
func (q *Question) IsConditional() bool {
	return q.DependsOn != nil
}
