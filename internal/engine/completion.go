package engine

import "surveyflow/internal/model"

// IsComplete reports whether every visible question has an answer. Presence
// counts, so an empty string is an answer.
func IsComplete(visible []model.Question, answers AnswerLookup) bool {
	for i := range visible {
		if _, ok := answers.Get(visible[i].ID); !ok {
			return false
		}
	}
	return true
}

// Unanswered returns the ids of visible questions without an answer, in
// display order
func Unanswered(visible []model.Question, answers AnswerLookup) []string {
	var missing []string
	for i := range visible {
		if _, ok := answers.Get(visible[i].ID); !ok {
			missing = append(missing, visible[i].ID)
		}
	}
	return missing
}
