package engine

import (
	"surveyflow/internal/catalog"
	"surveyflow/internal/model"
)

// Resolve returns the questions visible for themeID, in display order: the
// theme's base questions in catalog order, then the conditional questions
// they unlock, then the conditionals unlocked by those, level by level.
//
// Each conditional question is tested against the stored answer of the
// question that owns it: it is visible when that answer equals the
// predicate's required answer exactly. A missing answer never matches. Only
// the store is consulted; whether the owning question is on screen plays no
// part beyond the level-by-level walk.
func Resolve(themeID string, idx *catalog.Index, answers AnswerLookup) []model.Question {
	base := idx.BaseQuestions(themeID)
	visible := make([]model.Question, 0, len(base))
	visible = append(visible, base...)

	level := base
	for len(level) > 0 {
		var unlocked []model.Question
		for i := range level {
			parent := &level[i]
			if len(parent.ConditionalQuestions) == 0 {
				continue
			}
			answer, ok := answers.Get(parent.ID)
			if !ok {
				continue
			}
			for _, cq := range parent.ConditionalQuestions {
				if cq.DependsOn != nil && cq.DependsOn.Answer == answer {
					unlocked = append(unlocked, cq)
				}
			}
		}
		visible = append(visible, unlocked...)
		level = unlocked
	}
	return visible
}
