package catalog

import "surveyflow/internal/model"

// Sample returns the built-in two-theme catalog. Each call returns a fresh
// copy.
func Sample() *model.Catalog {
	return &model.Catalog{
		ID:    model.DefaultCatalogID,
		Title: "Career Survey",
		Themes: []model.Theme{
			{
				ID:          "personal",
				Title:       "Personal Information",
				Description: "Basic information about yourself",
				Completed:   true,
			},
			{
				ID:          "professional",
				Title:       "Professional Experience",
				Description: "Your work history and skills",
			},
		},
		Questions: []model.Question{
			{
				ID:      "q1",
				ThemeID: "personal",
				Kind:    model.KindMultipleChoice,
				Text:    "Are you currently employed?",
				Options: []string{"Yes", "No"},
				Info:    "This helps us understand your current employment status.",
				ConditionalQuestions: []model.Question{
					{
						ID:      "q1a",
						ThemeID: "personal",
						Kind:    model.KindOpenEnded,
						Text:    "What is your current job title?",
						DependsOn: &model.UnlockPredicate{
							QuestionID: "q1",
							Answer:     "Yes",
						},
					},
				},
			},
			{
				ID:      "q2",
				ThemeID: "personal",
				Kind:    model.KindOpenEnded,
				Text:    "What are your career goals?",
				Info:    "Tell us about your professional aspirations and where you see yourself in the future.",
			},
		},
	}
}

// MustSample indexes Sample and panics if it is invalid
func MustSample() *Index {
	idx, err := New(Sample())
	if err != nil {
		panic(err)
	}
	return idx
}
