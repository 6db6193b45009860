package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"surveyflow/internal/catalog"
)

func TestIsComplete(t *testing.T) {
	idx := catalog.MustSample()

	tests := []struct {
		name       string
		answers    map[string]string
		want       bool
		unanswered []string
	}{
		{
			name:       "nothing answered",
			answers:    map[string]string{},
			want:       false,
			unanswered: []string{"q1", "q2"},
		},
		{
			name:       "only q1",
			answers:    map[string]string{"q1": "No"},
			want:       false,
			unanswered: []string{"q2"},
		},
		{
			name:    "all base answered, no conditional",
			answers: map[string]string{"q1": "No", "q2": "lead"},
			want:    true,
		},
		{
			name:       "revealed conditional unanswered",
			answers:    map[string]string{"q1": "Yes", "q2": "lead"},
			want:       false,
			unanswered: []string{"q1a"},
		},
		{
			name:    "empty strings count as answers",
			answers: map[string]string{"q1": "", "q2": ""},
			want:    true,
		},
		{
			name:    "hidden questions are ignored",
			answers: map[string]string{"q1": "No", "q2": "x", "unrelated": "y"},
			want:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewAnswerStore()
			for id, v := range tt.answers {
				store.Upsert(id, v)
			}
			visible := Resolve("personal", idx, store)
			assert.Equal(t, tt.want, IsComplete(visible, store))
			assert.Equal(t, tt.unanswered, Unanswered(visible, store))
		})
	}
}

func TestIsCompleteEmptyTheme(t *testing.T) {
	idx := catalog.MustSample()
	store := NewAnswerStore()
	assert.True(t, IsComplete(Resolve("professional", idx, store), store))
}
