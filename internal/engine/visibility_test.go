package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"surveyflow/internal/catalog"
	"surveyflow/internal/model"
)

func ids(qs []model.Question) []string {
	out := make([]string, len(qs))
	for i, q := range qs {
		out[i] = q.ID
	}
	return out
}

func TestResolveSampleScenario(t *testing.T) {
	idx := catalog.MustSample()
	store := NewAnswerStore()

	assert.Equal(t, []string{"q1", "q2"}, ids(Resolve("personal", idx, store)))

	store.Upsert("q1", "Yes")
	assert.Equal(t, []string{"q1", "q2", "q1a"}, ids(Resolve("personal", idx, store)))

	store.Upsert("q1", "No")
	assert.Equal(t, []string{"q1", "q2"}, ids(Resolve("personal", idx, store)), "no sticky reveal")
}

func TestResolveIsExactMatch(t *testing.T) {
	idx := catalog.MustSample()

	for _, answer := range []string{"yes", "YES", " Yes", "Yes ", "Yes\n", ""} {
		store := NewAnswerStore()
		store.Upsert("q1", answer)
		assert.NotContains(t, ids(Resolve("personal", idx, store)), "q1a", "answer %q must not unlock", answer)
	}

	store := NewAnswerStore()
	store.Upsert("q1", "Yes")
	assert.Contains(t, ids(Resolve("personal", idx, store)), "q1a")
}

func TestResolveIsIdempotent(t *testing.T) {
	idx := catalog.MustSample()
	store := NewAnswerStore()
	store.Upsert("q1", "Yes")

	first := Resolve("personal", idx, store)
	second := Resolve("personal", idx, store)
	assert.Equal(t, first, second)
}

func TestResolveOtherThemes(t *testing.T) {
	idx := catalog.MustSample()
	store := NewAnswerStore()
	store.Upsert("q1", "Yes")

	assert.Empty(t, Resolve("professional", idx, store))
	assert.Empty(t, Resolve("unknown", idx, store))
}

// multiCatalog has two base questions with conditionals, to pin the ordering
// of triggered conditionals after all base questions.
func multiCatalog(t *testing.T) *catalog.Index {
	t.Helper()
	c := &model.Catalog{
		ID:     "multi",
		Themes: []model.Theme{{ID: "t1", Title: "One"}, {ID: "t2", Title: "Two"}},
		Questions: []model.Question{
			{
				ID: "a", ThemeID: "t1", Kind: model.KindMultipleChoice, Text: "A?", Options: []string{"Yes", "No"},
				ConditionalQuestions: []model.Question{
					{ID: "a1", ThemeID: "t1", Kind: model.KindOpenEnded, Text: "A1", DependsOn: &model.UnlockPredicate{QuestionID: "a", Answer: "Yes"}},
					{ID: "a2", ThemeID: "t1", Kind: model.KindOpenEnded, Text: "A2", DependsOn: &model.UnlockPredicate{QuestionID: "a", Answer: "No"}},
					{ID: "a3", ThemeID: "t1", Kind: model.KindOpenEnded, Text: "A3", DependsOn: &model.UnlockPredicate{QuestionID: "a", Answer: "Yes"},
						ConditionalQuestions: []model.Question{
							{ID: "a3x", ThemeID: "t1", Kind: model.KindOpenEnded, Text: "A3x", DependsOn: &model.UnlockPredicate{QuestionID: "a3", Answer: "more"}},
						},
					},
				},
			},
			{ID: "b", ThemeID: "t1", Kind: model.KindOpenEnded, Text: "B?",
				ConditionalQuestions: []model.Question{
					{ID: "b1", ThemeID: "t1", Kind: model.KindOpenEnded, Text: "B1", DependsOn: &model.UnlockPredicate{QuestionID: "b", Answer: "go"}},
				},
			},
			{ID: "c", ThemeID: "t2", Kind: model.KindOpenEnded, Text: "C?"},
		},
	}
	idx, err := catalog.New(c)
	require.NoError(t, err)
	return idx
}

func TestResolveOrdersConditionalsAfterBaseQuestions(t *testing.T) {
	idx := multiCatalog(t)
	store := NewAnswerStore()
	store.Upsert("b", "go")
	store.Upsert("a", "Yes")

	assert.Equal(t, []string{"a", "b", "a1", "a3", "b1"}, ids(Resolve("t1", idx, store)))
}

func TestResolveExpandsNestedConditionalsLevelByLevel(t *testing.T) {
	idx := multiCatalog(t)
	store := NewAnswerStore()
	store.Upsert("a", "Yes")
	store.Upsert("a3", "more")
	store.Upsert("b", "go")

	assert.Equal(t, []string{"a", "b", "a1", "a3", "b1", "a3x"}, ids(Resolve("t1", idx, store)))

	store.Upsert("a", "No")
	got := ids(Resolve("t1", idx, store))
	assert.NotContains(t, got, "a3x", "a hidden conditional does not expose its children")
	assert.NotContains(t, got, "a3")
}

// The owning question's answer decides, even when the predicate names a
// sibling.
func TestResolveEvaluatesAgainstOwningQuestion(t *testing.T) {
	c := &model.Catalog{
		ID:     "siblings",
		Themes: []model.Theme{{ID: "t1", Title: "One"}},
		Questions: []model.Question{
			{
				ID: "q1", ThemeID: "t1", Kind: model.KindOpenEnded, Text: "Q1?",
				ConditionalQuestions: []model.Question{
					{ID: "q1a", ThemeID: "t1", Kind: model.KindOpenEnded, Text: "Q1a", DependsOn: &model.UnlockPredicate{QuestionID: "q2", Answer: "Yes"}},
				},
			},
			{ID: "q2", ThemeID: "t1", Kind: model.KindOpenEnded, Text: "Q2?"},
		},
	}
	idx, err := catalog.New(c)
	require.NoError(t, err)

	store := NewAnswerStore()
	store.Upsert("q2", "Yes")
	assert.Equal(t, []string{"q1", "q2"}, ids(Resolve("t1", idx, store)), "q1 is unanswered")

	store.Upsert("q1", "Yes")
	store.Upsert("q2", "No")
	assert.Equal(t, []string{"q1", "q2", "q1a"}, ids(Resolve("t1", idx, store)))
}

// Answers are never cleared, so a conditional question hidden and shown again
// keeps its answer, and its own children come back with it.
func TestResolveStaleAnswersReturnWithTheirQuestion(t *testing.T) {
	idx := multiCatalog(t)
	store := NewAnswerStore()
	store.Upsert("a", "Yes")
	store.Upsert("a3", "more")

	store.Upsert("a", "No")
	got := ids(Resolve("t1", idx, store))
	assert.Equal(t, []string{"a", "b", "a2"}, got)

	store.Upsert("a", "Yes")
	assert.Equal(t, []string{"a", "b", "a1", "a3", "a3x"}, ids(Resolve("t1", idx, store)))
}
