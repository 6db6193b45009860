// Package catalog indexes validated survey catalogs for fast lookup by the
// engine: themes in order, base questions per theme and every question by id.
package catalog

import "surveyflow/internal/model"

// Index is a read-only view over a validated catalog
type Index struct {
	catalog    *model.Catalog
	themeOrder map[string]int
	base       map[string][]model.Question
	questions  map[string]*model.Question
}

// New validates c and builds an index over it. The index keeps a reference to
// c, so c must not be mutated afterwards.
func New(c *model.Catalog) (*Index, error) {
	if err := Validate(c); err != nil {
		return nil, err
	}

	idx := &Index{
		catalog:    c,
		themeOrder: make(map[string]int, len(c.Themes)),
		base:       make(map[string][]model.Question, len(c.Themes)),
		questions:  make(map[string]*model.Question),
	}
	for i, t := range c.Themes {
		idx.themeOrder[t.ID] = i
	}
	for i := range c.Questions {
		q := &c.Questions[i]
		idx.base[q.ThemeID] = append(idx.base[q.ThemeID], *q)
		idx.register(q)
	}
	return idx, nil
}

func (idx *Index) register(q *model.Question) {
	idx.questions[q.ID] = q
	for i := range q.ConditionalQuestions {
		idx.register(&q.ConditionalQuestions[i])
	}
}

// ID returns the catalog id
func (idx *Index) ID() string {
	return idx.catalog.ID
}

// Catalog returns the underlying catalog
func (idx *Index) Catalog() *model.Catalog {
	return idx.catalog
}

// Themes returns the themes in catalog order
func (idx *Index) Themes() []model.Theme {
	return idx.catalog.Themes
}

// Theme looks up a theme by id
func (idx *Index) Theme(id string) (model.Theme, bool) {
	i, ok := idx.themeOrder[id]
	if !ok {
		return model.Theme{}, false
	}
	return idx.catalog.Themes[i], true
}

// FirstTheme returns the id of the first theme
func (idx *Index) FirstTheme() string {
	return idx.catalog.Themes[0].ID
}

// NextTheme returns the theme immediately after id in catalog order
func (idx *Index) NextTheme(id string) (string, bool) {
	i, ok := idx.themeOrder[id]
	if !ok || i+1 >= len(idx.catalog.Themes) {
		return "", false
	}
	return idx.catalog.Themes[i+1].ID, true
}

// BaseQuestions returns the base questions of a theme in catalog order
func (idx *Index) BaseQuestions(themeID string) []model.Question {
	return idx.base[themeID]
}

// Question looks up any question, base or conditional, by id
func (idx *Index) Question(id string) (*model.Question, bool) {
	q, ok := idx.questions[id]
	return q, ok
}
