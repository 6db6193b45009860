// Package engine holds the response-and-visibility core of a survey session:
// the answer store, the visibility resolver, the completion check and the
// progression controller, tied together by Session.
package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"surveyflow/internal/catalog"
	"surveyflow/internal/model"
)

// ErrUnknownTheme is returned when restoring a state that points at a theme
// the catalog does not have
var ErrUnknownTheme = errors.New("unknown theme")

// Session is one respondent's pass through a catalog
type Session struct {
	id     string
	idx    *catalog.Index
	store  *AnswerStore
	themes *themeState
	ctrl   *Controller

	mu        sync.RWMutex
	observers []func(model.SessionView)
}

// NewSession starts a session on the first theme of idx
func NewSession(id string, idx *catalog.Index, persister Persister, notifier Notifier) *Session {
	s := &Session{
		id:     id,
		idx:    idx,
		store:  NewAnswerStore(),
		themes: newThemeState(idx),
	}
	s.ctrl = newController(idx, s.store, s.themes, persister, notifier, s.publish)
	s.store.OnChange(func(string) { s.publish() })
	return s
}

// RestoreSession rebuilds a session from a saved state
func RestoreSession(idx *catalog.Index, state *model.SessionState, persister Persister, notifier Notifier) (*Session, error) {
	if _, ok := idx.Theme(state.CurrentTheme); !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTheme, state.CurrentTheme)
	}

	s := &Session{
		id:     state.ID,
		idx:    idx,
		store:  NewAnswerStore(),
		themes: newThemeState(idx),
	}
	s.themes.current = state.CurrentTheme
	for themeID, done := range state.Completed {
		if _, ok := idx.Theme(themeID); ok {
			s.themes.completed[themeID] = done
		}
	}
	for _, a := range state.Answers {
		s.store.Upsert(a.QuestionID, a.Answer)
	}

	s.ctrl = newController(idx, s.store, s.themes, persister, notifier, s.publish)
	s.store.OnChange(func(string) { s.publish() })
	return s, nil
}

// ID returns the session id
func (s *Session) ID() string { return s.id }

// Catalog returns the catalog the session runs on
func (s *Session) Catalog() *catalog.Index { return s.idx }

// CurrentTheme returns the id of the current theme
func (s *Session) CurrentTheme() string { return s.themes.Current() }

// IsCompleted reports the completion flag of a theme
func (s *Session) IsCompleted(themeID string) bool { return s.themes.IsCompleted(themeID) }

// Busy reports whether an advance is in flight
func (s *Session) Busy() bool { return s.ctrl.Busy() }

// Answer returns the stored answer for a question
func (s *Session) Answer(questionID string) (string, bool) { return s.store.Get(questionID) }

// Visible resolves the visible questions of the current theme
func (s *Session) Visible() []model.Question {
	return Resolve(s.themes.Current(), s.idx, s.store)
}

// OnAnswer records an answer
func (s *Session) OnAnswer(questionID, value string) {
	s.store.Upsert(questionID, value)
}

// OnThemeSelect switches to a completed theme. Selecting an unknown or
// incomplete theme does nothing and returns false.
func (s *Session) OnThemeSelect(themeID string) bool {
	if !s.themes.selectTheme(themeID) {
		return false
	}
	s.publish()
	return true
}

// OnAdvance runs the progression controller
func (s *Session) OnAdvance(ctx context.Context) AdvanceResult {
	return s.ctrl.Advance(ctx)
}

// Observe registers fn to receive a fresh view after every change
func (s *Session) Observe(fn func(model.SessionView)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, fn)
}

func (s *Session) publish() {
	s.mu.RLock()
	observers := s.observers
	s.mu.RUnlock()
	if len(observers) == 0 {
		return
	}

	view := s.View()
	for _, fn := range observers {
		fn(view)
	}
}

// View assembles what a renderer needs right now
func (s *Session) View() model.SessionView {
	current, flags := s.themes.snapshot()
	theme, _ := s.idx.Theme(current)
	visible := Resolve(current, s.idx, s.store)

	answers := make(map[string]string, len(visible))
	for i := range visible {
		if a, ok := s.store.Get(visible[i].ID); ok {
			answers[visible[i].ID] = a
		}
	}

	themes := make([]model.ThemeStatus, 0, len(s.idx.Themes()))
	for _, t := range s.idx.Themes() {
		themes = append(themes, model.ThemeStatus{
			ID:        t.ID,
			Title:     t.Title,
			Completed: flags[t.ID],
			Current:   t.ID == current,
		})
	}

	return model.SessionView{
		SessionID:        s.id,
		ThemeID:          current,
		ThemeTitle:       theme.Title,
		ThemeDescription: theme.Description,
		Questions:        visible,
		Answers:          answers,
		Themes:           themes,
		Busy:             s.ctrl.Busy(),
	}
}

// State exports the session for caching
func (s *Session) State() *model.SessionState {
	current, flags := s.themes.snapshot()
	return &model.SessionState{
		ID:           s.id,
		CatalogID:    s.idx.ID(),
		CurrentTheme: current,
		Completed:    flags,
		Answers:      s.store.Snapshot(),
		UpdatedAt:    time.Now(),
	}
}
