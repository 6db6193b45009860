package engine

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"surveyflow/internal/catalog"
	"surveyflow/internal/model"
)

// Persister is the remote persistence endpoint. Implementations must be safe
// to call again with the same snapshot.
type Persister interface {
	SaveProgress(ctx context.Context, answers []model.Answer) error
}

// PersisterFunc adapts a function to Persister
type PersisterFunc func(ctx context.Context, answers []model.Answer) error

func (f PersisterFunc) SaveProgress(ctx context.Context, answers []model.Answer) error {
	return f(ctx, answers)
}

// AdvanceResult describes one call to Advance
type AdvanceResult struct {
	Outcome      model.AdvanceOutcome
	Notification *model.Notification
	Unanswered   []string
	Err          error // ErrIncomplete or a *PersistenceError; already reported through the notifier
}

// themeState holds the current theme pointer and the completion flags.
// Flags are only written by Controller.
type themeState struct {
	mu        sync.RWMutex
	current   string
	completed map[string]bool
}

func newThemeState(idx *catalog.Index) *themeState {
	ts := &themeState{
		current:   idx.FirstTheme(),
		completed: make(map[string]bool, len(idx.Themes())),
	}
	for _, t := range idx.Themes() {
		ts.completed[t.ID] = t.Completed
	}
	return ts
}

func (ts *themeState) Current() string {
	ts.mu.RLock()
	defer ts.mu.RUnlock()
	return ts.current
}

func (ts *themeState) IsCompleted(themeID string) bool {
	ts.mu.RLock()
	defer ts.mu.RUnlock()
	return ts.completed[themeID]
}

func (ts *themeState) snapshot() (string, map[string]bool) {
	ts.mu.RLock()
	defer ts.mu.RUnlock()
	flags := make(map[string]bool, len(ts.completed))
	for k, v := range ts.completed {
		flags[k] = v
	}
	return ts.current, flags
}

// selectTheme switches to themeID if it is known and completed.
func (ts *themeState) selectTheme(themeID string) bool {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	if !ts.completed[themeID] {
		return false
	}
	ts.current = themeID
	return true
}

func (ts *themeState) completeAndMove(from, to string) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.completed[from] = true
	ts.current = to
}

// Controller runs validate, persist, advance with at most one attempt in
// flight.
type Controller struct {
	idx       *catalog.Index
	store     *AnswerStore
	themes    *themeState
	persister Persister
	notifier  Notifier
	busy      atomic.Bool
	changed   func()
}

func newController(idx *catalog.Index, store *AnswerStore, themes *themeState, persister Persister, notifier Notifier, changed func()) *Controller {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	if changed == nil {
		changed = func() {}
	}
	return &Controller{
		idx:       idx,
		store:     store,
		themes:    themes,
		persister: persister,
		notifier:  notifier,
		changed:   changed,
	}
}

// Busy reports whether an advance is in flight
func (c *Controller) Busy() bool {
	return c.busy.Load()
}

// Advance validates the current theme, saves the full answer snapshot and
// moves to the next theme on success. A call made while another is in
// flight returns OutcomeBusy without side effects. The persistence call is
// detached from ctx cancellation and always runs to completion.
func (c *Controller) Advance(ctx context.Context) AdvanceResult {
	if !c.busy.CompareAndSwap(false, true) {
		return AdvanceResult{Outcome: model.OutcomeBusy}
	}

	res, persisted := c.advance(ctx)
	c.busy.Store(false)
	if persisted {
		c.changed()
	}
	return res
}

func (c *Controller) advance(ctx context.Context) (AdvanceResult, bool) {
	themeID := c.themes.Current()

	visible := Resolve(themeID, c.idx, c.store)
	if missing := Unanswered(visible, c.store); len(missing) > 0 {
		n := validationFailure()
		c.notifier.Notify(n)
		return AdvanceResult{
			Outcome:      model.OutcomeIncomplete,
			Notification: &n,
			Unanswered:   missing,
			Err:          ErrIncomplete,
		}, false
	}

	c.changed()

	answers := c.store.Snapshot()
	if err := c.save(context.WithoutCancel(ctx), answers); err != nil {
		n := persistenceFailure()
		c.notifier.Notify(n)
		return AdvanceResult{
			Outcome:      model.OutcomeFailed,
			Notification: &n,
			Err:          err,
		}, true
	}

	n := persistenceSuccess()
	c.notifier.Notify(n)

	next, ok := c.idx.NextTheme(themeID)
	if !ok {
		return AdvanceResult{Outcome: model.OutcomeCompleted, Notification: &n}, true
	}
	c.themes.completeAndMove(themeID, next)
	return AdvanceResult{Outcome: model.OutcomeAdvanced, Notification: &n}, true
}

func (c *Controller) save(ctx context.Context, answers []model.Answer) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PersistenceError{Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	if c.persister == nil {
		return &PersistenceError{Err: fmt.Errorf("no persister configured")}
	}
	if err := c.persister.SaveProgress(ctx, answers); err != nil {
		return &PersistenceError{Err: err}
	}
	return nil
}
