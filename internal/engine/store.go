package engine

import (
	"sort"
	"sync"

	"surveyflow/internal/model"
)

// AnswerLookup is the read side of an answer store
type AnswerLookup interface {
	Get(questionID string) (string, bool)
}

type storedAnswer struct {
	value string
	seq   uint64
}

// AnswerStore maps question ids to answers with upsert semantics. It is safe
// for concurrent use.
type AnswerStore struct {
	mu        sync.RWMutex
	answers   map[string]storedAnswer
	seq       uint64
	observers []func(questionID string)
}

// NewAnswerStore creates an empty answer store
func NewAnswerStore() *AnswerStore {
	return &AnswerStore{
		answers: make(map[string]storedAnswer),
	}
}

// Upsert inserts or replaces the answer for questionID, then notifies
// observers. Any content, including the empty string, is accepted.
func (s *AnswerStore) Upsert(questionID, answer string) {
	s.mu.Lock()
	s.seq++
	s.answers[questionID] = storedAnswer{value: answer, seq: s.seq}
	observers := s.observers
	s.mu.Unlock()

	for _, fn := range observers {
		fn(questionID)
	}
}

// Get returns the answer for questionID and whether one exists
func (s *AnswerStore) Get(questionID string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.answers[questionID]
	return a.value, ok
}

// Len returns the number of answered questions
func (s *AnswerStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.answers)
}

// Snapshot returns every answer ordered by last write, oldest first
func (s *AnswerStore) Snapshot() []model.Answer {
	s.mu.RLock()
	type entry struct {
		id string
		storedAnswer
	}
	entries := make([]entry, 0, len(s.answers))
	for id, a := range s.answers {
		entries = append(entries, entry{id: id, storedAnswer: a})
	}
	s.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool { return entries[i].seq < entries[j].seq })

	out := make([]model.Answer, len(entries))
	for i, e := range entries {
		out[i] = model.Answer{QuestionID: e.id, Answer: e.value}
	}
	return out
}

// OnChange registers fn to run after every upsert, outside the store lock
func (s *AnswerStore) OnChange(fn func(questionID string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, fn)
}
