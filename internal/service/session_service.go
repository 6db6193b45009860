package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"surveyflow/internal/cache"
	"surveyflow/internal/engine"
	"surveyflow/internal/metrics"
	"surveyflow/internal/model"
	"surveyflow/internal/repository"
)

var (
	ErrSessionNotFound  = errors.New("session not found")
	ErrQuestionNotFound = errors.New("question not found")
)

const (
	cacheTimeout      = 2 * time.Second
	progressBoardSize = 50
)

// SessionService runs live survey sessions: it owns the registry of engine
// sessions and connects them to persistence, caches and websocket pushes
type SessionService struct {
	catalogSvc   *CatalogService
	authSvc      *AuthService
	progressRepo repository.ProgressRepo
	backend      string
	sessionCache cache.SessionCache       // optional
	boardCache   cache.ProgressBoardCache // optional
	metrics      *metrics.Metrics
	broadcaster  Broadcaster

	mu       sync.RWMutex
	sessions map[string]*liveSession
	now      func() time.Time
}

// liveSession is a registry entry. lastSeen is unix nanoseconds.
type liveSession struct {
	*engine.Session
	lastSeen atomic.Int64
}

func (s *SessionService) track(sess *engine.Session) *liveSession {
	live := &liveSession{Session: sess}
	live.lastSeen.Store(s.now().UnixNano())
	return live
}

// NewSessionService creates a new session service. backend labels the
// persistence metrics.
func NewSessionService(
	catalogSvc *CatalogService,
	authSvc *AuthService,
	progressRepo repository.ProgressRepo,
	backend string,
	sessionCache cache.SessionCache,
	boardCache cache.ProgressBoardCache,
	m *metrics.Metrics,
) *SessionService {
	return &SessionService{
		catalogSvc:   catalogSvc,
		authSvc:      authSvc,
		progressRepo: progressRepo,
		backend:      backend,
		sessionCache: sessionCache,
		boardCache:   boardCache,
		metrics:      m,
		sessions:     make(map[string]*liveSession),
		now:          time.Now,
	}
}

// SetBroadcaster sets the broadcaster for WebSocket events
func (s *SessionService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// Start opens a new session on a catalog and issues its respondent token
func (s *SessionService) Start(ctx context.Context, catalogID string) (*model.SessionStartResponse, error) {
	idx, err := s.catalogSvc.Index(ctx, catalogID)
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()
	token, err := s.authSvc.GenerateRespondentToken(id, idx.ID())
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	sess := engine.NewSession(id, idx, s.persister(id, idx.ID()), s.notifier(id))
	s.attach(sess)

	s.mu.Lock()
	s.sessions[id] = s.track(sess)
	s.mu.Unlock()

	s.metrics.SessionsStarted.WithLabelValues(idx.ID()).Inc()
	s.metrics.ActiveSessions.Inc()
	s.cacheState(sess)
	log.Printf("[Session] Started %s on catalog %s", id, idx.ID())

	view := sess.View()
	return &model.SessionStartResponse{
		SessionID: id,
		Token:     token,
		View:      &view,
	}, nil
}

// View returns the current view of a session
func (s *SessionService) View(ctx context.Context, sessionID string) (*model.SessionView, error) {
	sess, err := s.get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	view := sess.View()
	return &view, nil
}

// Answer records an answer. Unknown question ids are rejected here; the
// engine itself accepts any id.
func (s *SessionService) Answer(ctx context.Context, sessionID, questionID, value string) (*model.SessionView, error) {
	sess, err := s.get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if _, ok := sess.Catalog().Question(questionID); !ok {
		return nil, fmt.Errorf("%w: %s", ErrQuestionNotFound, questionID)
	}

	sess.OnAnswer(questionID, value)
	s.metrics.Answers.WithLabelValues(sess.Catalog().ID()).Inc()

	view := sess.View()
	return &view, nil
}

// SelectTheme switches to a completed theme; anything else is a no-op
func (s *SessionService) SelectTheme(ctx context.Context, sessionID, themeID string) (*model.ThemeSelectResponse, error) {
	sess, err := s.get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	selected := sess.OnThemeSelect(themeID)
	view := sess.View()
	return &model.ThemeSelectResponse{
		Selected: selected,
		View:     &view,
	}, nil
}

// Advance validates the current theme and, if complete, saves and moves on
func (s *SessionService) Advance(ctx context.Context, sessionID string) (*model.AdvanceResponse, error) {
	sess, err := s.get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	res := sess.OnAdvance(ctx)
	s.metrics.Advances.WithLabelValues(string(res.Outcome)).Inc()

	switch res.Outcome {
	case model.OutcomeAdvanced, model.OutcomeCompleted:
		s.updateBoard(sess, res.Outcome)
	case model.OutcomeFailed:
		log.Printf("[Session] Advance failed for %s: %v", sessionID, res.Err)
	}

	view := sess.View()
	return &model.AdvanceResponse{
		Outcome:      res.Outcome,
		Notification: res.Notification,
		Unanswered:   res.Unanswered,
		View:         &view,
	}, nil
}

// Progress returns the progress board of a catalog owned by hostID
func (s *SessionService) Progress(ctx context.Context, hostID, catalogID string) ([]model.ProgressEntry, error) {
	if err := s.catalogSvc.Owns(ctx, hostID, catalogID); err != nil {
		return nil, err
	}
	if s.boardCache == nil {
		return []model.ProgressEntry{}, nil
	}
	return s.boardCache.GetTop(ctx, catalogID, progressBoardSize)
}

// SavedProgress returns the last record written by the persistence endpoint
func (s *SessionService) SavedProgress(ctx context.Context, sessionID string) (*model.Progress, error) {
	p, err := s.progressRepo.GetProgress(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrSessionNotFound
	}
	return p, nil
}

// get looks a session up in the registry, falling back to the session cache
func (s *SessionService) get(ctx context.Context, sessionID string) (*engine.Session, error) {
	s.mu.RLock()
	live, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if ok {
		live.lastSeen.Store(s.now().UnixNano())
		return live.Session, nil
	}

	if s.sessionCache == nil {
		return nil, ErrSessionNotFound
	}
	state, err := s.sessionCache.Get(ctx, sessionID)
	if err != nil {
		s.metrics.Rehydrations.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("failed to read session cache: %w", err)
	}
	if state == nil {
		return nil, ErrSessionNotFound
	}

	idx, err := s.catalogSvc.Index(ctx, state.CatalogID)
	if err != nil {
		s.metrics.Rehydrations.WithLabelValues("error").Inc()
		return nil, err
	}
	restored, err := engine.RestoreSession(idx, state, s.persister(state.ID, idx.ID()), s.notifier(state.ID))
	if err != nil {
		s.metrics.Rehydrations.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("failed to restore session: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// Another request may have restored it first.
	if existing, ok := s.sessions[sessionID]; ok {
		existing.lastSeen.Store(s.now().UnixNano())
		return existing.Session, nil
	}
	s.attach(restored)
	s.sessions[sessionID] = s.track(restored)
	s.metrics.ActiveSessions.Inc()
	s.metrics.Rehydrations.WithLabelValues("ok").Inc()
	log.Printf("[Session] Restored %s from cache", sessionID)
	return restored, nil
}

// RunEviction calls EvictIdle every interval until ctx is done
func (s *SessionService) RunEviction(ctx context.Context, ttl, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.EvictIdle(ttl); n > 0 {
				log.Printf("[Session] Evicted %d idle sessions", n)
			}
		}
	}
}

// EvictIdle drops sessions not used for longer than ttl from memory and
// returns how many were dropped. Busy sessions are kept. An evicted session
// is restored from the session cache on its next request.
func (s *SessionService) EvictIdle(ttl time.Duration) int {
	cutoff := s.now().Add(-ttl).UnixNano()

	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for id, live := range s.sessions {
		if live.lastSeen.Load() >= cutoff || live.Busy() {
			continue
		}
		delete(s.sessions, id)
		s.metrics.ActiveSessions.Dec()
		evicted++
	}
	return evicted
}

// attach pushes every view change to the respondent and writes the state
// through to the session cache
func (s *SessionService) attach(sess *engine.Session) {
	sess.Observe(func(view model.SessionView) {
		if s.broadcaster != nil {
			s.broadcaster.BroadcastToSession(sess.ID(), MsgViewUpdated, view)
		}
		s.cacheState(sess)
	})
}

func (s *SessionService) cacheState(sess *engine.Session) {
	if s.sessionCache == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), cacheTimeout)
	defer cancel()
	if err := s.sessionCache.Set(ctx, sess.State()); err != nil {
		log.Printf("[Session] Failed to cache state of %s: %v", sess.ID(), err)
	}
}

func (s *SessionService) updateBoard(sess *engine.Session, outcome model.AdvanceOutcome) {
	if s.boardCache == nil {
		return
	}

	state := sess.State()
	completed := 0
	for _, done := range state.Completed {
		if done {
			completed++
		}
	}
	// The last theme is saved without its flag changing.
	if outcome == model.OutcomeCompleted && !state.Completed[state.CurrentTheme] {
		completed++
	}

	ctx, cancel := context.WithTimeout(context.Background(), cacheTimeout)
	defer cancel()
	if err := s.boardCache.UpdateCompleted(ctx, state.CatalogID, state.ID, completed); err != nil {
		log.Printf("[Session] Failed to update progress board: %v", err)
		return
	}
	if s.broadcaster == nil {
		return
	}
	top, err := s.boardCache.GetTop(ctx, state.CatalogID, progressBoardSize)
	if err != nil {
		log.Printf("[Session] Failed to read progress board: %v", err)
		return
	}
	s.broadcaster.BroadcastToHost(state.CatalogID, MsgProgressUpdate, top)
}

// persister adapts the progress repository to the engine's persistence call
func (s *SessionService) persister(sessionID, catalogID string) engine.Persister {
	return engine.PersisterFunc(func(ctx context.Context, answers []model.Answer) error {
		start := time.Now()
		err := s.progressRepo.SaveProgress(ctx, &model.Progress{
			SessionID: sessionID,
			CatalogID: catalogID,
			Answers:   answers,
			SavedAt:   start,
		})
		s.metrics.ObservePersist(s.backend, start, err)
		if err != nil {
			log.Printf("[Persist] Save failed for %s: %v", sessionID, err)
			return err
		}
		log.Printf("[Persist] Saved %d answers for %s", len(answers), sessionID)
		return nil
	})
}

// notifier forwards engine notifications to the respondent's websocket
func (s *SessionService) notifier(sessionID string) engine.Notifier {
	return engine.NotifierFunc(func(n model.Notification) {
		log.Printf("[Session] %s: %s (%s)", sessionID, n.Title, n.Kind)
		if s.broadcaster != nil {
			s.broadcaster.BroadcastToSession(sessionID, MsgNotification, n)
		}
	})
}

