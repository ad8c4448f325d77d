package assistant

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rmcastle/fieldops/pkg/conversation"
	"github.com/rmcastle/fieldops/pkg/logger"
	"github.com/rmcastle/fieldops/pkg/llm"
)

const historyWindow = 6

// sessionState is the per-session dialogue state. The mutex gives strict
// turn ordering: a turn fully resolves before the next one is accepted.
type sessionState struct {
	mu      sync.Mutex
	pending *PendingCommand
}

// Manager owns the dialogue sessions. It is an explicit object handed to
// callers, never a package-level singleton, so independent managers (and
// their sessions) run concurrently without shared state.
type Manager struct {
	registry      *Registry
	classifier    *Classifier
	extractor     *Extractor
	engine        *Engine
	dispatcher    *Dispatcher
	handlers      map[PendingAction]PendingHandler
	conversations conversation.Repository
	logger        logger.Logger

	mu       sync.Mutex
	sessions map[string]*sessionState
}

// NewManager wires the dialogue core. conversations may be nil when no
// history store is available.
func NewManager(completer llm.Completer, executor CommandExecutor, catalog Catalog, conversations conversation.Repository, log logger.Logger) *Manager {
	registry := NewRegistry()
	return &Manager{
		registry:      registry,
		classifier:    NewClassifier(registry, completer, log),
		extractor:     NewExtractor(registry, completer, log),
		engine:        NewEngine(NewFlowTable(), catalog, log),
		dispatcher:    NewDispatcher(executor, log),
		handlers:      NewHandlerTable(),
		conversations: conversations,
		logger:        log,
		sessions:      make(map[string]*sessionState),
	}
}

// Registry exposes the action schema table
func (m *Manager) Registry() *Registry { return m.registry }

// Classifier exposes the intent classifier for the NLU endpoints
func (m *Manager) Classifier() *Classifier { return m.classifier }

// Extractor exposes the parameter extractor for the NLU endpoints
func (m *Manager) Extractor() *Extractor { return m.extractor }

func (m *Manager) session(id string) *sessionState {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		s = &sessionState{}
		m.sessions[id] = s
	}
	return s
}

// HasPending reports whether the session is mid-dialogue
func (m *Manager) HasPending(sessionID string) bool {
	s := m.session(sessionID)
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending != nil
}

// ProcessTurn consumes one user message for the session and returns the
// dialogue outcome. Any pending command always governs interpretation: a
// new instruction arriving mid-dialogue is read as a reply, not as a
// parallel command.
func (m *Manager) ProcessTurn(ctx context.Context, sessionID, text string) (*Outcome, error) {
	s := m.session(sessionID)
	s.mu.Lock()
	defer s.mu.Unlock()

	m.recordMessage(ctx, sessionID, "user", text)

	var out *Outcome
	var err error
	if s.pending != nil {
		out, err = m.advancePending(ctx, sessionID, s, text)
	} else {
		out, err = m.startCommand(ctx, sessionID, s, text)
	}
	if err != nil {
		return nil, err
	}

	s.pending = out.Pending
	m.recordMessage(ctx, sessionID, "assistant", out.Message)
	return out, nil
}

func (m *Manager) advancePending(ctx context.Context, sessionID string, s *sessionState, text string) (*Outcome, error) {
	action := s.pending.PendingAction
	handler, ok := m.handlers[action]
	if !ok {
		// unknown state is unrecoverable; drop it rather than loop
		m.logger.Error("no handler for pending action %s, discarding", action)
		s.pending = nil
		return nil, fmt.Errorf("unknown pending action: %s", action)
	}

	// handlers work on a clone so a failed turn leaves the stored state
	// untouched and the same prompt can be answered again
	work := s.pending.Clone()
	return handler.Advance(ctx, m.handlerEnv(), sessionID, work, text)
}

func (m *Manager) startCommand(ctx context.Context, sessionID string, s *sessionState, text string) (*Outcome, error) {
	cls, err := m.classifier.Classify(ctx, text, &ClassifyContext{
		Freeform: m.historyContext(ctx, sessionID),
	})
	if err != nil {
		return nil, err
	}

	if cls.Action == ActionUnclear {
		return &Outcome{Message: "Sorry, I didn't catch what you want to do. Try something like \"add 5 M10 nuts to rack 1\" or \"book a job for Mrs Hughes\"."}, nil
	}

	ext, err := m.extractor.Extract(ctx, text, cls.Action, "")
	if err != nil {
		return nil, err
	}

	if len(ext.MissingRequired) > 0 {
		pending := &PendingCommand{
			Action:        cls.Action,
			Parameters:    copyParams(ext.Parameters),
			MissingFields: append([]string(nil), ext.MissingRequired...),
			PendingAction: PendingMissingFields,
			Context:       ContextFromParams(ext.Parameters),
			Prompt:        missingFieldsPrompt(cls.Action, ext.MissingRequired),
		}
		return &Outcome{Message: pending.Prompt, Pending: pending}, nil
	}

	return m.dispatcher.Dispatch(ctx, sessionID, cls.Action, ext.Parameters)
}

func (m *Manager) handlerEnv() *HandlerEnv {
	return &HandlerEnv{
		Registry:   m.registry,
		Classifier: m.classifier,
		Extractor:  m.extractor,
		Engine:     m.engine,
		Dispatcher: m.dispatcher,
		Logger:     m.logger,
	}
}

// historyContext builds a short rolling window of recent turns used only
// to help the classifier read bare replies
func (m *Manager) historyContext(ctx context.Context, sessionID string) string {
	if m.conversations == nil {
		return ""
	}
	messages, err := m.conversations.GetUserHistory(ctx, sessionID, historyWindow, 0)
	if err != nil {
		m.logger.Error("error loading conversation history: %v", err)
		return ""
	}
	if len(messages) == 0 {
		return ""
	}

	var b strings.Builder
	// newest first in storage, oldest first in the prompt
	for i := len(messages) - 1; i >= 0; i-- {
		fmt.Fprintf(&b, "%s: %s\n", messages[i].Role, messages[i].Content)
	}
	return b.String()
}

func (m *Manager) recordMessage(ctx context.Context, sessionID, role, content string) {
	if m.conversations == nil || content == "" {
		return
	}
	err := m.conversations.SaveMessage(ctx, &conversation.Message{
		ID:        uuid.New().String(),
		UserID:    sessionID,
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	})
	if err != nil {
		m.logger.Error("error saving conversation message: %v", err)
	}
}
