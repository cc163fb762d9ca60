package checkout

import (
	"context"
	"fmt"

	"storefront/internal/model"
	"storefront/internal/repository"

	"github.com/rs/zerolog"
)

// Session is one checkout session's step state bound to its store.
//
// Save is a no-op until Load has run, so a fresh request can never overwrite
// the state a previous request persisted.
type Session struct {
	store     repository.CheckoutStateRepository
	sessionID string
	state     *model.CheckoutState
	loaded    bool
	logger    zerolog.Logger
}

// NewSession creates an unloaded session.
func NewSession(store repository.CheckoutStateRepository, sessionID string, logger zerolog.Logger) *Session {
	return &Session{
		store:     store,
		sessionID: sessionID,
		state:     model.NewCheckoutState(),
		logger:    logger,
	}
}

// Open creates a session and restores its persisted state.
func Open(ctx context.Context, store repository.CheckoutStateRepository, sessionID string, logger zerolog.Logger) (*Session, error) {
	s := NewSession(store, sessionID, logger)
	if err := s.Load(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Load restores the persisted state, keeping the initial state when none exists.
func (s *Session) Load(ctx context.Context) error {
	state, err := s.store.Load(ctx, s.sessionID)
	if err != nil {
		return fmt.Errorf("failed to load checkout state: %w", err)
	}
	if state != nil {
		if !Valid(state.CurrentStep) {
			s.logger.Warn().
				Str("session_id", s.sessionID).
				Str("step", string(state.CurrentStep)).
				Msg("discarding checkout state with unknown step")
			state = model.NewCheckoutState()
		}
		s.state = state
	}
	s.loaded = true
	return nil
}

// State returns the live state.
func (s *Session) State() *model.CheckoutState {
	return s.state
}

// Save persists the whole state bundle.
func (s *Session) Save(ctx context.Context) error {
	if !s.loaded {
		s.logger.Debug().Str("session_id", s.sessionID).Msg("skipping save before state restore")
		return nil
	}
	if err := s.store.Save(ctx, s.sessionID, s.state); err != nil {
		return fmt.Errorf("failed to save checkout state: %w", err)
	}
	return nil
}

// Reset discards the persisted state and starts over.
func (s *Session) Reset(ctx context.Context) error {
	s.state = model.NewCheckoutState()
	if err := s.store.Delete(ctx, s.sessionID); err != nil {
		return fmt.Errorf("failed to reset checkout state: %w", err)
	}
	s.loaded = true
	return nil
}
