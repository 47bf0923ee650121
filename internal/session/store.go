package session

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/PhilipNzube/stroke-prediction-app/internal/predict"
)

// Store owns the session state. It is created once per run and passed to
// every component that reads or changes it.
type Store struct {
	mu     sync.Mutex
	state  State
	subs   map[int]chan State
	nextID int
	logger *zap.Logger
	now    func() time.Time
}

// StoreOption customizes a Store.
type StoreOption func(*Store)

// WithLogger sets the logger that records state transitions.
func WithLogger(l *zap.Logger) StoreOption {
	return func(s *Store) { s.logger = l }
}

// WithClock sets the time source for settle timestamps.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) { s.now = now }
}

// NewStore returns a store in the initial state.
func NewStore(opts ...StoreOption) *Store {
	s := &Store{
		subs:   make(map[int]chan State),
		logger: zap.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dispatch applies msg and notifies subscribers.
func (s *Store) Dispatch(msg Msg) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.apply(msg)
}

func (s *Store) apply(msg Msg) {
	s.state = Reduce(s.state, msg)
	s.logger.Debug("session updated",
		zap.String("msg", msgName(msg)),
		zap.Bool("loading", s.state.Loading),
		zap.Bool("outcome", s.state.Outcome != nil),
		zap.Bool("error", s.state.Error != ""),
		zap.Uint64("generation", s.state.Generation))
	s.publish()
}

// SetLoading sets the loading flag.
func (s *Store) SetLoading(loading bool) { s.Dispatch(SetLoading{Loading: loading}) }

// SetSubmission records the payload being sent.
func (s *Store) SetSubmission(p predict.Payload) { s.Dispatch(SetSubmission{Payload: p}) }

// SetOutcome stores a result, clearing loading and error.
func (s *Store) SetOutcome(o *predict.Outcome) {
	s.Dispatch(SetOutcome{Outcome: o, At: s.now()})
}

// SetError stores a failure, clearing loading and outcome.
func (s *Store) SetError(message string) {
	s.Dispatch(SetError{Message: message, At: s.now()})
}

// ClearOutcome drops the result and the error.
func (s *Store) ClearOutcome() { s.Dispatch(ClearOutcome{}) }

// Reset returns to the initial state. Requests begun before the reset can
// no longer settle.
func (s *Store) Reset() { s.Dispatch(Reset{}) }

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// Generation returns the current generation.
func (s *Store) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Generation
}

// Ticket identifies a request begun in a given generation.
type Ticket struct {
	generation uint64
}

// Generation returns the generation the ticket was issued in.
func (t Ticket) Generation() uint64 { return t.generation }

// Begin marks a request as outstanding, clears the previous outcome and
// error, and returns its ticket. ok is false, and nothing changes, when
// another request is already outstanding.
func (s *Store) Begin() (t Ticket, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Loading {
		return Ticket{}, false
	}
	s.apply(StartRequest{})
	return Ticket{generation: s.state.Generation}, true
}

// Settle applies msg if the session is still in the ticket's generation.
// It reports false when the message was discarded as stale.
func (s *Store) Settle(t Ticket, msg Msg) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.generation != s.state.Generation {
		s.logger.Info("discarding stale response",
			zap.String("msg", msgName(msg)),
			zap.Uint64("ticket", t.generation),
			zap.Uint64("generation", s.state.Generation))
		return false
	}
	switch m := msg.(type) {
	case SetOutcome:
		if m.At.IsZero() {
			m.At = s.now()
		}
		msg = m
	case SetError:
		if m.At.IsZero() {
			m.At = s.now()
		}
		msg = m
	}
	s.apply(msg)
	return true
}

// Subscribe returns a channel that receives the state after every change,
// and a function that stops delivery and closes the channel. A slow reader
// only sees the latest state.
func (s *Store) Subscribe() (<-chan State, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	ch := make(chan State, 1)
	s.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.subs, id)
			close(ch)
		})
	}
	return ch, cancel
}

// publish must be called with mu held.
func (s *Store) publish() {
	for _, ch := range s.subs {
		snap := s.state.clone()
		select {
		case ch <- snap:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- snap
		}
	}
}

func msgName(msg Msg) string {
	switch msg.(type) {
	case SetLoading:
		return "set-loading"
	case StartRequest:
		return "start-request"
	case SetSubmission:
		return "set-submission"
	case SetOutcome:
		return "set-outcome"
	case SetError:
		return "set-error"
	case ClearOutcome:
		return "clear-outcome"
	case Reset:
		return "reset"
	}
	return "unknown"
}
