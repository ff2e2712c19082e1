// Package session drives the lifecycle of a single practice attempt.
package session

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/codetype-dev/codetype/internal/model"
	"github.com/codetype-dev/codetype/internal/scoring"
)

// Status is the lifecycle state of a practice attempt.
type Status string

const (
	StatusNotStarted Status = "not_started"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusAbandoned  Status = "abandoned"
)

// InvalidStateError reports a lifecycle transition attempted from the
// wrong state.
type InvalidStateError struct {
	Op    string
	State Status
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("cannot %s session in state %q", e.Op, e.State)
}

// Settings configures one practice attempt. TimeLimitSeconds of zero
// means no limit.
type Settings struct {
	TimeLimitSeconds int
	AllowBackspace   bool
	StrictMode       bool
}

// NewSettings validates the given values and applies defaults: no time
// limit, backspace allowed, strict mode off.
func NewSettings(timeLimitSeconds int, allowBackspace, strictMode bool) (Settings, error) {
	if timeLimitSeconds < 0 {
		return Settings{}, fmt.Errorf("time limit must be >= 0, got %d", timeLimitSeconds)
	}
	return Settings{
		TimeLimitSeconds: timeLimitSeconds,
		AllowBackspace:   allowBackspace,
		StrictMode:       strictMode,
	}, nil
}

// DefaultSettings returns the neutral settings used when nothing is
// configured.
func DefaultSettings() Settings {
	return Settings{AllowBackspace: true}
}

// Session is the state machine around one attempt at one study book.
// Transitions are not_started -> in_progress -> completed or abandoned;
// terminal states are final. The session never runs timers of its own:
// time-limit expiry is polled by the caller via TimeExpired.
type Session struct {
	id        string
	book      model.StudyBook
	settings  Settings
	status    Status
	startTime time.Time
	endTime   time.Time
	result    *scoring.Result

	now func() time.Time
}

// New creates an unstarted session for the given study book.
func New(book model.StudyBook, settings Settings) *Session {
	return &Session{
		id:       uuid.NewString(),
		book:     book,
		settings: settings,
		status:   StatusNotStarted,
		now:      time.Now,
	}
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Book returns the study book under practice.
func (s *Session) Book() model.StudyBook { return s.book }

// Settings returns the attempt settings.
func (s *Session) Settings() Settings { return s.settings }

// Status returns the current lifecycle state.
func (s *Session) Status() Status { return s.status }

// Result returns the scoring result once completed, nil otherwise.
func (s *Session) Result() *scoring.Result { return s.result }

// Start moves the session into progress and stamps the start time.
func (s *Session) Start() error {
	if s.status != StatusNotStarted {
		return &InvalidStateError{Op: "start", State: s.status}
	}
	s.startTime = s.now()
	s.status = StatusInProgress
	return nil
}

// Complete scores the typed text against the study book question and
// moves the session into its terminal completed state.
func (s *Session) Complete(typed string) (scoring.Result, error) {
	if s.status != StatusInProgress {
		return scoring.Result{}, &InvalidStateError{Op: "complete", State: s.status}
	}
	s.endTime = s.now()
	elapsed := s.endTime.Sub(s.startTime).Milliseconds()
	result := scoring.Score(s.book.Question, typed, elapsed)
	s.result = &result
	s.status = StatusCompleted
	return result, nil
}

// Abandon ends the session without a result.
func (s *Session) Abandon() error {
	if s.status != StatusInProgress {
		return &InvalidStateError{Op: "abandon", State: s.status}
	}
	s.endTime = s.now()
	s.status = StatusAbandoned
	return nil
}

// Elapsed returns the time since Start, frozen at the end time once the
// session is terminal. The second return is false before Start.
func (s *Session) Elapsed() (time.Duration, bool) {
	switch s.status {
	case StatusNotStarted:
		return 0, false
	case StatusInProgress:
		return s.now().Sub(s.startTime), true
	default:
		return s.endTime.Sub(s.startTime), true
	}
}

// TimeExpired reports whether the configured time limit has run out.
// Always false without a limit; the caller decides what to do about it.
func (s *Session) TimeExpired() bool {
	if s.settings.TimeLimitSeconds <= 0 {
		return false
	}
	elapsed, ok := s.Elapsed()
	if !ok {
		return false
	}
	return elapsed > time.Duration(s.settings.TimeLimitSeconds)*time.Second
}

// StartTime returns the start timestamp; zero before Start.
func (s *Session) StartTime() time.Time { return s.startTime }
