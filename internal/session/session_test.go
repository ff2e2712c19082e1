package session

import (
	"errors"
	"testing"
	"time"

	"github.com/codetype-dev/codetype/internal/model"
)

func testBook() model.StudyBook {
	return model.StudyBook{
		ID:       "sb-1",
		Language: "javascript",
		Question: "console.log('Hi');",
	}
}

// fakeClock lets tests advance session time deterministically.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestSession(settings Settings) (*Session, *fakeClock) {
	s := New(testBook(), settings)
	clock := &fakeClock{t: time.Unix(1700000000, 0)}
	s.now = clock.now
	return s, clock
}

func TestLifecycleHappyPath(t *testing.T) {
	s, clock := newTestSession(DefaultSettings())
	if s.Status() != StatusNotStarted {
		t.Fatalf("expected not_started, got %s", s.Status())
	}
	if _, ok := s.Elapsed(); ok {
		t.Fatalf("expected no elapsed time before start")
	}
	if err := s.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	clock.advance(5 * time.Second)
	res, err := s.Complete("console.log('Hi');")
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if !res.IsComplete || res.Accuracy != 100 {
		t.Fatalf("unexpected result: %+v", res)
	}
	if res.DurationMs != 5000 {
		t.Fatalf("expected 5000ms, got %d", res.DurationMs)
	}
	if s.Status() != StatusCompleted {
		t.Fatalf("expected completed, got %s", s.Status())
	}
	if s.Result() == nil {
		t.Fatalf("expected stored result")
	}
}

func TestStartTwiceFails(t *testing.T) {
	s, _ := newTestSession(DefaultSettings())
	if err := s.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	err := s.Start()
	var ise *InvalidStateError
	if !errors.As(err, &ise) {
		t.Fatalf("expected InvalidStateError, got %v", err)
	}
	if ise.Op != "start" || ise.State != StatusInProgress {
		t.Fatalf("unexpected error detail: %+v", ise)
	}
}

func TestCompleteBeforeStartFails(t *testing.T) {
	s, _ := newTestSession(DefaultSettings())
	_, err := s.Complete("x")
	var ise *InvalidStateError
	if !errors.As(err, &ise) {
		t.Fatalf("expected InvalidStateError, got %v", err)
	}
}

func TestNoTransitionOutOfTerminal(t *testing.T) {
	s, _ := newTestSession(DefaultSettings())
	if err := s.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := s.Abandon(); err != nil {
		t.Fatalf("abandon: %v", err)
	}
	if s.Status() != StatusAbandoned {
		t.Fatalf("expected abandoned, got %s", s.Status())
	}
	if s.Result() != nil {
		t.Fatalf("abandoned session must not carry a result")
	}
	if _, err := s.Complete("x"); err == nil {
		t.Fatalf("expected error completing abandoned session")
	}
	if err := s.Abandon(); err == nil {
		t.Fatalf("expected error abandoning twice")
	}
}

func TestElapsedFrozenAfterTerminal(t *testing.T) {
	s, clock := newTestSession(DefaultSettings())
	if err := s.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	clock.advance(3 * time.Second)
	if err := s.Abandon(); err != nil {
		t.Fatalf("abandon: %v", err)
	}
	clock.advance(time.Minute)
	elapsed, ok := s.Elapsed()
	if !ok || elapsed != 3*time.Second {
		t.Fatalf("expected frozen 3s, got %v ok=%v", elapsed, ok)
	}
}

func TestTimeExpired(t *testing.T) {
	settings, err := NewSettings(10, true, false)
	if err != nil {
		t.Fatalf("settings: %v", err)
	}
	s, clock := newTestSession(settings)
	if s.TimeExpired() {
		t.Fatalf("unstarted session must not be expired")
	}
	if err := s.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	clock.advance(9 * time.Second)
	if s.TimeExpired() {
		t.Fatalf("expired before the limit")
	}
	clock.advance(2 * time.Second)
	if !s.TimeExpired() {
		t.Fatalf("expected expiry past the limit")
	}
}

func TestNoLimitNeverExpires(t *testing.T) {
	s, clock := newTestSession(DefaultSettings())
	if err := s.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	clock.advance(24 * time.Hour)
	if s.TimeExpired() {
		t.Fatalf("session without limit must never expire")
	}
}

func TestNewSettingsRejectsNegativeLimit(t *testing.T) {
	if _, err := NewSettings(-1, true, false); err == nil {
		t.Fatalf("expected error for negative time limit")
	}
}
