package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestSession_IsComplete(t *testing.T) {
	t.Parallel()

	s := &Session{Completed: map[uuid.UUID]struct{}{}}
	if s.IsComplete(3) {
		t.Error("empty completed set should not be complete")
	}
	if s.IsComplete(0) {
		t.Error("zero-card category must never report complete")
	}

	for i := 0; i < 3; i++ {
		s.MarkCompleted(uuid.New())
	}
	if !s.IsComplete(3) {
		t.Error("3 of 3 completed should be complete")
	}
	if s.IsComplete(4) {
		t.Error("3 of 4 completed should not be complete")
	}
}

func TestSession_MarkCompleted_SetSemantics(t *testing.T) {
	t.Parallel()

	s := &Session{}
	id := uuid.New()

	if !s.MarkCompleted(id) {
		t.Error("first mark should report insertion")
	}
	if s.MarkCompleted(id) {
		t.Error("second mark of same card should be a no-op")
	}
	if len(s.Completed) != 1 {
		t.Errorf("completed size: got %d, want 1", len(s.Completed))
	}
}

func TestSession_UnderlyingIndex(t *testing.T) {
	t.Parallel()

	s := &Session{}
	if got := s.UnderlyingIndex(2); got != 2 {
		t.Errorf("no shuffle: got %d, want 2", got)
	}

	s.Shuffle = []int{2, 0, 1}
	if got := s.UnderlyingIndex(0); got != 2 {
		t.Errorf("shuffled logical 0: got %d, want 2", got)
	}
	if got := s.UnderlyingIndex(2); got != 1 {
		t.Errorf("shuffled logical 2: got %d, want 1", got)
	}
	if got := s.UnderlyingIndex(5); got != 5 {
		t.Errorf("out of range passes through: got %d, want 5", got)
	}
}

func TestSession_Duration(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, 3, 1, 20, 0, 0, 0, time.UTC)
	s := &Session{StartedAt: start}

	now := start.Add(7 * time.Minute)
	if got := s.Duration(now); got != 7*time.Minute {
		t.Errorf("live duration: got %v, want 7m", got)
	}

	ended := start.Add(4 * time.Minute)
	s.EndedAt = &ended
	if got := s.Duration(now); got != 4*time.Minute {
		t.Errorf("frozen duration: got %v, want 4m", got)
	}
}
