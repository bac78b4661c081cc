package memcache

import (
	"testing"
	"time"
)

func TestLoginAttemptsBlocksAtLimit(t *testing.T) {
	now := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	s := NewLoginAttempts(3, 15*time.Minute)
	s.now = func() time.Time { return now }

	for i := 1; i <= 3; i++ {
		if s.Blocked("owner") {
			t.Fatalf("Expected owner not blocked before failure %d", i)
		}
		if got := s.Fail("owner"); got != i {
			t.Errorf("Expected count %d, got %d", i, got)
		}
	}
	if !s.Blocked("owner") {
		t.Error("Expected owner blocked after 3 failures")
	}
	if s.Blocked("other") {
		t.Error("Expected other key unaffected")
	}

	now = now.Add(16 * time.Minute)
	if s.Blocked("owner") {
		t.Error("Expected block to lapse after ttl")
	}
	if got := s.Fail("owner"); got != 1 {
		t.Errorf("Expected count to restart at 1, got %d", got)
	}
}

func TestLoginAttemptsReset(t *testing.T) {
	s := NewLoginAttempts(1, time.Minute)
	s.Fail("owner")
	if !s.Blocked("owner") {
		t.Fatal("Expected owner blocked")
	}
	s.Reset("owner")
	if s.Blocked("owner") {
		t.Error("Expected reset to clear the block")
	}
}

func TestLoginAttemptsDisabled(t *testing.T) {
	s := NewLoginAttempts(0, time.Minute)
	s.Fail("owner")
	if s.Blocked("owner") {
		t.Error("Expected zero limit to never block")
	}
}
