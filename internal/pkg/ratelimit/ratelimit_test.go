package ratelimit

import (
	"testing"
	"time"
)

func TestAllowRejectsAfterLimit(t *testing.T) {
	l := New(10, time.Minute)

	for i := 1; i <= 10; i++ {
		if ok, _ := l.Allow("10.0.0.1"); !ok {
			t.Fatalf("request %d rejected", i)
		}
	}

	ok, retryAfter := l.Allow("10.0.0.1")
	if ok {
		t.Fatal("11th request allowed")
	}
	if retryAfter <= 0 || retryAfter > time.Minute {
		t.Errorf("retryAfter = %v", retryAfter)
	}

	if ok, _ := l.Allow("10.0.0.2"); !ok {
		t.Error("another client must have its own window")
	}
}

func TestAllowResetsAfterWindow(t *testing.T) {
	l := New(2, 50*time.Millisecond)

	l.Allow("k")
	l.Allow("k")
	if ok, _ := l.Allow("k"); ok {
		t.Fatal("3rd request allowed")
	}

	time.Sleep(80 * time.Millisecond)

	if ok, _ := l.Allow("k"); !ok {
		t.Error("request rejected after the window expired")
	}
}

func TestDescribe(t *testing.T) {
	cases := map[time.Duration]string{
		time.Minute:      "10 per 1 minute",
		2 * time.Minute:  "10 per 2 minutes",
		time.Hour:        "10 per 1 hour",
		30 * time.Second: "10 per 30 seconds",
	}
	for window, want := range cases {
		if got := New(10, window).Describe(); got != want {
			t.Errorf("Describe(%v) = %q, want %q", window, got, want)
		}
	}
}
