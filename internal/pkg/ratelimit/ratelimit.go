package ratelimit

import (
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
)

// Limiter allows up to limit events per key in fixed windows. The window of
// a key starts with its first event. Rejected events are not counted
// against the next window.
type Limiter struct {
	counters *cache.Cache
	limit    int
	window   time.Duration
}

func New(limit int, window time.Duration) *Limiter {
	return &Limiter{
		counters: cache.New(window, 2*window),
		limit:    limit,
		window:   window,
	}
}

// Allow records an event for key. When the limit is exceeded it returns
// false and the time left until the window resets.
func (l *Limiter) Allow(key string) (bool, time.Duration) {
	for {
		if err := l.counters.Add(key, 1, l.window); err == nil {
			return true, 0
		}

		n, err := l.counters.IncrementInt(key, 1)
		if err != nil {
			// The window expired between Add and IncrementInt.
			continue
		}
		if n <= l.limit {
			return true, 0
		}

		_, exp, found := l.counters.GetWithExpiration(key)
		if !found {
			continue
		}
		return false, max(time.Until(exp), 0)
	}
}

func (l *Limiter) Limit() int {
	return l.limit
}

func (l *Limiter) Window() time.Duration {
	return l.window
}

// Describe renders the limit the way it is reported to clients, e.g.
// "10 per 1 minute".
func (l *Limiter) Describe() string {
	return fmt.Sprintf("%d per %s", l.limit, describeWindow(l.window))
}

func describeWindow(d time.Duration) string {
	unit := func(n int64, name string) string {
		if n == 1 {
			return fmt.Sprintf("1 %s", name)
		}
		return fmt.Sprintf("%d %ss", n, name)
	}

	switch {
	case d%time.Hour == 0:
		return unit(int64(d/time.Hour), "hour")
	case d%time.Minute == 0:
		return unit(int64(d/time.Minute), "minute")
	case d%time.Second == 0:
		return unit(int64(d/time.Second), "second")
	default:
		return d.String()
	}
}
