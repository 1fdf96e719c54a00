package lib

import (
	"context"
	"time"
)

// MatchPredicate decides whether a received event payload is the one being
// waited for. It must be pure: no state, no side effects.
type MatchPredicate func(event []byte) bool

// EventSource is the narrow receive port the wait protocol runs against.
// Events returns the payloads received since the last call, blocking at most
// briefly. A Listener is an EventSource backed by its queue.
type EventSource interface {
	Events(ctx context.Context) ([][]byte, error)
}

const waitPollInterval = 100 * time.Millisecond

// WaitUntilEventMatched polls src until pred matches an event or the timeout
// elapses. A match returns true immediately. An elapsed deadline is an
// outcome, not an error: false, nil. Errors from src propagate unless the
// deadline already passed.
func WaitUntilEventMatched(ctx context.Context, src EventSource, pred MatchPredicate, timeout time.Duration) (bool, error) {
	if doDebug {
		d := &Debug{start: time.Now(), name: "WaitUntilEventMatched"}
		defer d.Log()
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	for {
		events, err := src.Events(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return false, nil
			}
			Logger.Println("error:", err)
			return false, err
		}
		for _, event := range events {
			if pred(event) {
				return true, nil
			}
		}
		select {
		case <-ctx.Done():
			return false, nil
		case <-time.After(waitPollInterval):
		}
	}
}
