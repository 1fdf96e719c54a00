package lib

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeSource struct {
	batches [][][]byte
	err     error
	calls   int
}

func (f *fakeSource) Events(ctx context.Context) ([][]byte, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if len(f.batches) == 0 {
		return nil, nil
	}
	batch := f.batches[0]
	f.batches = f.batches[1:]
	return batch, nil
}

func matchExact(want string) MatchPredicate {
	return func(event []byte) bool {
		return string(event) == want
	}
}

func TestWaitMatchesImmediately(t *testing.T) {
	src := &fakeSource{batches: [][][]byte{
		{[]byte("other"), []byte("wanted")},
	}}
	start := time.Now()
	matched, err := WaitUntilEventMatched(context.Background(), src, matchExact("wanted"), 5*time.Second)
	if err != nil {
		t.Error(err)
		return
	}
	if !matched {
		t.Error("expected match")
		return
	}
	if time.Since(start) > 1*time.Second {
		t.Errorf("match should not wait out the deadline, took %s", time.Since(start))
	}
}

func TestWaitTimesOutAfterFullDeadline(t *testing.T) {
	src := &fakeSource{}
	timeout := 300 * time.Millisecond
	start := time.Now()
	matched, err := WaitUntilEventMatched(context.Background(), src, matchExact("wanted"), timeout)
	if err != nil {
		t.Error(err)
		return
	}
	if matched {
		t.Error("expected no match")
		return
	}
	if time.Since(start) < timeout {
		t.Errorf("returned before the deadline, took %s", time.Since(start))
		return
	}
	if src.calls == 0 {
		t.Error("expected at least one poll")
	}
}

func TestWaitEmptyPollsThenMatch(t *testing.T) {
	src := &fakeSource{batches: [][][]byte{
		{},
		{},
		{[]byte("wanted")},
	}}
	matched, err := WaitUntilEventMatched(context.Background(), src, matchExact("wanted"), 5*time.Second)
	if err != nil {
		t.Error(err)
		return
	}
	if !matched {
		t.Error("expected match")
		return
	}
	if src.calls != 3 {
		t.Errorf("expected 3 polls, got %d", src.calls)
	}
}

func TestWaitPropagatesSourceError(t *testing.T) {
	src := &fakeSource{err: errors.New("receive failed")}
	matched, err := WaitUntilEventMatched(context.Background(), src, matchExact("wanted"), 5*time.Second)
	if err == nil {
		t.Error("expected error")
		return
	}
	if matched {
		t.Error("expected no match")
	}
}

func TestWaitExpiredContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	src := &fakeSource{batches: [][][]byte{
		{[]byte("wanted")},
	}}
	matched, err := WaitUntilEventMatched(ctx, src, matchExact("wanted"), 5*time.Second)
	if err != nil {
		t.Error(err)
		return
	}
	if matched {
		t.Error("expected no match on expired context")
	}
}
