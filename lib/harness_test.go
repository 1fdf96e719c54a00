package lib

import (
	"context"
	"errors"
	"testing"
	"time"
)

type harnessCounters struct {
	adds     int
	removes  int
	triggers []string
}

func testHarness(t *testing.T, src EventSource) (*Harness, *harnessCounters) {
	t.Setenv(EnvRegion, "us-west-2")
	t.Setenv(EnvStackName, "plugin-tester")
	h, err := NewHarness()
	if err != nil {
		t.Fatal(err)
	}
	counters := &harnessCounters{}
	h.stackOutputs = func(_ context.Context, stackName string, outputNames ...string) (map[string]string, error) {
		if stackName != "plugin-tester" {
			t.Errorf("unexpected stack name: %s", stackName)
		}
		return map[string]string{
			OutputLifecycleWorkflow: "arn:aws:states:us-west-2:0:stateMachine:lifecycle",
			OutputSuccessRuleName:   "plugin-success",
		}, nil
	}
	h.addListener = func(_ context.Context, busName, ruleName string) (*Listener, error) {
		if busName != DefaultBusName {
			t.Errorf("unexpected bus name: %s", busName)
		}
		if ruleName != "plugin-success" {
			t.Errorf("unexpected rule name: %s", ruleName)
		}
		counters.adds++
		return &Listener{ID: "test-listener"}, nil
	}
	h.removeListeners = func(_ context.Context, listeners ...*Listener) error {
		counters.removes += len(listeners)
		return nil
	}
	h.startExecution = func(_ context.Context, stateMachineArn, input string) (string, error) {
		counters.triggers = append(counters.triggers, input)
		return stateMachineArn + ":execution", nil
	}
	h.source = src
	return h, counters
}

func TestHarnessReleasesListenerOnMatch(t *testing.T) {
	event := []byte(`{"source": "video.plugin.X", "detail-type": "plugin-complete"}`)
	h, counters := testHarness(t, &fakeSource{batches: [][][]byte{{event}}})
	ctx := context.Background()
	err := h.Setup(ctx)
	if err != nil {
		t.Error(err)
		return
	}
	defer func() {
		err := h.Teardown()
		if err != nil {
			t.Error(err)
		}
		if counters.removes != counters.adds {
			t.Errorf("acquired %d released %d", counters.adds, counters.removes)
		}
	}()
	if h.WorkflowArn() != "arn:aws:states:us-west-2:0:stateMachine:lifecycle" {
		t.Errorf("unexpected workflow arn: %s", h.WorkflowArn())
		return
	}
	err = h.Trigger(ctx, TriggerEvent{EventHook: "postValidate", PluginTitle: "X"})
	if err != nil {
		t.Error(err)
		return
	}
	if counters.triggers[0] != `{"eventHook":"postValidate","pluginTitle":"X"}` {
		t.Errorf("unexpected trigger input: %s", counters.triggers[0])
		return
	}
	matched, err := h.Wait(ctx, PluginCompleteMatcher("X"), 5*time.Second)
	if err != nil {
		t.Error(err)
		return
	}
	if !matched {
		t.Error("expected match")
		return
	}
	if h.State() != StateMatched {
		t.Errorf("unexpected state: %s", h.State())
	}
}

func TestHarnessReleasesListenerOnTimeout(t *testing.T) {
	h, counters := testHarness(t, &fakeSource{})
	ctx := context.Background()
	err := h.Setup(ctx)
	if err != nil {
		t.Error(err)
		return
	}
	defer func() {
		err := h.Teardown()
		if err != nil {
			t.Error(err)
		}
		if counters.removes != counters.adds {
			t.Errorf("acquired %d released %d", counters.adds, counters.removes)
		}
	}()
	matched, err := h.Wait(ctx, PluginCompleteMatcher("Missing"), 200*time.Millisecond)
	if err != nil {
		t.Error(err)
		return
	}
	if matched {
		t.Error("expected no match")
		return
	}
	if h.State() != StateTimedOut {
		t.Errorf("unexpected state: %s", h.State())
	}
}

func TestHarnessReleasesListenerOnTriggerError(t *testing.T) {
	h, counters := testHarness(t, &fakeSource{})
	h.startExecution = func(_ context.Context, _, _ string) (string, error) {
		return "", errors.New("execution rejected")
	}
	ctx := context.Background()
	err := h.Setup(ctx)
	if err != nil {
		t.Error(err)
		return
	}
	defer func() {
		err := h.Teardown()
		if err != nil {
			t.Error(err)
		}
		if counters.removes != counters.adds {
			t.Errorf("acquired %d released %d", counters.adds, counters.removes)
		}
	}()
	err = h.Trigger(ctx, TriggerEvent{EventHook: "postValidate", PluginTitle: "X"})
	if err == nil {
		t.Error("expected error")
	}
}

func TestHarnessTeardownIdempotent(t *testing.T) {
	h, counters := testHarness(t, &fakeSource{})
	err := h.Setup(context.Background())
	if err != nil {
		t.Error(err)
		return
	}
	for range 3 {
		err := h.Teardown()
		if err != nil {
			t.Error(err)
			return
		}
	}
	if counters.removes != 1 {
		t.Errorf("expected exactly one release, got %d", counters.removes)
		return
	}
	if h.State() != StateCleanedUp {
		t.Errorf("unexpected state: %s", h.State())
	}
}

func TestHarnessTeardownBeforeSetup(t *testing.T) {
	h, counters := testHarness(t, &fakeSource{})
	err := h.Teardown()
	if err != nil {
		t.Error(err)
		return
	}
	if counters.removes != 0 {
		t.Errorf("expected no release, got %d", counters.removes)
	}
}

func TestHarnessRequiresEnv(t *testing.T) {
	t.Setenv(EnvRegion, "")
	t.Setenv(EnvStackName, "plugin-tester")
	_, err := NewHarness()
	if err == nil {
		t.Error("expected error for missing region")
		return
	}
	t.Setenv(EnvRegion, "us-west-2")
	t.Setenv(EnvStackName, "")
	_, err = NewHarness()
	if err == nil {
		t.Error("expected error for missing stack name")
	}
}

func TestHarnessGuardsState(t *testing.T) {
	h, _ := testHarness(t, &fakeSource{})
	ctx := context.Background()
	err := h.Trigger(ctx, TriggerEvent{EventHook: "postValidate", PluginTitle: "X"})
	if err == nil {
		t.Error("expected error before setup")
		return
	}
	_, err = h.Wait(ctx, PluginCompleteMatcher("X"), time.Second)
	if err == nil {
		t.Error("expected error before setup")
		return
	}
	err = h.Setup(ctx)
	if err != nil {
		t.Error(err)
		return
	}
	err = h.Setup(ctx)
	if err == nil {
		t.Error("expected error on double setup")
		return
	}
	err = h.Teardown()
	if err != nil {
		t.Error(err)
	}
}

func TestPluginCompleteMatcher(t *testing.T) {
	pred := PluginCompleteMatcher("PythonMinimalPlugin")
	type test struct {
		event string
		want  bool
	}
	tests := []test{
		{`{"source": "video.plugin.PythonMinimalPlugin", "detail-type": "plugin-complete"}`, true},
		{`{"source": "video.plugin.OtherPlugin", "detail-type": "plugin-complete"}`, false},
		{`{"source": "video.plugin.PythonMinimalPlugin", "detail-type": "plugin-started"}`, false},
		{`{"detail-type": "plugin-complete"}`, false},
		{`not json`, false},
	}
	for _, test := range tests {
		got := pred([]byte(test.event))
		if got != test.want {
			t.Errorf("got %t want %t for: %s", got, test.want, test.event)
		}
	}
}
