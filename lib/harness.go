package lib

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"
)

const (
	EnvRegion    = "AWS_REGION"
	EnvStackName = "PLUGIN_TESTER_STACK_NAME"

	OutputLifecycleWorkflow = "PluginLifecycleWorkflow"
	OutputSuccessRuleName   = "PluginSuccessEventRuleName"

	DefaultBusName     = "default"
	DefaultWaitTimeout = 20 * time.Second
)

type HarnessState string

const (
	StateUninitialized HarnessState = "uninitialized"
	StateListening     HarnessState = "listening"
	StateMatched       HarnessState = "matched"
	StateTimedOut      HarnessState = "timed-out"
	StateCleanedUp     HarnessState = "cleaned-up"
)

// TriggerEvent is the input handed to the plugin lifecycle workflow, which
// republishes it on the bus the way the production system does.
type TriggerEvent struct {
	EventHook   string `json:"eventHook"   yaml:"eventHook"`
	PluginTitle string `json:"pluginTitle" yaml:"pluginTitle"`
}

// Harness drives one trigger-then-wait round against a deployed plugin
// tester stack: resolve the workflow and rule from stack outputs, attach a
// listener cloned from that rule, start the workflow, wait for a matching
// event, and remove the listener on every exit path.
//
// A harness is single use. Callers must defer Teardown as soon as Setup
// succeeds, so the listener is released whether the wait matches, times
// out, or errors.
type Harness struct {
	Region    string
	StackName string
	BusName   string

	workflowArn string
	ruleName    string
	listener    *Listener
	state       HarnessState

	stackOutputs    func(ctx context.Context, stackName string, outputNames ...string) (map[string]string, error)
	addListener     func(ctx context.Context, busName, ruleName string) (*Listener, error)
	removeListeners func(ctx context.Context, listeners ...*Listener) error
	startExecution  func(ctx context.Context, stateMachineArn, input string) (string, error)
	source          EventSource
}

// NewHarness reads required configuration from the environment. A missing
// variable is an error right here, before any client call.
func NewHarness() (*Harness, error) {
	region := os.Getenv(EnvRegion)
	if region == "" {
		err := fmt.Errorf("environment variable is required: %s", EnvRegion)
		Logger.Println("error:", err)
		return nil, err
	}
	stackName := os.Getenv(EnvStackName)
	if stackName == "" {
		err := fmt.Errorf("environment variable is required: %s", EnvStackName)
		Logger.Println("error:", err)
		return nil, err
	}
	return &Harness{
		Region:          region,
		StackName:       stackName,
		BusName:         DefaultBusName,
		state:           StateUninitialized,
		stackOutputs:    CfStackOutputs,
		addListener:     EventsAddListener,
		removeListeners: EventsRemoveListeners,
		startExecution:  SfnStartExecution,
	}, nil
}

func (h *Harness) State() HarnessState {
	return h.state
}

func (h *Harness) WorkflowArn() string {
	return h.workflowArn
}

// Setup resolves the workflow arn and success rule name from the stack,
// then attaches a listener cloned from that rule. Nothing is left half
// registered: either the listener is live afterwards, or an error returns
// with no listener to release.
func (h *Harness) Setup(ctx context.Context) error {
	if h.state != StateUninitialized {
		err := fmt.Errorf("harness already set up, state: %s", h.state)
		Logger.Println("error:", err)
		return err
	}
	outputs, err := h.stackOutputs(ctx, h.StackName, OutputLifecycleWorkflow, OutputSuccessRuleName)
	if err != nil {
		Logger.Println("error:", err)
		return err
	}
	h.workflowArn = outputs[OutputLifecycleWorkflow]
	h.ruleName = outputs[OutputSuccessRuleName]
	listener, err := h.addListener(ctx, h.BusName, h.ruleName)
	if err != nil {
		Logger.Println("error:", err)
		return err
	}
	h.listener = listener
	if h.source == nil {
		h.source = listener
	}
	h.state = StateListening
	return nil
}

// Trigger starts the lifecycle workflow with the serialized event.
func (h *Harness) Trigger(ctx context.Context, event TriggerEvent) error {
	if h.state != StateListening {
		err := fmt.Errorf("harness not listening, state: %s", h.state)
		Logger.Println("error:", err)
		return err
	}
	input, err := json.Marshal(event)
	if err != nil {
		Logger.Println("error:", err)
		return err
	}
	_, err = h.startExecution(ctx, h.workflowArn, string(input))
	if err != nil {
		Logger.Println("error:", err)
		return err
	}
	return nil
}

// Wait blocks until pred matches a received event or timeout elapses.
// Timing out is an outcome, not an error.
func (h *Harness) Wait(ctx context.Context, pred MatchPredicate, timeout time.Duration) (bool, error) {
	if h.state != StateListening {
		err := fmt.Errorf("harness not listening, state: %s", h.state)
		Logger.Println("error:", err)
		return false, err
	}
	matched, err := WaitUntilEventMatched(ctx, h.source, pred, timeout)
	if err != nil {
		return false, err
	}
	if matched {
		h.state = StateMatched
	} else {
		h.state = StateTimedOut
	}
	return matched, nil
}

// Teardown releases the listener. Safe to call more than once and after a
// failed Setup; only the first call with a live listener does work. Uses a
// background context so release still runs when the caller's context is
// already past its deadline.
func (h *Harness) Teardown() error {
	if h.listener == nil {
		h.state = StateCleanedUp
		return nil
	}
	listener := h.listener
	h.listener = nil
	h.state = StateCleanedUp
	err := h.removeListeners(context.Background(), listener)
	if err != nil {
		Logger.Println("error:", err)
		return err
	}
	return nil
}

// PluginCompleteMatcher matches the completion event a plugin publishes
// after processing: source "video.plugin.<title>", detail-type
// "plugin-complete".
func PluginCompleteMatcher(pluginTitle string) MatchPredicate {
	return func(event []byte) bool {
		var e struct {
			Source     string `json:"source"`
			DetailType string `json:"detail-type"`
		}
		err := json.Unmarshal(event, &e)
		if err != nil {
			return false
		}
		return e.Source == "video.plugin."+pluginTitle && e.DetailType == "plugin-complete"
	}
}
