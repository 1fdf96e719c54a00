package lib

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Scenario is one declarative trigger-then-expect case: fire the trigger
// through the lifecycle workflow, then wait for an event whose top level
// string fields equal every entry of expect.
type Scenario struct {
	Name    string            `yaml:"name"`
	Trigger TriggerEvent      `yaml:"trigger"`
	Expect  map[string]string `yaml:"expect"`
	Timeout string            `yaml:"timeout"`
}

type ScenarioFile struct {
	Scenarios []Scenario `yaml:"scenarios"`
}

func ScenarioLoad(path string) (*ScenarioFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		Logger.Println("error:", err)
		return nil, err
	}
	file := &ScenarioFile{}
	err = yaml.Unmarshal(data, file)
	if err != nil {
		Logger.Println("error:", err)
		return nil, err
	}
	if len(file.Scenarios) == 0 {
		err := fmt.Errorf("no scenarios in file: %s", path)
		Logger.Println("error:", err)
		return nil, err
	}
	var names []string
	for i, scenario := range file.Scenarios {
		err := scenario.validate()
		if err != nil {
			err = fmt.Errorf("scenario %d: %w", i, err)
			Logger.Println("error:", err)
			return nil, err
		}
		if Contains(names, scenario.Name) {
			err := fmt.Errorf("duplicate scenario name: %s", scenario.Name)
			Logger.Println("error:", err)
			return nil, err
		}
		names = append(names, scenario.Name)
	}
	return file, nil
}

func (s Scenario) validate() error {
	if s.Name == "" {
		return fmt.Errorf("scenario needs a name")
	}
	if s.Trigger.EventHook == "" || s.Trigger.PluginTitle == "" {
		return fmt.Errorf("scenario needs trigger eventHook and pluginTitle: %s", s.Name)
	}
	if len(s.Expect) == 0 {
		return fmt.Errorf("scenario needs at least one expect field: %s", s.Name)
	}
	_, err := s.WaitTimeout()
	if err != nil {
		return err
	}
	return nil
}

// WaitTimeout parses the scenario timeout, defaulting when unset.
func (s Scenario) WaitTimeout() (time.Duration, error) {
	if s.Timeout == "" {
		return DefaultWaitTimeout, nil
	}
	timeout, err := time.ParseDuration(s.Timeout)
	if err != nil {
		return 0, fmt.Errorf("bad timeout in scenario %s: %w", s.Name, err)
	}
	return timeout, nil
}

// Predicate matches an event whose top level string fields carry every
// expected value. Keys use the wire names, "source" and "detail-type".
func (s Scenario) Predicate() MatchPredicate {
	return func(event []byte) bool {
		var fields map[string]interface{}
		err := json.Unmarshal(event, &fields)
		if err != nil {
			return false
		}
		for key, want := range s.Expect {
			got, ok := fields[key].(string)
			if !ok || got != want {
				return false
			}
		}
		return true
	}
}

// ScenarioRun drives one scenario through a fresh harness: setup, trigger,
// wait, and teardown on every exit path.
func ScenarioRun(ctx context.Context, h *Harness, scenario Scenario) (bool, error) {
	timeout, err := scenario.WaitTimeout()
	if err != nil {
		Logger.Println("error:", err)
		return false, err
	}
	err = h.Setup(ctx)
	if err != nil {
		Logger.Println("error:", err)
		return false, err
	}
	defer func() {
		err := h.Teardown()
		if err != nil {
			Logger.Println("error:", err)
		}
	}()
	err = h.Trigger(ctx, scenario.Trigger)
	if err != nil {
		Logger.Println("error:", err)
		return false, err
	}
	return h.Wait(ctx, scenario.Predicate(), timeout)
}
