package lib

import (
	"context"
	"fmt"
	"time"

	"github.com/avast/retry-go"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	ebtypes "github.com/aws/aws-sdk-go-v2/service/eventbridge/types"
	"github.com/gofrs/uuid"
	"golang.org/x/sync/errgroup"
)

const listenerPrefix = "testkit-listener-"

// each listener queue keeps messages for 5 minutes, which outlives any
// reasonable wait deadline
const listenerQueueRetentionSeconds = "300"

const listenerQueuePolicyTemplate = `{
    "Version": "2012-10-17",
    "Statement": [{
        "Effect": "Allow",
        "Principal": {"Service": "events.amazonaws.com"},
        "Action": "sqs:SendMessage",
        "Resource": "%s",
        "Condition": {"ArnEquals": {"aws:SourceArn": "%s"}}
    }]
}`

// Listener is a temporary subscription on an event bus, cloned from an
// existing rule so it observes the same events without altering routing.
// It owns a rule and a queue, both named after its id, and both removed
// by EventsRemoveListeners.
type Listener struct {
	ID       string `json:"id"`
	BusName  string `json:"bus-name"`
	RuleName string `json:"rule-name"`
	QueueUrl string `json:"queue-url"`
	QueueArn string `json:"queue-arn"`
}

// EventsAddListener clones the event pattern of an existing rule into a
// temporary rule targeting a fresh queue. On any failure the resources
// created so far are removed before returning.
func EventsAddListener(ctx context.Context, busName, ruleName string) (*Listener, error) {
	if doDebug {
		d := &Debug{start: time.Now(), name: "EventsAddListener"}
		defer d.Log()
	}
	rule, err := EventsDescribeRule(ctx, ruleName, aws.String(busName))
	if err != nil {
		Logger.Println("error:", err)
		return nil, err
	}
	if rule.EventPattern == nil {
		err := fmt.Errorf("rule has no event pattern to clone: %s", ruleName)
		Logger.Println("error:", err)
		return nil, err
	}
	id := uuid.Must(uuid.NewV4()).String()
	name := listenerPrefix + id
	queueUrl, err := SqsCreateQueue(ctx, name, map[string]string{
		"MessageRetentionPeriod": listenerQueueRetentionSeconds,
	})
	if err != nil {
		Logger.Println("error:", err)
		return nil, err
	}
	queueArn, err := SqsQueueArn(ctx, queueUrl)
	if err != nil {
		Logger.Println("error:", err)
		_ = SqsDeleteQueue(ctx, queueUrl)
		return nil, err
	}
	Logger.Println("clone rule:", ruleName, "->", name)
	putRuleOut, err := EventsClient().PutRule(ctx, &eventbridge.PutRuleInput{
		Name:         aws.String(name),
		EventBusName: aws.String(busName),
		EventPattern: rule.EventPattern,
		State:        ebtypes.RuleStateEnabled,
	})
	if err != nil {
		Logger.Println("error:", err)
		_ = SqsDeleteQueue(ctx, queueUrl)
		return nil, err
	}
	listener := &Listener{
		ID:       id,
		BusName:  busName,
		RuleName: name,
		QueueUrl: queueUrl,
		QueueArn: queueArn,
	}
	err = SqsSetQueuePolicy(ctx, queueUrl, fmt.Sprintf(listenerQueuePolicyTemplate, queueArn, *putRuleOut.RuleArn))
	if err != nil {
		Logger.Println("error:", err)
		_ = EventsRemoveListeners(ctx, listener)
		return nil, err
	}
	// a freshly created queue is not always immediately targetable
	err = retry.Do(
		func() error {
			out, err := EventsClient().PutTargets(ctx, &eventbridge.PutTargetsInput{
				Rule:         aws.String(name),
				EventBusName: aws.String(busName),
				Targets: []ebtypes.Target{{
					Id:  aws.String(id),
					Arn: aws.String(queueArn),
				}},
			})
			if err != nil {
				return err
			}
			if out.FailedEntryCount != 0 {
				return fmt.Errorf("failed to target queue for listener: %s", id)
			}
			return nil
		},
		retry.Attempts(5),
		retry.Delay(1*time.Second),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		Logger.Println("error:", err)
		_ = EventsRemoveListeners(ctx, listener)
		return nil, err
	}
	return listener, nil
}

// EventsRemoveListeners removes the cloned rule and queue of each listener.
// Every removal is attempted even when one fails, and the first error wins.
func EventsRemoveListeners(ctx context.Context, listeners ...*Listener) error {
	if doDebug {
		d := &Debug{start: time.Now(), name: "EventsRemoveListeners"}
		defer d.Log()
	}
	var group errgroup.Group
	for _, listener := range listeners {
		group.Go(func() error {
			var errLast error
			_, err := EventsClient().RemoveTargets(ctx, &eventbridge.RemoveTargetsInput{
				Rule:         aws.String(listener.RuleName),
				EventBusName: aws.String(listener.BusName),
				Ids:          []string{listener.ID},
			})
			if err != nil {
				Logger.Println("error:", err)
				errLast = err
			}
			err = retry.Do(
				func() error {
					_, err := EventsClient().DeleteRule(ctx, &eventbridge.DeleteRuleInput{
						Name:         aws.String(listener.RuleName),
						EventBusName: aws.String(listener.BusName),
					})
					return err
				},
				retry.Attempts(5),
				retry.Delay(1*time.Second),
				retry.LastErrorOnly(true),
			)
			if err != nil {
				Logger.Println("error:", err)
				errLast = err
			}
			err = SqsDeleteQueue(ctx, listener.QueueUrl)
			if err != nil {
				Logger.Println("error:", err)
				errLast = err
			}
			return errLast
		})
	}
	return group.Wait()
}

// Events does one bounded poll of the listener queue, deleting whatever it
// returns so each event is observed once. Implements EventSource.
func (l *Listener) Events(ctx context.Context) ([][]byte, error) {
	messages, err := SqsReceive(ctx, l.QueueUrl, 1)
	if err != nil {
		return nil, err
	}
	var events [][]byte
	for _, message := range messages {
		events = append(events, []byte(*message.Body))
	}
	if len(messages) != 0 {
		err = SqsDeleteMessages(ctx, l.QueueUrl, messages)
		if err != nil {
			Logger.Println("error:", err)
			return nil, err
		}
	}
	return events, nil
}
