package lib

import (
	"context"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	ebtypes "github.com/aws/aws-sdk-go-v2/service/eventbridge/types"
)

var eventsClient *eventbridge.Client
var eventsClientLock sync.Mutex

func EventsClientExplicit(accessKeyID, accessKeySecret, region string) *eventbridge.Client {
	return eventbridge.NewFromConfig(*SessionExplicit(accessKeyID, accessKeySecret, region))
}

func EventsClient() *eventbridge.Client {
	eventsClientLock.Lock()
	defer eventsClientLock.Unlock()
	if eventsClient == nil {
		eventsClient = eventbridge.NewFromConfig(*Session())
	}
	return eventsClient
}

func EventsListBuses(ctx context.Context) ([]ebtypes.EventBus, error) {
	var nextToken *string
	var buses []ebtypes.EventBus
	for {
		out, err := EventsClient().ListEventBuses(ctx, &eventbridge.ListEventBusesInput{
			NextToken: nextToken,
		})
		if err != nil {
			Logger.Println("error:", err)
			return nil, err
		}
		buses = append(buses, out.EventBuses...)
		if out.NextToken == nil {
			break
		}
		nextToken = out.NextToken
	}
	return buses, nil
}

func EventsListRules(ctx context.Context, busName *string) ([]ebtypes.Rule, error) {
	var nextToken *string
	var rules []ebtypes.Rule
	for {
		out, err := EventsClient().ListRules(ctx, &eventbridge.ListRulesInput{
			EventBusName: busName,
			NextToken:    nextToken,
		})
		if err != nil {
			Logger.Println("error:", err)
			return nil, err
		}
		rules = append(rules, out.Rules...)
		if out.NextToken == nil {
			break
		}
		nextToken = out.NextToken
	}
	return rules, nil
}

func EventsListRuleTargets(ctx context.Context, ruleName string, busName *string) ([]ebtypes.Target, error) {
	var nextToken *string
	var targets []ebtypes.Target
	for {
		out, err := EventsClient().ListTargetsByRule(ctx, &eventbridge.ListTargetsByRuleInput{
			Rule:         aws.String(ruleName),
			EventBusName: busName,
			NextToken:    nextToken,
		})
		if err != nil {
			Logger.Println("error:", err)
			return nil, err
		}
		targets = append(targets, out.Targets...)
		if out.NextToken == nil {
			break
		}
		nextToken = out.NextToken
	}
	return targets, nil
}

func EventsDescribeRule(ctx context.Context, ruleName string, busName *string) (*eventbridge.DescribeRuleOutput, error) {
	out, err := EventsClient().DescribeRule(ctx, &eventbridge.DescribeRuleInput{
		Name:         aws.String(ruleName),
		EventBusName: busName,
	})
	if err != nil {
		Logger.Println("error:", err)
		return nil, err
	}
	return out, nil
}
