package lib

import (
	"context"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sfn"
	sfntypes "github.com/aws/aws-sdk-go-v2/service/sfn/types"
)

var sfnClient *sfn.Client
var sfnClientLock sync.Mutex

func SfnClientExplicit(accessKeyID, accessKeySecret, region string) *sfn.Client {
	return sfn.NewFromConfig(*SessionExplicit(accessKeyID, accessKeySecret, region))
}

func SfnClient() *sfn.Client {
	sfnClientLock.Lock()
	defer sfnClientLock.Unlock()
	if sfnClient == nil {
		sfnClient = sfn.NewFromConfig(*Session())
	}
	return sfnClient
}

func SfnListStateMachines(ctx context.Context) ([]sfntypes.StateMachineListItem, error) {
	var nextToken *string
	var machines []sfntypes.StateMachineListItem
	for {
		out, err := SfnClient().ListStateMachines(ctx, &sfn.ListStateMachinesInput{
			NextToken: nextToken,
		})
		if err != nil {
			Logger.Println("error:", err)
			return nil, err
		}
		machines = append(machines, out.StateMachines...)
		if out.NextToken == nil {
			break
		}
		nextToken = out.NextToken
	}
	return machines, nil
}

func SfnStartExecution(ctx context.Context, stateMachineArn, input string) (string, error) {
	Logger.Println("start execution:", stateMachineArn)
	out, err := SfnClient().StartExecution(ctx, &sfn.StartExecutionInput{
		StateMachineArn: aws.String(stateMachineArn),
		Input:           aws.String(input),
	})
	if err != nil {
		Logger.Println("error:", err)
		return "", err
	}
	return *out.ExecutionArn, nil
}
