package lib

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation"
)

var cfClient *cloudformation.Client
var cfClientLock sync.Mutex

func CfClientExplicit(accessKeyID, accessKeySecret, region string) *cloudformation.Client {
	return cloudformation.NewFromConfig(*SessionExplicit(accessKeyID, accessKeySecret, region))
}

func CfClient() *cloudformation.Client {
	cfClientLock.Lock()
	defer cfClientLock.Unlock()
	if cfClient == nil {
		cfClient = cloudformation.NewFromConfig(*Session())
	}
	return cfClient
}

// CfStackOutputs resolves stack outputs by key. With no keys it returns every
// output. A requested key missing from the stack is an error, not a blank.
func CfStackOutputs(ctx context.Context, stackName string, outputNames ...string) (map[string]string, error) {
	if doDebug {
		d := &Debug{start: time.Now(), name: "CfStackOutputs"}
		defer d.Log()
	}
	out, err := CfClient().DescribeStacks(ctx, &cloudformation.DescribeStacksInput{
		StackName: aws.String(stackName),
	})
	if err != nil {
		Logger.Println("error:", err)
		return nil, err
	}
	if len(out.Stacks) != 1 {
		err := fmt.Errorf("%s stack for name: %s", ErrPrefixDidntFindExactlyOne, stackName)
		Logger.Println("error:", err)
		return nil, err
	}
	outputs := make(map[string]string)
	for _, output := range out.Stacks[0].Outputs {
		outputs[*output.OutputKey] = *output.OutputValue
	}
	if len(outputNames) == 0 {
		return outputs, nil
	}
	result := make(map[string]string)
	for _, name := range outputNames {
		val, ok := outputs[name]
		if !ok {
			err := fmt.Errorf("stack %s has no output: %s", stackName, name)
			Logger.Println("error:", err)
			return nil, err
		}
		result[name] = val
	}
	return result, nil
}
