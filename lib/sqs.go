package lib

import (
	"context"
	"fmt"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	sqstypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"
)

var sqsClient *sqs.Client
var sqsClientLock sync.Mutex

func SQSClientExplicit(accessKeyID, accessKeySecret, region string) *sqs.Client {
	return sqs.NewFromConfig(*SessionExplicit(accessKeyID, accessKeySecret, region))
}

func SQSClient() *sqs.Client {
	sqsClientLock.Lock()
	defer sqsClientLock.Unlock()
	if sqsClient == nil {
		sqsClient = sqs.NewFromConfig(*Session())
	}
	return sqsClient
}

func SqsListQueues(ctx context.Context) ([]string, error) {
	var nextToken *string
	var queues []string
	for {
		out, err := SQSClient().ListQueues(ctx, &sqs.ListQueuesInput{
			NextToken: nextToken,
		})
		if err != nil {
			Logger.Println("error:", err)
			return nil, err
		}
		queues = append(queues, out.QueueUrls...)
		if out.NextToken == nil {
			break
		}
		nextToken = out.NextToken
	}
	return queues, nil
}

func SqsCreateQueue(ctx context.Context, name string, attrs map[string]string) (string, error) {
	Logger.Println("create queue:", name)
	out, err := SQSClient().CreateQueue(ctx, &sqs.CreateQueueInput{
		QueueName:  aws.String(name),
		Attributes: attrs,
	})
	if err != nil {
		Logger.Println("error:", err)
		return "", err
	}
	return *out.QueueUrl, nil
}

func SqsQueueArn(ctx context.Context, queueUrl string) (string, error) {
	out, err := SQSClient().GetQueueAttributes(ctx, &sqs.GetQueueAttributesInput{
		QueueUrl:       aws.String(queueUrl),
		AttributeNames: []sqstypes.QueueAttributeName{sqstypes.QueueAttributeNameQueueArn},
	})
	if err != nil {
		Logger.Println("error:", err)
		return "", err
	}
	arn, ok := out.Attributes[string(sqstypes.QueueAttributeNameQueueArn)]
	if !ok {
		err := fmt.Errorf("queue has no arn attribute: %s", queueUrl)
		Logger.Println("error:", err)
		return "", err
	}
	return arn, nil
}

func SqsSetQueuePolicy(ctx context.Context, queueUrl, policy string) error {
	_, err := SQSClient().SetQueueAttributes(ctx, &sqs.SetQueueAttributesInput{
		QueueUrl: aws.String(queueUrl),
		Attributes: map[string]string{
			string(sqstypes.QueueAttributeNamePolicy): policy,
		},
	})
	if err != nil {
		Logger.Println("error:", err)
		return err
	}
	return nil
}

func SqsDeleteQueue(ctx context.Context, queueUrl string) error {
	Logger.Println("delete queue:", queueUrl)
	_, err := SQSClient().DeleteQueue(ctx, &sqs.DeleteQueueInput{
		QueueUrl: aws.String(queueUrl),
	})
	if err != nil {
		Logger.Println("error:", err)
		return err
	}
	return nil
}

func SqsReceive(ctx context.Context, queueUrl string, waitSeconds int32) ([]sqstypes.Message, error) {
	out, err := SQSClient().ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
		QueueUrl:            aws.String(queueUrl),
		MaxNumberOfMessages: 10,
		WaitTimeSeconds:     waitSeconds,
	})
	if err != nil {
		return nil, err
	}
	return out.Messages, nil
}

func SqsDeleteMessages(ctx context.Context, queueUrl string, messages []sqstypes.Message) error {
	if len(messages) == 0 {
		return nil
	}
	var entries []sqstypes.DeleteMessageBatchRequestEntry
	for i, message := range messages {
		entries = append(entries, sqstypes.DeleteMessageBatchRequestEntry{
			Id:            aws.String(fmt.Sprint(i)),
			ReceiptHandle: message.ReceiptHandle,
		})
	}
	out, err := SQSClient().DeleteMessageBatch(ctx, &sqs.DeleteMessageBatchInput{
		QueueUrl: aws.String(queueUrl),
		Entries:  entries,
	})
	if err != nil {
		Logger.Println("error:", err)
		return err
	}
	if len(out.Failed) != 0 {
		err := fmt.Errorf("failed to delete %d messages from: %s", len(out.Failed), queueUrl)
		Logger.Println("error:", err)
		return err
	}
	return nil
}
