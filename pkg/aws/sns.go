package aws

import (
	"context"
	"fmt"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
)

// SNSClient publishes raw messages to a fixed SNS topic.
type SNSClient struct {
	client   *sns.Client
	topicArn string
}

func NewSNSClient(cfg sdkaws.Config, topicArn string) *SNSClient {
	return &SNSClient{client: sns.NewFromConfig(cfg), topicArn: topicArn}
}

func (s *SNSClient) Publish(ctx context.Context, message []byte) error {
	if s.topicArn == "" {
		return fmt.Errorf("empty topicArn")
	}
	input := &sns.PublishInput{
		TopicArn: &s.topicArn,
		Message:  awsString(string(message)),
	}
	if _, err := s.client.Publish(ctx, input); err != nil {
		return fmt.Errorf("sns publish failed for topic %s: %w", s.topicArn, err)
	}
	return nil
}

func awsString(s string) *string { return &s }
