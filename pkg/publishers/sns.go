package publishers

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
)

// snsClient is the part of the SNS API the publisher calls.
type snsClient interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// snsPublisher publishes each event to an SNS topic. The event type travels
// as a message attribute for subscription filter policies.
type snsPublisher struct {
	sink
	topicARN string
	client   snsClient
}

func newSNSPublisher(ctx context.Context, cfg PublisherConfig, log Logger) (Publisher, error) {
	awsCfg, err := loadAWSConfig(ctx, cfg.Region, cfg.AWS)
	if err != nil {
		return nil, err
	}
	return &snsPublisher{
		sink:     newSink(cfg, log),
		topicARN: cfg.Target,
		client:   sns.NewFromConfig(awsCfg),
	}, nil
}

func (s *snsPublisher) Publish(ctx context.Context, evt Event) error {
	body, err := encodeEvent(evt)
	if err != nil {
		return err
	}
	_, err = s.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(s.topicARN),
		Message:  aws.String(string(body)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			eventTypeAttribute: {DataType: aws.String("String"), StringValue: aws.String(evt.Type)},
		},
	})
	return s.delivered(evt, err)
}
