package publishers

import (
	"context"
	"fmt"

	"cloud.google.com/go/pubsub"
	"google.golang.org/api/option"
)

// gcpPubSubPublisher publishes each event to a Pub/Sub topic and waits for
// the server ack.
type gcpPubSubPublisher struct {
	sink
	client *pubsub.Client
	topic  *pubsub.Topic
}

func newGCPPubSubPublisher(ctx context.Context, cfg PublisherConfig, log Logger) (Publisher, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	client, err := pubsub.NewClient(ctx, cfg.Project, opts...)
	if err != nil {
		return nil, fmt.Errorf("sink %q: create pubsub client: %w", cfg.ID, err)
	}

	return &gcpPubSubPublisher{
		sink:   newSink(cfg, log),
		client: client,
		topic:  client.Topic(cfg.Target),
	}, nil
}

func (g *gcpPubSubPublisher) Publish(ctx context.Context, evt Event) error {
	data, err := encodeEvent(evt)
	if err != nil {
		return err
	}
	_, err = g.topic.Publish(ctx, &pubsub.Message{
		Data:       data,
		Attributes: map[string]string{eventTypeAttribute: evt.Type},
	}).Get(ctx)
	return g.delivered(evt, err)
}

// Close flushes pending messages and releases the client.
func (g *gcpPubSubPublisher) Close() error {
	g.topic.Stop()
	return g.client.Close()
}
