package messaging

import (
	"context"
	"encoding/json"
	"time"

	"example.com/galleria/services/exhibition/config"
	"example.com/galleria/services/exhibition/internal/models"

	"github.com/Azure/azure-sdk-for-go/sdk/messaging/azservicebus"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// TransitionEvent is the payload published for every successful lifecycle
// transition. Downstream consumers (notification delivery, the admin
// activity feed) subscribe to the topic; this core never waits on them.
type TransitionEvent struct {
	ExhibitionID uuid.UUID                `json:"exhibition_id"`
	Slug         string                   `json:"slug"`
	FromStatus   *models.ExhibitionStatus `json:"from_status"`
	ToStatus     models.ExhibitionStatus  `json:"to_status"`
	ChangedBy    uuid.UUID                `json:"changed_by"`
	Reason       string                   `json:"reason"`
	OccurredAt   time.Time                `json:"occurred_at"`
}

// TransitionPublisher publishes lifecycle transition events
type TransitionPublisher interface {
	PublishTransition(ctx context.Context, event TransitionEvent) error
	Close() error
}

// serviceBusPublisher implements TransitionPublisher over Azure Service Bus
type serviceBusPublisher struct {
	client *azservicebus.Client
	sender *azservicebus.Sender
	topic  string
}

// NewTransitionPublisher creates a new Azure Service Bus publisher
func NewTransitionPublisher(cfg config.ServiceBusConfig) (TransitionPublisher, error) {
	if cfg.ConnectionString == "" {
		return nil, errors.New("Azure Service Bus connection string is empty")
	}

	client, err := azservicebus.NewClientFromConnectionString(cfg.ConnectionString, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create Service Bus client")
	}

	sender, err := client.NewSender(cfg.TopicName, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create Service Bus sender")
	}

	return &serviceBusPublisher{
		client: client,
		sender: sender,
		topic:  cfg.TopicName,
	}, nil
}

// PublishTransition sends a transition event to the topic
func (p *serviceBusPublisher) PublishTransition(ctx context.Context, event TransitionEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return errors.Wrap(err, "failed to marshal transition event")
	}

	msg := &azservicebus.Message{
		Body: data,
		ApplicationProperties: map[string]interface{}{
			"source":    "exhibition-service",
			"to_status": string(event.ToStatus),
			"time":      time.Now().UTC().Format(time.RFC3339),
		},
	}

	return p.sender.SendMessage(ctx, msg, nil)
}

// Close closes the Service Bus client
func (p *serviceBusPublisher) Close() error {
	if p.sender != nil {
		if err := p.sender.Close(context.Background()); err != nil {
			return err
		}
	}

	if p.client != nil {
		return p.client.Close(context.Background())
	}

	return nil
}
