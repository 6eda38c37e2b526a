package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"gitlab.ozon.dev/pupkingeorgij/stocksync/internal/kafka"
)

// KafkaTransport maps logical channels to per-priority Kafka topics.
type KafkaTransport struct {
	producer kafka.Producer
	topics   map[string]string
}

func NewKafkaTransport(producer kafka.Producer) *KafkaTransport {
	return &KafkaTransport{
		producer: producer,
		topics: map[string]string{
			ChannelRoutine:   "notify.routine",
			ChannelEscalated: "notify.escalated",
			ChannelCritical:  "notify.critical",
		},
	}
}

func (t *KafkaTransport) Send(ctx context.Context, channel, message string) error {
	topic, ok := t.topics[channel]
	if !ok {
		return fmt.Errorf("unknown notification channel %q", channel)
	}

	payload, err := json.Marshal(struct {
		SentAt  time.Time `json:"sent_at"`
		Message string    `json:"message"`
	}{SentAt: time.Now().UTC(), Message: message})
	if err != nil {
		return err
	}
	return t.producer.SendMessage(ctx, topic, []byte(uuid.NewString()), payload)
}
