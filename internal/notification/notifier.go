package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"rnimart-be/internal/logger"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type Notifier interface {
	Notify(ctx context.Context, msg Message) error
}

// ----------------- Log -----------------

type logNotifier struct{}

// NewLogNotifier only writes the message to the application log.
func NewLogNotifier() Notifier {
	return logNotifier{}
}

func (logNotifier) Notify(ctx context.Context, msg Message) error {
	logger.FromCtx(ctx).Info("notification",
		zap.String("kind", string(msg.Kind)),
		zap.String("order_id", msg.OrderID),
		zap.String("recipient", msg.Recipient),
		zap.String("text", msg.Text),
		zap.String("link", msg.Link),
	)
	return nil
}

// ----------------- Webhook -----------------

type webhookNotifier struct {
	url        string
	httpClient *http.Client
}

// NewWebhookNotifier POSTs each message as JSON to url.
func NewWebhookNotifier(url string) Notifier {
	return &webhookNotifier{
		url:        url,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (w *webhookNotifier) Notify(ctx context.Context, msg Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("webhook request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("webhook returned %d: %s", resp.StatusCode, string(respBody))
	}
	return nil
}

// ----------------- Kafka -----------------

// MessageWriter is the subset of *kafka.Writer used here.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type kafkaNotifier struct {
	w MessageWriter
}

func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
	}
}

// NewKafkaNotifier publishes messages keyed by order id, so every message of
// one order lands on the same partition.
func NewKafkaNotifier(w MessageWriter) Notifier {
	return &kafkaNotifier{w: w}
}

func (k *kafkaNotifier) Notify(ctx context.Context, msg Message) error {
	value, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return k.w.WriteMessages(ctx, kafka.Message{
		Key:   []byte(msg.OrderID),
		Value: value,
		Time:  time.Now(),
		Headers: []kafka.Header{
			{Key: "x-event-type", Value: []byte(msg.Kind)},
			{Key: "x-event-version", Value: []byte("1")},
		},
	})
}

func (k *kafkaNotifier) Close() error {
	return k.w.Close()
}
