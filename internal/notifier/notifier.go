package notifier

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/cenkalti/backoff/v4"
	"github.com/nats-io/nats.go/jetstream"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/stampbook/sb-registry/internal/adapter"
	"github.com/stampbook/sb-registry/internal/domain"
	"github.com/stampbook/sb-registry/internal/logger"
	"github.com/stampbook/sb-registry/internal/messaging"
	"github.com/stampbook/sb-registry/internal/metrics"
	"github.com/stampbook/sb-registry/internal/store"
	"github.com/stampbook/sb-registry/internal/store/schema"
	"github.com/stampbook/sb-registry/internal/webhook"
)

const (
	DEFAULT_WORKER_POOL_SIZE  = 8
	DEFAULT_WORKER_QUEUE_SIZE = 256

	DEFAULT_RETRY_INITIAL_INTERVAL = 5 * time.Second
	DEFAULT_RETRY_MAX_INTERVAL     = 5 * time.Minute
	DEFAULT_MAX_ATTEMPTS           = 5

	// ACK_WAIT bounds how long the broker waits for an ack before redelivery;
	// the handler acks as soon as the fan-out is scheduled
	ACK_WAIT = 30 * time.Second

	// MAX_DELIVER caps redeliveries of a message the handler keeps naking
	MAX_DELIVER = 5

	// MAX_RESPONSE_BYTES caps how much of a webhook endpoint's response body
	// is read into the delivery audit record
	MAX_RESPONSE_BYTES = 4 * 1024
)

// Config holds the notifier's consumer and delivery settings
type Config struct {
	// StreamName is the JetStream stream carrying registry events
	StreamName string
	// ConsumerName is the durable consumer name; restarts resume from the
	// last acked event
	ConsumerName string
	// WorkerPoolSize bounds concurrent webhook deliveries
	WorkerPoolSize int
	// WorkerQueueSize bounds deliveries waiting for a worker
	WorkerQueueSize int
	// RetryInitialInterval is the first backoff delay after a failed delivery
	RetryInitialInterval time.Duration
	// RetryMaxInterval caps the delay between delivery attempts
	RetryMaxInterval time.Duration
	// DefaultMaxAttempts is the attempt budget for clients whose record
	// carries no positive budget of its own
	DefaultMaxAttempts int
}

// Notifier fans registry events out to registered webhook clients. Each event
// is delivered to every active client whose filters match, with per-client
// retries and a delivery audit row per client.
type Notifier struct {
	config  Config
	store   store.Store
	js      adapter.JetStream
	http    adapter.HTTPClient
	io      adapter.IO
	json    adapter.JSON
	clock   adapter.Clock
	metrics *metrics.Metrics

	pool pond.Pool

	running   atomic.Bool
	stopChan  chan struct{}
	stoppedCh chan struct{}
}

// New creates a notifier. Zero config fields fall back to defaults.
func New(
	cfg Config,
	st store.Store,
	js adapter.JetStream,
	httpClient adapter.HTTPClient,
	ioAdapter adapter.IO,
	jsonAdapter adapter.JSON,
	clock adapter.Clock,
	m *metrics.Metrics,
) *Notifier {
	if cfg.StreamName == "" {
		cfg.StreamName = messaging.StreamName
	}
	if cfg.WorkerPoolSize == 0 {
		cfg.WorkerPoolSize = DEFAULT_WORKER_POOL_SIZE
	}
	if cfg.WorkerQueueSize == 0 {
		cfg.WorkerQueueSize = DEFAULT_WORKER_QUEUE_SIZE
	}
	if cfg.RetryInitialInterval == 0 {
		cfg.RetryInitialInterval = DEFAULT_RETRY_INITIAL_INTERVAL
	}
	if cfg.RetryMaxInterval == 0 {
		cfg.RetryMaxInterval = DEFAULT_RETRY_MAX_INTERVAL
	}
	if cfg.DefaultMaxAttempts == 0 {
		cfg.DefaultMaxAttempts = DEFAULT_MAX_ATTEMPTS
	}

	return &Notifier{
		config:    cfg,
		store:     st,
		js:        js,
		http:      httpClient,
		io:        ioAdapter,
		json:      jsonAdapter,
		clock:     clock,
		metrics:   m,
		pool:      pond.NewPool(cfg.WorkerPoolSize, pond.WithQueueSize(cfg.WorkerQueueSize)),
		stopChan:  make(chan struct{}),
		stoppedCh: make(chan struct{}),
	}
}

// Start consumes the event stream until the context is canceled or Stop is
// called. It blocks for the notifier's whole lifetime.
func (n *Notifier) Start(ctx context.Context) error {
	if !n.running.CompareAndSwap(false, true) {
		return fmt.Errorf("notifier already running")
	}
	defer func() {
		n.running.Store(false)
		close(n.stoppedCh)
	}()

	consumer, err := n.js.CreateOrUpdateConsumer(ctx, n.config.StreamName, jetstream.ConsumerConfig{
		Durable:       n.config.ConsumerName,
		FilterSubject: messaging.SubjectWildcard,
		AckPolicy:     jetstream.AckExplicitPolicy,
		AckWait:       ACK_WAIT,
		MaxDeliver:    MAX_DELIVER,
	})
	if err != nil {
		return fmt.Errorf("failed to create durable consumer: %w", err)
	}

	logger.InfoCtx(ctx, "Starting webhook notifier",
		zap.String("stream", n.config.StreamName),
		zap.String("consumer", n.config.ConsumerName),
		zap.Int("worker_pool_size", n.config.WorkerPoolSize),
		zap.Int("worker_queue_size", n.config.WorkerQueueSize))

	consumeCtx, err := consumer.Consume(func(msg adapter.Message) {
		n.HandleMessage(ctx, msg)
	})
	if err != nil {
		return fmt.Errorf("failed to start consuming: %w", err)
	}

	select {
	case <-ctx.Done():
		logger.InfoCtx(ctx, "Webhook notifier stopping due to context cancellation", zap.Error(ctx.Err()))
	case <-n.stopChan:
		logger.InfoCtx(ctx, "Webhook notifier stop requested")
	}

	consumeCtx.Drain()
	n.Close()
	return nil
}

// Stop signals Start to shut down and waits for it to finish
func (n *Notifier) Stop(ctx context.Context) error {
	if !n.running.CompareAndSwap(true, false) {
		return nil
	}

	close(n.stopChan)

	select {
	case <-n.stoppedCh:
		logger.InfoCtx(ctx, "Webhook notifier stopped gracefully")
		return nil
	case <-ctx.Done():
		logger.WarnCtx(ctx, "Webhook notifier stop interrupted by context timeout")
		return ctx.Err()
	}
}

// Close stops the worker pool and waits for in-flight deliveries to finish
func (n *Notifier) Close() {
	n.pool.StopAndWait()
}

// HandleMessage processes one event from the stream: it looks up the matching
// webhook clients, records a pending delivery row per client, and schedules
// the deliveries on the worker pool. The message is acked once the fan-out is
// scheduled so a slow or dead endpoint never blocks the stream; per-client
// outcomes live in the audit table.
func (n *Notifier) HandleMessage(ctx context.Context, msg adapter.Message) {
	var event domain.RegistryEvent
	if err := n.json.Unmarshal(msg.Data(), &event); err != nil {
		logger.ErrorCtx(ctx, fmt.Errorf("failed to unmarshal registry event: %w", err))
		// The payload will never parse; redelivering it would loop forever
		if terr := msg.Term(); terr != nil {
			logger.ErrorCtx(ctx, fmt.Errorf("failed to terminate message: %w", terr))
		}
		return
	}

	clients, err := n.store.GetActiveWebhookClientsByEventType(ctx, string(event.EventType))
	if err != nil {
		logger.ErrorCtx(ctx, fmt.Errorf("failed to load webhook clients: %w", err),
			zap.String("event_id", event.EventID))
		if nerr := msg.Nak(); nerr != nil {
			logger.ErrorCtx(ctx, fmt.Errorf("failed to nak message: %w", nerr))
		}
		return
	}

	payload := msg.Data()
	for _, client := range clients {
		delivery := &schema.WebhookDelivery{
			ClientID:       client.ClientID,
			EventID:        event.EventID,
			EventType:      string(event.EventType),
			Payload:        datatypes.JSON(payload),
			DeliveryStatus: schema.WebhookDeliveryStatusPending,
		}
		if err := n.store.CreateWebhookDelivery(ctx, delivery); err != nil {
			// Skip this client rather than redeliver the event to all of them
			logger.ErrorCtx(ctx, fmt.Errorf("failed to create webhook delivery record: %w", err),
				zap.String("client_id", client.ClientID),
				zap.String("event_id", event.EventID))
			continue
		}

		n.pool.Submit(func() {
			n.DeliverWithRetry(ctx, client, &event, delivery.ID)
		})
	}

	if err := msg.Ack(); err != nil {
		logger.ErrorCtx(ctx, fmt.Errorf("failed to ack message: %w", err),
			zap.String("event_id", event.EventID))
	}
}

// DeliverWithRetry attempts a delivery with exponential backoff until it
// succeeds, the client's attempt budget runs out, or the context is canceled
func (n *Notifier) DeliverWithRetry(ctx context.Context, client *schema.WebhookClient, event *domain.RegistryEvent, deliveryID uint64) webhook.DeliveryResult {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = n.config.RetryInitialInterval
	b.MaxInterval = n.config.RetryMaxInterval
	b.Multiplier = 2.0
	b.RandomizationFactor = 0.5
	b.MaxElapsedTime = 0

	maxAttempts := client.RetryMaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = n.config.DefaultMaxAttempts
	}
	maxRetries := maxAttempts - 1
	if maxRetries < 0 {
		maxRetries = 0
	}

	var attempt int
	var result webhook.DeliveryResult

	operation := func() error {
		attempt++
		var err error
		result, err = n.Deliver(ctx, client, event, deliveryID, attempt)
		return err
	}

	notify := func(err error, wait time.Duration) {
		logger.WarnCtx(ctx, "Webhook delivery failed, retrying",
			zap.Error(err),
			zap.String("client_id", client.ClientID),
			zap.String("event_id", event.EventID),
			zap.Int("attempt", attempt),
			zap.Duration("next_retry_in", wait))
	}

	err := backoff.RetryNotify(operation,
		backoff.WithMaxRetries(backoff.WithContext(b, ctx), uint64(maxRetries)), notify)
	if err != nil {
		logger.ErrorCtx(ctx, fmt.Errorf("webhook delivery failed permanently: %w", err),
			zap.String("client_id", client.ClientID),
			zap.String("event_id", event.EventID),
			zap.Int("attempts", attempt))
		n.metrics.IncrementWebhookDelivery(string(schema.WebhookDeliveryStatusFailed))
		return result
	}

	n.metrics.IncrementWebhookDelivery(string(schema.WebhookDeliveryStatusSuccess))
	return result
}

// Deliver performs a single signed HTTP delivery attempt and records its
// outcome on the delivery audit row. A nil error means the endpoint
// acknowledged the event with a 2xx.
func (n *Notifier) Deliver(ctx context.Context, client *schema.WebhookClient, event *domain.RegistryEvent, deliveryID uint64, attempt int) (webhook.DeliveryResult, error) {
	logger.InfoCtx(ctx, "Attempting webhook delivery",
		zap.String("client_id", client.ClientID),
		zap.String("event_id", event.EventID),
		zap.Int("attempt", attempt))

	payload, signature, timestamp, err := webhook.GenerateSignedPayload(client.WebhookSecret, event, n.clock.Now())
	if err != nil {
		logger.ErrorCtx(ctx, errors.New("failed to generate signed payload"),
			zap.Error(err), zap.String("client_id", client.ClientID))
		n.updateDeliveryStatus(ctx, client, deliveryID, schema.WebhookDeliveryStatusFailed, attempt, nil, "", err.Error())

		// A secret that cannot decode never will; retrying is pointless
		return webhook.DeliveryResult{Success: false, Error: err.Error()}, backoff.Permanent(err)
	}

	headers := map[string]string{
		"Content-Type":          "application/json",
		webhook.HeaderSignature: signature,
		webhook.HeaderEventID:   event.EventID,
		webhook.HeaderEventType: string(event.EventType),
		webhook.HeaderTimestamp: strconv.FormatInt(timestamp, 10),
		"User-Agent":            webhook.UserAgent,
	}

	resp, err := n.http.Post(ctx, client.WebhookURL, headers, bytes.NewReader(payload))
	if err != nil {
		logger.ErrorCtx(ctx, errors.New("failed to post webhook request"),
			zap.Error(err), zap.String("client_id", client.ClientID))
		n.updateDeliveryStatus(ctx, client, deliveryID, schema.WebhookDeliveryStatusFailed, attempt, nil, "", err.Error())
		return webhook.DeliveryResult{Success: false, Error: err.Error()}, err
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.WarnCtx(ctx, "failed to close response body", zap.Error(err), zap.String("url", client.WebhookURL))
		}
	}()

	respBody, err := n.io.ReadAll(io.LimitReader(resp.Body, MAX_RESPONSE_BYTES))
	if err != nil {
		logger.ErrorCtx(ctx, errors.New("failed to read webhook response body"),
			zap.Error(err), zap.String("client_id", client.ClientID))
		// The status code alone still decides the outcome
		respBody = []byte{}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		logger.ErrorCtx(ctx, errors.New("webhook endpoint rejected delivery"),
			zap.Int("status_code", resp.StatusCode),
			zap.String("client_id", client.ClientID))

		err := fmt.Errorf("HTTP %d", resp.StatusCode)
		n.updateDeliveryStatus(ctx, client, deliveryID, schema.WebhookDeliveryStatusFailed, attempt, &resp.StatusCode, string(respBody), err.Error())
		return webhook.DeliveryResult{Success: false, StatusCode: resp.StatusCode, Body: string(respBody)}, err
	}

	n.updateDeliveryStatus(ctx, client, deliveryID, schema.WebhookDeliveryStatusSuccess, attempt, &resp.StatusCode, string(respBody), "")
	return webhook.DeliveryResult{Success: true, StatusCode: resp.StatusCode, Body: string(respBody)}, nil
}

func (n *Notifier) updateDeliveryStatus(ctx context.Context, client *schema.WebhookClient, deliveryID uint64, status schema.WebhookDeliveryStatus, attempts int, responseStatus *int, responseBody, errorMessage string) {
	if err := n.store.UpdateWebhookDeliveryStatus(ctx, deliveryID, status, attempts, responseStatus, responseBody, errorMessage); err != nil {
		logger.ErrorCtx(ctx, errors.New("failed to update webhook delivery status"),
			zap.Error(err),
			zap.String("client_id", client.ClientID))
	}
}
