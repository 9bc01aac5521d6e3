package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	DefaultAuditQueue = "timesheet.audit"

	auditDialTimeout = 5 * time.Second
	auditHeartbeat   = 10 * time.Second
)

type AuditAction string

const (
	AuditUserCreated       AuditAction = "user.created"
	AuditUserUpdated       AuditAction = "user.updated"
	AuditUserDeleted       AuditAction = "user.deleted"
	AuditChargeCodeCreated AuditAction = "chargecode.created"
	AuditChargeCodeUpdated AuditAction = "chargecode.updated"
	AuditChargeCodeDeleted AuditAction = "chargecode.deleted"
	AuditSettingsUpdated   AuditAction = "settings.updated"
)

type AuditEvent struct {
	Action     AuditAction `json:"action"`
	ActorID    string      `json:"actorId"`
	TargetID   string      `json:"targetId,omitempty"`
	OccurredAt time.Time   `json:"occurredAt"`
}

func NewAuditEvent(action AuditAction, actorID string, targetID string) AuditEvent {
	return AuditEvent{Action: action, ActorID: actorID, TargetID: targetID, OccurredAt: time.Now().UTC()}
}

type AuditPublisher interface {
	Publish(ctx context.Context, event AuditEvent) error
}

// LogAuditPublisher writes events to the process log.
type LogAuditPublisher struct{}

func (LogAuditPublisher) Publish(_ context.Context, event AuditEvent) error {
	log.Printf("audit: %s actor=%s target=%s", event.Action, event.ActorID, event.TargetID)
	return nil
}

// AMQPAuditPublisher sends events as persistent JSON messages to a durable queue.
// The connection is dialed on first use and re-dialed after it closes.
type AMQPAuditPublisher struct {
	url   string
	queue string

	mu         sync.Mutex
	connection *amqp.Connection
	channel    *amqp.Channel
}

func NewAMQPAuditPublisher(url string, queue string) *AMQPAuditPublisher {
	if queue == "" {
		queue = DefaultAuditQueue
	}
	return &AMQPAuditPublisher{url: url, queue: queue}
}

func (publisher *AMQPAuditPublisher) Publish(ctx context.Context, event AuditEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal audit event: %w", err)
	}

	publisher.mu.Lock()
	defer publisher.mu.Unlock()

	channel, err := publisher.channelLocked(ctx)
	if err != nil {
		return err
	}

	err = channel.PublishWithContext(ctx, "", publisher.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    event.OccurredAt,
		Type:         string(event.Action),
		Body:         body,
	})
	if err != nil {
		publisher.resetLocked()
		return fmt.Errorf("publish audit event: %w", err)
	}
	return nil
}

func (publisher *AMQPAuditPublisher) Close() error {
	publisher.mu.Lock()
	defer publisher.mu.Unlock()
	return publisher.resetLocked()
}

// channelLocked dials within the deadline of ctx, AMQP handshake included.
func (publisher *AMQPAuditPublisher) channelLocked(ctx context.Context) (*amqp.Channel, error) {
	if publisher.channel != nil && !publisher.channel.IsClosed() {
		return publisher.channel, nil
	}
	publisher.resetLocked()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("dial audit broker: %w", err)
	}
	timeout := auditDialTimeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
		if timeout <= 0 {
			return nil, fmt.Errorf("dial audit broker: %w", context.DeadlineExceeded)
		}
	}

	connection, err := amqp.DialConfig(publisher.url, amqp.Config{
		Heartbeat: auditHeartbeat,
		Locale:    "en_US",
		Dial:      amqp.DefaultDial(timeout),
	})
	if err != nil {
		return nil, fmt.Errorf("dial audit broker: %w", err)
	}
	channel, err := connection.Channel()
	if err != nil {
		_ = connection.Close()
		return nil, fmt.Errorf("open audit channel: %w", err)
	}
	if _, err := channel.QueueDeclare(publisher.queue, true, false, false, false, nil); err != nil {
		_ = channel.Close()
		_ = connection.Close()
		return nil, fmt.Errorf("declare audit queue: %w", err)
	}

	publisher.connection = connection
	publisher.channel = channel
	return channel, nil
}

func (publisher *AMQPAuditPublisher) resetLocked() error {
	var firstErr error
	if publisher.channel != nil {
		if err := publisher.channel.Close(); err != nil && err != amqp.ErrClosed {
			firstErr = err
		}
		publisher.channel = nil
	}
	if publisher.connection != nil {
		if err := publisher.connection.Close(); err != nil && err != amqp.ErrClosed && firstErr == nil {
			firstErr = err
		}
		publisher.connection = nil
	}
	return firstErr
}

// publishAudit sends event and logs instead of failing the caller.
func publishAudit(publisher AuditPublisher, event AuditEvent) {
	if publisher == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), auditDialTimeout)
	defer cancel()
	if err := publisher.Publish(ctx, event); err != nil {
		log.Printf("audit: %s not published: %v", event.Action, err)
	}
}
